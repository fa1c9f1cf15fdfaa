package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/indrikh/siteCloneWithAi/internal/api/metrics"
	"github.com/indrikh/siteCloneWithAi/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	insertTimeout  = 5 * time.Second
)

// Dispatcher routes archived messages to a fixed set of workers using
// consistent hashing on the session id, preserving per-session ordering.
type Dispatcher struct {
	workers []chan ports.ArchivedMessage
	repo    ports.ArchiveRepository
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, repo ports.ArchiveRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.ArchivedMessage, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.ArchivedMessage, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers exit once Close has been
// called and their channel is drained, or when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands msg to the worker responsible for its session. It never
// blocks: when that worker's channel is full, or after Close, the message
// is dropped.
func (d *Dispatcher) Enqueue(msg ports.ArchivedMessage) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		metrics.ArchiveDroppedTotal.Inc()
		return
	}

	idx := d.shardIndex(msg.SessionID)
	select {
	case d.workers[idx] <- msg:
		metrics.ArchiveQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
	default:
		metrics.ArchiveDroppedTotal.Inc()
		d.log.Warn().Str("session_id", msg.SessionID).Int("worker_id", idx).Msg("archive queue full, message dropped")
	}
}

// Close stops accepting messages and waits for the workers to drain.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// shardIndex maps a session id deterministically to a worker index.
func (d *Dispatcher) shardIndex(sessionID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.ArchivedMessage) {
	defer d.wg.Done()
	depth := metrics.ArchiveQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			depth.Dec()
			d.insert(ctx, id, msg)
		}
	}
}

func (d *Dispatcher) insert(ctx context.Context, id int, msg ports.ArchivedMessage) {
	insertCtx, cancel := context.WithTimeout(ctx, insertTimeout)
	defer cancel()

	if err := d.repo.InsertMessage(insertCtx, msg); err != nil {
		metrics.ArchiveErrorsTotal.Inc()
		d.log.Error().Err(err).
			Str("session_id", msg.SessionID).
			Int("worker_id", id).
			Msg("archive insert failed")
	}
}
