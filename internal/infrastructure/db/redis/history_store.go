package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/indrikh/siteCloneWithAi/internal/core/domain"
)

// HistoryStore keeps each session's messages in a Redis list, newest at the head.
// Key format: chat:history:<session_id>
type HistoryStore struct {
	client *redis.Client
	log    zerolog.Logger
}

func NewHistoryStore(client *redis.Client, log zerolog.Logger) *HistoryStore {
	return &HistoryStore{client: client, log: log}
}

// Push prepends msg, trims the list to max entries and refreshes its expiry,
// all inside one MULTI/EXEC.
func (s *HistoryStore) Push(ctx context.Context, sessionID string, msg domain.Message, max int, ttl time.Duration) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	key := historyKey(sessionID)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, key, payload)
		pipe.LTrim(ctx, key, 0, int64(max-1))
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return storeError("push history", err)
	}
	return nil
}

// Recent returns up to limit messages, newest first. Entries that do not
// decode are skipped.
func (s *HistoryStore) Recent(ctx context.Context, sessionID string, limit int) ([]domain.Message, error) {
	raw, err := s.client.LRange(ctx, historyKey(sessionID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, storeError("read history", err)
	}

	out := make([]domain.Message, 0, len(raw))
	for _, item := range raw {
		var m domain.Message
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			s.log.Warn().Err(err).Str("session_id", sessionID).Msg("skipping undecodable history entry")
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *HistoryStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, historyKey(sessionID)).Err(); err != nil {
		return storeError("clear history", err)
	}
	return nil
}

func historyKey(sessionID string) string {
	return "chat:history:" + sessionID
}
