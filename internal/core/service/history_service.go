package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/indrikh/siteCloneWithAi/internal/api/metrics"
	"github.com/indrikh/siteCloneWithAi/internal/core/domain"
	"github.com/indrikh/siteCloneWithAi/internal/core/ports"
)

// HistoryService owns session chat history. History is addressed purely by
// session id; there is no ownership check against a user.
type HistoryService struct {
	repo     ports.HistoryRepository
	archiver ports.MessageArchiver
	log      zerolog.Logger
	now      func() time.Time
}

// NewHistoryService returns a HistoryService. archiver may be nil.
func NewHistoryService(repo ports.HistoryRepository, archiver ports.MessageArchiver, log zerolog.Logger) *HistoryService {
	return &HistoryService{
		repo:     repo,
		archiver: archiver,
		log:      log,
		now:      time.Now,
	}
}

// AppendMessage stores a message at the head of the session history. Store
// failures are logged and reported as false; callers decide whether to go on
// without persisted history.
func (s *HistoryService) AppendMessage(ctx context.Context, sessionID string, role domain.Role, content string) bool {
	msg := domain.NewMessage(role, content, s.now())

	if err := s.repo.Push(ctx, sessionID, msg, domain.HistoryMaxMessages, domain.HistoryTTL); err != nil {
		metrics.HistoryStoreErrorsTotal.WithLabelValues("append").Inc()
		s.log.Error().Err(err).Str("session_id", sessionID).Str("role", string(role)).Msg("failed to save chat message")
		return false
	}
	metrics.ChatMessagesTotal.WithLabelValues(string(role)).Inc()

	if s.archiver != nil {
		s.archiver.Enqueue(ports.ArchivedMessage{SessionID: sessionID, Message: msg})
	}
	return true
}

// GetHistory returns up to limit most recent messages, oldest first. It never
// fails: a missing session or a store error yields an empty slice.
func (s *HistoryService) GetHistory(ctx context.Context, sessionID string, limit int) []domain.Message {
	if limit <= 0 {
		limit = domain.DefaultHistoryLimit
	}

	recent, err := s.repo.Recent(ctx, sessionID, limit)
	if err != nil {
		metrics.HistoryStoreErrorsTotal.WithLabelValues("read").Inc()
		s.log.Error().Err(err).Str("session_id", sessionID).Msg("failed to read chat history")
		return []domain.Message{}
	}

	out := make([]domain.Message, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		out = append(out, recent[i])
	}
	return out
}

// ClearHistory drops the whole session history immediately.
func (s *HistoryService) ClearHistory(ctx context.Context, sessionID string) bool {
	if err := s.repo.Delete(ctx, sessionID); err != nil {
		metrics.HistoryStoreErrorsTotal.WithLabelValues("clear").Inc()
		s.log.Error().Err(err).Str("session_id", sessionID).Msg("failed to clear chat history")
		return false
	}
	return true
}
