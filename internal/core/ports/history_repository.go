package ports

import (
	"context"
	"time"

	"github.com/indrikh/siteCloneWithAi/internal/core/domain"
)

// HistoryRepository persists per-session chat history in the key-value store.
type HistoryRepository interface {
	// Push prepends msg to the session list, trims it to max entries and
	// resets its expiry to ttl.
	Push(ctx context.Context, sessionID string, msg domain.Message, max int, ttl time.Duration) error
	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, sessionID string, limit int) ([]domain.Message, error)
	Delete(ctx context.Context, sessionID string) error
}

// ArchivedMessage is a history entry handed to the transcript archive.
type ArchivedMessage struct {
	SessionID string
	Message   domain.Message
}

// MessageArchiver accepts messages for asynchronous, best-effort archival.
type MessageArchiver interface {
	Enqueue(msg ArchivedMessage)
}

// ArchiveRepository stores archived messages durably.
type ArchiveRepository interface {
	InsertMessage(ctx context.Context, msg ArchivedMessage) error
}
