package ports

import (
	"context"

	"github.com/indrikh/siteCloneWithAi/internal/core/domain"
)

// HistoryService is the session & history manager.
type HistoryService interface {
	AppendMessage(ctx context.Context, sessionID string, role domain.Role, content string) bool
	GetHistory(ctx context.Context, sessionID string, limit int) []domain.Message
	ClearHistory(ctx context.Context, sessionID string) bool
}
