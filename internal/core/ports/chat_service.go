package ports

import (
	"context"

	"github.com/indrikh/siteCloneWithAi/internal/core/domain"
)

// Completer forwards an ordered message sequence to an external
// text-completion service and returns its single reply.
type Completer interface {
	Complete(ctx context.Context, messages []domain.Message) (string, error)
}

// ChatService is the completion gateway.
type ChatService interface {
	Complete(ctx context.Context, sessionID, userMessage string) (string, error)
}
