package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/indrikh/siteCloneWithAi/internal/api/metrics"
	"github.com/indrikh/siteCloneWithAi/internal/core/domain"
	"github.com/indrikh/siteCloneWithAi/internal/core/ports"
)

// SystemPrompt is prepended to the completion context when the session
// history carries no system message of its own.
const SystemPrompt = "You are a helpful assistant for a gaming community site similar to Majestic RP. " +
	"You can provide information about the game, community features, and help with common questions. " +
	"Be friendly and concise."

// ChatService assembles a prompt from session history and forwards it to the
// completion service. A single attempt is made per call; retry policy, if
// any, belongs to the Completer.
type ChatService struct {
	history   ports.HistoryService
	completer ports.Completer
	window    int
	log       zerolog.Logger
}

func NewChatService(history ports.HistoryService, completer ports.Completer, log zerolog.Logger) *ChatService {
	return &ChatService{
		history:   history,
		completer: completer,
		window:    domain.DefaultHistoryLimit,
		log:       log,
	}
}

// Complete records the user message, asks the completion service for a reply
// and records the reply. Completion failures are returned as domain.ErrGateway.
func (s *ChatService) Complete(ctx context.Context, sessionID, userMessage string) (string, error) {
	saved := s.history.AppendMessage(ctx, sessionID, domain.RoleUser, userMessage)

	history := s.history.GetHistory(ctx, sessionID, s.window)
	if !saved {
		// Proceed without persisted history, but never drop the question itself.
		history = append(history, domain.NewMessage(domain.RoleUser, userMessage, time.Now()))
	}

	messages := make([]domain.Message, 0, len(history)+1)
	if !hasSystemMessage(history) {
		messages = append(messages, domain.Message{Role: domain.RoleSystem, Content: SystemPrompt})
	}
	messages = append(messages, history...)

	start := time.Now()
	reply, err := s.completer.Complete(ctx, messages)
	metrics.CompletionDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.CompletionErrorsTotal.Inc()
		s.log.Error().Err(err).Str("session_id", sessionID).Int("messages", len(messages)).Msg("completion failed")
		return "", fmt.Errorf("%w: %w", domain.ErrGateway, err)
	}

	s.history.AppendMessage(ctx, sessionID, domain.RoleAssistant, reply)
	return reply, nil
}

func hasSystemMessage(messages []domain.Message) bool {
	for _, m := range messages {
		if m.Role == domain.RoleSystem {
			return true
		}
	}
	return false
}
