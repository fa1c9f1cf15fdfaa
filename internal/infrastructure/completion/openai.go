// Package completion adapts an OpenAI-compatible chat completion API to the
// ports.Completer interface.
package completion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"github.com/indrikh/siteCloneWithAi/internal/api/metrics"
	"github.com/indrikh/siteCloneWithAi/internal/core/domain"
)

const (
	defaultModel     = "gpt-4o"
	defaultMaxTokens = 1000
	defaultTimeout   = 60 * time.Second
)

// ErrEmptyReply is returned when the service answers without any choice.
var ErrEmptyReply = errors.New("completion returned no choices")

// Config holds the connection and request settings of the completion client.
type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	Timeout   time.Duration
	// MaxAttempts is the total number of tries per call. Values below 2 disable retries.
	MaxAttempts int
}

// Client is a ports.Completer backed by go-openai.
type Client struct {
	api         *openai.Client
	model       string
	maxTokens   int
	timeout     time.Duration
	maxAttempts int
	backoff     func() backoff.BackOff
	log         zerolog.Logger
}

func NewClient(cfg Config, log zerolog.Logger) *Client {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	apiCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &Client{
		api:         openai.NewClientWithConfig(apiCfg),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		timeout:     cfg.Timeout,
		maxAttempts: cfg.MaxAttempts,
		backoff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			b.MaxInterval = 5 * time.Second
			return b
		},
		log: log,
	}
}

// Complete sends messages in order and returns the first choice's content.
func (c *Client) Complete(ctx context.Context, messages []domain.Message) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:     c.model,
		Messages:  toChatMessages(messages),
		MaxTokens: c.maxTokens,
	}

	attempt := 0
	op := func() (string, error) {
		attempt++
		reply, err := c.create(ctx, req)
		if err == nil {
			return reply, nil
		}
		if !retryable(err) {
			return "", backoff.Permanent(err)
		}
		return "", err
	}

	reply, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(c.backoff()),
		backoff.WithMaxTries(uint(c.maxAttempts)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, wait time.Duration) {
			metrics.CompletionRetriesTotal.Inc()
			c.log.Warn().Err(err).Int("attempt", attempt).Dur("wait", wait).Msg("completion failed, retrying")
		}),
	)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	return reply, nil
}

func (c *Client) create(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyReply
	}
	return resp.Choices[0].Message.Content, nil
}

// retryable reports whether err is worth another attempt: rate limiting,
// upstream 5xx and transport failures are; other API rejections are not.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, ErrEmptyReply) {
		return false
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return retryableStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return retryableStatus(reqErr.HTTPStatusCode)
	}
	return true
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError || code == 0
}

func toChatMessages(messages []domain.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}
	return out
}
