package handler

import (
	"time"

	"github.com/indrikh/siteCloneWithAi/internal/core/domain"
)

// errorResponse is the envelope rendered for every 4xx/5xx response.
type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// messageResponse is returned by endpoints that only report an outcome.
type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// --- Chat ---

type chatMessageRequest struct {
	Message   string `json:"message"   validate:"required,min=1,max=1000"`
	SessionID string `json:"sessionId" validate:"required"`
	// UserID is accepted for client compatibility; history is keyed by session only.
	UserID string `json:"userId"`
}

type chatMessageResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

type chatHistoryResponse struct {
	Success bool             `json:"success"`
	History []domain.Message `json:"history"`
}

// --- Content ---

type contentResponse struct {
	Success bool           `json:"success"`
	Content domain.Content `json:"content" swaggertype:"object"`
}

// --- Users ---

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userResponse is the public projection of a user; credentials never leave the server.
type userResponse struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

type authResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    userResponse `json:"user"`
}

type profileResponse struct {
	Success bool         `json:"success"`
	User    userResponse `json:"user"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, Email: u.Email}
}
