package ports

import (
	"context"
	"time"

	"github.com/indrikh/siteCloneWithAi/internal/core/domain"
)

// UserRepository persists user records and their unique secondary indexes.
type UserRepository interface {
	// ClaimEmail atomically binds email to userID. It returns false when the
	// email is already bound.
	ClaimEmail(ctx context.Context, email, userID string) (bool, error)
	// ClaimUsername atomically binds username to userID. It returns false when
	// the username is already bound.
	ClaimUsername(ctx context.Context, username, userID string) (bool, error)
	// ReleaseEmail and ReleaseUsername undo a claim made during a failed registration.
	ReleaseEmail(ctx context.Context, email string) error
	ReleaseUsername(ctx context.Context, username string) error

	Save(ctx context.Context, user *domain.User) error
	// FindByID returns domain.ErrUserNotFound when the record is absent.
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// UserIDByEmail returns domain.ErrUserNotFound when the email is not indexed.
	UserIDByEmail(ctx context.Context, email string) (string, error)
}

// TokenRepository maps bearer tokens to user ids with a fixed lifetime.
type TokenRepository interface {
	Save(ctx context.Context, token, userID string, ttl time.Duration) error
	// UserID returns domain.ErrUnauthorized when the token is absent or expired.
	UserID(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
}
