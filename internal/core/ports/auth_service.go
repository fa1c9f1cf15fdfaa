package ports

import (
	"context"

	"github.com/indrikh/siteCloneWithAi/internal/core/domain"
)

// AuthService is the credential & token manager.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	ResolveToken(ctx context.Context, token string) (string, error)
	Profile(ctx context.Context, token string) (*domain.User, error)
	Logout(ctx context.Context, token string) error
}
