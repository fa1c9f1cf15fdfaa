package service

import (
	"context"
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/pbkdf2"

	"github.com/indrikh/siteCloneWithAi/internal/api/metrics"
	"github.com/indrikh/siteCloneWithAi/internal/core/domain"
	"github.com/indrikh/siteCloneWithAi/internal/core/ports"
)

const (
	pbkdf2Iterations = 10000
	pbkdf2KeyLen     = 64
	saltBytes        = 16
	tokenBytes       = 32
)

// AuthService implements registration, login and bearer-token lifecycle.
type AuthService struct {
	users    ports.UserRepository
	tokens   ports.TokenRepository
	tokenTTL time.Duration
	validate *validator.Validate
	log      zerolog.Logger
	now      func() time.Time
}

func NewAuthService(users ports.UserRepository, tokens ports.TokenRepository, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = domain.TokenTTL
	}
	return &AuthService{
		users:    users,
		tokens:   tokens,
		tokenTTL: tokenTTL,
		validate: validator.New(),
		log:      log,
		now:      time.Now,
	}
}

// Register creates a user and issues a first token. Each secondary index is
// claimed with a conditional write; claims already taken are released when a
// later step fails.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, string, error) {
	if err := s.validateRegistration(username, email, password); err != nil {
		return nil, "", err
	}

	salt, err := randomHex(saltBytes)
	if err != nil {
		return nil, "", fmt.Errorf("register: salt: %w", err)
	}

	now := s.now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hashPassword(password, salt),
		PasswordSalt: salt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	ok, err := s.users.ClaimEmail(ctx, email, user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("register: claim email: %w", err)
	}
	if !ok {
		metrics.AuthEventsTotal.WithLabelValues("register", "conflict").Inc()
		return nil, "", domain.ErrEmailTaken
	}

	ok, err = s.users.ClaimUsername(ctx, username, user.ID)
	if err != nil || !ok {
		s.release(ctx, user, false)
		if err != nil {
			return nil, "", fmt.Errorf("register: claim username: %w", err)
		}
		metrics.AuthEventsTotal.WithLabelValues("register", "conflict").Inc()
		return nil, "", domain.ErrUsernameTaken
	}

	if err := s.users.Save(ctx, user); err != nil {
		s.release(ctx, user, true)
		return nil, "", fmt.Errorf("register: save user: %w", err)
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("register: %w", err)
	}

	metrics.AuthEventsTotal.WithLabelValues("register", "ok").Inc()
	s.log.Info().Str("user_id", user.ID).Str("username", username).Msg("user registered")
	return user, token, nil
}

// Login verifies credentials and issues a new token. Unknown email and wrong
// password both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	if err := s.validate.Var(email, "required,email"); err != nil {
		return nil, "", domain.Validationf("email must be a valid email")
	}
	if password == "" {
		return nil, "", domain.Validationf("password is required")
	}

	userID, err := s.users.UserIDByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.AuthEventsTotal.WithLabelValues("login", "denied").Inc()
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("login: lookup email: %w", err)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.log.Warn().Str("user_id", userID).Msg("email index points at a missing user record")
			return nil, "", err
		}
		return nil, "", fmt.Errorf("login: load user: %w", err)
	}

	if !verifyPassword(password, user.PasswordHash, user.PasswordSalt) {
		metrics.AuthEventsTotal.WithLabelValues("login", "denied").Inc()
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("login: %w", err)
	}

	metrics.AuthEventsTotal.WithLabelValues("login", "ok").Inc()
	return user, token, nil
}

// ResolveToken maps a bearer token to its user id.
func (s *AuthService) ResolveToken(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", domain.ErrUnauthorized
	}
	return s.tokens.UserID(ctx, token)
}

// Profile returns the user that owns token.
func (s *AuthService) Profile(ctx context.Context, token string) (*domain.User, error) {
	userID, err := s.ResolveToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, userID)
}

// Logout revokes token. Revoking an unknown token is not an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.tokens.Delete(ctx, token); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	metrics.AuthEventsTotal.WithLabelValues("logout", "ok").Inc()
	return nil
}

func (s *AuthService) validateRegistration(username, email, password string) error {
	if err := s.validate.Var(username, "required,alphanum,min=3,max=30"); err != nil {
		return domain.Validationf("username must be 3-30 letters or digits")
	}
	if err := s.validate.Var(email, "required,email"); err != nil {
		return domain.Validationf("email must be a valid email")
	}
	if err := s.validate.Var(password, "required,min=8"); err != nil {
		return domain.Validationf("password must be at least 8 characters")
	}
	return nil
}

func (s *AuthService) issueToken(ctx context.Context, userID string) (string, error) {
	token, err := randomHex(tokenBytes)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	if err := s.tokens.Save(ctx, token, userID, s.tokenTTL); err != nil {
		return "", fmt.Errorf("save token: %w", err)
	}
	return token, nil
}

// release undoes index claims of a registration that did not complete.
func (s *AuthService) release(ctx context.Context, user *domain.User, username bool) {
	if err := s.users.ReleaseEmail(ctx, user.Email); err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("failed to release email claim")
	}
	if !username {
		return
	}
	if err := s.users.ReleaseUsername(ctx, user.Username); err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("failed to release username claim")
	}
}

func hashPassword(password, salt string) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), pbkdf2Iterations, pbkdf2KeyLen, sha512.New)
	return hex.EncodeToString(key)
}

func verifyPassword(password, hash, salt string) bool {
	computed := hashPassword(password, salt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
