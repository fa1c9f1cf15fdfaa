package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/indrikh/siteCloneWithAi/internal/core/domain"
)

type stubUserRepo struct {
	users     map[string]*domain.User
	emails    map[string]string
	usernames map[string]string
	saveErr   error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		users:     make(map[string]*domain.User),
		emails:    make(map[string]string),
		usernames: make(map[string]string),
	}
}

func (r *stubUserRepo) ClaimEmail(_ context.Context, email, userID string) (bool, error) {
	if _, ok := r.emails[email]; ok {
		return false, nil
	}
	r.emails[email] = userID
	return true, nil
}

func (r *stubUserRepo) ClaimUsername(_ context.Context, username, userID string) (bool, error) {
	if _, ok := r.usernames[username]; ok {
		return false, nil
	}
	r.usernames[username] = userID
	return true, nil
}

func (r *stubUserRepo) ReleaseEmail(_ context.Context, email string) error {
	delete(r.emails, email)
	return nil
}

func (r *stubUserRepo) ReleaseUsername(_ context.Context, username string) error {
	delete(r.usernames, username)
	return nil
}

func (r *stubUserRepo) Save(_ context.Context, user *domain.User) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) UserIDByEmail(_ context.Context, email string) (string, error) {
	id, ok := r.emails[email]
	if !ok {
		return "", domain.ErrUserNotFound
	}
	return id, nil
}

type stubTokenRepo struct {
	tokens  map[string]string
	expires map[string]time.Time
	now     time.Time
}

func newStubTokenRepo() *stubTokenRepo {
	return &stubTokenRepo{
		tokens:  make(map[string]string),
		expires: make(map[string]time.Time),
		now:     time.Now(),
	}
}

func (r *stubTokenRepo) Save(_ context.Context, token, userID string, ttl time.Duration) error {
	r.tokens[token] = userID
	r.expires[token] = r.now.Add(ttl)
	return nil
}

func (r *stubTokenRepo) UserID(_ context.Context, token string) (string, error) {
	id, ok := r.tokens[token]
	if !ok || !r.now.Before(r.expires[token]) {
		return "", domain.ErrUnauthorized
	}
	return id, nil
}

func (r *stubTokenRepo) Delete(_ context.Context, token string) error {
	delete(r.tokens, token)
	return nil
}

func newAuthSvc() (*AuthService, *stubUserRepo, *stubTokenRepo) {
	users := newStubUserRepo()
	tokens := newStubTokenRepo()
	return NewAuthService(users, tokens, domain.TokenTTL, zerolog.Nop()), users, tokens
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, users, tokens := newAuthSvc()

	user, token, err := svc.Register(context.Background(), "alice", "alice@example.com", "password1")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.ID == "" || token == "" {
		t.Fatalf("expected id and token, got %q %q", user.ID, token)
	}
	if len(token) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(token))
	}
	if user.PasswordHash == "password1" || len(user.PasswordHash) != 128 {
		t.Fatalf("expected pbkdf2 hex hash, got %q", user.PasswordHash)
	}
	if len(user.PasswordSalt) != 32 {
		t.Fatalf("expected 16-byte hex salt, got %q", user.PasswordSalt)
	}
	if users.emails["alice@example.com"] != user.ID || users.usernames["alice"] != user.ID {
		t.Fatalf("secondary indexes not written")
	}
	if tokens.tokens[token] != user.ID {
		t.Fatalf("token not mapped to user")
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc, _, _ := newAuthSvc()
	ctx := context.Background()

	cases := []struct {
		name, username, email, password string
	}{
		{"short username", "al", "a@example.com", "password1"},
		{"long username", "abcdefghijabcdefghijabcdefghijx", "a@example.com", "password1"},
		{"non alphanumeric username", "al_ice", "a@example.com", "password1"},
		{"bad email", "alice", "not-an-email", "password1"},
		{"short password", "alice", "a@example.com", "short"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := svc.Register(ctx, tc.username, tc.email, tc.password); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc, users, _ := newAuthSvc()
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "bob", "bob@example.com", "password1"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	_, _, err := svc.Register(ctx, "robert", "bob@example.com", "password2")
	if !errors.Is(err, domain.ErrEmailTaken) || !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if _, ok := users.usernames["robert"]; ok {
		t.Fatalf("username must not be claimed after email conflict")
	}
}

func TestAuthService_Register_DuplicateUsernameReleasesEmail(t *testing.T) {
	svc, users, _ := newAuthSvc()
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "bob", "bob@example.com", "password1"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, _, err := svc.Register(ctx, "bob", "other@example.com", "password1"); !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
	if _, ok := users.emails["other@example.com"]; ok {
		t.Fatalf("email claim must be rolled back")
	}
}

func TestAuthService_Register_SaveFailureReleasesClaims(t *testing.T) {
	svc, users, _ := newAuthSvc()
	users.saveErr = errors.New("store down")

	if _, _, err := svc.Register(context.Background(), "carol", "carol@example.com", "password1"); err == nil {
		t.Fatalf("expected error")
	}
	if len(users.emails) != 0 || len(users.usernames) != 0 {
		t.Fatalf("claims must be rolled back, got %v %v", users.emails, users.usernames)
	}
}

func TestAuthService_RegisterThenLogin(t *testing.T) {
	svc, _, _ := newAuthSvc()
	ctx := context.Background()

	registered, regToken, err := svc.Register(ctx, "carol", "carol@example.com", "s3cretpass")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	user, token, err := svc.Login(ctx, "carol@example.com", "s3cretpass")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.ID != registered.ID {
		t.Fatalf("expected id %s, got %s", registered.ID, user.ID)
	}
	if token == "" || token == regToken {
		t.Fatalf("expected a fresh token")
	}

	// Both tokens stay valid.
	for _, tk := range []string{regToken, token} {
		id, err := svc.ResolveToken(ctx, tk)
		if err != nil || id != registered.ID {
			t.Fatalf("resolve %s: id=%q err=%v", tk, id, err)
		}
	}
}

func TestAuthService_Login_FailuresAreIndistinguishable(t *testing.T) {
	svc, _, _ := newAuthSvc()
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "dave", "dave@example.com", "goodpass1"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, _, wrongPass := svc.Login(ctx, "dave@example.com", "badpass11")
	_, _, unknown := svc.Login(ctx, "ghost@example.com", "goodpass1")

	if wrongPass != domain.ErrInvalidCredentials || unknown != domain.ErrInvalidCredentials {
		t.Fatalf("expected identical ErrInvalidCredentials, got %v / %v", wrongPass, unknown)
	}
}

func TestAuthService_Login_DanglingIndex(t *testing.T) {
	svc, users, _ := newAuthSvc()
	users.emails["eve@example.com"] = "missing-id"

	if _, _, err := svc.Login(context.Background(), "eve@example.com", "whatever1"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_TokenExpiry(t *testing.T) {
	svc, _, tokens := newAuthSvc()
	ctx := context.Background()

	_, token, err := svc.Register(ctx, "frank", "frank@example.com", "password1")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	tokens.now = tokens.now.Add(domain.TokenTTL + time.Second)
	if _, err := svc.ResolveToken(ctx, token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized after expiry, got %v", err)
	}
}

func TestAuthService_Logout(t *testing.T) {
	svc, _, _ := newAuthSvc()
	ctx := context.Background()

	user, token, err := svc.Register(ctx, "grace", "grace@example.com", "password1")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	profile, err := svc.Profile(ctx, token)
	if err != nil || profile.ID != user.ID {
		t.Fatalf("profile: %+v %v", profile, err)
	}

	if err := svc.Logout(ctx, token); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, err := svc.ResolveToken(ctx, token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized after logout, got %v", err)
	}
	if err := svc.Logout(ctx, token); err != nil {
		t.Fatalf("second logout must be a no-op, got %v", err)
	}
}

func TestAuthService_ResolveToken_Empty(t *testing.T) {
	svc, _, _ := newAuthSvc()

	if _, err := svc.ResolveToken(context.Background(), ""); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestVerifyPassword(t *testing.T) {
	hash := hashPassword("hunter22", "abcd")
	if !verifyPassword("hunter22", hash, "abcd") {
		t.Fatalf("expected match")
	}
	if verifyPassword("hunter22", hash, "abce") {
		t.Fatalf("different salt must not match")
	}
	if verifyPassword("hunter23", hash, "abcd") {
		t.Fatalf("different password must not match")
	}
}
