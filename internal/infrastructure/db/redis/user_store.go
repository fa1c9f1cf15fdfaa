package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/indrikh/siteCloneWithAi/internal/core/domain"
)

// UserStore persists user records and their unique indexes.
// Key formats:
//
//	user:<id>                 JSON user record
//	user:email:<email>        user id
//	user:username:<username>  user id
type UserStore struct {
	client *redis.Client
}

func NewUserStore(client *redis.Client) *UserStore {
	return &UserStore{client: client}
}

func (s *UserStore) ClaimEmail(ctx context.Context, email, userID string) (bool, error) {
	ok, err := s.client.SetNX(ctx, emailKey(email), userID, 0).Result()
	if err != nil {
		return false, storeError("claim email", err)
	}
	return ok, nil
}

func (s *UserStore) ClaimUsername(ctx context.Context, username, userID string) (bool, error) {
	ok, err := s.client.SetNX(ctx, usernameKey(username), userID, 0).Result()
	if err != nil {
		return false, storeError("claim username", err)
	}
	return ok, nil
}

func (s *UserStore) ReleaseEmail(ctx context.Context, email string) error {
	if err := s.client.Del(ctx, emailKey(email)).Err(); err != nil {
		return storeError("release email", err)
	}
	return nil
}

func (s *UserStore) ReleaseUsername(ctx context.Context, username string) error {
	if err := s.client.Del(ctx, usernameKey(username)).Err(); err != nil {
		return storeError("release username", err)
	}
	return nil
}

// Save writes the user record. Users carry no expiry.
func (s *UserStore) Save(ctx context.Context, user *domain.User) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.client.Set(ctx, userKey(user.ID), payload, 0).Err(); err != nil {
		return storeError("save user", err)
	}
	return nil
}

func (s *UserStore) FindByID(ctx context.Context, id string) (*domain.User, error) {
	raw, err := s.client.Get(ctx, userKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, storeError("load user", err)
	}

	var user domain.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", id, err)
	}
	return &user, nil
}

func (s *UserStore) UserIDByEmail(ctx context.Context, email string) (string, error) {
	id, err := s.client.Get(ctx, emailKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrUserNotFound
	}
	if err != nil {
		return "", storeError("lookup email", err)
	}
	return id, nil
}

func userKey(id string) string           { return "user:" + id }
func emailKey(email string) string       { return "user:email:" + email }
func usernameKey(username string) string { return "user:username:" + username }
