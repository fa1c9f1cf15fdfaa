package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/indrikh/siteCloneWithAi/internal/core/domain"
)

// TokenStore maps bearer tokens to user ids; expiry is left to Redis.
// Key format: token:<token>
type TokenStore struct {
	client *redis.Client
}

func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

func (s *TokenStore) Save(ctx context.Context, token, userID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, tokenKey(token), userID, ttl).Err(); err != nil {
		return storeError("save token", err)
	}
	return nil
}

func (s *TokenStore) UserID(ctx context.Context, token string) (string, error) {
	id, err := s.client.Get(ctx, tokenKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrUnauthorized
	}
	if err != nil {
		return "", storeError("resolve token", err)
	}
	return id, nil
}

func (s *TokenStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, tokenKey(token)).Err(); err != nil {
		return storeError("delete token", err)
	}
	return nil
}

func tokenKey(token string) string {
	return "token:" + token
}
