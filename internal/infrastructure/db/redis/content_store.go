package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/indrikh/siteCloneWithAi/internal/core/domain"
)

// ContentStore caches site content sections as JSON documents.
// Key format: content:<section>
type ContentStore struct {
	client *redis.Client
}

func NewContentStore(client *redis.Client) *ContentStore {
	return &ContentStore{client: client}
}

// Get returns (nil, nil) when the section has not been stored.
func (s *ContentStore) Get(ctx context.Context, section string) (domain.Content, error) {
	raw, err := s.client.Get(ctx, contentKey(section)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError("read content", err)
	}

	var content domain.Content
	if err := json.Unmarshal(raw, &content); err != nil {
		return nil, fmt.Errorf("decode content %s: %w", section, err)
	}
	return content, nil
}

func (s *ContentStore) Set(ctx context.Context, section string, content domain.Content) error {
	payload, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("encode content %s: %w", section, err)
	}
	if err := s.client.Set(ctx, contentKey(section), payload, 0).Err(); err != nil {
		return storeError("write content", err)
	}
	return nil
}

func contentKey(section string) string {
	return "content:" + section
}
