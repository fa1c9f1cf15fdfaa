package ports

import (
	"context"

	"github.com/indrikh/siteCloneWithAi/internal/core/domain"
)

// ContentRepository reads and seeds site content sections.
type ContentRepository interface {
	// Get returns (nil, nil) when the section has not been stored yet.
	Get(ctx context.Context, section string) (domain.Content, error)
	Set(ctx context.Context, section string, content domain.Content) error
}

// ContentService serves site content sections.
type ContentService interface {
	Section(ctx context.Context, name string) (domain.Content, error)
}
