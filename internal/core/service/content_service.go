package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/indrikh/siteCloneWithAi/internal/core/domain"
	"github.com/indrikh/siteCloneWithAi/internal/core/ports"
)

// ContentService serves site sections from the store, seeding it with the
// built-in defaults on first read.
type ContentService struct {
	repo     ports.ContentRepository
	defaults map[string]domain.Content
	log      zerolog.Logger
}

func NewContentService(repo ports.ContentRepository, defaults map[string]domain.Content, log zerolog.Logger) *ContentService {
	return &ContentService{repo: repo, defaults: defaults, log: log}
}

// Section returns the named section. Only sections with a built-in default
// exist; store failures fall back to that default.
func (s *ContentService) Section(ctx context.Context, name string) (domain.Content, error) {
	def, ok := s.defaults[name]
	if !ok {
		return nil, domain.ErrContentNotFound
	}

	stored, err := s.repo.Get(ctx, name)
	if err != nil {
		s.log.Error().Err(err).Str("section", name).Msg("failed to read content, serving default")
		return def, nil
	}
	if stored != nil {
		return stored, nil
	}

	if err := s.repo.Set(ctx, name, def); err != nil {
		s.log.Warn().Err(err).Str("section", name).Msg("failed to seed default content")
	}
	return def, nil
}
