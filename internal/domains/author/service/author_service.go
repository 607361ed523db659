package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"bookapi-backend/internal/domains/author/model"
	"bookapi-backend/internal/domains/author/repository"
	"bookapi-backend/internal/shared/pagination"
	"bookapi-backend/internal/shared/validation"
	"bookapi-backend/pkg/cache"
)

const listCacheOperation = "getAllAuthors"

// authorService implements ServiceInterface
type authorService struct {
	repo  repository.RepositoryInterface
	cache cache.TagAwareCache
}

// NewAuthorService creates a new author service instance
func NewAuthorService(repo repository.RepositoryInterface, c cache.TagAwareCache) ServiceInterface {
	return &authorService{
		repo:  repo,
		cache: c,
	}
}

// List serves author pages from the cache. A page renders book data too,
// so it is tagged with both families.
func (s *authorService) List(ctx context.Context, page pagination.Params) ([]model.Author, error) {
	key := cache.Key(listCacheOperation, page.Page, page.Limit)
	return cache.GetJSON(ctx, s.cache, key, func(ctx context.Context) ([]model.Author, error) {
		return s.repo.List(ctx, page.Limit, page.Offset())
	}, cache.TagAuthors, cache.TagBooks)
}

func (s *authorService) GetByID(ctx context.Context, id int64) (*model.Author, error) {
	if id <= 0 {
		return nil, model.ErrAuthorNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *authorService) Create(ctx context.Context, req *model.CreateAuthorRequest) (*model.Author, error) {
	a := req.ToEntity()
	if err := validation.FromError(a.Validate()); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, a)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return created, nil
}

func (s *authorService) Update(ctx context.Context, id int64, req *model.UpdateAuthorRequest) (*model.Author, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	req.ApplyToEntity(current)
	if err := validation.FromError(current.Validate()); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, current)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return updated, nil
}

func (s *authorService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return model.ErrAuthorNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx)
	return nil
}

// invalidate evicts every cached page rendering author data. The write has
// already been committed, so a cache failure is logged and not returned.
func (s *authorService) invalidate(ctx context.Context) {
	if err := s.cache.InvalidateTags(ctx, cache.TagAuthors); err != nil {
		log.Error().Err(err).Str("tag", cache.TagAuthors).Msg("cache invalidation failed")
	}
}
