package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	authorModel "bookapi-backend/internal/domains/author/model"
	"bookapi-backend/internal/domains/book/model"
	"bookapi-backend/internal/domains/book/repository"
	"bookapi-backend/internal/shared/pagination"
	"bookapi-backend/internal/shared/validation"
	"bookapi-backend/pkg/cache"
)

const listCacheOperation = "getAllBooks"

type bookService struct {
	repo    repository.RepositoryInterface
	authors AuthorFinder
	cache   cache.TagAwareCache
}

func NewBookService(repo repository.RepositoryInterface, authors AuthorFinder, c cache.TagAwareCache) ServiceInterface {
	return &bookService{
		repo:    repo,
		authors: authors,
		cache:   c,
	}
}

// List serves book pages from the cache. Pages embed author data and are
// tagged with both families.
func (s *bookService) List(ctx context.Context, page pagination.Params) ([]model.Book, error) {
	key := cache.Key(listCacheOperation, page.Page, page.Limit)
	return cache.GetJSON(ctx, s.cache, key, func(ctx context.Context) ([]model.Book, error) {
		return s.repo.List(ctx, page.Limit, page.Offset())
	}, cache.TagBooks, cache.TagAuthors)
}

func (s *bookService) GetByID(ctx context.Context, id int64) (*model.Book, error) {
	if id <= 0 {
		return nil, model.ErrBookNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *bookService) Create(ctx context.Context, req *model.CreateBookRequest) (*model.Book, error) {
	author, err := s.resolveAuthor(ctx, req.IDAuthor)
	if err != nil {
		return nil, err
	}

	b := req.ToEntity(author)
	if err := validation.FromError(b.Validate()); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, b)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return created, nil
}

func (s *bookService) Update(ctx context.Context, id int64, req *model.UpdateBookRequest) (*model.Book, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	author, err := s.resolveAuthor(ctx, req.IDAuthor)
	if err != nil {
		return nil, err
	}

	req.ApplyToEntity(current, author)
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

func (s *bookService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return model.ErrBookNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx)
	return nil
}

// resolveAuthor maps an unknown or absent author id to no author.
func (s *bookService) resolveAuthor(ctx context.Context, id *int64) (*model.AuthorRef, error) {
	if id == nil || *id <= 0 {
		return nil, nil
	}

	a, err := s.authors.GetByID(ctx, *id)
	if errors.Is(err, authorModel.ErrAuthorNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &model.AuthorRef{ID: a.ID, LastName: a.LastName, FirstName: a.FirstName}, nil
}

func (s *bookService) invalidate(ctx context.Context) {
	if err := s.cache.InvalidateTags(ctx, cache.TagBooks); err != nil {
		log.Error().Err(err).Str("tag", cache.TagBooks).Msg("cache invalidation failed")
	}
}
