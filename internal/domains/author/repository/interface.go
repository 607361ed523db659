package repository

import (
	"context"

	"bookapi-backend/internal/domains/author/model"
)

// RepositoryInterface persists authors together with their book summaries.
type RepositoryInterface interface {
	// List returns a page of authors ordered by id.
	List(ctx context.Context, limit, offset int) ([]model.Author, error)
	GetByID(ctx context.Context, id int64) (*model.Author, error)
	Create(ctx context.Context, a *model.Author) (*model.Author, error)
	// Update replaces the names of an existing author.
	Update(ctx context.Context, a *model.Author) (*model.Author, error)
	// Delete removes the author and, through the foreign key, its books.
	Delete(ctx context.Context, id int64) error
}
