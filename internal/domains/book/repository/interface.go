package repository

import (
	"context"

	"bookapi-backend/internal/domains/book/model"
)

// RepositoryInterface persists books. Reads join the owning author.
type RepositoryInterface interface {
	List(ctx context.Context, limit, offset int) ([]model.Book, error)
	GetByID(ctx context.Context, id int64) (*model.Book, error)
	// Create and Update store the author reference only if that author
	// still exists at write time.
	Create(ctx context.Context, b *model.Book) (*model.Book, error)
	Update(ctx context.Context, b *model.Book) (*model.Book, error)
	Delete(ctx context.Context, id int64) error
}
