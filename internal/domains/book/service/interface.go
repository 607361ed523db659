package service

import (
	"context"

	authorModel "bookapi-backend/internal/domains/author/model"
	"bookapi-backend/internal/domains/book/model"
	"bookapi-backend/internal/shared/pagination"
)

// ServiceInterface defines business logic operations for books
type ServiceInterface interface {
	List(ctx context.Context, page pagination.Params) ([]model.Book, error)
	GetByID(ctx context.Context, id int64) (*model.Book, error)
	Create(ctx context.Context, req *model.CreateBookRequest) (*model.Book, error)
	Update(ctx context.Context, id int64, req *model.UpdateBookRequest) (*model.Book, error)
	Delete(ctx context.Context, id int64) error
}

// AuthorFinder resolves the author a book request refers to.
// Cross-domain dependency, satisfied by the author repository.
type AuthorFinder interface {
	GetByID(ctx context.Context, id int64) (*authorModel.Author, error)
}
