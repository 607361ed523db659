package service

import (
	"context"

	"bookapi-backend/internal/domains/author/model"
	"bookapi-backend/internal/shared/pagination"
)

// ServiceInterface defines business logic operations for authors
type ServiceInterface interface {
	List(ctx context.Context, page pagination.Params) ([]model.Author, error)
	GetByID(ctx context.Context, id int64) (*model.Author, error)
	Create(ctx context.Context, req *model.CreateAuthorRequest) (*model.Author, error)
	Update(ctx context.Context, id int64, req *model.UpdateAuthorRequest) (*model.Author, error)
	Delete(ctx context.Context, id int64) error
}
