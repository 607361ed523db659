package model

import (
	"bookapi-backend/internal/shared/hateoas"
)

// CreateAuthorRequest - POST /api/authors
type CreateAuthorRequest struct {
	FirstName *string `json:"firstName"`
	LastName  string  `json:"lastName"`
}

// UpdateAuthorRequest - PUT /api/authors/:id
// Only the names are mutable; the book collection is never touched.
type UpdateAuthorRequest struct {
	FirstName *string `json:"firstName"`
	LastName  string  `json:"lastName"`
}

// AuthorResponse is the "getAuthors" view of an author.
type AuthorResponse struct {
	ID        int64         `json:"id"`
	LastName  string        `json:"lastName"`
	FirstName *string       `json:"firstName,omitempty"`
	Books     []BookSummary `json:"books"`
	Links     hateoas.Links `json:"_links,omitempty"`
}

// ToEntity converts CreateAuthorRequest to Author entity
func (req *CreateAuthorRequest) ToEntity() *Author {
	return &Author{
		LastName:  req.LastName,
		FirstName: normalizeName(req.FirstName),
		Books:     []BookSummary{},
	}
}

// ApplyToEntity replaces the mutable fields of author.
func (req *UpdateAuthorRequest) ApplyToEntity(author *Author) {
	author.LastName = req.LastName
	author.FirstName = normalizeName(req.FirstName)
}

// ToResponse converts Author entity to AuthorResponse DTO
func (a Author) ToResponse(links hateoas.Links) AuthorResponse {
	books := a.Books
	if books == nil {
		books = []BookSummary{}
	}
	return AuthorResponse{
		ID:        a.ID,
		LastName:  a.LastName,
		FirstName: a.FirstName,
		Books:     books,
		Links:     links,
	}
}

func normalizeName(name *string) *string {
	if name == nil || *name == "" {
		return nil
	}
	return name
}
