package model

import (
	"bookapi-backend/internal/shared/hateoas"
)

// CreateBookRequest - POST /api/books
// IDAuthor naming an unknown author leaves the book without author.
type CreateBookRequest struct {
	Title     string  `json:"title"`
	CoverText string  `json:"coverText"`
	Comment   *string `json:"comment"`
	IDAuthor  *int64  `json:"idAuthor"`
}

// UpdateBookRequest - PUT /api/books/:id
// The author is replaced by IDAuthor; omitting it clears the author.
type UpdateBookRequest struct {
	Title     string `json:"title"`
	CoverText string `json:"coverText"`
	IDAuthor  *int64 `json:"idAuthor"`
}

// BookResponse is the "getBooks" view of a book.
type BookResponse struct {
	ID        int64         `json:"id"`
	Title     string        `json:"title"`
	CoverText string        `json:"coverText"`
	Comment   *string       `json:"comment,omitempty"`
	Author    *AuthorRef    `json:"author,omitempty"`
	Links     hateoas.Links `json:"_links,omitempty"`
}

func (req *CreateBookRequest) ToEntity(author *AuthorRef) *Book {
	return &Book{
		Title:     req.Title,
		CoverText: req.CoverText,
		Comment:   req.Comment,
		Author:    author,
	}
}

// ApplyToEntity copies the mutable fields onto book. The id and comment
// are left untouched.
func (req *UpdateBookRequest) ApplyToEntity(book *Book, author *AuthorRef) {
	book.Title = req.Title
	book.CoverText = req.CoverText
	book.Author = author
}

// ToResponse renders the book. withComment gates the versioned comment field.
func (b Book) ToResponse(withComment bool, links hateoas.Links) BookResponse {
	resp := BookResponse{
		ID:        b.ID,
		Title:     b.Title,
		CoverText: b.CoverText,
		Author:    b.Author,
		Links:     links,
	}
	if withComment {
		resp.Comment = b.Comment
	}
	return resp
}
