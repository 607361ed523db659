package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// CommentSinceVersion is the first API version exposing a book's comment
// on the detail endpoint.
const CommentSinceVersion = "2.0"

// Book belongs to at most one author.
type Book struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	CoverText string     `json:"coverText"`
	Comment   *string    `json:"comment,omitempty"`
	Author    *AuthorRef `json:"author,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// AuthorRef is the author as rendered inside a book.
type AuthorRef struct {
	ID        int64   `json:"id"`
	LastName  string  `json:"lastName"`
	FirstName *string `json:"firstName,omitempty"`
}

// AuthorID returns the id of the book's author, or nil.
func (b *Book) AuthorID() *int64 {
	if b.Author == nil {
		return nil
	}
	id := b.Author.ID
	return &id
}

func (b Book) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.Title,
			validation.Required.Error("the book's title must not be blank"),
			validation.RuneLength(5, 50).Error("the book's title must be between 5 and 50 characters long"),
		),
		validation.Field(&b.CoverText,
			validation.Required.Error("the book's cover text must not be blank"),
			validation.RuneLength(7, 100).Error("the book's cover text must be between 7 and 100 characters long"),
		),
	)
}
