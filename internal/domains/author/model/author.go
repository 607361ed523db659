package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	MinNameLength = 5
	MaxNameLength = 40
)

// Author owns a collection of books; deleting an author deletes its books.
type Author struct {
	ID        int64         `json:"id"`
	LastName  string        `json:"lastName"`
	FirstName *string       `json:"firstName,omitempty"`
	Books     []BookSummary `json:"books"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// BookSummary is a book as rendered inside its author.
type BookSummary struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	CoverText string `json:"coverText"`
}

// Validate checks the field constraints of an author before it is persisted.
func (a Author) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.LastName,
			validation.Required.Error("the author's last name must not be blank"),
			validation.RuneLength(MinNameLength, MaxNameLength).
				Error("the author's last name must be between 5 and 40 characters long"),
		),
		validation.Field(&a.FirstName,
			validation.RuneLength(MinNameLength, MaxNameLength).
				Error("the author's first name must be between 5 and 40 characters long"),
		),
	)
}
