// Package fixtures loads a demo data set: two accounts, ten authors and
// twenty books spread randomly across them.
package fixtures

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/jackc/pgx/v5"

	authorModel "bookapi-backend/internal/domains/author/model"
	bookModel "bookapi-backend/internal/domains/book/model"
	"bookapi-backend/internal/domains/user"
	userService "bookapi-backend/internal/domains/user/service"
	"bookapi-backend/pkg/database"
	"bookapi-backend/pkg/jwt"
)

const (
	DefaultPassword = "password"
	AuthorCount     = 10
	BookCount       = 20
)

// Set is the data written by Load. BookAuthors[i] indexes Authors.
type Set struct {
	Users       []user.User
	Authors     []authorModel.Author
	Books       []bookModel.Book
	BookAuthors []int
}

// Build generates the fixture set; rng picks each book's author.
func Build(rng *rand.Rand) (*Set, error) {
	hash, err := userService.HashPassword(DefaultPassword)
	if err != nil {
		return nil, err
	}

	set := &Set{
		Users: []user.User{
			{Email: "user@bookapi.com", PasswordHash: hash, Role: jwt.RoleUser},
			{Email: "admin@bookapi.com", PasswordHash: hash, Role: jwt.RoleAdmin},
		},
	}

	for i := 0; i < AuthorCount; i++ {
		firstName := fmt.Sprintf("Firstname %d", i)
		set.Authors = append(set.Authors, authorModel.Author{
			LastName:  fmt.Sprintf("Lastname %d", i),
			FirstName: &firstName,
		})
	}

	for i := 0; i < BookCount; i++ {
		comment := fmt.Sprintf("Librarian comment %d", i)
		set.Books = append(set.Books, bookModel.Book{
			Title:     fmt.Sprintf("Book %d", i),
			CoverText: fmt.Sprintf("Back cover number %d", i),
			Comment:   &comment,
		})
		set.BookAuthors = append(set.BookAuthors, rng.Intn(AuthorCount))
	}

	return set, nil
}

// Summary counts the rows written by Load.
type Summary struct {
	Users   int
	Authors int
	Books   int
}

// Load writes set in a single transaction.
func Load(ctx context.Context, db database.TxBeginner, set *Set) (Summary, error) {
	return database.WithTransactionResult(ctx, db, func(tx pgx.Tx) (Summary, error) {
		var sum Summary

		for _, u := range set.Users {
			if _, err := tx.Exec(ctx,
				`INSERT INTO users (email, password_hash, role) VALUES ($1, $2, $3)
                 ON CONFLICT (email) DO UPDATE SET password_hash = EXCLUDED.password_hash, role = EXCLUDED.role`,
				u.Email, u.PasswordHash, u.Role,
			); err != nil {
				return sum, fmt.Errorf("insert user %s: %w", u.Email, err)
			}
			sum.Users++
		}

		authorIDs := make([]int64, len(set.Authors))
		for i, a := range set.Authors {
			if err := tx.QueryRow(ctx,
				`INSERT INTO authors (last_name, first_name) VALUES ($1, $2) RETURNING id`,
				a.LastName, a.FirstName,
			).Scan(&authorIDs[i]); err != nil {
				return sum, fmt.Errorf("insert author %s: %w", a.LastName, err)
			}
			sum.Authors++
		}

		for i, b := range set.Books {
			if _, err := tx.Exec(ctx,
				`INSERT INTO books (title, cover_text, comment, author_id) VALUES ($1, $2, $3, $4)`,
				b.Title, b.CoverText, b.Comment, authorIDs[set.BookAuthors[i]],
			); err != nil {
				return sum, fmt.Errorf("insert book %s: %w", b.Title, err)
			}
			sum.Books++
		}

		return sum, nil
	})
}
