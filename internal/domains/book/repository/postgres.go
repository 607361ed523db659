package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookapi-backend/internal/domains/book/model"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const selectBook = `
    SELECT b.id, b.title, b.cover_text, b.comment, b.created_at, b.updated_at,
           a.id, a.last_name, a.first_name
    FROM books b
    LEFT JOIN authors a ON a.id = b.author_id`

func (r *postgresRepository) List(ctx context.Context, limit, offset int) ([]model.Book, error) {
	rows, err := r.pool.Query(ctx, selectBook+` ORDER BY b.id ASC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	defer rows.Close()

	books := make([]model.Book, 0, limit)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate books: %w", err)
	}
	return books, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*model.Book, error) {
	return scanBook(r.pool.QueryRow(ctx, selectBook+` WHERE b.id = $1`, id))
}

func (r *postgresRepository) Create(ctx context.Context, b *model.Book) (*model.Book, error) {
	query := `
        WITH b AS (
            INSERT INTO books (title, cover_text, comment, author_id)
            VALUES ($1, $2, $3, (SELECT id FROM authors WHERE id = $4))
            RETURNING id, title, cover_text, comment, author_id, created_at, updated_at
        )
        SELECT b.id, b.title, b.cover_text, b.comment, b.created_at, b.updated_at,
               a.id, a.last_name, a.first_name
        FROM b
        LEFT JOIN authors a ON a.id = b.author_id`

	created, err := scanBook(r.pool.QueryRow(ctx, query, b.Title, b.CoverText, b.Comment, b.AuthorID()))
	if isForeignKeyViolation(err) {
		// The author was deleted between the sub-select and the FK check.
		created, err = scanBook(r.pool.QueryRow(ctx, query, b.Title, b.CoverText, b.Comment, nil))
	}
	if err != nil {
		return nil, fmt.Errorf("insert book: %w", err)
	}
	return created, nil
}

func (r *postgresRepository) Update(ctx context.Context, b *model.Book) (*model.Book, error) {
	query := `
        WITH b AS (
            UPDATE books
            SET title = $1,
                cover_text = $2,
                author_id = (SELECT id FROM authors WHERE id = $3),
                updated_at = NOW()
            WHERE id = $4
            RETURNING id, title, cover_text, comment, author_id, created_at, updated_at
        )
        SELECT b.id, b.title, b.cover_text, b.comment, b.created_at, b.updated_at,
               a.id, a.last_name, a.first_name
        FROM b
        LEFT JOIN authors a ON a.id = b.author_id`

	updated, err := scanBook(r.pool.QueryRow(ctx, query, b.Title, b.CoverText, b.AuthorID(), b.ID))
	if isForeignKeyViolation(err) {
		updated, err = scanBook(r.pool.QueryRow(ctx, query, b.Title, b.CoverText, nil, b.ID))
	}
	return updated, err
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}

func scanBook(row pgx.Row) (*model.Book, error) {
	var (
		b               model.Book
		authorID        *int64
		authorLastName  *string
		authorFirstName *string
	)
	err := row.Scan(
		&b.ID, &b.Title, &b.CoverText, &b.Comment, &b.CreatedAt, &b.UpdatedAt,
		&authorID, &authorLastName, &authorFirstName,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan book: %w", err)
	}

	if authorID != nil {
		b.Author = &model.AuthorRef{ID: *authorID, FirstName: authorFirstName}
		if authorLastName != nil {
			b.Author.LastName = *authorLastName
		}
	}
	return &b, nil
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503" // foreign_key_violation
}
