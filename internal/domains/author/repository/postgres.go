package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookapi-backend/internal/domains/author/model"
)

// postgresRepository implements RepositoryInterface on a pgx pool
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new author repository instance
func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const authorColumns = `id, last_name, first_name, created_at, updated_at`

func (r *postgresRepository) List(ctx context.Context, limit, offset int) ([]model.Author, error) {
	query := `SELECT ` + authorColumns + ` FROM authors ORDER BY id ASC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query authors: %w", err)
	}
	defer rows.Close()

	authors := make([]model.Author, 0, limit)
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, err
		}
		authors = append(authors, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate authors: %w", err)
	}

	if err := r.attachBooks(ctx, authors); err != nil {
		return nil, err
	}
	return authors, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*model.Author, error) {
	query := `SELECT ` + authorColumns + ` FROM authors WHERE id = $1`

	a, err := scanAuthor(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}

	authors := []model.Author{*a}
	if err := r.attachBooks(ctx, authors); err != nil {
		return nil, err
	}
	return &authors[0], nil
}

func (r *postgresRepository) Create(ctx context.Context, a *model.Author) (*model.Author, error) {
	query := `
        INSERT INTO authors (last_name, first_name)
        VALUES ($1, $2)
        RETURNING ` + authorColumns

	created, err := scanAuthor(r.pool.QueryRow(ctx, query, a.LastName, a.FirstName))
	if err != nil {
		return nil, fmt.Errorf("insert author: %w", err)
	}
	created.Books = []model.BookSummary{}
	return created, nil
}

func (r *postgresRepository) Update(ctx context.Context, a *model.Author) (*model.Author, error) {
	query := `
        UPDATE authors
        SET last_name = $1, first_name = $2, updated_at = NOW()
        WHERE id = $3
        RETURNING ` + authorColumns

	updated, err := scanAuthor(r.pool.QueryRow(ctx, query, a.LastName, a.FirstName, a.ID))
	if err != nil {
		return nil, err
	}
	updated.Books = a.Books
	return updated, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM authors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete author: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrAuthorNotFound
	}
	return nil
}

// attachBooks loads the books of all given authors in a single query.
func (r *postgresRepository) attachBooks(ctx context.Context, authors []model.Author) error {
	if len(authors) == 0 {
		return nil
	}

	ids := make([]int64, len(authors))
	index := make(map[int64]int, len(authors))
	for i := range authors {
		ids[i] = authors[i].ID
		index[authors[i].ID] = i
		authors[i].Books = []model.BookSummary{}
	}

	rows, err := r.pool.Query(ctx, `
        SELECT id, title, cover_text, author_id
        FROM books
        WHERE author_id = ANY($1)
        ORDER BY id ASC`, ids)
	if err != nil {
		return fmt.Errorf("query author books: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			b        model.BookSummary
			authorID int64
		)
		if err := rows.Scan(&b.ID, &b.Title, &b.CoverText, &authorID); err != nil {
			return fmt.Errorf("scan author book: %w", err)
		}
		i := index[authorID]
		authors[i].Books = append(authors[i].Books, b)
	}
	return rows.Err()
}

func scanAuthor(row pgx.Row) (*model.Author, error) {
	var a model.Author
	err := row.Scan(&a.ID, &a.LastName, &a.FirstName, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrAuthorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan author: %w", err)
	}
	return &a, nil
}
