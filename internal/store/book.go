package store

import (
	"context"
	"database/sql"

	"github.com/restu-lomboe/grip-principle/types"
)

// BookRepository handles persistence for books.
type BookRepository struct {
	db *sql.DB
}

func NewBookRepository(db *sql.DB) *BookRepository {
	return &BookRepository{db: db}
}

func (r *BookRepository) List(ctx context.Context) ([]types.Book, error) {
	const query = `
		SELECT id, book
		FROM books
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := make([]types.Book, 0)
	for rows.Next() {
		var book types.Book
		if err := rows.Scan(&book.ID, &book.Book); err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return books, nil
}

func (r *BookRepository) Create(ctx context.Context, book types.Book) (types.Book, error) {
	const query = `
		INSERT INTO books (book)
		VALUES ($1)
		RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, book.Book).Scan(&book.ID); err != nil {
		return types.Book{}, err
	}
	return book, nil
}

// Update replaces the book field at the given id. Updating an id that does
// not exist is not an error; zero affected rows counts as success.
func (r *BookRepository) Update(ctx context.Context, id int, book string) error {
	const query = `
		UPDATE books
		SET book = $1
		WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, book, id)
	return err
}

// Delete removes the book at the given id. Deleting an id that does not
// exist is not an error; the operation is idempotent.
func (r *BookRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM books WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
