package postgres

import (
	"context"
	"database/sql"

	"library-fines-backend/internal/domain"
	"library-fines-backend/internal/logger"
	"library-fines-backend/internal/repository"
)

type bookRepository struct {
	db *sql.DB
}

func NewBookRepository(db *sql.DB) repository.BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Create(ctx context.Context, b *domain.Book) error {
	query := `INSERT INTO books (title, author, isbn, available) VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, b.Title, b.Author, b.ISBN, b.Available).Scan(&b.ID)
	return translateError(err)
}

func (r *bookRepository) GetByID(ctx context.Context, id int32) (*domain.Book, error) {
	b := &domain.Book{}
	query := `SELECT id, title, COALESCE(author, ''), COALESCE(isbn, ''), available FROM books WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.Available)
	if err != nil {
		return nil, translateError(err)
	}
	return b, nil
}

func (r *bookRepository) List(ctx context.Context) ([]domain.Book, error) {
	query := `SELECT id, title, COALESCE(author, ''), COALESCE(isbn, ''), available FROM books ORDER BY title, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	books := []domain.Book{}
	for rows.Next() {
		var b domain.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.Available); err != nil {
			return nil, translateError(err)
		}
		books = append(books, b)
	}
	return books, translateError(rows.Err())
}

// Update changes catalogue fields only; availability is owned by history.
func (r *bookRepository) Update(ctx context.Context, b *domain.Book) error {
	query := `UPDATE books SET title = $1, author = NULLIF($2, ''), isbn = NULLIF($3, '') WHERE id = $4`
	res, err := r.db.ExecContext(ctx, query, b.Title, b.Author, b.ISBN, b.ID)
	if err != nil {
		return translateError(err)
	}
	return requireAffected(res)
}

func (r *bookRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return translateError(err)
	}
	return requireAffected(res)
}

func (r *bookRepository) SyncAvailability(ctx context.Context) (int64, error) {
	logger.EnterMethod("bookRepository.SyncAvailability")

	// A book is out when its latest history entry is a borrow; books with
	// no history are available.
	query := `
		UPDATE books b
		SET available = COALESCE(latest.action <> 'borrow', TRUE)
		FROM books b2
		LEFT JOIN LATERAL (
			SELECT h.action FROM history h
			WHERE h.book_id = b2.id
			ORDER BY h.timestamp DESC, h.id DESC
			LIMIT 1
		) latest ON TRUE
		WHERE b.id = b2.id
		  AND b.available IS DISTINCT FROM COALESCE(latest.action <> 'borrow', TRUE)
	`
	logger.DatabaseCall("UPDATE", "books")
	res, err := r.db.ExecContext(ctx, query)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err)
		logger.ExitMethodWithError("bookRepository.SyncAvailability", err)
		return 0, translateError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, translateError(err)
	}
	logger.DatabaseResult("UPDATE", n, nil)
	logger.ExitMethod("bookRepository.SyncAvailability", "changed", n)
	return n, nil
}
