package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"library-fines-backend/internal/domain"
	"library-fines-backend/internal/logger"
	"library-fines-backend/internal/repository"
)

type historyRepository struct {
	db *sql.DB
}

func NewHistoryRepository(db *sql.DB) repository.HistoryRepository {
	return &historyRepository{db: db}
}

const historySelect = `
	SELECT h.id, h.member_id, h.book_id, h.action, h.timestamp, COALESCE(m.name, ''), COALESCE(b.title, '')
	FROM history h
	LEFT JOIN members m ON m.id = h.member_id
	LEFT JOIN books b ON b.id = h.book_id`

func scanHistoryRows(rows *sql.Rows) ([]domain.History, error) {
	defer rows.Close()

	entries := []domain.History{}
	for rows.Next() {
		var h domain.History
		var action string
		if err := rows.Scan(&h.ID, &h.MemberID, &h.BookID, &action, &h.Timestamp, &h.MemberName, &h.BookTitle); err != nil {
			return nil, translateError(err)
		}
		h.Action = domain.HistoryAction(action)
		entries = append(entries, h)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err)
	}
	return entries, nil
}

// Record inserts the entry and flips books.available under a row lock so
// two librarians cannot lend the same copy twice.
func (r *historyRepository) Record(ctx context.Context, h *domain.History) error {
	logger.EnterMethod("historyRepository.Record", "memberID", h.MemberID, "bookID", h.BookID, "action", h.Action)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return translateError(err)
	}
	defer tx.Rollback()

	var available bool
	err = tx.QueryRowContext(ctx, `SELECT available FROM books WHERE id = $1 FOR UPDATE`, h.BookID).Scan(&available)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: book %d", domain.ErrNotFound, h.BookID)
	}
	if err != nil {
		return translateError(err)
	}

	var memberExists bool
	err = tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM members WHERE id = $1)`, h.MemberID).Scan(&memberExists)
	if err != nil {
		return translateError(err)
	}
	if !memberExists {
		return fmt.Errorf("%w: member %d", domain.ErrNotFound, h.MemberID)
	}

	switch h.Action {
	case domain.HistoryActionBorrow:
		if !available {
			return fmt.Errorf("%w: book %d is already borrowed", domain.ErrConflict, h.BookID)
		}
	case domain.HistoryActionReturn:
		if available {
			return fmt.Errorf("%w: book %d is not borrowed", domain.ErrConflict, h.BookID)
		}
	default:
		return fmt.Errorf("%w: unknown action %q", domain.ErrInvalidInput, h.Action)
	}

	err = tx.QueryRowContext(ctx,
		`INSERT INTO history (member_id, book_id, action) VALUES ($1, $2, $3) RETURNING id, timestamp`,
		h.MemberID, h.BookID, string(h.Action),
	).Scan(&h.ID, &h.Timestamp)
	if err != nil {
		return translateError(err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE books SET available = $1 WHERE id = $2`,
		h.Action == domain.HistoryActionReturn, h.BookID); err != nil {
		return translateError(err)
	}

	if err := tx.Commit(); err != nil {
		logger.ExitMethodWithError("historyRepository.Record", err)
		return translateError(err)
	}
	logger.ExitMethod("historyRepository.Record", "historyID", h.ID)
	return nil
}

func (r *historyRepository) List(ctx context.Context, f domain.HistoryFilter) ([]domain.History, error) {
	where := historyWhere(f)
	query := historySelect + where.String()
	if f.Descending {
		query += ` ORDER BY h.timestamp DESC, h.id DESC`
	} else {
		query += ` ORDER BY h.timestamp ASC, h.id ASC`
	}
	if f.Limit > 0 {
		query += ` LIMIT ` + where.bind(f.Limit)
	}

	logger.DatabaseCall("SELECT", "history", "action", f.Action, "limit", f.Limit)
	rows, err := r.db.QueryContext(ctx, query, where.args...)
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err)
		return nil, translateError(err)
	}
	entries, err := scanHistoryRows(rows)
	logger.DatabaseResult("SELECT", int64(len(entries)), err)
	return entries, err
}

func (r *historyRepository) ListOpenBorrowsBefore(ctx context.Context, cutoff time.Time) ([]domain.History, error) {
	query := historySelect + `
	WHERE h.action = 'borrow'
	  AND h.timestamp < $1
	  AND NOT EXISTS (
	      SELECT 1 FROM history r
	      WHERE r.book_id = h.book_id
	        AND r.action = 'return'
	        AND (r.timestamp > h.timestamp OR (r.timestamp = h.timestamp AND r.id > h.id))
	  )
	ORDER BY h.timestamp ASC, h.id ASC`

	rows, err := r.db.QueryContext(ctx, query, cutoff)
	if err != nil {
		return nil, translateError(err)
	}
	return scanHistoryRows(rows)
}
