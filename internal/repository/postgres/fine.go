package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"library-fines-backend/internal/domain"
	"library-fines-backend/internal/logger"
	"library-fines-backend/internal/repository"

	"github.com/shopspring/decimal"
)

type fineRepository struct {
	db *sql.DB
}

func NewFineRepository(db *sql.DB) repository.FineRepository {
	return &fineRepository{db: db}
}

const fineColumns = `f.id, f.member_id, f.amount, COALESCE(f.reason, ''), f.created_at, f.paid, f.source_history_id,
	       COALESCE(m.name, ''), COALESCE(p.total, 0)`

const fineFrom = `
	FROM fines f
	JOIN members m ON m.id = f.member_id
	LEFT JOIN (SELECT fine_id, SUM(amount) AS total FROM payments GROUP BY fine_id) p ON p.fine_id = f.id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFine(row rowScanner) (domain.Fine, error) {
	var f domain.Fine
	var source sql.NullInt32
	err := row.Scan(&f.ID, &f.MemberID, &f.Amount, &f.Reason, &f.CreatedAt, &f.Paid, &source, &f.MemberName, &f.AmountPaid)
	if err != nil {
		return f, err
	}
	if source.Valid {
		id := source.Int32
		f.SourceHistoryID = &id
	}
	return f, nil
}

func (r *fineRepository) Create(ctx context.Context, f *domain.Fine) error {
	query := `INSERT INTO fines (member_id, amount, reason, paid, source_history_id) VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, f.MemberID, f.Amount, f.Reason, f.Paid, f.SourceHistoryID).Scan(&f.ID, &f.CreatedAt)
	return translateError(err)
}

func (r *fineRepository) UpsertForHistory(ctx context.Context, f *domain.Fine) (bool, error) {
	if f.SourceHistoryID == nil {
		return false, fmt.Errorf("%w: fine has no source history id", domain.ErrInvalidInput)
	}
	query := `
		INSERT INTO fines (member_id, amount, reason, source_history_id) VALUES ($1, $2, $3, $4)
		ON CONFLICT (source_history_id) DO UPDATE
		SET amount = EXCLUDED.amount, reason = EXCLUDED.reason
		WHERE fines.paid = FALSE AND fines.amount < EXCLUDED.amount
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, f.MemberID, f.Amount, f.Reason, *f.SourceHistoryID).Scan(&f.ID, &f.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, translateError(err)
	}
	return true, nil
}

func (r *fineRepository) GetByID(ctx context.Context, id int32) (*domain.Fine, error) {
	query := `SELECT ` + fineColumns + fineFrom + ` WHERE f.id = $1`
	f, err := scanFine(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(err)
	}
	return &f, nil
}

func (r *fineRepository) List(ctx context.Context, filter domain.FineFilter) ([]domain.Fine, error) {
	where := fineWhere(filter)
	query := `SELECT ` + fineColumns + fineFrom + where.String() + ` ORDER BY f.created_at DESC, f.id DESC`

	logger.DatabaseCall("SELECT", "fines", "status", filter.Status)
	rows, err := r.db.QueryContext(ctx, query, where.args...)
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err)
		return nil, translateError(err)
	}
	defer rows.Close()

	fines := []domain.Fine{}
	for rows.Next() {
		f, err := scanFine(rows)
		if err != nil {
			return nil, translateError(err)
		}
		fines = append(fines, f)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err)
	}
	logger.DatabaseResult("SELECT", int64(len(fines)), nil)
	return fines, nil
}

func (r *fineRepository) RecordPayment(ctx context.Context, p *domain.Payment) (*domain.Fine, error) {
	logger.EnterMethod("fineRepository.RecordPayment", "fineID", p.FineID, "amount", p.Amount)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, translateError(err)
	}
	defer tx.Rollback()

	fine := &domain.Fine{ID: p.FineID}
	var source sql.NullInt32
	err = tx.QueryRowContext(ctx,
		`SELECT member_id, amount, COALESCE(reason, ''), created_at, paid, source_history_id FROM fines WHERE id = $1 FOR UPDATE`,
		p.FineID,
	).Scan(&fine.MemberID, &fine.Amount, &fine.Reason, &fine.CreatedAt, &fine.Paid, &source)
	if err != nil {
		logger.ExitMethodWithError("fineRepository.RecordPayment", err, "fineID", p.FineID)
		return nil, translateError(err)
	}
	if source.Valid {
		id := source.Int32
		fine.SourceHistoryID = &id
	}
	if fine.Paid {
		return nil, fmt.Errorf("%w: fine %d is already paid", domain.ErrConflict, p.FineID)
	}

	var paidSoFar decimal.Decimal
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE fine_id = $1`, p.FineID).Scan(&paidSoFar); err != nil {
		return nil, translateError(err)
	}

	total := paidSoFar.Add(p.Amount)
	if total.GreaterThan(fine.Amount) {
		return nil, fmt.Errorf("%w: payment of %s exceeds outstanding %s", domain.ErrInvalidInput,
			p.Amount.StringFixed(2), fine.Amount.Sub(paidSoFar).StringFixed(2))
	}

	err = tx.QueryRowContext(ctx,
		`INSERT INTO payments (fine_id, amount) VALUES ($1, $2) RETURNING id, paid_at`,
		p.FineID, p.Amount,
	).Scan(&p.ID, &p.PaidAt)
	if err != nil {
		return nil, translateError(err)
	}

	if total.GreaterThanOrEqual(fine.Amount) {
		if _, err := tx.ExecContext(ctx, `UPDATE fines SET paid = TRUE WHERE id = $1`, p.FineID); err != nil {
			return nil, translateError(err)
		}
		fine.Paid = true
	}

	if err := tx.Commit(); err != nil {
		return nil, translateError(err)
	}

	fine.AmountPaid = total
	logger.ExitMethod("fineRepository.RecordPayment", "fineID", p.FineID, "paid", fine.Paid)
	return fine, nil
}

func (r *fineRepository) ListPayments(ctx context.Context, fineID int32) ([]domain.Payment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, fine_id, amount, paid_at FROM payments WHERE fine_id = $1 ORDER BY paid_at, id`, fineID)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	payments := []domain.Payment{}
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.ID, &p.FineID, &p.Amount, &p.PaidAt); err != nil {
			return nil, translateError(err)
		}
		payments = append(payments, p)
	}
	return payments, translateError(rows.Err())
}

// ReconcilePaidFlags settles unpaid fines that are already covered by
// their payments. It never reopens a fine that was marked paid by hand.
func (r *fineRepository) ReconcilePaidFlags(ctx context.Context) (int64, error) {
	query := `
		UPDATE fines f
		SET paid = TRUE
		WHERE f.paid = FALSE
		  AND f.amount <= (SELECT COALESCE(SUM(p.amount), 0) FROM payments p WHERE p.fine_id = f.id)
	`
	logger.DatabaseCall("UPDATE", "fines")
	res, err := r.db.ExecContext(ctx, query)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err)
		return 0, translateError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, translateError(err)
	}
	logger.DatabaseResult("UPDATE", n, nil)
	return n, nil
}
