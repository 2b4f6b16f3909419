package postgres

import (
	"context"
	"database/sql"

	"library-fines-backend/internal/domain"
	"library-fines-backend/internal/logger"
	"library-fines-backend/internal/repository"

	"github.com/shopspring/decimal"
)

type statsRepository struct {
	db *sql.DB
}

func NewStatsRepository(db *sql.DB) repository.StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) count(ctx context.Context, table, query string) (int64, error) {
	var n int64
	logger.DatabaseCall("COUNT", table)
	if err := r.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		logger.DatabaseResult("COUNT", 0, err)
		return 0, translateError(err)
	}
	return n, nil
}

func (r *statsRepository) CountBooks(ctx context.Context) (int64, error) {
	return r.count(ctx, "books", `SELECT COUNT(*) FROM books`)
}

func (r *statsRepository) CountAvailableBooks(ctx context.Context) (int64, error) {
	return r.count(ctx, "books", `SELECT COUNT(*) FROM books WHERE available = TRUE`)
}

func (r *statsRepository) CountMembers(ctx context.Context) (int64, error) {
	return r.count(ctx, "members", `SELECT COUNT(*) FROM members`)
}

func (r *statsRepository) SumFines(ctx context.Context, f domain.FineFilter) (decimal.Decimal, error) {
	where := fineWhere(f)
	query := `SELECT COALESCE(SUM(f.amount), 0) FROM fines f` + where.String()

	var total decimal.Decimal
	logger.DatabaseCall("SUM", "fines", "status", f.Status)
	if err := r.db.QueryRowContext(ctx, query, where.args...).Scan(&total); err != nil {
		logger.DatabaseResult("SUM", 0, err)
		return decimal.Zero, translateError(err)
	}
	return total, nil
}

// TopDefaulters only considers unpaid fines regardless of f.Status. Ranking
// is by the fined amount; Outstanding nets off partial payments. Ties on the
// unpaid total go to the lower member id.
func (r *statsRepository) TopDefaulters(ctx context.Context, f domain.FineFilter, limit int) ([]domain.Defaulter, error) {
	where := fineWhere(f.WithStatus(domain.FineStatusUnpaid))
	query := `
		SELECT m.id, m.name, COALESCE(m.email, ''), SUM(f.amount) AS unpaid,
		       SUM(GREATEST(f.amount - COALESCE(p.total, 0), 0)) AS outstanding, COUNT(f.id)` +
		fineFrom + where.String() + `
		GROUP BY m.id, m.name, m.email
		HAVING SUM(f.amount) > 0
		ORDER BY unpaid DESC, m.id ASC`
	if limit > 0 {
		query += ` LIMIT ` + where.bind(limit)
	}

	logger.DatabaseCall("SELECT", "fines", "aggregate", "top_defaulters", "limit", limit)
	rows, err := r.db.QueryContext(ctx, query, where.args...)
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err)
		return nil, translateError(err)
	}
	defer rows.Close()

	defaulters := []domain.Defaulter{}
	for rows.Next() {
		var d domain.Defaulter
		if err := rows.Scan(&d.MemberID, &d.Name, &d.Email, &d.UnpaidTotal, &d.Outstanding, &d.FineCount); err != nil {
			return nil, translateError(err)
		}
		defaulters = append(defaulters, d)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err)
	}
	logger.DatabaseResult("SELECT", int64(len(defaulters)), nil)
	return defaulters, nil
}

func (r *statsRepository) RecentHistory(ctx context.Context, limit int) ([]domain.History, error) {
	query := historySelect + ` ORDER BY h.timestamp DESC, h.id DESC LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, translateError(err)
	}
	return scanHistoryRows(rows)
}
