package postgres

import (
	"context"
	"database/sql"

	"library-fines-backend/internal/logger"
	"library-fines-backend/internal/repository"
)

type settingsRepository struct {
	db *sql.DB
}

func NewSettingsRepository(db *sql.DB) repository.SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Load(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	values := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, translateError(err)
		}
		values[k] = v
	}
	return values, translateError(rows.Err())
}

func (r *settingsRepository) Save(ctx context.Context, values map[string]string) error {
	logger.DatabaseCall("UPSERT", "settings", "keys", len(values))

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return translateError(err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO settings (key, value, updated_on) VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_on = NOW()
	`
	for k, v := range values {
		if _, err := tx.ExecContext(ctx, query, k, v); err != nil {
			logger.DatabaseResult("UPSERT", 0, err)
			return translateError(err)
		}
	}
	if err := tx.Commit(); err != nil {
		return translateError(err)
	}
	logger.DatabaseResult("UPSERT", int64(len(values)), nil)
	return nil
}
