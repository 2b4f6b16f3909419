package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"library-fines-backend/internal/domain"
	"library-fines-backend/internal/repository"

	"github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.MemberRepository
	repository.BookRepository
	repository.FineRepository
	repository.HistoryRepository
	repository.StatsRepository
	repository.SettingsRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                 db,
		UserRepository:     NewUserRepository(db),
		MemberRepository:   NewMemberRepository(db),
		BookRepository:     NewBookRepository(db),
		FineRepository:     NewFineRepository(db),
		HistoryRepository:  NewHistoryRepository(db),
		StatsRepository:    NewStatsRepository(db),
		SettingsRepository: NewSettingsRepository(db),
	}
}

// DB exposes the underlying pool for health checks
func (s *Store) DB() *sql.DB {
	return s.db
}

// PostgreSQL error codes we translate
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
)

// translateError maps driver errors onto domain errors. Anything that is
// not a recognised constraint failure is treated as the store being
// unavailable.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return fmt.Errorf("%w: %s", domain.ErrConflict, pqErr.Detail)
		case pqForeignKeyViolation, pqCheckViolation:
			return fmt.Errorf("%w: %s", domain.ErrInvalidInput, pqErr.Message)
		}
	}
	return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
}

// requireAffected turns a zero-row UPDATE/DELETE into ErrNotFound
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return translateError(err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
