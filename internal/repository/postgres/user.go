package postgres

import (
	"context"
	"database/sql"

	"library-fines-backend/internal/domain"
	"library-fines-backend/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (username, password_hash, is_admin) VALUES ($1, $2, $3) RETURNING id, created_on`
	err := r.db.QueryRowContext(ctx, query, u.Username, u.PasswordHash, u.IsAdmin).Scan(&u.ID, &u.CreatedOn)
	return translateError(err)
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT id, username, password_hash, is_admin, created_on FROM users WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsAdmin, &u.CreatedOn)
	if err != nil {
		return nil, translateError(err)
	}
	return u, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT id, username, password_hash, is_admin, created_on FROM users WHERE LOWER(username) = LOWER($1)`
	err := r.db.QueryRowContext(ctx, query, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsAdmin, &u.CreatedOn)
	if err != nil {
		return nil, translateError(err)
	}
	return u, nil
}

func (r *userRepository) UpdatePasswordHash(ctx context.Context, id int32, hash string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, hash, id)
	if err != nil {
		return translateError(err)
	}
	return requireAffected(res)
}
