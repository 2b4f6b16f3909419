package postgres

import (
	"context"
	"database/sql"

	"library-fines-backend/internal/domain"
	"library-fines-backend/internal/logger"
	"library-fines-backend/internal/repository"
)

type memberRepository struct {
	db *sql.DB
}

func NewMemberRepository(db *sql.DB) repository.MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) Create(ctx context.Context, m *domain.Member) error {
	query := `INSERT INTO members (name, email, phone) VALUES ($1, NULLIF($2, ''), NULLIF($3, '')) RETURNING id, joined_at`
	err := r.db.QueryRowContext(ctx, query, m.Name, m.Email, m.Phone).Scan(&m.ID, &m.JoinedAt)
	return translateError(err)
}

func (r *memberRepository) GetByID(ctx context.Context, id int32) (*domain.Member, error) {
	m := &domain.Member{}
	query := `SELECT id, name, COALESCE(email, ''), COALESCE(phone, ''), joined_at FROM members WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.JoinedAt)
	if err != nil {
		return nil, translateError(err)
	}
	return m, nil
}

func (r *memberRepository) List(ctx context.Context) ([]domain.Member, error) {
	logger.DatabaseCall("SELECT", "members")
	query := `SELECT id, name, COALESCE(email, ''), COALESCE(phone, ''), joined_at FROM members ORDER BY name, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err)
		return nil, translateError(err)
	}
	defer rows.Close()

	members := []domain.Member{}
	for rows.Next() {
		var m domain.Member
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.JoinedAt); err != nil {
			return nil, translateError(err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err)
	}
	logger.DatabaseResult("SELECT", int64(len(members)), nil)
	return members, nil
}

func (r *memberRepository) Update(ctx context.Context, m *domain.Member) error {
	query := `UPDATE members SET name = $1, email = NULLIF($2, ''), phone = NULLIF($3, '') WHERE id = $4`
	res, err := r.db.ExecContext(ctx, query, m.Name, m.Email, m.Phone, m.ID)
	if err != nil {
		return translateError(err)
	}
	return requireAffected(res)
}

// Delete removes a member. Members with fines or history are protected by
// foreign keys and come back as ErrInvalidInput.
func (r *memberRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return translateError(err)
	}
	return requireAffected(res)
}
