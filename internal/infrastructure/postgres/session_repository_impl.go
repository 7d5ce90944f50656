package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/leadpilot/auth-service/internal/domain/entity"
	"github.com/leadpilot/auth-service/internal/domain/repository"
)

type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

func (r *SessionRepository) Create(ctx context.Context, s *entity.Session) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO sessions (id, user_id, token, expires_at, created_at, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, s.ID, s.UserID, s.Token, s.ExpiresAt, s.CreatedAt, s.IPAddress, s.UserAgent)
	return translate(err)
}

func (r *SessionRepository) GetByID(ctx context.Context, id string) (*entity.Session, error) {
	s := &entity.Session{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, token, expires_at, created_at, ip_address, user_agent
		FROM sessions
		WHERE id = $1
	`, id)
	if err := row.Scan(&s.ID, &s.UserID, &s.Token, &s.ExpiresAt, &s.CreatedAt,
		&s.IPAddress, &s.UserAgent); err != nil {
		return nil, translate(err)
	}
	return s, nil
}

func (r *SessionRepository) GetByToken(ctx context.Context, token string) (*entity.Session, error) {
	s := &entity.Session{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, token, expires_at, created_at, ip_address, user_agent
		FROM sessions
		WHERE token = $1
	`, token)
	if err := row.Scan(&s.ID, &s.UserID, &s.Token, &s.ExpiresAt, &s.CreatedAt,
		&s.IPAddress, &s.UserAgent); err != nil {
		return nil, translate(err)
	}
	return s, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return translate(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *SessionRepository) DeleteByUser(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID)
	return translate(err)
}

func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= now()`)
	if err != nil {
		return 0, translate(err)
	}
	return res.RowsAffected(), nil
}

var _ repository.SessionRepository = (*SessionRepository)(nil)
