package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/leadpilot/auth-service/internal/domain/entity"
	"github.com/leadpilot/auth-service/internal/domain/repository"
)

type CredentialRepository struct {
	pool *pgxpool.Pool
}

func NewCredentialRepository(pool *pgxpool.Pool) *CredentialRepository {
	return &CredentialRepository{pool: pool}
}

func (r *CredentialRepository) CreateEmail(ctx context.Context, c *entity.EmailCredential) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO email_credentials (user_id, email, hashed_password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, c.UserID, c.Email, c.HashedPassword, c.CreatedAt, c.UpdatedAt)
	return translate(err)
}

func (r *CredentialRepository) GetEmailByAddress(ctx context.Context, email string) (*entity.EmailCredential, error) {
	c := &entity.EmailCredential{}
	row := r.pool.QueryRow(ctx, `
		SELECT user_id, email, hashed_password, created_at, updated_at
		FROM email_credentials
		WHERE email = lower($1)
	`, email)
	if err := row.Scan(&c.UserID, &c.Email, &c.HashedPassword, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	return c, nil
}

func (r *CredentialRepository) CreateOAuth(ctx context.Context, c *entity.OAuthCredential) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO oauth_credentials (user_id, provider, provider_id, email, name, avatar_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, c.UserID, c.Provider, c.ProviderID, c.Email, c.Name, c.AvatarURL, c.CreatedAt, c.UpdatedAt)
	return translate(err)
}

func (r *CredentialRepository) GetOAuth(ctx context.Context, provider entity.Provider, providerID string) (*entity.OAuthCredential, error) {
	c := &entity.OAuthCredential{}
	row := r.pool.QueryRow(ctx, `
		SELECT user_id, provider, provider_id, email, name, avatar_url, created_at, updated_at
		FROM oauth_credentials
		WHERE provider = $1 AND provider_id = $2
	`, provider, providerID)
	if err := row.Scan(&c.UserID, &c.Provider, &c.ProviderID, &c.Email, &c.Name,
		&c.AvatarURL, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	return c, nil
}

func (r *CredentialRepository) ListOAuthByUser(ctx context.Context, userID string) ([]*entity.OAuthCredential, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT user_id, provider, provider_id, email, name, avatar_url, created_at, updated_at
		FROM oauth_credentials
		WHERE user_id = $1
		ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var out []*entity.OAuthCredential
	for rows.Next() {
		c := &entity.OAuthCredential{}
		if err := rows.Scan(&c.UserID, &c.Provider, &c.ProviderID, &c.Email, &c.Name,
			&c.AvatarURL, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CredentialRepository) DeleteByUser(ctx context.Context, userID string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM email_credentials WHERE user_id = $1`, userID); err != nil {
		return translate(err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM oauth_credentials WHERE user_id = $1`, userID); err != nil {
		return translate(err)
	}
	return tx.Commit(ctx)
}

var _ repository.CredentialRepository = (*CredentialRepository)(nil)
