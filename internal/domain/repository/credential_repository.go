package repository

import (
	"context"

	"github.com/leadpilot/auth-service/internal/domain/entity"
)

// CredentialRepository persists per-method proofs of identity. Credentials
// are exclusively owned by their user; deleting them never deletes the user.
type CredentialRepository interface {
	CreateEmail(ctx context.Context, c *entity.EmailCredential) error
	GetEmailByAddress(ctx context.Context, email string) (*entity.EmailCredential, error)
	CreateOAuth(ctx context.Context, c *entity.OAuthCredential) error
	GetOAuth(ctx context.Context, provider entity.Provider, providerID string) (*entity.OAuthCredential, error)
	ListOAuthByUser(ctx context.Context, userID string) ([]*entity.OAuthCredential, error)
	DeleteByUser(ctx context.Context, userID string) error
}
