package repository

import (
	"context"

	"github.com/leadpilot/auth-service/internal/domain/entity"
)

// SessionRepository is the source of truth for sessions. Create and Delete
// must be linearizable per session id so a deleted session can never be
// resurrected by a concurrent read.
type SessionRepository interface {
	Create(ctx context.Context, s *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	GetByToken(ctx context.Context, token string) (*entity.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) error

	// DeleteExpired removes sessions past their natural expiry. Idempotent
	// and safe to run concurrently with live traffic.
	DeleteExpired(ctx context.Context) (int64, error)
}
