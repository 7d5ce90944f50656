package repository

import (
	"context"
	"errors"

	"github.com/leadpilot/auth-service/internal/domain/entity"
)

// Sentinel errors shared by all storage adapters. Use cases translate
// these into the caller-facing error kinds.
var (
	ErrNotFound     = errors.New("not found")
	ErrDuplicateKey = errors.New("duplicate key")
)

// UserRepository defines durable persistence for accounts. Create must
// enforce email uniqueness atomically: of two concurrent creates for the
// same normalized email, exactly one succeeds and the other returns
// ErrDuplicateKey.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	Delete(ctx context.Context, id string) error
}
