// Package memory provides in-memory reference adapters for the storage
// ports. They honor the same contracts as the production adapters
// (atomic unique email, per-id linearizability) and back local
// development and tests.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/leadpilot/auth-service/internal/domain/entity"
	"github.com/leadpilot/auth-service/internal/domain/repository"
)

type UserRepository struct {
	mu      sync.Mutex
	byID    map[string]entity.User
	byEmail map[string]string // normalized email -> id
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[string]entity.User),
		byEmail: make(map[string]string),
	}
}

func emailIndexKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := emailIndexKey(u.Email)
	if _, taken := r.byEmail[key]; taken {
		return repository.ErrDuplicateKey
	}
	if _, taken := r.byID[u.ID]; taken {
		return repository.ErrDuplicateKey
	}
	r.byID[u.ID] = *u
	r.byEmail[key] = u.ID
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := u
	return &out, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byEmail[emailIndexKey(email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u := r.byID[id]
	out := u
	return &out, nil
}

func (r *UserRepository) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.byID[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	oldKey := emailIndexKey(old.Email)
	newKey := emailIndexKey(u.Email)
	if oldKey != newKey {
		if _, taken := r.byEmail[newKey]; taken {
			return repository.ErrDuplicateKey
		}
		delete(r.byEmail, oldKey)
		r.byEmail[newKey] = u.ID
	}
	r.byID[u.ID] = *u
	return nil
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	delete(r.byEmail, emailIndexKey(u.Email))
	delete(r.byID, id)
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
