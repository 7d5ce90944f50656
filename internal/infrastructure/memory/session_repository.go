package memory

import (
	"context"
	"sync"
	"time"

	"github.com/leadpilot/auth-service/internal/domain/entity"
	"github.com/leadpilot/auth-service/internal/domain/repository"
)

type SessionRepository struct {
	mu      sync.Mutex
	byID    map[string]entity.Session
	byToken map[string]string // token -> id
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		byID:    make(map[string]entity.Session),
		byToken: make(map[string]string),
	}
}

func (r *SessionRepository) Create(_ context.Context, s *entity.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byID[s.ID]; taken {
		return repository.ErrDuplicateKey
	}
	if _, taken := r.byToken[s.Token]; taken {
		return repository.ErrDuplicateKey
	}
	r.byID[s.ID] = *s
	r.byToken[s.Token] = s.ID
	return nil
}

func (r *SessionRepository) GetByID(_ context.Context, id string) (*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := s
	return &out, nil
}

func (r *SessionRepository) GetByToken(_ context.Context, token string) (*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byToken[token]
	if !ok {
		return nil, repository.ErrNotFound
	}
	s := r.byID[id]
	out := s
	return &out, nil
}

func (r *SessionRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	delete(r.byToken, s.Token)
	delete(r.byID, id)
	return nil
}

func (r *SessionRepository) DeleteByUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.byID {
		if s.UserID == userID {
			delete(r.byToken, s.Token)
			delete(r.byID, id)
		}
	}
	return nil
}

func (r *SessionRepository) DeleteExpired(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	var n int64
	for id, s := range r.byID {
		if !s.ExpiresAt.After(now) {
			delete(r.byToken, s.Token)
			delete(r.byID, id)
			n++
		}
	}
	return n, nil
}

var _ repository.SessionRepository = (*SessionRepository)(nil)
