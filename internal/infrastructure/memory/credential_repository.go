package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/leadpilot/auth-service/internal/domain/entity"
	"github.com/leadpilot/auth-service/internal/domain/repository"
)

type CredentialRepository struct {
	mu      sync.Mutex
	email   map[string]entity.EmailCredential // normalized email -> credential
	byUser  map[string]string                 // user id -> normalized email
	oauth   map[string]entity.OAuthCredential // provider|providerID -> credential
	oauthBy map[string][]string               // user id -> oauth keys
}

func NewCredentialRepository() *CredentialRepository {
	return &CredentialRepository{
		email:   make(map[string]entity.EmailCredential),
		byUser:  make(map[string]string),
		oauth:   make(map[string]entity.OAuthCredential),
		oauthBy: make(map[string][]string),
	}
}

func oauthKey(p entity.Provider, providerID string) string {
	return string(p) + "|" + providerID
}

func (r *CredentialRepository) CreateEmail(_ context.Context, c *entity.EmailCredential) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := emailIndexKey(c.Email)
	if _, taken := r.email[key]; taken {
		return repository.ErrDuplicateKey
	}
	if _, taken := r.byUser[c.UserID]; taken {
		return repository.ErrDuplicateKey
	}
	r.email[key] = *c
	r.byUser[c.UserID] = key
	return nil
}

func (r *CredentialRepository) GetEmailByAddress(_ context.Context, email string) (*entity.EmailCredential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.email[emailIndexKey(email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := c
	return &out, nil
}

func (r *CredentialRepository) CreateOAuth(_ context.Context, c *entity.OAuthCredential) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := oauthKey(c.Provider, c.ProviderID)
	if _, taken := r.oauth[key]; taken {
		return repository.ErrDuplicateKey
	}
	for _, existing := range r.oauthBy[c.UserID] {
		if strings.HasPrefix(existing, string(c.Provider)+"|") {
			return repository.ErrDuplicateKey
		}
	}
	r.oauth[key] = *c
	r.oauthBy[c.UserID] = append(r.oauthBy[c.UserID], key)
	return nil
}

func (r *CredentialRepository) GetOAuth(_ context.Context, provider entity.Provider, providerID string) (*entity.OAuthCredential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.oauth[oauthKey(provider, providerID)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := c
	return &out, nil
}

func (r *CredentialRepository) ListOAuthByUser(_ context.Context, userID string) ([]*entity.OAuthCredential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := r.oauthBy[userID]
	out := make([]*entity.OAuthCredential, 0, len(keys))
	for _, k := range keys {
		c := r.oauth[k]
		cc := c
		out = append(out, &cc)
	}
	return out, nil
}

func (r *CredentialRepository) DeleteByUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if key, ok := r.byUser[userID]; ok {
		delete(r.email, key)
		delete(r.byUser, userID)
	}
	for _, k := range r.oauthBy[userID] {
		delete(r.oauth, k)
	}
	delete(r.oauthBy, userID)
	return nil
}

var _ repository.CredentialRepository = (*CredentialRepository)(nil)
