package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadpilot/auth-service/internal/domain/entity"
	"github.com/leadpilot/auth-service/internal/domain/repository"
)

func testUser(id, email string) *entity.User {
	now := time.Now().UTC()
	return &entity.User{ID: id, Email: email, Name: "Ada", EmailVerified: true, CreatedAt: now, UpdatedAt: now}
}

func testSession(id, userID string, ttl time.Duration) *entity.Session {
	now := time.Now().UTC()
	return &entity.Session{
		ID:        id,
		UserID:    userID,
		Token:     "tok-" + id,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
}

func TestUserRepository(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, testUser("u1", "ada@example.com")))

	got, err := r.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", got.Email)

	got, err = r.GetByEmail(ctx, "ADA@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)

	// Email uniqueness is case-insensitive.
	err = r.Create(ctx, testUser("u2", "Ada@Example.com"))
	assert.ErrorIs(t, err, repository.ErrDuplicateKey)

	_, err = r.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	got.Name = "Ada Lovelace"
	require.NoError(t, r.Update(ctx, got))
	got, err = r.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", got.Name)

	require.NoError(t, r.Delete(ctx, "u1"))
	_, err = r.GetByEmail(ctx, "ada@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_UpdateEmailReindexes(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, testUser("u1", "old@example.com")))
	u, err := r.GetByID(ctx, "u1")
	require.NoError(t, err)
	u.Email = "new@example.com"
	require.NoError(t, r.Update(ctx, u))

	_, err = r.GetByEmail(ctx, "old@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	got, err := r.GetByEmail(ctx, "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)
}

func TestCredentialRepository_Email(t *testing.T) {
	r := NewCredentialRepository()
	ctx := context.Background()
	now := time.Now().UTC()

	cred := &entity.EmailCredential{UserID: "u1", Email: "ada@example.com", HashedPassword: "h", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, r.CreateEmail(ctx, cred))

	got, err := r.GetEmailByAddress(ctx, "ADA@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)

	// One email credential per user, one user per email.
	err = r.CreateEmail(ctx, &entity.EmailCredential{UserID: "u1", Email: "other@example.com"})
	assert.ErrorIs(t, err, repository.ErrDuplicateKey)
	err = r.CreateEmail(ctx, &entity.EmailCredential{UserID: "u2", Email: "ada@example.com"})
	assert.ErrorIs(t, err, repository.ErrDuplicateKey)
}

func TestCredentialRepository_OAuth(t *testing.T) {
	r := NewCredentialRepository()
	ctx := context.Background()

	cred := &entity.OAuthCredential{UserID: "u1", Provider: entity.ProviderGoogle, ProviderID: "g-1"}
	require.NoError(t, r.CreateOAuth(ctx, cred))

	got, err := r.GetOAuth(ctx, entity.ProviderGoogle, "g-1")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)

	_, err = r.GetOAuth(ctx, entity.ProviderGitHub, "g-1")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// Same provider identity cannot belong to two users.
	err = r.CreateOAuth(ctx, &entity.OAuthCredential{UserID: "u2", Provider: entity.ProviderGoogle, ProviderID: "g-1"})
	assert.ErrorIs(t, err, repository.ErrDuplicateKey)

	// One credential per provider per user.
	err = r.CreateOAuth(ctx, &entity.OAuthCredential{UserID: "u1", Provider: entity.ProviderGoogle, ProviderID: "g-2"})
	assert.ErrorIs(t, err, repository.ErrDuplicateKey)

	// A second provider is fine.
	require.NoError(t, r.CreateOAuth(ctx, &entity.OAuthCredential{UserID: "u1", Provider: entity.ProviderGitHub, ProviderID: "gh-1"}))
	creds, err := r.ListOAuthByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, creds, 2)
}

func TestCredentialRepository_DeleteByUser(t *testing.T) {
	r := NewCredentialRepository()
	ctx := context.Background()

	require.NoError(t, r.CreateEmail(ctx, &entity.EmailCredential{UserID: "u1", Email: "ada@example.com"}))
	require.NoError(t, r.CreateOAuth(ctx, &entity.OAuthCredential{UserID: "u1", Provider: entity.ProviderGoogle, ProviderID: "g-1"}))

	require.NoError(t, r.DeleteByUser(ctx, "u1"))

	_, err := r.GetEmailByAddress(ctx, "ada@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	creds, err := r.ListOAuthByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, creds)
}

func TestSessionRepository(t *testing.T) {
	r := NewSessionRepository()
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, testSession("s1", "u1", time.Hour)))

	got, err := r.GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)

	got, err = r.GetByToken(ctx, "tok-s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", got.ID)

	err = r.Create(ctx, testSession("s1", "u2", time.Hour))
	assert.ErrorIs(t, err, repository.ErrDuplicateKey)

	require.NoError(t, r.Delete(ctx, "s1"))
	_, err = r.GetByToken(ctx, "tok-s1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, r.Delete(ctx, "s1"), repository.ErrNotFound)
}

func TestSessionRepository_DeleteByUser(t *testing.T) {
	r := NewSessionRepository()
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, testSession("s1", "u1", time.Hour)))
	require.NoError(t, r.Create(ctx, testSession("s2", "u1", time.Hour)))
	require.NoError(t, r.Create(ctx, testSession("s3", "u2", time.Hour)))

	require.NoError(t, r.DeleteByUser(ctx, "u1"))

	_, err := r.GetByID(ctx, "s1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = r.GetByID(ctx, "s2")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = r.GetByID(ctx, "s3")
	assert.NoError(t, err)
}

func TestSessionRepository_DeleteExpired(t *testing.T) {
	r := NewSessionRepository()
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, testSession("live", "u1", time.Hour)))
	require.NoError(t, r.Create(ctx, testSession("dead1", "u1", -time.Minute)))
	require.NoError(t, r.Create(ctx, testSession("dead2", "u2", -time.Hour)))

	n, err := r.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = r.GetByID(ctx, "live")
	assert.NoError(t, err)
	_, err = r.GetByID(ctx, "dead1")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	n, err = r.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSessionCache(t *testing.T) {
	c := NewSessionCache()
	defer c.Close()
	ctx := context.Background()

	entry := &entity.CachedSession{SessionID: "s1", UserID: "u1", Email: "ada@example.com"}
	require.NoError(t, c.Set(ctx, "session:s1", entry, time.Minute))

	got, ok := c.Get(ctx, "session:s1")
	require.True(t, ok)
	assert.Equal(t, "u1", got.UserID)

	// Returned values are copies; mutating one does not corrupt the cache.
	got.UserID = "mutated"
	again, ok := c.Get(ctx, "session:s1")
	require.True(t, ok)
	assert.Equal(t, "u1", again.UserID)

	require.NoError(t, c.Delete(ctx, "session:s1", "user:u1"))
	_, ok = c.Get(ctx, "session:s1")
	assert.False(t, ok)
}

func TestSessionCache_TTL(t *testing.T) {
	c := NewSessionCache()
	defer c.Close()
	ctx := context.Background()

	entry := &entity.CachedSession{SessionID: "s1", UserID: "u1"}
	require.NoError(t, c.Set(ctx, "session:s1", entry, 10*time.Millisecond))

	_, ok := c.Get(ctx, "session:s1")
	assert.True(t, ok)

	time.Sleep(20 * time.Millisecond)
	_, ok = c.Get(ctx, "session:s1")
	assert.False(t, ok)
}

func TestSessionCache_CloseIsIdempotent(t *testing.T) {
	c := NewSessionCache()
	c.Close()
	c.Close()
}
