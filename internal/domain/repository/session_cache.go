package repository

import (
	"context"
	"time"

	"github.com/leadpilot/auth-service/internal/domain/entity"
)

// SessionCache is a fast TTL keyed lookup consulted before the durable
// SessionRepository. It is a pure optimization: all operations are
// best-effort and correctness must hold with the cache unavailable.
type SessionCache interface {
	// Get returns the cached entry for key, or ok=false on a miss.
	// Any backend error is reported as a miss.
	Get(ctx context.Context, key string) (*entity.CachedSession, bool)
	Set(ctx context.Context, key string, entry *entity.CachedSession, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
