package entity

import (
	"time"
)

// Session is a durable record of an authenticated login. Token is the
// opaque per-session secret, not the signed JWT handed to clients.
// A session is never renewed in place; renewal mints a new session.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	IPAddress string
	UserAgent string
}

// Expired reports whether the session is logically dead, even if it has
// not been purged from storage yet.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// CachedSession is the denormalized cache entry for an already-validated
// session. It carries its own TTL inside the cache; the session store
// stays the source of truth and ExpiresAt is re-checked on every hit.
type CachedSession struct {
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
