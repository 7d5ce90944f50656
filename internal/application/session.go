package application

import (
	"context"
	"errors"
	"time"

	"github.com/leadpilot/auth-service/internal/domain/entity"
	repo "github.com/leadpilot/auth-service/internal/domain/repository"
	"github.com/leadpilot/auth-service/pkg/helpers"
)

// Logout deletes the session a bearer token points at. Every token
// verification failure is surfaced uniformly as ErrInvalidToken so logout
// looks idempotent to clients; an expired-but-present session is the one
// distinguishable case (ErrSessionExpired). Nothing is deleted before an
// error is raised, so there is no partial-success state.
func (s *Service) Logout(ctx context.Context, bearer string) error {
	claims, err := s.Tokens.VerifyJWT(bearer)
	if err != nil {
		return ErrInvalidToken
	}

	sess, err := s.Sessions.GetByID(ctx, claims.SessionID)
	if err != nil {
		return ErrInvalidToken
	}
	if sess.Expired(time.Now().UTC()) {
		return ErrSessionExpired
	}

	if err := s.Sessions.Delete(ctx, sess.ID); err != nil {
		s.Logger.WithError(err).WithField("session_id", sess.ID).Error("session delete failed")
		return ErrInvalidToken
	}
	// Best-effort, but always attempted before success is reported.
	s.dropCachedSession(ctx, sess.ID, sess.UserID)

	s.Logger.WithField("user_id", sess.UserID).Info("logout")
	return nil
}

// VerifySession is the hot path, invoked on every authenticated request.
// It verifies the bearer token, then resolves the session cache-first
// with a durable-store fallback, repopulating the cache on the slow path.
// Any unexpected internal failure collapses to ErrInvalidToken.
func (s *Service) VerifySession(ctx context.Context, bearer string) (*VerifyResult, error) {
	claims, err := s.Tokens.VerifyJWT(bearer)
	if err != nil {
		// The bearer and its session share a mint time and TTL, so an
		// expired signature means the session itself has lapsed.
		if errors.Is(err, helpers.ErrTokenExpired) {
			return nil, ErrSessionExpired
		}
		return nil, ErrInvalidToken
	}

	now := time.Now().UTC()

	// Fast path: a cache hit is trusted for display data but its expiry
	// is still re-validated against the embedded ExpiresAt.
	if entry, ok := s.Cache.Get(ctx, sessionKey(claims.SessionID)); ok && entry.ExpiresAt.After(now) {
		user, err := s.loadUser(ctx, entry.UserID)
		if err != nil {
			return nil, err
		}
		sess := &entity.Session{
			ID:        entry.SessionID,
			UserID:    entry.UserID,
			ExpiresAt: entry.ExpiresAt,
			CreatedAt: entry.CreatedAt,
		}
		return &VerifyResult{User: user, Session: sess, IsValid: true}, nil
	}

	// Slow path: the durable store decides.
	sess, err := s.Sessions.GetByID(ctx, claims.SessionID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if sess.Expired(now) {
		// Lazy expiry: clean up on the read that discovered it.
		if err := s.Sessions.Delete(ctx, sess.ID); err != nil {
			s.Logger.WithError(err).WithField("session_id", sess.ID).Warn("expired session delete failed")
		}
		s.dropCachedSession(ctx, sess.ID, sess.UserID)
		return nil, ErrSessionExpired
	}

	user, err := s.loadUser(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	s.cacheSession(ctx, user, sess)

	return &VerifyResult{User: user, Session: sess, IsValid: true}, nil
}

func (s *Service) loadUser(ctx context.Context, userID string) (*entity.User, error) {
	user, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, ErrInvalidToken
	}
	return user, nil
}
