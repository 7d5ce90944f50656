package application

import (
	"context"
	"errors"
	"fmt"

	repo "github.com/leadpilot/auth-service/internal/domain/repository"
)

// LoginWithEmail authenticates an email/password pair and mints a new
// session. Password-stage failures are always reported as
// ErrInvalidCredentials so responses cannot be used to enumerate accounts.
func (s *Service) LoginWithEmail(ctx context.Context, email, password string, meta ClientMeta) (*AuthResult, error) {
	email = normalizeEmail(email)

	user, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("look up user: %w", err)
	}
	if !user.EmailVerified {
		return nil, ErrEmailVerificationRequired
	}

	cred, err := s.Credentials.GetEmailByAddress(ctx, email)
	if err != nil {
		// A user without an email credential (OAuth-only account) gets the
		// same answer as a wrong password.
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("look up credential: %w", err)
	}
	if !s.Hasher.Verify(cred.HashedPassword, password) {
		return nil, ErrInvalidCredentials
	}

	sess, bearer, err := s.createSession(ctx, user, meta)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.Logger.WithField("user_id", user.ID).Info("email login")
	return &AuthResult{User: user, Session: sess, Token: bearer}, nil
}
