package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/leadpilot/auth-service/internal/domain/entity"
	repo "github.com/leadpilot/auth-service/internal/domain/repository"
	"github.com/leadpilot/auth-service/pkg/mailer"
)

// RegisterInput carries everything needed to create an email/password
// account.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Meta     ClientMeta
}

// Register creates a user with an email credential and logs them straight
// in: one user, one credential, and one session are persisted, and a
// bearer token bound to the session is returned.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := normalizeEmail(in.Email)

	if existing, err := s.Users.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, ErrUserAlreadyExists
	} else if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("look up user: %w", err)
	}

	if violations := s.Hasher.Validate(in.Password); len(violations) > 0 {
		return nil, &PasswordPolicyError{Violations: violations}
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &entity.User{
		ID:    s.Tokens.GenerateSecureID(),
		Email: email,
		Name:  in.Name,
		// No verification-email flow exists; accounts are usable at once.
		EmailVerified: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.Users.Create(ctx, user); err != nil {
		// The unique index is the authority under concurrent registration.
		if errors.Is(err, repo.ErrDuplicateKey) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	cred := &entity.EmailCredential{
		UserID:         user.ID,
		Email:          email,
		HashedPassword: hash,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.Credentials.CreateEmail(ctx, cred); err != nil {
		return nil, fmt.Errorf("create credential: %w", err)
	}

	sess, bearer, err := s.createSession(ctx, user, in.Meta)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.enqueueWelcomeEmail(ctx, user)
	s.indexUser(ctx, user)

	s.Logger.WithFields(map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("user registered")

	return &AuthResult{User: user, Session: sess, Token: bearer}, nil
}

// enqueueWelcomeEmail publishes a welcome job for the email worker.
// Best-effort: registration never fails because the broker is down.
func (s *Service) enqueueWelcomeEmail(ctx context.Context, u *entity.User) {
	if s.Pub == nil {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: mailer.TemplateWelcome,
		Data:     map[string]any{"Name": u.Name, "Email": u.Email},
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("welcome email enqueue failed")
	}
}
