package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/leadpilot/auth-service/internal/domain/entity"
	repo "github.com/leadpilot/auth-service/internal/domain/repository"
)

// OAuthInput is the identity asserted by the provider after the OAuth
// dance completed at the transport layer.
type OAuthInput struct {
	Provider   entity.Provider
	ProviderID string
	Email      string
	Name       string
	AvatarURL  string
	Meta       ClientMeta
}

// LoginWithOAuth signs a user in via an external identity provider.
// Three shapes: the credential is known (plain login, with profile sync),
// the email is known (link a new credential to the existing account), or
// neither (create a fresh account). Linking by email performs no
// ownership confirmation; see DESIGN.md.
func (s *Service) LoginWithOAuth(ctx context.Context, in OAuthInput) (*OAuthResult, error) {
	if !in.Provider.Valid() {
		return nil, ErrInvalidCredentials
	}
	email := normalizeEmail(in.Email)

	var (
		user      *entity.User
		isNewUser bool
	)

	cred, err := s.Credentials.GetOAuth(ctx, in.Provider, in.ProviderID)
	switch {
	case err == nil:
		user, err = s.Users.GetByID(ctx, cred.UserID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("load credential owner: %w", err)
		}
		if err := s.syncProfile(ctx, user, in); err != nil {
			return nil, err
		}

	case errors.Is(err, repo.ErrNotFound):
		user, isNewUser, err = s.attachOrCreate(ctx, email, in)
		if err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("look up oauth credential: %w", err)
	}

	sess, bearer, err := s.createSession(ctx, user, in.Meta)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.Logger.WithFields(map[string]interface{}{
		"user_id":  user.ID,
		"provider": in.Provider,
		"new_user": isNewUser,
	}).Info("oauth login")

	return &OAuthResult{
		AuthResult: AuthResult{User: user, Session: sess, Token: bearer},
		IsNewUser:  isNewUser,
	}, nil
}

// syncProfile updates the user when the IdP-supplied display fields
// changed. This is the only update path for a user after creation.
func (s *Service) syncProfile(ctx context.Context, user *entity.User, in OAuthInput) error {
	changed := false
	if in.Name != "" && in.Name != user.Name {
		user.Name = in.Name
		changed = true
	}
	if in.AvatarURL != "" && in.AvatarURL != user.AvatarURL {
		user.AvatarURL = in.AvatarURL
		changed = true
	}
	if !changed {
		return nil
	}
	user.UpdatedAt = time.Now().UTC()
	if err := s.Users.Update(ctx, user); err != nil {
		return fmt.Errorf("sync profile: %w", err)
	}
	s.indexUser(ctx, user)
	return nil
}

// attachOrCreate links a new OAuth credential to the user owning email,
// creating the account first when no such user exists.
func (s *Service) attachOrCreate(ctx context.Context, email string, in OAuthInput) (*entity.User, bool, error) {
	now := time.Now().UTC()

	user, err := s.Users.GetByEmail(ctx, email)
	isNewUser := false
	if errors.Is(err, repo.ErrNotFound) {
		user = &entity.User{
			ID:            s.Tokens.GenerateSecureID(),
			Email:         email,
			Name:          in.Name,
			AvatarURL:     in.AvatarURL,
			EmailVerified: true,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.Users.Create(ctx, user); err != nil {
			if errors.Is(err, repo.ErrDuplicateKey) {
				return nil, false, ErrUserAlreadyExists
			}
			return nil, false, fmt.Errorf("create user: %w", err)
		}
		isNewUser = true
		s.indexUser(ctx, user)
	} else if err != nil {
		return nil, false, fmt.Errorf("look up user: %w", err)
	}

	cred := &entity.OAuthCredential{
		UserID:     user.ID,
		Provider:   in.Provider,
		ProviderID: in.ProviderID,
		Email:      email,
		Name:       in.Name,
		AvatarURL:  in.AvatarURL,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Credentials.CreateOAuth(ctx, cred); err != nil {
		return nil, false, fmt.Errorf("create oauth credential: %w", err)
	}
	return user, isNewUser, nil
}
