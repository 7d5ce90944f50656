package entity

import (
	"time"
)

// Provider identifies an external identity provider.
type Provider string

const (
	ProviderGoogle    Provider = "google"
	ProviderGitHub    Provider = "github"
	ProviderMicrosoft Provider = "microsoft"
)

// Valid reports whether p is one of the supported providers.
func (p Provider) Valid() bool {
	switch p {
	case ProviderGoogle, ProviderGitHub, ProviderMicrosoft:
		return true
	}
	return false
}

// EmailCredential is the password-based proof of identity for a user.
// At most one exists per user.
type EmailCredential struct {
	UserID         string
	Email          string
	HashedPassword string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OAuthCredential links a user to an external identity provider subject.
// At most one exists per (provider, provider id) pair; a user may hold
// several, one per provider.
type OAuthCredential struct {
	UserID     string
	Provider   Provider
	ProviderID string
	Email      string
	Name       string
	AvatarURL  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
