package entity

import (
	"time"
)

// User is the aggregate root for the account domain.
// Passwords never live here; they are stored as bcrypt hashes on the
// user's EmailCredential.
type User struct {
	ID            string
	Email         string
	Name          string
	AvatarURL     string
	EmailVerified bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
