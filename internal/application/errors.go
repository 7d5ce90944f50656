package application

import (
	"errors"
	"strings"
)

// Caller-facing error kinds. Handlers branch on these with errors.Is,
// never on message text. Use cases re-raise recognized kinds unchanged
// and normalize anything unexpected to the most conservative kind so a
// caller can never tell "system broke" from "credential is bad".
var (
	ErrInvalidCredentials        = errors.New("invalid credentials")
	ErrUserAlreadyExists         = errors.New("user already exists")
	ErrUserNotFound              = errors.New("user not found")
	ErrInvalidToken              = errors.New("invalid token")
	ErrSessionExpired            = errors.New("session expired")
	ErrEmailVerificationRequired = errors.New("email verification required")

	// Reserved kinds, defined for the API surface but not triggered by
	// any use case here.
	ErrInsufficientPrivileges = errors.New("insufficient privileges")
	ErrRateLimitExceeded      = errors.New("rate limit exceeded")
)

// PasswordPolicyError aggregates every policy rule a password violated.
type PasswordPolicyError struct {
	Violations []string
}

func (e *PasswordPolicyError) Error() string {
	return "password policy violation: " + strings.Join(e.Violations, "; ")
}
