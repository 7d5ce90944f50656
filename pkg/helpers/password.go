package helpers

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// commonPasswords is a small denylist of passwords seen in every breach
// corpus. Checked case-insensitively after trimming.
var commonPasswords = map[string]struct{}{
	"password":    {},
	"password1":   {},
	"password123": {},
	"12345678":    {},
	"123456789":   {},
	"qwerty123":   {},
	"iloveyou":    {},
	"admin123":    {},
	"letmein1":    {},
	"welcome1":    {},
}

// PasswordPolicy configures the rules enforced by Validate.
type PasswordPolicy struct {
	MinLength     int
	RequireUpper  bool
	RequireLower  bool
	RequireDigit  bool
	RequireSymbol bool
}

// DefaultPasswordPolicy mirrors what the registration form promises users.
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:     8,
		RequireUpper:  true,
		RequireLower:  true,
		RequireDigit:  true,
		RequireSymbol: true,
	}
}

// PasswordHasher hashes and verifies passwords with bcrypt and validates
// raw passwords against the configured policy.
type PasswordHasher struct {
	Policy PasswordPolicy
	Cost   int
}

func NewPasswordHasher(policy PasswordPolicy) *PasswordHasher {
	return &PasswordHasher{Policy: policy, Cost: bcrypt.DefaultCost}
}

// Hash returns the bcrypt hash of plain with a per-call random salt.
func (h *PasswordHasher) Hash(plain string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify compares a bcrypt hash with a plain password. It returns false on
// any mismatch, including hashes this hasher never produced.
func (h *PasswordHasher) Verify(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// Validate checks plain against the policy and returns every violated
// rule, not just the first.
func (h *PasswordHasher) Validate(plain string) []string {
	var violations []string

	if len(plain) < h.Policy.MinLength {
		violations = append(violations, fmt.Sprintf("must be at least %d characters long", h.Policy.MinLength))
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range plain {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	if h.Policy.RequireUpper && !hasUpper {
		violations = append(violations, "must contain an uppercase letter")
	}
	if h.Policy.RequireLower && !hasLower {
		violations = append(violations, "must contain a lowercase letter")
	}
	if h.Policy.RequireDigit && !hasDigit {
		violations = append(violations, "must contain a digit")
	}
	if h.Policy.RequireSymbol && !hasSymbol {
		violations = append(violations, "must contain a symbol")
	}

	if _, found := commonPasswords[strings.ToLower(strings.TrimSpace(plain))]; found {
		violations = append(violations, "is too common")
	}
	if hasRepeatedRun(plain, 4) {
		violations = append(violations, "must not repeat the same character 4 or more times in a row")
	}

	return violations
}

func hasRepeatedRun(s string, n int) bool {
	run := 0
	var prev rune
	for i, r := range s {
		if i > 0 && r == prev {
			run++
		} else {
			run = 1
		}
		if run >= n {
			return true
		}
		prev = r
	}
	return false
}
