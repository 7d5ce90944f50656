package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testHasher() *PasswordHasher {
	h := NewPasswordHasher(DefaultPasswordPolicy())
	h.Cost = bcrypt.MinCost
	return h
}

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	h := testHasher()

	hash, err := h.Hash("Str0ng!Pass")
	require.NoError(t, err)
	require.NotEqual(t, "Str0ng!Pass", hash)

	assert.True(t, h.Verify(hash, "Str0ng!Pass"))
	assert.False(t, h.Verify(hash, "Str0ng!Pass2"))
	assert.False(t, h.Verify(hash, ""))
}

func TestPasswordHasher_VerifyMalformedHash(t *testing.T) {
	h := testHasher()
	assert.False(t, h.Verify("not-a-bcrypt-hash", "whatever"))
	assert.False(t, h.Verify("", "whatever"))
}

func TestPasswordHasher_HashesAreSalted(t *testing.T) {
	h := testHasher()
	a, err := h.Hash("Str0ng!Pass")
	require.NoError(t, err)
	b, err := h.Hash("Str0ng!Pass")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestPasswordHasher_Validate(t *testing.T) {
	h := testHasher()

	tests := []struct {
		name       string
		password   string
		violations int
		contains   string
	}{
		{"too short misses several classes", "abc", 4, "must be at least 8 characters long"},
		{"missing symbol only", "Abcdefg1", 1, "must contain a symbol"},
		{"strong password passes", "Str0ng!Pass", 0, ""},
		{"common password", "Password123!x", 0, ""},
		{"denylisted", "password123", 3, "is too common"},
		{"repeated run", "aaaa1234!A", 1, "must not repeat the same character 4 or more times in a row"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := h.Validate(tt.password)
			assert.Len(t, got, tt.violations)
			if tt.contains != "" {
				assert.Contains(t, got, tt.contains)
			}
		})
	}
}

func TestPasswordHasher_ValidateReportsAllRules(t *testing.T) {
	h := testHasher()
	got := h.Validate("abc")
	// min length, uppercase, digit, symbol all at once
	assert.GreaterOrEqual(t, len(got), 4)
}
