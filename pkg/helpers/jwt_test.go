package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIssuer() *TokenIssuer {
	return NewTokenIssuer("test-secret", "auth-service", "leadpilot", time.Hour)
}

func TestTokenIssuer_GenerateAndVerifyJWT(t *testing.T) {
	m := testIssuer()

	token, exp, err := m.GenerateJWT("user-1", "a@b.com", "sess-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := m.VerifyJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.Equal(t, "sess-1", claims.SessionID)
}

func TestTokenIssuer_VerifyExpired(t *testing.T) {
	m := testIssuer()
	m.TTL = -time.Minute

	token, _, err := m.GenerateJWT("user-1", "a@b.com", "sess-1")
	require.NoError(t, err)

	_, err = m.VerifyJWT(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenIssuer_VerifyMalformed(t *testing.T) {
	m := testIssuer()

	_, err := m.VerifyJWT("garbage")
	assert.ErrorIs(t, err, ErrTokenMalformed)

	_, err = m.VerifyJWT("")
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestTokenIssuer_VerifyWrongKey(t *testing.T) {
	other := NewTokenIssuer("other-secret", "auth-service", "leadpilot", time.Hour)
	token, _, err := other.GenerateJWT("user-1", "a@b.com", "sess-1")
	require.NoError(t, err)

	_, err = testIssuer().VerifyJWT(token)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestTokenIssuer_VerifyWrongIssuerOrAudience(t *testing.T) {
	m := testIssuer()

	foreign := NewTokenIssuer("test-secret", "someone-else", "leadpilot", time.Hour)
	token, _, err := foreign.GenerateJWT("user-1", "a@b.com", "sess-1")
	require.NoError(t, err)
	_, err = m.VerifyJWT(token)
	assert.ErrorIs(t, err, ErrTokenInvalidClaims)

	foreign = NewTokenIssuer("test-secret", "auth-service", "other-app", time.Hour)
	token, _, err = foreign.GenerateJWT("user-1", "a@b.com", "sess-1")
	require.NoError(t, err)
	_, err = m.VerifyJWT(token)
	assert.ErrorIs(t, err, ErrTokenInvalidClaims)
}

func TestTokenIssuer_VerifyMissingClaims(t *testing.T) {
	m := testIssuer()
	token, _, err := m.GenerateJWT("", "a@b.com", "")
	require.NoError(t, err)

	_, err = m.VerifyJWT(token)
	assert.ErrorIs(t, err, ErrTokenInvalidClaims)
}

func TestTokenIssuer_GenerateSessionToken(t *testing.T) {
	m := testIssuer()

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		tok, err := m.GenerateSessionToken()
		require.NoError(t, err)
		// 32 bytes of entropy, base64 raw-url encoded
		assert.Len(t, tok, 43)
		_, dup := seen[tok]
		assert.False(t, dup)
		seen[tok] = struct{}{}
	}
}

func TestTokenIssuer_GenerateSecureID(t *testing.T) {
	m := testIssuer()
	a := m.GenerateSecureID()
	b := m.GenerateSecureID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
