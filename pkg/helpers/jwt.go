package helpers

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Verification failures callers must be able to tell apart: an expired
// token prompts re-login, the other two are treated as hostile input.
var (
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenMalformed     = errors.New("token malformed or badly signed")
	ErrTokenInvalidClaims = errors.New("token claims failed validation")
)

// SessionClaims is the claim set minted for every session. The JWT is
// bound 1:1 to a durable session at mint time; its validity is necessary
// but not sufficient, the referenced session must still exist.
type SessionClaims struct {
	UserID    string `json:"uid"`
	Email     string `json:"email"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// TokenIssuer mints opaque session tokens and signed bearer tokens.
// The signing key is process-wide configuration and is not rotated at
// runtime.
type TokenIssuer struct {
	Secret   []byte
	Issuer   string
	Audience string
	TTL      time.Duration
}

const defaultBearerTTL = 30 * 24 * time.Hour

func NewTokenIssuer(secret, issuer, audience string, ttl time.Duration) *TokenIssuer {
	if ttl == 0 {
		ttl = defaultBearerTTL
	}
	return &TokenIssuer{
		Secret:   []byte(secret),
		Issuer:   issuer,
		Audience: audience,
		TTL:      ttl,
	}
}

// GenerateSessionToken returns a cryptographically random opaque token
// with 256 bits of entropy. It is the session's durable secret and is
// never transmitted as the bearer token itself.
func (m *TokenIssuer) GenerateSessionToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GenerateSecureID returns a collision-resistant identifier for entities.
func (m *TokenIssuer) GenerateSecureID() string {
	return uuid.NewString()
}

// GenerateJWT mints a signed bearer token for the given session.
func (m *TokenIssuer) GenerateJWT(userID, email, sessionID string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(m.TTL)
	claims := &SessionClaims{
		UserID:    userID,
		Email:     email,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.Issuer,
			Audience:  jwt.ClaimStrings{m.Audience},
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.Secret)
	return s, exp, err
}

// VerifyJWT verifies signature, issuer, audience, and expiry, and decodes
// the claim set. Failures are distinguished as ErrTokenExpired,
// ErrTokenMalformed, or ErrTokenInvalidClaims.
func (m *TokenIssuer) VerifyJWT(tokenStr string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.Secret, nil
	},
		jwt.WithIssuer(m.Issuer),
		jwt.WithAudience(m.Audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed), errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenInvalidIssuer), errors.Is(err, jwt.ErrTokenInvalidAudience), errors.Is(err, jwt.ErrTokenInvalidClaims):
			return nil, ErrTokenInvalidClaims
		default:
			return nil, ErrTokenMalformed
		}
	}
	if !tkn.Valid {
		return nil, ErrTokenInvalidClaims
	}
	if claims.UserID == "" || claims.SessionID == "" {
		return nil, ErrTokenInvalidClaims
	}
	return claims, nil
}
