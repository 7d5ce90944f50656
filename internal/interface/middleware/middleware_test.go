package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/leadpilot/auth-service/internal/application"
	"github.com/leadpilot/auth-service/internal/infrastructure/memory"
	"github.com/leadpilot/auth-service/pkg/helpers"
)

func newAuthService(t *testing.T) *application.Service {
	t.Helper()
	hasher := helpers.NewPasswordHasher(helpers.DefaultPasswordPolicy())
	hasher.Cost = bcrypt.MinCost
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	cache := memory.NewSessionCache()
	t.Cleanup(cache.Close)
	return application.NewService(
		memory.NewUserRepository(),
		memory.NewCredentialRepository(),
		memory.NewSessionRepository(),
		cache,
		hasher,
		helpers.NewTokenIssuer("test-secret", "auth-service", "leadpilot", time.Hour),
		logger,
		application.Options{},
	)
}

func TestAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := newAuthService(t)

	reg, err := svc.Register(context.Background(), application.RegisterInput{
		Email:    "ada@example.com",
		Password: "Str0ng!Pass",
		Name:     "Ada",
	})
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", Auth(svc), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":    c.GetString(CtxUserIDKey),
			"email":      c.GetString(CtxUserEmailKey),
			"session_id": c.GetString(CtxSessionIDKey),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+reg.Token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), reg.User.ID)
	assert.Contains(t, w.Body.String(), reg.Session.ID)

	// Cookie works as a fallback when the header is absent.
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: helpers.SessionCookieName, Value: reg.Token})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// No token and bad token are both rejected.
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRealIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/ip", RealIP(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("real_ip"))
	})

	get := func(headers map[string]string) string {
		req := httptest.NewRequest(http.MethodGet, "/ip", nil)
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Body.String()
	}

	assert.Equal(t, "198.51.100.7", get(map[string]string{"CF-Connecting-IP": "198.51.100.7"}))
	assert.Equal(t, "203.0.113.9", get(map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1"}))
	// Unparseable headers fall through to Gin's resolution.
	assert.NotEmpty(t, get(map[string]string{"CF-Connecting-IP": "not-an-ip"}))
}
