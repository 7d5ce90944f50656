package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/leadpilot/auth-service/internal/application"
	"github.com/leadpilot/auth-service/internal/domain/entity"
	"github.com/leadpilot/auth-service/pkg/helpers"
	"github.com/leadpilot/auth-service/pkg/response"
	"github.com/leadpilot/auth-service/pkg/validation"
)

// AuthHandler exposes the five auth operations over HTTP. It maps each
// named error kind to a stable status code and never leaks internal
// error text.
type AuthHandler struct {
	Auth    *application.Service
	Cookies *helpers.CookieManager
	Logger  *logrus.Logger
}

func NewAuthHandler(auth *application.Service, cookies *helpers.CookieManager, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Auth: auth, Cookies: cookies, Logger: logger}
}

type userPayload struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name,omitempty"`
	AvatarURL     string    `json:"avatar_url,omitempty"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
}

type sessionPayload struct {
	ID        string    `json:"id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

type authPayload struct {
	User      userPayload    `json:"user"`
	Session   sessionPayload `json:"session"`
	Token     string         `json:"token"`
	IsNewUser *bool          `json:"is_new_user,omitempty"`
}

func toUserPayload(u *entity.User) userPayload {
	return userPayload{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		AvatarURL:     u.AvatarURL,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
	}
}

func toSessionPayload(s *entity.Session) sessionPayload {
	return sessionPayload{ID: s.ID, ExpiresAt: s.ExpiresAt, CreatedAt: s.CreatedAt}
}

func toAuthPayload(r *application.AuthResult) authPayload {
	return authPayload{
		User:    toUserPayload(r.User),
		Session: toSessionPayload(r.Session),
		Token:   r.Token,
	}
}

// clientMeta pulls the per-request metadata recorded on sessions.
func clientMeta(c *gin.Context) application.ClientMeta {
	ip := c.GetString("real_ip")
	if ip == "" {
		ip = c.ClientIP()
	}
	return application.ClientMeta{IPAddress: ip, UserAgent: c.GetHeader("User-Agent")}
}

// bearerToken resolves the signed token from the Authorization header or
// the session cookie.
func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if tok, found := strings.CutPrefix(h, "Bearer "); found {
			return strings.TrimSpace(tok)
		}
	}
	tok, _ := c.Cookie(helpers.SessionCookieName)
	return tok
}

// writeAuthError maps the error taxonomy onto status codes.
func writeAuthError(c *gin.Context, err error) {
	var policyErr *application.PasswordPolicyError
	switch {
	case errors.As(err, &policyErr):
		details := make(map[string]string, 1)
		details["password"] = strings.Join(policyErr.Violations, "; ")
		response.Error(c, http.StatusUnprocessableEntity, "password does not meet policy", details)
	case errors.Is(err, application.ErrUserAlreadyExists):
		response.Error(c, http.StatusConflict, "account already exists", nil)
	case errors.Is(err, application.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "user not found", nil)
	case errors.Is(err, application.ErrEmailVerificationRequired):
		response.Error(c, http.StatusForbidden, "email verification required", nil)
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, "invalid credentials", nil)
	case errors.Is(err, application.ErrSessionExpired):
		response.Error(c, http.StatusUnauthorized, "session expired", nil)
	case errors.Is(err, application.ErrInvalidToken):
		response.Error(c, http.StatusUnauthorized, "invalid token", nil)
	case errors.Is(err, application.ErrInsufficientPrivileges):
		response.Error(c, http.StatusForbidden, "insufficient privileges", nil)
	case errors.Is(err, application.ErrRateLimitExceeded):
		response.Error(c, http.StatusTooManyRequests, "rate limit exceeded", nil)
	default:
		response.Error(c, http.StatusInternalServerError, "internal error", nil)
	}
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
		Name     string `json:"name" binding:"omitempty,max=120"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Auth.Register(c.Request.Context(), application.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Meta:     clientMeta(c),
	})
	if err != nil {
		writeAuthError(c, err)
		return
	}
	h.Cookies.SetSession(c, res.Token, res.Session.ExpiresAt)
	response.Success(c, http.StatusCreated, toAuthPayload(res), "registered")
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Auth.LoginWithEmail(c.Request.Context(), req.Email, req.Password, clientMeta(c))
	if err != nil {
		writeAuthError(c, err)
		return
	}
	h.Cookies.SetSession(c, res.Token, res.Session.ExpiresAt)
	response.Success(c, http.StatusOK, toAuthPayload(res), "logged in")
}

// OAuthLogin POST /api/auth/oauth
// Called by the OAuth callback layer once the provider asserted an
// identity.
func (h *AuthHandler) OAuthLogin(c *gin.Context) {
	var req struct {
		Provider   string `json:"provider" binding:"required,oneof=google github microsoft"`
		ProviderID string `json:"provider_id" binding:"required"`
		Email      string `json:"email" binding:"required,email"`
		Name       string `json:"name" binding:"omitempty,max=120"`
		AvatarURL  string `json:"avatar_url" binding:"omitempty,url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Auth.LoginWithOAuth(c.Request.Context(), application.OAuthInput{
		Provider:   entity.Provider(req.Provider),
		ProviderID: req.ProviderID,
		Email:      req.Email,
		Name:       req.Name,
		AvatarURL:  req.AvatarURL,
		Meta:       clientMeta(c),
	})
	if err != nil {
		writeAuthError(c, err)
		return
	}
	payload := toAuthPayload(&res.AuthResult)
	payload.IsNewUser = &res.IsNewUser
	h.Cookies.SetSession(c, res.Token, res.Session.ExpiresAt)
	response.Success(c, http.StatusOK, payload, "logged in")
}

// Logout POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "missing token", nil)
		return
	}
	if err := h.Auth.Logout(c.Request.Context(), token); err != nil {
		writeAuthError(c, err)
		return
	}
	h.Cookies.Clear(c)
	response.Success(c, http.StatusOK, gin.H{"success": true}, "logged out")
}

// VerifySession GET /api/auth/session
func (h *AuthHandler) VerifySession(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "missing token", nil)
		return
	}
	res, err := h.Auth.VerifySession(c.Request.Context(), token)
	if err != nil {
		writeAuthError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"user":     toUserPayload(res.User),
		"session":  toSessionPayload(res.Session),
		"is_valid": res.IsValid,
	}, "session valid")
}
