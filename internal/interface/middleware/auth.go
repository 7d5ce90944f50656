package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/leadpilot/auth-service/internal/application"
	"github.com/leadpilot/auth-service/pkg/helpers"
	"github.com/leadpilot/auth-service/pkg/response"
)

// Context keys set by Auth on success.
const (
	CtxUserIDKey    = "userID"
	CtxUserEmailKey = "userEmail"
	CtxSessionIDKey = "sessionID"
)

// Auth verifies the bearer token (header or cookie) via the session core
// and injects the caller's identity into the Gin context. Verification is
// binary for middleware purposes: any failure is a 401.
func Auth(auth *application.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""
		if h := c.GetHeader("Authorization"); h != "" {
			if tok, found := strings.CutPrefix(h, "Bearer "); found {
				token = strings.TrimSpace(tok)
			}
		}
		if token == "" {
			token, _ = c.Cookie(helpers.SessionCookieName)
		}
		if token == "" {
			response.Error(c, http.StatusUnauthorized, "missing token", nil)
			return
		}

		res, err := auth.VerifySession(c.Request.Context(), token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "invalid or expired session", nil)
			return
		}

		c.Set(CtxUserIDKey, res.User.ID)
		c.Set(CtxUserEmailKey, res.User.Email)
		c.Set(CtxSessionIDKey, res.Session.ID)
		c.Next()
	}
}
