package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/leadpilot/auth-service/internal/interface/http"
)

// AuthModule mounts the public auth endpoints.
type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/auth/register", m.Handler.Register)
	rg.POST("/auth/login", m.Handler.Login)
	rg.POST("/auth/oauth", m.Handler.OAuthLogin)
	rg.POST("/auth/logout", m.Handler.Logout)
	rg.GET("/auth/session", m.Handler.VerifySession)
}
