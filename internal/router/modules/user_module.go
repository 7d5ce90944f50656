package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/leadpilot/auth-service/internal/application"
	handlers "github.com/leadpilot/auth-service/internal/interface/http"
	"github.com/leadpilot/auth-service/internal/interface/middleware"
)

// UserModule mounts the profile surface behind session verification.
type UserModule struct {
	Handler *handlers.UserHandler
	Auth    *application.Service
}

func NewUserModule(h *handlers.UserHandler, auth *application.Service) *UserModule {
	return &UserModule{Handler: h, Auth: auth}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/")
	g.Use(middleware.Auth(m.Auth))
	{
		g.GET("/me", m.Handler.Me)
		g.PUT("/me", m.Handler.UpdateMe)
		g.POST("/me/avatar", m.Handler.UploadAvatar)
		g.GET("/users/search", m.Handler.Search)
	}
}
