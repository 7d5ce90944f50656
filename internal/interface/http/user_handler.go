package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/leadpilot/auth-service/internal/application"
	"github.com/leadpilot/auth-service/internal/interface/middleware"
	"github.com/leadpilot/auth-service/pkg/response"
	"github.com/leadpilot/auth-service/pkg/validation"
)

// UserHandler serves the profile surface behind the auth middleware.
type UserHandler struct {
	Auth   *application.Service
	Logger *logrus.Logger
}

func NewUserHandler(auth *application.Service, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Auth: auth, Logger: logger}
}

// Me GET /api/me
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.Auth.GetProfile(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		writeAuthError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserPayload(user), "profile")
}

// UpdateMe PUT /api/me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req struct {
		Name      string `json:"name" binding:"omitempty,max=120"`
		AvatarURL string `json:"avatar_url" binding:"omitempty,url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	user, err := h.Auth.UpdateProfile(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), application.UpdateProfileInput{
		Name:      req.Name,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		writeAuthError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserPayload(user), "profile updated")
}

// UploadAvatar POST /api/me/avatar (multipart field "file")
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "missing file", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "unreadable file", nil)
		return
	}
	defer func() { _ = f.Close() }()

	url, err := h.Auth.UploadAvatar(c.Request.Context(), c.GetString(middleware.CtxUserIDKey),
		f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		h.Logger.WithError(err).Warn("avatar upload failed")
		response.Error(c, http.StatusInternalServerError, "upload failed", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"avatar_url": url}, "avatar uploaded")
}

// Search GET /api/users/search?q=
func (h *UserHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error(c, http.StatusBadRequest, "missing query", nil)
		return
	}
	hits, err := h.Auth.SearchUsers(c.Request.Context(), q, 10)
	if err != nil {
		h.Logger.WithError(err).Warn("user search failed")
		response.Error(c, http.StatusInternalServerError, "search failed", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "results")
}
