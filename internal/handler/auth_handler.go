package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noticehub/notice-board-api/internal/middleware"
	"github.com/noticehub/notice-board-api/internal/models"
	"github.com/noticehub/notice-board-api/internal/service"
	appErrors "github.com/noticehub/notice-board-api/pkg/errors"
	"github.com/noticehub/notice-board-api/pkg/response"
)

// AuthHandler wires HTTP endpoints to the session authority.
type AuthHandler struct {
	sessions *service.SessionService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(sessions *service.SessionService) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token     string             `json:"token"`
	Role      models.AccountRole `json:"role"`
	ExpiresAt string             `json:"expires_at"`
	User      *models.Identity   `json:"user"`
}

// Login godoc
// @Summary Authenticate user
// @Description Authenticate by username and password, returns a session token
// @Tags Authentication
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}

	session, err := h.sessions.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, loginResponse{
		Token:     session.Token,
		Role:      session.Role,
		ExpiresAt: session.ExpiresAt.Format("2006-01-02T15:04:05Z07:00"),
		User:      session.Identity(),
	})
}

// Logout godoc
// @Summary Logout current session
// @Description Destroy the session for the presented token
// @Tags Authentication
// @Produce json
// @Success 204 {object} response.Envelope
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.sessions.Logout(c.Request.Context(), middleware.Token(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Me godoc
// @Summary Get current identity
// @Description Returns the identity behind the presented session token
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	sessionValue, ok := c.Get(middleware.ContextSessionKey)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	session := sessionValue.(*models.Session)
	response.JSON(c, http.StatusOK, session.Identity())
}
