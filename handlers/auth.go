package handlers

import (
	"errors"
	"net/http"

	"canchas/middleware"
	"canchas/services/api"
	"canchas/services/session"
	"canchas/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler exposes login, logout and the current session.
type AuthHandler struct {
	Sessions session.SessionService
}

func NewAuthHandler(sessions session.SessionService) *AuthHandler {
	return &AuthHandler{Sessions: sessions}
}

type loginRequest struct {
	Correo     string `json:"correo" binding:"required"`
	Contrasena string `json:"contrasena" binding:"required"`
}

func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	res, err := h.Sessions.Login(c.Request.Context(), req.Correo, req.Contrasena)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, res)
	case errors.Is(err, session.ErrMissingCredentials):
		utils.JSONErrorCode(c, http.StatusBadRequest, "credenciales_requeridas", err.Error())
	case errors.Is(err, session.ErrInvalidCredentials):
		msg := api.BackendMessage(err)
		if msg == "" {
			msg = "Correo o contraseña incorrectos"
		}
		utils.JSONErrorCode(c, http.StatusUnauthorized, "credenciales_invalidas", msg)
	case errors.Is(err, session.ErrNoKnownRole):
		utils.JSONErrorCode(c, http.StatusForbidden, "rol_desconocido", err.Error())
	default:
		getLogger(c).Error("login failed", zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "Login unavailable", "")
	}
}

func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Not authenticated", "")
		return
	}
	if err := h.Sessions.Logout(c.Request.Context(), sess.ID); err != nil {
		getLogger(c).Error("logout failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to close session", "")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) MeHandler(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Not authenticated", "")
		return
	}
	c.JSON(http.StatusOK, sess.Public())
}
