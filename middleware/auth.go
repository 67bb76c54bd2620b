package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"canchas/models"
	"canchas/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	ContextSessionKey = "session"
	ContextUserIDKey  = "userID"
)

// SessionLoader bootstraps the server side session named by a token.
type SessionLoader interface {
	Load(ctx context.Context, sessionID string) (*models.AuthSession, error)
}

// SessionAuthMiddleware validates the bearer JWT and loads its session into the context.
func SessionAuthMiddleware(sessions SessionLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{Message: "Missing or invalid Authorization header", Code: "no_autenticado"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := utils.ExtractClaims(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{Message: "Invalid token", Code: "token_invalido"})
			return
		}

		sess, err := sessions.Load(c.Request.Context(), claims.SessionID)
		if err != nil {
			if errors.Is(err, utils.ErrSessionNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{Message: "Session expired", Code: "sesion_expirada"})
				return
			}
			utils.GetLogger().Error("failed to load session", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, utils.ErrorResponse{Message: "Session store unavailable"})
			return
		}
		if strconv.Itoa(sess.UserID) != claims.UserID {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{Message: "Token does not match session", Code: "token_invalido"})
			return
		}

		c.Set(ContextSessionKey, sess)
		c.Set(ContextUserIDKey, sess.UserID)
		c.Next()
	}
}

// CurrentSession returns the session placed in the context by SessionAuthMiddleware.
func CurrentSession(c *gin.Context) (*models.AuthSession, bool) {
	v, ok := c.Get(ContextSessionKey)
	if !ok {
		return nil, false
	}
	sess, ok := v.(*models.AuthSession)
	return sess, ok && sess != nil
}
