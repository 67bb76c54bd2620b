package middleware

import (
	"net/http"

	"canchas/models"
	"canchas/utils"

	"github.com/gin-gonic/gin"
)

// RequireRole lets the request through when the session holds any of roles.
// RoleCliente additionally needs a resolved client id.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := CurrentSession(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{Message: "Not authenticated", Code: "no_autenticado"})
			return
		}
		for _, role := range roles {
			if !sess.Roles.Has(role) {
				continue
			}
			if role == models.RoleCliente && !sess.IsClient() {
				continue
			}
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusForbidden, utils.ErrorResponse{Message: "Insufficient role", Code: "rol_insuficiente"})
	}
}
