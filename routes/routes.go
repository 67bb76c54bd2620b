package routes

import (
	"net/http"
	"time"

	"canchas/config"
	"canchas/handlers"
	"canchas/middleware"
	"canchas/models"
	"canchas/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers login, logout and session endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/login", hb.LoginHandler)

		// Protected routes (Require Authentication)
		api.Use(hb.SessionAuth)
		api.POST("/logout", hb.LogoutHandler)
		api.GET("/me", hb.MeHandler)
	}
}

// RegisterReservationRoutes registers court lookup and reservation draft endpoints.
func RegisterReservationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	canchas := r.Group("/api/canchas")
	{
		canchas.Use(hb.SessionAuth)
		canchas.GET("/:id", hb.GetCanchaHandler)
	}

	drafts := r.Group("/api/reservas/borrador")
	{
		drafts.Use(hb.SessionAuth, middleware.RequireRole(models.RoleCliente))
		drafts.POST("", hb.StartDraftHandler)
		drafts.GET("/:id", hb.GetDraftHandler)
		drafts.PUT("/:id/fecha", hb.SetFechaHandler)
		drafts.PUT("/:id/cupo", hb.SetCupoHandler)
		drafts.POST("/:id/horarios/:slot", hb.ToggleSlotHandler)
		drafts.POST("/:id/confirmar", hb.ConfirmHandler)
		drafts.DELETE("/:id", hb.DiscardDraftHandler)
	}
}

// RegisterQRRoutes registers the public QR image endpoint.
func RegisterQRRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/api/qr/:code", hb.GetQRHandler)
}

// RegisterAdminRoutes registers reconciliation endpoints.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	admin := r.Group("/api/admin")
	{
		admin.Use(hb.SessionAuth, middleware.RequireRole(models.RoleAdmin))
		admin.GET("/envios", hb.ListSubmissionsHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint backed by the health monitor.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		status := utils.GetHealthStatus()
		healthy := status.Mongo
		for _, ok := range status.Redis {
			healthy = healthy && ok
		}
		code := http.StatusOK
		if !healthy {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": healthy, "dependencies": status})
	})
}

// RegisterRoutes sets up global middleware and every route group.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	origins := []string{"*"}
	if config.AppConfig.PublicOrigin != "" {
		origins = []string{config.AppConfig.PublicOrigin}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}))

	RegisterAuthRoutes(r, hb)
	RegisterReservationRoutes(r, hb)
	RegisterQRRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterHealthRoute(r)
}
