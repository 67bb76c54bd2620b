package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers and the middleware they need.
type HandlerBundle struct {
	// Authenticates requests and loads their session.
	SessionAuth gin.HandlerFunc

	// Auth endpoints
	LoginHandler  gin.HandlerFunc
	LogoutHandler gin.HandlerFunc
	MeHandler     gin.HandlerFunc

	// Court and reservation draft endpoints
	GetCanchaHandler    gin.HandlerFunc
	StartDraftHandler   gin.HandlerFunc
	GetDraftHandler     gin.HandlerFunc
	SetFechaHandler     gin.HandlerFunc
	SetCupoHandler      gin.HandlerFunc
	ToggleSlotHandler   gin.HandlerFunc
	ConfirmHandler      gin.HandlerFunc
	DiscardDraftHandler gin.HandlerFunc

	// QR endpoints
	GetQRHandler gin.HandlerFunc

	// Admin endpoints
	ListSubmissionsHandler gin.HandlerFunc
}
