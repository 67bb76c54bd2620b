package handlers

import (
	"net/http"
	"strconv"

	"canchas/services/qr"
	"canchas/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// QRHandler renders join links as PNG images.
type QRHandler struct {
	Origin string
}

func NewQRHandler(origin string) *QRHandler {
	return &QRHandler{Origin: origin}
}

func (h *QRHandler) GetQRHandler(c *gin.Context) {
	code := c.Param("code")
	size := qr.DefaultSize
	if raw := c.Query("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid size", raw)
			return
		}
		size = n
	}

	png, err := qr.RenderPNG(qr.JoinLink(h.Origin, code), size)
	if err != nil {
		getLogger(c).Error("failed to render QR", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to generate QR code", "")
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "image/png", png)
}
