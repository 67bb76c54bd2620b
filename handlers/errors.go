package handlers

import (
	"errors"
	"net/http"

	"canchas/services/api"
	"canchas/services/reservation"
	"canchas/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// writeServiceError maps planner and backend errors to HTTP responses.
func writeServiceError(c *gin.Context, err error) {
	var verr *reservation.ValidationError
	var serr *reservation.SubmissionError
	var apiErr *api.APIError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": verr.Message, "code": verr.Code, "slots": verr.Slots})
	case errors.As(err, &serr):
		c.JSON(http.StatusBadGateway, gin.H{
			"message":     serr.Mensaje,
			"code":        "envio_fallido",
			"stage":       serr.Stage,
			"compensated": serr.Compensated,
		})
	case errors.Is(err, reservation.ErrDraftNotFound):
		utils.JSONErrorCode(c, http.StatusNotFound, "borrador_no_encontrado", "Draft not found or expired")
	case errors.Is(err, reservation.ErrDraftForbidden), errors.Is(err, reservation.ErrNotClient):
		utils.JSONErrorCode(c, http.StatusForbidden, "prohibido", err.Error())
	case errors.Is(err, reservation.ErrDraftLocked), errors.Is(err, reservation.ErrConflict):
		utils.JSONErrorCode(c, http.StatusConflict, "borrador_bloqueado", err.Error())
	case errors.Is(err, reservation.ErrSlotNotSelectable):
		utils.JSONErrorCode(c, http.StatusUnprocessableEntity, "horario_no_seleccionable", err.Error())
	case errors.Is(err, reservation.ErrInvalidCupo):
		utils.JSONErrorCode(c, http.StatusBadRequest, reservation.CodeCupoInvalido, err.Error())
	case errors.As(err, &apiErr):
		status := http.StatusBadGateway
		if apiErr.Status == http.StatusNotFound {
			status = http.StatusNotFound
		}
		msg := apiErr.Mensaje
		if msg == "" {
			msg = "Booking service error"
		}
		utils.JSONErrorCode(c, status, "backend", msg)
	default:
		getLogger(c).Error("unexpected service error", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error", "")
	}
}
