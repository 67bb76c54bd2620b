package handlers

import (
	"net/http"
	"strconv"

	"canchas/middleware"
	"canchas/services/reservation"
	"canchas/utils"

	"github.com/gin-gonic/gin"
)

// ReservationHandler serves the court lookup and the reservation draft endpoints.
type ReservationHandler struct {
	Planner reservation.PlannerService
}

func NewReservationHandler(planner reservation.PlannerService) *ReservationHandler {
	return &ReservationHandler{Planner: planner}
}

func (h *ReservationHandler) GetCanchaHandler(c *gin.Context) {
	sess, _ := middleware.CurrentSession(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		utils.JSONError(c, http.StatusBadRequest, "Invalid cancha id", c.Param("id"))
		return
	}
	cancha, slots, err := h.Planner.Cancha(c.Request.Context(), sess, id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cancha": cancha, "horarios": slots})
}

type startDraftRequest struct {
	IDCancha int `json:"id_cancha" binding:"required,gt=0"`
}

func (h *ReservationHandler) StartDraftHandler(c *gin.Context) {
	sess, _ := middleware.CurrentSession(c)
	var req startDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}
	d, err := h.Planner.Start(c.Request.Context(), sess, req.IDCancha)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d.View())
}

func (h *ReservationHandler) GetDraftHandler(c *gin.Context) {
	sess, _ := middleware.CurrentSession(c)
	d, err := h.Planner.Get(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, d.View())
}

type fechaRequest struct {
	Fecha string `json:"fecha" binding:"required"`
}

func (h *ReservationHandler) SetFechaHandler(c *gin.Context) {
	sess, _ := middleware.CurrentSession(c)
	var req fechaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}
	d, err := h.Planner.SetFecha(c.Request.Context(), sess, c.Param("id"), req.Fecha)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, d.View())
}

type cupoRequest struct {
	Cupo int `json:"cupo"`
}

func (h *ReservationHandler) SetCupoHandler(c *gin.Context) {
	sess, _ := middleware.CurrentSession(c)
	var req cupoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}
	d, err := h.Planner.SetCupo(c.Request.Context(), sess, c.Param("id"), req.Cupo)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, d.View())
}

func (h *ReservationHandler) ToggleSlotHandler(c *gin.Context) {
	sess, _ := middleware.CurrentSession(c)
	d, err := h.Planner.Toggle(c.Request.Context(), sess, c.Param("id"), c.Param("slot"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, d.View())
}

// DiscardDraftHandler deletes a draft the caller no longer wants.
func (h *ReservationHandler) DiscardDraftHandler(c *gin.Context) {
	sess, _ := middleware.CurrentSession(c)
	if err := h.Planner.Discard(c.Request.Context(), sess, c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ConfirmHandler submits the draft and returns it with the receipt.
func (h *ReservationHandler) ConfirmHandler(c *gin.Context) {
	sess, _ := middleware.CurrentSession(c)
	d, err := h.Planner.Submit(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"borrador": d.View(), "recibo": d.Receipt})
}
