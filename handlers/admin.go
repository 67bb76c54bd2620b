package handlers

import (
	"net/http"
	"strconv"
	"strings"

	submissionRepo "canchas/database/repository/submission"
	"canchas/models"
	"canchas/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var reconcileEstados = []string{models.SubmissionFallido, models.SubmissionCompensacionPendiente}

// AdminHandler exposes the submission journal for reconciliation.
type AdminHandler struct {
	Journal submissionRepo.SubmissionRepository
}

func NewAdminHandler(journal submissionRepo.SubmissionRepository) *AdminHandler {
	return &AdminHandler{Journal: journal}
}

// ListSubmissionsHandler lists journal records. Without ?estado it lists the ones needing attention.
func (ah *AdminHandler) ListSubmissionsHandler(c *gin.Context) {
	estados := reconcileEstados
	if raw := strings.TrimSpace(c.Query("estado")); raw != "" {
		estados = strings.Split(raw, ",")
	}
	limit := int64(100)
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			utils.JSONError(c, http.StatusBadRequest, "Invalid limit", raw)
			return
		}
		limit = n
	}

	records, err := ah.Journal.ListByEstado(c.Request.Context(), estados, limit)
	if err != nil {
		getLogger(c).Error("Failed to list submissions", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to list submissions", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"envios": records, "total": len(records)})
}
