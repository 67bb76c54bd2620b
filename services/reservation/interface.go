package reservation

import (
	"context"
	"time"

	"canchas/models"

	"go.uber.org/zap"
)

// PlannerService drives a reservation draft from court selection to confirmation.
type PlannerService interface {
	Cancha(ctx context.Context, sess *models.AuthSession, idCancha int) (*models.Cancha, []models.Slot, error)
	Start(ctx context.Context, sess *models.AuthSession, idCancha int) (*Draft, error)
	Get(ctx context.Context, sess *models.AuthSession, draftID string) (*Draft, error)
	SetFecha(ctx context.Context, sess *models.AuthSession, draftID, fecha string) (*Draft, error)
	SetCupo(ctx context.Context, sess *models.AuthSession, draftID string, cupo int) (*Draft, error)
	Toggle(ctx context.Context, sess *models.AuthSession, draftID, slotID string) (*Draft, error)
	Submit(ctx context.Context, sess *models.AuthSession, draftID string) (*Draft, error)
	Discard(ctx context.Context, sess *models.AuthSession, draftID string) error
}

// CanchaBackend loads courts and their occupied ranges.
type CanchaBackend interface {
	GetCancha(ctx context.Context, token string, idCancha int) (*models.Cancha, error)
	GetOcupados(ctx context.Context, token string, idCancha int, fecha string) ([]models.BusyInterval, error)
}

// DefaultPlannerService implements PlannerService.
type DefaultPlannerService struct {
	API       CanchaBackend
	Store     DraftStore
	Submitter *Submitter
	Clock     Clock
	Location  *time.Location
	Logger    *zap.Logger
	// StaleSubmitAfter bounds how long a draft may sit in Submitting; zero means two minutes.
	StaleSubmitAfter time.Duration
}
