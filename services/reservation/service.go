package reservation

import (
	"context"
	"errors"
	"time"

	"canchas/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	msgCargarCancha      = "No se pudo cargar la cancha"
	msgCargarHorario     = "No se pudieron cargar los horarios ocupados"
	msgEnvioInterrumpido = "El envío anterior no terminó. Revise sus reservas antes de reintentar"
)

const (
	defaultStaleSubmitAfter = 2 * time.Minute
	outcomeWriteAttempts    = 3
)

var outcomeRetryDelay = 100 * time.Millisecond

func (s *DefaultPlannerService) now() time.Time {
	clock := s.Clock
	if clock == nil {
		clock = RealClock{}
	}
	loc := s.Location
	if loc == nil {
		loc = time.Local
	}
	return clock.Now().In(loc)
}

func (s *DefaultPlannerService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// unlockStale releases a draft whose submission never recorded an outcome.
func (s *DefaultPlannerService) unlockStale(d *Draft) {
	maxAge := s.StaleSubmitAfter
	if maxAge <= 0 {
		maxAge = defaultStaleSubmitAfter
	}
	if d.recoverStale(time.Now().UTC(), maxAge) {
		s.logger().Warn("submission never recorded an outcome, draft marked failed", zap.String("draftId", d.ID))
	}
}

func requireClient(sess *models.AuthSession) error {
	if !sess.IsClient() {
		return ErrNotClient
	}
	return nil
}

func owned(d *Draft, sess *models.AuthSession) error {
	if d.OwnerUserID != sess.UserID {
		return ErrDraftForbidden
	}
	return nil
}

// Cancha loads a court together with the slots inside its opening hours.
func (s *DefaultPlannerService) Cancha(ctx context.Context, sess *models.AuthSession, idCancha int) (*models.Cancha, []models.Slot, error) {
	cancha, err := s.API.GetCancha(ctx, sess.BackendToken, idCancha)
	if err != nil {
		return nil, nil, err
	}
	return cancha, AllowedSlots(cancha.HorarioApertura, cancha.HorarioCierre), nil
}

// Start opens a new draft for idCancha. A court that fails to load is recorded on the draft.
func (s *DefaultPlannerService) Start(ctx context.Context, sess *models.AuthSession, idCancha int) (*Draft, error) {
	if err := requireClient(sess); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	d := &Draft{
		ID:          uuid.New().String(),
		OwnerUserID: sess.UserID,
		IDCancha:    idCancha,
		Cupo:        1,
		State:       StateIdle,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	cancha, err := s.API.GetCancha(ctx, sess.BackendToken, idCancha)
	if err != nil {
		s.logger().Warn("failed to load cancha", zap.Int("idCancha", idCancha), zap.Error(err))
		d.LoadError = messageFor(err, msgCargarCancha)
	} else {
		d.Cancha = cancha
	}

	if err := s.Store.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *DefaultPlannerService) Get(ctx context.Context, sess *models.AuthSession, draftID string) (*Draft, error) {
	d, err := s.Store.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if err := owned(d, sess); err != nil {
		return nil, err
	}
	return d, nil
}

// SetFecha changes the date and refreshes the busy set. Only the newest fetch may apply its result.
func (s *DefaultPlannerService) SetFecha(ctx context.Context, sess *models.AuthSession, draftID, fecha string) (*Draft, error) {
	var gen uint64
	var idCancha int
	var fetch bool
	d, err := s.Store.Update(ctx, draftID, func(d *Draft) error {
		if err := owned(d, sess); err != nil {
			return err
		}
		s.unlockStale(d)
		if err := d.editable(); err != nil {
			return err
		}
		gen = d.BeginBusyFetch(fecha)
		d.LoadError = ""
		idCancha = d.IDCancha
		_, perr := ParseFecha(fecha, s.now().Location())
		fetch = d.Cancha != nil && perr == nil
		return nil
	})
	if err != nil || !fetch {
		return d, err
	}

	log := s.logger().With(zap.String("draftId", draftID), zap.String("fecha", fecha), zap.Uint64("generation", gen))
	ocupados, ferr := s.API.GetOcupados(ctx, sess.BackendToken, idCancha, fecha)
	if ferr != nil {
		log.Warn("failed to load busy slots", zap.Error(ferr))
	}

	applied := true
	d, err = s.Store.Update(ctx, draftID, func(d *Draft) error {
		if d.State == StateSubmitting || d.State == StateSucceeded {
			applied = false
			return nil
		}
		if ferr != nil {
			applied = d.FailBusy(gen, messageFor(ferr, msgCargarHorario))
		} else {
			applied = d.ApplyBusy(gen, ocupados)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !applied {
		log.Debug("discarded stale busy slots")
	}
	return d, nil
}

func (s *DefaultPlannerService) SetCupo(ctx context.Context, sess *models.AuthSession, draftID string, cupo int) (*Draft, error) {
	if cupo <= 0 {
		return nil, ErrInvalidCupo
	}
	return s.Store.Update(ctx, draftID, func(d *Draft) error {
		if err := owned(d, sess); err != nil {
			return err
		}
		s.unlockStale(d)
		if err := d.editable(); err != nil {
			return err
		}
		d.Cupo = cupo
		return nil
	})
}

func (s *DefaultPlannerService) Toggle(ctx context.Context, sess *models.AuthSession, draftID, slotID string) (*Draft, error) {
	return s.Store.Update(ctx, draftID, func(d *Draft) error {
		if err := owned(d, sess); err != nil {
			return err
		}
		s.unlockStale(d)
		if err := d.editable(); err != nil {
			return err
		}
		return d.Toggle(slotID)
	})
}

// Submit validates the draft and, when it passes, runs the submission saga.
// A *ValidationError or *SubmissionError is returned together with the updated draft.
func (s *DefaultPlannerService) Submit(ctx context.Context, sess *models.AuthSession, draftID string) (*Draft, error) {
	var verr *ValidationError
	var order Order
	d, err := s.Store.Update(ctx, draftID, func(d *Draft) error {
		verr = nil
		if err := owned(d, sess); err != nil {
			return err
		}
		s.unlockStale(d)
		if err := d.transition(StateValidating); err != nil {
			return err
		}
		if verr = d.Validate(s.now(), sess); verr != nil {
			d.LastError = verr.Message
			return d.transition(StateIdle)
		}
		d.LastError = ""
		d.Receipt = nil
		order = Order{
			DraftID:   d.ID,
			UserID:    sess.UserID,
			IDCliente: sess.ClienteID,
			Cancha:    *d.Cancha,
			Fecha:     d.Fecha,
			Cupo:      d.Cupo,
			Slots:     d.Selected.Slots(),
			Token:     sess.BackendToken,
		}
		return d.transition(StateSubmitting)
	})
	if err != nil {
		return nil, err
	}
	if verr != nil {
		return d, verr
	}

	receipt, rec, serr := s.Submitter.Submit(ctx, order)

	final, err := s.recordOutcome(context.WithoutCancel(ctx), draftID, receipt, rec, serr)
	if err != nil {
		s.logger().Error("failed to record submission outcome",
			zap.String("draftId", draftID), zap.Error(err))
		if serr != nil {
			return nil, serr
		}
		return &Draft{ID: draftID, OwnerUserID: sess.UserID, State: StateSucceeded, Receipt: receipt}, nil
	}
	if serr != nil {
		return final, serr
	}
	return final, nil
}

// recordOutcome stores the saga result on the draft, retrying transient store failures.
func (s *DefaultPlannerService) recordOutcome(ctx context.Context, draftID string, receipt *models.Receipt, rec *models.SubmissionRecord, serr error) (*Draft, error) {
	var d *Draft
	var err error
	for attempt := 1; attempt <= outcomeWriteAttempts; attempt++ {
		d, err = s.Store.Update(ctx, draftID, func(d *Draft) error {
			// The saga result wins over a stale recovery made while it ran.
			d.State = StateSubmitting
			if rec != nil {
				d.SubmissionID = rec.ID
			}
			if serr != nil {
				d.LastError = serr.Error()
				var subErr *SubmissionError
				if errors.As(serr, &subErr) {
					d.LastError = subErr.Mensaje
				}
				return d.transition(StateFailed)
			}
			d.LastError = ""
			d.Receipt = receipt
			return d.transition(StateSucceeded)
		})
		if err == nil || errors.Is(err, ErrDraftNotFound) {
			return d, err
		}
		s.logger().Warn("failed to record submission outcome, retrying",
			zap.String("draftId", draftID), zap.Int("attempt", attempt), zap.Error(err))
		if attempt < outcomeWriteAttempts {
			time.Sleep(time.Duration(attempt) * outcomeRetryDelay)
		}
	}
	return nil, err
}

// Discard deletes a draft. A draft whose submission is still running cannot be discarded.
func (s *DefaultPlannerService) Discard(ctx context.Context, sess *models.AuthSession, draftID string) error {
	_, err := s.Store.Update(ctx, draftID, func(d *Draft) error {
		if err := owned(d, sess); err != nil {
			return err
		}
		s.unlockStale(d)
		if d.State == StateSubmitting {
			return ErrDraftLocked
		}
		return nil
	})
	if err != nil {
		return err
	}
	return s.Store.Delete(ctx, draftID)
}
