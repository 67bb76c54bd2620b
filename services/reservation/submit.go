package reservation

import (
	"context"
	"time"

	"canchas/models"
	"canchas/services/api"
	"canchas/services/qr"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Clock is the time source used by validation and QR issuance.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// Backend is the part of the booking API the saga drives.
type Backend interface {
	CreateReserva(ctx context.Context, token string, payload models.ReservaPayload) (*models.Reserva, error)
	CreateHorario(ctx context.Context, token string, payload models.HorarioPayload) error
	CreateQR(ctx context.Context, token string, payload models.QRPayload) (*models.QRCredential, error)
	CancelReserva(ctx context.Context, token string, idReserva int) error
}

// Journal records saga progress.
type Journal interface {
	Create(ctx context.Context, record models.SubmissionRecord) (string, error)
	Update(ctx context.Context, record models.SubmissionRecord) error
}

// CompensationQueue takes over cancellations that failed inline.
type CompensationQueue interface {
	EnqueueCompensation(ctx context.Context, payload models.CompensationPayload) error
}

// Order is a validated draft ready to be sent to the backend.
type Order struct {
	DraftID   string
	UserID    int
	IDCliente int
	Cancha    models.Cancha
	Fecha     string
	Cupo      int
	Slots     []models.Slot
	Token     string
}

const (
	msgCrearReserva   = "No se pudo crear la reserva"
	msgProgramar      = "No se pudieron programar los horarios"
	msgEmitirQR       = "No se pudo generar el código QR"
	compensateTimeout = 10 * time.Second
)

// Submitter runs create reservation, schedule slots and issue QR as one saga.
// A failure after the reservation exists cancels it.
type Submitter struct {
	API      Backend
	Journal  Journal
	Queue    CompensationQueue
	Clock    Clock
	Location *time.Location
	Origin   string
	Logger   *zap.Logger
}

func (s *Submitter) now() time.Time {
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

func (s *Submitter) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// Submit executes the saga. The returned receipt is nil whenever err is non-nil.
func (s *Submitter) Submit(ctx context.Context, order Order) (*models.Receipt, *models.SubmissionRecord, error) {
	log := s.logger().With(zap.String("draftId", order.DraftID), zap.Int("idCancha", order.Cancha.IDCancha))

	montoPorHora := order.Cancha.MontoPorHora.Float()
	total := Total(len(order.Slots), montoPorHora)
	ids := make([]string, 0, len(order.Slots))
	for _, slot := range order.Slots {
		ids = append(ids, slot.ID)
	}

	rec := models.SubmissionRecord{
		ID:         uuid.New().String(),
		DraftID:    order.DraftID,
		UserID:     order.UserID,
		IDCliente:  order.IDCliente,
		IDCancha:   order.Cancha.IDCancha,
		Fecha:      order.Fecha,
		Cupo:       order.Cupo,
		Horarios:   ids,
		MontoTotal: total,
		Stage:      models.StageCreateReserva,
		Estado:     models.SubmissionEnCurso,
	}
	// Journal writes must land even when the caller goes away mid saga.
	jctx := context.WithoutCancel(ctx)
	s.journalCreate(jctx, &rec)

	reserva, err := s.API.CreateReserva(ctx, order.Token, models.ReservaPayload{
		FechaReserva:   order.Fecha,
		Cupo:           order.Cupo,
		MontoTotal:     total,
		SaldoPendiente: total,
		Estado:         models.ReservaEstadoPendiente,
		IDCliente:      order.IDCliente,
		IDCancha:       order.Cancha.IDCancha,
	})
	if err != nil {
		log.Warn("create reservation failed", zap.Error(err))
		rec.Estado = models.SubmissionFallido
		rec.Mensaje = messageFor(err, msgCrearReserva)
		s.journalUpdate(jctx, &rec)
		return nil, &rec, &SubmissionError{Stage: models.StageCreateReserva, Mensaje: rec.Mensaje, Err: err}
	}
	rec.IDReserva = reserva.IDReserva
	rec.Stage = models.StageSchedule
	s.journalUpdate(jctx, &rec)

	g, gctx := errgroup.WithContext(ctx)
	for _, slot := range order.Slots {
		slot := slot
		g.Go(func() error {
			return s.API.CreateHorario(gctx, order.Token, models.HorarioPayload{
				IDReserva:  reserva.IDReserva,
				Fecha:      order.Fecha,
				HoraInicio: slot.Start.Clock(),
				HoraFin:    slot.End.Clock(),
				Monto:      montoPorHora,
			})
		})
	}
	if err := g.Wait(); err != nil {
		log.Warn("scheduling slots failed", zap.Int("idReserva", reserva.IDReserva), zap.Error(err))
		return nil, &rec, s.compensate(ctx, &rec, order.Token, models.StageSchedule, messageFor(err, msgProgramar), err)
	}

	rec.Stage = models.StageIssueQR
	s.journalUpdate(jctx, &rec)

	fecha, err := ParseFecha(order.Fecha, s.now().Location())
	if err != nil {
		return nil, &rec, s.compensate(ctx, &rec, order.Token, models.StageIssueQR, msgEmitirQR, err)
	}
	expira := fecha.Add(24 * time.Hour)
	credential, err := s.API.CreateQR(ctx, order.Token, models.QRPayload{
		IDReserva:     reserva.IDReserva,
		FechaGenerado: s.now().Format(time.RFC3339),
		FechaExpira:   expira.Format(time.RFC3339),
		Estado:        models.QREstadoActivo,
	})
	if err != nil {
		log.Warn("issuing QR failed", zap.Int("idReserva", reserva.IDReserva), zap.Error(err))
		return nil, &rec, s.compensate(ctx, &rec, order.Token, models.StageIssueQR, messageFor(err, msgEmitirQR), err)
	}

	rec.CodigoQR = credential.CodigoQR
	rec.Estado = models.SubmissionCompletado
	s.journalUpdate(jctx, &rec)

	qrExpira := credential.FechaExpira
	if qrExpira == "" {
		qrExpira = expira.Format(time.RFC3339)
	}
	log.Info("reservation submitted", zap.Int("idReserva", reserva.IDReserva), zap.Int("slots", len(order.Slots)))
	return &models.Receipt{
		IDReserva:  reserva.IDReserva,
		CodigoQR:   credential.CodigoQR,
		JoinLink:   qr.JoinLink(s.Origin, credential.CodigoQR),
		QRExpira:   qrExpira,
		MontoTotal: total,
		Horarios:   ids,
	}, &rec, nil
}

// compensate cancels the reservation. When that fails the cancellation is queued for retry.
func (s *Submitter) compensate(ctx context.Context, rec *models.SubmissionRecord, token, stage, mensaje string, cause error) error {
	serr := &SubmissionError{Stage: stage, Mensaje: mensaje, IDReserva: rec.IDReserva, Err: cause}
	rec.Stage = stage
	rec.Mensaje = mensaje

	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensateTimeout)
	defer cancel()

	log := s.logger().With(zap.String("submissionId", rec.ID), zap.Int("idReserva", rec.IDReserva))
	err := s.API.CancelReserva(cctx, token, rec.IDReserva)
	if err == nil {
		serr.Compensated = true
		rec.Estado = models.SubmissionCompensado
		log.Info("reservation cancelled after failed submission")
		s.journalUpdate(cctx, rec)
		return serr
	}
	log.Warn("inline cancellation failed", zap.Error(err))

	rec.Estado = models.SubmissionFallido
	if s.Queue != nil {
		payload := models.CompensationPayload{SubmissionID: rec.ID, IDReserva: rec.IDReserva}
		if err := s.Queue.EnqueueCompensation(cctx, payload); err != nil {
			log.Error("failed to enqueue compensation", zap.Error(err))
		} else {
			rec.Estado = models.SubmissionCompensacionPendiente
		}
	}
	s.journalUpdate(cctx, rec)
	return serr
}

func (s *Submitter) journalCreate(ctx context.Context, rec *models.SubmissionRecord) {
	if s.Journal == nil {
		return
	}
	if _, err := s.Journal.Create(ctx, *rec); err != nil {
		s.logger().Warn("failed to journal submission", zap.String("submissionId", rec.ID), zap.Error(err))
	}
}

func (s *Submitter) journalUpdate(ctx context.Context, rec *models.SubmissionRecord) {
	if s.Journal == nil {
		return
	}
	if err := s.Journal.Update(ctx, *rec); err != nil {
		s.logger().Warn("failed to update submission journal", zap.String("submissionId", rec.ID), zap.Error(err))
	}
}

// messageFor prefers the backend's own message over the generic one.
func messageFor(err error, generic string) string {
	if msg := api.BackendMessage(err); msg != "" {
		return msg
	}
	return generic
}
