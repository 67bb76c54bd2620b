package reservation

import (
	"context"
	"errors"
	"sync"
	"time"

	"canchas/models"
)

var testLoc = time.FixedZone("BOT", -4*60*60)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func localTime(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, testLoc)
}

func rate(v float64) models.Number { return models.Number(v) }

func capacity(v float64) *models.Number {
	n := models.Number(v)
	return &n
}

func testCancha() *models.Cancha {
	return &models.Cancha{
		IDCancha:        7,
		Nombre:          "Cancha Norte",
		MontoPorHora:    rate(50),
		HorarioApertura: "08:00:00",
		HorarioCierre:   "18:00:00",
		Capacidad:       capacity(10),
	}
}

func clientSession() *models.AuthSession {
	return &models.AuthSession{
		ID:           "sess-1",
		UserID:       5,
		ClienteID:    11,
		Nombre:       "Ana",
		Roles:        models.Roles{models.RoleCliente},
		BackendToken: "backend-token",
	}
}

// fakeBackend records every call made by the planner and the saga.
type fakeBackend struct {
	mu sync.Mutex

	cancha      *models.Cancha
	canchaErr   error
	ocupados    map[string][]models.BusyInterval
	ocupadosErr error
	// onOcupados runs before GetOcupados returns, to interleave other calls.
	onOcupados func(fecha string)

	// onQR runs when CreateQR is called, before it answers.
	onQR func()

	reservaErr error
	horarioErr map[string]error
	qrErr      error
	cancelErr  error

	reservas  []models.ReservaPayload
	horarios  []models.HorarioPayload
	qrs       []models.QRPayload
	cancelled []int
	tokens    []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{cancha: testCancha(), ocupados: map[string][]models.BusyInterval{}, horarioErr: map[string]error{}}
}

func (f *fakeBackend) GetCancha(_ context.Context, token string, id int) (*models.Cancha, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, token)
	if f.canchaErr != nil {
		return nil, f.canchaErr
	}
	c := *f.cancha
	c.IDCancha = id
	return &c, nil
}

func (f *fakeBackend) GetOcupados(_ context.Context, _ string, _ int, fecha string) ([]models.BusyInterval, error) {
	if f.onOcupados != nil {
		f.onOcupados(fecha)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ocupadosErr != nil {
		return nil, f.ocupadosErr
	}
	return f.ocupados[fecha], nil
}

func (f *fakeBackend) CreateReserva(_ context.Context, _ string, p models.ReservaPayload) (*models.Reserva, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reservas = append(f.reservas, p)
	if f.reservaErr != nil {
		return nil, f.reservaErr
	}
	return &models.Reserva{IDReserva: 42, FechaReserva: p.FechaReserva, Estado: p.Estado}, nil
}

func (f *fakeBackend) CreateHorario(_ context.Context, _ string, p models.HorarioPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.horarios = append(f.horarios, p)
	return f.horarioErr[p.HoraInicio]
}

func (f *fakeBackend) CreateQR(_ context.Context, _ string, p models.QRPayload) (*models.QRCredential, error) {
	if f.onQR != nil {
		f.onQR()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.qrs = append(f.qrs, p)
	if f.qrErr != nil {
		return nil, f.qrErr
	}
	return &models.QRCredential{IDReserva: p.IDReserva, CodigoQR: "QR 42/x", FechaExpira: p.FechaExpira, Estado: p.Estado}, nil
}

func (f *fakeBackend) CancelReserva(_ context.Context, _ string, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled = append(f.cancelled, id)
	return f.cancelErr
}

type fakeJournal struct {
	mu      sync.Mutex
	records map[string]models.SubmissionRecord
	history []string
}

func newFakeJournal() *fakeJournal {
	return &fakeJournal{records: map[string]models.SubmissionRecord{}}
}

func (j *fakeJournal) Create(ctx context.Context, r models.SubmissionRecord) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.records[r.ID] = r
	j.history = append(j.history, r.Stage+"/"+r.Estado)
	return r.ID, nil
}

func (j *fakeJournal) Update(ctx context.Context, r models.SubmissionRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if _, ok := j.records[r.ID]; !ok {
		return errors.New("record not found")
	}
	j.records[r.ID] = r
	j.history = append(j.history, r.Stage+"/"+r.Estado)
	return nil
}

func (j *fakeJournal) get(id string) models.SubmissionRecord {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.records[id]
}

type fakeQueue struct {
	err      error
	payloads []models.CompensationPayload
}

func (q *fakeQueue) EnqueueCompensation(_ context.Context, p models.CompensationPayload) error {
	q.payloads = append(q.payloads, p)
	return q.err
}

// flakyStore fails the next failNext updates as an unreachable Redis would.
type flakyStore struct {
	*MemoryDraftStore
	mu       sync.Mutex
	failNext int
	failed   int
}

func (s *flakyStore) failUpdates(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = n
}

func (s *flakyStore) Update(ctx context.Context, id string, fn func(d *Draft) error) (*Draft, error) {
	s.mu.Lock()
	if s.failNext > 0 {
		s.failNext--
		s.failed++
		s.mu.Unlock()
		return nil, errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")
	}
	s.mu.Unlock()
	return s.MemoryDraftStore.Update(ctx, id, fn)
}
