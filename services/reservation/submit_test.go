package reservation

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"canchas/models"
	"canchas/services/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSubmitter(b *fakeBackend, j *fakeJournal, q *fakeQueue) *Submitter {
	return &Submitter{
		API:      b,
		Journal:  j,
		Queue:    q,
		Clock:    fixedClock{localTime(2026, time.October, 16, 14, 30)},
		Location: testLoc,
		Origin:   "https://canchas.example",
	}
}

func testOrder(ids ...string) Order {
	var sel Selection
	for _, id := range ids {
		sel = sel.Toggle(id)
	}
	return Order{
		DraftID:   "d1",
		UserID:    5,
		IDCliente: 11,
		Cancha:    *testCancha(),
		Fecha:     "2026-10-20",
		Cupo:      4,
		Slots:     sel.Slots(),
		Token:     "backend-token",
	}
}

func TestSubmitHappyPath(t *testing.T) {
	b, j, q := newFakeBackend(), newFakeJournal(), &fakeQueue{}
	receipt, rec, err := newSubmitter(b, j, q).Submit(context.Background(), testOrder("08-09", "09-10"))
	require.NoError(t, err)

	require.Len(t, b.reservas, 1)
	assert.Equal(t, models.ReservaPayload{
		FechaReserva:   "2026-10-20",
		Cupo:           4,
		MontoTotal:     100,
		SaldoPendiente: 100,
		Estado:         "pendiente",
		IDCliente:      11,
		IDCancha:       7,
	}, b.reservas[0])

	require.Len(t, b.horarios, 2)
	sort.Slice(b.horarios, func(i, k int) bool { return b.horarios[i].HoraInicio < b.horarios[k].HoraInicio })
	assert.Equal(t, models.HorarioPayload{IDReserva: 42, Fecha: "2026-10-20", HoraInicio: "08:00:00", HoraFin: "09:00:00", Monto: 50}, b.horarios[0])
	assert.Equal(t, "09:00:00", b.horarios[1].HoraInicio)
	assert.Equal(t, 50.0, b.horarios[1].Monto)

	require.Len(t, b.qrs, 1)
	assert.Equal(t, "activo", b.qrs[0].Estado)
	assert.Equal(t, "2026-10-21T00:00:00-04:00", b.qrs[0].FechaExpira)
	assert.Equal(t, "2026-10-16T14:30:00-04:00", b.qrs[0].FechaGenerado)

	assert.Equal(t, 42, receipt.IDReserva)
	assert.Equal(t, "https://canchas.example/unirse-reserva?code=QR+42%2Fx", receipt.JoinLink)
	assert.Equal(t, 100.0, receipt.MontoTotal)
	assert.Equal(t, []string{"08-09", "09-10"}, receipt.Horarios)

	assert.Empty(t, b.cancelled)
	stored := j.get(rec.ID)
	assert.Equal(t, models.SubmissionCompletado, stored.Estado)
	assert.Equal(t, "QR 42/x", stored.CodigoQR)
}

func TestSubmitCreateFailureNeedsNoCompensation(t *testing.T) {
	b, j, q := newFakeBackend(), newFakeJournal(), &fakeQueue{}
	b.reservaErr = &api.APIError{Status: 409, Mensaje: "La cancha está ocupada"}

	receipt, rec, err := newSubmitter(b, j, q).Submit(context.Background(), testOrder("08-09"))
	assert.Nil(t, receipt)

	var serr *SubmissionError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, models.StageCreateReserva, serr.Stage)
	assert.Equal(t, "La cancha está ocupada", serr.Mensaje)
	assert.False(t, serr.Compensated)
	assert.Empty(t, b.horarios)
	assert.Empty(t, b.cancelled)
	assert.Equal(t, models.SubmissionFallido, j.get(rec.ID).Estado)
}

func TestSubmitScheduleFailureCancelsReservation(t *testing.T) {
	b, j, q := newFakeBackend(), newFakeJournal(), &fakeQueue{}
	b.horarioErr["09:00:00"] = errors.New("connection reset")

	receipt, rec, err := newSubmitter(b, j, q).Submit(context.Background(), testOrder("08-09", "09-10"))
	assert.Nil(t, receipt)

	var serr *SubmissionError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, models.StageSchedule, serr.Stage)
	assert.Equal(t, msgProgramar, serr.Mensaje)
	assert.True(t, serr.Compensated)
	assert.Equal(t, []int{42}, b.cancelled)
	assert.Empty(t, b.qrs)
	assert.Empty(t, q.payloads)
	assert.Equal(t, models.SubmissionCompensado, j.get(rec.ID).Estado)
}

func TestSubmitQRFailureQueuesCompensationWhenCancelFails(t *testing.T) {
	b, j, q := newFakeBackend(), newFakeJournal(), &fakeQueue{}
	b.qrErr = &api.APIError{Status: 500, Mensaje: "Error al generar QR"}
	b.cancelErr = errors.New("backend down")

	_, rec, err := newSubmitter(b, j, q).Submit(context.Background(), testOrder("08-09"))

	var serr *SubmissionError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, models.StageIssueQR, serr.Stage)
	assert.Equal(t, "Error al generar QR", serr.Mensaje)
	assert.False(t, serr.Compensated)
	require.Len(t, q.payloads, 1)
	assert.Equal(t, models.CompensationPayload{SubmissionID: rec.ID, IDReserva: 42}, q.payloads[0])
	assert.Equal(t, models.SubmissionCompensacionPendiente, j.get(rec.ID).Estado)
}

func TestSubmitCompensationStillRunsWhenRequestIsCancelled(t *testing.T) {
	b, j := newFakeBackend(), newFakeJournal()
	b.qrErr = context.Canceled
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := newSubmitter(b, j, nil)
	s.Queue = nil
	_, _, err := s.Submit(ctx, testOrder("08-09"))
	require.Error(t, err)
	assert.Equal(t, []int{42}, b.cancelled)
}

func TestSubmitJournalsCompletionAfterClientDisconnects(t *testing.T) {
	b, j := newFakeBackend(), newFakeJournal()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	b.onQR = cancel

	receipt, rec, err := newSubmitter(b, j, &fakeQueue{}).Submit(ctx, testOrder("08-09"))
	require.NoError(t, err)
	require.NotNil(t, receipt)
	assert.Equal(t, models.SubmissionCompletado, j.get(rec.ID).Estado)
	assert.Equal(t, "QR 42/x", j.get(rec.ID).CodigoQR)
}
