package reservation

import (
	"context"
	"errors"
	"testing"
	"time"

	"canchas/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlanner(b *fakeBackend) (*DefaultPlannerService, *fakeJournal) {
	j := newFakeJournal()
	clock := fixedClock{localTime(2026, time.October, 16, 14, 30)}
	return &DefaultPlannerService{
		API:   b,
		Store: NewMemoryDraftStore(),
		Submitter: &Submitter{
			API:      b,
			Journal:  j,
			Queue:    &fakeQueue{},
			Clock:    clock,
			Location: testLoc,
			Origin:   "https://canchas.example",
		},
		Clock:    clock,
		Location: testLoc,
	}, j
}

func TestStartRequiresClient(t *testing.T) {
	p, _ := newPlanner(newFakeBackend())
	sess := clientSession()
	sess.Roles = models.Roles{models.RoleAdmin}

	_, err := p.Start(context.Background(), sess, 7)
	assert.ErrorIs(t, err, ErrNotClient)
}

func TestStartRecordsCanchaLoadError(t *testing.T) {
	b := newFakeBackend()
	b.canchaErr = errors.New("timeout")
	p, _ := newPlanner(b)

	d, err := p.Start(context.Background(), clientSession(), 7)
	require.NoError(t, err)
	assert.Nil(t, d.Cancha)
	assert.Equal(t, msgCargarCancha, d.LoadError)

	_, err = p.Submit(context.Background(), clientSession(), d.ID)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, CodeCanchaNoCargada, verr.Code)
}

func TestDraftsAreOwned(t *testing.T) {
	p, _ := newPlanner(newFakeBackend())
	d, err := p.Start(context.Background(), clientSession(), 7)
	require.NoError(t, err)

	other := clientSession()
	other.UserID = 99
	_, err = p.Get(context.Background(), other, d.ID)
	assert.ErrorIs(t, err, ErrDraftForbidden)
	_, err = p.Toggle(context.Background(), other, d.ID, "08-09")
	assert.ErrorIs(t, err, ErrDraftForbidden)
}

func TestSetFechaPrunesSelection(t *testing.T) {
	b := newFakeBackend()
	b.ocupados["2026-10-20"] = []models.BusyInterval{{HoraInicio: "10:00:00", HoraFin: "12:00:00"}}
	p, _ := newPlanner(b)
	ctx := context.Background()
	sess := clientSession()

	d, err := p.Start(ctx, sess, 7)
	require.NoError(t, err)
	for _, id := range []string{"09-10", "10-11"} {
		_, err = p.Toggle(ctx, sess, d.ID, id)
		require.NoError(t, err)
	}

	d, err = p.SetFecha(ctx, sess, d.ID, "2026-10-20")
	require.NoError(t, err)
	assert.Equal(t, []string{"10-11", "11-12"}, d.Busy)
	assert.Equal(t, Selection{"09-10"}, d.Selected)

	_, err = p.Toggle(ctx, sess, d.ID, "11-12")
	assert.ErrorIs(t, err, ErrSlotNotSelectable)
}

func TestSetFechaLoadFailureFailsOpen(t *testing.T) {
	b := newFakeBackend()
	b.ocupadosErr = errors.New("boom")
	p, _ := newPlanner(b)
	ctx := context.Background()

	d, err := p.Start(ctx, clientSession(), 7)
	require.NoError(t, err)
	d, err = p.SetFecha(ctx, clientSession(), d.ID, "2026-10-20")
	require.NoError(t, err)
	assert.Empty(t, d.Busy)
	assert.Equal(t, msgCargarHorario, d.LoadError)
}

func TestSetFechaStaleResponseLoses(t *testing.T) {
	b := newFakeBackend()
	b.ocupados["2026-10-20"] = []models.BusyInterval{{HoraInicio: "08:00:00", HoraFin: "18:00:00"}}
	b.ocupados["2026-10-21"] = []models.BusyInterval{{HoraInicio: "12:00:00", HoraFin: "13:00:00"}}
	p, _ := newPlanner(b)
	ctx := context.Background()
	sess := clientSession()

	d, err := p.Start(ctx, sess, 7)
	require.NoError(t, err)

	// While the fetch for the 20th is in flight the user moves on to the 21st.
	b.onOcupados = func(fecha string) {
		if fecha != "2026-10-20" {
			return
		}
		b.onOcupados = nil
		_, err := p.SetFecha(ctx, sess, d.ID, "2026-10-21")
		require.NoError(t, err)
	}
	_, err = p.SetFecha(ctx, sess, d.ID, "2026-10-20")
	require.NoError(t, err)

	got, err := p.Get(ctx, sess, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-21", got.Fecha)
	assert.Equal(t, []string{"12-13"}, got.Busy)
}

func TestSetCupo(t *testing.T) {
	p, _ := newPlanner(newFakeBackend())
	ctx := context.Background()
	d, err := p.Start(ctx, clientSession(), 7)
	require.NoError(t, err)

	_, err = p.SetCupo(ctx, clientSession(), d.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidCupo)
	d, err = p.SetCupo(ctx, clientSession(), d.ID, 6)
	require.NoError(t, err)
	assert.Equal(t, 6, d.Cupo)
}

func TestSubmitLifecycle(t *testing.T) {
	b := newFakeBackend()
	p, j := newPlanner(b)
	ctx := context.Background()
	sess := clientSession()

	d, err := p.Start(ctx, sess, 7)
	require.NoError(t, err)

	_, err = p.Submit(ctx, sess, d.ID)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, CodeFechaRequerida, verr.Code)
	assert.Empty(t, b.reservas)

	d, err = p.Get(ctx, sess, d.ID)
	require.NoError(t, err)
	assert.Equal(t, StateIdle, d.State)

	_, err = p.SetFecha(ctx, sess, d.ID, "2026-10-20")
	require.NoError(t, err)
	_, err = p.SetCupo(ctx, sess, d.ID, 4)
	require.NoError(t, err)
	for _, id := range []string{"08-09", "09-10"} {
		_, err = p.Toggle(ctx, sess, d.ID, id)
		require.NoError(t, err)
	}

	b.qrErr = errors.New("qr down")
	d, err = p.Submit(ctx, sess, d.ID)
	var serr *SubmissionError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, StateFailed, d.State)
	assert.Equal(t, msgEmitirQR, d.LastError)
	assert.Equal(t, models.SubmissionCompensado, j.get(d.SubmissionID).Estado)

	b.qrErr = nil
	d, err = p.Submit(ctx, sess, d.ID)
	require.NoError(t, err)
	assert.Equal(t, StateSucceeded, d.State)
	require.NotNil(t, d.Receipt)
	assert.Equal(t, 100.0, d.Receipt.MontoTotal)
	assert.Len(t, b.reservas, 2)

	_, err = p.Submit(ctx, sess, d.ID)
	assert.ErrorIs(t, err, ErrDraftLocked)
	_, err = p.Toggle(ctx, sess, d.ID, "10-11")
	assert.ErrorIs(t, err, ErrDraftLocked)
}

func newFlakyPlanner(t *testing.T, b *fakeBackend) (*DefaultPlannerService, *flakyStore, *models.AuthSession, string) {
	t.Helper()
	p, _ := newPlanner(b)
	store := &flakyStore{MemoryDraftStore: NewMemoryDraftStore()}
	p.Store = store

	previous := outcomeRetryDelay
	outcomeRetryDelay = time.Millisecond
	t.Cleanup(func() { outcomeRetryDelay = previous })

	ctx := context.Background()
	sess := clientSession()
	d, err := p.Start(ctx, sess, 7)
	require.NoError(t, err)
	_, err = p.SetFecha(ctx, sess, d.ID, "2026-10-20")
	require.NoError(t, err)
	_, err = p.Toggle(ctx, sess, d.ID, "08-09")
	require.NoError(t, err)
	return p, store, sess, d.ID
}

func TestSubmitRetriesOutcomeWrite(t *testing.T) {
	b := newFakeBackend()
	p, store, sess, id := newFlakyPlanner(t, b)
	ctx := context.Background()

	b.qrErr = errors.New("qr down")
	b.onQR = func() { store.failUpdates(outcomeWriteAttempts - 1) }
	d, err := p.Submit(ctx, sess, id)
	var serr *SubmissionError
	require.True(t, errors.As(err, &serr))
	assert.True(t, serr.Compensated)
	assert.Equal(t, []int{42}, b.cancelled)
	require.NotNil(t, d)
	assert.Equal(t, StateFailed, d.State)
	assert.Equal(t, outcomeWriteAttempts-1, store.failed)

	b.qrErr, b.onQR = nil, nil
	d, err = p.Submit(ctx, sess, id)
	require.NoError(t, err)
	assert.Equal(t, StateSucceeded, d.State)
}

func TestStuckSubmissionIsReleased(t *testing.T) {
	b := newFakeBackend()
	p, store, sess, id := newFlakyPlanner(t, b)
	ctx := context.Background()

	b.qrErr = errors.New("qr down")
	b.onQR = func() { store.failUpdates(outcomeWriteAttempts) }
	_, err := p.Submit(ctx, sess, id)
	var serr *SubmissionError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, []int{42}, b.cancelled)

	d, err := p.Get(ctx, sess, id)
	require.NoError(t, err)
	assert.Equal(t, StateSubmitting, d.State)

	p.StaleSubmitAfter = time.Hour
	_, err = p.Toggle(ctx, sess, id, "09-10")
	assert.ErrorIs(t, err, ErrDraftLocked)
	assert.ErrorIs(t, p.Discard(ctx, sess, id), ErrDraftLocked)

	p.StaleSubmitAfter = time.Nanosecond
	b.qrErr, b.onQR = nil, nil
	d, err = p.Submit(ctx, sess, id)
	require.NoError(t, err)
	assert.Equal(t, StateSucceeded, d.State)
	assert.Len(t, b.reservas, 2)
}

func TestDiscard(t *testing.T) {
	p, _ := newPlanner(newFakeBackend())
	ctx := context.Background()
	d, err := p.Start(ctx, clientSession(), 7)
	require.NoError(t, err)

	other := clientSession()
	other.UserID = 99
	assert.ErrorIs(t, p.Discard(ctx, other, d.ID), ErrDraftForbidden)

	require.NoError(t, p.Discard(ctx, clientSession(), d.ID))
	_, err = p.Get(ctx, clientSession(), d.ID)
	assert.ErrorIs(t, err, ErrDraftNotFound)
}
