package reservation

import (
	"testing"
	"time"

	"canchas/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft() *Draft {
	return &Draft{
		ID:       "d1",
		Cancha:   testCancha(),
		Fecha:    "2026-10-20",
		Cupo:     4,
		Selected: Selection{"08-09", "09-10"},
		State:    StateIdle,
	}
}

func TestValidateFutureDateExample(t *testing.T) {
	now := localTime(2026, time.October, 16, 14, 30)
	d := validDraft()

	require.Nil(t, d.Validate(now, clientSession()))
	assert.Equal(t, 100.0, d.Total())
}

func TestValidateOrder(t *testing.T) {
	now := localTime(2026, time.October, 16, 14, 30)
	tests := []struct {
		name   string
		mutate func(d *Draft, s *models.AuthSession)
		code   string
	}{
		{"cancha missing wins over everything", func(d *Draft, s *models.AuthSession) {
			d.Cancha = nil
			d.Fecha = ""
			s.Roles = nil
		}, CodeCanchaNoCargada},
		{"not a client", func(d *Draft, s *models.AuthSession) { s.Roles = models.Roles{models.RoleDeportista} }, CodeClienteNoIdentificado},
		{"client without id", func(d *Draft, s *models.AuthSession) { s.ClienteID = 0 }, CodeClienteNoIdentificado},
		{"missing date", func(d *Draft, s *models.AuthSession) { d.Fecha = " " }, CodeFechaRequerida},
		{"bad date", func(d *Draft, s *models.AuthSession) { d.Fecha = "2026-02-30" }, CodeFechaInvalida},
		{"yesterday", func(d *Draft, s *models.AuthSession) { d.Fecha = "2026-10-15" }, CodeFechaPasada},
		{"zero cupo", func(d *Draft, s *models.AuthSession) { d.Cupo = 0 }, CodeCupoInvalido},
		{"cupo over capacity", func(d *Draft, s *models.AuthSession) { d.Cupo = 11 }, CodeCupoExcedeCapacidad},
		{"empty selection", func(d *Draft, s *models.AuthSession) { d.Selected = nil }, CodeSinHorarios},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			s := clientSession()
			tt.mutate(d, s)
			verr := d.Validate(now, s)
			require.NotNil(t, verr)
			assert.Equal(t, tt.code, verr.Code)
		})
	}
}

func TestValidateCapacityUnset(t *testing.T) {
	now := localTime(2026, time.October, 16, 9, 0)
	d := validDraft()
	d.Cancha.Capacidad = nil
	d.Cupo = 500
	assert.Nil(t, d.Validate(now, clientSession()))

	d.Cancha.Capacidad = capacity(0)
	assert.Nil(t, d.Validate(now, clientSession()))
}

func TestValidateTodayRejectsPastSlots(t *testing.T) {
	now := localTime(2026, time.October, 16, 14, 30)
	d := validDraft()
	d.Fecha = "2026-10-16"
	d.Selected = Selection{"14-15"}
	assert.Nil(t, d.Validate(now, clientSession()))

	d.Selected = Selection{"08-09", "14-15"}
	verr := d.Validate(now, clientSession())
	require.NotNil(t, verr)
	assert.Equal(t, CodeHorarioPasado, verr.Code)
	assert.Equal(t, []string{"08:00 - 09:00"}, verr.Slots)
}

func TestValidateSlotEndingNowIsPast(t *testing.T) {
	now := localTime(2026, time.October, 16, 15, 0)
	d := validDraft()
	d.Fecha = "2026-10-16"
	d.Selected = Selection{"14-15", "15-16"}

	verr := d.Validate(now, clientSession())
	require.NotNil(t, verr)
	assert.Equal(t, []string{"14:00 - 15:00"}, verr.Slots)
}

func TestValidateFutureDateHasNoTimeOfDayRestriction(t *testing.T) {
	now := localTime(2026, time.October, 16, 23, 59)
	d := validDraft()
	d.Fecha = "2026-10-17"
	d.Selected = Selection{"08-09"}
	assert.Nil(t, d.Validate(now, clientSession()))
}
