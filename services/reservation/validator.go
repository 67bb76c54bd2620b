package reservation

import (
	"fmt"
	"strings"
	"time"

	"canchas/models"
)

const fechaLayout = "2006-01-02"

// ParseFecha reads a calendar date as local midnight in loc.
func ParseFecha(fecha string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(fechaLayout, strings.TrimSpace(fecha), loc)
}

// Validate runs the pre-submission checks in order and stops at the first failure.
// now must already be in the court's local time zone.
func (d *Draft) Validate(now time.Time, sess *models.AuthSession) *ValidationError {
	if d.Cancha == nil {
		return newValidationError(CodeCanchaNoCargada, "La cancha no está cargada")
	}
	if !sess.IsClient() {
		return newValidationError(CodeClienteNoIdentificado, "No se pudo identificar al cliente")
	}
	if strings.TrimSpace(d.Fecha) == "" {
		return newValidationError(CodeFechaRequerida, "Seleccione una fecha")
	}
	fecha, err := ParseFecha(d.Fecha, now.Location())
	if err != nil {
		return newValidationError(CodeFechaInvalida, "La fecha no es válida")
	}

	y, m, day := now.Date()
	today := time.Date(y, m, day, 0, 0, 0, 0, now.Location())
	if fecha.Before(today) {
		return newValidationError(CodeFechaPasada, "La fecha no puede ser anterior a hoy")
	}

	if d.Cupo <= 0 {
		return newValidationError(CodeCupoInvalido, "El cupo debe ser un número positivo")
	}
	if limit, ok := d.Cancha.CapacityLimit(); ok && d.Cupo > limit {
		return newValidationError(CodeCupoExcedeCapacidad,
			fmt.Sprintf("El cupo no puede exceder la capacidad de la cancha (%d)", limit))
	}

	if d.Selected.Len() == 0 {
		return newValidationError(CodeSinHorarios, "Seleccione al menos un horario")
	}

	if fecha.Equal(today) {
		var past []string
		for _, s := range d.Selected.Slots() {
			if !s.End.On(fecha).After(now) {
				past = append(past, s.Label)
			}
		}
		if len(past) > 0 {
			verr := newValidationError(CodeHorarioPasado,
				"Los siguientes horarios ya pasaron: "+strings.Join(past, ", "))
			verr.Slots = past
			return verr
		}
	}
	return nil
}
