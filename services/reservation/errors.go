package reservation

import (
	"errors"
	"fmt"
)

var (
	ErrDraftNotFound     = errors.New("draft not found")
	ErrDraftForbidden    = errors.New("draft belongs to another user")
	ErrDraftLocked       = errors.New("draft is being submitted or already confirmed")
	ErrSlotNotSelectable = errors.New("slot is not selectable")
	ErrConflict          = errors.New("draft was modified concurrently")
	ErrNotClient         = errors.New("session cannot reserve as a client")
	ErrInvalidCupo       = errors.New("cupo must be a positive number")
)

// Validation codes reported to the client.
const (
	CodeCanchaNoCargada       = "cancha_no_cargada"
	CodeClienteNoIdentificado = "cliente_no_identificado"
	CodeFechaRequerida        = "fecha_requerida"
	CodeFechaInvalida         = "fecha_invalida"
	CodeFechaPasada           = "fecha_pasada"
	CodeCupoInvalido          = "cupo_invalido"
	CodeCupoExcedeCapacidad   = "cupo_excede_capacidad"
	CodeSinHorarios           = "sin_horarios"
	CodeHorarioPasado         = "horario_pasado"
)

// ValidationError blocks a submission before any backend call is made.
type ValidationError struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Slots   []string `json:"slots,omitempty"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newValidationError(code, msg string) *ValidationError {
	return &ValidationError{Code: code, Message: msg}
}

// SubmissionError is a failed step of the submission saga.
type SubmissionError struct {
	Stage       string `json:"stage"`
	Mensaje     string `json:"mensaje"`
	Compensated bool   `json:"compensated"`
	IDReserva   int    `json:"id_reserva,omitempty"`
	Err         error  `json:"-"`
}

func (e *SubmissionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Stage, e.Mensaje, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Stage, e.Mensaje)
}

func (e *SubmissionError) Unwrap() error { return e.Err }
