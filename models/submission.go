package models

import "time"

// Submission stages, in saga order.
const (
	StageCreateReserva = "crear_reserva"
	StageSchedule      = "programar_horarios"
	StageIssueQR       = "emitir_qr"
	StageCompensate    = "compensar"
)

// Submission journal states.
const (
	SubmissionEnCurso               = "en_curso"
	SubmissionCompletado            = "completado"
	SubmissionCompensado            = "compensado"
	SubmissionCompensacionPendiente = "compensacion_pendiente"
	SubmissionFallido               = "fallido"
)

// SubmissionRecord journals one reservation submission and its saga progress.
type SubmissionRecord struct {
	ID         string    `bson:"id" json:"id"`
	DraftID    string    `bson:"draftId" json:"draftId"`
	UserID     int       `bson:"userId" json:"userId"`
	IDCliente  int       `bson:"idCliente" json:"idCliente"`
	IDCancha   int       `bson:"idCancha" json:"idCancha"`
	Fecha      string    `bson:"fecha" json:"fecha"`
	Cupo       int       `bson:"cupo" json:"cupo"`
	Horarios   []string  `bson:"horarios" json:"horarios"`
	MontoTotal float64   `bson:"montoTotal" json:"montoTotal"`
	IDReserva  int       `bson:"idReserva,omitempty" json:"idReserva,omitempty"`
	CodigoQR   string    `bson:"codigoQr,omitempty" json:"codigoQr,omitempty"`
	Stage      string    `bson:"stage" json:"stage"`
	Estado     string    `bson:"estado" json:"estado"`
	Mensaje    string    `bson:"mensaje,omitempty" json:"mensaje,omitempty"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}

// CompensationPayload is the queued retry for a cancellation that failed inline.
type CompensationPayload struct {
	SubmissionID string `json:"submission_id"`
	IDReserva    int    `json:"id_reserva"`
}
