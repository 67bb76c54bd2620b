package models

import "encoding/json"

const (
	ReservaEstadoPendiente = "pendiente"
	QREstadoActivo         = "activo"
)

// Envelope wraps every backend response. Datos is only trusted when Exito is true.
type Envelope struct {
	Exito   bool            `json:"exito"`
	Mensaje string          `json:"mensaje,omitempty"`
	Datos   json.RawMessage `json:"datos,omitempty"`
}

// ReservaPayload is the body of POST /reserva-cliente.
type ReservaPayload struct {
	FechaReserva   string  `json:"fecha_reserva"`
	Cupo           int     `json:"cupo"`
	MontoTotal     float64 `json:"monto_total"`
	SaldoPendiente float64 `json:"saldo_pendiente"`
	Estado         string  `json:"estado"`
	IDCliente      int     `json:"id_cliente"`
	IDCancha       int     `json:"id_cancha"`
}

// Reserva is the subset of the created reservation the gateway relies on.
type Reserva struct {
	IDReserva    int    `json:"id_reserva"`
	FechaReserva string `json:"fecha_reserva,omitempty"`
	Estado       string `json:"estado,omitempty"`
}

// HorarioPayload is the body of POST /reserva-horario, one per selected slot.
type HorarioPayload struct {
	IDReserva  int     `json:"id_reserva"`
	Fecha      string  `json:"fecha"`
	HoraInicio string  `json:"hora_inicio"`
	HoraFin    string  `json:"hora_fin"`
	Monto      float64 `json:"monto"`
}

// QRPayload is the body of POST /qr-reserva.
type QRPayload struct {
	IDReserva     int    `json:"id_reserva"`
	FechaGenerado string `json:"fecha_generado"`
	FechaExpira   string `json:"fecha_expira"`
	Estado        string `json:"estado"`
}

// QRCredential is the issued access code for a reservation.
type QRCredential struct {
	IDQR          int    `json:"id_qr,omitempty"`
	IDReserva     int    `json:"id_reserva"`
	CodigoQR      string `json:"codigo_qr"`
	FechaGenerado string `json:"fecha_generado,omitempty"`
	FechaExpira   string `json:"fecha_expira,omitempty"`
	Estado        string `json:"estado,omitempty"`
}

// Receipt is returned to the client once a submission succeeds.
type Receipt struct {
	IDReserva  int      `json:"id_reserva"`
	CodigoQR   string   `json:"codigo_qr"`
	JoinLink   string   `json:"join_link"`
	QRExpira   string   `json:"qr_expira"`
	MontoTotal float64  `json:"monto_total"`
	Horarios   []string `json:"horarios"`
}
