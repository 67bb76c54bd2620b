package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Number decodes amounts the backend sends either as JSON numbers or numeric strings.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*n = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*n = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid numeric string %q: %w", s, err)
		}
		*n = Number(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

func (n Number) Float() float64 { return float64(n) }

// Cancha is a bookable court as returned by the backend.
type Cancha struct {
	IDCancha        int     `json:"id_cancha"`
	Nombre          string  `json:"nombre"`
	Ubicacion       string  `json:"ubicacion,omitempty"`
	Estado          string  `json:"estado,omitempty"`
	MontoPorHora    Number  `json:"monto_por_hora"`
	HorarioApertura string  `json:"horario_apertura,omitempty"`
	HorarioCierre   string  `json:"horario_cierre,omitempty"`
	Capacidad       *Number `json:"capacidad,omitempty"`
	Imagen          string  `json:"imagen_cancha,omitempty"`
}

// CapacityLimit returns the declared capacity, if any.
func (c Cancha) CapacityLimit() (int, bool) {
	if c.Capacidad == nil || *c.Capacidad <= 0 {
		return 0, false
	}
	return int(*c.Capacidad), true
}

// BusyInterval is an occupied range reported by the backend for one court and date.
type BusyInterval struct {
	HoraInicio string `json:"hora_inicio"`
	HoraFin    string `json:"hora_fin"`
}
