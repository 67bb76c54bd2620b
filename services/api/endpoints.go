package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"canchas/models"
)

// GetCancha loads a court: GET /cancha-casual/dato-individual/{id}.
func (c *Client) GetCancha(ctx context.Context, token string, idCancha int) (*models.Cancha, error) {
	var datos struct {
		Cancha *models.Cancha `json:"cancha"`
	}
	path := "/cancha-casual/dato-individual/" + strconv.Itoa(idCancha)
	if err := c.do(ctx, http.MethodGet, path, nil, token, nil, &datos); err != nil {
		return nil, err
	}
	if datos.Cancha == nil {
		return nil, fmt.Errorf("cancha %d: %w", idCancha, ErrMissingDatos)
	}
	return datos.Cancha, nil
}

// GetOcupados lists occupied ranges: GET /reserva-horario/disponibles.
func (c *Client) GetOcupados(ctx context.Context, token string, idCancha int, fecha string) ([]models.BusyInterval, error) {
	var datos struct {
		Ocupados []models.BusyInterval `json:"ocupados"`
	}
	q := url.Values{}
	q.Set("id_cancha", strconv.Itoa(idCancha))
	q.Set("fecha", fecha)
	if err := c.do(ctx, http.MethodGet, "/reserva-horario/disponibles", q, token, nil, &datos); err != nil {
		return nil, err
	}
	return datos.Ocupados, nil
}

// CreateReserva creates the reservation header: POST /reserva-cliente.
func (c *Client) CreateReserva(ctx context.Context, token string, payload models.ReservaPayload) (*models.Reserva, error) {
	var datos struct {
		Reserva *models.Reserva `json:"reserva"`
	}
	if err := c.do(ctx, http.MethodPost, "/reserva-cliente", nil, token, payload, &datos); err != nil {
		return nil, err
	}
	if datos.Reserva == nil || datos.Reserva.IDReserva == 0 {
		return nil, errors.New("backend did not return id_reserva")
	}
	return datos.Reserva, nil
}

// CreateHorario schedules one slot of a reservation: POST /reserva-horario.
func (c *Client) CreateHorario(ctx context.Context, token string, payload models.HorarioPayload) error {
	return c.do(ctx, http.MethodPost, "/reserva-horario", nil, token, payload, nil)
}

// CreateQR issues the access code: POST /qr-reserva.
func (c *Client) CreateQR(ctx context.Context, token string, payload models.QRPayload) (*models.QRCredential, error) {
	var datos struct {
		QR *models.QRCredential `json:"qr"`
	}
	if err := c.do(ctx, http.MethodPost, "/qr-reserva", nil, token, payload, &datos); err != nil {
		return nil, err
	}
	if datos.QR == nil || datos.QR.CodigoQR == "" {
		return nil, errors.New("backend did not return codigo_qr")
	}
	return datos.QR, nil
}

// CancelReserva removes a reservation: DELETE /reserva-cliente/{id}.
func (c *Client) CancelReserva(ctx context.Context, token string, idReserva int) error {
	return c.do(ctx, http.MethodDelete, "/reserva-cliente/"+strconv.Itoa(idReserva), nil, token, nil, nil)
}

// Login authenticates against the backend: POST /auth/login.
func (c *Client) Login(ctx context.Context, correo, contrasena string) (*models.LoginResponse, error) {
	body := map[string]string{"correo": correo, "contrasena": contrasena}
	var datos models.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, "", body, &datos); err != nil {
		return nil, err
	}
	if datos.Token == "" {
		return nil, errors.New("backend login returned no token")
	}
	return &datos, nil
}
