package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"canchas/models"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// APIError is a failed backend call: transport status plus the backend's own message.
type APIError struct {
	Status  int
	Mensaje string
	Path    string
}

func (e *APIError) Error() string {
	if e.Mensaje != "" {
		return fmt.Sprintf("backend %s: %d: %s", e.Path, e.Status, e.Mensaje)
	}
	return fmt.Sprintf("backend %s: status %d", e.Path, e.Status)
}

// BackendMessage extracts the backend-provided message from err, if any.
func BackendMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Mensaje
	}
	return ""
}

var ErrMissingDatos = errors.New("backend response has no datos")

// Client talks to the remote booking API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Limiter    *rate.Limiter
	Logger     *zap.Logger
}

// NewClient builds a client with a request timeout and an outbound rate limit.
func NewClient(baseURL string, timeout time.Duration, requestsPerSec float64, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := rate.Inf
	burst := 1
	if requestsPerSec > 0 {
		limit = rate.Limit(requestsPerSec)
		burst = int(requestsPerSec)
		if burst < 1 {
			burst = 1
		}
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
		Limiter:    rate.NewLimiter(limit, burst),
		Logger:     logger,
	}
}

// do sends one request and decodes the envelope. out receives datos when non-nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, token string, body, out interface{}) error {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	endpoint := c.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Logger.Warn("backend request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("backend %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.Logger.Debug("backend request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read backend response: %w", err)
	}

	var env models.Envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			if resp.StatusCode >= 300 {
				return &APIError{Status: resp.StatusCode, Path: path}
			}
			return fmt.Errorf("failed to decode backend envelope: %w", err)
		}
	}

	if resp.StatusCode >= 300 || !env.Exito {
		return &APIError{Status: resp.StatusCode, Mensaje: env.Mensaje, Path: path}
	}

	if out == nil {
		return nil
	}
	if len(env.Datos) == 0 || string(env.Datos) == "null" {
		return ErrMissingDatos
	}
	if err := json.Unmarshal(env.Datos, out); err != nil {
		return fmt.Errorf("failed to decode datos of %s: %w", path, err)
	}
	return nil
}
