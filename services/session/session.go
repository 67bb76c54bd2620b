package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"canchas/models"
	"canchas/services/api"
	"canchas/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoKnownRole        = errors.New("user has no recognised role")
	ErrMissingCredentials = errors.New("correo and contrasena are required")
)

// Authenticator verifies credentials against the booking backend.
type Authenticator interface {
	Login(ctx context.Context, correo, contrasena string) (*models.LoginResponse, error)
}

// SessionService manages the lifecycle of gateway sessions.
type SessionService interface {
	Login(ctx context.Context, correo, contrasena string) (*LoginResult, error)
	Load(ctx context.Context, sessionID string) (*models.AuthSession, error)
	Logout(ctx context.Context, sessionID string) error
}

// LoginResult is handed to the client after a successful login.
type LoginResult struct {
	Token     string               `json:"token"`
	ExpiresAt time.Time            `json:"expiresAt"`
	Session   models.PublicSession `json:"usuario"`
}

// DefaultSessionService keeps sessions in Redis and issues gateway JWTs.
type DefaultSessionService struct {
	API    Authenticator
	Cache  *redis.Client
	TTL    time.Duration
	Logger *zap.Logger
}

func (s *DefaultSessionService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *DefaultSessionService) Login(ctx context.Context, correo, contrasena string) (*LoginResult, error) {
	correo = strings.TrimSpace(correo)
	if correo == "" || contrasena == "" {
		return nil, ErrMissingCredentials
	}

	resp, err := s.API.Login(ctx, correo, contrasena)
	if err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) && apiErr.Status < 500 {
			return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
		}
		return nil, fmt.Errorf("backend login failed: %w", err)
	}

	roles, unknown := models.ParseRoles(resp.Usuario.RoleNames())
	if len(unknown) > 0 {
		s.logger().Warn("ignoring unknown roles", zap.Int("userId", resp.Usuario.IDPersona), zap.Strings("roles", unknown))
	}
	if len(roles) == 0 {
		return nil, ErrNoKnownRole
	}

	now := time.Now().UTC()
	sess := models.AuthSession{
		ID:           uuid.New().String(),
		UserID:       resp.Usuario.IDPersona,
		ClienteID:    resp.Usuario.IDCliente,
		Nombre:       resp.Usuario.Nombre,
		Correo:       resp.Usuario.Correo,
		Roles:        roles,
		BackendToken: resp.Token,
		CreatedAt:    now,
	}
	if sess.Correo == "" {
		sess.Correo = correo
	}
	if err := utils.SaveAuthSession(ctx, s.Cache, sess, s.TTL); err != nil {
		return nil, err
	}

	token, err := utils.GenerateToken(strconv.Itoa(sess.UserID), sess.ID, s.TTL)
	if err != nil {
		_ = utils.DeleteAuthSession(ctx, s.Cache, sess.ID)
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger().Info("session opened", zap.Int("userId", sess.UserID), zap.String("sessionId", sess.ID))
	return &LoginResult{Token: token, ExpiresAt: now.Add(s.TTL), Session: sess.Public()}, nil
}

// Load bootstraps the session for one request and extends its lifetime.
func (s *DefaultSessionService) Load(ctx context.Context, sessionID string) (*models.AuthSession, error) {
	return utils.GetAuthSession(ctx, s.Cache, sessionID, s.TTL)
}

func (s *DefaultSessionService) Logout(ctx context.Context, sessionID string) error {
	if err := utils.DeleteAuthSession(ctx, s.Cache, sessionID); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.logger().Info("session closed", zap.String("sessionId", sessionID))
	return nil
}
