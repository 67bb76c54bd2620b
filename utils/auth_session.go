package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"canchas/models"

	"github.com/go-redis/redis/v8"
)

const AuthSessionPrefix = "authSession:"

var ErrSessionNotFound = errors.New("session not found or expired")

// SaveAuthSession saves the session in Redis with a TTL. The backend token is sealed at rest.
func SaveAuthSession(ctx context.Context, client *redis.Client, session models.AuthSession, ttl time.Duration) error {
	session.LastSeenAt = time.Now().UTC()
	sealed, err := SealString(session.BackendToken)
	if err != nil {
		return fmt.Errorf("failed to seal backend token: %w", err)
	}
	session.BackendToken = sealed
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal auth session: %w", err)
	}
	if err := client.Set(ctx, AuthSessionPrefix+session.ID, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save auth session: %w", err)
	}
	return nil
}

// GetAuthSession retrieves the session and slides its expiry forward by ttl.
func GetAuthSession(ctx context.Context, client *redis.Client, sessionID string, ttl time.Duration) (*models.AuthSession, error) {
	key := AuthSessionPrefix + sessionID
	data, err := client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load auth session: %w", err)
	}
	var session models.AuthSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal auth session: %w", err)
	}
	if session.BackendToken, err = OpenString(session.BackendToken); err != nil {
		if errors.Is(err, ErrSealedValue) {
			// Sealed under a previous key; the session cannot be used again.
			_ = client.Del(ctx, key).Err()
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to open backend token: %w", err)
	}
	if ttl > 0 {
		if err := client.Expire(ctx, key, ttl).Err(); err != nil {
			return nil, fmt.Errorf("failed to refresh auth session: %w", err)
		}
	}
	return &session, nil
}

// DeleteAuthSession removes a session from Redis.
func DeleteAuthSession(ctx context.Context, client *redis.Client, sessionID string) error {
	return client.Del(ctx, AuthSessionPrefix+sessionID).Err()
}
