// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"canchas/config"

	"github.com/go-redis/redis/v8"
)

var (
	// SessionCacheClient holds authenticated sessions.
	SessionCacheClient *redis.Client
	// DraftCacheClient holds reservation drafts.
	DraftCacheClient *redis.Client
)

func newRedisClient(db int, name string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (%s): %v", name, err)
	}
	return client
}

// InitRedis initializes every Redis client used by the gateway.
func InitRedis() {
	GetSessionCacheClient()
	GetDraftCacheClient()
}

// GetSessionCacheClient returns the Redis client for auth sessions.
func GetSessionCacheClient() *redis.Client {
	if SessionCacheClient == nil {
		SessionCacheClient = newRedisClient(config.AppConfig.RedisSessionDB, "Session")
	}
	return SessionCacheClient
}

// GetDraftCacheClient returns the Redis client for reservation drafts.
func GetDraftCacheClient() *redis.Client {
	if DraftCacheClient == nil {
		DraftCacheClient = newRedisClient(config.AppConfig.RedisDraftDB, "Draft")
	}
	return DraftCacheClient
}
