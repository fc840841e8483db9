package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/orderhub/backend/internal/domain/integration"
)

// RedisWatermarkStore implements integration.WatermarkStore using
// Redis. This is suitable for distributed deployments where multiple
// instances need to share the last completed pull window.
type RedisWatermarkStore struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisWatermarkStore creates a new Redis-based watermark store
func NewRedisWatermarkStore(cfg RedisConfig) (*RedisWatermarkStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisWatermarkStore{
		client:    client,
		keyPrefix: "sync:watermark:",
	}, nil
}

// NewRedisWatermarkStoreWithClient creates a store with an existing Redis client.
// This is useful for testing or when sharing a client across components
func NewRedisWatermarkStoreWithClient(client *redis.Client, keyPrefix string) *RedisWatermarkStore {
	if keyPrefix == "" {
		keyPrefix = "sync:watermark:"
	}
	return &RedisWatermarkStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Get returns the cached watermark for a platform
func (s *RedisWatermarkStore) Get(ctx context.Context, platform integration.PlatformCode) (time.Time, bool, error) {
	value, err := s.client.Get(ctx, s.keyPrefix+string(platform)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("failed to read watermark: %w", err)
	}

	watermark, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		// a corrupt value is treated as a cache miss, not a failure
		return time.Time{}, false, nil
	}
	return watermark, true, nil
}

// Set records the watermark for a platform. Watermarks never expire;
// they are overwritten by the next completed run.
func (s *RedisWatermarkStore) Set(ctx context.Context, platform integration.PlatformCode, watermark time.Time) error {
	key := s.keyPrefix + string(platform)
	if err := s.client.Set(ctx, key, watermark.Format(time.RFC3339Nano), 0).Err(); err != nil {
		return fmt.Errorf("failed to write watermark: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (s *RedisWatermarkStore) Close() error {
	return s.client.Close()
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (s *RedisWatermarkStore) GetClient() *redis.Client {
	return s.client
}

// Ensure RedisWatermarkStore implements the watermark port
var _ integration.WatermarkStore = (*RedisWatermarkStore)(nil)
