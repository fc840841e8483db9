package cache

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/orderhub/backend/internal/domain/integration"
	"github.com/orderhub/backend/internal/infrastructure/config"
)

// WatermarkStoreFactory creates watermark stores based on configuration
type WatermarkStoreFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// WatermarkStoreFactoryOption is a functional option for configuring the factory
type WatermarkStoreFactoryOption func(*WatermarkStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) WatermarkStoreFactoryOption {
	return func(f *WatermarkStoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to an in-memory
// cache when Redis is unavailable. Default is true (allow fallback).
func WithInMemoryFallback(allow bool) WatermarkStoreFactoryOption {
	return func(f *WatermarkStoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewWatermarkStoreFactory creates a new factory
func NewWatermarkStoreFactory(cfg config.RedisConfig, opts ...WatermarkStoreFactoryOption) *WatermarkStoreFactory {
	f := &WatermarkStoreFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisStore creates a Redis-based watermark store
func (f *WatermarkStoreFactory) CreateRedisStore() (integration.WatermarkStore, error) {
	store, err := NewRedisWatermarkStore(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis watermark store: %w", err)
	}

	return store, nil
}

// CreateInMemoryStore creates an in-memory watermark store.
// WARNING: in-memory caches do not share state across process
// instances; the durable sync-state table remains the source of truth.
func (f *WatermarkStoreFactory) CreateInMemoryStore() integration.WatermarkStore {
	return NewInMemoryWatermarkStore()
}

// CreateStore creates a watermark cache based on whether Redis is
// available. It tries Redis first and falls back to in-memory when
// Redis is unreachable and AllowInMemoryFallback is true.
func (f *WatermarkStoreFactory) CreateStore() (integration.WatermarkStore, error) {
	store, err := f.CreateRedisStore()
	if err == nil {
		f.logger.Info("using Redis watermark store")
		return store, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for watermark cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory watermark cache. "+
		"Cold starts will resolve watermarks from the database.",
		zap.Error(err),
	)
	return f.CreateInMemoryStore(), nil
}
