package cache

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/orderhub/backend/internal/domain/canonical"
	"github.com/orderhub/backend/internal/domain/integration"
)

// LayeredWatermarkStore fronts the durable sync-state table with a
// fast cache. Reads prefer the cache and fall through to the database;
// writes land in the database first so a cache outage can never lose a
// completed window.
type LayeredWatermarkStore struct {
	cache   integration.WatermarkStore
	durable canonical.SyncStateRepository
	logger  *zap.Logger
}

// NewLayeredWatermarkStore creates a layered store over the given cache
// and durable repository
func NewLayeredWatermarkStore(cache integration.WatermarkStore, durable canonical.SyncStateRepository, logger *zap.Logger) *LayeredWatermarkStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LayeredWatermarkStore{
		cache:   cache,
		durable: durable,
		logger:  logger,
	}
}

// Get returns the watermark for a platform, warming the cache on a
// database hit.
func (s *LayeredWatermarkStore) Get(ctx context.Context, platform integration.PlatformCode) (time.Time, bool, error) {
	watermark, found, err := s.cache.Get(ctx, platform)
	if err != nil {
		s.logger.Warn("watermark cache read failed, falling through to database",
			zap.String("platform", string(platform)),
			zap.Error(err),
		)
	} else if found {
		return watermark, true, nil
	}

	watermark, found, err = s.durable.GetWatermark(ctx, platform)
	if err != nil || !found {
		return time.Time{}, false, err
	}

	if cacheErr := s.cache.Set(ctx, platform, watermark); cacheErr != nil {
		s.logger.Warn("failed to warm watermark cache",
			zap.String("platform", string(platform)),
			zap.Error(cacheErr),
		)
	}
	return watermark, true, nil
}

// Set records the watermark durably and refreshes the cache
func (s *LayeredWatermarkStore) Set(ctx context.Context, platform integration.PlatformCode, watermark time.Time) error {
	if err := s.durable.SetWatermark(ctx, platform, watermark); err != nil {
		return err
	}
	if err := s.cache.Set(ctx, platform, watermark); err != nil {
		s.logger.Warn("failed to update watermark cache",
			zap.String("platform", string(platform)),
			zap.Error(err),
		)
	}
	return nil
}

// Ensure LayeredWatermarkStore implements the watermark port
var _ integration.WatermarkStore = (*LayeredWatermarkStore)(nil)
