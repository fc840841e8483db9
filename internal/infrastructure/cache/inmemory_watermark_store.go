package cache

import (
	"context"
	"sync"
	"time"

	"github.com/orderhub/backend/internal/domain/integration"
)

// InMemoryWatermarkStore implements integration.WatermarkStore with a
// plain map. Suitable for single-instance deployments and testing;
// state does not survive restarts or span instances.
type InMemoryWatermarkStore struct {
	mu         sync.RWMutex
	watermarks map[integration.PlatformCode]time.Time
}

// NewInMemoryWatermarkStore creates a new in-memory watermark store
func NewInMemoryWatermarkStore() *InMemoryWatermarkStore {
	return &InMemoryWatermarkStore{
		watermarks: make(map[integration.PlatformCode]time.Time),
	}
}

// Get returns the cached watermark for a platform
func (s *InMemoryWatermarkStore) Get(_ context.Context, platform integration.PlatformCode) (time.Time, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	watermark, ok := s.watermarks[platform]
	return watermark, ok, nil
}

// Set records the watermark for a platform
func (s *InMemoryWatermarkStore) Set(_ context.Context, platform integration.PlatformCode, watermark time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watermarks[platform] = watermark
	return nil
}

// Ensure InMemoryWatermarkStore implements the watermark port
var _ integration.WatermarkStore = (*InMemoryWatermarkStore)(nil)
