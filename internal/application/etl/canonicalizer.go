package etl

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/orderhub/backend/internal/domain/canonical"
	"github.com/orderhub/backend/internal/domain/integration"
)

type statusCacheKey struct {
	platform integration.PlatformCode
	code     string
}

// StatusCanonicalizer resolves a platform status code to its taxonomy
// row, creating the row on first sight. The store's GetOrCreate is the
// atomic allocate-or-fetch step; the in-process cache only short-cuts
// repeat lookups and is safe to lose.
type StatusCanonicalizer struct {
	statuses canonical.StatusRepository
	logger   *zap.Logger

	mu    sync.RWMutex
	cache map[statusCacheKey]*canonical.Status
}

// NewStatusCanonicalizer creates a canonicalizer backed by the given
// taxonomy store.
func NewStatusCanonicalizer(statuses canonical.StatusRepository, logger *zap.Logger) *StatusCanonicalizer {
	return &StatusCanonicalizer{
		statuses: statuses,
		logger:   logger,
		cache:    make(map[statusCacheKey]*canonical.Status),
	}
}

// Resolve returns the taxonomy row for (platform, platformStatusCode),
// allocating it when the pair has never been observed. Unmapped codes
// land in the UNKNOWN bucket; resolution never fails on an unseen code.
func (c *StatusCanonicalizer) Resolve(ctx context.Context, platform integration.PlatformCode, platformStatusCode, platformStatusName string) (*canonical.Status, error) {
	key := statusCacheKey{platform: platform, code: platformStatusCode}

	c.mu.RLock()
	if cached, ok := c.cache[key]; ok {
		c.mu.RUnlock()
		return cached, nil
	}
	c.mu.RUnlock()

	status := &canonical.Status{
		Platform:           platform,
		PlatformStatusCode: platformStatusCode,
		PlatformStatusName: platformStatusName,
		StandardStatusCode: canonical.DefaultStandardStatus(platform, platformStatusCode),
	}

	resolved, err := c.statuses.GetOrCreate(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("resolve status %s/%s: %w", platform, platformStatusCode, err)
	}

	if resolved.StandardStatusCode == canonical.StandardStatusUnknown {
		c.logger.Warn("platform status code has no standard mapping",
			zap.String("platform", string(platform)),
			zap.String("platform_status_code", platformStatusCode),
			zap.Int64("status_key", resolved.StatusKey),
		)
	}

	c.mu.Lock()
	c.cache[key] = resolved
	c.mu.Unlock()

	return resolved, nil
}
