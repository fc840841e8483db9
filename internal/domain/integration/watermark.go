package integration

import (
	"context"
	"time"
)

// WatermarkStore tracks the last successfully processed update time per
// platform. The pipeline pulls orders from the watermark forward, so a
// crash between runs re-pulls at most the unfinished window; upserts
// make the replay harmless.
type WatermarkStore interface {
	// Get returns the watermark for a platform. found is false when the
	// platform has never completed a run.
	Get(ctx context.Context, code PlatformCode) (watermark time.Time, found bool, err error)

	// Set advances the watermark for a platform.
	Set(ctx context.Context, code PlatformCode, watermark time.Time) error
}
