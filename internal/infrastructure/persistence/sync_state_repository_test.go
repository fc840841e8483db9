package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderhub/backend/internal/domain/integration"
)

func TestSyncStateRepository_Watermark(t *testing.T) {
	repo := NewGormSyncStateRepository(setupTestDB(t))
	ctx := context.Background()

	_, found, err := repo.GetWatermark(ctx, integration.PlatformCodeShopee)
	require.NoError(t, err)
	assert.False(t, found, "unseen platform has no watermark")

	first := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.SetWatermark(ctx, integration.PlatformCodeShopee, first))

	got, found, err := repo.GetWatermark(ctx, integration.PlatformCodeShopee)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, first.Unix(), got.Unix())

	// advancing overwrites the single row per platform
	second := first.Add(24 * time.Hour)
	require.NoError(t, repo.SetWatermark(ctx, integration.PlatformCodeShopee, second))

	got, found, err = repo.GetWatermark(ctx, integration.PlatformCodeShopee)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, second.Unix(), got.Unix())
}

func TestSyncStateRepository_PerPlatformIsolation(t *testing.T) {
	repo := NewGormSyncStateRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.SetWatermark(ctx, integration.PlatformCodeShopee, time.Now()))

	_, found, err := repo.GetWatermark(ctx, integration.PlatformCodeTikTok)
	require.NoError(t, err)
	assert.False(t, found)
}
