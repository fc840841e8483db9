package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/orderhub/backend/internal/application/etl"
	"github.com/orderhub/backend/internal/domain/integration"
)

type mockRunner struct {
	platform  integration.PlatformCode
	execCount atomic.Int32
	runFunc   func(ctx context.Context) *etl.EtlResult
}

func newMockRunner(platform integration.PlatformCode) *mockRunner {
	return &mockRunner{platform: platform}
}

func (m *mockRunner) Platform() integration.PlatformCode { return m.platform }

func (m *mockRunner) ProcessUpdatedOrders(ctx context.Context) *etl.EtlResult {
	m.execCount.Add(1)
	if m.runFunc != nil {
		return m.runFunc(ctx)
	}
	return &etl.EtlResult{Platform: m.platform, Success: true, StartedAt: time.Now()}
}

func (m *mockRunner) ProcessOrdersForDate(ctx context.Context, _ time.Time) *etl.EtlResult {
	return m.ProcessUpdatedOrders(ctx)
}

func newTestScheduler(cfg Config) (*MultiPlatformScheduler, *mockRunner, *mockRunner, *mockRunner) {
	s := NewMultiPlatformScheduler(cfg, zap.NewNop())
	shopee := newMockRunner(integration.PlatformCodeShopee)
	tiktok := newMockRunner(integration.PlatformCodeTikTok)
	facebook := newMockRunner(integration.PlatformCodeFacebook)
	s.Register(shopee, true)
	s.Register(tiktok, true)
	s.Register(facebook, true)
	return s, shopee, tiktok, facebook
}

func TestTriggerAllPlatforms_RunsEveryEnabledPlatform(t *testing.T) {
	s, shopee, tiktok, facebook := newTestScheduler(Config{})

	cycle, err := s.TriggerAllPlatforms(context.Background())
	require.NoError(t, err)

	assert.Len(t, cycle.Results, 3)
	assert.Equal(t, int32(1), shopee.execCount.Load())
	assert.Equal(t, int32(1), tiktok.execCount.Load())
	assert.Equal(t, int32(1), facebook.execCount.Load())

	stats := s.GetStatistics()
	assert.False(t, stats.IsExecuting)
	assert.Equal(t, int64(1), stats.TotalExecutions)
	assert.Equal(t, int64(1), stats.Platforms["SHOPEE"].SuccessCount)
}

func TestTriggerAllPlatforms_SingleFlight(t *testing.T) {
	s, shopee, _, _ := newTestScheduler(Config{})

	release := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once
	shopee.runFunc = func(_ context.Context) *etl.EtlResult {
		once.Do(func() { close(started) })
		<-release
		return &etl.EtlResult{Platform: shopee.platform, Success: true}
	}

	var wg sync.WaitGroup
	var rejected atomic.Int32
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := s.TriggerAllPlatforms(context.Background())
		assert.NoError(t, err)
	}()
	<-started

	// two more callers while the first cycle is still running
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.TriggerAllPlatforms(context.Background()); err == ErrCycleInProgress {
				rejected.Add(1)
			}
		}()
	}

	// concurrent callers must return immediately without blocking
	assert.Eventually(t, func() bool { return rejected.Load() == 2 }, time.Second, 5*time.Millisecond)
	assert.True(t, s.GetStatistics().IsExecuting)

	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), shopee.execCount.Load(), "exactly one cycle executed")
	assert.False(t, s.GetStatistics().IsExecuting)
}

func TestTriggerAllPlatforms_PlatformFailureIsolated(t *testing.T) {
	s, _, tiktok, _ := newTestScheduler(Config{})
	tiktok.runFunc = func(_ context.Context) *etl.EtlResult {
		return &etl.EtlResult{Platform: tiktok.platform, Success: false, ErrorMessage: "api down"}
	}

	cycle, err := s.TriggerAllPlatforms(context.Background())
	require.NoError(t, err)
	assert.Len(t, cycle.Results, 3)

	stats := s.GetStatistics()
	assert.Equal(t, int64(1), stats.Platforms["SHOPEE"].SuccessCount)
	assert.Equal(t, int64(1), stats.Platforms["TIKTOK"].FailureCount)
	assert.Equal(t, int64(0), stats.Platforms["TIKTOK"].SuccessCount)
	assert.Equal(t, int64(1), stats.Platforms["FACEBOOK"].SuccessCount)
}

func TestTriggerAllPlatforms_PanicDoesNotStickFlag(t *testing.T) {
	s, shopee, _, _ := newTestScheduler(Config{})
	shopee.runFunc = func(_ context.Context) *etl.EtlResult {
		panic("mapping exploded")
	}

	cycle, err := s.TriggerAllPlatforms(context.Background())
	require.NoError(t, err)
	require.Len(t, cycle.Results, 3)
	assert.False(t, cycle.Results[0].Success)
	assert.Contains(t, cycle.Results[0].ErrorMessage, "mapping exploded")

	stats := s.GetStatistics()
	assert.False(t, stats.IsExecuting, "flag must clear after a panic")
	assert.Equal(t, int64(1), stats.Platforms["SHOPEE"].FailureCount)

	// a second cycle still runs
	_, err = s.TriggerAllPlatforms(context.Background())
	assert.NoError(t, err)
}

func TestTriggerAllPlatforms_Parallel(t *testing.T) {
	s, shopee, tiktok, facebook := newTestScheduler(Config{Parallel: true})

	var concurrent atomic.Int32
	var peak atomic.Int32
	slowRun := func(platform integration.PlatformCode) func(ctx context.Context) *etl.EtlResult {
		return func(_ context.Context) *etl.EtlResult {
			n := concurrent.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			concurrent.Add(-1)
			return &etl.EtlResult{Platform: platform, Success: true}
		}
	}
	shopee.runFunc = slowRun(shopee.platform)
	tiktok.runFunc = slowRun(tiktok.platform)
	facebook.runFunc = slowRun(facebook.platform)

	_, err := s.TriggerAllPlatforms(context.Background())
	require.NoError(t, err)
	assert.Greater(t, peak.Load(), int32(1), "pipelines overlap in parallel mode")
}

func TestTriggerPlatform(t *testing.T) {
	s, shopee, _, _ := newTestScheduler(Config{})

	result, ok := s.TriggerPlatform(context.Background(), "shopee")
	require.True(t, ok)
	assert.True(t, result.Success)
	assert.Equal(t, int32(1), shopee.execCount.Load())
	assert.Equal(t, int64(1), s.GetStatistics().Platforms["SHOPEE"].SuccessCount)
}

func TestTriggerPlatform_UnknownLeavesCountersUntouched(t *testing.T) {
	s, shopee, tiktok, facebook := newTestScheduler(Config{})

	result, ok := s.TriggerPlatform(context.Background(), "lazada")
	assert.False(t, ok)
	assert.Nil(t, result)

	for _, r := range []*mockRunner{shopee, tiktok, facebook} {
		assert.Equal(t, int32(0), r.execCount.Load())
	}
	stats := s.GetStatistics()
	for name, p := range stats.Platforms {
		assert.Zero(t, p.SuccessCount, name)
		assert.Zero(t, p.FailureCount, name)
	}
}

func TestTriggerPlatform_Disabled(t *testing.T) {
	s := NewMultiPlatformScheduler(Config{}, zap.NewNop())
	facebook := newMockRunner(integration.PlatformCodeFacebook)
	s.Register(facebook, false)

	_, ok := s.TriggerPlatform(context.Background(), "facebook")
	assert.False(t, ok)
	assert.Equal(t, int32(0), facebook.execCount.Load())

	// disabled platforms are excluded from cycles too
	_, err := s.TriggerAllPlatforms(context.Background())
	assert.ErrorIs(t, err, ErrNoEnabledPlatforms)
	assert.False(t, s.GetStatistics().Platforms["FACEBOOK"].Enabled)
}

func TestTriggerPlatformForDate(t *testing.T) {
	s := NewMultiPlatformScheduler(Config{}, zap.NewNop())
	shopee := newMockRunner(integration.PlatformCodeShopee)
	s.Register(shopee, true)

	result, ok := s.TriggerPlatformForDate(context.Background(), "SHOPEE", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.True(t, result.Success)
}

func TestGetStatistics_Health(t *testing.T) {
	cfg := Config{HealthWindowSize: 5, HealthMinSamples: 3, HealthFailureThreshold: 0.5}
	s := NewMultiPlatformScheduler(cfg, zap.NewNop())
	shopee := newMockRunner(integration.PlatformCodeShopee)
	s.Register(shopee, true)

	shopee.runFunc = func(_ context.Context) *etl.EtlResult {
		return &etl.EtlResult{Platform: shopee.platform, Success: false, ErrorMessage: "boom"}
	}

	// too few samples: still healthy
	s.TriggerPlatform(context.Background(), "SHOPEE")
	assert.True(t, s.GetStatistics().Platforms["SHOPEE"].IsHealthy)

	s.TriggerPlatform(context.Background(), "SHOPEE")
	s.TriggerPlatform(context.Background(), "SHOPEE")
	assert.False(t, s.GetStatistics().Platforms["SHOPEE"].IsHealthy)

	// recent successes push the failure ratio back under the threshold
	shopee.runFunc = nil
	for i := 0; i < 4; i++ {
		s.TriggerPlatform(context.Background(), "SHOPEE")
	}
	assert.True(t, s.GetStatistics().Platforms["SHOPEE"].IsHealthy,
		"health reflects the recent window, not lifetime totals")
}

func TestHistory_Bounded(t *testing.T) {
	s := NewMultiPlatformScheduler(Config{}, zap.NewNop())
	s.Register(newMockRunner(integration.PlatformCodeShopee), true)

	for i := 0; i < 3; i++ {
		_, err := s.TriggerAllPlatforms(context.Background())
		require.NoError(t, err)
	}
	assert.Len(t, s.History(), 3)
}
