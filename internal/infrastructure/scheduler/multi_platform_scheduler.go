package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/orderhub/backend/internal/application/etl"
	"github.com/orderhub/backend/internal/domain/integration"
	"github.com/orderhub/backend/internal/infrastructure/logger"
)

// maxCycleHistory bounds the in-memory record of past cycles.
const maxCycleHistory = 100

// PipelineRunner is the slice of the ETL pipeline the scheduler drives.
type PipelineRunner interface {
	Platform() integration.PlatformCode
	ProcessUpdatedOrders(ctx context.Context) *etl.EtlResult
	ProcessOrdersForDate(ctx context.Context, date time.Time) *etl.EtlResult
}

// Config controls cycle execution.
type Config struct {
	// Parallel runs platform pipelines concurrently within a cycle;
	// sequential execution runs them in registration order
	Parallel bool
	// HealthWindowSize is how many recent runs feed the health signal
	HealthWindowSize int
	// HealthMinSamples is how many runs are needed before a platform can
	// be reported unhealthy
	HealthMinSamples int
	// HealthFailureThreshold is the recent failure ratio at which a
	// platform is reported unhealthy
	HealthFailureThreshold float64
}

// platformState holds one platform's pipeline and counters. Counter
// mutation happens under the scheduler mutex; pipelines finishing
// concurrently in a parallel cycle would otherwise race.
type platformState struct {
	runner       PipelineRunner
	enabled      bool
	successCount int64
	failureCount int64
	lastRunAt    time.Time
	health       *healthWindow
}

// CycleResult aggregates one multi-platform cycle.
type CycleResult struct {
	CycleID    uuid.UUID                `json:"cycleId"`
	StartedAt  time.Time                `json:"startedAt"`
	DurationMs int64                    `json:"durationMs"`
	Results    []*etl.EtlResult         `json:"results"`
	Platforms  []integration.PlatformCode `json:"platforms"`
}

// PlatformStatistics is the per-platform slice of a statistics snapshot.
type PlatformStatistics struct {
	Enabled      bool      `json:"enabled"`
	SuccessCount int64     `json:"successCount"`
	FailureCount int64     `json:"failureCount"`
	LastRunAt    time.Time `json:"lastRunAt"`
	IsHealthy    bool      `json:"isHealthy"`
}

// Statistics is a read-only snapshot of scheduler state.
type Statistics struct {
	IsExecuting     bool                          `json:"isExecuting"`
	TotalExecutions int64                         `json:"totalExecutions"`
	Platforms       map[string]PlatformStatistics `json:"platforms"`
}

// MultiPlatformScheduler is the single scheduling authority. At most
// one full multi-platform cycle runs at a time, enforced by an atomic
// test-and-set on the executing flag; timer and manual triggers go
// through the same gate.
type MultiPlatformScheduler struct {
	cfg    Config
	logger *zap.Logger

	executing       atomic.Bool
	totalExecutions atomic.Int64

	mu        sync.RWMutex
	platforms map[integration.PlatformCode]*platformState
	order     []integration.PlatformCode
	history   []CycleResult
}

// NewMultiPlatformScheduler creates an empty scheduler; platforms are
// attached with Register before the first trigger.
func NewMultiPlatformScheduler(cfg Config, logger *zap.Logger) *MultiPlatformScheduler {
	return &MultiPlatformScheduler{
		cfg:       cfg,
		logger:    logger,
		platforms: make(map[integration.PlatformCode]*platformState),
		history:   make([]CycleResult, 0, maxCycleHistory),
	}
}

// Register attaches a platform pipeline. Disabled platforms stay
// registered so statistics can report them, but no cycle runs them.
func (s *MultiPlatformScheduler) Register(runner PipelineRunner, enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	code := runner.Platform()
	if _, exists := s.platforms[code]; !exists {
		s.order = append(s.order, code)
	}
	s.platforms[code] = &platformState{
		runner:  runner,
		enabled: enabled,
		health:  newHealthWindow(s.cfg.HealthWindowSize, s.cfg.HealthMinSamples, s.cfg.HealthFailureThreshold),
	}
}

// TriggerAllPlatforms runs one full cycle over every enabled platform.
// If a cycle is already executing it returns ErrCycleInProgress
// immediately without starting a second one.
func (s *MultiPlatformScheduler) TriggerAllPlatforms(ctx context.Context) (*CycleResult, error) {
	if !s.executing.CompareAndSwap(false, true) {
		return nil, ErrCycleInProgress
	}
	defer s.executing.Store(false)

	startedAt := time.Now()
	s.totalExecutions.Add(1)

	enabled := s.enabledPlatforms()
	if len(enabled) == 0 {
		return nil, ErrNoEnabledPlatforms
	}

	cycle := &CycleResult{
		CycleID:   uuid.New(),
		StartedAt: startedAt,
		Platforms: make([]integration.PlatformCode, 0, len(enabled)),
		Results:   make([]*etl.EtlResult, len(enabled)),
	}
	for _, state := range enabled {
		cycle.Platforms = append(cycle.Platforms, state.runner.Platform())
	}

	ctx, cycleLogger := logger.WithCycleID(ctx, s.logger, cycle.CycleID.String())
	cycleLogger.Info("sync cycle started",
		zap.Int("platforms", len(enabled)),
		zap.Bool("parallel", s.cfg.Parallel),
	)

	if s.cfg.Parallel {
		var wg sync.WaitGroup
		for i, state := range enabled {
			wg.Add(1)
			go func(i int, state *platformState) {
				defer wg.Done()
				cycle.Results[i] = s.runPlatform(ctx, state)
			}(i, state)
		}
		wg.Wait()
	} else {
		for i, state := range enabled {
			cycle.Results[i] = s.runPlatform(ctx, state)
		}
	}

	cycle.DurationMs = time.Since(startedAt).Milliseconds()
	s.recordCycle(*cycle)

	cycleLogger.Info("sync cycle completed",
		zap.Int64("duration_ms", cycle.DurationMs),
	)
	return cycle, nil
}

// TriggerPlatform runs a single platform's pipeline outside the global
// cycle. ok is false for an unknown or disabled platform name; counters
// stay untouched in that case.
func (s *MultiPlatformScheduler) TriggerPlatform(ctx context.Context, name string) (*etl.EtlResult, bool) {
	state, ok := s.lookupEnabled(name)
	if !ok {
		return nil, false
	}
	return s.runPlatform(ctx, state), true
}

// TriggerPlatformForDate re-ingests one platform's orders for an
// explicit date, bypassing the watermark.
func (s *MultiPlatformScheduler) TriggerPlatformForDate(ctx context.Context, name string, date time.Time) (*etl.EtlResult, bool) {
	state, ok := s.lookupEnabled(name)
	if !ok {
		return nil, false
	}
	result := s.run(ctx, state, func(ctx context.Context) *etl.EtlResult {
		return state.runner.ProcessOrdersForDate(ctx, date)
	})
	return result, true
}

// GetStatistics returns a read-only snapshot of scheduler state.
func (s *MultiPlatformScheduler) GetStatistics() Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Statistics{
		IsExecuting:     s.executing.Load(),
		TotalExecutions: s.totalExecutions.Load(),
		Platforms:       make(map[string]PlatformStatistics, len(s.platforms)),
	}
	for code, state := range s.platforms {
		stats.Platforms[string(code)] = PlatformStatistics{
			Enabled:      state.enabled,
			SuccessCount: state.successCount,
			FailureCount: state.failureCount,
			LastRunAt:    state.lastRunAt,
			IsHealthy:    state.health.healthy(),
		}
	}
	return stats
}

// History returns the recorded cycles, most recent last.
func (s *MultiPlatformScheduler) History() []CycleResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]CycleResult, len(s.history))
	copy(out, s.history)
	return out
}

func (s *MultiPlatformScheduler) enabledPlatforms() []*platformState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	enabled := make([]*platformState, 0, len(s.order))
	for _, code := range s.order {
		if state := s.platforms[code]; state.enabled {
			enabled = append(enabled, state)
		}
	}
	return enabled
}

func (s *MultiPlatformScheduler) lookupEnabled(name string) (*platformState, bool) {
	code, ok := integration.ParsePlatformCode(name)
	if !ok {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, exists := s.platforms[code]
	if !exists || !state.enabled {
		return nil, false
	}
	return state, true
}

func (s *MultiPlatformScheduler) runPlatform(ctx context.Context, state *platformState) *etl.EtlResult {
	return s.run(ctx, state, state.runner.ProcessUpdatedOrders)
}

// run executes one pipeline and applies its outcome to the platform's
// counters. A panic inside a pipeline is converted into a failed result
// so one platform can never take down the cycle or leave the executing
// flag stuck.
func (s *MultiPlatformScheduler) run(ctx context.Context, state *platformState, fn func(ctx context.Context) *etl.EtlResult) (result *etl.EtlResult) {
	code := state.runner.Platform()
	ctx, runLogger := logger.WithPlatform(ctx, s.logger, string(code))
	defer func() {
		if r := recover(); r != nil {
			runLogger.Error("pipeline panicked",
				zap.Any("panic", r),
			)
			result = &etl.EtlResult{
				Platform:     code,
				Success:      false,
				ErrorMessage: fmt.Sprintf("pipeline panic: %v", r),
				StartedAt:    time.Now(),
			}
			s.applyResult(state, result)
		}
	}()

	result = fn(ctx)
	s.applyResult(state, result)
	return result
}

func (s *MultiPlatformScheduler) applyResult(state *platformState, result *etl.EtlResult) {
	s.mu.Lock()
	if result.Success {
		state.successCount++
	} else {
		state.failureCount++
	}
	state.lastRunAt = time.Now()
	s.mu.Unlock()

	state.health.record(result.Success)

	if !result.Success {
		s.logger.Warn("platform run failed",
			zap.String("platform", string(result.Platform)),
			zap.String("error", result.ErrorMessage),
		)
	}
}

func (s *MultiPlatformScheduler) recordCycle(cycle CycleResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, cycle)
	if len(s.history) > maxCycleHistory {
		s.history = s.history[len(s.history)-maxCycleHistory:]
	}
}
