package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// IntervalTriggerConfig holds configuration for the timer-driven trigger
type IntervalTriggerConfig struct {
	// Interval between automatic sync cycles
	Interval time.Duration
}

// DefaultIntervalTriggerConfig returns default trigger configuration
func DefaultIntervalTriggerConfig() IntervalTriggerConfig {
	return IntervalTriggerConfig{
		Interval: 15 * time.Minute,
	}
}

// IntervalTrigger fires TriggerAllPlatforms on a fixed interval. It
// goes through the same single-flight gate as manual triggers, so a
// tick landing during a running cycle is simply skipped.
type IntervalTrigger struct {
	config    IntervalTriggerConfig
	scheduler *MultiPlatformScheduler
	logger    *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewIntervalTrigger creates a new interval trigger
func NewIntervalTrigger(
	config IntervalTriggerConfig,
	scheduler *MultiPlatformScheduler,
	logger *zap.Logger,
) *IntervalTrigger {
	return &IntervalTrigger{
		config:    config,
		scheduler: scheduler,
		logger:    logger,
	}
}

// Start starts the interval trigger
func (t *IntervalTrigger) Start(ctx context.Context) error {
	if t.config.Interval <= 0 {
		return ErrInvalidConfig
	}

	t.mu.Lock()
	if t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = true
	t.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	t.wg.Add(1)
	go t.runLoop(ctx)

	t.logger.Info("interval trigger started", zap.Duration("interval", t.config.Interval))
	return nil
}

// Stop stops the interval trigger, waiting for the loop to exit or the
// context to expire.
func (t *IntervalTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("interval trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *IntervalTrigger) runLoop(ctx context.Context) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.trigger(ctx)
		}
	}
}

func (t *IntervalTrigger) trigger(ctx context.Context) {
	_, err := t.scheduler.TriggerAllPlatforms(ctx)
	switch {
	case err == nil:
	case errors.Is(err, ErrCycleInProgress):
		t.logger.Debug("tick skipped, cycle already running")
	case errors.Is(err, ErrNoEnabledPlatforms):
		t.logger.Warn("tick skipped, no enabled platforms")
	default:
		t.logger.Error("scheduled cycle failed", zap.Error(err))
	}
}
