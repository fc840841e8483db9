package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return zap.New(core), logs
}

func TestWithRequestID(t *testing.T) {
	logger, logs := newObservedLogger()

	ctx, reqLogger := WithRequestID(context.Background(), logger, "req-123")

	assert.Equal(t, "req-123", GetRequestID(ctx))

	reqLogger.Info("hello")
	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-123", entries[0].ContextMap()["request_id"])
}

func TestWithPlatform(t *testing.T) {
	logger, logs := newObservedLogger()

	ctx, platLogger := WithPlatform(context.Background(), logger, "SHOPEE")

	assert.Equal(t, "SHOPEE", GetPlatform(ctx))

	platLogger.Info("pulling orders")
	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "SHOPEE", entries[0].ContextMap()["platform"])
}

func TestWithCycleID(t *testing.T) {
	logger, _ := newObservedLogger()

	ctx, _ := WithCycleID(context.Background(), logger, "cycle-42")

	assert.Equal(t, "cycle-42", GetCycleID(ctx))
}

func TestGetters_EmptyContext(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, GetRequestID(ctx))
	assert.Empty(t, GetPlatform(ctx))
	assert.Empty(t, GetCycleID(ctx))
}

func TestContextKeys_NoCollision(t *testing.T) {
	// A plain string key must not leak into the typed getters.
	ctx := context.WithValue(context.Background(), "request_id", "untyped") //nolint:staticcheck
	assert.Empty(t, GetRequestID(ctx))
}

func TestFromContext(t *testing.T) {
	t.Run("all fields present", func(t *testing.T) {
		logger, logs := newObservedLogger()

		ctx := context.Background()
		ctx, _ = WithRequestID(ctx, logger, "req-1")
		ctx, _ = WithPlatform(ctx, logger, "TIKTOK")
		ctx, _ = WithCycleID(ctx, logger, "cycle-7")

		FromContext(ctx, logger).Info("enriched")

		entries := logs.All()
		require.Len(t, entries, 1)
		fields := entries[0].ContextMap()
		assert.Equal(t, "req-1", fields["request_id"])
		assert.Equal(t, "TIKTOK", fields["platform"])
		assert.Equal(t, "cycle-7", fields["cycle_id"])
	})

	t.Run("empty context returns base", func(t *testing.T) {
		logger, logs := newObservedLogger()

		FromContext(context.Background(), logger).Info("bare")

		entries := logs.All()
		require.Len(t, entries, 1)
		assert.Empty(t, entries[0].Context)
	})

	t.Run("nil context returns base", func(t *testing.T) {
		logger, _ := newObservedLogger()
		assert.Equal(t, logger, FromContext(nil, logger)) //nolint:staticcheck
	})
}
