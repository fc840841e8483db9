package logger

import (
	"context"

	"go.uber.org/zap"
)

// contextKey is a private type for context keys to avoid collisions
type contextKey string

const (
	// RequestIDKey is the context key for HTTP request correlation
	RequestIDKey contextKey = "request_id"
	// PlatformKey is the context key for the platform a pipeline run belongs to
	PlatformKey contextKey = "platform"
	// CycleIDKey is the context key for the sync cycle identifier
	CycleIDKey contextKey = "cycle_id"
)

// WithRequestID adds a request ID to the context and returns an enriched logger
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, RequestIDKey, requestID)
	return ctx, logger.With(zap.String("request_id", requestID))
}

// WithPlatform adds the platform code to the context and returns an enriched logger
func WithPlatform(ctx context.Context, logger *zap.Logger, platform string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, PlatformKey, platform)
	return ctx, logger.With(zap.String("platform", platform))
}

// WithCycleID adds the sync cycle ID to the context and returns an enriched logger
func WithCycleID(ctx context.Context, logger *zap.Logger, cycleID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, CycleIDKey, cycleID)
	return ctx, logger.With(zap.String("cycle_id", cycleID))
}

// GetRequestID retrieves the request ID from context
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// GetPlatform retrieves the platform code from context
func GetPlatform(ctx context.Context) string {
	if platform, ok := ctx.Value(PlatformKey).(string); ok {
		return platform
	}
	return ""
}

// GetCycleID retrieves the sync cycle ID from context
func GetCycleID(ctx context.Context) string {
	if cycleID, ok := ctx.Value(CycleIDKey).(string); ok {
		return cycleID
	}
	return ""
}

// ContextFields collects the correlation fields present in ctx.
func ContextFields(ctx context.Context) []zap.Field {
	if ctx == nil {
		return nil
	}
	fields := make([]zap.Field, 0, 3)
	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	if platform := GetPlatform(ctx); platform != "" {
		fields = append(fields, zap.String("platform", platform))
	}
	if cycleID := GetCycleID(ctx); cycleID != "" {
		fields = append(fields, zap.String("cycle_id", cycleID))
	}
	return fields
}

// FromContext enriches the base logger with every correlation field
// present in the context. Used at log sites that only receive a
// context, like the GORM trace hook.
func FromContext(ctx context.Context, base *zap.Logger) *zap.Logger {
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}
