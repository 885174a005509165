package logging

import (
	"context"

	"github.com/bnema/webbridge/internal/domain/entity"
	"github.com/rs/zerolog"
)

// FromContext extracts the logger from context
// If no logger is found, returns a disabled logger (no-op)
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}

// WithComponent creates a child logger with a component field
func WithComponent(ctx context.Context, component string) context.Context {
	logger := FromContext(ctx)
	childLogger := logger.With().Str("component", component).Logger()
	return WithContext(ctx, childLogger)
}

// WithRendererID creates a child logger with a renderer_id field
func WithRendererID(ctx context.Context, id entity.RendererID) context.Context {
	logger := FromContext(ctx)
	childLogger := logger.With().Uint64("renderer_id", uint64(id)).Logger()
	return WithContext(ctx, childLogger)
}

// WithWindowID creates a child logger with a window_id field
func WithWindowID(ctx context.Context, id entity.WindowID) context.Context {
	logger := FromContext(ctx)
	childLogger := logger.With().Int64("window_id", int64(id)).Logger()
	return WithContext(ctx, childLogger)
}
