package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/brainloop/pkg/domain"
)

// CombineHooks fans every event out to all non-nil callbacks, in order.
func CombineHooks(all ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			for _, h := range all {
				if h.OnRunStart != nil {
					h.OnRunStart(ctx, e)
				}
			}
		},
		OnRunEnd: func(ctx context.Context, e *domain.RunEvent) {
			for _, h := range all {
				if h.OnRunEnd != nil {
					h.OnRunEnd(ctx, e)
				}
			}
		},
		OnCompileError: func(ctx context.Context, e *domain.CompileEvent) {
			for _, h := range all {
				if h.OnCompileError != nil {
					h.OnCompileError(ctx, e)
				}
			}
		},
	}
}

// LoggingHooks logs lifecycle events at Info level.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			logger.InfoContext(ctx, "run_start", "eof_policy", e.EOFPolicy)
		},
		OnRunEnd: func(ctx context.Context, e *domain.RunEvent) {
			attrs := []any{
				"steps", e.Steps,
				"output_bytes", e.OutputBytes,
				"duration", e.Duration,
				"outcome", Outcome(e.Err),
			}
			if e.Err != nil {
				attrs = append(attrs, "error", e.Err)
			}
			logger.InfoContext(ctx, "run_end", attrs...)
		},
		OnCompileError: func(ctx context.Context, e *domain.CompileEvent) {
			logger.InfoContext(ctx, "compile_error",
				"kind", e.Err.Kind,
				"position", e.Err.Position,
				"line", e.Err.Line,
				"column", e.Err.Column,
			)
		},
	}
}
