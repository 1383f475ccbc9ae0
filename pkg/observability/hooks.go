package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/vessel/pkg/domain"
)

// Chain returns hooks that call each set in order, skipping nil callbacks.
func Chain(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStageStart: func(ctx context.Context, e *domain.StageEvent) {
			for _, h := range sets {
				if h.OnStageStart != nil {
					h.OnStageStart(ctx, e)
				}
			}
		},
		OnStageFinish: func(ctx context.Context, e *domain.StageEvent) {
			for _, h := range sets {
				if h.OnStageFinish != nil {
					h.OnStageFinish(ctx, e)
				}
			}
		},
		OnBooleanOp: func(ctx context.Context, e *domain.BooleanEvent) {
			for _, h := range sets {
				if h.OnBooleanOp != nil {
					h.OnBooleanOp(ctx, e)
				}
			}
		},
		OnWarning: func(ctx context.Context, e *domain.WarningEvent) {
			for _, h := range sets {
				if h.OnWarning != nil {
					h.OnWarning(ctx, e)
				}
			}
		},
	}
}

// LogHooks logs every build event at debug level, failures and warnings at warn.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStageStart: func(ctx context.Context, e *domain.StageEvent) {
			logger.DebugContext(ctx, "stage_start", "model", e.Model, "stage", e.Stage)
		},
		OnStageFinish: func(ctx context.Context, e *domain.StageEvent) {
			if e.Err != nil {
				logger.WarnContext(ctx, "stage_failed", "model", e.Model, "stage", e.Stage, "error", e.Err)
				return
			}
			logger.DebugContext(ctx, "stage_finish", "model", e.Model, "stage", e.Stage, "duration", e.Duration)
		},
		OnBooleanOp: func(ctx context.Context, e *domain.BooleanEvent) {
			if e.Err != nil {
				logger.WarnContext(ctx, "boolean_failed", "model", e.Model, "op", e.Op, "operands", e.Operands, "error", e.Err)
				return
			}
			logger.DebugContext(ctx, "boolean_op", "model", e.Model, "op", e.Op, "operands", e.Operands, "duration", e.Duration)
		},
		OnWarning: func(ctx context.Context, e *domain.WarningEvent) {
			logger.WarnContext(ctx, "build_warning", "model", e.Model, "warning", e.Err)
		},
	}
}
