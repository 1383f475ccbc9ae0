package observability_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/aretw0/vessel/pkg/domain"
	"github.com/aretw0/vessel/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	hooks := m.Hooks()

	hooks.OnBooleanOp(ctx, &domain.BooleanEvent{Op: "union", Operands: 3})
	hooks.OnBooleanOp(ctx, &domain.BooleanEvent{Op: "subtract", Operands: 2, Err: errors.New("boom")})
	hooks.OnWarning(ctx, &domain.WarningEvent{Err: errors.New("fillet skipped")})
	hooks.OnStageFinish(ctx, &domain.StageEvent{Stage: domain.StageAssemble, Duration: 10 * time.Millisecond})
	hooks.OnStageFinish(ctx, &domain.StageEvent{Stage: domain.StageRound, Duration: 20 * time.Millisecond})
	hooks.OnStageFinish(ctx, &domain.StageEvent{Stage: domain.StageComposite, Err: errors.New("boom")})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.BooleanOps.WithLabelValues("union", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BooleanOps.WithLabelValues("subtract", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Warnings))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Builds.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Builds.WithLabelValues("error")))
	assert.Equal(t, 3, testutil.CollectAndCount(m.StageDuration))

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Positive(t, n)
}

func TestMetrics_NilRegisterer(t *testing.T) {
	assert.NotPanics(t, func() {
		observability.NewMetrics(nil)
		observability.NewMetrics(nil)
	})
}

func TestChain(t *testing.T) {
	ctx := context.Background()
	var order []string
	first := domain.LifecycleHooks{
		OnWarning: func(context.Context, *domain.WarningEvent) { order = append(order, "first") },
	}
	second := domain.LifecycleHooks{
		OnWarning:   func(context.Context, *domain.WarningEvent) { order = append(order, "second") },
		OnBooleanOp: func(context.Context, *domain.BooleanEvent) { order = append(order, "op") },
	}

	hooks := observability.Chain(first, second)
	hooks.OnWarning(ctx, &domain.WarningEvent{})
	hooks.OnBooleanOp(ctx, &domain.BooleanEvent{})
	hooks.OnStageStart(ctx, &domain.StageEvent{})

	assert.Equal(t, []string{"first", "second", "op"}, order)
}

func TestLogHooks(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	hooks := observability.LogHooks(logger)

	hooks.OnStageStart(ctx, &domain.StageEvent{Stage: domain.StageAssemble})
	assert.Empty(t, buf.String())

	hooks.OnWarning(ctx, &domain.WarningEvent{EventBase: domain.EventBase{Model: "tree"}, Err: errors.New("fillet skipped")})
	assert.Contains(t, buf.String(), "build_warning")
	assert.Contains(t, buf.String(), "fillet skipped")
}
