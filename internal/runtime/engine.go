package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	goruntime "runtime"
	"time"

	"github.com/aretw0/vessel/internal/logging"
	"github.com/aretw0/vessel/pkg/domain"
	"github.com/aretw0/vessel/pkg/ports"
)

// Engine runs the construction pipeline against a geometric kernel.
// It holds no per-build state and is safe for concurrent builds.
type Engine struct {
	kernel   ports.Kernel
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
	parallel bool
	workers  int
	name     string
}

// EngineOption configures the runtime Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithParallelPrimitives builds sibling branches concurrently when the kernel allows it.
func WithParallelPrimitives(enabled bool) EngineOption {
	return func(e *Engine) {
		e.parallel = enabled
	}
}

// WithWorkers bounds the goroutines used for parallel primitives.
func WithWorkers(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithModelName sets the name carried by built models and events.
func WithModelName(name string) EngineOption {
	return func(e *Engine) {
		e.name = name
	}
}

// NewEngine creates an engine over kernel.
func NewEngine(kernel ports.Kernel, opts ...EngineOption) *Engine {
	e := &Engine{
		kernel:  kernel,
		logger:  logging.NewNop(),
		workers: goruntime.GOMAXPROCS(0),
		name:    "vessel",
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With("model", e.name)
	return e
}

func (e *Engine) concurrentPrimitives() bool {
	if !e.parallel {
		return false
	}
	ck, ok := e.kernel.(ports.ConcurrentKernel)
	return ok && ck.ConcurrentPrimitives()
}

// Build runs validate, assemble, composite and round in order.
// Fatal errors abort the build; recoverable ones end up in the model warnings.
func (e *Engine) Build(ctx context.Context, tree domain.TreeSpec, rounding domain.RoundingSpec) (*domain.VesselModel, error) {
	started := time.Now()
	model := &domain.VesselModel{Name: e.name}

	err := e.stage(ctx, domain.StageValidate, func(ctx context.Context) error {
		return Validate(tree, rounding)
	})
	if err != nil {
		return nil, err
	}

	var assembly *domain.Assembly
	err = e.stage(ctx, domain.StageAssemble, func(ctx context.Context) error {
		a, warnings, err := e.Assemble(ctx, tree)
		if err != nil {
			return err
		}
		assembly = a
		e.warn(ctx, model, warnings...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	var hollow domain.Solid
	err = e.stage(ctx, domain.StageComposite, func(ctx context.Context) error {
		s, err := e.Composite(ctx, assembly)
		hollow = s
		return err
	})
	if err != nil {
		return nil, err
	}

	var filleted int
	err = e.stage(ctx, domain.StageRound, func(ctx context.Context) error {
		s, warnings, n, err := e.Round(ctx, hollow, rounding)
		if err != nil {
			return err
		}
		hollow, filleted = s, n
		e.warn(ctx, model, warnings...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	model.Solid = hollow
	model.Stats = stats(assembly, filleted, time.Since(started))
	e.logger.Info("model built", "branches", model.Stats.Branches, "warnings", len(model.Warnings),
		"duration", model.Stats.Duration)
	return model, nil
}

func stats(a *domain.Assembly, filleted int, d time.Duration) domain.Stats {
	s := domain.Stats{FilletedEdges: filleted, Adapter: a.Adapter != nil, Duration: d}
	a.Root.Walk(func(n *domain.BranchNode) {
		s.Branches++
		s.OuterSolids++
		if n.Lumen != nil {
			s.LumenSolids++
		}
		if n.SolidFallback {
			s.SolidFallbacks++
		}
	})
	if a.Adapter != nil {
		s.OuterSolids++
		s.LumenSolids++
	}
	return s
}

// Validate checks every dimension and placement of the tree without touching a kernel.
func Validate(tree domain.TreeSpec, rounding domain.RoundingSpec) error {
	main := domain.PlacedBranch{Spec: tree.Main, Frame: domain.WorldFrame}
	if err := checkDimensions(tree.Main); err != nil {
		return err
	}
	for _, p := range tree.Primaries {
		placed, err := Place(main, p.Branch)
		if err != nil {
			return err
		}
		if err := checkDimensions(p.Branch); err != nil {
			return err
		}
		if p.Secondaries == nil {
			continue
		}
		for _, s := range p.Secondaries {
			if _, err := Place(placed, s); err != nil {
				return err
			}
			if err := checkDimensions(s); err != nil {
				return err
			}
		}
	}
	if tree.Adapter != nil {
		if err := checkAdapter(tree.Main, *tree.Adapter); err != nil {
			return err
		}
	}
	for _, step := range roundingSteps(rounding) {
		if step.radius < 0 || math.IsNaN(step.radius) || math.IsInf(step.radius, 0) {
			return fmt.Errorf("rounding %s must be a non-negative finite radius, got %g", step.name, step.radius)
		}
	}
	return nil
}

// stage runs fn between start and finish events and checks ctx first.
func (e *Engine) stage(ctx context.Context, s domain.Stage, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.logger.Debug("stage started", "stage", s)
	if e.hooks.OnStageStart != nil {
		e.hooks.OnStageStart(ctx, &domain.StageEvent{EventBase: e.base(domain.EventStageStart), Stage: s})
	}
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if err != nil {
		e.logger.Error("stage failed", "stage", s, "error", err)
	} else {
		e.logger.Debug("stage finished", "stage", s, "duration", elapsed)
	}
	if e.hooks.OnStageFinish != nil {
		e.hooks.OnStageFinish(ctx, &domain.StageEvent{
			EventBase: e.base(domain.EventStageFinish),
			Stage:     s,
			Duration:  elapsed,
			Err:       err,
		})
	}
	return err
}

func (e *Engine) warn(ctx context.Context, m *domain.VesselModel, warnings ...error) {
	for _, w := range warnings {
		m.Warnings = append(m.Warnings, w)
		e.logger.Warn("build warning", "error", w)
		if e.hooks.OnWarning != nil {
			e.hooks.OnWarning(ctx, &domain.WarningEvent{EventBase: e.base(domain.EventWarning), Err: w})
		}
	}
}

func (e *Engine) emitBoolean(ctx context.Context, op string, operands int, d time.Duration, err error) {
	if e.hooks.OnBooleanOp == nil {
		return
	}
	e.hooks.OnBooleanOp(ctx, &domain.BooleanEvent{
		EventBase: e.base(domain.EventBooleanOp),
		Op:        op,
		Operands:  operands,
		Duration:  d,
		Err:       err,
	})
}

func (e *Engine) base(t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: time.Now(), Type: t, Model: e.name}
}
