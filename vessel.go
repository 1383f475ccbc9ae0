package vessel

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/vessel/internal/logging"
	"github.com/aretw0/vessel/internal/runtime"
	"github.com/aretw0/vessel/pkg/adapters/sdf"
	"github.com/aretw0/vessel/pkg/adapters/stl"
	"github.com/aretw0/vessel/pkg/config"
	"github.com/aretw0/vessel/pkg/domain"
	"github.com/aretw0/vessel/pkg/ports"
	"golang.org/x/sync/singleflight"
)

// Engine is the high-level entry point for the vessel library.
// It wraps the internal construction pipeline and the export adapters.
type Engine struct {
	kernel      ports.Kernel
	tessellator ports.Tessellator
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	parallel    bool
	resolution  float64
	group       singleflight.Group
	Name        string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithKernel replaces the built-in signed-distance kernel.
// If k also implements ports.Tessellator it is used for export too.
func WithKernel(k ports.Kernel) Option {
	return func(e *Engine) {
		e.kernel = k
		if t, ok := k.(ports.Tessellator); ok {
			e.tessellator = t
		}
	}
}

// WithTessellator sets the mesher used by Export.
func WithTessellator(t ports.Tessellator) Option {
	return func(e *Engine) {
		e.tessellator = t
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithParallelPrimitives builds sibling branches concurrently when the kernel allows it.
func WithParallelPrimitives(enabled bool) Option {
	return func(e *Engine) {
		e.parallel = enabled
	}
}

// WithMeshResolution overrides mesh.resolution from the configuration.
func WithMeshResolution(r float64) Option {
	return func(e *Engine) {
		e.resolution = r
	}
}

// WithName sets the model name used in logs, events and STL headers.
func WithName(name string) Option {
	return func(e *Engine) {
		e.Name = name
	}
}

// New initializes a new vessel Engine.
// By default it uses the signed-distance kernel for both solids and meshes.
func New(opts ...Option) *Engine {
	eng := &Engine{Name: "vascular_tree", parallel: true}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.kernel == nil {
		k := sdf.New(sdf.WithLogger(eng.logger))
		eng.kernel = k
		if eng.tessellator == nil {
			eng.tessellator = k
		}
	}
	return eng
}

func (e *Engine) pipeline() *runtime.Engine {
	return runtime.NewEngine(e.kernel,
		runtime.WithLogger(e.logger),
		runtime.WithLifecycleHooks(e.hooks),
		runtime.WithParallelPrimitives(e.parallel),
		runtime.WithModelName(e.Name),
	)
}

// Validate checks cfg without building any geometry. It returns the
// configuration warnings, or the first fatal error.
func (e *Engine) Validate(cfg *config.Config) ([]error, error) {
	tree, warnings, err := cfg.Tree()
	if err != nil {
		return nil, err
	}
	if err := runtime.Validate(tree, cfg.RoundingSpec()); err != nil {
		return nil, err
	}
	return warnings, nil
}

// Build turns cfg into a single hollow solid.
// Shape errors in the configuration are reported before any kernel call.
func (e *Engine) Build(ctx context.Context, cfg *config.Config) (*domain.VesselModel, error) {
	tree, warnings, err := cfg.Tree()
	if err != nil {
		return nil, err
	}
	model, err := e.pipeline().Build(ctx, tree, cfg.RoundingSpec())
	if err != nil {
		return nil, err
	}
	model.Warnings = append(warnings, model.Warnings...)
	return model, nil
}

// Exporter returns the STL exporter configured by cfg.
func (e *Engine) Exporter(cfg *config.Config) (ports.Exporter, error) {
	if e.tessellator == nil {
		return nil, fmt.Errorf("kernel %T cannot tessellate; use WithTessellator", e.kernel)
	}
	resolution := cfg.Mesh.Resolution
	if e.resolution > 0 {
		resolution = e.resolution
	}
	return stl.New(e.tessellator,
		stl.WithResolution(resolution),
		stl.WithASCII(cfg.Mesh.Format == config.FormatASCII),
	), nil
}

// Export writes model to w as STL and returns the triangle count.
func (e *Engine) Export(ctx context.Context, model *domain.VesselModel, cfg *config.Config, w io.Writer) (int, error) {
	exp, err := e.Exporter(cfg)
	if err != nil {
		return 0, err
	}
	var n int
	err = e.exportStage(ctx, func() error {
		n, err = exp.Export(ctx, model, w)
		return err
	})
	return n, err
}

// WriteFile exports model to the configured output path and returns that path.
func (e *Engine) WriteFile(ctx context.Context, model *domain.VesselModel, cfg *config.Config) (string, int, error) {
	exp, err := e.Exporter(cfg)
	if err != nil {
		return "", 0, err
	}
	path := cfg.OutputPath()
	var n int
	err = e.exportStage(ctx, func() error {
		n, err = stl.WriteFile(ctx, exp, model, path)
		return err
	})
	if err != nil {
		return "", 0, err
	}
	e.logger.Info("model exported", "path", path, "triangles", n)
	return path, n, nil
}

func (e *Engine) exportStage(ctx context.Context, fn func() error) error {
	base := func(t domain.EventType) domain.EventBase {
		return domain.EventBase{Timestamp: time.Now(), Type: t, Model: e.Name}
	}
	if e.hooks.OnStageStart != nil {
		e.hooks.OnStageStart(ctx, &domain.StageEvent{EventBase: base(domain.EventStageStart), Stage: domain.StageExport})
	}
	start := time.Now()
	err := fn()
	if e.hooks.OnStageFinish != nil {
		e.hooks.OnStageFinish(ctx, &domain.StageEvent{
			EventBase: base(domain.EventStageFinish),
			Stage:     domain.StageExport,
			Duration:  time.Since(start),
			Err:       err,
		})
	}
	return err
}
