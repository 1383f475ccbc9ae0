package runtime

import (
	"context"
	"fmt"
	"math"

	"github.com/aretw0/vessel/pkg/domain"
	"github.com/aretw0/vessel/pkg/ports"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"
)

// Assemble builds the branch tree and the optional adapter.
// Warnings are the non-fatal solid fallbacks, in tree order.
func (e *Engine) Assemble(ctx context.Context, tree domain.TreeSpec) (*domain.Assembly, []error, error) {
	mainPlaced := domain.PlacedBranch{Spec: tree.Main, Frame: domain.WorldFrame}
	root, warn, err := e.node(mainPlaced, mainLumen(tree), domain.BodyBranch)
	if err != nil {
		return nil, nil, err
	}
	warnings := appendWarning(nil, warn)

	subtrees := make([]*domain.BranchNode, len(tree.Primaries))
	subWarnings := make([][]error, len(tree.Primaries))
	build := func(ctx context.Context, i int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, w, err := e.primary(mainPlaced, tree.Primaries[i])
		subtrees[i], subWarnings[i] = n, w
		return err
	}

	if e.concurrentPrimitives() && len(tree.Primaries) > 1 {
		eg, gctx := errgroup.WithContext(ctx)
		eg.SetLimit(e.workers)
		for i := range tree.Primaries {
			eg.Go(func() error { return build(gctx, i) })
		}
		if err := eg.Wait(); err != nil {
			return nil, nil, err
		}
	} else {
		for i := range tree.Primaries {
			if err := build(ctx, i); err != nil {
				return nil, nil, err
			}
		}
	}
	root.Children = subtrees
	for _, w := range subWarnings {
		warnings = append(warnings, w...)
	}

	assembly := &domain.Assembly{Root: root}
	if tree.Adapter != nil {
		adapter, err := e.adapter(tree.Main, *tree.Adapter)
		if err != nil {
			return nil, nil, err
		}
		assembly.Adapter = adapter
	}
	return assembly, warnings, nil
}

// mainLumen overshoots both ends, except the end that carries the adapter,
// where the adapter lumen takes over.
func mainLumen(tree domain.TreeSpec) lumenSpan {
	span := lumenSpan{start: -domain.LumenOvershoot, end: tree.Main.Length + domain.LumenOvershoot}
	if tree.Adapter != nil {
		switch tree.Adapter.End {
		case domain.AdapterAtEnd:
			span.end = tree.Main.Length
		default:
			span.start = 0
		}
	}
	return span
}

func (e *Engine) primary(parent domain.PlacedBranch, spec domain.PrimarySpec) (*domain.BranchNode, []error, error) {
	placed, err := Place(parent, spec.Branch)
	if err != nil {
		return nil, nil, err
	}
	n, warn, err := e.node(placed, defaultLumen(placed), domain.BodyBranch)
	if err != nil {
		return nil, nil, err
	}
	warnings := appendWarning(nil, warn)
	if spec.Secondaries == nil {
		return n, warnings, nil
	}
	for _, s := range spec.Secondaries {
		sp, err := Place(placed, s)
		if err != nil {
			return nil, nil, err
		}
		child, warn, err := e.node(sp, defaultLumen(sp), domain.BodyBranch)
		if err != nil {
			return nil, nil, err
		}
		warnings = appendWarning(warnings, warn)
		n.Children = append(n.Children, child)
	}
	return n, warnings, nil
}

// node builds one branch. The second result is the solid fallback warning, if any.
func (e *Engine) node(p domain.PlacedBranch, span lumenSpan, kind domain.BodyKind) (*domain.BranchNode, *domain.DegenerateGeometryError, error) {
	prims, err := buildPrimitives(e.kernel, p, span, kind)
	if err != nil {
		return nil, nil, err
	}
	n := &domain.BranchNode{
		Branch: p,
		Body:   domain.BodyRef{Name: p.Spec.Name, Kind: kind, Level: p.Spec.Level},
		Outer:  prims.outer,
		Lumen:  prims.lumen,
	}
	if prims.fallback != nil {
		n.SolidFallback = true
		e.logger.Warn("branch built solid", "branch", p.Spec.Name, "diameter", p.Spec.Diameter, "wall", p.Spec.WallThickness)
		return n, prims.fallback, nil
	}
	return n, nil, nil
}

// adapter builds the connector tube on the configured end of the main branch,
// pointing away from it. Its lumen reaches back into the main lumen.
func (e *Engine) adapter(main domain.BranchSpec, spec domain.AdapterSpec) (*domain.AdapterGeometry, error) {
	if err := checkAdapter(main, spec); err != nil {
		return nil, err
	}
	frame := domain.WorldFrame
	if spec.End == domain.AdapterAtEnd {
		frame.Origin = frame.At(main.Length)
	} else {
		frame.Axis = r3.Scale(-1, frame.Axis)
	}

	body := domain.BodyRef{Name: domain.AdapterName, Kind: domain.BodyAdapter}
	outerRef, lumenRef := body, body
	outerRef.Role, lumenRef.Role = domain.RoleOuter, domain.RoleLumen

	wall := main.WallThickness
	outer, err := e.kernel.Cylinder(ports.CylinderParams{
		Frame: frame, Radius: spec.ExternalDiameter / 2,
		Start: -wall, End: spec.Length,
		Body: outerRef,
	})
	if err != nil {
		return nil, fmt.Errorf("adapter outer body: %w", err)
	}
	lumen, err := e.kernel.Cylinder(ports.CylinderParams{
		Frame: frame, Radius: spec.InternalDiameter / 2,
		Start: -wall - domain.LumenOvershoot, End: spec.Length + domain.LumenOvershoot,
		Body: lumenRef,
	})
	if err != nil {
		return nil, fmt.Errorf("adapter lumen: %w", err)
	}
	return &domain.AdapterGeometry{Spec: spec, Frame: frame, Body: body, Outer: outer, Lumen: lumen}, nil
}

func checkAdapter(main domain.BranchSpec, spec domain.AdapterSpec) error {
	fail := func(format string, args ...any) error {
		return &domain.DegenerateGeometryError{Body: domain.AdapterName, Reason: fmt.Sprintf(format, args...), Fatal: true}
	}
	for _, v := range []float64{spec.InternalDiameter, spec.ExternalDiameter, spec.Length} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fail("non-finite dimension")
		}
	}
	switch {
	case spec.InternalDiameter <= 0:
		return fail("internal diameter must be positive, got %g", spec.InternalDiameter)
	case spec.InternalDiameter >= spec.ExternalDiameter:
		return fail("internal diameter %g must be smaller than external diameter %g", spec.InternalDiameter, spec.ExternalDiameter)
	case spec.InternalDiameter >= main.Diameter:
		return fail("internal diameter %g must be smaller than the main branch diameter %g", spec.InternalDiameter, main.Diameter)
	case spec.Length <= 0:
		return fail("length must be positive, got %g", spec.Length)
	case spec.End != domain.AdapterAtStart && spec.End != domain.AdapterAtEnd:
		return fail("unknown end %q", spec.End)
	}
	return nil
}

func appendWarning(ws []error, w *domain.DegenerateGeometryError) []error {
	if w == nil {
		return ws
	}
	return append(ws, w)
}
