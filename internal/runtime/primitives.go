package runtime

import (
	"fmt"
	"math"

	"github.com/aretw0/vessel/pkg/domain"
	"github.com/aretw0/vessel/pkg/ports"
)

// lumenSpan is the axial extent of a lumen along its branch axis.
type lumenSpan struct {
	start, end float64
}

// primitives holds the kernel bodies of one branch.
// lumen is nil and fallback is set when the wall leaves no channel.
type primitives struct {
	outer    domain.Solid
	lumen    domain.Solid
	fallback *domain.DegenerateGeometryError
}

func checkDimensions(spec domain.BranchSpec) error {
	fail := func(reason string) error {
		return &domain.DegenerateGeometryError{Body: spec.Name, Reason: reason, Fatal: true}
	}
	switch {
	case !(spec.Diameter > 0) || math.IsInf(spec.Diameter, 0):
		return fail(fmt.Sprintf("diameter must be positive, got %g", spec.Diameter))
	case !(spec.Length > 0) || math.IsInf(spec.Length, 0):
		return fail(fmt.Sprintf("length must be positive, got %g", spec.Length))
	case spec.WallThickness < 0 || math.IsNaN(spec.WallThickness):
		return fail(fmt.Sprintf("wall thickness must not be negative, got %g", spec.WallThickness))
	}
	return nil
}

// defaultLumen spans from the embedded base to past the free end.
func defaultLumen(p domain.PlacedBranch) lumenSpan {
	return lumenSpan{start: -p.Embed, end: p.Spec.Length + domain.LumenOvershoot}
}

// buildPrimitives creates the outer cylinder over [-Embed, Length] and the
// lumen over span. It never mutates p.
func buildPrimitives(k ports.Kernel, p domain.PlacedBranch, span lumenSpan, kind domain.BodyKind) (primitives, error) {
	if err := checkDimensions(p.Spec); err != nil {
		return primitives{}, err
	}
	ref := domain.BodyRef{Name: p.Spec.Name, Kind: kind, Level: p.Spec.Level}

	outerRef := ref
	outerRef.Role = domain.RoleOuter
	outer, err := k.Cylinder(ports.CylinderParams{
		Frame:  p.Frame,
		Radius: p.Spec.Radius(),
		Start:  -p.Embed,
		End:    p.Spec.Length,
		Body:   outerRef,
	})
	if err != nil {
		return primitives{}, fmt.Errorf("outer body of %s: %w", p.Spec.Name, err)
	}

	d := p.Spec.LumenDiameter()
	if d <= 0 {
		return primitives{
			outer: outer,
			fallback: &domain.DegenerateGeometryError{
				Body:   p.Spec.Name,
				Reason: fmt.Sprintf("lumen diameter %g is not positive (diameter %g, wall %g); built solid", d, p.Spec.Diameter, p.Spec.WallThickness),
			},
		}, nil
	}

	lumenRef := ref
	lumenRef.Role = domain.RoleLumen
	lumen, err := k.Cylinder(ports.CylinderParams{
		Frame:  p.Frame,
		Radius: d / 2,
		Start:  span.start,
		End:    span.end,
		Body:   lumenRef,
	})
	if err != nil {
		return primitives{}, fmt.Errorf("lumen of %s: %w", p.Spec.Name, err)
	}
	return primitives{outer: outer, lumen: lumen}, nil
}
