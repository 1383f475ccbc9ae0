package runtime

import (
	"fmt"
	"math"

	"github.com/aretw0/vessel/pkg/domain"
	"gonum.org/v1/gonum/spatial/r3"
)

// Place resolves a child branch onto its parent.
//
// The attachment point lies on the parent axis at RelativePosition of the
// parent length. The child base sits on the parent's outer surface in the
// radial direction given by Angle, and the child axis leans away from the
// parent axis by the divergence angle. Embed is the distance back along the
// child axis to the parent axis, so the child body fuses through the wall.
func Place(parent domain.PlacedBranch, spec domain.BranchSpec) (domain.PlacedBranch, error) {
	if err := checkPlacement(parent, spec); err != nil {
		return domain.PlacedBranch{}, err
	}

	pf := parent.Frame
	onAxis := pf.At(spec.RelativePosition * parent.Spec.Length)
	radial := pf.Radial(spec.Angle)
	base := r3.Add(onAxis, r3.Scale(parent.Spec.Radius(), radial))

	phi := divergence(spec) * math.Pi / 180
	sin, cos := math.Sincos(phi)
	frame := domain.Frame{
		Origin: base,
		Axis:   r3.Add(r3.Scale(cos, pf.Axis), r3.Scale(sin, radial)),
		Ref:    r3.Add(r3.Scale(-sin, pf.Axis), r3.Scale(cos, radial)),
	}
	if !frame.IsFinite() {
		return domain.PlacedBranch{}, &domain.DegenerateGeometryError{
			Body: spec.Name, Reason: "placement produced a non-finite frame", Fatal: true,
		}
	}
	return domain.PlacedBranch{
		Spec:  spec,
		Frame: frame,
		Embed: parent.Spec.Radius() / sin,
	}, nil
}

func divergence(spec domain.BranchSpec) float64 {
	if spec.Divergence == 0 {
		return domain.DefaultDivergence
	}
	return spec.Divergence
}

func checkPlacement(parent domain.PlacedBranch, spec domain.BranchSpec) error {
	fail := func(format string, args ...any) error {
		return &domain.DegenerateGeometryError{Body: spec.Name, Reason: fmt.Sprintf(format, args...), Fatal: true}
	}
	for _, v := range []float64{spec.RelativePosition, spec.Angle, spec.Divergence, spec.Diameter, spec.Length} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fail("non-finite placement parameter")
		}
	}
	if !parent.Frame.IsFinite() {
		return fail("parent %s has a non-finite frame", parent.Spec.Name)
	}
	if spec.RelativePosition < 0 || spec.RelativePosition > 1 {
		return fail("relative position %g outside [0, 1]", spec.RelativePosition)
	}
	if phi := divergence(spec); phi <= 0 || phi > 90 {
		return fail("divergence angle %g outside (0, 90]", phi)
	}
	if spec.Diameter > parent.Spec.Diameter {
		return fail("diameter %g exceeds parent %s diameter %g", spec.Diameter, parent.Spec.Name, parent.Spec.Diameter)
	}
	return nil
}
