package ports

import (
	"context"

	"github.com/aretw0/vessel/pkg/domain"
)

// CylinderParams describes a finite right circular cylinder in a frame.
// The body spans [Start, End] along the frame axis.
type CylinderParams struct {
	Frame  domain.Frame
	Radius float64
	Start  float64
	End    float64
	Body   domain.BodyRef
}

// Length returns the axial extent of the cylinder.
func (c CylinderParams) Length() float64 { return c.End - c.Start }

// EdgePredicate selects the edges a fillet is applied to.
type EdgePredicate func(domain.Edge) bool

// FilletFailure reports an edge the kernel refused to round.
type FilletFailure struct {
	Edge  domain.Edge
	Limit float64
}

// Kernel is the boolean/fillet capability the construction pipeline calls into.
// Implementations never mutate their inputs.
type Kernel interface {
	// Cylinder builds a solid cylinder primitive.
	Cylinder(p CylinderParams) (domain.Solid, error)

	// Union fuses all operands into one solid.
	Union(solids ...domain.Solid) (domain.Solid, error)

	// Subtract removes tool from base.
	Subtract(base, tool domain.Solid) (domain.Solid, error)

	// Edges lists the feature edges of a solid.
	Edges(s domain.Solid) ([]domain.Edge, error)

	// FilletEdgesMatching rounds every edge accepted by match with the given radius.
	// Edges whose supportable span is smaller than radius are left sharp and reported
	// as failures; the returned solid is still valid.
	FilletEdgesMatching(s domain.Solid, radius float64, match EdgePredicate) (domain.Solid, []FilletFailure, error)
}

// ConcurrentKernel is implemented by kernels whose primitive construction is
// safe to call from several goroutines.
type ConcurrentKernel interface {
	Kernel
	ConcurrentPrimitives() bool
}

// Tessellator turns a solid into a triangle mesh.
// Resolution is the target edge length in model units.
type Tessellator interface {
	Tessellate(ctx context.Context, s domain.Solid, resolution float64) (*domain.Mesh, error)
}
