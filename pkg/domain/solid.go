package domain

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Solid is an opaque, watertight body owned by a geometric kernel.
// Implementations must be immutable: every kernel operation returns a new Solid.
type Solid interface {
	// Bounds returns an axis-aligned box enclosing the solid.
	Bounds() r3.Box
	// Contains classifies a point as inside (true) or outside the material.
	Contains(p r3.Vec) bool
}

// BodyKind distinguishes vessel branches from the adapter.
type BodyKind string

const (
	BodyBranch  BodyKind = "branch"
	BodyAdapter BodyKind = "adapter"
)

// Role says whether a primitive is material (outer wall) or void (lumen).
type Role string

const (
	RoleOuter Role = "outer"
	RoleLumen Role = "lumen"
)

// BodyRef tags a kernel primitive with the logical body it belongs to.
// An outer cylinder and its lumen share Name and Kind and differ by Role.
type BodyRef struct {
	Name  string   `json:"name"`
	Kind  BodyKind `json:"kind"`
	Role  Role     `json:"role"`
	Level Level    `json:"level"`
}

func (b BodyRef) String() string {
	return fmt.Sprintf("%s/%s", b.Name, b.Role)
}

// EdgeKind classifies an edge of a composited solid.
type EdgeKind string

const (
	// EdgeSeam is the intersection curve of two distinct fused bodies.
	EdgeSeam EdgeKind = "seam"
	// EdgeRim is the circular edge of an open terminal end face.
	EdgeRim EdgeKind = "rim"
)

// Surface says which side of the hollow wall an edge lies on.
type Surface string

const (
	SurfaceExternal Surface = "external"
	SurfaceInternal Surface = "internal"
)

// Edge is a kernel-reported feature edge, the unit that fillets are applied to.
// Span is the largest radius the adjacent faces can support; Radius is the
// fillet currently applied (zero when sharp).
type Edge struct {
	ID      string    `json:"id"`
	Kind    EdgeKind  `json:"kind"`
	Surface Surface   `json:"surface"`
	Bodies  []BodyRef `json:"bodies"`
	Span    float64   `json:"span"`
	Radius  float64   `json:"radius"`
}

// Distinct reports whether the edge joins two different logical bodies.
func (e Edge) Distinct() bool {
	return len(e.Bodies) >= 2 && e.Bodies[0].Name != e.Bodies[1].Name
}

// Involves reports whether any body on the edge has the given kind.
func (e Edge) Involves(kind BodyKind) bool {
	for _, b := range e.Bodies {
		if b.Kind == kind {
			return true
		}
	}
	return false
}
