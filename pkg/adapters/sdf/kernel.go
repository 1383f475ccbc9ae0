package sdf

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"runtime"

	"github.com/aretw0/vessel/pkg/domain"
	"github.com/aretw0/vessel/pkg/ports"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrUnsupportedOperand is returned for solids this kernel cannot combine,
	// including solids created by a different kernel.
	ErrUnsupportedOperand = errors.New("sdf: unsupported operand")
	// ErrCoincident is returned when a union receives two geometrically identical primitives.
	ErrCoincident = errors.New("sdf: coincident primitives")
	// ErrEmptyUnion is returned when Union is called without operands.
	ErrEmptyUnion = errors.New("sdf: union of nothing")
	// ErrInvalidCylinder is returned for non-positive or non-finite cylinder parameters.
	ErrInvalidCylinder = errors.New("sdf: invalid cylinder")
	// ErrInvalidRadius is returned when a fillet radius is not positive.
	ErrInvalidRadius = errors.New("sdf: fillet radius must be positive")
)

// Kernel is the signed-distance implementation of ports.Kernel and ports.Tessellator.
type Kernel struct {
	workers      int
	maxPerAxis   int
	surfaceSteps int
	logger       *slog.Logger
}

var (
	_ ports.ConcurrentKernel = (*Kernel)(nil)
	_ ports.Tessellator      = (*Kernel)(nil)
)

// Option configures a Kernel.
type Option func(*Kernel)

// WithWorkers bounds the goroutines used while sampling the field.
func WithWorkers(n int) Option {
	return func(k *Kernel) {
		if n > 0 {
			k.workers = n
		}
	}
}

// WithMaxCellsPerAxis caps the grid size; coarser cells are used when exceeded.
func WithMaxCellsPerAxis(n int) Option {
	return func(k *Kernel) {
		if n > 1 {
			k.maxPerAxis = n
		}
	}
}

// WithLogger sets the logger used for resolution adjustments.
func WithLogger(l *slog.Logger) Option {
	return func(k *Kernel) {
		if l != nil {
			k.logger = l
		}
	}
}

// New creates a kernel.
func New(opts ...Option) *Kernel {
	k := &Kernel{
		workers:      runtime.GOMAXPROCS(0),
		maxPerAxis:   1024,
		surfaceSteps: 24,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// ConcurrentPrimitives reports that Cylinder may be called from several goroutines.
func (k *Kernel) ConcurrentPrimitives() bool { return true }

// Cylinder builds a cylinder primitive. The frame axis is normalised.
func (k *Kernel) Cylinder(p ports.CylinderParams) (domain.Solid, error) {
	if !(p.Radius > 0) || !(p.End > p.Start) || math.IsInf(p.Length(), 0) || !p.Frame.IsFinite() {
		return nil, fmt.Errorf("%w: %s radius=%g span=[%g,%g]", ErrInvalidCylinder, p.Body, p.Radius, p.Start, p.End)
	}
	n := r3.Norm(p.Frame.Axis)
	if n == 0 {
		return nil, fmt.Errorf("%w: %s has a zero axis", ErrInvalidCylinder, p.Body)
	}
	p.Frame.Axis = r3.Scale(1/n, p.Frame.Axis)
	p.Frame.Ref = perpendicular(p.Frame.Axis, p.Frame.Ref)
	return newCylinder(p), nil
}

// Union fuses the operands. Existing blends of union operands are preserved.
func (k *Kernel) Union(solids ...domain.Solid) (domain.Solid, error) {
	if len(solids) == 0 {
		return nil, ErrEmptyUnion
	}
	var (
		members []*cylinder
		carried []struct {
			offset int
			u      *union
		}
	)
	for _, s := range solids {
		switch v := s.(type) {
		case *cylinder:
			members = append(members, v)
		case *union:
			carried = append(carried, struct {
				offset int
				u      *union
			}{len(members), v})
			members = append(members, v.members...)
		default:
			return nil, fmt.Errorf("%w: cannot union %T", ErrUnsupportedOperand, s)
		}
	}
	for i := range members {
		for j := i + 1; j < len(members); j++ {
			if members[i].sameGeometry(members[j]) {
				return nil, fmt.Errorf("%w: %s and %s", ErrCoincident, members[i].params.Body, members[j].params.Body)
			}
		}
	}
	out := newUnion(members, nil)
	for _, c := range carried {
		n := len(c.u.members)
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if b := c.u.pairBlend(i, j); b > 0 {
					out.setBlend(c.offset+i, c.offset+j, b)
				}
			}
		}
	}
	out = newUnion(out.members, out.blend)
	return out, nil
}

// Subtract removes tool from base. Subtracting from a difference extends its void.
func (k *Kernel) Subtract(base, tool domain.Solid) (domain.Solid, error) {
	var toolUnion *union
	switch v := tool.(type) {
	case *cylinder:
		toolUnion = newUnion([]*cylinder{v}, nil)
	case *union:
		toolUnion = v
	default:
		return nil, fmt.Errorf("%w: cannot subtract %T", ErrUnsupportedOperand, tool)
	}

	switch v := base.(type) {
	case *cylinder:
		return &difference{outer: newUnion([]*cylinder{v}, nil), inner: toolUnion}, nil
	case *union:
		return &difference{outer: v, inner: toolUnion}, nil
	case *difference:
		if v.inner == nil {
			return &difference{outer: v.outer, inner: toolUnion}, nil
		}
		merged, err := k.Union(v.inner, toolUnion)
		if err != nil {
			return nil, err
		}
		return &difference{outer: v.outer, inner: merged.(*union)}, nil
	default:
		return nil, fmt.Errorf("%w: cannot subtract from %T", ErrUnsupportedOperand, base)
	}
}

// Evaluate returns the signed distance of p to s (negative inside).
// It is exposed for probing and tests.
func Evaluate(s domain.Solid, p r3.Vec) (float64, error) {
	f, ok := s.(field)
	if !ok {
		return 0, fmt.Errorf("%w: %T", ErrUnsupportedOperand, s)
	}
	return f.eval(p, make([]float64, f.scratchSize())), nil
}

// perpendicular projects ref onto the plane normal to axis, picking any
// perpendicular unit vector when ref is parallel to axis.
func perpendicular(axis, ref r3.Vec) r3.Vec {
	v := r3.Sub(ref, r3.Scale(r3.Dot(ref, axis), axis))
	if r3.Norm(v) > 1e-9 {
		return r3.Unit(v)
	}
	for _, c := range []r3.Vec{{X: 1}, {Y: 1}, {Z: 1}} {
		v = r3.Sub(c, r3.Scale(r3.Dot(c, axis), axis))
		if r3.Norm(v) > 1e-3 {
			return r3.Unit(v)
		}
	}
	return v
}
