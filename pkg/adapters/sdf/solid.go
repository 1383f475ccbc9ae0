package sdf

import (
	"math"

	"github.com/aretw0/vessel/pkg/ports"
	"gonum.org/v1/gonum/spatial/r3"
)

// field is the internal evaluation contract shared by every solid in this package.
// scratch must hold at least scratchSize() values and is owned by the caller.
type field interface {
	eval(p r3.Vec, scratch []float64) float64
	scratchSize() int
}

// cylinder is a finite right circular cylinder with optional rounded cap edges.
type cylinder struct {
	params ports.CylinderParams
	round  [2]float64 // fillet radius of the start and end cap edges
	bounds r3.Box
}

func newCylinder(p ports.CylinderParams) *cylinder {
	c := &cylinder{params: p}
	c.bounds = cylinderBounds(p)
	return c
}

func (c *cylinder) Bounds() r3.Box { return c.bounds }

func (c *cylinder) Contains(p r3.Vec) bool { return c.dist(p) < 0 }

func (c *cylinder) eval(p r3.Vec, _ []float64) float64 { return c.dist(p) }

func (c *cylinder) scratchSize() int { return 0 }

// dist is the exact distance to a capped cylinder, with a rounded-box
// profile in the (radial, axial) half plane when a cap edge is filleted.
func (c *cylinder) dist(p r3.Vec) float64 {
	axial, radial := c.params.Frame.Local(p)
	mid := (c.params.Start + c.params.End) / 2
	half := (c.params.End - c.params.Start) / 2

	rc := c.round[0]
	if axial > mid {
		rc = c.round[1]
	}
	qx := radial - c.params.Radius + rc
	qy := math.Abs(axial-mid) - half + rc
	outside := math.Hypot(math.Max(qx, 0), math.Max(qy, 0))
	inside := math.Min(math.Max(qx, qy), 0)
	return outside + inside - rc
}

// cap returns the frame-space centre of cap 0 (start) or 1 (end).
func (c *cylinder) cap(i int) r3.Vec {
	if i == 0 {
		return c.params.Frame.At(c.params.Start)
	}
	return c.params.Frame.At(c.params.End)
}

func (c *cylinder) clone() *cylinder {
	cp := *c
	return &cp
}

func (c *cylinder) sameGeometry(o *cylinder) bool {
	const tol = 1e-9
	a, b := c.params, o.params
	return near(a.Frame.Origin, b.Frame.Origin, tol) &&
		near(a.Frame.Axis, b.Frame.Axis, tol) &&
		math.Abs(a.Radius-b.Radius) < tol &&
		math.Abs(a.Start-b.Start) < tol &&
		math.Abs(a.End-b.End) < tol
}

// union is the smooth-blended union of cylinder members.
// blend is a dense n×n symmetric matrix of pairwise fillet radii.
type union struct {
	members []*cylinder
	blend   []float64
	bounds  r3.Box
}

func newUnion(members []*cylinder, blend []float64) *union {
	n := len(members)
	if blend == nil {
		blend = make([]float64, n*n)
	}
	u := &union{members: members, blend: blend}
	var maxBlend float64
	for _, k := range blend {
		maxBlend = math.Max(maxBlend, k)
	}
	for i, m := range members {
		if i == 0 {
			u.bounds = m.bounds
			continue
		}
		u.bounds = u.bounds.Union(m.bounds)
	}
	u.bounds = grow(u.bounds, maxBlend)
	return u
}

func (u *union) Bounds() r3.Box { return u.bounds }

func (u *union) Contains(p r3.Vec) bool {
	return u.eval(p, make([]float64, u.scratchSize())) < 0
}

func (u *union) scratchSize() int { return len(u.members) }

func (u *union) pairBlend(i, j int) float64 { return u.blend[i*len(u.members)+j] }

func (u *union) setBlend(i, j int, k float64) {
	n := len(u.members)
	u.blend[i*n+j] = k
	u.blend[j*n+i] = k
}

func (u *union) eval(p r3.Vec, scratch []float64) float64 {
	best, bi := math.Inf(1), -1
	for i, m := range u.members {
		d := m.dist(p)
		scratch[i] = d
		if d < best {
			best, bi = d, i
		}
	}
	res := best
	n := len(u.members)
	row := u.blend[bi*n : (bi+1)*n]
	for j, k := range row {
		if k > 0 && j != bi {
			res = smoothMin(res, scratch[j], k)
		}
	}
	return res
}

func (u *union) clone() *union {
	members := make([]*cylinder, len(u.members))
	for i, m := range u.members {
		members[i] = m.clone()
	}
	blend := make([]float64, len(u.blend))
	copy(blend, u.blend)
	return newUnion(members, blend)
}

// difference is outer minus inner. inner may be nil when nothing was subtracted.
type difference struct {
	outer *union
	inner *union
}

func (d *difference) Bounds() r3.Box { return d.outer.bounds }

func (d *difference) Contains(p r3.Vec) bool {
	return d.eval(p, make([]float64, d.scratchSize())) < 0
}

func (d *difference) scratchSize() int {
	n := len(d.outer.members)
	if d.inner != nil && len(d.inner.members) > n {
		n = len(d.inner.members)
	}
	return n
}

func (d *difference) eval(p r3.Vec, scratch []float64) float64 {
	a := d.outer.eval(p, scratch)
	if d.inner == nil {
		return a
	}
	return math.Max(a, -d.inner.eval(p, scratch))
}

// smoothMin is the quadratic polynomial smooth minimum; k is the blend width.
func smoothMin(a, b, k float64) float64 {
	h := math.Max(k-math.Abs(a-b), 0) / k
	return math.Min(a, b) - h*h*k*0.25
}

func cylinderBounds(p ports.CylinderParams) r3.Box {
	a := p.Frame.At(p.Start)
	b := p.Frame.At(p.End)
	ax := p.Frame.Axis
	ext := r3.Vec{
		X: p.Radius * math.Sqrt(math.Max(0, 1-ax.X*ax.X)),
		Y: p.Radius * math.Sqrt(math.Max(0, 1-ax.Y*ax.Y)),
		Z: p.Radius * math.Sqrt(math.Max(0, 1-ax.Z*ax.Z)),
	}
	lo := r3.Vec{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y), Z: math.Min(a.Z, b.Z)}
	hi := r3.Vec{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y), Z: math.Max(a.Z, b.Z)}
	return r3.Box{Min: r3.Sub(lo, ext), Max: r3.Add(hi, ext)}
}

func grow(b r3.Box, by float64) r3.Box {
	d := r3.Vec{X: by, Y: by, Z: by}
	return r3.Box{Min: r3.Sub(b.Min, d), Max: r3.Add(b.Max, d)}
}

func overlaps(a, b r3.Box) bool {
	return a.Min.X <= b.Max.X && b.Min.X <= a.Max.X &&
		a.Min.Y <= b.Max.Y && b.Min.Y <= a.Max.Y &&
		a.Min.Z <= b.Max.Z && b.Min.Z <= a.Max.Z
}

func near(a, b r3.Vec, tol float64) bool {
	return r3.Norm(r3.Sub(a, b)) < tol
}
