package sdf

import (
	"context"
	"fmt"
	"math"

	"github.com/aretw0/vessel/pkg/domain"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"
)

// kuhn splits a grid cube into six tetrahedra sharing the 0-7 diagonal.
// Corner bit 0 is +x, bit 1 is +y, bit 2 is +z.
var kuhn = [6][4]int{
	{0, 1, 3, 7},
	{0, 1, 5, 7},
	{0, 2, 3, 7},
	{0, 2, 6, 7},
	{0, 4, 5, 7},
	{0, 4, 6, 7},
}

// grid is the sampling lattice for one tessellation.
type grid struct {
	origin     r3.Vec
	step       r3.Vec
	nx, ny, nz int
}

func (g grid) point(i, j, k int) r3.Vec {
	return r3.Vec{
		X: g.origin.X + float64(i)*g.step.X,
		Y: g.origin.Y + float64(j)*g.step.Y,
		Z: g.origin.Z + float64(k)*g.step.Z,
	}
}

func (g grid) id(i, j, k int) int64 {
	return int64(i) + int64(g.nx)*(int64(j)+int64(g.ny)*int64(k))
}

// Tessellate samples s on a regular lattice and extracts its zero level set
// with marching tetrahedra. The result is closed and consistently oriented.
func (k *Kernel) Tessellate(ctx context.Context, s domain.Solid, resolution float64) (*domain.Mesh, error) {
	f, ok := s.(field)
	if !ok {
		return nil, fmt.Errorf("%w: cannot tessellate %T", ErrUnsupportedOperand, s)
	}
	if !(resolution > 0) || math.IsInf(resolution, 0) {
		return nil, fmt.Errorf("sdf: resolution must be positive, got %g", resolution)
	}
	g := k.lattice(s.Bounds(), resolution)

	t := &tessellation{
		grid:  g,
		index: make(map[[2]int64]int),
		mesh:  &domain.Mesh{},
	}
	lower, err := k.layer(ctx, g, f, 0)
	if err != nil {
		return nil, err
	}
	for z := 0; z < g.nz-1; z++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		upper, err := k.layer(ctx, g, f, z+1)
		if err != nil {
			return nil, err
		}
		t.slab(z, lower, upper)
		lower = upper
	}
	return t.mesh, nil
}

func (k *Kernel) lattice(b r3.Box, res float64) grid {
	b = grow(b, 2*res)
	size := b.Size()
	count := func(extent float64) int {
		n := int(math.Ceil(extent/res)) + 1
		if n > k.maxPerAxis {
			k.logger.Debug("coarsening lattice", "wanted", n, "max", k.maxPerAxis)
			n = k.maxPerAxis
		}
		return max(n, 2)
	}
	g := grid{origin: b.Min, nx: count(size.X), ny: count(size.Y), nz: count(size.Z)}
	g.step = r3.Vec{
		X: size.X / float64(g.nx-1),
		Y: size.Y / float64(g.ny-1),
		Z: size.Z / float64(g.nz-1),
	}
	return g
}

// layer evaluates one z plane of the lattice, one goroutine per row.
func (k *Kernel) layer(ctx context.Context, g grid, f field, z int) ([]float64, error) {
	values := make([]float64, g.nx*g.ny)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(k.workers)
	for y := 0; y < g.ny; y++ {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			scratch := make([]float64, f.scratchSize())
			row := values[y*g.nx : (y+1)*g.nx]
			for x := range row {
				d := f.eval(g.point(x, y, z), scratch)
				if d == 0 {
					// keep vertices off lattice points
					d = 1e-12
				}
				row[x] = d
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return values, nil
}

type tessellation struct {
	grid
	index map[[2]int64]int
	mesh  *domain.Mesh
}

type corner struct {
	id    int64
	p     r3.Vec
	value float64
}

func (t *tessellation) slab(z int, lower, upper []float64) {
	var cube [8]corner
	for y := 0; y < t.ny-1; y++ {
		for x := 0; x < t.nx-1; x++ {
			for c := 0; c < 8; c++ {
				cx, cy, cz := x+c&1, y+(c>>1)&1, z+(c>>2)&1
				layer := lower
				if cz != z {
					layer = upper
				}
				cube[c] = corner{
					id:    t.id(cx, cy, cz),
					p:     t.point(cx, cy, cz),
					value: layer[cy*t.nx+cx],
				}
			}
			for _, tet := range kuhn {
				t.tetra(cube[tet[0]], cube[tet[1]], cube[tet[2]], cube[tet[3]])
			}
		}
	}
}

func (t *tessellation) tetra(c ...corner) {
	var in, out []corner
	for _, v := range c {
		if v.value < 0 {
			in = append(in, v)
		} else {
			out = append(out, v)
		}
	}
	switch len(in) {
	case 0, 4:
		return
	case 1:
		t.emit(in, out, t.vertex(in[0], out[0]), t.vertex(in[0], out[1]), t.vertex(in[0], out[2]))
	case 3:
		t.emit(in, out, t.vertex(in[0], out[0]), t.vertex(in[1], out[0]), t.vertex(in[2], out[0]))
	case 2:
		a, b, c, d := in[0], in[1], out[0], out[1]
		v0, v1, v2, v3 := t.vertex(a, c), t.vertex(a, d), t.vertex(b, d), t.vertex(b, c)
		t.emit(in, out, v0, v1, v2)
		t.emit(in, out, v0, v2, v3)
	}
}

// emit appends a triangle wound so that its normal points from the inside
// corners towards the outside corners.
func (t *tessellation) emit(in, out []corner, a, b, c int) {
	vs := t.mesh.Vertices
	n := r3.Triangle{vs[a], vs[b], vs[c]}.Normal()
	if r3.Dot(n, r3.Sub(centroid(out), centroid(in))) < 0 {
		b, c = c, b
	}
	t.mesh.Triangles = append(t.mesh.Triangles, [3]int{a, b, c})
}

// vertex returns the index of the surface crossing on edge (a, b),
// creating it on first use.
func (t *tessellation) vertex(a, b corner) int {
	key := [2]int64{a.id, b.id}
	if key[0] > key[1] {
		key[0], key[1] = key[1], key[0]
	}
	if i, ok := t.index[key]; ok {
		return i
	}
	s := a.value / (a.value - b.value)
	p := r3.Add(a.p, r3.Scale(s, r3.Sub(b.p, a.p)))
	t.mesh.Vertices = append(t.mesh.Vertices, p)
	i := len(t.mesh.Vertices) - 1
	t.index[key] = i
	return i
}

func centroid(cs []corner) r3.Vec {
	var sum r3.Vec
	for _, c := range cs {
		sum = r3.Add(sum, c.p)
	}
	return r3.Scale(1/float64(len(cs)), sum)
}
