package sdf

import (
	"fmt"
	"math"

	"github.com/aretw0/vessel/pkg/domain"
	"github.com/aretw0/vessel/pkg/ports"
	"gonum.org/v1/gonum/spatial/r3"
)

var capNames = [2]string{"start", "end"}

// located is an edge together with the members it was derived from.
type located struct {
	edge domain.Edge
	i, j int // member indices; j is -1 for rims
	cap  int
}

// Edges lists the seams and open rims of s. Edges of the outer union are
// external, edges of the subtracted void are internal.
func (k *Kernel) Edges(s domain.Solid) ([]domain.Edge, error) {
	found, err := k.locate(s)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Edge, len(found))
	for i, l := range found {
		out[i] = l.edge
	}
	return out, nil
}

func (k *Kernel) locate(s domain.Solid) ([]located, error) {
	switch v := s.(type) {
	case *cylinder:
		return k.rims(newUnion([]*cylinder{v}, nil), nil), nil
	case *union:
		return append(k.seams(v, domain.SurfaceExternal), k.rims(v, nil)...), nil
	case *difference:
		out := k.seams(v.outer, domain.SurfaceExternal)
		if v.inner != nil {
			out = append(out, k.seams(v.inner, domain.SurfaceInternal)...)
		}
		return append(out, k.rims(v.outer, v.inner)...), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedOperand, s)
	}
}

func (k *Kernel) seams(u *union, surface domain.Surface) []located {
	var out []located
	for i := range u.members {
		for j := i + 1; j < len(u.members); j++ {
			a, b := u.members[i], u.members[j]
			if !overlaps(a.bounds, b.bounds) || !k.crosses(a, b) {
				continue
			}
			out = append(out, located{
				edge: domain.Edge{
					ID:      fmt.Sprintf("%s:seam:%d-%d", surfacePrefix(surface), i, j),
					Kind:    domain.EdgeSeam,
					Surface: surface,
					Bodies:  []domain.BodyRef{a.params.Body, b.params.Body},
					Span:    math.Min(a.params.Radius, b.params.Radius),
					Radius:  u.pairBlend(i, j),
				},
				i: i, j: j,
			})
		}
	}
	return out
}

// rims reports the circular edges of every exposed end face of the outer
// members. An end face pierced by a void member also has an internal rim.
func (k *Kernel) rims(outer, inner *union) []located {
	var out []located
	for i, m := range outer.members {
		for c := 0; c < 2; c++ {
			centre := m.cap(c)
			if coveredBy(outer, i, centre) {
				continue
			}
			out = append(out, located{
				edge: domain.Edge{
					ID:      fmt.Sprintf("ext:rim:%d:%s", i, capNames[c]),
					Kind:    domain.EdgeRim,
					Surface: domain.SurfaceExternal,
					Bodies:  []domain.BodyRef{m.params.Body},
					Span:    math.Min(m.params.Radius, m.params.Length()/2),
					Radius:  m.round[c],
				},
				i: i, j: -1, cap: c,
			})
			if inner == nil {
				continue
			}
			for li, l := range inner.members {
				if l.dist(centre) >= 0 {
					continue
				}
				out = append(out, located{
					edge: domain.Edge{
						ID:      fmt.Sprintf("int:rim:%d:%s", i, capNames[c]),
						Kind:    domain.EdgeRim,
						Surface: domain.SurfaceInternal,
						Bodies:  []domain.BodyRef{l.params.Body},
						Span:    0,
					},
					i: li, j: -1, cap: c,
				})
				break
			}
		}
	}
	return out
}

func coveredBy(u *union, skip int, p r3.Vec) bool {
	for j, o := range u.members {
		if j != skip && o.dist(p) < 0 {
			return true
		}
	}
	return false
}

// crosses reports whether the boundaries of a and b intersect, judged by
// sampling each lateral surface against the other body.
func (k *Kernel) crosses(a, b *cylinder) bool {
	return k.straddles(a, b) || k.straddles(b, a)
}

func (k *Kernel) straddles(on, against *cylinder) bool {
	const eps = 1e-9
	var in, out bool
	p := on.params
	n := k.surfaceSteps
	for s := 0; s <= n; s++ {
		t := p.Start + p.Length()*float64(s)/float64(n)
		axisPoint := p.Frame.At(t)
		for a := 0; a < n; a++ {
			q := r3.Add(axisPoint, r3.Scale(p.Radius, p.Frame.Radial(360*float64(a)/float64(n))))
			d := against.dist(q)
			switch {
			case d < -eps:
				in = true
			case d > eps:
				out = true
			}
			if in && out {
				return true
			}
		}
	}
	return false
}

// FilletEdgesMatching rounds the matching edges. Seams become smooth blends
// between the two members, external rims become rounded cap edges.
// Internal rims cannot be rounded and are always reported as failures.
func (k *Kernel) FilletEdgesMatching(s domain.Solid, radius float64, match ports.EdgePredicate) (domain.Solid, []ports.FilletFailure, error) {
	if !(radius > 0) || math.IsInf(radius, 0) {
		return nil, nil, fmt.Errorf("%w: got %g", ErrInvalidRadius, radius)
	}
	found, err := k.locate(s)
	if err != nil {
		return nil, nil, err
	}

	var outer, inner *union
	var result domain.Solid
	switch v := s.(type) {
	case *cylinder:
		outer = newUnion([]*cylinder{v.clone()}, nil)
		result = outer
	case *union:
		outer = v.clone()
		result = outer
	case *difference:
		outer = v.outer.clone()
		if v.inner != nil {
			inner = v.inner.clone()
		}
		result = &difference{outer: outer, inner: inner}
	}

	var failures []ports.FilletFailure
	for _, l := range found {
		if !match(l.edge) {
			continue
		}
		if radius > l.edge.Span {
			failures = append(failures, ports.FilletFailure{Edge: l.edge, Limit: l.edge.Span})
			continue
		}
		target := outer
		if l.edge.Surface == domain.SurfaceInternal {
			target = inner
		}
		switch l.edge.Kind {
		case domain.EdgeSeam:
			target.setBlend(l.i, l.j, radius)
		case domain.EdgeRim:
			target.members[l.i].round[l.cap] = radius
		}
	}

	// blends widen the bounds
	grown := newUnion(outer.members, outer.blend)
	*outer = *grown
	if inner != nil {
		grown = newUnion(inner.members, inner.blend)
		*inner = *grown
	}
	return result, failures, nil
}

func surfacePrefix(s domain.Surface) string {
	if s == domain.SurfaceInternal {
		return "int"
	}
	return "ext"
}
