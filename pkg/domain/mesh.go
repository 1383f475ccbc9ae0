package domain

import "gonum.org/v1/gonum/spatial/r3"

// Mesh is an indexed triangle surface. Triangles are wound counter-clockwise
// when seen from outside the material.
type Mesh struct {
	Vertices  []r3.Vec
	Triangles [][3]int
}

// Triangle returns the i-th triangle with resolved vertex positions.
func (m *Mesh) Triangle(i int) r3.Triangle {
	t := m.Triangles[i]
	return r3.Triangle{m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]]}
}

// BoundaryEdges counts edges not shared by exactly two triangles.
// A watertight, manifold surface has none.
func (m *Mesh) BoundaryEdges() int {
	counts := make(map[[2]int]int, len(m.Triangles)*3/2)
	for _, t := range m.Triangles {
		for k := 0; k < 3; k++ {
			a, b := t[k], t[(k+1)%3]
			if a > b {
				a, b = b, a
			}
			counts[[2]int{a, b}]++
		}
	}
	open := 0
	for _, c := range counts {
		if c != 2 {
			open++
		}
	}
	return open
}

// Components returns the number of connected surface pieces.
func (m *Mesh) Components() int {
	parent := make([]int, len(m.Vertices))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	used := make([]bool, len(m.Vertices))
	for _, t := range m.Triangles {
		for k := 0; k < 3; k++ {
			used[t[k]] = true
		}
		a, b, c := find(t[0]), find(t[1]), find(t[2])
		parent[b] = a
		parent[find(c)] = a
	}
	roots := make(map[int]struct{})
	for i, u := range used {
		if u {
			roots[find(i)] = struct{}{}
		}
	}
	return len(roots)
}

// Volume returns the signed enclosed volume. It is positive for an outward
// wound closed surface.
func (m *Mesh) Volume() float64 {
	var v float64
	for i := range m.Triangles {
		t := m.Triangle(i)
		v += r3.Dot(t[0], r3.Cross(t[1], t[2]))
	}
	return v / 6
}

// Bounds returns the axis-aligned box of all vertices.
func (m *Mesh) Bounds() r3.Box {
	if len(m.Vertices) == 0 {
		return r3.Box{}
	}
	b := r3.Box{Min: m.Vertices[0], Max: m.Vertices[0]}
	for _, v := range m.Vertices[1:] {
		b = b.Union(r3.Box{Min: v, Max: v})
	}
	return b
}
