package domain

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Frame is a world-space placement: an origin plus an orthonormal orientation.
// Axis is the branch direction, Ref is a unit vector perpendicular to it that
// anchors angle measurements about the axis.
type Frame struct {
	Origin r3.Vec `json:"origin"`
	Axis   r3.Vec `json:"axis"`
	Ref    r3.Vec `json:"ref"`
}

// WorldFrame is the reference frame of the main branch: origin at zero, axis along +Z.
var WorldFrame = Frame{
	Origin: r3.Vec{},
	Axis:   r3.Vec{Z: 1},
	Ref:    r3.Vec{X: 1},
}

// Binormal returns Axis × Ref, completing the right-handed basis.
func (f Frame) Binormal() r3.Vec {
	return r3.Cross(f.Axis, f.Ref)
}

// At returns the point at signed distance t along the axis.
func (f Frame) At(t float64) r3.Vec {
	return r3.Add(f.Origin, r3.Scale(t, f.Axis))
}

// Radial returns the unit direction perpendicular to the axis at angle deg
// (degrees) measured from Ref towards the binormal.
func (f Frame) Radial(deg float64) r3.Vec {
	s, c := math.Sincos(deg * math.Pi / 180)
	return r3.Add(r3.Scale(c, f.Ref), r3.Scale(s, f.Binormal()))
}

// Local decomposes p into its axial coordinate and its distance from the axis.
func (f Frame) Local(p r3.Vec) (axial, radial float64) {
	d := r3.Sub(p, f.Origin)
	axial = r3.Dot(d, f.Axis)
	radial = r3.Norm(r3.Sub(d, r3.Scale(axial, f.Axis)))
	return axial, radial
}

// IsFinite reports whether every component of the frame is a finite number.
func (f Frame) IsFinite() bool {
	for _, v := range []r3.Vec{f.Origin, f.Axis, f.Ref} {
		for _, c := range []float64{v.X, v.Y, v.Z} {
			if math.IsNaN(c) || math.IsInf(c, 0) {
				return false
			}
		}
	}
	return true
}
