package domain

import "fmt"

// Level identifies the depth of a branch in the hierarchy.
type Level int

const (
	LevelMain Level = iota
	LevelPrimary
	LevelSecondary
)

func (l Level) String() string {
	switch l {
	case LevelMain:
		return "main"
	case LevelPrimary:
		return "primary"
	case LevelSecondary:
		return "secondary"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// BranchSpec is the immutable description of a single vessel branch.
// Angles are in degrees. RelativePosition and Angle are ignored for the main branch.
type BranchSpec struct {
	Name             string  `json:"name"`
	Level            Level   `json:"level"`
	Diameter         float64 `json:"diameter"`
	Length           float64 `json:"length"`
	WallThickness    float64 `json:"wall_thickness"`
	RelativePosition float64 `json:"relative_position"`
	Angle            float64 `json:"angle"`
	Divergence       float64 `json:"divergence"`
}

// Radius returns half the outer diameter.
func (b BranchSpec) Radius() float64 { return b.Diameter / 2 }

// LumenDiameter returns the inner channel diameter (outer diameter minus both walls).
// The value may be zero or negative; callers decide how to handle that.
func (b BranchSpec) LumenDiameter() float64 {
	return b.Diameter - 2*b.WallThickness
}

// PrimarySpec is a primary branch with its optional pair of secondary branches.
// The pair is an array so the two-per-primary fan-out cannot drift.
type PrimarySpec struct {
	Branch      BranchSpec     `json:"branch"`
	Secondaries *[2]BranchSpec `json:"secondaries,omitempty"`
}

// AdapterEnd selects which end of the main branch carries the adapter.
type AdapterEnd string

const (
	AdapterAtStart AdapterEnd = "start"
	AdapterAtEnd   AdapterEnd = "end"
)

// AdapterSpec describes the optional connector tube fused onto one end of the main branch.
type AdapterSpec struct {
	InternalDiameter float64    `json:"internal_diameter"`
	ExternalDiameter float64    `json:"external_diameter"`
	Length           float64    `json:"length"`
	End              AdapterEnd `json:"end"`
}

// TreeSpec is the complete, validated branch hierarchy built once from configuration.
type TreeSpec struct {
	Main      BranchSpec    `json:"main"`
	Primaries []PrimarySpec `json:"primaries"`
	Adapter   *AdapterSpec  `json:"adapter,omitempty"`
}

// BranchCount returns the number of branches in the tree, main included.
func (t TreeSpec) BranchCount() int {
	n := 1 + len(t.Primaries)
	for _, p := range t.Primaries {
		if p.Secondaries != nil {
			n += 2
		}
	}
	return n
}

// RoundingSpec holds the four independent fillet radii. Zero disables a category.
type RoundingSpec struct {
	ExternalSeam  float64 `json:"external_seam"`
	InternalSeam  float64 `json:"internal_seam"`
	ExternalMicro float64 `json:"external_micro"`
	InternalMicro float64 `json:"internal_micro"`
}

// IsZero reports whether every category is disabled.
func (r RoundingSpec) IsZero() bool {
	return r.ExternalSeam == 0 && r.InternalSeam == 0 && r.ExternalMicro == 0 && r.InternalMicro == 0
}
