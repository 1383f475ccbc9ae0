package domain

import "time"

// Stats summarises the work done while building a model.
type Stats struct {
	Branches       int           `json:"branches"`
	OuterSolids    int           `json:"outer_solids"`
	LumenSolids    int           `json:"lumen_solids"`
	FilletedEdges  int           `json:"filleted_edges"`
	SolidFallbacks int           `json:"solid_fallbacks"`
	Adapter        bool          `json:"adapter"`
	Duration       time.Duration `json:"duration"`
}

// VesselModel is the final single solid produced by compositing and rounding.
// It is not mutated after creation. Warnings holds recoverable failures
// (FilletInfeasibleError, non-fatal DegenerateGeometryError).
type VesselModel struct {
	Name     string
	Solid    Solid
	Warnings []error
	Stats    Stats
}

// WarningMessages returns the warnings as plain strings.
func (m *VesselModel) WarningMessages() []string {
	out := make([]string, 0, len(m.Warnings))
	for _, w := range m.Warnings {
		out = append(out, w.Error())
	}
	return out
}
