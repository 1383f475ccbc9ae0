package testutils

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/aretw0/vessel/pkg/domain"
	"github.com/aretw0/vessel/pkg/ports"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

// WriteConfig writes a configuration document into a temp dir and returns its path.
// It fails the test immediately on error.
func WriteConfig(t *testing.T, name, content string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "Failed to write config")
	return path
}

// ScenarioTree is a 20x200 main branch with a single 8mm primary at its middle,
// 45 degrees around the axis, with 2mm walls.
func ScenarioTree() domain.TreeSpec {
	return domain.TreeSpec{
		Main: domain.BranchSpec{
			Name: domain.MainBranchName, Level: domain.LevelMain,
			Diameter: 20, Length: 200, WallThickness: 2,
		},
		Primaries: []domain.PrimarySpec{{
			Branch: domain.BranchSpec{
				Name: "p0", Level: domain.LevelPrimary,
				Diameter: 8, Length: 60, WallThickness: 2,
				RelativePosition: 0.5, Angle: 45, Divergence: domain.DefaultDivergence,
			},
		}},
	}
}

// Solid is an inert stand-in returned by RecordingKernel.
type Solid struct {
	Label string
}

func (s *Solid) Bounds() r3.Box { return r3.Box{} }
func (s *Solid) Contains(r3.Vec) bool { return false }
func (s *Solid) String() string { return s.Label }

// RecordingKernel is a ports.Kernel that records every call in order.
// EdgeList is reported by Edges and offered to every fillet predicate.
// FailOn makes the named operation ("cylinder", "union", "subtract", "fillet") fail.
// Radii collects the radius of every fillet call.
type RecordingKernel struct {
	EdgeList []domain.Edge
	FailOn   map[string]error
	Radii    []float64

	mu    sync.Mutex
	calls []string
}

var _ ports.Kernel = (*RecordingKernel)(nil)

// Calls returns a copy of the recorded operation names.
func (k *RecordingKernel) Calls() []string {
	k.mu.Lock()
	defer k.mu.Unlock()
	return append([]string(nil), k.calls...)
}

// Count returns how many times op was called.
func (k *RecordingKernel) Count(op string) int {
	n := 0
	for _, c := range k.Calls() {
		if c == op {
			n++
		}
	}
	return n
}

func (k *RecordingKernel) record(op string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.calls = append(k.calls, op)
	return k.FailOn[op]
}

func (k *RecordingKernel) Cylinder(p ports.CylinderParams) (domain.Solid, error) {
	if err := k.record("cylinder"); err != nil {
		return nil, err
	}
	return &Solid{Label: p.Body.String()}, nil
}

func (k *RecordingKernel) Union(solids ...domain.Solid) (domain.Solid, error) {
	if err := k.record("union"); err != nil {
		return nil, err
	}
	return &Solid{Label: "union"}, nil
}

func (k *RecordingKernel) Subtract(base, tool domain.Solid) (domain.Solid, error) {
	if err := k.record("subtract"); err != nil {
		return nil, err
	}
	return &Solid{Label: "difference"}, nil
}

func (k *RecordingKernel) Edges(domain.Solid) ([]domain.Edge, error) {
	if err := k.record("edges"); err != nil {
		return nil, err
	}
	return k.EdgeList, nil
}

func (k *RecordingKernel) FilletEdgesMatching(s domain.Solid, radius float64, match ports.EdgePredicate) (domain.Solid, []ports.FilletFailure, error) {
	if err := k.record("fillet"); err != nil {
		return nil, nil, err
	}
	k.Radii = append(k.Radii, radius)
	var failures []ports.FilletFailure
	for i, e := range k.EdgeList {
		if !match(e) {
			continue
		}
		if radius > e.Span {
			failures = append(failures, ports.FilletFailure{Edge: e, Limit: e.Span})
			continue
		}
		k.EdgeList[i].Radius = radius
	}
	return &Solid{Label: "rounded"}, failures, nil
}
