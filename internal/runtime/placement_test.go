package runtime_test

import (
	"errors"
	"math"
	"testing"

	"github.com/aretw0/vessel/internal/runtime"
	"github.com/aretw0/vessel/internal/testutils"
	"github.com/aretw0/vessel/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func mainPlaced(tree domain.TreeSpec) domain.PlacedBranch {
	return domain.PlacedBranch{Spec: tree.Main, Frame: domain.WorldFrame}
}

func TestPlace_Scenario(t *testing.T) {
	tree := testutils.ScenarioTree()
	placed, err := runtime.Place(mainPlaced(tree), tree.Primaries[0].Branch)
	require.NoError(t, err)

	origin := placed.Frame.Origin
	assert.InDelta(t, 100, origin.Z, 1e-9, "attachment sits at half the main length")
	assert.InDelta(t, 10, math.Hypot(origin.X, origin.Y), 1e-9, "base lies on the main outer surface")
	assert.InDelta(t, origin.X, origin.Y, 1e-9, "45 degrees around the axis")

	axis := placed.Frame.Axis
	assert.InDelta(t, 1, r3.Norm(axis), 1e-9)
	assert.InDelta(t, 0.5, axis.Z, 1e-9, "60 degree divergence from +Z")
	assert.InDelta(t, 0, r3.Dot(axis, placed.Frame.Ref), 1e-9)
	assert.InDelta(t, 1, r3.Norm(placed.Frame.Ref), 1e-9)

	assert.InDelta(t, 10/math.Sin(math.Pi/3), placed.Embed, 1e-9)
	base := placed.Frame.At(-placed.Embed)
	assert.InDelta(t, 0, math.Hypot(base.X, base.Y), 1e-9, "embedded base reaches the parent axis")
}

func TestPlace_Perpendicular(t *testing.T) {
	tree := testutils.ScenarioTree()
	spec := tree.Primaries[0].Branch
	spec.Divergence = 90
	spec.Angle = 0

	placed, err := runtime.Place(mainPlaced(tree), spec)
	require.NoError(t, err)
	assert.InDelta(t, 1, placed.Frame.Axis.X, 1e-9)
	assert.InDelta(t, 10, placed.Embed, 1e-9)
}

func TestPlace_Deterministic(t *testing.T) {
	tree := testutils.ScenarioTree()
	a, err := runtime.Place(mainPlaced(tree), tree.Primaries[0].Branch)
	require.NoError(t, err)
	b, err := runtime.Place(mainPlaced(tree), tree.Primaries[0].Branch)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestPlace_Secondary(t *testing.T) {
	tree := testutils.ScenarioTree()
	primary, err := runtime.Place(mainPlaced(tree), tree.Primaries[0].Branch)
	require.NoError(t, err)

	secondary := domain.BranchSpec{
		Name: "p0.s0", Level: domain.LevelSecondary,
		Diameter: 6, Length: 30, WallThickness: 2,
		RelativePosition: 0.5, Angle: 30,
	}
	placed, err := runtime.Place(primary, secondary)
	require.NoError(t, err)

	axial, radial := primary.Frame.Local(placed.Frame.Origin)
	assert.InDelta(t, 30, axial, 1e-9, "uses a fraction of the primary length")
	assert.InDelta(t, 4, radial, 1e-9, "sits on the primary surface")
	assert.InDelta(t, 0.5, r3.Dot(placed.Frame.Axis, primary.Frame.Axis), 1e-9)
}

func TestPlace_Rejects(t *testing.T) {
	tree := testutils.ScenarioTree()
	base := tree.Primaries[0].Branch

	cases := map[string]func(s *domain.BranchSpec){
		"position above one":  func(s *domain.BranchSpec) { s.RelativePosition = 1.5 },
		"negative position":   func(s *domain.BranchSpec) { s.RelativePosition = -0.1 },
		"nan angle":           func(s *domain.BranchSpec) { s.Angle = math.NaN() },
		"divergence too wide": func(s *domain.BranchSpec) { s.Divergence = 95 },
		"negative divergence": func(s *domain.BranchSpec) { s.Divergence = -10 },
		"wider than parent":   func(s *domain.BranchSpec) { s.Diameter = 22 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			spec := base
			mutate(&spec)
			_, err := runtime.Place(mainPlaced(tree), spec)
			var degenerate *domain.DegenerateGeometryError
			require.True(t, errors.As(err, &degenerate), "got %v", err)
			assert.True(t, degenerate.Fatal)
			assert.Equal(t, "p0", degenerate.Body)
		})
	}
}
