package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/vessel/internal/presentation/graph"
	"github.com/aretw0/vessel/pkg/domain"
)

func tree() domain.TreeSpec {
	secondary := func(name string, angle float64) domain.BranchSpec {
		return domain.BranchSpec{Name: name, Level: domain.LevelSecondary, Diameter: 3, Length: 20,
			WallThickness: 2, RelativePosition: 0.5, Angle: angle}
	}
	return domain.TreeSpec{
		Main: domain.BranchSpec{Name: "main", Level: domain.LevelMain, Diameter: 20, Length: 200, WallThickness: 2},
		Primaries: []domain.PrimarySpec{
			{
				Branch:      domain.BranchSpec{Name: "p0", Level: domain.LevelPrimary, Diameter: 8, Length: 60, WallThickness: 2, RelativePosition: 0.25, Angle: 45},
				Secondaries: &[2]domain.BranchSpec{secondary("p0.s0", 30), secondary("p0.s1", -30)},
			},
			{Branch: domain.BranchSpec{Name: "p1", Level: domain.LevelPrimary, Diameter: 8, Length: 60, WallThickness: 2, RelativePosition: 0.75, Angle: -45}},
		},
		Adapter: &domain.AdapterSpec{InternalDiameter: 16, ExternalDiameter: 24, Length: 20, End: domain.AdapterAtStart},
	}
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		contains []string
	}{
		{
			name: "Level Shapes",
			contains: []string{
				`main(("main <br/> ⌀20 x 200"))`,
				`p0["p0 <br/> ⌀8 x 60"]`,
				`p0_s0(["p0.s0 <br/> ⌀3 x 20"])`,
			},
		},
		{
			name: "Attachment Edges",
			contains: []string{
				`main -- "0.25 @ 45°" --> p0`,
				`main -- "0.75 @ -45°" --> p1`,
				`p0 -- "0.5 @ -30°" --> p0_s1`,
			},
		},
		{
			name: "Adapter",
			contains: []string{
				`adapter[["adapter <br/> ⌀16/24 x 20"]]`,
				"main -. start .- adapter",
			},
		},
		{
			name: "Solid Fallback Styling",
			contains: []string{
				"classDef solid",
				"class p0_s0 solid;",
				"class p0_s1 solid;",
			},
		},
	}

	got := graph.GenerateMermaid(tree())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() missing %q\nGot:\n%s", want, got)
				}
			}
		})
	}
}

func TestGenerateMermaid_NoAdapter(t *testing.T) {
	tr := tree()
	tr.Adapter = nil
	tr.Primaries = tr.Primaries[1:]

	got := graph.GenerateMermaid(tr)
	if strings.Contains(got, "adapter") {
		t.Errorf("unexpected adapter node:\n%s", got)
	}
	if strings.Contains(got, "classDef solid") {
		t.Errorf("unexpected solid styling:\n%s", got)
	}
}
