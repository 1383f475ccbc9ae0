package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/vessel/pkg/domain"
)

// GenerateMermaid produces a Mermaid flowchart of the branch hierarchy.
// Shapes follow the level:
// - Main: ((Circle))
// - Primary: [Rectangle]
// - Secondary: ([Stadium])
// - Adapter: [[Subroutine]]
// Edges carry the attachment position and angle. Branches whose lumen
// would vanish are styled as solid.
func GenerateMermaid(tree domain.TreeSpec) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	var solid []string
	node := func(b domain.BranchSpec) string {
		id := sanitizeMermaidID(b.Name)
		opener, closer := "[", "]"
		switch b.Level {
		case domain.LevelMain:
			opener, closer = "((", "))"
		case domain.LevelSecondary:
			opener, closer = "([", "])"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s <br/> ⌀%g x %g\"%s\n", id, opener, b.Name, b.Diameter, b.Length, closer)
		if b.LumenDiameter() <= 0 {
			solid = append(solid, id)
		}
		return id
	}
	edge := func(from string, b domain.BranchSpec, to string) {
		fmt.Fprintf(&sb, "    %s -- \"%g @ %g°\" --> %s\n", from, b.RelativePosition, b.Angle, to)
	}

	main := node(tree.Main)
	for _, p := range tree.Primaries {
		pid := node(p.Branch)
		edge(main, p.Branch, pid)
		if p.Secondaries == nil {
			continue
		}
		for _, s := range p.Secondaries {
			sid := node(s)
			edge(pid, s, sid)
		}
	}

	if a := tree.Adapter; a != nil {
		fmt.Fprintf(&sb, "    adapter[[\"adapter <br/> ⌀%g/%g x %g\"]]\n", a.InternalDiameter, a.ExternalDiameter, a.Length)
		fmt.Fprintf(&sb, "    %s -. %s .- adapter\n", main, a.End)
	}

	if len(solid) > 0 {
		sb.WriteString("\n    classDef solid fill:#ffcdd2,stroke:#b71c1c,color:#000;\n")
		for _, id := range solid {
			fmt.Fprintf(&sb, "    class %s solid;\n", id)
		}
	}
	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
