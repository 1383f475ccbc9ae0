package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/vessel/internal/presentation/graph"
	"github.com/aretw0/vessel/pkg/domain"
)

// BuildReport summarises a finished build as markdown.
// path and triangles describe the exported file; an empty path omits that section.
func BuildReport(model *domain.VesselModel, path string, triangles int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", model.Name)

	s := model.Stats
	sb.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&sb, "| Branches | %d |\n", s.Branches)
	fmt.Fprintf(&sb, "| Outer bodies | %d |\n", s.OuterSolids)
	fmt.Fprintf(&sb, "| Lumens | %d |\n", s.LumenSolids)
	fmt.Fprintf(&sb, "| Solid branches | %d |\n", s.SolidFallbacks)
	fmt.Fprintf(&sb, "| Filleted edges | %d |\n", s.FilletedEdges)
	fmt.Fprintf(&sb, "| Adapter | %t |\n", s.Adapter)
	fmt.Fprintf(&sb, "| Build time | %s |\n", s.Duration.Round(time.Millisecond))

	if path != "" {
		fmt.Fprintf(&sb, "\n## Export\n\n`%s` with %d triangles\n", path, triangles)
	}
	writeWarnings(&sb, model.WarningMessages())
	return sb.String()
}

// ValidationReport describes a configuration check as markdown, including
// the branch hierarchy as a Mermaid diagram.
func ValidationReport(tree domain.TreeSpec, warnings []error) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Configuration OK\n\n%d branches", tree.BranchCount())
	if tree.Adapter != nil {
		fmt.Fprintf(&sb, " and an adapter at the %s", tree.Adapter.End)
	}
	sb.WriteString(".\n\n```mermaid\n")
	sb.WriteString(graph.GenerateMermaid(tree))
	sb.WriteString("```\n")

	msgs := make([]string, 0, len(warnings))
	for _, w := range warnings {
		msgs = append(msgs, w.Error())
	}
	writeWarnings(&sb, msgs)
	return sb.String()
}

func writeWarnings(sb *strings.Builder, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n## Warnings (%d)\n\n", len(warnings))
	for _, w := range warnings {
		fmt.Fprintf(sb, "- %s\n", w)
	}
}
