package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/vessel/pkg/domain"
	"github.com/aretw0/vessel/pkg/ports"
)

// roundingStep is one fillet category applied to the whole solid.
type roundingStep struct {
	name   string
	radius float64
	match  ports.EdgePredicate
}

func roundingSteps(r domain.RoundingSpec) []roundingStep {
	return []roundingStep{
		{"external_seam", r.ExternalSeam, seamEdges(domain.SurfaceExternal)},
		{"internal_seam", r.InternalSeam, seamEdges(domain.SurfaceInternal)},
		{"external_micro", r.ExternalMicro, microEdges(domain.SurfaceExternal)},
		{"internal_micro", r.InternalMicro, microEdges(domain.SurfaceInternal)},
	}
}

// seamEdges selects junctions between two different branches.
// Adapter transitions are left to the micro pass.
func seamEdges(surface domain.Surface) ports.EdgePredicate {
	return func(e domain.Edge) bool {
		return e.Kind == domain.EdgeSeam &&
			e.Surface == surface &&
			e.Distinct() &&
			!e.Involves(domain.BodyAdapter)
	}
}

// microEdges selects every still-sharp edge on a surface except open end rims.
func microEdges(surface domain.Surface) ports.EdgePredicate {
	return func(e domain.Edge) bool {
		return e.Kind != domain.EdgeRim && e.Surface == surface && e.Radius == 0
	}
}

// Round applies the four fillet categories in order. Infeasible fillets are
// returned as warnings; the solid keeps those edges sharp.
func (e *Engine) Round(ctx context.Context, s domain.Solid, r domain.RoundingSpec) (domain.Solid, []error, int, error) {
	var (
		warnings []error
		filleted int
	)
	for _, step := range roundingSteps(r) {
		if step.radius == 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, nil, 0, err
		}

		matched := 0
		counting := func(edge domain.Edge) bool {
			ok := step.match(edge)
			if ok {
				matched++
			}
			return ok
		}
		next, failures, err := e.kernel.FilletEdgesMatching(s, step.radius, counting)
		if err != nil {
			return nil, nil, 0, fmt.Errorf("%s rounding: %w", step.name, err)
		}
		for _, f := range failures {
			warnings = append(warnings, &domain.FilletInfeasibleError{
				Edge:   f.Edge.ID,
				Radius: step.radius,
				Limit:  f.Limit,
			})
		}
		filleted += matched - len(failures)
		e.logger.Debug("rounding applied", "category", step.name, "radius", step.radius,
			"edges", matched, "infeasible", len(failures))
		s = next
	}
	return s, warnings, filleted, nil
}
