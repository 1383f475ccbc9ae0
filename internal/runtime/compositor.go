package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/vessel/pkg/domain"
)

// operand is a solid labelled with the bodies it came from.
type operand struct {
	solid domain.Solid
	label string
}

// Composite fuses the assembly into a single hollow solid: every outer body
// is unioned, every lumen is unioned, then the voids are subtracted once.
func (e *Engine) Composite(ctx context.Context, a *domain.Assembly) (domain.Solid, error) {
	var outers, lumens []operand
	a.Root.Walk(func(n *domain.BranchNode) {
		outer, lumen := n.Body, n.Body
		outer.Role, lumen.Role = domain.RoleOuter, domain.RoleLumen
		outers = append(outers, operand{n.Outer, outer.String()})
		if n.Lumen != nil {
			lumens = append(lumens, operand{n.Lumen, lumen.String()})
		}
	})
	if ad := a.Adapter; ad != nil {
		outer, lumen := ad.Body, ad.Body
		outer.Role, lumen.Role = domain.RoleOuter, domain.RoleLumen
		outers = append(outers, operand{ad.Outer, outer.String()})
		lumens = append(lumens, operand{ad.Lumen, lumen.String()})
	}

	external, err := e.fold(ctx, "external", outers)
	if err != nil {
		return nil, err
	}
	if len(lumens) == 0 {
		return external.solid, nil
	}
	voids, err := e.fold(ctx, "void", lumens)
	if err != nil {
		return nil, err
	}
	return e.boolean(ctx, "subtract", external, voids)
}

// fold unions operands left to right so a failure names the offending pair.
func (e *Engine) fold(ctx context.Context, label string, ops []operand) (operand, error) {
	acc := ops[0]
	for i, op := range ops[1:] {
		if err := ctx.Err(); err != nil {
			return operand{}, err
		}
		next, err := e.boolean(ctx, "union", acc, op)
		if err != nil {
			return operand{}, err
		}
		acc = operand{
			solid: next,
			label: fmt.Sprintf("%s union of %d bodies", label, i+2),
		}
	}
	return acc, nil
}

func (e *Engine) boolean(ctx context.Context, op string, left, right operand) (domain.Solid, error) {
	start := time.Now()
	var (
		out domain.Solid
		err error
	)
	switch op {
	case "union":
		out, err = e.kernel.Union(left.solid, right.solid)
	default:
		out, err = e.kernel.Subtract(left.solid, right.solid)
	}
	e.emitBoolean(ctx, op, 2, time.Since(start), err)
	if err != nil {
		return nil, &domain.BooleanOperationError{
			Op:    op,
			Left:  left.label,
			Right: right.label,
			Err:   err,
		}
	}
	return out, nil
}
