package elaborator

import (
	"log/slog"
	"math"

	"github.com/golangrdl/gordl/ast"
	"github.com/golangrdl/gordl/internal/expand"
	"github.com/golangrdl/gordl/rdl"
)

// topLevel elaborates one top-level description. Only component kinds that
// produce nodes are accepted; every other description fails with an
// unsupported-top-level error naming the kind.
func (e *elaborator) topLevel(d ast.Description) (result, error) {
	switch x := d.(type) {
	case *ast.Component:
		switch x.Type {
		case ast.ComponentEnum, ast.ComponentEnumVariant, ast.ComponentConstraint:
			return result{}, rdl.UnsupportedTopLevel(x.Type.String(), x.Span)
		}
		// Records from one description carry its name, so interleaved
		// output from parallel elaboration can be told apart.
		de := &elaborator{
			Logger: e.With(slog.String("description", declName(x))),
			policy: e.policy,
		}
		var r result
		f := frame{top: true, mode: ast.AddressingRegAlign, diags: &r.diags}
		alloc := expand.NewAllocator(ast.AddressingRegAlign)
		bits := expand.NewBitAllocator(math.MaxUint64, e.policy)
		nodes, err := de.component(x, f, alloc, bits)
		if err != nil {
			return result{}, err
		}
		r.nodes = nodes
		de.Log(slog.LevelDebug, "top-level description elaborated",
			slog.String("type", x.Type.String()),
			slog.Int("instances", len(nodes)))
		return r, nil
	case *ast.EnumDef:
		return result{}, rdl.UnsupportedTopLevel("enum definition", x.Span)
	case *ast.StructDef:
		return result{}, rdl.UnsupportedTopLevel("struct definition", x.Span)
	case *ast.ConstraintDef:
		return result{}, rdl.UnsupportedTopLevel("constraint definition", x.Span)
	case *ast.PropertyDefinition:
		return result{}, rdl.UnsupportedTopLevel("property definition", x.Span)
	case *ast.ExplicitComponentInst:
		return result{}, rdl.UnsupportedTopLevel("explicit component instance", x.Span)
	case ast.PropertyAssignment:
		return result{}, rdl.UnsupportedTopLevel("property assignment", x.Pos())
	case nil:
		return result{}, rdl.Internal(ast.Span{}, "nil description")
	default:
		return result{}, rdl.Internal(d.Pos(), "unhandled description %T", d)
	}
}
