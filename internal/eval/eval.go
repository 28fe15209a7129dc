// Package eval reduces constant expressions to literal values.
//
// Evaluation is pure: it has no access to any enclosing scope, so forms
// that need outside context (instance and property references) are
// reported as unsupported along with the other forms not yet handled.
// Every operator's operand and result kinds are declared in a table
// (see ops.go) and checked before the operator is applied.
package eval

import (
	"github.com/golangrdl/gordl/ast"
	"github.com/golangrdl/gordl/rdl"
)

// Evaluate reduces e to a single literal.
func Evaluate(e ast.Expr) (rdl.Literal, error) {
	if e == nil {
		return rdl.Literal{}, rdl.Internal(ast.Span{}, "nil expression")
	}
	switch x := e.(type) {
	case *ast.Literal:
		return primary(x.Value, x.Span)
	case *ast.Paren:
		return Evaluate(x.X)
	case *ast.Unary:
		return unary(x)
	case *ast.Binary:
		return binary(x)
	case *ast.Ternary:
		return ternary(x)
	case *ast.Concat:
		return rdl.Literal{}, rdl.Unsupported("concatenation", x.Span)
	case *ast.MultiConcat:
		return rdl.Literal{}, rdl.Unsupported("multiple concatenation", x.Span)
	case *ast.WidthCast:
		return rdl.Literal{}, rdl.Unsupported("width cast", x.Span)
	case *ast.TypeCast:
		return rdl.Literal{}, rdl.Unsupported("type cast", x.Span)
	case *ast.BoolCast:
		return rdl.Literal{}, rdl.Unsupported("boolean cast", x.Span)
	case *ast.InstanceRef:
		if x.Prop != nil {
			return rdl.Literal{}, rdl.Unsupported("property reference", x.Span)
		}
		return rdl.Literal{}, rdl.Unsupported("instance reference", x.Span)
	case *ast.StructLiteral:
		return rdl.Literal{}, rdl.Unsupported("struct literal", x.Span)
	case *ast.ArrayLiteral:
		return rdl.Literal{}, rdl.Unsupported("array literal", x.Span)
	default:
		return rdl.Literal{}, rdl.Internal(e.Pos(), "unhandled expression %T", e)
	}
}

// EvaluateRhs reduces the right-hand side of a property assignment. The
// precedence keyword form is accepted in addition to every expression.
func EvaluateRhs(rhs ast.PropRhs) (rdl.Literal, error) {
	switch r := rhs.(type) {
	case *ast.PrecedenceRhs:
		return rdl.PrecedenceLit(r.Value), nil
	case ast.Expr:
		return Evaluate(r)
	case nil:
		return rdl.Literal{}, rdl.Internal(ast.Span{}, "nil property value")
	default:
		return rdl.Literal{}, rdl.Internal(rhs.Pos(), "unhandled property value %T", rhs)
	}
}

// Uint evaluates e and requires a number. what names the value in the
// error, e.g. "array size".
func Uint(e ast.Expr, what string) (uint64, error) {
	v, err := Evaluate(e)
	if err != nil {
		return 0, err
	}
	n, ok := v.Number()
	if !ok {
		return 0, rdl.Invalid(e.Pos(), "%s must be a number, got %s", what, v.Kind())
	}
	return n, nil
}

func primary(p ast.PrimaryLiteral, span ast.Span) (rdl.Literal, error) {
	switch v := p.(type) {
	case ast.Number:
		return rdl.NumberLit(uint64(v)), nil
	case ast.Bits:
		if v.Width == 0 {
			return rdl.Literal{}, rdl.Invalid(span, "sized literal with zero width")
		}
		return rdl.SizedNumberLit(v.Width, v.Value), nil
	case ast.String:
		return rdl.StringLit(string(v)), nil
	case ast.Bool:
		return rdl.BoolLit(bool(v)), nil
	case ast.AccessTypeLit:
		return rdl.AccessLit(ast.AccessType(v)), nil
	case ast.OnReadTypeLit:
		return rdl.OnReadLit(ast.OnReadType(v)), nil
	case ast.OnWriteTypeLit:
		return rdl.OnWriteLit(ast.OnWriteType(v)), nil
	case ast.AddressingTypeLit:
		return rdl.AddressingLit(ast.AddressingType(v)), nil
	case ast.EnumeratorLit:
		return rdl.EnumLit(v.Enum, v.Name), nil
	case nil:
		return rdl.Literal{}, rdl.Internal(span, "literal without value")
	default:
		return rdl.Literal{}, rdl.Internal(span, "unhandled literal %T", p)
	}
}

func unary(u *ast.Unary) (rdl.Literal, error) {
	x, err := Evaluate(u.X)
	if err != nil {
		return rdl.Literal{}, err
	}
	if err := checkUnary(u.Op, x, u.Span); err != nil {
		return rdl.Literal{}, err
	}
	return applyUnary(u.Op, x, u.Span)
}

func binary(b *ast.Binary) (rdl.Literal, error) {
	x, err := Evaluate(b.X)
	if err != nil {
		return rdl.Literal{}, err
	}
	if b.Op == ast.BinaryLogicalAnd || b.Op == ast.BinaryLogicalOr {
		// The right operand is not evaluated once the left decides.
		v, ok := x.Truth()
		if !ok {
			return rdl.Literal{}, rdl.TypeMismatch(b.Op.String(), truthy.String(), x.Kind(), b.Span)
		}
		if v == (b.Op == ast.BinaryLogicalOr) {
			return rdl.BoolLit(v), nil
		}
	}
	y, err := Evaluate(b.Y)
	if err != nil {
		return rdl.Literal{}, err
	}
	if err := checkBinary(b.Op, x, y, b.Span); err != nil {
		return rdl.Literal{}, err
	}
	return applyBinary(b.Op, x, y, b.Span)
}

func ternary(t *ast.Ternary) (rdl.Literal, error) {
	cond, err := Evaluate(t.Cond)
	if err != nil {
		return rdl.Literal{}, err
	}
	c, ok := cond.Truth()
	if !ok {
		return rdl.Literal{}, rdl.TypeMismatch("?:", truthy.String(), cond.Kind(), t.Span)
	}
	then, err := Evaluate(t.Then)
	if err != nil {
		return rdl.Literal{}, err
	}
	els, err := Evaluate(t.Else)
	if err != nil {
		return rdl.Literal{}, err
	}
	if then.Kind() != els.Kind() {
		return rdl.Literal{}, rdl.TypeMismatch("?:", then.Kind().String(), els.Kind(), t.Span)
	}
	if c {
		return then, nil
	}
	return els, nil
}
