// Package testutil provides AST construction and assertion helpers for
// tests.
package testutil

import (
	"github.com/golangrdl/gordl/ast"
)

// Literal constructors.

func Num(v uint64) *ast.Literal           { return &ast.Literal{Value: ast.Number(v)} }
func Sized(w uint, v uint64) *ast.Literal { return &ast.Literal{Value: ast.Bits{Width: w, Value: v}} }
func Bool(b bool) *ast.Literal            { return &ast.Literal{Value: ast.Bool(b)} }
func Str(s string) *ast.Literal           { return &ast.Literal{Value: ast.String(s)} }

func Access(a ast.AccessType) *ast.Literal {
	return &ast.Literal{Value: ast.AccessTypeLit(a)}
}

func Addressing(a ast.AddressingType) *ast.Literal {
	return &ast.Literal{Value: ast.AddressingTypeLit(a)}
}

func OnWrite(o ast.OnWriteType) *ast.Literal {
	return &ast.Literal{Value: ast.OnWriteTypeLit(o)}
}

func Enumerator(enum, name string) *ast.Literal {
	return &ast.Literal{Value: ast.EnumeratorLit{Enum: enum, Name: name}}
}

// Expression constructors.

func Unary(op ast.UnaryOp, x ast.Expr) *ast.Unary { return &ast.Unary{Op: op, X: x} }
func Paren(x ast.Expr) *ast.Paren                 { return &ast.Paren{X: x} }

func Binary(op ast.BinaryOp, x, y ast.Expr) *ast.Binary {
	return &ast.Binary{Op: op, X: x, Y: y}
}

func Ternary(cond, then, els ast.Expr) *ast.Ternary {
	return &ast.Ternary{Cond: cond, Then: then, Else: els}
}

// Prop returns a local assignment `name = value;`.
func Prop(name string, value ast.PropRhs) *ast.PropAssignment {
	return &ast.PropAssignment{Name: ast.Ident{Name: name}, Value: value}
}

// Default returns a default assignment `default name = value;`.
func Default(name string, value ast.PropRhs) *ast.PropAssignment {
	return &ast.PropAssignment{Default: true, Name: ast.Ident{Name: name}, Value: value}
}

// Def returns a named definition with the given body and no instances.
func Def(typ ast.ComponentType, name string, body ...ast.BodyElem) *ast.Component {
	id := ast.NewIdent(name, ast.Span{})
	return &ast.Component{Type: typ, Name: &id, Body: body}
}

// Anon returns an anonymous definition instantiated by insts.
func Anon(typ ast.ComponentType, insts []ast.ComponentInst, body ...ast.BodyElem) *ast.Component {
	return &ast.Component{Type: typ, Body: body, Insts: &ast.ComponentInsts{Insts: insts}}
}

// Insts returns its arguments as a slice, for use with Anon.
func Insts(insts ...ast.ComponentInst) []ast.ComponentInst { return insts }

// Instantiate attaches an instance clause to a definition and returns it.
func Instantiate(c *ast.Component, insts ...ast.ComponentInst) *ast.Component {
	c.Insts = &ast.ComponentInsts{Insts: insts}
	return c
}

// InstOpt customizes an instance declarator.
type InstOpt func(*ast.ComponentInst)

// Inst returns the declarator `name` with the given options applied.
func Inst(name string, opts ...InstOpt) ast.ComponentInst {
	in := ast.ComponentInst{Name: ast.Ident{Name: name}}
	for _, o := range opts {
		o(&in)
	}
	return in
}

// Dims adds array dimensions: name[d0][d1]...
func Dims(dims ...uint64) InstOpt {
	return func(in *ast.ComponentInst) {
		for _, d := range dims {
			in.Array = append(in.Array, Num(d))
		}
	}
}

// Range adds a bit range: name[msb:lsb].
func Range(msb, lsb uint64) InstOpt {
	return func(in *ast.ComponentInst) {
		in.Range = &ast.BitRange{Msb: Num(msb), Lsb: Num(lsb)}
	}
}

func At(v uint64) InstOpt     { return func(in *ast.ComponentInst) { in.At = Num(v) } }
func Stride(v uint64) InstOpt { return func(in *ast.ComponentInst) { in.Stride = Num(v) } }
func Align(v uint64) InstOpt  { return func(in *ast.ComponentInst) { in.Align = Num(v) } }
func Reset(v uint64) InstOpt  { return func(in *ast.ComponentInst) { in.Reset = Num(v) } }

// Root returns a root containing descs in order.
func Root(descs ...ast.Description) *ast.Root {
	return &ast.Root{Descriptions: descs}
}
