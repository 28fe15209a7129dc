package ast

// Expr is a constant expression.
//
// Variants: *Literal, *Paren, *Unary, *Binary, *Ternary, *Concat,
// *MultiConcat, *WidthCast, *TypeCast, *BoolCast, *InstanceRef,
// *StructLiteral, *ArrayLiteral.
type Expr interface {
	PropRhs
	expr()
}

// Literal wraps a primary literal.
type Literal struct {
	Value PrimaryLiteral
	Span  Span
}

// Paren is a parenthesized expression.
type Paren struct {
	X    Expr
	Span Span
}

// Unary applies a unary operator.
type Unary struct {
	Op   UnaryOp
	X    Expr
	Span Span
}

// Binary applies a binary operator.
type Binary struct {
	Op   BinaryOp
	X    Expr
	Y    Expr
	Span Span
}

// Ternary is `cond ? then : else`.
type Ternary struct {
	Cond Expr
	Then Expr
	Else Expr
	Span Span
}

// Concat is `{a, b, ...}`.
type Concat struct {
	Elems []Expr
	Span  Span
}

// MultiConcat is `{n{a, b, ...}}`.
type MultiConcat struct {
	Count Expr
	Elems []Expr
	Span  Span
}

// WidthCast is `width'(expr)`.
type WidthCast struct {
	Width Expr
	X     Expr
	Span  Span
}

// TypeCast is `longint'(expr)` or `bit'(expr)`.
type TypeCast struct {
	Type string
	X    Expr
	Span Span
}

// BoolCast is `boolean'(expr)`.
type BoolCast struct {
	X    Expr
	Span Span
}

// InstanceRef is a hierarchical instance reference, optionally followed
// by `->prop`.
type InstanceRef struct {
	Path []RefElem
	Prop *Ident
	Span Span
}

// RefElem is one step of an InstanceRef.
type RefElem struct {
	Name  Ident
	Index []Expr
}

// StructLiteral is `type'{name: value, ...}`.
type StructLiteral struct {
	Type   Ident
	Fields []StructLiteralField
	Span   Span
}

// StructLiteralField is one member of a StructLiteral.
type StructLiteralField struct {
	Name  Ident
	Value Expr
}

// ArrayLiteral is `'{a, b, ...}`.
type ArrayLiteral struct {
	Elems []Expr
	Span  Span
}

func (e *Literal) Pos() Span       { return e.Span }
func (e *Paren) Pos() Span         { return e.Span }
func (e *Unary) Pos() Span         { return e.Span }
func (e *Binary) Pos() Span        { return e.Span }
func (e *Ternary) Pos() Span       { return e.Span }
func (e *Concat) Pos() Span        { return e.Span }
func (e *MultiConcat) Pos() Span   { return e.Span }
func (e *WidthCast) Pos() Span     { return e.Span }
func (e *TypeCast) Pos() Span      { return e.Span }
func (e *BoolCast) Pos() Span      { return e.Span }
func (e *InstanceRef) Pos() Span   { return e.Span }
func (e *StructLiteral) Pos() Span { return e.Span }
func (e *ArrayLiteral) Pos() Span  { return e.Span }

func (*Literal) expr()       {}
func (*Paren) expr()         {}
func (*Unary) expr()         {}
func (*Binary) expr()        {}
func (*Ternary) expr()       {}
func (*Concat) expr()        {}
func (*MultiConcat) expr()   {}
func (*WidthCast) expr()     {}
func (*TypeCast) expr()      {}
func (*BoolCast) expr()      {}
func (*InstanceRef) expr()   {}
func (*StructLiteral) expr() {}
func (*ArrayLiteral) expr()  {}

func (*Literal) propRhs()       {}
func (*Paren) propRhs()         {}
func (*Unary) propRhs()         {}
func (*Binary) propRhs()        {}
func (*Ternary) propRhs()       {}
func (*Concat) propRhs()        {}
func (*MultiConcat) propRhs()   {}
func (*WidthCast) propRhs()     {}
func (*TypeCast) propRhs()      {}
func (*BoolCast) propRhs()      {}
func (*InstanceRef) propRhs()   {}
func (*StructLiteral) propRhs() {}
func (*ArrayLiteral) propRhs()  {}

// UnaryOp is a unary operator.
type UnaryOp int

const (
	UnaryNot     UnaryOp = iota // !
	UnaryPlus                   // +
	UnaryMinus                  // -
	UnaryInvert                 // ~
	UnaryAnd                    // &  (reduction)
	UnaryNand                   // ~&
	UnaryOr                     // |
	UnaryNor                    // ~|
	UnaryXor                    // ^
	UnaryXnor                   // ~^
)

var unaryOpNames = [...]string{
	UnaryNot:    "!",
	UnaryPlus:   "+",
	UnaryMinus:  "-",
	UnaryInvert: "~",
	UnaryAnd:    "&",
	UnaryNand:   "~&",
	UnaryOr:     "|",
	UnaryNor:    "~|",
	UnaryXor:    "^",
	UnaryXnor:   "~^",
}

func (op UnaryOp) String() string {
	if op >= 0 && int(op) < len(unaryOpNames) {
		return unaryOpNames[op]
	}
	return "?"
}

// ParseUnaryOp maps an operator token to a UnaryOp. "^~" is accepted as
// a spelling of "~^".
func ParseUnaryOp(s string) (UnaryOp, bool) {
	if s == "^~" {
		return UnaryXnor, true
	}
	for i, name := range unaryOpNames {
		if name == s {
			return UnaryOp(i), true
		}
	}
	return 0, false
}

// BinaryOp is a binary operator.
type BinaryOp int

const (
	BinaryLogicalAnd BinaryOp = iota // &&
	BinaryLogicalOr                  // ||
	BinaryLess                       // <
	BinaryGreater                    // >
	BinaryLessEq                     // <=
	BinaryGreaterEq                  // >=
	BinaryEq                         // ==
	BinaryNotEq                      // !=
	BinaryShiftRight                 // >>
	BinaryShiftLeft                  // <<
	BinaryAnd                        // &
	BinaryOr                         // |
	BinaryXor                        // ^
	BinaryXnor                       // ~^
	BinaryMul                        // *
	BinaryDiv                        // /
	BinaryMod                        // %
	BinaryAdd                        // +
	BinarySub                        // -
	BinaryPow                        // **
)

var binaryOpNames = [...]string{
	BinaryLogicalAnd: "&&",
	BinaryLogicalOr:  "||",
	BinaryLess:       "<",
	BinaryGreater:    ">",
	BinaryLessEq:     "<=",
	BinaryGreaterEq:  ">=",
	BinaryEq:         "==",
	BinaryNotEq:      "!=",
	BinaryShiftRight: ">>",
	BinaryShiftLeft:  "<<",
	BinaryAnd:        "&",
	BinaryOr:         "|",
	BinaryXor:        "^",
	BinaryXnor:       "~^",
	BinaryMul:        "*",
	BinaryDiv:        "/",
	BinaryMod:        "%",
	BinaryAdd:        "+",
	BinarySub:        "-",
	BinaryPow:        "**",
}

func (op BinaryOp) String() string {
	if op >= 0 && int(op) < len(binaryOpNames) {
		return binaryOpNames[op]
	}
	return "?"
}

// ParseBinaryOp maps an operator token to a BinaryOp. "^~" is accepted as
// a spelling of "~^".
func ParseBinaryOp(s string) (BinaryOp, bool) {
	if s == "^~" {
		return BinaryXnor, true
	}
	for i, name := range binaryOpNames {
		if name == s {
			return BinaryOp(i), true
		}
	}
	return 0, false
}
