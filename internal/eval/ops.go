package eval

import (
	"math/bits"
	"strings"

	"github.com/golangrdl/gordl/ast"
	"github.com/golangrdl/gordl/rdl"
)

// kindSet is a set of literal kinds accepted by an operator.
type kindSet uint16

func kinds(ks ...rdl.LiteralKind) kindSet {
	var s kindSet
	for _, k := range ks {
		s |= 1 << uint(k)
	}
	return s
}

func (s kindSet) has(k rdl.LiteralKind) bool { return s&(1<<uint(k)) != 0 }

// String renders the set as "number or boolean".
func (s kindSet) String() string {
	var names []string
	for k := rdl.LitNumber; k <= rdl.LitStruct; k++ {
		if s.has(k) {
			names = append(names, k.String())
		}
	}
	return strings.Join(names, " or ")
}

var (
	numeric = kinds(rdl.LitNumber)
	truthy  = kinds(rdl.LitNumber, rdl.LitBoolean)
	scalar  = kinds(rdl.LitNumber, rdl.LitBoolean, rdl.LitString, rdl.LitAccessType,
		rdl.LitOnReadType, rdl.LitOnWriteType, rdl.LitAddressingType, rdl.LitPrecedence, rdl.LitEnum)
)

// signature declares the operand kinds an operator accepts and the kind it
// produces. sameKind additionally requires both operands of a binary
// operator to have the same kind.
type signature struct {
	operands kindSet
	sameKind bool
	result   rdl.LiteralKind
}

var unaryOps = [...]signature{
	ast.UnaryNot:    {operands: truthy, result: rdl.LitBoolean},
	ast.UnaryPlus:   {operands: numeric, result: rdl.LitNumber},
	ast.UnaryMinus:  {operands: numeric, result: rdl.LitNumber},
	ast.UnaryInvert: {operands: numeric, result: rdl.LitNumber},
	ast.UnaryAnd:    {operands: numeric, result: rdl.LitBoolean},
	ast.UnaryNand:   {operands: numeric, result: rdl.LitBoolean},
	ast.UnaryOr:     {operands: numeric, result: rdl.LitBoolean},
	ast.UnaryNor:    {operands: numeric, result: rdl.LitBoolean},
	ast.UnaryXor:    {operands: numeric, result: rdl.LitBoolean},
	ast.UnaryXnor:   {operands: numeric, result: rdl.LitBoolean},
}

var binaryOps = [...]signature{
	ast.BinaryLogicalAnd: {operands: truthy, result: rdl.LitBoolean},
	ast.BinaryLogicalOr:  {operands: truthy, result: rdl.LitBoolean},
	ast.BinaryLess:       {operands: numeric, result: rdl.LitBoolean},
	ast.BinaryGreater:    {operands: numeric, result: rdl.LitBoolean},
	ast.BinaryLessEq:     {operands: numeric, result: rdl.LitBoolean},
	ast.BinaryGreaterEq:  {operands: numeric, result: rdl.LitBoolean},
	ast.BinaryEq:         {operands: scalar, sameKind: true, result: rdl.LitBoolean},
	ast.BinaryNotEq:      {operands: scalar, sameKind: true, result: rdl.LitBoolean},
	ast.BinaryShiftRight: {operands: numeric, result: rdl.LitNumber},
	ast.BinaryShiftLeft:  {operands: numeric, result: rdl.LitNumber},
	ast.BinaryAnd:        {operands: numeric, result: rdl.LitNumber},
	ast.BinaryOr:         {operands: numeric, result: rdl.LitNumber},
	ast.BinaryXor:        {operands: numeric, result: rdl.LitNumber},
	ast.BinaryXnor:       {operands: numeric, result: rdl.LitNumber},
	ast.BinaryMul:        {operands: numeric, result: rdl.LitNumber},
	ast.BinaryDiv:        {operands: numeric, result: rdl.LitNumber},
	ast.BinaryMod:        {operands: numeric, result: rdl.LitNumber},
	ast.BinaryAdd:        {operands: numeric, result: rdl.LitNumber},
	ast.BinarySub:        {operands: numeric, result: rdl.LitNumber},
	ast.BinaryPow:        {operands: numeric, result: rdl.LitNumber},
}

func unarySignature(op ast.UnaryOp) (signature, bool) {
	if op < 0 || int(op) >= len(unaryOps) {
		return signature{}, false
	}
	return unaryOps[op], true
}

func binarySignature(op ast.BinaryOp) (signature, bool) {
	if op < 0 || int(op) >= len(binaryOps) {
		return signature{}, false
	}
	return binaryOps[op], true
}

// checkUnary validates x against op's signature.
func checkUnary(op ast.UnaryOp, x rdl.Literal, span ast.Span) error {
	sig, ok := unarySignature(op)
	if !ok {
		return rdl.Internal(span, "unary operator %d has no signature", int(op))
	}
	if !sig.operands.has(x.Kind()) {
		return rdl.TypeMismatch(op.String(), sig.operands.String(), x.Kind(), span)
	}
	return nil
}

// checkBinary validates x and y against op's signature.
func checkBinary(op ast.BinaryOp, x, y rdl.Literal, span ast.Span) error {
	sig, ok := binarySignature(op)
	if !ok {
		return rdl.Internal(span, "binary operator %d has no signature", int(op))
	}
	if !sig.operands.has(x.Kind()) {
		return rdl.TypeMismatch(op.String(), sig.operands.String(), x.Kind(), span)
	}
	if sig.sameKind {
		if y.Kind() != x.Kind() {
			return rdl.TypeMismatch(op.String(), x.Kind().String(), y.Kind(), span)
		}
		return nil
	}
	if !sig.operands.has(y.Kind()) {
		return rdl.TypeMismatch(op.String(), sig.operands.String(), y.Kind(), span)
	}
	return nil
}

// applyUnary computes op on an operand already checked by checkUnary.
func applyUnary(op ast.UnaryOp, x rdl.Literal, span ast.Span) (rdl.Literal, error) {
	if op == ast.UnaryNot {
		t, _ := x.Truth()
		return rdl.BoolLit(!t), nil
	}

	v, _ := x.Number()
	w := x.Width()
	switch op {
	case ast.UnaryPlus:
		return x, nil
	case ast.UnaryMinus:
		return number(w, -v), nil
	case ast.UnaryInvert:
		return number(w, ^v), nil
	}

	// Reductions operate on the declared width of a sized number, or on the
	// significant bits of an unsized one.
	rw := w
	if rw == 0 {
		rw = uint(max(bits.Len64(v), 1))
	}
	all := v == rdl.Mask(^uint64(0), rw)
	anySet := v != 0
	odd := bits.OnesCount64(v)%2 == 1
	switch op {
	case ast.UnaryAnd:
		return rdl.BoolLit(all), nil
	case ast.UnaryNand:
		return rdl.BoolLit(!all), nil
	case ast.UnaryOr:
		return rdl.BoolLit(anySet), nil
	case ast.UnaryNor:
		return rdl.BoolLit(!anySet), nil
	case ast.UnaryXor:
		return rdl.BoolLit(odd), nil
	case ast.UnaryXnor:
		return rdl.BoolLit(!odd), nil
	}
	return rdl.Literal{}, rdl.Internal(span, "unhandled unary operator %s", op)
}

// applyBinary computes op on operands already checked by checkBinary.
func applyBinary(op ast.BinaryOp, x, y rdl.Literal, span ast.Span) (rdl.Literal, error) {
	switch op {
	case ast.BinaryLogicalAnd, ast.BinaryLogicalOr:
		a, _ := x.Truth()
		b, _ := y.Truth()
		if op == ast.BinaryLogicalAnd {
			return rdl.BoolLit(a && b), nil
		}
		return rdl.BoolLit(a || b), nil
	case ast.BinaryEq:
		return rdl.BoolLit(x.Equal(y)), nil
	case ast.BinaryNotEq:
		return rdl.BoolLit(!x.Equal(y)), nil
	}

	a, _ := x.Number()
	b, _ := y.Number()
	w := max(x.Width(), y.Width())

	switch op {
	case ast.BinaryLess:
		return rdl.BoolLit(a < b), nil
	case ast.BinaryGreater:
		return rdl.BoolLit(a > b), nil
	case ast.BinaryLessEq:
		return rdl.BoolLit(a <= b), nil
	case ast.BinaryGreaterEq:
		return rdl.BoolLit(a >= b), nil
	case ast.BinaryShiftLeft:
		if b >= 64 {
			return number(w, 0), nil
		}
		return number(w, a<<b), nil
	case ast.BinaryShiftRight:
		if b >= 64 {
			return number(w, 0), nil
		}
		return number(w, a>>b), nil
	case ast.BinaryAnd:
		return number(w, a&b), nil
	case ast.BinaryOr:
		return number(w, a|b), nil
	case ast.BinaryXor:
		return number(w, a^b), nil
	case ast.BinaryXnor:
		return number(w, ^(a ^ b)), nil
	case ast.BinaryMul:
		return number(w, a*b), nil
	case ast.BinaryDiv:
		if b == 0 {
			return rdl.Literal{}, rdl.Invalid(span, "division by zero")
		}
		return number(w, a/b), nil
	case ast.BinaryMod:
		if b == 0 {
			return rdl.Literal{}, rdl.Invalid(span, "modulo by zero")
		}
		return number(w, a%b), nil
	case ast.BinaryAdd:
		return number(w, a+b), nil
	case ast.BinarySub:
		return number(w, a-b), nil
	case ast.BinaryPow:
		return number(w, pow(a, b)), nil
	}
	return rdl.Literal{}, rdl.Internal(span, "unhandled binary operator %s", op)
}

// number returns a sized literal when w > 0, otherwise an unsized one.
func number(w uint, v uint64) rdl.Literal {
	if w > 0 {
		return rdl.SizedNumberLit(w, v)
	}
	return rdl.NumberLit(v)
}

// pow computes base**exp modulo 2^64.
func pow(base, exp uint64) uint64 {
	result := uint64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}
