package eval

import (
	"testing"

	"github.com/golangrdl/gordl/ast"
	"github.com/golangrdl/gordl/internal/testutil"
	"github.com/golangrdl/gordl/rdl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeafLiterals(t *testing.T) {
	tests := []struct {
		name string
		expr ast.Expr
		want rdl.Literal
	}{
		{"number", testutil.Num(42), rdl.NumberLit(42)},
		{"sized", testutil.Sized(4, 0xa), rdl.SizedNumberLit(4, 0xa)},
		{"bool", testutil.Bool(true), rdl.BoolLit(true)},
		{"string", testutil.Str("hi"), rdl.StringLit("hi")},
		{"access", testutil.Access(ast.AccessR), rdl.AccessLit(ast.AccessR)},
		{"addressing", testutil.Addressing(ast.AddressingCompact), rdl.AddressingLit(ast.AddressingCompact)},
		{"onwrite", testutil.OnWrite(ast.OnWriteOneClear), rdl.OnWriteLit(ast.OnWriteOneClear)},
		{"enumerator", testutil.Enumerator("E", "a"), rdl.EnumLit("E", "a")},
		{"paren", testutil.Paren(testutil.Num(3)), rdl.NumberLit(3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(tt.expr)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s, want %s", got, tt.want)
			assert.Equal(t, tt.want.Kind(), got.Kind())
		})
	}
}

func TestShiftLeft(t *testing.T) {
	for _, tc := range []struct{ a, b uint64 }{{1, 0}, {1, 4}, {3, 10}, {0xff, 8}, {1, 63}} {
		got, err := Evaluate(testutil.Binary(ast.BinaryShiftLeft, testutil.Num(tc.a), testutil.Num(tc.b)))
		require.NoError(t, err)
		n, ok := got.Number()
		require.True(t, ok)
		assert.Equal(t, tc.a<<tc.b, n)
	}

	got, err := Evaluate(testutil.Binary(ast.BinaryShiftLeft, testutil.Num(1), testutil.Num(64)))
	require.NoError(t, err)
	n, _ := got.Number()
	assert.Zero(t, n)
}

func TestShiftLeftNonNumeric(t *testing.T) {
	cases := []ast.Expr{
		testutil.Binary(ast.BinaryShiftLeft, testutil.Bool(true), testutil.Num(1)),
		testutil.Binary(ast.BinaryShiftLeft, testutil.Num(1), testutil.Str("x")),
		testutil.Binary(ast.BinaryShiftLeft, testutil.Access(ast.AccessRW), testutil.Num(1)),
	}
	for _, e := range cases {
		_, err := Evaluate(e)
		require.Error(t, err)
		assert.ErrorIs(t, err, rdl.ErrTypeMismatch)

		var rerr *rdl.Error
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, "<<", rerr.Operator)
		assert.Equal(t, "number", rerr.Expected)
	}
}

func TestBinaryArithmetic(t *testing.T) {
	num := testutil.Num
	tests := []struct {
		op   ast.BinaryOp
		a, b uint64
		want uint64
	}{
		{ast.BinaryAdd, 2, 3, 5},
		{ast.BinarySub, 2, 3, ^uint64(0)},
		{ast.BinaryMul, 6, 7, 42},
		{ast.BinaryDiv, 7, 2, 3},
		{ast.BinaryMod, 7, 2, 1},
		{ast.BinaryPow, 2, 10, 1024},
		{ast.BinaryShiftRight, 0x80, 4, 0x8},
		{ast.BinaryAnd, 0xc, 0xa, 0x8},
		{ast.BinaryOr, 0xc, 0xa, 0xe},
		{ast.BinaryXor, 0xc, 0xa, 0x6},
	}
	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			got, err := Evaluate(testutil.Binary(tt.op, num(tt.a), num(tt.b)))
			require.NoError(t, err)
			n, ok := got.Number()
			require.True(t, ok)
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestSizedResultTakesWiderWidth(t *testing.T) {
	got, err := Evaluate(testutil.Binary(ast.BinaryAdd, testutil.Sized(4, 0xf), testutil.Sized(8, 1)))
	require.NoError(t, err)
	assert.Equal(t, uint(8), got.Width())
	n, _ := got.Number()
	assert.Equal(t, uint64(0x10), n)

	got, err = Evaluate(testutil.Binary(ast.BinaryAdd, testutil.Sized(4, 0xf), testutil.Num(1)))
	require.NoError(t, err)
	assert.Equal(t, uint(4), got.Width())
	n, _ = got.Number()
	assert.Zero(t, n, "wraps within 4 bits")

	got, err = Evaluate(testutil.Binary(ast.BinaryXnor, testutil.Sized(4, 0xc), testutil.Sized(4, 0xa)))
	require.NoError(t, err)
	n, _ = got.Number()
	assert.Equal(t, uint64(0x9), n)
}

func TestDivisionByZero(t *testing.T) {
	for _, op := range []ast.BinaryOp{ast.BinaryDiv, ast.BinaryMod} {
		_, err := Evaluate(testutil.Binary(op, testutil.Num(1), testutil.Num(0)))
		assert.ErrorIs(t, err, rdl.ErrInvalidConstruct, op.String())
	}
}

func TestLogicalShortCircuit(t *testing.T) {
	num := testutil.Num
	divByZero := testutil.Binary(ast.BinaryDiv, num(1), num(0))

	v, err := Evaluate(testutil.Binary(ast.BinaryLogicalAnd, num(0), divByZero))
	require.NoError(t, err)
	assert.Equal(t, rdl.BoolLit(false), v)

	v, err = Evaluate(testutil.Binary(ast.BinaryLogicalOr, num(1), divByZero))
	require.NoError(t, err)
	assert.Equal(t, rdl.BoolLit(true), v)

	// The right operand decides, so it is evaluated.
	_, err = Evaluate(testutil.Binary(ast.BinaryLogicalAnd, num(1), divByZero))
	assert.ErrorIs(t, err, rdl.ErrInvalidConstruct)
	_, err = Evaluate(testutil.Binary(ast.BinaryLogicalOr, num(0), divByZero))
	assert.ErrorIs(t, err, rdl.ErrInvalidConstruct)

	_, err = Evaluate(testutil.Binary(ast.BinaryLogicalAnd, testutil.Str("x"), divByZero))
	assert.ErrorIs(t, err, rdl.ErrTypeMismatch)
}

func TestComparisons(t *testing.T) {
	num := testutil.Num
	tests := []struct {
		expr ast.Expr
		want bool
	}{
		{testutil.Binary(ast.BinaryLess, num(1), num(2)), true},
		{testutil.Binary(ast.BinaryGreater, num(1), num(2)), false},
		{testutil.Binary(ast.BinaryLessEq, num(2), num(2)), true},
		{testutil.Binary(ast.BinaryGreaterEq, num(1), num(2)), false},
		{testutil.Binary(ast.BinaryEq, num(3), testutil.Sized(8, 3)), true},
		{testutil.Binary(ast.BinaryNotEq, testutil.Str("a"), testutil.Str("b")), true},
		{testutil.Binary(ast.BinaryEq, testutil.Access(ast.AccessR), testutil.Access(ast.AccessR)), true},
		{testutil.Binary(ast.BinaryLogicalAnd, testutil.Bool(true), num(0)), false},
		{testutil.Binary(ast.BinaryLogicalOr, num(0), testutil.Bool(true)), true},
	}
	for i, tt := range tests {
		got, err := Evaluate(tt.expr)
		require.NoError(t, err, "case %d", i)
		b, ok := got.Bool()
		require.True(t, ok, "case %d", i)
		assert.Equal(t, tt.want, b, "case %d", i)
	}
}

func TestEqualityRequiresSameKind(t *testing.T) {
	_, err := Evaluate(testutil.Binary(ast.BinaryEq, testutil.Num(1), testutil.Bool(true)))
	assert.ErrorIs(t, err, rdl.ErrTypeMismatch)

	_, err = Evaluate(testutil.Binary(ast.BinaryLess, testutil.Str("a"), testutil.Str("b")))
	assert.ErrorIs(t, err, rdl.ErrTypeMismatch)

	_, err = Evaluate(testutil.Binary(ast.BinaryLogicalAnd, testutil.Str("a"), testutil.Bool(true)))
	assert.ErrorIs(t, err, rdl.ErrTypeMismatch)
}

func TestUnary(t *testing.T) {
	tests := []struct {
		name string
		expr ast.Expr
		want rdl.Literal
	}{
		{"not bool", testutil.Unary(ast.UnaryNot, testutil.Bool(false)), rdl.BoolLit(true)},
		{"not number", testutil.Unary(ast.UnaryNot, testutil.Num(5)), rdl.BoolLit(false)},
		{"plus", testutil.Unary(ast.UnaryPlus, testutil.Num(5)), rdl.NumberLit(5)},
		{"minus sized", testutil.Unary(ast.UnaryMinus, testutil.Sized(4, 1)), rdl.SizedNumberLit(4, 0xf)},
		{"invert sized", testutil.Unary(ast.UnaryInvert, testutil.Sized(8, 0x0f)), rdl.SizedNumberLit(8, 0xf0)},
		{"invert unsized", testutil.Unary(ast.UnaryInvert, testutil.Num(0)), rdl.NumberLit(^uint64(0))},
		{"and all ones", testutil.Unary(ast.UnaryAnd, testutil.Sized(4, 0xf)), rdl.BoolLit(true)},
		{"and partial", testutil.Unary(ast.UnaryAnd, testutil.Sized(4, 0x7)), rdl.BoolLit(false)},
		{"and unsized", testutil.Unary(ast.UnaryAnd, testutil.Num(7)), rdl.BoolLit(true)},
		{"nand", testutil.Unary(ast.UnaryNand, testutil.Sized(4, 0x7)), rdl.BoolLit(true)},
		{"or", testutil.Unary(ast.UnaryOr, testutil.Num(0)), rdl.BoolLit(false)},
		{"nor", testutil.Unary(ast.UnaryNor, testutil.Num(0)), rdl.BoolLit(true)},
		{"xor", testutil.Unary(ast.UnaryXor, testutil.Num(7)), rdl.BoolLit(true)},
		{"xnor", testutil.Unary(ast.UnaryXnor, testutil.Num(3)), rdl.BoolLit(true)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want.Kind(), got.Kind())
			assert.True(t, tt.want.Equal(got), "got %s, want %s", got, tt.want)
		})
	}

	_, err := Evaluate(testutil.Unary(ast.UnaryInvert, testutil.Bool(true)))
	assert.ErrorIs(t, err, rdl.ErrTypeMismatch)
	_, err = Evaluate(testutil.Unary(ast.UnaryNot, testutil.Str("s")))
	assert.ErrorIs(t, err, rdl.ErrTypeMismatch)
}

func TestTernary(t *testing.T) {
	got, err := Evaluate(testutil.Ternary(testutil.Bool(true), testutil.Num(1), testutil.Num(2)))
	require.NoError(t, err)
	assert.Equal(t, "1", got.String())

	got, err = Evaluate(testutil.Ternary(testutil.Num(0), testutil.Str("a"), testutil.Str("b")))
	require.NoError(t, err)
	assert.Equal(t, `"b"`, got.String())

	_, err = Evaluate(testutil.Ternary(testutil.Bool(true), testutil.Num(1), testutil.Str("b")))
	assert.ErrorIs(t, err, rdl.ErrTypeMismatch)

	_, err = Evaluate(testutil.Ternary(testutil.Str("c"), testutil.Num(1), testutil.Num(2)))
	assert.ErrorIs(t, err, rdl.ErrTypeMismatch)
}

func TestNestedErrorsPropagate(t *testing.T) {
	e := testutil.Binary(ast.BinaryAdd, testutil.Num(1),
		testutil.Paren(testutil.Binary(ast.BinaryShiftLeft, testutil.Bool(true), testutil.Num(2))))
	_, err := Evaluate(e)
	assert.ErrorIs(t, err, rdl.ErrTypeMismatch)
}

func TestUnsupportedForms(t *testing.T) {
	prop := ast.NewIdent("reset", ast.Span{})
	tests := []struct {
		expr      ast.Expr
		construct string
	}{
		{&ast.Concat{Elems: []ast.Expr{testutil.Num(1)}}, "concatenation"},
		{&ast.MultiConcat{Count: testutil.Num(2)}, "multiple concatenation"},
		{&ast.WidthCast{Width: testutil.Num(4), X: testutil.Num(1)}, "width cast"},
		{&ast.TypeCast{Type: "longint", X: testutil.Num(1)}, "type cast"},
		{&ast.BoolCast{X: testutil.Num(1)}, "boolean cast"},
		{&ast.InstanceRef{}, "instance reference"},
		{&ast.InstanceRef{Prop: &prop}, "property reference"},
		{&ast.StructLiteral{}, "struct literal"},
		{&ast.ArrayLiteral{}, "array literal"},
	}
	for _, tt := range tests {
		t.Run(tt.construct, func(t *testing.T) {
			_, err := Evaluate(tt.expr)
			require.ErrorIs(t, err, rdl.ErrUnsupportedConstruct)
			var rerr *rdl.Error
			require.ErrorAs(t, err, &rerr)
			assert.Equal(t, tt.construct, rerr.Construct)
		})
	}
}

func TestEvaluateRhsPrecedence(t *testing.T) {
	got, err := EvaluateRhs(&ast.PrecedenceRhs{Value: ast.PrecedenceHW})
	require.NoError(t, err)
	p, ok := got.Precedence()
	require.True(t, ok)
	assert.Equal(t, ast.PrecedenceHW, p)

	got, err = EvaluateRhs(testutil.Num(1))
	require.NoError(t, err)
	assert.Equal(t, rdl.LitNumber, got.Kind())

	_, err = EvaluateRhs(nil)
	assert.ErrorIs(t, err, rdl.ErrInternal)
}

func TestUint(t *testing.T) {
	n, err := Uint(testutil.Binary(ast.BinaryMul, testutil.Num(4), testutil.Num(4)), "stride")
	require.NoError(t, err)
	assert.Equal(t, uint64(16), n)

	_, err = Uint(testutil.Bool(true), "stride")
	require.ErrorIs(t, err, rdl.ErrInvalidConstruct)
	assert.Contains(t, err.Error(), "stride must be a number, got boolean")
}

func TestZeroWidthBits(t *testing.T) {
	_, err := Evaluate(testutil.Sized(0, 1))
	assert.ErrorIs(t, err, rdl.ErrInvalidConstruct)
}

func TestOperatorTableComplete(t *testing.T) {
	for op := ast.UnaryNot; op <= ast.UnaryXnor; op++ {
		sig, ok := unarySignature(op)
		assert.True(t, ok, op.String())
		assert.NotZero(t, sig.operands, op.String())
	}
	for op := ast.BinaryLogicalAnd; op <= ast.BinaryPow; op++ {
		sig, ok := binarySignature(op)
		assert.True(t, ok, op.String())
		assert.NotZero(t, sig.operands, op.String())
	}
	assert.Equal(t, "number or boolean", truthy.String())
}
