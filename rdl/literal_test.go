package rdl

import (
	"errors"
	"testing"

	"github.com/golangrdl/gordl/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiteralString(t *testing.T) {
	tests := []struct {
		lit  Literal
		want string
	}{
		{NumberLit(7), "7"},
		{NumberLit(255), "0xff"},
		{SizedNumberLit(4, 0x1f), "4'hf"},
		{BoolLit(true), "true"},
		{StringLit("a\"b"), `"a\"b"`},
		{AccessLit(ast.AccessRW), "rw"},
		{OnReadLit(ast.OnReadClear), "rclr"},
		{OnWriteLit(ast.OnWriteOneClear), "woclr"},
		{AddressingLit(ast.AddressingFullAlign), "fullalign"},
		{PrecedenceLit(ast.PrecedenceHW), "hw"},
		{EnumLit("mode_e", "fast"), "mode_e::fast"},
		{ArrayLit(NumberLit(1), NumberLit(2)), "'{1, 2}"},
		{StructLit("s", StructField{Name: "a", Value: BoolLit(false)}), "s'{a:false}"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.lit.String())
		})
	}
}

func TestLiteralAccessors(t *testing.T) {
	n, ok := NumberLit(3).Number()
	assert.True(t, ok)
	assert.Equal(t, uint64(3), n)

	_, ok = BoolLit(true).Number()
	assert.False(t, ok)

	b, ok := BoolLit(true).Bool()
	assert.True(t, ok)
	assert.True(t, b)

	a, ok := AccessLit(ast.AccessW).Access()
	assert.True(t, ok)
	assert.Equal(t, ast.AccessW, a)

	_, ok = NumberLit(1).Access()
	assert.False(t, ok)

	e, name, ok := EnumLit("E", "x").Enum()
	assert.True(t, ok)
	assert.Equal(t, "E", e)
	assert.Equal(t, "x", name)

	var zero Literal
	v, ok := zero.Number()
	assert.True(t, ok, "zero value is the number 0")
	assert.Zero(t, v)
}

func TestLiteralEqual(t *testing.T) {
	assert.True(t, NumberLit(5).Equal(SizedNumberLit(8, 5)))
	assert.False(t, NumberLit(1).Equal(BoolLit(true)))
	assert.True(t, ArrayLit(NumberLit(1)).Equal(ArrayLit(NumberLit(1))))
	assert.False(t, ArrayLit(NumberLit(1)).Equal(ArrayLit(NumberLit(2))))
	assert.False(t, EnumLit("A", "x").Equal(EnumLit("B", "x")))
}

func TestSizedNumberMasked(t *testing.T) {
	l := SizedNumberLit(4, 0xff)
	v, _ := l.Number()
	assert.Equal(t, uint64(0xf), v)
	assert.True(t, l.Sized())
	assert.Equal(t, uint(4), l.Width())
	assert.False(t, NumberLit(1).Sized())
}

func TestMask(t *testing.T) {
	assert.Equal(t, uint64(0xff), Mask(0xfff, 8))
	assert.Equal(t, uint64(0xfff), Mask(0xfff, 0))
	assert.Equal(t, ^uint64(0), Mask(^uint64(0), 64))
}

func TestLiteralElemsReturnsCopy(t *testing.T) {
	arr := ArrayLit(NumberLit(1), NumberLit(2))
	elems := arr.Elems()
	elems[0] = NumberLit(9)
	assert.Equal(t, "'{1, 2}", arr.String())
}

func TestProperties(t *testing.T) {
	p := NewProperties(
		Property{Name: "sw", Value: AccessLit(ast.AccessR)},
		Property{Name: "reset", Value: NumberLit(0)},
	)
	assert.Equal(t, 2, p.Len())
	assert.Equal(t, []string{"sw", "reset"}, p.Names())
	assert.True(t, p.Has("reset"))
	assert.False(t, p.Has("hw"))

	v, ok := p.Get("sw")
	require.True(t, ok)
	assert.Equal(t, "r", v.String())

	var names []string
	for name := range p.All() {
		names = append(names, name)
	}
	assert.Equal(t, []string{"sw", "reset"}, names)

	var empty Properties
	assert.Equal(t, 0, empty.Len())
	_, ok = empty.Get("sw")
	assert.False(t, ok)
}

func TestBuiltinDefaults(t *testing.T) {
	tests := []struct {
		kind Kind
		name string
		want string
	}{
		{KindField, PropSW, "rw"},
		{KindField, PropHW, "rw"},
		{KindField, PropFieldWidth, "1"},
		{KindReg, PropRegWidth, "0x20"},
		{KindMem, PropMemWidth, "0x20"},
		{KindSignal, PropSignalWidth, "1"},
		{KindAddrMap, PropAddressing, "regalign"},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String()+"/"+tt.name, func(t *testing.T) {
			v, ok := BuiltinDefault(tt.kind, tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.want, v.String())
		})
	}

	_, ok := BuiltinDefault(KindReg, PropSW)
	assert.False(t, ok)
	_, ok = BuiltinDefault(KindMem, PropMemEntries)
	assert.False(t, ok)
}

func TestEffectiveValueNearestDefaultWins(t *testing.T) {
	f := NewField(NodeSpec{Name: "f"}, 0, 0)
	g := NewField(NodeSpec{
		Name:       "g",
		Properties: NewProperties(Property{Name: PropHW, Value: AccessLit(ast.AccessNA)}),
	}, 1, 1)
	reg := NewRegister(NodeSpec{
		Name:              "r",
		DefaultProperties: NewProperties(Property{Name: PropHW, Value: AccessLit(ast.AccessW)}),
		Children:          []Node{f, g},
	}, 0)
	NewAddrMap(NodeSpec{
		Name: "top",
		DefaultProperties: NewProperties(
			Property{Name: PropHW, Value: AccessLit(ast.AccessR)},
			Property{Name: PropReset, Value: NumberLit(1)},
		),
		Children: []Node{reg},
	}, 0)

	assert.Equal(t, ast.AccessW, f.HWAccess())
	assert.Equal(t, ast.AccessNA, g.HWAccess())

	v, ok := f.Reset()
	require.True(t, ok)
	assert.Equal(t, "1", v.String())

	_, ok = EffectiveValue(reg, PropHW)
	assert.False(t, ok, "a node's own defaults do not apply to itself")
}

func TestErrorRendering(t *testing.T) {
	err := DuplicateProperty("sw", ast.Span{File: "a.rdl", Line: 3, Column: 5}).AtPath("top.r")
	assert.Equal(t, `a.rdl:3:5: top.r: duplicate property "sw"`, err.Error())
	assert.True(t, errors.Is(err, ErrDuplicateProperty))
	assert.Equal(t, "duplicate-property", err.Code())

	inner := Unsupported("concatenation", ast.Span{}).AtPath("top.r.f")
	outer := inner.AtPath("top")
	assert.Equal(t, "top.r.f", outer.Path, "innermost path is kept")
	assert.Equal(t, "top.r.f: unsupported construct: concatenation", outer.Error())

	tm := TypeMismatch("<<", "number", LitBoolean, ast.Span{Line: 2})
	assert.Equal(t, `2: type mismatch: operator "<<" expects number, got boolean`, tm.Error())
	assert.ErrorIs(t, tm, ErrTypeMismatch)

	mr := MalformedRange("f", 3, 5, ast.Span{})
	assert.Equal(t, `malformed bit range: field "f" [3:5]: msb is less than lsb`, mr.Error())
	assert.Equal(t, "malformed-range", mr.Code())

	assert.Equal(t, "unsupported-top-level", UnsupportedTopLevel("enum", ast.Span{}).Code())
	assert.Equal(t, "internal", Internal(ast.Span{}, "x").Code())
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{
		Severity: SeverityWarning,
		Code:     "malformed-range-coerced",
		Message:  "coerced",
		Path:     "top.r.f",
		Span:     ast.Span{File: "x.yaml", Line: 4},
	}
	assert.Equal(t, "[warning] x.yaml:4: top.r.f: coerced", d.String())
}
