package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golangrdl/gordl/ast"
)

func TestSpanString(t *testing.T) {
	tests := []struct {
		span ast.Span
		want string
		zero bool
	}{
		{ast.Span{File: "a.yaml", Line: 3, Column: 5}, "a.yaml:3:5", false},
		{ast.Span{File: "a.yaml", Line: 3}, "a.yaml:3", false},
		{ast.Span{File: "a.yaml"}, "a.yaml", false},
		{ast.Span{Line: 7}, "7", false},
		{ast.Span{Line: 7, Column: 2}, "7:2", false},
		{ast.Span{}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.span.String())
			assert.Equal(t, tt.zero, tt.span.IsZero())
		})
	}
}

func TestNewIdent(t *testing.T) {
	span := ast.Span{File: "x", Line: 1, Column: 1}
	id := ast.NewIdent("ctrl", span)
	assert.Equal(t, "ctrl", id.Name)
	assert.Equal(t, span, id.Span)
}

func TestIsIdentifier(t *testing.T) {
	for _, s := range []string{"a", "_", "ctrl", "uart_t", "R2", "_x9"} {
		assert.True(t, ast.IsIdentifier(s), s)
	}
	for _, s := range []string{"", "1r", "f[", "f[]", "a.b", "a-b", "a b", "é"} {
		assert.False(t, ast.IsIdentifier(s), s)
	}
}

func TestDisplayName(t *testing.T) {
	id := ast.NewIdent("uart_t", ast.Span{})
	assert.Equal(t, "uart_t", (&ast.Component{Type: ast.ComponentAddrMap, Name: &id}).DisplayName())
	assert.Empty(t, (&ast.Component{Type: ast.ComponentReg}).DisplayName())
}

func TestComponentTypeRoundTrip(t *testing.T) {
	for _, ct := range []ast.ComponentType{
		ast.ComponentField, ast.ComponentReg, ast.ComponentRegFile,
		ast.ComponentAddrMap, ast.ComponentSignal, ast.ComponentMem,
		ast.ComponentEnum, ast.ComponentConstraint,
	} {
		got, ok := ast.ParseComponentType(ct.String())
		require.True(t, ok, ct.String())
		assert.Equal(t, ct, got)
	}
	assert.Equal(t, "addrmap", ast.ComponentAddrMap.String())
	assert.Equal(t, "unknown", ast.ComponentType(-1).String())

	_, ok := ast.ParseComponentType("block")
	assert.False(t, ok)
}

func TestOperators(t *testing.T) {
	for _, s := range []string{"!", "+", "-", "~", "&", "~&", "|", "~|", "^", "~^"} {
		op, ok := ast.ParseUnaryOp(s)
		require.True(t, ok, s)
		assert.Equal(t, s, op.String())
	}
	for _, s := range []string{"&&", "||", "<", ">", "<=", ">=", "==", "!=", ">>", "<<",
		"&", "|", "^", "~^", "*", "/", "%", "+", "-", "**"} {
		op, ok := ast.ParseBinaryOp(s)
		require.True(t, ok, s)
		assert.Equal(t, s, op.String())
	}

	u, ok := ast.ParseUnaryOp("^~")
	require.True(t, ok)
	assert.Equal(t, ast.UnaryXnor, u)
	b, ok := ast.ParseBinaryOp("^~")
	require.True(t, ok)
	assert.Equal(t, ast.BinaryXnor, b)

	_, ok = ast.ParseBinaryOp("=")
	assert.False(t, ok)
	_, ok = ast.ParseUnaryOp("?")
	assert.False(t, ok)
	assert.Equal(t, "?", ast.BinaryOp(99).String())
	assert.Equal(t, "?", ast.UnaryOp(-1).String())
}

func TestAccessType(t *testing.T) {
	tests := []struct {
		name     string
		readable bool
		writable bool
	}{
		{"na", false, false},
		{"r", true, false},
		{"w", false, true},
		{"rw", true, true},
		{"wr", true, true},
		{"w1", false, true},
		{"rw1", true, true},
		{"wr1", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, ok := ast.ParseAccessType(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.name, a.String())
			assert.Equal(t, tt.readable, a.Readable())
			assert.Equal(t, tt.writable, a.Writable())
		})
	}

	_, ok := ast.ParseAccessType("ro")
	assert.False(t, ok)
	assert.Equal(t, "unknown", ast.AccessType(42).String())
}

func TestKeywordEnums(t *testing.T) {
	for _, s := range []string{"rclr", "rset", "ruser"} {
		v, ok := ast.ParseOnReadType(s)
		require.True(t, ok, s)
		assert.Equal(t, s, v.String())
	}
	for _, s := range []string{"woset", "woclr", "wot", "wzs", "wzc", "wzt", "wclr", "wset", "wuser"} {
		v, ok := ast.ParseOnWriteType(s)
		require.True(t, ok, s)
		assert.Equal(t, s, v.String())
	}
	for _, s := range []string{"regalign", "compact", "fullalign"} {
		v, ok := ast.ParseAddressingType(s)
		require.True(t, ok, s)
		assert.Equal(t, s, v.String())
	}
	for _, s := range []string{"sw", "hw"} {
		v, ok := ast.ParsePrecedenceType(s)
		require.True(t, ok, s)
		assert.Equal(t, s, v.String())
	}

	_, ok := ast.ParseAddressingType("packed")
	assert.False(t, ok)
	_, ok = ast.ParseOnWriteType("w1c")
	assert.False(t, ok)
}
