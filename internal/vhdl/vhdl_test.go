package vhdl_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golangrdl/gordl/ast"
	"github.com/golangrdl/gordl/internal/elaborator"
	tu "github.com/golangrdl/gordl/internal/testutil"
	"github.com/golangrdl/gordl/internal/vhdl"
	"github.com/golangrdl/gordl/rdl"
)

func hwField(name string, hw ast.AccessType, opts ...tu.InstOpt) *ast.Component {
	return tu.Anon(ast.ComponentField, tu.Insts(tu.Inst(name, opts...)),
		tu.Prop("hw", tu.Access(hw)))
}

func sample(t *testing.T) *rdl.Root {
	t.Helper()
	top := tu.Anon(ast.ComponentAddrMap, tu.Insts(tu.Inst("periph")),
		tu.Anon(ast.ComponentReg, tu.Insts(tu.Inst("ctrl")),
			hwField("a", ast.AccessRW),
			hwField("b", ast.AccessR, tu.Range(7, 4)),
			hwField("c", ast.AccessW),
			hwField("d", ast.AccessNA)),
		tu.Anon(ast.ComponentReg, tu.Insts(tu.Inst("arr", tu.Dims(2))),
			tu.Anon(ast.ComponentField, tu.Insts(tu.Inst("x")))))
	lone := tu.Anon(ast.ComponentReg, tu.Insts(tu.Inst("lone")),
		tu.Anon(ast.ComponentField, tu.Insts(tu.Inst("f"))))
	root, err := elaborator.Elaborate(tu.Root(top, lone), elaborator.Config{})
	require.NoError(t, err)
	return root
}

func TestPorts(t *testing.T) {
	root := sample(t)
	m, ok := root.Node("periph").(*rdl.AddrMap)
	require.True(t, ok)

	ports := vhdl.Ports(m)
	require.GreaterOrEqual(t, len(ports), 5)
	assert.Equal(t, "bus_addr", ports[0].Name)
	assert.Equal(t, "bus_write_valid", ports[4].Name)

	assert.Equal(t, []vhdl.Port{
		{Name: "ctrl_a_out", Dir: "out", Type: "std_logic"},
		{Name: "ctrl_a_in", Dir: "in", Type: "std_logic"},
		{Name: "ctrl_a_we", Dir: "in", Type: "std_logic"},
		{Name: "ctrl_b", Dir: "out", Type: "std_logic_vector(3 downto 0)"},
		{Name: "ctrl_c", Dir: "in", Type: "std_logic"},
		{Name: "ctrl_c_we", Dir: "in", Type: "std_logic"},
		{Name: "arr_0_x_out", Dir: "out", Type: "std_logic"},
		{Name: "arr_0_x_in", Dir: "in", Type: "std_logic"},
		{Name: "arr_0_x_we", Dir: "in", Type: "std_logic"},
		{Name: "arr_1_x_out", Dir: "out", Type: "std_logic"},
		{Name: "arr_1_x_in", Dir: "in", Type: "std_logic"},
		{Name: "arr_1_x_we", Dir: "in", Type: "std_logic"},
	}, ports[5:])
}

func TestIdentifier(t *testing.T) {
	tests := map[string]string{
		"ctrl.en":     "ctrl_en",
		"regs[2].en":  "regs_2_en",
		"m[1][3].r.f": "m_1_3_r_f",
		"blk[0]":      "blk_0",
		"plain":       "plain",
	}
	for in, want := range tests {
		assert.Equal(t, want, vhdl.Identifier(in), in)
	}
}

func TestGenerate(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, vhdl.Generate(&buf, sample(t)))
	out := buf.String()

	assert.Contains(t, out, "-- Auto-generated VHDL")
	assert.Contains(t, out, "entity periph is\n")
	assert.Contains(t, out, "        bus_addr : in std_logic_vector(31 downto 0);\n")
	assert.Contains(t, out, "        ctrl_b : out std_logic_vector(3 downto 0);\n")
	assert.Contains(t, out, "        arr_1_x_we : in std_logic\n    );\n")
	assert.Contains(t, out, "architecture rtl of periph is")
	assert.Contains(t, out, "    -- arr_1 @ 0x8\n")
	assert.Contains(t, out, "ctrl_b [7:4] sw=rw hw=r")
	assert.NotContains(t, out, "ctrl_d")
	assert.NotContains(t, out, "lone")
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("end entity;")))
}

func TestGenerateNil(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, vhdl.Generate(&buf, nil))
	assert.Equal(t, "-- Auto-generated VHDL from a register description\n", buf.String())
}
