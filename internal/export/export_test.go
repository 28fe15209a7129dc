package export_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golangrdl/gordl/ast"
	"github.com/golangrdl/gordl/internal/elaborator"
	"github.com/golangrdl/gordl/internal/expand"
	"github.com/golangrdl/gordl/internal/export"
	tu "github.com/golangrdl/gordl/internal/testutil"
	"github.com/golangrdl/gordl/rdl"
)

func sample(t *testing.T, policy expand.RangePolicy, fieldOpts ...tu.InstOpt) *rdl.Root {
	t.Helper()
	top := tu.Anon(ast.ComponentAddrMap, tu.Insts(tu.Inst("top")),
		tu.Default("sw", tu.Access(ast.AccessRW)),
		tu.Anon(ast.ComponentSignal, tu.Insts(tu.Inst("irq"))),
		tu.Anon(ast.ComponentReg, tu.Insts(tu.Inst("r", tu.Dims(2))),
			tu.Anon(ast.ComponentField, tu.Insts(tu.Inst("a", fieldOpts...))),
			tu.Anon(ast.ComponentField, tu.Insts(tu.Inst("b", tu.Reset(1))),
				tu.Prop("desc", tu.Str("b field")))))
	root, err := elaborator.Elaborate(tu.Root(top), elaborator.Config{RangePolicy: policy})
	require.NoError(t, err)
	return root
}

func TestFromRootNil(t *testing.T) {
	doc := export.FromRoot(nil)
	assert.Equal(t, export.Format, doc.Format)
	assert.Empty(t, doc.Nodes)
	require.NoError(t, export.Validate(doc))

	var buf bytes.Buffer
	require.NoError(t, export.Write(&buf, doc))
	assert.JSONEq(t, `{"format":"gordl/v1","nodes":[]}`, buf.String())
}

func TestFromRoot(t *testing.T) {
	doc := export.FromRoot(sample(t, expand.RangeReject, tu.Range(3, 0), tu.Reset(5)))
	require.Len(t, doc.Nodes, 1)

	top := doc.Nodes[0]
	assert.Equal(t, "addrmap", top.Kind)
	assert.Equal(t, "top", top.Path)
	require.NotNil(t, top.Size)
	assert.Equal(t, uint64(8), *top.Size)
	require.Len(t, top.Defaults, 1)
	assert.Equal(t, "sw", top.Defaults[0].Name)
	assert.Equal(t, "accesstype", top.Defaults[0].Value.Kind)
	assert.Equal(t, "rw", top.Defaults[0].Value.Text)

	require.Len(t, top.Children, 3)
	irq := top.Children[0]
	assert.Equal(t, "signal", irq.Kind)
	assert.Nil(t, irq.Offset)
	require.NotNil(t, irq.Width)
	assert.Equal(t, uint64(1), *irq.Width)

	r1 := top.Children[2]
	assert.Equal(t, "r[1]", r1.Name)
	assert.Equal(t, "top.r[1]", r1.Path)
	assert.Equal(t, []int{1}, r1.Index)
	require.NotNil(t, r1.Offset)
	assert.Equal(t, uint64(4), *r1.Offset)
	assert.Equal(t, uint64(4), *r1.Address)

	a := r1.Children[0]
	assert.Equal(t, "top.r[1].a", a.Path)
	assert.Equal(t, uint64(3), *a.Msb)
	assert.Equal(t, uint64(0), *a.Lsb)
	assert.Equal(t, uint64(4), *a.Width)
	require.Len(t, a.Properties, 1)
	assert.Equal(t, "reset", a.Properties[0].Name)
	require.NotNil(t, a.Properties[0].Value.Number)
	assert.Equal(t, uint64(5), *a.Properties[0].Value.Number)

	b := r1.Children[1]
	assert.Equal(t, uint64(4), *b.Lsb)
	names := []string{}
	for _, p := range b.Properties {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"desc", "reset"}, names)
	assert.Equal(t, `"b field"`, b.Properties[0].Value.Text)

	require.NoError(t, export.Validate(doc))
}

func TestDiagnosticsExported(t *testing.T) {
	doc := export.FromRoot(sample(t, expand.RangeCoerce, tu.Range(0, 2)))
	require.Len(t, doc.Diagnostics, 2)
	assert.Equal(t, "top.r[1].a", doc.Diagnostics[1].Path)
	d := doc.Diagnostics[0]
	assert.Equal(t, "warning", d.Severity)
	assert.Equal(t, "top.r[0].a", d.Path)
	assert.NotEmpty(t, d.Code)
	require.NoError(t, export.Validate(doc))
}

func TestWriteRoundTrip(t *testing.T) {
	doc := export.FromRoot(sample(t, expand.RangeReject))
	var buf bytes.Buffer
	require.NoError(t, export.Write(&buf, doc))

	var back export.Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, doc, back)

	v, err := export.NewValidator()
	require.NoError(t, err)
	require.NoError(t, v.ValidateJSON(buf.Bytes()))
}

func TestValidateRejects(t *testing.T) {
	v, err := export.NewValidator()
	require.NoError(t, err)

	tests := []struct {
		name string
		json string
	}{
		{"wrong format", `{"format":"other","nodes":[]}`},
		{"unknown kind", `{"format":"gordl/v1","nodes":[{"kind":"block","name":"a","path":"a"}]}`},
		{"extra key", `{"format":"gordl/v1","nodes":[],"extra":1}`},
		{"addrmap without offset", `{"format":"gordl/v1","nodes":[{"kind":"addrmap","name":"a","path":"a"}]}`},
		{"field without bits", `{"format":"gordl/v1","nodes":[{"kind":"field","name":"f","path":"f"}]}`},
		{"field lsb above msb", `{"format":"gordl/v1","nodes":[{"kind":"field","name":"f","path":"f","msb":1,"lsb":2,"width":1}]}`},
		{"field width mismatch", `{"format":"gordl/v1","nodes":[{"kind":"field","name":"f","path":"f","msb":3,"lsb":0,"width":2}]}`},
		{"number without value", `{"format":"gordl/v1","nodes":[{"kind":"signal","name":"s","path":"s","width":1,"properties":[{"name":"signalwidth","value":{"kind":"number","text":"1"}}]}]}`},
		{"bad severity", `{"format":"gordl/v1","nodes":[],"diagnostics":[{"severity":"fatal","code":"x","message":"m"}]}`},
		{"not json", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, v.ValidateJSON([]byte(tt.json)))
		})
	}
}

func TestValidatorErrors(t *testing.T) {
	v, err := export.NewValidator()
	require.NoError(t, err)

	doc := export.FromRoot(sample(t, expand.RangeReject))
	assert.Nil(t, v.Errors(doc))

	doc.Nodes[0].Kind = "block"
	doc.Format = "v0"
	errs := v.Errors(doc)
	assert.NotEmpty(t, errs)
}
