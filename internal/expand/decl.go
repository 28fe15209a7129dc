// Package expand turns component instantiation clauses into concrete
// instances: names and array subscripts, byte offsets within the parent,
// and field bit ranges within a register.
package expand

import (
	"github.com/golangrdl/gordl/ast"
	"github.com/golangrdl/gordl/internal/eval"
	"github.com/golangrdl/gordl/rdl"
)

// MaxElements bounds the number of elements a single array declarator may
// expand to.
const MaxElements = 1 << 20

// BitRange is an evaluated [msb:lsb] specifier.
type BitRange struct {
	Msb uint64
	Lsb uint64
}

// Decl is one instance declarator with every expression evaluated.
type Decl struct {
	Name     string
	Dims     []uint64  // array dimensions, nil when not an array
	Range    *BitRange // field [msb:lsb]
	Width    uint64    // field [N], 0 when absent
	At       *uint64   // @ offset (bytes) or lsb (fields)
	Stride   *uint64   // += stride
	Align    *uint64   // %= alignment
	Reset    *rdl.Literal
	External bool
	Span     ast.Span
}

// Count returns the number of elements the declarator expands to.
func (d Decl) Count() uint64 {
	n := uint64(1)
	for _, dim := range d.Dims {
		n *= dim
	}
	return n
}

// Elements returns the array subscripts of every element in row-major
// order, or a single nil entry when the declarator is not an array.
func (d Decl) Elements() [][]int {
	if len(d.Dims) == 0 {
		return [][]int{nil}
	}
	out := make([][]int, 0, d.Count())
	idx := make([]int, len(d.Dims))
	for {
		out = append(out, append([]int(nil), idx...))
		i := len(idx) - 1
		for ; i >= 0; i-- {
			idx[i]++
			if uint64(idx[i]) < d.Dims[i] {
				break
			}
			idx[i] = 0
		}
		if i < 0 {
			return out
		}
	}
}

// Decls returns the declarators of c in declaration order. A definition
// without an instance clause yields one declarator named after the
// definition.
func Decls(c *ast.Component) ([]Decl, error) {
	if len(c.Params) > 0 {
		return nil, rdl.Unsupported("parameterized definition", c.Span)
	}
	external := c.InstType == ast.InstExternal
	if c.Insts == nil {
		if c.Name == nil {
			return nil, rdl.Invalid(c.Span, "anonymous %s definition without instances", c.Type)
		}
		if !ast.IsIdentifier(c.Name.Name) {
			return nil, rdl.Invalid(c.Span, "%s name %q is not an identifier", c.Type, c.Name.Name)
		}
		return []Decl{{Name: c.Name.Name, External: external, Span: c.Span}}, nil
	}
	if len(c.Insts.Params) > 0 {
		return nil, rdl.Unsupported("parameterized instantiation", c.Span)
	}
	if len(c.Insts.Insts) == 0 {
		return nil, rdl.Invalid(c.Span, "%s instance clause without instances", c.Type)
	}

	out := make([]Decl, 0, len(c.Insts.Insts))
	for i := range c.Insts.Insts {
		d, err := decl(c.Type, &c.Insts.Insts[i])
		if err != nil {
			return nil, err
		}
		d.External = external
		out = append(out, d)
	}
	return out, nil
}

func decl(typ ast.ComponentType, in *ast.ComponentInst) (Decl, error) {
	d := Decl{Name: in.Name.Name, Span: in.Span}
	if d.Name == "" {
		return d, rdl.Invalid(in.Span, "%s instance without a name", typ)
	}
	if !ast.IsIdentifier(d.Name) {
		return d, rdl.Invalid(in.Span, "%s instance name %q is not an identifier", typ, d.Name)
	}
	isField := typ == ast.ComponentField

	switch {
	case in.Range != nil && !isField:
		return d, rdl.Invalid(in.Span, "bit range on %s instance %q", typ, d.Name)
	case in.Range != nil && len(in.Array) > 0:
		return d, rdl.Invalid(in.Span, "field %q has both a width and a bit range", d.Name)
	case in.Range != nil:
		msb, err := eval.Uint(in.Range.Msb, "msb")
		if err != nil {
			return d, err
		}
		lsb, err := eval.Uint(in.Range.Lsb, "lsb")
		if err != nil {
			return d, err
		}
		d.Range = &BitRange{Msb: msb, Lsb: lsb}
	case isField && len(in.Array) > 1:
		return d, rdl.Invalid(in.Span, "field %q has more than one width", d.Name)
	case isField && len(in.Array) == 1:
		w, err := positive(in.Array[0], "field width")
		if err != nil {
			return d, err
		}
		d.Width = w
	case len(in.Array) > 0:
		total := uint64(1)
		for _, e := range in.Array {
			n, err := positive(e, "array size")
			if err != nil {
				return d, err
			}
			total *= n
			if total > MaxElements {
				return d, rdl.Invalid(in.Span, "array %q exceeds %d elements", d.Name, MaxElements)
			}
			d.Dims = append(d.Dims, n)
		}
	}

	var err error
	if d.At, err = optional(in.At, "address"); err != nil {
		return d, err
	}
	if d.Stride, err = optional(in.Stride, "stride"); err != nil {
		return d, err
	}
	if d.Align, err = optional(in.Align, "alignment"); err != nil {
		return d, err
	}
	if isField && (d.Stride != nil || d.Align != nil) {
		return d, rdl.Invalid(in.Span, "field %q cannot take a stride or alignment", d.Name)
	}
	if isField && d.Range != nil && d.At != nil {
		return d, rdl.Invalid(in.Span, "field %q has both a bit range and an offset", d.Name)
	}
	if typ == ast.ComponentSignal && (d.At != nil || d.Stride != nil || d.Align != nil) {
		return d, rdl.Invalid(in.Span, "signal %q cannot be placed at an address", d.Name)
	}
	if d.Align != nil && !isPow2(*d.Align) {
		return d, rdl.Invalid(in.Span, "alignment of %q must be a power of two, got %d", d.Name, *d.Align)
	}

	if in.Reset != nil {
		if !isField {
			return d, rdl.Invalid(in.Span, "reset value on %s instance %q", typ, d.Name)
		}
		v, err := eval.Evaluate(in.Reset)
		if err != nil {
			return d, err
		}
		if v.Kind() != rdl.LitNumber {
			return d, rdl.TypeMismatch("=", rdl.LitNumber.String(), v.Kind(), in.Reset.Pos())
		}
		d.Reset = &v
	}
	return d, nil
}

func positive(e ast.Expr, what string) (uint64, error) {
	n, err := eval.Uint(e, what)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, rdl.Invalid(e.Pos(), "%s must be positive", what)
	}
	return n, nil
}

func optional(e ast.Expr, what string) (*uint64, error) {
	if e == nil {
		return nil, nil
	}
	n, err := eval.Uint(e, what)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
