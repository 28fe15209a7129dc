// Package astyaml stores description ASTs as YAML documents.
//
// A document is a mapping with a single "descriptions" sequence. Each
// description or body element is a one-key mapping whose key selects the
// form:
//
//	addrmap regfile reg field mem signal  component of that type
//	component                             component with an explicit "type"
//	enum struct constraint property       type and property definitions
//	inst                                  explicit component instance
//	prop default                          property assignments, one per key
//	modifier encode post post_encode      remaining assignment forms
//
// Expressions are scalars or single-form mappings:
//
//	42, 0x10, true, "text"           number, boolean, string
//	!bits 8'hff                      sized number
//	!access rw, !onread rclr         keywords (also !onwrite, !addressing,
//	!enum mode_e::fast               !precedence) and enumerators
//	{op: "<<", x: 1, y: 4}           binary; unary when y is absent
//	{if: c, then: a, else: b}        ternary
//	{paren: e}  {concat: [...]}  {repeat: n, concat: [...]}
//	{width: w, x: e}  {type: longint, x: e}  {bool: e}
//	{ref: a.b[2], prop: p}  {array: [...]}  {struct: t, fields: {a: e}}
//
// Plain strings assigned to sw, hw, onread, onwrite, addressing and
// precedence are read as the matching keyword; quote them to keep a
// string.
package astyaml

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/golangrdl/gordl/ast"
)

// Error is a structurally malformed document.
type Error struct {
	Span ast.Span
	Msg  string
}

func (e *Error) Error() string {
	if s := e.Span.String(); s != "" {
		return s + ": " + e.Msg
	}
	return e.Msg
}

// item is a form valid both at top level and inside a component body.
type item interface {
	ast.Description
	ast.BodyElem
}

type decoder struct {
	file string
}

// Decode parses a YAML document. file names the document in spans and
// errors.
func Decode(data []byte, file string) (*ast.Root, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	d := &decoder{file: file}
	return d.document(&doc)
}

// DecodeReader reads r to the end and decodes it.
func DecodeReader(r io.Reader, file string) (*ast.Root, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return Decode(data, file)
}

func (d *decoder) document(doc *yaml.Node) (*ast.Root, error) {
	root := &ast.Root{}
	n := doc
	if n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return root, nil
		}
		n = n.Content[0]
	}
	if n.Kind == 0 || isNull(n) {
		return root, nil
	}
	err := d.fields(n, "document", func(key string, v *yaml.Node) error {
		if key != "descriptions" {
			return d.errorf(v, "unknown document key %q", key)
		}
		seq, err := d.seq(v, "descriptions")
		if err != nil {
			return err
		}
		for _, el := range seq {
			descs, err := d.description(el)
			if err != nil {
				return err
			}
			root.Descriptions = append(root.Descriptions, descs...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return root, nil
}

func (d *decoder) description(n *yaml.Node) ([]ast.Description, error) {
	key, v, err := d.single(n, "description")
	if err != nil {
		return nil, err
	}
	if key == "property" {
		p, err := d.propertyDefinition(v)
		if err != nil {
			return nil, err
		}
		return []ast.Description{p}, nil
	}
	items, ok, err := d.items(key, v)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, d.errorf(n, "unknown description %q", key)
	}
	out := make([]ast.Description, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out, nil
}

func (d *decoder) bodyElem(n *yaml.Node) ([]ast.BodyElem, error) {
	key, v, err := d.single(n, "body element")
	if err != nil {
		return nil, err
	}
	items, ok, err := d.items(key, v)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, d.errorf(n, "unknown body element %q", key)
	}
	out := make([]ast.BodyElem, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out, nil
}

// items decodes the forms shared by descriptions and body elements.
func (d *decoder) items(key string, v *yaml.Node) ([]item, bool, error) {
	var one item
	var err error
	switch key {
	case "component":
		one, err = d.component(v, 0, true)
	case "enum":
		one, err = d.enumDef(v)
	case "struct":
		one, err = d.structDef(v)
	case "constraint":
		one, err = d.constraintDef(v)
	case "inst":
		one, err = d.explicitInst(v)
	case "prop", "default":
		items, err := d.propAssignments(v, key == "default")
		return items, true, err
	case "modifier":
		one, err = d.modifier(v)
	case "encode":
		one, err = d.encode(v)
	case "post":
		one, err = d.post(v)
	case "post_encode":
		one, err = d.postEncode(v)
	default:
		typ, ok := ast.ParseComponentType(key)
		if !ok || !nodeComponent(typ) {
			return nil, false, nil
		}
		one, err = d.component(v, typ, false)
	}
	if err != nil {
		return nil, true, err
	}
	return []item{one}, true, nil
}

// nodeComponent reports whether typ has its own shorthand key.
func nodeComponent(typ ast.ComponentType) bool {
	switch typ {
	case ast.ComponentField, ast.ComponentReg, ast.ComponentRegFile,
		ast.ComponentAddrMap, ast.ComponentSignal, ast.ComponentMem:
		return true
	}
	return false
}

func (d *decoder) component(n *yaml.Node, typ ast.ComponentType, generic bool) (*ast.Component, error) {
	c := &ast.Component{Type: typ, Span: d.span(n)}
	typed := !generic
	err := d.fields(n, "component", func(key string, v *yaml.Node) error {
		switch key {
		case "type":
			if !generic {
				return d.errorf(v, "type is only allowed in the component form")
			}
			s, err := d.str(v, "component type")
			if err != nil {
				return err
			}
			t, ok := ast.ParseComponentType(s)
			if !ok {
				return d.errorf(v, "unknown component type %q", s)
			}
			c.Type, typed = t, true
		case "name":
			id, err := d.ident(v, "component name")
			if err != nil {
				return err
			}
			c.Name = &id
		case "params":
			seq, err := d.seq(v, "params")
			if err != nil {
				return err
			}
			for _, p := range seq {
				param, err := d.paramDef(p)
				if err != nil {
					return err
				}
				c.Params = append(c.Params, param)
			}
		case "body":
			seq, err := d.seq(v, "body")
			if err != nil {
				return err
			}
			for _, el := range seq {
				elems, err := d.bodyElem(el)
				if err != nil {
					return err
				}
				c.Body = append(c.Body, elems...)
			}
		case "external", "internal":
			set, err := d.boolean(v, key)
			if err != nil {
				return err
			}
			if set {
				c.InstType = instType(key)
			}
		case "insts":
			insts, err := d.insts(v)
			if err != nil {
				return err
			}
			if c.Insts == nil {
				c.Insts = &ast.ComponentInsts{}
			}
			c.Insts.Insts = insts
		case "inst_params":
			params, err := d.paramAssignments(v)
			if err != nil {
				return err
			}
			if c.Insts == nil {
				c.Insts = &ast.ComponentInsts{}
			}
			c.Insts.Params = params
		default:
			return d.errorf(v, "unknown component key %q", key)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !typed {
		return nil, d.errorf(n, "component form requires a type")
	}
	return c, nil
}

func instType(key string) ast.InstType {
	if key == "external" {
		return ast.InstExternal
	}
	return ast.InstInternal
}

func (d *decoder) paramDef(n *yaml.Node) (ast.ParamDef, error) {
	var p ast.ParamDef
	err := d.fields(n, "parameter", func(key string, v *yaml.Node) error {
		var err error
		switch key {
		case "name":
			p.Name, err = d.ident(v, "parameter name")
		case "type":
			p.Type, err = d.str(v, "parameter type")
		case "default":
			p.Default, err = d.expr(v, "")
		default:
			err = d.errorf(v, "unknown parameter key %q", key)
		}
		return err
	})
	return p, err
}

func (d *decoder) paramAssignments(n *yaml.Node) ([]ast.ParamAssignment, error) {
	var out []ast.ParamAssignment
	err := d.fields(n, "parameter assignments", func(key string, v *yaml.Node) error {
		if !ast.IsIdentifier(key) {
			return d.errorf(v, "parameter name %q is not an identifier", key)
		}
		value, err := d.expr(v, "")
		if err != nil {
			return err
		}
		out = append(out, ast.ParamAssignment{
			Name:  ast.NewIdent(key, d.span(v)),
			Value: value,
		})
		return nil
	})
	return out, err
}

func (d *decoder) insts(n *yaml.Node) ([]ast.ComponentInst, error) {
	seq, err := d.seq(n, "insts")
	if err != nil {
		return nil, err
	}
	out := make([]ast.ComponentInst, 0, len(seq))
	for _, el := range seq {
		in, err := d.inst(el)
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, nil
}

// inst decodes a declarator. A bare scalar is a declarator with only a
// name.
func (d *decoder) inst(n *yaml.Node) (ast.ComponentInst, error) {
	n = resolve(n)
	in := ast.ComponentInst{Span: d.span(n)}
	if n.Kind == yaml.ScalarNode {
		id, err := d.ident(n, "instance name")
		in.Name = id
		return in, err
	}
	named := false
	err := d.fields(n, "instance", func(key string, v *yaml.Node) error {
		var err error
		switch key {
		case "name":
			in.Name, err = d.ident(v, "instance name")
			named = true
		case "dims":
			var seq []*yaml.Node
			if seq, err = d.seq(v, "dims"); err != nil {
				return err
			}
			for _, el := range seq {
				e, err := d.expr(el, "")
				if err != nil {
					return err
				}
				in.Array = append(in.Array, e)
			}
		case "range":
			var seq []*yaml.Node
			if seq, err = d.seq(v, "range"); err != nil {
				return err
			}
			if len(seq) != 2 {
				return d.errorf(v, "range must be [msb, lsb]")
			}
			var r ast.BitRange
			if r.Msb, err = d.expr(seq[0], ""); err != nil {
				return err
			}
			if r.Lsb, err = d.expr(seq[1], ""); err != nil {
				return err
			}
			in.Range = &r
		case "reset":
			in.Reset, err = d.expr(v, "")
		case "at":
			in.At, err = d.expr(v, "")
		case "stride":
			in.Stride, err = d.expr(v, "")
		case "align":
			in.Align, err = d.expr(v, "")
		default:
			err = d.errorf(v, "unknown instance key %q", key)
		}
		return err
	})
	if err == nil && !named {
		err = d.errorf(n, "instance requires a name")
	}
	return in, err
}

func (d *decoder) enumDef(n *yaml.Node) (*ast.EnumDef, error) {
	e := &ast.EnumDef{Span: d.span(n)}
	err := d.fields(n, "enum", func(key string, v *yaml.Node) error {
		var err error
		switch key {
		case "name":
			e.Name, err = d.ident(v, "enum name")
		case "entries":
			var seq []*yaml.Node
			if seq, err = d.seq(v, "entries"); err != nil {
				return err
			}
			for _, el := range seq {
				entry, err := d.enumEntry(el)
				if err != nil {
					return err
				}
				e.Entries = append(e.Entries, entry)
			}
		default:
			err = d.errorf(v, "unknown enum key %q", key)
		}
		return err
	})
	return e, err
}

func (d *decoder) enumEntry(n *yaml.Node) (ast.EnumEntry, error) {
	var entry ast.EnumEntry
	err := d.fields(n, "enum entry", func(key string, v *yaml.Node) error {
		var err error
		switch key {
		case "name":
			entry.Name, err = d.ident(v, "enumerator name")
		case "value":
			entry.Value, err = d.expr(v, "")
		default:
			err = d.errorf(v, "unknown enum entry key %q", key)
		}
		return err
	})
	return entry, err
}

func (d *decoder) structDef(n *yaml.Node) (*ast.StructDef, error) {
	s := &ast.StructDef{Span: d.span(n)}
	err := d.fields(n, "struct", func(key string, v *yaml.Node) error {
		var err error
		switch key {
		case "name":
			s.Name, err = d.ident(v, "struct name")
		case "abstract":
			s.Abstract, err = d.boolean(v, "abstract")
		case "base":
			var id ast.Ident
			if id, err = d.ident(v, "struct base"); err == nil {
				s.Base = &id
			}
		case "members":
			var seq []*yaml.Node
			if seq, err = d.seq(v, "members"); err != nil {
				return err
			}
			for _, el := range seq {
				m, err := d.structMember(el)
				if err != nil {
					return err
				}
				s.Members = append(s.Members, m)
			}
		default:
			err = d.errorf(v, "unknown struct key %q", key)
		}
		return err
	})
	return s, err
}

func (d *decoder) structMember(n *yaml.Node) (ast.StructMember, error) {
	var m ast.StructMember
	err := d.fields(n, "struct member", func(key string, v *yaml.Node) error {
		var err error
		switch key {
		case "name":
			m.Name, err = d.ident(v, "member name")
		case "type":
			m.Type, err = d.str(v, "member type")
		case "array":
			m.Array, err = d.boolean(v, "array")
		default:
			err = d.errorf(v, "unknown struct member key %q", key)
		}
		return err
	})
	return m, err
}

func (d *decoder) constraintDef(n *yaml.Node) (*ast.ConstraintDef, error) {
	c := &ast.ConstraintDef{Span: d.span(n)}
	if isNull(resolve(n)) {
		return c, nil
	}
	err := d.fields(n, "constraint", func(key string, v *yaml.Node) error {
		if key != "name" {
			return d.errorf(v, "unknown constraint key %q", key)
		}
		id, err := d.ident(v, "constraint name")
		c.Name = &id
		return err
	})
	return c, err
}

func (d *decoder) propertyDefinition(n *yaml.Node) (*ast.PropertyDefinition, error) {
	p := &ast.PropertyDefinition{Span: d.span(n)}
	err := d.fields(n, "property definition", func(key string, v *yaml.Node) error {
		var err error
		switch key {
		case "name":
			p.Name, err = d.ident(v, "property name")
		case "type":
			p.Type, err = d.str(v, "property type")
		case "components":
			var seq []*yaml.Node
			if seq, err = d.seq(v, "components"); err != nil {
				return err
			}
			for _, el := range seq {
				s, err := d.str(el, "component type")
				if err != nil {
					return err
				}
				t, ok := ast.ParseComponentType(s)
				if !ok {
					return d.errorf(el, "unknown component type %q", s)
				}
				p.Component = append(p.Component, t)
			}
		case "default":
			p.Default, err = d.expr(v, "")
		default:
			err = d.errorf(v, "unknown property definition key %q", key)
		}
		return err
	})
	return p, err
}

func (d *decoder) explicitInst(n *yaml.Node) (*ast.ExplicitComponentInst, error) {
	x := &ast.ExplicitComponentInst{Span: d.span(n)}
	err := d.fields(n, "explicit instance", func(key string, v *yaml.Node) error {
		var err error
		switch key {
		case "type":
			x.TypeName, err = d.ident(v, "type name")
		case "alias":
			var id ast.Ident
			if id, err = d.ident(v, "alias"); err == nil {
				x.Alias = &id
			}
		case "external", "internal":
			var set bool
			if set, err = d.boolean(v, key); set {
				x.InstType = instType(key)
			}
		case "insts":
			x.Insts.Insts, err = d.insts(v)
		case "inst_params":
			x.Insts.Params, err = d.paramAssignments(v)
		default:
			err = d.errorf(v, "unknown explicit instance key %q", key)
		}
		return err
	})
	return x, err
}

func (d *decoder) propAssignments(n *yaml.Node, isDefault bool) ([]item, error) {
	var out []item
	err := d.fields(n, "property assignments", func(key string, v *yaml.Node) error {
		if !ast.IsIdentifier(key) {
			return d.errorf(v, "property name %q is not an identifier", key)
		}
		rhs, err := d.rhs(key, v)
		if err != nil {
			return err
		}
		out = append(out, &ast.PropAssignment{
			Default: isDefault,
			Name:    ast.NewIdent(key, d.span(v)),
			Value:   rhs,
			Span:    d.span(v),
		})
		return nil
	})
	return out, err
}

func (d *decoder) modifier(n *yaml.Node) (*ast.PropModifier, error) {
	m := &ast.PropModifier{Span: d.span(n)}
	err := d.fields(n, "modifier", func(key string, v *yaml.Node) error {
		var err error
		switch key {
		case "name":
			m.Name, err = d.ident(v, "property name")
		case "modifier":
			m.Modifier, err = d.str(v, "modifier")
		case "default":
			m.Default, err = d.boolean(v, "default")
		default:
			err = d.errorf(v, "unknown modifier key %q", key)
		}
		return err
	})
	return m, err
}

func (d *decoder) encode(n *yaml.Node) (*ast.EncodeAssignment, error) {
	e := &ast.EncodeAssignment{Span: d.span(n)}
	err := d.fields(n, "encode", func(key string, v *yaml.Node) error {
		var err error
		switch key {
		case "enum":
			e.Enum, err = d.ident(v, "enum name")
		case "default":
			e.Default, err = d.boolean(v, "default")
		default:
			err = d.errorf(v, "unknown encode key %q", key)
		}
		return err
	})
	return e, err
}

func (d *decoder) post(n *yaml.Node) (*ast.PostPropAssignment, error) {
	p := &ast.PostPropAssignment{Span: d.span(n)}
	var prop string
	var value *yaml.Node
	err := d.fields(n, "post assignment", func(key string, v *yaml.Node) error {
		var err error
		switch key {
		case "target":
			p.Target, err = d.ref(v)
		case "prop":
			p.Prop, err = d.ident(v, "property name")
			prop = p.Prop.Name
		case "value":
			value = v
		default:
			err = d.errorf(v, "unknown post assignment key %q", key)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if value != nil {
		if p.Value, err = d.rhs(prop, value); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (d *decoder) postEncode(n *yaml.Node) (*ast.PostEncodeAssignment, error) {
	p := &ast.PostEncodeAssignment{Span: d.span(n)}
	err := d.fields(n, "post encode", func(key string, v *yaml.Node) error {
		var err error
		switch key {
		case "target":
			p.Target, err = d.ref(v)
		case "enum":
			p.Enum, err = d.ident(v, "enum name")
		default:
			err = d.errorf(v, "unknown post encode key %q", key)
		}
		return err
	})
	return p, err
}

// ref decodes a dotted instance path such as "blk.regs[2].f".
func (d *decoder) ref(n *yaml.Node) (ast.InstanceRef, error) {
	s, err := d.str(n, "instance reference")
	if err != nil {
		return ast.InstanceRef{}, err
	}
	r := ast.InstanceRef{Span: d.span(n)}
	for part := range strings.SplitSeq(s, ".") {
		name, rest, _ := strings.Cut(part, "[")
		if !ast.IsIdentifier(name) {
			return ast.InstanceRef{}, d.errorf(n, "malformed instance reference %q", s)
		}
		el := ast.RefElem{Name: ast.NewIdent(name, d.span(n))}
		for rest != "" {
			idx, tail, ok := strings.Cut(rest, "]")
			if !ok {
				return ast.InstanceRef{}, d.errorf(n, "malformed instance reference %q", s)
			}
			v, err := strconv.ParseUint(idx, 0, 64)
			if err != nil {
				return ast.InstanceRef{}, d.errorf(n, "malformed index %q in %q", idx, s)
			}
			el.Index = append(el.Index, &ast.Literal{Value: ast.Number(v), Span: d.span(n)})
			rest = strings.TrimPrefix(tail, "[")
		}
		r.Path = append(r.Path, el)
	}
	return r, nil
}

func (d *decoder) span(n *yaml.Node) ast.Span {
	if n == nil {
		return ast.Span{File: d.file}
	}
	return ast.Span{File: d.file, Line: n.Line, Column: n.Column}
}

func (d *decoder) errorf(n *yaml.Node, format string, args ...any) error {
	return &Error{Span: d.span(n), Msg: fmt.Sprintf(format, args...)}
}

// fields calls fn for each key of mapping n in document order.
func (d *decoder) fields(n *yaml.Node, what string, fn func(key string, v *yaml.Node) error) error {
	n = resolve(n)
	if n.Kind != yaml.MappingNode {
		return d.errorf(n, "%s must be a mapping", what)
	}
	seen := make(map[string]struct{}, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			return d.errorf(k, "%s keys must be scalars", what)
		}
		if _, dup := seen[k.Value]; dup {
			return d.errorf(k, "duplicate key %q in %s", k.Value, what)
		}
		seen[k.Value] = struct{}{}
		if err := fn(k.Value, v); err != nil {
			return err
		}
	}
	return nil
}

// single returns the only key of a one-key mapping.
func (d *decoder) single(n *yaml.Node, what string) (string, *yaml.Node, error) {
	n = resolve(n)
	if n.Kind != yaml.MappingNode || len(n.Content) != 2 {
		return "", nil, d.errorf(n, "%s must be a mapping with a single key", what)
	}
	return n.Content[0].Value, n.Content[1], nil
}

func (d *decoder) seq(n *yaml.Node, what string) ([]*yaml.Node, error) {
	n = resolve(n)
	if isNull(n) {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, d.errorf(n, "%s must be a sequence", what)
	}
	return n.Content, nil
}

func (d *decoder) str(n *yaml.Node, what string) (string, error) {
	n = resolve(n)
	if n.Kind != yaml.ScalarNode || isNull(n) {
		return "", d.errorf(n, "%s must be a scalar", what)
	}
	return n.Value, nil
}

func (d *decoder) ident(n *yaml.Node, what string) (ast.Ident, error) {
	s, err := d.str(n, what)
	if err != nil {
		return ast.Ident{}, err
	}
	if s == "" {
		return ast.Ident{}, d.errorf(n, "%s must not be empty", what)
	}
	if !ast.IsIdentifier(s) {
		return ast.Ident{}, d.errorf(n, "%s %q is not an identifier", what, s)
	}
	return ast.NewIdent(s, d.span(n)), nil
}

func (d *decoder) boolean(n *yaml.Node, what string) (bool, error) {
	n = resolve(n)
	if n.Kind != yaml.ScalarNode || n.ShortTag() != "!!bool" {
		return false, d.errorf(n, "%s must be a boolean", what)
	}
	return strings.EqualFold(n.Value, "true"), nil
}

func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}
