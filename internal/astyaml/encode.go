package astyaml

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/golangrdl/gordl/ast"
)

// blockStyle is the zero style: block collections and plain scalars.
const blockStyle yaml.Style = 0

// Encode renders root as a document Decode reads back to an equal AST,
// spans aside.
func Encode(root *ast.Root) ([]byte, error) {
	descs := seqNode(blockStyle)
	if root != nil {
		for _, desc := range root.Descriptions {
			n, err := encodeDescription(desc)
			if err != nil {
				return nil, err
			}
			descs.Content = append(descs.Content, n)
		}
	}
	doc := mapNode(blockStyle, strNode("descriptions"), descs)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeDescription(desc ast.Description) (*yaml.Node, error) {
	if p, ok := desc.(*ast.PropertyDefinition); ok {
		return encodePropertyDefinition(p)
	}
	it, ok := desc.(item)
	if !ok {
		return nil, fmt.Errorf("unhandled description %T", desc)
	}
	return encodeItem(it)
}

func encodeItem(it item) (*yaml.Node, error) {
	wrap := func(key string, v *yaml.Node, err error) (*yaml.Node, error) {
		if err != nil {
			return nil, err
		}
		return mapNode(blockStyle, strNode(key), v), nil
	}
	switch x := it.(type) {
	case *ast.Component:
		key := "component"
		if nodeComponent(x.Type) {
			key = x.Type.String()
		}
		v, err := encodeComponent(x, key == "component")
		return wrap(key, v, err)
	case *ast.EnumDef:
		v, err := encodeEnum(x)
		return wrap("enum", v, err)
	case *ast.StructDef:
		return wrap("struct", encodeStruct(x), nil)
	case *ast.ConstraintDef:
		v := mapNode(yaml.FlowStyle)
		if x.Name != nil {
			v.Content = append(v.Content, strNode("name"), strNode(x.Name.Name))
		}
		return wrap("constraint", v, nil)
	case *ast.ExplicitComponentInst:
		v, err := encodeExplicitInst(x)
		return wrap("inst", v, err)
	case *ast.PropAssignment:
		key := "prop"
		if x.Default {
			key = "default"
		}
		rhs, err := encodeRhs(x.Name.Name, x.Value)
		if err != nil {
			return nil, err
		}
		return wrap(key, mapNode(yaml.FlowStyle, strNode(x.Name.Name), rhs), nil)
	case *ast.PropModifier:
		v := mapNode(yaml.FlowStyle, strNode("name"), strNode(x.Name.Name), strNode("modifier"), strNode(x.Modifier))
		if x.Default {
			v.Content = append(v.Content, strNode("default"), boolNode(true))
		}
		return wrap("modifier", v, nil)
	case *ast.EncodeAssignment:
		v := mapNode(yaml.FlowStyle, strNode("enum"), strNode(x.Enum.Name))
		if x.Default {
			v.Content = append(v.Content, strNode("default"), boolNode(true))
		}
		return wrap("encode", v, nil)
	case *ast.PostPropAssignment:
		target, err := refString(x.Target)
		if err != nil {
			return nil, err
		}
		v := mapNode(yaml.FlowStyle, strNode("target"), strNode(target), strNode("prop"), strNode(x.Prop.Name))
		if x.Value != nil {
			rhs, err := encodeRhs(x.Prop.Name, x.Value)
			if err != nil {
				return nil, err
			}
			v.Content = append(v.Content, strNode("value"), rhs)
		}
		return wrap("post", v, nil)
	case *ast.PostEncodeAssignment:
		target, err := refString(x.Target)
		if err != nil {
			return nil, err
		}
		return wrap("post_encode", mapNode(yaml.FlowStyle,
			strNode("target"), strNode(target), strNode("enum"), strNode(x.Enum.Name)), nil)
	case nil:
		return nil, fmt.Errorf("nil element")
	default:
		return nil, fmt.Errorf("unhandled element %T", it)
	}
}

func encodeComponent(c *ast.Component, generic bool) (*yaml.Node, error) {
	m := mapNode(blockStyle)
	add := func(k string, v *yaml.Node) { m.Content = append(m.Content, strNode(k), v) }
	if generic {
		add("type", strNode(c.Type.String()))
	}
	if c.Name != nil {
		add("name", strNode(c.Name.Name))
	}
	if len(c.Params) > 0 {
		params := seqNode(blockStyle)
		for _, p := range c.Params {
			pm := mapNode(yaml.FlowStyle, strNode("name"), strNode(p.Name.Name))
			if p.Type != "" {
				pm.Content = append(pm.Content, strNode("type"), strNode(p.Type))
			}
			if p.Default != nil {
				e, err := encodeExpr(p.Default, "")
				if err != nil {
					return nil, err
				}
				pm.Content = append(pm.Content, strNode("default"), e)
			}
			params.Content = append(params.Content, pm)
		}
		add("params", params)
	}
	switch c.InstType {
	case ast.InstExternal:
		add("external", boolNode(true))
	case ast.InstInternal:
		add("internal", boolNode(true))
	}
	if len(c.Body) > 0 {
		body := seqNode(blockStyle)
		for _, el := range c.Body {
			it, ok := el.(item)
			if !ok {
				return nil, fmt.Errorf("unhandled body element %T", el)
			}
			n, err := encodeItem(it)
			if err != nil {
				return nil, err
			}
			body.Content = append(body.Content, n)
		}
		add("body", body)
	}
	if c.Insts != nil {
		if err := encodeInsts(*c.Insts, add); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func encodeInsts(insts ast.ComponentInsts, add func(string, *yaml.Node)) error {
	if len(insts.Params) > 0 {
		pm := mapNode(yaml.FlowStyle)
		for _, p := range insts.Params {
			e, err := encodeExpr(p.Value, "")
			if err != nil {
				return err
			}
			pm.Content = append(pm.Content, strNode(p.Name.Name), e)
		}
		add("inst_params", pm)
	}
	seq := seqNode(blockStyle)
	for _, in := range insts.Insts {
		n, err := encodeInst(in)
		if err != nil {
			return err
		}
		seq.Content = append(seq.Content, n)
	}
	add("insts", seq)
	return nil
}

func encodeInst(in ast.ComponentInst) (*yaml.Node, error) {
	m := mapNode(yaml.FlowStyle, strNode("name"), strNode(in.Name.Name))
	add := func(k string, e ast.Expr) error {
		if e == nil {
			return nil
		}
		v, err := encodeExpr(e, "")
		if err != nil {
			return err
		}
		m.Content = append(m.Content, strNode(k), v)
		return nil
	}
	if len(in.Array) > 0 {
		dims := seqNode(yaml.FlowStyle)
		for _, e := range in.Array {
			v, err := encodeExpr(e, "")
			if err != nil {
				return nil, err
			}
			dims.Content = append(dims.Content, v)
		}
		m.Content = append(m.Content, strNode("dims"), dims)
	}
	if in.Range != nil {
		msb, err := encodeExpr(in.Range.Msb, "")
		if err != nil {
			return nil, err
		}
		lsb, err := encodeExpr(in.Range.Lsb, "")
		if err != nil {
			return nil, err
		}
		m.Content = append(m.Content, strNode("range"), seqNode(yaml.FlowStyle, msb, lsb))
	}
	for _, f := range []struct {
		key string
		e   ast.Expr
	}{{"reset", in.Reset}, {"at", in.At}, {"stride", in.Stride}, {"align", in.Align}} {
		if err := add(f.key, f.e); err != nil {
			return nil, err
		}
	}
	if len(m.Content) == 2 {
		return strNode(in.Name.Name), nil
	}
	return m, nil
}

func encodeEnum(e *ast.EnumDef) (*yaml.Node, error) {
	entries := seqNode(blockStyle)
	for _, entry := range e.Entries {
		em := mapNode(yaml.FlowStyle, strNode("name"), strNode(entry.Name.Name))
		if entry.Value != nil {
			v, err := encodeExpr(entry.Value, "")
			if err != nil {
				return nil, err
			}
			em.Content = append(em.Content, strNode("value"), v)
		}
		entries.Content = append(entries.Content, em)
	}
	return mapNode(blockStyle, strNode("name"), strNode(e.Name.Name), strNode("entries"), entries), nil
}

func encodeStruct(s *ast.StructDef) *yaml.Node {
	m := mapNode(blockStyle, strNode("name"), strNode(s.Name.Name))
	if s.Abstract {
		m.Content = append(m.Content, strNode("abstract"), boolNode(true))
	}
	if s.Base != nil {
		m.Content = append(m.Content, strNode("base"), strNode(s.Base.Name))
	}
	members := seqNode(blockStyle)
	for _, mem := range s.Members {
		mm := mapNode(yaml.FlowStyle, strNode("name"), strNode(mem.Name.Name), strNode("type"), strNode(mem.Type))
		if mem.Array {
			mm.Content = append(mm.Content, strNode("array"), boolNode(true))
		}
		members.Content = append(members.Content, mm)
	}
	m.Content = append(m.Content, strNode("members"), members)
	return m
}

func encodePropertyDefinition(p *ast.PropertyDefinition) (*yaml.Node, error) {
	m := mapNode(blockStyle, strNode("name"), strNode(p.Name.Name), strNode("type"), strNode(p.Type))
	if len(p.Component) > 0 {
		comps := seqNode(yaml.FlowStyle)
		for _, t := range p.Component {
			comps.Content = append(comps.Content, strNode(t.String()))
		}
		m.Content = append(m.Content, strNode("components"), comps)
	}
	if p.Default != nil {
		v, err := encodeExpr(p.Default, "")
		if err != nil {
			return nil, err
		}
		m.Content = append(m.Content, strNode("default"), v)
	}
	return mapNode(blockStyle, strNode("property"), m), nil
}

func encodeExplicitInst(x *ast.ExplicitComponentInst) (*yaml.Node, error) {
	m := mapNode(blockStyle)
	add := func(k string, v *yaml.Node) { m.Content = append(m.Content, strNode(k), v) }
	add("type", strNode(x.TypeName.Name))
	if x.Alias != nil {
		add("alias", strNode(x.Alias.Name))
	}
	switch x.InstType {
	case ast.InstExternal:
		add("external", boolNode(true))
	case ast.InstInternal:
		add("internal", boolNode(true))
	}
	if err := encodeInsts(x.Insts, add); err != nil {
		return nil, err
	}
	return m, nil
}

func encodeRhs(prop string, rhs ast.PropRhs) (*yaml.Node, error) {
	switch x := rhs.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case *ast.PrecedenceRhs:
		if keywordHint(prop) == tagPrecedence {
			return strNode(x.Value.String()), nil
		}
		return tagged(tagPrecedence, x.Value.String()), nil
	case ast.Expr:
		return encodeExpr(x, keywordHint(prop))
	default:
		return nil, fmt.Errorf("unhandled property value %T", rhs)
	}
}

// encodeExpr renders e. Keyword literals whose tag equals hint are
// written as plain strings, and strings that would read as keywords are
// quoted.
func encodeExpr(e ast.Expr, hint string) (*yaml.Node, error) {
	flow := func(kv ...*yaml.Node) *yaml.Node { return mapNode(yaml.FlowStyle, kv...) }
	sub := func(x ast.Expr) (*yaml.Node, error) { return encodeExpr(x, "") }
	list := func(elems []ast.Expr) (*yaml.Node, error) {
		seq := seqNode(yaml.FlowStyle)
		for _, el := range elems {
			n, err := sub(el)
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, n)
		}
		return seq, nil
	}

	switch x := e.(type) {
	case *ast.Literal:
		return encodeLiteral(x.Value, hint)
	case *ast.Paren:
		v, err := sub(x.X)
		if err != nil {
			return nil, err
		}
		return flow(strNode("paren"), v), nil
	case *ast.Unary:
		v, err := sub(x.X)
		if err != nil {
			return nil, err
		}
		return flow(strNode("op"), quoted(x.Op.String()), strNode("x"), v), nil
	case *ast.Binary:
		l, err := sub(x.X)
		if err != nil {
			return nil, err
		}
		r, err := sub(x.Y)
		if err != nil {
			return nil, err
		}
		return flow(strNode("op"), quoted(x.Op.String()), strNode("x"), l, strNode("y"), r), nil
	case *ast.Ternary:
		c, err := sub(x.Cond)
		if err != nil {
			return nil, err
		}
		t, err := sub(x.Then)
		if err != nil {
			return nil, err
		}
		f, err := sub(x.Else)
		if err != nil {
			return nil, err
		}
		return flow(strNode("if"), c, strNode("then"), t, strNode("else"), f), nil
	case *ast.Concat:
		elems, err := list(x.Elems)
		if err != nil {
			return nil, err
		}
		return flow(strNode("concat"), elems), nil
	case *ast.MultiConcat:
		count, err := sub(x.Count)
		if err != nil {
			return nil, err
		}
		elems, err := list(x.Elems)
		if err != nil {
			return nil, err
		}
		return flow(strNode("repeat"), count, strNode("concat"), elems), nil
	case *ast.WidthCast:
		w, err := sub(x.Width)
		if err != nil {
			return nil, err
		}
		v, err := sub(x.X)
		if err != nil {
			return nil, err
		}
		return flow(strNode("width"), w, strNode("x"), v), nil
	case *ast.TypeCast:
		v, err := sub(x.X)
		if err != nil {
			return nil, err
		}
		return flow(strNode("type"), strNode(x.Type), strNode("x"), v), nil
	case *ast.BoolCast:
		v, err := sub(x.X)
		if err != nil {
			return nil, err
		}
		return flow(strNode("bool"), v), nil
	case *ast.InstanceRef:
		path, err := refString(*x)
		if err != nil {
			return nil, err
		}
		m := flow(strNode("ref"), strNode(path))
		if x.Prop != nil {
			m.Content = append(m.Content, strNode("prop"), strNode(x.Prop.Name))
		}
		return m, nil
	case *ast.ArrayLiteral:
		elems, err := list(x.Elems)
		if err != nil {
			return nil, err
		}
		return flow(strNode("array"), elems), nil
	case *ast.StructLiteral:
		fields := flow()
		for _, f := range x.Fields {
			v, err := sub(f.Value)
			if err != nil {
				return nil, err
			}
			fields.Content = append(fields.Content, strNode(f.Name.Name), v)
		}
		return flow(strNode("struct"), strNode(x.Type.Name), strNode("fields"), fields), nil
	case nil:
		return nil, fmt.Errorf("nil expression")
	default:
		return nil, fmt.Errorf("unhandled expression %T", e)
	}
}

func encodeLiteral(v ast.PrimaryLiteral, hint string) (*yaml.Node, error) {
	keyword := func(tag, s string) *yaml.Node {
		if tag == hint {
			return strNode(s)
		}
		return tagged(tag, s)
	}
	switch x := v.(type) {
	case ast.Number:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatUint(uint64(x), 10)}, nil
	case ast.Bits:
		return tagged(tagBits, fmt.Sprintf("%d'h%x", x.Width, x.Value)), nil
	case ast.Bool:
		return boolNode(bool(x)), nil
	case ast.String:
		if hint != "" {
			return quoted(string(x)), nil
		}
		return strNode(string(x)), nil
	case ast.AccessTypeLit:
		return keyword(tagAccess, ast.AccessType(x).String()), nil
	case ast.OnReadTypeLit:
		return keyword(tagOnRead, ast.OnReadType(x).String()), nil
	case ast.OnWriteTypeLit:
		return keyword(tagOnWrite, ast.OnWriteType(x).String()), nil
	case ast.AddressingTypeLit:
		return keyword(tagAddressing, ast.AddressingType(x).String()), nil
	case ast.EnumeratorLit:
		return tagged(tagEnum, x.Enum+"::"+x.Name), nil
	case nil:
		return nil, fmt.Errorf("nil literal")
	default:
		return nil, fmt.Errorf("unhandled literal %T", v)
	}
}

// refString renders an instance path whose indices are plain numbers.
func refString(r ast.InstanceRef) (string, error) {
	var b strings.Builder
	for i, el := range r.Path {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(el.Name.Name)
		for _, idx := range el.Index {
			lit, ok := idx.(*ast.Literal)
			if !ok {
				return "", fmt.Errorf("instance reference index %T is not a number", idx)
			}
			n, ok := lit.Value.(ast.Number)
			if !ok {
				return "", fmt.Errorf("instance reference index %T is not a number", lit.Value)
			}
			fmt.Fprintf(&b, "[%d]", uint64(n))
		}
	}
	return b.String(), nil
}

func strNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func quoted(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s, Style: yaml.DoubleQuotedStyle}
}

func boolNode(b bool) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(b)}
}

func tagged(tag, s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: s}
}

func mapNode(style yaml.Style, kv ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Style: style, Content: kv}
}

func seqNode(style yaml.Style, items ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Style: style, Content: items}
}
