package astyaml

import (
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/golangrdl/gordl/ast"
)

// Keyword tags for scalar literals.
const (
	tagAccess     = "!access"
	tagOnRead     = "!onread"
	tagOnWrite    = "!onwrite"
	tagAddressing = "!addressing"
	tagPrecedence = "!precedence"
	tagEnum       = "!enum"
	tagBits       = "!bits"
)

// keywordHint returns the keyword tag implied for plain strings assigned to
// property name.
func keywordHint(name string) string {
	switch strings.ToLower(name) {
	case "sw", "hw":
		return tagAccess
	case "onread":
		return tagOnRead
	case "onwrite":
		return tagOnWrite
	case "addressing":
		return tagAddressing
	case "precedence":
		return tagPrecedence
	}
	return ""
}

// rhs decodes the right-hand side of an assignment to prop. Null is the
// flag form.
func (d *decoder) rhs(prop string, n *yaml.Node) (ast.PropRhs, error) {
	n = resolve(n)
	if isNull(n) {
		return nil, nil
	}
	if n.Kind == yaml.ScalarNode {
		tag := n.ShortTag()
		if tag == "!!str" && plain(n) {
			tag = keywordHint(prop)
		}
		if tag == tagPrecedence {
			p, ok := ast.ParsePrecedenceType(n.Value)
			if !ok {
				return nil, d.errorf(n, "unknown precedence %q", n.Value)
			}
			return &ast.PrecedenceRhs{Value: p, Span: d.span(n)}, nil
		}
	}
	return d.expr(n, keywordHint(prop))
}

// expr decodes an expression. hint is the keyword tag applied to plain
// strings, or "".
func (d *decoder) expr(n *yaml.Node, hint string) (ast.Expr, error) {
	n = resolve(n)
	switch n.Kind {
	case yaml.ScalarNode:
		return d.scalar(n, hint)
	case yaml.MappingNode:
		return d.compound(n)
	}
	return nil, d.errorf(n, "expected an expression")
}

func (d *decoder) scalar(n *yaml.Node, hint string) (ast.Expr, error) {
	lit := func(v ast.PrimaryLiteral) (ast.Expr, error) {
		return &ast.Literal{Value: v, Span: d.span(n)}, nil
	}
	tag := n.ShortTag()
	if tag == "!!str" && plain(n) && hint != "" {
		tag = hint
	}
	switch tag {
	case "!!int":
		v, err := strconv.ParseUint(strings.ReplaceAll(n.Value, "_", ""), 0, 64)
		if err != nil {
			return nil, d.errorf(n, "number %q is not an unsigned 64-bit value", n.Value)
		}
		return lit(ast.Number(v))
	case "!!bool":
		return lit(ast.Bool(strings.EqualFold(n.Value, "true")))
	case "!!str":
		return lit(ast.String(n.Value))
	case tagBits:
		b, err := parseBits(n.Value)
		if err != nil {
			return nil, d.errorf(n, "%v", err)
		}
		return lit(b)
	case tagAccess:
		if a, ok := ast.ParseAccessType(n.Value); ok {
			return lit(ast.AccessTypeLit(a))
		}
	case tagOnRead:
		if o, ok := ast.ParseOnReadType(n.Value); ok {
			return lit(ast.OnReadTypeLit(o))
		}
	case tagOnWrite:
		if o, ok := ast.ParseOnWriteType(n.Value); ok {
			return lit(ast.OnWriteTypeLit(o))
		}
	case tagAddressing:
		if a, ok := ast.ParseAddressingType(n.Value); ok {
			return lit(ast.AddressingTypeLit(a))
		}
	case tagEnum:
		enum, name, ok := strings.Cut(n.Value, "::")
		if ok && enum != "" && name != "" {
			return lit(ast.EnumeratorLit{Enum: enum, Name: name})
		}
		return nil, d.errorf(n, "enumerator %q must be written enum::name", n.Value)
	case tagPrecedence:
		return nil, d.errorf(n, "precedence keyword is only valid as a property value")
	case "!!null":
		return nil, d.errorf(n, "missing expression")
	case "!!float":
		return nil, d.errorf(n, "floating-point value %q is not supported", n.Value)
	default:
		return nil, d.errorf(n, "unsupported tag %s", tag)
	}
	return nil, d.errorf(n, "unknown %s keyword %q", strings.TrimPrefix(tag, "!"), n.Value)
}

// compound decodes the mapping forms. The form is selected by its
// distinguishing key; other keys must belong to that form.
func (d *decoder) compound(n *yaml.Node) (ast.Expr, error) {
	m := make(map[string]*yaml.Node)
	err := d.fields(n, "expression", func(key string, v *yaml.Node) error {
		m[key] = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	span := d.span(n)
	only := func(keys ...string) error {
		for k, v := range m {
			found := false
			for _, allowed := range keys {
				found = found || k == allowed
			}
			if !found {
				return d.errorf(v, "unexpected key %q in expression", k)
			}
		}
		return nil
	}
	sub := func(key string) (ast.Expr, error) {
		v, ok := m[key]
		if !ok {
			return nil, d.errorf(n, "expression requires %q", key)
		}
		return d.expr(v, "")
	}
	list := func(key string) ([]ast.Expr, error) {
		seq, err := d.seq(m[key], key)
		if err != nil {
			return nil, err
		}
		out := make([]ast.Expr, 0, len(seq))
		for _, el := range seq {
			e, err := d.expr(el, "")
			if err != nil {
				return nil, err
			}
			out = append(out, e)
		}
		return out, nil
	}

	switch {
	case m["op"] != nil:
		op, err := d.str(m["op"], "operator")
		if err != nil {
			return nil, err
		}
		x, err := sub("x")
		if err != nil {
			return nil, err
		}
		if m["y"] == nil {
			if err := only("op", "x"); err != nil {
				return nil, err
			}
			u, ok := ast.ParseUnaryOp(op)
			if !ok {
				return nil, d.errorf(m["op"], "unknown unary operator %q", op)
			}
			return &ast.Unary{Op: u, X: x, Span: span}, nil
		}
		if err := only("op", "x", "y"); err != nil {
			return nil, err
		}
		b, ok := ast.ParseBinaryOp(op)
		if !ok {
			return nil, d.errorf(m["op"], "unknown binary operator %q", op)
		}
		y, err := sub("y")
		if err != nil {
			return nil, err
		}
		return &ast.Binary{Op: b, X: x, Y: y, Span: span}, nil

	case m["if"] != nil:
		if err := only("if", "then", "else"); err != nil {
			return nil, err
		}
		t := &ast.Ternary{Span: span}
		if t.Cond, err = sub("if"); err != nil {
			return nil, err
		}
		if t.Then, err = sub("then"); err != nil {
			return nil, err
		}
		if t.Else, err = sub("else"); err != nil {
			return nil, err
		}
		return t, nil

	case m["paren"] != nil:
		if err := only("paren"); err != nil {
			return nil, err
		}
		x, err := sub("paren")
		if err != nil {
			return nil, err
		}
		return &ast.Paren{X: x, Span: span}, nil

	case m["concat"] != nil:
		elems, err := list("concat")
		if err != nil {
			return nil, err
		}
		if m["repeat"] == nil {
			if err := only("concat"); err != nil {
				return nil, err
			}
			return &ast.Concat{Elems: elems, Span: span}, nil
		}
		if err := only("concat", "repeat"); err != nil {
			return nil, err
		}
		count, err := sub("repeat")
		if err != nil {
			return nil, err
		}
		return &ast.MultiConcat{Count: count, Elems: elems, Span: span}, nil

	case m["width"] != nil:
		if err := only("width", "x"); err != nil {
			return nil, err
		}
		w := &ast.WidthCast{Span: span}
		if w.Width, err = sub("width"); err != nil {
			return nil, err
		}
		if w.X, err = sub("x"); err != nil {
			return nil, err
		}
		return w, nil

	case m["type"] != nil:
		if err := only("type", "x"); err != nil {
			return nil, err
		}
		typ, err := d.str(m["type"], "cast type")
		if err != nil {
			return nil, err
		}
		x, err := sub("x")
		if err != nil {
			return nil, err
		}
		return &ast.TypeCast{Type: typ, X: x, Span: span}, nil

	case m["bool"] != nil:
		if err := only("bool"); err != nil {
			return nil, err
		}
		x, err := sub("bool")
		if err != nil {
			return nil, err
		}
		return &ast.BoolCast{X: x, Span: span}, nil

	case m["ref"] != nil:
		if err := only("ref", "prop"); err != nil {
			return nil, err
		}
		r, err := d.ref(m["ref"])
		if err != nil {
			return nil, err
		}
		if p := m["prop"]; p != nil {
			id, err := d.ident(p, "property name")
			if err != nil {
				return nil, err
			}
			r.Prop = &id
		}
		r.Span = span
		return &r, nil

	case m["array"] != nil:
		if err := only("array"); err != nil {
			return nil, err
		}
		elems, err := list("array")
		if err != nil {
			return nil, err
		}
		return &ast.ArrayLiteral{Elems: elems, Span: span}, nil

	case m["struct"] != nil:
		if err := only("struct", "fields"); err != nil {
			return nil, err
		}
		s := &ast.StructLiteral{Span: span}
		if s.Type, err = d.ident(m["struct"], "struct type"); err != nil {
			return nil, err
		}
		if f := m["fields"]; f != nil {
			err = d.fields(f, "struct fields", func(key string, v *yaml.Node) error {
				e, err := d.expr(v, "")
				if err != nil {
					return err
				}
				s.Fields = append(s.Fields, ast.StructLiteralField{Name: ast.NewIdent(key, d.span(v)), Value: e})
				return nil
			})
			if err != nil {
				return nil, err
			}
		}
		return s, nil
	}
	return nil, d.errorf(n, "unknown expression form")
}

// parseBits parses a sized literal: width'[bodh]digits, as in 8'hff.
func parseBits(s string) (ast.Bits, error) {
	w, rest, ok := strings.Cut(s, "'")
	if !ok || len(rest) < 2 {
		return ast.Bits{}, &Error{Msg: "sized number " + strconv.Quote(s) + " must be written width'[bodh]digits"}
	}
	width, err := strconv.ParseUint(w, 10, 32)
	if err != nil {
		return ast.Bits{}, &Error{Msg: "bad width in sized number " + strconv.Quote(s)}
	}
	var base int
	switch rest[0] {
	case 'b', 'B':
		base = 2
	case 'o', 'O':
		base = 8
	case 'd', 'D':
		base = 10
	case 'h', 'H':
		base = 16
	default:
		return ast.Bits{}, &Error{Msg: "bad base in sized number " + strconv.Quote(s)}
	}
	v, err := strconv.ParseUint(strings.ReplaceAll(rest[1:], "_", ""), base, 64)
	if err != nil {
		return ast.Bits{}, &Error{Msg: "bad digits in sized number " + strconv.Quote(s)}
	}
	return ast.Bits{Width: uint(width), Value: v}, nil
}

func plain(n *yaml.Node) bool {
	return n.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle|yaml.TaggedStyle) == 0
}
