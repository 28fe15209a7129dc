// Package props classifies property assignments and tracks the chain of
// default-property scopes used while elaborating a body.
package props

import (
	"strings"

	"github.com/golangrdl/gordl/ast"
	"github.com/golangrdl/gordl/internal/eval"
	"github.com/golangrdl/gordl/rdl"
)

// Set accumulates the local and default properties of one node. Each
// namespace accepts a name at most once.
type Set struct {
	local    []rdl.Property
	defaults []rdl.Property
	seen     [2]map[string]struct{}
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{seen: [2]map[string]struct{}{{}, {}}}
}

// Insert adds name to the local or default namespace.
func (s *Set) Insert(isDefault bool, name string, v rdl.Literal, span ast.Span) error {
	ns := 0
	if isDefault {
		ns = 1
	}
	if _, dup := s.seen[ns][name]; dup {
		return rdl.DuplicateProperty(name, span)
	}
	s.seen[ns][name] = struct{}{}
	p := rdl.Property{Name: name, Value: v}
	if isDefault {
		s.defaults = append(s.defaults, p)
	} else {
		s.local = append(s.local, p)
	}
	return nil
}

// Local returns a frozen copy of the local properties.
func (s *Set) Local() rdl.Properties { return rdl.NewProperties(s.local...) }

// Defaults returns a frozen copy of the default properties.
func (s *Set) Defaults() rdl.Properties { return rdl.NewProperties(s.defaults...) }

// Resolve classifies a as local or default, evaluates its right-hand side,
// and inserts the result into set.
func Resolve(a ast.PropertyAssignment, set *Set) error {
	switch pa := a.(type) {
	case *ast.PropAssignment:
		if pa.Value == nil {
			return rdl.Unsupported("property flag assignment", pa.Span)
		}
		name := strings.ToLower(pa.Name.Name)
		v, err := eval.EvaluateRhs(pa.Value)
		if err != nil {
			return err
		}
		if err := checkKind(name, v, pa.Span); err != nil {
			return err
		}
		return set.Insert(pa.Default, name, v, pa.Span)
	case *ast.PropModifier:
		return rdl.Unsupported("property modifier", pa.Span)
	case *ast.EncodeAssignment:
		return rdl.Unsupported("encode assignment", pa.Span)
	case *ast.PostPropAssignment:
		return rdl.Unsupported("post property assignment", pa.Span)
	case *ast.PostEncodeAssignment:
		return rdl.Unsupported("post encode assignment", pa.Span)
	case nil:
		return rdl.Internal(ast.Span{}, "nil property assignment")
	default:
		return rdl.Internal(a.Pos(), "unhandled property assignment %T", a)
	}
}

// valueKinds lists the literal kind required by properties the
// elaborator and its consumers interpret. Other properties accept any
// value.
var valueKinds = map[string]rdl.LiteralKind{
	rdl.PropSW:          rdl.LitAccessType,
	rdl.PropHW:          rdl.LitAccessType,
	rdl.PropReset:       rdl.LitNumber,
	rdl.PropFieldWidth:  rdl.LitNumber,
	rdl.PropRegWidth:    rdl.LitNumber,
	rdl.PropMemWidth:    rdl.LitNumber,
	rdl.PropMemEntries:  rdl.LitNumber,
	rdl.PropSignalWidth: rdl.LitNumber,
	rdl.PropAddressing:  rdl.LitAddressingType,
	rdl.PropPrecedence:  rdl.LitPrecedence,
	"onread":            rdl.LitOnReadType,
	"onwrite":           rdl.LitOnWriteType,
	"name":              rdl.LitString,
	"desc":              rdl.LitString,
}

func checkKind(name string, v rdl.Literal, span ast.Span) error {
	want, ok := valueKinds[name]
	if !ok || v.Kind() == want {
		return nil
	}
	err := rdl.TypeMismatch("=", want.String(), v.Kind(), span)
	err.Property = name
	return err
}
