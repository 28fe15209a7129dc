package rdl

import "github.com/golangrdl/gordl/ast"

// Property names with elaboration semantics.
const (
	PropSW          = "sw"
	PropHW          = "hw"
	PropReset       = "reset"
	PropFieldWidth  = "fieldwidth"
	PropRegWidth    = "regwidth"
	PropMemWidth    = "memwidth"
	PropMemEntries  = "mementries"
	PropSignalWidth = "signalwidth"
	PropAddressing  = "addressing"
	PropPrecedence  = "precedence"
)

// BuiltinDefault returns the value a property takes on a node of the given
// kind when neither the node nor any ancestor default declares it.
func BuiltinDefault(kind Kind, name string) (Literal, bool) {
	switch kind {
	case KindField:
		switch name {
		case PropSW, PropHW:
			return AccessLit(ast.AccessRW), true
		case PropFieldWidth:
			return NumberLit(1), true
		}
	case KindReg:
		if name == PropRegWidth {
			return NumberLit(32), true
		}
	case KindMem:
		if name == PropMemWidth {
			return NumberLit(32), true
		}
	case KindSignal:
		if name == PropSignalWidth {
			return NumberLit(1), true
		}
	case KindAddrMap:
		if name == PropAddressing {
			return AddressingLit(ast.AddressingRegAlign), true
		}
	}
	return Literal{}, false
}

// EffectiveValue resolves a property for n: the node's own value if
// present, else the nearest ancestor's default (walking outward from the
// immediate parent), else the kind's built-in default. A node's own
// defaults apply only to its descendants.
func EffectiveValue(n Node, name string) (Literal, bool) {
	if v, ok := n.Properties().Get(name); ok {
		return v, true
	}
	for p := n.Parent(); p != nil; p = p.Parent() {
		if v, ok := p.DefaultProperties().Get(name); ok {
			return v, true
		}
	}
	return BuiltinDefault(n.Kind(), name)
}
