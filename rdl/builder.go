package rdl

import (
	"slices"

	"github.com/golangrdl/gordl/ast"
)

// NodeSpec carries the resolved state of a node under construction.
//
// The constructors below are intended for the elaborator. They adopt the
// given children and set each child's parent; a child must not be passed
// to more than one constructor. Once the Root containing a node is
// returned, the node is never modified again.
type NodeSpec struct {
	Name              string // base instance name
	Index             []int  // array subscripts, nil when not an array element
	Properties        Properties
	DefaultProperties Properties
	Children          []Node
	External          bool
	Span              ast.Span
}

func (s NodeSpec) base(kind Kind) nodeBase {
	return nodeBase{
		kind:     kind,
		name:     s.Name,
		index:    slices.Clone(s.Index),
		props:    s.Properties,
		defaults: s.DefaultProperties,
		children: slices.Clone(s.Children),
		span:     s.Span,
		external: s.External,
	}
}

func adopt(parent Node) {
	for _, c := range parent.base().children {
		c.base().parent = parent
	}
}

// NewAddrMap constructs an address map at the given offset.
func NewAddrMap(s NodeSpec, offset uint64) *AddrMap {
	n := &AddrMap{nodeBase: s.base(KindAddrMap), offset: offset}
	adopt(n)
	return n
}

// NewRegFile constructs a register file at the given offset.
func NewRegFile(s NodeSpec, offset uint64) *RegFile {
	n := &RegFile{nodeBase: s.base(KindRegFile), offset: offset}
	adopt(n)
	return n
}

// NewRegister constructs a register at the given offset.
func NewRegister(s NodeSpec, offset uint64) *Register {
	n := &Register{nodeBase: s.base(KindReg), offset: offset}
	adopt(n)
	return n
}

// NewMem constructs a memory at the given offset.
func NewMem(s NodeSpec, offset uint64) *Mem {
	n := &Mem{nodeBase: s.base(KindMem), offset: offset}
	adopt(n)
	return n
}

// NewField constructs a field occupying bits [msb:lsb]. msb must not be
// less than lsb.
func NewField(s NodeSpec, msb, lsb uint64) *Field {
	n := &Field{nodeBase: s.base(KindField), msb: msb, lsb: lsb}
	adopt(n)
	return n
}

// NewSignal constructs a signal.
func NewSignal(s NodeSpec) *Signal {
	n := &Signal{nodeBase: s.base(KindSignal)}
	adopt(n)
	return n
}
