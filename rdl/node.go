// Package rdl provides the elaborated register model: an immutable tree of
// address maps, register files, registers, fields, memories and signals.
package rdl

import (
	"iter"
	"slices"
	"strconv"
	"strings"

	"github.com/golangrdl/gordl/ast"
)

// Kind identifies the variant of an elaborated node.
type Kind int

const (
	KindAddrMap Kind = iota
	KindRegFile
	KindReg
	KindField
	KindMem
	KindSignal
)

var kindNames = [...]string{
	KindAddrMap: "addrmap",
	KindRegFile: "regfile",
	KindReg:     "reg",
	KindField:   "field",
	KindMem:     "mem",
	KindSignal:  "signal",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsAddressable reports whether nodes of this kind occupy address space.
func (k Kind) IsAddressable() bool {
	switch k {
	case KindAddrMap, KindRegFile, KindReg, KindMem:
		return true
	}
	return false
}

// Node is an elaborated component instance. Nodes are immutable once the
// Root that owns them is returned; all slices handed out are copies.
//
// Variants: *AddrMap, *RegFile, *Register, *Field, *Mem, *Signal.
type Node interface {
	// Kind returns the node variant.
	Kind() Kind
	// Name returns the instance identifier, including any array
	// subscripts (e.g. "r[2]").
	Name() string
	// BaseName returns the instance identifier without subscripts.
	BaseName() string
	// Index returns the array subscripts of this element, or nil.
	Index() []int
	// Properties returns the properties local to this node.
	Properties() Properties
	// DefaultProperties returns the defaults declared at this node for
	// its descendants.
	DefaultProperties() Properties
	// Children returns the child nodes in declaration order.
	Children() []Node
	// Parent returns the enclosing node, or nil for a top-level node.
	Parent() Node
	// Path returns the dotted instance path from the top-level node.
	Path() string
	// Span returns the source location of the instance.
	Span() ast.Span
	// External reports whether the instance was declared external.
	External() bool
	String() string

	base() *nodeBase
}

// Addressable is implemented by node kinds that occupy address space.
type Addressable interface {
	Node
	// Offset returns the byte offset relative to the parent's base.
	Offset() uint64
	// AbsoluteAddress returns the byte address relative to the top-level node.
	AbsoluteAddress() uint64
	// Size returns the number of bytes spanned by this instance.
	Size() uint64
}

type nodeBase struct {
	kind     Kind
	name     string
	index    []int
	props    Properties
	defaults Properties
	children []Node
	parent   Node
	span     ast.Span
	external bool
}

func (n *nodeBase) Kind() Kind                    { return n.kind }
func (n *nodeBase) BaseName() string              { return n.name }
func (n *nodeBase) Index() []int                  { return slices.Clone(n.index) }
func (n *nodeBase) Properties() Properties        { return n.props }
func (n *nodeBase) DefaultProperties() Properties { return n.defaults }
func (n *nodeBase) Children() []Node              { return slices.Clone(n.children) }
func (n *nodeBase) Parent() Node                  { return n.parent }
func (n *nodeBase) Span() ast.Span                { return n.span }
func (n *nodeBase) External() bool                { return n.external }
func (n *nodeBase) base() *nodeBase               { return n }
func (n *nodeBase) childCount() int               { return len(n.children) }
func (n *nodeBase) child(i int) Node              { return n.children[i] }

// Name returns the instance identifier with subscripts.
func (n *nodeBase) Name() string { return FormatName(n.name, n.index) }

// FormatName renders an instance name with array subscripts, e.g. "r[1][2]".
func FormatName(name string, index []int) string {
	if len(index) == 0 {
		return name
	}
	var b strings.Builder
	b.WriteString(name)
	for _, i := range index {
		b.WriteByte('[')
		b.WriteString(strconv.Itoa(i))
		b.WriteByte(']')
	}
	return b.String()
}

// Path returns the dotted instance path.
func (n *nodeBase) Path() string {
	if n.parent == nil {
		return n.Name()
	}
	return n.parent.Path() + "." + n.Name()
}

// String returns "kind path".
func (n *nodeBase) String() string {
	if n == nil {
		return "<nil>"
	}
	return n.kind.String() + " " + n.Path()
}

// Walk returns an iterator over n and all its descendants, depth-first in
// declaration order.
func Walk(n Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		walk(n, yield)
	}
}

func walk(n Node, yield func(Node) bool) bool {
	if !yield(n) {
		return false
	}
	b := n.base()
	for i := 0; i < b.childCount(); i++ {
		if !walk(b.child(i), yield) {
			return false
		}
	}
	return true
}

// addressableChildren returns the children occupying address space.
func addressableChildren(n *nodeBase) []Addressable {
	var out []Addressable
	for _, c := range n.children {
		if a, ok := c.(Addressable); ok {
			out = append(out, a)
		}
	}
	return out
}

// spanOfChildren returns the end of the furthest addressable child.
func spanOfChildren(n *nodeBase) uint64 {
	var end uint64
	for _, c := range addressableChildren(n) {
		end = max(end, c.Offset()+c.Size())
	}
	return end
}

func absoluteAddress(parent Node, offset uint64) uint64 {
	if p, ok := parent.(Addressable); ok {
		return p.AbsoluteAddress() + offset
	}
	return offset
}
