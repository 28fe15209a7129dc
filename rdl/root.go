package rdl

import (
	"iter"
	"slices"
	"strings"
)

// Root is the elaborated result: the top-level nodes in declaration order
// plus any non-fatal diagnostics recorded along the way.
type Root struct {
	nodes       []Node
	diagnostics []Diagnostic
	byName      map[string]Node
}

// NewRoot assembles a Root from fully constructed top-level nodes.
//
// This is intended for internal use by the elaborator.
// Most users should use the Elaborate or Load functions from the gordl
// package instead.
func NewRoot(nodes []Node, diags []Diagnostic) *Root {
	r := &Root{
		nodes:       slices.Clone(nodes),
		diagnostics: slices.Clone(diags),
		byName:      make(map[string]Node, len(nodes)),
	}
	for _, n := range r.nodes {
		if _, dup := r.byName[n.Name()]; !dup {
			r.byName[n.Name()] = n
		}
	}
	return r
}

func (r *Root) Nodes() []Node             { return slices.Clone(r.nodes) }
func (r *Root) Len() int                  { return len(r.nodes) }
func (r *Root) Diagnostics() []Diagnostic { return slices.Clone(r.diagnostics) }

// Node returns the first top-level node with the given name (including any
// subscript, e.g. "blk[1]"), or nil.
func (r *Root) Node(name string) Node {
	return r.byName[name]
}

// Find resolves a dotted instance path such as "top.ctrl.en" or
// "top.regs[2].f". It returns nil if any step is missing.
func (r *Root) Find(path string) Node {
	if path == "" {
		return nil
	}
	steps := strings.Split(path, ".")
	n := r.Node(steps[0])
	for _, step := range steps[1:] {
		if n == nil {
			return nil
		}
		n = childNamed(n, step)
	}
	return n
}

func childNamed(n Node, name string) Node {
	for _, c := range n.base().children {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

// Walk iterates over every node of every top-level tree, depth-first in
// declaration order.
func (r *Root) Walk() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for _, n := range r.nodes {
			if !walk(n, yield) {
				return
			}
		}
	}
}

// Count returns the number of nodes of each kind.
func (r *Root) Count() map[Kind]int {
	counts := make(map[Kind]int)
	for n := range r.Walk() {
		counts[n.Kind()]++
	}
	return counts
}

// HasWarnings reports whether any diagnostic was recorded.
func (r *Root) HasWarnings() bool { return len(r.diagnostics) > 0 }
