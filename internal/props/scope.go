package props

import "github.com/golangrdl/gordl/rdl"

// Scope is an immutable chain of default-property snapshots, innermost
// first. The nil *Scope is the empty chain. Pushing never modifies the
// receiver, so sibling subtrees can share a parent chain by reference.
type Scope struct {
	parent   *Scope
	defaults rdl.Properties
	depth    int
}

// Push returns a new scope with defaults innermost. An empty set of
// defaults returns s unchanged.
func (s *Scope) Push(defaults rdl.Properties) *Scope {
	if defaults.Len() == 0 {
		return s
	}
	return &Scope{parent: s, defaults: defaults, depth: s.Depth() + 1}
}

// Depth returns the number of non-empty default frames in the chain.
func (s *Scope) Depth() int {
	if s == nil {
		return 0
	}
	return s.depth
}

// Lookup returns the nearest default for name.
func (s *Scope) Lookup(name string) (rdl.Literal, bool) {
	for f := s; f != nil; f = f.parent {
		if v, ok := f.defaults.Get(name); ok {
			return v, true
		}
	}
	return rdl.Literal{}, false
}

// Effective resolves name for a node of the given kind whose local
// properties are local and whose ancestors' defaults form s. It mirrors
// rdl.EffectiveValue for nodes not yet constructed.
func (s *Scope) Effective(kind rdl.Kind, local rdl.Properties, name string) (rdl.Literal, bool) {
	if v, ok := local.Get(name); ok {
		return v, true
	}
	if v, ok := s.Lookup(name); ok {
		return v, true
	}
	return rdl.BuiltinDefault(kind, name)
}

// EffectiveNumber is Effective for numeric properties. ok is false when
// the property is absent.
func (s *Scope) EffectiveNumber(kind rdl.Kind, local rdl.Properties, name string) (uint64, bool) {
	v, ok := s.Effective(kind, local, name)
	if !ok {
		return 0, false
	}
	return v.Number()
}
