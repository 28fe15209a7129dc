package rdl

import (
	"iter"
	"slices"
)

// Property is a single name/value pair.
type Property struct {
	Name  string
	Value Literal
}

// Properties is an immutable, insertion-ordered property map.
// The zero value is empty and ready to use.
type Properties struct {
	entries []Property
	index   map[string]int
}

// NewProperties builds a Properties from entries in order. A later entry
// with a name already present replaces the earlier value in place; the
// elaborator rejects duplicates before reaching this point.
func NewProperties(entries ...Property) Properties {
	if len(entries) == 0 {
		return Properties{}
	}
	p := Properties{
		entries: make([]Property, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if i, ok := p.index[e.Name]; ok {
			p.entries[i].Value = e.Value
			continue
		}
		p.index[e.Name] = len(p.entries)
		p.entries = append(p.entries, e)
	}
	return p
}

// Get returns the value for name.
func (p Properties) Get(name string) (Literal, bool) {
	i, ok := p.index[name]
	if !ok {
		return Literal{}, false
	}
	return p.entries[i].Value, true
}

// Has reports whether name is present.
func (p Properties) Has(name string) bool {
	_, ok := p.index[name]
	return ok
}

// Len returns the number of properties.
func (p Properties) Len() int { return len(p.entries) }

// Names returns the property names in insertion order.
func (p Properties) Names() []string {
	names := make([]string, len(p.entries))
	for i, e := range p.entries {
		names[i] = e.Name
	}
	return names
}

// Entries returns a copy of the properties in insertion order.
func (p Properties) Entries() []Property { return slices.Clone(p.entries) }

// All iterates over the properties in insertion order.
func (p Properties) All() iter.Seq2[string, Literal] {
	return func(yield func(string, Literal) bool) {
		for _, e := range p.entries {
			if !yield(e.Name, e.Value) {
				return
			}
		}
	}
}
