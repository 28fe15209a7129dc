// Package ast provides the syntax tree consumed by the elaborator.
//
// The tree is produced by an external SystemRDL parser (or decoded from a
// stored document) and is treated as immutable once handed to the
// elaborator. Each grammar category is a closed family: an interface with
// an unexported marker method, so only this package can add variants.
package ast

import "strconv"

// Span is a source location carried through from the parser.
// Zero fields mean the location is unknown.
type Span struct {
	File   string
	Line   int // 1-based
	Column int // 1-based
}

// IsZero reports whether the span carries no location at all.
func (s Span) IsZero() bool {
	return s.File == "" && s.Line == 0 && s.Column == 0
}

// String renders the span as "file:line:col", omitting unknown parts.
func (s Span) String() string {
	out := s.File
	if s.Line > 0 {
		if out != "" {
			out += ":"
		}
		out += strconv.Itoa(s.Line)
		if s.Column > 0 {
			out += ":" + strconv.Itoa(s.Column)
		}
	}
	return out
}

// Ident is an identifier with source location.
type Ident struct {
	Name string
	Span Span
}

// NewIdent creates a new identifier.
func NewIdent(name string, span Span) Ident {
	return Ident{Name: name, Span: span}
}

// IsIdentifier reports whether s is a SystemRDL identifier: a letter or
// underscore followed by letters, digits and underscores.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// Root is the parsed form of one or more description files.
type Root struct {
	Descriptions []Description
}

// Description is a top-level construct.
//
// Variants: *Component, *EnumDef, *StructDef, *ConstraintDef,
// *PropertyDefinition, *ExplicitComponentInst and every PropertyAssignment.
type Description interface {
	Pos() Span
	description()
}

// BodyElem is an element of a component body.
//
// Variants: *Component, *EnumDef, *StructDef, *ConstraintDef,
// *ExplicitComponentInst and every PropertyAssignment.
type BodyElem interface {
	Pos() Span
	bodyElem()
}

// EnumDef is an enum definition. The elaborator does not support enums,
// so only the name and entries are kept.
type EnumDef struct {
	Name    Ident
	Entries []EnumEntry
	Span    Span
}

// EnumEntry is one enumerator of an EnumDef.
type EnumEntry struct {
	Name  Ident
	Value Expr
}

// StructDef is a struct type definition.
type StructDef struct {
	Name     Ident
	Abstract bool
	Base     *Ident
	Members  []StructMember
	Span     Span
}

// StructMember is one member of a StructDef.
type StructMember struct {
	Type  string
	Name  Ident
	Array bool
}

// ConstraintDef is a constraint definition.
type ConstraintDef struct {
	Name *Ident
	Span Span
}

// PropertyDefinition is a user-defined property declaration.
type PropertyDefinition struct {
	Name      Ident
	Type      string
	Component []ComponentType
	Default   Expr
	Span      Span
}

func (d *EnumDef) Pos() Span            { return d.Span }
func (d *StructDef) Pos() Span          { return d.Span }
func (d *ConstraintDef) Pos() Span      { return d.Span }
func (d *PropertyDefinition) Pos() Span { return d.Span }

func (*EnumDef) description()            {}
func (*StructDef) description()          {}
func (*ConstraintDef) description()      {}
func (*PropertyDefinition) description() {}

func (*EnumDef) bodyElem()       {}
func (*StructDef) bodyElem()     {}
func (*ConstraintDef) bodyElem() {}
