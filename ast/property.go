package ast

// PropertyAssignment is a property assignment inside a body or at top level.
//
// Variants: *PropAssignment, *PropModifier, *EncodeAssignment,
// *PostPropAssignment, *PostEncodeAssignment.
type PropertyAssignment interface {
	Description
	BodyElem
	propertyAssignment()
}

// PropAssignment is `[default] name [= rhs];`. A nil Value is the flag
// form (`name;`).
type PropAssignment struct {
	Default bool
	Name    Ident
	Value   PropRhs
	Span    Span
}

// PropModifier is `[default] posedge|negedge|... name;`.
type PropModifier struct {
	Default  bool
	Modifier string
	Name     Ident
	Span     Span
}

// EncodeAssignment is `[default] encode = enum_name;`.
type EncodeAssignment struct {
	Default bool
	Enum    Ident
	Span    Span
}

// PostPropAssignment is `inst.path->prop = rhs;`.
type PostPropAssignment struct {
	Target InstanceRef
	Prop   Ident
	Value  PropRhs
	Span   Span
}

// PostEncodeAssignment is `inst.path->encode = enum_name;`.
type PostEncodeAssignment struct {
	Target InstanceRef
	Enum   Ident
	Span   Span
}

// PropRhs is the right-hand side of a property assignment.
//
// Variants: every Expr, and *PrecedenceRhs.
type PropRhs interface {
	Pos() Span
	propRhs()
}

// PrecedenceRhs is the `hw`/`sw` keyword on the right of `precedence =`.
type PrecedenceRhs struct {
	Value PrecedenceType
	Span  Span
}

func (p *PropAssignment) Pos() Span       { return p.Span }
func (p *PropModifier) Pos() Span         { return p.Span }
func (p *EncodeAssignment) Pos() Span     { return p.Span }
func (p *PostPropAssignment) Pos() Span   { return p.Span }
func (p *PostEncodeAssignment) Pos() Span { return p.Span }
func (p *PrecedenceRhs) Pos() Span        { return p.Span }

func (*PropAssignment) description()       {}
func (*PropModifier) description()         {}
func (*EncodeAssignment) description()     {}
func (*PostPropAssignment) description()   {}
func (*PostEncodeAssignment) description() {}

func (*PropAssignment) bodyElem()       {}
func (*PropModifier) bodyElem()         {}
func (*EncodeAssignment) bodyElem()     {}
func (*PostPropAssignment) bodyElem()   {}
func (*PostEncodeAssignment) bodyElem() {}

func (*PropAssignment) propertyAssignment()       {}
func (*PropModifier) propertyAssignment()         {}
func (*EncodeAssignment) propertyAssignment()     {}
func (*PostPropAssignment) propertyAssignment()   {}
func (*PostEncodeAssignment) propertyAssignment() {}

func (*PrecedenceRhs) propRhs() {}
