package ast

// ComponentType is the kind keyword of a component definition.
type ComponentType int

const (
	ComponentField ComponentType = iota
	ComponentReg
	ComponentRegFile
	ComponentAddrMap
	ComponentSignal
	ComponentEnum
	ComponentEnumVariant
	ComponentMem
	ComponentConstraint
)

var componentTypeNames = [...]string{
	ComponentField:       "field",
	ComponentReg:         "reg",
	ComponentRegFile:     "regfile",
	ComponentAddrMap:     "addrmap",
	ComponentSignal:      "signal",
	ComponentEnum:        "enum",
	ComponentEnumVariant: "enum variant",
	ComponentMem:         "mem",
	ComponentConstraint:  "constraint",
}

// String returns the SystemRDL keyword for the component type.
func (t ComponentType) String() string {
	if t >= 0 && int(t) < len(componentTypeNames) {
		return componentTypeNames[t]
	}
	return "unknown"
}

// ParseComponentType maps a keyword back to a ComponentType.
func ParseComponentType(s string) (ComponentType, bool) {
	for i, name := range componentTypeNames {
		if name == s {
			return ComponentType(i), true
		}
	}
	return 0, false
}

// InstType is the optional external/internal qualifier of an instantiation.
type InstType int

const (
	InstDefault InstType = iota
	InstExternal
	InstInternal
)

// Component is a component definition, named or anonymous, optionally
// followed by an instantiation clause.
type Component struct {
	Type     ComponentType
	Name     *Ident // nil for an anonymous definition
	Params   []ParamDef
	Body     []BodyElem
	InstType InstType
	Insts    *ComponentInsts
	Span     Span
}

// ParamDef is a definition parameter (#(type name = default)).
type ParamDef struct {
	Type    string
	Name    Ident
	Default Expr
}

// ComponentInsts is the instantiation clause following a definition.
type ComponentInsts struct {
	Params []ParamAssignment
	Insts  []ComponentInst
}

// ParamAssignment binds a parameter at instantiation (#(.name(value))).
type ParamAssignment struct {
	Name  Ident
	Value Expr
}

// ComponentInst is a single instance declarator:
//
//	name[d0][d1] = reset @ at += stride %= align
//	name[msb:lsb] = reset
type ComponentInst struct {
	Name   Ident
	Array  []Expr    // array dimensions, nil when absent
	Range  *BitRange // bit range, nil when absent
	Reset  Expr
	At     Expr
	Stride Expr
	Align  Expr
	Span   Span
}

// BitRange is the [msb:lsb] specifier of a field instance.
type BitRange struct {
	Msb Expr
	Lsb Expr
}

// ExplicitComponentInst instantiates a previously defined component by
// type name, optionally as an alias of another instance.
type ExplicitComponentInst struct {
	InstType InstType
	Alias    *Ident
	TypeName Ident
	Insts    ComponentInsts
	Span     Span
}

func (c *Component) Pos() Span             { return c.Span }
func (e *ExplicitComponentInst) Pos() Span { return e.Span }

func (*Component) description()             {}
func (*ExplicitComponentInst) description() {}

func (*Component) bodyElem()             {}
func (*ExplicitComponentInst) bodyElem() {}

// DisplayName returns the definition name, or "" for anonymous definitions.
func (c *Component) DisplayName() string {
	if c.Name == nil {
		return ""
	}
	return c.Name.Name
}
