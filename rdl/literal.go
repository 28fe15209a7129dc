package rdl

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/golangrdl/gordl/ast"
)

// Keyword vocabulary shared with the input AST.
type (
	AccessType     = ast.AccessType
	OnReadType     = ast.OnReadType
	OnWriteType    = ast.OnWriteType
	AddressingType = ast.AddressingType
	PrecedenceType = ast.PrecedenceType
)

// LiteralKind identifies the type of a resolved literal value.
type LiteralKind int

const (
	LitNumber LiteralKind = iota
	LitBoolean
	LitString
	LitAccessType
	LitOnReadType
	LitOnWriteType
	LitAddressingType
	LitPrecedence
	LitEnum
	LitArray
	LitStruct
)

var literalKindNames = [...]string{
	LitNumber:         "number",
	LitBoolean:        "boolean",
	LitString:         "string",
	LitAccessType:     "accesstype",
	LitOnReadType:     "onreadtype",
	LitOnWriteType:    "onwritetype",
	LitAddressingType: "addressingtype",
	LitPrecedence:     "precedencetype",
	LitEnum:           "enum",
	LitArray:          "array",
	LitStruct:         "struct",
}

func (k LiteralKind) String() string {
	if k >= 0 && int(k) < len(literalKindNames) {
		return literalKindNames[k]
	}
	return "unknown"
}

// StructField is one member of a struct literal.
type StructField struct {
	Name  string
	Value Literal
}

// Literal is a fully evaluated constant.
// The zero value is the unsized number 0.
type Literal struct {
	kind   LiteralKind
	num    uint64 // number value, boolean (0/1), or keyword enum
	width  uint   // bit width for sized numbers, 0 if unsized
	str    string // string value or enumerator name
	enum   string // enum type name, or struct type name
	elems  []Literal
	fields []StructField
}

// NumberLit returns an unsized number.
func NumberLit(v uint64) Literal { return Literal{kind: LitNumber, num: v} }

// SizedNumberLit returns a number of the given bit width, masked to fit.
func SizedNumberLit(width uint, v uint64) Literal {
	return Literal{kind: LitNumber, num: Mask(v, width), width: width}
}

// BoolLit returns a boolean.
func BoolLit(b bool) Literal {
	l := Literal{kind: LitBoolean}
	if b {
		l.num = 1
	}
	return l
}

// StringLit returns a string.
func StringLit(s string) Literal { return Literal{kind: LitString, str: s} }

// AccessLit returns an access-type keyword.
func AccessLit(a AccessType) Literal { return Literal{kind: LitAccessType, num: uint64(a)} }

// OnReadLit returns an onread-type keyword.
func OnReadLit(o OnReadType) Literal { return Literal{kind: LitOnReadType, num: uint64(o)} }

// OnWriteLit returns an onwrite-type keyword.
func OnWriteLit(o OnWriteType) Literal { return Literal{kind: LitOnWriteType, num: uint64(o)} }

// AddressingLit returns an addressing-type keyword.
func AddressingLit(a AddressingType) Literal {
	return Literal{kind: LitAddressingType, num: uint64(a)}
}

// PrecedenceLit returns a precedence keyword.
func PrecedenceLit(p PrecedenceType) Literal { return Literal{kind: LitPrecedence, num: uint64(p)} }

// EnumLit returns an enumerator reference Enum::name.
func EnumLit(enum, name string) Literal { return Literal{kind: LitEnum, enum: enum, str: name} }

// ArrayLit returns an array of literals.
func ArrayLit(elems ...Literal) Literal {
	return Literal{kind: LitArray, elems: slices.Clone(elems)}
}

// StructLit returns a struct literal of the named type.
func StructLit(typ string, fields ...StructField) Literal {
	return Literal{kind: LitStruct, enum: typ, fields: slices.Clone(fields)}
}

// Kind returns the literal's kind.
func (l Literal) Kind() LiteralKind { return l.kind }

// Number returns the numeric value.
func (l Literal) Number() (uint64, bool) {
	return l.num, l.kind == LitNumber
}

// Width returns the bit width of a sized number, or 0.
func (l Literal) Width() uint { return l.width }

// Sized reports whether the literal is a sized number.
func (l Literal) Sized() bool { return l.kind == LitNumber && l.width > 0 }

// Bool returns the boolean value.
func (l Literal) Bool() (bool, bool) {
	return l.num != 0, l.kind == LitBoolean
}

// Str returns the string value.
func (l Literal) Str() (string, bool) {
	return l.str, l.kind == LitString
}

// Access returns the access-type keyword.
func (l Literal) Access() (AccessType, bool) {
	return AccessType(l.num), l.kind == LitAccessType
}

// OnRead returns the onread-type keyword.
func (l Literal) OnRead() (OnReadType, bool) {
	return OnReadType(l.num), l.kind == LitOnReadType
}

// OnWrite returns the onwrite-type keyword.
func (l Literal) OnWrite() (OnWriteType, bool) {
	return OnWriteType(l.num), l.kind == LitOnWriteType
}

// Addressing returns the addressing-type keyword.
func (l Literal) Addressing() (AddressingType, bool) {
	return AddressingType(l.num), l.kind == LitAddressingType
}

// Precedence returns the precedence keyword.
func (l Literal) Precedence() (PrecedenceType, bool) {
	return PrecedenceType(l.num), l.kind == LitPrecedence
}

// Enum returns the enum type and enumerator name.
func (l Literal) Enum() (enum, name string, ok bool) {
	return l.enum, l.str, l.kind == LitEnum
}

// Elems returns a copy of an array literal's elements.
func (l Literal) Elems() []Literal { return slices.Clone(l.elems) }

// Fields returns a copy of a struct literal's members.
func (l Literal) Fields() []StructField { return slices.Clone(l.fields) }

// Truth returns the truth value of a boolean or number.
func (l Literal) Truth() (bool, bool) {
	switch l.kind {
	case LitBoolean, LitNumber:
		return l.num != 0, true
	}
	return false, false
}

// Equal reports whether two literals have the same kind and value.
// Sized and unsized numbers with the same value are equal.
func (l Literal) Equal(o Literal) bool {
	if l.kind != o.kind {
		return false
	}
	switch l.kind {
	case LitNumber, LitBoolean, LitAccessType, LitOnReadType, LitOnWriteType,
		LitAddressingType, LitPrecedence:
		return l.num == o.num
	case LitString:
		return l.str == o.str
	case LitEnum:
		return l.enum == o.enum && l.str == o.str
	case LitArray:
		return slices.EqualFunc(l.elems, o.elems, Literal.Equal)
	case LitStruct:
		return l.enum == o.enum && slices.EqualFunc(l.fields, o.fields,
			func(a, b StructField) bool { return a.Name == b.Name && a.Value.Equal(b.Value) })
	}
	return false
}

// String renders the literal in SystemRDL syntax.
func (l Literal) String() string {
	switch l.kind {
	case LitNumber:
		if l.width > 0 {
			return fmt.Sprintf("%d'h%x", l.width, l.num)
		}
		if l.num > 9 {
			return "0x" + strconv.FormatUint(l.num, 16)
		}
		return strconv.FormatUint(l.num, 10)
	case LitBoolean:
		return strconv.FormatBool(l.num != 0)
	case LitString:
		return strconv.Quote(l.str)
	case LitAccessType:
		return AccessType(l.num).String()
	case LitOnReadType:
		return OnReadType(l.num).String()
	case LitOnWriteType:
		return OnWriteType(l.num).String()
	case LitAddressingType:
		return AddressingType(l.num).String()
	case LitPrecedence:
		return PrecedenceType(l.num).String()
	case LitEnum:
		return l.enum + "::" + l.str
	case LitArray:
		parts := make([]string, len(l.elems))
		for i, e := range l.elems {
			parts[i] = e.String()
		}
		return "'{" + strings.Join(parts, ", ") + "}"
	case LitStruct:
		parts := make([]string, len(l.fields))
		for i, f := range l.fields {
			parts[i] = f.Name + ":" + f.Value.String()
		}
		return l.enum + "'{" + strings.Join(parts, ", ") + "}"
	}
	return "?"
}

// Mask truncates v to width bits. A width of 0 or >= 64 leaves v unchanged.
func Mask(v uint64, width uint) uint64 {
	if width == 0 || width >= 64 {
		return v
	}
	return v & (1<<width - 1)
}
