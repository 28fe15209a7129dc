// Package gordl elaborates SystemRDL-style register descriptions into a
// queryable register model.
//
// Descriptions are read from YAML documents (see Load) or built directly
// as an ast.Root (see Elaborate). The result is an immutable tree of
// address maps, register files, registers, fields, memories and signals
// with resolved offsets, bit ranges and properties.
package gordl

import (
	"github.com/golangrdl/gordl/internal/expand"
	"github.com/golangrdl/gordl/rdl"
)

// Type aliases for public API - all types come from rdl subpackage.

// Root is the top-level container for an elaborated model.
type Root = rdl.Root

// Node is an elaborated component instance.
type Node = rdl.Node

// Addressable is a node that occupies address space.
type Addressable = rdl.Addressable

// AddrMap is an elaborated addrmap instance.
type AddrMap = rdl.AddrMap

// RegFile is an elaborated regfile instance.
type RegFile = rdl.RegFile

// Register is an elaborated reg instance.
type Register = rdl.Register

// Field is an elaborated field instance.
type Field = rdl.Field

// Mem is an elaborated mem instance.
type Mem = rdl.Mem

// Signal is an elaborated signal instance.
type Signal = rdl.Signal

// Kind identifies the variant of a node.
type Kind = rdl.Kind

// Kind constants.
const (
	KindAddrMap = rdl.KindAddrMap
	KindRegFile = rdl.KindRegFile
	KindReg     = rdl.KindReg
	KindField   = rdl.KindField
	KindMem     = rdl.KindMem
	KindSignal  = rdl.KindSignal
)

// Literal is an evaluated property value.
type Literal = rdl.Literal

// LiteralKind identifies the type of a Literal.
type LiteralKind = rdl.LiteralKind

// Properties is an ordered, read-only property map.
type Properties = rdl.Properties

// AccessType is a software or hardware access mode.
type AccessType = rdl.AccessType

// Error is an elaboration failure.
type Error = rdl.Error

// Diagnostic is a non-fatal finding recorded during elaboration.
type Diagnostic = rdl.Diagnostic

// Severity for diagnostics.
type Severity = rdl.Severity

// Severity constants.
const (
	SeverityError   = rdl.SeverityError
	SeverityWarning = rdl.SeverityWarning
	SeverityInfo    = rdl.SeverityInfo
)

// Error kinds, for use with errors.Is.
var (
	ErrDuplicateProperty    = rdl.ErrDuplicateProperty
	ErrTypeMismatch         = rdl.ErrTypeMismatch
	ErrUnsupportedConstruct = rdl.ErrUnsupportedConstruct
	ErrUnsupportedTopLevel  = rdl.ErrUnsupportedTopLevel
	ErrMalformedRange       = rdl.ErrMalformedRange
	ErrInvalidConstruct     = rdl.ErrInvalidConstruct
	ErrInternal             = rdl.ErrInternal
)

// RangePolicy selects how a field range with msb < lsb is handled.
type RangePolicy = expand.RangePolicy

// RangePolicy constants.
const (
	RangeReject = expand.RangeReject
	RangeCoerce = expand.RangeCoerce
)

// EffectiveValue resolves a property on n through its own properties, the
// nearest ancestor default, and the built-in default for its kind.
func EffectiveValue(n Node, name string) (Literal, bool) {
	return rdl.EffectiveValue(n, name)
}

// Walk iterates over n and its descendants, depth-first.
var Walk = rdl.Walk
