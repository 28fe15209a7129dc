package rdl

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golangrdl/gordl/ast"
	"github.com/golangrdl/gordl/internal/types"
)

// Error kinds. Use errors.Is to classify an *Error.
var (
	ErrDuplicateProperty    = errors.New("duplicate property")
	ErrTypeMismatch         = errors.New("type mismatch")
	ErrUnsupportedConstruct = errors.New("unsupported construct")
	ErrUnsupportedTopLevel  = errors.New("unsupported top-level construct")
	ErrMalformedRange       = errors.New("malformed bit range")
	ErrInvalidConstruct     = errors.New("invalid construct")
	ErrInternal             = errors.New("internal error")
)

// Error is an elaboration failure. Elaboration stops at the first Error.
type Error struct {
	Kind      error  // one of the Err* kinds above
	Path      string // dotted instance path from the root, "" if unknown
	Construct string // unsupported construct or component kind
	Property  string // property name for duplicate-property errors
	Operator  string // operator for type mismatches
	Expected  string // expected operand kind(s) for type mismatches
	Actual    LiteralKind
	Span      ast.Span
	Msg       string // extra detail
}

// Unwrap returns the error kind so errors.Is works against the Err* values.
func (e *Error) Unwrap() error { return e.Kind }

// Code returns the stable machine-readable code for the error kind.
func (e *Error) Code() string {
	switch e.Kind {
	case ErrDuplicateProperty:
		return types.CodeDuplicateProperty
	case ErrTypeMismatch:
		return types.CodeTypeMismatch
	case ErrUnsupportedConstruct:
		return types.CodeUnsupportedConstruct
	case ErrUnsupportedTopLevel:
		return types.CodeUnsupportedTopLevel
	case ErrMalformedRange:
		return types.CodeMalformedRange
	case ErrInvalidConstruct:
		return types.CodeInvalidConstruct
	}
	return types.CodeInternal
}

// Error renders "file:line:col: path: message".
func (e *Error) Error() string {
	var b strings.Builder
	if loc := e.Span.String(); loc != "" {
		b.WriteString(loc)
		b.WriteString(": ")
	}
	if e.Path != "" {
		b.WriteString(e.Path)
		b.WriteString(": ")
	}
	b.WriteString(e.message())
	return b.String()
}

func (e *Error) message() string {
	switch e.Kind {
	case ErrDuplicateProperty:
		return fmt.Sprintf("duplicate property %q", e.Property)
	case ErrTypeMismatch:
		return fmt.Sprintf("type mismatch: operator %q expects %s, got %s",
			e.Operator, e.Expected, e.Actual)
	case ErrUnsupportedConstruct:
		return "unsupported construct: " + e.Construct
	case ErrUnsupportedTopLevel:
		return "unsupported top-level construct: " + e.Construct
	case ErrMalformedRange, ErrInvalidConstruct, ErrInternal:
		return e.Kind.Error() + ": " + e.Msg
	}
	return e.Msg
}

// AtPath returns a copy of e with Path set, unless a path is already
// recorded. Errors raised deep in the tree keep the innermost path.
func (e *Error) AtPath(path string) *Error {
	if e.Path != "" || path == "" {
		return e
	}
	c := *e
	c.Path = path
	return &c
}

// DuplicateProperty reports a second assignment of name in one namespace.
func DuplicateProperty(name string, span ast.Span) *Error {
	return &Error{Kind: ErrDuplicateProperty, Property: name, Span: span}
}

// TypeMismatch reports an operand of the wrong literal kind.
func TypeMismatch(op, expected string, actual LiteralKind, span ast.Span) *Error {
	return &Error{Kind: ErrTypeMismatch, Operator: op, Expected: expected, Actual: actual, Span: span}
}

// Unsupported reports a recognized but unhandled grammar form.
func Unsupported(construct string, span ast.Span) *Error {
	return &Error{Kind: ErrUnsupportedConstruct, Construct: construct, Span: span}
}

// UnsupportedTopLevel reports an unhandled top-level description kind.
func UnsupportedTopLevel(kind string, span ast.Span) *Error {
	return &Error{Kind: ErrUnsupportedTopLevel, Construct: kind, Span: span}
}

// MalformedRange reports a field bit range with msb < lsb.
func MalformedRange(field string, msb, lsb uint64, span ast.Span) *Error {
	return &Error{
		Kind: ErrMalformedRange,
		Span: span,
		Msg:  fmt.Sprintf("field %q [%d:%d]: msb is less than lsb", field, msb, lsb),
	}
}

// Invalid reports structurally invalid input.
func Invalid(span ast.Span, format string, args ...any) *Error {
	return &Error{Kind: ErrInvalidConstruct, Span: span, Msg: fmt.Sprintf(format, args...)}
}

// Internal reports an AST variant the elaborator does not know about.
func Internal(span ast.Span, format string, args ...any) *Error {
	return &Error{Kind: ErrInternal, Span: span, Msg: fmt.Sprintf(format, args...)}
}
