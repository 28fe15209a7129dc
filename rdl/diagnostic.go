package rdl

import (
	"strings"

	"github.com/golangrdl/gordl/ast"
)

// Severity of a non-fatal diagnostic.
type Severity int

const (
	SeverityError   Severity = iota // should correct
	SeverityWarning                 // might be correct
	SeverityInfo                    // informational
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	}
	return "unknown"
}

// Diagnostic is a non-fatal finding recorded during a successful
// elaboration, such as a malformed bit range coerced to a single bit.
type Diagnostic struct {
	Severity Severity
	Code     string // e.g., "malformed-range-coerced"
	Message  string
	Path     string // instance path
	Span     ast.Span
}

// String returns "[severity] location: path: message" with empty parts omitted.
func (d Diagnostic) String() string {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(d.Severity.String())
	b.WriteString("] ")
	if loc := d.Span.String(); loc != "" {
		b.WriteString(loc)
		b.WriteString(": ")
	}
	if d.Path != "" {
		b.WriteString(d.Path)
		b.WriteString(": ")
	}
	b.WriteString(d.Message)
	return b.String()
}
