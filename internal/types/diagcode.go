package types

// Error and diagnostic codes emitted by the evaluator, property resolver,
// instance expander and elaborator. Centralizing these prevents silent
// breakage from typos in string literals.

// Fatal error codes.
const (
	CodeDuplicateProperty    = "duplicate-property"
	CodeTypeMismatch         = "type-mismatch"
	CodeUnsupportedConstruct = "unsupported-construct"
	CodeUnsupportedTopLevel  = "unsupported-top-level"
	CodeMalformedRange       = "malformed-range"
	CodeInvalidConstruct     = "invalid-construct"
	CodeInternal             = "internal"
)

// Warning codes recorded as diagnostics on a successful elaboration.
const (
	DiagMalformedRangeCoerced = "malformed-range-coerced"
	DiagAddressOverlap        = "address-overlap"
)

// AllCodes returns every known code grouped by phase.
func AllCodes() []CodeInfo {
	return []CodeInfo{
		{Code: CodeTypeMismatch, Phase: "eval"},
		{Code: CodeDuplicateProperty, Phase: "props"},
		{Code: CodeMalformedRange, Phase: "expand"},
		{Code: DiagMalformedRangeCoerced, Phase: "expand"},
		{Code: DiagAddressOverlap, Phase: "expand"},
		{Code: CodeUnsupportedConstruct, Phase: "elaborate"},
		{Code: CodeUnsupportedTopLevel, Phase: "elaborate"},
		{Code: CodeInvalidConstruct, Phase: "elaborate"},
		{Code: CodeInternal, Phase: "elaborate"},
	}
}

// CodeInfo describes a code and the phase that emits it.
type CodeInfo struct {
	Code  string
	Phase string
}
