package expand

import (
	"fmt"

	"github.com/golangrdl/gordl/internal/types"
	"github.com/golangrdl/gordl/rdl"
)

// RangePolicy selects how a [msb:lsb] range with msb < lsb is handled.
type RangePolicy int

const (
	// RangeReject fails elaboration with a MalformedRange error.
	RangeReject RangePolicy = iota
	// RangeCoerce makes a single-bit field at lsb and records a warning.
	RangeCoerce
)

func (p RangePolicy) String() string {
	switch p {
	case RangeReject:
		return "reject"
	case RangeCoerce:
		return "coerce"
	}
	return "unknown"
}

// Bits is a resolved field placement.
type Bits struct {
	Msb, Lsb uint64
}

// BitAllocator assigns bit ranges to the fields of one register. Fields
// without an explicit range or offset pack at the next free bit after the
// previous field.
type BitAllocator struct {
	regWidth uint64
	policy   RangePolicy
	next     uint64
	placed   []placedField
}

type placedField struct {
	name string
	bits Bits
}

// NewBitAllocator returns an allocator for a register regWidth bits wide.
func NewBitAllocator(regWidth uint64, policy RangePolicy) *BitAllocator {
	return &BitAllocator{regWidth: regWidth, policy: policy}
}

// Place resolves the bits of field declarator d. fieldWidth is the
// effective fieldwidth, used when d carries neither a range nor a width.
// A coerced malformed range is reported as a diagnostic, which the caller
// attaches to the field's path.
func (b *BitAllocator) Place(d Decl, fieldWidth uint64) (Bits, *rdl.Diagnostic, error) {
	var out Bits
	var diag *rdl.Diagnostic

	if r := d.Range; r != nil {
		out = Bits{Msb: r.Msb, Lsb: r.Lsb}
		if r.Msb < r.Lsb {
			if b.policy != RangeCoerce {
				return Bits{}, nil, rdl.MalformedRange(d.Name, r.Msb, r.Lsb, d.Span)
			}
			out.Msb = r.Lsb
			diag = &rdl.Diagnostic{
				Severity: rdl.SeverityWarning,
				Code:     types.DiagMalformedRangeCoerced,
				Message: fmt.Sprintf("field %q [%d:%d]: msb is less than lsb, using single bit %d",
					d.Name, r.Msb, r.Lsb, r.Lsb),
				Span: d.Span,
			}
		}
	} else {
		width := d.Width
		if width == 0 {
			width = fieldWidth
		}
		if width == 0 {
			return Bits{}, nil, rdl.Invalid(d.Span, "field %q has zero width", d.Name)
		}
		out.Lsb = b.next
		if d.At != nil {
			out.Lsb = *d.At
		}
		if out.Lsb >= b.regWidth || width > b.regWidth-out.Lsb {
			return Bits{}, nil, rdl.Invalid(d.Span,
				"field %q of width %d at bit %d exceeds register width %d", d.Name, width, out.Lsb, b.regWidth)
		}
		out.Msb = out.Lsb + width - 1
	}

	if out.Msb >= b.regWidth {
		return Bits{}, nil, rdl.Invalid(d.Span,
			"field %q [%d:%d] exceeds register width %d", d.Name, out.Msb, out.Lsb, b.regWidth)
	}
	for _, p := range b.placed {
		if out.Lsb <= p.bits.Msb && p.bits.Lsb <= out.Msb {
			return Bits{}, nil, rdl.Invalid(d.Span,
				"field %q [%d:%d] overlaps field %q [%d:%d]",
				d.Name, out.Msb, out.Lsb, p.name, p.bits.Msb, p.bits.Lsb)
		}
	}

	b.placed = append(b.placed, placedField{name: d.Name, bits: out})
	b.next = out.Msb + 1
	return out, diag, nil
}
