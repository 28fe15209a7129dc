package expand

import (
	"math/bits"

	"github.com/golangrdl/gordl/ast"
	"github.com/golangrdl/gordl/rdl"
)

// Layout is the resolved placement of one declarator.
type Layout struct {
	Base   uint64 // offset of element 0
	Stride uint64 // distance between consecutive elements
	Total  uint64 // bytes spanned by all elements
	Count  uint64 // number of elements
	Size   uint64 // bytes per element

	// Overlaps names an earlier sibling sharing at least one byte with
	// this declarator, or is empty.
	Overlaps string
}

// Offset returns the offset of the i-th element in row-major order.
func (l Layout) Offset(i int) uint64 { return l.Base + uint64(i)*l.Stride }

// Allocator assigns byte offsets to the addressable children of one
// parent. The next auto-incremented offset starts where the previous
// declarator ended and is then padded according to the addressing mode.
type Allocator struct {
	mode   rdl.AddressingType
	next   uint64
	end    uint64
	placed []placedDecl
}

type placedDecl struct {
	name   string
	layout Layout
}

// NewAllocator returns an allocator starting at offset 0.
func NewAllocator(mode rdl.AddressingType) *Allocator {
	return &Allocator{mode: mode}
}

// Next returns the offset the next auto-incremented declarator starts from.
func (a *Allocator) Next() uint64 { return a.next }

// End returns the end of the furthest placed declarator, the size of the
// enclosing container.
func (a *Allocator) End() uint64 { return a.end }

// Place lays out d, whose elements are elemSize bytes each. Placements
// that do not fit in the 64-bit address space are rejected.
func (a *Allocator) Place(d Decl, elemSize uint64) (Layout, error) {
	count := d.Count()
	stride := elemSize
	if d.Stride != nil {
		stride = *d.Stride
		if count > 1 && stride < elemSize {
			return Layout{}, rdl.Invalid(d.Span,
				"stride %d of %q is smaller than its element size %d", stride, d.Name, elemSize)
		}
	}
	total := elemSize
	if count > 1 {
		hi, spread := bits.Mul64(stride, count-1)
		var carry uint64
		total, carry = bits.Add64(spread, elemSize, 0)
		if hi != 0 || carry != 0 {
			return Layout{}, rdl.Invalid(d.Span,
				"array %q of %d elements with stride %#x exceeds the address space", d.Name, count, stride)
		}
	}

	var base uint64
	ok := true
	switch {
	case d.At != nil:
		base = *d.At
	case d.Align != nil:
		base, ok = alignUp(a.next, *d.Align)
	default:
		switch a.mode {
		case ast.AddressingCompact:
			base = a.next
		case ast.AddressingRegAlign:
			base, ok = alignUp(a.next, Pow2Ceil(elemSize))
		case ast.AddressingFullAlign:
			if count > 1 {
				base, ok = alignUp(a.next, Pow2Ceil(total))
			} else {
				base, ok = alignUp(a.next, Pow2Ceil(elemSize))
			}
		default:
			return Layout{}, rdl.Internal(d.Span, "unhandled addressing mode %s", a.mode)
		}
	}
	if !ok {
		return Layout{}, rdl.Invalid(d.Span,
			"aligned offset of %q after %#x exceeds the address space", d.Name, a.next)
	}
	if d.At != nil && d.Align != nil && base%*d.Align != 0 {
		return Layout{}, rdl.Invalid(d.Span,
			"offset %#x of %q is not aligned to %d", base, d.Name, *d.Align)
	}

	next, carry := bits.Add64(base, total, 0)
	if carry != 0 {
		return Layout{}, rdl.Invalid(d.Span,
			"%q at %#x with size %#x exceeds the address space", d.Name, base, total)
	}

	l := Layout{Base: base, Stride: stride, Total: total, Count: count, Size: elemSize}
	for _, p := range a.placed {
		if overlaps(l, p.layout) {
			l.Overlaps = p.name
			break
		}
	}
	a.placed = append(a.placed, placedDecl{name: d.Name, layout: l})
	a.next = next
	a.end = max(a.end, next)
	return l, nil
}

// overlaps reports whether any element of x shares a byte with any
// element of y. Elements of one declarator never overlap each other.
func overlaps(x, y Layout) bool {
	if x.Size == 0 || y.Size == 0 {
		return false
	}
	if x.Base >= y.Base+y.Total || y.Base >= x.Base+x.Total {
		return false
	}
	if x.Count > y.Count {
		x, y = y, x
	}
	for i := range x.Count {
		lo := x.Base + i*x.Stride
		hi := lo + x.Size
		// First element of y ending after lo.
		var j uint64
		if y.Count > 1 && lo >= y.Base+y.Size {
			j = (lo-y.Base-y.Size)/y.Stride + 1
		}
		if j < y.Count && y.Base+j*y.Stride < hi && y.Base+j*y.Stride+y.Size > lo {
			return true
		}
	}
	return false
}

// Pow2Ceil returns the smallest power of two >= n, with Pow2Ceil(0) == 1.
// It returns 0 when the result does not fit in 64 bits.
func Pow2Ceil(n uint64) uint64 {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len64(n-1)
}

func isPow2(n uint64) bool { return n != 0 && n&(n-1) == 0 }

// alignUp rounds v up to a multiple of align. It fails when align is 0
// or the result overflows.
func alignUp(v, align uint64) (uint64, bool) {
	if align == 0 {
		return 0, false
	}
	if align == 1 {
		return v, true
	}
	r, carry := bits.Add64(v, align-1, 0)
	if carry != 0 {
		return 0, false
	}
	return r / align * align, true
}

// RegisterSize returns the byte size of a register of the given width.
func RegisterSize(width uint64, span ast.Span) (uint64, error) {
	if width < 8 || !isPow2(width) {
		return 0, rdl.Invalid(span, "regwidth must be a power of two of at least 8, got %d", width)
	}
	return width / 8, nil
}

// MemSize returns the byte size of a memory.
func MemSize(entries, width uint64, span ast.Span) (uint64, error) {
	if entries == 0 {
		return 0, rdl.Invalid(span, "mementries must be positive")
	}
	if width == 0 || width%8 != 0 {
		return 0, rdl.Invalid(span, "memwidth must be a positive multiple of 8, got %d", width)
	}
	hi, size := bits.Mul64(entries, width/8)
	if hi != 0 {
		return 0, rdl.Invalid(span, "mem of %d entries of %d bits exceeds the address space", entries, width)
	}
	return size, nil
}
