package rdl

// AddrMap is an address map instance.
type AddrMap struct {
	nodeBase
	offset uint64
}

// Offset returns the byte offset relative to the parent's base.
func (m *AddrMap) Offset() uint64 { return m.offset }

// AbsoluteAddress returns the byte address relative to the top-level node.
func (m *AddrMap) AbsoluteAddress() uint64 { return absoluteAddress(m.parent, m.offset) }

// Size returns the end of the furthest addressable child.
func (m *AddrMap) Size() uint64 { return spanOfChildren(&m.nodeBase) }

// Addressing returns the effective addressing mode used for auto-increment.
func (m *AddrMap) Addressing() AddressingType {
	v, _ := EffectiveValue(m, PropAddressing)
	a, _ := v.Addressing()
	return a
}

// RegFile is a register file instance.
type RegFile struct {
	nodeBase
	offset uint64
}

// Offset returns the byte offset relative to the parent's base.
func (f *RegFile) Offset() uint64 { return f.offset }

// AbsoluteAddress returns the byte address relative to the top-level node.
func (f *RegFile) AbsoluteAddress() uint64 { return absoluteAddress(f.parent, f.offset) }

// Size returns the end of the furthest addressable child.
func (f *RegFile) Size() uint64 { return spanOfChildren(&f.nodeBase) }

// Register is a register instance. Its children are fields and signals.
type Register struct {
	nodeBase
	offset uint64
}

// Offset returns the byte offset relative to the parent's base.
func (r *Register) Offset() uint64 { return r.offset }

// AbsoluteAddress returns the byte address relative to the top-level node.
func (r *Register) AbsoluteAddress() uint64 { return absoluteAddress(r.parent, r.offset) }

// Width returns the effective register width in bits.
func (r *Register) Width() uint64 {
	v, _ := EffectiveValue(r, PropRegWidth)
	n, _ := v.Number()
	return n
}

// Size returns the register size in bytes.
func (r *Register) Size() uint64 { return r.Width() / 8 }

// Fields returns the register's fields in declaration order.
func (r *Register) Fields() []*Field {
	var out []*Field
	for _, c := range r.children {
		if f, ok := c.(*Field); ok {
			out = append(out, f)
		}
	}
	return out
}

// ResetValue composes the register reset from its fields' effective reset
// values. The boolean is false when no field declares a reset. Only the low
// 64 bits are represented.
func (r *Register) ResetValue() (uint64, bool) {
	var value uint64
	var found bool
	for _, f := range r.Fields() {
		v, ok := f.Reset()
		if !ok {
			continue
		}
		n, ok := v.Number()
		if !ok {
			continue
		}
		found = true
		if f.lsb < 64 {
			value |= Mask(n, uint(f.Width())) << f.lsb
		}
	}
	return value, found
}

// Field is a bit range within a register.
type Field struct {
	nodeBase
	msb uint64
	lsb uint64
}

// Msb returns the most significant bit position.
func (f *Field) Msb() uint64 { return f.msb }

// Lsb returns the least significant bit position, the field's offset in
// its register.
func (f *Field) Lsb() uint64 { return f.lsb }

// Width returns the field width in bits.
func (f *Field) Width() uint64 { return f.msb - f.lsb + 1 }

// SWAccess returns the effective software access.
func (f *Field) SWAccess() AccessType { return f.access(PropSW) }

// HWAccess returns the effective hardware access.
func (f *Field) HWAccess() AccessType { return f.access(PropHW) }

func (f *Field) access(name string) AccessType {
	v, _ := EffectiveValue(f, name)
	a, _ := v.Access()
	return a
}

// Reset returns the effective reset value, if any.
func (f *Field) Reset() (Literal, bool) { return EffectiveValue(f, PropReset) }

// Register returns the enclosing register, or nil for a top-level field.
func (f *Field) Register() *Register {
	r, _ := f.parent.(*Register)
	return r
}

// Mem is a memory instance.
type Mem struct {
	nodeBase
	offset uint64
}

// Offset returns the byte offset relative to the parent's base.
func (m *Mem) Offset() uint64 { return m.offset }

// AbsoluteAddress returns the byte address relative to the top-level node.
func (m *Mem) AbsoluteAddress() uint64 { return absoluteAddress(m.parent, m.offset) }

// Entries returns the effective number of entries.
func (m *Mem) Entries() uint64 {
	v, _ := EffectiveValue(m, PropMemEntries)
	n, _ := v.Number()
	return n
}

// EntryWidth returns the effective entry width in bits.
func (m *Mem) EntryWidth() uint64 {
	v, _ := EffectiveValue(m, PropMemWidth)
	n, _ := v.Number()
	return n
}

// Size returns the memory size in bytes.
func (m *Mem) Size() uint64 { return m.Entries() * (m.EntryWidth() / 8) }

// Signal is a signal instance. Signals do not occupy address space.
type Signal struct {
	nodeBase
}

// Width returns the effective signal width in bits.
func (s *Signal) Width() uint64 {
	v, _ := EffectiveValue(s, PropSignalWidth)
	n, _ := v.Number()
	return n
}
