package ast

// PrimaryLiteral is a literal value appearing in source.
//
// Variants: Number, Bits, String, Bool, AccessTypeLit, OnReadTypeLit,
// OnWriteTypeLit, AddressingTypeLit, EnumeratorLit.
type PrimaryLiteral interface {
	primaryLiteral()
}

// Number is an unsized integer literal.
type Number uint64

// Bits is a sized integer literal such as 4'hF.
type Bits struct {
	Width uint
	Value uint64
}

// String is a string literal.
type String string

// Bool is `true` or `false`.
type Bool bool

// AccessTypeLit is an access-type keyword used as a value.
type AccessTypeLit AccessType

// OnReadTypeLit is an onread-type keyword used as a value.
type OnReadTypeLit OnReadType

// OnWriteTypeLit is an onwrite-type keyword used as a value.
type OnWriteTypeLit OnWriteType

// AddressingTypeLit is an addressing-type keyword used as a value.
type AddressingTypeLit AddressingType

// EnumeratorLit is `Enum::name`.
type EnumeratorLit struct {
	Enum string
	Name string
}

func (Number) primaryLiteral()            {}
func (Bits) primaryLiteral()              {}
func (String) primaryLiteral()            {}
func (Bool) primaryLiteral()              {}
func (AccessTypeLit) primaryLiteral()     {}
func (OnReadTypeLit) primaryLiteral()     {}
func (OnWriteTypeLit) primaryLiteral()    {}
func (AddressingTypeLit) primaryLiteral() {}
func (EnumeratorLit) primaryLiteral()     {}

// AccessType is a software or hardware access mode.
type AccessType int

const (
	AccessNA AccessType = iota
	AccessR
	AccessW
	AccessRW
	AccessWR
	AccessW1
	AccessRW1
	AccessWR1
)

var accessTypeNames = [...]string{
	AccessNA:  "na",
	AccessR:   "r",
	AccessW:   "w",
	AccessRW:  "rw",
	AccessWR:  "wr",
	AccessW1:  "w1",
	AccessRW1: "rw1",
	AccessWR1: "wr1",
}

func (a AccessType) String() string { return enumName(accessTypeNames[:], int(a)) }

// Readable reports whether the access mode permits reads.
func (a AccessType) Readable() bool {
	switch a {
	case AccessR, AccessRW, AccessWR, AccessRW1, AccessWR1:
		return true
	}
	return false
}

// Writable reports whether the access mode permits writes.
func (a AccessType) Writable() bool {
	switch a {
	case AccessW, AccessRW, AccessWR, AccessW1, AccessRW1, AccessWR1:
		return true
	}
	return false
}

// ParseAccessType maps a keyword to an AccessType.
func ParseAccessType(s string) (AccessType, bool) {
	i, ok := enumIndex(accessTypeNames[:], s)
	return AccessType(i), ok
}

// OnReadType is the side effect of a software read.
type OnReadType int

const (
	OnReadClear OnReadType = iota
	OnReadSet
	OnReadUser
)

var onReadTypeNames = [...]string{
	OnReadClear: "rclr",
	OnReadSet:   "rset",
	OnReadUser:  "ruser",
}

func (o OnReadType) String() string { return enumName(onReadTypeNames[:], int(o)) }

// ParseOnReadType maps a keyword to an OnReadType.
func ParseOnReadType(s string) (OnReadType, bool) {
	i, ok := enumIndex(onReadTypeNames[:], s)
	return OnReadType(i), ok
}

// OnWriteType is the side effect of a software write.
type OnWriteType int

const (
	OnWriteOneSet OnWriteType = iota
	OnWriteOneClear
	OnWriteOneToggle
	OnWriteZeroSet
	OnWriteZeroClear
	OnWriteZeroToggle
	OnWriteClear
	OnWriteSet
	OnWriteUser
)

var onWriteTypeNames = [...]string{
	OnWriteOneSet:     "woset",
	OnWriteOneClear:   "woclr",
	OnWriteOneToggle:  "wot",
	OnWriteZeroSet:    "wzs",
	OnWriteZeroClear:  "wzc",
	OnWriteZeroToggle: "wzt",
	OnWriteClear:      "wclr",
	OnWriteSet:        "wset",
	OnWriteUser:       "wuser",
}

func (o OnWriteType) String() string { return enumName(onWriteTypeNames[:], int(o)) }

// ParseOnWriteType maps a keyword to an OnWriteType.
func ParseOnWriteType(s string) (OnWriteType, bool) {
	i, ok := enumIndex(onWriteTypeNames[:], s)
	return OnWriteType(i), ok
}

// AddressingType selects how an address map pads auto-incremented offsets.
type AddressingType int

const (
	AddressingRegAlign AddressingType = iota
	AddressingCompact
	AddressingFullAlign
)

var addressingTypeNames = [...]string{
	AddressingRegAlign:  "regalign",
	AddressingCompact:   "compact",
	AddressingFullAlign: "fullalign",
}

func (a AddressingType) String() string { return enumName(addressingTypeNames[:], int(a)) }

// ParseAddressingType maps a keyword to an AddressingType.
func ParseAddressingType(s string) (AddressingType, bool) {
	i, ok := enumIndex(addressingTypeNames[:], s)
	return AddressingType(i), ok
}

// PrecedenceType selects whether hardware or software wins a write conflict.
type PrecedenceType int

const (
	PrecedenceSW PrecedenceType = iota
	PrecedenceHW
)

var precedenceTypeNames = [...]string{
	PrecedenceSW: "sw",
	PrecedenceHW: "hw",
}

func (p PrecedenceType) String() string { return enumName(precedenceTypeNames[:], int(p)) }

// ParsePrecedenceType maps a keyword to a PrecedenceType.
func ParsePrecedenceType(s string) (PrecedenceType, bool) {
	i, ok := enumIndex(precedenceTypeNames[:], s)
	return PrecedenceType(i), ok
}

func enumName(names []string, i int) string {
	if i >= 0 && i < len(names) {
		return names[i]
	}
	return "unknown"
}

func enumIndex(names []string, s string) (int, bool) {
	for i, name := range names {
		if name == s {
			return i, true
		}
	}
	return 0, false
}
