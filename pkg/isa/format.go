package isa

// Format identifies one of the fixed UVM instruction layouts.
//
// Both layouts place the opcode in bits 0-6 and the operand immediately
// above it:
//
//	Load  (4 bytes): ┌─────────┬───────────────────┬────────┐
//	                 │ opcode  │     constant      │ unused │
//	                 │ 7 bits  │      23 bits      │ 2 bits │
//	                 └─────────┴───────────────────┴────────┘
//
//	Short (3 bytes): ┌─────────┬───────────────────┐
//	                 │ opcode  │      address      │
//	                 │ 7 bits  │      16 bits      │
//	                 └─────────┴───────────────────┘
type Format uint8

const (
	FormatInvalid Format = iota
	FormatLoad
	FormatShort
)

const (
	// LoadOperandBits is the width of the Load format constant.
	LoadOperandBits = 23
	// ShortOperandBits is the width of the Short format address.
	ShortOperandBits = 16

	// MaxConst is the largest constant a load instruction can carry.
	MaxConst = 1<<LoadOperandBits - 1
	// MaxAddr is the largest address a short instruction can carry.
	MaxAddr = 1<<ShortOperandBits - 1

	// LoadSize and ShortSize are the serialized sizes in bytes.
	LoadSize  = 4
	ShortSize = 3
)

// OperandBits returns the operand field width.
func (f Format) OperandBits() int {
	switch f {
	case FormatLoad:
		return LoadOperandBits
	case FormatShort:
		return ShortOperandBits
	default:
		return 0
	}
}

// MaxOperand returns the largest operand value the format accepts.
func (f Format) MaxOperand() uint32 {
	switch f {
	case FormatLoad:
		return MaxConst
	case FormatShort:
		return MaxAddr
	default:
		return 0
	}
}

// Size returns the serialized instruction size in bytes.
func (f Format) Size() int {
	switch f {
	case FormatLoad:
		return LoadSize
	case FormatShort:
		return ShortSize
	default:
		return 0
	}
}

// Field returns the name of the operand field in program input.
func (f Format) Field() string {
	switch f {
	case FormatLoad:
		return "const"
	case FormatShort:
		return "addr"
	default:
		return ""
	}
}

func (f Format) String() string {
	switch f {
	case FormatLoad:
		return "load"
	case FormatShort:
		return "short"
	default:
		return "invalid"
	}
}

// ValidSize reports whether n is the serialized size of some format.
func ValidSize(n int) bool {
	return FormatOfSize(n) != FormatInvalid
}

// FormatOfSize returns the format serialized in n bytes, or FormatInvalid.
func FormatOfSize(n int) Format {
	switch n {
	case LoadSize:
		return FormatLoad
	case ShortSize:
		return FormatShort
	default:
		return FormatInvalid
	}
}
