package asm

import (
	"github.com/akhildatla/uvmasm/pkg/isa"
)

// Pack serializes an intermediate record into exactly in.Width bytes.
//
// The packed value is (operand << 7) | opcode, written least-significant
// byte first. The shift and the byte order are part of the wire format.
func Pack(in Intermediate) ([]byte, error) {
	if !isa.ValidSize(in.Width) {
		return nil, &InstructionSizeError{Width: in.Width}
	}
	return AppendPacked(make([]byte, 0, in.Width), in)
}

// AppendPacked appends the packed form of in to dst and returns the extended
// slice. On error dst is returned unchanged.
func AppendPacked(dst []byte, in Intermediate) ([]byte, error) {
	format := isa.FormatOfSize(in.Width)
	if format == isa.FormatInvalid {
		return dst, &InstructionSizeError{Width: in.Width}
	}

	// Hand-built records can violate the field widths the encoder enforces.
	if in.Opcode > isa.OpcodeMask {
		return dst, &OperandRangeError{Field: "opcode", Value: int64(in.Opcode), Bits: isa.OpcodeBits}
	}
	if in.Operand > format.MaxOperand() {
		return dst, &OperandRangeError{
			Op:    in.Opcode.String(),
			Field: "operand",
			Value: int64(in.Operand),
			Bits:  format.OperandBits(),
		}
	}

	value := uint64(in.Operand)<<isa.OpcodeBits | uint64(in.Opcode)
	for i := 0; i < in.Width; i++ {
		dst = append(dst, byte(value>>(8*i)))
	}
	return dst, nil
}
