package asm

import (
	"github.com/akhildatla/uvmasm/pkg/isa"
)

// Encode resolves a symbolic instruction to its opcode and validates the
// operand against the format's bit width.
func Encode(instr Instruction) (Intermediate, error) {
	switch in := Unwrap(instr).(type) {
	case Load:
		return encodeOperand(isa.OpLoad, in.Const)

	case Short:
		op, ok := isa.OpcodeFromString(in.Op)
		if !ok {
			return Intermediate{}, &UnknownOperationError{Op: in.Op}
		}
		if op.Format() != isa.FormatShort {
			// A short record naming a load has nowhere to hold the constant.
			return Intermediate{}, missingOperand(in.Op, op.Format().Field())
		}
		return encodeOperand(op, in.Addr)

	case *Load:
		if in != nil {
			return Encode(*in)
		}
	case *Short:
		if in != nil {
			return Encode(*in)
		}
	}
	return Intermediate{}, &OperandError{Kind: InstructionMalformed, Field: "op"}
}

func encodeOperand(op isa.Opcode, value int64) (Intermediate, error) {
	format := op.Format()
	if value < 0 || value > int64(format.MaxOperand()) {
		return Intermediate{}, &OperandRangeError{
			Op:    op.String(),
			Field: format.Field(),
			Value: value,
			Bits:  format.OperandBits(),
		}
	}

	return Intermediate{
		Opcode:  op,
		Operand: uint32(value),
		Width:   format.Size(),
	}, nil
}
