// Package asm implements the UVM assembler core: encoding symbolic
// instructions into intermediate records and packing those records into the
// little-endian program image.
//
// Basic usage:
//
//	image, err := asm.Assemble([]asm.Instruction{
//	    asm.Load{Const: 5},
//	    asm.Short{Op: "rol", Addr: 10},
//	})
//	// image = 9F 02 00 00 08 05 00
package asm

import (
	"fmt"

	"github.com/akhildatla/uvmasm/pkg/isa"
)

// Instruction is a symbolic UVM instruction. It is a closed set: Load and
// Short are the only implementations.
type Instruction interface {
	// Mnemonic returns the operation name as written in program input.
	Mnemonic() string
	isInstruction()
}

// Load is an instruction in the Load format. It carries a 23-bit constant.
type Load struct {
	Const int64
}

// Mnemonic implements Instruction.
func (Load) Mnemonic() string { return "load" }

func (Load) isInstruction() {}

func (l Load) String() string {
	return fmt.Sprintf("load %d", l.Const)
}

// Short is an instruction in the Short format (read, write, rol). It carries
// a 16-bit address. Op is kept as a name so unknown operations survive
// until encoding rejects them.
type Short struct {
	Op   string
	Addr int64
}

// Mnemonic implements Instruction.
func (s Short) Mnemonic() string { return s.Op }

func (Short) isInstruction() {}

func (s Short) String() string {
	return fmt.Sprintf("%s %d", s.Op, s.Addr)
}

// Intermediate is an encoded instruction, ready to be packed.
type Intermediate struct {
	Opcode  isa.Opcode
	Operand uint32
	// Width is the serialized size in bytes: 3 or 4.
	Width int
}

func (in Intermediate) String() string {
	return fmt.Sprintf("{opcode: %d, operand: %d, size: %d}", in.Opcode, in.Operand, in.Width)
}

// Located attaches a 1-based source line to an instruction so that encoding
// errors can point back at the input.
type Located struct {
	Instruction
	Line int
}

// At wraps instr with its source line.
func At(instr Instruction, line int) Located {
	return Located{Instruction: instr, Line: line}
}

// Unwrap returns the instruction without position information.
func Unwrap(instr Instruction) Instruction {
	for {
		l, ok := instr.(Located)
		if !ok {
			return instr
		}
		instr = l.Instruction
	}
}

func lineOf(instr Instruction) int {
	if l, ok := instr.(Located); ok {
		return l.Line
	}
	return 0
}
