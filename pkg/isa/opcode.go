// Package isa describes the UVM instruction set: the opcode table and the
// two fixed instruction formats.
package isa

import "fmt"

// Opcode represents a 7-bit UVM operation code.
type Opcode uint8

const (
	OpRol   Opcode = 8   // rotate left, short format
	OpWrite Opcode = 26  // store to address, short format
	OpLoad  Opcode = 31  // load constant, load format
	OpRead  Opcode = 121 // read from address, short format
)

const (
	// OpcodeBits is the width of the opcode field, which always occupies the
	// low bits of a packed instruction.
	OpcodeBits = 7

	// OpcodeMask selects the opcode field of a packed instruction.
	OpcodeMask = 1<<OpcodeBits - 1
)

type opcodeEntry struct {
	name   string
	op     Opcode
	format Format
}

// opcodes is the full operation table. It never changes at runtime.
var opcodes = [...]opcodeEntry{
	{"load", OpLoad, FormatLoad},
	{"read", OpRead, FormatShort},
	{"write", OpWrite, FormatShort},
	{"rol", OpRol, FormatShort},
}

// OpcodeFromString looks up an operation by name. Names are case-sensitive,
// matching the program input format.
func OpcodeFromString(name string) (Opcode, bool) {
	for _, e := range opcodes {
		if e.name == name {
			return e.op, true
		}
	}
	return 0, false
}

// Opcodes returns all defined opcodes in table order.
func Opcodes() []Opcode {
	out := make([]Opcode, len(opcodes))
	for i, e := range opcodes {
		out[i] = e.op
	}
	return out
}

// Names returns all operation names in table order.
func Names() []string {
	out := make([]string, len(opcodes))
	for i, e := range opcodes {
		out[i] = e.name
	}
	return out
}

// Valid reports whether o is a defined opcode.
func (o Opcode) Valid() bool {
	_, ok := o.entry()
	return ok
}

// Format returns the instruction format of o. Undefined opcodes report
// FormatInvalid.
func (o Opcode) Format() Format {
	e, ok := o.entry()
	if !ok {
		return FormatInvalid
	}
	return e.format
}

// String returns the operation name, or "op(N)" for undefined opcodes.
func (o Opcode) String() string {
	e, ok := o.entry()
	if !ok {
		return fmt.Sprintf("op(%d)", uint8(o))
	}
	return e.name
}

func (o Opcode) entry() (opcodeEntry, bool) {
	for _, e := range opcodes {
		if e.op == o {
			return e, true
		}
	}
	return opcodeEntry{}, false
}
