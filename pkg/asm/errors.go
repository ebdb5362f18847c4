package asm

import (
	"errors"
	"fmt"
	"strings"
)

// Error categories. Every error returned by this package matches one of
// these with errors.Is.
var (
	ErrUnknownOperation       = errors.New("unknown operation")
	ErrOperandOutOfRange      = errors.New("operand out of range")
	ErrInvalidInstructionSize = errors.New("invalid instruction size")
	ErrMissingOperand         = errors.New("missing operand")
	ErrMalformedOperand       = errors.New("malformed operand")
	ErrMalformedInstruction   = errors.New("malformed instruction")
)

// UnknownOperationError reports an operation name missing from the opcode
// table.
type UnknownOperationError struct {
	Op string
}

func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("unknown operation: %q", e.Op)
}

// Is reports whether target is ErrUnknownOperation.
func (e *UnknownOperationError) Is(target error) bool {
	return target == ErrUnknownOperation
}

// OperandRangeError reports a value that does not fit its bit field.
type OperandRangeError struct {
	Op    string
	Field string
	Value int64
	Bits  int
}

func (e *OperandRangeError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d out of %d-bit range [0, %#x]", e.Field, e.Value, e.Bits, uint64(1)<<e.Bits-1)
	if e.Op != "" {
		fmt.Fprintf(&b, " for %s", e.Op)
	}
	return b.String()
}

// Is reports whether target is ErrOperandOutOfRange.
func (e *OperandRangeError) Is(target error) bool {
	return target == ErrOperandOutOfRange
}

// InstructionSizeError reports an intermediate record whose width is neither
// 3 nor 4. A correct encoder never produces one.
type InstructionSizeError struct {
	Width int
}

func (e *InstructionSizeError) Error() string {
	return fmt.Sprintf("invalid instruction size: %d bytes", e.Width)
}

// Is reports whether target is ErrInvalidInstructionSize.
func (e *InstructionSizeError) Is(target error) bool {
	return target == ErrInvalidInstructionSize
}

// OperandKind distinguishes structural input problems.
type OperandKind uint8

const (
	// OperandMissing means the required field is absent or null.
	OperandMissing OperandKind = iota
	// OperandMalformed means the field is present but not an integer.
	OperandMalformed
	// InstructionMalformed means the record itself is unusable, e.g. it
	// has no operation name.
	InstructionMalformed
)

// OperandError reports a structural input error: the value is absent or
// unreadable rather than out of range.
type OperandError struct {
	Kind  OperandKind
	Op    string
	Field string
	// Raw is the offending input text for malformed values.
	Raw string
}

func (e *OperandError) Error() string {
	switch e.Kind {
	case OperandMissing:
		return fmt.Sprintf("%s: missing required field %q", e.Op, e.Field)
	case OperandMalformed:
		return fmt.Sprintf("%s: field %q is not an integer: %s", e.Op, e.Field, e.Raw)
	default:
		if e.Raw != "" {
			return fmt.Sprintf("malformed instruction: field %q: %s", e.Field, e.Raw)
		}
		return fmt.Sprintf("malformed instruction: missing field %q", e.Field)
	}
}

// Is maps the error onto its category sentinel.
func (e *OperandError) Is(target error) bool {
	switch e.Kind {
	case OperandMissing:
		return target == ErrMissingOperand
	case OperandMalformed:
		return target == ErrMalformedOperand
	default:
		return target == ErrMalformedInstruction
	}
}

// InstructionError attaches a program position to an encoding failure.
type InstructionError struct {
	// Index is the zero-based position in the program.
	Index int
	// Line is the 1-based source line, or 0 when unknown.
	Line int
	Op   string
	Err  error
}

func (e *InstructionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "instruction %d", e.Index)
	if e.Line > 0 {
		fmt.Fprintf(&b, " (line %d)", e.Line)
	}
	if e.Op != "" {
		fmt.Fprintf(&b, " %q", e.Op)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *InstructionError) Unwrap() error {
	return e.Err
}

func missingOperand(op, field string) *OperandError {
	return &OperandError{Kind: OperandMissing, Op: op, Field: field}
}
