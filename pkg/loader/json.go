package loader

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/akhildatla/uvmasm/pkg/asm"
	"github.com/akhildatla/uvmasm/pkg/isa"
)

// JSON-specific errors
var (
	ErrEmptyProgram = errors.New("empty program file")
	ErrInvalidJSON  = errors.New("invalid JSON format")
)

// LoadJSON reads a JSON program file.
// The JSON must be an array of objects: [{"op": "load", "const": 5}, {"op": "rol", "addr": 10}, ...]
func LoadJSON(path string) ([]asm.Instruction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseJSON(data)
}

// ParseJSON decodes a JSON program. Fields other than op, const and addr
// are ignored; the operand field not used by an operation is ignored too.
func ParseJSON(data []byte) ([]asm.Instruction, error) {
	if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || isNull(trimmed) {
		return nil, ErrEmptyProgram
	}

	var records []map[string]json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	prog := make([]asm.Instruction, 0, len(records))
	for i, rec := range records {
		instr, err := decodeRecord(rec)
		if err != nil {
			return nil, &asm.InstructionError{Index: i, Op: opName(rec), Err: err}
		}
		prog = append(prog, instr)
	}

	Logger().Debug("decoded JSON program", zap.Int("instructions", len(prog)))
	return prog, nil
}

// ParseJSONInstruction decodes a single {"op": ..., ...} object.
func ParseJSONInstruction(data []byte) (asm.Instruction, error) {
	var rec map[string]json.RawMessage
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return decodeRecord(rec)
}

func decodeRecord(rec map[string]json.RawMessage) (asm.Instruction, error) {
	if rec == nil {
		return nil, &asm.OperandError{Kind: asm.InstructionMalformed, Field: "op", Raw: "null"}
	}

	raw, ok := rec["op"]
	if !ok || isNull(raw) {
		return nil, &asm.OperandError{Kind: asm.InstructionMalformed, Field: "op"}
	}
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return nil, &asm.OperandError{Kind: asm.InstructionMalformed, Field: "op", Raw: string(raw)}
	}

	op, ok := isa.OpcodeFromString(name)
	if !ok {
		return nil, &asm.UnknownOperationError{Op: name}
	}

	field := op.Format().Field()
	value, err := jsonOperand(name, field, rec[field])
	if err != nil {
		return nil, err
	}
	return newInstruction(op, name, value), nil
}

func jsonOperand(op, field string, raw json.RawMessage) (int64, error) {
	if raw == nil || isNull(raw) {
		return 0, &asm.OperandError{Kind: asm.OperandMissing, Op: op, Field: field}
	}
	text := string(bytes.TrimSpace(raw))
	v, err := strconv.ParseInt(text, 10, 64)
	if errors.Is(err, strconv.ErrRange) {
		// strconv clamps to the int64 limits, which the encoder rejects.
		return v, nil
	}
	if err != nil {
		return 0, &asm.OperandError{Kind: asm.OperandMalformed, Op: op, Field: field, Raw: text}
	}
	return v, nil
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

func opName(rec map[string]json.RawMessage) string {
	var name string
	if raw, ok := rec["op"]; ok {
		_ = json.Unmarshal(raw, &name)
	}
	return name
}

func newInstruction(op isa.Opcode, name string, value int64) asm.Instruction {
	if op.Format() == isa.FormatLoad {
		return asm.Load{Const: value}
	}
	return asm.Short{Op: name, Addr: value}
}
