package loader

import (
	"errors"
	"fmt"
	"math"
	"strings"

	dataframe "github.com/rocketlaunchr/dataframe-go"
	"go.uber.org/zap"

	"github.com/akhildatla/uvmasm/pkg/asm"
	"github.com/akhildatla/uvmasm/pkg/isa"
	"github.com/akhildatla/uvmasm/pkg/source"
)

// Table-specific errors
var (
	ErrNoOpColumn = errors.New("program table has no \"op\" column")
)

// FromFrame converts a program table into instructions, one per row.
// The "op" column is required; "const" and "addr" columns may be absent, in
// which case every row lacks that operand.
func FromFrame(df *dataframe.DataFrame) ([]asm.Instruction, error) {
	if df == nil || len(df.Series) == 0 {
		return nil, ErrEmptyProgram
	}

	opIdx, err := df.NameToColumn("op")
	if err != nil {
		return nil, ErrNoOpColumn
	}
	opSeries := df.Series[opIdx]

	operands := make(map[string]dataframe.Series, 2)
	for _, f := range []isa.Format{isa.FormatLoad, isa.FormatShort} {
		if idx, err := df.NameToColumn(f.Field()); err == nil {
			operands[f.Field()] = df.Series[idx]
		}
	}

	n := df.NRows()
	prog := make([]asm.Instruction, 0, n)
	for row := 0; row < n; row++ {
		instr, err := rowInstruction(opSeries.Value(row), operands, row)
		if err != nil {
			name, _ := opSeries.Value(row).(string)
			return nil, &asm.InstructionError{Index: row, Op: name, Err: err}
		}
		prog = append(prog, instr)
	}

	Logger().Debug("converted program table",
		zap.Int("rows", n),
		zap.Int("columns", len(df.Series)),
	)
	return prog, nil
}

func rowInstruction(opVal any, operands map[string]dataframe.Series, row int) (asm.Instruction, error) {
	name, ok := opVal.(string)
	if !ok {
		if opVal == nil {
			return nil, &asm.OperandError{Kind: asm.InstructionMalformed, Field: "op"}
		}
		return nil, &asm.OperandError{Kind: asm.InstructionMalformed, Field: "op", Raw: fmt.Sprint(opVal)}
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &asm.OperandError{Kind: asm.InstructionMalformed, Field: "op"}
	}

	op, ok := isa.OpcodeFromString(name)
	if !ok {
		return nil, &asm.UnknownOperationError{Op: name}
	}

	field := op.Format().Field()
	var cell any
	if s, ok := operands[field]; ok {
		cell = s.Value(row)
	}
	value, err := cellOperand(name, field, cell)
	if err != nil {
		return nil, err
	}
	return newInstruction(op, name, value), nil
}

// cellOperand converts a table cell into an operand value. Typed columns
// from Parquet or inferred CSV arrive as numbers, untyped ones as strings.
func cellOperand(op, field string, cell any) (int64, error) {
	malformed := func() (int64, error) {
		return 0, &asm.OperandError{Kind: asm.OperandMalformed, Op: op, Field: field, Raw: fmt.Sprint(cell)}
	}

	switch v := cell.(type) {
	case nil:
		return 0, &asm.OperandError{Kind: asm.OperandMissing, Op: op, Field: field}
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case int:
		return int64(v), nil
	case float64:
		if math.IsNaN(v) {
			return 0, &asm.OperandError{Kind: asm.OperandMissing, Op: op, Field: field}
		}
		if v != math.Trunc(v) {
			return malformed()
		}
		switch {
		case v >= math.MaxInt64:
			return math.MaxInt64, nil
		case v <= math.MinInt64:
			return math.MinInt64, nil
		}
		return int64(v), nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, &asm.OperandError{Kind: asm.OperandMissing, Op: op, Field: field}
		}
		n, err := source.ParseInt(s)
		if err != nil {
			return malformed()
		}
		return n, nil
	default:
		return malformed()
	}
}
