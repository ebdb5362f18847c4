package loader

import (
	"context"
	"os"

	"github.com/rocketlaunchr/dataframe-go/imports"

	"github.com/akhildatla/uvmasm/pkg/asm"
)

// LoadCSV reads a CSV program table and converts it with FromFrame.
// - First row is header (column names: op, const, addr)
// - One instruction per following row
// - Empty cells are absent operands
func LoadCSV(path string) ([]asm.Instruction, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if info, err := file.Stat(); err == nil && info.Size() == 0 {
		return nil, ErrEmptyProgram
	}

	ctx := context.Background()
	df, err := imports.LoadFromCSV(ctx, file, imports.CSVLoadOptions{
		// Cells stay strings; cellOperand parses them so hex and oversized
		// values are reported the same way as in the other formats.
		InferDataTypes: false,
	})
	if err != nil {
		return nil, err
	}

	return FromFrame(df)
}
