package loader

import (
	"os"

	"go.uber.org/zap"

	"github.com/akhildatla/uvmasm/pkg/asm"
	"github.com/akhildatla/uvmasm/pkg/source"
)

// LoadText reads a program in the line-oriented assembly syntax. Each
// instruction keeps its source line for error reporting.
func LoadText(path string) ([]asm.Instruction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	prog, err := source.Parse(string(data))
	if err != nil {
		return nil, err
	}

	Logger().Debug("parsed text program", zap.Int("instructions", len(prog)))
	return prog, nil
}
