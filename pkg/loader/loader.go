// Package loader reads UVM programs from files. JSON is the native format;
// CSV and Parquet tables and the line-oriented assembly syntax are accepted
// too. Every loader returns the same []asm.Instruction for equivalent input.
package loader

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/akhildatla/uvmasm/pkg/asm"
)

// Format names an input format.
type Format string

const (
	FormatAuto    Format = ""
	FormatJSON    Format = "json"
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
	FormatText    Format = "text"
)

// ErrUnknownFormat is returned when no loader matches.
var ErrUnknownFormat = errors.New("unknown program format")

// ParseFormat validates a user-supplied format name. "auto" and "" select
// detection by file extension.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatAuto, "auto":
		return FormatAuto, nil
	case FormatJSON, FormatCSV, FormatParquet, FormatText:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// DetectFormat picks a format from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".csv":
		return FormatCSV, nil
	case ".parquet", ".pq":
		return FormatParquet, nil
	case ".uvm", ".asm", ".s", ".txt":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: cannot detect from %q", ErrUnknownFormat, path)
	}
}

// Load reads a program, choosing the format from the file extension.
func Load(path string) ([]asm.Instruction, error) {
	return LoadFormat(path, FormatAuto)
}

// LoadFormat reads a program in the given format.
func LoadFormat(path string, format Format) ([]asm.Instruction, error) {
	if format == FormatAuto {
		detected, err := DetectFormat(path)
		if err != nil {
			return nil, err
		}
		format = detected
	}

	Logger().Debug("loading program", zap.String("path", path), zap.String("format", string(format)))

	switch format {
	case FormatJSON:
		return LoadJSON(path)
	case FormatCSV:
		return LoadCSV(path)
	case FormatParquet:
		return LoadParquet(path)
	case FormatText:
		return LoadText(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
	}
}
