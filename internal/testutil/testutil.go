// Package testutil provides testing utilities for uvmasm tests.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/akhildatla/uvmasm/pkg/asm"
)

// TempFile creates a temporary file with the given content and extension.
// The file is automatically cleaned up when the test finishes.
func TempFile(t *testing.T, content, ext string) string {
	t.Helper()
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "program"+ext)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

// SampleJSON returns a small program in the JSON input format.
func SampleJSON() string {
	return `[
	{"op": "load", "const": 5},
	{"op": "rol", "addr": 10},
	{"op": "write", "addr": 0},
	{"op": "read", "addr": 65535}
]`
}

// SampleCSV returns SampleJSON as a program table.
func SampleCSV() string {
	return `op,const,addr
load,5,
rol,,10
write,,0
read,,65535`
}

// SampleText returns SampleJSON in the line-oriented syntax.
func SampleText() string {
	return `; sample program
load 5
rol 10
write 0
read 0xFFFF
`
}

// SampleProgram returns the instructions described by the samples.
func SampleProgram() []asm.Instruction {
	return []asm.Instruction{
		asm.Load{Const: 5},
		asm.Short{Op: "rol", Addr: 10},
		asm.Short{Op: "write", Addr: 0},
		asm.Short{Op: "read", Addr: 65535},
	}
}

// SampleImage returns the assembled sample program.
func SampleImage() []byte {
	return []byte{
		0x9F, 0x02, 0x00, 0x00, // load 5
		0x08, 0x05, 0x00, // rol 10
		0x1A, 0x00, 0x00, // write 0
		0xF9, 0xFF, 0x7F, // read 65535
	}
}

// StripLines removes source positions so programs from different loaders
// compare equal.
func StripLines(prog []asm.Instruction) []asm.Instruction {
	out := make([]asm.Instruction, len(prog))
	for i, instr := range prog {
		out[i] = asm.Unwrap(instr)
	}
	return out
}

// AssertBytes checks that two byte slices are equal.
func AssertBytes(t *testing.T, expected, actual []byte) {
	t.Helper()
	if !bytes.Equal(expected, actual) {
		t.Errorf("expected % X, got % X", expected, actual)
	}
}
