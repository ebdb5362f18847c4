package asm

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestAssemble_Scenario(t *testing.T) {
	image, err := Assemble([]Instruction{
		Short{Op: "write", Addr: 0},
		Load{Const: 0},
	})
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	want := []byte{0x1A, 0x00, 0x00, 0x1F, 0x00, 0x00, 0x00}
	if !bytes.Equal(image, want) {
		t.Errorf("expected % X, got % X", want, image)
	}
}

func TestAssemble_OrderPreserved(t *testing.T) {
	prog := []Instruction{
		Load{Const: 5},
		Short{Op: "rol", Addr: 10},
		Short{Op: "read", Addr: 300},
	}

	var want []byte
	for _, instr := range prog {
		rec, err := Encode(instr)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		b, err := Pack(rec)
		if err != nil {
			t.Fatalf("Pack failed: %v", err)
		}
		want = append(want, b...)
	}

	got, err := Assemble(prog)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("expected % X, got % X", want, got)
	}
}

func TestAssemble_Empty(t *testing.T) {
	image, err := Assemble(nil)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if len(image) != 0 {
		t.Errorf("expected empty image, got % X", image)
	}
}

func TestAssemble_FirstFailureAborts(t *testing.T) {
	prog := []Instruction{
		Load{Const: 1},
		At(Short{Op: "jmp", Addr: 1}, 7),
		Load{Const: -1},
	}

	image, err := Assemble(prog)
	if image != nil {
		t.Errorf("expected no image on failure, got % X", image)
	}
	if !errors.Is(err, ErrUnknownOperation) {
		t.Fatalf("expected ErrUnknownOperation, got %v", err)
	}

	var instrErr *InstructionError
	if !errors.As(err, &instrErr) {
		t.Fatalf("expected *InstructionError, got %T", err)
	}
	if instrErr.Index != 1 {
		t.Errorf("expected index 1, got %d", instrErr.Index)
	}
	if instrErr.Line != 7 {
		t.Errorf("expected line 7, got %d", instrErr.Line)
	}
	if instrErr.Op != "jmp" {
		t.Errorf("expected op jmp, got %q", instrErr.Op)
	}
}

func bigProgram(n int) []Instruction {
	prog := make([]Instruction, n)
	for i := range prog {
		switch i % 4 {
		case 0:
			prog[i] = Load{Const: int64(i * 31 % 0x800000)}
		case 1:
			prog[i] = Short{Op: "read", Addr: int64(i % 0x10000)}
		case 2:
			prog[i] = Short{Op: "write", Addr: int64((i * 7) % 0x10000)}
		default:
			prog[i] = Short{Op: "rol", Addr: int64(i % 17)}
		}
	}
	return prog
}

func TestAssembler_ParallelMatchesSequential(t *testing.T) {
	prog := bigProgram(5000)
	ctx := context.Background()

	want, err := New().Assemble(ctx, prog)
	if err != nil {
		t.Fatalf("sequential Assemble failed: %v", err)
	}

	for _, workers := range []int{2, 3, 8, 64} {
		got, err := New(WithWorkers(workers)).Assemble(ctx, prog)
		if err != nil {
			t.Fatalf("workers=%d: Assemble failed: %v", workers, err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("workers=%d: image differs from sequential assembly", workers)
		}
	}
}

func TestAssembler_ParallelReportsLowestIndex(t *testing.T) {
	prog := bigProgram(4000)
	prog[3900] = Short{Op: "jmp"}
	prog[1500] = Load{Const: 0x800000}
	prog[2700] = Short{Op: "rol", Addr: -1}

	for _, workers := range []int{1, 4, 16} {
		_, err := New(WithWorkers(workers)).Assemble(context.Background(), prog)
		var instrErr *InstructionError
		if !errors.As(err, &instrErr) {
			t.Fatalf("workers=%d: expected *InstructionError, got %v", workers, err)
		}
		if instrErr.Index != 1500 {
			t.Errorf("workers=%d: expected index 1500, got %d", workers, instrErr.Index)
		}
		if !errors.Is(err, ErrOperandOutOfRange) {
			t.Errorf("workers=%d: expected ErrOperandOutOfRange, got %v", workers, err)
		}
	}
}

func TestAssembler_Encode(t *testing.T) {
	prog := []Instruction{Load{Const: 5}, Short{Op: "rol", Addr: 10}}
	for _, workers := range []int{1, 4} {
		got, err := New(WithWorkers(workers)).Encode(context.Background(), prog)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		want := []Intermediate{
			{Opcode: 31, Operand: 5, Width: 4},
			{Opcode: 8, Operand: 10, Width: 3},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("workers=%d: Encode mismatch (-want +got):\n%s", workers, diff)
		}
	}
}

func TestAssembler_EncodeLargeParallel(t *testing.T) {
	prog := bigProgram(3000)
	ctx := context.Background()
	want, err := New().Encode(ctx, prog)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	got, err := New(WithWorkers(6)).Encode(ctx, prog)
	if err != nil {
		t.Fatalf("parallel Encode failed: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parallel Encode mismatch (-want +got):\n%s", diff)
	}
}

func TestAssembler_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{1, 4} {
		_, err := New(WithWorkers(workers)).Assemble(ctx, bigProgram(2000))
		if !errors.Is(err, context.Canceled) {
			t.Errorf("workers=%d: expected context.Canceled, got %v", workers, err)
		}
	}
}

func TestAssembler_Logging(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	a := New(WithLogger(zap.New(core)), WithWorkers(2))

	if _, err := a.Assemble(context.Background(), bigProgram(1000)); err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if logs.FilterMessage("assembled program").Len() != 1 {
		t.Errorf("expected one 'assembled program' entry, got %d", logs.FilterMessage("assembled program").Len())
	}
	if logs.FilterMessage("parallel assembly").Len() != 1 {
		t.Errorf("expected one 'parallel assembly' entry, got %d", logs.FilterMessage("parallel assembly").Len())
	}
}

func TestLogger_DefaultNop(t *testing.T) {
	if Logger() == nil {
		t.Fatal("expected a default logger")
	}
}
