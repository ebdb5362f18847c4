package embed

import (
	"context"
	"errors"
	"testing"
	"time"

	dataframe "github.com/rocketlaunchr/dataframe-go"
	"go.uber.org/zap/zaptest"

	"github.com/akhildatla/uvmasm/internal/testutil"
	"github.com/akhildatla/uvmasm/pkg/asm"
)

func TestAssembleString_BasicProgram(t *testing.T) {
	image, err := AssembleString(testutil.SampleText())
	if err != nil {
		t.Fatalf("AssembleString failed: %v", err)
	}
	testutil.AssertBytes(t, testutil.SampleImage(), image)
}

func TestAssembleString_Errors(t *testing.T) {
	tests := []struct {
		code     string
		sentinel error
	}{
		{"load 0x800000", asm.ErrOperandOutOfRange},
		{"jmp 1", asm.ErrUnknownOperation},
		{"rol", asm.ErrMissingOperand},
		{"write ten", asm.ErrMalformedOperand},
	}

	for _, tt := range tests {
		image, err := AssembleString(tt.code)
		if !errors.Is(err, tt.sentinel) {
			t.Errorf("%q: expected %v, got %v", tt.code, tt.sentinel, err)
		}
		if image != nil {
			t.Errorf("%q: expected no image, got % X", tt.code, image)
		}
	}
}

func TestAssembleFile_LoadsAndAssembles(t *testing.T) {
	for _, ext := range []string{".json", ".csv"} {
		content := testutil.SampleJSON()
		if ext == ".csv" {
			content = testutil.SampleCSV()
		}
		path := testutil.TempFile(t, content, ext)

		image, err := AssembleFile(path)
		if err != nil {
			t.Fatalf("%s: AssembleFile failed: %v", ext, err)
		}
		testutil.AssertBytes(t, testutil.SampleImage(), image)
	}
}

func TestAssembleFile_NotFound(t *testing.T) {
	if _, err := AssembleFile("/nonexistent/path/file.json"); err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestAssembleFrame(t *testing.T) {
	frame := dataframe.NewDataFrame(
		dataframe.NewSeriesString("op", nil, "load", "rol"),
		dataframe.NewSeriesInt64("const", nil, 5, nil),
		dataframe.NewSeriesInt64("addr", nil, nil, 10),
	)

	image, err := AssembleFrame(frame)
	if err != nil {
		t.Fatalf("AssembleFrame failed: %v", err)
	}
	testutil.AssertBytes(t, []byte{0x9F, 0x02, 0x00, 0x00, 0x08, 0x05, 0x00}, image)
}

func TestAssemble_InstructionLimit(t *testing.T) {
	prog := testutil.SampleProgram()

	if _, err := Assemble(prog, WithMaxInstructions(3)); !errors.Is(err, ErrInstructionLimit) {
		t.Errorf("expected ErrInstructionLimit, got %v", err)
	}
	if _, err := Assemble(prog, WithMaxInstructions(4)); err != nil {
		t.Errorf("expected success at the limit, got %v", err)
	}
}

func TestAssemble_ImageLimit(t *testing.T) {
	prog := testutil.SampleProgram()

	if _, err := Assemble(prog, WithMaxImage(12)); !errors.Is(err, ErrImageLimit) {
		t.Errorf("expected ErrImageLimit, got %v", err)
	}
	if _, err := Assemble(prog, WithMaxImage(13)); err != nil {
		t.Errorf("expected success at the limit, got %v", err)
	}
}

func TestAssemble_Timeout(t *testing.T) {
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := Assemble(testutil.SampleProgram(), WithContext(ctx))
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("expected ErrTimeout, got %v", err)
	}
}

func TestAssemble_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Assemble(testutil.SampleProgram(), WithContext(ctx))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestAssemble_WorkersMatchSequential(t *testing.T) {
	prog := make([]asm.Instruction, 0, 3000)
	for i := 0; i < 1000; i++ {
		prog = append(prog,
			asm.Load{Const: int64(i)},
			asm.Short{Op: "rol", Addr: int64(i)},
			asm.Short{Op: "read", Addr: int64(0xFFFF - i)},
		)
	}

	want, err := Assemble(prog)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	got, err := Assemble(prog, WithWorkers(4), WithTimeout(time.Minute), WithLogger(zaptest.NewLogger(t)))
	if err != nil {
		t.Fatalf("Assemble with workers failed: %v", err)
	}
	testutil.AssertBytes(t, want, got)
	if len(got) != 1000*10 {
		t.Errorf("expected %d bytes, got %d", 1000*10, len(got))
	}
}
