package asm

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// minChunk is the smallest slice of a program handed to one worker.
const minChunk = 256

// Assembler turns whole programs into program images.
// It holds only configuration and is safe for concurrent use.
type Assembler struct {
	workers int
	logger  *zap.Logger
}

// Option is a functional option for the Assembler.
type Option func(*Assembler)

// WithWorkers sets how many goroutines encode a program. Values below 2 keep
// assembly on the calling goroutine.
func WithWorkers(n int) Option {
	return func(a *Assembler) {
		a.workers = n
	}
}

// WithLogger sets the logger used for assembly diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(a *Assembler) {
		a.logger = l
	}
}

// New creates a new Assembler with the given options.
func New(opts ...Option) *Assembler {
	a := &Assembler{workers: 1}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = Logger()
	}
	if a.logger == nil {
		a.logger = zap.NewNop()
	}
	return a
}

// Assemble encodes and packs prog sequentially and returns the program image.
func Assemble(prog []Instruction) ([]byte, error) {
	return New().Assemble(context.Background(), prog)
}

// Encode runs the first assembly stage over the whole program, returning one
// intermediate record per instruction.
func (a *Assembler) Encode(ctx context.Context, prog []Instruction) ([]Intermediate, error) {
	out := make([]Intermediate, len(prog))
	err := a.each(ctx, len(prog), func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			rec, err := Encode(prog[i])
			if err != nil {
				return positioned(i, prog[i], err)
			}
			out[i] = rec
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Assemble encodes and packs every instruction and concatenates the results
// in program order. The first failing instruction aborts assembly; no
// partial image is returned.
func (a *Assembler) Assemble(ctx context.Context, prog []Instruction) ([]byte, error) {
	chunks := make([][]byte, a.chunkCount(len(prog)))
	size := chunkSize(len(prog), len(chunks))

	err := a.each(ctx, len(prog), func(lo, hi int) error {
		buf := make([]byte, 0, 4*(hi-lo))
		for i := lo; i < hi; i++ {
			rec, err := Encode(prog[i])
			if err != nil {
				return positioned(i, prog[i], err)
			}
			buf, err = AppendPacked(buf, rec)
			if err != nil {
				return positioned(i, prog[i], err)
			}
		}
		chunks[lo/size] = buf
		return nil
	})
	if err != nil {
		return nil, err
	}

	n := 0
	for _, c := range chunks {
		n += len(c)
	}
	image := make([]byte, 0, n)
	for _, c := range chunks {
		image = append(image, c...)
	}

	a.logger.Debug("assembled program",
		zap.Int("instructions", len(prog)),
		zap.Int("bytes", len(image)),
	)
	return image, nil
}

// each splits [0, n) into contiguous chunks and runs fn over them, in
// parallel when the assembler has more than one worker. When several chunks
// fail, the error from the lowest position wins so that results match the
// sequential path exactly.
func (a *Assembler) each(ctx context.Context, n int, fn func(lo, hi int) error) error {
	count := a.chunkCount(n)
	size := chunkSize(n, count)

	if count <= 1 {
		if err := ctx.Err(); err != nil {
			return err
		}
		return fn(0, n)
	}

	a.logger.Debug("parallel assembly",
		zap.Int("instructions", n),
		zap.Int("workers", a.workers),
		zap.Int("chunks", count),
	)

	errs := make([]error, count)
	var g errgroup.Group
	g.SetLimit(a.workers)
	for c := 0; c < count; c++ {
		c := c
		lo := c * size
		if lo >= n {
			break
		}
		hi := min(lo+size, n)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[c] = err
				return nil
			}
			errs[c] = fn(lo, hi)
			return nil
		})
	}
	_ = g.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func (a *Assembler) chunkCount(n int) int {
	if a.workers < 2 || n <= minChunk {
		return 1
	}
	count := (n + minChunk - 1) / minChunk
	if limit := 4 * a.workers; count > limit {
		count = limit
	}
	return count
}

func chunkSize(n, count int) int {
	if count <= 1 {
		return max(n, 1)
	}
	return (n + count - 1) / count
}

func positioned(i int, instr Instruction, err error) error {
	op := ""
	if in := Unwrap(instr); in != nil {
		op = in.Mnemonic()
	}
	return &InstructionError{Index: i, Line: lineOf(instr), Op: op, Err: err}
}
