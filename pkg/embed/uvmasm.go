// Package embed provides the Go embedding API for the UVM assembler.
//
// Pass a program, get an image.
//
// Basic usage:
//
//	image, err := embed.AssembleString(`
//	    load  5
//	    rol   10
//	    write 0
//	`)
//
// From a file in any supported input format:
//
//	image, err := embed.AssembleFile("program.json")
//
// From a DataFrame with op, const and addr columns:
//
//	frame := dataframe.NewDataFrame(
//	    dataframe.NewSeriesString("op", nil, "load", "rol"),
//	    dataframe.NewSeriesInt64("const", nil, 5, nil),
//	    dataframe.NewSeriesInt64("addr", nil, nil, 10),
//	)
//	image, err := embed.AssembleFrame(frame)
package embed

import (
	"context"
	"errors"
	"fmt"
	"time"

	dataframe "github.com/rocketlaunchr/dataframe-go"
	"go.uber.org/zap"

	"github.com/akhildatla/uvmasm/pkg/asm"
	"github.com/akhildatla/uvmasm/pkg/loader"
	"github.com/akhildatla/uvmasm/pkg/source"
)

// Common errors
var (
	ErrTimeout          = errors.New("assembly timeout exceeded")
	ErrInstructionLimit = errors.New("instruction limit exceeded")
	ErrImageLimit       = errors.New("image size limit exceeded")
)

// AssembleString assembles a program written in the line-oriented syntax.
func AssembleString(code string, opts ...Option) ([]byte, error) {
	prog, err := source.Parse(code)
	if err != nil {
		return nil, err
	}
	return Assemble(prog, opts...)
}

// AssembleFile loads a program file, choosing the input format by
// extension, and assembles it.
func AssembleFile(path string, opts ...Option) ([]byte, error) {
	prog, err := loader.Load(path)
	if err != nil {
		return nil, err
	}
	return Assemble(prog, opts...)
}

// AssembleFrame assembles a program held in a DataFrame.
func AssembleFrame(df *dataframe.DataFrame, opts ...Option) ([]byte, error) {
	prog, err := loader.FromFrame(df)
	if err != nil {
		return nil, err
	}
	return Assemble(prog, opts...)
}

// Options configures assembly behavior.
type Options struct {
	// Workers is the number of assembly workers. Zero means one.
	Workers int

	// Timeout sets maximum assembly time. Zero means no timeout.
	Timeout time.Duration

	// MaxInstructions limits the program length.
	// Zero means unlimited.
	MaxInstructions int

	// MaxImageBytes limits the size of the produced image.
	// Zero means unlimited.
	MaxImageBytes int

	// Logger receives assembly diagnostics. Nil means no logging.
	Logger *zap.Logger

	// Context for cancellation. If nil, context.Background() is used.
	Context context.Context
}

// Option is a functional option for configuring assembly.
type Option func(*Options)

// WithWorkers sets the number of assembly workers.
func WithWorkers(n int) Option {
	return func(o *Options) {
		o.Workers = n
	}
}

// WithTimeout sets assembly timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

// WithMaxInstructions sets the instruction limit.
func WithMaxInstructions(n int) Option {
	return func(o *Options) {
		o.MaxInstructions = n
	}
}

// WithMaxImage sets the image size limit in bytes.
func WithMaxImage(bytes int) Option {
	return func(o *Options) {
		o.MaxImageBytes = bytes
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithContext sets the context for cancellation.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		o.Context = ctx
	}
}

// Assemble assembles prog under the given limits.
//
// Example:
//
//	image, err := embed.Assemble(prog,
//	    embed.WithTimeout(time.Second),
//	    embed.WithMaxInstructions(10000),
//	    embed.WithWorkers(4),
//	)
func Assemble(prog []asm.Instruction, opts ...Option) ([]byte, error) {
	options := &Options{
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(options)
	}

	if options.MaxInstructions > 0 && len(prog) > options.MaxInstructions {
		return nil, fmt.Errorf("%w: %d > %d", ErrInstructionLimit, len(prog), options.MaxInstructions)
	}

	ctx := options.Context
	if ctx == nil {
		ctx = context.Background()
	}
	if options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
		defer cancel()
	}

	a := asm.New(asm.WithWorkers(options.Workers), asm.WithLogger(options.Logger))
	image, err := a.Assemble(ctx, prog)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, err
	}

	if options.MaxImageBytes > 0 && len(image) > options.MaxImageBytes {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrImageLimit, len(image), options.MaxImageBytes)
	}
	return image, nil
}
