// Package main provides the CLI entry point for uvmasm, the UVM assembler.
//
// Usage:
//
//	uvmasm assemble program.json program.bin        # Assemble to a binary image
//	uvmasm assemble program.uvm program.bin -test   # Also print a hex dump
//	uvmasm check program.csv                        # Validate without writing
//	uvmasm repl                                     # Interactive assembler
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/tebeka/atexit"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/akhildatla/uvmasm/pkg/asm"
	"github.com/akhildatla/uvmasm/pkg/listing"
	"github.com/akhildatla/uvmasm/pkg/loader"
	"github.com/akhildatla/uvmasm/pkg/repl"
)

// Version info set by GoReleaser via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var errorStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FF6B6B"))

func main() {
	code := 0
	if err := run(os.Args[1:], os.Stdout); err != nil {
		printError(os.Stderr, err)
		code = 1
	}
	atexit.Exit(code)
}

func printError(f *os.File, err error) {
	msg := fmt.Sprintf("error: %v", err)
	if term.IsTerminal(int(f.Fd())) {
		msg = errorStyle.Render(msg)
	}
	fmt.Fprintln(f, msg)
}

func run(args []string, out io.Writer) error {
	if len(args) < 1 {
		return printUsage(out)
	}

	switch cmd := args[0]; cmd {
	case "assemble":
		return assembleCommand(args[1:], out)
	case "check":
		return checkCommand(args[1:], out)
	case "repl":
		return replCommand(args[1:])
	case "version":
		fmt.Fprintf(out, "uvmasm version %s\n", version)
		if commit != "none" {
			fmt.Fprintf(out, "  commit: %s\n", commit)
		}
		if date != "unknown" {
			fmt.Fprintf(out, "  built:  %s\n", date)
		}
		return nil
	case "help", "-h", "--help":
		return printUsage(out)
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func assembleCommand(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("assemble", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	testMode := fs.Bool("test", false, "print a hex dump of the image")
	showListing := fs.Bool("listing", false, "print a per-instruction table")
	formatName := fs.String("format", "", "input format: json, csv, parquet, text (default: by extension)")
	workers := fs.Int("j", runtime.GOMAXPROCS(0), "number of assembly workers")
	verbose := fs.Bool("v", false, "verbose logging")

	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(positional) != 2 {
		return fmt.Errorf("usage: uvmasm assemble <input> <output> [-test] [-listing] [-format f] [-j n] [-v]")
	}
	inputPath, outputPath := positional[0], positional[1]

	logger := setupLogger(*verbose)
	prog, err := load(inputPath, *formatName)
	if err != nil {
		return err
	}

	a := asm.New(asm.WithWorkers(*workers), asm.WithLogger(logger))
	ctx := context.Background()

	image, err := a.Assemble(ctx, prog)
	if err != nil {
		return fmt.Errorf("assembling %s: %w", inputPath, err)
	}

	if *showListing {
		recs, err := a.Encode(ctx, prog)
		if err != nil {
			return fmt.Errorf("assembling %s: %w", inputPath, err)
		}
		if err := listing.Table(out, prog, recs); err != nil {
			return err
		}
	}

	if err := os.WriteFile(outputPath, image, 0644); err != nil {
		return fmt.Errorf("writing image: %w", err)
	}
	logger.Debug("wrote image", zap.String("path", outputPath), zap.Int("bytes", len(image)))

	if err := listing.Summary(out, len(prog)); err != nil {
		return err
	}
	if *testMode {
		return listing.HexDump(out, image)
	}
	return nil
}

func checkCommand(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	formatName := fs.String("format", "", "input format: json, csv, parquet, text (default: by extension)")
	verbose := fs.Bool("v", false, "verbose logging")

	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return fmt.Errorf("usage: uvmasm check <input> [-format f]")
	}

	logger := setupLogger(*verbose)
	prog, err := load(positional[0], *formatName)
	if err != nil {
		return err
	}

	a := asm.New(asm.WithLogger(logger))
	if _, err := a.Encode(context.Background(), prog); err != nil {
		return fmt.Errorf("checking %s: %w", positional[0], err)
	}
	return listing.Summary(out, len(prog))
}

func replCommand(args []string) error {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	jsonMode := fs.Bool("json", false, "start in JSON mode (default: text mode)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	r := repl.New()
	if *jsonMode {
		r.SetMode(repl.ModeJSON)
	}

	r.Start(os.Stdin, os.Stdout)
	return nil
}

// parseArgs parses flags that may appear before, between or after the
// positional arguments.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return nil, fmt.Errorf("see 'uvmasm help' for usage")
			}
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

func load(path, formatName string) ([]asm.Instruction, error) {
	format, err := loader.ParseFormat(formatName)
	if err != nil {
		return nil, err
	}
	prog, err := loader.LoadFormat(path, format)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return prog, nil
}

func setupLogger(verbose bool) *zap.Logger {
	logger := zap.NewNop()
	if verbose {
		if dev, err := zap.NewDevelopment(); err == nil {
			logger = dev
			atexit.Register(func() { _ = logger.Sync() })
		}
	}
	asm.SetLogger(logger)
	loader.SetLogger(logger)
	return logger
}

func printUsage(out io.Writer) error {
	fmt.Fprintln(out, `uvmasm - assembler for the UVM instruction set

Usage:
  uvmasm <command> [arguments]

Commands:
  assemble <input> <output>   Assemble a program into a binary image
  check <input>               Validate a program without writing output
  repl                        Start interactive REPL
  version                     Print version information
  help                        Show this help message

Assemble Options:
  -test                 Print a hex dump of the assembled image
  -listing              Print a per-instruction table
  -format <f>           Input format: json, csv, parquet, text (default: by extension)
  -j <n>                Number of assembly workers
  -v                    Verbose logging

Check Options:
  -format <f>           Input format
  -v                    Verbose logging

REPL Options:
  -json                 Start in JSON mode (default: text mode)

Input formats:
  .json                 [{"op": "load", "const": 5}, {"op": "rol", "addr": 10}]
  .csv, .parquet        columns op, const, addr
  .uvm, .asm, .s, .txt  one instruction per line: load 5

Examples:
  uvmasm assemble program.json program.bin
  uvmasm assemble program.uvm program.bin -test
  uvmasm assemble program.csv program.bin -listing -j 4
  uvmasm check program.parquet
  uvmasm repl -json`)
	return nil
}
