package repl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/akhildatla/uvmasm/pkg/asm"
	"github.com/akhildatla/uvmasm/pkg/listing"
	"github.com/akhildatla/uvmasm/pkg/loader"
	"github.com/akhildatla/uvmasm/pkg/source"
)

const (
	promptText = "uvm> "
	promptJSON = "json> "
)

// Mode represents the REPL input mode.
type Mode int

const (
	ModeText Mode = iota // load 5
	ModeJSON             // {"op": "load", "const": 5}
)

// REPL assembles one instruction per line and accumulates the results into
// a session image.
type REPL struct {
	mode    Mode
	prog    []asm.Instruction
	recs    []asm.Intermediate
	image   []byte
	history []string
	done    bool
}

// New creates a new REPL instance.
func New() *REPL {
	return &REPL{
		mode:    ModeText,
		history: []string{},
	}
}

// SetMode sets the REPL input mode.
func (r *REPL) SetMode(mode Mode) {
	r.mode = mode
}

// Image returns the bytes assembled so far.
func (r *REPL) Image() []byte {
	return r.image
}

// Start starts the REPL loop. It returns when input ends or the user quits.
func (r *REPL) Start(in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)

	fmt.Fprintln(out, "UVM assembler REPL")
	fmt.Fprintln(out, "Type 'help' for available commands, 'quit' to exit")
	fmt.Fprintln(out)

	for !r.done {
		if r.mode == ModeText {
			fmt.Fprint(out, promptText)
		} else {
			fmt.Fprint(out, promptJSON)
		}

		if !scanner.Scan() {
			break
		}

		line := scanner.Text()

		if handled := r.handleCommand(line, out); handled {
			continue
		}

		r.eval(line, out)
	}
}

func (r *REPL) handleCommand(line string, out io.Writer) bool {
	trimmed := strings.TrimSpace(line)
	parts := strings.Fields(trimmed)

	if len(parts) == 0 {
		return true
	}

	switch parts[0] {
	case "quit", "exit", "q":
		fmt.Fprintln(out, "Goodbye!")
		r.done = true
		return true

	case "help", "h", "?":
		r.printHelp(out)
		return true

	case "mode":
		if len(parts) > 1 {
			switch parts[1] {
			case "text":
				r.mode = ModeText
				fmt.Fprintln(out, "Switched to text mode")
			case "json":
				r.mode = ModeJSON
				fmt.Fprintln(out, "Switched to JSON mode")
			default:
				fmt.Fprintln(out, "Unknown mode. Use 'text' or 'json'")
			}
		} else {
			if r.mode == ModeText {
				fmt.Fprintln(out, "Current mode: text")
			} else {
				fmt.Fprintln(out, "Current mode: JSON")
			}
		}
		return true

	case "image":
		if err := listing.HexDump(out, r.image); err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		}
		return true

	case "list":
		if len(r.prog) == 0 {
			fmt.Fprintln(out, "No instructions assembled")
			return true
		}
		if err := listing.Table(out, r.prog, r.recs); err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		}
		return true

	case "reset":
		r.prog, r.recs, r.image = nil, nil, nil
		fmt.Fprintln(out, "Image cleared")
		return true

	case "save":
		if len(parts) > 1 {
			r.saveImage(parts[1], out)
		} else {
			fmt.Fprintln(out, "Usage: save <path>")
		}
		return true

	case "history":
		for i, cmd := range r.history {
			fmt.Fprintf(out, "%3d: %s\n", i+1, cmd)
		}
		return true
	}

	return false
}

func (r *REPL) eval(input string, out io.Writer) {
	if strings.TrimSpace(input) == "" {
		return
	}

	r.history = append(r.history, input)

	var prog []asm.Instruction
	var err error

	if r.mode == ModeText {
		prog, err = source.Parse(input)
	} else {
		var instr asm.Instruction
		instr, err = loader.ParseJSONInstruction([]byte(input))
		prog = []asm.Instruction{instr}
	}
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return
	}

	// Encode the whole line before touching the session so a failure
	// leaves the image unchanged.
	recs := make([]asm.Intermediate, 0, len(prog))
	var packed []byte
	for _, instr := range prog {
		rec, err := asm.Encode(instr)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			return
		}
		packed, err = asm.AppendPacked(packed, rec)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			return
		}
		recs = append(recs, rec)
	}

	r.prog = append(r.prog, prog...)
	r.recs = append(r.recs, recs...)
	r.image = append(r.image, packed...)

	if len(packed) > 0 {
		fmt.Fprintf(out, "=> %s\n", listing.Hex(packed))
	}
}

func (r *REPL) saveImage(path string, out io.Writer) {
	if err := os.WriteFile(path, r.image, 0644); err != nil {
		fmt.Fprintf(out, "Error writing %s: %v\n", path, err)
		return
	}
	fmt.Fprintf(out, "Wrote %d bytes (%d instructions) to %s\n", len(r.image), len(r.prog), path)
}

func (r *REPL) printHelp(out io.Writer) {
	help := `
UVM REPL Commands:
  help, h, ?       Show this help message
  quit, exit, q    Exit the REPL
  mode [text|json] Show or set input mode
  image            Hex dump of the assembled image
  list             Table of assembled instructions
  reset            Clear the assembled image
  save <path>      Write the image to a file
  history          Show input history

Text Examples:
  load 5
  rol 0x0A
  write 0

JSON Examples:
  {"op": "load", "const": 5}
  {"op": "rol", "addr": 10}
`
	fmt.Fprint(out, help)
}
