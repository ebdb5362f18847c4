// Package listing renders assembler diagnostics: the hex dump of a program
// image, a per-instruction table, and the assembled-instruction summary.
package listing

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/akhildatla/uvmasm/pkg/asm"
)

// BytesPerLine is the number of bytes on each hex dump line.
const BytesPerLine = 16

// HexDump writes image as comma-separated 0xHH literals, sixteen per line,
// under a "Machine code (hex):" header.
func HexDump(w io.Writer, image []byte) error {
	if _, err := fmt.Fprintln(w, "Machine code (hex):"); err != nil {
		return err
	}
	for i, b := range image {
		if i > 0 && i%BytesPerLine == 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "0x%02X, ", b); err != nil {
			return err
		}
	}
	_, err := fmt.Fprint(w, "\n\n")
	return err
}

// Hex formats b as space-separated uppercase hex pairs: "9F 02 00 00".
func Hex(b []byte) string {
	return fmt.Sprintf("% X", b)
}

// Summary writes the assembled-instruction count.
func Summary(w io.Writer, n int) error {
	_, err := fmt.Fprintf(w, "Assembled instructions: %d\n", n)
	return err
}

// Table writes one row per instruction: position, operation, opcode,
// operand, width and packed bytes. prog and recs must be parallel.
func Table(w io.Writer, prog []asm.Instruction, recs []asm.Intermediate) error {
	if len(prog) != len(recs) {
		return fmt.Errorf("listing: %d instructions but %d records", len(prog), len(recs))
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Op", "Opcode", "Operand", "Size", "Bytes"})
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	offset := 0
	for i, rec := range recs {
		b, err := asm.Pack(rec)
		if err != nil {
			return fmt.Errorf("listing instruction %d: %w", i, err)
		}
		table.Append([]string{
			strconv.Itoa(i),
			mnemonic(prog[i]),
			strconv.Itoa(int(rec.Opcode)),
			strconv.FormatUint(uint64(rec.Operand), 10),
			strconv.Itoa(rec.Width),
			Hex(b),
		})
		offset += len(b)
	}
	table.SetFooter([]string{"", "", "", "", strconv.Itoa(offset), "bytes"})
	table.Render()
	return nil
}

func mnemonic(instr asm.Instruction) string {
	if in := asm.Unwrap(instr); in != nil {
		return in.Mnemonic()
	}
	return "?"
}
