package listing_test

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/akhildatla/uvmasm/internal/testutil"
	"github.com/akhildatla/uvmasm/pkg/asm"
	"github.com/akhildatla/uvmasm/pkg/listing"
)

var _ = Describe("HexDump", func() {
	var out *bytes.Buffer

	BeforeEach(func() {
		out = new(bytes.Buffer)
	})

	It("should print each byte as a 0xHH literal", func() {
		Expect(listing.HexDump(out, []byte{0x9F, 0x02, 0x00, 0x00})).To(Succeed())

		Expect(out.String()).To(Equal("Machine code (hex):\n0x9F, 0x02, 0x00, 0x00, \n\n"))
	})

	It("should break lines every sixteen bytes", func() {
		image := make([]byte, 33)
		for i := range image {
			image[i] = byte(i)
		}

		Expect(listing.HexDump(out, image)).To(Succeed())

		lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
		Expect(lines).To(HaveLen(4))
		Expect(lines[1]).To(HavePrefix("0x00, 0x01,"))
		Expect(strings.Count(lines[1], "0x")).To(Equal(16))
		Expect(strings.Count(lines[2], "0x")).To(Equal(16))
		Expect(lines[3]).To(Equal("0x20, "))
	})

	It("should print only the header for an empty image", func() {
		Expect(listing.HexDump(out, nil)).To(Succeed())

		Expect(out.String()).To(Equal("Machine code (hex):\n\n\n"))
	})
})

var _ = Describe("Summary", func() {
	It("should report the instruction count", func() {
		out := new(bytes.Buffer)

		Expect(listing.Summary(out, 4)).To(Succeed())

		Expect(out.String()).To(Equal("Assembled instructions: 4\n"))
	})
})

var _ = Describe("Hex", func() {
	It("should format bytes as spaced pairs", func() {
		Expect(listing.Hex([]byte{0x08, 0x05, 0x00})).To(Equal("08 05 00"))
	})
})

var _ = Describe("Table", func() {
	var (
		prog []asm.Instruction
		recs []asm.Intermediate
		out  *bytes.Buffer
	)

	BeforeEach(func() {
		prog = testutil.SampleProgram()
		recs = make([]asm.Intermediate, len(prog))
		for i, instr := range prog {
			rec, err := asm.Encode(instr)
			Expect(err).NotTo(HaveOccurred())
			recs[i] = rec
		}
		out = new(bytes.Buffer)
	})

	It("should list every instruction with its packed bytes", func() {
		Expect(listing.Table(out, prog, recs)).To(Succeed())

		text := out.String()
		Expect(text).To(ContainSubstring("Opcode"))
		Expect(text).To(ContainSubstring("9F 02 00 00"))
		Expect(text).To(ContainSubstring("08 05 00"))
		Expect(text).To(ContainSubstring("F9 FF 7F"))
		Expect(text).To(ContainSubstring("rol"))
		Expect(text).To(ContainSubstring("13"))
	})

	It("should reject mismatched inputs", func() {
		Expect(listing.Table(out, prog, recs[:1])).To(MatchError(ContainSubstring("4 instructions but 1 records")))
	})

	It("should surface packing failures", func() {
		recs[2].Width = 9

		err := listing.Table(out, prog, recs)

		Expect(err).To(MatchError(asm.ErrInvalidInstructionSize))
		Expect(err.Error()).To(ContainSubstring("listing instruction 2"))
	})
})
