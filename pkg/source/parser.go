package source

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/akhildatla/uvmasm/pkg/asm"
	"github.com/akhildatla/uvmasm/pkg/isa"
)

// Parser parses UVM assembly source into symbolic instructions.
type Parser struct {
	tokens []Token
	pos    int
	prog   []asm.Instruction
}

// NewParser creates a new parser for the given input.
func NewParser(input string) *Parser {
	lexer := NewLexer(input)
	return &Parser{
		tokens: lexer.Tokenize(),
		pos:    0,
		prog:   []asm.Instruction{},
	}
}

// Parse parses source and returns its instructions, each wrapped with its
// line number.
func Parse(input string) ([]asm.Instruction, error) {
	return NewParser(input).Parse()
}

// Parse parses the entire input and returns the program. Errors are
// *asm.InstructionError values carrying the line number.
func (p *Parser) Parse() ([]asm.Instruction, error) {
	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]

		switch tok.Type {
		case TokenEOF:
			return p.prog, nil

		case TokenNewline:
			p.pos++

		case TokenIdent:
			instr, err := p.parseInstruction()
			if err != nil {
				return nil, &asm.InstructionError{Index: len(p.prog), Line: tok.Line, Op: tok.Value, Err: err}
			}
			p.prog = append(p.prog, asm.At(instr, tok.Line))

		default:
			return nil, &asm.InstructionError{
				Index: len(p.prog),
				Line:  tok.Line,
				Err:   &asm.OperandError{Kind: asm.InstructionMalformed, Field: "op", Raw: tok.Value},
			}
		}
	}

	return p.prog, nil
}

func (p *Parser) parseInstruction() (asm.Instruction, error) {
	name := p.tokens[p.pos].Value
	p.pos++ // Consume operation name

	op, known := isa.OpcodeFromString(name)
	if !known {
		return nil, &asm.UnknownOperationError{Op: name}
	}
	field := op.Format().Field()

	tok := p.tokens[p.pos]
	if tok.Type == TokenNewline || tok.Type == TokenEOF {
		return nil, &asm.OperandError{Kind: asm.OperandMissing, Op: name, Field: field}
	}
	p.pos++ // Consume operand

	if next := p.tokens[p.pos]; next.Type != TokenNewline && next.Type != TokenEOF {
		return nil, &asm.OperandError{Kind: asm.InstructionMalformed, Field: field, Raw: "unexpected " + next.Value}
	}

	if tok.Type != TokenInt {
		return nil, &asm.OperandError{Kind: asm.OperandMalformed, Op: name, Field: field, Raw: tok.Value}
	}
	value, err := ParseInt(tok.Value)
	if err != nil {
		return nil, &asm.OperandError{Kind: asm.OperandMalformed, Op: name, Field: field, Raw: tok.Value}
	}

	if field == "const" {
		return asm.Load{Const: value}, nil
	}
	return asm.Short{Op: name, Addr: value}, nil
}

// ParseInt parses a decimal or 0x-prefixed hexadecimal integer with one
// optional sign. Digit separators are not accepted in either base. Values
// beyond int64 are clamped so that range checks downstream report them as
// out of range.
func ParseInt(s string) (int64, error) {
	body, neg := s, false
	if body != "" && (body[0] == '+' || body[0] == '-') {
		neg = body[0] == '-'
		body = body[1:]
	}

	var mag uint64
	var err error
	if strings.HasPrefix(body, "0x") || strings.HasPrefix(body, "0X") {
		mag, err = strconv.ParseUint(body[2:], 16, 64)
	} else {
		mag, err = strconv.ParseUint(body, 10, 64)
	}
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, &strconv.NumError{Func: "ParseInt", Num: s, Err: strconv.ErrSyntax}
	}

	if neg {
		if err != nil || mag > 1<<63 {
			return math.MinInt64, nil
		}
		return -int64(mag), nil
	}
	if err != nil || mag > math.MaxInt64 {
		return math.MaxInt64, nil
	}
	return int64(mag), nil
}
