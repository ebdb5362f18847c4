// Package source reads the line-oriented UVM assembly syntax:
//
//	load 5        ; constant, 23 bits
//	rol  0x0A     # address, 16 bits
//	write 0
//
// One instruction per line; ';' and '#' start comments.
package source

import (
	"unicode"
	"unicode/utf8"
)

// TokenType represents the type of a token.
type TokenType uint8

const (
	TokenEOF TokenType = iota
	TokenNewline
	TokenIdent   // Operation names
	TokenInt     // Integer literals: decimal, -decimal, 0x hex
	TokenIllegal // Anything else
)

// String returns the string representation of a token type.
func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenNewline:
		return "NEWLINE"
	case TokenIdent:
		return "IDENT"
	case TokenInt:
		return "INT"
	case TokenIllegal:
		return "ILLEGAL"
	default:
		return "UNKNOWN"
	}
}

// Token represents a lexical token.
type Token struct {
	Type  TokenType
	Value string
	Line  int
}

// Lexer tokenizes UVM assembly source.
type Lexer struct {
	input  string
	pos    int
	line   int
	tokens []Token
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		pos:    0,
		line:   1,
		tokens: []Token{},
	}
}

// Tokenize tokenizes the entire input and returns the tokens.
func (l *Lexer) Tokenize() []Token {
	for l.pos < len(l.input) {
		l.skipWhitespace()
		if l.pos >= len(l.input) {
			break
		}

		ch := l.input[l.pos]
		r, _ := utf8.DecodeRuneInString(l.input[l.pos:])

		switch {
		case ch == '\n':
			l.tokens = append(l.tokens, Token{Type: TokenNewline, Value: "\n", Line: l.line})
			l.line++
			l.pos++

		case ch == ';' || ch == '#':
			for l.pos < len(l.input) && l.input[l.pos] != '\n' {
				l.pos++
			}

		case ch == '-' || ch == '+' || isDigit(ch):
			l.scanNumber()

		case isLetter(r) || r == '_':
			l.scanIdent()

		default:
			l.scanIllegal()
		}
	}

	l.tokens = append(l.tokens, Token{Type: TokenEOF, Value: "", Line: l.line})
	return l.tokens
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == ' ' || ch == '\t' || ch == '\r' || ch == ',' {
			l.pos++
		} else {
			break
		}
	}
}

// scanNumber consumes a numeric literal. Trailing letters and digits are
// kept in the token so that "12ab" is rejected whole by the parser.
func (l *Lexer) scanNumber() {
	start := l.pos
	if l.input[l.pos] == '-' || l.input[l.pos] == '+' {
		l.pos++
	}
	l.skipWord()
	l.tokens = append(l.tokens, Token{Type: TokenInt, Value: l.input[start:l.pos], Line: l.line})
}

func (l *Lexer) scanIdent() {
	start := l.pos
	l.skipWord()
	l.tokens = append(l.tokens, Token{Type: TokenIdent, Value: l.input[start:l.pos], Line: l.line})
}

// skipWord advances over letters, digits and underscores, decoding whole
// UTF-8 sequences so a multi-byte letter is never split.
func (l *Lexer) skipWord() {
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if !isWordRune(r) {
			return
		}
		l.pos += size
	}
}

func (l *Lexer) scanIllegal() {
	start := l.pos
	_, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == ',' || ch == ';' || ch == '#' {
			break
		}
		l.pos++
	}
	l.tokens = append(l.tokens, Token{Type: TokenIllegal, Value: l.input[start:l.pos], Line: l.line})
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isLetter(r rune) bool {
	return unicode.IsLetter(r)
}

func isWordRune(r rune) bool {
	return isLetter(r) || unicode.IsDigit(r) || r == '_'
}
