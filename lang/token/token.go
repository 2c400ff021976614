// Package token defines the lexical tokens produced by package lexer.
package token

import (
	"strconv"
	"strings"
)

// Kind identifies the lexical class of a [Token].
//
// Each kind carries a fixed numeric tag. The tag, not the Go identifier, is
// what contributes to content hashes, so the values below must never be
// renumbered.
type Kind uint8

const (
	Invalid    Kind = 0 // invalid
	OpenParen  Kind = 1 // open-paren
	CloseParen Kind = 2 // close-paren
	Quote      Kind = 3 // quote
	Symbol     Kind = 4 // symbol
	Number     Kind = 5 // number
	String     Kind = 6 // string
	Boolean    Kind = 7 // boolean
	EOF        Kind = 8 // end-of-input
	Error      Kind = 9 // lex-error
)

var kindName = [...]string{
	Invalid:    "invalid",
	OpenParen:  "open-paren",
	CloseParen: "close-paren",
	Quote:      "quote",
	Symbol:     "symbol",
	Number:     "number",
	String:     "string",
	Boolean:    "boolean",
	EOF:        "end-of-input",
	Error:      "lex-error",
}

// String returns the name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindName) {
		return kindName[k]
	}

	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Tag returns the fixed numeric tag of the kind.
func (k Kind) Tag() byte { return byte(k) }

// IsAtom reports whether the kind denotes a self-contained datum.
func (k Kind) IsAtom() bool {
	switch k {
	case Symbol, Number, String, Boolean:
		return true
	}

	return false
}

// MarshalText implements [encoding.TextMarshaler].
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Token is a positioned lexeme.
//
// Tokens are values. Line and Column describe where the first character of
// the lexeme was consumed; both are zero-based.
type Token struct {
	Lexeme string `json:"lexeme"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Kind   Kind   `json:"kind"`
}

// Make returns a token of the given kind at the given position.
func Make(kind Kind, lexeme string, line, column int) Token {
	return Token{Kind: kind, Lexeme: lexeme, Line: line, Column: column}
}

// Bool returns the value of a Boolean token.
func (t Token) Bool() (value, ok bool) {
	if t.Kind != Boolean {
		return false, false
	}

	return t.Lexeme == "#t", true
}

// Float returns the value of a Number token.
func (t Token) Float() (float64, bool) {
	if t.Kind != Number {
		return 0, false
	}

	f, err := strconv.ParseFloat(t.Lexeme, 64)
	if err != nil {
		return 0, false
	}

	return f, true
}

// String returns a human-readable description of the token.
func (t Token) String() string {
	var sb strings.Builder

	sb.WriteString(t.Kind.String())

	switch t.Kind {
	case OpenParen, CloseParen, Quote, EOF:
	case String:
		sb.WriteByte(' ')
		sb.WriteString(strconv.Quote(t.Lexeme))
	default:
		sb.WriteByte(' ')
		sb.WriteString(t.Lexeme)
	}

	sb.WriteString(" at ")
	sb.WriteString(strconv.Itoa(t.Line))
	sb.WriteByte(':')
	sb.WriteString(strconv.Itoa(t.Column))

	return sb.String()
}

// Content reports whether tokens contains anything besides the trailing
// end-of-input token.
func Content(tokens []Token) bool {
	for _, t := range tokens {
		if t.Kind != EOF {
			return true
		}
	}

	return false
}
