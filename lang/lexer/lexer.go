// Package lexer converts Lisp source text into positioned tokens.
//
// The lexer makes a single forward pass over its input. It never fails: an
// unrecognized character produces a [token.Error] token and lexing continues
// with the next character. The token stream always ends with exactly one
// [token.EOF] token, even for empty input.
//
//	for tok := range lexer.New("(+ 1 2)").All() {
//		fmt.Println(tok)
//	}
package lexer

import (
	"fmt"
	"iter"
	"strconv"
	"strings"
	"unicode"

	"github.com/ardnew/lispfront/lang/token"
)

// punctuation lists every non-alphanumeric character accepted in source text.
const punctuation = "()[]{}\"'`,;#|\\+-*/=<>!?_. \t\n\r"

// symbolExtra lists the non-alphanumeric characters a symbol may continue
// with.
const symbolExtra = "+-*/=<>!?_"

// Lexer holds the scanning state for one input.
type Lexer struct {
	input  []rune
	pos    int
	line   int
	column int
	done   bool
}

// Option configures a [Lexer].
type Option func(*Lexer)

// WithLine sets the line number reported for the first line of input.
// Tokenizing line n of a larger program with WithLine(n) yields tokens
// positioned on that line.
func WithLine(line int) Option {
	return func(l *Lexer) {
		if line >= 0 {
			l.line = line
		}
	}
}

// New returns a lexer over src.
func New(src string, opts ...Option) *Lexer {
	l := &Lexer{input: []rune(src)}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Tokenize returns every token in src, terminated by one EOF token.
func Tokenize(src string, opts ...Option) []token.Token {
	l := New(src, opts...)
	tokens := make([]token.Token, 0, len(l.input)/2+1)

	for tok := range l.All() {
		tokens = append(tokens, tok)
	}

	return tokens
}

// All returns an iterator over the remaining tokens, ending with EOF.
func (l *Lexer) All() iter.Seq[token.Token] {
	return func(yield func(token.Token) bool) {
		for !l.done {
			if !yield(l.Next()) {
				return
			}
		}
	}
}

// Position returns the current line and column of the cursor.
func (l *Lexer) Position() (line, column int) {
	return l.line, l.column
}

// Next scans and returns the next token. After the EOF token has been
// returned, Next keeps returning EOF at the final position.
func (l *Lexer) Next() token.Token {
	l.skipSpace()

	line, column := l.line, l.column

	if l.eof() {
		l.done = true

		return token.Make(token.EOF, "", line, column)
	}

	c := l.advance()

	if !valid(c) {
		return token.Make(token.Error, fmt.Sprintf(
			"invalid character %s at line %d, column %d",
			strconv.QuoteRune(c), line, column,
		), line, column)
	}

	mk := func(kind token.Kind, lexeme string) token.Token {
		return token.Make(kind, lexeme, line, column)
	}

	switch {
	case c == '(':
		return mk(token.OpenParen, "(")

	case c == ')':
		return mk(token.CloseParen, ")")

	case c == '\'':
		return mk(token.Quote, "'")

	case c == '"':
		return mk(token.String, l.scanString())

	case c == '#':
		switch l.peek() {
		case 't':
			l.advance()

			return mk(token.Boolean, "#t")

		case 'f':
			l.advance()

			return mk(token.Boolean, "#f")
		}

		return mk(token.Symbol, l.scanSymbol(c))

	case isDigit(c):
		return mk(l.scanNumber(c))

	case (c == '+' || c == '-') && isDigit(l.peek()):
		return mk(l.scanNumber(c))
	}

	return mk(token.Symbol, l.scanSymbol(c))
}

// scanString reads a string literal body; the opening quote has already
// been consumed. Input ending before the closing quote yields whatever was
// read.
func (l *Lexer) scanString() string {
	var sb strings.Builder

	for !l.eof() {
		c := l.advance()

		switch c {
		case '"':
			return sb.String()

		case '\\':
			if l.eof() {
				return sb.String()
			}

			switch e := l.advance(); e {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case 'r':
				sb.WriteRune('\r')
			default:
				sb.WriteRune(e)
			}

		default:
			sb.WriteRune(c)
		}
	}

	return sb.String()
}

// scanNumber reads digits and at most one decimal point following first.
// Text that does not parse as a float is reported as a symbol.
func (l *Lexer) scanNumber(first rune) (token.Kind, string) {
	var sb strings.Builder

	sb.WriteRune(first)

	dot := false

	for !l.eof() {
		c := l.peek()

		switch {
		case isDigit(c):
		case c == '.' && !dot:
			dot = true
		default:
			return numberKind(sb.String())
		}

		sb.WriteRune(l.advance())
	}

	return numberKind(sb.String())
}

func numberKind(text string) (token.Kind, string) {
	if _, err := strconv.ParseFloat(text, 64); err != nil {
		return token.Symbol, text
	}

	return token.Number, text
}

// scanSymbol reads a symbol seeded with first.
func (l *Lexer) scanSymbol(first rune) string {
	var sb strings.Builder

	sb.WriteRune(first)

	for !l.eof() && isSymbolRune(l.peek()) {
		sb.WriteRune(l.advance())
	}

	return sb.String()
}

// skipSpace consumes whitespace and line comments. A comment ends before
// the newline that terminates it.
func (l *Lexer) skipSpace() {
	for !l.eof() {
		switch l.peek() {
		case ' ', '\t', '\r', '\n':
			l.advance()

		case ';':
			for !l.eof() && l.peek() != '\n' {
				l.advance()
			}

		default:
			return
		}
	}
}

func (l *Lexer) eof() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) peek() rune {
	if l.eof() {
		return 0
	}

	return l.input[l.pos]
}

func (l *Lexer) advance() rune {
	c := l.input[l.pos]
	l.pos++

	if c == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}

	return c
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isAlnum(c rune) bool {
	return unicode.IsLetter(c) || unicode.IsNumber(c)
}

func isSymbolRune(c rune) bool {
	return isAlnum(c) || strings.ContainsRune(symbolExtra, c)
}

func valid(c rune) bool {
	return isAlnum(c) || strings.ContainsRune(punctuation, c)
}
