// Package sexpr is the default [lang.Parser]: a small reader that turns the
// rendered text of one validated line into a [lang.Value].
//
// The reader accepts exactly one datum. Atoms beginning with a digit, or
// with a sign followed by a digit, are numbers; #t and #f are booleans;
// every other atom is a symbol. A leading quote mark reads as
// (quote <datum>).
package sexpr

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/db47h/lex"

	"github.com/ardnew/lispfront/lang"
)

// Reader errors.
var (
	ErrEmptyInput      = lang.NewError("empty input")
	ErrUnexpectedEOF   = lang.NewError("unexpected end of input")
	ErrUnexpectedToken = lang.NewError("unexpected token")
	ErrTrailingInput   = lang.NewError("trailing input after datum")
	ErrSyntax          = lang.NewError("syntax error")
)

// Parser reads s-expressions. The zero value is ready to use.
type Parser struct{}

// New returns a Parser.
func New() *Parser { return &Parser{} }

// Parse reads the single datum in text.
func (*Parser) Parse(ctx context.Context, text string) (*lang.Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r := newReader(ctx, text)
	r.next()

	if r.tok == tokEOF {
		return nil, ErrEmptyInput
	}

	v, err := r.datum()
	if err != nil {
		return nil, err
	}

	r.next()

	if r.tok != tokEOF {
		return nil, r.fail(ErrTrailingInput)
	}

	return v, nil
}

// Parse reads text with the default parser.
func Parse(ctx context.Context, text string) (*lang.Value, error) {
	return New().Parse(ctx, text)
}

type reader struct {
	ctx context.Context
	lx  *lex.Lexer
	val any
	pos int
	tok lex.Token
}

func newReader(ctx context.Context, text string) *reader {
	f := lex.NewFile("", strings.NewReader(text))

	return &reader{ctx: ctx, lx: lex.NewLexer(f, lexAny)}
}

func (r *reader) next() {
	r.tok, r.pos, r.val = r.lx.Lex()
}

// fail locates err at the current token. Rendered text is a single line,
// so only the column is meaningful.
func (r *reader) fail(err *lang.Error) *lang.Error {
	p := r.lx.File().Position(r.pos)

	return err.With(
		slog.Int("column", p.Column-1),
		slog.String("token", tokenName(r.tok)),
	)
}

func (r *reader) datum() (*lang.Value, error) {
	switch r.tok {
	case tokOpen:
		return r.list()

	case tokQuote:
		r.next()

		if r.tok == tokEOF {
			return nil, r.fail(ErrUnexpectedEOF)
		}

		v, err := r.datum()
		if err != nil {
			return nil, err
		}

		return lang.List(lang.Symbol("quote"), v), nil

	case tokString:
		s, _ := r.val.(string)

		return lang.String(s), nil

	case tokAtom:
		s, _ := r.val.(string)

		return r.atom(s)

	case tokEOF:
		return nil, r.fail(ErrUnexpectedEOF)

	case lex.Error:
		return nil, r.fail(ErrSyntax).With(slog.Any("reason", r.val))
	}

	return nil, r.fail(ErrUnexpectedToken)
}

func (r *reader) list() (*lang.Value, error) {
	items := []*lang.Value{}

	for {
		if err := r.ctx.Err(); err != nil {
			return nil, err
		}

		r.next()

		switch r.tok {
		case tokClose:
			return lang.List(items...), nil

		case tokEOF:
			return nil, r.fail(ErrUnexpectedEOF)
		}

		v, err := r.datum()
		if err != nil {
			return nil, err
		}

		items = append(items, v)
	}
}

func (r *reader) atom(s string) (*lang.Value, error) {
	switch s {
	case "#t":
		return lang.Bool(true), nil
	case "#f":
		return lang.Bool(false), nil
	}

	if !numeric(s) {
		return lang.Symbol(s), nil
	}

	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, r.fail(lang.ErrInvalidNumber.Wrap(err)).
			With(slog.String("atom", s))
	}

	return lang.Number(n), nil
}

func numeric(s string) bool {
	if s == "" {
		return false
	}

	if s[0] == '+' || s[0] == '-' {
		s = s[1:]
	}

	return s != "" && s[0] >= '0' && s[0] <= '9'
}
