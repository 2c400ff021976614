package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"text/tabwriter"

	"github.com/ardnew/lispfront/lang/lexer"
	"github.com/ardnew/lispfront/lang/token"
)

// Tokens prints the tokens of every line.
type Tokens struct {
	JSON bool `help:"Print one JSON array of tokens per line." short:"j"`
	EOF  bool `help:"Include end-of-line tokens."`

	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source"`
}

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context) error {
	lines, err := readLines(ctx, t.Source)
	if err != nil {
		return err
	}

	out := stdout(ctx)

	if t.JSON {
		return t.writeJSON(out, lines)
	}

	return t.writeText(out, lines)
}

func (t *Tokens) tokens(i int, line string) []token.Token {
	tokens := lexer.Tokenize(line, lexer.WithLine(i))

	if !t.EOF && len(tokens) > 0 && tokens[len(tokens)-1].Kind == token.EOF {
		tokens = tokens[:len(tokens)-1]
	}

	return tokens
}

func (t *Tokens) writeText(w io.Writer, lines []string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	for i, line := range lines {
		for _, tk := range t.tokens(i, line) {
			lexeme := tk.Lexeme
			if tk.Kind == token.String || tk.Kind == token.Error {
				lexeme = strconv.Quote(lexeme)
			}

			fmt.Fprintf(tw, "%d:%d\t%s\t%s\n", tk.Line, tk.Column, tk.Kind, lexeme)
		}
	}

	return tw.Flush()
}

func (t *Tokens) writeJSON(w io.Writer, lines []string) error {
	enc := json.NewEncoder(w)

	for i, line := range lines {
		tokens := t.tokens(i, line)
		if tokens == nil {
			tokens = []token.Token{}
		}

		if err := enc.Encode(tokens); err != nil {
			return ErrEncode.Wrap(err).With(
				slog.String("format", "json"),
				slog.Int("line", i),
			)
		}
	}

	return nil
}
