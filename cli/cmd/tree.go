package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/lispfront/lang"
	"github.com/ardnew/lispfront/log"
)

// Tree processes a program and prints the resulting tree.
type Tree struct {
	Format string `default:"native" enum:"native,json,yaml" help:"Output format (${enum})." short:"o"`
	Indent int    `default:"2"                              help:"Indent width for JSON and YAML output." short:"i"`
	Where  string `                                         help:"Keep only units matching an expression over Line, Head, Kind, Tokens, and Text." short:"w"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source"`
}

// Run executes the tree command.
//
// Lines that fail are logged and left out of the tree.
func (t *Tree) Run(ctx context.Context) error {
	var filter *lang.Filter

	if t.Where != "" {
		f, err := lang.CompileFilter(t.Where)
		if err != nil {
			return err
		}

		filter = f
	}

	lines, err := readLines(ctx, t.Source)
	if err != nil {
		return err
	}

	s := newSession(ctx)

	report, err := s.Sync(ctx, lines)
	if err != nil {
		return ErrSync.Wrap(err).With(slog.String("source", t.Source))
	}

	for _, e := range report.Errors {
		log.WarnContext(ctx, "line skipped",
			slog.String("source", t.Source),
			slog.Int("line", e.Line),
			slog.Any("error", e.Err),
		)
	}

	tree := s.Tree()

	if filter != nil {
		if tree, err = tree.Filter(filter); err != nil {
			return err
		}
	}

	return t.write(ctx, tree)
}

func (t *Tree) write(ctx context.Context, tree *lang.Tree) error {
	out := stdout(ctx)

	switch t.Format {
	case "native":
		return tree.Format(ctx, out)
	case "json":
		return tree.FormatJSON(ctx, out, t.Indent)
	case "yaml":
		return tree.FormatYAML(ctx, out, t.Indent)
	default:
		return ErrFormat.With(slog.String("format", t.Format))
	}
}
