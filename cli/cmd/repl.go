package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/lispfront/cli/cmd/repl"
	"github.com/ardnew/lispfront/log"
)

// Repl runs an interactive session, optionally seeded with a program.
type Repl struct {
	History   string `default:"${history}" help:"History file."                  type:"path"`
	NoHistory bool   `                     help:"Do not read or write history."`

	Source string `arg:"" help:"Program to process before prompting." name:"source" optional:"" type:"existingfile"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	s := newSession(ctx)

	if r.Source != "" {
		lines, err := readLines(ctx, r.Source)
		if err != nil {
			return err
		}

		report, err := s.Sync(ctx, lines)
		if err != nil {
			return ErrSync.Wrap(err).With(slog.String("source", r.Source))
		}

		for _, e := range report.Errors {
			log.WarnContext(ctx, "line skipped",
				slog.String("source", r.Source),
				slog.Int("line", e.Line),
				slog.Any("error", e.Err),
			)
		}
	}

	history := r.History
	if r.NoHistory {
		history = ""
	}

	return repl.Run(ctx, s, history, log.Default())
}
