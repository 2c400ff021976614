package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/lispfront/log"
)

// Check validates and parses every line of a program.
type Check struct {
	Quiet bool `help:"Print nothing; report failure through the exit status only." short:"q"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source"`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) error {
	lines, err := readLines(ctx, c.Source)
	if err != nil {
		return err
	}

	s := newSession(ctx)

	report, err := s.Sync(ctx, lines)
	if err != nil {
		return ErrSync.Wrap(err).With(slog.String("source", c.Source))
	}

	out := stdout(ctx)

	if !c.Quiet {
		for _, e := range report.Errors {
			fmt.Fprintf(out, "%s:%d: %v\n", c.Source, e.Line+1, e.Err)
		}
	}

	log.DebugContext(ctx, "check complete",
		slog.String("source", c.Source),
		slog.Int("processed", report.Processed),
		slog.Int("skipped", report.Skipped),
		slog.Int("failed", len(report.Errors)),
	)

	if !report.OK() {
		return ErrCheckFailed.With(
			slog.String("source", c.Source),
			slog.Int("failed", len(report.Errors)),
		)
	}

	if !c.Quiet {
		fmt.Fprintf(out, "%s: %d lines ok\n", c.Source, report.Processed)
	}

	return nil
}
