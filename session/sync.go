package session

import (
	"context"
	"log/slog"

	"github.com/ardnew/lispfront/lang/lexer"
	"github.com/ardnew/lispfront/lang/token"
)

// LineError is the failure of one line during [Session.Sync].
type LineError struct {
	Err  error `json:"error"`
	Line int   `json:"line"`
}

func (e LineError) Error() string { return e.Err.Error() }

func (e LineError) Unwrap() error { return e.Err }

// Report summarizes a [Session.Sync].
type Report struct {
	Errors    []LineError `json:"errors,omitempty"`
	Reused    int         `json:"reused"`    // leading lines kept from the cache
	Processed int         `json:"processed"` // lines processed successfully
	Skipped   int         `json:"skipped"`   // blank and comment-only lines
	Rebuilt   bool        `json:"rebuilt"`
}

// OK reports whether every line was processed.
func (r Report) OK() bool { return len(r.Errors) == 0 }

// Tokenize returns the tokens of each line, positioned on that line.
func Tokenize(lines []string) [][]token.Token {
	out := make([][]token.Token, len(lines))

	for i, line := range lines {
		out[i] = lexer.Tokenize(line, lexer.WithLine(i))
	}

	return out
}

// Sync brings the session up to date with lines, the complete text of a
// program.
//
// Sync sets the expected line count and consults [Session.ShouldRebuild].
// When a rebuild is needed the session is reset; otherwise the matched
// prefix is kept and everything after it is invalidated. The remaining
// lines are then processed in order. Blank and comment-only lines are
// skipped. A line that fails is recorded in the report and does not stop
// the lines after it.
//
// The returned error is non-nil only if ctx ends first.
func (s *Session) Sync(ctx context.Context, lines []string) (Report, error) {
	var report Report

	candidates := Tokenize(lines)

	s.SetTotalLines(len(lines))

	start := 0

	if s.ShouldRebuild(candidates) {
		s.Reset()

		report.Rebuilt = true
	} else {
		start = s.matchedPrefix(candidates)
		s.InvalidateFrom(start)

		report.Reused = start
	}

	// next is the line that would continue processing without a gap, not
	// counting skipped blank lines.
	next := start

	for i := start; i < len(candidates); i++ {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		if !token.Content(candidates[i]) {
			report.Skipped++

			if next == i {
				next++
			}

			continue
		}

		if err := s.process(ctx, candidates[i], i, next == i); err != nil {
			report.Errors = append(report.Errors, LineError{Line: i, Err: err})

			continue
		}

		next = i + 1
		report.Processed++
	}

	s.logger.DebugContext(ctx, "synchronized",
		slog.Bool("rebuilt", report.Rebuilt),
		slog.Int("reused", report.Reused),
		slog.Int("processed", report.Processed),
		slog.Int("skipped", report.Skipped),
		slog.Int("errors", len(report.Errors)),
	)

	return report, nil
}
