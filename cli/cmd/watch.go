package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ardnew/lispfront/log"
	"github.com/ardnew/lispfront/session"
)

// Watch keeps a session in sync with a file, re-processing it after every
// change.
type Watch struct {
	Debounce time.Duration `default:"100ms" help:"Quiet period after a change before re-processing."`

	Source string `arg:"" help:"Source input file." name:"source" type:"existingfile"`
}

// Run executes the watch command. It returns when ctx is done.
func (w *Watch) Run(ctx context.Context) error {
	path, err := filepath.Abs(w.Source)
	if err != nil {
		return ErrWatch.Wrap(err).With(slog.String("source", w.Source))
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return ErrWatch.Wrap(err)
	}
	defer fsw.Close()

	// Editors commonly replace files by renaming over them, which drops a
	// watch on the file itself. Watching the directory survives that.
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		return ErrWatch.Wrap(err).With(slog.String("source", w.Source))
	}

	s := newSession(ctx)
	out := stdout(ctx)

	if err := w.sync(ctx, s, out); err != nil {
		return err
	}

	log.InfoContext(ctx, "watching", slog.String("path", path))

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}

			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}

			if event.Name != path ||
				!(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}

			log.TraceContext(ctx, "file event",
				slog.String("path", event.Name),
				slog.String("op", event.Op.String()),
			)

			if timer == nil {
				timer = time.NewTimer(w.Debounce)
			} else {
				timer.Reset(w.Debounce)
			}

			pending = timer.C

		case <-pending:
			pending = nil

			if err := w.sync(ctx, s, out); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}

				log.WarnContext(ctx, "sync failed", slog.Any("error", err))
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}

			log.WarnContext(ctx, "watch error", slog.Any("error", err))
		}
	}
}

// sync re-reads the file and brings s up to date, printing a summary line
// and one line per failure.
func (w *Watch) sync(ctx context.Context, s *session.Session, out io.Writer) error {
	lines, err := readLines(ctx, w.Source)
	if err != nil {
		// A file caught mid-replace reappears with the next event.
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		return err
	}

	report, err := s.Sync(ctx, lines)
	if err != nil {
		return err
	}

	frontier, total := s.Progress()

	fmt.Fprintf(out,
		"%s: reused=%d processed=%d skipped=%d failed=%d rebuilt=%t progress=%d/%d\n",
		w.Source, report.Reused, report.Processed, report.Skipped,
		len(report.Errors), report.Rebuilt, frontier, total,
	)

	for _, e := range report.Errors {
		fmt.Fprintf(out, "%s:%d: %v\n", w.Source, e.Line+1, e.Err)
	}

	return nil
}
