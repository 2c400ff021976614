package cmd

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/klauspost/readahead"

	"github.com/ardnew/lispfront/lang"
	"github.com/ardnew/lispfront/log"
	"github.com/ardnew/lispfront/session"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdout returns the writer commands print results to: the kong context's
// Stdout when present, otherwise os.Stdout.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

type sessionOptionsKey struct{}

// WithSessionOptions returns a new context.Context carrying options applied
// to every session a command creates.
func WithSessionOptions(
	ctx context.Context,
	opts ...session.Option,
) context.Context {
	return context.WithValue(ctx, sessionOptionsKey{}, opts)
}

// newSession returns a session using the default reader and the options
// stored in ctx.
func newSession(ctx context.Context) *session.Session {
	opts, _ := ctx.Value(sessionOptionsKey{}).([]session.Option)

	return session.New(nil, append(
		[]session.Option{
			session.WithLogger(log.Default()),
		},
		opts...,
	)...)
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// readLines returns the lines of the named file, or of stdin when name is
// "-". Line terminators are removed.
func readLines(ctx context.Context, name string) ([]string, error) {
	var src io.Reader = os.Stdin

	if name != stdinSource {
		file, err := os.Open(name)
		if err != nil {
			return nil, lang.ErrReadInput.Wrap(err).With(slog.String("path", name))
		}
		defer file.Close()

		src = file
	}

	ra := readahead.NewReader(src)
	defer ra.Close()

	var lines []string

	scanner := bufio.NewScanner(ra)
	scanner.Buffer(make([]byte, 0, 64<<10), 1<<20)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		lines = append(lines, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return nil, lang.ErrReadInput.Wrap(err).With(slog.String("path", name))
	}

	return lines, nil
}
