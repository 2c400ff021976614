package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/lispfront/lang"
	"github.com/ardnew/lispfront/session"
)

// syncBuffer is a bytes.Buffer safe for one writer and one reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

// testContext returns a context whose kong context prints to the returned
// buffer.
func testContext(t *testing.T, opts ...session.Option) (context.Context, *syncBuffer) {
	t.Helper()

	var out syncBuffer

	k, err := kong.New(&struct{}{}, kong.Writers(&out, io.Discard))
	if err != nil {
		t.Fatalf("kong.New: %v", err)
	}

	ctx := WithContext(t.Context(), &kong.Context{Kong: k})

	return WithSessionOptions(ctx, opts...), &out
}

func writeSource(t *testing.T, lines ...string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "program.lisp")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestReadLines(t *testing.T) {
	path := writeSource(t, "(+ 1 2)", "", "(f \"x\")")

	lines, err := readLines(context.Background(), path)
	if err != nil {
		t.Fatalf("readLines: %v", err)
	}

	if want := []string{"(+ 1 2)", "", `(f "x")`}; !slices.Equal(lines, want) {
		t.Errorf("expected %q, got %q", want, lines)
	}
}

func TestReadLines_CRLF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crlf.lisp")
	if err := os.WriteFile(path, []byte("(a)\r\n(b)\r\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	lines, err := readLines(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}

	// The scanner keeps the carriage return; the lexer treats it as space.
	if len(lines) != 2 || strings.TrimSpace(lines[1]) != "(b)" {
		t.Errorf("unexpected lines %q", lines)
	}
}

func TestReadLines_Missing(t *testing.T) {
	_, err := readLines(context.Background(), filepath.Join(t.TempDir(), "absent"))

	if !errors.Is(err, lang.ErrReadInput) {
		t.Errorf("expected ErrReadInput, got %v", err)
	}

	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected cause fs.ErrNotExist, got %v", err)
	}
}

func TestStdout_Fallback(t *testing.T) {
	if stdout(context.Background()) != os.Stdout {
		t.Error("expected os.Stdout without a kong context")
	}

	ctx, out := testContext(t)
	if stdout(ctx) != io.Writer(out) {
		t.Error("expected kong context's Stdout")
	}
}

func TestNewSession_AppliesOptions(t *testing.T) {
	ctx, _ := testContext(t, session.WithCapacity(7))

	if got := newSession(ctx).Cache().Capacity(); got != 7 {
		t.Errorf("expected capacity 7, got %d", got)
	}

	if got := newSession(context.Background()).Cache().Capacity(); got == 7 {
		t.Error("options leaked into a context without them")
	}
}

func TestError_Is(t *testing.T) {
	err := ErrCheckFailed.Wrap(errors.New("boom"))

	if !errors.Is(err, ErrCheckFailed) {
		t.Error("expected ErrCheckFailed")
	}

	if errors.Is(err, ErrSync) {
		t.Error("unexpected ErrSync")
	}

	if err.Error() != "check failed: boom" {
		t.Errorf("unexpected message %q", err.Error())
	}

	var le *lang.Error
	if !errors.As(ErrFormat.With(slog.String("format", "xml")), &le) {
		t.Error("expected command errors to be *lang.Error")
	}
}
