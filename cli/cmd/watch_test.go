package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func waitForOutput(t *testing.T, out *syncBuffer, want string) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		if strings.Contains(out.String(), want) {
			return
		}

		time.Sleep(10 * time.Millisecond)
	}

	t.Fatalf("timed out waiting for %q in output:\n%s", want, out.String())
}

// replaceFile swaps in new content atomically, as many editors do.
func replaceFile(t *testing.T, path string, content string) {
	t.Helper()

	tmp := filepath.Join(filepath.Dir(path), ".program.tmp")
	if err := os.WriteFile(tmp, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}
}

func TestWatch_ResyncsOnChange(t *testing.T) {
	ctx, out := testContext(t)
	ctx, cancel := context.WithCancel(ctx)

	defer cancel()

	path := writeSource(t, "(a)", "(b)")

	done := make(chan error, 1)

	go func() {
		done <- (&Watch{Source: path, Debounce: 20 * time.Millisecond}).Run(ctx)
	}()

	waitForOutput(t, out, "reused=0 processed=2 skipped=0 failed=0 rebuilt=true progress=2/2")

	replaceFile(t, path, "(a)\n(c)\n)\n")

	waitForOutput(t, out, "reused=1 processed=1 skipped=0 failed=1 rebuilt=false progress=2/3")
	waitForOutput(t, out, ":3: unexpected closing parenthesis")

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestWatch_IgnoresOtherFiles(t *testing.T) {
	ctx, out := testContext(t)
	ctx, cancel := context.WithCancel(ctx)

	defer cancel()

	path := writeSource(t, "(a)")

	done := make(chan error, 1)

	go func() {
		done <- (&Watch{Source: path, Debounce: 10 * time.Millisecond}).Run(ctx)
	}()

	waitForOutput(t, out, "progress=1/1")

	other := filepath.Join(filepath.Dir(path), "other.lisp")
	if err := os.WriteFile(other, []byte("(b)\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	time.Sleep(100 * time.Millisecond)

	if n := strings.Count(out.String(), "progress="); n != 1 {
		t.Errorf("expected a single report, got %d:\n%s", n, out.String())
	}

	cancel()
	<-done
}
