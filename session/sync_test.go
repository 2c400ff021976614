package session

import (
	"context"
	"errors"
	"testing"

	"github.com/ardnew/lispfront/lang"
)

func TestSync_InitialBuild(t *testing.T) {
	s := New(nil)

	lines := []string{
		"; squares",
		"(define (square x) (* x x))",
		"",
		"(square 5)",
	}

	report, err := s.Sync(context.Background(), lines)
	if err != nil {
		t.Fatal(err)
	}

	if !report.Rebuilt || report.Processed != 2 || report.Skipped != 2 || !report.OK() {
		t.Errorf("unexpected report %+v", report)
	}

	if got := s.Tree().Lines(); len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Errorf("expected lines [1 3], got %v", got)
	}

	if !s.IsComplete() {
		t.Error("expected complete session")
	}
}

func TestSync_ReusesPrefix(t *testing.T) {
	p := &fakeParser{}
	s := New(p)

	lines := []string{"(a)", "(b)", "(c)", "(d)"}

	if _, err := s.Sync(context.Background(), lines); err != nil {
		t.Fatal(err)
	}

	p.calls = nil
	lines[3] = "(e)"

	report, err := s.Sync(context.Background(), lines)
	if err != nil {
		t.Fatal(err)
	}

	if report.Rebuilt || report.Reused != 3 || report.Processed != 1 {
		t.Errorf("unexpected report %+v", report)
	}

	if len(p.calls) != 1 || p.calls[0] != "( e )" {
		t.Errorf("expected only the edited line to be parsed, got %q", p.calls)
	}

	u, _ := s.Tree().Line(3)
	if v, _ := u.Value(); v.Text != "( e )" {
		t.Errorf("stale unit for line 3: %v", v)
	}

	if s.Tree().Len() != 4 {
		t.Errorf("expected 4 units, got %d", s.Tree().Len())
	}
}

func TestSync_RebuildsAfterEarlyEdit(t *testing.T) {
	p := &fakeParser{}
	s := New(p)

	if _, err := s.Sync(context.Background(), program); err != nil {
		t.Fatal(err)
	}

	p.calls = nil

	lines := append([]string(nil), program...)
	lines[1] = "(define x 20)"

	report, err := s.Sync(context.Background(), lines)
	if err != nil {
		t.Fatal(err)
	}

	if !report.Rebuilt || report.Processed != 3 || len(p.calls) != 3 {
		t.Errorf("expected full rebuild, got %+v with %d parses", report, len(p.calls))
	}
}

func TestSync_TruncatedProgram(t *testing.T) {
	s := New(&fakeParser{})

	lines := []string{"(a)", "(b)", "(c)", "(d)"}

	if _, err := s.Sync(context.Background(), lines); err != nil {
		t.Fatal(err)
	}

	report, err := s.Sync(context.Background(), lines[:3])
	if err != nil {
		t.Fatal(err)
	}

	if report.Reused != 3 || report.Processed != 0 {
		t.Errorf("unexpected report %+v", report)
	}

	if s.Tree().Len() != 3 {
		t.Errorf("line 3 should be gone, tree has %v", s.Tree().Lines())
	}
}

func TestSync_CollectsLineErrors(t *testing.T) {
	s := New(nil)

	lines := []string{"(a)", "(1 2)", "(b", "(c)"}

	report, err := s.Sync(context.Background(), lines)
	if err != nil {
		t.Fatal(err)
	}

	if report.OK() || len(report.Errors) != 2 || report.Processed != 2 {
		t.Fatalf("unexpected report %+v", report)
	}

	if e := report.Errors[0]; e.Line != 1 || !errors.Is(e, lang.ErrExpectedSymbolAfterOpenParen) {
		t.Errorf("unexpected first error %+v", e)
	}

	if e := report.Errors[1]; e.Line != 2 || !errors.Is(e, lang.ErrUnclosedParenthesis) {
		t.Errorf("unexpected second error %+v", e)
	}

	// Line 3 succeeded after the failures and moved the frontier past them.
	if frontier, _ := s.Progress(); frontier != 4 {
		t.Errorf("expected frontier 4, got %d", frontier)
	}
}

func TestSync_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(&fakeParser{}).Sync(ctx, program)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
