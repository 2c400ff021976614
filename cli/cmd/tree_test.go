package cmd

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/lispfront/lang"
)

var treeProgram = []string{
	"(define x 10)",
	"",
	"(+ x 1)",
	")",
	"(define y 2)",
}

func TestTree_Native(t *testing.T) {
	ctx, out := testContext(t)
	path := writeSource(t, treeProgram...)

	if err := (&Tree{Source: path, Format: "native"}).Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := "0\t(define x 10)\n2\t(+ x 1)\n4\t(define y 2)\n"
	if out.String() != want {
		t.Errorf("expected %q, got %q", want, out.String())
	}
}

func TestTree_JSONWhere(t *testing.T) {
	ctx, out := testContext(t)
	path := writeSource(t, treeProgram...)

	cmd := &Tree{Source: path, Format: "json", Where: `Head == "define"`}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var units []map[string]any
	if err := json.Unmarshal([]byte(out.String()), &units); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out.String())
	}

	if len(units) != 2 {
		t.Fatalf("expected 2 definitions, got %d", len(units))
	}

	if units[1]["line"] != float64(4) {
		t.Errorf("expected second definition on line 4, got %v", units[1]["line"])
	}
}

func TestTree_YAML(t *testing.T) {
	ctx, out := testContext(t)
	path := writeSource(t, "(f 1)")

	if err := (&Tree{Source: path, Format: "yaml", Indent: 2}).Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !strings.Contains(out.String(), "line: 0") {
		t.Errorf("unexpected YAML %s", out.String())
	}
}

func TestTree_Errors(t *testing.T) {
	ctx, _ := testContext(t)
	path := writeSource(t, "(f)")

	if err := (&Tree{Source: path, Where: "Line +"}).Run(ctx); !errors.Is(err, lang.ErrFilter) {
		t.Errorf("expected ErrFilter, got %v", err)
	}

	if err := (&Tree{Source: path, Format: "xml"}).Run(ctx); !errors.Is(err, ErrFormat) {
		t.Errorf("expected ErrFormat, got %v", err)
	}
}
