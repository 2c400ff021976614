package cmd

import (
	"errors"
	"strings"
	"testing"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		lines   []string
		wantErr bool
		want    []string
	}{
		{
			name:  "valid",
			lines: []string{"(define x 10)", "; note", "(+ x 1)"},
			want:  []string{"2 lines ok"},
		},
		{
			name:    "lone close",
			lines:   []string{"(a)", ")"},
			wantErr: true,
			want:    []string{":2: unexpected closing parenthesis at line 1, column 0"},
		},
		{
			name:    "shape and unclosed",
			lines:   []string{"(1 2)", "(f"},
			wantErr: true,
			want: []string{
				":1: expected symbol after opening parenthesis",
				":2: unclosed parenthesis",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out := testContext(t)
			path := writeSource(t, tt.lines...)

			err := (&Check{Source: path}).Run(ctx)
			if tt.wantErr != errors.Is(err, ErrCheckFailed) {
				t.Fatalf("wantErr %v, got %v", tt.wantErr, err)
			}

			for _, w := range tt.want {
				if !strings.Contains(out.String(), w) {
					t.Errorf("expected output to contain %q, got:\n%s", w, out.String())
				}
			}
		})
	}
}

func TestCheck_Quiet(t *testing.T) {
	ctx, out := testContext(t)
	path := writeSource(t, ")")

	if err := (&Check{Source: path, Quiet: true}).Run(ctx); !errors.Is(err, ErrCheckFailed) {
		t.Fatalf("expected ErrCheckFailed, got %v", err)
	}

	if out.String() != "" {
		t.Errorf("expected no output, got %q", out.String())
	}
}
