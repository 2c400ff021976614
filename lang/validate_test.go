package lang

import (
	"errors"
	"testing"

	"github.com/ardnew/lispfront/lang/lexer"
	"github.com/ardnew/lispfront/lang/token"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"simple call", "(+ 1 2)", nil},
		{"nested", "(+ x (* 3 4))", nil},
		{"list head is list", "((lambda (x) x) 1)", nil},
		{"bare atom", "42", nil},
		{"empty line", "", nil},
		{"quoted symbol", "'abc", nil},
		{"lone close", ")", ErrUnexpectedClosingParen},
		{"close before open", ") (", ErrUnexpectedClosingParen},
		{"extra close", "(a))", ErrUnexpectedClosingParen},
		{"unclosed", "(a (b)", ErrUnclosedParenthesis},
		{"number after open", "(1 2)", ErrExpectedSymbolAfterOpenParen},
		{"string after open", `("s")`, ErrExpectedSymbolAfterOpenParen},
		{"empty list", "()", ErrExpectedSymbolAfterOpenParen},
		{"quote after open", "('a)", ErrExpectedSymbolAfterOpenParen},
		{"nested shape violation", "(f (#t))", ErrExpectedSymbolAfterOpenParen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(lexer.Tokenize(tt.input))

			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected success, got %v", err)
				}

				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidate_LoneCloseParenPosition(t *testing.T) {
	err := Validate(lexer.Tokenize(")"))

	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *Error, got %T", err)
	}

	line, column, ok := e.Position()
	if !ok {
		t.Fatal("expected position on unexpected closing parenthesis")
	}

	if line != 0 || column != 0 {
		t.Errorf("expected 0:0, got %d:%d", line, column)
	}

	want := "unexpected closing parenthesis at line 0, column 0"
	if e.Error() != want {
		t.Errorf("expected %q, got %q", want, e.Error())
	}
}

func TestValidate_UnclosedHasNoPosition(t *testing.T) {
	err := Validate(lexer.Tokenize("(a"))

	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *Error, got %T", err)
	}

	if _, _, ok := e.Position(); ok {
		t.Error("unclosed parenthesis must not carry a position")
	}
}

// Balance is always checked first: an unbalanced sequence that also breaks
// the shape rule reports the balance failure.
func TestValidate_BalanceBeforeShape(t *testing.T) {
	err := Validate(lexer.Tokenize("(1"))
	if !errors.Is(err, ErrUnclosedParenthesis) {
		t.Fatalf("expected unclosed parenthesis, got %v", err)
	}
}

// For balanced sequences, Validate succeeds exactly when the shape rule
// holds.
func TestValidate_BalancedIffShape(t *testing.T) {
	kinds := []token.Kind{
		token.Symbol, token.Number, token.String, token.Boolean,
		token.Quote, token.OpenParen, token.CloseParen,
	}

	for _, first := range kinds {
		for _, second := range kinds {
			seq := []token.Token{
				token.Make(token.OpenParen, "(", 0, 0),
				token.Make(first, "a", 0, 1),
				token.Make(second, "b", 0, 2),
				token.Make(token.CloseParen, ")", 0, 3),
			}
			seq = append(seq, token.Make(token.EOF, "", 0, 4))

			if checkBalance(seq) != nil {
				continue
			}

			shapeOK := true

			for i := 0; i+1 < len(seq); i++ {
				if seq[i].Kind == token.OpenParen &&
					seq[i+1].Kind != token.Symbol &&
					seq[i+1].Kind != token.OpenParen {
					shapeOK = false
				}
			}

			err := Validate(seq)
			if shapeOK != (err == nil) {
				t.Errorf("(%v %v): shape=%v but Validate returned %v",
					first, second, shapeOK, err)
			}
		}
	}
}
