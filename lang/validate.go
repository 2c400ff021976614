package lang

import (
	"github.com/ardnew/lispfront/lang/token"
)

// Validate checks that tokens are structurally well formed.
//
// Parentheses must balance: a closing parenthesis with no open partner fails
// with [ErrUnexpectedClosingParen] at that token's position, and a sequence
// left open fails with [ErrUnclosedParenthesis]. Only a balanced sequence is
// then checked for shape: every opening parenthesis that is not the last
// token must be followed by a symbol or another opening parenthesis, else
// [ErrExpectedSymbolAfterOpenParen].
//
// Error tokens are not inspected.
func Validate(tokens []token.Token) error {
	if err := checkBalance(tokens); err != nil {
		return err
	}

	return checkShape(tokens)
}

func checkBalance(tokens []token.Token) error {
	depth := 0

	for _, t := range tokens {
		switch t.Kind {
		case token.OpenParen:
			depth++

		case token.CloseParen:
			if depth == 0 {
				return ErrUnexpectedClosingParen.WithPosition(t.Line, t.Column)
			}

			depth--
		}
	}

	if depth > 0 {
		return ErrUnclosedParenthesis
	}

	return nil
}

func checkShape(tokens []token.Token) error {
	for i := 0; i+1 < len(tokens); i++ {
		if tokens[i].Kind != token.OpenParen {
			continue
		}

		switch next := tokens[i+1]; next.Kind {
		case token.Symbol, token.OpenParen:
		default:
			return ErrExpectedSymbolAfterOpenParen.WithPosition(
				next.Line, next.Column,
			)
		}
	}

	return nil
}
