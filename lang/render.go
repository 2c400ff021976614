package lang

import (
	"strings"

	"github.com/ardnew/lispfront/lang/token"
)

// Render linearizes tokens into the text handed to a [Parser].
//
// Tokens are joined by single spaces. Parentheses and the quote mark render
// as themselves; symbols, numbers, and booleans render their lexeme
// verbatim; strings render their lexeme between double quotes with no
// escaping. End-of-input and error tokens contribute nothing.
func Render(tokens []token.Token) string {
	var sb strings.Builder

	for _, t := range tokens {
		var text string

		switch t.Kind {
		case token.OpenParen:
			text = "("
		case token.CloseParen:
			text = ")"
		case token.Quote:
			text = "'"
		case token.Symbol, token.Number, token.Boolean:
			text = t.Lexeme
		case token.String:
			text = `"` + t.Lexeme + `"`
		default:
			continue
		}

		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}

		sb.WriteString(text)
	}

	return sb.String()
}
