package sexpr

import (
	"unicode"

	"github.com/db47h/lex"
)

const (
	tokEOF lex.Token = iota
	tokOpen
	tokClose
	tokQuote
	tokString
	tokAtom
)

func tokenName(t lex.Token) string {
	switch t {
	case tokEOF:
		return "end of input"
	case tokOpen:
		return "'('"
	case tokClose:
		return "')'"
	case tokQuote:
		return "quote"
	case tokString:
		return "string"
	case tokAtom:
		return "atom"
	case lex.Error:
		return "error"
	}

	return "unknown"
}

// delimiter reports whether r ends an atom.
func delimiter(r rune) bool {
	return r == lex.EOF || r == '(' || r == ')' || r == '"' || r == '\'' ||
		unicode.IsSpace(r)
}

func lexAny(s *lex.State) lex.StateFn {
	r := s.Next()
	pos := s.Pos()

	switch {
	case r == lex.EOF:
		s.Emit(pos, tokEOF, nil)

		return nil

	case unicode.IsSpace(r):
		return nil

	case r == '(':
		s.Emit(pos, tokOpen, nil)

		return nil

	case r == ')':
		s.Emit(pos, tokClose, nil)

		return nil

	case r == '\'':
		s.Emit(pos, tokQuote, nil)

		return nil

	case r == '"':
		s.StartToken(pos)

		return lexString
	}

	s.StartToken(pos)

	return lexAtom
}

// lexString reads the raw text up to the closing double quote. Rendered
// text never carries escapes, so none are interpreted.
func lexString(s *lex.State) lex.StateFn {
	var buf []rune

	for {
		switch r := s.Next(); r {
		case lex.EOF:
			s.Errorf(s.TokenPos(), "unterminated string")

			return nil

		case '"':
			s.Emit(s.TokenPos(), tokString, string(buf))

			return nil

		default:
			buf = append(buf, r)
		}
	}
}

func lexAtom(s *lex.State) lex.StateFn {
	buf := []rune{s.Current()}

	for r := s.Next(); !delimiter(r); r = s.Next() {
		buf = append(buf, r)
	}

	s.Backup()
	s.Emit(s.TokenPos(), tokAtom, string(buf))

	return nil
}
