package lang

import (
	"slices"
	"strconv"

	"github.com/ardnew/lispfront/lang/token"
)

// Unit is the processed form of one source line: its tokens, the line they
// came from, and the value parsed from them.
//
// A Unit is immutable once built except for [Unit.SetValue], which attaches
// a parsed value after the fact.
type Unit struct {
	tokens []token.Token
	index  map[string]int // IndexKey(ordinal, lexeme) -> ordinal
	value  *Value
	line   int
}

// IndexKey returns the lookup key of the token at ordinal position i with
// the given lexeme.
func IndexKey(i int, lexeme string) string {
	return strconv.Itoa(i) + "_" + lexeme
}

// NewUnit builds a unit for the tokens of the given source line. The value
// may be nil and attached later.
func NewUnit(tokens []token.Token, line int, value *Value) *Unit {
	u := &Unit{
		tokens: slices.Clone(tokens),
		index:  make(map[string]int, len(tokens)),
		value:  value,
		line:   line,
	}

	for i, t := range u.tokens {
		u.index[IndexKey(i, t.Lexeme)] = i
	}

	return u
}

// Line returns the source line the unit was built from.
func (u *Unit) Line() int { return u.line }

// Len returns the number of tokens in the unit.
func (u *Unit) Len() int { return len(u.tokens) }

// Tokens returns a copy of the unit's tokens.
func (u *Unit) Tokens() []token.Token { return slices.Clone(u.tokens) }

// Token returns the token registered under key (see [IndexKey]).
func (u *Unit) Token(key string) (token.Token, bool) {
	i, ok := u.index[key]
	if !ok {
		return token.Token{}, false
	}

	return u.tokens[i], true
}

// TokenAt returns the token at ordinal position i.
func (u *Unit) TokenAt(i int) (token.Token, bool) {
	if i < 0 || i >= len(u.tokens) {
		return token.Token{}, false
	}

	return u.tokens[i], true
}

// Value returns the parsed value, if one has been attached.
func (u *Unit) Value() (*Value, bool) {
	return u.value, u.value != nil
}

// SetValue attaches a parsed value to the unit.
func (u *Unit) SetValue(v *Value) { u.value = v }

// Key returns the content key of the unit's tokens.
func (u *Unit) Key() Key { return Hash(u.tokens) }

// Text returns the rendered form of the unit's tokens.
func (u *Unit) Text() string { return Render(u.tokens) }

// clone returns a shallow copy of u. Tokens and the index are never
// mutated after construction and are shared.
func (u *Unit) clone() *Unit {
	c := *u

	return &c
}
