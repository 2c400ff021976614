// Package lang holds the line-level front-end of lispfront: structural
// validation of token sequences, content hashing, rendering for the
// expression parser, and the processed units and trees built from them.
//
// # Lines
//
// A program is processed one line at a time. The tokens of a line come from
// [github.com/ardnew/lispfront/lang/lexer] and pass through:
//
//   - [Validate]: parentheses must balance, and every opening parenthesis
//     must be followed by a symbol or another opening parenthesis
//   - [Render]: the tokens are joined into the text handed to a [Parser]
//   - [Hash]: a 128-bit xxh3 [Key] over every token's kind, lexeme, and
//     position, used to find the line's [Unit] in a cache
//
// # Units and trees
//
// A [Unit] owns a line's tokens, an index from "<ordinal>_<lexeme>" keys to
// tokens, and the [Value] produced by the parser. A [Tree] is an ordered,
// detached snapshot of units that can be formatted as native text, JSON, or
// YAML and filtered with expressions such as
//
//	Head == "define" && Line < 10
//
// # Errors
//
// Errors are [*Error] values derived from the package's sentinels and match
// them with [errors.Is] through any amount of wrapping.
package lang
