package lang

import "context"

// Parser turns the rendered text of a validated line (see [Render]) into a
// [Value].
//
// Implementations live outside this package; package sexpr provides the
// default one.
type Parser interface {
	Parse(ctx context.Context, text string) (*Value, error)
}

// ParserFunc adapts an ordinary function to the [Parser] interface.
type ParserFunc func(ctx context.Context, text string) (*Value, error)

// Parse calls f(ctx, text).
func (f ParserFunc) Parse(ctx context.Context, text string) (*Value, error) {
	return f(ctx, text)
}
