package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
//
// Errors returned by this package are derived from these sentinels with
// [Error.Wrap], [Error.With], and [Error.WithPosition], and remain matchable
// with [errors.Is].
var (
	ErrUnexpectedClosingParen       = NewError("unexpected closing parenthesis")
	ErrUnclosedParenthesis          = NewError("unclosed parenthesis")
	ErrExpectedSymbolAfterOpenParen = NewError("expected symbol after opening parenthesis")
	ErrInvalidToken                 = NewError("invalid token")
	ErrParse                        = NewError("parse error")
	ErrInvalidNumber                = NewError("invalid number format")
	ErrReadInput                    = NewError("failed to read input")
	ErrFilter                       = NewError("invalid filter expression")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg    string
	err    error       // Wrapped error (for errors.Unwrap)
	attrs  []slog.Attr // Attributes for structured logging
	line   int
	column int
	hasPos bool
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg> at line L, column C: <err>"
	//   2. "<msg>: <err>"
	//   3. "<msg>"
	//   4. "<err>"
	part := make([]string, 0, 2)

	if e.msg != "" {
		msg := e.msg
		if e.hasPos {
			msg += " at line " + strconv.Itoa(e.line) +
				", column " + strconv.Itoa(e.column)
		}

		part = append(part, msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an *Error with the same base message, so that
// errors derived from a sentinel match it.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.msg == "" {
		return false
	}

	return t.msg == e.msg
}

// Position returns the source position attached with [Error.WithPosition].
func (e *Error) Position() (line, column int, ok bool) {
	return e.line, e.column, e.hasPos
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+4)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.hasPos {
		attrs = append(attrs,
			slog.Int("line", e.line),
			slog.Int("column", e.column),
		)
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	c := *e
	c.err = err

	return &c
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	c := *e
	c.attrs = newAttrs

	return &c
}

// WithPosition returns a copy of the error located at the given line and
// column.
func (e *Error) WithPosition(line, column int) *Error {
	c := *e
	c.line, c.column, c.hasPos = line, column, true

	return &c
}
