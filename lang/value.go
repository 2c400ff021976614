package lang

import (
	"strconv"
	"strings"
)

// Type indicates the variant of a [Value].
type Type int

const (
	// TypeSymbol represents an identifier or operator.
	TypeSymbol Type = iota

	// TypeNumber represents a numeric literal.
	TypeNumber

	// TypeString represents a string literal.
	TypeString

	// TypeBoolean represents #t or #f.
	TypeBoolean

	// TypeList represents a parenthesized sequence of values.
	TypeList
)

// String returns a string representation of the value type.
func (vt Type) String() string {
	switch vt {
	case TypeSymbol:
		return "Symbol"
	case TypeNumber:
		return "Number"
	case TypeString:
		return "String"
	case TypeBoolean:
		return "Boolean"
	case TypeList:
		return "List"
	default:
		return "Unknown"
	}
}

// Value is a parsed datum produced by a [Parser].
// Exactly one of the payload fields is meaningful, selected by Type.
type Value struct {
	Type   Type
	Text   string   // For symbols and strings
	Number float64  // For numbers
	Bool   bool     // For booleans
	List   []*Value // For lists
}

// Symbol returns a symbol value.
func Symbol(name string) *Value { return &Value{Type: TypeSymbol, Text: name} }

// Number returns a numeric value.
func Number(n float64) *Value { return &Value{Type: TypeNumber, Number: n} }

// String returns a string value.
func String(s string) *Value { return &Value{Type: TypeString, Text: s} }

// Bool returns a boolean value.
func Bool(b bool) *Value { return &Value{Type: TypeBoolean, Bool: b} }

// List returns a list of the given values.
func List(items ...*Value) *Value {
	if items == nil {
		items = []*Value{}
	}

	return &Value{Type: TypeList, List: items}
}

// Head returns the symbol name of the first element of a list, or the empty
// string if v is not a list starting with a symbol.
func (v *Value) Head() string {
	if v == nil || v.Type != TypeList || len(v.List) == 0 {
		return ""
	}

	if first := v.List[0]; first != nil && first.Type == TypeSymbol {
		return first.Text
	}

	return ""
}

// Equal reports whether v and o are structurally identical.
func (v *Value) Equal(o *Value) bool {
	if v == nil || o == nil {
		return v == o
	}

	if v.Type != o.Type {
		return false
	}

	switch v.Type {
	case TypeSymbol, TypeString:
		return v.Text == o.Text
	case TypeNumber:
		return v.Number == o.Number
	case TypeBoolean:
		return v.Bool == o.Bool
	case TypeList:
		if len(v.List) != len(o.List) {
			return false
		}

		for i := range v.List {
			if !v.List[i].Equal(o.List[i]) {
				return false
			}
		}

		return true
	}

	return false
}

// String renders the value in Lisp syntax.
func (v *Value) String() string {
	var sb strings.Builder

	v.write(&sb)

	return sb.String()
}

func (v *Value) write(sb *strings.Builder) {
	if v == nil {
		sb.WriteString("()")

		return
	}

	switch v.Type {
	case TypeSymbol:
		sb.WriteString(v.Text)
	case TypeNumber:
		sb.WriteString(strconv.FormatFloat(v.Number, 'g', -1, 64))
	case TypeString:
		sb.WriteString(strconv.Quote(v.Text))
	case TypeBoolean:
		if v.Bool {
			sb.WriteString("#t")
		} else {
			sb.WriteString("#f")
		}
	case TypeList:
		sb.WriteByte('(')

		for i, item := range v.List {
			if i > 0 {
				sb.WriteByte(' ')
			}

			item.write(sb)
		}

		sb.WriteByte(')')
	}
}

// ToAny converts the value to plain Go data for serialization: symbols and
// strings become string, numbers float64, booleans bool, and lists []any.
// Symbols are distinguished from strings by the map form
// {"symbol": name}.
func (v *Value) ToAny() any {
	if v == nil {
		return nil
	}

	switch v.Type {
	case TypeSymbol:
		return map[string]any{"symbol": v.Text}
	case TypeNumber:
		return v.Number
	case TypeString:
		return v.Text
	case TypeBoolean:
		return v.Bool
	case TypeList:
		items := make([]any, len(v.List))
		for i, item := range v.List {
			items[i] = item.ToAny()
		}

		return items
	}

	return nil
}
