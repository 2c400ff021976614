package lang

import (
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// UnitEnv is the environment a filter expression is evaluated against, once
// per unit.
type UnitEnv struct {
	Line   int    `expr:"Line"`
	Tokens int    `expr:"Tokens"`
	Head   string `expr:"Head"` // first symbol of a list value
	Kind   string `expr:"Kind"` // value type name, empty when unparsed
	Text   string `expr:"Text"` // rendered tokens
}

func makeUnitEnv(u *Unit) UnitEnv {
	env := UnitEnv{
		Line:   u.line,
		Tokens: u.Len(),
		Text:   u.Text(),
	}

	if v, ok := u.Value(); ok {
		env.Head = v.Head()
		env.Kind = v.Type.String()
	}

	return env
}

// Filter is a compiled boolean expression over [UnitEnv].
type Filter struct {
	source  string
	program *vm.Program
}

// CompileFilter compiles an expr-lang expression such as
//
//	Line >= 2 && Head == "define"
//
// into a [Filter].
func CompileFilter(source string) (*Filter, error) {
	program, err := expr.Compile(source, expr.Env(UnitEnv{}), expr.AsBool())
	if err != nil {
		return nil, ErrFilter.Wrap(err).With(slog.String("filter", source))
	}

	return &Filter{source: source, program: program}, nil
}

// Match reports whether u satisfies the filter.
func (f *Filter) Match(u *Unit) (bool, error) {
	out, err := expr.Run(f.program, makeUnitEnv(u))
	if err != nil {
		return false, ErrFilter.Wrap(err).With(
			slog.String("filter", f.source),
			slog.Int("line", u.line),
		)
	}

	ok, _ := out.(bool)

	return ok, nil
}

// String returns the filter's source expression.
func (f *Filter) String() string { return f.source }

// Filter returns a new tree holding the units that satisfy f.
func (t *Tree) Filter(f *Filter) (*Tree, error) {
	var keep []*Unit

	for u := range t.All() {
		ok, err := f.Match(u)
		if err != nil {
			return nil, err
		}

		if ok {
			keep = append(keep, u)
		}
	}

	return NewTree(keep...), nil
}
