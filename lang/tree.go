package lang

import (
	"cmp"
	"iter"
	"slices"
	"strconv"

	"github.com/ardnew/lispfront/lang/token"
)

// Tree is an ordered snapshot of processed units, one per source line,
// sorted by line.
//
// A Tree is detached from wherever its units came from: it holds its own
// copies, so later changes to a cache or to the original units are not
// visible through it.
type Tree struct {
	units []*Unit
	index map[string]int // "line_<n>" -> position in units
}

// NewTree returns a tree of the given units sorted by line. When several
// units share a line, the first one in input order is kept.
func NewTree(units ...*Unit) *Tree {
	sorted := make([]*Unit, 0, len(units))

	for _, u := range units {
		if u != nil {
			sorted = append(sorted, u.clone())
		}
	}

	slices.SortStableFunc(sorted, func(a, b *Unit) int {
		return cmp.Compare(a.line, b.line)
	})

	t := &Tree{
		units: make([]*Unit, 0, len(sorted)),
		index: make(map[string]int, len(sorted)),
	}

	for _, u := range sorted {
		key := lineKey(u.line)
		if _, dup := t.index[key]; dup {
			continue
		}

		t.index[key] = len(t.units)
		t.units = append(t.units, u)
	}

	return t
}

func lineKey(line int) string {
	return "line_" + strconv.Itoa(line)
}

// Len returns the number of units in the tree.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}

	return len(t.units)
}

// IsEmpty reports whether the tree has no units.
func (t *Tree) IsEmpty() bool { return t.Len() == 0 }

// At returns the unit at position i.
func (t *Tree) At(i int) (*Unit, bool) {
	if i < 0 || i >= t.Len() {
		return nil, false
	}

	return t.units[i], true
}

// Line returns the unit built from source line n.
func (t *Tree) Line(n int) (*Unit, bool) {
	if t == nil {
		return nil, false
	}

	i, ok := t.index[lineKey(n)]
	if !ok {
		return nil, false
	}

	return t.units[i], true
}

// Token returns the token registered under tokenKey in the unit for line n.
func (t *Tree) Token(n int, tokenKey string) (token.Token, bool) {
	u, ok := t.Line(n)
	if !ok {
		return token.Token{}, false
	}

	return u.Token(tokenKey)
}

// Lines returns the source lines present in the tree, ascending.
func (t *Tree) Lines() []int {
	lines := make([]int, 0, t.Len())

	for u := range t.All() {
		lines = append(lines, u.line)
	}

	return lines
}

// All returns an iterator over the units in line order.
func (t *Tree) All() iter.Seq[*Unit] {
	return func(yield func(*Unit) bool) {
		if t == nil {
			return
		}

		for _, u := range t.units {
			if !yield(u) {
				return
			}
		}
	}
}
