package repl

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/lispfront/lang"
	"github.com/ardnew/lispfront/lang/token"
)

// ctrlCommands are the available command-mode commands.
var ctrlCommands = []string{
	"help", "tree", "progress", "invalidate", "reset", "clear", "quit",
}

// specialForms are always offered as completions in source mode.
var specialForms = []string{
	"begin", "cond", "define", "if", "lambda", "let", "quote", "set!",
}

// isWordBoundary reports whether r ends a symbol. Operators such as + and -
// are symbol characters.
func isWordBoundary(r rune) bool {
	switch r {
	case ' ', '\t', '(', ')', '\'', '"':
		return true
	}

	return false
}

// wordBounds returns the word around cursor and its byte offsets in input.
// The word is empty when the cursor sits between two boundaries.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor
	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// inString reports whether offset lies inside a string literal.
func inString(input string, offset int) bool {
	return strings.Count(input[:offset], `"`)%2 == 1
}

// symbols returns the special forms followed by every distinct symbol in
// tree, in first-seen order.
func symbols(tree *lang.Tree) []string {
	seen := make(map[string]struct{}, len(specialForms))
	names := slices.Clone(specialForms)

	for _, name := range names {
		seen[name] = struct{}{}
	}

	for u := range tree.All() {
		for _, tk := range u.Tokens() {
			if tk.Kind != token.Symbol {
				continue
			}

			if _, ok := seen[tk.Lexeme]; ok {
				continue
			}

			seen[tk.Lexeme] = struct{}{}
			names = append(names, tk.Lexeme)
		}
	}

	return names
}

// computeMatches returns fuzzy matches for the word at the cursor, best
// first, together with the word's offsets. An empty word matches nothing.
func (m model) computeMatches() (matches fuzzy.Matches, wordStart, wordEnd int) {
	input := m.input.Value()

	word, start, end := wordBounds(input, m.input.Position())
	if word == "" {
		return nil, start, end
	}

	candidates := ctrlCommands

	if m.mode == modeEval {
		if inString(input, start) {
			return nil, start, end
		}

		candidates = m.symbols
	}

	return fuzzy.Find(word, candidates), start, end
}

// renderCandidateBar builds the single-line completion bar, ellipsized to
// fit within width.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if i > 0 && i < len(matches)-1 && used+entryWidth+ellipsisWidth > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a candidate with its matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}
