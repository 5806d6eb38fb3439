package repl

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/exparse/calc/token"
)

// isWordRune reports whether r can appear in an identifier or command name.
func isWordRune(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' ||
		'0' <= r && r <= '9' || r == '_'
}

// wordBounds returns the word under the cursor and its byte boundaries
// within input. Returns an empty word when the cursor sits on a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !isWordRune(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if !isWordRune(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// isCommandWord reports whether the word starting at wordStart is the name of
// a REPL command, i.e. it directly follows a leading ":".
func isCommandWord(input string, wordStart int) bool {
	return strings.TrimSpace(input[:wordStart]) == commandPrefix
}

// letNames returns the names bound by let expressions in input, so that a
// body can complete the name its let introduced.
func letNames(input string) []string {
	var names []string

	fields := strings.FieldsFunc(input, func(r rune) bool { return !isWordRune(r) })

	for i := 0; i+1 < len(fields); i++ {
		if fields[i] == token.Let {
			names = append(names, fields[i+1])
		}
	}

	return names
}

// candidates returns the completions available for the word at wordStart.
func (m model) candidates(input string, wordStart int) []string {
	if isCommandWord(input, wordStart) {
		return commands
	}

	names := append(m.session.names(), letNames(input)...)
	names = append(names, token.Let)

	slices.Sort(names)

	return slices.Compact(names)
}

// computeMatches returns the fuzzy matches for the word under the cursor,
// ranked best-first, along with the word boundaries. An empty word yields no
// matches so the hint line stays visible.
func (m model) computeMatches() (matches fuzzy.Matches, wordStart, wordEnd int) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())
	if word == "" {
		return nil, wordStart, wordEnd
	}

	candidates := m.candidates(input, wordStart)

	// A word that is already complete and unique needs no suggestion.
	matches = fuzzy.Find(word, candidates)
	if len(matches) == 1 && matches[0].Str == word {
		return nil, wordStart, wordEnd
	}

	return matches, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. The selected candidate (when tabbing) uses
// the selected style.
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

		last := i == len(matches)-1

		reserve := ellipsisWidth
		if last {
			reserve = 0
		}

		if i > 0 && used+entryWidth+reserve > width {
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

// renderCandidate renders a single candidate with matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	baseStyle := suggestionStyle
	highlightStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("4")).
		Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4")).
			Bold(true)
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteString(baseStyle.Render(string(r)))
		}
	}

	return b.String()
}
