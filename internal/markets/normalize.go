package markets

import (
	"strings"
	"unicode"
)

// NormalizeMarketType resolves a raw market identifier to its canonical
// display label. Resolution order: exact alias lookup, snake_case rendering,
// camelCase rendering, then a plain Title Case fallback. The function is pure
// and never fails; an unknown market only degrades label quality.
func NormalizeMarketType(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "Unknown Market"
	}

	if label, ok := CanonicalLabel(raw); ok {
		return label
	}

	snake := snakeToTitle(raw)
	if label, ok := CanonicalLabel(snake); ok {
		return label
	}

	spaced := camelToSpaced(raw)
	if label, ok := CanonicalLabel(spaced); ok {
		return label
	}

	return titleCase(strings.ReplaceAll(camelToSpaced(raw), "_", " "))
}

// snakeToTitle renders "passing_yards" as "Passing Yards"
func snakeToTitle(s string) string {
	return titleCase(strings.ReplaceAll(s, "_", " "))
}

// camelToSpaced splits "passingYards" into "passing Yards"
func camelToSpaced(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	runes := []rune(s)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) && unicode.IsLower(runes[i-1]) {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// titleCase upper-cases the first letter of each space-separated word
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	if len(words) == 0 {
		return "Unknown Market"
	}
	return strings.Join(words, " ")
}

// PriorityRank returns the index of a canonical label in the league priority
// list, or len(priority) when the label is unranked. Unranked markets sort
// after all ranked ones.
func PriorityRank(priority []string, label string) int {
	for i, p := range priority {
		if strings.EqualFold(p, label) {
			return i
		}
	}
	return len(priority)
}
