package names

import (
	"strings"
	"unicode"
)

// generational suffixes stripped from the end of a normalized name
var suffixes = map[string]bool{
	"jr":  true,
	"sr":  true,
	"ii":  true,
	"iii": true,
	"iv":  true,
	"v":   true,
}

// Normalize canonicalizes a display name into a comparable key: lowercased,
// punctuation stripped, whitespace collapsed, generational suffix removed.
// "Odell Beckham Jr." and "odell  beckham" normalize to the same key.
func Normalize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-':
			b.WriteRune(' ')
		}
	}

	words := strings.Fields(b.String())
	if len(words) > 1 && suffixes[words[len(words)-1]] {
		words = words[:len(words)-1]
	}
	return strings.Join(words, " ")
}

// Variants generates alternate lookup keys for a normalized name. Variants
// are advisory shortcuts for fuzzy lookup, not authoritative identities: a
// variant must never displace an existing mapping for a different player.
func Variants(normalized string) []string {
	words := strings.Fields(normalized)
	if len(words) < 2 {
		return nil
	}

	var variants []string
	first := words[0]
	last := words[len(words)-1]

	variants = append(variants, first)
	variants = append(variants, last)

	// Drop a leading nickname-style prefix ("st", "de", "van") so
	// "st brown" also keys on "brown".
	if len(words) > 2 {
		variants = append(variants, strings.Join(words[1:], " "))
	}

	return variants
}

// SyntheticID builds the deterministic fallback identity used when no
// canonical roster match exists. Same name+team always yields the same ID.
// Format: NAME_PARTS_TEAM-UNK-TEAM, e.g. "JOHN_SMITH_1_KC-UNK-KC".
func SyntheticID(name, team string) string {
	team = strings.ToUpper(strings.TrimSpace(team))
	if team == "" {
		team = "UNK"
	}

	var b strings.Builder
	for _, r := range strings.ToUpper(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-':
			b.WriteRune('_')
		}
	}

	parts := strings.FieldsFunc(b.String(), func(r rune) bool { return r == '_' })
	return strings.Join(parts, "_") + "_" + team + "-UNK-" + team
}
