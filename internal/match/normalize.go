// Package match implements the fuzzy-text matching engine shared by the
// query path (ranking the corpus against a user problem description) and the
// discovery pipeline (duplicate detection).
package match

import (
	"strings"
	"unicode"
)

// Normalize canonicalizes text for comparison: lowercase, strip every rune
// that is not a letter, digit, or whitespace, collapse whitespace runs to a
// single space, and trim. Idempotent.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	lastSpace := true // leading whitespace collapses to nothing
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r):
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}

	return strings.TrimRight(b.String(), " ")
}

// tokens splits normalized text into its words.
func tokens(text string) []string {
	return strings.Fields(Normalize(text))
}

// significantTokens builds the set of normalized query tokens longer than
// two characters. Short function words carry no matching signal.
func significantTokens(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range tokens(text) {
		if len(tok) > 2 {
			set[tok] = struct{}{}
		}
	}
	return set
}
