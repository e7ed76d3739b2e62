package match

import "strings"

// WordOverlap scores how much of the query's significant vocabulary appears
// in text. Query tokens shorter than three characters are ignored; text
// tokens are not filtered. A query token counts as present when it equals a
// text token or either contains the other, so "fix" still matches "fixing".
// Returns matched/|query tokens| in [0, 1], or 0 when the query has no
// significant tokens.
//
// The score is deliberately directional (query-relative), not a symmetric
// Jaccard index: WordOverlap(a, b) and WordOverlap(b, a) differ. The matcher
// and the deduplicator both rely on that asymmetry.
func WordOverlap(query, text string) float64 {
	queryTokens := significantTokens(query)
	if len(queryTokens) == 0 {
		return 0
	}

	textTokens := tokens(text)
	matched := 0
	for tok := range queryTokens {
		if containsToken(textTokens, tok) {
			matched++
		}
	}

	return float64(matched) / float64(len(queryTokens))
}

// containsToken reports whether tok loosely matches any of the text tokens.
func containsToken(textTokens []string, tok string) bool {
	for _, tw := range textTokens {
		if strings.Contains(tw, tok) || strings.Contains(tok, tw) {
			return true
		}
	}
	return false
}

// KeywordScore scores how many of a guide's keywords are contained in the
// query. Each keyword is normalized and tested for substring containment in
// the normalized query, so "wifi" matches a query mentioning "wifi router".
// Returns matches/|keywords| in [0, 1], or 0 for an empty keyword list.
func KeywordScore(query string, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}

	normalizedQuery := Normalize(query)
	matched := 0
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if normalized := Normalize(kw); normalized != "" && strings.Contains(normalizedQuery, normalized) {
			matched++
		}
	}

	return float64(matched) / float64(len(keywords))
}
