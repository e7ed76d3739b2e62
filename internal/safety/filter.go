// Package safety rejects candidate content containing disallowed terms
// before it reaches the generator, and re-checks generator output before it
// can enter the review queue.
package safety

import (
	"fmt"
	"strings"

	"github.com/coregx/ahocorasick"

	"github.com/guidewise/guidewise/internal/log"
)

// defaultDenylist holds the fixed set of terms that disqualify a candidate.
// Matching is case-insensitive substring, anywhere in the text.
var defaultDenylist = []string{
	"bypass activation lock",
	"bypass icloud",
	"bypass frp",
	"crack password",
	"crack wifi password",
	"keylogger",
	"jailbreak detection bypass",
	"pirated",
	"warez",
	"serial keygen",
	"license key generator",
	"ddos",
	"botnet",
	"ransomware",
	"spyware install",
	"stalkerware",
	"sim swap attack",
	"steal credentials",
	"phishing kit",
	"carding",
	"exploit kit",
}

// Filter screens text against the denylist. All patterns are compiled into a
// single Aho-Corasick automaton, so screening stays one linear scan no matter
// how many terms the list grows to.
type Filter struct {
	automaton *ahocorasick.Automaton
	logger    log.Logger
}

// New creates a Filter over the built-in denylist plus any extra terms from
// configuration. Extra terms are matched with the same case-insensitive
// substring semantics.
func New(extraTerms []string, logger log.Logger) (*Filter, error) {
	if logger == nil {
		logger = log.NewNop()
	}

	patterns := make([]string, 0, len(defaultDenylist)+len(extraTerms))
	for _, term := range defaultDenylist {
		patterns = append(patterns, strings.ToLower(term))
	}
	for _, term := range extraTerms {
		if term = strings.ToLower(strings.TrimSpace(term)); term != "" {
			patterns = append(patterns, term)
		}
	}

	automaton, err := ahocorasick.NewBuilder().
		AddStrings(patterns).
		SetMatchKind(ahocorasick.LeftmostLongest).
		SetPrefilter(true).
		Build()
	if err != nil {
		return nil, fmt.Errorf("compiling denylist: %w", err)
	}

	return &Filter{automaton: automaton, logger: logger}, nil
}

// IsSafe reports whether text contains no denylisted term. The rejected
// content body is never logged, only the fact of a rejection.
func (f *Filter) IsSafe(text string) bool {
	if text == "" {
		return true
	}

	haystack := []byte(strings.ToLower(text))
	if matches := f.automaton.FindAllOverlapping(haystack); len(matches) > 0 {
		f.logger.Debug("candidate rejected by safety filter")
		return false
	}
	return true
}
