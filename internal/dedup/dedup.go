// Package dedup decides whether a generated draft duplicates a guide that
// already exists, so near-identical guides never enter the review queue
// twice.
package dedup

import (
	"github.com/guidewise/guidewise/internal/guide"
	"github.com/guidewise/guidewise/internal/log"
	"github.com/guidewise/guidewise/internal/match"
)

// Duplicate trigger thresholds.
const (
	// titleSimilarityThreshold: candidate title overlap with an existing
	// title above this is a duplicate on its own.
	titleSimilarityThreshold = 0.7

	// minCommonKeywords: this many exact keyword matches flags a duplicate
	// even when the titles diverge.
	minCommonKeywords = 3
)

// Reason explains which rule flagged the duplicate.
type Reason string

const (
	// ReasonNone means the candidate is not a duplicate.
	ReasonNone Reason = ""

	// ReasonTitle means the candidate title overlaps an existing title.
	ReasonTitle Reason = "title similarity"

	// ReasonKeywords means the candidate shares enough keywords with an
	// existing guide.
	ReasonKeywords Reason = "keyword overlap"
)

// Detector checks candidates against a reference set of existing guides.
type Detector struct {
	logger log.Logger
}

// New creates a Detector.
func New(logger log.Logger) *Detector {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Detector{logger: logger}
}

// IsDuplicate reports whether a candidate guide duplicates any of the
// existing guides, and the rule that fired. The caller is responsible for
// passing the full reference set: the persisted corpus plus any drafts
// already accepted earlier in the same discovery cycle, otherwise one cycle
// can queue the same guide twice.
//
// Short-circuits on the first existing guide that triggers either rule.
func (d *Detector) IsDuplicate(title string, keywords []string, existing []guide.Guide) (bool, Reason) {
	for _, g := range existing {
		if sim := match.WordOverlap(title, g.Title); sim > titleSimilarityThreshold {
			d.logger.Debug("duplicate by title",
				"candidate", title, "existing", g.Title, "similarity", sim)
			return true, ReasonTitle
		}

		if n := commonKeywords(keywords, g.Keywords); n >= minCommonKeywords {
			d.logger.Debug("duplicate by keywords",
				"candidate", title, "existing", g.Title, "common", n)
			return true, ReasonKeywords
		}
	}
	return false, ReasonNone
}

// commonKeywords counts candidate keywords whose normalized form exactly
// equals some existing keyword's normalized form.
func commonKeywords(candidate, existing []string) int {
	if len(candidate) == 0 || len(existing) == 0 {
		return 0
	}

	existingSet := make(map[string]struct{}, len(existing))
	for _, kw := range existing {
		if n := match.Normalize(kw); n != "" {
			existingSet[n] = struct{}{}
		}
	}

	count := 0
	for _, kw := range candidate {
		if _, ok := existingSet[match.Normalize(kw)]; ok {
			count++
		}
	}
	return count
}
