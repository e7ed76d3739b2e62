package match

import (
	"fmt"
	"sort"
	"strings"

	"github.com/guidewise/guidewise/internal/guide"
	"github.com/guidewise/guidewise/internal/log"
)

// Scoring weights for the three sub-scores.
const (
	titleWeight       = 0.4
	descriptionWeight = 0.3
	keywordWeight     = 0.3

	// DefaultMinScore is the qualification threshold for FindBestMatch.
	DefaultMinScore = 0.4

	// DefaultListMinScore is the lower threshold FindMatches uses when
	// returning a ranked list instead of a single best hit.
	DefaultListMinScore = 0.3

	// DefaultLimit caps FindMatches results.
	DefaultLimit = 5
)

// Sub-score thresholds above which a component is named in the match reason.
const (
	titleReasonThreshold   = 0.2
	descReasonThreshold    = 0.15
	keywordReasonThreshold = 0.15
)

// Result is one ranked hit against the corpus. Ephemeral: created per query,
// never persisted.
type Result struct {
	Guide  guide.Guide
	Score  float64
	Reason string
}

// Matcher ranks a read-only guide corpus against free-text problem
// descriptions. The corpus is injected at construction; reload by
// constructing a new Matcher.
type Matcher struct {
	corpus []guide.Guide
	logger log.Logger
}

// New creates a Matcher over the given corpus.
func New(corpus []guide.Guide, logger log.Logger) *Matcher {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Matcher{corpus: corpus, logger: logger}
}

// scored pairs a guide with its composite score, keeping the sub-scores for
// reason assembly.
type scored struct {
	guide      guide.Guide
	total      float64
	titleScore float64
	descScore  float64
	kwScore    float64
}

func (m *Matcher) score(query string) []scored {
	out := make([]scored, 0, len(m.corpus))
	for _, g := range m.corpus {
		s := scored{
			guide:      g,
			titleScore: WordOverlap(query, g.Title) * titleWeight,
			descScore:  WordOverlap(query, g.ProblemDescription) * descriptionWeight,
			kwScore:    KeywordScore(query, g.Keywords) * keywordWeight,
		}
		s.total = s.titleScore + s.descScore + s.kwScore
		out = append(out, s)
	}
	return out
}

// FindBestMatch returns the highest-scoring guide whose composite score
// reaches minScore, or nil when no guide qualifies. Ties keep corpus order.
func (m *Matcher) FindBestMatch(query string, minScore float64) *Result {
	candidates := make([]scored, 0, len(m.corpus))
	for _, s := range m.score(query) {
		if s.total >= minScore {
			candidates = append(candidates, s)
		}
	}
	if len(candidates) == 0 {
		m.logger.Debug("no guide qualified", "query", query, "min_score", minScore)
		return nil
	}

	// Stable: equal scores preserve corpus order.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].total > candidates[j].total
	})

	best := candidates[0]
	m.logger.Debug("best match found",
		"query", query, "guide_id", best.guide.ID, "score", best.total)

	return &Result{
		Guide:  best.guide,
		Score:  best.total,
		Reason: matchReason(best),
	}
}

// FindMatches returns up to limit guides scoring at least minScore, sorted
// descending. The reason is a rounded percentage for display in pick lists.
func (m *Matcher) FindMatches(query string, limit int, minScore float64) []Result {
	if limit <= 0 {
		limit = DefaultLimit
	}

	candidates := make([]scored, 0, len(m.corpus))
	for _, s := range m.score(query) {
		if s.total >= minScore {
			candidates = append(candidates, s)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].total > candidates[j].total
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	results := make([]Result, 0, len(candidates))
	for _, s := range candidates {
		results = append(results, Result{
			Guide:  s.guide,
			Score:  s.total,
			Reason: fmt.Sprintf("%d%% match", int(s.total*100+0.5)),
		})
	}
	return results
}

// matchReason names the sub-scores that individually carried the match,
// falling back to "general match" when none stands out on its own.
func matchReason(s scored) string {
	var parts []string
	if s.titleScore > titleReasonThreshold {
		parts = append(parts, "title similarity")
	}
	if s.descScore > descReasonThreshold {
		parts = append(parts, "description similarity")
	}
	if s.kwScore > keywordReasonThreshold {
		parts = append(parts, "keyword match")
	}
	if len(parts) == 0 {
		return "general match"
	}
	return strings.Join(parts, ", ")
}
