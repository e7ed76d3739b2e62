// Package discovery runs the guide discovery pipeline: sample a
// troubleshooting topic, search the web, screen the results, generate draft
// guides, reject duplicates, and queue what survives for human review.
//
// The pipeline is strictly sequential and failure-tolerant: any single
// candidate failing at any stage is dropped and logged, never fatal to the
// cycle. A cycle with nothing to queue is a normal outcome.
package discovery

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"golang.org/x/time/rate"

	"github.com/guidewise/guidewise/internal/dedup"
	"github.com/guidewise/guidewise/internal/generate"
	"github.com/guidewise/guidewise/internal/guide"
	"github.com/guidewise/guidewise/internal/log"
	"github.com/guidewise/guidewise/internal/search"
)

// SearchProvider finds candidate pages for one query.
type SearchProvider interface {
	Search(ctx context.Context, query string) ([]search.Candidate, error)
}

// Generator writes a draft guide from one candidate page.
type Generator interface {
	Generate(ctx context.Context, candidate search.Candidate, feedback []generate.Feedback) (*guide.Draft, error)
}

// SafetyFilter screens text for disallowed terms.
type SafetyFilter interface {
	IsSafe(text string) bool
}

// CorpusReader loads the published guides.
type CorpusReader interface {
	Load() []guide.Guide
}

// PendingQueue is the draft review queue.
type PendingQueue interface {
	Load() []guide.Draft
	Append(drafts []guide.Draft) error
}

// TermPicker selects one entry from a pool. The production picker is
// uniformly random; tests substitute a deterministic one.
type TermPicker interface {
	Pick(pool []string) string
}

// RandomPicker picks uniformly at random.
type RandomPicker struct{}

// Pick returns a random element, or "" for an empty pool.
func (RandomPicker) Pick(pool []string) string {
	if len(pool) == 0 {
		return ""
	}
	return pool[rand.IntN(len(pool))]
}

// Options wires the orchestrator's collaborators and tuning.
type Options struct {
	Primary   SearchProvider
	Fallback  SearchProvider // optional, tried only when Primary yields nothing
	Generator Generator
	Filter    SafetyFilter
	Corpus    CorpusReader
	Pending   PendingQueue
	Picker    TermPicker

	Topics    []string
	SiteHints []string

	BatchSize         int
	QueryDelay        time.Duration
	GenerationTimeout time.Duration
	CycleInterval     time.Duration

	Logger log.Logger
}

// Orchestrator drives discovery cycles.
type Orchestrator struct {
	opts     Options
	detector *dedup.Detector
	limiter  *rate.Limiter
	logger   log.Logger
}

// New validates the wiring and creates an Orchestrator.
func New(opts Options) (*Orchestrator, error) {
	if opts.Primary == nil {
		return nil, fmt.Errorf("primary search provider is required")
	}
	if opts.Generator == nil {
		return nil, fmt.Errorf("generator is required")
	}
	if opts.Filter == nil {
		return nil, fmt.Errorf("safety filter is required")
	}
	if opts.Corpus == nil || opts.Pending == nil {
		return nil, fmt.Errorf("corpus and pending stores are required")
	}
	if len(opts.Topics) == 0 {
		return nil, fmt.Errorf("at least one topic is required")
	}
	if opts.BatchSize < 1 {
		return nil, fmt.Errorf("batch size must be positive")
	}
	if opts.Picker == nil {
		opts.Picker = RandomPicker{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNop()
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.QueryDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(opts.QueryDelay), 1)
	}

	return &Orchestrator{
		opts:     opts,
		detector: dedup.New(logger),
		limiter:  limiter,
		logger:   logger.With("component", "discovery"),
	}, nil
}

// Run executes one cycle, or cycles forever at the configured interval when
// continuous is set. It returns when the context is canceled; a canceled
// context is a clean shutdown, not an error.
func (o *Orchestrator) Run(ctx context.Context, continuous bool) error {
	for {
		accepted, err := o.RunCycle(ctx)
		if err != nil {
			return err
		}
		if !continuous {
			o.logger.Info("discovery finished", "accepted", accepted)
			return nil
		}

		o.logger.Info("discovery cycle complete, sleeping",
			"accepted", accepted, "next_in", o.opts.CycleInterval)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(o.opts.CycleInterval):
		}
	}
}

// RunCycle runs one discovery cycle and returns how many drafts were queued.
// The only error paths are context cancellation and a failure to persist the
// accepted drafts; everything per-candidate is non-fatal.
func (o *Orchestrator) RunCycle(ctx context.Context) (int, error) {
	corpusGuides := o.opts.Corpus.Load()
	pendingDrafts := o.opts.Pending.Load()

	feedback := harvestFeedback(corpusGuides, pendingDrafts)

	// Dedup reference: published guides plus drafts already awaiting review.
	// Grows with each acceptance so one cycle cannot queue the same guide
	// twice.
	reference := make([]guide.Guide, 0, len(corpusGuides)+len(pendingDrafts))
	reference = append(reference, corpusGuides...)
	for _, d := range pendingDrafts {
		reference = append(reference, d.Guide)
	}

	var accepted []guide.Draft
	for i := 0; i < o.opts.BatchSize; i++ {
		if err := o.limiter.Wait(ctx); err != nil {
			break
		}

		query := o.buildQuery()
		candidates := o.search(ctx, query)
		o.logger.Info("query processed", "query", query, "candidates", len(candidates))

		for _, candidate := range candidates {
			draft, ok := o.processCandidate(ctx, candidate, feedback, reference)
			if !ok {
				continue
			}
			accepted = append(accepted, *draft)
			reference = append(reference, draft.Guide)
		}
	}

	if len(accepted) > 0 {
		if err := o.opts.Pending.Append(accepted); err != nil {
			return 0, fmt.Errorf("queueing %d drafts for review: %w", len(accepted), err)
		}
	}

	o.logger.Info("cycle summary",
		"queries", o.opts.BatchSize, "accepted", len(accepted),
		"reference_size", len(reference))
	return len(accepted), nil
}

// processCandidate runs one candidate through the gauntlet: URL check,
// pre-generation safety, generation, post-generation safety, dedup. Any
// rejection or error drops the candidate.
func (o *Orchestrator) processCandidate(ctx context.Context, candidate search.Candidate, feedback []generate.Feedback, reference []guide.Guide) (*guide.Draft, bool) {
	if err := search.ValidateURL(candidate.SourceURL); err != nil {
		o.logger.Debug("candidate dropped", "url", candidate.SourceURL, "reason", "unsafe url")
		return nil, false
	}

	if !o.opts.Filter.IsSafe(candidate.Title+" "+candidate.BodyExcerpt) {
		o.logger.Info("candidate dropped", "url", candidate.SourceURL, "reason", "unsafe source content")
		return nil, false
	}

	genCtx := ctx
	if o.opts.GenerationTimeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, o.opts.GenerationTimeout)
		defer cancel()
	}
	draft, err := o.opts.Generator.Generate(genCtx, candidate, feedback)
	if err != nil {
		o.logger.Warn("generation failed", "url", candidate.SourceURL, "error", err)
		return nil, false
	}
	if draft == nil {
		return nil, false
	}

	// Generated text gets the same screening as source text; the model can
	// introduce terms the source never contained.
	if !o.opts.Filter.IsSafe(draftText(draft)) {
		o.logger.Info("draft dropped", "title", draft.Title, "reason", "unsafe generated content")
		return nil, false
	}

	if dup, reason := o.detector.IsDuplicate(draft.Title, draft.Keywords, reference); dup {
		o.logger.Info("draft dropped", "title", draft.Title, "reason", string(reason))
		return nil, false
	}

	return draft, true
}

// search tries the primary provider, then the fallback when the primary
// yields nothing. Provider errors are non-fatal.
func (o *Orchestrator) search(ctx context.Context, query string) []search.Candidate {
	candidates, err := o.opts.Primary.Search(ctx, query)
	if err != nil {
		o.logger.Warn("primary search failed", "query", query, "error", err)
	}
	if len(candidates) > 0 || o.opts.Fallback == nil {
		return candidates
	}

	candidates, err = o.opts.Fallback.Search(ctx, query)
	if err != nil {
		o.logger.Warn("fallback search failed", "query", query, "error", err)
	}
	return candidates
}

// buildQuery samples a topic and, when one is drawn, scopes it to a hint
// site.
func (o *Orchestrator) buildQuery() string {
	topic := o.opts.Picker.Pick(o.opts.Topics)
	if hint := o.opts.Picker.Pick(o.opts.SiteHints); hint != "" {
		return topic + " site:" + hint
	}
	return topic
}

// draftText concatenates the generated fields worth screening.
func draftText(d *guide.Draft) string {
	text := d.Title + " " + d.ProblemDescription
	for _, s := range d.Steps {
		text += " " + s.Title + " " + s.Content
	}
	for _, a := range d.Alternates {
		text += " " + a.Title + " " + a.Content
	}
	return text
}

// harvestFeedback collects reviewer notes from published guides and queued
// drafts, oldest first, so the generator can see what human editors keep
// correcting. The generator bounds how many it replays.
func harvestFeedback(corpus []guide.Guide, pending []guide.Draft) []generate.Feedback {
	var notes []generate.Feedback
	for _, g := range corpus {
		if g.AIGenerationNotes != "" {
			notes = append(notes, generate.Feedback{Title: g.Title, Note: g.AIGenerationNotes})
		}
	}
	for _, d := range pending {
		if d.AIGenerationNotes != "" {
			notes = append(notes, generate.Feedback{Title: d.Title, Note: d.AIGenerationNotes})
		}
	}
	return notes
}
