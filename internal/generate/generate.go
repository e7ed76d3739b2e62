// Package generate turns an extracted web page into a draft troubleshooting
// guide with a structured LLM call. The generator is optional: without an
// API key it runs disabled and the discovery pipeline degrades to producing
// nothing instead of failing.
package generate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/google/uuid"

	"github.com/guidewise/guidewise/internal/guide"
	"github.com/guidewise/guidewise/internal/log"
	"github.com/guidewise/guidewise/internal/search"
)

const (
	// maxSourceLen bounds how much page text goes into the prompt.
	maxSourceLen = 5000

	// maxFeedbackNotes bounds how many reviewer notes are replayed per prompt.
	maxFeedbackNotes = 10

	// Scores stamped on every fresh draft. Confidence reflects that drafts
	// are machine-written and unreviewed; priority is neutral until a human
	// triages the queue.
	draftConfidence = 0.85
	draftPriority   = 0.8
)

// Feedback is one reviewer note harvested from an earlier draft, replayed to
// the model so recurring review complaints stop recurring.
type Feedback struct {
	Title string
	Note  string
}

// draftPayload is the structured output contract for the model.
type draftPayload struct {
	Title              string   `json:"title"`
	ProblemDescription string   `json:"problemDescription"`
	Keywords           []string `json:"keywords"`
	Category           string   `json:"category"`
	Difficulty         string   `json:"difficulty"`
	Steps              []struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	} `json:"steps"`
	Alternates []struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	} `json:"alternates,omitempty"`
}

// Generator produces draft guides from search candidates. A Generator with no
// model behind it is valid and returns no drafts.
type Generator struct {
	modelName string
	logger    log.Logger

	// complete performs the structured model call. Swappable so tests can
	// run without a live model.
	complete func(ctx context.Context, system, prompt string) (draftPayload, error)
}

// New initializes the model client. An empty apiKey yields a disabled
// generator rather than an error; discovery still runs, it just accepts
// nothing.
func New(ctx context.Context, apiKey, modelName string, logger log.Logger) *Generator {
	if logger == nil {
		logger = log.NewNop()
	}
	gen := &Generator{modelName: modelName, logger: logger}

	if apiKey == "" {
		logger.Warn("no model API key configured, guide generation disabled")
		return gen
	}

	g := genkit.Init(ctx,
		genkit.WithPlugins(&googlegenai.GoogleAI{APIKey: apiKey}),
		genkit.WithDefaultModel("googleai/"+modelName),
	)
	gen.complete = func(ctx context.Context, system, prompt string) (draftPayload, error) {
		response, err := genkit.Generate(ctx, g,
			ai.WithSystem(system),
			ai.WithPrompt(prompt),
			ai.WithOutputType(draftPayload{}),
		)
		if err != nil {
			return draftPayload{}, err
		}
		var out draftPayload
		if err := response.Output(&out); err != nil {
			return draftPayload{}, err
		}
		return out, nil
	}
	return gen
}

// Enabled reports whether a model is wired up.
func (g *Generator) Enabled() bool {
	return g.complete != nil
}

// Generate writes a draft guide from one candidate page. It returns
// (nil, nil) when the generator is disabled, and an error when the model call
// fails or the output misses required fields; either way the caller drops the
// candidate and moves on.
func (g *Generator) Generate(ctx context.Context, candidate search.Candidate, feedback []Feedback) (*guide.Draft, error) {
	if !g.Enabled() {
		return nil, nil
	}

	payload, err := g.complete(ctx, systemInstruction, buildPrompt(candidate, feedback))
	if err != nil {
		return nil, fmt.Errorf("generating draft from %s: %w", candidate.SourceURL, err)
	}

	draft, err := payload.toDraft(candidate.SourceURL)
	if err != nil {
		return nil, fmt.Errorf("draft from %s: %w", candidate.SourceURL, err)
	}

	g.logger.Info("draft generated",
		"title", draft.Title, "steps", len(draft.Steps), "source", candidate.SourceURL)
	return draft, nil
}

const systemInstruction = `You write troubleshooting guides for non-technical users.
Given the text of a web page describing a technical problem and its solution,
produce one guide as structured output:
- title: short, action-oriented, names the problem being fixed
- problemDescription: one or two sentences describing the symptom from the user's point of view
- keywords: 3 to 8 lowercase search terms a frustrated user might type
- category: exactly one of connectivity, hardware, software, performance, account, printing, mobile, other
- difficulty: exactly one of Easy, Medium, Hard
- steps: numbered, concrete actions in the order a user should try them; each step has a short title and full content
- alternates: optional fallback solutions when the main steps do not help
Only describe solutions actually present in the source text. Never invent
commands, settings paths, or download links.`

// buildPrompt renders the candidate page plus recent reviewer feedback.
func buildPrompt(candidate search.Candidate, feedback []Feedback) string {
	var b strings.Builder

	if len(feedback) > maxFeedbackNotes {
		feedback = feedback[len(feedback)-maxFeedbackNotes:]
	}
	if len(feedback) > 0 {
		b.WriteString("Reviewer feedback on earlier drafts, apply it to this one:\n")
		for _, fb := range feedback {
			fmt.Fprintf(&b, "- From human editor on %q: %q\n", fb.Title, fb.Note)
		}
		b.WriteString("\n")
	}

	body := candidate.BodyExcerpt
	if len(body) > maxSourceLen {
		body = body[:maxSourceLen]
	}

	fmt.Fprintf(&b, "Source page title: %s\n", candidate.Title)
	fmt.Fprintf(&b, "Source URL: %s\n\n", candidate.SourceURL)
	b.WriteString("Source page text:\n")
	b.WriteString(body)
	return b.String()
}

// toDraft validates the model output and stamps identity and bookkeeping.
// Missing title, description, or steps reject the draft; an unknown category
// files under "other" and an unknown difficulty defaults to Medium, since
// those are recoverable.
func (p draftPayload) toDraft(sourceURL string) (*guide.Draft, error) {
	if strings.TrimSpace(p.Title) == "" {
		return nil, fmt.Errorf("model output missing title")
	}
	if strings.TrimSpace(p.ProblemDescription) == "" {
		return nil, fmt.Errorf("model output missing problem description")
	}
	if len(p.Steps) == 0 {
		return nil, fmt.Errorf("model output has no steps")
	}

	category := strings.ToLower(strings.TrimSpace(p.Category))
	if !validCategory(category) {
		category = "other"
	}

	difficulty := p.Difficulty
	switch difficulty {
	case guide.DifficultyEasy, guide.DifficultyMedium, guide.DifficultyHard:
	default:
		difficulty = guide.DifficultyMedium
	}

	now := time.Now().UTC()
	draft := &guide.Draft{Guide: guide.Guide{
		ID:                 uuid.NewString(),
		Title:              strings.TrimSpace(p.Title),
		ProblemDescription: strings.TrimSpace(p.ProblemDescription),
		Keywords:           p.Keywords,
		Category:           category,
		Meta: guide.Meta{
			Created:         now,
			Updated:         now,
			SourceURL:       sourceURL,
			ConfidenceScore: draftConfidence,
			PriorityScore:   draftPriority,
			Difficulty:      difficulty,
		},
	}}

	for i, s := range p.Steps {
		draft.Steps = append(draft.Steps, guide.Step{
			ID:      fmt.Sprintf("step-%d", i+1),
			Title:   s.Title,
			Content: s.Content,
		})
	}
	for _, a := range p.Alternates {
		draft.Alternates = append(draft.Alternates, guide.Alternate{
			Title:   a.Title,
			Content: a.Content,
		})
	}
	return draft, nil
}

func validCategory(category string) bool {
	for _, c := range guide.Categories {
		if c == category {
			return true
		}
	}
	return false
}
