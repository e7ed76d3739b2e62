// Package guide defines the troubleshooting guide model and the file-backed
// stores the matcher and the discovery pipeline read from.
//
// The corpus store holds approved, published guides and is read-only for this
// process; the pending store queues generated drafts for human review. Both
// files are optional inputs: a missing or corrupt file degrades to an empty
// set instead of failing startup.
package guide

import "time"

// Difficulty levels a guide can carry.
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// Categories guides are filed under. The generator constrains its output to
// this set.
var Categories = []string{
	"connectivity",
	"hardware",
	"software",
	"performance",
	"account",
	"printing",
	"mobile",
	"other",
}

// Guide is a published troubleshooting guide.
type Guide struct {
	ID                 string      `json:"id"`
	Title              string      `json:"title"`
	ProblemDescription string      `json:"problemDescription"`
	Keywords           []string    `json:"keywords"`
	Category           string      `json:"category"`
	Steps              []Step      `json:"steps"`
	Alternates         []Alternate `json:"alternates,omitempty"`
	Meta               Meta        `json:"meta"`

	// AIGenerationNotes holds feedback a human reviewer attached while the
	// guide was still a draft. The discovery pipeline reads these notes back
	// into future generation prompts; guides promoted from reviewed drafts
	// keep them.
	AIGenerationNotes string `json:"aiGenerationNotes,omitempty"`
}

// Step is a single instruction within a guide. Image and annotation payloads
// are opaque to this process; the annotation editor owns their contents.
type Step struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Image       string   `json:"image,omitempty"`
	Annotations []string `json:"annotations,omitempty"`
}

// Alternate is a fallback solution offered when the main steps do not help.
type Alternate struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Meta carries bookkeeping attached to a guide.
type Meta struct {
	Created         time.Time `json:"created"`
	Updated         time.Time `json:"updated"`
	SourceURL       string    `json:"sourceUrl,omitempty"`
	ConfidenceScore float64   `json:"confidenceScore"`
	PriorityScore   float64   `json:"priorityScore,omitempty"`
	Difficulty      string    `json:"difficulty"`
}

// Draft is a generated guide awaiting human review. It has the same shape as
// Guide; the distinct type keeps the review queue from being confused with
// the published corpus. A draft is either rejected during the cycle that
// produced it, or appended to the pending store and later promoted or
// deleted by a human reviewer.
type Draft struct {
	Guide
}
