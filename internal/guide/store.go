package guide

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/guidewise/guidewise/internal/log"
)

// ErrNotFound is returned when a guide with the requested ID does not exist.
var ErrNotFound = errors.New("guide not found")

// CorpusStore reads the published guide corpus from a JSON file. The corpus
// is owned by the review/editing side of the system; this process never
// writes to it.
type CorpusStore struct {
	path   string
	logger log.Logger
}

// NewCorpusStore creates a corpus store backed by the JSON file at path.
func NewCorpusStore(path string, logger log.Logger) *CorpusStore {
	if logger == nil {
		logger = log.NewNop()
	}
	return &CorpusStore{path: path, logger: logger}
}

// Load reads all published guides. A missing or unreadable file is not an
// error: both store files are optional inputs, so corruption degrades to an
// empty corpus with a warning rather than aborting the process.
func (s *CorpusStore) Load() []Guide {
	guides, err := readGuideFile[Guide](s.path)
	if err != nil {
		s.logger.Warn("corpus unreadable, starting with empty set",
			"path", s.path, "error", err)
		return nil
	}
	return guides
}

// Get returns the guide with the given ID, or ErrNotFound.
func (s *CorpusStore) Get(id string) (Guide, error) {
	for _, g := range s.Load() {
		if g.ID == id {
			return g, nil
		}
	}
	return Guide{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// PendingStore manages the review queue of generated drafts.
//
// Append is a read-merge-write: the whole file is rewritten with the old
// drafts plus the new ones. A human reviewer may edit the same file from the
// editor UI, so the write is guarded by an advisory file lock and lands via
// temp-file rename to keep the file parseable at every instant.
type PendingStore struct {
	path   string
	logger log.Logger
}

// NewPendingStore creates a pending store backed by the JSON file at path.
func NewPendingStore(path string, logger log.Logger) *PendingStore {
	if logger == nil {
		logger = log.NewNop()
	}
	return &PendingStore{path: path, logger: logger}
}

// Load reads all queued drafts, degrading to an empty set on any read or
// parse failure.
func (s *PendingStore) Load() []Draft {
	drafts, err := readGuideFile[Draft](s.path)
	if err != nil {
		s.logger.Warn("pending store unreadable, starting with empty set",
			"path", s.path, "error", err)
		return nil
	}
	return drafts
}

// Append adds drafts to the review queue in a single write.
func (s *PendingStore) Append(drafts []Draft) error {
	if len(drafts) == 0 {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("creating pending store directory: %w", err)
	}

	lock := flock.New(s.path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("locking pending store: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	merged := append(s.Load(), drafts...)

	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding pending drafts: %w", err)
	}

	// Write-then-rename so a concurrent reader never sees a half-written file.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing pending store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing pending store: %w", err)
	}

	s.logger.Info("drafts appended to pending store",
		"added", len(drafts), "total", len(merged))
	return nil
}

// readGuideFile decodes a JSON array of records from path. Works for both
// Guide and Draft records.
func readGuideFile[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return records, nil
}
