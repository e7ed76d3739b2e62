package guide

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/guidewise/guidewise/internal/log"
)

func writeJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
}

func TestCorpusStore_Load(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corpus.json")

	want := []Guide{
		{
			ID:                 "g1",
			Title:              "Fix Wi-Fi No Internet",
			ProblemDescription: "Steps to restore internet over Wi-Fi",
			Keywords:           []string{"wifi", "internet", "connection"},
			Category:           "connectivity",
			Steps:              []Step{{ID: "s1", Title: "Restart router", Content: "Power cycle the router."}},
			Meta:               Meta{Created: time.Now().UTC(), Difficulty: DifficultyEasy, ConfidenceScore: 1},
		},
	}
	writeJSON(t, path, want)

	store := NewCorpusStore(path, log.NewNop())
	got := store.Load()
	if len(got) != 1 {
		t.Fatalf("Load() returned %d guides, want 1", len(got))
	}
	if got[0].Title != want[0].Title {
		t.Errorf("Load() title = %q, want %q", got[0].Title, want[0].Title)
	}
	if len(got[0].Steps) != 1 {
		t.Errorf("Load() steps = %d, want 1", len(got[0].Steps))
	}
}

func TestCorpusStore_Load_MissingFile(t *testing.T) {
	store := NewCorpusStore(filepath.Join(t.TempDir(), "absent.json"), log.NewNop())
	if got := store.Load(); got != nil {
		t.Errorf("Load() on missing file = %v, want nil", got)
	}
}

func TestCorpusStore_Load_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corpus.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	// Corrupt persisted store must degrade to empty, never crash.
	store := NewCorpusStore(path, log.NewNop())
	if got := store.Load(); got != nil {
		t.Errorf("Load() on corrupt file = %v, want nil", got)
	}
}

func TestCorpusStore_Get(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corpus.json")
	writeJSON(t, path, []Guide{{ID: "g1", Title: "A"}, {ID: "g2", Title: "B"}})

	store := NewCorpusStore(path, log.NewNop())

	g, err := store.Get("g2")
	if err != nil {
		t.Fatalf("Get(g2) error: %v", err)
	}
	if g.Title != "B" {
		t.Errorf("Get(g2) title = %q, want B", g.Title)
	}

	if _, err := store.Get("nope"); err == nil {
		t.Error("Get(nope) expected error, got nil")
	}
}

func TestPendingStore_AppendMergesExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pending.json")
	writeJSON(t, path, []Draft{{Guide: Guide{ID: "d1", Title: "Existing"}}})

	store := NewPendingStore(path, log.NewNop())
	err := store.Append([]Draft{
		{Guide: Guide{ID: "d2", Title: "New draft"}},
	})
	if err != nil {
		t.Fatalf("Append() error: %v", err)
	}

	got := store.Load()
	if len(got) != 2 {
		t.Fatalf("Load() after append = %d drafts, want 2", len(got))
	}
	if got[0].ID != "d1" || got[1].ID != "d2" {
		t.Errorf("Load() order = [%s %s], want [d1 d2]", got[0].ID, got[1].ID)
	}
}

func TestPendingStore_AppendCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "pending.json")

	store := NewPendingStore(path, log.NewNop())
	if err := store.Append([]Draft{{Guide: Guide{ID: "d1"}}}); err != nil {
		t.Fatalf("Append() error: %v", err)
	}

	if got := store.Load(); len(got) != 1 {
		t.Fatalf("Load() = %d drafts, want 1", len(got))
	}
}

func TestPendingStore_AppendNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pending.json")
	store := NewPendingStore(path, log.NewNop())

	if err := store.Append(nil); err != nil {
		t.Fatalf("Append(nil) error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Append(nil) should not create the store file")
	}
}
