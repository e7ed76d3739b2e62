package dedup

import (
	"testing"

	"github.com/guidewise/guidewise/internal/guide"
	"github.com/guidewise/guidewise/internal/log"
)

func TestIsDuplicate_TitleSimilarity(t *testing.T) {
	d := New(log.NewNop())
	existing := []guide.Guide{
		{Title: "Fixing Wifi Connection Problems", Keywords: []string{"router"}},
	}

	dup, reason := d.IsDuplicate("Fix Wifi Connection Issues", []string{"wifi"}, existing)
	if !dup {
		t.Fatal("near-identical title should be flagged as duplicate")
	}
	if reason != ReasonTitle {
		t.Errorf("reason = %q, want %q", reason, ReasonTitle)
	}
}

func TestIsDuplicate_KeywordOverlap(t *testing.T) {
	d := New(log.NewNop())
	existing := []guide.Guide{
		{Title: "Extend Your Phone's Battery Life", Keywords: []string{"battery", "iphone", "power", "drain"}},
	}

	// Dissimilar title, three exact keyword matches.
	dup, reason := d.IsDuplicate("iPhone Battery Drain",
		[]string{"battery", "iphone", "drain"}, existing)
	if !dup {
		t.Fatal("three common keywords should be flagged as duplicate")
	}
	if reason != ReasonKeywords {
		t.Errorf("reason = %q, want %q", reason, ReasonKeywords)
	}
}

func TestIsDuplicate_TwoKeywordsNotEnough(t *testing.T) {
	d := New(log.NewNop())
	existing := []guide.Guide{
		{Title: "Completely Different Topic", Keywords: []string{"battery", "iphone", "power"}},
	}

	dup, _ := d.IsDuplicate("Screen Cracked After Drop",
		[]string{"battery", "iphone", "screen"}, existing)
	if dup {
		t.Error("two common keywords must not trigger deduplication")
	}
}

func TestIsDuplicate_KeywordNormalization(t *testing.T) {
	d := New(log.NewNop())
	existing := []guide.Guide{
		{Title: "Unrelated", Keywords: []string{"Wi-Fi", "ROUTER", "Internet!"}},
	}

	dup, reason := d.IsDuplicate("Also Unrelated",
		[]string{"wifi", "router", "internet"}, existing)
	if !dup {
		t.Fatal("keyword comparison must normalize before matching")
	}
	if reason != ReasonKeywords {
		t.Errorf("reason = %q, want %q", reason, ReasonKeywords)
	}
}

func TestIsDuplicate_CleanCandidate(t *testing.T) {
	d := New(log.NewNop())
	existing := []guide.Guide{
		{Title: "Fix Wi-Fi No Internet", Keywords: []string{"wifi", "internet", "connection"}},
		{Title: "Printer Shows Offline", Keywords: []string{"printer", "offline", "queue"}},
	}

	dup, reason := d.IsDuplicate("Recover Deleted Files on Windows",
		[]string{"windows", "files", "recovery"}, existing)
	if dup {
		t.Errorf("unrelated candidate flagged as duplicate (reason %q)", reason)
	}
	if reason != ReasonNone {
		t.Errorf("reason = %q, want empty", reason)
	}
}

func TestIsDuplicate_EmptyReferenceSet(t *testing.T) {
	d := New(log.NewNop())
	if dup, _ := d.IsDuplicate("Anything", []string{"any"}, nil); dup {
		t.Error("empty reference set can never produce a duplicate")
	}
}
