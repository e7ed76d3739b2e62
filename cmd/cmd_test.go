package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/guidewise/guidewise/internal/guide"
	"github.com/guidewise/guidewise/internal/log"
)

func testCorpus() []guide.Guide {
	return []guide.Guide{
		{
			ID:                 "guide-wifi",
			Title:              "Fix Wi-Fi No Internet",
			ProblemDescription: "Steps to restore internet over Wi-Fi",
			Keywords:           []string{"wifi", "internet", "connection"},
			Steps: []guide.Step{
				{ID: "step-1", Title: "Restart the router", Content: "Unplug it for thirty seconds."},
			},
			Alternates: []guide.Alternate{
				{Title: "Use ethernet", Content: "Connect a cable directly to the router."},
			},
		},
		{
			ID:                 "guide-printer",
			Title:              "Printer Shows Offline",
			ProblemDescription: "Bring an offline printer back",
			Keywords:           []string{"printer", "offline"},
			Steps: []guide.Step{
				{ID: "step-1", Title: "Power cycle the printer", Content: "Turn it off and on."},
			},
		},
	}
}

func TestRunMatch_BestMatch(t *testing.T) {
	var out bytes.Buffer
	if err := runMatch(&out, testCorpus(), "wifi not connecting", 0, log.NewNop()); err != nil {
		t.Fatalf("runMatch() error: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "Fix Wi-Fi No Internet") {
		t.Errorf("output missing matched guide title:\n%s", got)
	}
	if !strings.Contains(got, "Restart the router") {
		t.Errorf("output missing guide steps:\n%s", got)
	}
	if !strings.Contains(got, "If that does not help:") {
		t.Errorf("output missing alternates:\n%s", got)
	}
}

func TestRunMatch_NoMatch(t *testing.T) {
	var out bytes.Buffer
	if err := runMatch(&out, testCorpus(), "espresso machine leaking water", 0, log.NewNop()); err != nil {
		t.Fatalf("runMatch() error: %v", err)
	}
	if !strings.Contains(out.String(), "No matching guide found.") {
		t.Errorf("output = %q", out.String())
	}
}

func TestRunMatch_TopList(t *testing.T) {
	var out bytes.Buffer
	if err := runMatch(&out, testCorpus(), "wifi internet connection down", 3, log.NewNop()); err != nil {
		t.Fatalf("runMatch() error: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "1. Fix Wi-Fi No Internet") {
		t.Errorf("ranked list missing top hit:\n%s", got)
	}
	if !strings.Contains(got, "% match)") {
		t.Errorf("ranked list should show percentage reasons:\n%s", got)
	}
}

func TestRunMatch_EmptyCorpus(t *testing.T) {
	var out bytes.Buffer
	if err := runMatch(&out, nil, "anything at all", 0, log.NewNop()); err != nil {
		t.Fatalf("runMatch() error: %v", err)
	}
	if !strings.Contains(out.String(), "No matching guide found.") {
		t.Errorf("output = %q", out.String())
	}
}

func TestPrintPending(t *testing.T) {
	var out bytes.Buffer
	printPending(&out, nil)
	if !strings.Contains(out.String(), "Review queue is empty.") {
		t.Errorf("output = %q", out.String())
	}

	out.Reset()
	printPending(&out, []guide.Draft{{Guide: guide.Guide{
		ID:       "draft-1",
		Title:    "Fix Bluetooth Pairing",
		Category: "connectivity",
		Steps:    []guide.Step{{ID: "step-1"}},
		Meta:     guide.Meta{Difficulty: guide.DifficultyEasy, SourceURL: "https://example.com"},
	}}})
	got := out.String()
	if !strings.Contains(got, "Fix Bluetooth Pairing") || !strings.Contains(got, "difficulty=Easy") {
		t.Errorf("output = %q", got)
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := map[string]bool{"match": false, "discover": false, "pending": false, "version": false}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestJoinArgs(t *testing.T) {
	if got := joinArgs([]string{"wifi", "not", "working"}); got != "wifi not working" {
		t.Errorf("joinArgs() = %q", got)
	}
}
