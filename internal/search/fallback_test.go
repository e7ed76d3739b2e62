package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/guidewise/guidewise/internal/extract"
	"github.com/guidewise/guidewise/internal/log"
)

const serpFixture = `<html><body>
<div class="result">
  <h2 class="result__title">
    <a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fwifi-guide&rut=abc">Fix Wifi</a>
  </h2>
</div>
<div class="result">
  <a class="result__a" href="https://support.example.org/slow-internet">Slow Internet</a>
</div>
<div class="result">
  <a class="result__a" href="https://duckduckgo.com/settings">Settings</a>
</div>
<div class="result">
  <a class="result__a" href="https://ad.doubleclick.net/click?id=1">Sponsored</a>
</div>
<div class="result">
  <a class="result__a" href="http://localhost:8080/admin">Local</a>
</div>
<div class="result">
  <a class="result__a" href="https://support.example.org/slow-internet">Slow Internet (dup)</a>
</div>
</body></html>`

func TestParseResultLinks_Fixture(t *testing.T) {
	links := ParseResultLinks(serpFixture)

	want := []string{
		"https://example.com/wifi-guide",
		"https://support.example.org/slow-internet",
	}
	if len(links) != len(want) {
		t.Fatalf("links = %v, want %v", links, want)
	}
	for i := range want {
		if links[i] != want[i] {
			t.Errorf("links[%d] = %q, want %q", i, links[i], want[i])
		}
	}
}

func TestParseResultLinks_CapsAtMaxResults(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < MaxResults+3; i++ {
		fmt.Fprintf(&b, `<a class="result__a" href="https://site%d.example.com/fix">r</a>`, i)
	}
	b.WriteString("</body></html>")

	links := ParseResultLinks(b.String())
	if len(links) != MaxResults {
		t.Errorf("len(links) = %d, want %d", len(links), MaxResults)
	}
}

func TestParseResultLinks_EmptyPage(t *testing.T) {
	if links := ParseResultLinks("<html><body>no results</body></html>"); len(links) != 0 {
		t.Errorf("links = %v, want none", links)
	}
}

// routeFetcher serves canned HTML keyed by URL substring.
type routeFetcher struct {
	routes map[string]string
}

func (r *routeFetcher) FetchHTML(ctx context.Context, pageURL string) (string, error) {
	for key, html := range r.routes {
		if strings.Contains(pageURL, key) {
			return html, nil
		}
	}
	return "", errors.New("no route for " + pageURL)
}

func articlePage(title string) string {
	body := strings.Repeat("Power cycle the router and test the connection on a second device. ", 8)
	return fmt.Sprintf(`<html><head><title>%s</title></head><body><article><h1>%s</h1><p>%s</p></article></body></html>`,
		title, title, body)
}

func TestFallbackSearch_ExtractsResultPages(t *testing.T) {
	serpFetcher := &routeFetcher{routes: map[string]string{
		"html.duckduckgo.com": serpFixture,
	}}
	pageFetcher := &routeFetcher{routes: map[string]string{
		"example.com/wifi-guide": articlePage("Fix Wifi at Home"),
	}}

	extractor, err := extract.New([]extract.Fetcher{pageFetcher}, log.NewNop())
	if err != nil {
		t.Fatalf("extract.New() error: %v", err)
	}
	fb, err := NewFallback(serpFetcher, extractor, log.NewNop())
	if err != nil {
		t.Fatalf("NewFallback() error: %v", err)
	}

	candidates, err := fb.Search(context.Background(), "wifi not working")
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	// The second link has no route, so only the first survives extraction.
	if len(candidates) != 1 {
		t.Fatalf("len(candidates) = %d, want 1", len(candidates))
	}
	if candidates[0].SourceURL != "https://example.com/wifi-guide" {
		t.Errorf("SourceURL = %q", candidates[0].SourceURL)
	}
	if !strings.Contains(candidates[0].Title, "Fix Wifi at Home") {
		t.Errorf("Title = %q", candidates[0].Title)
	}
}

func TestFallbackSearch_SerpFetchFailureIsNonFatal(t *testing.T) {
	extractor, _ := extract.New([]extract.Fetcher{&routeFetcher{}}, log.NewNop())
	fb, _ := NewFallback(&routeFetcher{}, extractor, log.NewNop())

	candidates, err := fb.Search(context.Background(), "wifi")
	if err != nil || candidates != nil {
		t.Errorf("Search() = (%v, %v), want (nil, nil)", candidates, err)
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"public https", "https://support.example.com/article/42", false},
		{"public http", "http://example.org/fix", false},
		{"file scheme", "file:///etc/passwd", true},
		{"javascript scheme", "javascript:alert(1)", true},
		{"empty host", "https:///path", true},
		{"localhost", "http://localhost/admin", true},
		{"internal suffix", "https://vault.corp.internal/secrets", true},
		{"loopback ip", "http://127.0.0.1:8080/", true},
		{"private ip", "http://10.0.0.5/router", true},
		{"link local ip", "http://169.254.169.254/latest/meta-data", true},
		{"unspecified ip", "http://0.0.0.0/", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrUnsafeURL) {
				t.Errorf("error should wrap ErrUnsafeURL, got %v", err)
			}
		})
	}
}
