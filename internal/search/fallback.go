package search

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/guidewise/guidewise/internal/extract"
	"github.com/guidewise/guidewise/internal/log"
)

// serpURL is the HTML (no-JavaScript) results page of a privacy-respecting
// search engine; it needs no API credential.
const serpURL = "https://html.duckduckgo.com/html/?q="

// skipDomains are hosts that appear on results pages but are never solution
// sources: the search engine itself, ad redirectors, trackers.
var skipDomains = []string{
	"duckduckgo.com",
	"duck.co",
	"doubleclick.net",
	"googleadservices.com",
	"bing.com",
	"ad.atdmt.com",
}

// Fallback is the credential-free search strategy: render the results page
// in a headless browser, collect outbound links, and run the content
// extractor on each. Used when the primary API is unconfigured or empty.
type Fallback struct {
	fetcher   extract.Fetcher
	extractor *extract.Extractor
	logger    log.Logger
}

// NewFallback creates the fallback provider. fetcher renders the results
// page (a BrowserFetcher in production); extractor pulls article text from
// each result URL.
func NewFallback(fetcher extract.Fetcher, extractor *extract.Extractor, logger log.Logger) (*Fallback, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("fetcher is required")
	}
	if extractor == nil {
		return nil, fmt.Errorf("extractor is required")
	}
	if logger == nil {
		logger = log.NewNop()
	}
	return &Fallback{fetcher: fetcher, extractor: extractor, logger: logger}, nil
}

// Search scrapes the results page for query and extracts up to MaxResults
// linked articles. Per-URL extraction failures drop that URL only; the
// browser session behind each fetch is closed before the next URL is
// processed.
func (f *Fallback) Search(ctx context.Context, query string) ([]Candidate, error) {
	html, err := f.fetcher.FetchHTML(ctx, serpURL+url.QueryEscape(query))
	if err != nil {
		f.logger.Warn("fallback search page fetch failed", "query", query, "error", err)
		return nil, nil
	}

	links := ParseResultLinks(html)
	f.logger.Debug("fallback search links collected", "query", query, "links", len(links))

	candidates := make([]Candidate, 0, len(links))
	for _, link := range links {
		page, err := f.extractor.Extract(ctx, link)
		if err != nil {
			f.logger.Debug("result page dropped", "url", link, "error", err)
			continue
		}
		candidates = append(candidates, Candidate{
			Title:       page.Title,
			BodyExcerpt: page.BodyExcerpt,
			SourceURL:   link,
		})
	}

	f.logger.Info("fallback search complete", "query", query, "results", len(candidates))
	return candidates, nil
}

// ParseResultLinks pulls outbound result URLs from a rendered results page,
// resolving the engine's redirect wrapper, dropping self-referential and ad
// domains, de-duplicating, and capping at MaxResults.
func ParseResultLinks(html string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	seen := make(map[string]struct{})
	var links []string

	doc.Find("a.result__a, a.result__url, h2 a").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, ok := sel.Attr("href")
		if !ok {
			return true
		}

		resolved := resolveRedirect(href)
		if resolved == "" || ValidateURL(resolved) != nil || isSkippedDomain(resolved) {
			return true
		}
		if _, dup := seen[resolved]; dup {
			return true
		}
		seen[resolved] = struct{}{}
		links = append(links, resolved)

		return len(links) < MaxResults
	})

	return links
}

// resolveRedirect unwraps the engine's /l/?uddg=<target> redirect links and
// normalizes protocol-relative hrefs.
func resolveRedirect(href string) string {
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}

	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}

// isSkippedDomain reports whether the URL points back at the search engine
// or an ad network.
func isSkippedDomain(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return true
	}
	host := strings.ToLower(u.Hostname())
	for _, d := range skipDomains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}
