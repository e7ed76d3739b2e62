// Package search finds candidate solution pages on the public web.
//
// Two interchangeable strategies sit behind the Provider contract: a primary
// structured search API (Tavily) whose results already carry body excerpts,
// and a headless-browser fallback that scrapes a search engine results page
// and extracts each linked article. The orchestrator tries the primary first
// and falls back only when it yields nothing.
package search

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// MaxResults caps how many candidates a single search may return.
const MaxResults = 5

// Candidate is one potential solution source. Ephemeral: produced per query,
// consumed by the safety filter and the generator, never persisted.
type Candidate struct {
	Title       string
	BodyExcerpt string
	SourceURL   string
}

// Provider is the search contract. The returned sequence is finite, capped
// at MaxResults, and not restartable; issue a new Search for fresh results.
type Provider interface {
	Search(ctx context.Context, query string) ([]Candidate, error)
}

// ErrUnsafeURL is returned for result links that must not be fetched.
var ErrUnsafeURL = errors.New("unsafe result URL")

// ValidateURL checks that a result link is safe to fetch before any page
// navigation: http(s) only, a real public hostname, no loopback, private, or
// link-local targets. Search results are attacker-influenced input, so the
// scraper gets the same SSRF guard an HTTP tool would.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsafeURL, err)
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return fmt.Errorf("%w: scheme %q", ErrUnsafeURL, u.Scheme)
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return fmt.Errorf("%w: empty hostname", ErrUnsafeURL)
	}
	if host == "localhost" || strings.HasSuffix(host, ".internal") {
		return fmt.Errorf("%w: blocked host %s", ErrUnsafeURL, host)
	}

	if ip := net.ParseIP(host); ip != nil {
		if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsUnspecified() {
			return fmt.Errorf("%w: non-public address %s", ErrUnsafeURL, ip)
		}
	}

	return nil
}
