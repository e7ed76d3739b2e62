// Package extract turns a fetched web page into a clean title and body
// excerpt for guide generation. Only the fallback search path uses it; the
// primary search API already returns excerpts.
package extract

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"github.com/guidewise/guidewise/internal/log"
)

const (
	// MaxExcerptLen bounds the body excerpt handed to the generator.
	MaxExcerptLen = 3000

	// MinBodyLen is the signal floor: anything shorter is boilerplate or an
	// error page and gets dropped.
	MinBodyLen = 200
)

// ErrInsufficientContent is returned when a page yields too little body text
// to generate a guide from.
var ErrInsufficientContent = errors.New("insufficient page content")

// Page is the extraction result.
type Page struct {
	Title       string
	BodyExcerpt string
}

// Extractor fetches a page and strips it down to readable article text.
// Fetchers are tried in order; typically a static HTTP fetch first, then a
// headless-browser render for script-heavy pages.
type Extractor struct {
	fetchers []Fetcher
	logger   log.Logger
}

// New creates an Extractor over the given fetcher chain.
func New(fetchers []Fetcher, logger log.Logger) (*Extractor, error) {
	if len(fetchers) == 0 {
		return nil, fmt.Errorf("at least one fetcher is required")
	}
	if logger == nil {
		logger = log.NewNop()
	}
	return &Extractor{fetchers: fetchers, logger: logger}, nil
}

// Extract fetches pageURL and returns its title and a body excerpt. It
// returns ErrInsufficientContent for thin pages and wraps fetch errors; it
// never panics and no failure here is fatal to a discovery cycle — the
// candidate is simply dropped.
func (e *Extractor) Extract(ctx context.Context, pageURL string) (*Page, error) {
	var html string
	var lastErr error
	for _, f := range e.fetchers {
		html, lastErr = f.FetchHTML(ctx, pageURL)
		if lastErr == nil && html != "" {
			break
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("all fetchers failed for %s: %w", pageURL, lastErr)
	}

	page, err := FromHTML(html, pageURL)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("page extracted",
		"url", pageURL, "title", page.Title, "excerpt_len", len(page.BodyExcerpt))
	return page, nil
}

// FromHTML reduces raw HTML to a Page. Readability mode is preferred; when
// it cannot find an article the DOM is stripped of chrome elements and the
// remaining visible text is used.
func FromHTML(html, pageURL string) (*Page, error) {
	title, body := readableText(html, pageURL)
	if len(body) < MinBodyLen {
		title2, body2 := strippedText(html)
		if title == "" {
			title = title2
		}
		if len(body2) > len(body) {
			body = body2
		}
	}

	body = collapseWhitespace(body)
	if len(body) < MinBodyLen {
		return nil, fmt.Errorf("%w: %d chars from %s", ErrInsufficientContent, len(body), pageURL)
	}
	if len(body) > MaxExcerptLen {
		body = body[:MaxExcerptLen]
	}

	return &Page{Title: strings.TrimSpace(title), BodyExcerpt: body}, nil
}

// readableText runs go-readability article extraction.
func readableText(html, pageURL string) (title, body string) {
	u, err := url.Parse(pageURL)
	if err != nil {
		u = &url.URL{}
	}
	article, err := readability.FromReader(strings.NewReader(html), u)
	if err != nil {
		return "", ""
	}
	return article.Title, article.TextContent
}

// strippedText removes navigation, footer, script, and style elements and
// returns the remaining visible text.
func strippedText(html string) (title, body string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", ""
	}

	title = doc.Find("title").First().Text()
	doc.Find("nav, header, footer, aside, script, style, noscript, iframe, form").Remove()
	body = doc.Find("body").Text()
	return title, body
}

// collapseWhitespace squeezes runs of whitespace into single spaces so the
// excerpt budget is spent on words, not indentation.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
