package extract

import (
	"context"
	"fmt"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/playwright-community/playwright-go"

	"github.com/guidewise/guidewise/internal/log"
)

// userAgent identifies the scraper politely. Some support sites refuse the
// Go default agent outright.
const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// Fetcher retrieves the rendered HTML of a page. Implementations must bound
// the fetch with their configured timeout and release every acquired
// resource on all exit paths.
type Fetcher interface {
	FetchHTML(ctx context.Context, pageURL string) (string, error)
}

// StaticFetcher fetches pages over plain HTTP. It is the cheap first attempt
// for article pages that do not need a JavaScript runtime to render.
type StaticFetcher struct {
	timeout time.Duration
	logger  log.Logger
}

// NewStaticFetcher creates a plain-HTTP fetcher.
func NewStaticFetcher(timeout time.Duration, logger log.Logger) *StaticFetcher {
	if logger == nil {
		logger = log.NewNop()
	}
	return &StaticFetcher{timeout: timeout, logger: logger}
}

// FetchHTML downloads the page body.
func (f *StaticFetcher) FetchHTML(ctx context.Context, pageURL string) (string, error) {
	collector := colly.NewCollector(
		colly.UserAgent(userAgent),
		colly.MaxDepth(1),
		colly.StdlibContext(ctx),
	)
	collector.SetRequestTimeout(f.timeout)

	var html string
	collector.OnResponse(func(r *colly.Response) {
		html = string(r.Body)
	})

	if err := collector.Visit(pageURL); err != nil {
		return "", fmt.Errorf("fetching %s: %w", pageURL, err)
	}
	collector.Wait()

	if html == "" {
		return "", fmt.Errorf("fetching %s: empty response", pageURL)
	}
	return html, nil
}

// BrowserFetcher renders pages in headless Chromium for sites that build
// their content with JavaScript. Every call is a scoped session: runtime,
// browser, and page are acquired immediately before navigation and released
// on every exit path before the next candidate is processed.
type BrowserFetcher struct {
	timeout time.Duration
	logger  log.Logger
}

// NewBrowserFetcher creates a headless-browser fetcher. timeout bounds page
// navigation.
func NewBrowserFetcher(timeout time.Duration, logger log.Logger) *BrowserFetcher {
	if logger == nil {
		logger = log.NewNop()
	}
	return &BrowserFetcher{timeout: timeout, logger: logger}
}

// FetchHTML navigates to the page and returns the rendered DOM.
func (f *BrowserFetcher) FetchHTML(ctx context.Context, pageURL string) (string, error) {
	pw, err := playwright.Run()
	if err != nil {
		return "", fmt.Errorf("starting playwright: %w", err)
	}
	defer func() { _ = pw.Stop() }()

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("launching browser: %w", err)
	}
	defer func() { _ = browser.Close() }()

	page, err := browser.NewPage(playwright.BrowserNewPageOptions{
		UserAgent: playwright.String(userAgent),
	})
	if err != nil {
		return "", fmt.Errorf("opening page: %w", err)
	}
	defer func() { _ = page.Close() }()

	timeoutMs := float64(f.timeout.Milliseconds())
	page.SetDefaultTimeout(timeoutMs)

	if _, err := page.Goto(pageURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(timeoutMs),
	}); err != nil {
		return "", fmt.Errorf("navigating to %s: %w", pageURL, err)
	}

	html, err := page.Content()
	if err != nil {
		return "", fmt.Errorf("reading page content: %w", err)
	}

	f.logger.Debug("page rendered", "url", pageURL, "bytes", len(html))
	return html, nil
}
