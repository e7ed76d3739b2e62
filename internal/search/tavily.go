package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/guidewise/guidewise/internal/log"
)

// tavilyEndpoint is the structured search API URL.
const tavilyEndpoint = "https://api.tavily.com/search"

// Tavily is the primary search strategy: one structured request per query,
// advanced search depth, short synthesized answer included, results capped
// at MaxResults. Each result already carries a content excerpt, so no
// extraction pass is needed on this path.
type Tavily struct {
	apiKey   string
	endpoint string
	client   *http.Client
	logger   log.Logger
}

// NewTavily creates the primary provider. Timeout bounds the whole HTTP
// exchange so a stalled search can never stall a discovery cycle.
func NewTavily(apiKey string, timeout time.Duration, logger log.Logger) *Tavily {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Tavily{
		apiKey:   apiKey,
		endpoint: tavilyEndpoint,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

type tavilyRequest struct {
	Query         string `json:"query"`
	SearchDepth   string `json:"search_depth"`
	IncludeAnswer bool   `json:"include_answer"`
	MaxResults    int    `json:"max_results"`
}

type tavilyResponse struct {
	Answer  string `json:"answer"`
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

// Search issues one structured search request. Every failure mode (missing
// key, denied key, network error, malformed response) yields an empty
// candidate list with a logged warning; a search failure is never fatal to
// the cycle, it just routes the orchestrator to the fallback.
func (t *Tavily) Search(ctx context.Context, query string) ([]Candidate, error) {
	if t.apiKey == "" {
		t.logger.Debug("tavily key absent, skipping primary search")
		return nil, nil
	}

	payload, err := json.Marshal(tavilyRequest{
		Query:         query,
		SearchDepth:   "advanced",
		IncludeAnswer: true,
		MaxResults:    MaxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.apiKey)

	resp, err := t.client.Do(req)
	if err != nil {
		t.logger.Warn("primary search request failed", "query", query, "error", err)
		return nil, nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.logger.Warn("primary search denied", "query", query, "status", resp.StatusCode)
		return nil, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		t.logger.Warn("reading search response failed", "query", query, "error", err)
		return nil, nil
	}

	var parsed tavilyResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		t.logger.Warn("malformed search response", "query", query, "error", err)
		return nil, nil
	}

	candidates := make([]Candidate, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		if r.URL == "" || r.Title == "" {
			continue
		}
		candidates = append(candidates, Candidate{
			Title:       r.Title,
			BodyExcerpt: r.Content,
			SourceURL:   r.URL,
		})
		if len(candidates) == MaxResults {
			break
		}
	}

	t.logger.Info("primary search complete",
		"query", query, "results", len(candidates), "answered", parsed.Answer != "")
	return candidates, nil
}
