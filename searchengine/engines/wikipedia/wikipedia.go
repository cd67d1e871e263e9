// Package wikipedia implements the Wikipedia concrete search engine: a
// thin client over the public MediaWiki search API, kept intentionally
// minimal per spec.md §4.1 ("external; interface only").
package wikipedia

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ujesh-sakariya/deepresearch-go/llm"
	"github.com/ujesh-sakariya/deepresearch-go/searchengine"
	"github.com/ujesh-sakariya/deepresearch-go/types"
)

const searchEndpoint = "https://en.wikipedia.org/w/api.php"

type previewer struct {
	client *http.Client
}

// New builds the Wikipedia engine. It has no full-content capability of
// its own, so the shared HTTPFullContentFetcher fetches article bodies.
func New(client llm.Client, cfg searchengine.Config) searchengine.Engine {
	return searchengine.NewBase("wikipedia", previewer{client: http.DefaultClient}, searchengine.NewHTTPFullContentFetcher(), client, cfg)
}

type searchResponse struct {
	Query struct {
		Search []struct {
			Title   string `json:"title"`
			Snippet string `json:"snippet"`
			PageID  int    `json:"pageid"`
		} `json:"search"`
	} `json:"query"`
}

func (p previewer) GetPreviews(ctx context.Context, query string) ([]types.SearchResult, error) {
	q := url.Values{
		"action": {"query"}, "list": {"search"}, "srsearch": {query},
		"format": {"json"}, "srlimit": {"10"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchEndpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("wikipedia: build request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wikipedia: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wikipedia: HTTP %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("wikipedia: decode: %w", err)
	}

	results := make([]types.SearchResult, 0, len(body.Query.Search))
	for _, item := range body.Query.Search {
		results = append(results, types.SearchResult{
			Title:      item.Title,
			Link:       fmt.Sprintf("https://en.wikipedia.org/wiki/%s", url.PathEscape(item.Title)),
			Snippet:    item.Snippet,
			SourceType: "wikipedia",
		})
	}
	return results, nil
}
