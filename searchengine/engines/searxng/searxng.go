// Package searxng implements the SearXNG concrete search engine: a client
// over a self-hosted metasearch instance's JSON API.
package searxng

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"

	"github.com/ujesh-sakariya/deepresearch-go/llm"
	"github.com/ujesh-sakariya/deepresearch-go/searchengine"
	"github.com/ujesh-sakariya/deepresearch-go/types"
)

// InstanceURLEnv names the environment variable holding the base URL of the
// operator's SearXNG instance, since unlike the other engines there is no
// single public default to fall back to.
const InstanceURLEnv = "SEARXNG_BASE_URL"

const defaultInstanceURL = "http://localhost:8080"

type previewer struct {
	client      *http.Client
	instanceURL string
}

// New builds the SearXNG engine, reading the instance URL from
// InstanceURLEnv and falling back to a local default.
func New(client llm.Client, cfg searchengine.Config) searchengine.Engine {
	instanceURL := os.Getenv(InstanceURLEnv)
	if instanceURL == "" {
		instanceURL = defaultInstanceURL
	}
	p := previewer{client: http.DefaultClient, instanceURL: instanceURL}
	return searchengine.NewBase("searxng", p, searchengine.NewHTTPFullContentFetcher(), client, cfg)
}

type searchResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

func (p previewer) GetPreviews(ctx context.Context, query string) ([]types.SearchResult, error) {
	q := url.Values{"q": {query}, "format": {"json"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.instanceURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("searxng: build request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("searxng: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("searxng: HTTP %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("searxng: decode: %w", err)
	}

	results := make([]types.SearchResult, 0, len(body.Results))
	for _, item := range body.Results {
		results = append(results, types.SearchResult{
			Title:      item.Title,
			Link:       item.URL,
			Snippet:    item.Content,
			SourceType: "searxng",
		})
	}
	return results, nil
}
