// Package serpapi implements the SerpAPI concrete search engine: a client
// over serpapi.com's Google-results JSON API.
package serpapi

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

// APIKeyEnv names the environment variable holding the SerpAPI key.
const APIKeyEnv = "SERPAPI_API_KEY"

const searchEndpoint = "https://serpapi.com/search"

type previewer struct {
	client *http.Client
	apiKey string
}

// New builds the SerpAPI engine.
func New(client llm.Client, cfg searchengine.Config) searchengine.Engine {
	p := previewer{client: http.DefaultClient, apiKey: os.Getenv(APIKeyEnv)}
	return searchengine.NewBase("serpapi", p, searchengine.NewHTTPFullContentFetcher(), client, cfg)
}

type searchResponse struct {
	OrganicResults []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic_results"`
}

func (p previewer) GetPreviews(ctx context.Context, query string) ([]types.SearchResult, error) {
	q := url.Values{"q": {query}, "engine": {"google"}, "api_key": {p.apiKey}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchEndpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("serpapi: build request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serpapi: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serpapi: HTTP %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("serpapi: decode: %w", err)
	}

	results := make([]types.SearchResult, 0, len(body.OrganicResults))
	for _, item := range body.OrganicResults {
		results = append(results, types.SearchResult{
			Title:      item.Title,
			Link:       item.Link,
			Snippet:    item.Snippet,
			SourceType: "serpapi",
		})
	}
	return results, nil
}
