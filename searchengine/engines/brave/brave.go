// Package brave implements the Brave Search concrete search engine, over
// Brave's web search API.
package brave

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

// APIKeyEnv names the environment variable holding the Brave Search API
// subscription token.
const APIKeyEnv = "BRAVE_API_KEY"

const searchEndpoint = "https://api.search.brave.com/res/v1/web/search"

type previewer struct {
	client *http.Client
	apiKey string
}

// New builds the Brave Search engine.
func New(client llm.Client, cfg searchengine.Config) searchengine.Engine {
	p := previewer{client: http.DefaultClient, apiKey: os.Getenv(APIKeyEnv)}
	return searchengine.NewBase("brave", p, searchengine.NewHTTPFullContentFetcher(), client, cfg)
}

type searchResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
		} `json:"results"`
	} `json:"web"`
}

func (p previewer) GetPreviews(ctx context.Context, query string) ([]types.SearchResult, error) {
	q := url.Values{"q": {query}, "count": {"10"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchEndpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("brave: build request: %w", err)
	}
	req.Header.Set("X-Subscription-Token", p.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("brave: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("brave: HTTP %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("brave: decode: %w", err)
	}

	results := make([]types.SearchResult, 0, len(body.Web.Results))
	for _, item := range body.Web.Results {
		results = append(results, types.SearchResult{
			Title:      item.Title,
			Link:       item.URL,
			Snippet:    item.Description,
			SourceType: "brave",
		})
	}
	return results, nil
}
