// Package guardian implements the Guardian concrete search engine, over
// the Guardian Open Platform's content search API.
package guardian

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

// APIKeyEnv names the environment variable holding the Guardian API key.
const APIKeyEnv = "GUARDIAN_API_KEY"

const searchEndpoint = "https://content.guardianapis.com/search"

type previewer struct {
	client *http.Client
	apiKey string
}

// New builds the Guardian engine.
func New(client llm.Client, cfg searchengine.Config) searchengine.Engine {
	p := previewer{client: http.DefaultClient, apiKey: os.Getenv(APIKeyEnv)}
	return searchengine.NewBase("guardian", p, nil, client, cfg)
}

type searchResponse struct {
	Response struct {
		Results []struct {
			WebTitle string `json:"webTitle"`
			WebURL   string `json:"webUrl"`
			Fields   struct {
				TrailText string `json:"trailText"`
				BodyText  string `json:"bodyText"`
			} `json:"fields"`
		} `json:"results"`
	} `json:"response"`
}

func (p previewer) GetPreviews(ctx context.Context, query string) ([]types.SearchResult, error) {
	q := url.Values{
		"q":           {query},
		"api-key":     {p.apiKey},
		"show-fields": {"trailText,bodyText"},
		"page-size":   {"10"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchEndpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("guardian: build request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("guardian: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("guardian: HTTP %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("guardian: decode: %w", err)
	}

	results := make([]types.SearchResult, 0, len(body.Response.Results))
	for _, item := range body.Response.Results {
		results = append(results, types.SearchResult{
			Title:       item.WebTitle,
			Link:        item.WebURL,
			Snippet:     item.Fields.TrailText,
			FullContent: item.Fields.BodyText,
			SourceType:  "guardian",
		})
	}
	return results, nil
}
