// Package googlepse implements the Google Programmable Search Engine
// concrete search engine, over the official customsearch/v1 client.
package googlepse

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/ujesh-sakariya/deepresearch-go/llm"
	"github.com/ujesh-sakariya/deepresearch-go/searchengine"
	"github.com/ujesh-sakariya/deepresearch-go/types"
)

// APIKeyEnv and EngineIDEnv name the environment variables holding the
// Google API key and the Programmable Search Engine ID respectively.
const (
	APIKeyEnv   = "GOOGLE_PSE_API_KEY"
	EngineIDEnv = "GOOGLE_PSE_ENGINE_ID"
)

type previewer struct {
	apiKey   string
	engineID string
}

// New builds the Google PSE engine.
func New(client llm.Client, cfg searchengine.Config) searchengine.Engine {
	p := previewer{apiKey: os.Getenv(APIKeyEnv), engineID: os.Getenv(EngineIDEnv)}
	return searchengine.NewBase("googlepse", p, searchengine.NewHTTPFullContentFetcher(), client, cfg)
}

func (p previewer) GetPreviews(ctx context.Context, query string) ([]types.SearchResult, error) {
	svc, err := customsearch.NewService(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return nil, fmt.Errorf("googlepse: build client: %w", err)
	}

	call := svc.Cse.List().Cx(p.engineID).Q(query).Num(10)
	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("googlepse: search: %w", err)
	}

	results := make([]types.SearchResult, 0, len(resp.Items))
	for _, item := range resp.Items {
		results = append(results, types.SearchResult{
			Title:      item.Title,
			Link:       item.Link,
			Snippet:    item.Snippet,
			SourceType: "googlepse",
		})
	}
	return results, nil
}
