// Package github implements the GitHub concrete search engine, over the
// official go-github client's repository search endpoint.
package github

import (
	"context"
	"fmt"
	"os"

	gogithub "github.com/google/go-github/v57/github"

	"github.com/ujesh-sakariya/deepresearch-go/llm"
	"github.com/ujesh-sakariya/deepresearch-go/searchengine"
	"github.com/ujesh-sakariya/deepresearch-go/types"
)

// TokenEnv names the environment variable holding a GitHub personal access
// token. Unauthenticated search works too, just at a lower rate limit.
const TokenEnv = "GITHUB_TOKEN"

type previewer struct {
	client *gogithub.Client
}

// New builds the GitHub engine.
func New(client llm.Client, cfg searchengine.Config) searchengine.Engine {
	gh := gogithub.NewClient(nil)
	if token := os.Getenv(TokenEnv); token != "" {
		gh = gh.WithAuthToken(token)
	}
	return searchengine.NewBase("github", previewer{client: gh}, nil, client, cfg)
}

func (p previewer) GetPreviews(ctx context.Context, query string) ([]types.SearchResult, error) {
	opts := &gogithub.SearchOptions{ListOptions: gogithub.ListOptions{PerPage: 10}}
	result, _, err := p.client.Search.Repositories(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("github: search repositories: %w", err)
	}

	results := make([]types.SearchResult, 0, len(result.Repositories))
	for _, repo := range result.Repositories {
		results = append(results, types.SearchResult{
			Title:       repo.GetFullName(),
			Link:        repo.GetHTMLURL(),
			Snippet:     repo.GetDescription(),
			FullContent: repo.GetDescription(),
			SourceType:  "github",
		})
	}
	return results, nil
}
