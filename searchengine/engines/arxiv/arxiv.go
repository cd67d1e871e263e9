// Package arxiv implements the arXiv concrete search engine over arXiv's
// public Atom export API.
package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ujesh-sakariya/deepresearch-go/llm"
	"github.com/ujesh-sakariya/deepresearch-go/searchengine"
	"github.com/ujesh-sakariya/deepresearch-go/types"
)

const searchEndpoint = "http://export.arxiv.org/api/query"

type previewer struct {
	client *http.Client
}

// New builds the arXiv engine. Abstracts returned by the export API
// already serve as reasonable full content, so no full-content fetcher is
// attached.
func New(client llm.Client, cfg searchengine.Config) searchengine.Engine {
	return searchengine.NewBase("arxiv", previewer{client: http.DefaultClient}, nil, client, cfg)
}

type feed struct {
	Entries []entry `xml:"entry"`
}

type entry struct {
	Title   string `xml:"title"`
	Summary string `xml:"summary"`
	ID      string `xml:"id"`
}

func (p previewer) GetPreviews(ctx context.Context, query string) ([]types.SearchResult, error) {
	q := url.Values{"search_query": {"all:" + query}, "max_results": {"10"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchEndpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("arxiv: build request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arxiv: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv: HTTP %d", resp.StatusCode)
	}

	var f feed
	if err := xml.NewDecoder(resp.Body).Decode(&f); err != nil {
		return nil, fmt.Errorf("arxiv: decode: %w", err)
	}

	results := make([]types.SearchResult, 0, len(f.Entries))
	for _, e := range f.Entries {
		results = append(results, types.SearchResult{
			Title:       e.Title,
			Link:        e.ID,
			Snippet:     e.Summary,
			FullContent: e.Summary,
			SourceType:  "arxiv",
		})
	}
	return results, nil
}
