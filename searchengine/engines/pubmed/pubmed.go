// Package pubmed implements the PubMed concrete search engine over
// NCBI's eutils esearch/esummary endpoints.
package pubmed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ujesh-sakariya/deepresearch-go/llm"
	"github.com/ujesh-sakariya/deepresearch-go/searchengine"
	"github.com/ujesh-sakariya/deepresearch-go/types"
)

const (
	esearchEndpoint  = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi"
	esummaryEndpoint = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esummary.fcgi"
)

type previewer struct {
	client *http.Client
}

// New builds the PubMed engine.
func New(client llm.Client, cfg searchengine.Config) searchengine.Engine {
	return searchengine.NewBase("pubmed", previewer{client: http.DefaultClient}, nil, client, cfg)
}

type esearchResponse struct {
	ESearchResult struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

type esummaryResponse struct {
	Result map[string]json.RawMessage `json:"result"`
}

type summary struct {
	Title string `json:"title"`
}

func (p previewer) GetPreviews(ctx context.Context, query string) ([]types.SearchResult, error) {
	ids, err := p.search(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return p.summarize(ctx, ids)
}

func (p previewer) search(ctx context.Context, query string) ([]string, error) {
	q := url.Values{"db": {"pubmed"}, "term": {query}, "retmode": {"json"}, "retmax": {"10"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, esearchEndpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("pubmed: build esearch request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pubmed: esearch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pubmed: esearch HTTP %d", resp.StatusCode)
	}

	var body esearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("pubmed: decode esearch: %w", err)
	}
	return body.ESearchResult.IDList, nil
}

func (p previewer) summarize(ctx context.Context, ids []string) ([]types.SearchResult, error) {
	q := url.Values{"db": {"pubmed"}, "id": {strings.Join(ids, ",")}, "retmode": {"json"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, esummaryEndpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("pubmed: build esummary request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pubmed: esummary: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pubmed: esummary HTTP %d", resp.StatusCode)
	}

	var body esummaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("pubmed: decode esummary: %w", err)
	}

	results := make([]types.SearchResult, 0, len(ids))
	for _, id := range ids {
		raw, ok := body.Result[id]
		if !ok {
			continue
		}
		var s summary
		if err := json.Unmarshal(raw, &s); err != nil {
			continue
		}
		results = append(results, types.SearchResult{
			Title:      s.Title,
			Link:       fmt.Sprintf("https://pubmed.ncbi.nlm.nih.gov/%s/", id),
			SourceType: "pubmed",
		})
	}
	return results, nil
}
