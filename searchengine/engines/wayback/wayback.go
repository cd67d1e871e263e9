// Package wayback implements the Wayback Machine concrete search engine,
// over archive.org's CDX API. It resolves a query to candidate live URLs
// via the CDX index rather than doing keyword search, since the Wayback
// Machine itself indexes snapshots by URL, not free text.
package wayback

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ujesh-sakariya/deepresearch-go/llm"
	"github.com/ujesh-sakariya/deepresearch-go/searchengine"
	"github.com/ujesh-sakariya/deepresearch-go/types"
)

const cdxEndpoint = "https://web.archive.org/cdx/search/cdx"

type previewer struct {
	client *http.Client
}

// New builds the Wayback Machine engine. The query is expected to be (or
// contain) a URL or domain to look up snapshots for.
func New(client llm.Client, cfg searchengine.Config) searchengine.Engine {
	return searchengine.NewBase("wayback", previewer{client: http.DefaultClient}, nil, client, cfg)
}

func (p previewer) GetPreviews(ctx context.Context, query string) ([]types.SearchResult, error) {
	target := extractURLLike(query)
	if target == "" {
		return nil, nil
	}

	q := url.Values{
		"url":      {target},
		"output":   {"text"},
		"fl":       {"timestamp,original"},
		"collapse": {"urlkey"},
		"limit":    {"10"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cdxEndpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("wayback: build request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wayback: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wayback: HTTP %d", resp.StatusCode)
	}

	var results []types.SearchResult
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) != 2 {
			continue
		}
		timestamp, original := fields[0], fields[1]
		results = append(results, types.SearchResult{
			Title:      fmt.Sprintf("%s (archived %s)", original, timestamp),
			Link:       fmt.Sprintf("https://web.archive.org/web/%s/%s", timestamp, original),
			SourceType: "wayback",
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("wayback: read response: %w", err)
	}
	return results, nil
}

// extractURLLike pulls the first http(s) URL out of a query string, or
// falls back to the trimmed query itself if it looks like a bare domain.
func extractURLLike(query string) string {
	for _, word := range strings.Fields(query) {
		if strings.HasPrefix(word, "http://") || strings.HasPrefix(word, "https://") {
			return word
		}
	}
	trimmed := strings.TrimSpace(query)
	if strings.Contains(trimmed, ".") && !strings.Contains(trimmed, " ") {
		return trimmed
	}
	return ""
}
