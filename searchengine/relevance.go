package searchengine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ujesh-sakariya/deepresearch-go/llm"
	"github.com/ujesh-sakariya/deepresearch-go/types"
)

// now is overridable in tests.
var now = time.Now

// FilterForRelevance asks the LLM to rank previews by relevance to query
// and returns the reordered, possibly-truncated subset. Ranking criteria,
// in weight order: timeliness, direct relevance, source reliability,
// factual plausibility. On any parse failure it degrades to the unranked
// previews truncated to cfg.MaxFilteredResults, per spec.md §4.1.
func FilterForRelevance(ctx context.Context, client llm.Client, previews []types.SearchResult, query string, cfg Config) []types.SearchResult {
	if cfg.FilterBeforeLimit && cfg.MaxFilteredResults > 0 && len(previews) > cfg.MaxFilteredResults {
		previews = previews[:cfg.MaxFilteredResults]
	}

	prompt := buildRelevancePrompt(previews, query)

	resp, err := client.Invoke(ctx, prompt)
	if err != nil {
		return truncate(previews, cfg.MaxFilteredResults)
	}

	indices, ok := parseIndexArray(resp.Content)
	if !ok {
		return truncate(previews, cfg.MaxFilteredResults)
	}

	var ranked []types.SearchResult
	for _, idx := range indices {
		if idx < 0 || idx >= len(previews) {
			continue
		}
		ranked = append(ranked, previews[idx])
	}
	if len(ranked) == 0 {
		return truncate(previews, cfg.MaxFilteredResults)
	}

	return truncate(ranked, cfg.MaxFilteredResults)
}

func buildRelevancePrompt(previews []types.SearchResult, query string) string {
	data, _ := json.Marshal(previews)
	return fmt.Sprintf(
		"Query: %q\nCurrent date (UTC): %s\n\n"+
			"Here are search result previews as a JSON array:\n%s\n\n"+
			"Rank them by: (1) timeliness, (2) direct relevance to the query, (3) source reliability, "+
			"(4) factual plausibility, most important first. "+
			"Respond with ONLY a JSON array of the integer indices (0-based, into the array above), "+
			"ordered most-relevant-first. No other text.",
		query, now().UTC().Format("2006-01-02T15:04:05Z"), string(data),
	)
}

// parseIndexArray locates the first '[' and last ']' in s and decodes the
// substring as a JSON array of ints, tolerating surrounding text.
func parseIndexArray(s string) ([]int, bool) {
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start < 0 || end < start {
		return nil, false
	}

	var indices []int
	if err := json.Unmarshal([]byte(s[start:end+1]), &indices); err != nil {
		return nil, false
	}
	return indices, true
}

func truncate(results []types.SearchResult, max int) []types.SearchResult {
	if max > 0 && len(results) > max {
		return results[:max]
	}
	return results
}
