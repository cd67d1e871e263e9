// Package searchengine implements the SearchEngine capability (C1): a
// two-phase preview-then-full-content contract shared by every concrete
// engine under searchengine/engines/, plus the engine registry and the
// "auto" meta-engine that picks among them.
package searchengine

import (
	"context"

	"github.com/ujesh-sakariya/deepresearch-go/types"
)

// Engine is the capability set every concrete search engine implements.
// Invoke is a compatibility alias for Run, per spec.md §4.1.
type Engine interface {
	Run(ctx context.Context, query string) ([]types.SearchResult, error)
	Invoke(ctx context.Context, query string) ([]types.SearchResult, error)
}

// Previewer returns cheap title/snippet/link-only results. Every concrete
// engine implements this; the default two-phase Run in run.go is built on
// top of it.
type Previewer interface {
	GetPreviews(ctx context.Context, query string) ([]types.SearchResult, error)
}

// FullContentFetcher fetches page bodies for a set of already-filtered
// previews, attaching FullContent. Some engines provide this natively;
// others delegate to the shared fullcontent.Fetcher (see fullcontent.go).
type FullContentFetcher interface {
	GetFullContent(ctx context.Context, items []types.SearchResult) ([]types.SearchResult, error)
}

// Config controls the default two-phase Run behavior.
type Config struct {
	SkipRelevanceFilter bool
	SearchSnippetsOnly  bool
	MaxFilteredResults  int
	// FilterBeforeLimit applies MaxFilteredResults before LLM ranking
	// instead of after. Per SPEC_FULL.md §5 Q1, the spec's fixed reading
	// applies the limit after ranking; this flag exists to make that a
	// knob rather than a hardcoded order.
	FilterBeforeLimit bool
}
