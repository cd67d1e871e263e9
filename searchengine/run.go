package searchengine

import (
	"context"

	"github.com/ujesh-sakariya/deepresearch-go/llm"
	"github.com/ujesh-sakariya/deepresearch-go/types"
)

// base implements the default two-phase Run contract (getPreviews ->
// filterForRelevance -> optional getFullContent) on top of a concrete
// engine's Previewer and optional FullContentFetcher. Concrete engines
// under searchengine/engines/ are built on *base through NewBase rather
// than reimplementing this contract.
type base struct {
	name     string
	previews Previewer
	full     FullContentFetcher
	llm      llm.Client
	cfg      Config
}

// NewBase constructs the shared two-phase engine wrapper. full may be nil,
// in which case getFullContent is skipped and previews are returned as
// final results — this is how a SearchSnippetsOnly-only engine, or one
// with no full-content capability at all, still satisfies Engine.
func NewBase(name string, previews Previewer, full FullContentFetcher, client llm.Client, cfg Config) Engine {
	return &base{name: name, previews: previews, full: full, llm: client, cfg: cfg}
}

func (e *base) Run(ctx context.Context, query string) ([]types.SearchResult, error) {
	previews, err := e.previews.GetPreviews(ctx, query)
	if err != nil {
		// Per spec.md §4.1's error semantics: an engine that raises on
		// getPreviews returns [] rather than propagating.
		return []types.SearchResult{}, nil
	}
	if len(previews) == 0 {
		return previews, nil
	}

	filtered := previews
	if !e.cfg.SkipRelevanceFilter && e.llm != nil {
		filtered = FilterForRelevance(ctx, e.llm, previews, query, e.cfg)
	} else if e.cfg.MaxFilteredResults > 0 && len(filtered) > e.cfg.MaxFilteredResults {
		filtered = filtered[:e.cfg.MaxFilteredResults]
	}

	if e.cfg.SearchSnippetsOnly || e.full == nil {
		return filtered, nil
	}

	full, err := e.full.GetFullContent(ctx, filtered)
	if err != nil {
		// Per spec.md §4.1/§7: engines never raise across their run
		// boundary; a full-content fetch failure degrades to the
		// already-filtered previews rather than propagating.
		return filtered, nil
	}
	return full, nil
}

func (e *base) Invoke(ctx context.Context, query string) ([]types.SearchResult, error) {
	return e.Run(ctx, query)
}

// RunSnippetsOnly runs the same two-phase contract with SearchSnippetsOnly
// forced on for this call only, leaving e's own configuration untouched.
// Strategies that need snippet-only retrieval (parallel, rapid) use this
// through the SnippetOnlyEngine assertion rather than mutating cfg.
func (e *base) RunSnippetsOnly(ctx context.Context, query string) ([]types.SearchResult, error) {
	forced := *e
	forced.cfg.SearchSnippetsOnly = true
	return forced.Run(ctx, query)
}

// SnippetOnlyEngine is implemented by engines that can force snippet-only
// retrieval for a single call without altering their default
// configuration. *base implements it; callers should type-assert rather
// than assume every Engine does.
type SnippetOnlyEngine interface {
	RunSnippetsOnly(ctx context.Context, query string) ([]types.SearchResult, error)
}
