package searchengine

import (
	"context"
	"errors"
	"testing"

	"github.com/ujesh-sakariya/deepresearch-go/types"
)

type stubPreviewer struct {
	results []types.SearchResult
	err     error
}

func (s stubPreviewer) GetPreviews(context.Context, string) ([]types.SearchResult, error) {
	return s.results, s.err
}

type stubFullContent struct {
	called bool
}

func (s *stubFullContent) GetFullContent(_ context.Context, items []types.SearchResult) ([]types.SearchResult, error) {
	s.called = true
	out := make([]types.SearchResult, len(items))
	copy(out, items)
	for i := range out {
		out[i].FullContent = "fetched: " + out[i].Snippet
	}
	return out, nil
}

func TestRun_PreviewErrorDegradesToEmpty(t *testing.T) {
	e := NewBase("test", stubPreviewer{err: errors.New("boom")}, nil, nil, Config{})
	results, err := e.Run(context.Background(), "query")
	if err != nil {
		t.Fatalf("Run() error = %v, want nil (degrade to empty)", err)
	}
	if len(results) != 0 {
		t.Errorf("Run() = %v, want empty", results)
	}
}

func TestRun_EmptyPreviewsSkipsFurtherPhases(t *testing.T) {
	full := &stubFullContent{}
	e := NewBase("test", stubPreviewer{results: nil}, full, nil, Config{})
	results, err := e.Run(context.Background(), "query")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Run() = %v, want empty", results)
	}
	if full.called {
		t.Error("GetFullContent should not be called when previews are empty")
	}
}

func TestRun_SnippetsOnlySkipsFullContent(t *testing.T) {
	full := &stubFullContent{}
	previews := []types.SearchResult{{Title: "A", Link: "http://a", Snippet: "s"}}
	e := NewBase("test", stubPreviewer{results: previews}, full, nil, Config{SearchSnippetsOnly: true})

	results, err := e.Run(context.Background(), "query")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(results) != 1 || results[0].FullContent != "" {
		t.Errorf("Run() = %+v, want snippet-only results", results)
	}
	if full.called {
		t.Error("GetFullContent should not be called when SearchSnippetsOnly is set")
	}
}

func TestRun_FetchesFullContentByDefault(t *testing.T) {
	full := &stubFullContent{}
	previews := []types.SearchResult{{Title: "A", Link: "http://a", Snippet: "s"}}
	e := NewBase("test", stubPreviewer{results: previews}, full, nil, Config{})

	results, err := e.Run(context.Background(), "query")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(results) != 1 || results[0].FullContent != "fetched: s" {
		t.Errorf("Run() = %+v, want full content attached", results)
	}
	if !full.called {
		t.Error("GetFullContent should be called by default")
	}
}

func TestRun_NoFullContentFetcherReturnsPreviewsAsIs(t *testing.T) {
	previews := []types.SearchResult{{Title: "A", Link: "http://a", Snippet: "s"}}
	e := NewBase("test", stubPreviewer{results: previews}, nil, nil, Config{})

	results, err := e.Run(context.Background(), "query")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(results) != 1 || results[0].FullContent != "" {
		t.Errorf("Run() = %+v, want previews unchanged", results)
	}
}

func TestInvoke_IsAliasForRun(t *testing.T) {
	previews := []types.SearchResult{{Title: "A", Link: "http://a"}}
	e := NewBase("test", stubPreviewer{results: previews}, nil, nil, Config{SkipRelevanceFilter: true})

	viaRun, _ := e.Run(context.Background(), "q")
	viaInvoke, _ := e.Invoke(context.Background(), "q")
	if len(viaRun) != len(viaInvoke) {
		t.Errorf("Run and Invoke diverged: %v vs %v", viaRun, viaInvoke)
	}
}
