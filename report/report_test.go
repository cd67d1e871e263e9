package report

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ujesh-sakariya/deepresearch-go/types"
)

type stubOutlineClient struct {
	response string
}

func (s stubOutlineClient) Invoke(ctx context.Context, prompt string) (string, error) {
	return s.response, nil
}

type stubSubResearcher struct {
	calls int
	err   error
}

func (s *stubSubResearcher) Research(ctx context.Context, subQuery string) (string, []types.SearchResult, error) {
	s.calls++
	if s.err != nil {
		return "", nil, s.err
	}
	return "knowledge about " + subQuery, []types.SearchResult{
		{Title: "source", Link: "https://example.com/" + subQuery, Index: s.calls},
	}, nil
}

func TestGenerate_AssemblesTOCSummaryAndSources(t *testing.T) {
	outline := "[1] Background\n  - History | historical context\n[2] Impact\n  - Economic | economic effects"
	researcher := &stubSubResearcher{}
	g := New(stubOutlineClient{response: outline}, researcher)

	result, err := g.Generate(context.Background(), "climate policy", "initial findings text")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !strings.Contains(result.Content, "## Table of Contents") {
		t.Error("missing table of contents")
	}
	if !strings.Contains(result.Content, "1. Background") || !strings.Contains(result.Content, "2. Impact") {
		t.Errorf("TOC missing sections: %s", result.Content)
	}
	if !strings.Contains(result.Content, "## Summary") {
		t.Error("missing summary section")
	}
	if !strings.Contains(result.Content, "## Sources") {
		t.Error("missing sources section")
	}
	if researcher.calls != 2 {
		t.Errorf("got %d sub-research calls, want 2", researcher.calls)
	}
	if result.Metadata.SectionsResearched != 2 {
		t.Errorf("SectionsResearched = %d, want 2", result.Metadata.SectionsResearched)
	}
	if result.Metadata.SearchesPerSection != 2 {
		t.Errorf("SearchesPerSection = %d, want 2", result.Metadata.SearchesPerSection)
	}
}

func TestGenerate_DeduplicatesRepeatedHeaders(t *testing.T) {
	outline := "[1] Section\n  - Sub | purpose\n[1] Section\n  - Sub | purpose"
	researcher := &stubSubResearcher{}
	g := New(stubOutlineClient{response: outline}, researcher)

	result, err := g.Generate(context.Background(), "q", "")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if strings.Count(result.Content, "## 1. Section") != 1 {
		t.Errorf("expected deduplicated section header, got content: %s", result.Content)
	}
}

func TestGenerate_SubResearchFailureDegradesToNote(t *testing.T) {
	outline := "[1] Section\n  - Sub | purpose"
	researcher := &stubSubResearcher{err: errors.New("engine down")}
	g := New(stubOutlineClient{response: outline}, researcher)

	result, err := g.Generate(context.Background(), "q", "")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !strings.Contains(result.Content, "research for this subsection failed") {
		t.Errorf("expected degraded note in content: %s", result.Content)
	}
}

func TestGenerate_EmptyOutlineFallsBackToSingleSection(t *testing.T) {
	researcher := &stubSubResearcher{}
	g := New(stubOutlineClient{response: "not a valid outline"}, researcher)

	result, err := g.Generate(context.Background(), "q", "")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if result.Metadata.SectionsResearched != 1 {
		t.Errorf("SectionsResearched = %d, want 1", result.Metadata.SectionsResearched)
	}
}
