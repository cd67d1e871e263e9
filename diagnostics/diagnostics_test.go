package diagnostics

import (
	"strings"
	"testing"

	"github.com/ujesh-sakariya/deepresearch-go/types"
)

func TestClassify_MatchesKnownPatterns(t *testing.T) {
	cases := []struct {
		raw  string
		want Category
	}{
		{"dial tcp 1.2.3.4:443: connection refused", CategoryConnection},
		{"context deadline exceeded", CategoryConnection},
		{"received 429 too many requests", CategoryModel},
		{"401 unauthorized: invalid api key", CategoryModel},
		{"search engine returned no results", CategorySearch},
		{"citation handler failed to synthesize", CategorySynthesis},
		{"permission denied writing report", CategoryFile},
		{"something totally unrecognized happened", CategoryUnknown},
	}
	for _, c := range cases {
		got := Classify(c.raw)
		if got.Category != c.want {
			t.Errorf("Classify(%q).Category = %q, want %q", c.raw, got.Category, c.want)
		}
	}
}

func TestClassify_SpecificMessageTakesPrecedenceOverGenericDefault(t *testing.T) {
	got := Classify("request failed: context deadline exceeded")
	if !strings.Contains(got.Message, "took too long") {
		t.Errorf("expected the specific timeout message, got %q", got.Message)
	}
}

func TestGenerateReport_IncludesCategoryTitleAndActions(t *testing.T) {
	rpt := Classify("connection refused")
	md := GenerateReport(rpt, nil)
	if !strings.Contains(md, "Connection Problem") {
		t.Errorf("missing category title: %s", md)
	}
	if !strings.Contains(md, "## Suggested Actions") {
		t.Errorf("missing suggested actions: %s", md)
	}
}

func TestGenerateReport_RendersCappedPartialResults(t *testing.T) {
	var results []types.SearchResult
	for i := 0; i < 8; i++ {
		results = append(results, types.SearchResult{Title: "r", Link: "https://example.com", Snippet: "s"})
	}
	var findings []types.Finding
	for i := 0; i < 5; i++ {
		findings = append(findings, types.Finding{Question: "q", Content: "c"})
	}

	rpt := Classify("search engine timeout")
	md := GenerateReport(rpt, &PartialResults{SearchResults: results, Findings: findings})

	if !strings.Contains(md, "3 more result(s) omitted") {
		t.Errorf("expected search results capped at 5, got: %s", md)
	}
	if !strings.Contains(md, "2 more finding(s) omitted") {
		t.Errorf("expected findings capped at 3, got: %s", md)
	}
}

func TestGenerateReport_OmitsCollapsibleSectionWhenNoPartialData(t *testing.T) {
	rpt := Classify("unknown failure")
	md := GenerateReport(rpt, nil)
	if strings.Contains(md, "<details>") {
		t.Error("expected no collapsible section without partial results")
	}
}

func TestGenerateReport_FiltersOutErrorPhaseFindings(t *testing.T) {
	rpt := Classify("search engine timeout")
	md := GenerateReport(rpt, &PartialResults{
		Findings: []types.Finding{
			{Phase: "error", Question: "should be excluded", Content: "x"},
			{Phase: "standard", Question: "should be included", Content: "y"},
		},
	})
	if strings.Contains(md, "should be excluded") {
		t.Error("error-phase finding leaked into report")
	}
	if !strings.Contains(md, "should be included") {
		t.Error("non-error finding missing from report")
	}
}
