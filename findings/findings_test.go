package findings

import (
	"strings"
	"sync"
	"testing"

	"github.com/ujesh-sakariya/deepresearch-go/types"
)

func TestNrOfLinks_ReflectsAppendedCount(t *testing.T) {
	r := New("query")
	if r.NrOfLinks() != 0 {
		t.Fatalf("NrOfLinks() = %d, want 0", r.NrOfLinks())
	}
	r.AppendLinks([]types.SearchResult{{Title: "A", Link: "http://a"}, {Title: "B", Link: "http://b"}})
	if r.NrOfLinks() != 2 {
		t.Fatalf("NrOfLinks() = %d, want 2", r.NrOfLinks())
	}
}

func TestConcurrentAppends_PreserveContiguousOrder(t *testing.T) {
	r := New("query")
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.AppendLinks([]types.SearchResult{{Title: "x", Link: "http://x"}})
		}(i)
	}
	wg.Wait()

	if got := r.NrOfLinks(); got != 20 {
		t.Fatalf("NrOfLinks() = %d, want 20 after concurrent appends", got)
	}
}

func TestFormat_IncludesHeaderQuestionsFindingsAndSources(t *testing.T) {
	r := New("what happened?")
	r.RecordQuestions(1, []string{"sub-question one", "sub-question two"})
	r.AppendLinks([]types.SearchResult{{Title: "Source A", Link: "http://a", Index: 1}})
	r.AppendFinding(types.Finding{
		Phase:         "search",
		Question:      "sub-question one",
		Content:       "the finding content [1]",
		SearchResults: []types.SearchResult{{Title: "Source A", Link: "http://a", Index: 1}},
	})

	out := r.Format()

	for _, want := range []string{
		"# Research Findings: what happened?",
		"Iteration 1:",
		"sub-question one",
		"### sub-question one",
		"the finding content [1]",
		"## All Sources",
		"Source A",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q in:\n%s", want, out)
		}
	}
}

func TestFormat_DeduplicatesAllSources(t *testing.T) {
	r := New("query")
	r.AppendLinks([]types.SearchResult{
		{Title: "A", Link: "http://a", Index: 1},
		{Title: "A", Link: "http://a", Index: 1},
	})

	out := r.Format()
	if strings.Count(out, "http://a") != 1 {
		t.Errorf("expected deduplicated source to appear once, got %d occurrences:\n%s", strings.Count(out, "http://a"), out)
	}
}
