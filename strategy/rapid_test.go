package strategy

import (
	"context"
	"testing"

	"github.com/ujesh-sakariya/deepresearch-go/findings"
	"github.com/ujesh-sakariya/deepresearch-go/types"
)

func TestRapid_CollectsSnippetsAndCitesOnce(t *testing.T) {
	repo := findings.New("q")
	engine := &fakeEngine{
		resultsFor: map[string][]types.SearchResult{
			"q1": {{Title: "a", Link: "https://a.test"}},
			"q2": {{Title: "b", Link: "https://b.test"}},
		},
	}
	cite := &fakeCitationHandler{content: "rapid synthesis"}
	rec := &progressRecorder{}
	p := &Params{
		Query:                 "q",
		Engine:                engine,
		CitationHandler:       cite,
		QuestionGen:           &fakeQuestionGen{questions: []string{"q1", "q2"}},
		Repo:                  repo,
		QuestionsPerIteration: 2,
		OnProgress:            rec.record,
	}

	result, err := NewRapid(p).Analyze(context.Background())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if result.CurrentKnowledge != "rapid synthesis" {
		t.Fatalf("CurrentKnowledge = %q", result.CurrentKnowledge)
	}
	if len(result.AllLinks) != 2 {
		t.Fatalf("links = %d, want 2", len(result.AllLinks))
	}
	if result.Iterations != 1 {
		t.Fatalf("Iterations = %d, want 1", result.Iterations)
	}
}
