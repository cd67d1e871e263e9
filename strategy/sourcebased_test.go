package strategy

import (
	"context"
	"errors"
	"testing"

	"github.com/ujesh-sakariya/deepresearch-go/findings"
	"github.com/ujesh-sakariya/deepresearch-go/types"
)

func TestSourceBased_UnfilteredUnionSurvivesPartialEngineFailure(t *testing.T) {
	repo := findings.New("q")
	engine := &fakeEngine{
		errFor: map[string]error{"bad fact": errors.New("fetch failed")},
		resultsFor: map[string][]types.SearchResult{
			"good fact": {{Title: "a", Link: "https://a.test"}, {Title: "b", Link: "https://b.test"}},
		},
	}
	cite := &fakeCitationHandler{content: "source-based synthesis"}
	p := &Params{
		Query:                 "q",
		Engine:                engine,
		CitationHandler:       cite,
		QuestionGen:           &fakeQuestionGen{questions: []string{"bad fact", "good fact"}},
		Repo:                  repo,
		QuestionsPerIteration: 2,
	}

	result, err := NewSourceBased(p).Analyze(context.Background())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(result.AllLinks) != 2 {
		t.Fatalf("links = %d, want 2 (unfiltered, from the surviving sub-question only)", len(result.AllLinks))
	}
	if result.CurrentKnowledge != "source-based synthesis" {
		t.Fatalf("CurrentKnowledge = %q", result.CurrentKnowledge)
	}
}

func TestSourceBased_NoResultsProducesEmptyKnowledgeWithoutCiting(t *testing.T) {
	repo := findings.New("q")
	engine := &fakeEngine{err: errors.New("everything is down")}
	cite := &fakeCitationHandler{}
	p := &Params{
		Query:                 "q",
		Engine:                engine,
		CitationHandler:       cite,
		QuestionGen:           &fakeQuestionGen{questions: []string{"q1"}},
		Repo:                  repo,
		QuestionsPerIteration: 1,
	}

	result, err := NewSourceBased(p).Analyze(context.Background())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if result.CurrentKnowledge != "" {
		t.Fatalf("CurrentKnowledge = %q, want empty", result.CurrentKnowledge)
	}
	if len(result.AllLinks) != 0 {
		t.Fatalf("links = %d, want 0", len(result.AllLinks))
	}
}
