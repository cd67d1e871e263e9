package strategy

import (
	"context"
	"strings"
	"testing"

	"github.com/ujesh-sakariya/deepresearch-go/findings"
	"github.com/ujesh-sakariya/deepresearch-go/types"
)

func TestEntityAwareSource_AppendsEntityMentionsSection(t *testing.T) {
	repo := findings.New("q")
	engine := &fakeEngine{results: []types.SearchResult{{Title: "a", Link: "https://a.test"}}}
	cite := &fakeCitationHandler{content: "Port Vila is the capital of Vanuatu, per Pacific Island News."}
	p := &Params{
		Query:                 "q",
		Engine:                engine,
		CitationHandler:       cite,
		QuestionGen:           &fakeQuestionGen{questions: []string{"q1"}},
		Repo:                  repo,
		QuestionsPerIteration: 1,
	}

	result, err := NewEntityAwareSource(p).Analyze(context.Background())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !strings.Contains(result.CurrentKnowledge, "Potential Entity Mentions") {
		t.Fatalf("CurrentKnowledge missing entity mentions section: %q", result.CurrentKnowledge)
	}
	if !strings.Contains(result.CurrentKnowledge, "Port Vila") {
		t.Fatalf("expected extracted entity Port Vila, got %q", result.CurrentKnowledge)
	}
}
