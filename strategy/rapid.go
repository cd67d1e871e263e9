package strategy

import (
	"context"
	"fmt"
	"sync"

	"github.com/ujesh-sakariya/deepresearch-go/types"
)

// rapid collects snippets only across all sub-questions in a single
// round, with no intermediate synthesis, then makes one final citation
// call — optimized for latency, per spec.md §4.7.3. Retrieval is the
// same snippet-only fan-out parallel uses (runSnippetOnly); unlike
// parallel, a failed sub-question search is dropped without a
// search_error progress report.
type rapid struct {
	params *Params
}

// NewRapid builds the latency-optimized rapid strategy.
func NewRapid(p *Params) Strategy {
	return &rapid{params: p}
}

func (s *rapid) Analyze(ctx context.Context) (*Result, error) {
	p := s.params
	p.reportProgress(ctx, 0, "init", "starting rapid research")

	if err := p.checkTerminated(ctx); err != nil {
		return nil, err
	}

	questions, err := p.QuestionGen.Generate(ctx, "", p.Query, p.QuestionsPerIteration, p.Repo.QuestionsByIteration())
	if err != nil {
		return nil, fmt.Errorf("strategy: generate questions: %w", err)
	}
	p.Repo.RecordQuestions(1, questions)
	p.reportProgress(ctx, 20, "search", fmt.Sprintf("collecting snippets for %d sub-questions", len(questions)))

	results := make([][]types.SearchResult, len(questions))
	var wg sync.WaitGroup
	for i, q := range questions {
		wg.Add(1)
		go func(i int, q string) {
			defer wg.Done()
			res, err := runSnippetOnly(ctx, p.Engine, q)
			if err == nil {
				results[i] = res
			}
		}(i, q)
	}
	wg.Wait()

	if err := p.checkTerminated(ctx); err != nil {
		return nil, err
	}

	var union []types.SearchResult
	for _, res := range results {
		union = append(union, res...)
	}
	p.reportProgress(ctx, 70, "search_complete", fmt.Sprintf("collected %d snippets", len(union)))

	currentKnowledge := ""
	if len(union) > 0 {
		offset := p.Repo.NrOfLinks()
		citeResult, err := p.CitationHandler.Handle(ctx, p.Query, union, "", offset)
		if err != nil {
			p.reportProgress(ctx, -1, "analysis_error", fmt.Sprintf("citation handler failed: %v", err))
		} else {
			p.Repo.AppendLinks(union)
			p.Repo.AppendFinding(types.Finding{
				Phase:         "rapid",
				Content:       citeResult.Content,
				Question:      p.Query,
				SearchResults: union,
				Documents:     citeResult.Documents,
			})
			currentKnowledge = citeResult.Content
		}
	}

	p.reportProgress(ctx, 100, "complete", "research complete")
	return finalize(p, 1, currentKnowledge), nil
}
