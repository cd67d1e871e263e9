package strategy

import (
	"context"
	"fmt"
	"sync"

	"github.com/ujesh-sakariya/deepresearch-go/types"
)

// sourceBased is like parallel but does not relevance-filter retrieved
// results: it runs each sub-question through Engine.Run with full
// content, research.Service builds that engine with SkipRelevanceFilter
// set for this strategy (results are still capped at
// MaxFilteredResults), and the final LLM synthesis is trusted to
// discriminate, per spec.md §4.7.4. It optionally accepts an atomic-fact
// question generator via Params.QuestionGen.
type sourceBased struct {
	params *Params
}

// NewSourceBased builds the unfiltered source-based strategy.
func NewSourceBased(p *Params) Strategy {
	return &sourceBased{params: p}
}

func (s *sourceBased) Analyze(ctx context.Context) (*Result, error) {
	p := s.params
	p.reportProgress(ctx, 0, "init", "starting source-based research")

	if err := p.checkTerminated(ctx); err != nil {
		return nil, err
	}

	questions, err := p.QuestionGen.Generate(ctx, "", p.Query, p.QuestionsPerIteration, p.Repo.QuestionsByIteration())
	if err != nil {
		return nil, fmt.Errorf("strategy: generate questions: %w", err)
	}
	p.Repo.RecordQuestions(1, questions)
	p.reportProgress(ctx, 15, "search", fmt.Sprintf("searching %d sub-questions, unfiltered", len(questions)))

	results := make([][]types.SearchResult, len(questions))
	var wg sync.WaitGroup
	for i, q := range questions {
		wg.Add(1)
		go func(i int, q string) {
			defer wg.Done()
			res, err := p.Engine.Run(ctx, q)
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
	p.reportProgress(ctx, 65, "search_complete", fmt.Sprintf("collected %d unfiltered results", len(union)))

	currentKnowledge := ""
	if len(union) > 0 {
		offset := p.Repo.NrOfLinks()
		citeResult, err := p.CitationHandler.Handle(ctx, p.Query, union, "", offset)
		if err != nil {
			p.reportProgress(ctx, -1, "analysis_error", fmt.Sprintf("citation handler failed: %v", err))
		} else {
			p.Repo.AppendLinks(union)
			p.Repo.AppendFinding(types.Finding{
				Phase:         "source-based",
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
