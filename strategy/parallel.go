package strategy

import (
	"context"
	"fmt"
	"sync"

	"github.com/ujesh-sakariya/deepresearch-go/searchengine"
	"github.com/ujesh-sakariya/deepresearch-go/types"
)

// parallel generates all sub-questions for a single iteration, fans them
// out concurrently (one worker per question), collects every result into
// a single bag, then calls the citation handler once on the union, per
// spec.md §4.7.2. Snippet-only mode is forced during retrieval and
// restored afterward.
type parallel struct {
	params *Params
}

// NewParallel builds the parallel fan-out strategy.
func NewParallel(p *Params) Strategy {
	return &parallel{params: p}
}

func (s *parallel) Analyze(ctx context.Context) (*Result, error) {
	p := s.params
	p.reportProgress(ctx, 0, "init", "starting parallel research")

	if err := p.checkTerminated(ctx); err != nil {
		return nil, err
	}

	questions, err := p.QuestionGen.Generate(ctx, "", p.Query, p.QuestionsPerIteration, p.Repo.QuestionsByIteration())
	if err != nil {
		return nil, fmt.Errorf("strategy: generate questions: %w", err)
	}
	p.Repo.RecordQuestions(1, questions)
	p.reportProgress(ctx, 10, "search", fmt.Sprintf("searching %d sub-questions concurrently", len(questions)))

	results := make([][]types.SearchResult, len(questions))
	errs := make([]error, len(questions))
	var wg sync.WaitGroup
	for i, q := range questions {
		wg.Add(1)
		go func(i int, q string) {
			defer wg.Done()
			res, err := runSnippetOnly(ctx, p.Engine, q)
			results[i] = res
			errs[i] = err
		}(i, q)
	}
	wg.Wait()

	if err := p.checkTerminated(ctx); err != nil {
		return nil, err
	}

	var union []types.SearchResult
	for i, res := range results {
		if errs[i] != nil {
			p.reportProgress(ctx, 40, "search_error", errs[i].Error())
			continue
		}
		union = append(union, res...)
	}
	p.reportProgress(ctx, 60, "search_complete", fmt.Sprintf("collected %d results", len(union)))

	currentKnowledge := ""
	if len(union) > 0 {
		offset := p.Repo.NrOfLinks()
		citeResult, err := p.CitationHandler.Handle(ctx, p.Query, union, "", offset)
		if err != nil {
			p.reportProgress(ctx, -1, "analysis_error", fmt.Sprintf("citation handler failed: %v", err))
		} else {
			p.Repo.AppendLinks(union)
			p.Repo.AppendFinding(types.Finding{
				Phase:         "parallel",
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

// runSnippetOnly forces snippet-only retrieval for this one call when the
// engine supports it, leaving the engine's own configured default
// untouched for every other caller.
func runSnippetOnly(ctx context.Context, engine searchengine.Engine, question string) ([]types.SearchResult, error) {
	if so, ok := engine.(searchengine.SnippetOnlyEngine); ok {
		return so.RunSnippetsOnly(ctx, question)
	}
	return engine.Run(ctx, question)
}
