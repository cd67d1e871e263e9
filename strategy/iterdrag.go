package strategy

import (
	"context"
	"fmt"
)

// iterDRAG runs an initial search on the raw query, decomposes into 2-5
// sub-queries, follows up each with the accumulated knowledge, then asks
// the LLM to reconcile the sub-answers into one final answer, per
// spec.md §4.7.6. Params.QuestionGen is expected to be the decomposition
// generator.
type iterDRAG struct {
	params *Params
}

// NewIterDRAG builds the IterDRAG strategy.
func NewIterDRAG(p *Params) Strategy {
	return &iterDRAG{params: p}
}

func (s *iterDRAG) Analyze(ctx context.Context) (*Result, error) {
	p := s.params
	p.reportProgress(ctx, 0, "init", "starting IterDRAG research")

	currentKnowledge, _, err := runOneQuestion(ctx, p, "iterdrag-initial", 1, p.Query, "", false)
	if err != nil {
		return nil, err
	}
	p.Repo.RecordQuestions(1, []string{p.Query})
	p.reportProgress(ctx, 20, "search_complete", "initial search complete")

	if err := p.checkTerminated(ctx); err != nil {
		return nil, err
	}

	subQueries, err := p.QuestionGen.Generate(ctx, currentKnowledge, p.Query, p.QuestionsPerIteration, p.Repo.QuestionsByIteration())
	if err != nil {
		return nil, fmt.Errorf("strategy: decompose query: %w", err)
	}
	p.Repo.RecordQuestions(2, subQueries)

	for i, sq := range subQueries {
		if err := p.checkTerminated(ctx); err != nil {
			return nil, err
		}
		p.reportProgress(ctx, 20+int(float64(i+1)/float64(len(subQueries))*60), "search", sq)

		newKnowledge, produced, err := runOneQuestion(ctx, p, "iterdrag-subquery", 2, sq, currentKnowledge, false)
		if err != nil {
			return nil, err
		}
		if produced {
			currentKnowledge = newKnowledge
		}
	}

	if err := p.checkTerminated(ctx); err != nil {
		return nil, err
	}
	p.reportProgress(ctx, 85, "analysis", "reconciling sub-query answers")

	final, err := reconcile(ctx, p, currentKnowledge)
	if err != nil {
		return nil, err
	}
	currentKnowledge = final

	if knowledgeShouldCompress(p, true, false) && p.Compressor != nil {
		compressed, err := p.Compressor.Compress(ctx, currentKnowledge, p.Query, p.Repo.LinksOfSystem())
		if err != nil {
			return nil, fmt.Errorf("strategy: compress iteration knowledge: %w", err)
		}
		currentKnowledge = compressed
	}

	p.reportProgress(ctx, 100, "complete", "research complete")
	return finalize(p, 2, currentKnowledge), nil
}

// reconcile asks the LLM to fold the accumulated sub-query answers into
// one answer to the original query. On LLM failure it degrades to
// returning the accumulated knowledge unchanged, consistent with the
// generators-degrade-don't-raise contract.
func reconcile(ctx context.Context, p *Params, accumulated string) (string, error) {
	prompt := fmt.Sprintf(
		"Original question: %s\n\nAccumulated sub-answers:\n%s\n\nReconcile the sub-answers above into a single coherent answer to the original question. Keep existing [n] citation markers as they are; do not invent new ones or renumber them.",
		p.Query, accumulated,
	)
	resp, err := p.LLM.Invoke(ctx, prompt)
	if err != nil {
		return accumulated, nil
	}
	return resp.Content, nil
}
