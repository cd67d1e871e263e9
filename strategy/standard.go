package strategy

import (
	"context"
	"fmt"

	"github.com/ujesh-sakariya/deepresearch-go/knowledge"
	"github.com/ujesh-sakariya/deepresearch-go/types"
)

// standard is the default strategy: sequential iterations, each
// generating questionsPerIteration sub-questions, searching and
// analyzing each in turn, with optional per-question and per-iteration
// knowledge compression, per spec.md §4.7.1's state machine.
type standard struct {
	params *Params
}

// NewStandard builds the default sequential strategy.
func NewStandard(p *Params) Strategy {
	return &standard{params: p}
}

func (s *standard) Analyze(ctx context.Context) (*Result, error) {
	p := s.params
	p.reportProgress(ctx, 0, "init", "starting research")

	currentKnowledge := ""
	tracker := &progressTracker{}
	iterations := 0

	for iteration := 1; iteration <= p.MaxIterations; iteration++ {
		if err := p.checkTerminated(ctx); err != nil {
			return nil, err
		}
		iterations = iteration
		tracker.next(p, ctx, iterationProgress(iteration, p.MaxIterations, 0, p.QuestionsPerIteration), "iteration_start", fmt.Sprintf("iteration %d", iteration))

		byIteration := p.Repo.QuestionsByIteration()
		questions, err := p.QuestionGen.Generate(ctx, currentKnowledge, p.Query, p.QuestionsPerIteration, byIteration)
		if err != nil {
			return nil, fmt.Errorf("strategy: generate questions: %w", err)
		}
		p.Repo.RecordQuestions(iteration, questions)

		for qi, q := range questions {
			if err := p.checkTerminated(ctx); err != nil {
				return nil, err
			}
			tracker.next(p, ctx, iterationProgress(iteration, p.MaxIterations, qi, len(questions)), "search", q)

			compressPerQuestion := knowledgeShouldCompress(p, false, true)
			newKnowledge, produced, err := runOneQuestion(ctx, p, "standard", iteration, q, currentKnowledge, compressPerQuestion)
			if err != nil {
				return nil, err
			}
			if produced {
				currentKnowledge = newKnowledge
				tracker.next(p, ctx, iterationProgress(iteration, p.MaxIterations, qi+1, len(questions)), "analysis_complete", q)
			}
		}

		if knowledgeShouldCompress(p, true, false) && p.Compressor != nil {
			tracker.next(p, ctx, tracker.max, "knowledge_compression", "compressing accumulated knowledge")
			compressed, err := p.Compressor.Compress(ctx, currentKnowledge, p.Query, p.Repo.LinksOfSystem())
			if err != nil {
				return nil, fmt.Errorf("strategy: compress iteration knowledge: %w", err)
			}
			currentKnowledge = compressed
		}
		tracker.next(p, ctx, iterationProgress(iteration, p.MaxIterations, len(questions), len(questions)), "iteration_complete", fmt.Sprintf("iteration %d complete", iteration))
	}

	if err := p.checkTerminated(ctx); err != nil {
		return nil, err
	}
	p.reportProgress(ctx, 100, "complete", "research complete")
	return finalize(p, iterations, currentKnowledge), nil
}

// knowledgeShouldCompress adapts knowledge.ShouldCompress to the
// strategy's policy field, treating a nil compressor or NO_KNOWLEDGE
// policy as "never compress" regardless of the completion flags.
func knowledgeShouldCompress(p *Params, iterationComplete, questionComplete bool) bool {
	if p.Compressor == nil || p.KnowledgeAccumulation == types.AccumulateNoKnowledge {
		return false
	}
	return knowledge.ShouldCompress(p.KnowledgeAccumulation, iterationComplete, questionComplete)
}
