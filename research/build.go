package research

import (
	"fmt"

	"github.com/ujesh-sakariya/deepresearch-go/knowledge"
	"github.com/ujesh-sakariya/deepresearch-go/llm"
	"github.com/ujesh-sakariya/deepresearch-go/question"
	"github.com/ujesh-sakariya/deepresearch-go/strategy"
	"github.com/ujesh-sakariya/deepresearch-go/types"
)

// buildQuestionGenerator resolves the named question-generator variant,
// per spec.md §4.4's five variants.
func buildQuestionGenerator(name string, client llm.Client) (question.Generator, error) {
	switch name {
	case "", "standard":
		return question.NewStandard(client), nil
	case "decomposition":
		return question.NewDecomposition(client), nil
	case "atomic_fact":
		return question.NewAtomicFact(client), nil
	case "entity_aware":
		return question.NewEntityAware(client), nil
	case "browse_comp":
		return question.NewBrowseComp(client), nil
	default:
		return nil, fmt.Errorf("research: unknown question generator %q", name)
	}
}

// buildStrategy resolves the named strategy variant over params, per
// spec.md §4.7's seven variants. focused_iteration, iterdrag and
// entity_aware_source replace params.QuestionGen with the browse-comp,
// decomposition and entity-aware generator respectively.
func buildStrategy(name string, params *strategy.Params) (strategy.Strategy, error) {
	switch name {
	case "", "standard":
		return strategy.NewStandard(params), nil
	case "parallel":
		return strategy.NewParallel(params), nil
	case "rapid":
		return strategy.NewRapid(params), nil
	case "source_based":
		return strategy.NewSourceBased(params), nil
	case "focused_iteration":
		params.QuestionGen = question.NewBrowseComp(params.LLM)
		return strategy.NewFocusedIteration(params, strategy.DefaultFocusedIterationConfig()), nil
	case "iterdrag":
		params.QuestionGen = question.NewDecomposition(params.LLM)
		return strategy.NewIterDRAG(params), nil
	case "entity_aware_source":
		params.QuestionGen = question.NewEntityAware(params.LLM)
		return strategy.NewEntityAwareSource(params), nil
	default:
		return nil, fmt.Errorf("research: unknown strategy %q", name)
	}
}

// buildCompressor resolves a knowledge.Compressor for settings.
func buildCompressor(policy types.KnowledgeAccumulationPolicy, client llm.Client, maxChars int) knowledge.Compressor {
	return knowledge.New(policy, client, maxChars)
}
