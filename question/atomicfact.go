package question

import (
	"context"
	"fmt"
	"strings"

	"github.com/ujesh-sakariya/deepresearch-go/llm"
	"github.com/ujesh-sakariya/deepresearch-go/types"
)

type atomicFact struct {
	client llm.Client
}

// NewAtomicFact builds the atomic-fact QuestionGenerator: every question
// targets one independently searchable fact.
func NewAtomicFact(client llm.Client) Generator {
	return &atomicFact{client: client}
}

func (g *atomicFact) Generate(ctx context.Context, currentKnowledge, query string, n int, byIteration types.QuestionsByIteration) ([]string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Query: %s\n\n", query)

	if currentKnowledge == "" && len(byIteration) == 0 {
		fmt.Fprintf(&b, "Decompose this into %d independently searchable single-fact questions — each should "+
			"ask for exactly one discrete fact, not a compound claim. Respond with one question per line, "+
			"each prefixed with \"Q:\".", n)
	} else {
		if currentKnowledge != "" {
			fmt.Fprintf(&b, "Facts established so far:\n%s\n\n", currentKnowledge)
		}
		if past := pastQuestions(byIteration); len(past) > 0 {
			fmt.Fprintf(&b, "Already asked:\n- %s\n\n", strings.Join(past, "\n- "))
		}
		fmt.Fprintf(&b, "Generate %d more single-fact questions that either fill a remaining gap or test a "+
			"combination of facts already established. Respond with one question per line, each prefixed "+
			"with \"Q:\".", n)
	}

	text, err := invoke(ctx, g.client, b.String())
	if err != nil {
		return nil, err
	}

	qs := parseQLines(text, n)
	if len(qs) == 0 {
		return defaultQuestions(query, n), nil
	}
	return qs, nil
}
