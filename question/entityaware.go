package question

import (
	"context"
	"fmt"
	"strings"

	"github.com/ujesh-sakariya/deepresearch-go/llm"
	"github.com/ujesh-sakariya/deepresearch-go/types"
)

var entityKeywords = []string{"who", "which", "identify", "character", "author", "whom", "named", "person"}

type entityAware struct {
	client   llm.Client
	standard Generator
}

// NewEntityAware builds the entity-aware QuestionGenerator: when the query
// carries entity-identification intent, it emits queries combining
// multiple identifying constraints; otherwise it falls back to standard.
func NewEntityAware(client llm.Client) Generator {
	return &entityAware{client: client, standard: NewStandard(client)}
}

func (g *entityAware) Generate(ctx context.Context, currentKnowledge, query string, n int, byIteration types.QuestionsByIteration) ([]string, error) {
	if !hasEntityIntent(query) {
		return g.standard.Generate(ctx, currentKnowledge, query, n, byIteration)
	}

	prompt := fmt.Sprintf(
		"The question %q is asking to identify a specific entity (person, place, character, or work). "+
			"Generate %d search questions that each combine multiple identifying constraints from the "+
			"question, optionally as quoted exact phrases, to narrow down the single matching entity. "+
			"Respond with one question per line, each prefixed with \"Q:\".",
		query, n,
	)

	text, err := invoke(ctx, g.client, prompt)
	if err != nil {
		return nil, err
	}

	qs := parseQLines(text, n)
	if len(qs) == 0 {
		return defaultQuestions(query, n), nil
	}
	return qs, nil
}

func hasEntityIntent(query string) bool {
	lower := strings.ToLower(query)
	for _, kw := range entityKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
