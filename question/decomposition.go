package question

import (
	"context"
	"fmt"
	"strings"

	"github.com/ujesh-sakariya/deepresearch-go/llm"
	"github.com/ujesh-sakariya/deepresearch-go/types"
)

var interrogativePrefixes = []string{"what is", "what are", "who is", "who are", "which", "how", "why", "when", "where"}
var subordinators = []string{" that ", " which ", " who ", " because ", " if ", " when ", " while "}

type decomposition struct {
	client   llm.Client
	standard Generator
}

// NewDecomposition builds the IterDRAG decomposition QuestionGenerator: on
// the first call it splits the query into 2-5 atomic sub-queries, and on
// later calls it behaves exactly like the standard generator.
func NewDecomposition(client llm.Client) Generator {
	return &decomposition{client: client, standard: NewStandard(client)}
}

func (g *decomposition) Generate(ctx context.Context, currentKnowledge, query string, n int, byIteration types.QuestionsByIteration) ([]string, error) {
	if currentKnowledge != "" || len(byIteration) > 0 {
		return g.standard.Generate(ctx, currentKnowledge, query, n, byIteration)
	}

	subject := isolatePrimarySubject(query)
	prompt := fmt.Sprintf(
		"Split the following into 2 to 5 atomic sub-queries that, answered in sequence, fully answer it: %q. "+
			"Focus on: %q. Respond with one sub-query per line, each prefixed with \"Q:\".",
		query, subject,
	)

	text, err := invoke(ctx, g.client, prompt)
	if err != nil {
		return nil, err
	}

	qs := parseQLines(text, n)
	if len(qs) == 0 {
		return defaultQuestions(query, maxInt(n, 2)), nil
	}
	return qs, nil
}

// isolatePrimarySubject strips a leading interrogative phrase and splits
// on the first subordinating conjunction, returning what's left as the
// query's primary subject.
func isolatePrimarySubject(query string) string {
	lower := strings.ToLower(strings.TrimSpace(query))
	stripped := query
	for _, p := range interrogativePrefixes {
		if strings.HasPrefix(lower, p) {
			stripped = strings.TrimSpace(query[len(p):])
			break
		}
	}

	for _, sub := range subordinators {
		if idx := strings.Index(strings.ToLower(stripped), sub); idx >= 0 {
			stripped = strings.TrimSpace(stripped[:idx])
			break
		}
	}

	stripped = strings.TrimRight(stripped, "? ")
	if stripped == "" {
		return query
	}
	return stripped
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
