package question

import (
	"context"
	"fmt"
	"strings"

	"github.com/ujesh-sakariya/deepresearch-go/llm"
	"github.com/ujesh-sakariya/deepresearch-go/types"
)

type standard struct {
	client llm.Client
}

// NewStandard builds the standard QuestionGenerator.
func NewStandard(client llm.Client) Generator {
	return &standard{client: client}
}

func (g *standard) Generate(ctx context.Context, currentKnowledge, query string, n int, byIteration types.QuestionsByIteration) ([]string, error) {
	prompt := g.buildPrompt(currentKnowledge, query, n, byIteration)

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

func (g *standard) buildPrompt(currentKnowledge, query string, n int, byIteration types.QuestionsByIteration) string {
	if currentKnowledge == "" && len(byIteration) == 0 {
		return fmt.Sprintf(
			"Generate %d high-quality search questions to exactly answer %q, today is %s. "+
				"Respond with one question per line, each prefixed with \"Q:\".",
			n, query, now().Format("2006-01-02"),
		)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Query: %s\n\n", query)
	if currentKnowledge != "" {
		fmt.Fprintf(&b, "Accumulated knowledge so far:\n%s\n\n", currentKnowledge)
	}
	if past := pastQuestions(byIteration); len(past) > 0 {
		fmt.Fprintf(&b, "Questions already asked:\n- %s\n\n", strings.Join(past, "\n- "))
	}
	fmt.Fprintf(&b, "Generate %d new search questions covering what critically remains unanswered. "+
		"Respond with one question per line, each prefixed with \"Q:\".", n)
	return b.String()
}
