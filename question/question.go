// Package question generates the sub-questions a search strategy fans out
// over. All five variants share one capability — generate — and differ
// only in prompt construction and fallback behavior; see standard.go,
// decomposition.go, atomicfact.go, entityaware.go, and browsecomp.go.
package question

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ujesh-sakariya/deepresearch-go/llm"
	"github.com/ujesh-sakariya/deepresearch-go/types"
)

// Generator is the shared capability of every question-generation variant.
type Generator interface {
	Generate(ctx context.Context, currentKnowledge, query string, n int, byIteration types.QuestionsByIteration) ([]string, error)
}

// now is overridable in tests; production code always uses time.Now.
var now = time.Now

// parseQLines keeps lines beginning with "Q:", strips the prefix, trims
// whitespace, drops empties, and caps the result at n — the standard
// generator's parser, reused wherever a later variant falls back to
// standard-shaped output.
func parseQLines(text string, n int) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "Q:") {
			continue
		}
		q := strings.TrimSpace(strings.TrimPrefix(line, "Q:"))
		if q == "" {
			continue
		}
		out = append(out, q)
		if n > 0 && len(out) >= n {
			break
		}
	}
	return out
}

// pastQuestions flattens a QuestionsByIteration map into iteration order.
func pastQuestions(byIteration types.QuestionsByIteration) []string {
	if len(byIteration) == 0 {
		return nil
	}
	var out []string
	for i := 1; i <= len(byIteration); i++ {
		out = append(out, byIteration[i]...)
	}
	return out
}

// invoke wraps client.Invoke with package-consistent error wrapping.
func invoke(ctx context.Context, client llm.Client, prompt string) (string, error) {
	resp, err := client.Invoke(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("question: invoke: %w", err)
	}
	return resp.Content, nil
}

// defaultQuestions is the deterministic fallback used whenever a variant's
// parser yields nothing, so a run never stalls on an unparsable LLM
// response (spec.md §7: generators degrade, they don't raise).
func defaultQuestions(query string, n int) []string {
	if n <= 0 {
		n = 1
	}
	qs := make([]string, 0, n)
	qs = append(qs, query)
	for i := 2; i <= n; i++ {
		qs = append(qs, fmt.Sprintf("%s (aspect %d)", query, i))
	}
	return qs
}
