// Package knowledge implements the KnowledgeCompressor: folding
// accumulated findings plus a section's links into a compact IEEE-style
// explanation, under one of four accumulation policies.
package knowledge

import (
	"context"
	"fmt"
	"strings"

	"github.com/ujesh-sakariya/deepresearch-go/llm"
	"github.com/ujesh-sakariya/deepresearch-go/types"
)

// Compressor is the capability every accumulation policy shares.
type Compressor interface {
	Compress(ctx context.Context, currentKnowledge, query string, sectionLinks []types.SearchResult) (string, error)
}

// ShouldCompress reports whether policy triggers compression at the given
// checkpoint. iterationComplete/questionComplete identify which checkpoint
// just occurred.
func ShouldCompress(policy types.KnowledgeAccumulationPolicy, iterationComplete, questionComplete bool) bool {
	switch policy {
	case types.AccumulateIteration:
		return iterationComplete
	case types.AccumulateQuestion:
		return questionComplete
	case types.AccumulateMaxNrOfCharacters:
		return iterationComplete || questionComplete
	case types.AccumulateNoKnowledge:
		return false
	default:
		return false
	}
}

type llmCompressor struct {
	client llm.Client
}

// NewLLMCompressor builds the default Compressor, used under the
// ITERATION and QUESTION policies.
func NewLLMCompressor(client llm.Client) Compressor {
	return &llmCompressor{client: client}
}

func (c *llmCompressor) Compress(ctx context.Context, currentKnowledge, query string, sectionLinks []types.SearchResult) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Query: %s\n\n", query)
	if currentKnowledge != "" {
		fmt.Fprintf(&b, "Current knowledge:\n%s\n\n", currentKnowledge)
	}
	b.WriteString("Summarize the current knowledge into a one-page explanation in IEEE citation style " +
		"(cite as [n] matching the source number below), followed by a one-sentence direct answer to the " +
		"query. Do not invent sources; do not include a bibliography, it is appended separately.\n\n")

	b.WriteString("Sources:\n")
	for _, link := range sectionLinks {
		fmt.Fprintf(&b, "[%d] %s (%s)\n", link.Index, link.Title, link.Link)
	}

	resp, err := c.client.Invoke(ctx, b.String())
	if err != nil {
		return "", fmt.Errorf("knowledge: compress: %w", err)
	}
	return resp.Content, nil
}

// noKnowledgeCompressor implements the NO_KNOWLEDGE policy: it never
// calls the LLM and always returns currentKnowledge unchanged.
type noKnowledgeCompressor struct{}

// NewNoKnowledge builds the Compressor for the NO_KNOWLEDGE policy.
func NewNoKnowledge() Compressor { return noKnowledgeCompressor{} }

func (noKnowledgeCompressor) Compress(_ context.Context, currentKnowledge, _ string, _ []types.SearchResult) (string, error) {
	return currentKnowledge, nil
}

// charBudgetCompressor implements the MAX_NR_OF_CHARACTERS policy: pure
// truncation, no LLM call.
type charBudgetCompressor struct {
	maxChars int
}

// NewCharBudget builds the Compressor for the MAX_NR_OF_CHARACTERS policy,
// truncating currentKnowledge to maxChars.
func NewCharBudget(maxChars int) Compressor {
	return charBudgetCompressor{maxChars: maxChars}
}

func (c charBudgetCompressor) Compress(_ context.Context, currentKnowledge, _ string, _ []types.SearchResult) (string, error) {
	if len(currentKnowledge) <= c.maxChars {
		return currentKnowledge, nil
	}
	return currentKnowledge[:c.maxChars], nil
}

// New resolves the Compressor for policy, given the LLM client to use for
// the ITERATION/QUESTION policies and the character budget for
// MAX_NR_OF_CHARACTERS.
func New(policy types.KnowledgeAccumulationPolicy, client llm.Client, maxChars int) Compressor {
	switch policy {
	case types.AccumulateMaxNrOfCharacters:
		return NewCharBudget(maxChars)
	case types.AccumulateNoKnowledge:
		return NewNoKnowledge()
	default:
		return NewLLMCompressor(client)
	}
}
