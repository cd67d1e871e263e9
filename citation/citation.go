// Package citation turns raw search results into numbered, citation-bearing
// synthesized text. Documents are built the way
// examples/research/callbacks.go turns grounding chunks into short-ID
// sources, generalized from that example's `src-N` scheme to the
// contiguous, repository-wide `[n]` numbering this module requires.
package citation

import (
	"context"
	"fmt"
	"strings"

	"github.com/ujesh-sakariya/deepresearch-go/llm"
	"github.com/ujesh-sakariya/deepresearch-go/types"
)

// Result is what Handle returns: synthesized, citation-bearing text plus
// the documents it was allowed to cite.
type Result struct {
	Content   string
	Documents []types.Document
}

// Handler turns (question, results, previous knowledge, link offset) into
// a Result. linkOffset is len(LinksOfSystem) measured before this call's
// results are appended, so assigned indices continue the global,
// monotonically increasing numbering (spec's citation invariant).
type Handler interface {
	Handle(ctx context.Context, question string, results []types.SearchResult, previousKnowledge string, linkOffset int) (*Result, error)
}

// Config controls optional behavior of the default Handler.
type Config struct {
	// FactCheck enables the cross-reference critique pass before
	// follow-up synthesis.
	FactCheck bool
	// ForcedAnswer instructs the synthesis prompt to always commit to a
	// single final answer, for benchmark-style questions.
	ForcedAnswer bool
}

type handler struct {
	client llm.Client
	cfg    Config
}

// New constructs the default CitationHandler.
func New(client llm.Client, cfg Config) Handler {
	return &handler{client: client, cfg: cfg}
}

func (h *handler) Handle(ctx context.Context, question string, results []types.SearchResult, previousKnowledge string, linkOffset int) (*Result, error) {
	documents := buildDocuments(results, linkOffset)

	prompt, err := h.buildPrompt(ctx, question, documents, previousKnowledge)
	if err != nil {
		return nil, fmt.Errorf("citation: build prompt: %w", err)
	}

	resp, err := h.client.Invoke(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("citation: invoke: %w", err)
	}

	return &Result{Content: resp.Content, Documents: documents}, nil
}

// buildDocuments assigns the 1-based index = linkOffset + position + 1 to
// each result, per spec.md §4.3's document construction rule.
func buildDocuments(results []types.SearchResult, linkOffset int) []types.Document {
	documents := make([]types.Document, 0, len(results))
	for i, r := range results {
		documents = append(documents, types.NewDocument(r, linkOffset+i+1))
	}
	return documents
}

func (h *handler) buildPrompt(ctx context.Context, question string, documents []types.Document, previousKnowledge string) (string, error) {
	var sources strings.Builder
	for _, d := range documents {
		fmt.Fprintf(&sources, "[%d] %s (%s)\n%s\n\n", d.Metadata.Index, d.Metadata.Title, d.Metadata.Source, d.PageContent)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n\n", question)

	if previousKnowledge == "" {
		b.WriteString("Analyze these sources concerning the question and cite inline as [n] where n matches the source number. ")
		b.WriteString("Do not invent URLs and do not include a bibliography; a source list is appended separately.\n\n")
	} else {
		if h.cfg.FactCheck {
			critique, err := h.crossReference(ctx, previousKnowledge, sources.String())
			if err != nil {
				return "", err
			}
			if critique != "" {
				fmt.Fprintf(&b, "Cross-reference critique of prior knowledge vs new sources:\n%s\n\n", critique)
			}
		}
		fmt.Fprintf(&b, "Previously established knowledge:\n%s\n\n", previousKnowledge)
		b.WriteString("Incorporate the new sources below, citing inline as [n] where n matches the source number. ")
		b.WriteString("Do not invent URLs and do not include a bibliography.\n\n")
	}

	if h.cfg.ForcedAnswer {
		b.WriteString("Always commit to a single final answer, even under uncertainty; never respond that the question cannot be answered.\n\n")
	}

	b.WriteString("Sources:\n")
	b.WriteString(sources.String())

	return b.String(), nil
}

// crossReference asks the LLM to flag contradictions between previously
// established knowledge and the new sources, returning the critique text
// to be folded into the synthesis prompt.
func (h *handler) crossReference(ctx context.Context, previousKnowledge, sources string) (string, error) {
	prompt := fmt.Sprintf(
		"Compare the previously established knowledge against the new sources below and flag any contradictions or inconsistencies. Be concise.\n\nPrevious knowledge:\n%s\n\nNew sources:\n%s",
		previousKnowledge, sources,
	)
	resp, err := h.client.Invoke(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("cross-reference: %w", err)
	}
	return resp.Content, nil
}

// NewForcedAnswer constructs a Handler variant selectable for
// benchmark-style questions, per spec.md §4.3's forced_answer variant.
func NewForcedAnswer(client llm.Client) Handler {
	return New(client, Config{ForcedAnswer: true})
}
