package citation

import (
	"context"
	"strings"
	"testing"

	"github.com/ujesh-sakariya/deepresearch-go/llm"
	"github.com/ujesh-sakariya/deepresearch-go/types"
)

// fakeLLMClient implements llm.Client, recording the last prompt and
// returning a single fixed response.
type fakeLLMClient struct {
	lastPrompt string
	response   string
}

func (c *fakeLLMClient) Invoke(_ context.Context, prompt string) (*llm.Response, error) {
	c.lastPrompt = prompt
	return &llm.Response{Content: c.response}, nil
}

// sequencedLLMClient returns responses in order, one per call, recording
// every prompt it saw.
type sequencedLLMClient struct {
	responses []string
	prompts   []string
}

func (c *sequencedLLMClient) Invoke(_ context.Context, prompt string) (*llm.Response, error) {
	c.prompts = append(c.prompts, prompt)
	idx := len(c.prompts) - 1
	if idx >= len(c.responses) {
		return &llm.Response{Content: ""}, nil
	}
	return &llm.Response{Content: c.responses[idx]}, nil
}

func TestBuildDocuments_AssignsOffsetIndices(t *testing.T) {
	results := []types.SearchResult{
		{Title: "A", Link: "http://a", Snippet: "snippet a"},
		{Title: "B", Link: "http://b", FullContent: "full b"},
	}

	docs := buildDocuments(results, 5)
	if len(docs) != 2 {
		t.Fatalf("got %d documents, want 2", len(docs))
	}
	if docs[0].Metadata.Index != 6 || docs[1].Metadata.Index != 7 {
		t.Errorf("indices = %d, %d; want 6, 7", docs[0].Metadata.Index, docs[1].Metadata.Index)
	}
	if docs[0].PageContent != "snippet a" {
		t.Errorf("doc 0 content = %q, want snippet fallback", docs[0].PageContent)
	}
	if docs[1].PageContent != "full b" {
		t.Errorf("doc 1 content = %q, want full content", docs[1].PageContent)
	}
}

func TestHandle_InitialAnalysisPromptHasNoBibliographyInstruction(t *testing.T) {
	client := &fakeLLMClient{response: "cited text [1]"}
	h := New(client, Config{})

	results := []types.SearchResult{{Title: "A", Link: "http://a", Snippet: "s"}}
	res, err := h.Handle(context.Background(), "what is X?", results, "", 0)
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if res.Content != "cited text [1]" {
		t.Errorf("Content = %q", res.Content)
	}
	if len(res.Documents) != 1 || res.Documents[0].Metadata.Index != 1 {
		t.Fatalf("Documents = %+v", res.Documents)
	}
	if !strings.Contains(client.lastPrompt, "cite inline as [n]") {
		t.Errorf("initial-analysis prompt missing citation instruction: %q", client.lastPrompt)
	}
	if strings.Contains(client.lastPrompt, "Previously established knowledge") {
		t.Errorf("initial-analysis prompt should not reference prior knowledge: %q", client.lastPrompt)
	}
}

func TestHandle_FollowUpIncludesPreviousKnowledge(t *testing.T) {
	client := &fakeLLMClient{response: "more cited text [3]"}
	h := New(client, Config{})

	results := []types.SearchResult{{Title: "C", Link: "http://c", Snippet: "s"}}
	_, err := h.Handle(context.Background(), "what else?", results, "X was established earlier.", 2)
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if !strings.Contains(client.lastPrompt, "X was established earlier.") {
		t.Errorf("follow-up prompt missing previous knowledge: %q", client.lastPrompt)
	}
}

func TestHandle_FactCheckRunsCrossReferenceFirst(t *testing.T) {
	client := &sequencedLLMClient{responses: []string{"no contradictions found", "final synthesis [1]"}}
	h := New(client, Config{FactCheck: true})

	results := []types.SearchResult{{Title: "A", Link: "http://a", Snippet: "s"}}
	res, err := h.Handle(context.Background(), "q", results, "prior knowledge", 0)
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if res.Content != "final synthesis [1]" {
		t.Errorf("Content = %q, want final synthesis result", res.Content)
	}
	if len(client.prompts) != 2 {
		t.Fatalf("got %d LLM calls, want 2 (cross-reference + synthesis)", len(client.prompts))
	}
	if !strings.Contains(client.prompts[1], "no contradictions found") {
		t.Errorf("synthesis prompt should include the cross-reference critique: %q", client.prompts[1])
	}
}

func TestNewForcedAnswer_InstructsCommitment(t *testing.T) {
	client := &fakeLLMClient{response: "the answer is 42"}
	h := NewForcedAnswer(client)

	results := []types.SearchResult{{Title: "A", Link: "http://a", Snippet: "s"}}
	_, err := h.Handle(context.Background(), "q", results, "", 0)
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if !strings.Contains(client.lastPrompt, "Always commit to a single final answer") {
		t.Errorf("forced-answer prompt missing commitment instruction: %q", client.lastPrompt)
	}
}
