package llm

import (
	"context"
	"fmt"
)

// fallbackClient is the deterministic, offline LLM client used whenever no
// real provider is configured or a real provider construction fails. It
// never makes a network call, so the rest of the pipeline (question
// generation, compression, citation synthesis) keeps producing
// syntactically valid output under LDR_USE_FALLBACK_LLM or in CI.
type fallbackClient struct{}

// NewFallback returns the deterministic fallback Client.
func NewFallback() Client {
	return fallbackClient{}
}

func (fallbackClient) Invoke(_ context.Context, prompt string) (*Response, error) {
	return &Response{Content: fmt.Sprintf("[fallback-llm] no response generated for prompt of %d characters", len(prompt))}, nil
}
