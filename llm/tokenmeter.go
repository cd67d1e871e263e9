package llm

import (
	"context"
	"strings"

	"github.com/ujesh-sakariya/deepresearch-go/internal/telemetrymeter"
)

// Recorder receives token-usage observations. Implementations must not
// block the caller for long; the metered client records on the same
// goroutine that called Invoke.
type Recorder interface {
	RecordTokens(ctx context.Context, provider, model string, promptTokens, completionTokens int64)
}

// meterRecorder adapts *telemetrymeter.Meter to Recorder.
type meterRecorder struct{ m *telemetrymeter.Meter }

func (r meterRecorder) RecordTokens(ctx context.Context, provider, model string, prompt, completion int64) {
	r.m.RecordTokens(ctx, provider, model, prompt, completion)
}

// NewMeteredRecorder wraps an otel-backed Meter as a Recorder.
func NewMeteredRecorder(m *telemetrymeter.Meter) Recorder {
	return meterRecorder{m: m}
}

// meteredClient wraps a Client, estimating token usage from whitespace-
// delimited word counts of the prompt and the response (Response carries
// no provider usage figures), and forwarding the result to a Recorder.
type meteredClient struct {
	inner    Client
	provider string
	model    string
	recorder Recorder
}

// WithMetering wraps client so every Invoke call reports token usage to
// recorder under the given provider/model labels.
func WithMetering(client Client, provider, model string, recorder Recorder) Client {
	if recorder == nil {
		return client
	}
	return &meteredClient{inner: client, provider: provider, model: model, recorder: recorder}
}

func (c *meteredClient) Invoke(ctx context.Context, prompt string) (*Response, error) {
	resp, err := c.inner.Invoke(ctx, prompt)
	if err != nil {
		return nil, err
	}
	promptTokens := estimateTokens(prompt)
	completionTokens := estimateTokens(resp.Content)
	c.recorder.RecordTokens(ctx, c.provider, c.model, promptTokens, completionTokens)
	return resp, nil
}

// estimateTokens approximates token count as whitespace-delimited word
// count; every metered Invoke is counted this way.
func estimateTokens(s string) int64 {
	return int64(len(strings.Fields(s)))
}
