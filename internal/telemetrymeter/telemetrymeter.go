// Package telemetrymeter wires the otel metric instruments shared by llm,
// progress, and research: token counts, progress events published, and
// research outcomes. It deliberately stops short of exporter setup
// (otlptracehttp/otlploghttp as basegraphhq-basegraph/relay/common/otel
// does for traces and logs) since this module has no collector endpoint in
// its configuration surface — callers that want export wire their own
// otel.SetMeterProvider before constructing a Meter.
package telemetrymeter

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Meter bundles the instruments this module records against.
type Meter struct {
	TokensPrompt     metric.Int64Counter
	TokensCompletion metric.Int64Counter
	ProgressEvents   metric.Int64Counter
	ResearchOutcomes metric.Int64Counter
}

// New creates a Meter against the global otel MeterProvider, under the
// instrumentation name "deepresearch-go".
func New() (*Meter, error) {
	m := otel.Meter("deepresearch-go")

	tokensPrompt, err := m.Int64Counter("llm.tokens.prompt",
		metric.WithDescription("prompt tokens sent to an LLM provider"))
	if err != nil {
		return nil, fmt.Errorf("telemetrymeter: prompt counter: %w", err)
	}

	tokensCompletion, err := m.Int64Counter("llm.tokens.completion",
		metric.WithDescription("completion tokens returned by an LLM provider"))
	if err != nil {
		return nil, fmt.Errorf("telemetrymeter: completion counter: %w", err)
	}

	progressEvents, err := m.Int64Counter("research.progress.events",
		metric.WithDescription("progress events published on the progress bus"))
	if err != nil {
		return nil, fmt.Errorf("telemetrymeter: progress counter: %w", err)
	}

	researchOutcomes, err := m.Int64Counter("research.outcomes",
		metric.WithDescription("completed research runs, by terminal status"))
	if err != nil {
		return nil, fmt.Errorf("telemetrymeter: outcomes counter: %w", err)
	}

	return &Meter{
		TokensPrompt:     tokensPrompt,
		TokensCompletion: tokensCompletion,
		ProgressEvents:   progressEvents,
		ResearchOutcomes: researchOutcomes,
	}, nil
}

// RecordTokens records a single LLM invocation's token usage, tagged by
// provider and model.
func (m *Meter) RecordTokens(ctx context.Context, provider, model string, promptTokens, completionTokens int64) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("model", model),
	)
	m.TokensPrompt.Add(ctx, promptTokens, attrs)
	m.TokensCompletion.Add(ctx, completionTokens, attrs)
}

// RecordProgressEvent increments the progress-events counter for a phase.
func (m *Meter) RecordProgressEvent(ctx context.Context, phase string) {
	if m == nil {
		return
	}
	m.ProgressEvents.Add(ctx, 1, metric.WithAttributes(attribute.String("phase", phase)))
}

// RecordOutcome increments the research-outcomes counter for a terminal
// status.
func (m *Meter) RecordOutcome(ctx context.Context, status string) {
	if m == nil {
		return
	}
	m.ResearchOutcomes.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}
