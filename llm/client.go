// Package llm provides the LLMClient capability the research engine
// consumes: a single Invoke(prompt) -> Response call, backed by one of a
// whitelisted set of providers, with optional token metering
// (WithMetering). StripThinkTags removes reasoning spans from a string;
// the clients New returns do not apply it, so their Response.Content is
// the provider's text unchanged.
//
// Provider selection itself (which model, which credentials) is out of
// scope for the research core per spec.md §1 — this package only needs to
// honor the provider-name contract and degrade gracefully when a provider
// is unavailable.
package llm

import (
	"context"
	"fmt"
)

// Response is what a Client returns for one prompt completion.
type Response struct {
	Content string
}

// Client is the capability every LLM-backed component in this module
// depends on.
type Client interface {
	Invoke(ctx context.Context, prompt string) (*Response, error)
}

// Provider names recognized by NewFromEnv, matching spec.md §4.2's
// whitelist exactly.
type Provider string

const (
	ProviderOllama         Provider = "ollama"
	ProviderOpenAI         Provider = "openai"
	ProviderAnthropic      Provider = "anthropic"
	ProviderOpenAIEndpoint Provider = "openai_endpoint"
	ProviderLMStudio       Provider = "lmstudio"
	ProviderLlamaCPP       Provider = "llamacpp"
	ProviderVLLM           Provider = "vllm"
	ProviderFallback       Provider = "fallback"
)

var validProviders = map[Provider]bool{
	ProviderOllama:         true,
	ProviderOpenAI:         true,
	ProviderAnthropic:      true,
	ProviderOpenAIEndpoint: true,
	ProviderLMStudio:       true,
	ProviderLlamaCPP:       true,
	ProviderVLLM:           true,
	ProviderFallback:       true,
}

// ValidProvider reports whether p is one of the whitelisted providers.
func ValidProvider(p Provider) bool {
	return validProviders[p]
}

// Config configures client construction. Model/APIKey/BaseURL are
// interpreted per-provider; see NewFromEnv.
type Config struct {
	Provider Provider
	Model    string
	APIKey   string
	BaseURL  string

	// UseFallback forces the deterministic fallback client regardless of
	// Provider, mirroring LDR_USE_FALLBACK_LLM from original_source's
	// config/llm_config.py (useful for CI/offline runs).
	UseFallback bool
}

// New constructs a Client for cfg.Provider, validated against the
// whitelist. A provider name outside the whitelist is an error. A
// whitelisted provider that cannot be constructed (missing API key, model
// or base URL) does not return an error: it degrades to the deterministic
// fallback client instead.
func New(ctx context.Context, cfg Config) (Client, error) {
	if cfg.UseFallback {
		return NewFallback(), nil
	}
	if !ValidProvider(cfg.Provider) {
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
	}

	var (
		client Client
		err    error
	)

	switch cfg.Provider {
	case ProviderAnthropic:
		client, err = newAnthropicClient(cfg)
	case ProviderOpenAI, ProviderOpenAIEndpoint, ProviderLMStudio, ProviderLlamaCPP, ProviderVLLM, ProviderOllama:
		client, err = newOpenAICompatClient(cfg)
	case ProviderFallback:
		return NewFallback(), nil
	}

	if err != nil || client == nil {
		return NewFallback(), nil
	}
	return client, nil
}
