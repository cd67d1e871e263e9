package llm

import (
	"os"
	"strconv"
	"strings"
)

// NewFromEnv builds a Config from the process environment, following the
// same read-from-env-if-unset pattern as the Anthropic model's
// GetVariant()/Config: explicit fields win, environment variables fill the
// rest, and an unset LDR_PROVIDER degrades to the fallback client rather
// than failing outright.
//
// Recognized variables:
//
//	LDR_PROVIDER        one of the Provider constants
//	LDR_MODEL           model name passed to the provider
//	LDR_LLM_API_KEY     API key (ANTHROPIC_API_KEY / OPENAI_API_KEY also honored per-provider)
//	LDR_LLM_BASE_URL    base URL override, required for openai_endpoint/vllm (ollama/lmstudio/llamacpp default to a localhost URL)
//	LDR_USE_FALLBACK_LLM  "1"/"true" forces the deterministic fallback client
func NewFromEnv() Config {
	cfg := Config{
		Provider: Provider(strings.TrimSpace(os.Getenv("LDR_PROVIDER"))),
		Model:    os.Getenv("LDR_MODEL"),
		APIKey:   os.Getenv("LDR_LLM_API_KEY"),
		BaseURL:  os.Getenv("LDR_LLM_BASE_URL"),
	}

	if cfg.Provider == "" {
		cfg.Provider = ProviderFallback
	}

	if fb, _ := strconv.ParseBool(strings.TrimSpace(os.Getenv("LDR_USE_FALLBACK_LLM"))); fb {
		cfg.UseFallback = true
	}

	switch cfg.Provider {
	case ProviderAnthropic:
		if cfg.APIKey == "" {
			cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if cfg.Model == "" {
			cfg.Model = "claude-3-7-sonnet-latest"
		}
	case ProviderOpenAI:
		if cfg.APIKey == "" {
			cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		if cfg.Model == "" {
			cfg.Model = "gpt-4o-mini"
		}
	case ProviderOllama:
		if cfg.BaseURL == "" {
			cfg.BaseURL = "http://localhost:11434/v1"
		}
		if cfg.Model == "" {
			cfg.Model = "llama3"
		}
	case ProviderLMStudio:
		if cfg.BaseURL == "" {
			cfg.BaseURL = "http://localhost:1234/v1"
		}
	case ProviderLlamaCPP:
		if cfg.BaseURL == "" {
			cfg.BaseURL = "http://localhost:8080/v1"
		}
	case ProviderVLLM, ProviderOpenAIEndpoint:
		// BaseURL is mandatory for these; an empty value is caught by
		// newOpenAICompatClient and degrades to the fallback client.
	}

	return cfg
}
