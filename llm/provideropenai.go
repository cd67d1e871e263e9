package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// openAICompatClient backs six provider names that all speak the same
// chat-completions wire format: openai, openai_endpoint, lmstudio,
// llamacpp, vllm and ollama. Rather than six bespoke REST clients, one
// openai-go client is reused with BaseURL pointed at whichever endpoint
// the provider name implies, the same NewClient(option.With...) shape
// Tangerg/lynx's openai extension uses.
type openAICompatClient struct {
	client openai.Client
	model  string
}

func newOpenAICompatClient(cfg Config) (Client, error) {
	if cfg.Provider != ProviderOpenAI && cfg.BaseURL == "" {
		return nil, fmt.Errorf("llm: provider %q requires a base URL", cfg.Provider)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("llm: provider %q requires a model name", cfg.Provider)
	}

	opts := []option.RequestOption{}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	} else if cfg.Provider != ProviderOpenAI {
		// Local inference servers (lmstudio, llamacpp, vllm, ollama)
		// typically don't require a real key, but the client needs a
		// non-empty one to construct valid Authorization headers.
		opts = append(opts, option.WithAPIKey("not-needed"))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &openAICompatClient{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
	}, nil
}

func (c *openAICompatClient) Invoke(ctx context.Context, prompt string) (*Response, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("llm: openai-compatible invoke (%s): %w", c.model, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("llm: openai-compatible invoke (%s): no choices returned", c.model)
	}

	return &Response{Content: resp.Choices[0].Message.Content}, nil
}
