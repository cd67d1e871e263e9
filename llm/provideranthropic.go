package llm

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const anthropicDefaultMaxTokens = 4096

// anthropicClient backs Provider "anthropic", built directly on
// anthropic-sdk-go the way model/anthropic.anthropicModel does, minus that
// type's dependency on the adk model/genai request-conversion framework:
// this client only needs a single prompt string in, a string out.
type anthropicClient struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

func newAnthropicClient(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm: anthropic provider requires an API key")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("llm: anthropic provider requires a model name")
	}

	client := anthropic.NewClient(option.WithAPIKey(cfg.APIKey))

	return &anthropicClient{
		client:    client,
		model:     anthropic.Model(cfg.Model),
		maxTokens: anthropicDefaultMaxTokens,
	}, nil
}

func (c *anthropicClient) Invoke(ctx context.Context, prompt string) (*Response, error) {
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("llm: anthropic invoke: %w", err)
	}

	var text string
	for _, block := range msg.Content {
		switch variant := block.AsAny().(type) {
		case anthropic.TextBlock:
			text += variant.Text
		}
	}

	return &Response{Content: text}, nil
}
