package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/liushuangls/go-anthropic/v2"
	"github.com/rs/zerolog/log"
)

// AnthropicProvider serves completions from the Anthropic Messages API.
type AnthropicProvider struct {
	client    *anthropic.Client
	model     anthropic.Model
	maxTokens int
}

// NewAnthropicProvider builds a provider for the given model. An empty
// model falls back to Claude 3.5 Haiku.
func NewAnthropicProvider(apiKey, model string) *AnthropicProvider {
	m := anthropic.Model(model)
	if model == "" {
		m = anthropic.ModelClaude3Dot5HaikuLatest
	}
	return &AnthropicProvider{
		client:    anthropic.NewClient(apiKey),
		model:     m,
		maxTokens: 4096,
	}
}

// Completion implements Provider.
func (p *AnthropicProvider) Completion(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	resp, err := p.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     p.model,
		MaxTokens: p.maxTokens,
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic: completion: %w", err)
	}

	text := resp.GetFirstContentText()
	log.Debug().
		Str("model", string(p.model)).
		Int("input_tokens", resp.Usage.InputTokens).
		Int("output_tokens", resp.Usage.OutputTokens).
		Dur("elapsed", time.Since(start)).
		Msg("completion served")
	return text, nil
}
