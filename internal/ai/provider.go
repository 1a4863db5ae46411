// Package ai generates recipe drafts from a chat-completion model. The
// provider abstraction keeps the prompt and parsing logic independent of
// which vendor serves the completion.
package ai

import "context"

// Provider is a single-turn text completion backend.
type Provider interface {
	// Completion sends one prompt and returns the raw model output.
	Completion(ctx context.Context, prompt string) (string, error)
}
