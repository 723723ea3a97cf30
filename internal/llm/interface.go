// Package llm defines the completion interface used by the insight
// generator, with Anthropic and OpenAI implementations.
package llm

import "context"

// Provider produces a text completion for a prompt.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)
}

// CompletionRequest holds a single-turn completion request.
type CompletionRequest struct {
	System    string
	Prompt    string
	MaxTokens int
}

// Completion holds the response and token accounting.
type Completion struct {
	Content      string
	InputTokens  int
	OutputTokens int
}
