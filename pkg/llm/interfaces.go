// Package llm provides language-model clients for SQL generation and
// answer composition.
package llm

import (
	"context"
)

// LLMClient defines the interface for language-model operations.
// Use this interface for dependency injection to enable mocking in tests.
// Implementations must be safe for concurrent use by multiple in-flight
// pipelines; cancellation and timeouts are observed through ctx.
type LLMClient interface {
	// GenerateResponse generates a completion for the prompt.
	GenerateResponse(ctx context.Context, prompt string, systemMessage string, temperature float64) (string, error)

	// GetModel returns the configured model name.
	GetModel() string
}

// Ensure clients implement LLMClient at compile time.
var (
	_ LLMClient = (*OpenAIClient)(nil)
	_ LLMClient = (*AnthropicClient)(nil)
)
