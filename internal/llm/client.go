// Package llm abstracts the model backends the LLM-judge evaluators call.
package llm

import "context"

// Client invokes a completion model. Implementations wrap a specific
// provider; tests substitute a mock.
type Client interface {
	Complete(ctx context.Context, req Request) (*Response, error)
	CompleteWithRetry(ctx context.Context, req Request) (*Response, error)
}

// Request is a single-prompt completion call.
type Request struct {
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Response carries the raw model output.
type Response struct {
	Content    string
	StopReason string
}
