// Package evaluator defines the capability contract every metric scorer
// implements and the registry that maps metric names to implementations.
package evaluator

import (
	"context"

	"github.com/mindwell-ai/convo-eval/internal/models"
)

// Evaluator computes exactly one named metric over a conversation. The
// contract constrains only the return shape; side effects (network calls,
// model inference) are implementation-specific. An empty conversation is a
// usage error, never a silent empty result.
type Evaluator interface {
	// MetricName returns the metric this evaluator computes. It is constant
	// for the lifetime of the instance and matches its registry key.
	MetricName() string

	// Evaluate scores the conversation and returns a normalized result.
	Evaluate(ctx context.Context, conv models.Conversation, opts models.Options) (*models.EvaluationResult, error)
}

// CheckConversation is the shared input guard for implementations.
func CheckConversation(conv models.Conversation) error {
	return conv.Validate()
}
