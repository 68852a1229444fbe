package mcpadapter

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mindwell-ai/convo-eval/internal/evaluator"
	"github.com/mindwell-ai/convo-eval/internal/executor"
	"github.com/mindwell-ai/convo-eval/internal/heuristics"
	"github.com/mindwell-ai/convo-eval/internal/models"
)

func newTestDeps(t *testing.T) (*evaluator.Registry, *executor.Executor) {
	t.Helper()
	logger := zerolog.Nop()

	registry := evaluator.NewRegistry(&logger)
	err := registry.Register(evaluator.Registration{
		MetricName: heuristics.EmotionMetric,
		New: func(opts models.Options) (evaluator.Evaluator, error) {
			return heuristics.NewEmotion(), nil
		},
		UILabel:  "Emotion",
		Category: "Affect",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return registry, executor.New(registry, 0, &logger)
}

func TestListMetricsHandler(t *testing.T) {
	registry, _ := newTestDeps(t)
	handler := NewListMetricsHandler(registry)

	_, out, err := handler(context.Background(), nil, ListMetricsInput{})
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if len(out.Metrics) != 1 {
		t.Fatalf("expected 1 metric, got %d", len(out.Metrics))
	}
	listing := out.Metrics[0]
	if listing.Name != "emotion" || listing.UILabel != "Emotion" || listing.Category != "Affect" {
		t.Errorf("listing = %+v", listing)
	}
}

func TestEvaluateHandler(t *testing.T) {
	_, exec := newTestDeps(t)
	handler := NewEvaluateHandler(exec)

	input := EvaluateInput{
		JobID: "mcp-1",
		Conversation: []models.Utterance{
			{Speaker: "Patient", Text: "I am so anxious about work."},
		},
		Metrics: []string{"emotion"},
	}
	_, resp, err := handler(context.Background(), nil, input)
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}

	if resp.JobID != "mcp-1" {
		t.Errorf("job id = %q", resp.JobID)
	}
	outcome := resp.Results["emotion"]
	if outcome.Result == nil {
		t.Fatalf("outcome = %+v, want a result", outcome)
	}
	if got := outcome.Result.PerUtterance[0].Metrics["emotion"].Label; got != "fear" {
		t.Errorf("label = %q, want fear", got)
	}
}

func TestEvaluateSingleMetricHandler_UnknownMetric(t *testing.T) {
	_, exec := newTestDeps(t)
	handler := NewEvaluateSingleMetricHandler(exec)

	input := EvaluateSingleMetricInput{
		Conversation: []models.Utterance{{Speaker: "Patient", Text: "hi"}},
		Metric:       "vibes",
	}
	_, _, err := handler(context.Background(), nil, input)

	var unknown *models.UnknownMetricError
	if !errors.As(err, &unknown) {
		t.Errorf("expected UnknownMetricError, got %v", err)
	}
}
