// Package mcpadapter exposes the evaluation pipeline as MCP tools.
package mcpadapter

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mindwell-ai/convo-eval/internal/evaluator"
	"github.com/mindwell-ai/convo-eval/internal/executor"
	"github.com/mindwell-ai/convo-eval/internal/models"
)

// EvaluateInput is the MCP tool input schema for multi-metric evaluation.
type EvaluateInput struct {
	JobID        string             `json:"job_id" jsonschema:"unique job identifier"`
	Conversation []models.Utterance `json:"conversation" jsonschema:"ordered speaker/text turns of the transcript"`
	Metrics      []string           `json:"metrics" jsonschema:"metric names to evaluate, see list_metrics"`
}

// EvaluateSingleMetricInput is the MCP tool input schema for one metric.
type EvaluateSingleMetricInput struct {
	JobID        string             `json:"job_id" jsonschema:"unique job identifier"`
	Conversation []models.Utterance `json:"conversation" jsonschema:"ordered speaker/text turns of the transcript"`
	Metric       string             `json:"metric" jsonschema:"metric name to evaluate, see list_metrics"`
}

// ListMetricsInput is the (empty) input schema for metric discovery.
type ListMetricsInput struct{}

// MetricListing is one entry of the list_metrics output.
type MetricListing struct {
	Name     string `json:"name"`
	UILabel  string `json:"ui_label"`
	Category string `json:"category"`
}

// ListMetricsOutput enumerates the registered metrics.
type ListMetricsOutput struct {
	Metrics []MetricListing `json:"metrics"`
}

// NewEvaluateHandler returns a tool handler that runs the requested metrics.
// Pass the returned function to mcp.AddTool.
func NewEvaluateHandler(exec *executor.Executor) func(context.Context, *mcp.CallToolRequest, EvaluateInput) (*mcp.CallToolResult, models.EvaluationResponse, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input EvaluateInput) (*mcp.CallToolResult, models.EvaluationResponse, error) {
		result, err := exec.Execute(ctx, models.EvaluationRequest{
			JobID:        input.JobID,
			Conversation: input.Conversation,
			Metrics:      input.Metrics,
		})
		return nil, result, err
	}
}

// NewEvaluateSingleMetricHandler returns a tool handler for one metric.
func NewEvaluateSingleMetricHandler(exec *executor.Executor) func(context.Context, *mcp.CallToolRequest, EvaluateSingleMetricInput) (*mcp.CallToolResult, models.EvaluationResponse, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input EvaluateSingleMetricInput) (*mcp.CallToolResult, models.EvaluationResponse, error) {
		outcome, err := exec.ExecuteOne(ctx, input.Metric, input.Conversation, models.Options{})
		if err != nil {
			return nil, models.EvaluationResponse{}, err
		}
		return nil, models.EvaluationResponse{
			JobID:   input.JobID,
			Results: map[string]models.Outcome{input.Metric: outcome},
		}, nil
	}
}

// NewListMetricsHandler returns a tool handler that enumerates the registry.
func NewListMetricsHandler(registry *evaluator.Registry) func(context.Context, *mcp.CallToolRequest, ListMetricsInput) (*mcp.CallToolResult, ListMetricsOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ListMetricsInput) (*mcp.CallToolResult, ListMetricsOutput, error) {
		var out ListMetricsOutput
		for _, name := range registry.MetricNames() {
			reg, err := registry.Lookup(name)
			if err != nil {
				continue
			}
			out.Metrics = append(out.Metrics, MetricListing{
				Name:     name,
				UILabel:  reg.UILabel,
				Category: reg.Category,
			})
		}
		return nil, out, nil
	}
}
