package judge

import (
	"bytes"
	"context"
	"fmt"
	"text/template"
	"time"

	"github.com/rs/zerolog"

	"github.com/mindwell-ai/convo-eval/internal/config"
	"github.com/mindwell-ai/convo-eval/internal/evaluator"
	"github.com/mindwell-ai/convo-eval/internal/llm"
	"github.com/mindwell-ai/convo-eval/internal/models"
	"github.com/mindwell-ai/convo-eval/internal/results"
)

// ConversationJudge scores the whole transcript with a single model call and
// derives a coarse label from the normalized score.
type ConversationJudge struct {
	metric      string
	scale       float64
	promptTmpl  *template.Template
	modelParams config.ModelParams
	client      llm.Client
	logger      *zerolog.Logger
}

// conversationPromptData is what a conversation judge prompt may reference.
type conversationPromptData struct {
	Transcript string
	TurnCount  int
}

func NewConversationJudge(cfg config.EvaluatorConfig, client llm.Client, logger *zerolog.Logger) (*ConversationJudge, error) {
	if cfg.Metric == "" {
		return nil, &models.ConfigurationError{Msg: "conversation judge has no metric name"}
	}
	if client == nil {
		return nil, &models.ConfigurationError{Msg: "conversation judge " + cfg.Metric + " has no LLM client"}
	}
	if cfg.Model == nil {
		return nil, &models.ConfigurationError{Msg: "conversation judge " + cfg.Metric + " has no model params"}
	}

	tmpl, err := template.New(cfg.Metric).Parse(cfg.Prompt)
	if err != nil {
		return nil, &models.ConfigurationError{
			Msg: fmt.Sprintf("conversation judge %s has an invalid prompt template: %v", cfg.Metric, err),
		}
	}

	return &ConversationJudge{
		metric:      cfg.Metric,
		scale:       cfg.Scale,
		promptTmpl:  tmpl,
		modelParams: *cfg.Model,
		client:      client,
		logger:      logger,
	}, nil
}

func (j *ConversationJudge) MetricName() string {
	return j.metric
}

func (j *ConversationJudge) Evaluate(ctx context.Context, conv models.Conversation, opts models.Options) (*models.EvaluationResult, error) {
	if err := evaluator.CheckConversation(conv); err != nil {
		return nil, err
	}

	start := time.Now()

	var buf bytes.Buffer
	err := j.promptTmpl.Execute(&buf, conversationPromptData{
		Transcript: conv.Transcript(),
		TurnCount:  len(conv),
	})
	if err != nil {
		return nil, &models.ConfigurationError{
			Msg: fmt.Sprintf("conversation judge %s prompt execution failed: %v", j.metric, err),
		}
	}

	params := llm.Request{
		Prompt:      buf.String(),
		MaxTokens:   j.modelParams.MaxTokens,
		Temperature: j.modelParams.Temperature,
	}
	if opts.MaxTokens > 0 {
		params.MaxTokens = opts.MaxTokens
	}
	if opts.Temperature > 0 {
		params.Temperature = opts.Temperature
	}

	var resp *llm.Response
	if opts.Retry || j.modelParams.Retry {
		resp, err = j.client.CompleteWithRetry(ctx, params)
	} else {
		resp, err = j.client.Complete(ctx, params)
	}
	if err != nil {
		return nil, &models.BackendError{Metric: j.metric, Retryable: true, Err: err}
	}

	verdict, err := parseVerdict(resp.Content, j.scale)
	if err != nil {
		j.logger.Error().
			Err(err).
			Str("metric", j.metric).
			Str("content", resp.Content).
			Msg("malformed judge response")
		return nil, &models.BackendError{Metric: j.metric, Retryable: false, Err: err}
	}

	score := models.Numerical(verdict.Score, j.scale, models.HigherIsBetter).
		WithLabel(deriveLabel(verdict.Score, j.scale))

	j.logger.Info().
		Str("metric", j.metric).
		Float64("score", verdict.Score).
		Dur("duration", time.Since(start)).
		Msg("conversation judge completed")

	return results.Overall(models.MetricScore{j.metric: score})
}

func deriveLabel(score, scale float64) string {
	normalized := score / scale
	switch {
	case normalized > 0.8:
		return "good"
	case normalized > 0.5:
		return "mixed"
	default:
		return "poor"
	}
}
