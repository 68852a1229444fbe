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

// TurnJudge scores each turn by the configured speaker, one model call per
// turn, and attaches the model's rationale to the turn's result entry. Turns
// by other speakers are skipped, so a conversation without any target-speaker
// turn yields an empty per-utterance result rather than an error.
type TurnJudge struct {
	metric      string
	speaker     string
	scale       float64
	promptTmpl  *template.Template
	modelParams config.ModelParams
	client      llm.Client
	logger      *zerolog.Logger
}

// turnPromptData is what a turn judge prompt template may reference.
type turnPromptData struct {
	Speaker    string
	Text       string
	Index      int
	Transcript string
}

func NewTurnJudge(cfg config.EvaluatorConfig, client llm.Client, logger *zerolog.Logger) (*TurnJudge, error) {
	if cfg.Metric == "" {
		return nil, &models.ConfigurationError{Msg: "turn judge has no metric name"}
	}
	if client == nil {
		return nil, &models.ConfigurationError{Msg: "turn judge " + cfg.Metric + " has no LLM client"}
	}
	if cfg.Model == nil {
		return nil, &models.ConfigurationError{Msg: "turn judge " + cfg.Metric + " has no model params"}
	}

	tmpl, err := template.New(cfg.Metric).Parse(cfg.Prompt)
	if err != nil {
		return nil, &models.ConfigurationError{
			Msg: fmt.Sprintf("turn judge %s has an invalid prompt template: %v", cfg.Metric, err),
		}
	}

	return &TurnJudge{
		metric:      cfg.Metric,
		speaker:     cfg.Speaker,
		scale:       cfg.Scale,
		promptTmpl:  tmpl,
		modelParams: *cfg.Model,
		client:      client,
		logger:      logger,
	}, nil
}

func (j *TurnJudge) MetricName() string {
	return j.metric
}

func (j *TurnJudge) Evaluate(ctx context.Context, conv models.Conversation, opts models.Options) (*models.EvaluationResult, error) {
	if err := evaluator.CheckConversation(conv); err != nil {
		return nil, err
	}

	start := time.Now()
	params := j.callParams(opts)

	entries := make([]models.UtteranceScores, 0)
	for _, idx := range conv.SpeakerIndices(j.speaker) {
		verdict, err := j.scoreTurn(ctx, conv, idx, params, opts.Retry)
		if err != nil {
			return nil, err
		}

		entry := models.UtteranceScores{
			Index: idx,
			Metrics: models.MetricScore{
				j.metric: models.Numerical(verdict.Score, j.scale, models.HigherIsBetter),
			},
		}
		if verdict.Reason != "" {
			entry.Reasoning = map[string]string{j.metric: verdict.Reason}
		}
		entries = append(entries, entry)
	}

	j.logger.Info().
		Str("metric", j.metric).
		Int("turns_scored", len(entries)).
		Dur("duration", time.Since(start)).
		Msg("turn judge completed")

	return results.SparseUtterances(entries)
}

func (j *TurnJudge) scoreTurn(ctx context.Context, conv models.Conversation, idx int, params llm.Request, retry bool) (judgeResponse, error) {
	var buf bytes.Buffer
	err := j.promptTmpl.Execute(&buf, turnPromptData{
		Speaker:    conv[idx].Speaker,
		Text:       conv[idx].Text,
		Index:      idx,
		Transcript: conv.Transcript(),
	})
	if err != nil {
		return judgeResponse{}, &models.ConfigurationError{
			Msg: fmt.Sprintf("turn judge %s prompt execution failed: %v", j.metric, err),
		}
	}
	params.Prompt = buf.String()

	var resp *llm.Response
	if retry || j.modelParams.Retry {
		resp, err = j.client.CompleteWithRetry(ctx, params)
	} else {
		resp, err = j.client.Complete(ctx, params)
	}
	if err != nil {
		return judgeResponse{}, &models.BackendError{Metric: j.metric, Retryable: true, Err: err}
	}

	verdict, err := parseVerdict(resp.Content, j.scale)
	if err != nil {
		j.logger.Error().
			Err(err).
			Str("metric", j.metric).
			Int("index", idx).
			Str("content", resp.Content).
			Msg("malformed judge response")
		return judgeResponse{}, &models.BackendError{Metric: j.metric, Retryable: false, Err: err}
	}
	return verdict, nil
}

func (j *TurnJudge) callParams(opts models.Options) llm.Request {
	params := llm.Request{
		MaxTokens:   j.modelParams.MaxTokens,
		Temperature: j.modelParams.Temperature,
	}
	if opts.MaxTokens > 0 {
		params.MaxTokens = opts.MaxTokens
	}
	if opts.Temperature > 0 {
		params.Temperature = opts.Temperature
	}
	return params
}
