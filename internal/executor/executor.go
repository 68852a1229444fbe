// Package executor runs a set of requested metrics over one conversation
// and isolates failures per metric.
package executor

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mindwell-ai/convo-eval/internal/evaluator"
	"github.com/mindwell-ai/convo-eval/internal/models"
)

// Registry is the subset of the evaluator registry the executor needs.
type Registry interface {
	Has(name string) bool
	Create(name string, opts models.Options) (evaluator.Evaluator, error)
}

// Executor fans requested metrics out over goroutines, one per metric, with
// a per-metric deadline. Unknown metric names are rejected before any
// evaluator runs; a single metric's failure or timeout never fails the
// request.
type Executor struct {
	registry Registry
	timeout  time.Duration
	logger   *zerolog.Logger
}

func New(registry Registry, timeout time.Duration, logger *zerolog.Logger) *Executor {
	return &Executor{
		registry: registry,
		timeout:  timeout,
		logger:   logger,
	}
}

// Execute evaluates every requested metric and returns one outcome per
// metric. The request as a whole fails only on unusable input: an empty
// conversation or an empty metric list.
func (e *Executor) Execute(ctx context.Context, req models.EvaluationRequest) (models.EvaluationResponse, error) {
	resp := models.EvaluationResponse{
		JobID:   req.JobID,
		Results: make(map[string]models.Outcome, len(req.Metrics)),
	}

	if err := req.Conversation.Validate(); err != nil {
		return resp, err
	}
	if len(req.Metrics) == 0 {
		return resp, &models.InvalidInputError{Msg: "no metrics requested"}
	}

	start := time.Now()

	// Validate the full metric list before any evaluator runs, so a typo
	// costs nothing.
	var known []string
	for _, name := range req.Metrics {
		if _, dup := resp.Results[name]; dup {
			continue
		}
		if !e.registry.Has(name) {
			resp.Results[name] = models.Outcome{
				Error: models.MetricErrorFrom(&models.UnknownMetricError{Metric: name}),
			}
			continue
		}
		resp.Results[name] = models.Outcome{}
		known = append(known, name)
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, name := range known {
		wg.Add(1)
		go func(metric string) {
			defer wg.Done()
			outcome := e.runMetric(ctx, metric, req.Conversation, req.Options)
			mu.Lock()
			resp.Results[metric] = outcome
			mu.Unlock()
		}(name)
	}
	wg.Wait()

	e.logger.Info().
		Str("job_id", req.JobID).
		Int("metrics", len(req.Metrics)).
		Dur("duration", time.Since(start)).
		Msg("evaluation complete")

	return resp, nil
}

// ExecuteOne evaluates a single metric, for the per-metric routes.
func (e *Executor) ExecuteOne(ctx context.Context, metric string, conv models.Conversation, opts models.Options) (models.Outcome, error) {
	if err := conv.Validate(); err != nil {
		return models.Outcome{}, err
	}
	if !e.registry.Has(metric) {
		return models.Outcome{}, &models.UnknownMetricError{Metric: metric}
	}
	return e.runMetric(ctx, metric, conv, opts), nil
}

func (e *Executor) runMetric(ctx context.Context, metric string, conv models.Conversation, opts models.Options) models.Outcome {
	ev, err := e.registry.Create(metric, opts)
	if err != nil {
		e.logger.Error().Err(err).Str("metric", metric).Msg("failed to create evaluator")
		return models.Outcome{Error: models.MetricErrorFrom(err)}
	}

	tctx := ctx
	var cancel context.CancelFunc
	if e.timeout > 0 {
		tctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	type evalOut struct {
		result *models.EvaluationResult
		err    error
	}
	done := make(chan evalOut, 1)
	go func() {
		result, err := ev.Evaluate(tctx, conv, opts)
		done <- evalOut{result, err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			e.logger.Warn().Err(out.err).Str("metric", metric).Msg("metric evaluation failed")
			return models.Outcome{Error: models.MetricErrorFrom(out.err)}
		}
		if err := out.result.Validate(); err != nil {
			e.logger.Error().Err(err).Str("metric", metric).Msg("evaluator returned malformed result")
			return models.Outcome{Error: models.MetricErrorFrom(err)}
		}
		return models.Outcome{Result: out.result}
	case <-tctx.Done():
		// Stop waiting; the evaluator goroutine drains into the buffered
		// channel whenever it finishes.
		e.logger.Warn().Str("metric", metric).Dur("timeout", e.timeout).Msg("metric evaluation timed out")
		return models.Outcome{Error: models.MetricErrorFrom(tctx.Err())}
	}
}
