package api

import (
	"errors"
	"net/http"

	"github.com/emicklei/go-restful/v3"
	"github.com/rs/zerolog"

	"github.com/mindwell-ai/convo-eval/internal/api/middleware"
	"github.com/mindwell-ai/convo-eval/internal/evaluator"
	"github.com/mindwell-ai/convo-eval/internal/executor"
	"github.com/mindwell-ai/convo-eval/internal/models"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// MetricInfo describes one registered metric for a metric picker.
type MetricInfo struct {
	Name     string         `json:"name"`
	UILabel  string         `json:"ui_label"`
	Category string         `json:"category"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// MetricsResponse enumerates the registered metrics.
type MetricsResponse struct {
	Metrics    []MetricInfo        `json:"metrics"`
	Categories map[string][]string `json:"categories"`
}

type Handler struct {
	executor *executor.Executor
	registry *evaluator.Registry
	logger   *zerolog.Logger
}

func NewHandler(exec *executor.Executor, registry *evaluator.Registry, logger *zerolog.Logger) *Handler {
	return &Handler{
		executor: exec,
		registry: registry,
		logger:   logger,
	}
}

// Health handler GET /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	_ = resp.WriteHeaderAndEntity(http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: "1.0.0",
	})
}

// ListMetrics handler GET /api/v1/metrics
func (h *Handler) ListMetrics(req *restful.Request, resp *restful.Response) {
	names := h.registry.MetricNames()
	metrics := make([]MetricInfo, 0, len(names))
	for _, name := range names {
		reg, err := h.registry.Lookup(name)
		if err != nil {
			continue
		}
		metrics = append(metrics, MetricInfo{
			Name:     name,
			UILabel:  reg.UILabel,
			Category: reg.Category,
			Metadata: reg.Metadata,
		})
	}

	_ = resp.WriteHeaderAndEntity(http.StatusOK, MetricsResponse{
		Metrics:    metrics,
		Categories: h.registry.MetricsByCategory(),
	})
}

// Evaluate handler POST /api/v1/evaluate
func (h *Handler) Evaluate(req *restful.Request, resp *restful.Response) {
	var evalRequest models.EvaluationRequest
	if err := req.ReadEntity(&evalRequest); err != nil {
		h.logger.Error().Err(err).Msg("failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	h.logger.Info().
		Str("job_id", evalRequest.JobID).
		Int("turns", len(evalRequest.Conversation)).
		Strs("metrics", evalRequest.Metrics).
		Msg("start evaluation")

	result, err := h.executor.Execute(req.Request.Context(), evalRequest)
	if err != nil {
		h.logger.Warn().Err(err).Str("job_id", evalRequest.JobID).Msg("evaluation rejected")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	_ = resp.WriteHeaderAndEntity(http.StatusOK, result)
}

// EvaluateSingleMetric handler POST /api/v1/evaluate/metric/{metric_name}
func (h *Handler) EvaluateSingleMetric(req *restful.Request, resp *restful.Response) {
	metric := req.PathParameter("metric_name")

	var evalRequest models.EvaluationRequest
	if err := req.ReadEntity(&evalRequest); err != nil {
		h.logger.Error().Err(err).Msg("failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	h.logger.Info().
		Str("job_id", evalRequest.JobID).
		Str("metric", metric).
		Msg("start single-metric evaluation")

	outcome, err := h.executor.ExecuteOne(req.Request.Context(), metric, evalRequest.Conversation, evalRequest.Options)
	if err != nil {
		var unknown *models.UnknownMetricError
		if errors.As(err, &unknown) {
			middleware.HandleError(resp, err, http.StatusNotFound)
			return
		}
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	_ = resp.WriteHeaderAndEntity(http.StatusOK, models.EvaluationResponse{
		JobID:   evalRequest.JobID,
		Results: map[string]models.Outcome{metric: outcome},
	})
}
