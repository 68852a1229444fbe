package api

import (
	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"

	"github.com/mindwell-ai/convo-eval/internal/api/middleware"
	"github.com/mindwell-ai/convo-eval/internal/models"
)

func RegisterRoutes(container *restful.Container, handler *Handler) {
	ws := new(restful.WebService)

	ws.
		Path("/api/v1").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	ws.
		Route(ws.GET("health").
			To(handler.Health).
			Doc("Health check").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(HealthResponse{}).
			Returns(200, "OK", HealthResponse{}))

	ws.
		Route(ws.GET("/metrics").
			To(handler.ListMetrics).
			Doc("List registered metrics with UI labels and categories").
			Metadata(restfulspec.KeyOpenAPITags, []string{"metrics"}).
			Writes(MetricsResponse{}).
			Returns(200, "OK", MetricsResponse{}))

	ws.
		Route(ws.POST("/evaluate").
			To(handler.Evaluate).
			Doc("Evaluate a transcript with the requested metrics").
			Metadata(restfulspec.KeyOpenAPITags, []string{"evaluate"}).
			Reads(models.EvaluationRequest{}).
			Writes(models.EvaluationResponse{}).
			Returns(200, "OK", models.EvaluationResponse{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/evaluate/metric/{metric_name}").
			To(handler.EvaluateSingleMetric).
			Doc("Evaluate a transcript with a single metric").
			Metadata(restfulspec.KeyOpenAPITags, []string{"evaluate"}).
			Param(ws.PathParameter("metric_name", "Registered metric name, see GET /metrics").DataType("string")).
			Reads(models.EvaluationRequest{}).
			Writes(models.EvaluationResponse{}).
			Returns(200, "OK", models.EvaluationResponse{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(404, "Metric Not Found", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	container.Add(ws)
}
