package api

import (
	"net/http"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/povarna/generative-ai-agents/rag-gateway/internal/api/middleware"
	"github.com/povarna/generative-ai-agents/rag-gateway/internal/models"
)

// RegisterRoutes mounts the index and /api/v1. askFilters run on /ask only.
func RegisterRoutes(container *restful.Container, handler *Handler, askFilters ...restful.FilterFunction) {
	root := new(restful.WebService)
	root.
		Path("/").
		Produces(restful.MIME_JSON)

	root.
		Route(root.GET("").
			To(handler.Index).
			Doc("List endpoints").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(IndexResponse{}).
			Returns(200, "OK", IndexResponse{}))

	container.Add(root)

	ws := new(restful.WebService)
	ws.
		Path("/api/v1").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	// Health endpoint
	ws.
		Route(ws.GET("/health").
			To(handler.Health).
			Doc("Health check").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(HealthResponse{}).
			Returns(200, "OK", HealthResponse{}))

	ask := ws.POST("/ask").To(handler.Ask)
	for _, f := range askFilters {
		ask = ask.Filter(f)
	}

	ws.
		Route(ask.
			Doc("Answer a question from the knowledge base behind input and output guardrails").
			Metadata(restfulspec.KeyOpenAPITags, []string{"ask"}).
			Reads(models.AskRequest{}).
			Writes(AskResponse{}).
			Returns(200, "OK", AskResponse{}).
			Returns(400, "Request blocked", middleware.ErrorResponse{}).
			Returns(429, "Too Many Requests", middleware.ErrorResponse{}).
			Returns(500, "RAG error", middleware.ErrorResponse{}).
			Returns(503, "RAG not ready", middleware.ErrorResponse{}))

	container.Add(ws)
}

// RegisterMetrics mounts a plain http.Handler, typically promhttp, at /metrics.
func RegisterMetrics(container *restful.Container, handler http.Handler) {
	container.Handle("/metrics", handler)
}
