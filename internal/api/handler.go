package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"unicode/utf8"

	"github.com/emicklei/go-restful/v3"
	"github.com/go-playground/validator/v10"
	"github.com/povarna/generative-ai-agents/rag-gateway/internal/api/middleware"
	"github.com/povarna/generative-ai-agents/rag-gateway/internal/models"
	"github.com/povarna/generative-ai-agents/rag-gateway/internal/pipeline"
	"github.com/rs/zerolog/log"
)

const Version = "1.0.0"

// QuestionHandler runs a question through the guarded pipeline.
type QuestionHandler interface {
	Handle(ctx context.Context, question string) pipeline.Outcome
}

// ReadinessChecker reports whether the retrieval engine is loaded.
type ReadinessChecker interface {
	Ready() bool
}

type Handler struct {
	pipeline  QuestionHandler
	readiness ReadinessChecker
	validate  *validator.Validate
	canary    string
}

func NewHandler(pipeline QuestionHandler, readiness ReadinessChecker, canary string) *Handler {
	return &Handler{
		pipeline:  pipeline,
		readiness: readiness,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		canary:    canary,
	}
}

// Index handles GET /
func (h *Handler) Index(req *restful.Request, resp *restful.Response) {
	_ = resp.WriteHeaderAndEntity(http.StatusOK, IndexResponse{
		Message: "RAG Gateway with input and output guardrails",
		Endpoints: map[string]string{
			"ask":     "POST /api/v1/ask",
			"health":  "GET /api/v1/health",
			"metrics": "GET /metrics",
			"openapi": "GET /api/v1/openapi.json",
		},
	})
}

// Health handles GET /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	_ = resp.WriteHeaderAndEntity(http.StatusOK, HealthResponse{
		Status:   "ok",
		Version:  Version,
		Canary:   h.canary,
		RAGReady: h.readiness.Ready(),
	})
}

// Ask handles POST /api/v1/ask
func (h *Handler) Ask(req *restful.Request, resp *restful.Response) {
	var askRequest models.AskRequest

	if err := req.ReadEntity(&askRequest); err != nil {
		log.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, fmt.Errorf("%w: %w", middleware.ErrInvalidBody, err), http.StatusBadRequest)
		return
	}

	if err := h.validate.Struct(askRequest); err != nil {
		middleware.HandleError(resp, middleware.ErrQuestionTooLong, http.StatusBadRequest)
		return
	}

	log.Info().
		Str("request_id", middleware.RequestID(req)).
		Int("question_chars", utf8.RuneCountInString(askRequest.Question)).
		Msg("Process Ask")

	outcome := h.pipeline.Handle(req.Request.Context(), askRequest.Question)

	switch o := outcome.(type) {
	case pipeline.Delivered:
		sources := o.Sources
		if sources == nil {
			sources = []string{}
		}
		_ = resp.WriteHeaderAndEntity(http.StatusOK, AskResponse{
			Answer:         o.Answer,
			Sources:        sources,
			LatencySeconds: o.LatencySeconds,
		})
	case pipeline.Rejected:
		middleware.HandleError(resp, fmt.Errorf("Request blocked: %s", o.Reason), http.StatusBadRequest)
	case pipeline.ServiceUnavailable:
		middleware.HandleError(resp, errors.New("RAG not ready"), http.StatusServiceUnavailable)
	case pipeline.Failure:
		middleware.HandleError(resp, fmt.Errorf("RAG error: %s", o.Message), http.StatusInternalServerError)
	default:
		middleware.HandleError(resp, fmt.Errorf("unexpected outcome %T", outcome), http.StatusInternalServerError)
	}
}
