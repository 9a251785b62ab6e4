package assistant

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/tripweave/tripweave/internal/api"
)

type HandlerImpl struct {
	assistantService Service
	logger           *slog.Logger
}

func NewHandlerImpl(assistantService Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		assistantService: assistantService,
		logger:           logger,
	}
}

type chatRequest struct {
	Message string `json:"message"`
	Context string `json:"context"`
}

// Chat answers a free-text travel question.
func (h *HandlerImpl) Chat(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AssistantHandler").Start(r.Context(), "Chat", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/ai/chat"),
	))
	defer span.End()

	var req chatRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Message == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "message is required")
		return
	}

	response := h.assistantService.Chat(ctx, req.Message, req.Context)
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{"response": response})
}

// TripChat parses a conversational change request against the trip context.
func (h *HandlerImpl) TripChat(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AssistantHandler").Start(r.Context(), "TripChat", trace.WithAttributes(
		semconv.HTTPRouteKey.String("/ai/trip-chat"),
	))
	defer span.End()

	var req chatRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Message == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "message is required")
		return
	}

	result := h.assistantService.TripChat(ctx, req.Message, req.Context)
	api.WriteJSONResponse(w, r, http.StatusOK, result)
}

// Suggestions returns live context-aware recommendations.
func (h *HandlerImpl) Suggestions(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AssistantHandler").Start(r.Context(), "Suggestions", trace.WithAttributes(
		semconv.HTTPRouteKey.String("/ai/suggestions"),
	))
	defer span.End()

	var req SuggestionsRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	suggestions := h.assistantService.Suggestions(ctx, req)
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{"suggestions": suggestions})
}

// Alternatives returns quick activities that fit the remaining time.
func (h *HandlerImpl) Alternatives(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AssistantHandler").Start(r.Context(), "Alternatives", trace.WithAttributes(
		semconv.HTTPRouteKey.String("/ai/alternatives"),
	))
	defer span.End()

	var req AlternativesRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	alternatives := h.assistantService.Alternatives(ctx, req)
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{"alternatives": alternatives})
}
