package guide

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/tripweave/tripweave/internal/api"
	"github.com/tripweave/tripweave/internal/types"
)

type HandlerImpl struct {
	guideService Service
	logger       *slog.Logger
}

func NewHandlerImpl(guideService Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		guideService: guideService,
		logger:       logger,
	}
}

func parseGuideID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	guideID, err := uuid.Parse(chi.URLParam(r, "guideID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid guide ID format")
		return uuid.Nil, false
	}
	return guideID, true
}

// Register creates a new guide profile.
func (h *HandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("GuideHandler").Start(r.Context(), "Register", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/guides/register"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Register"))

	var req types.RegisterGuideRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	guide, err := h.guideService.Register(ctx, req)
	if err != nil {
		if errors.Is(err, api.ErrDuplicate) {
			api.ErrorResponse(w, r, http.StatusConflict, "A guide with this email is already registered")
			return
		}
		l.ErrorContext(ctx, "Failed to register guide", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, guide)
}

// List returns guides matching the query filters. minRating and maxPrice
// accept decimal values; all=true includes unverified guides.
func (h *HandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("GuideHandler").Start(r.Context(), "List", trace.WithAttributes(
		semconv.HTTPRouteKey.String("/guides"),
	))
	defer span.End()

	query := r.URL.Query()
	filter := types.GuideFilter{
		Destination: query.Get("destination"),
		Specialty:   query.Get("specialty"),
		All:         query.Get("all") == "true",
	}
	if v := query.Get("minRating"); v != "" {
		rating, err := strconv.ParseFloat(v, 64)
		if err != nil {
			api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid minRating value")
			return
		}
		filter.MinRating = rating
	}
	if v := query.Get("maxPrice"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid maxPrice value")
			return
		}
		filter.MaxPrice = price
	}

	guides, err := h.guideService.List(ctx, filter)
	if err != nil {
		api.HandleStoreError(w, r, err, "Failed to list guides")
		return
	}
	if guides == nil {
		guides = []types.Guide{}
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"guides": guides,
		"count":  len(guides),
	})
}

func (h *HandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("GuideHandler").Start(r.Context(), "Get", trace.WithAttributes(
		semconv.HTTPRouteKey.String("/guides/{guideID}"),
	))
	defer span.End()

	guideID, ok := parseGuideID(w, r)
	if !ok {
		return
	}

	guide, err := h.guideService.Get(ctx, guideID)
	if err != nil {
		api.HandleStoreError(w, r, err, "Failed to get guide")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, guide)
}

func (h *HandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("GuideHandler").Start(r.Context(), "Update", trace.WithAttributes(
		semconv.HTTPRouteKey.String("/guides/{guideID}"),
	))
	defer span.End()

	guideID, ok := parseGuideID(w, r)
	if !ok {
		return
	}

	var req types.UpdateGuideRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	guide, err := h.guideService.Update(ctx, guideID, req)
	if err != nil {
		api.HandleStoreError(w, r, err, "Failed to update guide")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, guide)
}

// Review adds a rating and recomputes the guide's average.
func (h *HandlerImpl) Review(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("GuideHandler").Start(r.Context(), "Review", trace.WithAttributes(
		semconv.HTTPRouteKey.String("/guides/{guideID}/reviews"),
	))
	defer span.End()

	guideID, ok := parseGuideID(w, r)
	if !ok {
		return
	}

	var req types.GuideReviewRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Rating must be between 1 and 5")
		return
	}

	guide, err := h.guideService.Review(ctx, guideID, req)
	if err != nil {
		api.HandleStoreError(w, r, err, "Failed to add review")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, guide)
}

func (h *HandlerImpl) Verify(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("GuideHandler").Start(r.Context(), "Verify", trace.WithAttributes(
		semconv.HTTPRouteKey.String("/guides/{guideID}/verify"),
	))
	defer span.End()

	guideID, ok := parseGuideID(w, r)
	if !ok {
		return
	}

	guide, err := h.guideService.Verify(ctx, guideID)
	if err != nil {
		api.HandleStoreError(w, r, err, "Failed to verify guide")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, guide)
}

func (h *HandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("GuideHandler").Start(r.Context(), "Delete", trace.WithAttributes(
		semconv.HTTPRouteKey.String("/guides/{guideID}"),
	))
	defer span.End()

	guideID, ok := parseGuideID(w, r)
	if !ok {
		return
	}

	if err := h.guideService.Delete(ctx, guideID); err != nil {
		api.HandleStoreError(w, r, err, "Failed to delete guide")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Guide deleted",
	})
}
