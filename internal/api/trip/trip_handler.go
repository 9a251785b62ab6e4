package trip

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/tripweave/tripweave/internal/api"
	"github.com/tripweave/tripweave/internal/types"
)

type HandlerImpl struct {
	tripService Service
	logger      *slog.Logger
}

func NewHandlerImpl(tripService Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		tripService: tripService,
		logger:      logger,
	}
}

func parseTripID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	tripID, err := uuid.Parse(chi.URLParam(r, "tripID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid trip ID format")
		return uuid.Nil, false
	}
	return tripID, true
}

// Create stores a new trip with the caller as its creator member.
func (h *HandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripHandler").Start(r.Context(), "Create", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/trips"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Create"))

	var req types.CreateTripRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	trip, err := h.tripService.CreateTrip(ctx, req)
	if err != nil {
		if errors.Is(err, api.ErrStoreUnavailable) {
			api.HandleStoreError(w, r, err, "Failed to create trip")
			return
		}
		l.ErrorContext(ctx, "Failed to create trip", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, trip)
}

// Get returns the full trip document.
func (h *HandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripHandler").Start(r.Context(), "Get", trace.WithAttributes(
		semconv.HTTPRouteKey.String("/trips/{tripID}"),
	))
	defer span.End()

	tripID, ok := parseTripID(w, r)
	if !ok {
		return
	}

	trip, err := h.tripService.GetTrip(ctx, tripID)
	if err != nil {
		api.HandleStoreError(w, r, err, "Failed to get trip")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, trip)
}

// List returns the trips the userId query parameter is a member of.
func (h *HandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripHandler").Start(r.Context(), "List", trace.WithAttributes(
		semconv.HTTPRouteKey.String("/trips"),
	))
	defer span.End()

	memberID := r.URL.Query().Get("userId")
	if memberID == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "userId query parameter is required")
		return
	}

	trips, err := h.tripService.ListTrips(ctx, memberID)
	if err != nil {
		api.HandleStoreError(w, r, err, "Failed to list trips")
		return
	}
	if trips == nil {
		trips = []types.Trip{}
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"trips": trips,
		"count": len(trips),
	})
}

// AddRequest appends a pending change request to the trip.
func (h *HandlerImpl) AddRequest(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripHandler").Start(r.Context(), "AddRequest", trace.WithAttributes(
		semconv.HTTPRouteKey.String("/trips/{tripID}/requests"),
	))
	defer span.End()

	tripID, ok := parseTripID(w, r)
	if !ok {
		return
	}

	var req AddRequestInput
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Suggestion == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Request suggestion is required")
		return
	}

	request, err := h.tripService.AddRequest(ctx, tripID, req)
	if err != nil {
		api.HandleStoreError(w, r, err, "Failed to add request")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, request)
}

// GenerateItinerary builds and stores an AI itinerary for the trip.
func (h *HandlerImpl) GenerateItinerary(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripHandler").Start(r.Context(), "GenerateItinerary", trace.WithAttributes(
		semconv.HTTPRouteKey.String("/trips/{tripID}/generate-itinerary"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GenerateItinerary"))

	tripID, ok := parseTripID(w, r)
	if !ok {
		return
	}

	days, err := h.tripService.GenerateItinerary(ctx, tripID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to generate itinerary", slog.Any("error", err))
		api.HandleStoreError(w, r, err, "Failed to generate itinerary")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"success":   true,
		"itinerary": days,
	})
}

type analyzeRequestBody struct {
	RequestID string `json:"requestId"`
}

// AnalyzeRequest scores a single pending request.
func (h *HandlerImpl) AnalyzeRequest(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripHandler").Start(r.Context(), "AnalyzeRequest", trace.WithAttributes(
		semconv.HTTPRouteKey.String("/trips/{tripID}/analyze-request"),
	))
	defer span.End()

	tripID, ok := parseTripID(w, r)
	if !ok {
		return
	}

	var req analyzeRequestBody
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.RequestID == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "requestId is required")
		return
	}

	analysis, err := h.tripService.AnalyzeRequest(ctx, tripID, req.RequestID)
	if err != nil {
		api.HandleStoreError(w, r, err, "Failed to analyze request")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"success":  true,
		"analysis": analysis,
	})
}

type compareRequestsBody struct {
	RequestIDs []string `json:"requestIds"`
}

// CompareRequests ranks selected pending requests against each other. Fewer
// than two ids is rejected here, before any place search or model call.
func (h *HandlerImpl) CompareRequests(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripHandler").Start(r.Context(), "CompareRequests", trace.WithAttributes(
		semconv.HTTPRouteKey.String("/trips/{tripID}/compare-requests"),
	))
	defer span.End()

	tripID, ok := parseTripID(w, r)
	if !ok {
		return
	}

	var req compareRequestsBody
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.RequestIDs) < 2 {
		api.ErrorResponse(w, r, http.StatusBadRequest, "At least 2 requests are needed for comparison")
		return
	}

	comparison, err := h.tripService.CompareRequests(ctx, tripID, req.RequestIDs)
	if err != nil {
		if errors.Is(err, ErrTooFewRequests) {
			api.ErrorResponse(w, r, http.StatusBadRequest, ErrTooFewRequests.Error())
			return
		}
		api.HandleStoreError(w, r, err, "Failed to compare requests")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"success":    true,
		"comparison": comparison,
	})
}

// AcceptRequest merges the accepted change into the itinerary and removes the
// request from the pending list.
func (h *HandlerImpl) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripHandler").Start(r.Context(), "AcceptRequest", trace.WithAttributes(
		semconv.HTTPRouteKey.String("/trips/{tripID}/accept-request"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "AcceptRequest"))

	tripID, ok := parseTripID(w, r)
	if !ok {
		return
	}

	var req analyzeRequestBody
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.RequestID == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "requestId is required")
		return
	}

	newItinerary, err := h.tripService.AcceptRequest(ctx, tripID, req.RequestID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to accept request", slog.Any("error", err))
		api.HandleStoreError(w, r, err, "Failed to accept request")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"success":   true,
		"itinerary": newItinerary,
	})
}

// LiveSuggestions returns lightweight contextual suggestions for the trip.
func (h *HandlerImpl) LiveSuggestions(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripHandler").Start(r.Context(), "LiveSuggestions", trace.WithAttributes(
		semconv.HTTPRouteKey.String("/trips/{tripID}/live-suggestions"),
	))
	defer span.End()

	tripID, ok := parseTripID(w, r)
	if !ok {
		return
	}

	suggestions, err := h.tripService.LiveSuggestions(ctx, tripID)
	if err != nil {
		api.HandleStoreError(w, r, err, "Failed to get suggestions")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"suggestions": suggestions,
	})
}
