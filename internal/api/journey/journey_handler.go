package journey

import (
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
	journeyService Service
	logger         *slog.Logger
}

func NewHandlerImpl(journeyService Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		journeyService: journeyService,
		logger:         logger,
	}
}

type savePathRequest struct {
	UserID string            `json:"userId"`
	Path   []types.PathPoint `json:"path"`
}

// SavePath persists a batch of recorded GPS points on the trip record.
func (h *HandlerImpl) SavePath(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("JourneyHandler").Start(r.Context(), "SavePath", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/trips/{tripID}/journey/save-path"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "SavePath"))

	tripID, err := uuid.Parse(chi.URLParam(r, "tripID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid trip ID format")
		return
	}

	var req savePathRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Path) == 0 {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Valid path array is required")
		return
	}

	journeyPath, err := h.journeyService.SaveJourneyPath(ctx, tripID, req.UserID, req.Path)
	if err != nil {
		l.ErrorContext(ctx, "Failed to save journey path", slog.Any("error", err))
		api.HandleStoreError(w, r, err, "Failed to save journey path")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"success":     true,
		"journeyData": journeyPath,
	})
}

// GetPaths returns every persisted path window for the trip.
func (h *HandlerImpl) GetPaths(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("JourneyHandler").Start(r.Context(), "GetPaths", trace.WithAttributes(
		semconv.HTTPRouteKey.String("/trips/{tripID}/journey/paths"),
	))
	defer span.End()

	tripID, err := uuid.Parse(chi.URLParam(r, "tripID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid trip ID format")
		return
	}

	paths, err := h.journeyService.GetJourneyPaths(ctx, tripID)
	if err != nil {
		api.HandleStoreError(w, r, err, "Failed to get journey paths")
		return
	}
	if paths == nil {
		paths = []types.JourneyPath{}
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{"paths": paths})
}

type recommendationsRequest struct {
	Location types.GeoPoint `json:"location"`
}

// Recommendations returns nearby activities, ticket links and advice for the
// traveller's current location.
func (h *HandlerImpl) Recommendations(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("JourneyHandler").Start(r.Context(), "Recommendations", trace.WithAttributes(
		semconv.HTTPRouteKey.String("/trips/{tripID}/journey/recommendations"),
	))
	defer span.End()

	tripID, err := uuid.Parse(chi.URLParam(r, "tripID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid trip ID format")
		return
	}

	var req recommendationsRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Location.Lat == 0 && req.Location.Lng == 0 {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Valid location is required")
		return
	}

	recommendations, err := h.journeyService.GetRecommendations(ctx, tripID, req.Location)
	if err != nil {
		api.HandleStoreError(w, r, err, "Failed to get recommendations")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, recommendations)
}
