package journey

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tripweave/tripweave/app/observability/metrics"
	"github.com/tripweave/tripweave/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service persists journey paths on the trip record and derives proximity
// recommendations from the itinerary.
type Service interface {
	SaveJourneyPath(ctx context.Context, tripID uuid.UUID, userID string, path []types.PathPoint) (*types.JourneyPath, error)
	GetJourneyPaths(ctx context.Context, tripID uuid.UUID) ([]types.JourneyPath, error)
	GetRecommendations(ctx context.Context, tripID uuid.UUID, location types.GeoPoint) (*types.Recommendations, error)
}

// TripStore is the slice of the trip repository the journey service needs.
type TripStore interface {
	GetTrip(ctx context.Context, tripID uuid.UUID) (*types.Trip, error)
	AppendJourneyPath(ctx context.Context, tripID uuid.UUID, path types.JourneyPath) error
	GetJourneyPaths(ctx context.Context, tripID uuid.UUID) ([]types.JourneyPath, error)
}

const (
	// Persisted windows keep at most this many trailing points.
	defaultMaxStoredPoints = 200
	// Radius for the recommendations endpoint's nearby scan.
	recommendationRadiusKm = 5
)

type ServiceImpl struct {
	store           TripStore
	logger          *slog.Logger
	maxStoredPoints int
	flushEvery      int
	now             func() time.Time
}

func NewServiceImpl(store TripStore, maxStoredPoints, flushEvery int, logger *slog.Logger) *ServiceImpl {
	if maxStoredPoints <= 0 {
		maxStoredPoints = defaultMaxStoredPoints
	}
	if flushEvery <= 0 {
		flushEvery = defaultFlushEvery
	}
	return &ServiceImpl{
		store:           store,
		logger:          logger,
		maxStoredPoints: maxStoredPoints,
		flushEvery:      flushEvery,
		now:             time.Now,
	}
}

// NewRecorder opens a tracking session that flushes through this service.
func (s *ServiceImpl) NewRecorder(tripID uuid.UUID, userID string) *PathRecorder {
	return NewPathRecorder(s, tripID, userID, s.flushEvery)
}

// SaveJourneyPath appends a truncated path window to the trip record. The
// cumulative distance covers the full submitted path, not just the stored
// window.
func (s *ServiceImpl) SaveJourneyPath(ctx context.Context, tripID uuid.UUID, userID string, path []types.PathPoint) (*types.JourneyPath, error) {
	ctx, span := otel.Tracer("JourneyService").Start(ctx, "SaveJourneyPath", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
		attribute.Int("path.points", len(path)),
	))
	defer span.End()

	totalDistance := TotalDistance(path)
	if len(path) > s.maxStoredPoints {
		path = path[len(path)-s.maxStoredPoints:]
	}

	journeyPath := types.JourneyPath{
		UserID:        userID,
		Timestamp:     s.now().UTC(),
		Path:          path,
		TotalDistance: totalDistance,
	}

	if err := s.store.AppendJourneyPath(ctx, tripID, journeyPath); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist journey path", slog.Any("error", err))
		return nil, fmt.Errorf("save journey path: %w", err)
	}

	if m := metrics.Get(); m != nil {
		m.JourneyFlushesTotal.Add(ctx, 1)
	}
	return &journeyPath, nil
}

func (s *ServiceImpl) GetJourneyPaths(ctx context.Context, tripID uuid.UUID) ([]types.JourneyPath, error) {
	paths, err := s.store.GetJourneyPaths(ctx, tripID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load journey paths", slog.Any("error", err))
		return nil, err
	}
	return paths, nil
}

// GetRecommendations builds the journey-mode context bundle: activities near
// the location, ticket links for the nearest one, and time-of-day advice.
func (s *ServiceImpl) GetRecommendations(ctx context.Context, tripID uuid.UUID, location types.GeoPoint) (*types.Recommendations, error) {
	ctx, span := otel.Tracer("JourneyService").Start(ctx, "GetRecommendations")
	defer span.End()

	trip, err := s.store.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	recommendations := &types.Recommendations{
		Nearby:  []types.NearbyActivity{},
		Tickets: []types.TicketSuggestion{},
		Advice:  []types.Advice{},
	}

	recommendations.Nearby = FindNearbyActivities(location, trip.Itinerary, recommendationRadiusKm)
	if recommendations.Nearby == nil {
		recommendations.Nearby = []types.NearbyActivity{}
	}

	if len(recommendations.Nearby) > 0 {
		nearest := recommendations.Nearby[0]
		recommendations.Tickets = TicketSuggestions(&nearest.Activity, trip.Destination)
	}

	recommendations.Advice = timeAdvice(s.now().Hour())
	return recommendations, nil
}

func timeAdvice(hour int) []types.Advice {
	switch {
	case hour >= 12 && hour <= 14:
		return []types.Advice{{
			Type:     "dining",
			Message:  "It's lunch time! Check out nearby restaurants.",
			Priority: "high",
		}}
	case hour >= 18 && hour <= 20:
		return []types.Advice{{
			Type:     "dining",
			Message:  "Perfect time for dinner! Explore local cuisine.",
			Priority: "high",
		}}
	default:
		return []types.Advice{}
	}
}
