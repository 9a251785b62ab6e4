package itinerary

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tripweave/tripweave/app/observability/metrics"
	generativeAI "github.com/tripweave/tripweave/internal/api/generative_ai"
	"github.com/tripweave/tripweave/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service generates day-by-day itineraries. GenerateItinerary never fails:
// any AI or parse error degrades to the deterministic fallback plan.
type Service interface {
	GenerateItinerary(ctx context.Context, trip *types.Trip) []types.Day
}

// GuideSource supplies available verified guides for the destination as
// read-only prompt context.
type GuideSource interface {
	ListAvailableByDestination(ctx context.Context, destination string, limit int) ([]types.Guide, error)
}

const maxGuidesInPrompt = 10

type ServiceImpl struct {
	ai     generativeAI.Client
	guides GuideSource
	logger *slog.Logger
}

func NewServiceImpl(ai generativeAI.Client, guides GuideSource, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		ai:     ai,
		guides: guides,
		logger: logger,
	}
}

func (s *ServiceImpl) GenerateItinerary(ctx context.Context, trip *types.Trip) []types.Day {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "GenerateItinerary", trace.WithAttributes(
		attribute.String("trip.destination", trip.Destination),
	))
	defer span.End()

	registered, err := s.guides.ListAvailableByDestination(ctx, trip.Destination, maxGuidesInPrompt)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to fetch registered guides for prompt", slog.Any("error", err))
		registered = nil
	}

	seed := rand.Intn(1000000)
	prompt := getItineraryPrompt(trip, registered, seed)

	text, err := s.ai.GenerateJSON(ctx, prompt)
	if err != nil {
		s.logger.ErrorContext(ctx, "Itinerary generation failed, using fallback", slog.Any("error", err))
		return s.fallback(ctx, trip)
	}

	days, err := parseDays(text)
	if err != nil {
		s.logger.WarnContext(ctx, "Could not parse generated itinerary, using fallback", slog.Any("error", err))
		return s.fallback(ctx, trip)
	}

	s.logger.InfoContext(ctx, "Generated itinerary", slog.Int("days", len(days)))
	return days
}

func (s *ServiceImpl) fallback(ctx context.Context, trip *types.Trip) []types.Day {
	if m := metrics.Get(); m != nil {
		m.AIFallbacksTotal.Add(ctx, 1)
	}
	return FallbackItinerary(trip)
}

func parseDays(text string) ([]types.Day, error) {
	jsonStr, err := generativeAI.ExtractJSONArray(text)
	if err != nil {
		return nil, err
	}
	var days []types.Day
	if err := json.Unmarshal([]byte(jsonStr), &days); err != nil {
		return nil, fmt.Errorf("failed to parse itinerary JSON: %w", err)
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("model returned an empty itinerary")
	}
	return days, nil
}

// FallbackItinerary produces one day per calendar date in the trip's
// inclusive range, each with the same four fixed-template activities. The
// system must always return some itinerary, even fully offline.
func FallbackItinerary(trip *types.Trip) []types.Day {
	total := trip.Days()
	days := make([]types.Day, 0, total)

	for i := 0; i < total; i++ {
		date := trip.StartDate.AddDate(0, 0, i)
		days = append(days, types.Day{
			Day:  i + 1,
			Date: date.Format(time.DateOnly),
			Activities: []types.Activity{
				{
					Time:        "09:00",
					Title:       "Morning Activity",
					Description: fmt.Sprintf("Explore %s", trip.Destination),
					Location:    trip.Destination,
					Duration:    "3 hours",
					Cost:        30,
				},
				{
					Time:        "12:30",
					Title:       "Lunch",
					Description: "Try local cuisine",
					Location:    "City Center",
					Duration:    "1.5 hours",
					Cost:        20,
				},
				{
					Time:        "15:00",
					Title:       "Afternoon Exploration",
					Description: "Visit main attractions",
					Location:    trip.Destination,
					Duration:    "3 hours",
					Cost:        40,
				},
				{
					Time:        "19:00",
					Title:       "Dinner",
					Description: "Evening meal",
					Location:    "Downtown",
					Duration:    "1.5 hours",
					Cost:        25,
				},
			},
		})
	}

	return days
}
