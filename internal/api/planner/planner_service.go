package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/tripweave/tripweave/app/observability/metrics"
	generativeAI "github.com/tripweave/tripweave/internal/api/generative_ai"
	"github.com/tripweave/tripweave/internal/api/places"
	"github.com/tripweave/tripweave/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service runs the request lifecycle's AI steps. AnalyzeRequest and
// CompareRequests always return a usable value; ReplanDay errors only when
// the target day does not exist.
type Service interface {
	AnalyzeRequest(ctx context.Context, trip *types.Trip, request *types.ChangeRequest) *types.RequestAnalysis
	CompareRequests(ctx context.Context, requests []types.ChangeRequest, tripCtx types.TripContext) *types.ComparisonResult
	ReplanDay(ctx context.Context, trip *types.Trip, request *types.ChangeRequest) ([]types.Day, error)
}

const topPlacesPerRequest = 3

type ServiceImpl struct {
	ai     generativeAI.Client
	places places.Client
	logger *slog.Logger
}

func NewServiceImpl(ai generativeAI.Client, placesClient places.Client, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		ai:     ai,
		places: placesClient,
		logger: logger,
	}
}

func findDay(itinerary []types.Day, dayIndex int) *types.Day {
	for i := range itinerary {
		if itinerary[i].Day == dayIndex {
			return &itinerary[i]
		}
	}
	return nil
}

// AnalyzeRequest scores a single pending request against the target day's
// current schedule. Never errors: any failure yields the neutral analysis.
func (s *ServiceImpl) AnalyzeRequest(ctx context.Context, trip *types.Trip, request *types.ChangeRequest) *types.RequestAnalysis {
	ctx, span := otel.Tracer("PlannerService").Start(ctx, "AnalyzeRequest", trace.WithAttributes(
		attribute.String("request.id", request.ID),
		attribute.Int("request.day", request.Day),
	))
	defer span.End()

	prompt := getAnalysisPrompt(findDay(trip.Itinerary, request.Day), request)

	text, err := s.ai.GenerateJSON(ctx, prompt)
	if err != nil {
		s.logger.ErrorContext(ctx, "Request analysis failed, using neutral fallback", slog.Any("error", err))
		return s.neutralAnalysis(ctx, "Analysis unavailable. Please review manually.")
	}

	jsonStr, err := generativeAI.ExtractJSONObject(text)
	if err != nil {
		s.logger.WarnContext(ctx, "No JSON object in analysis output", slog.Any("error", err))
		return s.neutralAnalysis(ctx, "Unable to fully analyze. Requires manual review.")
	}

	var analysis types.RequestAnalysis
	if err := json.Unmarshal([]byte(jsonStr), &analysis); err != nil {
		s.logger.WarnContext(ctx, "Malformed analysis JSON", slog.Any("error", err))
		return s.neutralAnalysis(ctx, "Unable to fully analyze. Requires manual review.")
	}
	if analysis.SuggestedChanges == nil {
		analysis.SuggestedChanges = []string{}
	}
	return &analysis
}

func (s *ServiceImpl) neutralAnalysis(ctx context.Context, reason string) *types.RequestAnalysis {
	if m := metrics.Get(); m != nil {
		m.AIFallbacksTotal.Add(ctx, 1)
	}
	return &types.RequestAnalysis{
		Score:            5,
		Reason:           reason,
		SuggestedChanges: []string{},
	}
}

// CompareRequests looks up real-world places for each competing request and
// asks the model to rank them. Per-request search failures degrade to an
// empty place list; a total AI failure degrades to a neutral comparison.
func (s *ServiceImpl) CompareRequests(ctx context.Context, requests []types.ChangeRequest, tripCtx types.TripContext) *types.ComparisonResult {
	ctx, span := otel.Tracer("PlannerService").Start(ctx, "CompareRequests", trace.WithAttributes(
		attribute.Int("request.count", len(requests)),
	))
	defer span.End()

	placesData := make([]types.RequestPlaces, len(requests))
	g, gctx := errgroup.WithContext(ctx)
	for i := range requests {
		g.Go(func() error {
			request := requests[i]
			query := request.Suggestion
			if query == "" {
				query = request.Description
			}
			location := tripCtx.Location
			found, err := s.places.SearchPlaces(gctx, query, &location)
			if err != nil {
				s.logger.WarnContext(gctx, "Place search failed for request",
					slog.String("request_id", request.ID),
					slog.Any("error", err),
				)
				found = nil
			}
			if len(found) > topPlacesPerRequest {
				found = found[:topPlacesPerRequest]
			}
			placesData[i] = types.RequestPlaces{
				Request:     query,
				RequestedBy: request.RequestedBy,
				Places:      found,
			}
			return nil
		})
	}
	// Search errors are swallowed per entry, so the group never fails.
	_ = g.Wait()

	prompt := getComparisonPrompt(placesData, tripCtx)

	text, err := s.ai.GenerateJSON(ctx, prompt)
	if err != nil {
		s.logger.ErrorContext(ctx, "Request comparison failed, using neutral fallback", slog.Any("error", err))
		return s.neutralComparison(ctx, placesData)
	}

	jsonStr, err := generativeAI.ExtractJSONObject(text)
	if err != nil {
		s.logger.WarnContext(ctx, "No JSON object in comparison output", slog.Any("error", err))
		return s.neutralComparison(ctx, placesData)
	}

	var result types.ComparisonResult
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		s.logger.WarnContext(ctx, "Malformed comparison JSON", slog.Any("error", err))
		return s.neutralComparison(ctx, placesData)
	}
	result.PlacesData = placesData
	return &result
}

func (s *ServiceImpl) neutralComparison(ctx context.Context, placesData []types.RequestPlaces) *types.ComparisonResult {
	if m := metrics.Get(); m != nil {
		m.AIFallbacksTotal.Add(ctx, 1)
	}
	best := ""
	if len(placesData) > 0 {
		best = placesData[0].Request
	}
	return &types.ComparisonResult{
		BestRequest:    best,
		Comparison:     []types.ComparisonVerdict{},
		Recommendation: "All options are viable. Choose based on personal preference.",
		PlacesData:     placesData,
	}
}

// ReplanDay merges an accepted request into its target day and returns the
// full itinerary with exactly that day replaced. When the model cannot
// produce a merged day, the raw request is appended as a low-detail activity.
func (s *ServiceImpl) ReplanDay(ctx context.Context, trip *types.Trip, request *types.ChangeRequest) ([]types.Day, error) {
	ctx, span := otel.Tracer("PlannerService").Start(ctx, "ReplanDay", trace.WithAttributes(
		attribute.Int("request.day", request.Day),
	))
	defer span.End()

	targetDay := findDay(trip.Itinerary, request.Day)
	if targetDay == nil {
		return nil, fmt.Errorf("day %d not found in itinerary", request.Day)
	}

	prompt := getReplanPrompt(targetDay, request)

	text, err := s.ai.GenerateJSON(ctx, prompt)
	if err != nil {
		s.logger.ErrorContext(ctx, "Replan failed, appending raw activity", slog.Any("error", err))
		return s.appendFallbackActivity(ctx, trip, request), nil
	}

	jsonStr, err := generativeAI.ExtractJSONObject(text)
	if err != nil {
		s.logger.WarnContext(ctx, "No JSON object in replan output", slog.Any("error", err))
		return s.appendFallbackActivity(ctx, trip, request), nil
	}

	var updatedDay types.Day
	if err := json.Unmarshal([]byte(jsonStr), &updatedDay); err != nil {
		s.logger.WarnContext(ctx, "Malformed replan JSON", slog.Any("error", err))
		return s.appendFallbackActivity(ctx, trip, request), nil
	}

	updated := make([]types.Day, len(trip.Itinerary))
	copy(updated, trip.Itinerary)
	for i := range updated {
		if updated[i].Day == request.Day {
			updated[i] = updatedDay
		}
	}
	return updated, nil
}

func (s *ServiceImpl) appendFallbackActivity(ctx context.Context, trip *types.Trip, request *types.ChangeRequest) []types.Day {
	if m := metrics.Get(); m != nil {
		m.AIFallbacksTotal.Add(ctx, 1)
	}
	updated := make([]types.Day, len(trip.Itinerary))
	copy(updated, trip.Itinerary)
	for i := range updated {
		if updated[i].Day != request.Day {
			continue
		}
		activities := make([]types.Activity, len(updated[i].Activities), len(updated[i].Activities)+1)
		copy(activities, updated[i].Activities)
		updated[i].Activities = append(activities, types.Activity{
			Time:        "14:00",
			Title:       request.Title,
			Description: request.Description,
			Location:    "To be determined",
			Duration:    "2 hours",
			Cost:        0,
		})
	}
	return updated
}
