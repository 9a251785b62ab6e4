package trip

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tripweave/tripweave/internal/api"
	"github.com/tripweave/tripweave/internal/api/itinerary"
	"github.com/tripweave/tripweave/internal/api/planner"
	"github.com/tripweave/tripweave/internal/types"
)

// ErrTooFewRequests rejects comparisons over fewer than two change requests.
var ErrTooFewRequests = errors.New("at least 2 requests are needed for comparison")

var _ Service = (*ServiceImpl)(nil)

// Service orchestrates the trip lifecycle: creation, itinerary generation and
// the change-request analyze/compare/accept flow.
type Service interface {
	CreateTrip(ctx context.Context, req types.CreateTripRequest) (*types.Trip, error)
	GetTrip(ctx context.Context, tripID uuid.UUID) (*types.Trip, error)
	ListTrips(ctx context.Context, memberID string) ([]types.Trip, error)

	// AddRequest appends a pending change request to the trip.
	AddRequest(ctx context.Context, tripID uuid.UUID, req AddRequestInput) (*types.ChangeRequest, error)

	// GenerateItinerary builds and persists a fresh AI itinerary for the trip.
	GenerateItinerary(ctx context.Context, tripID uuid.UUID) ([]types.Day, error)

	// AnalyzeRequest scores one pending request and marks it "analyzed".
	AnalyzeRequest(ctx context.Context, tripID uuid.UUID, requestID string) (*types.RequestAnalysis, error)

	// CompareRequests ranks the selected requests against each other, marks
	// them "compared" and flags the winner. Returns ErrTooFewRequests when
	// fewer than two of the ids match pending requests.
	CompareRequests(ctx context.Context, tripID uuid.UUID, requestIDs []string) (*types.ComparisonResult, error)

	// AcceptRequest replans the affected day and removes the request.
	AcceptRequest(ctx context.Context, tripID uuid.UUID, requestID string) ([]types.Day, error)

	// LiveSuggestions returns context-sensitive suggestions for the trip.
	LiveSuggestions(ctx context.Context, tripID uuid.UUID) ([]string, error)
}

// AddRequestInput is the member-facing shape of a new change request.
type AddRequestInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Suggestion  string `json:"suggestion"`
	Day         int    `json:"day"`
	RequestedBy string `json:"requestedBy"`
}

type ServiceImpl struct {
	logger    *slog.Logger
	repo      Repository
	itinerary itinerary.Service
	planner   planner.Service
}

func NewServiceImpl(repo Repository, itineraryService itinerary.Service, plannerService planner.Service, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:    logger,
		repo:      repo,
		itinerary: itineraryService,
		planner:   plannerService,
	}
}

func (s *ServiceImpl) CreateTrip(ctx context.Context, req types.CreateTripRequest) (*types.Trip, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "CreateTrip", trace.WithAttributes(
		attribute.String("trip.destination", req.Destination),
	))
	defer span.End()

	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Destination) == "" {
		return nil, fmt.Errorf("trip name and destination are required")
	}
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid startDate, expected YYYY-MM-DD: %w", err)
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid endDate, expected YYYY-MM-DD: %w", err)
	}
	if endDate.Before(startDate) {
		return nil, fmt.Errorf("endDate must not be before startDate")
	}

	trip := &types.Trip{
		Name:             strings.TrimSpace(req.Name),
		Destination:      strings.TrimSpace(req.Destination),
		StartDate:        startDate,
		EndDate:          endDate,
		Budget:           req.Budget,
		TravelStyle:      req.TravelStyle,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		SpecialInterests: req.SpecialInterests,
	}
	if trip.TravelStyle == "" {
		trip.TravelStyle = types.TravelStyleBalanced
	}
	if req.CreatorID != "" || req.CreatorEmail != "" {
		creatorID := req.CreatorID
		if creatorID == "" {
			creatorID = req.CreatorEmail
		}
		trip.Members = []types.TripMember{{
			UserID: creatorID,
			Email:  req.CreatorEmail,
			Role:   types.MemberRoleCreator,
		}}
	}

	if err := s.repo.Create(ctx, trip); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Created trip",
		slog.String("tripID", trip.ID.String()),
		slog.String("destination", trip.Destination))
	return trip, nil
}

func (s *ServiceImpl) GetTrip(ctx context.Context, tripID uuid.UUID) (*types.Trip, error) {
	return s.repo.GetTrip(ctx, tripID)
}

func (s *ServiceImpl) ListTrips(ctx context.Context, memberID string) ([]types.Trip, error) {
	return s.repo.ListByMember(ctx, memberID)
}

func (s *ServiceImpl) AddRequest(ctx context.Context, tripID uuid.UUID, req AddRequestInput) (*types.ChangeRequest, error) {
	if strings.TrimSpace(req.Suggestion) == "" {
		return nil, fmt.Errorf("request suggestion is required")
	}

	trip, err := s.repo.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	request := types.ChangeRequest{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Suggestion:  req.Suggestion,
		Day:         req.Day,
		RequestedBy: req.RequestedBy,
		Status:      types.RequestStatusPending,
	}
	updated := append(trip.PendingRequests, request)
	if err := s.repo.UpdatePendingRequests(ctx, tripID, updated); err != nil {
		return nil, err
	}
	return &request, nil
}

func (s *ServiceImpl) GenerateItinerary(ctx context.Context, tripID uuid.UUID) ([]types.Day, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "GenerateItinerary", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
	))
	defer span.End()

	trip, err := s.repo.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	days := s.itinerary.GenerateItinerary(ctx, trip)
	if err := s.repo.UpdateItinerary(ctx, tripID, days); err != nil {
		return nil, err
	}
	return days, nil
}

func (s *ServiceImpl) AnalyzeRequest(ctx context.Context, tripID uuid.UUID, requestID string) (*types.RequestAnalysis, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "AnalyzeRequest", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
		attribute.String("request.id", requestID),
	))
	defer span.End()

	trip, err := s.repo.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	request := findRequest(trip.PendingRequests, requestID)
	if request == nil {
		return nil, fmt.Errorf("request %s: %w", requestID, api.ErrNotFound)
	}

	analysis := s.planner.AnalyzeRequest(ctx, trip, request)

	updated := make([]types.ChangeRequest, len(trip.PendingRequests))
	for i, r := range trip.PendingRequests {
		if r.ID == requestID {
			r.AIAnalysis = analysis
			r.Status = types.RequestStatusAnalyzed
		}
		updated[i] = r
	}
	if err := s.repo.UpdatePendingRequests(ctx, tripID, updated); err != nil {
		return nil, err
	}
	return analysis, nil
}

func (s *ServiceImpl) CompareRequests(ctx context.Context, tripID uuid.UUID, requestIDs []string) (*types.ComparisonResult, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "CompareRequests", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
		attribute.Int("request.count", len(requestIDs)),
	))
	defer span.End()

	trip, err := s.repo.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	selected := make(map[string]bool, len(requestIDs))
	for _, id := range requestIDs {
		selected[id] = true
	}
	var requests []types.ChangeRequest
	for _, r := range trip.PendingRequests {
		if selected[r.ID] {
			requests = append(requests, r)
		}
	}
	if len(requests) < 2 {
		return nil, ErrTooFewRequests
	}

	comparison := s.planner.CompareRequests(ctx, requests, types.TripContext{
		Destination: trip.Destination,
		Budget:      trip.Budget,
		TravelStyle: trip.TravelStyle,
		Days:        len(trip.Itinerary),
		Location:    types.GeoPoint{Lat: trip.Latitude, Lng: trip.Longitude},
	})

	// Verdicts are matched back onto requests by suggestion text, which is
	// what the ranking prompt sees.
	updated := make([]types.ChangeRequest, len(trip.PendingRequests))
	for i, r := range trip.PendingRequests {
		if selected[r.ID] {
			r.ComparisonAnalysis = findVerdict(comparison.Comparison, r.Suggestion)
			r.IsBestOption = r.Suggestion == comparison.BestRequest
			r.Status = types.RequestStatusCompared
		}
		updated[i] = r
	}
	if err := s.repo.UpdatePendingRequests(ctx, tripID, updated); err != nil {
		return nil, err
	}
	return comparison, nil
}

func (s *ServiceImpl) AcceptRequest(ctx context.Context, tripID uuid.UUID, requestID string) ([]types.Day, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "AcceptRequest", trace.WithAttributes(
		attribute.String("trip.id", tripID.String()),
		attribute.String("request.id", requestID),
	))
	defer span.End()

	trip, err := s.repo.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	request := findRequest(trip.PendingRequests, requestID)
	if request == nil {
		return nil, fmt.Errorf("request %s: %w", requestID, api.ErrNotFound)
	}

	newItinerary, err := s.planner.ReplanDay(ctx, trip, request)
	if err != nil {
		return nil, fmt.Errorf("failed to replan itinerary: %w", err)
	}

	remaining := make([]types.ChangeRequest, 0, len(trip.PendingRequests))
	for _, r := range trip.PendingRequests {
		if r.ID != requestID {
			remaining = append(remaining, r)
		}
	}

	if err := s.repo.UpdateItinerary(ctx, tripID, newItinerary); err != nil {
		return nil, err
	}
	if err := s.repo.UpdatePendingRequests(ctx, tripID, remaining); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Accepted change request",
		slog.String("tripID", tripID.String()),
		slog.String("requestID", requestID),
		slog.Int("day", request.Day))
	return newItinerary, nil
}

func (s *ServiceImpl) LiveSuggestions(ctx context.Context, tripID uuid.UUID) ([]string, error) {
	if _, err := s.repo.GetTrip(ctx, tripID); err != nil {
		return nil, err
	}
	// Real-time contextual suggestions come from the journey recommendations
	// endpoint; this surface stays empty until a location is reported.
	return []string{}, nil
}

func findRequest(requests []types.ChangeRequest, requestID string) *types.ChangeRequest {
	for i := range requests {
		if requests[i].ID == requestID {
			return &requests[i]
		}
	}
	return nil
}

func findVerdict(verdicts []types.ComparisonVerdict, suggestion string) *types.ComparisonVerdict {
	for i := range verdicts {
		if verdicts[i].Request == suggestion {
			return &verdicts[i]
		}
	}
	return nil
}
