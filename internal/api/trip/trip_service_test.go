package trip

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tripweave/tripweave/internal/api"
	"github.com/tripweave/tripweave/internal/types"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, trip *types.Trip) error {
	args := m.Called(ctx, trip)
	return args.Error(0)
}

func (m *MockRepository) GetTrip(ctx context.Context, tripID uuid.UUID) (*types.Trip, error) {
	args := m.Called(ctx, tripID)
	if t := args.Get(0); t != nil {
		return t.(*types.Trip), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) ListByMember(ctx context.Context, memberID string) ([]types.Trip, error) {
	args := m.Called(ctx, memberID)
	if t := args.Get(0); t != nil {
		return t.([]types.Trip), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) UpdateItinerary(ctx context.Context, tripID uuid.UUID, itinerary []types.Day) error {
	args := m.Called(ctx, tripID, itinerary)
	return args.Error(0)
}

func (m *MockRepository) UpdatePendingRequests(ctx context.Context, tripID uuid.UUID, requests []types.ChangeRequest) error {
	args := m.Called(ctx, tripID, requests)
	return args.Error(0)
}

func (m *MockRepository) AddMember(ctx context.Context, tripID uuid.UUID, member types.TripMember) error {
	args := m.Called(ctx, tripID, member)
	return args.Error(0)
}

func (m *MockRepository) AppendJourneyPath(ctx context.Context, tripID uuid.UUID, path types.JourneyPath) error {
	args := m.Called(ctx, tripID, path)
	return args.Error(0)
}

func (m *MockRepository) GetJourneyPaths(ctx context.Context, tripID uuid.UUID) ([]types.JourneyPath, error) {
	args := m.Called(ctx, tripID)
	if p := args.Get(0); p != nil {
		return p.([]types.JourneyPath), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockItineraryService struct {
	mock.Mock
}

func (m *MockItineraryService) GenerateItinerary(ctx context.Context, trip *types.Trip) []types.Day {
	args := m.Called(ctx, trip)
	return args.Get(0).([]types.Day)
}

type MockPlannerService struct {
	mock.Mock
}

func (m *MockPlannerService) AnalyzeRequest(ctx context.Context, trip *types.Trip, request *types.ChangeRequest) *types.RequestAnalysis {
	args := m.Called(ctx, trip, request)
	return args.Get(0).(*types.RequestAnalysis)
}

func (m *MockPlannerService) CompareRequests(ctx context.Context, requests []types.ChangeRequest, tripCtx types.TripContext) *types.ComparisonResult {
	args := m.Called(ctx, requests, tripCtx)
	return args.Get(0).(*types.ComparisonResult)
}

func (m *MockPlannerService) ReplanDay(ctx context.Context, trip *types.Trip, request *types.ChangeRequest) ([]types.Day, error) {
	args := m.Called(ctx, trip, request)
	if d := args.Get(0); d != nil {
		return d.([]types.Day), args.Error(1)
	}
	return nil, args.Error(1)
}

func newTestService(repo Repository, it *MockItineraryService, pl *MockPlannerService) *ServiceImpl {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewServiceImpl(repo, it, pl, logger)
}

func testTrip(tripID uuid.UUID) *types.Trip {
	return &types.Trip{
		ID:          tripID,
		Name:        "Lisbon Getaway",
		Destination: "Lisbon",
		StartDate:   time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 9, 13, 0, 0, 0, 0, time.UTC),
		Budget:      2000,
		TravelStyle: types.TravelStyleBalanced,
		Latitude:    38.7223,
		Longitude:   -9.1393,
		Itinerary: []types.Day{
			{Day: 1, Activities: []types.Activity{{Time: "10:00", Title: "Alfama walk"}}},
			{Day: 2, Activities: []types.Activity{{Time: "09:00", Title: "Belém"}}},
		},
		PendingRequests: []types.ChangeRequest{
			{ID: "req-1", Suggestion: "Visit the Oceanarium", Day: 1, Status: types.RequestStatusPending},
			{ID: "req-2", Suggestion: "Fado night in Bairro Alto", Day: 2, Status: types.RequestStatusPending},
		},
	}
}

func TestCreateTrip_ValidatesDates(t *testing.T) {
	service := newTestService(new(MockRepository), new(MockItineraryService), new(MockPlannerService))

	_, err := service.CreateTrip(context.Background(), types.CreateTripRequest{
		Name: "Trip", Destination: "Lisbon", StartDate: "2026-09-13", EndDate: "2026-09-10",
	})
	assert.ErrorContains(t, err, "endDate")

	_, err = service.CreateTrip(context.Background(), types.CreateTripRequest{
		Name: "Trip", Destination: "Lisbon", StartDate: "10/09/2026", EndDate: "2026-09-13",
	})
	assert.ErrorContains(t, err, "startDate")
}

func TestCreateTrip_AddsCreatorMember(t *testing.T) {
	repo := new(MockRepository)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*types.Trip")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*types.Trip).ID = uuid.New()
		}).Return(nil)

	trip, err := newTestService(repo, new(MockItineraryService), new(MockPlannerService)).
		CreateTrip(context.Background(), types.CreateTripRequest{
			Name:         "Lisbon Getaway",
			Destination:  "Lisbon",
			StartDate:    "2026-09-10",
			EndDate:      "2026-09-13",
			CreatorID:    "user-1",
			CreatorEmail: "owner@example.com",
		})

	require.NoError(t, err)
	require.Len(t, trip.Members, 1)
	assert.Equal(t, types.MemberRoleCreator, trip.Members[0].Role)
	assert.Equal(t, types.TravelStyleBalanced, trip.TravelStyle)
}

func TestGenerateItinerary_PersistsResult(t *testing.T) {
	tripID := uuid.New()
	trip := testTrip(tripID)
	generated := []types.Day{{Day: 1, Activities: []types.Activity{{Time: "09:00", Title: "Generated"}}}}

	repo := new(MockRepository)
	repo.On("GetTrip", mock.Anything, tripID).Return(trip, nil)
	repo.On("UpdateItinerary", mock.Anything, tripID, generated).Return(nil)

	it := new(MockItineraryService)
	it.On("GenerateItinerary", mock.Anything, trip).Return(generated)

	days, err := newTestService(repo, it, new(MockPlannerService)).GenerateItinerary(context.Background(), tripID)

	require.NoError(t, err)
	assert.Equal(t, generated, days)
	repo.AssertExpectations(t)
}

func TestAnalyzeRequest_MarksRequestAnalyzed(t *testing.T) {
	tripID := uuid.New()
	trip := testTrip(tripID)
	analysis := &types.RequestAnalysis{Score: 8, Reason: "Fits the day"}

	repo := new(MockRepository)
	repo.On("GetTrip", mock.Anything, tripID).Return(trip, nil)
	repo.On("UpdatePendingRequests", mock.Anything, tripID,
		mock.MatchedBy(func(requests []types.ChangeRequest) bool {
			return requests[0].Status == types.RequestStatusAnalyzed &&
				requests[0].AIAnalysis == analysis &&
				requests[1].Status == types.RequestStatusPending
		})).Return(nil)

	pl := new(MockPlannerService)
	pl.On("AnalyzeRequest", mock.Anything, trip, mock.Anything).Return(analysis)

	got, err := newTestService(repo, new(MockItineraryService), pl).
		AnalyzeRequest(context.Background(), tripID, "req-1")

	require.NoError(t, err)
	assert.Equal(t, analysis, got)
	repo.AssertExpectations(t)
}

func TestAnalyzeRequest_UnknownRequest(t *testing.T) {
	tripID := uuid.New()
	repo := new(MockRepository)
	repo.On("GetTrip", mock.Anything, tripID).Return(testTrip(tripID), nil)

	pl := new(MockPlannerService)
	_, err := newTestService(repo, new(MockItineraryService), pl).
		AnalyzeRequest(context.Background(), tripID, "missing")

	assert.ErrorIs(t, err, api.ErrNotFound)
	pl.AssertNotCalled(t, "AnalyzeRequest", mock.Anything, mock.Anything, mock.Anything)
}

func TestCompareRequests_FlagsBestOption(t *testing.T) {
	tripID := uuid.New()
	trip := testTrip(tripID)
	comparison := &types.ComparisonResult{
		BestRequest: "Fado night in Bairro Alto",
		Comparison: []types.ComparisonVerdict{
			{Request: "Visit the Oceanarium", Score: 6},
			{Request: "Fado night in Bairro Alto", Score: 9},
		},
		Recommendation: "Go for the fado night.",
	}

	repo := new(MockRepository)
	repo.On("GetTrip", mock.Anything, tripID).Return(trip, nil)
	repo.On("UpdatePendingRequests", mock.Anything, tripID,
		mock.MatchedBy(func(requests []types.ChangeRequest) bool {
			return !requests[0].IsBestOption && requests[1].IsBestOption &&
				requests[0].Status == types.RequestStatusCompared &&
				requests[1].ComparisonAnalysis != nil &&
				requests[1].ComparisonAnalysis.Score == 9
		})).Return(nil)

	pl := new(MockPlannerService)
	pl.On("CompareRequests", mock.Anything, mock.Anything,
		mock.MatchedBy(func(tripCtx types.TripContext) bool {
			// Day count comes from the stored itinerary length.
			return tripCtx.Days == 2 && tripCtx.Destination == "Lisbon"
		})).Return(comparison)

	got, err := newTestService(repo, new(MockItineraryService), pl).
		CompareRequests(context.Background(), tripID, []string{"req-1", "req-2"})

	require.NoError(t, err)
	assert.Equal(t, comparison, got)
	repo.AssertExpectations(t)
	pl.AssertExpectations(t)
}

func TestCompareRequests_TooFewMatches(t *testing.T) {
	tripID := uuid.New()
	repo := new(MockRepository)
	repo.On("GetTrip", mock.Anything, tripID).Return(testTrip(tripID), nil)

	pl := new(MockPlannerService)
	_, err := newTestService(repo, new(MockItineraryService), pl).
		CompareRequests(context.Background(), tripID, []string{"req-1", "missing"})

	assert.ErrorIs(t, err, ErrTooFewRequests)
	pl.AssertNotCalled(t, "CompareRequests", mock.Anything, mock.Anything, mock.Anything)
}

func TestAcceptRequest_ReplansAndRemovesRequest(t *testing.T) {
	tripID := uuid.New()
	trip := testTrip(tripID)
	replanned := []types.Day{
		{Day: 1, Activities: []types.Activity{{Time: "10:00", Title: "Oceanarium visit"}}},
		{Day: 2, Activities: []types.Activity{{Time: "09:00", Title: "Belém"}}},
	}

	repo := new(MockRepository)
	repo.On("GetTrip", mock.Anything, tripID).Return(trip, nil)
	repo.On("UpdateItinerary", mock.Anything, tripID, replanned).Return(nil)
	repo.On("UpdatePendingRequests", mock.Anything, tripID,
		mock.MatchedBy(func(requests []types.ChangeRequest) bool {
			return len(requests) == 1 && requests[0].ID == "req-2"
		})).Return(nil)

	pl := new(MockPlannerService)
	pl.On("ReplanDay", mock.Anything, trip, mock.MatchedBy(func(request *types.ChangeRequest) bool {
		return request.ID == "req-1"
	})).Return(replanned, nil)

	itinerary, err := newTestService(repo, new(MockItineraryService), pl).
		AcceptRequest(context.Background(), tripID, "req-1")

	require.NoError(t, err)
	assert.Equal(t, replanned, itinerary)
	repo.AssertExpectations(t)
	pl.AssertExpectations(t)
}

func TestAddRequest_AppendsPending(t *testing.T) {
	tripID := uuid.New()
	trip := testTrip(tripID)

	repo := new(MockRepository)
	repo.On("GetTrip", mock.Anything, tripID).Return(trip, nil)
	repo.On("UpdatePendingRequests", mock.Anything, tripID,
		mock.MatchedBy(func(requests []types.ChangeRequest) bool {
			return len(requests) == 3 &&
				requests[2].Suggestion == "Sunset at the miradouro" &&
				requests[2].Status == types.RequestStatusPending &&
				requests[2].ID != ""
		})).Return(nil)

	request, err := newTestService(repo, new(MockItineraryService), new(MockPlannerService)).
		AddRequest(context.Background(), tripID, AddRequestInput{
			Suggestion:  "Sunset at the miradouro",
			Day:         2,
			RequestedBy: "friend@example.com",
		})

	require.NoError(t, err)
	assert.NotEmpty(t, request.ID)
	repo.AssertExpectations(t)
}
