package itinerary

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tripweave/tripweave/internal/types"
)

type MockAIClient struct {
	mock.Mock
}

func (m *MockAIClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockAIClient) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

type MockGuideSource struct {
	mock.Mock
}

func (m *MockGuideSource) ListAvailableByDestination(ctx context.Context, destination string, limit int) ([]types.Guide, error) {
	args := m.Called(ctx, destination, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Guide), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testTrip(start, end string) *types.Trip {
	startDate, _ := time.Parse(time.DateOnly, start)
	endDate, _ := time.Parse(time.DateOnly, end)
	return &types.Trip{
		Name:        "Winter Escape",
		Destination: "Lisbon",
		StartDate:   startDate,
		EndDate:     endDate,
		Budget:      1500,
		TravelStyle: types.TravelStyleBalanced,
	}
}

func TestFallbackItinerary_DayCount(t *testing.T) {
	trip := testTrip("2025-12-25", "2025-12-30")

	days := FallbackItinerary(trip)

	require.Len(t, days, 6)
	for i, day := range days {
		assert.Equal(t, i+1, day.Day)
		assert.Len(t, day.Activities, 4)
	}
	assert.Equal(t, "2025-12-25", days[0].Date)
	assert.Equal(t, "2025-12-30", days[5].Date)
}

func TestFallbackItinerary_DayCost(t *testing.T) {
	trip := testTrip("2025-12-25", "2025-12-30")

	days := FallbackItinerary(trip)

	var total float64
	for _, a := range days[0].Activities {
		total += a.Cost
	}
	assert.Equal(t, float64(115), total) // 30 + 20 + 40 + 25
}

func TestFallbackItinerary_SingleDay(t *testing.T) {
	trip := testTrip("2026-03-01", "2026-03-01")
	assert.Len(t, FallbackItinerary(trip), 1)
}

func TestGenerateItinerary_ParsesModelOutput(t *testing.T) {
	trip := testTrip("2026-01-15", "2026-01-16")

	aiClient := new(MockAIClient)
	guides := new(MockGuideSource)
	guides.On("ListAvailableByDestination", mock.Anything, "Lisbon", maxGuidesInPrompt).Return([]types.Guide{}, nil)
	aiClient.On("GenerateJSON", mock.Anything, mock.Anything).Return("```json\n"+
		`[{"day":1,"date":"2026-01-15","activities":[{"time":"08:00","title":"Breakfast at Café Nicola","cost":15}]},`+
		`{"day":2,"date":"2026-01-16","activities":[{"time":"09:00","title":"Belém Tower","cost":10}]}]`+
		"\n```", nil)

	svc := NewServiceImpl(aiClient, guides, testLogger())
	days := svc.GenerateItinerary(context.Background(), trip)

	require.Len(t, days, 2)
	assert.Equal(t, "Breakfast at Café Nicola", days[0].Activities[0].Title)
	aiClient.AssertExpectations(t)
}

func TestGenerateItinerary_AIFailureFallsBack(t *testing.T) {
	trip := testTrip("2025-12-25", "2025-12-30")

	aiClient := new(MockAIClient)
	guides := new(MockGuideSource)
	guides.On("ListAvailableByDestination", mock.Anything, "Lisbon", maxGuidesInPrompt).Return([]types.Guide{}, nil)
	aiClient.On("GenerateJSON", mock.Anything, mock.Anything).Return("", errors.New("network down"))

	svc := NewServiceImpl(aiClient, guides, testLogger())
	days := svc.GenerateItinerary(context.Background(), trip)

	require.Len(t, days, 6)
	assert.Len(t, days[0].Activities, 4)
}

func TestGenerateItinerary_MalformedOutputFallsBack(t *testing.T) {
	trip := testTrip("2025-12-25", "2025-12-27")

	aiClient := new(MockAIClient)
	guides := new(MockGuideSource)
	guides.On("ListAvailableByDestination", mock.Anything, "Lisbon", maxGuidesInPrompt).Return([]types.Guide{}, nil)
	aiClient.On("GenerateJSON", mock.Anything, mock.Anything).Return("I'd love to help but cannot.", nil)

	svc := NewServiceImpl(aiClient, guides, testLogger())
	days := svc.GenerateItinerary(context.Background(), trip)

	require.Len(t, days, 3)
}

func TestGenerateItinerary_GuideLookupFailureStillGenerates(t *testing.T) {
	trip := testTrip("2026-01-15", "2026-01-15")

	aiClient := new(MockAIClient)
	guides := new(MockGuideSource)
	guides.On("ListAvailableByDestination", mock.Anything, "Lisbon", maxGuidesInPrompt).Return(nil, errors.New("db down"))
	aiClient.On("GenerateJSON", mock.Anything, mock.Anything).Return(
		`[{"day":1,"date":"2026-01-15","activities":[{"time":"10:00","title":"Alfama walk"}]}]`, nil)

	svc := NewServiceImpl(aiClient, guides, testLogger())
	days := svc.GenerateItinerary(context.Background(), trip)

	require.Len(t, days, 1)
	assert.Equal(t, "Alfama walk", days[0].Activities[0].Title)
}
