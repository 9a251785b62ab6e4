package assistant

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
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

func newTestService(ai *MockAIClient) *ServiceImpl {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewServiceImpl(ai, logger)
}

func TestChat_PrependsContext(t *testing.T) {
	ai := new(MockAIClient)
	ai.On("GenerateContent", mock.Anything, "trip details here\n\nwhere should I eat?").
		Return("Try the Time Out Market.", nil)

	response := newTestService(ai).Chat(context.Background(), "where should I eat?", "trip details here")

	assert.Equal(t, "Try the Time Out Market.", response)
	ai.AssertExpectations(t)
}

func TestChat_FallbackOnError(t *testing.T) {
	ai := new(MockAIClient)
	ai.On("GenerateContent", mock.Anything, mock.Anything).Return("", errors.New("quota exceeded"))

	response := newTestService(ai).Chat(context.Background(), "hello", "")

	assert.Equal(t, chatFallbackReply, response)
}

func TestTripChat_ParsesStructuredResponse(t *testing.T) {
	ai := new(MockAIClient)
	ai.On("GenerateJSON", mock.Anything, mock.Anything).Return("```json\n"+`{
		"response": "Great idea! A sunset cruise would be lovely.",
		"parsedRequest": {
			"title": "Sunset river cruise",
			"description": "Take a sunset cruise on the Tagus",
			"suggestedDay": 3,
			"type": "activity",
			"estimatedCost": 45,
			"estimatedDuration": "2 hours"
		},
		"suggestedDays": [{"day": 3, "reason": "Evening is free"}]
	}`+"\n```", nil)

	result := newTestService(ai).TripChat(context.Background(), "can we do a sunset cruise?", "ctx")

	require.NotNil(t, result.ParsedRequest)
	assert.Equal(t, "Sunset river cruise", result.ParsedRequest.Title)
	assert.Equal(t, 3, result.ParsedRequest.SuggestedDay)
	require.Len(t, result.SuggestedDays, 1)
	assert.Equal(t, 3, result.SuggestedDays[0].Day)
}

func TestTripChat_FallbackWhenNoJSON(t *testing.T) {
	ai := new(MockAIClient)
	ai.On("GenerateJSON", mock.Anything, mock.Anything).
		Return("Sure, I can help with that! What day did you have in mind?", nil)

	message := "can we add something fun in the evening maybe a bar or live music venue near the hotel"
	result := newTestService(ai).TripChat(context.Background(), message, "")

	require.NotNil(t, result.ParsedRequest)
	assert.Equal(t, message[:50], result.ParsedRequest.Title)
	assert.Equal(t, message, result.ParsedRequest.Description)
	assert.Equal(t, 1, result.ParsedRequest.SuggestedDay)
	assert.Equal(t, "activity", result.ParsedRequest.Type)
	assert.Equal(t, "1-2 hours", result.ParsedRequest.EstimatedDuration)
}

func TestTripChat_FallbackTitleKeepsRunesIntact(t *testing.T) {
	ai := new(MockAIClient)
	ai.On("GenerateJSON", mock.Anything, mock.Anything).
		Return("Claro, posso ajudar com isso!", nil)

	// Byte 50 lands inside the two-byte "ç"; the title must still be valid
	// UTF-8.
	message := strings.Repeat("a", 49) + "ção mais tarde"
	result := newTestService(ai).TripChat(context.Background(), message, "")

	require.NotNil(t, result.ParsedRequest)
	title := result.ParsedRequest.Title
	assert.True(t, utf8.ValidString(title))
	assert.Equal(t, strings.Repeat("a", 49), title)
}

func TestTripChat_FallbackOnModelError(t *testing.T) {
	ai := new(MockAIClient)
	ai.On("GenerateJSON", mock.Anything, mock.Anything).Return("", errors.New("network down"))

	result := newTestService(ai).TripChat(context.Background(), "add a museum", "")

	require.NotNil(t, result.ParsedRequest)
	assert.Contains(t, result.Response, "rephrase")
	assert.Equal(t, "add a museum", result.ParsedRequest.Description)
}

func TestSuggestions_ParsesArray(t *testing.T) {
	ai := new(MockAIClient)
	ai.On("GenerateJSON", mock.Anything, mock.Anything).Return(`[
		{"priority": "high", "type": "time", "title": "Lunch time", "message": "Grab lunch nearby", "action": "Walk to the market", "estimatedTime": "45 minutes", "cost": "$15", "icon": "clock"}
	]`, nil)

	suggestions := newTestService(ai).Suggestions(context.Background(), SuggestionsRequest{
		Destination: "Lisbon",
		Budget:      1000,
		Spent:       250,
	})

	require.Len(t, suggestions, 1)
	assert.Equal(t, "high", suggestions[0].Priority)
	assert.Equal(t, "Lunch time", suggestions[0].Title)
}

func TestSuggestions_EmptyOnFailure(t *testing.T) {
	ai := new(MockAIClient)
	ai.On("GenerateJSON", mock.Anything, mock.Anything).Return("", errors.New("timeout"))

	suggestions := newTestService(ai).Suggestions(context.Background(), SuggestionsRequest{Destination: "Lisbon"})

	assert.NotNil(t, suggestions)
	assert.Empty(t, suggestions)
}

func TestAlternatives_EmptyOnProseOutput(t *testing.T) {
	ai := new(MockAIClient)
	ai.On("GenerateJSON", mock.Anything, mock.Anything).
		Return("You could visit a cafe or take photos at the viewpoint.", nil)

	alternatives := newTestService(ai).Alternatives(context.Background(), AlternativesRequest{
		TimeLeft:    45,
		Destination: "Lisbon",
	})

	assert.NotNil(t, alternatives)
	assert.Empty(t, alternatives)
}

func TestAlternatives_ParsesArray(t *testing.T) {
	ai := new(MockAIClient)
	ai.On("GenerateJSON", mock.Anything, mock.Anything).Return(`[
		{"title": "Miradouro stop", "description": "Panoramic viewpoint", "duration": "20 minutes", "distance": "600 m", "cost": "Free", "type": "photo-stop"}
	]`, nil)

	alternatives := newTestService(ai).Alternatives(context.Background(), AlternativesRequest{
		TimeLeft:    30,
		Destination: "Lisbon",
	})

	require.Len(t, alternatives, 1)
	assert.Equal(t, "Miradouro stop", alternatives[0].Title)
	assert.Equal(t, "photo-stop", alternatives[0].Type)
}
