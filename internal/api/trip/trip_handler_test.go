package trip

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/tripweave/tripweave/internal/types"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) CreateTrip(ctx context.Context, req types.CreateTripRequest) (*types.Trip, error) {
	args := m.Called(ctx, req)
	if t := args.Get(0); t != nil {
		return t.(*types.Trip), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) GetTrip(ctx context.Context, tripID uuid.UUID) (*types.Trip, error) {
	args := m.Called(ctx, tripID)
	if t := args.Get(0); t != nil {
		return t.(*types.Trip), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) ListTrips(ctx context.Context, memberID string) ([]types.Trip, error) {
	args := m.Called(ctx, memberID)
	if t := args.Get(0); t != nil {
		return t.([]types.Trip), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) AddRequest(ctx context.Context, tripID uuid.UUID, req AddRequestInput) (*types.ChangeRequest, error) {
	args := m.Called(ctx, tripID, req)
	if r := args.Get(0); r != nil {
		return r.(*types.ChangeRequest), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) GenerateItinerary(ctx context.Context, tripID uuid.UUID) ([]types.Day, error) {
	args := m.Called(ctx, tripID)
	if d := args.Get(0); d != nil {
		return d.([]types.Day), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) AnalyzeRequest(ctx context.Context, tripID uuid.UUID, requestID string) (*types.RequestAnalysis, error) {
	args := m.Called(ctx, tripID, requestID)
	if a := args.Get(0); a != nil {
		return a.(*types.RequestAnalysis), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) CompareRequests(ctx context.Context, tripID uuid.UUID, requestIDs []string) (*types.ComparisonResult, error) {
	args := m.Called(ctx, tripID, requestIDs)
	if c := args.Get(0); c != nil {
		return c.(*types.ComparisonResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) AcceptRequest(ctx context.Context, tripID uuid.UUID, requestID string) ([]types.Day, error) {
	args := m.Called(ctx, tripID, requestID)
	if d := args.Get(0); d != nil {
		return d.([]types.Day), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) LiveSuggestions(ctx context.Context, tripID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, tripID)
	if s := args.Get(0); s != nil {
		return s.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

func newTestHandler(service Service) *HandlerImpl {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewHandlerImpl(service, logger)
}

func postJSON(t *testing.T, handler http.HandlerFunc, target, tripID, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("tripID", tripID)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	recorder := httptest.NewRecorder()
	handler(recorder, req)
	return recorder
}

func TestCompareRequests_RejectsSingleIDWithoutServiceCall(t *testing.T) {
	service := new(MockService)
	handler := newTestHandler(service)
	tripID := uuid.NewString()

	recorder := postJSON(t, handler.CompareRequests,
		"/trips/"+tripID+"/compare-requests", tripID,
		`{"requestIds": ["only-one"]}`)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "At least 2 requests")
	service.AssertNotCalled(t, "CompareRequests", mock.Anything, mock.Anything, mock.Anything)
}

func TestCompareRequests_RejectsEmptyList(t *testing.T) {
	service := new(MockService)
	handler := newTestHandler(service)
	tripID := uuid.NewString()

	recorder := postJSON(t, handler.CompareRequests,
		"/trips/"+tripID+"/compare-requests", tripID,
		`{"requestIds": []}`)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	service.AssertNotCalled(t, "CompareRequests", mock.Anything, mock.Anything, mock.Anything)
}

func TestCompareRequests_InvalidTripID(t *testing.T) {
	service := new(MockService)
	handler := newTestHandler(service)

	recorder := postJSON(t, handler.CompareRequests,
		"/trips/not-a-uuid/compare-requests", "not-a-uuid",
		`{"requestIds": ["a", "b"]}`)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	service.AssertNotCalled(t, "CompareRequests", mock.Anything, mock.Anything, mock.Anything)
}

func TestAnalyzeRequest_RequiresRequestID(t *testing.T) {
	service := new(MockService)
	handler := newTestHandler(service)
	tripID := uuid.NewString()

	recorder := postJSON(t, handler.AnalyzeRequest,
		"/trips/"+tripID+"/analyze-request", tripID, `{}`)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	service.AssertNotCalled(t, "AnalyzeRequest", mock.Anything, mock.Anything, mock.Anything)
}
