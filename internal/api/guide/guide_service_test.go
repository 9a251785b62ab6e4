package guide

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tripweave/tripweave/internal/types"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, guide *types.Guide) error {
	args := m.Called(ctx, guide)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, guideID uuid.UUID) (*types.Guide, error) {
	args := m.Called(ctx, guideID)
	if g := args.Get(0); g != nil {
		return g.(*types.Guide), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, filter types.GuideFilter) ([]types.Guide, error) {
	args := m.Called(ctx, filter)
	if g := args.Get(0); g != nil {
		return g.([]types.Guide), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) ListAvailableByDestination(ctx context.Context, destination string, limit int) ([]types.Guide, error) {
	args := m.Called(ctx, destination, limit)
	if g := args.Get(0); g != nil {
		return g.([]types.Guide), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, guideID uuid.UUID, params types.UpdateGuideRequest) error {
	args := m.Called(ctx, guideID, params)
	return args.Error(0)
}

func (m *MockRepository) UpdateRating(ctx context.Context, guideID uuid.UUID, rating float64, totalReviews int) error {
	args := m.Called(ctx, guideID, rating, totalReviews)
	return args.Error(0)
}

func (m *MockRepository) InsertReview(ctx context.Context, guideID uuid.UUID, review types.GuideReviewRequest) error {
	args := m.Called(ctx, guideID, review)
	return args.Error(0)
}

func (m *MockRepository) SetVerified(ctx context.Context, guideID uuid.UUID, verified bool) error {
	args := m.Called(ctx, guideID, verified)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, guideID uuid.UUID) error {
	args := m.Called(ctx, guideID)
	return args.Error(0)
}

func newTestService(repo Repository) *ServiceImpl {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewServiceImpl(repo, logger)
}

func TestRegister_AppliesDefaults(t *testing.T) {
	repo := new(MockRepository)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*types.Guide")).
		Run(func(args mock.Arguments) {
			guide := args.Get(1).(*types.Guide)
			guide.ID = uuid.New()
		}).Return(nil)

	guide, err := newTestService(repo).Register(context.Background(), types.RegisterGuideRequest{
		Name:        "  Maria Santos ",
		Email:       "Maria@Example.com",
		Specialty:   "Food Tours",
		Destination: "Lisbon",
		PricePerDay: 120,
	})

	require.NoError(t, err)
	assert.Equal(t, "Maria Santos", guide.Name)
	assert.Equal(t, "maria@example.com", guide.Email)
	assert.Equal(t, []string{"English"}, guide.Languages)
	assert.True(t, guide.Availability)
	assert.NotNil(t, guide.Certifications)
	repo.AssertExpectations(t)
}

func TestRegister_RejectsMissingFields(t *testing.T) {
	repo := new(MockRepository)
	service := newTestService(repo)

	_, err := service.Register(context.Background(), types.RegisterGuideRequest{
		Name: "No Email", Specialty: "History", Destination: "Rome",
	})
	assert.Error(t, err)

	_, err = service.Register(context.Background(), types.RegisterGuideRequest{
		Name: "Maria", Email: "m@example.com", Destination: "Rome",
	})
	assert.Error(t, err)

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestReview_RecomputesRunningMean(t *testing.T) {
	guideID := uuid.New()
	repo := new(MockRepository)
	repo.On("GetByID", mock.Anything, guideID).
		Return(&types.Guide{ID: guideID, Rating: 4.0, TotalReviews: 3}, nil)
	repo.On("InsertReview", mock.Anything, guideID, mock.Anything).Return(nil)
	// (4.0*3 + 5) / 4 = 4.25
	repo.On("UpdateRating", mock.Anything, guideID, 4.25, 4).Return(nil)

	guide, err := newTestService(repo).Review(context.Background(), guideID, types.GuideReviewRequest{
		Rating: 5, UserID: "user-1",
	})

	require.NoError(t, err)
	assert.Equal(t, 4.25, guide.Rating)
	assert.Equal(t, 4, guide.TotalReviews)
	repo.AssertExpectations(t)
}

func TestReview_FirstReviewSetsRating(t *testing.T) {
	guideID := uuid.New()
	repo := new(MockRepository)
	repo.On("GetByID", mock.Anything, guideID).
		Return(&types.Guide{ID: guideID, Rating: 0, TotalReviews: 0}, nil)
	repo.On("InsertReview", mock.Anything, guideID, mock.Anything).Return(nil)
	repo.On("UpdateRating", mock.Anything, guideID, 3.0, 1).Return(nil)

	guide, err := newTestService(repo).Review(context.Background(), guideID, types.GuideReviewRequest{Rating: 3})

	require.NoError(t, err)
	assert.Equal(t, 3.0, guide.Rating)
	repo.AssertExpectations(t)
}

func TestReview_RejectsInvalidRating(t *testing.T) {
	repo := new(MockRepository)
	service := newTestService(repo)

	for _, rating := range []int{0, -1, 6} {
		_, err := service.Review(context.Background(), uuid.New(), types.GuideReviewRequest{Rating: rating})
		assert.Error(t, err, "rating %d should be rejected", rating)
	}
	repo.AssertNotCalled(t, "InsertReview", mock.Anything, mock.Anything, mock.Anything)
}

func TestList_AppliesRatingAndPriceFilters(t *testing.T) {
	repo := new(MockRepository)
	repo.On("List", mock.Anything, mock.Anything).Return([]types.Guide{
		{Name: "Cheap but unrated", Rating: 2.0, PricePerDay: 50},
		{Name: "Great but pricey", Rating: 4.8, PricePerDay: 400},
		{Name: "Just right", Rating: 4.2, PricePerDay: 150},
	}, nil)

	guides, err := newTestService(repo).List(context.Background(), types.GuideFilter{
		MinRating: 4.0,
		MaxPrice:  200,
	})

	require.NoError(t, err)
	require.Len(t, guides, 1)
	assert.Equal(t, "Just right", guides[0].Name)
}

func TestVerify(t *testing.T) {
	guideID := uuid.New()
	repo := new(MockRepository)
	repo.On("SetVerified", mock.Anything, guideID, true).Return(nil)
	repo.On("GetByID", mock.Anything, guideID).
		Return(&types.Guide{ID: guideID, Verified: true}, nil)

	guide, err := newTestService(repo).Verify(context.Background(), guideID)

	require.NoError(t, err)
	assert.True(t, guide.Verified)
	repo.AssertExpectations(t)
}
