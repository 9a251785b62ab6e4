package guide

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tripweave/tripweave/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service handles the guide registry: registration, discovery, reviews and
// verification.
type Service interface {
	Register(ctx context.Context, req types.RegisterGuideRequest) (*types.Guide, error)
	Get(ctx context.Context, guideID uuid.UUID) (*types.Guide, error)
	List(ctx context.Context, filter types.GuideFilter) ([]types.Guide, error)
	Update(ctx context.Context, guideID uuid.UUID, req types.UpdateGuideRequest) (*types.Guide, error)
	Review(ctx context.Context, guideID uuid.UUID, req types.GuideReviewRequest) (*types.Guide, error)
	Verify(ctx context.Context, guideID uuid.UUID) (*types.Guide, error)
	Delete(ctx context.Context, guideID uuid.UUID) error

	// ListAvailableByDestination feeds registered guides into itinerary
	// generation prompts.
	ListAvailableByDestination(ctx context.Context, destination string, limit int) ([]types.Guide, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
}

func NewServiceImpl(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func (s *ServiceImpl) Register(ctx context.Context, req types.RegisterGuideRequest) (*types.Guide, error) {
	ctx, span := otel.Tracer("GuideService").Start(ctx, "Register", trace.WithAttributes(
		attribute.String("guide.destination", req.Destination),
	))
	defer span.End()

	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" {
		return nil, fmt.Errorf("guide name and email are required")
	}
	if strings.TrimSpace(req.Specialty) == "" || strings.TrimSpace(req.Destination) == "" {
		return nil, fmt.Errorf("guide specialty and destination are required")
	}
	if req.PricePerDay < 0 {
		return nil, fmt.Errorf("pricePerDay must not be negative")
	}

	guide := &types.Guide{
		Name:           strings.TrimSpace(req.Name),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:          req.Phone,
		Specialty:      req.Specialty,
		Languages:      req.Languages,
		PricePerDay:    req.PricePerDay,
		Experience:     req.Experience,
		Bio:            req.Bio,
		Destination:    req.Destination,
		Certifications: req.Certifications,
		Availability:   true,
	}
	if len(guide.Languages) == 0 {
		guide.Languages = []string{"English"}
	}
	if guide.Certifications == nil {
		guide.Certifications = []string{}
	}
	if req.Availability != nil {
		guide.Availability = *req.Availability
	}

	if err := s.repo.Create(ctx, guide); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Registered new guide",
		slog.String("guideID", guide.ID.String()),
		slog.String("destination", guide.Destination))
	return guide, nil
}

func (s *ServiceImpl) Get(ctx context.Context, guideID uuid.UUID) (*types.Guide, error) {
	return s.repo.GetByID(ctx, guideID)
}

// List fetches guides with SQL-side filters, then applies minRating and
// maxPrice in memory.
func (s *ServiceImpl) List(ctx context.Context, filter types.GuideFilter) ([]types.Guide, error) {
	guides, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	filtered := guides[:0]
	for _, guide := range guides {
		if filter.MinRating > 0 && guide.Rating < filter.MinRating {
			continue
		}
		if filter.MaxPrice > 0 && guide.PricePerDay > filter.MaxPrice {
			continue
		}
		filtered = append(filtered, guide)
	}
	return filtered, nil
}

func (s *ServiceImpl) Update(ctx context.Context, guideID uuid.UUID, req types.UpdateGuideRequest) (*types.Guide, error) {
	// Rating, review count and verification are only changed through their
	// dedicated operations.
	if err := s.repo.Update(ctx, guideID, req); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, guideID)
}

// Review records a review and folds it into the guide's running mean rating,
// rounded to 2 decimals.
func (s *ServiceImpl) Review(ctx context.Context, guideID uuid.UUID, req types.GuideReviewRequest) (*types.Guide, error) {
	ctx, span := otel.Tracer("GuideService").Start(ctx, "Review", trace.WithAttributes(
		attribute.String("guide.id", guideID.String()),
		attribute.Int("review.rating", req.Rating),
	))
	defer span.End()

	if req.Rating < 1 || req.Rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5")
	}

	guide, err := s.repo.GetByID(ctx, guideID)
	if err != nil {
		return nil, err
	}

	newTotal := guide.TotalReviews + 1
	newRating := math.Round((guide.Rating*float64(guide.TotalReviews)+float64(req.Rating))/float64(newTotal)*100) / 100

	if err := s.repo.InsertReview(ctx, guideID, req); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateRating(ctx, guideID, newRating, newTotal); err != nil {
		return nil, err
	}

	guide.Rating = newRating
	guide.TotalReviews = newTotal
	return guide, nil
}

func (s *ServiceImpl) Verify(ctx context.Context, guideID uuid.UUID) (*types.Guide, error) {
	if err := s.repo.SetVerified(ctx, guideID, true); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, guideID)
}

func (s *ServiceImpl) Delete(ctx context.Context, guideID uuid.UUID) error {
	return s.repo.Delete(ctx, guideID)
}

func (s *ServiceImpl) ListAvailableByDestination(ctx context.Context, destination string, limit int) ([]types.Guide, error) {
	return s.repo.ListAvailableByDestination(ctx, destination, limit)
}
