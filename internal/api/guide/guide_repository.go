package guide

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/tripweave/tripweave/internal/api"
	"github.com/tripweave/tripweave/internal/types"
)

// DB is the subset of pgxpool.Pool the repository needs. pgxmock satisfies it
// in tests.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var _ Repository = (*RepositoryImpl)(nil)

// Repository defines the contract for guide persistence.
type Repository interface {
	// Create inserts the guide and fills in its generated ID and timestamps.
	// Returns api.ErrDuplicate when the email is already registered.
	Create(ctx context.Context, guide *types.Guide) error

	// GetByID returns api.ErrNotFound when no guide matches.
	GetByID(ctx context.Context, guideID uuid.UUID) (*types.Guide, error)

	// List applies the SQL-side filters (destination, specialty) and returns
	// guides ordered by rating. Only available guides are returned; unverified
	// ones are excluded too unless filter.All is set.
	List(ctx context.Context, filter types.GuideFilter) ([]types.Guide, error)

	// ListAvailableByDestination returns available guides for a destination,
	// best-rated first, capped at limit.
	ListAvailableByDestination(ctx context.Context, destination string, limit int) ([]types.Guide, error)

	Update(ctx context.Context, guideID uuid.UUID, params types.UpdateGuideRequest) error
	UpdateRating(ctx context.Context, guideID uuid.UUID, rating float64, totalReviews int) error
	InsertReview(ctx context.Context, guideID uuid.UUID, review types.GuideReviewRequest) error
	SetVerified(ctx context.Context, guideID uuid.UUID, verified bool) error
	Delete(ctx context.Context, guideID uuid.UUID) error
}

type RepositoryImpl struct {
	logger *slog.Logger
	db     DB
}

func NewRepositoryImpl(db DB, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		db:     db,
	}
}

func (r *RepositoryImpl) ready() error {
	if r.db == nil {
		return api.ErrStoreUnavailable
	}
	return nil
}

const guideColumns = `id, name, email, phone, specialty, languages, price_per_day,
       experience, bio, destination, certifications, availability,
       rating, total_reviews, verified, created_at, updated_at`

func scanGuide(row pgx.Row) (*types.Guide, error) {
	var g types.Guide
	err := row.Scan(
		&g.ID, &g.Name, &g.Email, &g.Phone, &g.Specialty, &g.Languages,
		&g.PricePerDay, &g.Experience, &g.Bio, &g.Destination,
		&g.Certifications, &g.Availability, &g.Rating, &g.TotalReviews,
		&g.Verified, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *RepositoryImpl) Create(ctx context.Context, guide *types.Guide) error {
	if err := r.ready(); err != nil {
		return err
	}
	ctx, span := otel.Tracer("GuideRepo").Start(ctx, "Create", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "guides"),
	))
	defer span.End()

	query := `
        INSERT INTO guides (
            name, email, phone, specialty, languages, price_per_day,
            experience, bio, destination, certifications, availability
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING id, rating, total_reviews, verified, created_at, updated_at
    `
	err := r.db.QueryRow(ctx, query,
		guide.Name, guide.Email, guide.Phone, guide.Specialty, guide.Languages,
		guide.PricePerDay, guide.Experience, guide.Bio, guide.Destination,
		guide.Certifications, guide.Availability,
	).Scan(&guide.ID, &guide.Rating, &guide.TotalReviews, &guide.Verified,
		&guide.CreatedAt, &guide.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("guide with email %s: %w", guide.Email, api.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert guide: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) GetByID(ctx context.Context, guideID uuid.UUID) (*types.Guide, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	query := `SELECT ` + guideColumns + ` FROM guides WHERE id = $1`
	guide, err := scanGuide(r.db.QueryRow(ctx, query, guideID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("guide %s: %w", guideID, api.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch guide: %w", err)
	}
	return guide, nil
}

func (r *RepositoryImpl) List(ctx context.Context, filter types.GuideFilter) ([]types.Guide, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	ctx, span := otel.Tracer("GuideRepo").Start(ctx, "List", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "guides"),
	))
	defer span.End()

	// Public discovery only surfaces verified guides; the all flag lifts the
	// verified condition for admin views but never the availability one.
	conditions := []string{"availability = TRUE"}
	var args []any
	if !filter.All {
		conditions = append(conditions, "verified = TRUE")
	}
	if filter.Destination != "" {
		args = append(args, "%"+filter.Destination+"%")
		conditions = append(conditions, fmt.Sprintf("destination ILIKE $%d", len(args)))
	}
	if filter.Specialty != "" {
		args = append(args, "%"+filter.Specialty+"%")
		conditions = append(conditions, fmt.Sprintf("specialty ILIKE $%d", len(args)))
	}

	query := `SELECT ` + guideColumns + ` FROM guides`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY rating DESC, total_reviews DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list guides: %w", err)
	}
	defer rows.Close()

	var guides []types.Guide
	for rows.Next() {
		guide, err := scanGuide(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan guide row: %w", err)
		}
		guides = append(guides, *guide)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read guide rows: %w", err)
	}
	return guides, nil
}

func (r *RepositoryImpl) ListAvailableByDestination(ctx context.Context, destination string, limit int) ([]types.Guide, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	query := `SELECT ` + guideColumns + `
        FROM guides
        WHERE availability = TRUE AND destination ILIKE $1
        ORDER BY rating DESC, total_reviews DESC
        LIMIT $2`

	rows, err := r.db.Query(ctx, query, "%"+destination+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list guides for destination: %w", err)
	}
	defer rows.Close()

	var guides []types.Guide
	for rows.Next() {
		guide, err := scanGuide(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan guide row: %w", err)
		}
		guides = append(guides, *guide)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read guide rows: %w", err)
	}
	return guides, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, guideID uuid.UUID, params types.UpdateGuideRequest) error {
	if err := r.ready(); err != nil {
		return err
	}
	ctx, span := otel.Tracer("GuideRepo").Start(ctx, "Update", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "guides"),
	))
	defer span.End()

	var (
		sets []string
		args []any
	)
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.Name != nil {
		set("name", *params.Name)
	}
	if params.Phone != nil {
		set("phone", *params.Phone)
	}
	if params.Specialty != nil {
		set("specialty", *params.Specialty)
	}
	if params.Languages != nil {
		set("languages", params.Languages)
	}
	if params.PricePerDay != nil {
		set("price_per_day", *params.PricePerDay)
	}
	if params.Experience != nil {
		set("experience", *params.Experience)
	}
	if params.Bio != nil {
		set("bio", *params.Bio)
	}
	if params.Destination != nil {
		set("destination", *params.Destination)
	}
	if params.Certifications != nil {
		set("certifications", params.Certifications)
	}
	if params.Availability != nil {
		set("availability", *params.Availability)
	}
	if len(sets) == 0 {
		return nil
	}
	set("updated_at", time.Now())

	args = append(args, guideID)
	query := fmt.Sprintf("UPDATE guides SET %s WHERE id = $%d",
		strings.Join(sets, ", "), len(args))

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update guide: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("guide %s: %w", guideID, api.ErrNotFound)
	}
	return nil
}

func (r *RepositoryImpl) UpdateRating(ctx context.Context, guideID uuid.UUID, rating float64, totalReviews int) error {
	if err := r.ready(); err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx,
		"UPDATE guides SET rating = $1, total_reviews = $2, updated_at = $3 WHERE id = $4",
		rating, totalReviews, time.Now(), guideID)
	if err != nil {
		return fmt.Errorf("failed to update guide rating: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("guide %s: %w", guideID, api.ErrNotFound)
	}
	return nil
}

func (r *RepositoryImpl) InsertReview(ctx context.Context, guideID uuid.UUID, review types.GuideReviewRequest) error {
	if err := r.ready(); err != nil {
		return err
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO guide_reviews (guide_id, user_id, user_name, rating, comment)
         VALUES ($1, $2, $3, $4, $5)`,
		guideID, review.UserID, review.UserName, review.Rating, review.Comment)
	if err != nil {
		return fmt.Errorf("failed to insert guide review: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) SetVerified(ctx context.Context, guideID uuid.UUID, verified bool) error {
	if err := r.ready(); err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx,
		"UPDATE guides SET verified = $1, updated_at = $2 WHERE id = $3",
		verified, time.Now(), guideID)
	if err != nil {
		return fmt.Errorf("failed to update guide verification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("guide %s: %w", guideID, api.ErrNotFound)
	}
	return nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, guideID uuid.UUID) error {
	if err := r.ready(); err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, "DELETE FROM guides WHERE id = $1", guideID)
	if err != nil {
		return fmt.Errorf("failed to delete guide: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("guide %s: %w", guideID, api.ErrNotFound)
	}
	return nil
}
