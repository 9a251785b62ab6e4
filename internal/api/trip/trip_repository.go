package trip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
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

// DB is the subset of pgxpool.Pool the repository needs.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var _ Repository = (*RepositoryImpl)(nil)

// Repository defines the contract for trip document persistence. Every method
// returns api.ErrStoreUnavailable when the repository was built without a
// database pool.
type Repository interface {
	Create(ctx context.Context, trip *types.Trip) error
	GetTrip(ctx context.Context, tripID uuid.UUID) (*types.Trip, error)

	// ListByMember matches the identifier against member userId, email, and
	// legacy bare-string member entries.
	ListByMember(ctx context.Context, memberID string) ([]types.Trip, error)

	UpdateItinerary(ctx context.Context, tripID uuid.UUID, itinerary []types.Day) error
	UpdatePendingRequests(ctx context.Context, tripID uuid.UUID, requests []types.ChangeRequest) error

	// AddMember appends the member unless a record with the same userId or
	// email already exists.
	AddMember(ctx context.Context, tripID uuid.UUID, member types.TripMember) error

	AppendJourneyPath(ctx context.Context, tripID uuid.UUID, path types.JourneyPath) error
	GetJourneyPaths(ctx context.Context, tripID uuid.UUID) ([]types.JourneyPath, error)
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

// normalizeMembers upgrades legacy member entries. Older documents stored
// members as bare identifier strings instead of objects.
func normalizeMembers(raw []byte) ([]types.TripMember, error) {
	if len(raw) == 0 {
		return []types.TripMember{}, nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse members: %w", err)
	}

	members := make([]types.TripMember, 0, len(entries))
	for _, entry := range entries {
		var id string
		if err := json.Unmarshal(entry, &id); err == nil {
			members = append(members, types.TripMember{
				UserID: id,
				Email:  id,
				Role:   types.MemberRoleMember,
			})
			continue
		}
		var member types.TripMember
		if err := json.Unmarshal(entry, &member); err != nil {
			return nil, fmt.Errorf("failed to parse member record: %w", err)
		}
		if member.Role == "" {
			member.Role = types.MemberRoleMember
		}
		members = append(members, member)
	}
	return members, nil
}

const tripColumns = `id, name, destination, start_date, end_date, budget, travel_style,
       latitude, longitude, special_interests, members, itinerary,
       pending_requests, created_at, updated_at`

func scanTrip(row pgx.Row) (*types.Trip, error) {
	var (
		t          types.Trip
		rawMembers []byte
	)
	err := row.Scan(
		&t.ID, &t.Name, &t.Destination, &t.StartDate, &t.EndDate, &t.Budget,
		&t.TravelStyle, &t.Latitude, &t.Longitude, &t.SpecialInterests,
		&rawMembers, &t.Itinerary, &t.PendingRequests, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Members, err = normalizeMembers(rawMembers)
	if err != nil {
		return nil, err
	}
	if t.Itinerary == nil {
		t.Itinerary = []types.Day{}
	}
	if t.PendingRequests == nil {
		t.PendingRequests = []types.ChangeRequest{}
	}
	return &t, nil
}

func (r *RepositoryImpl) Create(ctx context.Context, trip *types.Trip) error {
	if err := r.ready(); err != nil {
		return err
	}
	ctx, span := otel.Tracer("TripRepo").Start(ctx, "Create", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "trips"),
	))
	defer span.End()

	if trip.Members == nil {
		trip.Members = []types.TripMember{}
	}
	if trip.Itinerary == nil {
		trip.Itinerary = []types.Day{}
	}
	if trip.PendingRequests == nil {
		trip.PendingRequests = []types.ChangeRequest{}
	}

	query := `
        INSERT INTO trips (
            name, destination, start_date, end_date, budget, travel_style,
            latitude, longitude, special_interests, members, itinerary, pending_requests
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        RETURNING id, created_at, updated_at
    `
	err := r.db.QueryRow(ctx, query,
		trip.Name, trip.Destination, trip.StartDate, trip.EndDate, trip.Budget,
		trip.TravelStyle, trip.Latitude, trip.Longitude, trip.SpecialInterests,
		trip.Members, trip.Itinerary, trip.PendingRequests,
	).Scan(&trip.ID, &trip.CreatedAt, &trip.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert trip: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) GetTrip(ctx context.Context, tripID uuid.UUID) (*types.Trip, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`
	trip, err := scanTrip(r.db.QueryRow(ctx, query, tripID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("trip %s: %w", tripID, api.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch trip: %w", err)
	}
	return trip, nil
}

func (r *RepositoryImpl) ListByMember(ctx context.Context, memberID string) ([]types.Trip, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	ctx, span := otel.Tracer("TripRepo").Start(ctx, "ListByMember", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "trips"),
	))
	defer span.End()

	query := `
        SELECT ` + tripColumns + `
        FROM trips
        WHERE EXISTS (
            SELECT 1 FROM jsonb_array_elements(members) AS m
            WHERE m ->> 'userId' = $1
               OR m ->> 'email' = $1
               OR (jsonb_typeof(m) = 'string' AND m #>> '{}' = $1)
        )
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	var trips []types.Trip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trip row: %w", err)
		}
		trips = append(trips, *trip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trip rows: %w", err)
	}
	return trips, nil
}

func (r *RepositoryImpl) UpdateItinerary(ctx context.Context, tripID uuid.UUID, itinerary []types.Day) error {
	if err := r.ready(); err != nil {
		return err
	}
	if itinerary == nil {
		itinerary = []types.Day{}
	}
	tag, err := r.db.Exec(ctx,
		"UPDATE trips SET itinerary = $1, updated_at = $2 WHERE id = $3",
		itinerary, time.Now(), tripID)
	if err != nil {
		return fmt.Errorf("failed to update itinerary: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("trip %s: %w", tripID, api.ErrNotFound)
	}
	return nil
}

func (r *RepositoryImpl) UpdatePendingRequests(ctx context.Context, tripID uuid.UUID, requests []types.ChangeRequest) error {
	if err := r.ready(); err != nil {
		return err
	}
	if requests == nil {
		requests = []types.ChangeRequest{}
	}
	tag, err := r.db.Exec(ctx,
		"UPDATE trips SET pending_requests = $1, updated_at = $2 WHERE id = $3",
		requests, time.Now(), tripID)
	if err != nil {
		return fmt.Errorf("failed to update pending requests: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("trip %s: %w", tripID, api.ErrNotFound)
	}
	return nil
}

func (r *RepositoryImpl) AddMember(ctx context.Context, tripID uuid.UUID, member types.TripMember) error {
	if err := r.ready(); err != nil {
		return err
	}
	ctx, span := otel.Tracer("TripRepo").Start(ctx, "AddMember", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "trips"),
	))
	defer span.End()

	trip, err := r.GetTrip(ctx, tripID)
	if err != nil {
		return err
	}
	for _, existing := range trip.Members {
		if existing.UserID == member.UserID || (member.Email != "" && existing.Email == member.Email) {
			return nil
		}
	}
	members := append(trip.Members, member)

	tag, err := r.db.Exec(ctx,
		"UPDATE trips SET members = $1, updated_at = $2 WHERE id = $3",
		members, time.Now(), tripID)
	if err != nil {
		return fmt.Errorf("failed to update members: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("trip %s: %w", tripID, api.ErrNotFound)
	}
	return nil
}

func (r *RepositoryImpl) AppendJourneyPath(ctx context.Context, tripID uuid.UUID, path types.JourneyPath) error {
	if err := r.ready(); err != nil {
		return err
	}
	encoded, err := json.Marshal(path)
	if err != nil {
		return fmt.Errorf("failed to encode journey path: %w", err)
	}
	tag, err := r.db.Exec(ctx,
		`UPDATE trips
         SET journey_paths = journey_paths || $1::jsonb, updated_at = $2
         WHERE id = $3`,
		encoded, time.Now(), tripID)
	if err != nil {
		return fmt.Errorf("failed to append journey path: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("trip %s: %w", tripID, api.ErrNotFound)
	}
	return nil
}

func (r *RepositoryImpl) GetJourneyPaths(ctx context.Context, tripID uuid.UUID) ([]types.JourneyPath, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	var paths []types.JourneyPath
	err := r.db.QueryRow(ctx,
		"SELECT journey_paths FROM trips WHERE id = $1", tripID).Scan(&paths)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("trip %s: %w", tripID, api.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch journey paths: %w", err)
	}
	return paths, nil
}
