package invitation

import (
	"context"
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

// Repository defines the contract for invitation persistence.
type Repository interface {
	Create(ctx context.Context, invitation *types.Invitation) error

	// GetByID returns api.ErrNotFound when no invitation matches.
	GetByID(ctx context.Context, invitationID uuid.UUID) (*types.Invitation, error)

	// HasPending reports whether a pending, unexpired invitation already
	// exists for the invitee on the trip.
	HasPending(ctx context.Context, tripID uuid.UUID, inviteeEmail string) (bool, error)

	// ListPendingByEmail returns pending, unexpired invitations addressed to
	// the email, newest first.
	ListPendingByEmail(ctx context.Context, inviteeEmail string) ([]types.Invitation, error)

	UpdateStatus(ctx context.Context, invitationID uuid.UUID, status types.InvitationStatus) error
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

func (r *RepositoryImpl) Create(ctx context.Context, invitation *types.Invitation) error {
	if err := r.ready(); err != nil {
		return err
	}
	ctx, span := otel.Tracer("InvitationRepo").Start(ctx, "Create", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "invitations"),
	))
	defer span.End()

	query := `
        INSERT INTO invitations (trip_id, trip_name, inviter_email, invitee_email, status, expires_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query,
		invitation.TripID, invitation.TripName, invitation.InviterEmail,
		invitation.InviteeEmail, invitation.Status, invitation.ExpiresAt,
	).Scan(&invitation.ID, &invitation.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert invitation: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) GetByID(ctx context.Context, invitationID uuid.UUID) (*types.Invitation, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	query := `
        SELECT id, trip_id, trip_name, inviter_email, invitee_email, status, created_at, expires_at
        FROM invitations WHERE id = $1
    `
	var inv types.Invitation
	err := r.db.QueryRow(ctx, query, invitationID).Scan(
		&inv.ID, &inv.TripID, &inv.TripName, &inv.InviterEmail,
		&inv.InviteeEmail, &inv.Status, &inv.CreatedAt, &inv.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("invitation %s: %w", invitationID, api.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch invitation: %w", err)
	}
	return &inv, nil
}

func (r *RepositoryImpl) HasPending(ctx context.Context, tripID uuid.UUID, inviteeEmail string) (bool, error) {
	if err := r.ready(); err != nil {
		return false, err
	}
	query := `
        SELECT EXISTS (
            SELECT 1 FROM invitations
            WHERE trip_id = $1 AND invitee_email = $2 AND status = 'pending' AND expires_at > $3
        )
    `
	var exists bool
	if err := r.db.QueryRow(ctx, query, tripID, inviteeEmail, time.Now()).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check pending invitation: %w", err)
	}
	return exists, nil
}

func (r *RepositoryImpl) ListPendingByEmail(ctx context.Context, inviteeEmail string) ([]types.Invitation, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	ctx, span := otel.Tracer("InvitationRepo").Start(ctx, "ListPendingByEmail", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "invitations"),
	))
	defer span.End()

	query := `
        SELECT id, trip_id, trip_name, inviter_email, invitee_email, status, created_at, expires_at
        FROM invitations
        WHERE invitee_email = $1 AND status = 'pending' AND expires_at > $2
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, inviteeEmail, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	defer rows.Close()

	var invitations []types.Invitation
	for rows.Next() {
		var inv types.Invitation
		if err := rows.Scan(
			&inv.ID, &inv.TripID, &inv.TripName, &inv.InviterEmail,
			&inv.InviteeEmail, &inv.Status, &inv.CreatedAt, &inv.ExpiresAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan invitation row: %w", err)
		}
		invitations = append(invitations, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read invitation rows: %w", err)
	}
	return invitations, nil
}

func (r *RepositoryImpl) UpdateStatus(ctx context.Context, invitationID uuid.UUID, status types.InvitationStatus) error {
	if err := r.ready(); err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx,
		"UPDATE invitations SET status = $1 WHERE id = $2", status, invitationID)
	if err != nil {
		return fmt.Errorf("failed to update invitation status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("invitation %s: %w", invitationID, api.ErrNotFound)
	}
	return nil
}
