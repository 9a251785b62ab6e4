package invitation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tripweave/tripweave/internal/api"
	"github.com/tripweave/tripweave/internal/types"
)

const invitationTTL = 7 * 24 * time.Hour

// TripMembers is the slice of the trip store the invitation flow needs:
// membership updates when an invitation is accepted.
type TripMembers interface {
	AddMember(ctx context.Context, tripID uuid.UUID, member types.TripMember) error
}

var _ Service = (*ServiceImpl)(nil)

// Service manages the trip invitation lifecycle.
type Service interface {
	// Send creates a pending invitation that expires after seven days.
	// Returns api.ErrDuplicate when the invitee already has a pending,
	// unexpired invitation for the trip.
	Send(ctx context.Context, req types.SendInvitationRequest) (*types.Invitation, error)

	// ListPending returns pending, unexpired invitations for the email.
	ListPending(ctx context.Context, inviteeEmail string) ([]types.Invitation, error)

	// Accept marks the invitation accepted and adds the invitee to the trip
	// as a regular member.
	Accept(ctx context.Context, invitationID uuid.UUID, userID string) (*types.Invitation, error)

	// Decline marks the invitation declined.
	Decline(ctx context.Context, invitationID uuid.UUID) (*types.Invitation, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
	trips  TripMembers
}

func NewServiceImpl(repo Repository, trips TripMembers, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
		trips:  trips,
	}
}

func (s *ServiceImpl) Send(ctx context.Context, req types.SendInvitationRequest) (*types.Invitation, error) {
	ctx, span := otel.Tracer("InvitationService").Start(ctx, "Send", trace.WithAttributes(
		attribute.String("invitation.trip_id", req.TripID),
	))
	defer span.End()

	tripID, err := uuid.Parse(req.TripID)
	if err != nil {
		return nil, fmt.Errorf("invalid trip ID: %w", api.ErrInvalid)
	}
	inviteeEmail := strings.ToLower(strings.TrimSpace(req.InviteeEmail))
	if inviteeEmail == "" || !strings.Contains(inviteeEmail, "@") {
		return nil, fmt.Errorf("a valid invitee email is required: %w", api.ErrInvalid)
	}

	pending, err := s.repo.HasPending(ctx, tripID, inviteeEmail)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, fmt.Errorf("invitation for %s on trip %s: %w", inviteeEmail, tripID, api.ErrDuplicate)
	}

	invitation := &types.Invitation{
		TripID:       tripID,
		TripName:     req.TripName,
		InviterEmail: strings.ToLower(strings.TrimSpace(req.InviterEmail)),
		InviteeEmail: inviteeEmail,
		Status:       types.InvitationPending,
		ExpiresAt:    time.Now().Add(invitationTTL),
	}
	if err := s.repo.Create(ctx, invitation); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Sent trip invitation",
		slog.String("invitationID", invitation.ID.String()),
		slog.String("tripID", tripID.String()))
	return invitation, nil
}

func (s *ServiceImpl) ListPending(ctx context.Context, inviteeEmail string) ([]types.Invitation, error) {
	return s.repo.ListPendingByEmail(ctx, strings.ToLower(strings.TrimSpace(inviteeEmail)))
}

func (s *ServiceImpl) Accept(ctx context.Context, invitationID uuid.UUID, userID string) (*types.Invitation, error) {
	ctx, span := otel.Tracer("InvitationService").Start(ctx, "Accept", trace.WithAttributes(
		attribute.String("invitation.id", invitationID.String()),
	))
	defer span.End()

	invitation, err := s.resolvePending(ctx, invitationID)
	if err != nil {
		return nil, err
	}

	if userID == "" {
		userID = invitation.InviteeEmail
	}
	member := types.TripMember{
		UserID: userID,
		Email:  invitation.InviteeEmail,
		Role:   types.MemberRoleMember,
	}
	if err := s.trips.AddMember(ctx, invitation.TripID, member); err != nil {
		return nil, fmt.Errorf("failed to add member to trip: %w", err)
	}

	if err := s.repo.UpdateStatus(ctx, invitationID, types.InvitationAccepted); err != nil {
		return nil, err
	}
	invitation.Status = types.InvitationAccepted

	s.logger.InfoContext(ctx, "Invitation accepted",
		slog.String("invitationID", invitationID.String()),
		slog.String("tripID", invitation.TripID.String()))
	return invitation, nil
}

func (s *ServiceImpl) Decline(ctx context.Context, invitationID uuid.UUID) (*types.Invitation, error) {
	invitation, err := s.resolvePending(ctx, invitationID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, invitationID, types.InvitationDeclined); err != nil {
		return nil, err
	}
	invitation.Status = types.InvitationDeclined
	return invitation, nil
}

// resolvePending loads the invitation and rejects ones that were already
// answered or have expired.
func (s *ServiceImpl) resolvePending(ctx context.Context, invitationID uuid.UUID) (*types.Invitation, error) {
	invitation, err := s.repo.GetByID(ctx, invitationID)
	if err != nil {
		return nil, err
	}
	if invitation.Status != types.InvitationPending {
		return nil, fmt.Errorf("invitation is already %s: %w", invitation.Status, api.ErrInvalid)
	}
	if time.Now().After(invitation.ExpiresAt) {
		return nil, fmt.Errorf("invitation has expired: %w", api.ErrInvalid)
	}
	return invitation, nil
}
