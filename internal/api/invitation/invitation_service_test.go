package invitation

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

func (m *MockRepository) Create(ctx context.Context, invitation *types.Invitation) error {
	args := m.Called(ctx, invitation)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, invitationID uuid.UUID) (*types.Invitation, error) {
	args := m.Called(ctx, invitationID)
	if inv := args.Get(0); inv != nil {
		return inv.(*types.Invitation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) HasPending(ctx context.Context, tripID uuid.UUID, inviteeEmail string) (bool, error) {
	args := m.Called(ctx, tripID, inviteeEmail)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) ListPendingByEmail(ctx context.Context, inviteeEmail string) ([]types.Invitation, error) {
	args := m.Called(ctx, inviteeEmail)
	if inv := args.Get(0); inv != nil {
		return inv.([]types.Invitation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) UpdateStatus(ctx context.Context, invitationID uuid.UUID, status types.InvitationStatus) error {
	args := m.Called(ctx, invitationID, status)
	return args.Error(0)
}

type MockTripMembers struct {
	mock.Mock
}

func (m *MockTripMembers) AddMember(ctx context.Context, tripID uuid.UUID, member types.TripMember) error {
	args := m.Called(ctx, tripID, member)
	return args.Error(0)
}

func newTestService(repo Repository, trips TripMembers) *ServiceImpl {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewServiceImpl(repo, trips, logger)
}

func TestSend_SetsSevenDayExpiry(t *testing.T) {
	tripID := uuid.New()
	repo := new(MockRepository)
	repo.On("HasPending", mock.Anything, tripID, "friend@example.com").Return(false, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*types.Invitation")).
		Run(func(args mock.Arguments) {
			inv := args.Get(1).(*types.Invitation)
			inv.ID = uuid.New()
			inv.CreatedAt = time.Now()
		}).Return(nil)

	before := time.Now()
	invitation, err := newTestService(repo, new(MockTripMembers)).Send(context.Background(), types.SendInvitationRequest{
		TripID:       tripID.String(),
		TripName:     "Lisbon Getaway",
		InviterEmail: "Owner@Example.com",
		InviteeEmail: " Friend@Example.com ",
	})

	require.NoError(t, err)
	assert.Equal(t, types.InvitationPending, invitation.Status)
	assert.Equal(t, "friend@example.com", invitation.InviteeEmail)
	assert.Equal(t, "owner@example.com", invitation.InviterEmail)
	assert.WithinDuration(t, before.Add(7*24*time.Hour), invitation.ExpiresAt, time.Minute)
	repo.AssertExpectations(t)
}

func TestSend_RejectsDuplicatePending(t *testing.T) {
	tripID := uuid.New()
	repo := new(MockRepository)
	repo.On("HasPending", mock.Anything, tripID, "friend@example.com").Return(true, nil)

	_, err := newTestService(repo, new(MockTripMembers)).Send(context.Background(), types.SendInvitationRequest{
		TripID:       tripID.String(),
		InviteeEmail: "friend@example.com",
	})

	assert.ErrorIs(t, err, api.ErrDuplicate)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSend_RejectsBadInput(t *testing.T) {
	service := newTestService(new(MockRepository), new(MockTripMembers))

	_, err := service.Send(context.Background(), types.SendInvitationRequest{
		TripID: "not-a-uuid", InviteeEmail: "friend@example.com",
	})
	assert.ErrorIs(t, err, api.ErrInvalid)

	_, err = service.Send(context.Background(), types.SendInvitationRequest{
		TripID: uuid.NewString(), InviteeEmail: "no-at-sign",
	})
	assert.ErrorIs(t, err, api.ErrInvalid)
}

func pendingInvitation(tripID uuid.UUID) *types.Invitation {
	return &types.Invitation{
		ID:           uuid.New(),
		TripID:       tripID,
		TripName:     "Lisbon Getaway",
		InviteeEmail: "friend@example.com",
		Status:       types.InvitationPending,
		CreatedAt:    time.Now(),
		ExpiresAt:    time.Now().Add(24 * time.Hour),
	}
}

func TestAccept_AddsMemberAndClosesInvitation(t *testing.T) {
	tripID := uuid.New()
	invitation := pendingInvitation(tripID)

	repo := new(MockRepository)
	repo.On("GetByID", mock.Anything, invitation.ID).Return(invitation, nil)
	repo.On("UpdateStatus", mock.Anything, invitation.ID, types.InvitationAccepted).Return(nil)

	trips := new(MockTripMembers)
	trips.On("AddMember", mock.Anything, tripID, types.TripMember{
		UserID: "user-42",
		Email:  "friend@example.com",
		Role:   types.MemberRoleMember,
	}).Return(nil)

	accepted, err := newTestService(repo, trips).Accept(context.Background(), invitation.ID, "user-42")

	require.NoError(t, err)
	assert.Equal(t, types.InvitationAccepted, accepted.Status)
	repo.AssertExpectations(t)
	trips.AssertExpectations(t)
}

func TestAccept_DefaultsUserIDToEmail(t *testing.T) {
	tripID := uuid.New()
	invitation := pendingInvitation(tripID)

	repo := new(MockRepository)
	repo.On("GetByID", mock.Anything, invitation.ID).Return(invitation, nil)
	repo.On("UpdateStatus", mock.Anything, invitation.ID, types.InvitationAccepted).Return(nil)

	trips := new(MockTripMembers)
	trips.On("AddMember", mock.Anything, tripID, mock.MatchedBy(func(member types.TripMember) bool {
		return member.UserID == "friend@example.com"
	})).Return(nil)

	_, err := newTestService(repo, trips).Accept(context.Background(), invitation.ID, "")
	require.NoError(t, err)
	trips.AssertExpectations(t)
}

func TestAccept_RejectsExpired(t *testing.T) {
	invitation := pendingInvitation(uuid.New())
	invitation.ExpiresAt = time.Now().Add(-time.Hour)

	repo := new(MockRepository)
	repo.On("GetByID", mock.Anything, invitation.ID).Return(invitation, nil)

	trips := new(MockTripMembers)
	_, err := newTestService(repo, trips).Accept(context.Background(), invitation.ID, "user-42")

	assert.ErrorContains(t, err, "expired")
	assert.ErrorIs(t, err, api.ErrInvalid)
	trips.AssertNotCalled(t, "AddMember", mock.Anything, mock.Anything, mock.Anything)
}

func TestAccept_RejectsAlreadyAnswered(t *testing.T) {
	invitation := pendingInvitation(uuid.New())
	invitation.Status = types.InvitationDeclined

	repo := new(MockRepository)
	repo.On("GetByID", mock.Anything, invitation.ID).Return(invitation, nil)

	_, err := newTestService(repo, new(MockTripMembers)).Accept(context.Background(), invitation.ID, "user-42")
	assert.ErrorContains(t, err, "already declined")
	assert.ErrorIs(t, err, api.ErrInvalid)
}

func TestDecline(t *testing.T) {
	invitation := pendingInvitation(uuid.New())

	repo := new(MockRepository)
	repo.On("GetByID", mock.Anything, invitation.ID).Return(invitation, nil)
	repo.On("UpdateStatus", mock.Anything, invitation.ID, types.InvitationDeclined).Return(nil)

	trips := new(MockTripMembers)
	declined, err := newTestService(repo, trips).Decline(context.Background(), invitation.ID)

	require.NoError(t, err)
	assert.Equal(t, types.InvitationDeclined, declined.Status)
	trips.AssertNotCalled(t, "AddMember", mock.Anything, mock.Anything, mock.Anything)
}
