package types

import (
	"time"

	"github.com/google/uuid"
)

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
)

// Invitation asks a user by email to join a trip. Pending invitations
// expire seven days after creation.
type Invitation struct {
	ID           uuid.UUID        `json:"id"`
	TripID       uuid.UUID        `json:"tripId"`
	TripName     string           `json:"tripName"`
	InviterEmail string           `json:"inviterEmail"`
	InviteeEmail string           `json:"inviteeEmail"`
	Status       InvitationStatus `json:"status"`
	CreatedAt    time.Time        `json:"createdAt"`
	ExpiresAt    time.Time        `json:"expiresAt"`
}

type SendInvitationRequest struct {
	TripID       string `json:"tripId"`
	TripName     string `json:"tripName"`
	InviterEmail string `json:"inviterEmail"`
	InviteeEmail string `json:"inviteeEmail"`
}
