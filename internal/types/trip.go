package types

import (
	"time"

	"github.com/google/uuid"
)

// TravelStyle buckets the trip's spending/pace preference.
type TravelStyle string

const (
	TravelStyleBudget    TravelStyle = "budget"
	TravelStyleBalanced  TravelStyle = "balanced"
	TravelStyleComfort   TravelStyle = "comfort"
	TravelStyleAdventure TravelStyle = "adventure"
	TravelStyleRelaxed   TravelStyle = "relaxed"
)

// MemberRole distinguishes the trip creator from invited members.
type MemberRole string

const (
	MemberRoleCreator MemberRole = "creator"
	MemberRoleMember  MemberRole = "member"
)

// TripMember is the normalized member record. Older documents stored members
// as bare identifier strings; the repository upgrades those on read.
type TripMember struct {
	UserID string     `json:"userId"`
	Email  string     `json:"email"`
	Role   MemberRole `json:"role"`
}

// Trip is the top-level planning unit a group collaborates on.
type Trip struct {
	ID               uuid.UUID       `json:"id"`
	Name             string          `json:"name"`
	Destination      string          `json:"destination"`
	StartDate        time.Time       `json:"startDate"`
	EndDate          time.Time       `json:"endDate"`
	Budget           float64         `json:"budget"`
	TravelStyle      TravelStyle     `json:"travelStyle"`
	Latitude         float64         `json:"latitude"`
	Longitude        float64         `json:"longitude"`
	SpecialInterests string          `json:"specialInterests,omitempty"`
	Members          []TripMember    `json:"members"`
	Itinerary        []Day           `json:"itinerary"`
	PendingRequests  []ChangeRequest `json:"pendingRequests"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// Days returns the inclusive number of calendar days the trip spans.
func (t *Trip) Days() int {
	start := t.StartDate.Truncate(24 * time.Hour)
	end := t.EndDate.Truncate(24 * time.Hour)
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

type CreateTripRequest struct {
	Name             string      `json:"name"`
	Destination      string      `json:"destination"`
	StartDate        string      `json:"startDate"`
	EndDate          string      `json:"endDate"`
	Budget           float64     `json:"budget"`
	TravelStyle      TravelStyle `json:"travelStyle"`
	Latitude         float64     `json:"latitude"`
	Longitude        float64     `json:"longitude"`
	SpecialInterests string      `json:"specialInterests"`
	CreatorID        string      `json:"creatorId"`
	CreatorEmail     string      `json:"creatorEmail"`
}
