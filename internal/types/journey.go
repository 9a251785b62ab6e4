package types

import "time"

// GeoPoint is a bare WGS84 coordinate.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PathPoint is one timestamped GPS breadcrumb.
type PathPoint struct {
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Accuracy  float64   `json:"accuracy,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// JourneyPath is one persisted window of a user's recorded path.
type JourneyPath struct {
	UserID        string      `json:"userId"`
	Timestamp     time.Time   `json:"timestamp"`
	Path          []PathPoint `json:"path"`
	TotalDistance float64     `json:"totalDistance"` // km, 2 decimals
}

// NearbyActivity is an itinerary activity annotated with its distance from
// the traveller's current position.
type NearbyActivity struct {
	Activity
	Distance float64 `json:"distance"` // km
	Day      int     `json:"day"`
}

// TicketSuggestion points at an external booking site for an activity.
type TicketSuggestion struct {
	Type string `json:"type"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Advice is a time- or location-triggered hint shown in journey mode.
type Advice struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	Priority string `json:"priority"`
}

// Recommendations bundles everything the journey recommendations endpoint
// returns for a location.
type Recommendations struct {
	Nearby  []NearbyActivity   `json:"nearby"`
	Tickets []TicketSuggestion `json:"tickets"`
	Advice  []Advice           `json:"advice"`
}
