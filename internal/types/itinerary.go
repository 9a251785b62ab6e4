package types

// ActivityType tags an itinerary entry with its rough category.
type ActivityType string

const (
	ActivityBreakfast   ActivityType = "breakfast"
	ActivityLunch       ActivityType = "lunch"
	ActivityDinner      ActivityType = "dinner"
	ActivityGeneric     ActivityType = "activity"
	ActivitySightseeing ActivityType = "sightseeing"
	ActivityTransport   ActivityType = "transport"
	ActivityShopping    ActivityType = "shopping"
)

// Activity is a single timed itinerary entry. Times are free-form "HH:MM"
// strings as produced by the model; nothing enforces that they are well
// formed or monotonic within a day.
type Activity struct {
	Time        string       `json:"time"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Location    string       `json:"location"`
	Coordinates []float64    `json:"coordinates,omitempty"` // [lng, lat]
	Duration    string       `json:"duration"`
	Cost        float64      `json:"cost"`
	Type        ActivityType `json:"type,omitempty"`
	Notes       string       `json:"notes,omitempty"`
}

// Hotel is the per-day accommodation recommendation.
type Hotel struct {
	Name          string   `json:"name"`
	Address       string   `json:"address"`
	Rating        float64  `json:"rating"`
	PricePerNight float64  `json:"pricePerNight"`
	Amenities     []string `json:"amenities,omitempty"`
	CheckIn       string   `json:"checkIn,omitempty"`
	CheckOut      string   `json:"checkOut,omitempty"`
}

// RecommendedGuide is a guide surfaced inside a generated day. It mirrors the
// registry's public fields but is denormalized into the itinerary document.
type RecommendedGuide struct {
	Name        string   `json:"name"`
	Specialty   string   `json:"specialty"`
	Rating      float64  `json:"rating"`
	PricePerDay float64  `json:"pricePerDay"`
	Languages   []string `json:"languages,omitempty"`
	Contact     string   `json:"contact,omitempty"`
}

// Day is one itinerary day. Day indices are 1-based by convention only.
type Day struct {
	Day               int                `json:"day"`
	Date              string             `json:"date"`
	Hotel             *Hotel             `json:"hotel,omitempty"`
	RecommendedGuides []RecommendedGuide `json:"recommendedGuides,omitempty"`
	Activities        []Activity         `json:"activities"`
}
