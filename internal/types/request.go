package types

// RequestStatus tracks a change request through its informal lifecycle.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusAnalyzed RequestStatus = "analyzed"
	RequestStatusCompared RequestStatus = "compared"
)

// ChangeRequest is a member-proposed itinerary change awaiting analysis.
type ChangeRequest struct {
	ID                 string              `json:"id"`
	Title              string              `json:"title"`
	Description        string              `json:"description"`
	Suggestion         string              `json:"suggestion"`
	Day                int                 `json:"day"`
	RequestedBy        string              `json:"requestedBy"`
	Status             RequestStatus       `json:"status"`
	AIAnalysis         *RequestAnalysis    `json:"aiAnalysis,omitempty"`
	ComparisonAnalysis *ComparisonVerdict  `json:"comparisonAnalysis,omitempty"`
	IsBestOption       bool                `json:"isBestOption,omitempty"`
}

// RequestAnalysis is the feasibility verdict for a single request.
type RequestAnalysis struct {
	Score            int      `json:"score"` // 1-10
	Reason           string   `json:"reason"`
	SuggestedChanges []string `json:"suggestedChanges"`
}

// ComparisonVerdict is one request's entry in a multi-request comparison.
type ComparisonVerdict struct {
	Request string   `json:"request"`
	Score   float64  `json:"score"`
	Pros    []string `json:"pros"`
	Cons    []string `json:"cons"`
	Verdict string   `json:"verdict"`
}

// BestPlace names the recommended real-world place behind the winning request.
type BestPlace struct {
	Name      string  `json:"name"`
	Rating    float64 `json:"rating"`
	Address   string  `json:"address"`
	Reasoning string  `json:"reasoning"`
}

// ComparisonResult ranks competing requests against each other.
type ComparisonResult struct {
	BestRequest    string              `json:"bestRequest"`
	BestPlace      *BestPlace          `json:"bestPlace,omitempty"`
	Comparison     []ComparisonVerdict `json:"comparison"`
	Recommendation string              `json:"recommendation"`
	PlacesData     []RequestPlaces     `json:"placesData,omitempty"`
}

// RequestPlaces holds the top place-search hits for one request.
type RequestPlaces struct {
	Request     string  `json:"request"`
	RequestedBy string  `json:"requestedBy"`
	Places      []Place `json:"places"`
}

// TripContext is the static trip summary fed to the comparison prompt.
type TripContext struct {
	Destination string      `json:"destination"`
	Budget      float64     `json:"budget"`
	TravelStyle TravelStyle `json:"travelStyle"`
	Days        int         `json:"days"`
	Location    GeoPoint    `json:"location"`
}
