package types

// Place is a trimmed Places API text-search hit.
type Place struct {
	DisplayName      LocalizedText `json:"displayName"`
	FormattedAddress string        `json:"formattedAddress"`
	Rating           float64       `json:"rating"`
	UserRatingCount  int           `json:"userRatingCount"`
	PriceLevel       string        `json:"priceLevel"`
	Types            []string      `json:"types,omitempty"`
	Location         *LatLng       `json:"location,omitempty"`
}

type LocalizedText struct {
	Text string `json:"text"`
}

type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
