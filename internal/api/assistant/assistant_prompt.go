package assistant

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tripweave/tripweave/internal/types"
)

func getTripChatPrompt(message, tripContext string) string {
	return fmt.Sprintf(`
You are an AI travel assistant helping a user plan their trip.

TRIP CONTEXT:
%s

USER MESSAGE:
"%s"

TASK:
1. Parse the user's request and understand what they want to add/change
2. Extract key details: activity name, preferred time/day, type (meal/activity/transport)
3. Provide a friendly, conversational response
4. Suggest which day would be best for this activity based on the existing itinerary

Respond in JSON format:
{
  "response": "Friendly acknowledgment of their request",
  "parsedRequest": {
    "title": "Short activity title (max 5 words)",
    "description": "Full description from user message",
    "suggestedDay": 1,
    "type": "activity|meal|transport|other",
    "estimatedCost": 50,
    "estimatedDuration": "2 hours"
  },
  "suggestedDays": [
    {"day": 1, "reason": "Why this day works well"},
    {"day": 2, "reason": "Alternative option"}
  ]
}

Be conversational, enthusiastic, and helpful. If the request is unclear, ask for clarification.
`, tripContext, message)
}

func getSuggestionsPrompt(req SuggestionsRequest) string {
	location := "Unknown"
	if req.CurrentLocation != nil {
		location = fmt.Sprintf("Lat %g, Lng %g", req.CurrentLocation.Lat, req.CurrentLocation.Lng)
	}
	itineraryJSON, err := json.MarshalIndent(req.Itinerary, "", "  ")
	if err != nil {
		itineraryJSON = []byte("[]")
	}

	var b strings.Builder
	b.WriteString("You are a real-time travel assistant. Based on the current situation, provide smart suggestions.\n\n")
	b.WriteString("CURRENT CONTEXT:\n")
	fmt.Fprintf(&b, "- Location: %s\n", location)
	fmt.Fprintf(&b, "- Time: %s\n", req.CurrentTime)
	fmt.Fprintf(&b, "- Destination: %s\n", req.Destination)
	fmt.Fprintf(&b, "- Budget: $%g\n", req.Budget)
	fmt.Fprintf(&b, "- Already Spent: $%g\n", req.Spent)
	fmt.Fprintf(&b, "- Budget Remaining: $%g\n\n", req.Budget-req.Spent)
	fmt.Fprintf(&b, "CURRENT ITINERARY:\n%s\n\n", itineraryJSON)
	b.WriteString(`Analyze the situation and provide 3-5 ACTIONABLE suggestions. Consider:
1. Time-based: what should they do now? (meal times, attraction hours)
2. Location-based: what's nearby? (within 1-2 km)
3. Budget-based: free or low-cost alternatives if budget is tight
4. Time constraints: quick activities if they're behind schedule

Return a JSON array with this structure:
[
  {
    "priority": "high|medium|low",
    "type": "time|location|budget|alternative|emergency",
    "title": "Short catchy title",
    "message": "Clear, actionable suggestion",
    "action": "What they should do",
    "estimatedTime": "How long it takes",
    "distance": "If location-based, distance in km",
    "cost": "Estimated cost in USD",
    "icon": "clock|map-pin|dollar|alert|star"
  }
]

BE SPECIFIC - use actual place names, times, and details. Keep it practical and immediately actionable.
`)
	return b.String()
}

func getAlternativesPrompt(req AlternativesRequest) string {
	location := "Unknown"
	if req.CurrentLocation != nil {
		location = fmt.Sprintf("Lat %g, Lng %g", req.CurrentLocation.Lat, req.CurrentLocation.Lng)
	}
	maxDuration := req.TimeLeft
	if maxDuration > 30 {
		maxDuration = 30
	}

	return fmt.Sprintf(`
The traveler has LIMITED TIME (only %d minutes left) near %s.
Location: %s
Budget: $%g

Suggest 3-5 QUICK activities they can do nearby (within 10-15 min walk/drive):
- Must be doable in under %d minutes
- Within walking distance or short taxi ride
- Consider: quick photo stops, cafes, viewpoints, street markets, parks

Return JSON array:
[
  {
    "title": "Activity name",
    "description": "What it is",
    "duration": "%d minutes",
    "distance": "Distance from current location",
    "cost": "Estimated cost",
    "type": "quick-visit|photo-stop|cafe|shopping",
    "notes": "Quick tips"
  }
]
`, req.TimeLeft, req.Destination, location, req.Budget, req.TimeLeft, maxDuration)
}

// SuggestionsRequest carries the traveller's live context for smart
// suggestions.
type SuggestionsRequest struct {
	CurrentLocation *types.GeoPoint `json:"currentLocation,omitempty"`
	CurrentTime     string          `json:"currentTime"`
	Destination     string          `json:"destination"`
	Budget          float64         `json:"budget"`
	Spent           float64         `json:"spent"`
	Itinerary       []types.Day     `json:"itinerary"`
}

// AlternativesRequest asks for quick activities that fit the remaining time.
type AlternativesRequest struct {
	CurrentLocation *types.GeoPoint `json:"currentLocation,omitempty"`
	TimeLeft        int             `json:"timeLeft"`
	Budget          float64         `json:"budget"`
	Destination     string          `json:"destination"`
}
