package planner

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tripweave/tripweave/internal/types"
)

func dayJSON(day *types.Day) string {
	if day == nil {
		return "{}"
	}
	b, err := json.MarshalIndent(day, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}

func getAnalysisPrompt(targetDay *types.Day, request *types.ChangeRequest) string {
	return fmt.Sprintf(`
You are a travel planning AI analyzing a change request for a trip itinerary.

Current Day %d Itinerary:
%s

Change Request:
Title: %s
Description: %s
Requested by: %s

Analyze this request considering:
1. Time availability in the day
2. Travel distance from existing activities
3. Budget impact
4. Fatigue risk (is the day too packed?)
5. Weather/seasonal considerations
6. Conflicts with existing activities

Return a JSON object with this EXACT structure:
{
  "score": 7,
  "reason": "Brief explanation of the score",
  "suggestedChanges": ["Change 1", "Change 2"]
}

Score: 1-10 (1=bad idea, 10=perfect fit)
Return ONLY the JSON object, no other text.
`, request.Day, dayJSON(targetDay), request.Title, request.Description, request.RequestedBy)
}

func getComparisonPrompt(placesData []types.RequestPlaces, tripCtx types.TripContext) string {
	var info strings.Builder
	for idx, data := range placesData {
		fmt.Fprintf(&info, "\nREQUEST %d: %q (by %s)\nTop Places Found:\n", idx+1, data.Request, data.RequestedBy)
		for i, place := range data.Places {
			fmt.Fprintf(&info, `
  %d. %s
     - Address: %s
     - Rating: %.1f (%d reviews)
     - Price Level: %s
     - Type: %s
`, i+1, textOrUnknown(place.DisplayName.Text), textOrNA(place.FormattedAddress), place.Rating,
				place.UserRatingCount, textOrNA(place.PriceLevel), typesOrNA(place.Types))
		}
		info.WriteString("\n---\n")
	}

	return fmt.Sprintf(`
You are analyzing multiple trip change requests for a trip to %s.

CURRENT TRIP CONTEXT:
- Budget: $%.0f
- Travel Style: %s
- Days: %d

REQUESTS TO COMPARE:
%s

ANALYZE AND RECOMMEND:
1. Compare the quality of each option based on:
   - Ratings and review counts
   - Price level vs budget
   - Relevance to travel style
   - Overall value

2. Determine which request provides the BEST experience
3. Explain WHY it's the best choice
4. Rate each request's feasibility (1-10)

Return a JSON object with this structure:
{
  "bestRequest": "The exact request text that's best",
  "bestPlace": {
    "name": "Name of the recommended place",
    "rating": 4.5,
    "address": "Full address",
    "reasoning": "Why this is the best choice"
  },
  "comparison": [
    {
      "request": "Request text",
      "score": 8.5,
      "pros": ["Good rating", "Affordable"],
      "cons": ["Slightly far from city center"],
      "verdict": "Excellent choice for budget travelers"
    }
  ],
  "recommendation": "Overall recommendation summary"
}
`, tripCtx.Destination, tripCtx.Budget, tripCtx.TravelStyle, tripCtx.Days, info.String())
}

func getReplanPrompt(targetDay *types.Day, request *types.ChangeRequest) string {
	return fmt.Sprintf(`
You are a travel planning AI. A new activity has been accepted and needs to be integrated.

Current Day %d Schedule:
%s

New Activity to Add:
Title: %s
Description: %s

Task: Replan Day %d to include this new activity.

Rules:
- Keep the same JSON structure as the input day
- Fit the new activity into a sensible time slot, shifting or trimming existing activities as needed
- Keep meals at mealtimes and keep the day physically plausible

Return the updated day as a JSON object with the same structure as the input.
Return ONLY the JSON object, no other text.
`, request.Day, dayJSON(targetDay), request.Title, request.Description, request.Day)
}

func textOrUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func textOrNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func typesOrNA(ts []string) string {
	if len(ts) == 0 {
		return "N/A"
	}
	if len(ts) > 3 {
		ts = ts[:3]
	}
	return strings.Join(ts, ", ")
}
