package itinerary

import (
	"fmt"
	"strings"

	"github.com/tripweave/tripweave/internal/types"
)

// styleVocabulary maps the travel style to the budget-tier wording the
// prompt uses to steer venue choice.
func styleVocabulary(style types.TravelStyle) string {
	switch style {
	case types.TravelStyleBudget:
		return "affordable local spots"
	case types.TravelStyleComfort:
		return "premium experiences"
	case types.TravelStyleAdventure:
		return "outdoor and adventure experiences with balanced pricing"
	case types.TravelStyleRelaxed:
		return "unhurried, low-intensity options"
	default:
		return "balanced options"
	}
}

func guidesPromptPart(guides []types.Guide) string {
	if len(guides) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n\nREGISTERED LOCAL GUIDES (USE THESE IN YOUR RECOMMENDATIONS):\n")
	for _, g := range guides {
		fmt.Fprintf(&b, "- %s (%s, Rating: %.1f, $%.0f/day, Languages: %s, Contact: %s)\n",
			g.Name, g.Specialty, g.Rating, g.PricePerDay, strings.Join(g.Languages, ", "), g.Email)
	}
	return b.String()
}

func guideRequirements(trip *types.Trip, guides []types.Guide) string {
	if len(guides) > 0 {
		return `- USE THE REGISTERED LOCAL GUIDES PROVIDED ABOVE - these are REAL verified guides
- Select 2-3 guides per day from the registered guides list
- Match guide specialties with day activities (e.g., Food Tours guide for food-focused days)`
	}
	return fmt.Sprintf(`- Provide 2-3 local guide recommendations per day
- Use realistic local names for %s
- Vary specialties: Historical Tours, Food Tours, Adventure Tours, Photography Tours, Cultural Tours
- Pricing: $100-250 per day based on expertise
- Include languages they speak and contact info`, trip.Destination)
}

func getItineraryPrompt(trip *types.Trip, guides []types.Guide, seed int) string {
	special := trip.SpecialInterests
	if special == "" {
		special = "None specified"
	}
	return fmt.Sprintf(`
You are a creative travel planner (Request ID: %d). Create a COMPLETELY UNIQUE, DETAILED HOUR-BY-HOUR itinerary for this trip:

Destination: %s
Start Date: %s
End Date: %s
Budget: $%.0f
Travel Style: %s
Special Destinations: %s%s

Return STRICTLY a JSON array where each element has this shape:
{
  "day": <1-based day index>,
  "date": "YYYY-MM-DD",
  "hotel": {
    "name": "...", "address": "...", "rating": <float>, "pricePerNight": <number>,
    "amenities": ["..."], "checkIn": "15:00", "checkOut": "11:00"
  },
  "recommendedGuides": [
    {"name": "...", "specialty": "...", "rating": <float>, "pricePerDay": <number>, "languages": ["..."], "contact": "..."}
  ],
  "activities": [
    {"time": "HH:MM", "title": "...", "description": "...", "location": "specific place name",
     "duration": "1.5 hours", "cost": <number>, "notes": "...", "type": "breakfast|lunch|dinner|activity|sightseeing|transport|shopping"}
  ]
}

CRITICAL REQUIREMENTS:
- Create 6-8 DIFFERENT activities per day (from morning to evening)
- EACH DAY MUST BE COMPLETELY UNIQUE - DO NOT repeat the same activities on different days
- Start days at 7-8 AM, end at 8-10 PM
- Include ALL meals: breakfast, lunch, dinner (with DIFFERENT restaurant names each day)
- Show EXACT times in HH:MM format (e.g., "09:00", "14:30")
- Include duration for each activity (e.g., "1 hour", "2.5 hours")
- Add travel buffer time between locations (15-30 min)
- Provide specific location names, not generic descriptions
- Distribute budget realistically: meals $10-50, activities $10-100, transport $5-30, hotels $50-300/night
- Match travel style: %s
- Time activities logically (heavy activities in morning, relaxed evening)

HOTEL REQUIREMENTS:
- Provide 1 hotel recommendation per day with REAL hotel names from %s
- Include realistic pricing based on travel style
- Add 3-5 amenities per hotel
- Vary hotels - don't repeat the same hotel

GUIDE REQUIREMENTS:
%s

CRITICAL: Each breakfast/lunch/dinner MUST be at a DIFFERENT named restaurant!
CRITICAL: Each activity MUST be at a DIFFERENT location than previous days!
CRITICAL: Vary the cuisine types across meals and mix activity types - don't put 3 museums in a row!

Return ONLY the JSON array, no markdown, no explanations.
`, seed,
		trip.Destination,
		trip.StartDate.Format("2006-01-02"),
		trip.EndDate.Format("2006-01-02"),
		trip.Budget,
		trip.TravelStyle,
		special,
		guidesPromptPart(guides),
		styleVocabulary(trip.TravelStyle),
		trip.Destination,
		guideRequirements(trip, guides),
	)
}
