package journey

import (
	"net/url"
	"strings"

	"github.com/tripweave/tripweave/internal/types"
)

// matchesAny reports whether the activity's type or title contains any of the
// given keywords. Plain substring checks, no fuzzy matching.
func matchesAny(activity *types.Activity, keywords ...string) bool {
	activityType := strings.ToLower(string(activity.Type))
	title := strings.ToLower(activity.Title)
	for _, kw := range keywords {
		if strings.Contains(activityType, kw) || strings.Contains(title, kw) {
			return true
		}
	}
	return false
}

// TicketSuggestions maps an activity to external booking-site links by
// keyword category. Falls back to a generic search link when nothing matches.
func TicketSuggestions(activity *types.Activity, destination string) []types.TicketSuggestion {
	var suggestions []types.TicketSuggestion
	escapedDest := url.QueryEscape(destination)
	escapedActivity := url.QueryEscape(activity.Title + " " + destination)

	if matchesAny(activity, "flight", "airport") {
		suggestions = append(suggestions,
			types.TicketSuggestion{
				Type: "Flight",
				Name: "Google Flights",
				URL:  "https://www.google.com/travel/flights?q=flights+to+" + escapedDest,
			},
			types.TicketSuggestion{
				Type: "Flight",
				Name: "Skyscanner",
				URL:  "https://www.skyscanner.com/transport/flights/anywhere/" + escapedDest,
			},
		)
	}

	if matchesAny(activity, "train", "railway") {
		suggestions = append(suggestions,
			types.TicketSuggestion{Type: "Train", Name: "Rail Europe", URL: "https://www.raileurope.com/"},
			types.TicketSuggestion{Type: "Train", Name: "Trainline", URL: "https://www.thetrainline.com/"},
		)
	}

	if matchesAny(activity, "museum", "attraction", "gallery") {
		suggestions = append(suggestions,
			types.TicketSuggestion{
				Type: "Attraction",
				Name: "GetYourGuide",
				URL:  "https://www.getyourguide.com/s/?q=" + escapedActivity,
			},
			types.TicketSuggestion{
				Type: "Attraction",
				Name: "Viator",
				URL:  "https://www.viator.com/searchResults/all?text=" + url.QueryEscape(activity.Title),
			},
		)
	}

	if matchesAny(activity, "event", "concert", "show") {
		suggestions = append(suggestions,
			types.TicketSuggestion{
				Type: "Event",
				Name: "Eventbrite",
				URL:  "https://www.eventbrite.com/d/" + escapedDest + "/events/",
			},
			types.TicketSuggestion{Type: "Event", Name: "StubHub", URL: "https://www.stubhub.com/"},
		)
	}

	if matchesAny(activity, "accommodation", "hotel", "check-in") {
		suggestions = append(suggestions,
			types.TicketSuggestion{
				Type: "Hotel",
				Name: "Booking.com",
				URL:  "https://www.booking.com/searchresults.html?ss=" + escapedDest,
			},
			types.TicketSuggestion{
				Type: "Hotel",
				Name: "Hotels.com",
				URL:  "https://www.hotels.com/search.do?q-destination=" + escapedDest,
			},
		)
	}

	if matchesAny(activity, "dining", "restaurant", "dinner", "lunch") {
		suggestions = append(suggestions,
			types.TicketSuggestion{
				Type: "Dining",
				Name: "OpenTable",
				URL:  "https://www.opentable.com/s?covers=2&dateTime=" + escapedDest,
			},
		)
	}

	if len(suggestions) == 0 {
		suggestions = append(suggestions,
			types.TicketSuggestion{
				Type: "General",
				Name: "GetYourGuide",
				URL:  "https://www.getyourguide.com/s/?q=" + escapedActivity,
			},
		)
	}

	return suggestions
}
