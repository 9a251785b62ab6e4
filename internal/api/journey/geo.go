package journey

import (
	"math"
	"sort"
	"time"

	"github.com/tripweave/tripweave/internal/types"
)

const earthRadiusKm = 6371

func toRad(degrees float64) float64 {
	return degrees * (math.Pi / 180)
}

// Distance returns the great-circle (Haversine) distance between two points
// in kilometres.
func Distance(a, b types.GeoPoint) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}

// TotalDistance sums the pairwise distance across consecutive path points,
// rounded to 2 decimals.
func TotalDistance(path []types.PathPoint) float64 {
	if len(path) < 2 {
		return 0
	}
	var total float64
	for i := 1; i < len(path); i++ {
		total += Distance(
			types.GeoPoint{Lat: path[i-1].Lat, Lng: path[i-1].Lng},
			types.GeoPoint{Lat: path[i].Lat, Lng: path[i].Lng},
		)
	}
	return round2(total)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// activityPoint reads an activity's [lng, lat] coordinate pair.
func activityPoint(a *types.Activity) (types.GeoPoint, bool) {
	if len(a.Coordinates) < 2 {
		return types.GeoPoint{}, false
	}
	return types.GeoPoint{Lat: a.Coordinates[1], Lng: a.Coordinates[0]}, true
}

// FindNearbyActivities returns itinerary activities within maxDistanceKm of
// the location, sorted nearest first.
func FindNearbyActivities(location types.GeoPoint, itinerary []types.Day, maxDistanceKm float64) []types.NearbyActivity {
	var nearby []types.NearbyActivity

	for _, day := range itinerary {
		for _, activity := range day.Activities {
			point, ok := activityPoint(&activity)
			if !ok {
				continue
			}
			distance := Distance(location, point)
			if distance <= maxDistanceKm {
				nearby = append(nearby, types.NearbyActivity{
					Activity: activity,
					Distance: round2(distance),
					Day:      day.Day,
				})
			}
		}
	}

	sort.Slice(nearby, func(i, j int) bool {
		return nearby[i].Distance < nearby[j].Distance
	})
	return nearby
}

const (
	currentActivityRadiusKm = 0.5
	currentActivityWindow   = 30 * time.Minute
)

// CurrentActivity returns the activity the traveller appears to be at right
// now: within 0.5 km AND within 30 minutes of its scheduled time. Nil when
// no activity satisfies both conditions.
func CurrentActivity(itinerary []types.Day, location types.GeoPoint, now time.Time) *types.NearbyActivity {
	for _, day := range itinerary {
		for _, activity := range day.Activities {
			point, ok := activityPoint(&activity)
			if !ok {
				continue
			}
			distance := Distance(location, point)
			if distance < currentActivityRadiusKm && isNearActivityTime(activity.Time, now) {
				return &types.NearbyActivity{
					Activity: activity,
					Distance: round2(distance),
					Day:      day.Day,
				}
			}
		}
	}
	return nil
}

func isNearActivityTime(activityTime string, now time.Time) bool {
	parsed, err := time.Parse("15:04", activityTime)
	if err != nil {
		return false
	}
	activityMinutes := parsed.Hour()*60 + parsed.Minute()
	nowMinutes := now.Hour()*60 + now.Minute()
	diff := activityMinutes - nowMinutes
	if diff < 0 {
		diff = -diff
	}
	return time.Duration(diff)*time.Minute <= currentActivityWindow
}
