package geofence

import (
	"math"
	"time"
)

const earthRadiusMeters = 6371000

// Distance returns the great-circle (haversine) distance in meters between
// two latitude/longitude points.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * (math.Pi / 180.0)
	dLon := (lon2 - lon1) * (math.Pi / 180.0)

	lat1Rad := lat1 * (math.Pi / 180.0)
	lat2Rad := lat2 * (math.Pi / 180.0)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// IsWithinRadius reports whether the point is inside the office geofence.
// A point exactly on the boundary counts as inside.
func IsWithinRadius(lat, lon, officeLat, officeLon, radiusMeters float64) bool {
	return Distance(lat, lon, officeLat, officeLon) <= radiusMeters
}

// IsWorkingDay reports whether t falls on one of the configured working days.
func IsWorkingDay(t time.Time, workingDays []time.Weekday) bool {
	for _, day := range workingDays {
		if t.Weekday() == day {
			return true
		}
	}
	return false
}

// Lateness is the result of comparing an actual check-in time against the
// scheduled start.
type Lateness struct {
	IsLate      bool
	MinutesLate int
}

// ComputeLateness returns how many whole minutes actual is past scheduled,
// floored at zero. A check-in exactly thresholdMinutes past the scheduled
// start counts as late.
func ComputeLateness(actual, scheduled time.Time, thresholdMinutes int) Lateness {
	minutes := int(actual.Sub(scheduled).Minutes())
	if minutes < 0 {
		minutes = 0
	}
	return Lateness{
		IsLate:      minutes >= thresholdMinutes,
		MinutesLate: minutes,
	}
}
