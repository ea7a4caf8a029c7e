package geofence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const (
	officeLat = 6.5244
	officeLon = 3.3792
)

func TestDistance_SamePoint(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0.0, Distance(officeLat, officeLon, officeLat, officeLon))
}

func TestDistance_KnownOffset(t *testing.T) {
	t.Parallel()
	// 0.001 degrees of latitude is ~111.2m on the haversine sphere.
	d := Distance(officeLat, officeLon, officeLat+0.001, officeLon)
	assert.InDelta(t, 111.19, d, 0.5)
}

func TestDistance_Symmetric(t *testing.T) {
	t.Parallel()
	a := Distance(officeLat, officeLon, 6.4281, 3.4219)
	b := Distance(6.4281, 3.4219, officeLat, officeLon)
	assert.InDelta(t, a, b, 1e-9)
}

func TestIsWithinRadius(t *testing.T) {
	t.Parallel()

	// ~95m north of the office
	nearLat := officeLat + 0.000854
	assert.True(t, IsWithinRadius(nearLat, officeLon, officeLat, officeLon, 100))

	// ~150m north of the office
	farLat := officeLat + 0.001349
	assert.False(t, IsWithinRadius(farLat, officeLon, officeLat, officeLon, 100))
}

func TestIsWithinRadius_BoundaryInclusive(t *testing.T) {
	t.Parallel()
	pointLat := officeLat + 0.0009
	radius := Distance(pointLat, officeLon, officeLat, officeLon)
	assert.True(t, IsWithinRadius(pointLat, officeLon, officeLat, officeLon, radius))
}

func TestIsWorkingDay(t *testing.T) {
	t.Parallel()
	weekdays := []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}

	monday := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	saturday := time.Date(2025, 6, 7, 10, 0, 0, 0, time.UTC)

	assert.True(t, IsWorkingDay(monday, weekdays))
	assert.False(t, IsWorkingDay(saturday, weekdays))
	assert.False(t, IsWorkingDay(monday, nil))
}

func TestComputeLateness(t *testing.T) {
	t.Parallel()

	scheduled := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		actual      time.Time
		threshold   int
		wantLate    bool
		wantMinutes int
	}{
		{"on time", scheduled, 5, false, 0},
		{"early", scheduled.Add(-10 * time.Minute), 5, false, 0},
		{"within threshold", scheduled.Add(3 * time.Minute), 5, false, 3},
		{"exactly at threshold", scheduled.Add(5 * time.Minute), 5, true, 5},
		{"past threshold", scheduled.Add(6 * time.Minute), 5, true, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ComputeLateness(tt.actual, scheduled, tt.threshold)
			assert.Equal(t, tt.wantLate, got.IsLate)
			assert.Equal(t, tt.wantMinutes, got.MinutesLate)
		})
	}
}
