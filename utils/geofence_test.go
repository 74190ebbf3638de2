package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"geoQuestAPI/internal/types/challenge"
)

func TestHaversineDistance_SamePointIsZero(t *testing.T) {
	p := challenge.Coordinate{Latitude: 48.8584, Longitude: 2.2945}
	assert.Equal(t, 0.0, HaversineDistance(p, p))
}

func TestHaversineDistance_Symmetric(t *testing.T) {
	a := challenge.Coordinate{Latitude: 40.730, Longitude: -73.935}
	b := challenge.Coordinate{Latitude: -33.8568, Longitude: 151.2153}

	assert.InDelta(t, HaversineDistance(a, b), HaversineDistance(b, a), 1e-6)
}

func TestHaversineDistance_OneDegreeOfLatitude(t *testing.T) {
	d := HaversineDistance(
		challenge.Coordinate{Latitude: 0, Longitude: 0},
		challenge.Coordinate{Latitude: 1, Longitude: 0},
	)

	assert.InEpsilon(t, 111320.0, d, 0.005)
}

func TestHaversineDistance_NaNPropagates(t *testing.T) {
	d := HaversineDistance(
		challenge.Coordinate{Latitude: math.NaN(), Longitude: 0},
		challenge.Coordinate{Latitude: 1, Longitude: 0},
	)

	assert.True(t, math.IsNaN(d))
}

func TestIsWithinRadius(t *testing.T) {
	tests := []struct {
		name     string
		distance float64
		want     bool
	}{
		{"zero", 0, true},
		{"inside", 19999.99, true},
		{"boundary", 20000, true},
		{"just outside", 20000.01, false},
		{"far", 8.667e6, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsWithinRadius(tt.distance))
		})
	}
}

func TestCheckProximity_Manhattan(t *testing.T) {
	user := challenge.Coordinate{Latitude: 40.730, Longitude: -73.935}
	target := challenge.Coordinate{Latitude: 40.7580, Longitude: -73.9855}

	result := CheckProximity(user, target)

	// The Haversine distance here is about 5.27 km, well inside the fence.
	assert.True(t, result.IsWithinRadius)
	assert.InDelta(t, 5272, result.DistanceMeters, 10)
}

func TestCheckProximity_NullIsland(t *testing.T) {
	user := challenge.Coordinate{Latitude: 0, Longitude: 0}
	target := challenge.Coordinate{Latitude: 40.7580, Longitude: -73.9855}

	result := CheckProximity(user, target)

	assert.False(t, result.IsWithinRadius)
	assert.InDelta(t, 8666295, result.DistanceMeters, 100)
}
