package utils

import (
	"math"

	"geoQuestAPI/internal/types/challenge"
)

const (
	EarthRadiusMeters = 6371e3

	// DefaultGeofenceRadiusM is how close a user must be to a challenge target to complete it.
	DefaultGeofenceRadiusM = 20000.0
)

// HaversineDistance returns the great-circle distance in meters between two points.
// Inputs are not validated: NaN or out-of-range degrees yield NaN or meaningless results.
func HaversineDistance(from, to challenge.Coordinate) float64 {
	phi1 := from.Latitude * math.Pi / 180
	phi2 := to.Latitude * math.Pi / 180
	deltaPhi := (to.Latitude - from.Latitude) * math.Pi / 180
	deltaLambda := (to.Longitude - from.Longitude) * math.Pi / 180

	a := math.Sin(deltaPhi/2)*math.Sin(deltaPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*
			math.Sin(deltaLambda/2)*math.Sin(deltaLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

func IsWithinRadius(distanceMeters float64) bool {
	return distanceMeters <= DefaultGeofenceRadiusM
}

func CheckProximity(user, target challenge.Coordinate) challenge.ProximityResult {
	distance := HaversineDistance(user, target)
	return challenge.ProximityResult{
		IsWithinRadius: IsWithinRadius(distance),
		DistanceMeters: distance,
	}
}
