// Package geo resolves coordinates to the nearest catalog station.
package geo

import (
	"math"

	"mosmix-api/internal/models"
)

// EarthRadiusKm is the mean Earth radius used by Distance.
const EarthRadiusKm = 6371.0

// Distance returns the great-circle distance between a and b in kilometers.
func Distance(a, b models.GeoPoint) float64 {
	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return EarthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Nearest returns the candidate closest to point. Ties go to the earlier
// candidate. ok is false when candidates is empty.
func Nearest(point models.GeoPoint, candidates []models.Station) (result models.NearestStationResult, ok bool) {
	if len(candidates) == 0 {
		return models.NearestStationResult{}, false
	}

	best := 0
	bestDistance := Distance(point, candidates[0].Point())
	for i := 1; i < len(candidates); i++ {
		d := Distance(point, candidates[i].Point())
		if d < bestDistance {
			best, bestDistance = i, d
		}
	}

	return models.NearestStationResult{
		StationID:   candidates[best].ID,
		StationName: candidates[best].Name,
		DistanceKm:  bestDistance,
	}, true
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
