package distance

import (
	"math"

	"github.com/snkhalik/delivery-distance-checker/internal/models"
)

// Spherical earth radius in meters. The whole pipeline is pinned to the
// haversine formula on this radius so results stay reproducible.
const earthRadius = 6371000.0

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// Haversine computes the great-circle distance between two points in meters.
func Haversine(a, b models.Coordinate) float64 {
	lat1Rad := toRadians(a.Lat)
	lon1Rad := toRadians(a.Lon)
	lat2Rad := toRadians(b.Lat)
	lon2Rad := toRadians(b.Lon)

	dLat := lat2Rad - lat1Rad
	dLon := lon2Rad - lon1Rad

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadius * c
}
