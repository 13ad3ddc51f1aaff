// Package geo evaluates coordinates against circular safe zones.
package geo

import "math"

// EarthRadiusMeters is the mean Earth radius used for great-circle distances.
const EarthRadiusMeters = 6371000.0

// Distance returns the haversine great-circle distance in meters.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := toRadians(lat1)
	phi2 := toRadians(lat2)
	dPhi := toRadians(lat2 - lat1)
	dLambda := toRadians(lng2 - lng1)

	sinPhi := math.Sin(dPhi / 2)
	sinLambda := math.Sin(dLambda / 2)
	a := sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLambda*sinLambda
	// rounding can push a slightly outside [0,1] near antipodes
	a = math.Min(1, math.Max(0, a))
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusMeters * c
}

// IsInSafeZone reports whether the point lies within radiusMeters of the zone center.
func IsInSafeZone(pointLat, pointLng, zoneLat, zoneLng, radiusMeters float64) bool {
	return Distance(pointLat, pointLng, zoneLat, zoneLng) <= radiusMeters
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
