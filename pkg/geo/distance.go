// Package geo provides great-circle distance math for the proximity search.
package geo

import "math"

// EarthRadiusKm is the spherical-earth approximation radius.
const EarthRadiusKm = 6371.0

// DistanceKm computes the haversine distance in kilometers between two
// coordinates. Inputs must already be validated (latitude in [-90, 90],
// longitude in [-180, 180]); NaN propagates to the result.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)
	rLat1 := toRadians(lat1)
	rLat2 := toRadians(lat2)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(rLat1)*math.Cos(rLat2)
	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}

// RoundKm rounds a distance to 2 decimal places for display. Sorting and
// radius checks use the full-precision value.
func RoundKm(km float64) float64 {
	return math.Round(km*100) / 100
}

// ValidCoordinate reports whether lat/lon form a usable coordinate pair.
func ValidCoordinate(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
