// internal/service/geo/distance.go

package geo

import "math"

const earthRadiusKm = 6371.0

// Distance calculates the great-circle distance in kilometers between two
// WGS84 coordinates, given in degrees.
func Distance(latA, lngA, latB, lngB float64) float64 {
	// Implementation of the Haversine formula for distance on a sphere

	// Convert latitude and longitude from degrees to radians
	lat1 := latA * math.Pi / 180.0
	lon1 := lngA * math.Pi / 180.0
	lat2 := latB * math.Pi / 180.0
	lon2 := lngB * math.Pi / 180.0

	// Haversine formula
	dLat := lat2 - lat1
	dLon := lon2 - lon1

	hSin := math.Sin(dLat / 2)
	hSin *= hSin

	vSin := math.Sin(dLon / 2)
	vSin *= vSin

	h := hSin + math.Cos(lat1)*math.Cos(lat2)*vSin

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
