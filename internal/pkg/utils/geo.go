package utils

// ValidateCoordinates reports whether lat/lon are inside the WGS84 domain.
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// ValidateRadius reports whether a search radius is usable (100 m - 100 km).
func ValidateRadius(radiusMeters float64) bool {
	return radiusMeters >= 100 && radiusMeters <= 100000
}
