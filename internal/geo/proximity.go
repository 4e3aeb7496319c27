// Package geo provides the planar proximity math used for duplicate
// detection and jurisdiction resolution. Coordinates are treated as
// Euclidean points in decimal degrees, which is adequate at city scale and
// deliberately not geodesically correct.
package geo

import (
	"math"

	"github.com/spec-kit/civic-issue-service/internal/domain"
)

// Distance returns the Euclidean degree distance between two points.
func Distance(a, b domain.Coordinates) float64 {
	dLat := a.Latitude - b.Latitude
	dLng := a.Longitude - b.Longitude
	return math.Sqrt(dLat*dLat + dLng*dLng)
}

// WithinRadius reports whether b lies within radius degrees of a.
func WithinRadius(a, b domain.Coordinates, radius float64) bool {
	if radius < 0 {
		return false
	}
	return Distance(a, b) <= radius
}

// ValidCoordinates reports whether the point is a plausible lat/lng pair.
func ValidCoordinates(c domain.Coordinates) bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// NearestJurisdiction resolves the jurisdiction whose center lies closest to
// the point. The second return is the distance in degrees so callers can
// treat far matches as low confidence. Returns nil for an empty slice.
func NearestJurisdiction(point domain.Coordinates, candidates []domain.Jurisdiction) (*domain.Jurisdiction, float64) {
	var nearest *domain.Jurisdiction
	best := math.MaxFloat64
	for i := range candidates {
		d := Distance(point, candidates[i].Center)
		if d < best {
			best = d
			nearest = &candidates[i]
		}
	}
	return nearest, best
}
