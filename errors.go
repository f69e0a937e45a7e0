package geodesic

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEllipsoid is returned when the equatorial radius or the
	// derived polar semi-axis is not a finite positive number.
	ErrInvalidEllipsoid = errors.New("geodesic: invalid ellipsoid")

	// ErrLatitudeRange is returned when a latitude is outside [-90, 90].
	ErrLatitudeRange = errors.New("geodesic: latitude out of range")

	// ErrNoVertex is returned by Polygon.AddEdge before any point has
	// been added.
	ErrNoVertex = errors.New("geodesic: polygon has no vertex")
)

// checkLatitude validates lat. NaN passes and propagates through the
// computation.
func checkLatitude(lat float64) error {
	if lat > 90 || lat < -90 {
		return fmt.Errorf("%w: %v not in [-90, 90]", ErrLatitudeRange, lat)
	}
	return nil
}
