package geodesic

import (
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// InverseLatLng solves the inverse problem between two s2 points.
// Returns s12 (distance in meters), azi1 (azimuth at point 1) and azi2
// (azimuth at point 2).
func (e *Ellipsoid) InverseLatLng(a, b s2.LatLng) (s12, azi1, azi2 float64, err error) {
	r, err := e.Inverse(a.Lat.Degrees(), a.Lng.Degrees(),
		b.Lat.Degrees(), b.Lng.Degrees(), Standard)
	if err != nil {
		return 0, 0, 0, err
	}
	return r.Distance, r.Azi1, r.Azi2, nil
}

// DirectLatLng returns the point reached by travelling s12 meters from a
// with initial azimuth azi1, and the azimuth there.
func (e *Ellipsoid) DirectLatLng(a s2.LatLng, azi1 s1.Angle, s12 float64) (s2.LatLng, s1.Angle, error) {
	r, err := e.Direct(a.Lat.Degrees(), a.Lng.Degrees(), azi1.Degrees(), s12, Standard)
	if err != nil {
		return s2.LatLng{}, 0, err
	}
	return s2.LatLngFromDegrees(r.Lat2, r.Lon2), s1.Angle(r.Azi2) * s1.Degree, nil
}

// AddLatLng adds an s2 vertex to the polygon.
func (p *Polygon) AddLatLng(ll s2.LatLng) error {
	return p.AddPoint(ll.Lat.Degrees(), ll.Lng.Degrees())
}

// LoopArea returns the perimeter and area of an s2 loop. s2 loops keep
// their interior on the left, so the area is in [0, A) where A is the area
// of the ellipsoid, even for loops enclosing more than a hemisphere.
func (e *Ellipsoid) LoopArea(loop *s2.Loop) (PolygonResult, error) {
	poly := e.PolygonInit(false)
	for _, v := range loop.Vertices() {
		if err := poly.AddLatLng(s2.LatLngFromPoint(v)); err != nil {
			return PolygonResult{}, err
		}
	}
	return poly.Compute(false, false), nil
}
