package geodesic

import (
	"math"

	"github.com/paulmach/orb"
)

// orb geometries store points as [lon, lat].

// LineStringLength returns the geodesic length of ls in meters.
func (e *Ellipsoid) LineStringLength(ls orb.LineString) (float64, error) {
	poly := e.PolygonInit(true)
	for _, pt := range ls {
		if err := poly.AddPoint(pt.Lat(), pt.Lon()); err != nil {
			return 0, err
		}
	}
	return poly.Compute(false, true).Perimeter, nil
}

// RingArea returns the perimeter and signed area of r, positive when the
// ring is counter-clockwise. The ring is closed implicitly; a repeated
// closing point is ignored.
func (e *Ellipsoid) RingArea(r orb.Ring) (PolygonResult, error) {
	if len(r) > 1 && r[0] == r[len(r)-1] {
		r = r[:len(r)-1]
	}
	points := make([]Point, len(r))
	for i, pt := range r {
		points[i] = Point{Lat: pt.Lat(), Lon: pt.Lon()}
	}
	return e.Area(points, false)
}

// PolygonArea returns the area of p in square meters: the area of the
// outer ring less the areas of the holes, regardless of winding order.
func (e *Ellipsoid) PolygonArea(p orb.Polygon) (float64, error) {
	if len(p) == 0 {
		return 0, nil
	}
	var sum float64
	for i, ring := range p {
		res, err := e.RingArea(ring)
		if err != nil {
			return 0, err
		}
		if i == 0 {
			sum += math.Abs(res.Area)
		} else {
			sum -= math.Abs(res.Area)
		}
	}
	return sum, nil
}

// LineString returns n+1 points equally spaced along the geodesic from
// (lat1, lon1) to (lat2, lon2), both ends included. Longitudes are unrolled
// from lon1 so the result never jumps across the antimeridian.
func (e *Ellipsoid) LineString(lat1, lon1, lat2, lon2 float64, n int) (orb.LineString, error) {
	l, err := e.InverseLine(lat1, lon1, lat2, lon2, Latitude|Longitude)
	if err != nil {
		return nil, err
	}
	if n < 1 {
		n = 1
	}
	ds := l.Distance() / float64(n)
	ls := make(orb.LineString, 0, n+1)
	ls = append(ls, orb.Point{l.Lon1(), l.Lat1()})
	l.SetDistance(0)
	for i := 1; i <= n; i++ {
		r := l.Advance(ds, Latitude|Longitude|LongUnroll)
		ls = append(ls, orb.Point{r.Lon2, r.Lat2})
	}
	return ls, nil
}
