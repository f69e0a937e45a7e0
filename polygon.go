package geodesic

import (
	"fmt"
	"math"
)

// Point is a latitude/longitude pair in degrees.
type Point struct {
	Lat, Lon float64
}

// PolygonResult is the outcome of Polygon.Compute and the what-if queries.
type PolygonResult struct {
	// Number of vertices.
	Number int
	// Perimeter of the polygon or length of the polyline (meters).
	Perimeter float64
	// Area of the polygon (square meters). NaN for polylines.
	Area float64
}

// Polygon accumulates the perimeter and area of a geodesic polygon (or the
// length of a polyline) one vertex at a time. Edges are geodesics; the
// polygon is closed implicitly.
//
// A Polygon is not safe for concurrent use.
type Polygon struct {
	e        *Ellipsoid
	polyline bool
	area0    float64
	mask     Mask

	num          int
	crossings    int
	areasum      accumulator
	perimetersum accumulator
	lat0, lon0   float64
	lat1, lon1   float64
}

// PolygonInit initializes a polygon. If polyline is set the vertices
// describe a polyline and only its length is computed.
func (e *Ellipsoid) PolygonInit(polyline bool) *Polygon {
	p := &Polygon{
		e:        e,
		polyline: polyline,
		area0:    e.SurfaceArea(),
		mask:     Latitude | Longitude | Distance,
	}
	if !polyline {
		p.mask |= Area | LongUnroll
	}
	p.Clear()
	return p
}

// Clear removes all vertices.
func (p *Polygon) Clear() {
	p.num = 0
	p.crossings = 0
	p.areasum.set(0)
	p.perimetersum.set(0)
	nan := math.NaN()
	p.lat0, p.lon0, p.lat1, p.lon1 = nan, nan, nan, nan
}

// Number returns the number of vertices added so far.
func (p *Polygon) Number() int {
	return p.num
}

// CurrentPoint returns the last vertex added, NaNs if there is none.
func (p *Polygon) CurrentPoint() Point {
	return Point{Lat: p.lat1, Lon: p.lon1}
}

// AddPoint adds a vertex. The latitude must be in [-90, 90]; an invalid
// vertex leaves the polygon untouched.
func (p *Polygon) AddPoint(lat, lon float64) error {
	if err := checkLatitude(lat); err != nil {
		return err
	}
	if p.num == 0 {
		p.lat0, p.lon0 = lat, lon
	} else {
		sol := p.e.genInverse(p.lat1, p.lon1, lat, lon, p.mask)
		p.perimetersum.add(sol.s12)
		if !p.polyline {
			p.areasum.add(sol.S12)
			p.crossings += transit(p.lon1, lon)
		}
	}
	p.lat1, p.lon1 = lat, lon
	p.num++
	return nil
}

// AddEdge adds a vertex at distance s (meters) and azimuth azi (degrees)
// from the current vertex. It fails with ErrNoVertex on an empty polygon.
func (p *Polygon) AddEdge(azi, s float64) error {
	if p.num == 0 {
		return fmt.Errorf("%w: AddEdge needs a starting point", ErrNoVertex)
	}
	r := p.e.genDirect(p.lat1, p.lon1, azi, false, s, p.mask)
	p.perimetersum.add(s)
	if !p.polyline {
		p.areasum.add(r.Area)
		p.crossings += transitDirect(p.lon1, r.Lon2)
	}
	p.lat1, p.lon1 = r.Lat2, angNormalize(r.Lon2)
	p.num++
	return nil
}

// Compute returns the number of vertices, the perimeter and the area of
// the polygon closed back to its first vertex.
//
// Param reverse when set makes clockwise traversal count as positive
// area; by default counter-clockwise is positive.
// Param sign when set returns a signed area in (-A/2, A/2] where A is the
// area of the ellipsoid; otherwise the area is in [0, A).
//
// With fewer than two vertices the perimeter and area are 0.
func (p *Polygon) Compute(reverse, sign bool) PolygonResult {
	res := PolygonResult{Number: p.num, Area: math.NaN()}
	if p.num < 2 {
		if !p.polyline {
			res.Area = 0
		}
		return res
	}
	if p.polyline {
		res.Perimeter = p.perimetersum.sum(0)
		return res
	}
	sol := p.e.genInverse(p.lat1, p.lon1, p.lat0, p.lon0, p.mask)
	res.Perimeter = p.perimetersum.sum(sol.s12)
	tempsum := p.areasum
	tempsum.add(sol.S12)
	crossings := p.crossings + transit(p.lon1, p.lon0)
	res.Area = reduceAccumulatedArea(&tempsum, p.area0, crossings, reverse, sign)
	return res
}

// TestPoint returns the result Compute would give if the vertex (lat,
// lon) were added. The polygon is not modified.
func (p *Polygon) TestPoint(lat, lon float64, reverse, sign bool) (PolygonResult, error) {
	if err := checkLatitude(lat); err != nil {
		return PolygonResult{}, err
	}
	res := PolygonResult{Number: p.num + 1, Area: math.NaN()}
	if p.num == 0 {
		if !p.polyline {
			res.Area = 0
		}
		return res, nil
	}
	perimeter := p.perimetersum.sum(0)
	var tempsum float64
	if !p.polyline {
		tempsum = p.areasum.sum(0)
	}
	crossings := p.crossings
	legs := [2][4]float64{
		{p.lat1, p.lon1, lat, lon},
		{lat, lon, p.lat0, p.lon0},
	}
	n := 2
	if p.polyline {
		n = 1
	}
	for _, leg := range legs[:n] {
		sol := p.e.genInverse(leg[0], leg[1], leg[2], leg[3], p.mask)
		perimeter += sol.s12
		if !p.polyline {
			tempsum += sol.S12
			crossings += transit(leg[1], leg[3])
		}
	}
	res.Perimeter = perimeter
	if !p.polyline {
		res.Area = reduceArea(tempsum, p.area0, crossings, reverse, sign)
	}
	return res, nil
}

// TestEdge returns the result Compute would give if an edge of azimuth
// azi and length s were added. The polygon is not modified. On an empty
// polygon the perimeter and area are NaN.
func (p *Polygon) TestEdge(azi, s float64, reverse, sign bool) PolygonResult {
	if p.num == 0 {
		return PolygonResult{Perimeter: math.NaN(), Area: math.NaN()}
	}
	res := PolygonResult{
		Number:    p.num + 1,
		Perimeter: p.perimetersum.sum(0) + s,
		Area:      math.NaN(),
	}
	if p.polyline {
		return res
	}
	tempsum := p.areasum.sum(0)
	crossings := p.crossings
	r := p.e.genDirect(p.lat1, p.lon1, azi, false, s, p.mask)
	tempsum += r.Area
	crossings += transitDirect(p.lon1, r.Lon2)
	sol := p.e.genInverse(r.Lat2, r.Lon2, p.lat0, p.lon0, p.mask)
	res.Perimeter += sol.s12
	tempsum += sol.S12
	crossings += transit(r.Lon2, p.lon0)
	res.Area = reduceArea(tempsum, p.area0, crossings, reverse, sign)
	return res
}

// transit returns 1 or -1 if crossing the prime meridian in the east or
// west direction going from lon1 to lon2, otherwise 0.
func transit(lon1, lon2 float64) int {
	lon12, _ := angDiff(lon1, lon2)
	lon1 = angNormalize(lon1)
	lon2 = angNormalize(lon2)
	switch {
	case lon12 > 0 && ((lon1 < 0 && lon2 >= 0) || (lon1 > 0 && lon2 == 0)):
		return 1
	case lon12 < 0 && lon1 >= 0 && lon2 < 0:
		return -1
	default:
		return 0
	}
}

// transitDirect is transit for unrolled longitudes such as those produced
// by AddEdge. It gives the parity of floor(lon2/360) - floor(lon1/360),
// so longitude 0 counts as east as it does in transit.
func transitDirect(lon1, lon2 float64) int {
	west := func(lon float64) int {
		lon = remainder(lon, 720)
		if lon >= 0 && lon < 360 {
			return 0
		}
		return 1
	}
	return west(lon2) - west(lon1)
}

// reduceAccumulatedArea folds the area sum into the range selected by
// sign, correcting for an odd number of prime meridian crossings.
func reduceAccumulatedArea(area *accumulator, area0 float64, crossings int, reverse, sign bool) float64 {
	area.remainder(area0)
	if crossings&1 != 0 {
		if area.sum(0) < 0 {
			area.add(area0 / 2)
		} else {
			area.add(-area0 / 2)
		}
	}
	// area is with the clockwise sense; counter-clockwise is positive
	// unless reverse is set.
	if !reverse {
		area.negate()
	}
	s := area.sum(0)
	if sign {
		if s > area0/2 {
			area.add(-area0)
		} else if s <= -area0/2 {
			area.add(area0)
		}
	} else {
		if s >= area0 {
			area.add(-area0)
		} else if s < 0 {
			area.add(area0)
		}
	}
	return 0 + area.sum(0)
}

// reduceArea is reduceAccumulatedArea for a plain float.
func reduceArea(area, area0 float64, crossings int, reverse, sign bool) float64 {
	area = remainder(area, area0)
	if crossings&1 != 0 {
		if area < 0 {
			area += area0 / 2
		} else {
			area -= area0 / 2
		}
	}
	if !reverse {
		area = -area
	}
	if sign {
		if area > area0/2 {
			area -= area0
		} else if area <= -area0/2 {
			area += area0
		}
	} else {
		if area >= area0 {
			area -= area0
		} else if area < 0 {
			area += area0
		}
	}
	return 0 + area
}
