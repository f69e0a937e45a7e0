package geodesic

import (
	"math"
	"testing"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInverseLatLng(t *testing.T) {
	a := s2.LatLngFromDegrees(-41.32, 174.81)
	b := s2.LatLngFromDegrees(40.96, -5.50)
	s12, azi1, azi2, err := WGS84.InverseLatLng(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 19959679.267353356, s12, 1e-3)
	assert.InDelta(t, 161.06766998615873, azi1, 1e-6)
	assert.InDelta(t, 18.825195123248484, azi2, 1e-6)

	_, _, _, err = WGS84.InverseLatLng(s2.LatLngFromDegrees(91, 0), b)
	assert.ErrorIs(t, err, ErrLatitudeRange)
}

func TestDirectLatLng(t *testing.T) {
	a := s2.LatLngFromDegrees(40.63972222, -73.77888889)
	b, azi2, err := WGS84.DirectLatLng(a, 53.5*s1.Degree, 5850e3)
	require.NoError(t, err)
	assert.InDelta(t, 49.01467, b.Lat.Degrees(), 0.5e-5)
	assert.InDelta(t, 2.56106, b.Lng.Degrees(), 0.5e-5)
	assert.InDelta(t, 111.62947, azi2.Degrees(), 0.5e-5)
}

func TestLoopArea(t *testing.T) {
	// s2 loops are counter-clockwise around their interior.
	pts := []s2.Point{
		s2.PointFromLatLng(s2.LatLngFromDegrees(0, 0)),
		s2.PointFromLatLng(s2.LatLngFromDegrees(0, 90)),
		s2.PointFromLatLng(s2.LatLngFromDegrees(90, 0)),
	}
	loop := s2.LoopFromPoints(pts)
	res, err := WGS84.LoopArea(loop)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Number)
	assert.InDelta(t, WGS84.SurfaceArea()/8, res.Area, 1)
	assert.InDelta(t, 30022685, res.Perimeter, 1)

	// On a sphere the result agrees with s2's own area.
	sphere, err := NewEllipsoid(1, 0)
	require.NoError(t, err)
	small := s2.LoopFromPoints([]s2.Point{
		s2.PointFromLatLng(s2.LatLngFromDegrees(10, 10)),
		s2.PointFromLatLng(s2.LatLngFromDegrees(10, 12)),
		s2.PointFromLatLng(s2.LatLngFromDegrees(12, 11)),
	})
	res, err = sphere.LoopArea(small)
	require.NoError(t, err)
	assert.InDelta(t, small.Area(), res.Area, 1e-12)
	assert.False(t, math.IsNaN(res.Perimeter))
}

func TestLoopAreaLarge(t *testing.T) {
	// Counter-clockwise along latitude -10 encloses the north pole and
	// more than half the ellipsoid.
	var pts []s2.Point
	for lon := 0.0; lon < 360; lon += 30 {
		pts = append(pts, s2.PointFromLatLng(s2.LatLngFromDegrees(-10, lon)))
	}
	big := s2.LoopFromPoints(pts)
	res, err := WGS84.LoopArea(big)
	require.NoError(t, err)
	assert.Equal(t, 12, res.Number)
	assert.Greater(t, res.Area, WGS84.SurfaceArea()/2)
	assert.InEpsilon(t, big.Area()/(4*math.Pi)*WGS84.SurfaceArea(), res.Area, 0.02)

	rev := make([]s2.Point, len(pts))
	for i, p := range pts {
		rev[len(pts)-1-i] = p
	}
	small, err := WGS84.LoopArea(s2.LoopFromPoints(rev))
	require.NoError(t, err)
	assert.Less(t, small.Area, WGS84.SurfaceArea()/2)
	assert.InDelta(t, WGS84.SurfaceArea(), res.Area+small.Area, 1)
	assert.InDelta(t, res.Perimeter, small.Perimeter, 1e-6)
}

func TestPolygonAddLatLng(t *testing.T) {
	p := WGS84.PolygonInit(false)
	for _, ll := range []s2.LatLng{
		s2.LatLngFromDegrees(89, 0),
		s2.LatLngFromDegrees(89, 90),
		s2.LatLngFromDegrees(89, 180),
		s2.LatLngFromDegrees(89, 270),
	} {
		require.NoError(t, p.AddLatLng(ll))
	}
	res := p.Compute(false, true)
	assert.InDelta(t, 631819.8745, res.Perimeter, 1e-3)
	assert.InDelta(t, 24952305678.0, res.Area, 1)
}
