package geodesic

import (
	"bufio"
	"bytes"
	_ "embed"
	"errors"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The "geodtest.txt" file holds a sample of the GeographicLib geodesic
// test set for WGS84.
//
//go:embed testdata/geodtest.txt
var geodTest []byte

type geodCase struct {
	lat1, lon1, azi1 float64
	lat2, lon2, azi2 float64
	s12, a12, m12    float64
	M12, M21, S12    float64
}

func readGeodTest(t *testing.T) []geodCase {
	t.Helper()
	var cases []geodCase
	s := bufio.NewScanner(bytes.NewReader(geodTest))
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		require.Len(t, fields, 12, line)
		var v [12]float64
		for i, f := range fields {
			x, err := strconv.ParseFloat(f, 64)
			require.NoError(t, err)
			v[i] = x
		}
		cases = append(cases, geodCase{
			v[0], v[1], v[2], v[3], v[4], v[5],
			v[6], v[7], v[8], v[9], v[10], v[11],
		})
	}
	require.NoError(t, s.Err())
	require.NotEmpty(t, cases)
	return cases
}

func eqish(x, y float64, prec int) bool {
	return math.Abs(x-y) < float64(1.0)/math.Pow10(prec)
}

// angleDelta is |x - y| for angles, ignoring multiples of 360.
func angleDelta(x, y float64) float64 {
	d, e := angDiff(x, y)
	return math.Abs(d + e)
}

func TestGeodTestInverse(t *testing.T) {
	for _, c := range readGeodTest(t) {
		r, err := WGS84.Inverse(c.lat1, c.lon1, c.lat2, c.lon2, All)
		require.NoError(t, err)
		assert.True(t, r.Converged)
		assert.Less(t, angleDelta(r.Azi1, c.azi1), 1e-11, "azi1 %+v", c)
		assert.Less(t, angleDelta(r.Azi2, c.azi2), 1e-11, "azi2 %+v", c)
		assert.InDelta(t, c.s12, r.Distance, 1e-6, "s12 %+v", c)
		assert.InDelta(t, c.a12, r.Arc, 1e-11, "a12 %+v", c)
		assert.InDelta(t, c.m12, r.ReducedLength, 1e-6, "m12 %+v", c)
		assert.InDelta(t, c.M12, r.M12, 1e-13, "M12 %+v", c)
		assert.InDelta(t, c.M21, r.M21, 1e-13, "M21 %+v", c)
		assert.InDelta(t, c.S12, r.Area, 0.1, "S12 %+v", c)
	}
}

func TestGeodTestDirect(t *testing.T) {
	for _, c := range readGeodTest(t) {
		r, err := WGS84.Direct(c.lat1, c.lon1, c.azi1, c.s12, All|LongUnroll)
		require.NoError(t, err)
		assert.InDelta(t, c.lat2, r.Lat2, 1e-11, "lat2 %+v", c)
		assert.InDelta(t, c.lon2, r.Lon2, 1e-11, "lon2 %+v", c)
		assert.Less(t, angleDelta(r.Azi2, c.azi2), 1e-11, "azi2 %+v", c)
		assert.InDelta(t, c.a12, r.Arc, 1e-11, "a12 %+v", c)
		assert.InDelta(t, c.m12, r.ReducedLength, 1e-6, "m12 %+v", c)
		assert.InDelta(t, c.M12, r.M12, 1e-13, "M12 %+v", c)
		assert.InDelta(t, c.M21, r.M21, 1e-13, "M21 %+v", c)
		assert.InDelta(t, c.S12, r.Area, 0.1, "S12 %+v", c)
	}
}

func TestGeodTestArcDirect(t *testing.T) {
	for _, c := range readGeodTest(t) {
		r, err := WGS84.ArcDirect(c.lat1, c.lon1, c.azi1, c.a12, All|LongUnroll)
		require.NoError(t, err)
		assert.InDelta(t, c.lat2, r.Lat2, 1e-11, "lat2 %+v", c)
		assert.InDelta(t, c.lon2, r.Lon2, 1e-11, "lon2 %+v", c)
		assert.Less(t, angleDelta(r.Azi2, c.azi2), 1e-11, "azi2 %+v", c)
		assert.InDelta(t, c.s12, r.Distance, 1e-6, "s12 %+v", c)
		assert.Equal(t, c.a12, r.Arc)
	}
}

func TestInverseKnownValues(t *testing.T) {
	prolate, err := NewEllipsoid(6.4e6, -1/150.0)
	require.NoError(t, err)

	for _, tc := range []struct {
		name                   string
		e                      *Ellipsoid
		lat1, lon1, lat2, lon2 float64
		azi1, azi2, s12        float64
		atol, stol             float64
	}{
		{"JFK to CDG", WGS84, 40.6, -73.8, 49.01666667, 2.55,
			53.47022, 111.59367, 5853226, 0.5e-5, 0.5},
		{"prolate antipodal 1", prolate, 0.07476, 0, -0.07476, 180,
			90.00078, 90.00078, 20106193, 0.5e-5, 0.5},
		{"prolate antipodal 2", prolate, 0.1, 0, -0.1, 180,
			90.00105, 90.00105, 20106193, 0.5e-5, 0.5},
		{"nearly antipodal 1", WGS84, 88.202499451857, 0, -88.202499451857, 179.981022032992859592,
			math.NaN(), math.NaN(), 20003898.214, 0, 0.5e-3},
		{"nearly antipodal 2", WGS84, 89.262080389218, 0, -89.262080389218, 179.992207982775375662,
			math.NaN(), math.NaN(), 20003925.854, 0, 0.5e-3},
		{"nearly antipodal 3", WGS84, 89.333123580033, 0, -89.333123580032997687, 179.99295812360148422,
			math.NaN(), math.NaN(), 20003926.881, 0, 0.5e-3},
		{"astroid 1", WGS84, 56.320923501171, 0, -56.320923501171, 179.664747671772880215,
			math.NaN(), math.NaN(), 19993558.287, 0, 0.5e-3},
		{"astroid 2", WGS84, 52.784459512564, 0, -52.784459512563990912, 179.634407464943777557,
			math.NaN(), math.NaN(), 19991596.095, 0, 0.5e-3},
		{"astroid 3", WGS84, 48.522876735459, 0, -48.52287673545898293, 179.599720456223079643,
			math.NaN(), math.NaN(), 19989144.774, 0, 0.5e-3},
		{"short line", WGS84, 36.493349428792, 0, 36.49334942879201, .0000008,
			math.NaN(), math.NaN(), 0.072, 0, 0.5e-3},
		{"Wellington to New York", WGS84, -41.32, 174.81, 40.96, -5.50,
			161.06766998615873, 18.825195123248484, 19959679.267353356, 1e-6, 1e-3},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r, err := tc.e.Inverse(tc.lat1, tc.lon1, tc.lat2, tc.lon2, Standard)
			require.NoError(t, err)
			assert.True(t, r.Converged)
			assert.InDelta(t, tc.s12, r.Distance, tc.stol)
			if !math.IsNaN(tc.azi1) {
				assert.InDelta(t, tc.azi1, r.Azi1, tc.atol)
				assert.InDelta(t, tc.azi2, r.Azi2, tc.atol)
			}
		})
	}
}

func TestInverseEquatorial(t *testing.T) {
	sphere, err := NewEllipsoid(6.4e6, 0)
	require.NoError(t, err)
	prolate, err := NewEllipsoid(6.4e6, -1/300.0)
	require.NoError(t, err)

	for _, tc := range []struct {
		e               *Ellipsoid
		lat2, lon2      float64
		azi1, azi2, s12 float64
	}{
		{WGS84, 0, 179, 90, 90, 19926189},
		{WGS84, 0, 179.5, 55.96650, 124.03350, 19980862},
		{WGS84, 0, 180, 0, 180, 20003931},
		{WGS84, 1, 180, 0, 180, 19893357},
		{sphere, 0, 179, 90, 90, 19994492},
		{sphere, 0, 180, 0, 180, 20106193},
		{sphere, 1, 180, 0, 180, 19994492},
		{prolate, 0, 179, 90, 90, 19994492},
		{prolate, 0, 180, 90, 90, 20106193},
		{prolate, 0.5, 180, 33.02493, 146.97364, 20082617},
		{prolate, 1, 180, 0, 180, 20027270},
	} {
		r, err := tc.e.Inverse(0, 0, tc.lat2, tc.lon2, Standard)
		require.NoError(t, err)
		assert.InDelta(t, tc.azi1, r.Azi1, 0.5e-5, "%+v", tc)
		assert.InDelta(t, tc.azi2, r.Azi2, 0.5e-5, "%+v", tc)
		assert.InDelta(t, tc.s12, r.Distance, 0.5, "%+v", tc)
	}
}

func TestInverseHighlyProlate(t *testing.T) {
	e, err := NewEllipsoid(89.8, -1.83)
	require.NoError(t, err)
	r, err := e.Inverse(0, 0, -10, 160, Standard)
	require.NoError(t, err)
	assert.InDelta(t, 120.27, r.Azi1, 1e-2)
	assert.InDelta(t, 105.15, r.Azi2, 1e-2)
	assert.InDelta(t, 266.7, r.Distance, 1e-1)
}

func TestInverseTinyLongitude(t *testing.T) {
	r, err := WGS84.Inverse(5, 0.00000000000001, 10, 180, Standard)
	require.NoError(t, err)
	assert.InDelta(t, 0, r.Azi1, 1e-12)
	assert.Less(t, angleDelta(r.Azi2, 180), 1e-12)
	assert.InDelta(t, 18345191.174332713, r.Distance, 5e-9)
}

func TestInverseAllOutputs(t *testing.T) {
	r, err := WGS84.Inverse(54.1589, 15.3872, 54.1591, 15.3877, All)
	require.NoError(t, err)
	assert.InDelta(t, 55.723110355, r.Azi1, 5e-9)
	assert.InDelta(t, 55.723515675, r.Azi2, 5e-9)
	assert.InDelta(t, 39.527686385, r.Distance, 5e-9)
	assert.InDelta(t, 0.000355495, r.Arc, 5e-9)
	assert.InDelta(t, 39.527686385, r.ReducedLength, 5e-9)
	assert.InDelta(t, 0.999999995, r.M12, 5e-9)
	assert.InDelta(t, 0.999999995, r.M21, 5e-9)
	assert.InDelta(t, 286698586.30197, r.Area, 5e-4)
	assert.True(t, r.Has(All))
}

func TestInverseArea(t *testing.T) {
	sphere, err := NewEllipsoid(6.4e6, 0)
	require.NoError(t, err)
	r, err := sphere.Inverse(1, 2, 3, 4, Area)
	require.NoError(t, err)
	assert.InDelta(t, 49911046115, r.Area, 0.5)
}

func TestInverseUnroll(t *testing.T) {
	r, err := WGS84.Inverse(0, 539, 0, 181, Standard)
	require.NoError(t, err)
	assert.Equal(t, 179.0, r.Lon1)
	assert.Equal(t, -179.0, r.Lon2)
	assert.InDelta(t, 222639, r.Distance, 0.5)

	r, err = WGS84.Inverse(0, 539, 0, 181, Standard|LongUnroll)
	require.NoError(t, err)
	assert.Equal(t, 539.0, r.Lon1)
	assert.Equal(t, 541.0, r.Lon2)
	assert.InDelta(t, 222639, r.Distance, 0.5)
}

func TestInverseNaN(t *testing.T) {
	for _, in := range [][4]float64{
		{math.NaN(), 0, 0, 90},
		{0, 0, math.NaN(), 90},
		{0, 0, 1, math.NaN()},
	} {
		r, err := WGS84.Inverse(in[0], in[1], in[2], in[3], Standard)
		require.NoError(t, err)
		assert.True(t, math.IsNaN(r.Azi1), "%v", in)
		assert.True(t, math.IsNaN(r.Azi2), "%v", in)
		assert.True(t, math.IsNaN(r.Distance), "%v", in)
	}
}

func TestDirectKnownValues(t *testing.T) {
	r, err := WGS84.Direct(40.63972222, -73.77888889, 53.5, 5850e3, Standard)
	require.NoError(t, err)
	assert.InDelta(t, 49.01467, r.Lat2, 0.5e-5)
	assert.InDelta(t, 2.56106, r.Lon2, 0.5e-5)
	assert.InDelta(t, 111.62947, r.Azi2, 0.5e-5)
	assert.Equal(t, 5850e3, r.Distance)

	// Through the north pole
	r, err = WGS84.Direct(0.01777745589997, 30, 0, 10e6, Standard)
	require.NoError(t, err)
	assert.InDelta(t, 90, r.Lat2, 0.5e-5)
	if r.Lon2 < 0 {
		assert.InDelta(t, -150, r.Lon2, 0.5e-5)
		assert.InDelta(t, 180, math.Abs(r.Azi2), 0.5e-5)
	} else {
		assert.InDelta(t, 30, r.Lon2, 0.5e-5)
		assert.InDelta(t, 0, r.Azi2, 0.5e-5)
	}

	// Backwards from the north pole
	r, err = WGS84.Direct(90, 10, 180, -1e6, Standard)
	require.NoError(t, err)
	assert.InDelta(t, 81.04623, r.Lat2, 0.5e-5)
	assert.InDelta(t, -170, r.Lon2, 0.5e-5)
	assert.InDelta(t, 0, r.Azi2, 0.5e-5)
}

func TestDirectUnroll(t *testing.T) {
	r, err := WGS84.Direct(40, -75, -10, 2e7, Standard|LongUnroll)
	require.NoError(t, err)
	assert.InDelta(t, -39, r.Lat2, 1)
	assert.InDelta(t, -254, r.Lon2, 1)
	assert.InDelta(t, -170, r.Azi2, 1)

	r, err = WGS84.Direct(40, -75, -10, 2e7, Standard)
	require.NoError(t, err)
	assert.InDelta(t, -39, r.Lat2, 1)
	assert.InDelta(t, 105, r.Lon2, 1)
	assert.InDelta(t, -170, r.Azi2, 1)

	r, err = WGS84.Direct(45, 0, -0.000000000000000003, 1e7, Standard|LongUnroll)
	require.NoError(t, err)
	assert.InDelta(t, 45.30632, r.Lat2, 0.5e-5)
	assert.InDelta(t, -180, r.Lon2, 0.5e-5)
	assert.InDelta(t, 180, math.Abs(r.Azi2), 0.5e-5)
}

func TestDirectOtherEllipsoids(t *testing.T) {
	prolate, err := NewEllipsoid(6.4e6, -1/150.0)
	require.NoError(t, err)
	r, err := prolate.Direct(1, 2, 3, 4, Area)
	require.NoError(t, err)
	assert.InDelta(t, 23700, r.Area, 0.5)

	// |f| > 0.01 takes the Newton correction of the arc length.
	oblate, err := NewEllipsoid(6.4e6, 0.1)
	require.NoError(t, err)
	r, err = oblate.Direct(1, 2, 10, 5e6, Standard)
	require.NoError(t, err)
	assert.InDelta(t, 48.55570690, r.Arc, 0.5e-8)
}

func TestResultMask(t *testing.T) {
	r, err := WGS84.Inverse(10, 20, 30, 40, Distance)
	require.NoError(t, err)
	assert.True(t, r.Has(Distance))
	assert.False(t, r.Has(Azimuth))
	assert.False(t, math.IsNaN(r.Distance))
	assert.False(t, math.IsNaN(r.Arc))
	assert.True(t, math.IsNaN(r.Azi1))
	assert.True(t, math.IsNaN(r.ReducedLength))
	assert.True(t, math.IsNaN(r.M12))
	assert.True(t, math.IsNaN(r.Area))

	r, err = WGS84.Direct(10, 20, 30, 1e6, Latitude)
	require.NoError(t, err)
	assert.True(t, r.Has(Latitude|Distance))
	assert.False(t, math.IsNaN(r.Lat2))
	assert.True(t, math.IsNaN(r.Lon2))
	assert.True(t, math.IsNaN(r.Azi2))
	assert.Equal(t, 1e6, r.Distance)
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	a := WGS84.Radius()
	for i := 0; i < 2000; i++ {
		lat1 := rng.Float64()*178 - 89
		lon1 := rng.Float64()*360 - 180
		azi1 := rng.Float64()*360 - 180
		s12 := 1e3 + rng.Float64()*15e6

		d, err := WGS84.Direct(lat1, lon1, azi1, s12, Standard)
		require.NoError(t, err)
		r, err := WGS84.Inverse(lat1, lon1, d.Lat2, d.Lon2, Standard)
		require.NoError(t, err)
		if !eqish(r.Distance/a, s12/a, 9) || angleDelta(r.Azi1, azi1) > 1e-9 {
			t.Fatalf("round trip (%v %v %v %v): got s12 %v azi1 %v",
				lat1, lon1, azi1, s12, r.Distance, r.Azi1)
		}
	}
}

func TestInverseSymmetry(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 2000; i++ {
		lat1 := rng.Float64()*180 - 90
		lon1 := rng.Float64()*360 - 180
		lat2 := rng.Float64()*180 - 90
		lon2 := rng.Float64()*360 - 180

		fwd, err := WGS84.Inverse(lat1, lon1, lat2, lon2, All)
		require.NoError(t, err)
		rev, err := WGS84.Inverse(lat2, lon2, lat1, lon1, All)
		require.NoError(t, err)
		assert.InDelta(t, fwd.Distance, rev.Distance, 1e-7)
		assert.InDelta(t, fwd.Arc, rev.Arc, 1e-12)
		assert.InDelta(t, fwd.ReducedLength, rev.ReducedLength, 1e-7)
		assert.Less(t, angleDelta(fwd.Azi1, rev.Azi2+180), 1e-9,
			"(%v %v %v %v)", lat1, lon1, lat2, lon2)
	}
}

func TestInverseEquator(t *testing.T) {
	r, err := WGS84.Inverse(0, 0, 0, 90, Standard)
	require.NoError(t, err)
	assert.Equal(t, 90.0, r.Azi1)
	assert.Equal(t, 90.0, r.Azi2)
	assert.InDelta(t, WGS84.Radius()*math.Pi/2, r.Distance, 1e-6)
	assert.Equal(t, 0, r.Iterations)
}

func TestInverseMeridian(t *testing.T) {
	r, err := WGS84.Inverse(-90, 0, 90, 0, Standard)
	require.NoError(t, err)
	assert.Equal(t, 0.0, r.Azi1)
	assert.Equal(t, 0.0, r.Azi2)
	assert.InDelta(t, 20003931.4586, r.Distance, 0.5e-4)
	assert.InDelta(t, 180, r.Arc, 1e-12)
}

func TestInverseCoincident(t *testing.T) {
	for _, p := range [][2]float64{{10, 20}, {0, 0}, {-90, 30}, {89.9, -179.9}} {
		r, err := WGS84.Inverse(p[0], p[1], p[0], p[1], All)
		require.NoError(t, err)
		assert.Equal(t, 0.0, r.Distance, "%v", p)
		assert.Equal(t, 0.0, r.Arc, "%v", p)
		assert.Equal(t, 0.0, r.ReducedLength, "%v", p)
		assert.Equal(t, 0, r.Iterations, "%v", p)
		assert.True(t, r.Converged)
	}
}

func TestLatitudeValidation(t *testing.T) {
	for _, lat := range []float64{90.5, -91, math.Inf(1)} {
		_, err := WGS84.Inverse(lat, 0, 0, 0, Standard)
		assert.True(t, errors.Is(err, ErrLatitudeRange))
		_, err = WGS84.Inverse(0, 0, lat, 0, Standard)
		assert.True(t, errors.Is(err, ErrLatitudeRange))
		_, err = WGS84.Direct(lat, 0, 0, 1000, Standard)
		assert.True(t, errors.Is(err, ErrLatitudeRange))
		_, err = WGS84.ArcDirect(lat, 0, 0, 1, Standard)
		assert.True(t, errors.Is(err, ErrLatitudeRange))
		_, err = WGS84.Line(lat, 0, 0, Standard)
		assert.True(t, errors.Is(err, ErrLatitudeRange))
		_, err = WGS84.InverseLine(0, 0, lat, 0, Standard)
		assert.True(t, errors.Is(err, ErrLatitudeRange))
		_, err = WGS84.Area([]Point{{0, 0}, {lat, 0}, {0, 1}}, false)
		assert.True(t, errors.Is(err, ErrLatitudeRange))
	}
}

func TestNewEllipsoid(t *testing.T) {
	e, err := NewEllipsoid(6378137, 1/298.257223563)
	require.NoError(t, err)
	assert.Equal(t, 6378137.0, e.Radius())
	assert.Equal(t, 1/298.257223563, e.Flattening())
	assert.InDelta(t, 6356752.314245, e.MinorRadius(), 1e-6)
	assert.InDelta(t, 510065621724088.5, e.SurfaceArea(), 1)
	assert.False(t, e.Spherical())

	sphere, err := NewEllipsoid(1, 0)
	require.NoError(t, err)
	assert.InDelta(t, 4*math.Pi, sphere.SurfaceArea(), 1e-14)

	for _, tc := range [][2]float64{
		{0, 0},
		{-1, 0},
		{math.Inf(1), 0},
		{math.NaN(), 0},
		{6378137, 1},
		{6378137, 2},
		{6378137, math.Inf(-1)},
	} {
		_, err := NewEllipsoid(tc[0], tc[1])
		assert.True(t, errors.Is(err, ErrInvalidEllipsoid), "%v", tc)
	}
	_, err = NewSpherical(-1)
	assert.True(t, errors.Is(err, ErrInvalidEllipsoid))
}

func TestWithLogger(t *testing.T) {
	log, hook := test.NewNullLogger()
	e, err := NewEllipsoid(6378137, 1/298.257223563, WithLogger(log))
	require.NoError(t, err)
	assert.Equal(t, logrus.FieldLogger(log), e.log)

	_, err = e.Inverse(10, 20, 30, 40, Standard)
	require.NoError(t, err)
	assert.Empty(t, hook.AllEntries())

	plain, err := NewEllipsoid(6378137, 0)
	require.NoError(t, err)
	assert.NotNil(t, plain.log)
}

func TestInverseNotConverged(t *testing.T) {
	log, hook := test.NewNullLogger()
	e, err := NewEllipsoid(6378137, 1/298.257223563, WithLogger(log))
	require.NoError(t, err)
	want, err := e.Inverse(-30, 0, 29.9, 179.8, Standard)
	require.NoError(t, err)
	assert.True(t, want.Converged)
	assert.Empty(t, hook.AllEntries())

	// Too few steps for this nearly antipodal pair: the last iterate comes
	// back with a warning instead of an error.
	e.maxit = 1
	r, err := e.Inverse(-30, 0, 29.9, 179.8, Standard)
	require.NoError(t, err)
	assert.False(t, r.Converged)
	assert.Equal(t, 1, r.Iterations)
	assert.False(t, math.IsNaN(r.Distance))
	assert.InDelta(t, want.Distance, r.Distance, 1e5)

	require.Len(t, hook.AllEntries(), 1)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "geodesic: inverse problem did not converge", entry.Message)
	assert.Equal(t, 1, entry.Data["iterations"])
}
