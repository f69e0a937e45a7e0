// Package geodesic solves geodesic problems on an ellipsoid of revolution:
// the direct problem (where does a geodesic of given azimuth and length
// end), the inverse problem (the shortest path between two points), points
// along a geodesic, and the perimeter and area of geodesic polygons.
//
// The algorithms are those of C. F. F. Karney, Algorithms for geodesics,
// J. Geodesy 87, 43-55 (2013), which are accurate to round-off for
// |f| < 1/50.
//
// All angles (latitudes, longitudes, azimuths, arc lengths) are in
// degrees. Latitudes must lie in [-90, 90]. Lengths are in meters and
// areas in square meters.
package geodesic

import (
	"fmt"
	"io"
	"math"

	"github.com/sirupsen/logrus"
)

// WGS84 conforming ellispoid
// https://en.wikipedia.org/wiki/World_Geodetic_System
var WGS84 = mustEllipsoid(NewEllipsoid(6378137, 1/298.257223563))

// Globe is a pre-initialized spherical representing Earth as a
// terrestrial globe.
var Globe = mustEllipsoid(NewSpherical(6378137))

// Ellipsoid is an object for performing geodesic operations. It is
// immutable after construction and safe for concurrent use.
type Ellipsoid struct {
	a, f      float64
	f1        float64 // 1 - f
	e2, ep2   float64 // e^2 and e'^2
	n         float64 // third flattening
	b         float64 // polar semi-axis
	c2        float64 // authalic radius squared
	etol2     float64
	maxit     int
	spherical bool

	a3x [nA3x]float64
	c3x [nC3x]float64
	c4x [nC4x]float64

	log logrus.FieldLogger
}

// Option configures an Ellipsoid.
type Option func(*Ellipsoid)

// WithLogger sets the logger used to report inverse problems that did not
// converge. By default nothing is logged.
func WithLogger(log logrus.FieldLogger) Option {
	return func(e *Ellipsoid) {
		e.log = log
	}
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func mustEllipsoid(e *Ellipsoid, err error) *Ellipsoid {
	if err != nil {
		panic(err)
	}
	return e
}

// NewEllipsoid initializes a new geodesic ellipsoid object.
//
// Param radius is the equatorial radius (meters).
// Param flattening is the flattening factor of the ellipsoid. Negative
// values give a prolate ellipsoid.
//
// An error wrapping ErrInvalidEllipsoid is returned if the radius or the
// polar semi-axis radius*(1-flattening) is not a finite positive number.
//
// The WGS84 package-level variable is a pre-initialized ellipsoid
// representing Earth.
func NewEllipsoid(radius, flattening float64, opts ...Option) (*Ellipsoid, error) {
	e := &Ellipsoid{a: radius, f: flattening}
	e.f1 = 1 - e.f
	e.e2 = e.f * (2 - e.f)
	e.ep2 = e.e2 / sq(e.f1)
	e.n = e.f / (2 - e.f)
	e.b = e.a * e.f1
	if !(isFinite(e.a) && e.a > 0) {
		return nil, fmt.Errorf("%w: equatorial radius %v is not positive", ErrInvalidEllipsoid, radius)
	}
	if !(isFinite(e.b) && e.b > 0) {
		return nil, fmt.Errorf("%w: polar semi-axis %v is not positive", ErrInvalidEllipsoid, e.b)
	}
	var k float64
	switch {
	case e.e2 == 0:
		k = 1
	case e.e2 > 0:
		k = math.Atanh(math.Sqrt(e.e2)) / math.Sqrt(e.e2)
	default:
		k = math.Atan(math.Sqrt(-e.e2)) / math.Sqrt(-e.e2)
	}
	e.c2 = (sq(e.a) + sq(e.b)*k) / 2
	// The sig12 threshold for "really short". With dnm computed at
	// (bet1 + bet2) / 2 the relative error in the azimuth consistency
	// check is sig12^2 * abs(f) * min(1, 1-f/2) / 2; setting this to
	// epsilon gives sig12 = etol2. 0.1 is a safety factor and
	// max(0.001, abs(f)) keeps etol2 bounded for nearly spherical
	// ellipsoids.
	e.etol2 = 0.1 * tol2 / math.Sqrt(math.Max(0.001, math.Abs(e.f))*math.Min(1, 1-e.f/2)/2)
	e.maxit = maxit2 // Newton and bisection steps allowed in Inverse
	e.initSeries()
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = discardLogger()
	}
	return e, nil
}

// NewSpherical initializes a new geodesic ellipsoid object that uses
// simplified operations on a sphere.
//
// The Inverse and Direct operations will often be more computationally
// efficient than NewEllipsoid because it uses simplier great-circle
// calculations such as the Haversine formula. Requests for reduced
// length, geodesic scale or area use the exact solver.
//
// Param radius is the equatorial radius (meters).
//
// The Globe package-level variable is a pre-initialized spherical
// representing Earth as a terrestrial globe.
func NewSpherical(radius float64, opts ...Option) (*Ellipsoid, error) {
	e, err := NewEllipsoid(radius, 0, opts...)
	if err != nil {
		return nil, err
	}
	e.spherical = true
	return e, nil
}

func isFinite(x float64) bool {
	return !math.IsInf(x, 0) && !math.IsNaN(x)
}

// Radius of the Ellipsoid
func (e *Ellipsoid) Radius() float64 {
	return e.a
}

// Flattening of the Ellipsoid
func (e *Ellipsoid) Flattening() float64 {
	return e.f
}

// MinorRadius returns the polar semi-axis.
func (e *Ellipsoid) MinorRadius() float64 {
	return e.b
}

// SurfaceArea returns the total area of the ellipsoid.
func (e *Ellipsoid) SurfaceArea() float64 {
	return 4 * math.Pi * e.c2
}

// Spherical returns true if the ellipsoid was initialized using NewSpherical.
func (e *Ellipsoid) Spherical() bool {
	return e.spherical
}

// Inverse solves the inverse geodesic problem.
//
// Param lat1 is latitude of point 1 (degrees).
// Param lon1 is longitude of point 1 (degrees).
// Param lat2 is latitude of point 2 (degrees).
// Param lon2 is longitude of point 2 (degrees).
// Param mask selects the quantities to compute; Standard gives the
// azimuths and the distance. The arc length is always computed.
//
// lat1 and lat2 must be in the range [-90,+90], otherwise an error
// wrapping ErrLatitudeRange is returned. The values of azi1 and azi2
// returned are in the range [-180,+180]. Unless mask includes LongUnroll
// the returned longitudes are reduced to [-180, 180); with it lon1 is
// kept and lon2 - lon1 is the signed longitude difference.
//
// The solution to the inverse problem is found using Newton's method.  If
// this fails to converge (this is very unlikely in geodetic applications
// but does occur for very eccentric ellipsoids), then the bisection method
// is used to refine the solution. Result.Converged reports whether the
// tolerance was met within the iteration limit.
func (e *Ellipsoid) Inverse(lat1, lon1, lat2, lon2 float64, mask Mask) (Result, error) {
	if err := checkLatitude(lat1); err != nil {
		return nanResult(), err
	}
	if err := checkLatitude(lat2); err != nil {
		return nanResult(), err
	}
	if e.spherical && mask&outAll&^Standard == 0 {
		return sphericalInverse(e, lat1, lon1, lat2, lon2, mask), nil
	}
	lon1a, lon2a := angNormalize(lon1), angNormalize(lon2)
	sol := e.genInverse(lat1, lon1a, lat2, lon2a, mask)
	if !sol.converged {
		e.log.WithFields(logrus.Fields{
			"lat1": lat1, "lon1": lon1, "lat2": lat2, "lon2": lon2,
			"iterations": sol.iterations,
		}).Warn("geodesic: inverse problem did not converge")
	}
	return e.inverseResult(sol, lat1, lon1, lat2, lon2, mask), nil
}

func (e *Ellipsoid) inverseResult(sol inverseSolution, lat1, lon1, lat2, lon2 float64, mask Mask) Result {
	r := nanResult()
	r.Lat1, r.Lat2 = lat1, lat2
	if mask&LongUnroll != 0 {
		d, t := angDiff(lon1, lon2)
		r.Lon1 = lon1
		r.Lon2 = lon1 + d + t
	} else {
		r.Lon1, r.Lon2 = angNormalize(lon1), angNormalize(lon2)
	}
	mask &= outMask
	r.Mask = (mask | Latitude | Longitude) & outMask
	r.Arc = sol.a12
	if mask&Distance != 0 {
		r.Distance = sol.s12
	}
	if mask&Azimuth != 0 {
		r.Azi1 = atan2d(sol.salp1, sol.calp1)
		r.Azi2 = atan2d(sol.salp2, sol.calp2)
	}
	if mask&ReducedLength != 0 {
		r.ReducedLength = sol.m12
	}
	if mask&GeodesicScale != 0 {
		r.M12, r.M21 = sol.M12, sol.M21
	}
	if mask&Area != 0 {
		r.Area = sol.S12
	}
	r.Iterations = sol.iterations
	r.Converged = sol.converged
	return r
}

// Direct solves the direct geodesic problem.
//
// Param lat1 is the latitude of point 1 (degrees).
// Param lon1 is the longitude of point 1 (degrees).
// Param azi1 is the azimuth at point 1 (degrees).
// Param s12 is the distance from point 1 to point 2 (meters). negative is ok.
// Param mask selects the quantities to compute; Standard gives the
// latitude, longitude and azimuth at point 2. The distance is echoed in
// the result whatever the mask.
//
// lat1 must be in the range [-90,+90], otherwise an error wrapping
// ErrLatitudeRange is returned. The values of lon2 and azi2 returned are
// in the range [-180,+180) unless mask includes LongUnroll.
func (e *Ellipsoid) Direct(lat1, lon1, azi1, s12 float64, mask Mask) (Result, error) {
	if err := checkLatitude(lat1); err != nil {
		return nanResult(), err
	}
	if e.spherical && mask&outAll&^Standard == 0 {
		return sphericalDirect(e, lat1, lon1, azi1, s12, mask), nil
	}
	if mask&LongUnroll == 0 {
		lon1 = angNormalize(lon1)
	}
	r := e.genDirect(lat1, lon1, angNormalize(azi1), false, s12, mask)
	r.Distance = s12
	r.Mask |= Distance & outMask
	return r, nil
}

// ArcDirect solves the direct geodesic problem in terms of the arc length
// a12 on the auxiliary sphere (degrees) instead of the distance. Distance
// is reported when mask includes it.
func (e *Ellipsoid) ArcDirect(lat1, lon1, azi1, a12 float64, mask Mask) (Result, error) {
	if err := checkLatitude(lat1); err != nil {
		return nanResult(), err
	}
	if mask&LongUnroll == 0 {
		lon1 = angNormalize(lon1)
	}
	return e.genDirect(lat1, lon1, angNormalize(azi1), true, a12, mask), nil
}

// genDirect builds a line through point 1, supplying DistanceIn when
// s12a12 is a distance, and positions it.
func (e *Ellipsoid) genDirect(lat1, lon1, azi1 float64, arcmode bool, s12a12 float64, mask Mask) Result {
	caps := mask
	if !arcmode {
		caps |= DistanceIn
	}
	l := e.newLine(lat1, lon1, azi1, math.NaN(), math.NaN(), caps)
	return l.GenPosition(arcmode, s12a12, mask)
}

// Line returns a Line starting at (lat1, lon1) with azimuth azi1. caps
// selects the quantities that positions on the line may compute; Distance
// and DistanceIn are always added.
func (e *Ellipsoid) Line(lat1, lon1, azi1 float64, caps Mask) (*Line, error) {
	if err := checkLatitude(lat1); err != nil {
		return nil, err
	}
	return e.newLine(lat1, angNormalize(lon1), angNormalize(azi1),
		math.NaN(), math.NaN(), caps|Distance|DistanceIn), nil
}

// InverseLine returns the Line through (lat1, lon1) and (lat2, lon2).
// Point 3 of the line is set to point 2, so Distance and Arc report the
// length of the segment. As with Line, Distance and DistanceIn are always
// added to caps.
func (e *Ellipsoid) InverseLine(lat1, lon1, lat2, lon2 float64, caps Mask) (*Line, error) {
	if err := checkLatitude(lat1); err != nil {
		return nil, err
	}
	if err := checkLatitude(lat2); err != nil {
		return nil, err
	}
	sol := e.genInverse(lat1, angNormalize(lon1), lat2, angNormalize(lon2), 0)
	azi1 := atan2d(sol.salp1, sol.calp1)
	l := e.newLine(lat1, angNormalize(lon1), azi1, sol.salp1, sol.calp1,
		caps|Distance|DistanceIn)
	l.SetArc(sol.a12)
	return l, nil
}

// DirectLine returns the Line starting at (lat1, lon1) with azimuth azi1
// with point 3 at distance s12.
func (e *Ellipsoid) DirectLine(lat1, lon1, azi1, s12 float64, caps Mask) (*Line, error) {
	l, err := e.Line(lat1, lon1, azi1, caps)
	if err != nil {
		return nil, err
	}
	l.SetDistance(s12)
	return l, nil
}

// ArcDirectLine is like DirectLine with point 3 at arc length a12.
func (e *Ellipsoid) ArcDirectLine(lat1, lon1, azi1, a12 float64, caps Mask) (*Line, error) {
	l, err := e.Line(lat1, lon1, azi1, caps)
	if err != nil {
		return nil, err
	}
	l.SetArc(a12)
	return l, nil
}

// Area computes the perimeter and area of the polygon given by points.
// There is no need to close the polygon. If polyline is set the points
// define a polyline; its length is returned as the perimeter and Area is
// NaN. All points are validated before anything is computed.
func (e *Ellipsoid) Area(points []Point, polyline bool) (PolygonResult, error) {
	for _, p := range points {
		if err := checkLatitude(p.Lat); err != nil {
			return PolygonResult{}, err
		}
	}
	poly := e.PolygonInit(polyline)
	for _, p := range points {
		if err := poly.AddPoint(p.Lat, p.Lon); err != nil {
			return PolygonResult{}, err
		}
	}
	return poly.Compute(false, true), nil
}
