// API for the shperical routines in Go
//
// Copyright (c) Joshua Baker (2021) and licensed under the MIT License.
//
/* - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - */
/* Latitude/longitude spherical geodesy tools   (c) Chris Veness 2002-2019 */
/*                                                             MIT Licence */
/* www.movable-type.co.uk/scripts/latlong.html                             */
/* www.movable-type.co.uk/scripts/geodesy-library.html#latlon-spherical    */
/* - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - */

package geodesic

import "math"

// sphericalInverse answers Standard and LongUnroll requests on a sphere
// of radius e.a with great-circle formulas.
func sphericalInverse(e *Ellipsoid, lat1, lon1, lat2, lon2 float64, mask Mask) Result {
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

	δ := centralAngle(lat1, lon1, lat2, lon2)
	r.Arc = degrees(δ)
	if mask&Distance != 0 {
		r.Distance = e.a * δ
	}
	if mask&Azimuth != 0 {
		r.Azi1, r.Azi2 = bearings(lat1, lon1, lat2, lon2)
	}
	r.Converged = true
	return r
}

// sphericalDirect answers Standard and LongUnroll requests on a sphere of
// radius e.a.
func sphericalDirect(e *Ellipsoid, lat1, lon1, azi1, s12 float64, mask Mask) Result {
	r := nanResult()
	if mask&LongUnroll == 0 {
		lon1 = angNormalize(lon1)
	}
	r.Lat1, r.Lon1, r.Azi1 = lat1, lon1, angNormalize(azi1)
	mask &= outMask
	r.Mask = mask | Distance&outMask

	δ := s12 / e.a
	lat2, dlon, azi2 := destination(lat1, δ, r.Azi1, mask&LongUnroll != 0)
	r.Arc = degrees(δ)
	r.Distance = s12
	if mask&Latitude != 0 {
		r.Lat2 = lat2
	}
	if mask&Longitude != 0 {
		if mask&LongUnroll != 0 {
			r.Lon2 = lon1 + dlon
		} else {
			r.Lon2 = angNormalize(lon1 + dlon)
		}
	}
	if mask&Azimuth != 0 {
		r.Azi2 = azi2
	}
	return r
}

// destination returns the latitude reached after travelling the angular
// distance δ (radians) from lat1 with initial bearing brng, the change in
// longitude and the final bearing. With unroll the longitude change keeps
// counting past ±180.
func destination(lat1, δ, brng float64, unroll bool) (lat2, dlon, azi2 float64) {
	// sinφ2 = sinφ1⋅cosδ + cosφ1⋅sinδ⋅cosθ
	// tanΔλ = sinθ⋅sinδ⋅cosφ1 / cosδ−sinφ1⋅sinφ2
	// see mathforum.org/library/drmath/view/52049.html for derivation
	sinθ, cosθ := sincosd(brng)
	sinφ1, cosφ1 := sincosd(lat1)
	cosφ1 = math.Max(tiny, cosφ1)
	sinδ, cosδ := math.Sin(δ), math.Cos(δ)
	sinφ2 := sinφ1*cosδ + cosφ1*sinδ*cosθ
	// cosφ2⋅cosθ2 = cosφ1⋅cosδ⋅cosθ − sinφ1⋅sinδ
	y := sinθ * cosφ1
	x := cosφ1*cosδ*cosθ - sinφ1*sinδ
	lat2 = atan2d(sinφ2, math.Hypot(y, x))
	azi2 = atan2d(y, x)
	if !unroll {
		dlon = math.Atan2(sinθ*sinδ*cosφ1, cosδ-sinφ1*sinφ2)
		return lat2, degrees(dlon), azi2
	}
	// σ is measured from the northward equator crossing and ω is the
	// matching longitude on the sphere.
	sinα0 := sinθ * cosφ1
	sinσ1, cosσ1 := sinφ1, cosφ1*cosθ
	if sinφ1 == 0 && cosθ == 0 {
		cosσ1 = 1
	}
	sinσ1, cosσ1 = norm(sinσ1, cosσ1)
	sinσ2 := sinσ1*cosδ + cosσ1*sinδ
	cosσ2 := cosσ1*cosδ - sinσ1*sinδ
	E := math.Copysign(1, sinα0)
	ω12 := E * (δ -
		(math.Atan2(sinσ2, cosσ2) - math.Atan2(sinσ1, cosσ1)) +
		(math.Atan2(E*sinα0*sinσ2, cosσ2) - math.Atan2(E*sinα0*sinσ1, cosσ1)))
	return lat2, degrees(ω12), azi2
}

// centralAngle is the haversine formula for the angle subtended by the two
// points, in radians.
func centralAngle(lat1, lon1, lat2, lon2 float64) float64 {
	φ1 := radians(lat1)
	φ2 := radians(lat2)
	Δφ := φ2 - φ1
	Δλ := radians(lon2 - lon1)
	sΔφ2 := math.Sin(Δφ / 2)
	sΔλ2 := math.Sin(Δλ / 2)
	haver := sΔφ2*sΔφ2 + math.Cos(φ1)*math.Cos(φ2)*sΔλ2*sΔλ2
	return 2 * math.Atan2(math.Sqrt(haver), math.Sqrt(math.Max(0, 1-haver)))
}

// bearings returns the initial and final bearings of the great circle
// from point 1 to point 2.
func bearings(lat1, lon1, lat2, lon2 float64) (azi1, azi2 float64) {
	// tanθ = sinΔλ⋅cosφ2 / cosφ1⋅sinφ2 − sinφ1⋅cosφ2⋅cosΔλ
	// see mathforum.org/library/drmath/view/55417.html for derivation
	sinφ1, cosφ1 := sincosd(lat1)
	sinφ2, cosφ2 := sincosd(lat2)
	sinΔλ, cosΔλ := sincosd(angNormalize(lon2 - lon1))
	azi1 = atan2d(sinΔλ*cosφ2, cosφ1*sinφ2-sinφ1*cosφ2*cosΔλ)
	// the final bearing is the reversed initial bearing from point 2
	azi2 = atan2d(sinΔλ*cosφ1, sinφ2*cosφ1*cosΔλ-cosφ2*sinφ1)
	return azi1, azi2
}
