package geodesic

import "math"

// Line is a geodesic starting at a given point with a given azimuth. It
// is used to compute any number of positions along the geodesic.
//
// Positions only depend on the line's fixed state, so Position and
// ArcPosition may be called concurrently. The point 3 cursor (SetDistance,
// SetArc, Advance) is not synchronized; a Line that uses it belongs to one
// goroutine at a time.
type Line struct {
	lat1, lon1, azi1 float64
	a, f, b, c2, f1  float64
	salp1, calp1     float64
	caps             Mask

	dn1          float64
	salp0, calp0 float64
	ssig1, csig1 float64
	somg1, comg1 float64
	stau1, ctau1 float64
	k2           float64

	a1m1, a2m1, a3c, a4 float64
	b11, b21, b31, b41  float64
	c1a, c1pa, c2a      [nC1 + 1]float64
	c3a                 [nC3]float64
	c4a                 [nC4]float64

	s13, a13 float64
}

// newLine builds a line. If salp1 and calp1 are not NaN they are used
// instead of azi1 for the starting direction.
func (e *Ellipsoid) newLine(lat1, lon1, azi1, salp1, calp1 float64, caps Mask) *Line {
	l := &Line{
		a: e.a, f: e.f, b: e.b, c2: e.c2, f1: e.f1,
		// Latitude, Azimuth and LongUnroll are always allowed.
		caps: caps | Latitude | Azimuth | LongUnroll,
		lat1: latFix(lat1),
		lon1: lon1,
		s13:  math.NaN(),
		a13:  math.NaN(),
	}
	if math.IsNaN(salp1) || math.IsNaN(calp1) {
		l.azi1 = angNormalize(azi1)
		l.salp1, l.calp1 = sincosd(angRound(azi1))
	} else {
		l.azi1, l.salp1, l.calp1 = azi1, salp1, calp1
	}

	sbet1, cbet1 := sincosd(angRound(lat1))
	sbet1 *= l.f1
	// cbet1 = +epsilon at the poles
	sbet1, cbet1 = norm(sbet1, cbet1)
	cbet1 = math.Max(tiny, cbet1)
	l.dn1 = math.Sqrt(1 + e.ep2*sq(sbet1))

	// sin(alp1) * cos(bet1) = sin(alp0), alp0 in [0, pi/2 - |bet1|]
	l.salp0 = l.salp1 * cbet1
	// hypot(sbet1, calp1 * cbet1) is worse for salp1 = 0
	l.calp0 = math.Hypot(l.calp1, l.salp1*sbet1)
	// tan(bet1) = tan(sig1) * cos(alp1) with sig = 0 the nearest northward
	// crossing of the equator; tan(omg1) = sin(alp0) * tan(sig1). The
	// quadrants of sig and omg coincide for alp0 in (0, pi/2]. cbet1 > 0
	// at the poles so there is no atan2(0, 0) ambiguity.
	l.ssig1 = sbet1
	l.somg1 = l.salp0 * sbet1
	if sbet1 != 0 || l.calp1 != 0 {
		l.csig1 = cbet1 * l.calp1
	} else {
		l.csig1 = 1
	}
	l.comg1 = l.csig1
	// sig1 in (-pi, pi]; omg1 needs no normalization
	l.ssig1, l.csig1 = norm(l.ssig1, l.csig1)

	l.k2 = sq(l.calp0) * e.ep2
	eps := l.k2 / (2*(1+math.Sqrt(1+l.k2)) + l.k2)

	if l.caps&capC1 != 0 {
		l.a1m1 = a1m1f(eps)
		c1f(eps, &l.c1a)
		l.b11 = sinCosSeries(true, l.ssig1, l.csig1, l.c1a[:])
		s, c := math.Sin(l.b11), math.Cos(l.b11)
		// tau1 = sig1 + B11
		l.stau1 = l.ssig1*c + l.csig1*s
		l.ctau1 = l.csig1*c - l.ssig1*s
	}
	if l.caps&capC1p != 0 {
		c1pf(eps, &l.c1pa)
	}
	if l.caps&capC2 != 0 {
		l.a2m1 = a2m1f(eps)
		c2f(eps, &l.c2a)
		l.b21 = sinCosSeries(true, l.ssig1, l.csig1, l.c2a[:])
	}
	if l.caps&capC3 != 0 {
		e.c3f(eps, &l.c3a)
		l.a3c = -l.f * l.salp0 * e.a3f(eps)
		l.b31 = sinCosSeries(true, l.ssig1, l.csig1, l.c3a[:])
	}
	if l.caps&capC4 != 0 {
		e.c4f(eps, &l.c4a)
		// a^2 * e^2 * cos(alpha0) * sin(alpha0)
		l.a4 = sq(l.a) * l.calp0 * l.salp0 * e.e2
		l.b41 = sinCosSeries(false, l.ssig1, l.csig1, l.c4a[:])
	}
	return l
}

// GenPosition returns the point at distance s12a12 (meters) from point 1,
// or at arc length s12a12 (degrees) if arcmode is set. Quantities in mask
// that the line was not created with are not computed. A distance request
// on a line without DistanceIn yields an all-NaN result.
func (l *Line) GenPosition(arcmode bool, s12a12 float64, mask Mask) Result {
	r := nanResult()
	r.Lat1, r.Lon1, r.Azi1 = l.lat1, l.lon1, l.azi1
	mask &= l.caps & outMask
	if !arcmode && l.caps&(outMask&DistanceIn) == 0 {
		return r
	}

	var sig12, ssig12, csig12, B12, AB1 float64
	if arcmode {
		sig12 = radians(s12a12)
		ssig12, csig12 = sincosd(s12a12)
	} else {
		tau12 := s12a12 / (l.b * (1 + l.a1m1))
		s, c := math.Sin(tau12), math.Cos(tau12)
		// tau2 = tau1 + tau12
		B12 = -sinCosSeries(true,
			l.stau1*c+l.ctau1*s,
			l.ctau1*c-l.stau1*s,
			l.c1pa[:])
		sig12 = tau12 - (B12 - l.b11)
		ssig12, csig12 = math.Sin(sig12), math.Cos(sig12)
		if math.Abs(l.f) > 0.01 {
			// The reverted distance series is inaccurate for |f| > 1/100;
			// correct sig12 with one Newton iteration. This is not quite
			// round-off accurate but keeps the error bounded for
			// |f| < 0.02.
			ssig2 := l.ssig1*csig12 + l.csig1*ssig12
			csig2 := l.csig1*csig12 - l.ssig1*ssig12
			B12 = sinCosSeries(true, ssig2, csig2, l.c1a[:])
			serr := (1+l.a1m1)*(sig12+(B12-l.b11)) - s12a12/l.b
			sig12 -= serr / math.Sqrt(1+l.k2*sq(ssig2))
			ssig12, csig12 = math.Sin(sig12), math.Cos(sig12)
			// B12 is updated below
		}
	}

	// sig2 = sig1 + sig12
	ssig2 := l.ssig1*csig12 + l.csig1*ssig12
	csig2 := l.csig1*csig12 - l.ssig1*ssig12
	dn2 := math.Sqrt(1 + l.k2*sq(ssig2))
	if mask&(Distance|ReducedLength|GeodesicScale) != 0 {
		if arcmode || math.Abs(l.f) > 0.01 {
			B12 = sinCosSeries(true, ssig2, csig2, l.c1a[:])
		}
		AB1 = (1 + l.a1m1) * (B12 - l.b11)
	}
	// sin(bet2) = cos(alp0) * sin(sig2)
	sbet2 := l.calp0 * ssig2
	cbet2 := math.Hypot(l.salp0, l.calp0*csig2)
	if cbet2 == 0 {
		// salp0 = 0 and csig2 = 0; break the degeneracy
		cbet2 = tiny
		csig2 = tiny
	}
	// tan(alp0) = cos(sig2)*tan(alp2)
	salp2 := l.salp0
	calp2 := l.calp0 * csig2

	if mask&Distance != 0 {
		if arcmode {
			r.Distance = l.b * ((1+l.a1m1)*sig12 + AB1)
		} else {
			r.Distance = s12a12
		}
	}
	if mask&Longitude != 0 {
		// tan(omg2) = sin(alp0) * tan(sig2)
		somg2 := l.salp0 * ssig2
		comg2 := csig2
		E := math.Copysign(1, l.salp0) // east or west going
		var omg12 float64
		if mask&LongUnroll != 0 {
			omg12 = E * (sig12 -
				(math.Atan2(ssig2, csig2) - math.Atan2(l.ssig1, l.csig1)) +
				(math.Atan2(E*somg2, comg2) - math.Atan2(E*l.somg1, l.comg1)))
		} else {
			omg12 = math.Atan2(somg2*l.comg1-comg2*l.somg1,
				comg2*l.comg1+somg2*l.somg1)
		}
		lam12 := omg12 + l.a3c*(sig12+
			(sinCosSeries(true, ssig2, csig2, l.c3a[:])-l.b31))
		lon12 := degrees(lam12)
		if mask&LongUnroll != 0 {
			r.Lon2 = l.lon1 + lon12
		} else {
			r.Lon2 = angNormalize(angNormalize(l.lon1) + angNormalize(lon12))
		}
	}
	if mask&Latitude != 0 {
		r.Lat2 = atan2d(sbet2, l.f1*cbet2)
	}
	if mask&Azimuth != 0 {
		r.Azi2 = atan2d(salp2, calp2)
	}
	if mask&(ReducedLength|GeodesicScale) != 0 {
		B22 := sinCosSeries(true, ssig2, csig2, l.c2a[:])
		AB2 := (1 + l.a2m1) * (B22 - l.b21)
		J12 := (l.a1m1-l.a2m1)*sig12 + (AB1 - AB2)
		if mask&ReducedLength != 0 {
			// Parenthesised products keep the cancellation exact for
			// coincident points.
			r.ReducedLength = l.b * ((dn2*(l.csig1*ssig2) - l.dn1*(l.ssig1*csig2)) -
				l.csig1*csig2*J12)
		}
		if mask&GeodesicScale != 0 {
			t := l.k2 * (ssig2 - l.ssig1) * (ssig2 + l.ssig1) / (l.dn1 + dn2)
			r.M12 = csig12 + (t*ssig2-csig2*J12)*l.ssig1/l.dn1
			r.M21 = csig12 - (t*l.ssig1-l.csig1*J12)*ssig2/dn2
		}
	}
	if mask&Area != 0 {
		B42 := sinCosSeries(false, ssig2, csig2, l.c4a[:])
		var salp12, calp12 float64
		if l.calp0 == 0 || l.salp0 == 0 {
			// alp12 = alp2 - alp1, no need to normalize for atan2
			salp12 = salp2*l.calp1 - calp2*l.salp1
			calp12 = calp2*l.calp1 + salp2*l.salp1
		} else {
			// tan(alp) = tan(alp0) * sec(sig) gives
			// tan(alp2-alp1) = calp0 * salp0 * (csig1-csig2) /
			//   (salp0^2 + calp0^2 * csig1*csig2)
			// with csig1 - csig2 rewritten to avoid cancellation.
			if csig12 <= 0 {
				salp12 = l.csig1*(1-csig12) + ssig12*l.ssig1
			} else {
				salp12 = ssig12 * (l.csig1*ssig12/(1+csig12) + l.ssig1)
			}
			salp12 *= l.calp0 * l.salp0
			calp12 = sq(l.salp0) + sq(l.calp0)*l.csig1*csig2
		}
		r.Area = l.c2*math.Atan2(salp12, calp12) + l.a4*(B42-l.b41)
	}

	if arcmode {
		r.Arc = s12a12
	} else {
		r.Arc = degrees(sig12)
	}
	r.Mask = mask
	return r
}

// Position returns the point at distance s12 (meters) from point 1.
func (l *Line) Position(s12 float64, mask Mask) Result {
	return l.GenPosition(false, s12, mask)
}

// ArcPosition returns the point at arc length a12 (degrees) from point 1.
func (l *Line) ArcPosition(a12 float64, mask Mask) Result {
	return l.GenPosition(true, a12, mask)
}

// SetDistance moves point 3 to distance s13 from point 1.
func (l *Line) SetDistance(s13 float64) {
	l.s13 = s13
	l.a13 = l.GenPosition(false, s13, Empty).Arc
}

// SetArc moves point 3 to arc length a13 from point 1.
func (l *Line) SetArc(a13 float64) {
	l.a13 = a13
	l.s13 = l.GenPosition(true, a13, Distance).Distance
}

// Advance moves point 3 by ds meters (starting at point 1 if it was never
// set) and returns the position there.
func (l *Line) Advance(ds float64, mask Mask) Result {
	s := l.s13
	if math.IsNaN(s) {
		s = 0
	}
	l.SetDistance(s + ds)
	return l.Position(l.s13, mask)
}

// Distance returns the distance from point 1 to point 3, NaN if unset or
// if the line cannot compute distances.
func (l *Line) Distance() float64 {
	return l.s13
}

// Arc returns the arc length from point 1 to point 3.
func (l *Line) Arc() float64 {
	return l.a13
}

// Lat1 returns the latitude of point 1.
func (l *Line) Lat1() float64 { return l.lat1 }

// Lon1 returns the longitude of point 1.
func (l *Line) Lon1() float64 { return l.lon1 }

// Azi1 returns the azimuth at point 1.
func (l *Line) Azi1() float64 { return l.azi1 }

// Caps returns the capabilities the line was created with.
func (l *Line) Caps() Mask { return l.caps }

// EquatorialAzimuth returns the azimuth of the geodesic where it crosses
// the equator in a northward direction.
func (l *Line) EquatorialAzimuth() float64 {
	return atan2d(l.salp0, l.calp0)
}

// EquatorialArc returns the arc length from the northward equator
// crossing to point 1.
func (l *Line) EquatorialArc() float64 {
	return atan2d(l.ssig1, l.csig1)
}
