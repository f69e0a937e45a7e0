package geodesic

import "math"

// inverseSolution is the raw output of genInverse. Azimuths are kept as
// sine/cosine pairs so that InverseLine can start from them exactly.
type inverseSolution struct {
	a12, s12                   float64
	salp1, calp1, salp2, calp2 float64
	m12, M12, M21, S12         float64
	iterations                 int
	converged                  bool
}

// lengths returns s12b = distance/b, m12b = reduced length/b, m0 = the
// coefficient of the secular term of the reduced length, and the geodesic
// scales. Only the quantities selected by mask are computed; the rest are
// NaN. c1a and c2a are scratch.
func (e *Ellipsoid) lengths(eps, sig12,
	ssig1, csig1, dn1, ssig2, csig2, dn2, cbet1, cbet2 float64,
	mask Mask, c1a *[nC1 + 1]float64, c2a *[nC2 + 1]float64,
) (s12b, m12b, m0, M12, M21 float64) {
	mask &= outMask
	nan := math.NaN()
	s12b, m12b, m0, M12, M21 = nan, nan, nan, nan, nan
	var A1, A2, m0x, J12 float64
	redl := mask&(ReducedLength|GeodesicScale) != 0
	if mask&(Distance|ReducedLength|GeodesicScale) != 0 {
		A1 = a1m1f(eps)
		c1f(eps, c1a)
		if redl {
			A2 = a2m1f(eps)
			c2f(eps, c2a)
			m0x = A1 - A2
			A2 = 1 + A2
		}
		A1 = 1 + A1
	}
	if mask&Distance != 0 {
		B1 := sinCosSeries(true, ssig2, csig2, c1a[:]) -
			sinCosSeries(true, ssig1, csig1, c1a[:])
		s12b = A1 * (sig12 + B1)
		if redl {
			B2 := sinCosSeries(true, ssig2, csig2, c2a[:]) -
				sinCosSeries(true, ssig1, csig1, c2a[:])
			J12 = m0x*sig12 + (A1*B1 - A2*B2)
		}
	} else if redl {
		// nC1 >= nC2
		for l := 1; l <= nC2; l++ {
			c2a[l] = A1*c1a[l] - A2*c2a[l]
		}
		J12 = m0x*sig12 + (sinCosSeries(true, ssig2, csig2, c2a[:]) -
			sinCosSeries(true, ssig1, csig1, c2a[:]))
	}
	if mask&ReducedLength != 0 {
		m0 = m0x
		// Parenthesised products keep the cancellation exact for
		// coincident points.
		m12b = dn2*(csig1*ssig2) - dn1*(ssig1*csig2) - csig1*csig2*J12
	}
	if mask&GeodesicScale != 0 {
		csig12 := csig1*csig2 + ssig1*ssig2
		t := e.ep2 * (cbet1 - cbet2) * (cbet1 + cbet2) / (dn1 + dn2)
		M12 = csig12 + (t*ssig2-csig2*J12)*ssig1/dn1
		M21 = csig12 - (t*ssig1-csig1*J12)*ssig2/dn2
	}
	return s12b, m12b, m0, M12, M21
}

// astroid solves k^4 + 2k^3 - (x^2 + y^2 - 1)k^2 - 2y^2k - y^2 = 0 for the
// positive root k.
func astroid(x, y float64) float64 {
	p := sq(x)
	q := sq(y)
	r := (p + q - 1) / 6
	if q == 0 && r <= 0 {
		// y = 0 with |x| <= 1. For small y the positive root is
		// k = |y|/sqrt(1-x^2).
		return 0
	}
	// r^3 * s and r * t avoid a division by zero when r = 0.
	S := p * q / 4
	r2 := sq(r)
	r3 := r * r2
	// zero on the evolute p^(1/3) + q^(1/3) = 1
	disc := S * (S + 2*r3)
	u := r
	if disc >= 0 {
		T3 := S + r3
		// Pick the sign of the sqrt to maximize |T3|; u is unchanged.
		if T3 < 0 {
			T3 -= math.Sqrt(disc)
		} else {
			T3 += math.Sqrt(disc)
		}
		T := cbrt(T3) // T = r * t
		u += T
		if T != 0 {
			u += r2 / T
		}
	} else {
		// T is complex but u is real. disc < 0 implies r < 0; take the
		// cube root that avoids cancellation.
		ang := math.Atan2(math.Sqrt(-disc), -(S + r3))
		u += 2 * r * math.Cos(ang/3)
	}
	v := math.Sqrt(sq(u) + q)
	var uv float64
	if u < 0 {
		uv = q / (v - u)
	} else {
		uv = u + v
	}
	w := (uv - q) / (2 * v)
	// uv > 0 and w >= 0
	return uv / (math.Sqrt(uv+sq(w)) + w)
}

// inverseStart returns a starting point for Newton's method in salp1,
// calp1 with sig12 = -1. For really short lines Newton's method is not
// needed and sig12 >= 0 is returned together with salp2, calp2 and dnm.
func (e *Ellipsoid) inverseStart(
	sbet1, cbet1, dn1, sbet2, cbet2, dn2, lam12, slam12, clam12 float64,
	c1a *[nC1 + 1]float64, c2a *[nC2 + 1]float64,
) (sig12, salp1, calp1, salp2, calp2, dnm float64) {
	sig12 = -1
	salp2, calp2, dnm = math.NaN(), math.NaN(), math.NaN()
	// bet12 = bet2 - bet1 in [0, pi); bet12a = bet2 + bet1 in (-pi, 0]
	sbet12 := sbet2*cbet1 - cbet2*sbet1
	cbet12 := cbet2*cbet1 + sbet2*sbet1
	sbet12a := sbet2 * cbet1
	sbet12a += cbet2 * sbet1

	shortline := cbet12 >= 0 && sbet12 < 0.5 && cbet2*lam12 < 0.5
	var somg12, comg12 float64
	if shortline {
		// sin((bet1+bet2)/2)^2
		sbetm2 := sq(sbet1 + sbet2)
		sbetm2 /= sbetm2 + sq(cbet1+cbet2)
		dnm = math.Sqrt(1 + e.ep2*sbetm2)
		omg12 := lam12 / (e.f1 * dnm)
		somg12, comg12 = math.Sin(omg12), math.Cos(omg12)
	} else {
		somg12, comg12 = slam12, clam12
	}

	salp1 = cbet2 * somg12
	if comg12 >= 0 {
		calp1 = sbet12 + cbet2*sbet1*sq(somg12)/(1+comg12)
	} else {
		calp1 = sbet12a - cbet2*sbet1*sq(somg12)/(1-comg12)
	}
	ssig12 := math.Hypot(salp1, calp1)
	csig12 := sbet1*sbet2 + cbet1*cbet2*comg12

	switch {
	case shortline && ssig12 < e.etol2:
		// really short lines
		salp2 = cbet1 * somg12
		var mult float64
		if comg12 >= 0 {
			mult = sq(somg12) / (1 + comg12)
		} else {
			mult = 1 - comg12
		}
		calp2 = sbet12 - cbet1*sbet2*mult
		salp2, calp2 = norm(salp2, calp2)
		sig12 = math.Atan2(ssig12, csig12)
	case math.Abs(e.n) > 0.1 || csig12 >= 0 ||
		ssig12 >= 6*math.Abs(e.n)*math.Pi*sq(cbet1):
		// zeroth order spherical approximation is OK
	default:
		// Scale lam12 and bet2 to x, y coordinates where the antipodal
		// point is at the origin and the singular point at y = 0, x = -1.
		var x, y, lamscale float64
		lam12x := math.Atan2(-slam12, -clam12)
		if e.f >= 0 {
			// x = dlong, y = dlat
			k2 := sq(sbet1) * e.ep2
			eps := k2 / (2*(1+math.Sqrt(1+k2)) + k2)
			lamscale = e.f * cbet1 * e.a3f(eps) * math.Pi
			betscale := lamscale * cbet1
			x = lam12x / lamscale
			y = sbet12a / betscale
		} else {
			// x = dlat, y = dlong
			cbet12a := cbet2*cbet1 - sbet2*sbet1
			bet12a := math.Atan2(sbet12a, cbet12a)
			_, m12b, m0, _, _ := e.lengths(e.n, math.Pi+bet12a,
				sbet1, -cbet1, dn1, sbet2, cbet2, dn2,
				cbet1, cbet2, ReducedLength, c1a, c2a)
			x = -1 + m12b/(cbet1*cbet2*m0*math.Pi)
			var betscale float64
			if x < -0.01 {
				betscale = sbet12a / x
			} else {
				betscale = -e.f * sq(cbet1) * math.Pi
			}
			lamscale = betscale / cbet1
			y = lam12x / lamscale
		}
		if y > -tol1 && x > -1-xthresh {
			// strip near cut
			if e.f >= 0 {
				salp1 = math.Min(1, -x)
				calp1 = -math.Sqrt(1 - sq(salp1))
			} else {
				if x > -tol1 {
					calp1 = math.Max(0, x)
				} else {
					calp1 = math.Max(-1, x)
				}
				salp1 = math.Sqrt(1 - sq(calp1))
			}
		} else {
			// Estimate omg12 from the astroid and use the spherical
			// formula for alp1. omg12 is near pi so work with
			// omg12a = pi - omg12.
			k := astroid(x, y)
			var omg12a float64
			if e.f >= 0 {
				omg12a = lamscale * (-x * k / (1 + k))
			} else {
				omg12a = lamscale * (-y * (1 + k) / k)
			}
			somg12 = math.Sin(omg12a)
			comg12 = -math.Cos(omg12a)
			salp1 = cbet2 * somg12
			calp1 = sbet12a - cbet2*sbet1*sq(somg12)/(1-comg12)
		}
	}
	// Backwards test lets NaN through.
	if !(salp1 <= 0) {
		salp1, calp1 = norm(salp1, calp1)
	} else {
		salp1, calp1 = 1, 0
	}
	return sig12, salp1, calp1, salp2, calp2, dnm
}

// lambda12 solves the hybrid problem: given the azimuth at point 1 it
// returns the longitude difference lam12 relative to lam120 together with
// the auxiliary quantities of the resulting line, and, if diffp, the
// derivative dlam12 of lam12 with respect to alp1.
func (e *Ellipsoid) lambda12(
	sbet1, cbet1, dn1, sbet2, cbet2, dn2, salp1, calp1, slam120, clam120 float64,
	diffp bool,
	c1a *[nC1 + 1]float64, c2a *[nC2 + 1]float64, c3a *[nC3]float64,
) (lam12, salp2, calp2, sig12, ssig1, csig1, ssig2, csig2, eps, domg12, dlam12 float64) {
	if sbet1 == 0 && calp1 == 0 {
		// Break the degeneracy of an equatorial line; that case was
		// handled by the caller.
		calp1 = -tiny
	}
	// sin(alp1) * cos(bet1) = sin(alp0)
	salp0 := salp1 * cbet1
	calp0 := math.Hypot(calp1, salp1*sbet1) // calp0 > 0

	// tan(bet1) = tan(sig1) * cos(alp1)
	// tan(omg1) = sin(alp0) * tan(sig1)
	ssig1 = sbet1
	somg1 := salp0 * sbet1
	csig1 = calp1 * cbet1
	comg1 := csig1
	ssig1, csig1 = norm(ssig1, csig1)

	// Enforce symmetries for abs(bet2) = -bet1, which would otherwise
	// yield singularities in the Newton iteration.
	salp2 = salp1
	if cbet2 != cbet1 {
		salp2 = salp0 / cbet2
	}
	// calp2 = sqrt(sq(calp0) - sq(sbet2)) / cbet2, alp2 in [0, pi/2]
	if cbet2 != cbet1 || math.Abs(sbet2) != -sbet1 {
		if cbet1 < -sbet1 {
			calp2 = math.Sqrt(sq(calp1*cbet1)+(cbet2-cbet1)*(cbet1+cbet2)) / cbet2
		} else {
			calp2 = math.Sqrt(sq(calp1*cbet1)+(sbet1-sbet2)*(sbet1+sbet2)) / cbet2
		}
	} else {
		calp2 = math.Abs(calp1)
	}
	ssig2 = sbet2
	somg2 := salp0 * sbet2
	csig2 = calp2 * cbet2
	comg2 := csig2
	ssig2, csig2 = norm(ssig2, csig2)

	// sig12 = sig2 - sig1, limited to [0, pi]
	sig12 = math.Atan2(math.Max(0, csig1*ssig2-ssig1*csig2),
		csig1*csig2+ssig1*ssig2)
	// omg12 = omg2 - omg1, limited to [0, pi]
	somg12 := math.Max(0, comg1*somg2-somg1*comg2)
	comg12 := comg1*comg2 + somg1*somg2
	// eta = omg12 - lam120
	eta := math.Atan2(somg12*clam120-comg12*slam120,
		comg12*clam120+somg12*slam120)

	k2 := sq(calp0) * e.ep2
	eps = k2 / (2*(1+math.Sqrt(1+k2)) + k2)
	e.c3f(eps, c3a)
	B312 := sinCosSeries(true, ssig2, csig2, c3a[:]) -
		sinCosSeries(true, ssig1, csig1, c3a[:])
	domg12 = -e.f * e.a3f(eps) * salp0 * (sig12 + B312)
	lam12 = eta + domg12

	dlam12 = math.NaN()
	if diffp {
		if calp2 == 0 {
			dlam12 = -2 * e.f1 * dn1 / sbet1
		} else {
			_, dlam12, _, _, _ = e.lengths(eps, sig12,
				ssig1, csig1, dn1, ssig2, csig2, dn2, cbet1, cbet2,
				ReducedLength, c1a, c2a)
			dlam12 *= e.f1 / (calp2 * cbet2)
		}
	}
	return lam12, salp2, calp2, sig12, ssig1, csig1, ssig2, csig2, eps, domg12, dlam12
}

// genInverse solves the inverse problem for the quantities in mask.
// Longitudes need not be normalized; latitudes outside [-90, 90] give NaN.
func (e *Ellipsoid) genInverse(lat1, lon1, lat2, lon2 float64, mask Mask) inverseSolution {
	nan := math.NaN()
	sol := inverseSolution{
		a12: nan, s12: nan, m12: nan, M12: nan, M21: nan, S12: nan,
		converged: true,
	}
	mask &= outMask

	// lon12 is in [-180, 180]; -180 only for west-going geodesics.
	lon12, lon12s := angDiff(lon1, lon2)
	lonsign := 1.0
	if lon12 < 0 {
		lonsign = -1
	}
	// If very close to being on the same half-meridian, make it so.
	lon12 = lonsign * angRound(lon12)
	lon12s = angRound((180 - lon12) - lonsign*lon12s)
	lam12 := radians(lon12)
	var slam12, clam12 float64
	if lon12 > 90 {
		slam12, clam12 = sincosd(lon12s)
		clam12 = -clam12
	} else {
		slam12, clam12 = sincosd(lon12)
	}

	// If really close to the equator, treat as on the equator.
	lat1 = angRound(latFix(lat1))
	lat2 = angRound(latFix(lat2))
	// Make point 1 the one with the larger |lat|; a NaN lands in lat1.
	swapp := 1.0
	if math.Abs(lat1) < math.Abs(lat2) || math.IsNaN(lat2) {
		swapp = -1
		lonsign *= -1
		lat1, lat2 = lat2, lat1
	}
	// Make lat1 <= 0.
	latsign := -1.0
	if lat1 < 0 {
		latsign = 1
	}
	lat1 *= latsign
	lat2 *= latsign
	// Now
	//
	//	0 <= lon12 <= 180
	//	-90 <= lat1 <= 0
	//	lat1 <= lat2 <= -lat1
	//
	// and lonsign, swapp, latsign record the transformation; 1 means no
	// change.

	sbet1, cbet1 := sincosd(lat1)
	sbet1 *= e.f1
	// cbet1 = +epsilon at the poles
	sbet1, cbet1 = norm(sbet1, cbet1)
	cbet1 = math.Max(tiny, cbet1)

	sbet2, cbet2 := sincosd(lat2)
	sbet2 *= e.f1
	sbet2, cbet2 = norm(sbet2, cbet2)
	cbet2 = math.Max(tiny, cbet2)

	// If cbet1 < -sbet1 then cbet2 - cbet1 is a sensitive measure of
	// |bet1| - |bet2|, otherwise abs(sbet2) + sbet1 is. When the measure
	// vanishes force bet2 = +/-bet1 exactly; lambda12 relies on it.
	if cbet1 < -sbet1 {
		if cbet2 == cbet1 {
			if sbet2 < 0 {
				sbet2 = sbet1
			} else {
				sbet2 = -sbet1
			}
		}
	} else if math.Abs(sbet2) == -sbet1 {
		cbet2 = cbet1
	}

	dn1 := math.Sqrt(1 + e.ep2*sq(sbet1))
	dn2 := math.Sqrt(1 + e.ep2*sq(sbet2))

	// index zero of c1a, c2a, c3a is unused
	var (
		c1a [nC1 + 1]float64
		c2a [nC2 + 1]float64
		c3a [nC3]float64
	)
	var (
		salp1, calp1, salp2, calp2 float64
		sig12, s12x, m12x          float64
		a12                        = nan
		M12, M21                   = nan, nan
	)

	meridian := lat1 == -90 || slam12 == 0
	if meridian {
		// Endpoints on a single full meridian: the geodesic might lie on
		// it. Head to the target longitude; at the target head north.
		calp1, salp1 = clam12, slam12
		calp2, salp2 = 1, 0
		// tan(bet) = tan(sig) * cos(alp)
		ssig1, csig1 := sbet1, calp1*cbet1
		ssig2, csig2 := sbet2, calp2*cbet2
		sig12 = math.Atan2(math.Max(0, csig1*ssig2-ssig1*csig2),
			csig1*csig2+ssig1*ssig2)
		s12x, m12x, _, M12, M21 = e.lengths(e.n, sig12,
			ssig1, csig1, dn1, ssig2, csig2, dn2, cbet1, cbet2,
			mask|Distance|ReducedLength, &c1a, &c2a)
		// Zero length geodesics might yield m12 < 0; a meridional
		// geodesic with sig12 > pi/2 is not a shortest path.
		if sig12 < 1 || m12x >= 0 {
			if sig12 < 3*tiny {
				sig12, m12x, s12x = 0, 0, 0
			}
			m12x *= e.b
			s12x *= e.b
			a12 = degrees(sig12)
		} else {
			// m12 < 0: prolate and too close to anti-podal
			meridian = false
		}
	}

	// somg12 > 1 marks that it still needs to be computed
	somg12, comg12, omg12 := 2.0, 0.0, 0.0
	switch {
	case meridian:
	case sbet1 == 0 && (e.f <= 0 || lon12s >= e.f*180):
		// Along the equator; mimics lambda12 with calp1 = 0.
		calp1, calp2 = 0, 0
		salp1, salp2 = 1, 1
		s12x = e.a * lam12
		sig12 = lam12 / e.f1
		omg12 = sig12
		m12x = e.b * math.Sin(sig12)
		if mask&GeodesicScale != 0 {
			M12 = math.Cos(sig12)
			M21 = M12
		}
		a12 = lon12 / e.f1
	default:
		// Neither meridional nor equatorial.
		var dnm float64
		sig12, salp1, calp1, salp2, calp2, dnm = e.inverseStart(
			sbet1, cbet1, dn1, sbet2, cbet2, dn2, lam12, slam12, clam12, &c1a, &c2a)
		if sig12 >= 0 {
			// short line; inverseStart set salp2, calp2 and dnm
			s12x = sig12 * e.b * dnm
			m12x = sq(dnm) * e.b * math.Sin(sig12/dnm)
			if mask&GeodesicScale != 0 {
				M12 = math.Cos(sig12 / dnm)
				M21 = M12
			}
			a12 = degrees(sig12)
			omg12 = lam12 / (e.f1 * dnm)
			break
		}
		sol.converged = false
		// Newton's method on f(alp1) = lambda12(alp1) - lam12. f has one
		// root in (0, pi) with positive slope there. (alp1a, alp1b)
		// brackets the root and shrinks with each evaluation; a step with
		// non-positive slope or one leaving (0, pi) restarts from the
		// bracket midpoint.
		var (
			ssig1, csig1, ssig2, csig2, eps, domg12 float64
			numit                                   int
			tripn, tripb                            bool
		)
		salp1a, calp1a := tiny, 1.0
		salp1b, calp1b := tiny, -1.0
		for ; numit < e.maxit; numit++ {
			var v, dv float64
			v, salp2, calp2, sig12, ssig1, csig1, ssig2, csig2, eps, domg12, dv =
				e.lambda12(sbet1, cbet1, dn1, sbet2, cbet2, dn2,
					salp1, calp1, slam12, clam12, numit < maxit1,
					&c1a, &c2a, &c3a)
			// 2 * tol0 is about 1 ulp in [0, pi]; the reversed test lets
			// NaN escape.
			tol := 2 * tol0
			if tripn {
				tol = 8 * tol0
			}
			if tripb || !(math.Abs(v) >= tol) {
				sol.converged = true
				break
			}
			// Update the bracket.
			if v > 0 && (numit > maxit1 || calp1/salp1 > calp1b/salp1b) {
				salp1b, calp1b = salp1, calp1
			} else if v < 0 && (numit > maxit1 || calp1/salp1 < calp1a/salp1a) {
				salp1a, calp1a = salp1, calp1
			}
			if numit+1 < maxit1 && dv > 0 {
				dalp1 := -v / dv
				sdalp1, cdalp1 := math.Sin(dalp1), math.Cos(dalp1)
				nsalp1 := salp1*cdalp1 + calp1*sdalp1
				if nsalp1 > 0 && math.Abs(dalp1) < math.Pi {
					calp1 = calp1*cdalp1 - salp1*sdalp1
					salp1 = nsalp1
					salp1, calp1 = norm(salp1, calp1)
					// Convergence can be linear when the slope goes to
					// zero, so test against epsilon from here on.
					tripn = math.Abs(v) <= 16*tol0
					continue
				}
			}
			// Bisect the bracket.
			salp1 = (salp1a + salp1b) / 2
			calp1 = (calp1a + calp1b) / 2
			salp1, calp1 = norm(salp1, calp1)
			tripn = false
			tripb = math.Abs(salp1a-salp1)+(calp1a-calp1) < tolb ||
				math.Abs(salp1-salp1b)+(calp1-calp1b) < tolb
		}
		sol.iterations = numit
		// Reduced length and geodesic scale always go through the
		// distance integral.
		lengthMask := mask
		if mask&(ReducedLength|GeodesicScale) != 0 {
			lengthMask |= Distance
		}
		s12x, m12x, _, M12, M21 = e.lengths(eps, sig12,
			ssig1, csig1, dn1, ssig2, csig2, dn2, cbet1, cbet2,
			lengthMask, &c1a, &c2a)
		m12x *= e.b
		s12x *= e.b
		a12 = degrees(sig12)
		if mask&Area != 0 {
			// omg12 = lam12 - domg12
			sdomg12, cdomg12 := math.Sin(domg12), math.Cos(domg12)
			somg12 = slam12*cdomg12 - clam12*sdomg12
			comg12 = clam12*cdomg12 + slam12*sdomg12
		}
	}

	if mask&Distance != 0 {
		sol.s12 = 0 + s12x // -0 to 0
	}
	if mask&ReducedLength != 0 {
		sol.m12 = 0 + m12x
	}
	if mask&Area != 0 {
		sol.S12 = e.inverseArea(sbet1, cbet1, sbet2, cbet2,
			salp1, calp1, salp2, calp2, somg12, comg12, omg12, meridian)
		sol.S12 *= swapp * lonsign * latsign
		sol.S12 += 0
	}

	// Undo the canonical transformation on the azimuths.
	if swapp < 0 {
		salp1, salp2 = salp2, salp1
		calp1, calp2 = calp2, calp1
		if mask&GeodesicScale != 0 {
			M12, M21 = M21, M12
		}
	}
	salp1 *= swapp * lonsign
	calp1 *= swapp * latsign
	salp2 *= swapp * lonsign
	calp2 *= swapp * latsign

	sol.a12 = a12
	sol.salp1, sol.calp1, sol.salp2, sol.calp2 = salp1, calp1, salp2, calp2
	if mask&GeodesicScale != 0 {
		sol.M12, sol.M21 = M12, M21
	}
	return sol
}

// inverseArea returns S12 in the canonical configuration of genInverse.
func (e *Ellipsoid) inverseArea(sbet1, cbet1, sbet2, cbet2,
	salp1, calp1, salp2, calp2, somg12, comg12, omg12 float64, meridian bool,
) float64 {
	// sin(alp1) * cos(bet1) = sin(alp0)
	salp0 := salp1 * cbet1
	calp0 := math.Hypot(calp1, salp1*sbet1) // calp0 > 0
	var S12 float64
	if calp0 != 0 && salp0 != 0 {
		// tan(bet) = tan(sig) * cos(alp)
		ssig1, csig1 := norm(sbet1, calp1*cbet1)
		ssig2, csig2 := norm(sbet2, calp2*cbet2)
		k2 := sq(calp0) * e.ep2
		eps := k2 / (2*(1+math.Sqrt(1+k2)) + k2)
		// a^2 * e^2 * cos(alpha0) * sin(alpha0)
		A4 := sq(e.a) * calp0 * salp0 * e.e2
		var c4a [nC4]float64
		e.c4f(eps, &c4a)
		B41 := sinCosSeries(false, ssig1, csig1, c4a[:])
		B42 := sinCosSeries(false, ssig2, csig2, c4a[:])
		S12 = A4 * (B42 - B41)
	}
	// else sig1, sig2 are indeterminate on the equator and S12 = 0

	if !meridian && somg12 > 1 {
		somg12, comg12 = math.Sin(omg12), math.Cos(omg12)
	}
	var alp12 float64
	if !meridian && comg12 > -0.7071 && sbet2-sbet1 < 1.75 {
		// omg12 < 3/4 pi and the latitude difference is not too big:
		// tan(Gamma/2) = tan(omg12/2) *
		//   (tan(bet1/2)+tan(bet2/2))/(1+tan(bet1/2)*tan(bet2/2))
		// with tan(x/2) = sin(x)/(1+cos(x))
		domg12 := 1 + comg12
		dbet1 := 1 + cbet1
		dbet2 := 1 + cbet2
		alp12 = 2 * math.Atan2(somg12*(sbet1*dbet2+sbet2*dbet1),
			domg12*(sbet1*sbet2+dbet1*dbet2))
	} else {
		// alp12 = alp2 - alp1, no need to normalize for atan2
		salp12 := salp2*calp1 - calp2*salp1
		calp12 := calp2*calp1 + salp2*salp1
		// alp1 = +/-180 and alp2 = 0 needs the sign of zero right.
		if salp12 == 0 && calp12 < 0 {
			salp12 = tiny * calp1
			calp12 = -1
		}
		alp12 = math.Atan2(salp12, calp12)
	}
	return S12 + e.c2*alp12
}
