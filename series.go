package geodesic

import "math"

// Series truncation order. The coefficient tables below are for order 6.
const (
	order = 6
	nA1   = order
	nC1   = order
	nC1p  = order
	nA2   = order
	nC2   = order
	nA3   = order
	nA3x  = nA3
	nC3   = order
	nC3x  = (nC3 * (nC3 - 1)) / 2
	nC4   = order
	nC4x  = (nC4 * (nC4 + 1)) / 2

	maxit1 = 20
	maxit2 = maxit1 + digits + 10
)

// Tolerances shared by every ellipsoid.
var (
	tiny    = math.Sqrt(minval)
	tol0    = epsilon
	tol1    = 200 * tol0
	tol2    = math.Sqrt(tol0)
	tolb    = tol0 * tol2
	xthresh = 1000 * tol2
)

// Rational coefficients of the series in the third flattening n. Each
// polynomial is stored highest order first followed by its denominator.
var (
	a3Coeffs = [...]float64{
		-3, 128,
		-2, -3, 64,
		-1, -3, -1, 16,
		3, -1, -2, 8,
		1, -1, 2,
		1, 1,
	}
	c3Coeffs = [...]float64{
		3, 128,
		2, 5, 128,
		-1, 3, 3, 64,
		-1, 0, 1, 8,
		-1, 1, 4,
		5, 256,
		1, 3, 128,
		-3, -2, 3, 64,
		1, -3, 2, 32,
		7, 512,
		-10, 9, 384,
		5, -9, 5, 192,
		7, 512,
		-14, 7, 512,
		21, 2560,
	}
	c4Coeffs = [...]float64{
		97, 15015,
		1088, 156, 45045,
		-224, -4784, 1573, 45045,
		-10656, 14144, -4576, -858, 45045,
		64, 624, -4576, 6864, -3003, 15015,
		100, 208, 572, 3432, -12012, 30030, 45045,
		1, 9009,
		-2944, 468, 135135,
		5792, 1040, -1287, 135135,
		5952, -11648, 9152, -2574, 135135,
		-64, -624, 4576, -6864, 3003, 135135,
		8, 10725,
		1856, -936, 225225,
		-8448, 4992, -1144, 225225,
		-1440, 4160, -4576, 1716, 225225,
		-136, 63063,
		1024, -208, 105105,
		3584, -3328, 1144, 315315,
		-128, 135135,
		-2560, 832, 405405,
		128, 99099,
	}
)

// Coefficients in eps^2 for the distance and reduced length series.
var (
	a1Coeffs  = [...]float64{1, 4, 64, 0, 256}
	a2Coeffs  = [...]float64{-11, -28, -192, 0, 256}
	c1Coeffs  = [...]float64{-1, 6, -16, 32, -9, 64, -128, 2048, 9, -16, 768, 3, -5, 512, -7, 1280, -7, 2048}
	c1pCoeffs = [...]float64{205, -432, 768, 1536, 4005, -4736, 3840, 12288, -225, 116, 384, -7173, 2695, 7680, 3467, 7680, 38081, 61440}
	c2Coeffs  = [...]float64{1, 2, 16, 32, 35, 64, 384, 2048, 15, 80, 768, 7, 35, 512, 63, 1280, 77, 2048}
)

// initSeries fills the ellipsoid's polynomial-in-eps tables from the
// polynomial-in-n coefficients above.
func (e *Ellipsoid) initSeries() {
	o, k := 0, 0
	for j := nA3 - 1; j >= 0; j-- { // coeff of eps^j
		m := min(nA3-j-1, j) // order of polynomial in n
		e.a3x[k] = polyval(m, a3Coeffs[:], o, e.n) / a3Coeffs[o+m+1]
		k++
		o += m + 2
	}
	o, k = 0, 0
	for l := 1; l < nC3; l++ {
		for j := nC3 - 1; j >= l; j-- {
			m := min(nC3-j-1, j)
			e.c3x[k] = polyval(m, c3Coeffs[:], o, e.n) / c3Coeffs[o+m+1]
			k++
			o += m + 2
		}
	}
	o, k = 0, 0
	for l := 0; l < nC4; l++ {
		for j := nC4 - 1; j >= l; j-- {
			m := nC4 - j - 1
			e.c4x[k] = polyval(m, c4Coeffs[:], o, e.n) / c4Coeffs[o+m+1]
			k++
			o += m + 2
		}
	}
}

func (e *Ellipsoid) a3f(eps float64) float64 {
	return polyval(nA3-1, e.a3x[:], 0, eps)
}

// c3f sets c[1] through c[nC3-1].
func (e *Ellipsoid) c3f(eps float64, c *[nC3]float64) {
	mult := 1.0
	o := 0
	for l := 1; l < nC3; l++ {
		m := nC3 - l - 1 // order of polynomial in eps
		mult *= eps
		c[l] = mult * polyval(m, e.c3x[:], o, eps)
		o += m + 1
	}
}

// c4f sets c[0] through c[nC4-1].
func (e *Ellipsoid) c4f(eps float64, c *[nC4]float64) {
	mult := 1.0
	o := 0
	for l := 0; l < nC4; l++ {
		m := nC4 - l - 1
		c[l] = mult * polyval(m, e.c4x[:], o, eps)
		o += m + 1
		mult *= eps
	}
}

// a1m1f returns A1 - 1.
func a1m1f(eps float64) float64 {
	m := nA1 / 2
	t := polyval(m, a1Coeffs[:], 0, sq(eps)) / a1Coeffs[m+1]
	return (t + eps) / (1 - eps)
}

// a2m1f returns A2 - 1.
func a2m1f(eps float64) float64 {
	m := nA2 / 2
	t := polyval(m, a2Coeffs[:], 0, sq(eps)) / a2Coeffs[m+1]
	return (t - eps) / (1 + eps)
}

// evenSeries fills c[1..n] from a table of polynomials in eps^2, each
// scaled by eps^l.
func evenSeries(coeff []float64, n int, eps float64, c []float64) {
	eps2 := sq(eps)
	d := eps
	o := 0
	for l := 1; l <= n; l++ {
		m := (n - l) / 2 // order of polynomial in eps^2
		c[l] = d * polyval(m, coeff, o, eps2) / coeff[o+m+1]
		o += m + 2
		d *= eps
	}
}

func c1f(eps float64, c *[nC1 + 1]float64) {
	evenSeries(c1Coeffs[:], nC1, eps, c[:])
}

func c1pf(eps float64, c *[nC1p + 1]float64) {
	evenSeries(c1pCoeffs[:], nC1p, eps, c[:])
}

func c2f(eps float64, c *[nC2 + 1]float64) {
	evenSeries(c2Coeffs[:], nC2, eps, c[:])
}

// sinCosSeries evaluates, using Clenshaw summation,
//
//	sinp:  sum(c[i] * sin(2*i*x), i, 1, n)
//	!sinp: sum(c[i] * cos((2*i+1)*x), i, 0, n-1)
//
// where n = len(c) - 1 for sine series (c[0] unused) and len(c) otherwise.
func sinCosSeries(sinp bool, sinx, cosx float64, c []float64) float64 {
	k := len(c)
	n := k
	if sinp {
		n--
	}
	ar := 2 * (cosx - sinx) * (cosx + sinx) // 2 * cos(2 * x)
	var y0, y1 float64
	if n&1 != 0 {
		k--
		y0 = c[k]
	}
	for n /= 2; n > 0; n-- {
		// unrolled x 2 so the accumulators return to their original role
		k--
		y1 = ar*y0 - y1 + c[k]
		k--
		y0 = ar*y1 - y0 + c[k]
	}
	if sinp {
		return 2 * sinx * cosx * y0 // sin(2 * x) * y0
	}
	return cosx * (y0 - y1) // cos(x) * (y0 - y1)
}
