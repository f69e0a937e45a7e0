package geodesic

import "math"

const digits = 53

var (
	epsilon = math.Ldexp(1, 1-digits)
	minval  = math.Ldexp(1, -1022)
)

func sq(x float64) float64 {
	return x * x
}

// cbrt returns the real cube root of x.
func cbrt(x float64) float64 {
	y := math.Pow(math.Abs(x), 1/3.0)
	if x < 0 {
		return -y
	}
	if x == 0 {
		return x
	}
	return y
}

// polyval evaluates the polynomial of degree n whose coefficients start at
// p[s], highest order first. A negative degree yields 0.
func polyval(n int, p []float64, s int, x float64) float64 {
	if n < 0 {
		return 0
	}
	y := p[s]
	for ; n > 0; n-- {
		s++
		y = y*x + p[s]
	}
	return y
}

// sum is an error free transformation of a sum: u + v == s + t exactly.
func sum(u, v float64) (s, t float64) {
	s = u + v
	up := s - v
	vpp := s - up
	up -= u
	vpp -= v
	t = -(up + vpp)
	return s, t
}

// remainder of x/y in the range [-y/2, y/2).
func remainder(x, y float64) float64 {
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return math.NaN()
	}
	z := x
	if x != 0 {
		z = math.Mod(x, y)
	}
	switch {
	case z < -y/2:
		return z + y
	case z < y/2:
		return z
	default:
		return z - y
	}
}

// angNormalize reduces an angle to [-180, 180).
func angNormalize(x float64) float64 {
	return remainder(x, 360)
}

// angDiff computes y - x reduced to [-180, 180]. The result is returned as
// a pair d, e with d + e the difference and e a tiny error term. 180 is
// preferred over -180 unless the exact difference is on the west side.
func angDiff(x, y float64) (d, e float64) {
	d, t := sum(remainder(-x, 360), remainder(y, 360))
	d = angNormalize(d)
	if d == -180 && t <= 0 {
		d = 180
	}
	return sum(d, t)
}

// angRound makes small values underflow to zero. The smallest gap in the
// result is 1/16 - nextafter(1/16, 0) = 2^-57, about 0.7 pm on the earth.
func angRound(x float64) float64 {
	const z = 1 / 16.0
	if x == 0 {
		return 0
	}
	y := math.Abs(x)
	if y < z {
		y = z - (z - y)
	}
	if x < 0 {
		return -y
	}
	return y
}

// latFix replaces latitudes outside [-90, 90] with NaN.
func latFix(x float64) float64 {
	if math.Abs(x) > 90 {
		return math.NaN()
	}
	return x
}

func norm(x, y float64) (float64, float64) {
	r := math.Hypot(x, y)
	return x / r, y / r
}

// sincosd returns the sine and cosine of x in degrees. Multiples of 90 give
// exact results.
func sincosd(x float64) (s, c float64) {
	r := math.NaN()
	if !math.IsInf(x, 0) && !math.IsNaN(x) {
		r = math.Mod(x, 360)
	}
	q := 0
	if !math.IsNaN(r) {
		q = int(math.RoundToEven(r / 90))
	}
	r -= float64(90 * q)
	r *= math.Pi / 180
	s, c = math.Sin(r), math.Cos(r)
	switch ((q % 4) + 4) % 4 {
	case 1:
		s, c = c, -s
	case 2:
		s, c = -s, -c
	case 3:
		s, c = -c, s
	}
	if x == 0 {
		s = x
	}
	return s, 0 + c
}

// atan2d returns atan2(y, x) in degrees, in [-180, 180].
func atan2d(y, x float64) float64 {
	q := 0
	if math.Abs(y) > math.Abs(x) {
		q = 2
		x, y = y, x
	}
	if x < 0 {
		q++
		x = -x
	}
	ang := math.Atan2(y, x) * 180 / math.Pi
	switch q {
	case 1:
		if y >= 0 {
			ang = 180 - ang
		} else {
			ang = -180 - ang
		}
	case 2:
		ang = 90 - ang
	case 3:
		ang = -90 + ang
	}
	return ang
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
