package geodesic

import "math"

// Result holds the solution of an inverse or direct problem, or a position
// on a Line. Every field is always present; the ones not selected by the
// request are NaN and Mask records which were computed.
//
// Angles are in degrees, lengths in meters and areas in square meters.
type Result struct {
	Lat1, Lon1, Azi1 float64
	Lat2, Lon2, Azi2 float64

	// Distance s12 and arc length a12 on the auxiliary sphere.
	Distance float64
	Arc      float64

	// ReducedLength m12; M12 and M21 are the geodesic scales.
	ReducedLength float64
	M12, M21      float64

	// Area S12 between the geodesic and the equator.
	Area float64

	// Mask holds the output bits that were computed.
	Mask Mask

	// Iterations is the number of Newton iterations used by an inverse
	// solution (0 for closed form cases). Converged is false when the
	// iteration limit was reached before the tolerance was met; the
	// result is then the last iterate.
	Iterations int
	Converged  bool
}

// Has reports whether the quantities selected by m were computed.
func (r Result) Has(m Mask) bool {
	return r.Mask.Has(m)
}

func nanResult() Result {
	nan := math.NaN()
	return Result{
		Lat1: nan, Lon1: nan, Azi1: nan,
		Lat2: nan, Lon2: nan, Azi2: nan,
		Distance: nan, Arc: nan,
		ReducedLength: nan, M12: nan, M21: nan,
		Area:      nan,
		Converged: true,
	}
}
