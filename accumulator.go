package geodesic

// accumulator sums floating point numbers with twice the normal precision.
// The running total is kept as an unevaluated pair s + t with |t| no more
// than half an ulp of s.
type accumulator struct {
	s, t float64
}

func (a *accumulator) set(y float64) {
	a.s, a.t = y, 0
}

func (a *accumulator) add(y float64) {
	var u float64
	y, u = sum(y, a.t)
	a.s, a.t = sum(y, a.s)
	// u is at most half an ulp of y so the pair can be renormalized by
	// folding it into t, except when s is exactly 0.
	if a.s == 0 {
		a.s = u
	} else {
		a.t += u
	}
}

// sum returns the total with y added, leaving a unchanged.
func (a accumulator) sum(y float64) float64 {
	if y == 0 {
		return a.s
	}
	a.add(y)
	return a.s
}

func (a *accumulator) negate() {
	a.s, a.t = -a.s, -a.t
}

// remainder reduces the total to [-y/2, y/2).
func (a *accumulator) remainder(y float64) {
	a.s = remainder(a.s, y)
	a.add(0)
}
