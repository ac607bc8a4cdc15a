package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Tolerance functions

// approxEqual reports whether a and b are equal within a relative epsilon.
// The absolute floor keeps comparisons near zero meaningful.
func approxEqual(a, b, eps float64) bool {
	scale := math.Max(math.Abs(a), math.Abs(b))
	return math.Abs(a-b) <= math.Max(eps*scale, eps*1e-3)
}

// Vector functions

// normalizeSafe returns the unit vector of v, or the zero vector when v
// has no length. r3.Unit would yield NaN components in that case.
func normalizeSafe(v r3.Vec) r3.Vec {
	n := r3.Norm(v)
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return r3.Vec{}
	}
	return r3.Scale(1/n, v)
}

// lerpVec interpolates linearly from a to b.
func lerpVec(a, b r3.Vec, t float64) r3.Vec {
	return r3.Add(a, r3.Scale(t, r3.Sub(b, a)))
}

// roundCount rounds x half-to-even and floors the result at zero.
func roundCount(x float64) int {
	if math.IsNaN(x) || x <= 0 {
		return 0
	}
	return int(math.RoundToEven(x))
}
