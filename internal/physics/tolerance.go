package physics

import "math"

// Epsilon is the single tolerance applied to every time-of-impact and
// contact comparison. Roots down to -Epsilon are treated as contact at t=0.
const Epsilon = 1e-3

// nearZero reports whether |x| <= Epsilon.
func nearZero(x float64) bool {
	return math.Abs(x) <= Epsilon
}

// validTime reports whether t is an admissible time of impact and returns it
// clamped to [0, 1].
func validTime(t float64) (float64, bool) {
	if math.IsNaN(t) || t < -Epsilon || t > 1 {
		return 0, false
	}
	if t < 0 {
		return 0, true
	}
	return t, true
}

// quadraticRoots returns the real roots of a*t^2 + b*t + c in ascending order.
// ok is false when there is no real root or the equation is degenerate (a == 0).
func quadraticRoots(a, b, c float64) (lo, hi float64, ok bool) {
	if a == 0 {
		return 0, 0, false
	}
	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, 0, false
	}
	sq := math.Sqrt(disc)
	lo = (-b - sq) / (2 * a)
	hi = (-b + sq) / (2 * a)
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi, true
}

// sign returns -1, 0 or 1, treating values within Epsilon of zero as zero.
func sign(x float64) int {
	switch {
	case nearZero(x):
		return 0
	case x < 0:
		return -1
	default:
		return 1
	}
}
