package math3d

// Interpolate returns x1 + (x2-x1)*t.
func Interpolate(x1, x2, t float32) float32 {
	return x1 + (x2-x1)*t
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
