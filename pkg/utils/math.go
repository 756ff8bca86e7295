package utils

// Clamp01 clamps x to the closed interval [0, 1].
func Clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// Rescale maps x from [lo, hi] onto [0, 1], clamping values outside the
// source range. If hi <= lo the result is 0.
func Rescale(x, lo, hi float64) float64 {
	if hi <= lo {
		return 0
	}
	return Clamp01((x - lo) / (hi - lo))
}
