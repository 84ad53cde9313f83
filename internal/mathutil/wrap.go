package mathutil

import (
	"fmt"
	"math"
)

// Wrap maps v into the periodic range [min, max).
// The result is congruent to v modulo (max - min); values already in range
// are returned unchanged. Panics if max <= min.
func Wrap(min, max, v float64) float64 {
	if !(max > min) {
		panic(fmt.Sprintf("mathutil: Wrap range [%g, %g) is empty", min, max))
	}
	span := max - min
	r := math.Mod(v-min, span)
	if r < 0 {
		r += span
	}
	// Tiny negative remainders round up to span after the addition above.
	if r >= span {
		r = 0
	}
	return min + r
}

// WrapInt maps v into [min, max) for integer indices. Panics if max <= min.
func WrapInt(min, max, v int) int {
	if max <= min {
		panic(fmt.Sprintf("mathutil: WrapInt range [%d, %d) is empty", min, max))
	}
	span := max - min
	r := (v - min) % span
	if r < 0 {
		r += span
	}
	return min + r
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp interpolates linearly between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Damp moves current the fraction factor of the way toward target.
// Repeated application decays the residual geometrically by (1 - factor).
func Damp(current, target, factor float64) float64 {
	return current + (target-current)*factor
}

// IsFinite reports whether v is neither NaN nor ±Inf.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
