package layout

import "math"

// Falloff is 1 at the curve center and tapers quadratically to exactly 0 at
// |d| = width. It is 0 outside the support.
func Falloff(d, width float64) float64 {
	r := math.Abs(d) / width
	if r >= 1 {
		return 0
	}
	return 1 - r*r
}

// DepthOffset is the inward (negative Z) displacement of the wall surface at
// vertical distance d from the viewport center.
func DepthOffset(d, depth, width float64) float64 {
	return -depth * Falloff(d, width)
}
