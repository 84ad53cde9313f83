package mathutil

import "math"

// Vec2 is a 2-component vector used for scroll offsets and cell footprints.
type Vec2 [2]float64

func (a Vec2) Add(b Vec2) Vec2 {
	return Vec2{a[0] + b[0], a[1] + b[1]}
}

func (a Vec2) Sub(b Vec2) Vec2 {
	return Vec2{a[0] - b[0], a[1] - b[1]}
}

func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v[0] * s, v[1] * s}
}

// MaxAbs returns the larger absolute component (Chebyshev norm).
func (v Vec2) MaxAbs() float64 {
	return math.Max(math.Abs(v[0]), math.Abs(v[1]))
}

// IsFinite reports whether both components are neither NaN nor infinite.
func (v Vec2) IsFinite() bool {
	return IsFinite(v[0]) && IsFinite(v[1])
}
