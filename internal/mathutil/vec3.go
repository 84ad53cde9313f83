package mathutil

import "math"

// Vec3 is a 3-component world-space vector (value type, stack-allocated).
// X right, Y up, Z toward the viewer.
type Vec3 [3]float64

func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func (v Vec3) Len() float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}
