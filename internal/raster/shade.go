package raster

import (
	"math"

	"media-wall/internal/mathutil"
)

const (
	gamma    = 2.2
	invGamma = 1.0 / gamma
)

// Precomputed sRGB-to-linear lookup table (256 entries).
var srgbToLinear [256]float64

func init() {
	for i := 0; i < 256; i++ {
		srgbToLinear[i] = math.Pow(float64(i)/255.0, gamma)
	}
}

// DepthShade darkens surfaces pushed into the wall: 1 on the Z = 0 plane,
// falling linearly to 1-dim at depth -distance.
func DepthShade(z, distance, dim float64) float64 {
	if distance <= 0 || z >= 0 {
		return 1
	}
	return 1 - dim*mathutil.Clamp(-z/distance, 0, 1)
}

// toneTable returns the sRGB → shaded sRGB mapping for a shade factor,
// computed in linear light. Tables are cached per framebuffer at 1/1024
// resolution of the shade.
func (fb *FrameBuffer) toneTable(shade float64) *[256]uint8 {
	key := uint16(mathutil.Clamp(shade, 0, 1)*1024 + 0.5)
	if t, ok := fb.tones[key]; ok {
		return t
	}
	s := float64(key) / 1024
	t := new([256]uint8)
	for i := range t {
		t[i] = clamp255(math.Pow(srgbToLinear[i]*s, invGamma) * 255)
	}
	fb.tones[key] = t
	return t
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
