package raster

import "image"

// UVRect is the texture sub-rectangle mapped onto a cell, in [0,1] units.
type UVRect struct {
	U0, V0, U1, V1 float64
}

// FullUV maps the whole texture.
var FullUV = UVRect{0, 0, 1, 1}

// CoverUV crops a texW×texH texture to the aspect of a footW×footH footprint
// so it fills the footprint without distortion, centered.
func CoverUV(texW, texH int, footW, footH float64) UVRect {
	if texW <= 0 || texH <= 0 || footW <= 0 || footH <= 0 {
		return FullUV
	}
	texAspect := float64(texW) / float64(texH)
	footAspect := footW / footH
	if texAspect > footAspect {
		// Texture is wider: crop left and right.
		keep := footAspect / texAspect
		m := (1 - keep) / 2
		return UVRect{m, 0, 1 - m, 1}
	}
	keep := texAspect / footAspect
	m := (1 - keep) / 2
	return UVRect{0, m, 1, 1 - m}
}

// SampleTexture performs bilinear filtering with UVs clamped to the edge.
// Returns RGBA as uint8. Accesses tex.Pix directly for performance.
func SampleTexture(tex *image.NRGBA, u, v float64) (r, g, b, a uint8) {
	w := tex.Rect.Dx()
	h := tex.Rect.Dy()

	// Clamp UVs
	if u < 0 {
		u = 0
	} else if u > 1 {
		u = 1
	}
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}

	fx := u * float64(w-1)
	fy := v * float64(h-1)
	x0 := int(fx)
	y0 := int(fy)
	x1 := min(x0+1, w-1)
	y1 := min(y0+1, h-1)
	dx := fx - float64(x0)
	dy := fy - float64(y0)

	stride := tex.Stride
	pix := tex.Pix

	// Four texels
	i00 := y0*stride + x0*4
	i10 := y0*stride + x1*4
	i01 := y1*stride + x0*4
	i11 := y1*stride + x1*4

	w00 := (1 - dx) * (1 - dy)
	w10 := dx * (1 - dy)
	w01 := (1 - dx) * dy
	w11 := dx * dy

	fr := float64(pix[i00])*w00 + float64(pix[i10])*w10 + float64(pix[i01])*w01 + float64(pix[i11])*w11
	fg := float64(pix[i00+1])*w00 + float64(pix[i10+1])*w10 + float64(pix[i01+1])*w01 + float64(pix[i11+1])*w11
	fb := float64(pix[i00+2])*w00 + float64(pix[i10+2])*w10 + float64(pix[i01+2])*w01 + float64(pix[i11+2])*w11
	fa := float64(pix[i00+3])*w00 + float64(pix[i10+3])*w10 + float64(pix[i01+3])*w01 + float64(pix[i11+3])*w11

	return uint8(fr + 0.5), uint8(fg + 0.5), uint8(fb + 0.5), uint8(fa + 0.5)
}
