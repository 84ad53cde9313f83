package raster

import (
	"image"
	"image/color"
	"math"
)

// Vertex is a projected point: screen position, world depth, texture
// coordinate and perspective weight Q (the projection scale, 1/w).
type Vertex struct {
	X, Y, Z float64
	U, V    float64
	Q       float64
}

// FillQuad rasterizes a convex quad given in winding order as two triangles
// (v0 v1 v2) and (v0 v2 v3).
func FillQuad(fb *FrameBuffer, v [4]Vertex, tex *image.NRGBA, fill color.NRGBA, shade float64) {
	RasterizeTriangle(fb, v[0], v[1], v[2], tex, fill, shade)
	RasterizeTriangle(fb, v[0], v[2], v[3], tex, fill, shade)
}

// RasterizeTriangle fills a triangle with perspective-correct texture
// mapping, z-buffer test, shading in linear light and alpha blending over
// the framebuffer. Without a texture the triangle is filled with fill.
//
// This is the hot path: no allocation in the inner loop.
func RasterizeTriangle(fb *FrameBuffer, a, b, c Vertex, tex *image.NRGBA, fill color.NRGBA, shade float64) {
	x0, y0, z0 := a.X, a.Y, a.Z
	x1, y1, z1 := b.X, b.Y, b.Z
	x2, y2, z2 := c.X, c.Y, c.Z

	// Bounding box
	minX := int(math.Floor(math.Min(math.Min(x0, x1), x2)))
	maxX := int(math.Ceil(math.Max(math.Max(x0, x1), x2)))
	minY := int(math.Floor(math.Min(math.Min(y0, y1), y2)))
	maxY := int(math.Ceil(math.Max(math.Max(y0, y1), y2)))

	if minX < 0 {
		minX = 0
	}
	if maxX >= fb.Width {
		maxX = fb.Width - 1
	}
	if minY < 0 {
		minY = 0
	}
	if maxY >= fb.Height {
		maxY = fb.Height - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det

	// Precompute edge deltas
	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	// Perspective-divided attributes
	uq0, vq0 := a.U*a.Q, a.V*a.Q
	uq1, vq1 := b.U*b.Q, b.V*b.Q
	uq2, vq2 := c.U*c.Q, c.V*c.Q

	tone := fb.toneTable(shade)
	fr, fg, fbl := tone[fill.R], tone[fill.G], tone[fill.B]

	// Pixel loop, sampled at pixel centers
	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) + 0.5 - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) + 0.5 - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1

			if w0 < -1e-9 || w1 < -1e-9 || w2 < -1e-9 {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			zIdx := rowOff + sx
			if z <= fb.ZBuf[zIdx] {
				continue
			}

			var cr, cg, cb, ca uint8
			if tex != nil {
				q := w0*a.Q + w1*b.Q + w2*c.Q
				u := (w0*uq0 + w1*uq1 + w2*uq2) / q
				v := (w0*vq0 + w1*vq1 + w2*vq2) / q
				cr, cg, cb, ca = SampleTexture(tex, u, v)
				cr, cg, cb = tone[cr], tone[cg], tone[cb]
			} else {
				cr, cg, cb, ca = fr, fg, fbl, fill.A
			}

			// Skip transparent texels
			if ca < 8 {
				continue
			}
			fb.ZBuf[zIdx] = z

			pxIdx := zIdx * 4
			if ca == 255 {
				fb.Color[pxIdx] = cr
				fb.Color[pxIdx+1] = cg
				fb.Color[pxIdx+2] = cb
				fb.Color[pxIdx+3] = 255
				continue
			}
			// Source-over blend
			al := float64(ca) / 255
			fb.Color[pxIdx] = clamp255(float64(cr)*al + float64(fb.Color[pxIdx])*(1-al))
			fb.Color[pxIdx+1] = clamp255(float64(cg)*al + float64(fb.Color[pxIdx+1])*(1-al))
			fb.Color[pxIdx+2] = clamp255(float64(cb)*al + float64(fb.Color[pxIdx+2])*(1-al))
			fb.Color[pxIdx+3] = clamp255(float64(ca) + float64(fb.Color[pxIdx+3])*(1-al))
		}
	}
}
