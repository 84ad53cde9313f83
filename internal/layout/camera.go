package layout

import (
	"media-wall/internal/config"
	"media-wall/internal/mathutil"
)

// Camera projects world points to framebuffer pixels. It looks down -Z from
// Distance units in front of the wall; points on the Z = 0 plane map 1:1 so
// the undeformed window of columns × rows slots fills the viewport exactly.
type Camera struct {
	Width, Height float64 // framebuffer size in pixels
	PixelsPerUnit float64
	Distance      float64
}

// NewCamera builds the camera for a framebuffer of vp's size.
func NewCamera(g config.Gallery, vp Viewport) Camera {
	return Camera{
		Width:         float64(vp.Width),
		Height:        float64(vp.Height),
		PixelsPerUnit: float64(vp.Height) / float64(g.Rows),
		Distance:      g.CameraDistance,
	}
}

// ScaleAt returns the perspective scale for depth z (z <= 0 shrinks).
func (c Camera) ScaleAt(z float64) float64 {
	return c.Distance / (c.Distance - z)
}

// Project returns (screen x, screen y, z). Screen Y grows downward.
func (c Camera) Project(p mathutil.Vec3) mathutil.Vec3 {
	s := c.ScaleAt(p[2]) * c.PixelsPerUnit
	return mathutil.Vec3{
		c.Width/2 + p[0]*s,
		c.Height/2 - p[1]*s,
		p[2],
	}
}
