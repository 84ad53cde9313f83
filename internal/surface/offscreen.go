package surface

import (
	"fmt"
	"image"
	"sync"
)

// Offscreen is an in-memory surface. It keeps the most recent frame and a
// count of presented frames; it is used by the snapshot command and tests.
type Offscreen struct {
	mu       sync.Mutex
	size     Size
	last     *image.NRGBA
	frames   int
	released bool
}

// NewOffscreen returns an offscreen surface of w×h device pixels.
func NewOffscreen(w, h int) *Offscreen {
	return &Offscreen{size: Size{Width: w, Height: h, PixelRatio: 1}}
}

func (o *Offscreen) Size() Size {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.size
}

// Resize changes the reported size. The caller forwards it to the scene.
func (o *Offscreen) Resize(w, h int) {
	o.mu.Lock()
	o.size.Width, o.size.Height = w, h
	o.mu.Unlock()
}

// Present copies img as the current frame.
func (o *Offscreen) Present(img *image.NRGBA) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.released {
		return ErrReleased
	}
	b := img.Bounds()
	if b.Dx() != o.size.Width || b.Dy() != o.size.Height {
		return fmt.Errorf("surface: frame %dx%d does not match surface %dx%d",
			b.Dx(), b.Dy(), o.size.Width, o.size.Height)
	}

	if o.last == nil || o.last.Bounds() != b {
		o.last = image.NewNRGBA(b)
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		si := img.PixOffset(b.Min.X, y)
		di := o.last.PixOffset(b.Min.X, y)
		copy(o.last.Pix[di:di+b.Dx()*4], img.Pix[si:si+b.Dx()*4])
	}
	o.frames++
	return nil
}

// Frame returns a copy of the last presented frame, or nil.
func (o *Offscreen) Frame() *image.NRGBA {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.last == nil {
		return nil
	}
	cp := image.NewNRGBA(o.last.Bounds())
	copy(cp.Pix, o.last.Pix)
	return cp
}

// Frames returns how many frames were presented.
func (o *Offscreen) Frames() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.frames
}

// Released reports whether Release was called.
func (o *Offscreen) Released() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.released
}

func (o *Offscreen) Release() error {
	o.mu.Lock()
	o.released = true
	o.last = nil
	o.mu.Unlock()
	return nil
}
