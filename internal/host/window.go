package host

import (
	"image"
	"sync"

	"media-wall/internal/surface"

	"github.com/hajimehoshi/ebiten/v2"
)

// windowSurface presents frames into an ebiten image that Draw blits to the
// screen. Present runs in Update and Draw reads the image.
type windowSurface struct {
	mu       sync.Mutex
	size     surface.Size
	img      *ebiten.Image
	released bool
}

func (w *windowSurface) Size() surface.Size {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.size
}

func (w *windowSurface) resize(size surface.Size) {
	w.mu.Lock()
	w.size = size
	w.mu.Unlock()
}

func (w *windowSurface) Present(img *image.NRGBA) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.released {
		return surface.ErrReleased
	}

	b := img.Bounds()
	if w.img == nil || w.img.Bounds().Dx() != b.Dx() || w.img.Bounds().Dy() != b.Dy() {
		if w.img != nil {
			w.img.Deallocate()
		}
		w.img = ebiten.NewImage(b.Dx(), b.Dy())
	}
	if img.Stride != b.Dx()*4 {
		img = compact(img)
	}
	w.img.WritePixels(img.Pix)
	return nil
}

func (w *windowSurface) draw(screen *ebiten.Image) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.img != nil {
		screen.DrawImage(w.img, nil)
	}
}

func (w *windowSurface) Release() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.img != nil {
		w.img.Deallocate()
		w.img = nil
	}
	w.released = true
	return nil
}

// compact copies img into a tightly packed buffer.
func compact(img *image.NRGBA) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		si := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(out.Pix[y*out.Stride:(y+1)*out.Stride], img.Pix[si:si+b.Dx()*4])
	}
	return out
}
