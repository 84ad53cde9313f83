// Package surface defines the render target the wall presents frames to.
package surface

import (
	"errors"
	"fmt"
	"image"
)

// Size is a surface's drawable size in device pixels.
type Size struct {
	Width      int
	Height     int
	PixelRatio float64 // device pixels per logical pixel
}

// Empty reports whether nothing can be drawn at this size.
func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Surface is a render target. Present receives a finished frame exactly the
// size reported by Size; implementations must not retain img after
// returning. Release frees the target; Present after Release fails.
type Surface interface {
	Size() Size
	Present(img *image.NRGBA) error
	Release() error
}

// Factory acquires a surface. It is called once per scene.
type Factory func() (Surface, error)

// ErrReleased is returned by Present on a released surface.
var ErrReleased = errors.New("surface: released")

// AcquireError reports that no render surface could be obtained.
type AcquireError struct {
	Reason string
	Err    error
}

func (e *AcquireError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("surface: acquire failed: %s: %v", e.Reason, e.Err)
	}
	return "surface: acquire failed: " + e.Reason
}

func (e *AcquireError) Unwrap() error { return e.Err }

// Acquire calls f and normalizes failures to *AcquireError.
func Acquire(f Factory) (Surface, error) {
	if f == nil {
		return nil, &AcquireError{Reason: "no surface factory"}
	}
	s, err := f()
	if err != nil {
		var ae *AcquireError
		if errors.As(err, &ae) {
			return nil, err
		}
		return nil, &AcquireError{Reason: "factory", Err: err}
	}
	if s == nil {
		return nil, &AcquireError{Reason: "factory returned no surface"}
	}
	if s.Size().Empty() {
		_ = s.Release()
		return nil, &AcquireError{Reason: fmt.Sprintf("empty surface %dx%d", s.Size().Width, s.Size().Height)}
	}
	return s, nil
}
