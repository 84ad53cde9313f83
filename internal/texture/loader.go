package texture

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

// Decode turns encoded media bytes into an NRGBA texture whose longer side is
// at most maxSize (0 keeps the original size). The src extension picks TGA and
// WebP decoders explicitly; everything else goes through image.Decode.
func Decode(src string, raw []byte, maxSize int) (*image.NRGBA, error) {
	var (
		img image.Image
		err error
	)

	ext := strings.ToLower(path.Ext(strings.ReplaceAll(src, "\\", "/")))
	switch ext {
	case ".tga":
		// TGA has no magic number, so image.Decode cannot sniff it.
		img, err = tga.Decode(bytes.NewReader(raw))
	case ".webp":
		img, err = webp.Decode(bytes.NewReader(raw))
	default:
		img, _, err = image.Decode(bytes.NewReader(raw))
	}
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", src, err)
	}

	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("texture: decode %s: empty image", src)
	}

	return fit(toNRGBA(img), maxSize), nil
}

// toNRGBA converts any image to NRGBA format with its origin at (0, 0).
func toNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	if n, ok := src.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// fit downsizes img so its longer side is maxSize, keeping the aspect ratio.
func fit(img *image.NRGBA, maxSize int) *image.NRGBA {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return img
	}

	tw, th := maxSize, maxSize
	if w >= h {
		th = max(1, h*maxSize/w)
	} else {
		tw = max(1, w*maxSize/h)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, tw, th))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}
