// Package scene composes the media wall: it owns the render surface, the
// scroll integrator and the texture loader, and draws one frame per Tick.
//
// A Scene is driven from a single goroutine. Scroll, Resize, Tick and Close
// must not be called concurrently; only Config().Set may be called from
// elsewhere.
package scene

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"

	"media-wall/internal/catalog"
	"media-wall/internal/config"
	"media-wall/internal/latest"
	"media-wall/internal/layout"
	"media-wall/internal/mathutil"
	"media-wall/internal/postprocess"
	"media-wall/internal/raster"
	"media-wall/internal/scroll"
	"media-wall/internal/surface"
	"media-wall/internal/texture"
)

// ErrClosed is returned by operations on a closed scene.
var ErrClosed = errors.New("scene: closed")

// rebaseLimit is how many tile periods the offset may grow before it is
// shifted back toward the origin.
const rebaseLimit = 1 << 16

// Placeholder fills for cells whose media is not drawable.
var (
	loadingFill = color.NRGBA{R: 0x2a, G: 0x2c, B: 0x31, A: 0xff}
	failedFill  = color.NRGBA{R: 0x4a, G: 0x24, B: 0x26, A: 0xff}
)

// Options configures a Scene.
type Options struct {
	// Gallery is the initial configuration. Ignored when Config is set.
	Gallery config.Gallery
	// Config, when non-nil, is shared with writers on other goroutines
	// (config reloaders). They must validate before Set.
	Config *latest.Ref[config.Gallery]

	Catalog *catalog.Catalog
	Surface surface.Factory
	Fetcher texture.Fetcher

	TextureSize int     // max texture edge, default 512
	Workers     int     // loader goroutines, default 1
	Supersample int     // render scale, default 1
	Strips      int     // horizontal strips per cell, default 6
	DepthDim    float64 // darkening at one camera distance of depth
	Background  color.NRGBA
}

type frameKey struct {
	offset  mathutil.Vec2
	gallery config.Gallery
	vp      layout.Viewport
	texGen  int
}

// Scene is one mounted media wall.
type Scene struct {
	cfg     *latest.Ref[config.Gallery]
	gallery config.Gallery // last applied
	catalog *catalog.Catalog

	surf   surface.Surface
	scroll *scroll.Integrator
	cache  *texture.Cache
	loader *texture.Loader

	vp          layout.Viewport
	supersample int
	strips      int
	dim         float64
	bg          color.NRGBA

	fb     *raster.FrameBuffer
	cells  []layout.CellTransform
	mesh   []mathutil.Vec3
	texGen int
	last   frameKey
	drawn  bool
	closed bool
}

// New validates opts, acquires the surface and starts loading every catalog
// item. An invalid gallery yields a *config.ConfigError before the surface is
// acquired; a failed acquisition yields a *surface.AcquireError.
func New(ctx context.Context, opts Options) (*Scene, error) {
	ref := opts.Config
	if ref == nil {
		ref = latest.New(opts.Gallery)
	}
	g := ref.Get()
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if opts.Catalog == nil || opts.Catalog.Len() == 0 {
		return nil, catalog.ErrEmpty
	}
	if opts.Fetcher == nil {
		return nil, errors.New("scene: no media fetcher")
	}

	integ, err := scroll.New(g.ScrollSensitivity, g.Smoothing)
	if err != nil {
		return nil, err
	}

	surf, err := surface.Acquire(opts.Surface)
	if err != nil {
		return nil, err
	}

	s := &Scene{
		cfg:         ref,
		gallery:     g,
		catalog:     opts.Catalog,
		surf:        surf,
		scroll:      integ,
		supersample: max(opts.Supersample, 1),
		strips:      opts.Strips,
		dim:         mathutil.Clamp(opts.DepthDim, 0, 1),
		bg:          opts.Background,
	}
	if s.strips <= 0 {
		s.strips = 6
	}
	texSize := opts.TextureSize
	if texSize <= 0 {
		texSize = 512
	}

	size := surf.Size()
	s.vp = layout.Viewport{Width: size.Width, Height: size.Height}

	s.cache = texture.NewCache(opts.Fetcher, texSize)
	s.loader = texture.NewLoader(ctx, s.cache, opts.Workers)
	for _, it := range opts.Catalog.Items() {
		s.loader.Request(it.Src)
	}
	return s, nil
}

// Config returns the configuration reference read at the start of each Tick.
func (s *Scene) Config() *latest.Ref[config.Gallery] {
	return s.cfg
}

// Configure validates g and publishes it for the next Tick.
func (s *Scene) Configure(g config.Gallery) error {
	if s.closed {
		return ErrClosed
	}
	if err := g.Validate(); err != nil {
		return err
	}
	s.cfg.Set(g)
	return nil
}

// Scroll feeds a raw delta in device pixels to the integrator.
func (s *Scene) Scroll(dx, dy float64) {
	if s.closed {
		return
	}
	s.scroll.Push(dx, dy)
}

// Resize sets the viewport in device pixels. The next Tick lays out and
// projects against it.
func (s *Scene) Resize(width, height int) {
	if s.closed {
		return
	}
	s.vp = layout.Viewport{Width: width, Height: height}
}

// Offset returns the smoothed scroll offset in slots.
func (s *Scene) Offset() mathutil.Vec2 {
	return s.scroll.Current()
}

// Cells returns the transforms of the last drawn frame. The slice is reused
// by the next Tick.
func (s *Scene) Cells() []layout.CellTransform {
	return s.cells
}

// Pending returns how many catalog items are still loading.
func (s *Scene) Pending() int {
	if s.closed {
		return 0
	}
	return s.loader.Pending()
}

// WaitTextures blocks until every requested texture has loaded or failed.
// It must not be called from inside a frame callback.
func (s *Scene) WaitTextures(ctx context.Context) error {
	if s.closed {
		return ErrClosed
	}
	if err := s.loader.Wait(ctx); err != nil {
		return err
	}
	s.texGen++
	return nil
}

// Tick runs one frame: apply the latest configuration, pick up finished
// texture loads, advance the integrator, and redraw when anything visible
// changed. It reports whether a frame was presented.
func (s *Scene) Tick() (bool, error) {
	if s.closed {
		return false, ErrClosed
	}

	if g := s.cfg.Get(); g != s.gallery {
		// The last applied gallery stays in effect until a valid one arrives.
		if err := g.Validate(); err != nil {
			return false, err
		}
		if g.ScrollSensitivity != s.gallery.ScrollSensitivity || g.Smoothing != s.gallery.Smoothing {
			if err := s.scroll.SetParams(g.ScrollSensitivity, g.Smoothing); err != nil {
				return false, err
			}
		}
		s.gallery = g
	}
	if s.loader.Poll() > 0 {
		s.texGen++
	}

	s.scroll.Step()
	s.scroll.Rebase(mathutil.Vec2{float64(s.gallery.Columns), float64(s.gallery.Rows)}, rebaseLimit)

	if s.vp.Width <= 0 || s.vp.Height <= 0 {
		return false, nil
	}
	key := frameKey{offset: s.scroll.Current(), gallery: s.gallery, vp: s.vp, texGen: s.texGen}
	if s.drawn && key == s.last {
		return false, nil
	}

	if err := s.draw(); err != nil {
		return false, fmt.Errorf("scene: present: %w", err)
	}
	s.last, s.drawn = key, true
	return true, nil
}

// Close stops the loader, drops cached textures and releases the surface.
// It is safe to call more than once.
func (s *Scene) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.loader.Close()
	s.cache.Purge()
	s.fb = nil
	return s.surf.Release()
}

func (s *Scene) draw() error {
	g := s.gallery
	ss := s.supersample
	fbVP := layout.Viewport{Width: s.vp.Width * ss, Height: s.vp.Height * ss}
	if s.fb == nil || s.fb.Width != fbVP.Width || s.fb.Height != fbVP.Height {
		s.fb = raster.NewFrameBuffer(fbVP.Width, fbVP.Height)
	}
	s.fb.Clear(s.bg)

	s.cells = layout.Layout(s.cells, s.scroll.Current(), g, s.catalog.Len(), s.vp)
	cam := layout.NewCamera(g, fbVP)
	for _, c := range s.cells {
		tex, state := s.loader.Lookup(s.catalog.At(c.MediaIndex).Src)
		s.drawCell(cam, c, tex, state)
	}

	img := s.fb.Image()
	if ss > 1 {
		img = postprocess.Downsample(img, s.vp.Width, s.vp.Height)
	}
	return s.surf.Present(img)
}

// drawCell fills the cell's curved footprint strip by strip, top to bottom.
func (s *Scene) drawCell(cam layout.Camera, c layout.CellTransform, tex *image.NRGBA, state texture.State) {
	fill := loadingFill
	uv := raster.FullUV
	switch {
	case state == texture.Ready && tex != nil:
		b := tex.Bounds()
		uv = raster.CoverUV(b.Dx(), b.Dy(), c.Size[0], c.Size[1])
	case state == texture.Failed:
		fill = failedFill
		tex = nil
	default:
		tex = nil
	}

	s.mesh = c.Mesh(s.mesh[:0], s.gallery, s.strips)
	strips := len(s.mesh)/2 - 1
	for k := 0; k < strips; k++ {
		tl, tr := s.mesh[2*k], s.mesh[2*k+1]
		bl, br := s.mesh[2*k+2], s.mesh[2*k+3]
		v0 := mathutil.Lerp(uv.V0, uv.V1, float64(k)/float64(strips))
		v1 := mathutil.Lerp(uv.V0, uv.V1, float64(k+1)/float64(strips))

		quad := [4]raster.Vertex{
			vertex(cam, tl, uv.U0, v0),
			vertex(cam, tr, uv.U1, v0),
			vertex(cam, br, uv.U1, v1),
			vertex(cam, bl, uv.U0, v1),
		}
		shade := raster.DepthShade((tl[2]+bl[2])/2, cam.Distance, s.dim)
		raster.FillQuad(s.fb, quad, tex, fill, shade)
	}
}

func vertex(cam layout.Camera, p mathutil.Vec3, u, v float64) raster.Vertex {
	sp := cam.Project(p)
	return raster.Vertex{X: sp[0], Y: sp[1], Z: sp[2], U: u, V: v, Q: cam.ScaleAt(p[2])}
}
