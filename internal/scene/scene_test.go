package scene

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"sync"
	"testing"

	"media-wall/internal/catalog"
	"media-wall/internal/config"
	"media-wall/internal/surface"
)

type countingFetcher struct {
	mu    sync.Mutex
	files map[string][]byte
	calls map[string]int
}

func (f *countingFetcher) Fetch(ctx context.Context, src string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[src]++
	raw, ok := f.files[src]
	if !ok {
		return nil, os.ErrNotExist
	}
	return raw, nil
}

func (f *countingFetcher) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func solidPNG(t *testing.T, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func testGallery() config.Gallery {
	g := config.DefaultGallery()
	g.Columns, g.Rows = 2, 2
	g.CurveDepth = 0
	return g
}

type fixture struct {
	scene    *Scene
	surf     *surface.Offscreen
	fetcher  *countingFetcher
	acquired int
}

func newFixture(t *testing.T, g config.Gallery, srcs ...string) *fixture {
	t.Helper()
	fx := &fixture{
		surf: surface.NewOffscreen(64, 48),
		fetcher: &countingFetcher{
			files: map[string][]byte{
				"red.png":  solidPNG(t, color.NRGBA{255, 0, 0, 255}),
				"blue.png": solidPNG(t, color.NRGBA{0, 0, 255, 255}),
			},
			calls: map[string]int{},
		},
	}
	items := make([]catalog.Item, len(srcs))
	for i, src := range srcs {
		items[i] = catalog.Item{ID: i + 1, Src: src}
	}
	cat, err := catalog.New(items)
	if err != nil {
		t.Fatal(err)
	}

	s, err := New(context.Background(), Options{
		Gallery: g,
		Catalog: cat,
		Surface: func() (surface.Surface, error) {
			fx.acquired++
			return fx.surf, nil
		},
		Fetcher:     fx.fetcher,
		TextureSize: 16,
		Workers:     2,
		Strips:      2,
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	fx.scene = s
	return fx
}

func TestNewInvalidConfigNeverAcquires(t *testing.T) {
	for _, smoothing := range []float64{0, 1, 1.5} {
		g := testGallery()
		g.Smoothing = smoothing
		acquired := false
		cat, _ := catalog.New([]catalog.Item{{ID: 1, Src: "a.png"}})

		_, err := New(context.Background(), Options{
			Gallery: g,
			Catalog: cat,
			Surface: func() (surface.Surface, error) {
				acquired = true
				return surface.NewOffscreen(4, 4), nil
			},
			Fetcher: &countingFetcher{calls: map[string]int{}},
		})

		var ce *config.ConfigError
		if !errors.As(err, &ce) {
			t.Fatalf("smoothing=%g: err = %v, want *config.ConfigError", smoothing, err)
		}
		if acquired {
			t.Fatalf("smoothing=%g: surface acquired for invalid config", smoothing)
		}
	}
}

func TestNewEmptyCatalog(t *testing.T) {
	_, err := New(context.Background(), Options{
		Gallery: testGallery(),
		Surface: func() (surface.Surface, error) {
			t.Fatal("surface acquired for empty catalog")
			return nil, nil
		},
		Fetcher: &countingFetcher{calls: map[string]int{}},
	})
	if !errors.Is(err, catalog.ErrEmpty) {
		t.Fatalf("err = %v", err)
	}
}

func TestNewAcquireFailure(t *testing.T) {
	cat, _ := catalog.New([]catalog.Item{{ID: 1, Src: "a.png"}})
	_, err := New(context.Background(), Options{
		Gallery: testGallery(),
		Catalog: cat,
		Surface: func() (surface.Surface, error) { return nil, errors.New("no display") },
		Fetcher: &countingFetcher{calls: map[string]int{}},
	})
	var ae *surface.AcquireError
	if !errors.As(err, &ae) {
		t.Fatalf("err = %v, want *surface.AcquireError", err)
	}
}

func TestSettledSceneSkipsRedraw(t *testing.T) {
	fx := newFixture(t, testGallery(), "red.png")
	if err := fx.scene.WaitTextures(context.Background()); err != nil {
		t.Fatal(err)
	}

	drew, err := fx.scene.Tick()
	if err != nil || !drew {
		t.Fatalf("first tick = %v, %v", drew, err)
	}
	drew, err = fx.scene.Tick()
	if err != nil || drew {
		t.Fatalf("settled tick = %v, %v; want no redraw", drew, err)
	}
	if fx.surf.Frames() != 1 {
		t.Fatalf("frames = %d", fx.surf.Frames())
	}
	if n := len(fx.scene.Cells()); n != 16 {
		t.Fatalf("cells = %d, want (2+2)*(2+2)", n)
	}
}

func TestScrollMovesOffsetAndRedraws(t *testing.T) {
	fx := newFixture(t, testGallery(), "red.png", "blue.png")
	if _, err := fx.scene.Tick(); err != nil {
		t.Fatal(err)
	}

	fx.scene.Scroll(200, 0)
	drew, err := fx.scene.Tick()
	if err != nil || !drew {
		t.Fatalf("tick after scroll = %v, %v", drew, err)
	}
	// One step covers smoothing of the target 200 * 0.005 = 1 slot.
	if got := fx.scene.Offset()[0]; got < 0.099 || got > 0.101 {
		t.Fatalf("offset x = %g, want 0.1", got)
	}
}

func TestCurveDepthReloadKeepsTextures(t *testing.T) {
	fx := newFixture(t, testGallery(), "red.png", "blue.png")
	if err := fx.scene.WaitTextures(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := fx.scene.Tick(); err != nil {
		t.Fatal(err)
	}
	fetches := fx.fetcher.total()
	if fetches != 2 {
		t.Fatalf("fetches = %d, want 2", fetches)
	}

	g := testGallery()
	g.CurveDepth = 2
	if err := fx.scene.Configure(g); err != nil {
		t.Fatal(err)
	}
	drew, err := fx.scene.Tick()
	if err != nil || !drew {
		t.Fatalf("tick after reload = %v, %v", drew, err)
	}
	if got := fx.fetcher.total(); got != fetches {
		t.Fatalf("reload refetched media: %d fetches, want %d", got, fetches)
	}

	curved := false
	for _, c := range fx.scene.Cells() {
		if c.DepthOffset < 0 {
			curved = true
		}
	}
	if !curved {
		t.Fatal("new curve_depth not applied")
	}
}

func TestConfigureRejectsInvalid(t *testing.T) {
	fx := newFixture(t, testGallery(), "red.png")
	g := testGallery()
	g.CurveWidth = 0
	var ce *config.ConfigError
	if err := fx.scene.Configure(g); !errors.As(err, &ce) {
		t.Fatalf("err = %v", err)
	}
	if fx.scene.Config().Get() != testGallery() {
		t.Fatal("invalid config was published")
	}
}

func TestFailedMediaRendersPlaceholder(t *testing.T) {
	fx := newFixture(t, testGallery(), "missing.png")
	if err := fx.scene.WaitTextures(context.Background()); err != nil {
		t.Fatal(err)
	}
	drew, err := fx.scene.Tick()
	if err != nil || !drew {
		t.Fatalf("tick = %v, %v", drew, err)
	}
	// Center of the top-left slot of a 2x2 grid on 64x48.
	if got := fx.surf.Frame().NRGBAAt(16, 12); got != failedFill {
		t.Fatalf("pixel = %v, want failure placeholder %v", got, failedFill)
	}
}

func TestReadyMediaIsDrawn(t *testing.T) {
	fx := newFixture(t, testGallery(), "red.png")
	if err := fx.scene.WaitTextures(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := fx.scene.Tick(); err != nil {
		t.Fatal(err)
	}
	got := fx.surf.Frame().NRGBAAt(48, 36)
	if got.R < 250 || got.G > 5 || got.B > 5 {
		t.Fatalf("pixel = %v, want red", got)
	}
}

func TestTickAfterClose(t *testing.T) {
	fx := newFixture(t, testGallery(), "red.png")
	if err := fx.scene.Close(); err != nil {
		t.Fatal(err)
	}
	if err := fx.scene.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if !fx.surf.Released() {
		t.Fatal("surface not released")
	}

	if _, err := fx.scene.Tick(); !errors.Is(err, ErrClosed) {
		t.Fatalf("tick after close: %v", err)
	}
	fx.scene.Scroll(10, 10)
	if fx.scene.Offset() != fx.scene.scroll.Target() {
		t.Fatal("scroll applied after close")
	}
}

func TestResizeRelayouts(t *testing.T) {
	fx := newFixture(t, testGallery(), "red.png")
	if _, err := fx.scene.Tick(); err != nil {
		t.Fatal(err)
	}
	w0 := fx.scene.Cells()[0].Size[0]

	fx.surf.Resize(96, 48)
	fx.scene.Resize(96, 48)
	drew, err := fx.scene.Tick()
	if err != nil || !drew {
		t.Fatalf("tick after resize = %v, %v", drew, err)
	}
	if w1 := fx.scene.Cells()[0].Size[0]; w1 <= w0 {
		t.Fatalf("slot width %g after widening, was %g", w1, w0)
	}
}

func TestInvalidRefValueFailsTick(t *testing.T) {
	tests := []struct {
		name string
		edit func(*config.Gallery)
	}{
		{"smoothing", func(g *config.Gallery) { g.Smoothing = 2 }},
		{"columns", func(g *config.Gallery) { g.Columns = 0 }},
		{"rows", func(g *config.Gallery) { g.Rows = -1 }},
		{"curve_width", func(g *config.Gallery) { g.CurveWidth = 0 }},
		{"gap", func(g *config.Gallery) { g.Gap = 1 }},
		{"camera_distance", func(g *config.Gallery) { g.CameraDistance = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture(t, testGallery(), "red.png")
			if _, err := fx.scene.Tick(); err != nil {
				t.Fatal(err)
			}
			cells := len(fx.scene.Cells())

			g := testGallery()
			tt.edit(&g)
			fx.scene.Config().Set(g)

			var ce *config.ConfigError
			if _, err := fx.scene.Tick(); !errors.As(err, &ce) {
				t.Fatalf("err = %v, want *config.ConfigError", err)
			}
			if ce.Field != tt.name {
				t.Fatalf("field = %q, want %q", ce.Field, tt.name)
			}
			if fx.scene.gallery != testGallery() {
				t.Fatal("invalid gallery was applied")
			}
			if n := len(fx.scene.Cells()); n != cells {
				t.Fatalf("cells changed to %d after rejected gallery", n)
			}
		})
	}
}
