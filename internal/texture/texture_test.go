package texture

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func pngBytes(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

type memFetcher struct {
	mu    sync.Mutex
	files map[string][]byte
	calls map[string]int
	delay time.Duration
}

func newMemFetcher() *memFetcher {
	return &memFetcher{files: map[string][]byte{}, calls: map[string]int{}}
}

func (m *memFetcher) Fetch(ctx context.Context, src string) ([]byte, error) {
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[src]++
	raw, ok := m.files[src]
	if !ok {
		return nil, os.ErrNotExist
	}
	return raw, nil
}

func TestDecodePNGAndFit(t *testing.T) {
	raw := pngBytes(t, 200, 100, color.NRGBA{10, 20, 30, 255})
	img, err := Decode("a.png", raw, 64)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := img.Bounds(); got != image.Rect(0, 0, 64, 32) {
		t.Fatalf("bounds = %v, want 64x32", got)
	}
	if c := img.NRGBAAt(10, 10); c.R < 8 || c.R > 12 || c.A != 255 {
		t.Fatalf("unexpected color %v", c)
	}

	small, err := Decode("a.png", raw, 0)
	if err != nil {
		t.Fatal(err)
	}
	if small.Bounds().Dx() != 200 {
		t.Fatalf("maxSize 0 resized to %v", small.Bounds())
	}
}

func TestDecodeGarbage(t *testing.T) {
	for _, src := range []string{"x.png", "x.webp", "x.tga"} {
		if _, err := Decode(src, []byte("not an image"), 0); err == nil {
			t.Errorf("%s: expected decode error", src)
		}
	}
}

func TestCacheLoadsOnceAndCachesFailures(t *testing.T) {
	f := newMemFetcher()
	f.files["a.png"] = pngBytes(t, 4, 4, color.NRGBA{255, 0, 0, 255})
	c := NewCache(f, 0)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := c.Resolve(ctx, "a.png"); err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		_, err := c.Resolve(ctx, "missing.png")
		var le *LoadError
		if !errors.As(err, &le) || le.Src != "missing.png" {
			t.Fatalf("expected LoadError, got %v", err)
		}
	}
	if f.calls["a.png"] != 1 || f.calls["missing.png"] != 1 {
		t.Fatalf("unexpected fetch counts: %v", f.calls)
	}
	if c.Loads() != 2 || c.Len() != 2 {
		t.Fatalf("loads=%d len=%d", c.Loads(), c.Len())
	}

	c.Purge()
	if c.Len() != 0 {
		t.Fatal("purge kept entries")
	}
}

func TestDirFetcherResolvesCaseInsensitively(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "Covers"), 0755); err != nil {
		t.Fatal(err)
	}
	raw := pngBytes(t, 2, 2, color.NRGBA{1, 2, 3, 255})
	if err := os.WriteFile(filepath.Join(root, "Covers", "One.PNG"), raw, 0644); err != nil {
		t.Fatal(err)
	}

	f := NewDirFetcher(root)
	if f.Index.Len() != 1 {
		t.Fatalf("index len = %d", f.Index.Len())
	}
	ctx := context.Background()
	for _, src := range []string{"Covers/One.PNG", "covers/one.png", `covers\one.png`, "file://" + filepath.Join(root, "Covers", "One.PNG")} {
		got, err := f.Fetch(ctx, src)
		if err != nil {
			t.Fatalf("Fetch(%q): %v", src, err)
		}
		if !bytes.Equal(got, raw) {
			t.Fatalf("Fetch(%q) returned other bytes", src)
		}
	}
	if _, err := f.Fetch(ctx, "nope.png"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoaderPublishesReadyAndFailed(t *testing.T) {
	f := newMemFetcher()
	f.files["ok.png"] = pngBytes(t, 8, 8, color.NRGBA{0, 255, 0, 255})
	l := NewLoader(context.Background(), NewCache(f, 0), 2)
	defer l.Close()

	if _, st := l.Lookup("ok.png"); st != Unrequested {
		t.Fatalf("state = %v", st)
	}
	l.Request("ok.png")
	l.Request("bad.png")
	l.Request("ok.png")
	if l.Pending() != 2 {
		t.Fatalf("pending = %d, want 2", l.Pending())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := l.Wait(ctx); err != nil {
		t.Fatalf("Wait: %v", err)
	}

	img, st := l.Lookup("ok.png")
	if st != Ready || img == nil {
		t.Fatalf("ok.png: state %v img %v", st, img)
	}
	img, st = l.Lookup("bad.png")
	if st != Failed || img != nil {
		t.Fatalf("bad.png: state %v", st)
	}
	if f.calls["ok.png"] != 1 {
		t.Fatalf("ok.png fetched %d times", f.calls["ok.png"])
	}
}

func TestLoaderCloseStopsWorkers(t *testing.T) {
	f := newMemFetcher()
	f.delay = time.Second
	l := NewLoader(context.Background(), NewCache(f, 0), 1)
	l.Request("slow.png")

	done := make(chan struct{})
	go func() {
		l.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Close did not return")
	}
	if _, st := l.Lookup("slow.png"); st != Unrequested {
		t.Fatalf("closed loader still tracks src: %v", st)
	}
}
