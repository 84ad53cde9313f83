// Package snapshot plays a scripted scroll through a scene on an offscreen
// surface and writes the frames as WebP files.
package snapshot

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"media-wall/internal/mathutil"
	"media-wall/internal/scene"
	"media-wall/internal/surface"

	"github.com/HugoSmits86/nativewebp"
)

// Plan is the scripted scroll: Velocity device pixels are pushed before every
// frame, and every Every-th frame is kept.
type Plan struct {
	Frames   int
	Velocity mathutil.Vec2
	Every    int
}

// Config holds the output settings for a run.
type Config struct {
	OutputDir string
	Workers   int
	Progress  bool // print throughput every two seconds
}

// Result holds the outcome of one kept frame.
type Result struct {
	Frame   int
	Offset  mathutil.Vec2
	Image   string // path relative to OutputDir
	Success bool
	Error   string
}

type job struct {
	idx    int
	frame  int
	offset mathutil.Vec2
	img    *image.NRGBA
}

// Run ticks sc plan.Frames times on the calling goroutine and encodes the
// kept frames on a worker pool. surf must be the surface sc presents to.
// The returned error covers cancellation and scene failures; per-frame
// encode failures are reported in the results.
func Run(ctx context.Context, sc *scene.Scene, surf *surface.Offscreen, plan Plan, cfg Config) ([]Result, error) {
	every := max(plan.Every, 1)
	workers := max(cfg.Workers, 1)
	total := (plan.Frames + every - 1) / every
	results := make([]Result, total)
	var processed atomic.Int64

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	if cfg.Progress {
		go func() {
			ticker := time.NewTicker(2 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					p := processed.Load()
					if p > 0 {
						elapsed := time.Since(start).Seconds()
						rate := float64(p) / elapsed
						fmt.Printf("  [%d/%d] %.1f frames/sec\n", p, total, rate)
					}
				}
			}
		}()
	}

	// Worker pool
	jobs := make(chan job, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results[j.idx] = encodeFrame(cfg.OutputDir, j)
				processed.Add(1)
			}
		}()
	}

	// Render and send work
	var runErr error
	kept := 0
	for f := 0; f < plan.Frames; f++ {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		sc.Scroll(plan.Velocity[0], plan.Velocity[1])
		if _, err := sc.Tick(); err != nil {
			runErr = err
			break
		}
		if f%every != 0 {
			continue
		}

		j := job{idx: kept, frame: f, offset: sc.Offset(), img: surf.Frame()}
		kept++
		if j.img == nil {
			results[j.idx] = Result{Frame: f, Offset: j.offset, Error: "no frame presented"}
			continue
		}
		jobs <- j
	}
	close(jobs)

	wg.Wait()
	close(done)

	return results[:kept], runErr
}

func frameName(frame int) string {
	return fmt.Sprintf("frame_%05d.webp", frame)
}

func encodeFrame(dir string, j job) Result {
	res := Result{Frame: j.frame, Offset: j.offset, Image: frameName(j.frame)}

	f, err := os.Create(filepath.Join(dir, res.Image))
	if err != nil {
		res.Error = err.Error()
		return res
	}
	defer f.Close()

	if err := nativewebp.Encode(f, j.img, nil); err != nil {
		res.Error = fmt.Sprintf("WebP encode: %v", err)
		return res
	}

	res.Success = true
	return res
}
