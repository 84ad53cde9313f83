package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"media-wall/internal/catalog"
	"media-wall/internal/config"
	"media-wall/internal/layout"
	"media-wall/internal/mathutil"
	"media-wall/internal/scene"
	"media-wall/internal/snapshot"
	"media-wall/internal/surface"
	"media-wall/internal/texture"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run returns the exit code so deferred cleanup runs before main exits.
func run(args []string) int {
	// CLI flags
	fs := flag.NewFlagSet("snapshot", flag.ContinueOnError)
	configFile := fs.String("config", "", "Path to config file (.json or .toml)")
	mediaDir := fs.String("media", "", "Media directory (default: auto-detect ./media)")
	manifest := fs.String("catalog", "", "Catalog manifest (default: scan the media directory)")
	outputDir := fs.String("output", "", "Output directory (default: <media>/../wall-frames)")
	width := fs.Int("width", 0, "Frame width (default: 1280)")
	height := fs.Int("height", 0, "Frame height (default: 720)")
	workers := fs.Int("workers", 0, "Encoder and loader goroutines (default: NumCPU)")
	frames := fs.Int("frames", 120, "Number of frames to play")
	every := fs.Int("every", 1, "Write every Nth frame")
	vx := fs.Float64("vx", 0, "Horizontal scroll per frame, device pixels")
	vy := fs.Float64("vy", 30, "Vertical scroll per frame, device pixels")
	loadTimeout := fs.Duration("load-timeout", 30*time.Second, "Max time to wait for media before rendering")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	// Load config
	cfg := config.Default()
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			return 1
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		MediaDir:  *mediaDir,
		Catalog:   *manifest,
		OutputDir: *outputDir,
		Width:     *width,
		Height:    *height,
		Workers:   *workers,
	})

	if cfg.OutputDir == "" {
		fmt.Fprintln(os.Stderr, "Error: no output directory. Use -output, -media or a config file.")
		return 1
	}

	cat, err := catalog.Open(cfg.Catalog, cfg.MediaDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading catalog: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	surf := surface.NewOffscreen(cfg.Width, cfg.Height)
	sc, err := scene.New(ctx, scene.Options{
		Gallery:     cfg.Gallery,
		Catalog:     cat,
		Surface:     func() (surface.Surface, error) { return surf, nil },
		Fetcher:     texture.NewDirFetcher(cfg.MediaDir),
		TextureSize: cfg.TextureSize,
		Workers:     cfg.Workers,
		Supersample: cfg.Supersample,
		Strips:      cfg.Strips,
		DepthDim:    cfg.DepthDim,
		Background:  color.NRGBA{R: 0x10, G: 0x11, B: 0x14, A: 0xff},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer sc.Close()

	if n := layout.Reachable(cfg.Gallery, cat.Len()); n < cat.Len() {
		fmt.Fprintf(os.Stderr, "Warning: catalog has %d items but the %dx%d grid shows only the first %d\n",
			cat.Len(), cfg.Gallery.Columns, cfg.Gallery.Rows, n)
	}

	fmt.Printf("Media Wall snapshot → WebP\n")
	fmt.Printf("Media: %d items, Frames: %d (every %d), Size: %dx%d, Workers: %d\n",
		cat.Len(), *frames, *every, cfg.Width, cfg.Height, cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	loadCtx, cancel := context.WithTimeout(ctx, *loadTimeout)
	if err := sc.WaitTextures(loadCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %d media still loading: %v\n", sc.Pending(), err)
	}
	cancel()

	start := time.Now()

	results, err := snapshot.Run(ctx, sc, surf, snapshot.Plan{
		Frames:   *frames,
		Velocity: mathutil.Vec2{*vx, *vy},
		Every:    *every,
	}, snapshot.Config{
		OutputDir: cfg.OutputDir,
		Workers:   cfg.Workers,
		Progress:  true,
	})

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Stopped early: %v\n", err)
	}

	// Count results
	success, failed := 0, 0
	var failures []snapshot.Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
			failures = append(failures, r)
		}
	}

	fmt.Printf("Written: %d/%d\n", success, len(results))

	if len(failures) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		for _, f := range failures[:min(len(failures), 20)] {
			fmt.Printf("  frame %d: %s\n", f.Frame, f.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := snapshot.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 || err != nil {
		return 1
	}
}
