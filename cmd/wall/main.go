package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	"os"
	"os/signal"

	"media-wall/internal/catalog"
	"media-wall/internal/config"
	"media-wall/internal/host"
	"media-wall/internal/latest"
	"media-wall/internal/layout"
	"media-wall/internal/scene"
	"media-wall/internal/texture"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config file (.json or .toml)")
	mediaDir := flag.String("media", "", "Media directory (default: auto-detect ./media)")
	manifest := flag.String("catalog", "", "Catalog manifest (default: scan the media directory)")
	width := flag.Int("width", 0, "Window width (default: 1280)")
	height := flag.Int("height", 0, "Window height (default: 720)")
	workers := flag.Int("workers", 0, "Texture loader goroutines (default: NumCPU)")

	flag.Parse()

	// Load config
	cfg := config.Default()
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	cfg.Resolve(config.Flags{
		MediaDir: *mediaDir,
		Catalog:  *manifest,
		Width:    *width,
		Height:   *height,
		Workers:  *workers,
	})

	if err := cfg.Gallery.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid gallery config:\n%v\n", err)
		os.Exit(1)
	}

	cat, err := catalog.Open(cfg.Catalog, cfg.MediaDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading catalog: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Media: %s (%d items)\n", cfg.MediaDir, cat.Len())
	fmt.Printf("Grid: %dx%d, curve depth %.2f over %.2f\n",
		cfg.Gallery.Columns, cfg.Gallery.Rows, cfg.Gallery.CurveDepth, cfg.Gallery.CurveWidth)
	if n := layout.Reachable(cfg.Gallery, cat.Len()); n < cat.Len() {
		fmt.Fprintf(os.Stderr, "Warning: catalog has %d items but the %dx%d grid shows only the first %d\n",
			cat.Len(), cfg.Gallery.Columns, cfg.Gallery.Rows, n)
	}

	gallery := latest.New(cfg.Gallery)

	var reload func() error
	if *configFile != "" {
		reload = func() error {
			next, err := config.Load(*configFile)
			if err != nil {
				return err
			}
			if err := next.Gallery.Validate(); err != nil {
				return err
			}
			gallery.Set(next.Gallery)
			fmt.Printf("Reloaded %s\n", *configFile)
			return nil
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	watchReload(ctx, reload)

	err = host.Run(ctx, host.Options{
		Title:  "Media Wall",
		Width:  cfg.Width,
		Height: cfg.Height,
		Scene: scene.Options{
			Config:      gallery,
			Catalog:     cat,
			Fetcher:     texture.NewDirFetcher(cfg.MediaDir),
			TextureSize: cfg.TextureSize,
			Workers:     cfg.Workers,
			Supersample: cfg.Supersample,
			Strips:      cfg.Strips,
			DepthDim:    cfg.DepthDim,
			Background:  color.NRGBA{R: 0x10, G: 0x11, B: 0x14, A: 0xff},
		},
		Reload: reload,
	})
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
