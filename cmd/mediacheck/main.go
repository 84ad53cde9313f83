package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"media-wall/internal/catalog"
	"media-wall/internal/config"
	"media-wall/internal/texture"
)

func main() {
	configFile := flag.String("config", "", "Path to config file (.json or .toml)")
	mediaDir := flag.String("media", "", "Media directory (default: auto-detect ./media)")
	manifest := flag.String("catalog", "", "Catalog manifest to check (default: scan the media directory)")
	write := flag.String("write", "", "Write the scanned catalog as a JSON manifest to this path")

	flag.Parse()

	cfg := config.Default()
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.Resolve(config.Flags{MediaDir: *mediaDir, Catalog: *manifest})

	cat, err := catalog.Open(cfg.Catalog, cfg.MediaDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fetcher := texture.NewDirFetcher(cfg.MediaDir)
	cache := texture.NewCache(fetcher, cfg.TextureSize)
	fmt.Printf("Media: %s, %d items, %d files indexed\n", cfg.MediaDir, cat.Len(), fetcher.Index.Len())

	ctx := context.Background()
	start := time.Now()
	errors := 0
	for _, it := range cat.Items() {
		img, err := cache.Resolve(ctx, it.Src)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERR %4d %v\n", it.ID, err)
			errors++
			continue
		}
		fmt.Printf("OK  %4d %s  (%dx%d)\n", it.ID, it.Src, img.Bounds().Dx(), img.Bounds().Dy())
	}
	fmt.Printf("\nDecoded %d/%d in %.1fs\n", cat.Len()-errors, cat.Len(), time.Since(start).Seconds())

	if *write != "" {
		if err := catalog.WriteManifest(*write, cat); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing manifest: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Manifest: %s\n", *write)
	}

	if errors > 0 {
		fmt.Printf("Done with %d error(s).\n", errors)
		os.Exit(1)
	}
}
