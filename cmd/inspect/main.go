package main

import (
	"flag"
	"fmt"
	"os"

	"media-wall/internal/catalog"
	"media-wall/internal/config"
	"media-wall/internal/layout"
	"media-wall/internal/mathutil"
)

func main() {
	configFile := flag.String("config", "", "Path to config file (.json or .toml)")
	mediaDir := flag.String("media", "", "Media directory, used to name each cell's media")
	manifest := flag.String("catalog", "", "Catalog manifest")
	n := flag.Int("n", 0, "Catalog length when no catalog is given")
	x := flag.Float64("x", 0, "Scroll offset X, in slots")
	y := flag.Float64("y", 0, "Scroll offset Y, in slots")
	width := flag.Int("width", 0, "Viewport width (default: 1280)")
	height := flag.Int("height", 0, "Viewport height (default: 720)")
	strips := flag.Int("strips", 0, "Print the curved mesh with this many strips per cell")

	flag.Parse()

	cfg := config.Default()
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.Resolve(config.Flags{MediaDir: *mediaDir, Catalog: *manifest, Width: *width, Height: *height})

	g := cfg.Gallery
	if err := g.Validate(); err != nil {
		fmt.Printf("Invalid gallery config:\n%v\n", err)
		os.Exit(1)
	}

	var cat *catalog.Catalog
	count := *n
	if count <= 0 {
		var err error
		cat, err = catalog.Open(cfg.Catalog, cfg.MediaDir)
		if err != nil {
			fmt.Printf("Error: %v (use -n to inspect without a catalog)\n", err)
			os.Exit(1)
		}
		count = cat.Len()
	}

	vp := layout.Viewport{Width: cfg.Width, Height: cfg.Height}
	offset := mathutil.Vec2{*x, *y}
	cells := layout.Layout(nil, offset, g, count, vp)
	cam := layout.NewCamera(g, vp)
	slot := layout.SlotSize(g, vp)

	fmt.Printf("Viewport: %dx%d, Grid: %dx%d, Slot: %.3f x %.3f units, %.1f px/unit\n",
		vp.Width, vp.Height, g.Columns, g.Rows, slot[0], slot[1], cam.PixelsPerUnit)
	fmt.Printf("Offset: (%.3f, %.3f), Catalog: %d, Cells: %d\n", offset[0], offset[1], count, len(cells))
	fmt.Println("  slot      grid     world (x, y, z)              scale   screen (x, y)      media")
	for _, c := range cells {
		p := cam.Project(c.Position)
		name := fmt.Sprintf("#%d", c.MediaIndex)
		if cat != nil {
			name = fmt.Sprintf("#%d %s", c.MediaIndex, cat.At(c.MediaIndex).Src)
		}
		fmt.Printf("  (%2d,%2d)  (%2d,%2d)  (%7.3f, %7.3f, %7.3f)  %6.4f  (%7.1f, %7.1f)  %s\n",
			c.Slot[0], c.Slot[1], c.Grid.Column, c.Grid.Row,
			c.Position[0], c.Position[1], c.Position[2], c.Scale, p[0], p[1], name)

		if *strips > 0 {
			mesh := c.Mesh(nil, g, *strips)
			for k := 0; k < len(mesh); k += 2 {
				l, r := cam.Project(mesh[k]), cam.Project(mesh[k+1])
				fmt.Printf("      row %d: y=%.3f z=%.3f  screen x [%.1f .. %.1f] y %.1f\n",
					k/2, mesh[k][1], mesh[k][2], l[0], r[0], l[1])
			}
		}
	}
}
