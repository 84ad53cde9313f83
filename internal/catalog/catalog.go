package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"media-wall/internal/mathutil"

	"github.com/pelletier/go-toml/v2"
)

// ErrEmpty is returned when a catalog would hold no items.
var ErrEmpty = errors.New("catalog: no media items")

// Catalog is the ordered, fixed-length list of media seeding the grid.
// Grid addressing wraps, so the catalog repeats seamlessly.
type Catalog struct {
	items []Item
}

// New validates items and returns a Catalog owning a copy of them.
func New(items []Item) (*Catalog, error) {
	if len(items) == 0 {
		return nil, ErrEmpty
	}
	seen := make(map[int]bool, len(items))
	for i, it := range items {
		if it.Src == "" {
			return nil, fmt.Errorf("catalog: item %d (id %d) has no src", i, it.ID)
		}
		if seen[it.ID] {
			return nil, fmt.Errorf("catalog: duplicate id %d", it.ID)
		}
		seen[it.ID] = true
	}
	return &Catalog{items: append([]Item(nil), items...)}, nil
}

// Len returns the number of items.
func (c *Catalog) Len() int {
	return len(c.items)
}

// At returns the item for any index, wrapping into [0, Len).
func (c *Catalog) At(index int) Item {
	return c.items[mathutil.WrapInt(0, len(c.items), index)]
}

// Items returns a copy of the items in order.
func (c *Catalog) Items() []Item {
	return append([]Item(nil), c.items...)
}

// tomlManifest matches the TOML manifest schema: [[item]] tables.
type tomlManifest struct {
	Items []Item `toml:"item"`
}

// Load reads a manifest (JSON array or TOML [[item]] tables, chosen by extension).
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}

	var items []Item
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		var m tomlManifest
		err = toml.Unmarshal(raw, &m)
		items = m.Items
	} else {
		err = json.Unmarshal(raw, &items)
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}

	c, err := New(items)
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", path, err)
	}
	return c, nil
}

// mediaExts lists the extensions the texture loader can decode.
var mediaExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true, ".tga": true,
}

// IsMedia reports whether path has a decodable media extension.
func IsMedia(path string) bool {
	return mediaExts[strings.ToLower(filepath.Ext(path))]
}

// Scan walks dir for media files and returns them sorted by relative path,
// with ids numbered from 1. Src values are relative to dir, slash-separated.
func Scan(dir string) (*Catalog, error) {
	var rels []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsMedia(path) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rels = append(rels, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: scan %s: %w", dir, err)
	}

	sort.Strings(rels)
	items := make([]Item, len(rels))
	for i, rel := range rels {
		items[i] = Item{ID: i + 1, Src: rel}
	}

	c, err := New(items)
	if err != nil {
		return nil, fmt.Errorf("catalog: scan %s: %w", dir, err)
	}
	return c, nil
}

// WriteManifest writes the catalog as an indented JSON manifest.
func WriteManifest(path string, c *Catalog) error {
	data, err := json.MarshalIndent(c.items, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Open loads the manifest at path when one is given, otherwise scans dir.
func Open(manifest, dir string) (*Catalog, error) {
	if manifest != "" {
		return Load(manifest)
	}
	if dir == "" {
		return nil, errors.New("catalog: no manifest and no media directory")
	}
	return Scan(dir)
}
