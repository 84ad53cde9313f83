package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config holds all configurable paths and render settings.
type Config struct {
	// Paths
	MediaDir  string `json:"media_dir" toml:"media_dir"`
	Catalog   string `json:"catalog" toml:"catalog"`
	OutputDir string `json:"output_dir" toml:"output_dir"`

	// Render settings
	Width       int     `json:"width" toml:"width"`
	Height      int     `json:"height" toml:"height"`
	Supersample int     `json:"supersample" toml:"supersample"`
	TextureSize int     `json:"texture_size" toml:"texture_size"`
	Strips      int     `json:"strips" toml:"strips"`
	DepthDim    float64 `json:"depth_dim" toml:"depth_dim"`
	Workers     int     `json:"workers" toml:"workers"`

	Gallery Gallery `json:"gallery" toml:"gallery"`
}

// Default returns a Config whose gallery holds DefaultGallery and whose
// other fields are left for Resolve.
func Default() Config {
	return Config{Gallery: DefaultGallery()}
}

// Load reads a JSON or TOML config file (chosen by extension) and returns Config.
// Gallery fields missing from the file keep their DefaultGallery values; fields
// set explicitly, even to zero, are kept so Validate can reject them.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, &cfg)
	} else {
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Resolve fills in any empty fields with auto-detected defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.MediaDir != "" {
		c.MediaDir = flags.MediaDir
	}
	if flags.Catalog != "" {
		c.Catalog = flags.Catalog
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	// Auto-detect media dir if still empty
	if c.MediaDir == "" {
		c.MediaDir = detectMediaDir()
	}

	// Resolve relative paths against media dir
	if c.MediaDir != "" {
		if c.Catalog != "" && !filepath.IsAbs(c.Catalog) {
			c.Catalog = filepath.Join(c.MediaDir, c.Catalog)
		}
		if c.OutputDir == "" {
			c.OutputDir = filepath.Join(c.MediaDir, "..", "wall-frames")
		}
	}

	// Defaults for render settings
	if c.Width <= 0 {
		c.Width = 1280
	}
	if c.Height <= 0 {
		c.Height = 720
	}
	if c.Supersample <= 0 {
		c.Supersample = 1
	}
	if c.TextureSize <= 0 {
		c.TextureSize = 512
	}
	if c.Strips <= 0 {
		c.Strips = 6
	}
	if c.DepthDim <= 0 {
		c.DepthDim = 0.35
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}

	if c.Gallery == (Gallery{}) {
		c.Gallery = DefaultGallery()
	}
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	MediaDir  string
	Catalog   string
	OutputDir string
	Width     int
	Height    int
	Workers   int
}

func detectMediaDir() string {
	// Try relative to executable
	exe, _ := os.Executable()
	if exe != "" {
		dir := filepath.Dir(exe)
		for _, base := range []string{dir, filepath.Dir(dir)} {
			if isDir(filepath.Join(base, "media")) {
				return filepath.Join(base, "media")
			}
		}
	}

	// Try current working directory
	cwd, _ := os.Getwd()
	if isDir(filepath.Join(cwd, "media")) {
		return filepath.Join(cwd, "media")
	}

	return ""
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
