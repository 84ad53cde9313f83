package texture

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Fetcher returns the encoded bytes of a media src.
type Fetcher interface {
	Fetch(ctx context.Context, src string) ([]byte, error)
}

// DirFetcher resolves src against a media root. Absolute paths and file://
// locators are read as-is; relative ones fall back to a case-insensitive
// lookup in Index when the exact path does not exist.
type DirFetcher struct {
	Root  string
	Index *Index // optional
}

// NewDirFetcher indexes root and returns a fetcher for it.
func NewDirFetcher(root string) *DirFetcher {
	return &DirFetcher{Root: root, Index: BuildIndex(root)}
}

// Fetch reads the file behind src.
func (f *DirFetcher) Fetch(ctx context.Context, src string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := strings.TrimPrefix(src, "file://")
	if !filepath.IsAbs(path) {
		path = filepath.Join(f.Root, filepath.FromSlash(path))
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && f.Index != nil {
		if alt, ok := f.Index.ResolvePath(src); ok {
			raw, err = os.ReadFile(alt)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("texture: read %s: %w", src, err)
	}
	return raw, nil
}
