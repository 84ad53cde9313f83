package texture

import (
	"os"
	"path/filepath"
	"strings"

	"media-wall/internal/catalog"
)

// Index maps lowercase slash-separated relative paths to filesystem paths,
// so manifests written on case-insensitive systems still resolve.
type Index struct {
	entries map[string]string // rel.lower() → full path
}

// BuildIndex scans root and its subdirectories for decodable media files.
func BuildIndex(root string) *Index {
	idx := &Index{entries: make(map[string]string)}

	filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || !catalog.IsMedia(path) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		key := strings.ToLower(filepath.ToSlash(rel))
		if _, exists := idx.entries[key]; !exists {
			idx.entries[key] = path
		}
		return nil
	})

	return idx
}

// ResolvePath returns the filesystem path for a media src, or ("", false).
func (idx *Index) ResolvePath(src string) (string, bool) {
	// Normalize separators (e.g., "covers\\a.JPG" → "covers/a.jpg")
	key := strings.ToLower(strings.TrimPrefix(strings.ReplaceAll(src, "\\", "/"), "./"))
	path, ok := idx.entries[key]
	return path, ok
}

// Len returns the number of indexed files.
func (idx *Index) Len() int {
	return len(idx.entries)
}
