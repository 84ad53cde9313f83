package snapshot

import (
	"encoding/json"
	"os"
)

// ManifestEntry describes one written frame.
type ManifestEntry struct {
	Frame   int     `json:"frame"`
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`
	Image   string  `json:"image"`
}

// WriteManifest writes the successful results as a JSON array to path.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, 0, len(results))
	for _, r := range results {
		if !r.Success {
			continue
		}
		entries = append(entries, ManifestEntry{
			Frame:   r.Frame,
			OffsetX: r.Offset[0],
			OffsetY: r.Offset[1],
			Image:   r.Image,
		})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
