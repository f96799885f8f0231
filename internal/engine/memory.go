package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tartampluch/go-celebrate/internal/config"
)

// MemoryItem is one photo of the gallery.
type MemoryItem struct {
	// ImageSource is the image path, relative to the assets directory unless absolute.
	ImageSource string `json:"src"`

	// Description is shown in the hover overlay.
	Description string `json:"description"`
}

// DefaultMemories is used when the assets directory carries no manifest.
var DefaultMemories = []MemoryItem{
	{ImageSource: "images/photo4.png", Description: "The photo Siddharth took from my phone while he lived with us."},
	{ImageSource: "images/photo2.png", Description: "Our Banaras trip. We had so much fun."},
	{ImageSource: "images/photo3.png", Description: "You were deep in thought searching for something, so I took this photo."},
	{ImageSource: "images/photo1.png", Description: "Remember when we went to college and sat in the garden."},
}

// LoadMemories reads the gallery manifest from the assets directory.
// A missing manifest yields DefaultMemories; a malformed one is an error.
// Relative image paths are resolved against assetsDir.
func LoadMemories(assetsDir string) ([]MemoryItem, error) {
	path := filepath.Join(assetsDir, config.MemoriesManifest)

	items := DefaultMemories
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		slog.Debug(config.MsgManifestDefault,
			config.LogKeyComponent, config.CompGallery,
			config.LogKeyFile, path)
	case err != nil:
		return nil, fmt.Errorf("%s: %w", config.ErrManifestRead, err)
	default:
		var parsed []MemoryItem
		if err := json.Unmarshal(data, &parsed); err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrManifestParse, err)
		}
		items = parsed
	}

	resolved := make([]MemoryItem, len(items))
	for i, it := range items {
		if !filepath.IsAbs(it.ImageSource) {
			it.ImageSource = filepath.Join(assetsDir, filepath.FromSlash(it.ImageSource))
		}
		resolved[i] = it
	}
	return resolved, nil
}
