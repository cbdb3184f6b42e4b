// Package content loads room templates, tilesets, blueprints and solved
// layouts from a filesystem.
package content

import (
	"encoding/json"
	"fmt"
	"io/fs"
)

// File name suffixes recognised when scanning a content directory.
const (
	TemplateSuffix = ".tilemap.json"
	TileSetSuffix  = ".tileset.json"
	LayoutSuffix   = ".layout.json"
	BlueprintsFile = "blueprints.json"
)

// Load reads and unmarshals a JSON file from fsys.
func Load[T any](fsys fs.FS, filename string) (T, error) {
	var result T

	content, err := fs.ReadFile(fsys, filename)
	if err != nil {
		return result, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	if err := json.Unmarshal(content, &result); err != nil {
		return result, fmt.Errorf("failed to parse JSON from %s: %w", filename, err)
	}

	return result, nil
}

// MustLoad reads and unmarshals a JSON file, panicking on error.
func MustLoad[T any](fsys fs.FS, filename string) T {
	result, err := Load[T](fsys, filename)
	if err != nil {
		panic(err)
	}
	return result
}
