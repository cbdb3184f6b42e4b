package tiled

import (
	"fmt"
	"path"
	"strconv"
	"strings"
)

// TileSetRef is a map's reference to an external tileset.
type TileSetRef struct {
	FirstGID GID    `json:"firstgid"`
	Source   string `json:"source"`
}

// Basename returns the source file name without any directory, so references
// written on different machines compare equal.
func (r TileSetRef) Basename() string {
	return Basename(r.Source)
}

// Basename strips both slash and backslash separated directories.
func Basename(source string) string {
	return path.Base(strings.ReplaceAll(source, `\`, "/"))
}

// TileSet is an external tileset file.
type TileSet struct {
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	Image       string `json:"image,omitempty"`
	ImageWidth  int    `json:"imagewidth,omitempty"`
	ImageHeight int    `json:"imageheight,omitempty"`
	Margin      int    `json:"margin"`
	Spacing     int    `json:"spacing"`
	Columns     int    `json:"columns"`
	TileCount   int    `json:"tilecount"`
	TileWidth   int    `json:"tilewidth"`
	TileHeight  int    `json:"tileheight"`
	Tiles       []Tile `json:"tiles,omitempty"`
}

// Tile carries the per-tile metadata of a tileset.
type Tile struct {
	ID         int        `json:"id"`
	Properties []Property `json:"properties,omitempty"`
}

// Property looks up a tile property by name.
func (t Tile) Property(name string) (Property, bool) {
	return findProperty(t.Properties, name)
}

// Cell returns the column and row of a local tile id.
func (ts *TileSet) Cell(id int) (col, row int) {
	if ts.Columns <= 0 {
		return id, 0
	}
	return id % ts.Columns, id / ts.Columns
}

// Property is a name/type/value triple. Value keeps whatever JSON produced
// (string, bool, float64).
type Property struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// String renders the value the way it would appear in the editor.
func (p Property) String() string {
	switch v := p.Value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// Bool interprets the value as a boolean. Strings are parsed.
func (p Property) Bool() (bool, error) {
	switch v := p.Value.(type) {
	case bool:
		return v, nil
	case string:
		return strconv.ParseBool(v)
	default:
		return false, fmt.Errorf("property %q: %v is not a bool", p.Name, p.Value)
	}
}

func findProperty(props []Property, name string) (Property, bool) {
	for _, p := range props {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}
