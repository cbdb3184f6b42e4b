// Package tiled models maps and tilesets in the Tiled editor's JSON format
// (orthogonal orientation, right-down render order).
package tiled

import (
	"fmt"
	"math"

	"github.com/samdwyer/dungenmap/internal/geom"
)

// LayerType distinguishes tile, object and group layers.
type LayerType string

const (
	TileLayer   LayerType = "tilelayer"
	ObjectGroup LayerType = "objectgroup"
	GroupLayer  LayerType = "group"
)

// Map is a Tiled map. Width and Height are in tiles, TileWidth and TileHeight
// in pixels.
type Map struct {
	Type             string       `json:"type"`
	Orientation      string       `json:"orientation"`
	RenderOrder      string       `json:"renderorder"`
	Width            int          `json:"width"`
	Height           int          `json:"height"`
	TileWidth        int          `json:"tilewidth"`
	TileHeight       int          `json:"tileheight"`
	Infinite         bool         `json:"infinite"`
	CompressionLevel int          `json:"compressionlevel"`
	NextLayerID      int          `json:"nextlayerid"`
	NextObjectID     int          `json:"nextobjectid"`
	Layers           []*Layer     `json:"layers"`
	TileSets         []TileSetRef `json:"tilesets"`
	Properties       []Property   `json:"properties,omitempty"`
}

// Layer is a tile layer, an object layer or a group of layers.
type Layer struct {
	ID         int        `json:"id"`
	Name       string     `json:"name"`
	Type       LayerType  `json:"type"`
	X          int        `json:"x"`
	Y          int        `json:"y"`
	Width      int        `json:"width,omitempty"`
	Height     int        `json:"height,omitempty"`
	Visible    bool       `json:"visible"`
	Opacity    float64    `json:"opacity"`
	Data       []GID      `json:"data,omitempty"`
	Objects    []*Object  `json:"objects,omitempty"`
	DrawOrder  string     `json:"draworder,omitempty"`
	Layers     []*Layer   `json:"layers,omitempty"`
	Properties []Property `json:"properties,omitempty"`
}

// Object is a free-form placed object in an object layer.
type Object struct {
	ID         int        `json:"id"`
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	Rotation   float64    `json:"rotation"`
	Visible    bool       `json:"visible"`
	Point      bool       `json:"point,omitempty"`
	Ellipse    bool       `json:"ellipse,omitempty"`
	Polygon    []Point    `json:"polygon,omitempty"`
	GID        GID        `json:"gid,omitempty"`
	Properties []Property `json:"properties,omitempty"`
}

// Point is a polygon vertex relative to its object.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewMap creates an empty orthogonal map. Every dimension must be positive.
func NewMap(width, height, tileWidth, tileHeight int) (*Map, error) {
	if width <= 0 || height <= 0 || tileWidth <= 0 || tileHeight <= 0 {
		return nil, fmt.Errorf("%w: map %dx%d with %dx%d px tiles: dimensions must be positive",
			ErrValidation, width, height, tileWidth, tileHeight)
	}
	return &Map{
		Type:             "map",
		Orientation:      "orthogonal",
		RenderOrder:      "right-down",
		Width:            width,
		Height:           height,
		TileWidth:        tileWidth,
		TileHeight:       tileHeight,
		CompressionLevel: -1,
		NextLayerID:      1,
		NextObjectID:     1,
		Layers:           make([]*Layer, 0),
		TileSets:         make([]TileSetRef, 0),
	}, nil
}

// NewTileLayer creates a width*height tile layer with every cell set to fill.
func NewTileLayer(id int, name string, width, height int, fill GID) *Layer {
	data := make([]GID, width*height)
	for i := range data {
		data[i] = fill
	}
	return &Layer{
		ID:      id,
		Name:    name,
		Type:    TileLayer,
		Width:   width,
		Height:  height,
		Visible: true,
		Opacity: 1,
		Data:    data,
	}
}

// NewObjectLayer creates an empty object layer.
func NewObjectLayer(id int, name string, drawOrder string) *Layer {
	return &Layer{
		ID:        id,
		Name:      name,
		Type:      ObjectGroup,
		Visible:   true,
		Opacity:   1,
		Objects:   make([]*Object, 0),
		DrawOrder: drawOrder,
	}
}

// PixelWidth returns the map width in pixels.
func (m *Map) PixelWidth() int { return m.Width * m.TileWidth }

// PixelHeight returns the map height in pixels.
func (m *Map) PixelHeight() int { return m.Height * m.TileHeight }

// TilePosition returns the pixel position of the top-left corner of the tile
// at index.
func (m *Map) TilePosition(index int) geom.Vec2 {
	col := index % m.Width
	row := index / m.Width
	return geom.V(float64(col*m.TileWidth), float64(row*m.TileHeight))
}

// TileIndexAt returns the index of the tile containing the pixel position,
// and false when the position lies outside the map.
func (m *Map) TileIndexAt(pos geom.Vec2) (int, bool) {
	col := int(math.Floor(pos.X / float64(m.TileWidth)))
	row := int(math.Floor(pos.Y / float64(m.TileHeight)))
	if col < 0 || col >= m.Width || row < 0 || row >= m.Height {
		return 0, false
	}
	return row*m.Width + col, true
}

// FirstTileLayer returns the first top-level tile layer, or nil.
func (m *Map) FirstTileLayer() *Layer {
	for _, l := range m.Layers {
		if l.Type == TileLayer {
			return l
		}
	}
	return nil
}

// Property returns the named map property.
func (m *Map) Property(name string) (Property, bool) {
	return findProperty(m.Properties, name)
}

// SetProperty adds or replaces a string map property.
func (m *Map) SetProperty(name, value string) {
	for i := range m.Properties {
		if m.Properties[i].Name == name {
			m.Properties[i] = Property{Name: name, Type: "string", Value: value}
			return
		}
	}
	m.Properties = append(m.Properties, Property{Name: name, Type: "string", Value: value})
}
