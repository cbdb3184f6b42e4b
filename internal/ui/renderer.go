package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/dungenmap/internal/tiled"
)

// Glyph is how one tile kind is drawn.
type Glyph struct {
	Rune  rune
	Style tcell.Style
}

var (
	glyphEmpty   = Glyph{' ', tcell.StyleDefault}
	glyphUnknown = Glyph{'?', tcell.StyleDefault.Foreground(tcell.ColorRed)}

	// Glyphs by the tileset "Type" property.
	kindGlyphs = map[string]Glyph{
		"wall":  {'#', tcell.StyleDefault.Foreground(tcell.ColorDarkGray)},
		"floor": {'.', tcell.StyleDefault.Foreground(tcell.ColorGray)},
		"door":  {'+', tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)},
	}
)

// Palette resolves GIDs to glyphs through the map's tilesets.
type Palette struct {
	refs     []tiled.TileSetRef
	tilesets map[string]*tiled.TileSet
	cache    map[tiled.GID]Glyph
}

// NewPalette creates a palette for a map using refs. tilesets is keyed by
// basename.
func NewPalette(refs []tiled.TileSetRef, tilesets map[string]*tiled.TileSet) *Palette {
	return &Palette{refs: refs, tilesets: tilesets, cache: make(map[tiled.GID]Glyph)}
}

// Glyph returns the glyph for gid. Flip flags are ignored.
func (p *Palette) Glyph(gid tiled.GID) Glyph {
	id := gid.ID()
	if id == 0 {
		return glyphEmpty
	}
	if g, ok := p.cache[id]; ok {
		return g
	}
	g := p.lookup(id)
	p.cache[id] = g
	return g
}

func (p *Palette) lookup(id tiled.GID) Glyph {
	// The owning tileset is the last one whose firstgid is not above id.
	var ref *tiled.TileSetRef
	for i := range p.refs {
		if p.refs[i].FirstGID <= id {
			ref = &p.refs[i]
		}
	}
	if ref == nil {
		return glyphUnknown
	}
	ts, ok := p.tilesets[ref.Basename()]
	if !ok {
		return glyphUnknown
	}
	lid := int(id - ref.FirstGID)
	for _, t := range ts.Tiles {
		if t.ID != lid {
			continue
		}
		kind, _ := t.Property("Type")
		if g, ok := kindGlyphs[strings.ToLower(kind.String())]; ok {
			return g
		}
	}
	return glyphUnknown
}

// Renderer draws a map's first tile layer, one cell per tile, with a status
// line at the bottom.
type Renderer struct {
	screen  *Screen
	palette *Palette
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen, palette *Palette) *Renderer {
	return &Renderer{screen: screen, palette: palette}
}

// Render draws m with its top-left tile at (offsetX, offsetY).
func (r *Renderer) Render(m *tiled.Map, offsetX, offsetY int, status string) {
	r.screen.Clear()
	cols, rows := r.screen.MapArea()

	if layer := m.FirstTileLayer(); layer != nil {
		for y := 0; y < rows; y++ {
			for x := 0; x < cols; x++ {
				tx, ty := x+offsetX, y+offsetY
				if tx < 0 || tx >= m.Width || ty < 0 || ty >= m.Height {
					continue
				}
				g := r.palette.Glyph(layer.Data[ty*m.Width+tx])
				r.screen.SetContent(x, y, g.Rune, g.Style)
			}
		}
	}

	r.RenderMessage(fmt.Sprintf("%dx%d  %s", m.Width, m.Height, status))
	r.screen.Show()
}

// RenderMessage replaces the status line.
func (r *Renderer) RenderMessage(msg string) {
	r.screen.DrawText(r.screen.StatusRow(), msg, tcell.StyleDefault.Foreground(tcell.ColorWhite))
}
