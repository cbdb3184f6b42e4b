package ui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/dungenmap/internal/tiled"
)

// Preview shows a map until the user quits. Arrow keys scroll.
type Preview struct {
	screen   *Screen
	renderer *Renderer
	m        *tiled.Map
	status   string
	x, y     int
	running  bool
}

// NewPreview creates a preview of m on screen.
func NewPreview(screen *Screen, m *tiled.Map, palette *Palette, status string) *Preview {
	return &Preview{
		screen:   screen,
		renderer: NewRenderer(screen, palette),
		m:        m,
		status:   status,
		running:  true,
	}
}

// Run draws and handles input until q, Escape or Ctrl-C. It does not close
// the screen.
func (p *Preview) Run() {
	for p.running {
		p.renderer.Render(p.m, p.x, p.y, p.status)
		p.handleInput()
	}
}

// Offset returns the current scroll position in tiles.
func (p *Preview) Offset() (x, y int) {
	return p.x, p.y
}

func (p *Preview) handleInput() {
	switch ev := p.screen.PollEvent().(type) {
	case *tcell.EventKey:
		p.handleKeyEvent(ev)
	case *tcell.EventResize:
		p.screen.Sync()
	case nil:
		// Screen finalized.
		p.running = false
	}
}

func (p *Preview) handleKeyEvent(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		p.running = false
	case tcell.KeyUp:
		p.scroll(0, -1)
	case tcell.KeyDown:
		p.scroll(0, 1)
	case tcell.KeyLeft:
		p.scroll(-1, 0)
	case tcell.KeyRight:
		p.scroll(1, 0)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			p.running = false
		}
	}
}

func (p *Preview) scroll(dx, dy int) {
	p.x = max(0, min(p.x+dx, p.m.Width-1))
	p.y = max(0, min(p.y+dy, p.m.Height-1))
}
