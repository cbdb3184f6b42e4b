// Package ui previews composite maps in the terminal using tcell.
package ui

import "github.com/gdamore/tcell/v2"

// statusRows is the number of rows kept below the map for status text.
const statusRows = 1

// Screen is the terminal surface a preview draws on.
type Screen struct {
	screen tcell.Screen
}

// NewScreen creates and initializes a new terminal screen.
func NewScreen() (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := s.Init(); err != nil {
		return nil, err
	}
	return Wrap(s), nil
}

// Wrap adopts an initialized tcell screen, such as a simulation screen.
func Wrap(s tcell.Screen) *Screen {
	s.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	s.Clear()
	return &Screen{screen: s}
}

// Close finalizes the screen and restores terminal state.
func (s *Screen) Close() {
	s.screen.Fini()
}

func (s *Screen) PollEvent() tcell.Event {
	return s.screen.PollEvent()
}

func (s *Screen) Clear() {
	s.screen.Clear()
}

func (s *Screen) Show() {
	s.screen.Show()
}

func (s *Screen) Sync() {
	s.screen.Sync()
}

// SetContent draws one tile glyph at cell (x, y).
func (s *Screen) SetContent(x, y int, r rune, style tcell.Style) {
	s.screen.SetContent(x, y, r, nil, style)
}

// MapArea returns how many tiles fit on screen above the status rows.
func (s *Screen) MapArea() (cols, rows int) {
	w, h := s.screen.Size()
	return w, max(0, h-statusRows)
}

// StatusRow returns the row status text is drawn on.
func (s *Screen) StatusRow() int {
	_, h := s.screen.Size()
	return max(0, h-statusRows)
}

// DrawText writes text on row y from column 0, clipped to the screen width.
func (s *Screen) DrawText(y int, text string, style tcell.Style) {
	w, _ := s.screen.Size()
	for i, ch := range []rune(text) {
		if i >= w {
			return
		}
		s.screen.SetContent(i, y, ch, nil, style)
	}
}
