package core

import (
	"strings"
	"unicode/utf8"
)

// Cell is one screen position: a rune with its color and attributes.
type Cell struct {
	Rune  rune
	Color Color
	Attr  Attr
}

var blank = Cell{Rune: ' '}

// Screen is the character grid a game draws into each frame. The platform
// layer turns it into terminal output; games never touch the terminal.
type Screen struct {
	width  int
	height int
	cells  []Cell // row-major, width*height
}

// NewScreen creates a blank screen of the given size.
func NewScreen(width, height int) *Screen {
	s := &Screen{width: width, height: height}
	s.cells = make([]Cell, width*height)
	s.Clear()
	return s
}

// Width returns the screen width in characters.
func (s *Screen) Width() int {
	return s.width
}

// Height returns the screen height in characters.
func (s *Screen) Height() int {
	return s.height
}

func (s *Screen) inside(x, y int) bool {
	return x >= 0 && x < s.width && y >= 0 && y < s.height
}

// Resize changes the dimensions, keeping the top-left content that still fits.
func (s *Screen) Resize(width, height int) {
	if width == s.width && height == s.height {
		return
	}

	old, oldW := s.cells, s.width
	copyW, copyH := min(s.width, width), min(s.height, height)

	s.width, s.height = width, height
	s.cells = make([]Cell, width*height)
	s.Clear()
	for y := 0; y < copyH; y++ {
		copy(s.cells[y*width:y*width+copyW], old[y*oldW:y*oldW+copyW])
	}
}

// Clear blanks every cell.
func (s *Screen) Clear() {
	s.Fill(' ')
}

// Fill sets every cell to r with no color or attributes.
func (s *Screen) Fill(r rune) {
	for i := range s.cells {
		s.cells[i] = Cell{Rune: r}
	}
}

// Set places an uncolored rune. Out-of-bounds writes are ignored.
func (s *Screen) Set(x, y int, r rune) {
	s.SetColor(x, y, r, ColorDefault)
}

// SetColor places a colored rune. Out-of-bounds writes are ignored.
func (s *Screen) SetColor(x, y int, r rune, c Color) {
	s.SetCell(x, y, Cell{Rune: r, Color: c})
}

// SetCell stores a full cell. Out-of-bounds writes are ignored.
func (s *Screen) SetCell(x, y int, c Cell) {
	if s.inside(x, y) {
		s.cells[y*s.width+x] = c
	}
}

// Highlight adds attributes to a horizontal span of n cells starting at
// (x, y) without changing their runes or colors.
func (s *Screen) Highlight(x, y, n int, a Attr) {
	for i := 0; i < n; i++ {
		if s.inside(x+i, y) {
			s.cells[y*s.width+x+i].Attr |= a
		}
	}
}

// Get returns the rune at (x, y), or a space outside the screen.
func (s *Screen) Get(x, y int) rune {
	return s.GetCell(x, y).Rune
}

// GetCell returns the cell at (x, y), or a blank cell outside the screen.
func (s *Screen) GetCell(x, y int) Cell {
	if !s.inside(x, y) {
		return blank
	}
	return s.cells[y*s.width+x]
}

// DrawText writes uncolored text starting at (x, y), clipped at the edges.
func (s *Screen) DrawText(x, y int, text string) {
	s.DrawTextColor(x, y, text, ColorDefault)
}

// DrawTextColor writes colored text starting at (x, y), one rune per cell.
func (s *Screen) DrawTextColor(x, y int, text string, c Color) {
	i := 0
	for _, r := range text {
		s.SetColor(x+i, y, r, c)
		i++
	}
}

// DrawTextCentered draws text centered horizontally on row y.
func (s *Screen) DrawTextCentered(y int, text string) {
	s.DrawText((s.width-utf8.RuneCountInString(text))/2, y, text)
}

// DrawRect fills r with the given rune.
func (s *Screen) DrawRect(r Rect, fill rune) {
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			s.Set(x, y, fill)
		}
	}
}

// DrawBox outlines r with box-drawing characters.
func (s *Screen) DrawBox(r Rect) {
	s.DrawBoxColor(r, ColorDefault)
}

// DrawBoxColor outlines r in the given color.
func (s *Screen) DrawBoxColor(r Rect, c Color) {
	right, bottom := r.Right()-1, r.Bottom()-1
	s.SetColor(r.X, r.Y, '┌', c)
	s.SetColor(right, r.Y, '┐', c)
	s.SetColor(r.X, bottom, '└', c)
	s.SetColor(right, bottom, '┘', c)

	for x := r.X + 1; x < right; x++ {
		s.SetColor(x, r.Y, '─', c)
		s.SetColor(x, bottom, '─', c)
	}
	for y := r.Y + 1; y < bottom; y++ {
		s.SetColor(r.X, y, '│', c)
		s.SetColor(right, y, '│', c)
	}
}

// DrawHLine draws length copies of r rightward from (x, y).
func (s *Screen) DrawHLine(x, y, length int, r rune) {
	for i := 0; i < length; i++ {
		s.Set(x+i, y, r)
	}
}

// String returns the runes of every row joined by newlines, without styling.
func (s *Screen) String() string {
	var sb strings.Builder
	sb.Grow(len(s.cells) + s.height)
	for y := 0; y < s.height; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for _, c := range s.cells[y*s.width : (y+1)*s.width] {
			sb.WriteRune(c.Rune)
		}
	}
	return sb.String()
}
