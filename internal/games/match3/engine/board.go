package engine

import (
	"fmt"
	"strings"
)

// Board is a fixed-size grid of optional tiles. Cells are stored in
// row-major order with row 0 at the bottom: index = y*w + x.
//
// A cell may also carry a reservation: the type a pending spawn will
// place there. A reserved cell is still empty as far as Get is concerned.
type Board struct {
	w, h     int
	cells    []*Tile
	reserved []TileType
}

// NewBoard creates an empty board. Dimensions below 1 are raised to 1.
func NewBoard(width, height int) *Board {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return &Board{
		w:        width,
		h:        height,
		cells:    make([]*Tile, width*height),
		reserved: make([]TileType, width*height),
	}
}

// Width returns the number of columns.
func (b *Board) Width() int { return b.w }

// Height returns the number of rows.
func (b *Board) Height() int { return b.h }

func (b *Board) index(x, y int) int {
	return y*b.w + x
}

// InBounds reports whether c addresses a cell of the board.
func (b *Board) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < b.w && c.Y >= 0 && c.Y < b.h
}

// Get returns the tile at (x, y), or nil for an empty or out-of-bounds cell.
func (b *Board) Get(x, y int) *Tile {
	if !b.InBounds(C(x, y)) {
		return nil
	}
	return b.cells[b.index(x, y)]
}

// At is Get for a Coord.
func (b *Board) At(c Coord) *Tile {
	return b.Get(c.X, c.Y)
}

// Set stores t at (x, y), overwriting whatever was there. A non-nil tile
// has its position forced to (x, y) and consumes any reservation on the cell.
// Out-of-bounds writes are ignored.
func (b *Board) Set(x, y int, t *Tile) {
	if !b.InBounds(C(x, y)) {
		return
	}
	i := b.index(x, y)
	b.cells[i] = t
	if t != nil {
		t.pos = C(x, y)
		b.reserved[i] = TypeNone
	}
}

// Swap exchanges the contents of two cells and updates the positions of
// their occupants. Swapping with an empty cell moves the tile.
func (b *Board) Swap(a, c Coord) error {
	if !b.InBounds(a) {
		return fmt.Errorf("swap %s: %w", a, ErrOutOfBounds)
	}
	if !b.InBounds(c) {
		return fmt.Errorf("swap %s: %w", c, ErrOutOfBounds)
	}
	ia, ic := b.index(a.X, a.Y), b.index(c.X, c.Y)
	b.cells[ia], b.cells[ic] = b.cells[ic], b.cells[ia]
	if t := b.cells[ia]; t != nil {
		t.pos = a
	}
	if t := b.cells[ic]; t != nil {
		t.pos = c
	}
	return nil
}

// Clear empties the given cells and returns the tiles they held, in the
// order given. Empty and out-of-bounds cells contribute nothing.
func (b *Board) Clear(coords []Coord) []*Tile {
	removed := make([]*Tile, 0, len(coords))
	for _, c := range coords {
		if !b.InBounds(c) {
			continue
		}
		i := b.index(c.X, c.Y)
		if t := b.cells[i]; t != nil {
			removed = append(removed, t)
			b.cells[i] = nil
		}
	}
	return removed
}

// Reserve marks an empty cell as awaiting a tile of the given type.
func (b *Board) Reserve(c Coord, t TileType) error {
	if !b.InBounds(c) {
		return fmt.Errorf("reserve %s: %w", c, ErrOutOfBounds)
	}
	i := b.index(c.X, c.Y)
	if b.cells[i] != nil {
		return fmt.Errorf("reserve %s: cell is occupied", c)
	}
	b.reserved[i] = t
	return nil
}

// Reserved returns the pending type for c, or TypeNone.
func (b *Board) Reserved(c Coord) TileType {
	if !b.InBounds(c) {
		return TypeNone
	}
	return b.reserved[b.index(c.X, c.Y)]
}

// Unreserve drops the reservation on c, if any.
func (b *Board) Unreserve(c Coord) {
	if b.InBounds(c) {
		b.reserved[b.index(c.X, c.Y)] = TypeNone
	}
}

// ReservedCoords lists every reserved cell, bottom row first.
func (b *Board) ReservedCoords() []Coord {
	var out []Coord
	for i, t := range b.reserved {
		if t != TypeNone {
			out = append(out, C(i%b.w, i/b.w))
		}
	}
	return out
}

// TypeAt returns the type of the tile at c, or the reserved type if the
// cell is empty but spoken for.
func (b *Board) TypeAt(c Coord) TileType {
	if !b.InBounds(c) {
		return TypeNone
	}
	i := b.index(c.X, c.Y)
	if t := b.cells[i]; t != nil {
		return t.kind
	}
	return b.reserved[i]
}

// Count returns the number of occupied cells.
func (b *Board) Count() int {
	n := 0
	for _, t := range b.cells {
		if t != nil {
			n++
		}
	}
	return n
}

// Full reports whether every cell holds a tile.
func (b *Board) Full() bool {
	return b.Count() == len(b.cells)
}

// Types returns a row-major snapshot of tile types (TypeNone for empty).
func (b *Board) Types() []TileType {
	out := make([]TileType, len(b.cells))
	for i, t := range b.cells {
		if t != nil {
			out[i] = t.kind
		}
	}
	return out
}

// Verify checks that every stored tile knows its own cell and that no
// tile is stored twice.
func (b *Board) Verify() error {
	seen := make(map[*Tile]Coord, len(b.cells))
	for i, t := range b.cells {
		if t == nil {
			continue
		}
		c := C(i%b.w, i/b.w)
		if t.pos != c {
			return fmt.Errorf("tile %d stored at %s reports position %s", t.id, c, t.pos)
		}
		if prev, dup := seen[t]; dup {
			return fmt.Errorf("tile %d stored at both %s and %s", t.id, prev, c)
		}
		seen[t] = c
		if b.reserved[i] != TypeNone {
			return fmt.Errorf("occupied cell %s is also reserved", c)
		}
	}
	return nil
}

// Clone returns a deep copy; tiles are copied with the same IDs.
func (b *Board) Clone() *Board {
	nb := NewBoard(b.w, b.h)
	for i, t := range b.cells {
		if t != nil {
			cp := *t
			nb.cells[i] = &cp
		}
	}
	copy(nb.reserved, b.reserved)
	return nb
}

// String renders the board top row first using fixture letters.
func (b *Board) String() string {
	var sb strings.Builder
	for y := b.h - 1; y >= 0; y-- {
		for x := 0; x < b.w; x++ {
			if t := b.cells[b.index(x, y)]; t != nil {
				sb.WriteRune(t.kind.Rune())
			} else {
				sb.WriteRune('.')
			}
		}
		if y > 0 {
			sb.WriteRune('\n')
		}
	}
	return sb.String()
}

// ParseBoard builds a board from rows of fixture letters, written top row
// first as they would appear on screen. '.' is an empty cell. Tiles get
// IDs 1..n in reading order.
func ParseBoard(rows ...string) (*Board, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("parse board: no rows")
	}
	width := len([]rune(rows[0]))
	if width == 0 {
		return nil, fmt.Errorf("parse board: empty row")
	}
	b := NewBoard(width, len(rows))
	var id uint64
	for i, row := range rows {
		runes := []rune(row)
		if len(runes) != width {
			return nil, fmt.Errorf("parse board: row %d has %d cells, want %d", i, len(runes), width)
		}
		y := len(rows) - 1 - i
		for x, r := range runes {
			kind, ok := ParseTileType(r)
			if !ok {
				return nil, fmt.Errorf("parse board: row %d: unknown tile %q", i, r)
			}
			if kind == TypeNone {
				continue
			}
			id++
			b.Set(x, y, NewTile(id, kind))
		}
	}
	return b, nil
}

// MustParseBoard is ParseBoard that panics on malformed input.
func MustParseBoard(rows ...string) *Board {
	b, err := ParseBoard(rows...)
	if err != nil {
		panic(err)
	}
	return b
}
