package engine

import "fmt"

// TileType is the color of a tile. Two tiles match when their types are equal.
type TileType uint8

const (
	TypeNone TileType = iota
	TypeRed
	TypeGreen
	TypeBlue
	TypeYellow
	TypePurple
	TypeOrange
	TypeCyan
)

// AllTypes is the full palette in a stable order.
var AllTypes = []TileType{
	TypeRed, TypeGreen, TypeBlue, TypeYellow, TypePurple, TypeOrange, TypeCyan,
}

const (
	// MinPalette is the smallest palette that can still be played.
	MinPalette = 3
	// MaxPalette is the number of tile types available.
	MaxPalette = 7
)

var typeNames = [...]string{"None", "Red", "Green", "Blue", "Yellow", "Purple", "Orange", "Cyan"}

// typeRunes is the one-letter form used by ParseBoard and Board.String.
var typeRunes = [...]rune{'.', 'R', 'G', 'B', 'Y', 'P', 'O', 'C'}

// String returns the color name.
func (t TileType) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("TileType(%d)", t)
}

// Rune returns the single-letter fixture form of the type.
func (t TileType) Rune() rune {
	if int(t) < len(typeRunes) {
		return typeRunes[t]
	}
	return '?'
}

// Valid reports whether t is a real color.
func (t TileType) Valid() bool {
	return t > TypeNone && t <= TypeCyan
}

// ParseTileType converts a fixture letter back to a TileType.
// '.' yields TypeNone.
func ParseTileType(r rune) (TileType, bool) {
	for i, tr := range typeRunes {
		if tr == r {
			return TileType(i), true
		}
	}
	return TypeNone, false
}

// Palette returns the first n tile types, clamped to [MinPalette, MaxPalette].
func Palette(n int) []TileType {
	if n < MinPalette {
		n = MinPalette
	}
	if n > MaxPalette {
		n = MaxPalette
	}
	out := make([]TileType, n)
	copy(out, AllTypes[:n])
	return out
}

// Tile is a typed piece on the board. Its type never changes; its position
// is maintained by the Board it lives on.
type Tile struct {
	id   uint64
	kind TileType
	pos  Coord
}

// NewTile creates a tile with the given identity and type.
// The tile has no meaningful position until it is placed on a board.
func NewTile(id uint64, kind TileType) *Tile {
	return &Tile{id: id, kind: kind, pos: Coord{X: -1, Y: -1}}
}

// ID returns the tile identity.
func (t *Tile) ID() uint64 {
	return t.id
}

// Type returns the tile color.
func (t *Tile) Type() TileType {
	return t.kind
}

// Position returns the cell the tile currently occupies.
func (t *Tile) Position() Coord {
	return t.pos
}

func (t *Tile) String() string {
	return fmt.Sprintf("%s#%d@%s", t.kind, t.id, t.pos)
}
