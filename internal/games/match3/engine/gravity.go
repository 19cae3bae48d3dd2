package engine

// Move records a tile falling from one cell to another during compaction.
type Move struct {
	Tile *Tile
	From Coord
	To   Coord
}

// Compact pulls the tiles of column x down toward row 0. For each empty
// cell, scanning bottom-up, the first tile above it drops into it. When
// done the column's tiles are contiguous from row 0 and its gaps are at
// the top.
func Compact(b *Board, x int) []Move {
	if x < 0 || x >= b.w {
		return nil
	}
	var moves []Move
	for y := 0; y < b.h; y++ {
		if b.Get(x, y) != nil {
			continue
		}
		for y2 := y + 1; y2 < b.h; y2++ {
			t := b.Get(x, y2)
			if t == nil {
				continue
			}
			b.cells[b.index(x, y2)] = nil
			b.Set(x, y, t)
			moves = append(moves, Move{Tile: t, From: C(x, y2), To: C(x, y)})
			break
		}
	}
	return moves
}

// CompactAll compacts every column, left to right.
func CompactAll(b *Board) []Move {
	var moves []Move
	for x := 0; x < b.w; x++ {
		moves = append(moves, Compact(b, x)...)
	}
	return moves
}

// SpawnSlots lists the empty, unreserved cells of column x from the
// bottom up. After Compact these are the top cells of the column.
func SpawnSlots(b *Board, x int) []Coord {
	if x < 0 || x >= b.w {
		return nil
	}
	var slots []Coord
	for y := 0; y < b.h; y++ {
		i := b.index(x, y)
		if b.cells[i] == nil && b.reserved[i] == TypeNone {
			slots = append(slots, C(x, y))
		}
	}
	return slots
}
