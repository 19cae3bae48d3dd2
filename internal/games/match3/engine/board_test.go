package engine

import (
	"errors"
	"testing"
)

func TestNewBoard(t *testing.T) {
	b := NewBoard(8, 6)

	if b.Width() != 8 || b.Height() != 6 {
		t.Errorf("NewBoard(8, 6) = %dx%d, want 8x6", b.Width(), b.Height())
	}
	if b.Count() != 0 {
		t.Errorf("Count() = %d, want 0", b.Count())
	}

	small := NewBoard(0, -3)
	if small.Width() != 1 || small.Height() != 1 {
		t.Errorf("NewBoard(0, -3) = %dx%d, want 1x1", small.Width(), small.Height())
	}
}

func TestBoardGetOutOfBounds(t *testing.T) {
	b := MustParseBoard("RG", "BY")

	coords := []Coord{C(-1, 0), C(0, -1), C(2, 0), C(0, 2)}
	for _, c := range coords {
		if got := b.At(c); got != nil {
			t.Errorf("At(%s) = %v, want nil", c, got)
		}
	}
}

func TestBoardSetForcesPosition(t *testing.T) {
	b := NewBoard(3, 3)
	tile := NewTile(1, TypeRed)

	b.Set(2, 1, tile)
	if tile.Position() != C(2, 1) {
		t.Errorf("Position() = %s, want (2,1)", tile.Position())
	}
	if b.Get(2, 1) != tile {
		t.Error("Get(2, 1) should return the stored tile")
	}

	// Out-of-bounds writes are ignored
	b.Set(5, 5, NewTile(2, TypeBlue))
	if b.Count() != 1 {
		t.Errorf("Count() = %d, want 1", b.Count())
	}
}

func TestBoardSwap(t *testing.T) {
	b := MustParseBoard(
		"R.",
		"GB",
	)
	red := b.At(C(0, 1))
	green := b.At(C(0, 0))

	if err := b.Swap(C(0, 0), C(0, 1)); err != nil {
		t.Fatalf("Swap() error = %v", err)
	}
	if b.At(C(0, 0)) != red || red.Position() != C(0, 0) {
		t.Errorf("red tile at %s, want (0,0)", red.Position())
	}
	if b.At(C(0, 1)) != green || green.Position() != C(0, 1) {
		t.Errorf("green tile at %s, want (0,1)", green.Position())
	}

	// Swapping with an empty cell moves the tile
	if err := b.Swap(C(0, 1), C(1, 1)); err != nil {
		t.Fatalf("Swap() with empty cell error = %v", err)
	}
	if b.At(C(0, 1)) != nil {
		t.Error("source cell should be empty after swapping with an empty cell")
	}
	if green.Position() != C(1, 1) {
		t.Errorf("green tile at %s, want (1,1)", green.Position())
	}

	if err := b.Swap(C(0, 0), C(-1, 0)); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Swap() out of bounds error = %v, want ErrOutOfBounds", err)
	}
	if err := b.Verify(); err != nil {
		t.Errorf("Verify() = %v", err)
	}
}

func TestBoardSwapTwiceRestores(t *testing.T) {
	tests := []struct {
		name string
		a, b Coord
	}{
		{"occupied pair", C(0, 0), C(1, 0)},
		{"vertical pair", C(2, 0), C(2, 1)},
		{"occupied and empty", C(1, 1), C(2, 1)},
		{"empty and occupied", C(2, 1), C(1, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := MustParseBoard(
				"YP.",
				"RGB",
			)
			before := b.String()
			ta, tb := b.At(tt.a), b.At(tt.b)

			for i := 0; i < 2; i++ {
				if err := b.Swap(tt.a, tt.b); err != nil {
					t.Fatalf("Swap(%s, %s) error = %v", tt.a, tt.b, err)
				}
			}

			if got := b.String(); got != before {
				t.Errorf("String() = %q, want %q", got, before)
			}
			if b.At(tt.a) != ta || b.At(tt.b) != tb {
				t.Errorf("tiles at %s, %s changed identity", tt.a, tt.b)
			}
			if ta != nil && ta.Position() != tt.a {
				t.Errorf("tile %d at %s, want %s", ta.ID(), ta.Position(), tt.a)
			}
			if tb != nil && tb.Position() != tt.b {
				t.Errorf("tile %d at %s, want %s", tb.ID(), tb.Position(), tt.b)
			}
			if err := b.Verify(); err != nil {
				t.Errorf("Verify() = %v", err)
			}
		})
	}
}

func TestBoardClear(t *testing.T) {
	b := MustParseBoard(
		"RRG",
		"B.Y",
	)

	removed := b.Clear([]Coord{C(0, 1), C(1, 1), C(1, 0), C(9, 9)})
	if len(removed) != 2 {
		t.Fatalf("Clear() removed %d tiles, want 2", len(removed))
	}
	for _, tile := range removed {
		if tile.Type() != TypeRed {
			t.Errorf("removed %s, want only red tiles", tile)
		}
	}
	if b.Count() != 3 {
		t.Errorf("Count() = %d, want 3", b.Count())
	}
}

func TestBoardReservations(t *testing.T) {
	b := NewBoard(2, 2)
	c := C(1, 1)

	if err := b.Reserve(c, TypeCyan); err != nil {
		t.Fatalf("Reserve() error = %v", err)
	}
	if b.At(c) != nil {
		t.Error("reserved cell should still read as empty")
	}
	if got := b.TypeAt(c); got != TypeCyan {
		t.Errorf("TypeAt() = %v, want Cyan", got)
	}
	if got := b.ReservedCoords(); len(got) != 1 || got[0] != c {
		t.Errorf("ReservedCoords() = %v, want [%s]", got, c)
	}

	// Placing a tile consumes the reservation
	b.Set(1, 1, NewTile(1, TypeCyan))
	if got := b.Reserved(c); got != TypeNone {
		t.Errorf("Reserved() after Set = %v, want None", got)
	}

	if err := b.Reserve(c, TypeRed); err == nil {
		t.Error("Reserve() on an occupied cell should fail")
	}
	if err := b.Reserve(C(3, 0), TypeRed); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Reserve() out of bounds error = %v, want ErrOutOfBounds", err)
	}

	_ = b.Reserve(C(0, 0), TypeRed)
	b.Unreserve(C(0, 0))
	if b.Reserved(C(0, 0)) != TypeNone {
		t.Error("Unreserve() should clear the reservation")
	}
}

func TestBoardVerify(t *testing.T) {
	b := MustParseBoard("RGB")
	if err := b.Verify(); err != nil {
		t.Fatalf("Verify() = %v, want nil", err)
	}

	b.At(C(1, 0)).pos = C(2, 0)
	if err := b.Verify(); err == nil {
		t.Error("Verify() should report a tile whose position disagrees with its cell")
	}

	dup := MustParseBoard("RG")
	dup.cells[1] = dup.cells[0]
	if err := dup.Verify(); err == nil {
		t.Error("Verify() should report a tile stored twice")
	}
}

func TestBoardClone(t *testing.T) {
	b := MustParseBoard("RG", "BY")
	cp := b.Clone()

	if cp.String() != b.String() {
		t.Errorf("Clone().String() = %q, want %q", cp.String(), b.String())
	}
	_ = cp.Swap(C(0, 0), C(1, 0))
	if cp.String() == b.String() {
		t.Error("mutating a clone should not touch the original")
	}
	if err := b.Verify(); err != nil {
		t.Errorf("original Verify() = %v", err)
	}
}

func TestParseBoard(t *testing.T) {
	b, err := ParseBoard(
		"RG.",
		"BYC",
	)
	if err != nil {
		t.Fatalf("ParseBoard() error = %v", err)
	}

	// First row of text is the top of the board
	if got := b.At(C(0, 1)).Type(); got != TypeRed {
		t.Errorf("top-left = %v, want Red", got)
	}
	if got := b.At(C(0, 0)).Type(); got != TypeBlue {
		t.Errorf("bottom-left = %v, want Blue", got)
	}
	if b.At(C(2, 1)) != nil {
		t.Error("'.' should be an empty cell")
	}
	if b.String() != "RG.\nBYC" {
		t.Errorf("String() = %q, want %q", b.String(), "RG.\nBYC")
	}

	bad := []struct {
		name string
		rows []string
	}{
		{"no rows", nil},
		{"ragged", []string{"RGB", "RG"}},
		{"unknown letter", []string{"RXB"}},
		{"empty row", []string{""}},
	}
	for _, tc := range bad {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseBoard(tc.rows...); err == nil {
				t.Errorf("ParseBoard(%q) should fail", tc.rows)
			}
		})
	}
}

func TestDirection(t *testing.T) {
	tests := []struct {
		dir      Direction
		dx, dy   int
		opposite Direction
	}{
		{DirUp, 0, 1, DirDown},
		{DirDown, 0, -1, DirUp},
		{DirLeft, -1, 0, DirRight},
		{DirRight, 1, 0, DirLeft},
	}

	for _, tc := range tests {
		dx, dy := tc.dir.Delta()
		if dx != tc.dx || dy != tc.dy {
			t.Errorf("%s.Delta() = (%d, %d), want (%d, %d)", tc.dir, dx, dy, tc.dx, tc.dy)
		}
		if got := tc.dir.Opposite(); got != tc.opposite {
			t.Errorf("%s.Opposite() = %s, want %s", tc.dir, got, tc.opposite)
		}
		if got := C(3, 3).Step(tc.dir); got != C(3+tc.dx, 3+tc.dy) {
			t.Errorf("Step(%s) = %s", tc.dir, got)
		}
	}

	if d, err := ParseDirection("left"); err != nil || d != DirLeft {
		t.Errorf("ParseDirection(left) = %v, %v", d, err)
	}
	if _, err := ParseDirection("sideways"); err == nil {
		t.Error("ParseDirection(sideways) should fail")
	}
}

func TestPalette(t *testing.T) {
	tests := []struct {
		n, want int
	}{
		{1, MinPalette},
		{5, 5},
		{7, 7},
		{12, MaxPalette},
	}
	for _, tc := range tests {
		if got := len(Palette(tc.n)); got != tc.want {
			t.Errorf("len(Palette(%d)) = %d, want %d", tc.n, got, tc.want)
		}
	}
	for _, tt := range Palette(7) {
		if !tt.Valid() {
			t.Errorf("%v should be valid", tt)
		}
		back, ok := ParseTileType(tt.Rune())
		if !ok || back != tt {
			t.Errorf("ParseTileType(%q) = %v, want %v", tt.Rune(), back, tt)
		}
	}
}
