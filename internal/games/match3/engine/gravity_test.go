package engine

import "testing"

func TestCompactBottomRun(t *testing.T) {
	b := MustParseBoard(
		"G",
		"B",
		"G",
		"B",
		"G",
		"R",
		"R",
		"R",
	)
	b.Clear(FindMatches(b).Coords())

	moves := Compact(b, 0)
	if len(moves) != 5 {
		t.Fatalf("Compact() made %d moves, want 5", len(moves))
	}
	for _, m := range moves {
		if m.From.Y-m.To.Y != 3 {
			t.Errorf("tile %d fell from %s to %s, want a drop of 3", m.Tile.ID(), m.From, m.To)
		}
		if m.Tile.Position() != m.To {
			t.Errorf("tile %d position = %s, want %s", m.Tile.ID(), m.Tile.Position(), m.To)
		}
	}

	slots := SpawnSlots(b, 0)
	want := []Coord{C(0, 5), C(0, 6), C(0, 7)}
	if len(slots) != len(want) {
		t.Fatalf("SpawnSlots() = %v, want %v", slots, want)
	}
	for i := range want {
		if slots[i] != want[i] {
			t.Errorf("SpawnSlots()[%d] = %s, want %s", i, slots[i], want[i])
		}
	}
	if err := b.Verify(); err != nil {
		t.Errorf("Verify() = %v", err)
	}
}

func TestCompactScattered(t *testing.T) {
	b := MustParseBoard(
		"R",
		".",
		"G",
		".",
		".",
		"B",
		".",
	)

	Compact(b, 0)
	if got := b.String(); got != ".\n.\n.\n.\nR\nG\nB" {
		t.Errorf("after Compact() board = %q", got)
	}
	// Compacting a settled column is a no-op
	if moves := Compact(b, 0); len(moves) != 0 {
		t.Errorf("second Compact() made %d moves, want 0", len(moves))
	}
}

func TestCompactAllAndBounds(t *testing.T) {
	b := MustParseBoard(
		"RG",
		"..",
	)
	if moves := CompactAll(b); len(moves) != 2 {
		t.Errorf("CompactAll() made %d moves, want 2", len(moves))
	}
	if Compact(b, -1) != nil || Compact(b, 2) != nil {
		t.Error("Compact() outside the board should do nothing")
	}
	if SpawnSlots(b, 5) != nil {
		t.Error("SpawnSlots() outside the board should be nil")
	}
}

func TestSpawnSlotsSkipReserved(t *testing.T) {
	b := MustParseBoard(
		".",
		".",
		"R",
	)
	_ = b.Reserve(C(0, 1), TypeBlue)

	slots := SpawnSlots(b, 0)
	if len(slots) != 1 || slots[0] != C(0, 2) {
		t.Errorf("SpawnSlots() = %v, want [(0,2)]", slots)
	}
}
