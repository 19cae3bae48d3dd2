package engine

import (
	"math/rand"
	"testing"
)

func TestAvoidPickerSkipsRuns(t *testing.T) {
	b := MustParseBoard(
		"....",
		"RR.G",
		"BYRG",
	)
	slot := C(2, 1)
	p := NewAvoidPicker(rand.New(rand.NewSource(1)), Palette(3))

	for i := 0; i < 50; i++ {
		got := p.Pick(b, slot)
		if got == TypeRed {
			t.Fatal("Pick() chose red, which completes RR_")
		}
	}
}

func TestAvoidPickerConsidersReservations(t *testing.T) {
	b := NewBoard(3, 1)
	_ = b.Reserve(C(0, 0), TypeRed)
	_ = b.Reserve(C(1, 0), TypeRed)
	p := NewAvoidPicker(rand.New(rand.NewSource(4)), Palette(3))

	for i := 0; i < 50; i++ {
		if p.Pick(b, C(2, 0)) == TypeRed {
			t.Fatal("Pick() should treat reserved cells as tiles")
		}
	}
}

func TestAvoidPickerFallsBack(t *testing.T) {
	// Red is the only type and it completes a run, so it is picked anyway.
	b := MustParseBoard(
		".G.",
		"R.R",
		".G.",
	)
	p := NewAvoidPicker(rand.New(rand.NewSource(1)), []TileType{TypeRed})
	if got := p.Pick(b, C(1, 1)); got != TypeRed {
		t.Errorf("Pick() = %v, want Red as the only option", got)
	}
}

func TestUniformPickerCoversPalette(t *testing.T) {
	palette := Palette(4)
	p := NewUniformPicker(rand.New(rand.NewSource(9)), palette)
	seen := make(map[TileType]bool)
	for i := 0; i < 400; i++ {
		seen[p.Pick(nil, C(0, 0))] = true
	}
	if len(seen) != len(palette) {
		t.Errorf("Pick() produced %d distinct types, want %d", len(seen), len(palette))
	}
}

func TestParseBias(t *testing.T) {
	tests := []struct {
		in      string
		want    Bias
		wantErr bool
	}{
		{"", BiasUniform, false},
		{"uniform", BiasUniform, false},
		{"avoid", BiasAvoid, false},
		{"greedy", "", true},
	}
	for _, tc := range tests {
		got, err := ParseBias(tc.in)
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Errorf("ParseBias(%q) = %q, %v", tc.in, got, err)
		}
	}
	if _, ok := NewPicker(BiasAvoid, rand.New(rand.NewSource(1)), nil).(*AvoidPicker); !ok {
		t.Error("NewPicker(avoid) should build an AvoidPicker")
	}
}
