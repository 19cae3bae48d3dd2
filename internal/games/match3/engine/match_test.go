package engine

import "testing"

func TestFindMatches(t *testing.T) {
	tests := []struct {
		name string
		rows []string
		want []Coord
	}{
		{
			name: "no runs",
			rows: []string{
				"RGB",
				"GBR",
				"BRG",
			},
			want: nil,
		},
		{
			name: "horizontal run of three",
			rows: []string{
				"GBG",
				"RRR",
			},
			want: []Coord{C(0, 0), C(1, 0), C(2, 0)},
		},
		{
			name: "vertical run of four",
			rows: []string{
				"YG",
				"YB",
				"YG",
				"YB",
			},
			want: []Coord{C(0, 0), C(0, 1), C(0, 2), C(0, 3)},
		},
		{
			name: "L shape shares the corner",
			rows: []string{
				"BGG",
				"BYG",
				"BBB",
			},
			want: []Coord{C(0, 0), C(1, 0), C(2, 0), C(0, 1), C(0, 2)},
		},
		{
			name: "empty cell breaks a run",
			rows: []string{
				"RR.RR",
			},
			want: nil,
		},
		{
			name: "empty cells never match",
			rows: []string{
				"...",
				"...",
				"...",
			},
			want: nil,
		},
		{
			name: "run of two is not a match",
			rows: []string{
				"RRGG",
			},
			want: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := FindMatches(MustParseBoard(tc.rows...))
			if m.Len() != len(tc.want) {
				t.Fatalf("FindMatches() = %v, want %v", m.Coords(), tc.want)
			}
			for _, c := range tc.want {
				if !m.Contains(c) {
					t.Errorf("FindMatches() missing %s", c)
				}
			}
		})
	}
}

func TestRuns(t *testing.T) {
	b := MustParseBoard(
		"RGBYP",
		"CCCCC",
	)

	runs := Runs(b)
	if len(runs) != 1 {
		t.Fatalf("Runs() = %v, want one run", runs)
	}
	r := runs[0]
	if !r.Horizontal || r.Length != 5 || r.Start != C(0, 0) || r.Type != TypeCyan {
		t.Errorf("Runs()[0] = %+v, want horizontal cyan run of 5 from (0,0)", r)
	}
	if got := len(r.Coords()); got != 5 {
		t.Errorf("Coords() len = %d, want 5", got)
	}
}

func TestMatchSetHelpers(t *testing.T) {
	m := make(MatchSet)
	m.Add(C(2, 1))
	m.Add(C(0, 1))
	m.Add(C(2, 0))
	m.Add(C(2, 1))

	if m.Len() != 3 {
		t.Errorf("Len() = %d, want 3", m.Len())
	}
	want := []Coord{C(2, 0), C(0, 1), C(2, 1)}
	for i, c := range m.Coords() {
		if c != want[i] {
			t.Errorf("Coords()[%d] = %s, want %s", i, c, want[i])
		}
	}
	cols := m.Columns()
	if len(cols) != 2 || cols[0] != 0 || cols[1] != 2 {
		t.Errorf("Columns() = %v, want [0 2]", cols)
	}
	if got := m.Points(DefaultBasePoints); got != 300 {
		t.Errorf("Points() = %d, want 300", got)
	}
}

func TestPossibleSwaps(t *testing.T) {
	b := MustParseBoard(
		"GBY",
		"RRB",
		"BYR",
	)
	before := b.String()

	swaps := PossibleSwaps(b)
	if len(swaps) == 0 {
		t.Fatal("PossibleSwaps() found nothing")
	}
	found := false
	for _, s := range swaps {
		// (2,0) red up into the red row
		if s.From == C(2, 0) && s.Dir == DirUp {
			found = true
		}
		work := b.Clone()
		_ = work.Swap(s.From, s.To())
		if FindMatches(work).Len() == 0 {
			t.Errorf("swap %s %s does not produce a match", s.From, s.Dir)
		}
	}
	if !found {
		t.Errorf("PossibleSwaps() = %v, want to include (2,0) Up", swaps)
	}
	if b.String() != before {
		t.Error("PossibleSwaps() must not modify the board")
	}
	if !HasPossibleSwap(b) {
		t.Error("HasPossibleSwap() = false, want true")
	}
}

func TestDeadBoard(t *testing.T) {
	b := MustParseBoard(
		"RGB",
		"YPO",
		"GBR",
	)
	if swaps := PossibleSwaps(b); len(swaps) != 0 {
		t.Errorf("PossibleSwaps() = %v, want none", swaps)
	}
	if HasPossibleSwap(b) {
		t.Error("HasPossibleSwap() = true, want false")
	}
}
