package engine

import "sort"

// MinRun is the shortest line of equal types that counts as a match.
const MinRun = 3

// DefaultBasePoints is awarded per matched tile.
const DefaultBasePoints = 100

// MatchSet is a set of matched cells. Cells shared by a horizontal and a
// vertical run appear once.
type MatchSet map[Coord]struct{}

// Add inserts c into the set.
func (m MatchSet) Add(c Coord) {
	m[c] = struct{}{}
}

// Contains reports whether c is in the set.
func (m MatchSet) Contains(c Coord) bool {
	_, ok := m[c]
	return ok
}

// Len returns the number of distinct cells.
func (m MatchSet) Len() int {
	return len(m)
}

// Coords returns the cells sorted bottom row first, then left to right.
func (m MatchSet) Coords() []Coord {
	out := make([]Coord, 0, len(m))
	for c := range m {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Columns returns the distinct column indices touched by the set, ascending.
func (m MatchSet) Columns() []int {
	seen := make(map[int]bool)
	var cols []int
	for c := range m {
		if !seen[c.X] {
			seen[c.X] = true
			cols = append(cols, c.X)
		}
	}
	sort.Ints(cols)
	return cols
}

// Points is the score for clearing the set.
func (m MatchSet) Points(base int) int {
	return len(m) * base
}

// Run is a maximal horizontal or vertical line of at least MinRun equal tiles.
type Run struct {
	Start      Coord // leftmost or bottom cell
	Length     int
	Horizontal bool
	Type       TileType
}

// Coords lists the cells covered by the run.
func (r Run) Coords() []Coord {
	out := make([]Coord, r.Length)
	for i := range out {
		if r.Horizontal {
			out[i] = r.Start.Add(i, 0)
		} else {
			out[i] = r.Start.Add(0, i)
		}
	}
	return out
}

// Runs scans every row left to right, then every column bottom to top, and
// returns each run of MinRun or more. The counter restarts on a type change
// and on any empty cell, so empty cells never match each other.
func Runs(b *Board) []Run {
	var runs []Run
	for y := 0; y < b.h; y++ {
		runs = scanLine(b, runs, C(0, y), 1, 0, b.w, true)
	}
	for x := 0; x < b.w; x++ {
		runs = scanLine(b, runs, C(x, 0), 0, 1, b.h, false)
	}
	return runs
}

func scanLine(b *Board, runs []Run, start Coord, dx, dy, n int, horizontal bool) []Run {
	flush := func(from Coord, length int) {
		if length < MinRun {
			return
		}
		t := b.At(from)
		if t == nil {
			return
		}
		runs = append(runs, Run{Start: from, Length: length, Horizontal: horizontal, Type: t.kind})
	}

	runStart := start
	length := 1
	prev := b.At(start)
	for i := 1; i < n; i++ {
		c := start.Add(dx*i, dy*i)
		cur := b.At(c)
		if cur != nil && prev != nil && cur.kind == prev.kind {
			length++
		} else {
			flush(runStart, length)
			runStart = c
			length = 1
		}
		prev = cur
	}
	flush(runStart, length)
	return runs
}

// FindMatches returns the union of all runs on the board.
func FindMatches(b *Board) MatchSet {
	return matchSetOf(Runs(b))
}

func matchSetOf(runs []Run) MatchSet {
	m := make(MatchSet)
	for _, r := range runs {
		for _, c := range r.Coords() {
			m.Add(c)
		}
	}
	return m
}

// Swap is a candidate move: the tile at From swiped in Dir.
type Swap struct {
	From Coord
	Dir  Direction
}

// To returns the destination cell.
func (s Swap) To() Coord {
	return s.From.Step(s.Dir)
}

// PossibleSwaps lists every swipe between two occupied neighbours that
// would produce at least one run. Each pair is reported once, as a Right
// or Up swipe from the lower-left cell. The board is not modified.
func PossibleSwaps(b *Board) []Swap {
	work := b.Clone()
	var out []Swap
	for y := 0; y < b.h; y++ {
		for x := 0; x < b.w; x++ {
			from := C(x, y)
			for _, d := range []Direction{DirRight, DirUp} {
				s := Swap{From: from, Dir: d}
				if swapMatches(work, s) {
					out = append(out, s)
				}
			}
		}
	}
	return out
}

// HasPossibleSwap reports whether at least one productive swipe exists.
func HasPossibleSwap(b *Board) bool {
	work := b.Clone()
	for y := 0; y < b.h; y++ {
		for x := 0; x < b.w; x++ {
			for _, d := range []Direction{DirRight, DirUp} {
				if swapMatches(work, Swap{From: C(x, y), Dir: d}) {
					return true
				}
			}
		}
	}
	return false
}

// swapMatches tries s on work, checks the two touched cells and undoes it.
func swapMatches(work *Board, s Swap) bool {
	to := s.To()
	a, c := work.At(s.From), work.At(to)
	if a == nil || c == nil || a.kind == c.kind {
		return false
	}
	_ = work.Swap(s.From, to)
	hit := lineAt(work, s.From) || lineAt(work, to)
	_ = work.Swap(s.From, to)
	return hit
}

// lineAt reports whether the tile at c is part of a run.
func lineAt(b *Board, c Coord) bool {
	t := b.At(c)
	if t == nil {
		return false
	}
	count := func(dx, dy int) int {
		n := 0
		for p := c.Add(dx, dy); ; p = p.Add(dx, dy) {
			o := b.At(p)
			if o == nil || o.kind != t.kind {
				return n
			}
			n++
		}
	}
	return 1+count(-1, 0)+count(1, 0) >= MinRun || 1+count(0, -1)+count(0, 1) >= MinRun
}
