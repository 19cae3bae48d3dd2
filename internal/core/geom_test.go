package core

import "testing"

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 15)

	tests := []struct {
		name string
		x, y int
		want bool
	}{
		{"inside", 15, 15, true},
		{"top-left corner", 10, 10, true},
		{"last cell", 29, 24, true},
		{"bottom-right edge (exclusive)", 30, 25, false},
		{"outside left", 5, 15, false},
		{"outside bottom", 15, 30, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Contains(tc.x, tc.y); got != tc.want {
				t.Errorf("Contains(%d, %d) = %v, want %v", tc.x, tc.y, got, tc.want)
			}
		})
	}
}

func TestRectInset(t *testing.T) {
	tests := []struct {
		name string
		r    Rect
		n    int
		want Rect
	}{
		{"board frame", NewRect(27, 3, 26, 10), 1, NewRect(28, 4, 24, 8)},
		{"zero", NewRect(1, 2, 3, 4), 0, NewRect(1, 2, 3, 4)},
		{"collapses", NewRect(0, 0, 2, 3), 2, NewRect(2, 2, 0, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.r.Inset(tc.n); got != tc.want {
				t.Errorf("Inset(%d) = %+v, want %+v", tc.n, got, tc.want)
			}
		})
	}
}

func TestCentering(t *testing.T) {
	if got, want := CenteredIn(80, 3, 26, 10), NewRect(27, 3, 26, 10); got != want {
		t.Errorf("CenteredIn() = %+v, want %+v", got, want)
	}
	if got := CenteredIn(20, 0, 26, 10); got.X != 0 {
		t.Errorf("CenteredIn() on a narrow screen X = %d, want 0", got.X)
	}

	r := CenteredAt(40, 12, 10, 4)
	if r.X != 35 || r.Y != 10 || r.Right() != 45 || r.Bottom() != 14 {
		t.Errorf("CenteredAt(40, 12, 10, 4) = %+v", r)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, lo, hi, want int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
		{7, 7, 7, 7},
	}

	for _, tc := range tests {
		if got := Clamp(tc.val, tc.lo, tc.hi); got != tc.want {
			t.Errorf("Clamp(%d, %d, %d) = %d, want %d", tc.val, tc.lo, tc.hi, got, tc.want)
		}
	}
}
