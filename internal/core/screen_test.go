package core

import (
	"strings"
	"testing"
)

// rowOf returns row y of the screen as plain text.
func rowOf(s *Screen, y int) string {
	return strings.Split(s.String(), "\n")[y]
}

func TestNewScreen(t *testing.T) {
	s := NewScreen(80, 24)

	if s.Width() != 80 || s.Height() != 24 {
		t.Fatalf("size = %dx%d, want 80x24", s.Width(), s.Height())
	}
	if got := strings.Trim(s.String(), " \n"); got != "" {
		t.Errorf("new screen should be blank, found %q", got)
	}
}

func TestScreenSetGet(t *testing.T) {
	s := NewScreen(10, 10)

	s.Set(5, 5, 'X')
	if s.Get(5, 5) != 'X' {
		t.Errorf("Get(5, 5) = %q, want 'X'", s.Get(5, 5))
	}

	for _, p := range [][2]int{{-1, 0}, {100, 0}, {0, -1}, {0, 100}} {
		s.Set(p[0], p[1], 'A')
		if got := s.Get(p[0], p[1]); got != ' ' {
			t.Errorf("Get(%d, %d) = %q, want ' '", p[0], p[1], got)
		}
	}
}

func TestScreenFillAndClear(t *testing.T) {
	s := NewScreen(5, 5)
	s.Fill('#')
	if got := strings.Count(s.String(), "#"); got != 25 {
		t.Errorf("Fill left %d cells of '#', want 25", got)
	}

	s.Clear()
	if strings.Contains(s.String(), "#") {
		t.Error("Clear should blank every cell")
	}
}

func TestScreenDrawText(t *testing.T) {
	s := NewScreen(20, 5)
	s.DrawText(2, 1, "Hello")
	if got := rowOf(s, 1); !strings.HasPrefix(got, "  Hello ") {
		t.Errorf("row 1 = %q", got)
	}

	s.DrawText(18, 0, "Hello")
	if got := strings.TrimSpace(rowOf(s, 0)); got != "He" {
		t.Errorf("clipped text = %q, want \"He\"", got)
	}
}

func TestScreenDrawTextCentered(t *testing.T) {
	tests := []struct {
		name  string
		width int
		text  string
		want  int
	}{
		{"ascii", 20, "Hi", 9},
		{"multibyte", 11, "●●●", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScreen(tt.width, 1)
			s.DrawTextCentered(0, tt.text)
			first := []rune(tt.text)[0]
			if s.Get(tt.want, 0) != first || s.Get(tt.want-1, 0) != ' ' {
				t.Errorf("text should start at column %d, row = %q", tt.want, rowOf(s, 0))
			}
		})
	}
}

func TestScreenDrawRectAndBox(t *testing.T) {
	s := NewScreen(10, 6)
	s.DrawRect(NewRect(2, 2, 3, 2), '#')
	s.DrawBox(NewRect(0, 0, 7, 5))

	want := []string{
		"┌─────┐   ",
		"│     │   ",
		"│ ### │   ",
		"│ ### │   ",
		"└─────┘   ",
		"          ",
	}
	if got := s.String(); got != strings.Join(want, "\n") {
		t.Errorf("String() =\n%s\nwant\n%s", got, strings.Join(want, "\n"))
	}
}

func TestScreenDrawHLine(t *testing.T) {
	s := NewScreen(10, 3)
	s.DrawHLine(2, 1, 5, '─')
	if got := rowOf(s, 1); got != "  "+strings.Repeat("─", 5)+"   " {
		t.Errorf("row 1 = %q", got)
	}
}

func TestScreenResize(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawText(0, 0, "Hello")
	s.DrawText(0, 5, "World")

	s.Resize(8, 4)
	if s.Width() != 8 || s.Height() != 4 {
		t.Fatalf("size = %dx%d, want 8x4", s.Width(), s.Height())
	}
	if got := rowOf(s, 0); got != "Hello   " {
		t.Errorf("row 0 after shrink = %q", got)
	}

	s.Resize(15, 8)
	if got := rowOf(s, 0); !strings.HasPrefix(got, "Hello") || len(got) != 15 {
		t.Errorf("row 0 after grow = %q", got)
	}
	if got := rowOf(s, 5); strings.TrimSpace(got) != "" {
		t.Errorf("rows cut by the shrink should stay blank, got %q", got)
	}
}

func TestScreenColorsAndAttrs(t *testing.T) {
	s := NewScreen(10, 3)
	s.SetColor(1, 1, '●', ColorBrightRed)
	if cell := s.GetCell(1, 1); cell.Rune != '●' || cell.Color != ColorBrightRed {
		t.Errorf("GetCell(1, 1) = %+v, want ● in bright red", cell)
	}

	s.Highlight(0, 1, 3, AttrReverse)
	s.Highlight(1, 1, 1, AttrBold)
	cell := s.GetCell(1, 1)
	if cell.Rune != '●' || cell.Color != ColorBrightRed {
		t.Errorf("Highlight changed the cell contents: %+v", cell)
	}
	if !cell.Attr.Has(AttrReverse|AttrBold) {
		t.Errorf("Attr = %b, want reverse and bold", cell.Attr)
	}
	if s.GetCell(3, 1).Attr != 0 {
		t.Error("Highlight should stop after n cells")
	}

	s.Set(1, 1, 'x')
	if got := s.GetCell(1, 1); got.Color != ColorDefault || got.Attr != 0 {
		t.Errorf("Set should reset styling, got %+v", got)
	}

	if got := s.GetCell(-1, 0); got != blank {
		t.Errorf("out of bounds GetCell = %+v, want blank", got)
	}
}
