package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/match3-arcade/internal/core"
)

// palette maps screen colors to terminal colors. Tiles use the bright
// half of the ANSI table so they stay distinct on dark backgrounds.
var palette = map[core.Color]lipgloss.TerminalColor{
	core.ColorWhite:         lipgloss.Color("7"),
	core.ColorGray:          lipgloss.Color("245"),
	core.ColorBrightWhite:   lipgloss.Color("15"),
	core.ColorBrightRed:     lipgloss.Color("9"),
	core.ColorBrightGreen:   lipgloss.Color("10"),
	core.ColorBrightBlue:    lipgloss.Color("12"),
	core.ColorBrightYellow:  lipgloss.Color("11"),
	core.ColorBrightMagenta: lipgloss.Color("13"),
	core.ColorBrightCyan:    lipgloss.Color("14"),
	core.ColorOrange:        lipgloss.Color("208"),
}

// cellStyle is the part of a cell that decides its escape sequence.
type cellStyle struct {
	color core.Color
	attr  core.Attr
}

func (cs cellStyle) lipgloss() lipgloss.Style {
	st := lipgloss.NewStyle()
	if c, ok := palette[cs.color]; ok {
		st = st.Foreground(c)
	}
	if cs.attr.Has(core.AttrBold) {
		st = st.Bold(true)
	}
	if cs.attr.Has(core.AttrReverse) {
		st = st.Reverse(true)
	}
	return st
}

// Renderer turns screens into styled strings, caching one lipgloss style
// per color and attribute combination.
type Renderer struct {
	styles map[cellStyle]lipgloss.Style
}

// NewRenderer creates a renderer with an empty style cache.
func NewRenderer() *Renderer {
	return &Renderer{styles: make(map[cellStyle]lipgloss.Style)}
}

func (r *Renderer) style(cs cellStyle) lipgloss.Style {
	st, ok := r.styles[cs]
	if !ok {
		st = cs.lipgloss()
		r.styles[cs] = st
	}
	return st
}

// Render converts a screen to a string for display. Runs of cells with the
// same style share one escape sequence; unstyled runs are written as is.
func (r *Renderer) Render(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	var run strings.Builder
	for y := 0; y < s.Height(); y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}

		x := 0
		for x < s.Width() {
			first := s.GetCell(x, y)
			cs := cellStyle{color: first.Color, attr: first.Attr}

			run.Reset()
			for ; x < s.Width(); x++ {
				c := s.GetCell(x, y)
				if c.Color != cs.color || c.Attr != cs.attr {
					break
				}
				run.WriteRune(c.Rune)
			}

			if cs == (cellStyle{}) {
				sb.WriteString(run.String())
				continue
			}
			sb.WriteString(r.style(cs).Render(run.String()))
		}
	}
	return sb.String()
}
