package match3

import (
	"fmt"
	"unicode/utf8"

	"github.com/vovakirdan/match3-arcade/internal/core"
	"github.com/vovakirdan/match3-arcade/internal/games/match3/engine"
)

const (
	cellWidth    = 3 // columns per tile: marker, glyph, marker
	hudHeight    = 3
	footerHeight = 2
	minHUDWidth  = 36
)

// tileGlyph maps tile types to their glyph and color.
var tileGlyph = map[engine.TileType]struct {
	r rune
	c core.Color
}{
	engine.TypeRed:    {'●', core.ColorBrightRed},
	engine.TypeGreen:  {'■', core.ColorBrightGreen},
	engine.TypeBlue:   {'▲', core.ColorBrightBlue},
	engine.TypeYellow: {'◆', core.ColorBrightYellow},
	engine.TypePurple: {'★', core.ColorBrightMagenta},
	engine.TypeOrange: {'✚', core.ColorOrange},
	engine.TypeCyan:   {'♥', core.ColorBrightCyan},
}

// minScreenSize returns the smallest terminal that fits the board and HUD.
func (g *Game) minScreenSize() (int, int) {
	w := max(g.board.Width()*cellWidth+2, minHUDWidth)
	h := hudHeight + g.board.Height() + 2 + footerHeight
	return w, h
}

// boardRect is the board's frame, border included.
func (g *Game) boardRect() core.Rect {
	w := g.board.Width()*cellWidth + 2
	h := g.board.Height() + 2
	return core.CenteredIn(g.screenW, hudHeight, w, h)
}

// cellOrigin is the screen position of a cell's left marker.
func (g *Game) cellOrigin(c engine.Coord) (int, int) {
	r := g.boardRect()
	return r.X + 1 + c.X*cellWidth, r.Y + 1 + (g.board.Height() - 1 - c.Y)
}

// cellAt maps a screen position to the board cell under it.
func (g *Game) cellAt(sx, sy int) (engine.Coord, bool) {
	inner := g.boardRect().Inset(1)
	if !inner.Contains(sx, sy) {
		return engine.Coord{}, false
	}
	x := (sx - inner.X) / cellWidth
	y := g.board.Height() - 1 - (sy - inner.Y)
	return engine.C(x, y), true
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	r := g.boardRect()
	g.renderHUD(dst, r)
	g.renderBoard(dst, r)
	g.renderFooter(dst, r)
	g.renderOverlays(dst, r)
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	w, h := g.minScreenSize()
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small")
	dst.DrawTextCentered(y+1, fmt.Sprintf("Need %dx%d, have %dx%d", w, h, g.screenW, g.screenH))
}

// renderHUD draws score, chain and palette info above the board.
func (g *Game) renderHUD(dst *core.Screen, r core.Rect) {
	dst.DrawTextCentered(0, g.Title())

	score := fmt.Sprintf("Score: %d", g.score.Total())
	dst.DrawText(r.X, 1, score)
	if g.popupTicks > 0 && g.popup > 0 {
		dst.DrawTextColor(r.X+utf8.RuneCountInString(score)+1, 1, fmt.Sprintf("+%d", g.popup), core.ColorBrightYellow)
	}

	info := fmt.Sprintf("Chain: %d  Colors: %d", g.lastChain, g.kinds)
	dst.DrawText(max(r.X, r.Right()-utf8.RuneCountInString(info)), 1, info)

	if g.status != "" {
		dst.DrawTextCentered(2, g.status)
		return
	}
	dst.DrawHLine(r.X, 2, r.W, '─')
}

// renderBoard draws the frame, the tiles and the cursor markers.
func (g *Game) renderBoard(dst *core.Screen, r core.Rect) {
	frameColor := core.ColorGray
	if g.selected {
		frameColor = core.ColorWhite
	}
	dst.DrawBoxColor(r, frameColor)

	types := g.board.Types()
	var flash map[engine.Coord]bool
	if f, ok := g.anim.current(); ok {
		types = f.types
		flash = f.flash
	}

	w, h := g.board.Width(), g.board.Height()
	blink := g.tick/4%2 == 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := engine.C(x, y)
			sx, sy := g.cellOrigin(c)

			t := types[y*w+x]
			if t == engine.TypeNone {
				if g.board.Reserved(c) != engine.TypeNone {
					dst.SetColor(sx+1, sy, '·', core.ColorGray)
				}
				continue
			}
			if flash[c] && blink {
				dst.SetCell(sx+1, sy, core.Cell{Rune: '✱', Color: core.ColorBrightWhite, Attr: core.AttrBold})
				continue
			}
			gl := tileGlyph[t]
			dst.SetColor(sx+1, sy, gl.r, gl.c)
		}
	}

	if g.anim.active() {
		return
	}

	if g.hint != nil {
		g.drawMarkers(dst, g.hint.From, '(', ')', core.ColorGray)
		g.drawMarkers(dst, g.hint.To(), '(', ')', core.ColorGray)
	}
	if g.selected {
		g.drawMarkers(dst, g.cursor, '<', '>', core.ColorBrightWhite)
		sx, sy := g.cellOrigin(g.cursor)
		dst.Highlight(sx, sy, cellWidth, core.AttrReverse)
	} else {
		g.drawMarkers(dst, g.cursor, '[', ']', core.ColorWhite)
	}
}

func (g *Game) drawMarkers(dst *core.Screen, c engine.Coord, left, right rune, col core.Color) {
	if !g.board.InBounds(c) {
		return
	}
	sx, sy := g.cellOrigin(c)
	dst.SetColor(sx, sy, left, col)
	dst.SetColor(sx+cellWidth-1, sy, right, col)
}

// renderFooter draws run statistics and controls below the board.
func (g *Game) renderFooter(dst *core.Screen, r core.Rect) {
	y := r.Bottom()
	stats := fmt.Sprintf("Swaps: %d  Best chain: %d  Cleared: %d", g.stats.Swaps, g.stats.MaxCascade, g.stats.TilesCleared)
	dst.DrawTextCentered(y, stats)
	dst.DrawTextCentered(y+1, "Enter: select  ?: hint  P: pause  Q: quit")
}

// renderOverlays draws game state overlays.
func (g *Game) renderOverlays(dst *core.Screen, r core.Rect) {
	centerX := r.X + r.W/2
	centerY := r.Y + r.H/2

	if g.paused {
		g.drawOverlay(dst, centerX, centerY, "PAUSED", "Press P to resume")
		return
	}

	if g.gameOver {
		g.drawOverlay(dst, centerX, centerY,
			"NO MOVES LEFT",
			fmt.Sprintf("Score: %d", g.score.Total()),
			"Press R to restart")
	}
}

// drawOverlay draws a centered text overlay.
func (g *Game) drawOverlay(dst *core.Screen, centerX, centerY int, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, utf8.RuneCountInString(line))
	}

	box := core.CenteredAt(centerX, centerY, maxLen+4, len(lines)+2)
	dst.DrawRect(box, ' ')
	dst.DrawBox(box)

	for i, line := range lines {
		dst.DrawText(centerX-utf8.RuneCountInString(line)/2, box.Y+1+i, line)
	}
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	return "Arrows/WASD: Move | Enter: Select | Mouse: Drag to swap | ?: Hint | P: Pause | R: Restart | Q: Quit"
}
