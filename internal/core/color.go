package core

// Color is the foreground color of a screen cell. The platform layer maps
// each value to a terminal color; games only pick from this list.
type Color uint8

const (
	ColorDefault Color = iota
	ColorWhite
	ColorGray
	ColorBrightWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightBlue
	ColorBrightYellow
	ColorBrightMagenta
	ColorBrightCyan
	ColorOrange
)

// Attr is a set of text attributes applied on top of a cell's color.
type Attr uint8

const (
	AttrBold Attr = 1 << iota
	AttrReverse
)

// Has reports whether every attribute in other is set.
func (a Attr) Has(other Attr) bool {
	return a&other == other
}
