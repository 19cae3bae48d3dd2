package engine

import "fmt"

// Coord is a cell address on the board.
// X increases to the right, Y increases upward; row 0 is the bottom row.
type Coord struct {
	X int
	Y int
}

// C is a convenience constructor for Coord.
func C(x, y int) Coord {
	return Coord{X: x, Y: y}
}

// String returns a string representation of the coordinate.
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Add returns a new Coord offset by (dx, dy).
func (c Coord) Add(dx, dy int) Coord {
	return Coord{X: c.X + dx, Y: c.Y + dy}
}

// Step returns the neighbour one cell away in the given direction.
func (c Coord) Step(d Direction) Coord {
	dx, dy := d.Delta()
	return c.Add(dx, dy)
}

// Less orders coordinates row by row from the bottom, then left to right.
func (c Coord) Less(other Coord) bool {
	if c.Y != other.Y {
		return c.Y < other.Y
	}
	return c.X < other.X
}

// Direction is one of the four swipe directions.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// Directions lists all four directions in declaration order.
var Directions = []Direction{DirUp, DirDown, DirLeft, DirRight}

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "Up"
	case DirDown:
		return "Down"
	case DirLeft:
		return "Left"
	case DirRight:
		return "Right"
	default:
		return "Unknown"
	}
}

// Delta returns the (dx, dy) offset for this direction.
// Up is +y because row 0 is the bottom of the board.
func (d Direction) Delta() (int, int) {
	switch d {
	case DirUp:
		return 0, 1
	case DirDown:
		return 0, -1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	default:
		return 0, 0
	}
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	default:
		return DirLeft
	}
}

// ParseDirection converts a name such as "left" or "U" into a Direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "up", "Up", "u", "U":
		return DirUp, nil
	case "down", "Down", "d", "D":
		return DirDown, nil
	case "left", "Left", "l", "L":
		return DirLeft, nil
	case "right", "Right", "r", "R":
		return DirRight, nil
	}
	return DirUp, fmt.Errorf("unknown direction %q", s)
}
