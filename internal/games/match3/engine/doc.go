// Package engine is the match-3 resolution core: a Board of typed tiles,
// run detection, column gravity and the cascade state machine that ties
// them together.
//
// Row 0 is the bottom of the board and gravity pulls toward it. The
// package knows nothing about terminals, timing or input devices; the
// game layer drives an Engine with swipes and reacts to its Results.
package engine
