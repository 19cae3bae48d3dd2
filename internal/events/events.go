// Package events broadcasts gameplay notifications from the match-3 engine
// to any number of listeners (HUD, statistics, headless simulation).
package events

// Event is a notification published on a Bus.
type Event interface {
	event()
}

// ScoreChanged is published once per resolved match round.
// Points is the increment earned by that round.
type ScoreChanged struct {
	Points int
}

func (ScoreChanged) event() {}

// TilesCleared is published once per resolved round with the number of
// matched tiles that left the board.
type TilesCleared struct {
	Depth int
	Count int
}

func (TilesCleared) event() {}

// CascadeFinished is published after a swipe has been fully resolved.
type CascadeFinished struct {
	Depth     int
	Points    int
	Cleared   int
	Truncated bool
}

func (CascadeFinished) event() {}

// BoardReshuffled is published when a dead board is refilled.
type BoardReshuffled struct{}

func (BoardReshuffled) event() {}
