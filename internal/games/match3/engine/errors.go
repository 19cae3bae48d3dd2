package engine

import "errors"

var (
	// ErrOutOfBounds is returned when a coordinate falls outside the board.
	ErrOutOfBounds = errors.New("coordinate out of bounds")
	// ErrInvalidSwapTarget is returned when the source or destination cell of a swipe is empty.
	ErrInvalidSwapTarget = errors.New("invalid swap target")
	// ErrStaleTile is returned when a swiped tile is no longer on the board.
	ErrStaleTile = errors.New("tile is not on the board")
	// ErrBusy is returned when a swipe arrives while a cascade is in progress.
	ErrBusy = errors.New("engine busy")
	// ErrSpawnFailure is returned when spawn requests kept failing after all retries.
	ErrSpawnFailure = errors.New("spawn failed")
	// ErrUnstable is returned while reserved spawn slots are still pending.
	ErrUnstable = errors.New("board has pending spawns")
)
