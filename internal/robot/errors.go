package robot

import "errors"

// Rejections. None of them change robot state.
var (
	ErrInvalidDirection = errors.New("invalid direction")
	ErrOutOfBounds      = errors.New("position outside the grid")
	ErrNotPlaced        = errors.New("robot has not been placed")
	ErrUnknownCommand   = errors.New("unknown command")
)
