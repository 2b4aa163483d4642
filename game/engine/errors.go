package engine

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidLength     = errors.New("invalid ship length")
	ErrInvalidCoordinate = errors.New("invalid coordinate")
)

// InvalidLengthError is returned when a ship length falls outside
// [MinShipLength, MaxShipLength]
type InvalidLengthError struct {
	Length int
}

func (e *InvalidLengthError) Error() string {
	return fmt.Sprintf("ship length must be in range %d to %d, got %d", MinShipLength, MaxShipLength, e.Length)
}

// Is lets errors.Is match against ErrInvalidLength
func (e *InvalidLengthError) Is(target error) bool {
	return target == ErrInvalidLength
}

// InvalidCoordinateError is returned when an attack targets a cell off the board
type InvalidCoordinateError struct {
	Row int
	Col int
}

func (e *InvalidCoordinateError) Error() string {
	return fmt.Sprintf("coordinate (%d,%d) is outside the %dx%d board", e.Row, e.Col, BoardSize, BoardSize)
}

// Is lets errors.Is match against ErrInvalidCoordinate
func (e *InvalidCoordinateError) Is(target error) bool {
	return target == ErrInvalidCoordinate
}
