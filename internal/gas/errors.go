package gas

import (
	"errors"
	"fmt"
)

// ErrOutOfBounds is matched by every OutOfBoundsError.
var ErrOutOfBounds = errors.New("cell out of bounds")

// OutOfBoundsError reports a cell lookup outside the grid.
type OutOfBoundsError struct {
	X, Y int
	W, H int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("gas: cell (%d,%d) out of bounds for %dx%d grid", e.X, e.Y, e.W, e.H)
}

// Is lets errors.Is(err, ErrOutOfBounds) succeed.
func (e *OutOfBoundsError) Is(target error) bool { return target == ErrOutOfBounds }
