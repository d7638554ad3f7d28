package assembly

import (
	"errors"
	"fmt"
)

var (
	// ErrNonSquareAssembly means the tile count has no integer square root.
	ErrNonSquareAssembly = errors.New("tile count is not a perfect square")

	// ErrUnsatisfiablePlacement means the tiles do not form a single
	// consistent square assembly.
	ErrUnsatisfiablePlacement = errors.New("no consistent placement")

	// ErrIncompleteComposition means an image was requested from a placement
	// that does not cover every grid position.
	ErrIncompleteComposition = errors.New("placement does not cover the grid")

	// ErrCornerProductOverflow means the corner ids multiply past the range of int.
	ErrCornerProductOverflow = errors.New("corner product overflows int")
)

// PlacementError reports the position the solver could not fill and the
// candidates it had left to try there.
type PlacementError struct {
	Pos   Position
	Class Class
	Pool  []int
}

func (e *PlacementError) Error() string {
	return fmt.Sprintf("%v: nothing fits at %v from %s pool %v",
		ErrUnsatisfiablePlacement, e.Pos, e.Class, e.Pool)
}

func (e *PlacementError) Unwrap() error {
	return ErrUnsatisfiablePlacement
}
