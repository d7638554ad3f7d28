package assembly

import (
	"fmt"

	"github.com/ironsheep/jigsaw-tools-mcp/internal/tile"
)

// Compose strips the one-pixel ring from every placed tile and joins the
// interiors into a single image. Row y*(W-2)+r of the result is interior row
// r of every tile in grid row y, left to right.
func Compose(p Placement, n int) (tile.Grid, error) {
	first, ok := p[Position{}]
	if !ok || n < 1 {
		return nil, fmt.Errorf("%w: %v is empty", ErrIncompleteComposition, Position{})
	}
	inner := first.Tile.Size() - 2
	if inner < 0 {
		inner = 0
	}

	image := make(tile.Grid, 0, inner*n)
	for y := 0; y < n; y++ {
		interiors := make([]tile.Grid, n)
		for x := 0; x < n; x++ {
			pl, ok := p[Position{x, y}]
			if !ok {
				return nil, fmt.Errorf("%w: %v is empty", ErrIncompleteComposition, Position{x, y})
			}
			if pl.Tile.Size() != first.Tile.Size() {
				return nil, fmt.Errorf("tile %d at %v is %d pixels wide, want %d",
					pl.Tile.ID(), Position{x, y}, pl.Tile.Size(), first.Tile.Size())
			}
			interiors[x] = pl.Tile.Interior()
		}
		for r := 0; r < inner; r++ {
			row := make([]bool, 0, inner*n)
			for x := 0; x < n; x++ {
				row = append(row, interiors[x][r]...)
			}
			image = append(image, row)
		}
	}
	return image, nil
}
