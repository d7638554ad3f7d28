package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/segment"

	"github.com/ironsheep/jigsaw-tools-mcp/internal/tile"
)

// GridFromImage reads a bitmap back into a grid. The image is split into
// cellPx x cellPx cells and each cell takes the value of its center pixel
// after thresholding at level: pixels darker than level are on. Partial
// cells at the right and bottom edges are ignored.
func GridFromImage(img image.Image, cellPx int, level uint8) (tile.Grid, error) {
	if cellPx <= 0 {
		return nil, fmt.Errorf("invalid cell size %d", cellPx)
	}
	bounds := img.Bounds()
	cols := bounds.Dx() / cellPx
	rows := bounds.Dy() / cellPx
	if cols == 0 || rows == 0 {
		return nil, fmt.Errorf("image %dx%d is smaller than one %dpx cell",
			bounds.Dx(), bounds.Dy(), cellPx)
	}

	// Threshold maps light pixels to white and dark pixels to black.
	bw := segment.Threshold(img, level)
	bb := bw.Bounds()

	g := tile.NewGrid(cols, rows)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			px := bb.Min.X + c*cellPx + cellPx/2
			py := bb.Min.Y + r*cellPx + cellPx/2
			g[r][c] = bw.GrayAt(px, py).Y == 0
		}
	}
	return g, nil
}
