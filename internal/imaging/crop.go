package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// CropCell extracts the cellPx x cellPx block at (col, row) of a rendered
// assembly.
func CropCell(img image.Image, col, row, cellPx int) (*image.NRGBA, error) {
	if cellPx <= 0 {
		return nil, fmt.Errorf("invalid cell size %d", cellPx)
	}
	bounds := img.Bounds()
	x1 := bounds.Min.X + col*cellPx
	y1 := bounds.Min.Y + row*cellPx
	x2, y2 := x1+cellPx, y1+cellPx

	// Validate coordinates
	if col < 0 || row < 0 || x2 > bounds.Max.X || y2 > bounds.Max.Y {
		return nil, fmt.Errorf("cell (%d,%d) region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			col, row, x1, y1, x2, y2, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}

	return imaging.Crop(img, image.Rect(x1, y1, x2, y2)), nil
}

// Scale resizes img by factor with nearest-neighbor sampling. Factors of 1
// or less than or equal to 0 return a copy at the original size.
func Scale(img image.Image, factor float64) *image.NRGBA {
	if factor == 1.0 || factor <= 0 {
		return imaging.Clone(img)
	}
	newWidth := int(float64(img.Bounds().Dx()) * factor)
	newHeight := int(float64(img.Bounds().Dy()) * factor)
	return imaging.Resize(img, newWidth, newHeight, imaging.NearestNeighbor)
}
