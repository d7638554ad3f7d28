package imaging

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// TileOverlay draws tile boundaries every cellPx pixels and, when labels is
// non-nil, writes labels[row][col] in the top-left corner of each cell. The
// result is a copy; img is not modified.
func TileOverlay(img image.Image, cellPx int, labels [][]string, lineColor color.Color) *image.RGBA {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	result := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(result, result.Bounds(), img, bounds.Min, draw.Src)

	if cellPx <= 0 {
		return result
	}
	if lineColor == nil {
		lineColor = DefaultLineColor
	}

	// Draw vertical lines
	for x := cellPx; x < width; x += cellPx {
		for y := 0; y < height; y++ {
			result.Set(x, y, lineColor)
		}
	}

	// Draw horizontal lines
	for y := cellPx; y < height; y += cellPx {
		for x := 0; x < width; x++ {
			result.Set(x, y, lineColor)
		}
	}

	labelColor := color.RGBA{255, 255, 255, 255}
	bgColor := color.RGBA{0, 0, 0, 180}
	for row, line := range labels {
		for col, label := range line {
			if label == "" {
				continue
			}
			drawLabel(result, col*cellPx+2, row*cellPx+2, label, labelColor, bgColor)
		}
	}

	return result
}

// drawLabel writes text with basicfont's 7x13 face over a filled box whose
// top-left corner is (x, y). Anything outside the image is clipped.
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.Color) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: face,
	}
	advance := d.MeasureString(text).Ceil()
	metrics := face.Metrics()
	height := (metrics.Ascent + metrics.Descent).Ceil()

	box := image.Rect(x-1, y-1, x+advance+1, y+height+1).Intersect(img.Bounds())
	draw.Draw(img, box, image.NewUniform(bg), image.Point{}, draw.Over)

	d.Dot = fixed.Point26_6{
		X: fixed.I(x),
		Y: fixed.I(y) + metrics.Ascent,
	}
	d.DrawString(text)
}
