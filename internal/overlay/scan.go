package overlay

import (
	"github.com/ironsheep/jigsaw-tools-mcp/internal/tile"
)

// Occurrence is one full match of an oriented pattern, identified by the
// top-left corner of its bounding box in the image.
type Occurrence struct {
	Orientation tile.Orientation `json:"orientation"`
	X           int              `json:"x"`
	Y           int              `json:"y"`
}

// Result holds the outcome of scanning an image.
type Result struct {
	// Occurrences in scan order: orientation, then row, then column.
	Occurrences []Occurrence

	// Covered marks every image pixel under an on cell of some occurrence.
	Covered tile.Grid

	// Unmarked is the number of on image pixels that are not covered.
	Unmarked int
}

// Scan slides every orientation of p over every in-bounds offset of image.
// An offset matches when each on cell of the oriented pattern lies on an on
// image pixel. The image is never modified; coverage accumulates in a
// separate grid and is never cleared.
func Scan(image tile.Grid, p Pattern) *Result {
	h, w := image.Height(), image.Width()
	res := &Result{Covered: tile.NewGrid(w, h)}

	for _, o := range tile.Orientations() {
		op := p.Orient(o)
		pts := op.points()
		ph, pw := op.Height(), op.Width()
		for oy := 0; oy+ph <= h; oy++ {
			for ox := 0; ox+pw <= w; ox++ {
				if !matchesAt(image, pts, ox, oy) {
					continue
				}
				res.Occurrences = append(res.Occurrences, Occurrence{Orientation: o, X: ox, Y: oy})
				for _, pt := range pts {
					res.Covered[oy+pt[1]][ox+pt[0]] = true
				}
			}
		}
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if image[y][x] && !res.Covered[y][x] {
				res.Unmarked++
			}
		}
	}
	return res
}

// CountUnmarked returns the number of on pixels in image not covered by any
// occurrence of p in any orientation.
func CountUnmarked(image tile.Grid, p Pattern) int {
	return Scan(image, p).Unmarked
}

func matchesAt(image tile.Grid, pts [][2]int, ox, oy int) bool {
	for _, pt := range pts {
		if !image[oy+pt[1]][ox+pt[0]] {
			return false
		}
	}
	return true
}
