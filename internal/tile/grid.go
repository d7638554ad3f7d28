package tile

import "strings"

// Grid is a rectangular pixel raster indexed [row][col]. A true cell is an
// "on" pixel.
type Grid [][]bool

// NewGrid returns an all-off grid of the given size.
func NewGrid(width, height int) Grid {
	g := make(Grid, height)
	for y := range g {
		g[y] = make([]bool, width)
	}
	return g
}

// Height returns the number of rows.
func (g Grid) Height() int {
	return len(g)
}

// Width returns the number of columns, taken from the first row.
func (g Grid) Width() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// IsSquare reports whether the grid is non-empty and every row is as long as
// the grid is tall.
func (g Grid) IsSquare() bool {
	if len(g) == 0 {
		return false
	}
	for _, row := range g {
		if len(row) != len(g) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy.
func (g Grid) Clone() Grid {
	out := make(Grid, len(g))
	for y, row := range g {
		out[y] = append([]bool(nil), row...)
	}
	return out
}

// Rotate returns the grid turned 90 degrees clockwise. Row i of the result is
// column i of g read bottom to top, so a WxH grid becomes HxW.
func (g Grid) Rotate() Grid {
	h, w := g.Height(), g.Width()
	out := NewGrid(h, w)
	for i := 0; i < w; i++ {
		for j := 0; j < h; j++ {
			out[i][j] = g[h-1-j][i]
		}
	}
	return out
}

// Mirror returns the grid flipped horizontally (column order reversed).
func (g Grid) Mirror() Grid {
	out := make(Grid, len(g))
	for y, row := range g {
		r := make([]bool, len(row))
		for x, v := range row {
			r[len(row)-1-x] = v
		}
		out[y] = r
	}
	return out
}

// Interior returns the grid with its outermost ring of pixels removed.
// Grids narrower than three pixels have an empty interior.
func (g Grid) Interior() Grid {
	h, w := g.Height(), g.Width()
	if h < 3 || w < 3 {
		return Grid{}
	}
	out := make(Grid, h-2)
	for y := 1; y < h-1; y++ {
		out[y-1] = append([]bool(nil), g[y][1:w-1]...)
	}
	return out
}

// Count returns the number of on pixels.
func (g Grid) Count() int {
	n := 0
	for _, row := range g {
		for _, v := range row {
			if v {
				n++
			}
		}
	}
	return n
}

// Equal reports whether both grids have the same shape and pixels.
func (g Grid) Equal(o Grid) bool {
	if len(g) != len(o) {
		return false
	}
	for y := range g {
		if len(g[y]) != len(o[y]) {
			return false
		}
		for x := range g[y] {
			if g[y][x] != o[y][x] {
				return false
			}
		}
	}
	return true
}

// String renders the grid with '#' for on pixels and '.' for off pixels,
// one line per row.
func (g Grid) String() string {
	var sb strings.Builder
	sb.Grow(g.Height() * (g.Width() + 1))
	for y, row := range g {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for _, v := range row {
			if v {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
	}
	return sb.String()
}
