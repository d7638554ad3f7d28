// Package overlay finds every occurrence of a small pixel motif, in all
// eight orientations, inside an assembled image and counts the on pixels no
// occurrence covers.
package overlay

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ironsheep/jigsaw-tools-mcp/internal/tile"
)

// ErrEmptyPattern is returned for pattern text with no on cells.
var ErrEmptyPattern = errors.New("pattern has no on cells")

const seaMonster = "                  # \n" +
	"#    ##    ##    ###\n" +
	" #  #  #  #  #  #   "

// Pattern is a rectangular motif. Off cells impose no constraint when the
// pattern is matched against an image.
type Pattern struct {
	cells tile.Grid
}

// SeaMonster returns the three-row motif searched for in assembled images.
func SeaMonster() Pattern {
	p, err := ParsePattern(seaMonster)
	if err != nil {
		panic(err)
	}
	return p
}

// ParsePattern reads '#' as on and ' ' or '.' as off. Rows shorter than the
// widest row are padded with off cells. Leading and trailing blank lines
// are dropped; blank lines inside the pattern are kept as empty rows.
func ParsePattern(text string) (Pattern, error) {
	lines := strings.Split(strings.ReplaceAll(text, "\r", ""), "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	width := 0
	for _, l := range lines {
		if len(l) > width {
			width = len(l)
		}
	}

	cells := tile.NewGrid(width, len(lines))
	on := 0
	for y, l := range lines {
		for x, c := range l {
			switch c {
			case '#':
				cells[y][x] = true
				on++
			case ' ', '.':
			default:
				return Pattern{}, fmt.Errorf("pattern: unexpected %q at row %d col %d", c, y, x)
			}
		}
	}
	if on == 0 {
		return Pattern{}, ErrEmptyPattern
	}
	return Pattern{cells: cells}, nil
}

// Width returns the bounding box width.
func (p Pattern) Width() int { return p.cells.Width() }

// Height returns the bounding box height.
func (p Pattern) Height() int { return p.cells.Height() }

// Grid returns a copy of the pattern cells.
func (p Pattern) Grid() tile.Grid { return p.cells.Clone() }

// Orient returns the pattern mirrored and rotated the same way tiles are.
func (p Pattern) Orient(o tile.Orientation) Pattern {
	g := p.cells
	if o.Mirrored {
		g = g.Mirror()
	}
	for i := 0; i < ((o.Rotation%4)+4)%4; i++ {
		g = g.Rotate()
	}
	return Pattern{cells: g}
}

func (p Pattern) String() string {
	return p.cells.String()
}

// points lists the on cells as (x, y) offsets from the top-left corner.
func (p Pattern) points() [][2]int {
	var pts [][2]int
	for y, row := range p.cells {
		for x, v := range row {
			if v {
				pts = append(pts, [2]int{x, y})
			}
		}
	}
	return pts
}
