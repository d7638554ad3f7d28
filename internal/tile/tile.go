package tile

import (
	"errors"
	"fmt"
)

// ErrMalformedTile is returned when a tile cannot be built: a non-positive
// identifier, an empty or non-square grid, or unreadable tile text.
var ErrMalformedTile = errors.New("malformed tile")

// Tile is an immutable square pixel grid with an identifier and its four
// cached boundary edges. Transforms return new tiles.
type Tile struct {
	id    int
	grid  Grid
	edges [4]Edge
	rev   [4]Edge // edges[i] reversed, kept so fit tests never allocate
}

// New validates g and builds a tile from a copy of it.
func New(id int, g Grid) (*Tile, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: identifier %d must be positive", ErrMalformedTile, id)
	}
	if !g.IsSquare() {
		return nil, fmt.Errorf("%w: tile %d grid is %dx%d, not square",
			ErrMalformedTile, id, g.Width(), g.Height())
	}
	return fromGrid(id, g.Clone()), nil
}

// fromGrid derives edges from g and takes ownership of it.
func fromGrid(id int, g Grid) *Tile {
	t := &Tile{id: id, grid: g}
	t.edges = deriveEdges(g)
	for i, e := range t.edges {
		t.rev[i] = e.Reversed()
	}
	return t
}

// deriveEdges reads the four boundaries of a square grid clockwise.
func deriveEdges(g Grid) [4]Edge {
	n := len(g)
	var edges [4]Edge
	edges[Top] = append(Edge(nil), g[0]...)
	edges[Right] = make(Edge, n)
	edges[Bottom] = make(Edge, n)
	edges[Left] = make(Edge, n)
	for i := 0; i < n; i++ {
		edges[Right][i] = g[i][n-1]
		edges[Bottom][i] = g[n-1][n-1-i]
		edges[Left][i] = g[n-1-i][0]
	}
	return edges
}

// ID returns the tile identifier.
func (t *Tile) ID() int {
	return t.id
}

// Size returns the side length in pixels.
func (t *Tile) Size() int {
	return len(t.grid)
}

// Grid returns a copy of the tile's pixels.
func (t *Tile) Grid() Grid {
	return t.grid.Clone()
}

// Interior returns the pixels inside the tile's outer ring.
func (t *Tile) Interior() Grid {
	return t.grid.Interior()
}

// Edges returns copies of the four edges, indexed by side.
func (t *Tile) Edges() [4]Edge {
	var out [4]Edge
	for i, e := range t.edges {
		out[i] = append(Edge(nil), e...)
	}
	return out
}

// Edge returns the edge that would face side after rotating the tile
// clockwise rotation times. No grid is materialized. The returned slice is
// shared with the tile and must not be modified.
func (t *Tile) Edge(rotation, side int) Edge {
	return t.edges[mod4(side-rotation)]
}

// OrientedEdge returns the edge that would face side if the tile were placed
// in orientation o. Like Edge it is a pure index transform; the returned
// slice must not be modified.
func (t *Tile) OrientedEdge(o Orientation, side int) Edge {
	k := mod4(side - o.Rotation)
	if !o.Mirrored {
		return t.edges[k]
	}
	// Mirroring reverses every edge and swaps left with right.
	return t.rev[mod4(-k)]
}

// Rotate returns the tile turned n quarter turns clockwise. n is taken
// modulo 4, so negative values rotate counter-clockwise.
func (t *Tile) Rotate(n int) *Tile {
	n = mod4(n)
	g := t.grid
	for i := 0; i < n; i++ {
		g = g.Rotate()
	}
	if n == 0 {
		g = g.Clone()
	}
	out := &Tile{id: t.id, grid: g}
	for s := 0; s < 4; s++ {
		out.edges[s] = t.edges[mod4(s-n)]
		out.rev[s] = t.rev[mod4(s-n)]
	}
	return out
}

// Mirror returns the tile flipped horizontally.
func (t *Tile) Mirror() *Tile {
	out := &Tile{id: t.id, grid: t.grid.Mirror()}
	for s := 0; s < 4; s++ {
		out.edges[s] = t.rev[mod4(-s)]
		out.rev[s] = t.edges[mod4(-s)]
	}
	return out
}

// Orient materializes the tile in orientation o.
func (t *Tile) Orient(o Orientation) *Tile {
	o = o.normalized()
	if o.Mirrored {
		return t.Mirror().Rotate(o.Rotation)
	}
	return t.Rotate(o.Rotation)
}

// Equal reports whether both tiles have the same identifier, pixels, and
// edges.
func (t *Tile) Equal(o *Tile) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.id != o.id || !t.grid.Equal(o.grid) {
		return false
	}
	for i := range t.edges {
		if !t.edges[i].Equal(o.edges[i]) {
			return false
		}
	}
	return true
}

func (t *Tile) String() string {
	return fmt.Sprintf("Tile %d:\n%s", t.id, t.grid)
}
