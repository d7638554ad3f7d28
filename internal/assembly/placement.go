package assembly

import (
	"fmt"

	"github.com/ironsheep/jigsaw-tools-mcp/internal/tile"
)

// PlacedTile describes one cell of an arrangement.
type PlacedTile struct {
	ID          int              `json:"id"`
	X           int              `json:"x"`
	Y           int              `json:"y"`
	Orientation tile.Orientation `json:"orientation"`
}

// Arrangement lists the placement row by row for an n x n grid. Missing
// cells are left as zero values.
func (p Placement) Arrangement(n int) [][]PlacedTile {
	rows := make([][]PlacedTile, n)
	for y := 0; y < n; y++ {
		rows[y] = make([]PlacedTile, n)
		for x := 0; x < n; x++ {
			if pl, ok := p[Position{x, y}]; ok {
				rows[y][x] = PlacedTile{ID: pl.Tile.ID(), X: x, Y: y, Orientation: pl.Orientation}
			}
		}
	}
	return rows
}

// Verify re-checks a finished n x n placement: every position is filled,
// every catalog tile is used exactly once, touching edges fit, and every
// edge on the outer boundary matches nothing in the catalog.
func (p Placement) Verify(ix *Index, n int) error {
	seen := make(map[int]Position, len(p))
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			pos := Position{x, y}
			pl, ok := p[pos]
			if !ok {
				return fmt.Errorf("%w: %v is empty", ErrIncompleteComposition, pos)
			}
			id := pl.Tile.ID()
			if prev, dup := seen[id]; dup {
				return fmt.Errorf("%w: tile %d placed at %v and %v",
					ErrUnsatisfiablePlacement, id, prev, pos)
			}
			seen[id] = pos

			for side := 0; side < 4; side++ {
				next := pos.Step(side)
				inside := next.X >= 0 && next.X < n && next.Y >= 0 && next.Y < n
				if !inside {
					if c := ix.MatchCount(pl.Tile, side); c != 0 {
						return fmt.Errorf("%w: tile %d at %v faces the boundary with an edge that matches %d others",
							ErrUnsatisfiablePlacement, id, pos, c)
					}
					continue
				}
				nb := p[next].Tile
				if nb != nil && !pl.Tile.Edge(0, side).Fits(nb.Edge(0, tile.Opposite(side))) {
					return fmt.Errorf("%w: tiles %d at %v and %d at %v do not meet",
						ErrUnsatisfiablePlacement, id, pos, nb.ID(), next)
				}
			}
		}
	}
	if len(seen) != len(ix.catalog) {
		return fmt.Errorf("%w: placed %d of %d tiles",
			ErrIncompleteComposition, len(seen), len(ix.catalog))
	}
	return nil
}
