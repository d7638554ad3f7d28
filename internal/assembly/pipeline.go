package assembly

import (
	"github.com/ironsheep/jigsaw-tools-mcp/internal/tile"
)

// Result is everything produced by assembling a catalog.
type Result struct {
	Index     *Index
	Placement Placement
	Side      int
	Image     tile.Grid
}

// Assemble classifies the catalog, places every tile, verifies the placement,
// and composes the final image.
func Assemble(cat tile.Catalog) (*Result, error) {
	ix := NewIndex(cat)
	solver, err := NewSolver(ix)
	if err != nil {
		return nil, err
	}
	placement, err := solver.Solve()
	if err != nil {
		return nil, err
	}
	if err := placement.Verify(ix, solver.Side()); err != nil {
		return nil, err
	}
	image, err := Compose(placement, solver.Side())
	if err != nil {
		return nil, err
	}
	return &Result{
		Index:     ix,
		Placement: placement,
		Side:      solver.Side(),
		Image:     image,
	}, nil
}
