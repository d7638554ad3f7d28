package assembly

import (
	"fmt"
	"math"

	"github.com/ironsheep/jigsaw-tools-mcp/internal/tile"
)

// Class groups tiles by how many of their edges lie on the image border.
type Class int

const (
	Interior     Class = iota // no border edges
	EdgePiece                 // one border edge
	Corner                    // two border edges
	Unclassified              // more than two; never part of a valid square
)

func (c Class) String() string {
	switch c {
	case Interior:
		return "interior"
	case EdgePiece:
		return "edge"
	case Corner:
		return "corner"
	default:
		return "unclassified"
	}
}

func classFor(borders int) Class {
	if borders < 0 || borders > int(Corner) {
		return Unclassified
	}
	return Class(borders)
}

// Index classifies every catalog edge as matched or border. It is computed
// once when built; the catalog must not change afterwards.
type Index struct {
	catalog tile.Catalog
	ids     []int
	borders map[int][]int // tile id -> sides with no match elsewhere
}

// NewIndex compares every edge against every edge of every other tile.
func NewIndex(cat tile.Catalog) *Index {
	ix := &Index{
		catalog: cat,
		ids:     cat.IDs(),
		borders: make(map[int][]int, len(cat)),
	}
	for _, id := range ix.ids {
		t := cat[id]
		sides := []int{}
		for side := 0; side < 4; side++ {
			if ix.MatchCount(t, side) == 0 {
				sides = append(sides, side)
			}
		}
		ix.borders[id] = sides
	}
	return ix
}

// Catalog returns the catalog the index was built from.
func (ix *Index) Catalog() tile.Catalog {
	return ix.catalog
}

// MatchCount counts the edges of other catalog tiles that equal t's current
// edge at side in either direction. t may be any orientation of a catalog
// tile; tiles sharing its identifier are never compared.
func (ix *Index) MatchCount(t *tile.Tile, side int) int {
	return ix.edgeMatches(t.ID(), t.Edge(0, side))
}

func (ix *Index) edgeMatches(id int, e tile.Edge) int {
	n := 0
	for _, otherID := range ix.ids {
		if otherID == id {
			continue
		}
		other := ix.catalog[otherID]
		for side := 0; side < 4; side++ {
			if e.Matches(other.Edge(0, side)) {
				n++
			}
		}
	}
	return n
}

// BorderSides returns the unrotated sides of tile id that match nothing.
func (ix *Index) BorderSides(id int) []int {
	return append([]int(nil), ix.borders[id]...)
}

// Classify maps the number of border sides of tile id to its class.
func (ix *Index) Classify(id int) Class {
	sides, ok := ix.borders[id]
	if !ok {
		return Unclassified
	}
	return classFor(len(sides))
}

// Pieces returns the identifiers of class c in ascending order.
func (ix *Index) Pieces(c Class) []int {
	var out []int
	for _, id := range ix.ids {
		if ix.Classify(id) == c {
			out = append(out, id)
		}
	}
	return out
}

// CornerProduct multiplies the identifiers of the four corner tiles. It
// fails with ErrCornerProductOverflow when the product does not fit in an int.
func (ix *Index) CornerProduct() (int, error) {
	corners := ix.Pieces(Corner)
	if len(corners) != 4 {
		return 0, fmt.Errorf("%w: found %d corner tiles, want 4",
			ErrUnsatisfiablePlacement, len(corners))
	}
	product := 1
	for _, id := range corners {
		if product > math.MaxInt/id {
			return 0, fmt.Errorf("%w: corners %v", ErrCornerProductOverflow, corners)
		}
		product *= id
	}
	return product, nil
}
