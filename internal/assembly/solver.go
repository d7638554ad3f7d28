package assembly

import (
	"fmt"

	"github.com/ironsheep/jigsaw-tools-mcp/internal/tile"
)

// Position is a 0-based grid cell; X grows rightward and Y downward.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Step returns the neighbor across side.
func (p Position) Step(side int) Position {
	switch side {
	case tile.Top:
		return Position{p.X, p.Y - 1}
	case tile.Right:
		return Position{p.X + 1, p.Y}
	case tile.Bottom:
		return Position{p.X, p.Y + 1}
	default:
		return Position{p.X - 1, p.Y}
	}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Placed is a catalog tile committed to a position in a specific
// orientation. Tile is the materialized oriented copy.
type Placed struct {
	Tile        *tile.Tile
	Orientation tile.Orientation
}

// Placement maps grid positions to placed tiles.
type Placement map[Position]Placed

// Solver fills an NxN grid from a classified catalog. Each position draws
// from the pool of its class (corner, edge, or interior) and the first
// orientation consistent with its placed neighbors and the outer boundary is
// committed. Nothing is ever revised.
type Solver struct {
	index  *Index
	side   int
	placed Placement
}

// NewSolver checks that the catalog can form a square and returns a solver
// for it.
func NewSolver(ix *Index) (*Solver, error) {
	n, ok := intSqrt(len(ix.catalog))
	if !ok {
		return nil, fmt.Errorf("%w: %d tiles", ErrNonSquareAssembly, len(ix.catalog))
	}
	return &Solver{index: ix, side: n}, nil
}

// Side returns the assembly width in tiles.
func (s *Solver) Side() int {
	return s.side
}

// candidatePool is the remaining tiles of one class, in ascending id order.
type candidatePool struct {
	class Class
	ids   []int
}

func (p *candidatePool) take(i int) {
	p.ids = append(p.ids[:i:i], p.ids[i+1:]...)
}

type visit struct {
	pos  Position
	pool *candidatePool
}

// Solve builds a complete placement. Calling it again starts over.
func (s *Solver) Solve() (Placement, error) {
	s.placed = make(Placement, len(s.index.catalog))

	if s.side == 1 {
		id := s.index.ids[0]
		s.placed[Position{}] = Placed{Tile: s.index.catalog[id].Rotate(0)}
		return s.placed, nil
	}

	corners := &candidatePool{class: Corner, ids: s.index.Pieces(Corner)}
	edges := &candidatePool{class: EdgePiece, ids: s.index.Pieces(EdgePiece)}
	inner := &candidatePool{class: Interior, ids: s.index.Pieces(Interior)}

	n := s.side
	if len(corners.ids) != 4 || len(edges.ids) != 4*(n-2) || len(inner.ids) != (n-2)*(n-2) {
		return nil, fmt.Errorf("%w: %dx%d grid needs 4 corner, %d edge and %d interior tiles, have %d, %d and %d",
			ErrUnsatisfiablePlacement, n, n, 4*(n-2), (n-2)*(n-2),
			len(corners.ids), len(edges.ids), len(inner.ids))
	}

	for _, v := range s.visitOrder(corners, edges, inner) {
		if err := s.fillAt(v.pos, v.pool); err != nil {
			return nil, err
		}
	}
	return s.placed, nil
}

// visitOrder walks the border ring clockwise from the top-left corner, with
// each corner followed by the run it starts, then the interior row by row.
// Every position after the first has at least one placed neighbor, which is
// what pins down its orientation.
func (s *Solver) visitOrder(corners, edges, inner *candidatePool) []visit {
	last := s.side - 1
	order := make([]visit, 0, s.side*s.side)
	add := func(x, y int, pool *candidatePool) {
		order = append(order, visit{Position{x, y}, pool})
	}

	add(0, 0, corners)
	for x := 1; x < last; x++ {
		add(x, 0, edges)
	}
	add(last, 0, corners)
	for y := 1; y < last; y++ {
		add(last, y, edges)
	}
	add(last, last, corners)
	for y := 1; y < last; y++ {
		add(0, y, edges)
	}
	add(0, last, corners)
	for x := 1; x < last; x++ {
		add(x, last, edges)
	}
	for y := 1; y < last; y++ {
		for x := 1; x < last; x++ {
			add(x, y, inner)
		}
	}
	return order
}

// fillAt commits the first candidate and orientation from pool that fits at
// pos and removes it from the pool.
func (s *Solver) fillAt(pos Position, pool *candidatePool) error {
	for i, id := range pool.ids {
		t := s.index.catalog[id]
		for _, o := range tile.Orientations() {
			if s.fits(pos, t, o) {
				s.placed[pos] = Placed{Tile: t.Orient(o), Orientation: o}
				pool.take(i)
				return nil
			}
		}
	}
	return &PlacementError{
		Pos:   pos,
		Class: pool.class,
		Pool:  append([]int(nil), pool.ids...),
	}
}

// fits tests t in orientation o at pos using edge lookups only: every placed
// neighbor must meet it with a reversed-equal edge, and every side facing
// off the grid must be a border edge.
func (s *Solver) fits(pos Position, t *tile.Tile, o tile.Orientation) bool {
	for side := 0; side < 4; side++ {
		edge := t.OrientedEdge(o, side)
		next := pos.Step(side)
		if !s.inBounds(next) {
			if s.index.edgeMatches(t.ID(), edge) != 0 {
				return false
			}
			continue
		}
		if nb, ok := s.placed[next]; ok {
			if !edge.Fits(nb.Tile.Edge(0, tile.Opposite(side))) {
				return false
			}
		}
	}
	return true
}

func (s *Solver) inBounds(p Position) bool {
	return p.X >= 0 && p.X < s.side && p.Y >= 0 && p.Y < s.side
}

// intSqrt returns the integer square root of n when n is a positive perfect
// square.
func intSqrt(n int) (int, bool) {
	for i := 1; i*i <= n; i++ {
		if i*i == n {
			return i, true
		}
	}
	return 0, false
}
