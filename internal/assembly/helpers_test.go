package assembly

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/jigsaw-tools-mcp/internal/tile"
)

const sampleCornerProduct = 20899048083289

// loadSample parses the nine-tile 3x3 sample puzzle shared with the tile package.
func loadSample(t *testing.T) tile.Catalog {
	t.Helper()
	f, err := os.Open(filepath.Join("..", "tile", "testdata", "sample.txt"))
	if err != nil {
		t.Fatalf("failed to open sample: %v", err)
	}
	defer f.Close()

	cat, err := tile.ParseCatalog(f)
	if err != nil {
		t.Fatalf("ParseCatalog failed: %v", err)
	}
	return cat
}

// synthCatalog cuts an n x n puzzle of w-pixel tiles out of a random canvas.
// Neighboring tiles share their border line, so touching edges match exactly,
// and every tile is scrambled into a random orientation.
func synthCatalog(t *testing.T, n, w int, seed int64) tile.Catalog {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))

	size := n*(w-1) + 1
	canvas := tile.NewGrid(size, size)
	for y := range canvas {
		for x := range canvas[y] {
			canvas[y][x] = rng.Intn(2) == 1
		}
	}

	cat := make(tile.Catalog, n*n)
	for ty := 0; ty < n; ty++ {
		for tx := 0; tx < n; tx++ {
			g := tile.NewGrid(w, w)
			for y := 0; y < w; y++ {
				copy(g[y], canvas[ty*(w-1)+y][tx*(w-1):tx*(w-1)+w])
			}
			id := 1000 + ty*n + tx
			tl, err := tile.New(id, g)
			if err != nil {
				t.Fatalf("tile.New failed: %v", err)
			}
			o := tile.Orientations()[rng.Intn(8)]
			cat[id] = tl.Orient(o)
		}
	}
	return cat
}

// solveCatalog runs the index and solver and fails the test on error.
func solveCatalog(t *testing.T, cat tile.Catalog) (*Index, *Solver, Placement) {
	t.Helper()
	ix := NewIndex(cat)
	s, err := NewSolver(ix)
	if err != nil {
		t.Fatalf("NewSolver failed: %v", err)
	}
	p, err := s.Solve()
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	return ix, s, p
}
