package tile

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

var tileHeader = regexp.MustCompile(`^Tile (\d+):$`)

// ParseGrid reads rows of '#' (on) and '.' (off) into a grid. Every row must
// have the same length.
func ParseGrid(rows []string) (Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no pixel rows", ErrMalformedTile)
	}
	g := make(Grid, len(rows))
	for y, row := range rows {
		if len(row) != len(rows[0]) {
			return nil, fmt.Errorf("%w: row %d has %d pixels, want %d",
				ErrMalformedTile, y, len(row), len(rows[0]))
		}
		g[y] = make([]bool, len(row))
		for x, c := range row {
			switch c {
			case '#':
				g[y][x] = true
			case '.':
			default:
				return nil, fmt.Errorf("%w: unexpected %q at row %d col %d",
					ErrMalformedTile, c, y, x)
			}
		}
	}
	return g, nil
}

// Parse reads one tile block: a "Tile <id>:" header followed by square rows
// of pixels. Surrounding whitespace and blank lines are ignored.
func Parse(block string) (*Tile, error) {
	var lines []string
	for _, l := range strings.Split(block, "\n") {
		l = strings.TrimSpace(l)
		if l != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: empty block", ErrMalformedTile)
	}

	m := tileHeader.FindStringSubmatch(lines[0])
	if m == nil {
		return nil, fmt.Errorf("%w: bad header %q", ErrMalformedTile, lines[0])
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, fmt.Errorf("%w: bad identifier %q: %v", ErrMalformedTile, m[1], err)
	}

	g, err := ParseGrid(lines[1:])
	if err != nil {
		return nil, fmt.Errorf("tile %d: %w", id, err)
	}
	return New(id, g)
}

// ParseCatalog reads every blank-line separated tile block from r. Duplicate
// identifiers and tiles of differing sizes are rejected.
func ParseCatalog(r io.Reader) (Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read tiles: %w", err)
	}
	text := strings.ReplaceAll(string(data), "\r", "")

	cat := make(Catalog)
	size := 0
	for _, block := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(block) == "" {
			continue
		}
		t, err := Parse(block)
		if err != nil {
			return nil, err
		}
		if _, dup := cat[t.ID()]; dup {
			return nil, fmt.Errorf("%w: duplicate tile %d", ErrMalformedTile, t.ID())
		}
		if size == 0 {
			size = t.Size()
		} else if t.Size() != size {
			return nil, fmt.Errorf("%w: tile %d is %d pixels wide, others are %d",
				ErrMalformedTile, t.ID(), t.Size(), size)
		}
		cat[t.ID()] = t
	}
	if len(cat) == 0 {
		return nil, fmt.Errorf("%w: no tiles found", ErrMalformedTile)
	}
	return cat, nil
}
