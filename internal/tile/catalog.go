package tile

import "sort"

// Catalog maps tile identifiers to tiles. It is built once and treated as
// read-only afterwards.
type Catalog map[int]*Tile

// IDs returns the identifiers in ascending order so that iteration over the
// catalog is deterministic.
func (c Catalog) IDs() []int {
	ids := make([]int, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// TileSize returns the common side length of the tiles, or 0 for an empty
// catalog.
func (c Catalog) TileSize() int {
	for _, t := range c {
		return t.Size()
	}
	return 0
}
