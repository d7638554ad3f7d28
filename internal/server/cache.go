package server

import (
	"fmt"
	"os"
	"sync"

	"github.com/ironsheep/jigsaw-tools-mcp/internal/assembly"
	"github.com/ironsheep/jigsaw-tools-mcp/internal/tile"
)

// PuzzleCache keeps parsed tile catalogs and their assemblies keyed by file
// path, so a client can render, crop and scan one puzzle without re-solving
// it on every call.
//
// Entries stay in memory until Evict removes them. A file that
// changes on disk is not noticed until its entry is evicted.
type PuzzleCache struct {
	mu      sync.Mutex
	entries map[string]*puzzleEntry
}

type puzzleEntry struct {
	catalog tile.Catalog
	result  *assembly.Result
	err     error // sticky assembly failure
}

// NewPuzzleCache creates an empty cache.
func NewPuzzleCache() *PuzzleCache {
	return &PuzzleCache{
		entries: make(map[string]*puzzleEntry),
	}
}

// Catalog returns the tiles parsed from path, reading the file on first use.
func (c *PuzzleCache) Catalog(path string) (tile.Catalog, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, err := c.entry(path)
	if err != nil {
		return nil, err
	}
	return e.catalog, nil
}

// Assembly returns the assembled puzzle at path. The solve runs once per
// path; a failure is remembered and returned again on later calls.
func (c *PuzzleCache) Assembly(path string) (*assembly.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, err := c.entry(path)
	if err != nil {
		return nil, err
	}
	if e.result == nil && e.err == nil {
		e.result, e.err = assembly.Assemble(e.catalog)
	}
	return e.result, e.err
}

// entry must be called with mu held.
func (c *PuzzleCache) entry(path string) (*puzzleEntry, error) {
	if e, ok := c.entries[path]; ok {
		return e, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open puzzle: %w", err)
	}
	defer f.Close()

	cat, err := tile.ParseCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	e := &puzzleEntry{catalog: cat}
	c.entries[path] = e
	return e, nil
}

// Evict removes one puzzle from the cache by its path.
func (c *PuzzleCache) Evict(path string) {
	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
}
