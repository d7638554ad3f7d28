package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"sync"

	"github.com/anthonynsimon/bild/imgio"

	"github.com/ironsheep/jigsaw-tools-mcp/internal/tile"
)

// sampling identifies one way of reading a bitmap back into a grid.
type sampling struct {
	cellPx int
	level  uint8
}

type bitmap struct {
	img   image.Image
	grids map[sampling]tile.Grid
}

// BitmapCache holds decoded bitmaps by file path together with every grid
// already thresholded out of them. A bitmap stays cached until Evict.
type BitmapCache struct {
	mu      sync.Mutex
	bitmaps map[string]*bitmap
}

// NewBitmapCache returns an empty cache.
func NewBitmapCache() *BitmapCache {
	return &BitmapCache{bitmaps: make(map[string]*bitmap)}
}

// Load returns the decoded image at path, reading it from disk on first use.
// PNG, JPEG and GIF are supported.
func (c *BitmapCache) Load(path string) (image.Image, error) {
	b, err := c.bitmap(path)
	if err != nil {
		return nil, err
	}
	return b.img, nil
}

// Grid returns the image at path thresholded at level and sampled every
// cellPx pixels, as GridFromImage does. Results are cached per
// (cellPx, level); callers get their own copy.
func (c *BitmapCache) Grid(path string, cellPx int, level uint8) (tile.Grid, error) {
	b, err := c.bitmap(path)
	if err != nil {
		return nil, err
	}
	key := sampling{cellPx: cellPx, level: level}

	c.mu.Lock()
	g, ok := b.grids[key]
	c.mu.Unlock()
	if !ok {
		if g, err = GridFromImage(b.img, cellPx, level); err != nil {
			return nil, err
		}
		c.mu.Lock()
		b.grids[key] = g
		c.mu.Unlock()
	}
	return g.Clone(), nil
}

func (c *BitmapCache) bitmap(path string) (*bitmap, error) {
	c.mu.Lock()
	b, ok := c.bitmaps[path]
	c.mu.Unlock()
	if ok {
		return b, nil
	}

	img, err := imgio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if b, ok := c.bitmaps[path]; ok {
		return b, nil
	}
	b = &bitmap{img: img, grids: make(map[sampling]tile.Grid)}
	c.bitmaps[path] = b
	return b, nil
}

// Evict drops the bitmap at path and every grid read from it.
func (c *BitmapCache) Evict(path string) {
	c.mu.Lock()
	delete(c.bitmaps, path)
	c.mu.Unlock()
}
