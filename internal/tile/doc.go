// Package tile provides the pixel primitives of the jigsaw engine: square
// boolean grids, their boundary edges, and the eight orientations a tile can
// be placed in.
//
// # Coordinate System
//
// Grids are indexed [row][col] with (0,0) at the top-left corner. Rows grow
// downward and columns grow rightward, matching the image package convention
// used when grids are rendered.
//
// # Edges
//
// Every tile caches its four boundary edges, read clockwise starting from the
// top edge:
//   - Top: left to right
//   - Right: top to bottom
//   - Bottom: right to left
//   - Left: bottom to top
//
// Because two touching tiles traverse their shared border in opposite
// directions, neighboring edges fit when one equals the other reversed.
//
// # Orientations
//
// A tile has eight orientations: the four clockwise rotations of its grid and
// the four rotations of its horizontal mirror. Orientation is applied as
// "mirror first, then rotate". Edge lookups for an orientation are index
// transforms over the cached edges; grids are only materialized by Orient,
// Rotate, and Mirror.
//
// # Immutability
//
// Tiles are immutable. Every transform returns a new Tile and accessors that
// expose pixel data return copies, so tiles can be shared freely.
package tile
