// Package imaging turns jigsaw pixel grids into images and back.
//
// This package renders tile.Grid values as PNG images, overlays tile
// boundaries and identifiers on rendered assemblies, crops single tile cells
// out of a rendering, and reads bitmaps back into grids. It works with
// standard Go image.Image types and uses a coordinate system where (0,0) is
// at the top-left corner, X increases rightward, and Y increases downward.
//
// # Coordinate System
//
// Grid cells map to square blocks of Scale x Scale image pixels:
//   - Grid column c covers image X range [c*Scale, (c+1)*Scale)
//   - Grid row r covers image Y range [r*Scale, (r+1)*Scale)
//   - Tile cell (x, y) of an assembly covers grid columns [x*cell, (x+1)*cell)
//
// # Colors
//
// Colors are handled through go-colorful so hex parsing, hex formatting and
// hue palettes share one representation. Hex strings use "#RRGGBB" or "#RGB".
//
// # Thread Safety
//
// The BitmapCache type is safe for concurrent use. Rendering functions are
// stateless and never modify their input grids.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Cell coordinates outside the rendered assembly
//   - Cell sizes smaller than one pixel
//   - File I/O errors during image loading
//   - Encoding errors during PNG output
package imaging
