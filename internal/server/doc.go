// Package server implements the MCP (Model Context Protocol) server for the
// tile-assembly tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the jigsaw engine
// through the MCP protocol, so an MCP client can load a puzzle, assemble it,
// look at the result and search it for patterns.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Puzzle Information:
//   - jigsaw_load: Tile count, tile size, grid side and ids
//   - jigsaw_classify: Corner, edge and interior tiles; corner id product
//
// Assembly:
//   - jigsaw_assemble: Arrangement and composed image as text
//
// Rendering:
//   - jigsaw_render: Composed image as PNG, optionally with tile outlines and
//     highlighted pattern pixels
//   - jigsaw_render_tile: One tile in any orientation as PNG
//   - jigsaw_crop_tile: One cell of the composed image as PNG
//
// Pattern Search:
//   - jigsaw_scan: Pattern occurrences and unmarked pixel count
//   - jigsaw_pattern_from_image: Read pattern text from a bitmap
//
// # Puzzle Caching
//
// Parsed puzzles and their assemblies are cached by path (see PuzzleCache),
// so rendering, cropping and scanning one puzzle solve it only once. Bitmaps
// read by jigsaw_pattern_from_image, and the grids thresholded out of them,
// go through an imaging.BitmapCache.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string; unknown tool names carry a suggestion
//
// # Usage
//
//	srv := server.NewWithConfig(server.Config{RenderScale: 6})
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
