package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"log"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/ironsheep/jigsaw-tools-mcp/internal/assembly"
	"github.com/ironsheep/jigsaw-tools-mcp/internal/imaging"
	"github.com/ironsheep/jigsaw-tools-mcp/internal/overlay"
	"github.com/ironsheep/jigsaw-tools-mcp/internal/tile"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "jigsaw_load", "jigsaw_scan").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		if s.config.Debug {
			logToolError(params.Name, err)
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Puzzle Information
	case "jigsaw_load":
		return s.handleJigsawLoad(args)
	case "jigsaw_classify":
		return s.handleJigsawClassify(args)

	// Assembly
	case "jigsaw_assemble":
		return s.handleJigsawAssemble(args)

	// Rendering
	case "jigsaw_render":
		return s.handleJigsawRender(args)
	case "jigsaw_render_tile":
		return s.handleJigsawRenderTile(args)
	case "jigsaw_crop_tile":
		return s.handleJigsawCropTile(args)

	// Pattern Search
	case "jigsaw_scan":
		return s.handleJigsawScan(args)
	case "jigsaw_pattern_from_image":
		return s.handleJigsawPatternFromImage(args)

	default:
		return nil, unknownToolError(name)
	}
}

// unknownToolError names the closest defined tool when there is one.
func unknownToolError(name string) error {
	if name != "" {
		if matches := fuzzy.Find(name, toolNames()); len(matches) > 0 {
			return fmt.Errorf("unknown tool: %s (did you mean %s?)", name, matches[0].Str)
		}
	}
	return fmt.Errorf("unknown tool: %s", name)
}

func logToolError(name string, err error) {
	var pe *assembly.PlacementError
	if errors.As(err, &pe) {
		log.Printf("%s: no tile fits at %v; %s candidates left: %v", name, pe.Pos, pe.Class, pe.Pool)
		return
	}
	log.Printf("%s: %v", name, err)
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// renderScale picks the requested scale or the configured default.
func (s *Server) renderScale(requested int) int {
	if requested > 0 {
		return requested
	}
	return s.config.RenderScale
}

// patternOrDefault parses text, or returns the sea monster when text is empty.
func patternOrDefault(text string) (overlay.Pattern, error) {
	if strings.TrimSpace(text) == "" {
		return overlay.SeaMonster(), nil
	}
	return overlay.ParsePattern(text)
}

// gridSide returns the side of an n-tile square, or 0 if n is not a square.
func gridSide(n int) int {
	side := 0
	for side*side < n {
		side++
	}
	if side*side != n {
		return 0
	}
	return side
}

// cellPixels is the width in grid pixels of one tile in the composed image.
func cellPixels(res *assembly.Result) int {
	return res.Image.Width() / res.Side
}

func splitRows(g fmt.Stringer) []string {
	return strings.Split(g.String(), "\n")
}

// === Puzzle Information Handlers ===

type puzzleArgs struct {
	Path string `json:"path"`
}

type loadArgs struct {
	Path   string `json:"path"`
	Reload bool   `json:"reload"`
}

type puzzleInfo struct {
	Path     string `json:"path"`
	Tiles    int    `json:"tiles"`
	TileSize int    `json:"tile_size"`
	Side     int    `json:"side"` // 0 when the tiles cannot form a square
	IDs      []int  `json:"ids"`
}

func (s *Server) handleJigsawLoad(args json.RawMessage) (interface{}, error) {
	var a loadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Reload {
		s.puzzles.Evict(a.Path)
	}
	cat, err := s.puzzles.Catalog(a.Path)
	if err != nil {
		return nil, err
	}
	return &puzzleInfo{
		Path:     a.Path,
		Tiles:    len(cat),
		TileSize: cat.TileSize(),
		Side:     gridSide(len(cat)),
		IDs:      cat.IDs(),
	}, nil
}

type classifyResult struct {
	Corners            []int         `json:"corners"`
	Edges              []int         `json:"edges"`
	Interior           []int         `json:"interior"`
	Unclassified       []int         `json:"unclassified,omitempty"`
	BorderSides        map[int][]int `json:"border_sides"` // 0 top, 1 right, 2 bottom, 3 left
	CornerProduct      int           `json:"corner_product,omitempty"`
	CornerProductError string        `json:"corner_product_error,omitempty"`
}

func (s *Server) handleJigsawClassify(args json.RawMessage) (interface{}, error) {
	var a puzzleArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	cat, err := s.puzzles.Catalog(a.Path)
	if err != nil {
		return nil, err
	}

	ix := assembly.NewIndex(cat)
	result := &classifyResult{
		Corners:      ix.Pieces(assembly.Corner),
		Edges:        ix.Pieces(assembly.EdgePiece),
		Interior:     ix.Pieces(assembly.Interior),
		Unclassified: ix.Pieces(assembly.Unclassified),
		BorderSides:  make(map[int][]int, len(cat)),
	}
	for _, id := range cat.IDs() {
		if sides := ix.BorderSides(id); len(sides) > 0 {
			result.BorderSides[id] = sides
		}
	}
	if product, err := ix.CornerProduct(); err != nil {
		result.CornerProductError = err.Error()
	} else {
		result.CornerProduct = product
	}
	return result, nil
}

// === Assembly Handlers ===

type assembleResult struct {
	Side        int                     `json:"side"`
	Arrangement [][]assembly.PlacedTile `json:"arrangement"`
	Width       int                     `json:"width"`
	Height      int                     `json:"height"`
	OnPixels    int                     `json:"on_pixels"`
	Image       []string                `json:"image"`
}

func (s *Server) handleJigsawAssemble(args json.RawMessage) (interface{}, error) {
	var a puzzleArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	res, err := s.puzzles.Assembly(a.Path)
	if err != nil {
		return nil, err
	}
	return &assembleResult{
		Side:        res.Side,
		Arrangement: res.Placement.Arrangement(res.Side),
		Width:       res.Image.Width(),
		Height:      res.Image.Height(),
		OnPixels:    res.Image.Count(),
		Image:       splitRows(res.Image),
	}, nil
}

// === Rendering Handlers ===

type renderArgs struct {
	Path             string `json:"path"`
	Scale            int    `json:"scale"`
	ShowTiles        bool   `json:"show_tiles"`
	HighlightPattern bool   `json:"highlight_pattern"`
	Pattern          string `json:"pattern"`
	Color            string `json:"color"`
}

type scanSummary struct {
	Occurrences int `json:"occurrences"`
	Covered     int `json:"covered"`
	Unmarked    int `json:"unmarked"`
}

type renderResult struct {
	imaging.ImageResult
	OnColor string       `json:"on_color"`
	Scan    *scanSummary `json:"scan,omitempty"`
}

func (s *Server) handleJigsawRender(args json.RawMessage) (interface{}, error) {
	var a renderArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	res, err := s.puzzles.Assembly(a.Path)
	if err != nil {
		return nil, err
	}

	opts := imaging.DefaultRenderOptions()
	opts.Scale = s.renderScale(a.Scale)
	opts.On = imaging.ParseColor(a.Color, imaging.DefaultOnColor)

	var summary *scanSummary
	if a.HighlightPattern {
		p, err := patternOrDefault(a.Pattern)
		if err != nil {
			return nil, err
		}
		found := overlay.Scan(res.Image, p)
		opts.Highlight = found.Covered
		summary = &scanSummary{
			Occurrences: len(found.Occurrences),
			Covered:     found.Covered.Count(),
			Unmarked:    found.Unmarked,
		}
	}

	cell := cellPixels(res)
	if a.ShowTiles {
		opts.CellSize = cell
	}
	var img image.Image = imaging.Render(res.Image, opts)
	if a.ShowTiles {
		img = imaging.TileOverlay(img, cell*opts.Scale, tileLabels(res), nil)
	}

	encoded, err := imaging.EncodePNG(img)
	if err != nil {
		return nil, err
	}
	return &renderResult{
		ImageResult: *encoded,
		OnColor:     imaging.HexString(opts.On),
		Scan:        summary,
	}, nil
}

func tileLabels(res *assembly.Result) [][]string {
	arr := res.Placement.Arrangement(res.Side)
	labels := make([][]string, len(arr))
	for y, row := range arr {
		labels[y] = make([]string, len(row))
		for x, pt := range row {
			labels[y][x] = strconv.Itoa(pt.ID)
		}
	}
	return labels
}

type renderTileArgs struct {
	Path     string `json:"path"`
	ID       int    `json:"id"`
	Rotation int    `json:"rotation"`
	Mirrored bool   `json:"mirrored"`
	Scale    int    `json:"scale"`
}

type renderTileResult struct {
	imaging.ImageResult
	ID          int              `json:"id"`
	Orientation tile.Orientation `json:"orientation"`
	Edges       [4]string        `json:"edges"` // top, right, bottom, left; clockwise
}

func (s *Server) handleJigsawRenderTile(args json.RawMessage) (interface{}, error) {
	var a renderTileArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	cat, err := s.puzzles.Catalog(a.Path)
	if err != nil {
		return nil, err
	}
	t, ok := cat[a.ID]
	if !ok {
		return nil, fmt.Errorf("tile %d not found in %s", a.ID, a.Path)
	}

	o := tile.Orientation{Rotation: ((a.Rotation % 4) + 4) % 4, Mirrored: a.Mirrored}
	oriented := t.Orient(o)

	opts := imaging.DefaultRenderOptions()
	opts.Scale = s.renderScale(a.Scale)
	encoded, err := imaging.EncodePNG(imaging.Render(oriented.Grid(), opts))
	if err != nil {
		return nil, err
	}

	result := &renderTileResult{ImageResult: *encoded, ID: a.ID, Orientation: o}
	for side, e := range oriented.Edges() {
		result.Edges[side] = e.String()
	}
	return result, nil
}

type cropTileArgs struct {
	Path  string `json:"path"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Scale int    `json:"scale"`
}

type cropTileResult struct {
	imaging.ImageResult
	Tile assembly.PlacedTile `json:"tile"`
}

func (s *Server) handleJigsawCropTile(args json.RawMessage) (interface{}, error) {
	var a cropTileArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	res, err := s.puzzles.Assembly(a.Path)
	if err != nil {
		return nil, err
	}

	// Crop at one pixel per grid pixel, then scale only the cell.
	opts := imaging.DefaultRenderOptions()
	opts.Scale = 1
	img := imaging.Render(res.Image, opts)

	cropped, err := imaging.CropCell(img, a.X, a.Y, cellPixels(res))
	if err != nil {
		return nil, err
	}
	scale := s.renderScale(a.Scale)
	encoded, err := imaging.EncodePNG(imaging.Scale(cropped, float64(scale)))
	if err != nil {
		return nil, err
	}

	pl := res.Placement[assembly.Position{X: a.X, Y: a.Y}]
	return &cropTileResult{
		ImageResult: *encoded,
		Tile: assembly.PlacedTile{
			ID:          pl.Tile.ID(),
			X:           a.X,
			Y:           a.Y,
			Orientation: pl.Orientation,
		},
	}, nil
}

// === Pattern Search Handlers ===

type scanArgs struct {
	Path    string `json:"path"`
	Pattern string `json:"pattern"`
}

type scanResult struct {
	Pattern     []string             `json:"pattern"`
	Occurrences []overlay.Occurrence `json:"occurrences"`
	OnPixels    int                  `json:"on_pixels"`
	Covered     int                  `json:"covered"`
	Unmarked    int                  `json:"unmarked"`
}

func (s *Server) handleJigsawScan(args json.RawMessage) (interface{}, error) {
	var a scanArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	p, err := patternOrDefault(a.Pattern)
	if err != nil {
		return nil, err
	}
	res, err := s.puzzles.Assembly(a.Path)
	if err != nil {
		return nil, err
	}
	return newScanResult(res.Image, p), nil
}

func newScanResult(img tile.Grid, p overlay.Pattern) *scanResult {
	found := overlay.Scan(img, p)
	occ := found.Occurrences
	if occ == nil {
		occ = []overlay.Occurrence{}
	}
	return &scanResult{
		Pattern:     splitRows(p),
		Occurrences: occ,
		OnPixels:    img.Count(),
		Covered:     found.Covered.Count(),
		Unmarked:    found.Unmarked,
	}
}

type patternFromImageArgs struct {
	ImagePath string `json:"image_path"`
	Threshold int    `json:"threshold"`
	CellSize  int    `json:"cell_size"`
	Path      string `json:"path"`
	Reload    bool   `json:"reload"`
}

type patternFromImageResult struct {
	Pattern []string    `json:"pattern"`
	Width   int         `json:"width"`
	Height  int         `json:"height"`
	OnCells int         `json:"on_cells"`
	Scan    *scanResult `json:"scan,omitempty"`
}

func (s *Server) handleJigsawPatternFromImage(args json.RawMessage) (interface{}, error) {
	var a patternFromImageArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Threshold == 0 {
		a.Threshold = 128
	}
	if a.Threshold < 1 || a.Threshold > 255 {
		return nil, fmt.Errorf("threshold %d outside 1-255", a.Threshold)
	}
	if a.CellSize == 0 {
		a.CellSize = 1
	}

	if a.Reload {
		s.bitmaps.Evict(a.ImagePath)
	}
	g, err := s.bitmaps.Grid(a.ImagePath, a.CellSize, uint8(a.Threshold))
	if err != nil {
		return nil, err
	}
	p, err := overlay.ParsePattern(g.String())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.ImagePath, err)
	}

	result := &patternFromImageResult{
		Pattern: splitRows(p),
		Width:   p.Width(),
		Height:  p.Height(),
		OnCells: p.Grid().Count(),
	}
	if a.Path != "" {
		res, err := s.puzzles.Assembly(a.Path)
		if err != nil {
			return nil, err
		}
		result.Scan = newScanResult(res.Image, p)
	}
	return result, nil
}
