package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/png"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/ironsheep/jigsaw-tools-mcp/internal/assembly"
	"github.com/ironsheep/jigsaw-tools-mcp/internal/imaging"
	"github.com/ironsheep/jigsaw-tools-mcp/internal/overlay"
)

const samplePath = "../tile/testdata/sample.txt"

// callTool sends a tools/call request and decodes the tool's JSON text into
// out. It returns the JSON-RPC error, if any.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}, out interface{}) *MCPError {
	t.Helper()

	params := map[string]interface{}{
		"name":      name,
		"arguments": args,
	}
	paramsJSON, _ := json.Marshal(params)

	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	if resp.Error != nil {
		return resp.Error
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) != 1 {
		t.Fatalf("content: got %v", result["content"])
	}
	text, _ := content[0]["text"].(string)
	if out != nil {
		if err := json.Unmarshal([]byte(text), out); err != nil {
			t.Fatalf("failed to decode %s result: %v", name, err)
		}
	}
	return nil
}

// writePuzzle writes text to a temp file and returns its path.
// The caller is responsible for removing the file.
func writePuzzle(t *testing.T, text string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp("", "puzzle-*.txt")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer tmpFile.Close()

	if _, err := tmpFile.WriteString(text); err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to write puzzle: %v", err)
	}
	return tmpFile.Name()
}

// twoTilePuzzle returns the first two tiles of the sample.
func twoTilePuzzle(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(samplePath)
	if err != nil {
		t.Fatalf("failed to read sample: %v", err)
	}
	blocks := strings.Split(strings.ReplaceAll(string(data), "\r", ""), "\n\n")
	return blocks[0] + "\n\n" + blocks[1] + "\n"
}

func decodeResultPNG(t *testing.T, r imaging.ImageResult) image.Image {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(r.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode PNG: %v", err)
	}
	if img.Bounds().Dx() != r.Width || img.Bounds().Dy() != r.Height {
		t.Errorf("PNG is %v, result says %dx%d", img.Bounds(), r.Width, r.Height)
	}
	return img
}

func TestHandleToolsCall_Load(t *testing.T) {
	s := New()

	var got puzzleInfo
	if err := callTool(t, s, "jigsaw_load", map[string]interface{}{"path": samplePath}, &got); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if got.Tiles != 9 {
		t.Errorf("Tiles: got %d, want 9", got.Tiles)
	}
	if got.TileSize != 10 {
		t.Errorf("TileSize: got %d, want 10", got.TileSize)
	}
	if got.Side != 3 {
		t.Errorf("Side: got %d, want 3", got.Side)
	}
	if len(got.IDs) != 9 || got.IDs[0] != 1171 || got.IDs[8] != 3079 {
		t.Errorf("IDs: got %v", got.IDs)
	}
}

func TestHandleToolsCall_Classify(t *testing.T) {
	s := New()

	var got classifyResult
	if err := callTool(t, s, "jigsaw_classify", map[string]interface{}{"path": samplePath}, &got); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	wantCorners := []int{1171, 1951, 2971, 3079}
	if len(got.Corners) != len(wantCorners) {
		t.Fatalf("Corners: got %v, want %v", got.Corners, wantCorners)
	}
	for i := range wantCorners {
		if got.Corners[i] != wantCorners[i] {
			t.Errorf("Corners: got %v, want %v", got.Corners, wantCorners)
			break
		}
	}
	if len(got.Edges) != 4 || len(got.Interior) != 1 || got.Interior[0] != 1427 {
		t.Errorf("Edges %v, Interior %v: want 4 edges and interior [1427]", got.Edges, got.Interior)
	}
	if len(got.BorderSides[1951]) != 2 || len(got.BorderSides[2311]) != 1 {
		t.Errorf("BorderSides: got %v", got.BorderSides)
	}
	if _, ok := got.BorderSides[1427]; ok {
		t.Error("interior tile 1427 should have no border sides")
	}
	if got.CornerProduct != 20899048083289 {
		t.Errorf("CornerProduct: got %d, want 20899048083289", got.CornerProduct)
	}
	if got.CornerProductError != "" {
		t.Errorf("CornerProductError: got %q", got.CornerProductError)
	}
}

func TestHandleToolsCall_ClassifyTwoTiles(t *testing.T) {
	s := New()
	path := writePuzzle(t, twoTilePuzzle(t))
	defer os.Remove(path)

	var got classifyResult
	if err := callTool(t, s, "jigsaw_classify", map[string]interface{}{"path": path}, &got); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got.CornerProductError == "" {
		t.Error("expected a corner product error without four corners")
	}
}

func TestHandleToolsCall_Assemble(t *testing.T) {
	s := New()

	var got assembleResult
	if err := callTool(t, s, "jigsaw_assemble", map[string]interface{}{"path": samplePath}, &got); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if got.Side != 3 {
		t.Errorf("Side: got %d, want 3", got.Side)
	}
	if got.Width != 24 || got.Height != 24 {
		t.Errorf("dimensions: got %dx%d, want 24x24", got.Width, got.Height)
	}
	if got.OnPixels != 303 {
		t.Errorf("OnPixels: got %d, want 303", got.OnPixels)
	}
	if len(got.Image) != 24 || len(got.Image[0]) != 24 {
		t.Errorf("image text: got %d rows", len(got.Image))
	}
	if len(got.Arrangement) != 3 || len(got.Arrangement[1]) != 3 {
		t.Fatalf("arrangement shape: got %v", got.Arrangement)
	}
	if center := got.Arrangement[1][1]; center.ID != 1427 || center.X != 1 || center.Y != 1 {
		t.Errorf("center: got %+v, want tile 1427 at (1,1)", center)
	}
}

func TestHandleToolsCall_AssembleNonSquare(t *testing.T) {
	s := New()
	path := writePuzzle(t, twoTilePuzzle(t))
	defer os.Remove(path)

	var info puzzleInfo
	if err := callTool(t, s, "jigsaw_load", map[string]interface{}{"path": path}, &info); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if info.Side != 0 {
		t.Errorf("Side: got %d, want 0", info.Side)
	}

	err := callTool(t, s, "jigsaw_assemble", map[string]interface{}{"path": path}, nil)
	if err == nil {
		t.Fatal("Expected error for two tiles")
	}
	if err.Code != -32000 {
		t.Errorf("Error code: got %d, want -32000", err.Code)
	}
	data, _ := err.Data.(string)
	if !strings.Contains(data, assembly.ErrNonSquareAssembly.Error()) {
		t.Errorf("Error data: got %q", data)
	}
}

func TestHandleToolsCall_LoadReload(t *testing.T) {
	s := New()
	path := writePuzzle(t, twoTilePuzzle(t))
	defer os.Remove(path)

	var info puzzleInfo
	if err := callTool(t, s, "jigsaw_load", map[string]interface{}{"path": path}, &info); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if info.Tiles != 2 {
		t.Fatalf("Tiles: got %d, want 2", info.Tiles)
	}

	sample, err := os.ReadFile(samplePath)
	if err != nil {
		t.Fatalf("failed to read sample: %v", err)
	}
	if err := os.WriteFile(path, sample, 0o644); err != nil {
		t.Fatalf("failed to rewrite puzzle: %v", err)
	}

	// Without reload the cached catalog is returned
	if err := callTool(t, s, "jigsaw_load", map[string]interface{}{"path": path}, &info); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if info.Tiles != 2 {
		t.Errorf("cached Tiles: got %d, want 2", info.Tiles)
	}

	args := map[string]interface{}{"path": path, "reload": true}
	if err := callTool(t, s, "jigsaw_load", args, &info); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if info.Tiles != 9 || info.Side != 3 {
		t.Errorf("reloaded: got %d tiles, side %d; want 9 tiles, side 3", info.Tiles, info.Side)
	}
}

func TestHandleToolsCall_NonExistentFile(t *testing.T) {
	s := New()

	for _, name := range []string{"jigsaw_load", "jigsaw_assemble", "jigsaw_scan"} {
		t.Run(name, func(t *testing.T) {
			err := callTool(t, s, name, map[string]interface{}{"path": "/nonexistent/tiles.txt"}, nil)
			if err == nil {
				t.Fatal("Expected error for non-existent file")
			}
			if err.Code != -32000 {
				t.Errorf("Error code: got %d, want -32000", err.Code)
			}
		})
	}
}

func TestHandleToolsCall_Render(t *testing.T) {
	s := New()

	var got renderResult
	if err := callTool(t, s, "jigsaw_render", map[string]interface{}{"path": samplePath}, &got); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got.Width != 96 || got.Height != 96 {
		t.Errorf("dimensions: got %dx%d, want 96x96", got.Width, got.Height)
	}
	if got.Scan != nil {
		t.Errorf("Scan: got %+v, want nil without highlight", got.Scan)
	}
	decodeResultPNG(t, got.ImageResult)
}

func TestHandleToolsCall_RenderWithTilesAndHighlight(t *testing.T) {
	s := New()

	args := map[string]interface{}{
		"path":              samplePath,
		"scale":             2,
		"show_tiles":        true,
		"highlight_pattern": true,
		"color":             "#000000",
	}
	var got renderResult
	if err := callTool(t, s, "jigsaw_render", args, &got); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if got.Width != 48 || got.Height != 48 {
		t.Errorf("dimensions: got %dx%d, want 48x48", got.Width, got.Height)
	}
	if got.OnColor != "#000000" {
		t.Errorf("OnColor: got %s, want #000000", got.OnColor)
	}
	if got.Scan == nil {
		t.Fatal("Scan summary missing")
	}
	if got.Scan.Occurrences != 2 || got.Scan.Covered != 30 || got.Scan.Unmarked != 273 {
		t.Errorf("Scan: got %+v, want 2 occurrences, 30 covered, 273 unmarked", *got.Scan)
	}

	// Row 16 is a tile boundary below the first row of labels
	img := decodeResultPNG(t, got.ImageResult)
	r, g, b, _ := img.At(40, 16).RGBA()
	if r>>8 != 153 || g>>8 != 153 || b>>8 != 153 {
		t.Errorf("boundary pixel: got (%d,%d,%d), want (153,153,153)", r>>8, g>>8, b>>8)
	}
}

func TestHandleToolsCall_RenderTile(t *testing.T) {
	s := New()

	tests := []struct {
		name         string
		args         map[string]interface{}
		wantRotation int
		wantMirrored bool
		wantTop      string
	}{
		{"unrotated", map[string]interface{}{"id": 1427}, 0, false, "###.##.#.."},
		{"half turn", map[string]interface{}{"id": 1427, "rotation": 2}, 2, false, ".#..#.##.."},
		{"rotation wraps", map[string]interface{}{"id": 1427, "rotation": 6, "mirrored": true}, 2, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.args["path"] = samplePath
			var got renderTileResult
			if err := callTool(t, s, "jigsaw_render_tile", tt.args, &got); err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got.Width != 40 || got.Height != 40 {
				t.Errorf("dimensions: got %dx%d, want 40x40", got.Width, got.Height)
			}
			if got.Orientation.Rotation != tt.wantRotation || got.Orientation.Mirrored != tt.wantMirrored {
				t.Errorf("Orientation: got %+v", got.Orientation)
			}
			if tt.wantTop != "" && got.Edges[0] != tt.wantTop {
				t.Errorf("top edge: got %s, want %s", got.Edges[0], tt.wantTop)
			}
		})
	}
}

func TestHandleToolsCall_RenderTileUnknownID(t *testing.T) {
	s := New()
	err := callTool(t, s, "jigsaw_render_tile", map[string]interface{}{"path": samplePath, "id": 42}, nil)
	if err == nil {
		t.Fatal("Expected error for unknown tile id")
	}
}

func TestHandleToolsCall_CropTile(t *testing.T) {
	s := New()

	var got cropTileResult
	args := map[string]interface{}{"path": samplePath, "x": 1, "y": 1, "scale": 1}
	if err := callTool(t, s, "jigsaw_crop_tile", args, &got); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got.Width != 8 || got.Height != 8 {
		t.Errorf("dimensions: got %dx%d, want 8x8", got.Width, got.Height)
	}
	if got.Tile.ID != 1427 || got.Tile.X != 1 || got.Tile.Y != 1 {
		t.Errorf("Tile: got %+v, want 1427 at (1,1)", got.Tile)
	}
	decodeResultPNG(t, got.ImageResult)

	args = map[string]interface{}{"path": samplePath, "x": 2, "y": 0, "scale": 3}
	if err := callTool(t, s, "jigsaw_crop_tile", args, &got); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got.Width != 24 || got.Height != 24 {
		t.Errorf("scaled dimensions: got %dx%d, want 24x24", got.Width, got.Height)
	}

	args = map[string]interface{}{"path": samplePath, "x": 3, "y": 0}
	if err := callTool(t, s, "jigsaw_crop_tile", args, nil); err == nil {
		t.Error("Expected error for position outside the grid")
	}
}

func TestHandleToolsCall_Scan(t *testing.T) {
	s := New()

	tests := []struct {
		name            string
		pattern         string
		wantOccurrences int
		wantCovered     int
		wantUnmarked    int
	}{
		{"sea monster", "", 2, 30, 273},
		// A single pixel matches every on pixel once per orientation
		{"single pixel", "#", 303 * 8, 303, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got scanResult
			args := map[string]interface{}{"path": samplePath, "pattern": tt.pattern}
			if err := callTool(t, s, "jigsaw_scan", args, &got); err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if len(got.Occurrences) != tt.wantOccurrences {
				t.Errorf("Occurrences: got %d, want %d", len(got.Occurrences), tt.wantOccurrences)
			}
			if got.Covered != tt.wantCovered {
				t.Errorf("Covered: got %d, want %d", got.Covered, tt.wantCovered)
			}
			if got.Unmarked != tt.wantUnmarked {
				t.Errorf("Unmarked: got %d, want %d", got.Unmarked, tt.wantUnmarked)
			}
			if got.OnPixels != 303 {
				t.Errorf("OnPixels: got %d, want 303", got.OnPixels)
			}
		})
	}
}

func TestHandleToolsCall_ScanBadPattern(t *testing.T) {
	s := New()
	for _, pattern := range []string{"#x#", ". ."} {
		args := map[string]interface{}{"path": samplePath, "pattern": pattern}
		if err := callTool(t, s, "jigsaw_scan", args, nil); err == nil {
			t.Errorf("pattern %q: expected error", pattern)
		}
	}
}

func TestHandleToolsCall_PatternFromImage(t *testing.T) {
	s := New()

	monster := overlay.SeaMonster()
	opts := imaging.DefaultRenderOptions()
	opts.Scale = 3
	imgPath := writeImage(t, imaging.Render(monster.Grid(), opts))
	defer os.Remove(imgPath)

	args := map[string]interface{}{
		"image_path": imgPath,
		"cell_size":  3,
		"path":       samplePath,
	}
	var got patternFromImageResult
	if err := callTool(t, s, "jigsaw_pattern_from_image", args, &got); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if got.Width != 20 || got.Height != 3 || got.OnCells != 15 {
		t.Errorf("got %dx%d with %d on cells, want 20x3 with 15", got.Width, got.Height, got.OnCells)
	}
	if want := strings.Split(monster.String(), "\n"); strings.Join(got.Pattern, "\n") != strings.Join(want, "\n") {
		t.Errorf("pattern:\n%s\nwant\n%s", strings.Join(got.Pattern, "\n"), strings.Join(want, "\n"))
	}
	if got.Scan == nil || got.Scan.Unmarked != 273 {
		t.Errorf("Scan: got %+v, want 273 unmarked", got.Scan)
	}
}

func TestHandleToolsCall_PatternFromImageErrors(t *testing.T) {
	s := New()

	blank := imaging.Render(overlay.SeaMonster().Grid(), imaging.RenderOptions{
		Scale: 1,
		On:    imaging.DefaultOffColor,
	})
	blankPath := writeImage(t, blank)
	defer os.Remove(blankPath)

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"no on cells", map[string]interface{}{"image_path": blankPath}},
		{"threshold too high", map[string]interface{}{"image_path": blankPath, "threshold": 300}},
		{"missing image", map[string]interface{}{"image_path": "/nonexistent/monster.png"}},
		{"cell larger than image", map[string]interface{}{"image_path": blankPath, "cell_size": 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := callTool(t, s, "jigsaw_pattern_from_image", tt.args, nil); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestHandleToolsCall_InvalidTool(t *testing.T) {
	s := New()

	err := callTool(t, s, "jigsaw_scn", map[string]interface{}{}, nil)
	if err == nil {
		t.Fatal("Expected error for unknown tool")
	}
	data, _ := err.Data.(string)
	if !strings.Contains(data, "did you mean jigsaw_scan") {
		t.Errorf("Error data: got %q, want a jigsaw_scan suggestion", data)
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := New()
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  json.RawMessage(`{invalid`),
	}

	resp := s.handleToolsCall(req)
	if resp.Error == nil {
		t.Fatal("Expected error for invalid params")
	}
	if resp.Error.Code != -32602 {
		t.Errorf("Error code: got %d, want -32602", resp.Error.Code)
	}
}

func TestExecuteTool_AllTools(t *testing.T) {
	s := New()
	imgPath := writeImage(t, imaging.Render(overlay.SeaMonster().Grid(), imaging.DefaultRenderOptions()))
	defer os.Remove(imgPath)

	toolTests := []struct {
		name string
		args map[string]interface{}
	}{
		{"jigsaw_load", map[string]interface{}{"path": samplePath}},
		{"jigsaw_classify", map[string]interface{}{"path": samplePath}},
		{"jigsaw_assemble", map[string]interface{}{"path": samplePath}},
		{"jigsaw_render", map[string]interface{}{"path": samplePath}},
		{"jigsaw_render_tile", map[string]interface{}{"path": samplePath, "id": 2311}},
		{"jigsaw_crop_tile", map[string]interface{}{"path": samplePath, "x": 0, "y": 2}},
		{"jigsaw_scan", map[string]interface{}{"path": samplePath}},
		{"jigsaw_pattern_from_image", map[string]interface{}{"image_path": imgPath, "cell_size": 4}},
	}

	if len(toolTests) != len(GetToolDefinitions()) {
		t.Errorf("covering %d tools, %d are defined", len(toolTests), len(GetToolDefinitions()))
	}

	for _, tt := range toolTests {
		t.Run(tt.name, func(t *testing.T) {
			argsJSON, _ := json.Marshal(tt.args)
			result, err := s.executeTool(tt.name, argsJSON)
			if err != nil {
				t.Fatalf("executeTool(%s) failed: %v", tt.name, err)
			}
			if result == nil {
				t.Errorf("executeTool(%s) returned nil result", tt.name)
			}
		})
	}
}

func TestExecuteTool_UnknownTool(t *testing.T) {
	s := New()

	_, err := s.executeTool("unknown_tool", json.RawMessage(`{}`))
	if err == nil {
		t.Error("executeTool should fail for unknown tool")
	}
	_, err = s.executeTool("", json.RawMessage(`{}`))
	if err == nil || strings.Contains(err.Error(), "did you mean") {
		t.Errorf("empty tool name: got %v", err)
	}
}

func TestExecuteTool_InvalidJSON(t *testing.T) {
	s := New()

	_, err := s.executeTool("jigsaw_load", json.RawMessage(`{invalid`))
	if err == nil {
		t.Error("executeTool should fail for invalid JSON")
	}
}

func TestLogToolError_PlacementDetails(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	err := &assembly.PlacementError{
		Pos:   assembly.Position{X: 2, Y: 0},
		Class: assembly.Corner,
		Pool:  []int{1171, 3079},
	}
	logToolError("jigsaw_assemble", err)

	out := buf.String()
	if !strings.Contains(out, "[1171 3079]") || !strings.Contains(out, "jigsaw_assemble") {
		t.Errorf("log output: got %q", out)
	}
}

func TestGridSide(t *testing.T) {
	tests := []struct {
		n, want int
	}{
		{0, 0}, {1, 1}, {2, 0}, {4, 2}, {9, 3}, {10, 0}, {144, 12},
	}
	for _, tt := range tests {
		if got := gridSide(tt.n); got != tt.want {
			t.Errorf("gridSide(%d): got %d, want %d", tt.n, got, tt.want)
		}
	}
}

// writeImage encodes img to a temp PNG file and returns its path.
// The caller is responsible for removing the file.
func writeImage(t *testing.T, img image.Image) string {
	t.Helper()
	tmpFile, err := os.CreateTemp("", "handler-test-*.png")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer tmpFile.Close()

	if err := png.Encode(tmpFile, img); err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to encode image: %v", err)
	}
	return tmpFile.Name()
}
