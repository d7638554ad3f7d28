package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func puzzlePathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the puzzle file (blocks of 'Tile <id>:' followed by rows of '#' and '.')",
	}
}

func scaleProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": "Image pixels per grid pixel. Defaults to the server's configured render scale",
	}
}

func reloadProperty(what string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "boolean",
		"description": "Re-read the " + what + " from disk instead of using the cached copy. Default false",
		"default":     false,
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Puzzle Information
		{
			Name:        "jigsaw_load",
			Description: "Load a puzzle file and report the number of tiles, the tile size, the side of the square assembly and the tile ids.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   puzzlePathProperty(),
					"reload": reloadProperty("puzzle file"),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "jigsaw_classify",
			Description: "Count, for every tile edge, how many other tiles share it. Reports corner, edge and interior tiles and the product of the corner ids.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": puzzlePathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Assembly
		{
			Name:        "jigsaw_assemble",
			Description: "Place every tile in a square grid so touching edges agree, then strip tile borders and return the arrangement and the composed image as text.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": puzzlePathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Rendering
		{
			Name:        "jigsaw_render",
			Description: "Render the composed image as a base64-encoded PNG. Optionally outline and label each tile and highlight pixels covered by sea monsters.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":  puzzlePathProperty(),
					"scale": scaleProperty(),
					"show_tiles": map[string]interface{}{
						"type":        "boolean",
						"description": "Tint each tile, draw tile boundaries and label cells with tile ids. Default false",
						"default":     false,
					},
					"highlight_pattern": map[string]interface{}{
						"type":        "boolean",
						"description": "Draw pixels covered by the pattern in the highlight color. Default false",
						"default":     false,
					},
					"pattern": map[string]interface{}{
						"type":        "string",
						"description": "Pattern text to highlight ('#' on, ' ' or '.' off). Defaults to the sea monster",
					},
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Hex color for on pixels (e.g., '#0B3D91')",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "jigsaw_render_tile",
			Description: "Render one tile from the puzzle, in any of its eight orientations, as a base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": puzzlePathProperty(),
					"id": map[string]interface{}{
						"type":        "integer",
						"description": "Tile id",
					},
					"rotation": map[string]interface{}{
						"type":        "integer",
						"description": "Clockwise quarter turns, applied after mirroring. Default 0",
						"default":     0,
					},
					"mirrored": map[string]interface{}{
						"type":        "boolean",
						"description": "Flip the tile left to right before rotating. Default false",
						"default":     false,
					},
					"scale": scaleProperty(),
				},
				"required": []string{"path", "id"},
			},
		},
		{
			Name:        "jigsaw_crop_tile",
			Description: "Crop the cell at grid position (x, y) out of the rendered composed image and report which tile sits there.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": puzzlePathProperty(),
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "Grid column (0-based, left to right)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Grid row (0-based, top to bottom)",
					},
					"scale": scaleProperty(),
				},
				"required": []string{"path", "x", "y"},
			},
		},

		// Pattern Search
		{
			Name:        "jigsaw_scan",
			Description: "Search the composed image for a pattern in all eight orientations. Returns every occurrence and the number of on pixels no occurrence covers.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": puzzlePathProperty(),
					"pattern": map[string]interface{}{
						"type":        "string",
						"description": "Pattern text ('#' on, ' ' or '.' off). Defaults to the sea monster",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "jigsaw_pattern_from_image",
			Description: "Read a bitmap image into pattern text by thresholding it. Dark pixels become on cells. When path is given the pattern is also scanned against that puzzle.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to a PNG, JPEG or GIF image",
					},
					"threshold": map[string]interface{}{
						"type":        "integer",
						"description": "Gray level (0-255) below which a pixel counts as on. Default 128",
						"default":     128,
					},
					"cell_size": map[string]interface{}{
						"type":        "integer",
						"description": "Image pixels per pattern cell. Default 1",
						"default":     1,
					},
					"path":   puzzlePathProperty(),
					"reload": reloadProperty("image file"),
				},
				"required": []string{"image_path"},
			},
		},
	}
}

// toolNames lists the names of every defined tool.
func toolNames() []string {
	tools := GetToolDefinitions()
	names := make([]string, len(tools))
	for i, t := range tools {
		names[i] = t.Name
	}
	return names
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
