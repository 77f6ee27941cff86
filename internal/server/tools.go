package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Registration
		{
			Name:        "atlas_add_frame",
			Description: "Register one frame from an image file or base64-encoded image data. The image is trimmed to its non-transparent pixels. Registering an existing name replaces that frame.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"name": map[string]interface{}{
						"type":        "string",
						"description": "Frame name. Defaults to the file name when path is given.",
					},
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to a PNG, JPEG, GIF, BMP, WebP or TGA file",
					},
					"data": map[string]interface{}{
						"type":        "string",
						"description": "Base64-encoded image bytes, used instead of path",
					},
				},
				"required": []string{},
			},
		},
		{
			Name:        "atlas_add_directory",
			Description: "Register every image file directly inside a directory. Frames are named after their file names.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the directory",
					},
					"workers": map[string]interface{}{
						"type":        "integer",
						"description": "Number of parallel decoders (default 4)",
						"default":     4,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "atlas_reset",
			Description: "Remove every frame and the packed canvas.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},

		// Inspection
		{
			Name:        "atlas_list_frames",
			Description: "List all frames in name order with their source size, trimmed size, offset and, once packed, their texture rectangle and rotation.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "atlas_get_frame",
			Description: "Describe a single frame by name.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"name": map[string]interface{}{
						"type":        "string",
						"description": "Frame name",
					},
				},
				"required": []string{"name"},
			},
		},

		// Packing and output
		{
			Name:        "atlas_pack",
			Description: "Pack all frames into the smallest canvas found, rotating frames 90 degrees clockwise where that helps. Fails and names the first frame that could not be placed when the capacity is too small.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"capacity": map[string]interface{}{
						"type":        "integer",
						"description": "Optional maximum canvas width and height. Keeps the current capacity (default 10000) when omitted.",
					},
				},
			},
		},
		{
			Name:        "atlas_manifest",
			Description: "Render the manifest of the packed atlas as an XML property list or TexturePacker-style JSON.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"texture_name": map[string]interface{}{
						"type":        "string",
						"description": "Texture file name recorded in the manifest (default atlas.png)",
						"default":     "atlas.png",
					},
					"format": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"plist", "json"},
						"description": "Manifest encoding (default plist)",
						"default":     "plist",
					},
					"indent": map[string]interface{}{
						"type":        "string",
						"description": "Indentation unit (default four spaces)",
					},
				},
			},
		},
		{
			Name:        "atlas_extract_frame",
			Description: "Copy a packed frame's trimmed pixels out of the canvas, undoing any rotation, and return them as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"name": map[string]interface{}{
						"type":        "string",
						"description": "Frame name",
					},
				},
				"required": []string{"name"},
			},
		},
		{
			Name:        "atlas_save",
			Description: "Write the packed canvas and its manifest to a directory as <name>.<image_format> and <name>.<manifest_format>.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"output_dir": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the output directory. Created if missing.",
					},
					"name": map[string]interface{}{
						"type":        "string",
						"description": "Base file name (default atlas)",
						"default":     "atlas",
					},
					"image_format": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"png", "webp", "bmp", "tga"},
						"description": "Canvas encoding (default png)",
						"default":     "png",
					},
					"manifest_format": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"plist", "json"},
						"description": "Manifest encoding (default plist)",
						"default":     "plist",
					},
					"debug_overlay": map[string]interface{}{
						"type":        "boolean",
						"description": "Also write <name>.debug.<image_format> with every frame outlined",
						"default":     false,
					},
				},
				"required": []string{"output_dir"},
			},
		},
	}
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
