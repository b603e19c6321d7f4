package server

import "github.com/ironsheep/pixelgrid/internal/pipeline"

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// pathProperty is the schema of the required source image argument.
func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the source image (PNG, JPEG or GIF)",
	}
}

// thresholdProperties returns the schema of the arguments every pipeline
// tool accepts, merged into extra.
func thresholdProperties(extra map[string]interface{}) map[string]interface{} {
	props := map[string]interface{}{
		"path": pathProperty(),
		"target_size": map[string]interface{}{
			"type":        "integer",
			"description": "Output side length N in logical pixels",
			"default":     pipeline.DefaultTargetSize,
			"minimum":     1,
		},
		"bg_threshold": map[string]interface{}{
			"type":        "integer",
			"description": "Per-channel tolerance for matching the background color",
			"default":     pipeline.DefaultBackgroundThreshold,
			"minimum":     0,
		},
		"run_threshold": map[string]interface{}{
			"type":        "integer",
			"description": "Per-channel tolerance against the first pixel of a run during pixel size inference",
			"default":     pipeline.DefaultRunLengthThreshold,
			"minimum":     0,
		},
	}
	for k, v := range extra {
		props[k] = v
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "pixelgrid_image_info",
			Description: "Load an image and return its dimensions and alpha range. Opaque images are processed in background-color mode, others in alpha mode.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "pixelgrid_analyze",
			Description: "Detect the content box, background color and logical pixel size of a pixel-art image without writing any file.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": thresholdProperties(nil),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "pixelgrid_crop",
			Description: "Crop a pixel-art image to its content box. Opaque backgrounds are made transparent. Reports the inferred pixel size.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": thresholdProperties(map[string]interface{}{
					"output": map[string]interface{}{
						"type":        "string",
						"description": "Output path (default: <stem>_cropped<ext> next to the input)",
					},
					"debug_grid": map[string]interface{}{
						"type":        "boolean",
						"description": "Also write <stem>_grid_overlay<ext> with the inferred grid drawn over the crop",
						"default":     false,
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "pixelgrid_downscale",
			Description: "Rebuild a rasterized pixel-art image at its logical N×N resolution by sampling the center of every grid cell.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": thresholdProperties(map[string]interface{}{
					"output": map[string]interface{}{
						"type":        "string",
						"description": "Output path (default: <stem>_downscaled<ext> next to the input)",
					},
					"pixel_size": map[string]interface{}{
						"type":        "integer",
						"description": "Source pixels per output pixel. Required unless infer is true.",
						"minimum":     1,
					},
					"infer": map[string]interface{}{
						"type":        "boolean",
						"description": "Infer the pixel size when pixel_size is not given",
						"default":     false,
					},
					"tolerance": map[string]interface{}{
						"type":        "number",
						"description": "Merge sampled colors within this RGB distance, scaled so black-white = 1 (0 to 1)",
						"minimum":     0,
						"maximum":     1,
					},
					"max_colors": map[string]interface{}{
						"type":        "integer",
						"description": "Reduce the output to at most this many colors (0 disables)",
						"minimum":     0,
						"maximum":     256,
					},
					"keep_background": map[string]interface{}{
						"type":        "boolean",
						"description": "Keep background-colored cells opaque for opaque sources",
						"default":     false,
					},
					"preview_scale": map[string]interface{}{
						"type":        "integer",
						"description": "Also write <stem>_preview<ext> enlarged by this factor (0 disables)",
						"minimum":     0,
					},
					"debug_grid": map[string]interface{}{
						"type":        "boolean",
						"description": "Also write <stem>_debug.png with the sampling grid drawn over the source",
						"default":     false,
					},
				}),
				"required": []string{"path"},
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
