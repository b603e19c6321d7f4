package server

import (
	"encoding/json"
	"fmt"

	"github.com/ironsheep/pixelgrid/internal/imaging"
	"github.com/ironsheep/pixelgrid/internal/pipeline"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "pixelgrid_analyze").
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
		s.logger.Printf("Tool %s failed: %v", params.Name, err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}
	s.logger.Printf("Tool %s done (%d cached images)", params.Name, s.cache.Len())

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
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	case "pixelgrid_image_info":
		return s.handleImageInfo(args)
	case "pixelgrid_analyze":
		return s.handleAnalyze(args)
	case "pixelgrid_crop":
		return s.handleCrop(args)
	case "pixelgrid_downscale":
		return s.handleDownscale(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	mcpErr := &MCPError{Code: code, Message: message}
	if data != "" {
		mcpErr.Data = data
	}
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   mcpErr,
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// thresholdArgs are the tuning knobs shared by every pipeline tool. Nil
// fields take the pipeline defaults.
type thresholdArgs struct {
	TargetSize          *int `json:"target_size"`
	BackgroundThreshold *int `json:"bg_threshold"`
	RunThreshold        *int `json:"run_threshold"`
}

func (a thresholdArgs) apply(target, bg, run *int) {
	if a.TargetSize != nil {
		*target = *a.TargetSize
	}
	if a.BackgroundThreshold != nil {
		*bg = *a.BackgroundThreshold
	}
	if a.RunThreshold != nil {
		*run = *a.RunThreshold
	}
}

// === Image Information ===

type imageInfoArgs struct {
	Path string `json:"path"`
}

// imageInfoResult describes a decoded image.
type imageInfoResult struct {
	Path string `json:"path"`
	imaging.ImageInfo
}

func (s *Server) handleImageInfo(args json.RawMessage) (interface{}, error) {
	var a imageInfoArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("%w: path is required", pipeline.ErrInvalidParameter)
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imageInfoResult{Path: a.Path, ImageInfo: imaging.Info(img)}, nil
}

// === Pipeline Operations ===

type analyzeArgs struct {
	Path string `json:"path"`
	thresholdArgs
}

func (s *Server) handleAnalyze(args json.RawMessage) (interface{}, error) {
	var a analyzeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	opts := pipeline.DefaultAnalyzeOptions()
	opts.Input = a.Path
	a.apply(&opts.TargetSize, &opts.BackgroundThreshold, &opts.RunThreshold)

	return s.pipeline.Analyze(opts)
}

type cropArgs struct {
	Path      string `json:"path"`
	Output    string `json:"output"`
	DebugGrid bool   `json:"debug_grid"`
	thresholdArgs
}

func (s *Server) handleCrop(args json.RawMessage) (interface{}, error) {
	var a cropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	opts := pipeline.DefaultCropOptions()
	opts.Input = a.Path
	opts.Output = a.Output
	opts.DebugGrid = a.DebugGrid
	a.apply(&opts.TargetSize, &opts.BackgroundThreshold, &opts.RunThreshold)

	summary, err := s.pipeline.CropToContent(opts)
	if err != nil {
		return nil, err
	}
	s.evictOutputs(summary)
	return summary, nil
}

type downscaleArgs struct {
	Path           string   `json:"path"`
	Output         string   `json:"output"`
	PixelSize      int      `json:"pixel_size"`
	Infer          bool     `json:"infer"`
	Tolerance      *float64 `json:"tolerance"`
	MaxColors      int      `json:"max_colors"`
	KeepBackground bool     `json:"keep_background"`
	PreviewScale   int      `json:"preview_scale"`
	DebugGrid      bool     `json:"debug_grid"`
	thresholdArgs
}

func (s *Server) handleDownscale(args json.RawMessage) (interface{}, error) {
	var a downscaleArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	opts := pipeline.DefaultDownscaleOptions()
	opts.Input = a.Path
	opts.Output = a.Output
	opts.PixelSize = a.PixelSize
	opts.Infer = a.Infer
	opts.Tolerance = a.Tolerance
	opts.MaxColors = a.MaxColors
	opts.KeepBackground = a.KeepBackground
	opts.PreviewScale = a.PreviewScale
	opts.DebugGrid = a.DebugGrid
	a.apply(&opts.TargetSize, &opts.BackgroundThreshold, &opts.RunThreshold)

	summary, err := s.pipeline.Downscale(opts)
	if err != nil {
		return nil, err
	}
	s.evictOutputs(summary)
	return summary, nil
}

// evictOutputs drops cache entries for files a tool just wrote, so a later
// call reading one of them decodes the new content.
func (s *Server) evictOutputs(summary *pipeline.Summary) {
	for _, path := range []string{summary.Output, summary.DebugOutput, summary.PreviewOutput} {
		if path != "" {
			s.cache.Evict(path)
		}
	}
}
