package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image/png"
	"path/filepath"

	"github.com/ironsheep/texpack/internal/atlas"
	"github.com/ironsheep/texpack/internal/batch"
	"github.com/ironsheep/texpack/internal/config"
	"github.com/ironsheep/texpack/internal/geom"
	"github.com/ironsheep/texpack/internal/imaging"
	"github.com/ironsheep/texpack/internal/manifest"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "atlas_add_frame", "atlas_pack").
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
	if len(params.Arguments) == 0 {
		params.Arguments = json.RawMessage("{}")
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
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
//
// Handlers run one at a time; the atlas is not safe for concurrent use.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch name {
	// Registration
	case "atlas_add_frame":
		return s.handleAddFrame(args)
	case "atlas_add_directory":
		return s.handleAddDirectory(args)
	case "atlas_reset":
		return s.handleReset(args)

	// Inspection
	case "atlas_list_frames":
		return s.handleListFrames(args)
	case "atlas_get_frame":
		return s.handleGetFrame(args)

	// Packing and output
	case "atlas_pack":
		return s.handlePack(args)
	case "atlas_manifest":
		return s.handleManifest(args)
	case "atlas_extract_frame":
		return s.handleExtractFrame(args)
	case "atlas_save":
		return s.handleSave(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
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

// FrameInfo is the JSON view of a registered frame.
type FrameInfo struct {
	Name        string     `json:"name"`
	SourceSize  geom.Size  `json:"source_size"`
	TrimmedSize geom.Size  `json:"trimmed_size"`
	TrimOrigin  geom.Point `json:"trim_origin"`
	Offset      geom.Point `json:"offset"`
	Placed      bool       `json:"placed"`
	TextureRect *geom.Rect `json:"texture_rect,omitempty"`
	Rotated     bool       `json:"rotated"`
}

func newFrameInfo(f atlas.Frame) FrameInfo {
	info := FrameInfo{
		Name:        f.Name,
		SourceSize:  f.SourceSize,
		TrimmedSize: f.TrimmedSize,
		TrimOrigin:  f.TrimOrigin,
		Offset:      f.Offset,
		Placed:      f.Placed(),
	}
	if f.Placed() {
		r := f.Placement
		info.TextureRect = &r
		info.Rotated = f.Rotated
	}
	return info
}

// === Registration Handlers ===

type addFrameArgs struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Data string `json:"data"`
}

func (s *Server) handleAddFrame(args json.RawMessage) (interface{}, error) {
	var a addFrameArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	switch {
	case a.Path != "" && a.Data != "":
		return nil, fmt.Errorf("provide either path or data, not both")
	case a.Path != "":
		if a.Name == "" {
			a.Name = batch.FrameName(a.Path)
		}
		img, err := s.cache.Load(a.Path)
		if err != nil {
			return nil, err
		}
		if err := s.atlas.AddImage(a.Name, img); err != nil {
			return nil, err
		}
	case a.Data != "":
		data, err := base64.StdEncoding.DecodeString(a.Data)
		if err != nil {
			return nil, fmt.Errorf("invalid base64 data: %w", err)
		}
		if err := s.atlas.AddEncoded(a.Name, data); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("path or data is required")
	}

	f, err := s.atlas.Frame(a.Name)
	if err != nil {
		return nil, err
	}
	return newFrameInfo(f), nil
}

type addDirectoryArgs struct {
	Path    string `json:"path"`
	Workers int    `json:"workers"`
}

func (s *Server) handleAddDirectory(args json.RawMessage) (interface{}, error) {
	var a addDirectoryArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	if a.Workers <= 0 {
		a.Workers = 4
	}

	paths, err := batch.Discover(a.Path)
	if err != nil {
		return nil, err
	}
	sources, _, err := batch.Decode(paths, s.opts.Decode, a.Workers)
	if err != nil {
		return nil, err
	}
	if err := s.atlas.AddImages(sources, a.Workers); err != nil {
		return nil, err
	}

	names := make([]string, len(sources))
	for i, src := range sources {
		names[i] = src.Name
	}
	return map[string]interface{}{
		"added":        names,
		"total_frames": s.atlas.Len(),
	}, nil
}

func (s *Server) handleReset(json.RawMessage) (interface{}, error) {
	s.atlas.Reset()
	s.cache.Clear()
	return map[string]interface{}{"total_frames": 0}, nil
}

// === Inspection Handlers ===

func (s *Server) handleListFrames(json.RawMessage) (interface{}, error) {
	frames := s.atlas.Frames()
	infos := make([]FrameInfo, len(frames))
	for i, f := range frames {
		infos[i] = newFrameInfo(f)
	}
	_, err := s.atlas.Canvas()
	return map[string]interface{}{
		"frames": infos,
		"packed": err == nil,
	}, nil
}

type frameNameArgs struct {
	Name string `json:"name"`
}

func (s *Server) handleGetFrame(args json.RawMessage) (interface{}, error) {
	var a frameNameArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	f, err := s.atlas.Frame(a.Name)
	if err != nil {
		return nil, err
	}
	return newFrameInfo(f), nil
}

// === Packing and Output Handlers ===

type packArgs struct {
	Capacity int `json:"capacity"`
}

func (s *Server) handlePack(args json.RawMessage) (interface{}, error) {
	var a packArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Capacity > 0 {
		s.atlas.SetCapacity(a.Capacity)
	}

	if err := s.atlas.Pack(); err != nil {
		return nil, err
	}
	canvas, err := s.atlas.Canvas()
	if err != nil {
		return nil, err
	}

	rotated := 0
	for _, f := range s.atlas.Frames() {
		if f.Rotated {
			rotated++
		}
	}
	b := canvas.Bounds()
	return map[string]interface{}{
		"width":    b.Dx(),
		"height":   b.Dy(),
		"frames":   s.atlas.Len(),
		"rotated":  rotated,
		"capacity": s.atlas.Capacity(),
	}, nil
}

type manifestArgs struct {
	TextureName string  `json:"texture_name"`
	Format      string  `json:"format"`
	Indent      *string `json:"indent"`
}

func (s *Server) handleManifest(args json.RawMessage) (interface{}, error) {
	var a manifestArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.TextureName == "" {
		a.TextureName = "atlas.png"
	}
	if a.Format == "" {
		a.Format = string(manifest.EncodingPlist)
	}
	indent := config.DefaultIndent
	if a.Indent != nil {
		indent = *a.Indent
	}

	enc, err := manifest.ParseEncoding(a.Format)
	if err != nil {
		return nil, err
	}
	doc, err := s.atlas.Manifest(a.TextureName)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := manifest.Encode(&buf, doc, enc, indent); err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"format":   string(enc),
		"manifest": buf.String(),
	}, nil
}

func (s *Server) handleExtractFrame(args json.RawMessage) (interface{}, error) {
	var a frameNameArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	img, err := s.atlas.ExtractFrame(a.Name)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}
	b := img.Bounds()
	return map[string]interface{}{
		"name":       a.Name,
		"width":      b.Dx(),
		"height":     b.Dy(),
		"image_data": base64.StdEncoding.EncodeToString(buf.Bytes()),
		"mime_type":  "image/png",
	}, nil
}

type saveArgs struct {
	OutputDir      string `json:"output_dir"`
	Name           string `json:"name"`
	ImageFormat    string `json:"image_format"`
	ManifestFormat string `json:"manifest_format"`
	DebugOverlay   bool   `json:"debug_overlay"`
}

func (s *Server) handleSave(args json.RawMessage) (interface{}, error) {
	var a saveArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.OutputDir == "" {
		return nil, fmt.Errorf("output_dir is required")
	}
	if a.Name == "" {
		a.Name = "atlas"
	}
	if a.ImageFormat == "" {
		a.ImageFormat = string(imaging.FormatPNG)
	}
	if a.ManifestFormat == "" {
		a.ManifestFormat = string(manifest.EncodingPlist)
	}

	format, err := imaging.ParseFormat(a.ImageFormat)
	if err != nil {
		return nil, err
	}
	enc, err := manifest.ParseEncoding(a.ManifestFormat)
	if err != nil {
		return nil, err
	}

	canvas, err := s.atlas.Canvas()
	if err != nil {
		return nil, err
	}
	textureName := a.Name + format.Ext()
	doc, err := s.atlas.Manifest(textureName)
	if err != nil {
		return nil, err
	}

	canvasPath := filepath.Join(a.OutputDir, textureName)
	manifestPath := filepath.Join(a.OutputDir, a.Name+enc.Ext())
	if err := batch.WriteCanvas(canvasPath, canvas, format); err != nil {
		return nil, err
	}
	if err := batch.WriteManifest(manifestPath, doc, enc, config.DefaultIndent); err != nil {
		return nil, err
	}

	result := map[string]interface{}{
		"canvas":   canvasPath,
		"manifest": manifestPath,
	}
	if a.DebugOverlay {
		overlay := filepath.Join(a.OutputDir, a.Name+".debug"+format.Ext())
		if err := batch.WriteCanvas(overlay, batch.Overlay(canvas, s.atlas.Frames(), nil), format); err != nil {
			return nil, err
		}
		result["overlay"] = overlay
	}
	return result, nil
}
