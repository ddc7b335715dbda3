package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/ironsheep/mandel-mcp/internal/fractal"
	"github.com/ironsheep/mandel-mcp/internal/imaging"
	"github.com/ironsheep/mandel-mcp/internal/palette"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "mandel_zoom", "mandel_render").
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
// Renders additionally carry an image content block. Tool execution errors
// return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := sonic.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	s.mu.Lock()
	result, err := s.executeTool(params.Name, params.Arguments)
	s.mu.Unlock()
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	content := []map[string]any{
		{
			"type": "text",
			"text": mustMarshalJSON(result),
		},
	}
	if r, ok := result.(*RenderResult); ok {
		content = append(content, map[string]any{
			"type":     "image",
			"data":     r.ImageBase64,
			"mimeType": r.MimeType,
		})
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]any{
			"content": content,
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Mutates or reads the session view
//  4. Returns the result or error
//
// Callers hold s.mu.
func (s *Server) executeTool(name string, args json.RawMessage) (any, error) {
	switch name {
	// View state
	case "mandel_view":
		return s.viewInfo(), nil
	case "mandel_set_center":
		return s.handleSetCenter(args)
	case "mandel_move_center":
		return s.handleMoveCenter(args)
	case "mandel_recenter_pixel":
		return s.handleRecenterPixel(args)
	case "mandel_zoom":
		return s.handleZoom(args)
	case "mandel_reset_step":
		s.view.ResetStep()
		return s.viewInfo(), nil
	case "mandel_set_depth":
		return s.handleSetDepth(args)
	case "mandel_mod_depth":
		return s.handleModDepth(args)

	// Palette
	case "mandel_palette":
		return s.handlePalette(args)
	case "mandel_randomize_start_color":
		s.view.RandomizeStartColor(s.rng)
		return s.paletteInfo(0), nil

	// Analysis
	case "mandel_entropy":
		return s.handleEntropy(args)
	case "mandel_render":
		return s.handleRender(args)
	case "mandel_sample_point":
		return s.handleSamplePoint(args)
	case "mandel_measure":
		return s.handleMeasure(args)

	// Snapshots
	case "mandel_snapshot":
		return s.handleSnapshot(args)
	case "mandel_sequence":
		return s.handleSequence(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id any, code int, message, data string) *MCPResponse {
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
// On marshal failure, returns an empty string.
func mustMarshalJSON(v any) string {
	b, _ := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments; absent arguments leave v untouched.
func decodeArgs(args json.RawMessage, v any) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := sonic.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// shapeArgs is embedded by tools that render.
type shapeArgs struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Render size limits. maxRenderSamples bounds the classification grid,
// which is larger than the image when supersampling.
const (
	maxImageSide     = 8192
	maxRenderSamples = 1 << 26
)

func (s *Server) shape(a shapeArgs) (int, int, error) {
	if a.Width == 0 && a.Height == 0 {
		a.Width, a.Height = s.width, s.height
	}
	if a.Width <= 0 || a.Height <= 0 {
		return 0, 0, fmt.Errorf("invalid image size %dx%d", a.Width, a.Height)
	}
	if a.Width > maxImageSide || a.Height > maxImageSide {
		return 0, 0, fmt.Errorf("image size %dx%d exceeds %d pixels per side", a.Width, a.Height, maxImageSide)
	}
	k := s.renderer.Scale()
	if a.Width*a.Height*k*k > maxRenderSamples {
		return 0, 0, fmt.Errorf("image size %dx%d at supersample %d exceeds %d samples", a.Width, a.Height, k, maxRenderSamples)
	}
	return a.Width, a.Height, nil
}

// fileName validates a snapshot name or prefix: a plain name inside the
// output directory.
func fileName(name string) error {
	if name != filepath.Base(name) || !filepath.IsLocal(name) || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid file name %q: must not contain path separators", name)
	}
	return nil
}

// === View State Handlers ===

// ViewInfo describes the session view.
type ViewInfo struct {
	CenterRe         float64 `json:"center_re"`
	CenterIm         float64 `json:"center_im"`
	StepSize         float64 `json:"step_size"`
	Depth            uint32  `json:"depth"`
	PaletteSize      int     `json:"palette_size"`
	AtPrecisionLimit bool    `json:"at_precision_limit"`
	Width            int     `json:"width"`
	Height           int     `json:"height"`
	Stats            string  `json:"stats"`
}

func (s *Server) viewInfo() *ViewInfo {
	c := s.view.Center()
	return &ViewInfo{
		CenterRe:         real(c),
		CenterIm:         imag(c),
		StepSize:         s.view.StepSize(),
		Depth:            s.view.Depth(),
		PaletteSize:      len(s.view.Palette()),
		AtPrecisionLimit: s.view.AtPrecisionLimit(),
		Width:            s.width,
		Height:           s.height,
		Stats:            s.view.Stats(),
	}
}

type setCenterArgs struct {
	Re *float64 `json:"re"`
	Im *float64 `json:"im"`
}

func (s *Server) handleSetCenter(args json.RawMessage) (any, error) {
	var a setCenterArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Re == nil || a.Im == nil {
		return nil, errors.New("re and im are required")
	}
	s.view.SetCenter(complex(*a.Re, *a.Im))
	return s.viewInfo(), nil
}

type moveCenterArgs struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
}

func (s *Server) handleMoveCenter(args json.RawMessage) (any, error) {
	var a moveCenterArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	s.view.MoveCenter(a.DX, a.DY)
	return s.viewInfo(), nil
}

type recenterPixelArgs struct {
	X int `json:"x"`
	Y int `json:"y"`
	shapeArgs
}

func (s *Server) handleRecenterPixel(args json.RawMessage) (any, error) {
	var a recenterPixelArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	w, h, err := s.shape(a.shapeArgs)
	if err != nil {
		return nil, err
	}
	if a.X < 0 || a.X >= w || a.Y < 0 || a.Y >= h {
		return nil, fmt.Errorf("pixel (%d,%d) outside %dx%d image", a.X, a.Y, w, h)
	}
	s.view.SetCenter(s.view.Geometry().PixelPoint(a.X, a.Y, w, h))
	return s.viewInfo(), nil
}

type zoomArgs struct {
	Factor float64 `json:"factor"`
}

func (s *Server) handleZoom(args json.RawMessage) (any, error) {
	var a zoomArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := s.view.Zoom(a.Factor); err != nil {
		return nil, err
	}
	return s.viewInfo(), nil
}

type setDepthArgs struct {
	Depth uint32 `json:"depth"`
}

func (s *Server) handleSetDepth(args json.RawMessage) (any, error) {
	var a setDepthArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	s.view.SetDepth(a.Depth)
	return s.viewInfo(), nil
}

type modDepthArgs struct {
	Delta int `json:"delta"`
}

func (s *Server) handleModDepth(args json.RawMessage) (any, error) {
	var a modDepthArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	s.view.ModDepth(a.Delta)
	return s.viewInfo(), nil
}

// === Palette Handlers ===

// PaletteInfo summarizes the active palette.
type PaletteInfo struct {
	Size   int      `json:"size"`
	Colors []string `json:"colors"`
}

const maxListedColors = 32

func (s *Server) paletteInfo(limit int) *PaletteInfo {
	p := s.view.Palette()
	if limit <= 0 || limit > maxListedColors {
		limit = maxListedColors
	}
	n := min(limit, len(p))
	info := &PaletteInfo{Size: len(p), Colors: make([]string, n)}
	for i := 0; i < n; i++ {
		info.Colors[i] = p[i].Hex()
	}
	return info
}

const defaultAlternatingPeriod = 8

type paletteArgs struct {
	Strategy  string   `json:"strategy"`
	Count     int      `json:"count"`
	LoopDepth int      `json:"loop_depth"`
	Period    int      `json:"period"`
	StartHue  float64  `json:"start_hue"`
	Low       *float64 `json:"low"`
	High      *float64 `json:"high"`
	List      int      `json:"list"`
}

func (s *Server) handlePalette(args json.RawMessage) (any, error) {
	var a paletteArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	strategy, err := palette.ParseStrategy(a.Strategy)
	if err != nil {
		return nil, err
	}
	opts := palette.Options{
		Strategy:  strategy,
		Count:     a.Count,
		LoopDepth: a.LoopDepth,
		Period:    a.Period,
		StartHue:  a.StartHue,
		Low:       0,
		High:      1,
	}
	if opts.Count == 0 {
		opts.Count = int(s.view.Depth())
	}
	if opts.Period == 0 {
		opts.Period = defaultAlternatingPeriod
	}
	if a.Low != nil {
		opts.Low = *a.Low
	}
	if a.High != nil {
		opts.High = *a.High
	}

	if err := s.view.RegeneratePalette(s.rng, opts); err != nil {
		return nil, err
	}
	return s.paletteInfo(a.List), nil
}

// === Analysis Handlers ===

// EntropyResult reports the visual variety estimate for the view.
type EntropyResult struct {
	Entropy float64 `json:"entropy"`
	Samples int     `json:"samples"`
	Width   int     `json:"width"`
	Height  int     `json:"height"`
}

func (s *Server) handleEntropy(args json.RawMessage) (any, error) {
	var a shapeArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	w, h, err := s.shape(a)
	if err != nil {
		return nil, err
	}
	return &EntropyResult{
		Entropy: s.view.EstimateEntropy(w, h),
		Samples: fractal.EstimateGridSize * fractal.EstimateGridSize,
		Width:   w,
		Height:  h,
	}, nil
}

// RenderResult is an inline render plus the view it shows.
type RenderResult struct {
	imaging.PreviewResult
	View *ViewInfo `json:"view"`
}

type renderArgs struct {
	shapeArgs
	Scale    float64 `json:"scale"`
	Annotate bool    `json:"annotate"`
}

func (s *Server) handleRender(args json.RawMessage) (any, error) {
	var a renderArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	w, h, err := s.shape(a.shapeArgs)
	if err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}

	img := s.renderer.Render(s.view, w, h).Image()
	if a.Annotate {
		imaging.Annotate(img, []string{
			fmt.Sprintf("center %.17g %+.17gi", real(s.view.Center()), imag(s.view.Center())),
			fmt.Sprintf("step %g  depth %d", s.view.StepSize(), s.view.Depth()),
		})
	}
	preview, err := imaging.Preview(img, a.Scale)
	if err != nil {
		return nil, err
	}
	return &RenderResult{PreviewResult: *preview, View: s.viewInfo()}, nil
}

type samplePointArgs struct {
	X int `json:"x"`
	Y int `json:"y"`
	shapeArgs
}

func (s *Server) handleSamplePoint(args json.RawMessage) (any, error) {
	var a samplePointArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	w, h, err := s.shape(a.shapeArgs)
	if err != nil {
		return nil, err
	}
	return s.renderer.SamplePoint(s.view, a.X, a.Y, w, h)
}

type measureArgs struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
	shapeArgs
}

func (s *Server) handleMeasure(args json.RawMessage) (any, error) {
	var a measureArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	w, h, err := s.shape(a.shapeArgs)
	if err != nil {
		return nil, err
	}
	return imaging.MeasureSpan(s.view.Geometry(),
		imaging.Point{X: a.X1, Y: a.Y1}, imaging.Point{X: a.X2, Y: a.Y2}, w, h)
}

// === Snapshot Handlers ===

// SnapshotResult lists the files a snapshot tool wrote.
type SnapshotResult struct {
	Files []string  `json:"files"`
	View  *ViewInfo `json:"view"`
}

type snapshotArgs struct {
	Name string `json:"name"`
	shapeArgs
}

func (s *Server) handleSnapshot(args json.RawMessage) (any, error) {
	var a snapshotArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	w, h, err := s.shape(a.shapeArgs)
	if err != nil {
		return nil, err
	}
	if a.Name == "" {
		a.Name = imaging.TimestampName(time.Now())
	}
	if err := fileName(a.Name); err != nil {
		return nil, err
	}
	if err := s.renderer.Snapshot(s.view, a.Name, w, h); err != nil {
		return nil, err
	}
	log.Printf("Wrote snapshot %s.png", a.Name)
	return &SnapshotResult{Files: []string{a.Name + ".png"}, View: s.viewInfo()}, nil
}

type sequenceArgs struct {
	Count  int     `json:"count"`
	Zoom   float64 `json:"zoom"`
	Prefix string  `json:"prefix"`
	shapeArgs
}

// maxSequenceFrames bounds a single tool call.
const maxSequenceFrames = 10000

func (s *Server) handleSequence(args json.RawMessage) (any, error) {
	var a sequenceArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	w, h, err := s.shape(a.shapeArgs)
	if err != nil {
		return nil, err
	}
	if a.Count < 0 || a.Count > maxSequenceFrames {
		return nil, fmt.Errorf("count must be between 0 and %d", maxSequenceFrames)
	}
	if a.Zoom == 0 {
		a.Zoom = 0.99
	}
	if a.Prefix == "" {
		a.Prefix = "seq_"
	}
	if err := fileName(a.Prefix); err != nil {
		return nil, err
	}
	// Reject before writing the first frame
	if !(a.Zoom > 0) || math.IsInf(a.Zoom, 0) {
		return nil, fmt.Errorf("%w: %g", fractal.ErrInvalidZoom, a.Zoom)
	}

	written, err := s.renderer.SnapshotSequence(s.view, a.Count, w, h, a.Zoom, a.Prefix)
	files := make([]string, written)
	for i := range files {
		files[i] = fmt.Sprintf("%s%06d.png", a.Prefix, i)
	}
	if err != nil {
		return nil, fmt.Errorf("sequence stopped after %d frames: %w", written, err)
	}
	log.Printf("Wrote %d-frame sequence %s", written, a.Prefix)
	return &SnapshotResult{Files: files, View: s.viewInfo()}, nil
}
