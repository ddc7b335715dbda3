package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/mandel-mcp/internal/fractal"
	"github.com/ironsheep/mandel-mcp/internal/imaging"
)

// callTool runs a tools/call request and returns the response.
func callTool(t *testing.T, s *Server, name string, args any) *MCPResponse {
	t.Helper()
	params := map[string]any{"name": name}
	if args != nil {
		params["arguments"] = args
	}
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/call", Params: paramsJSON})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	return resp
}

// callToolInto runs a tool that must succeed and decodes its text result.
func callToolInto(t *testing.T, s *Server, name string, args any, out any) []map[string]any {
	t.Helper()
	resp := callTool(t, s, name, args)
	if resp.Error != nil {
		t.Fatalf("%s: unexpected error: %+v", name, resp.Error)
	}
	content := resp.Result.(map[string]any)["content"].([]map[string]any)
	if out != nil {
		if err := json.Unmarshal([]byte(content[0]["text"].(string)), out); err != nil {
			t.Fatalf("%s: decode result: %v", name, err)
		}
	}
	return content
}

func TestHandleToolsCall_View(t *testing.T) {
	s := newTestServer(t)
	var info ViewInfo
	callToolInto(t, s, "mandel_view", nil, &info)

	if info.CenterRe != real(fractal.DefaultCenter) || info.CenterIm != imag(fractal.DefaultCenter) {
		t.Errorf("center: got (%v, %v)", info.CenterRe, info.CenterIm)
	}
	if info.StepSize != fractal.DefaultStep || info.Depth != fractal.DefaultDepth {
		t.Errorf("step/depth: got %v/%d", info.StepSize, info.Depth)
	}
	if info.PaletteSize != fractal.DefaultDepth {
		t.Errorf("palette: got %d", info.PaletteSize)
	}
	if info.Width != 40 || info.Height != 30 {
		t.Errorf("shape: got %dx%d", info.Width, info.Height)
	}
}

func TestHandleToolsCall_Navigation(t *testing.T) {
	s := newTestServer(t)
	var info ViewInfo

	callToolInto(t, s, "mandel_set_center", map[string]any{"re": 1.0, "im": 1.0}, &info)
	if info.CenterRe != 1 || info.CenterIm != 1 {
		t.Errorf("set_center: got (%v, %v)", info.CenterRe, info.CenterIm)
	}

	callToolInto(t, s, "mandel_zoom", map[string]any{"factor": 256.0}, &info)
	if info.StepSize != fractal.DefaultStep*256 {
		t.Errorf("zoom: got %v", info.StepSize)
	}
	callToolInto(t, s, "mandel_reset_step", nil, &info)
	if info.StepSize != fractal.DefaultStep {
		t.Errorf("reset_step: got %v", info.StepSize)
	}

	if err := s.view.SetStepSize(0.25); err != nil {
		t.Fatal(err)
	}
	callToolInto(t, s, "mandel_move_center", map[string]any{"dx": 4, "dy": -8}, &info)
	if info.CenterRe != 2 || info.CenterIm != -1 {
		t.Errorf("move_center: got (%v, %v)", info.CenterRe, info.CenterIm)
	}

	// Pixel (30, 15) of a 40x30 render is 10 pixels right of center
	callToolInto(t, s, "mandel_recenter_pixel", map[string]any{"x": 30, "y": 15}, &info)
	if info.CenterRe != 4.5 || info.CenterIm != -1 {
		t.Errorf("recenter_pixel: got (%v, %v)", info.CenterRe, info.CenterIm)
	}

	callToolInto(t, s, "mandel_set_depth", map[string]any{"depth": 0}, &info)
	if info.Depth != 1 {
		t.Errorf("set_depth(0): got %d", info.Depth)
	}
	callToolInto(t, s, "mandel_mod_depth", map[string]any{"delta": 25}, &info)
	if info.Depth != 26 {
		t.Errorf("mod_depth: got %d", info.Depth)
	}
}

func TestHandleToolsCall_NavigationErrors(t *testing.T) {
	tests := []struct {
		name string
		tool string
		args any
	}{
		{"zero zoom", "mandel_zoom", map[string]any{"factor": 0}},
		{"negative zoom", "mandel_zoom", map[string]any{"factor": -2}},
		{"missing center", "mandel_set_center", map[string]any{"re": 0.5}},
		{"pixel outside", "mandel_recenter_pixel", map[string]any{"x": 40, "y": 0}},
		{"bad shape", "mandel_recenter_pixel", map[string]any{"x": 1, "y": 1, "width": -5, "height": 10}},
		{"wrong type", "mandel_zoom", map[string]any{"factor": "fast"}},
		{"unknown tool", "mandel_teleport", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			before := *s.viewInfo()

			resp := callTool(t, s, tt.tool, tt.args)
			if resp.Error == nil {
				t.Fatal("expected an error")
			}
			if resp.Error.Code != -32000 {
				t.Errorf("Code: got %d, want -32000", resp.Error.Code)
			}
			if after := *s.viewInfo(); after != before {
				t.Errorf("view changed: %+v -> %+v", before, after)
			}
		})
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := newTestServer(t)
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/call", Params: json.RawMessage(`"nope"`)})
	if resp.Error == nil || resp.Error.Code != -32602 {
		t.Errorf("got %+v, want -32602", resp.Error)
	}
}

func TestHandleToolsCall_Palette(t *testing.T) {
	tests := []struct {
		name     string
		args     map[string]any
		wantSize int
	}{
		{"cyclic follows depth", map[string]any{"strategy": "cyclic"}, fractal.DefaultDepth},
		{"random", map[string]any{"strategy": "random", "count": 50}, 50},
		{"continuous", map[string]any{"strategy": "continuous", "count": 64, "start_hue": 0.2, "low": 0.1, "high": 0.5}, 64},
		{"ranged", map[string]any{"strategy": "continuous_ranged", "count": 120}, 120},
		{"alternating default period", map[string]any{"strategy": "alternating", "count": 40}, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			var info PaletteInfo
			callToolInto(t, s, "mandel_palette", tt.args, &info)
			if info.Size != tt.wantSize {
				t.Errorf("Size: got %d, want %d", info.Size, tt.wantSize)
			}
			if len(info.Colors) != min(tt.wantSize, maxListedColors) {
				t.Errorf("Colors: got %d", len(info.Colors))
			}
			if !strings.HasPrefix(info.Colors[0], "#") {
				t.Errorf("Colors[0]: got %q", info.Colors[0])
			}
		})
	}

	s := newTestServer(t)
	for _, bad := range []map[string]any{
		{"strategy": "plaid"},
		{"strategy": "continuous", "low": 0.8, "high": 0.2},
		{"strategy": "random", "count": -1},
	} {
		if resp := callTool(t, s, "mandel_palette", bad); resp.Error == nil {
			t.Errorf("%v: expected an error", bad)
		}
	}
}

func TestHandleToolsCall_RandomizeStartColor(t *testing.T) {
	s := newTestServer(t)
	callToolInto(t, s, "mandel_palette", map[string]any{"strategy": "random", "count": 5}, nil)

	var info PaletteInfo
	callToolInto(t, s, "mandel_randomize_start_color", nil, &info)
	if info.Size != fractal.DefaultDepth {
		t.Errorf("Size: got %d, want %d", info.Size, fractal.DefaultDepth)
	}
}

func TestHandleToolsCall_Entropy(t *testing.T) {
	s := newTestServer(t)
	s.view.SetCenter(complex(50, 50))

	var res EntropyResult
	callToolInto(t, s, "mandel_entropy", nil, &res)
	if res.Entropy != 0 {
		t.Errorf("Entropy far outside the set: got %v", res.Entropy)
	}
	if res.Samples != 100 || res.Width != 40 || res.Height != 30 {
		t.Errorf("got %+v", res)
	}
}

func TestHandleToolsCall_Render(t *testing.T) {
	s := newTestServer(t)

	content := callToolInto(t, s, "mandel_render", map[string]any{"width": 24, "height": 16, "annotate": true}, nil)
	if len(content) != 2 {
		t.Fatalf("content blocks: got %d, want 2", len(content))
	}
	if content[1]["type"] != "image" || content[1]["mimeType"] != "image/png" {
		t.Errorf("image block: got %v", content[1]["type"])
	}

	data, err := base64.StdEncoding.DecodeString(content[1]["data"].(string))
	if err != nil {
		t.Fatalf("base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 24 || b.Dy() != 16 {
		t.Errorf("bounds: got %v", b)
	}

	var res RenderResult
	callToolInto(t, s, "mandel_render", map[string]any{"scale": 0.5}, &res)
	if res.Width != 20 || res.Height != 15 {
		t.Errorf("scaled: got %dx%d", res.Width, res.Height)
	}
	if res.View == nil || res.View.Depth != fractal.DefaultDepth {
		t.Errorf("View: got %+v", res.View)
	}
	if s.renderer.Cache.Len() != 2 {
		t.Errorf("cache: got %d grids, want 2", s.renderer.Cache.Len())
	}
}

func TestHandleToolsCall_SamplePoint(t *testing.T) {
	s := newTestServer(t)
	s.view.SetCenter(0)

	var sample imaging.PointSample
	callToolInto(t, s, "mandel_sample_point", map[string]any{"x": 20, "y": 15}, &sample)
	if sample.Re != 0 || sample.Im != 0 {
		t.Errorf("center pixel: got (%v, %v)", sample.Re, sample.Im)
	}
	if sample.Escaped || sample.Color.Hex != "#000000" {
		t.Errorf("origin should be bounded and black, got %+v", sample)
	}

	if resp := callTool(t, s, "mandel_sample_point", map[string]any{"x": 99, "y": 0}); resp.Error == nil {
		t.Error("out of bounds sample should fail")
	}
}

func TestHandleToolsCall_Measure(t *testing.T) {
	s := newTestServer(t)
	if err := s.view.SetStepSize(0.5); err != nil {
		t.Fatal(err)
	}

	var span imaging.SpanResult
	callToolInto(t, s, "mandel_measure", map[string]any{"x1": 0, "y1": 0, "x2": 3, "y2": 4}, &span)
	if span.DistancePixels != 5 || span.DistancePlane != 2.5 {
		t.Errorf("got %v px, %v plane", span.DistancePixels, span.DistancePlane)
	}
}

func TestHandleToolsCall_Snapshot(t *testing.T) {
	dir := t.TempDir()
	s := NewWithIO(Options{Seed: 1, OutputDir: dir, Width: 16, Height: 12}, nil, nil)

	var res SnapshotResult
	callToolInto(t, s, "mandel_snapshot", map[string]any{"name": "first"}, &res)
	if len(res.Files) != 1 || res.Files[0] != "first.png" {
		t.Errorf("Files: got %v", res.Files)
	}
	if _, err := os.Stat(filepath.Join(dir, "first.png")); err != nil {
		t.Errorf("snapshot not written: %v", err)
	}

	callToolInto(t, s, "mandel_snapshot", nil, &res)
	if len(res.Files) != 1 || len(res.Files[0]) != len("20060102_150405.png") {
		t.Errorf("timestamp name: got %v", res.Files)
	}
}

func TestHandleToolsCall_Sequence(t *testing.T) {
	dir := t.TempDir()
	s := NewWithIO(Options{Seed: 1, OutputDir: dir, Width: 8, Height: 6}, nil, nil)

	var res SnapshotResult
	callToolInto(t, s, "mandel_sequence", map[string]any{"count": 3, "zoom": 0.5, "width": 2, "height": 2}, &res)

	want := []string{"seq_000000.png", "seq_000001.png", "seq_000002.png"}
	if len(res.Files) != len(want) {
		t.Fatalf("Files: got %v", res.Files)
	}
	for i, name := range want {
		if res.Files[i] != name {
			t.Errorf("Files[%d]: got %q, want %q", i, res.Files[i], name)
		}
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
	if res.View.StepSize != fractal.DefaultStep/8 {
		t.Errorf("step after sequence: got %v", res.View.StepSize)
	}

	if resp := callTool(t, s, "mandel_sequence", map[string]any{"count": 2, "zoom": -1}); resp.Error == nil {
		t.Error("negative zoom should fail")
	}
	if resp := callTool(t, s, "mandel_sequence", map[string]any{"count": maxSequenceFrames + 1}); resp.Error == nil {
		t.Error("oversized sequence should fail")
	}
}

func TestShape_Limits(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name    string
		args    shapeArgs
		wantErr bool
	}{
		{"default", shapeArgs{}, false},
		{"largest side", shapeArgs{Width: maxImageSide, Height: 16}, false},
		{"too wide", shapeArgs{Width: maxImageSide + 1, Height: 16}, true},
		{"too tall", shapeArgs{Width: 16, Height: maxImageSide + 1}, true},
		{"huge", shapeArgs{Width: 1 << 20, Height: 1 << 20}, true},
		{"negative", shapeArgs{Width: -1, Height: 4}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := s.shape(tt.args)
			if (err != nil) != tt.wantErr {
				t.Errorf("got err=%v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestShape_SupersampleBudget(t *testing.T) {
	s := NewWithIO(Options{Seed: 1, OutputDir: t.TempDir(), Width: 8, Height: 6, Supersample: 4}, nil, nil)

	// 4096x4096 fits on its own but not at 4x4 samples per pixel
	if _, _, err := s.shape(shapeArgs{Width: 4096, Height: 4096}); err == nil {
		t.Error("supersampled grid over budget should fail")
	}
	if _, _, err := s.shape(shapeArgs{Width: 1024, Height: 1024}); err != nil {
		t.Errorf("1024x1024 at 4x: %v", err)
	}
}

func TestHandleToolsCall_OversizedShapeRejected(t *testing.T) {
	s := newTestServer(t)
	huge := map[string]any{"width": 1 << 20, "height": 1 << 20}

	tools := []struct {
		name string
		args map[string]any
	}{
		{"mandel_render", huge},
		{"mandel_snapshot", huge},
		{"mandel_sequence", map[string]any{"count": 1, "width": 1 << 20, "height": 1 << 20}},
		{"mandel_sample_point", map[string]any{"x": 0, "y": 0, "width": 1 << 20, "height": 1 << 20}},
		{"mandel_recenter_pixel", map[string]any{"x": 0, "y": 0, "width": 1 << 20, "height": 1 << 20}},
		{"mandel_entropy", huge},
	}

	for _, tt := range tools {
		t.Run(tt.name, func(t *testing.T) {
			before := s.view.Center()
			resp := callTool(t, s, tt.name, tt.args)
			if resp.Error == nil {
				t.Fatal("expected an error")
			}
			if s.view.Center() != before {
				t.Error("rejected call moved the view")
			}
		})
	}
}

func TestHandleToolsCall_NamesStayInOutputDir(t *testing.T) {
	dir := t.TempDir()
	other := t.TempDir()
	s := NewWithIO(Options{Seed: 1, OutputDir: dir, Width: 4, Height: 4}, nil, nil)

	tests := []struct {
		name string
		tool string
		args map[string]any
	}{
		{"absolute name", "mandel_snapshot", map[string]any{"name": filepath.Join(other, "abs")}},
		{"parent name", "mandel_snapshot", map[string]any{"name": "../escape"}},
		{"nested name", "mandel_snapshot", map[string]any{"name": "sub/name"}},
		{"dot dot", "mandel_snapshot", map[string]any{"name": ".."}},
		{"absolute prefix", "mandel_sequence", map[string]any{"count": 1, "prefix": filepath.Join(other, "seq_")}},
		{"parent prefix", "mandel_sequence", map[string]any{"count": 1, "prefix": "../seq_"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if resp := callTool(t, s, tt.tool, tt.args); resp.Error == nil {
				t.Error("expected an error")
			}
		})
	}

	for _, d := range []string{other, filepath.Dir(dir)} {
		entries, err := os.ReadDir(d)
		if err != nil {
			t.Fatal(err)
		}
		for _, e := range entries {
			if strings.HasSuffix(e.Name(), ".png") {
				t.Errorf("file written outside the output directory: %s", filepath.Join(d, e.Name()))
			}
		}
	}
}
