package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

func objectSchema(props map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func prop(typ, description string) map[string]any {
	return map[string]any{
		"type":        typ,
		"description": description,
	}
}

var (
	widthProp  = prop("integer", "Render width in pixels (default: server render width)")
	heightProp = prop("integer", "Render height in pixels (default: server render height)")
)

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// View state
		{
			Name:        "mandel_view",
			Description: "Describe the current view: center, step size, depth, palette size and whether the zoom has reached floating point precision.",
			InputSchema: objectSchema(map[string]any{}),
		},
		{
			Name:        "mandel_set_center",
			Description: "Move the view center to a point on the complex plane.",
			InputSchema: objectSchema(map[string]any{
				"re": prop("number", "Real part of the new center"),
				"im": prop("number", "Imaginary part of the new center"),
			}, "re", "im"),
		},
		{
			Name:        "mandel_move_center",
			Description: "Shift the view center by a pixel offset at the current step size.",
			InputSchema: objectSchema(map[string]any{
				"dx": prop("integer", "Horizontal offset in pixels (positive = right)"),
				"dy": prop("integer", "Vertical offset in pixels (positive = down)"),
			}),
		},
		{
			Name:        "mandel_recenter_pixel",
			Description: "Center the view on a pixel of a render, as a click in the explorer does.",
			InputSchema: objectSchema(map[string]any{
				"x":      prop("integer", "X coordinate (0-based)"),
				"y":      prop("integer", "Y coordinate (0-based)"),
				"width":  widthProp,
				"height": heightProp,
			}, "x", "y"),
		},
		{
			Name:        "mandel_zoom",
			Description: "Multiply the step size by a factor. Factors below 1 zoom in, above 1 zoom out.",
			InputSchema: objectSchema(map[string]any{
				"factor": prop("number", "Positive zoom factor, e.g. 0.8 to zoom in"),
			}, "factor"),
		},
		{
			Name:        "mandel_reset_step",
			Description: "Restore the initial step size of 1/800 plane units per pixel.",
			InputSchema: objectSchema(map[string]any{}),
		},
		{
			Name:        "mandel_set_depth",
			Description: "Set the iteration cap. Values below 1 are clamped to 1.",
			InputSchema: objectSchema(map[string]any{
				"depth": prop("integer", "Maximum number of iterations per point"),
			}, "depth"),
		},
		{
			Name:        "mandel_mod_depth",
			Description: "Add a signed amount to the iteration cap, clamping at 1.",
			InputSchema: objectSchema(map[string]any{
				"delta": prop("integer", "Change in iteration cap, e.g. 25 or -25"),
			}, "delta"),
		},

		// Palette
		{
			Name:        "mandel_palette",
			Description: "Replace the palette. Strategies: cyclic (hue ramp that grows with depth), random, continuous (hue ramp bouncing between low and high), continuous_ranged (ramp inside a random hue band), alternating (cycles through a few random colors).",
			InputSchema: objectSchema(map[string]any{
				"strategy": map[string]any{
					"type":        "string",
					"enum":        []string{"cyclic", "random", "continuous", "continuous_ranged", "alternating"},
					"description": "Palette construction strategy",
				},
				"count":      prop("integer", "Number of colors (default: current depth)"),
				"loop_depth": prop("integer", "Cyclic only: colors per full hue cycle (default: 100)"),
				"period":     prop("integer", "Alternating only: number of distinct colors (default: 8)"),
				"start_hue":  prop("number", "Continuous only: starting hue in [0,1]"),
				"low":        prop("number", "Continuous only: lowest hue in [0,1] (default: 0)"),
				"high":       prop("number", "Continuous only: highest hue in [0,1] (default: 1)"),
				"list":       prop("integer", "How many colors to list in the result (default: 32)"),
			}, "strategy"),
		},
		{
			Name:        "mandel_randomize_start_color",
			Description: "Rebuild the cyclic palette from a new random starting hue.",
			InputSchema: objectSchema(map[string]any{}),
		},

		// Analysis
		{
			Name:        "mandel_entropy",
			Description: "Estimate how visually varied the view is: Shannon entropy in bits of escape buckets over a 10x10 sample grid.",
			InputSchema: objectSchema(map[string]any{
				"width":  widthProp,
				"height": heightProp,
			}),
		},
		{
			Name:        "mandel_render",
			Description: "Render the view and return it as a base64-encoded PNG.",
			InputSchema: objectSchema(map[string]any{
				"width":    widthProp,
				"height":   heightProp,
				"scale":    prop("number", "Scale factor applied after rendering (default: 1.0)"),
				"annotate": prop("boolean", "Draw the view center, step and depth over the image"),
			}),
		},
		{
			Name:        "mandel_sample_point",
			Description: "Inspect one pixel of a render: plane coordinate, escape iteration and painted color.",
			InputSchema: objectSchema(map[string]any{
				"x":      prop("integer", "X coordinate (0-based)"),
				"y":      prop("integer", "Y coordinate (0-based)"),
				"width":  widthProp,
				"height": heightProp,
			}, "x", "y"),
		},
		{
			Name:        "mandel_measure",
			Description: "Measure the distance between two pixels of a render, in pixels and in plane units.",
			InputSchema: objectSchema(map[string]any{
				"x1":     prop("integer", "First point X coordinate"),
				"y1":     prop("integer", "First point Y coordinate"),
				"x2":     prop("integer", "Second point X coordinate"),
				"y2":     prop("integer", "Second point Y coordinate"),
				"width":  widthProp,
				"height": heightProp,
			}, "x1", "y1", "x2", "y2"),
		},

		// Snapshots
		{
			Name:        "mandel_snapshot",
			Description: "Render the view and write it as a PNG file. The .png extension is appended to the name.",
			InputSchema: objectSchema(map[string]any{
				"name":   prop("string", "Base file name (default: current timestamp, YYYYMMDD_HHMMSS)"),
				"width":  widthProp,
				"height": heightProp,
			}),
		},
		{
			Name:        "mandel_sequence",
			Description: "Write a zoom sequence: one PNG per frame, named prefix000000, prefix000001, ..., multiplying the step size by the zoom factor after each frame.",
			InputSchema: objectSchema(map[string]any{
				"count":  prop("integer", "Number of frames"),
				"zoom":   prop("number", "Step size factor between frames (default: 0.99)"),
				"prefix": prop("string", "File name prefix (default: seq_)"),
				"width":  widthProp,
				"height": heightProp,
			}, "count"),
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]any{
			"tools": GetToolDefinitions(),
		},
	}
}
