// Package server implements the MCP (Model Context Protocol) server for
// Mandelbrot exploration.
//
// A single server holds one exploration session: a view (center, step size,
// depth, palette), a seeded random source for palette construction, and a
// renderer with a classification cache. Clients steer the view and ask for
// renders, samples and snapshots through tool calls.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// View state:
//   - mandel_view: Describe the current view
//   - mandel_set_center, mandel_move_center, mandel_recenter_pixel: Move the center
//   - mandel_zoom, mandel_reset_step: Change the step size
//   - mandel_set_depth, mandel_mod_depth: Change the iteration cap
//
// Palette:
//   - mandel_palette: Build a palette with a named strategy
//   - mandel_randomize_start_color: Reseed the cyclic palette
//
// Analysis:
//   - mandel_entropy: Visual variety estimate
//   - mandel_render: Inline PNG render
//   - mandel_sample_point: Inspect one pixel
//   - mandel_measure: Pixel and plane distance between two pixels
//
// Snapshots:
//   - mandel_snapshot: Write one PNG
//   - mandel_sequence: Write a zoom sequence
//
// # Error Handling
//
// Tool failures (invalid zoom factors, out-of-range pixels, failed writes)
// come back as JSON-RPC errors with code -32000. A rejected mutation leaves
// the view as it was; a sequence that fails partway keeps the frames and
// zoom it reached. Malformed requests get -32700 or -32602.
package server
