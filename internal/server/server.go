package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"sync"

	"github.com/bytedance/sonic"

	"github.com/ironsheep/mandel-mcp/internal/fractal"
	"github.com/ironsheep/mandel-mcp/internal/imaging"
)

// Version is reported in the initialize handshake.
const Version = "0.2.0"

const (
	// DefaultWidth and DefaultHeight are the render shape used when a tool
	// call does not give one.
	DefaultWidth  = 800
	DefaultHeight = 600
)

// Options configures a Server.
type Options struct {
	// Seed drives every palette construction. Zero picks a time-based seed.
	Seed int64
	// OutputDir is where snapshots are written. Empty means the working directory.
	OutputDir string
	// Width and Height are the default render shape.
	Width, Height int
	// CacheSize bounds the classification cache.
	CacheSize int
	// Supersample renders larger and downsamples for anti-aliasing.
	Supersample int
}

// Server handles MCP protocol communication for a single exploration
// session. Tool calls are serialized; the view is never shared.
type Server struct {
	mu       sync.Mutex
	view     *fractal.View
	rng      *rand.Rand
	renderer *imaging.Renderer
	width    int
	height   int

	in  io.Reader
	out io.Writer
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      any       `json:"id"`
	Result  any       `json:"result,omitempty"`
	Error   *MCPError `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// New creates a server on stdio with the default view.
func New(opts Options) *Server {
	return NewWithIO(opts, os.Stdin, os.Stdout)
}

// NewWithIO creates a server reading requests from in and writing responses
// to out.
func NewWithIO(opts Options, in io.Reader, out io.Writer) *Server {
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	rng := rand.New(rand.NewSource(seed))

	width, height := opts.Width, opts.Height
	if width <= 0 || height <= 0 || width > maxImageSide || height > maxImageSide {
		width, height = DefaultWidth, DefaultHeight
	}

	return &Server{
		view: fractal.NewView(rng),
		rng:  rng,
		renderer: &imaging.Renderer{
			Cache:       imaging.NewGridCache(opts.CacheSize),
			Encoder:     imaging.PNGEncoder{Dir: opts.OutputDir},
			Supersample: opts.Supersample,
		},
		width:  width,
		height: height,
		in:     in,
		out:    out,
	}
}

// Run reads newline-delimited requests until the input closes.
func (s *Server) Run() error {
	scanner := bufio.NewScanner(s.in)
	// Renders come back inline, requests stay small
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	encoder := sonic.ConfigStd.NewEncoder(s.out)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := sonic.Unmarshal(line, &req); err != nil {
			log.Printf("Failed to parse request: %v", err)
			if err := encoder.Encode(s.errorResponse(nil, -32700, "Parse error", err.Error())); err != nil {
				log.Printf("Failed to encode response: %v", err)
			}
			continue
		}

		resp := s.handleRequest(&req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				log.Printf("Failed to encode response: %v", err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]any{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]any{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]any{
				"tools": map[string]any{},
			},
			"serverInfo": map[string]any{
				"name":    "mandel-mcp",
				"version": Version,
			},
		},
	}
}
