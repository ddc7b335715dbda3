package explorer

import (
	"errors"
	"fmt"
	"image"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/ironsheep/mandel-mcp/internal/fractal"
	"github.com/ironsheep/mandel-mcp/internal/imaging"
)

// Config holds the explorer's fixed parameters.
type Config struct {
	Width, Height int

	SnapshotWidth, SnapshotHeight int

	SequenceCount  int
	SequenceWidth  int
	SequenceHeight int
	SequenceZoom   float64
	SequencePrefix string

	// PaletteSize is the color count for the C and A palette keys.
	PaletteSize int
	// AlternatingPeriod is the number of distinct colors for the A key.
	AlternatingPeriod int

	Seed      int64
	OutputDir string
}

// DefaultConfig returns the interactive defaults: an 800x600 window, full HD
// snapshots and a 1000 frame sequence zooming by 0.99.
func DefaultConfig() Config {
	return Config{
		Width:             800,
		Height:            600,
		SnapshotWidth:     1920,
		SnapshotHeight:    1080,
		SequenceCount:     1000,
		SequenceWidth:     800,
		SequenceHeight:    600,
		SequenceZoom:      0.99,
		SequencePrefix:    "seq_",
		PaletteSize:       400,
		AlternatingPeriod: 8,
	}
}

const (
	zoomInFactor  = 0.8
	zoomOutFactor = 1.25
	depthStep     = 25
)

// ErrClosed is returned for input after the session was closed.
var ErrClosed = errors.New("session closed")

// Session is one interactive exploration: a view plus the window it is shown
// in. It is not safe for concurrent use; the transport serializes input.
type Session struct {
	cfg      Config
	view     *fractal.View
	rng      *rand.Rand
	renderer *imaging.Renderer
	width    int
	height   int
	closed   bool

	now func() time.Time
}

// NewSession starts a session at the default view.
func NewSession(cfg Config, enc imaging.Encoder) *Session {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	if enc == nil {
		enc = imaging.PNGEncoder{Dir: cfg.OutputDir}
	}
	return &Session{
		cfg:  cfg,
		view: fractal.NewView(rng),
		rng:  rng,
		renderer: &imaging.Renderer{
			Cache:   imaging.NewGridCache(2),
			Encoder: enc,
		},
		width:  cfg.Width,
		height: cfg.Height,
		now:    time.Now,
	}
}

// View exposes the session view for inspection.
func (s *Session) View() *fractal.View { return s.view }

// Size returns the current window size.
func (s *Session) Size() (int, int) { return s.width, s.height }

// Closed reports whether Escape was pressed.
func (s *Session) Closed() bool { return s.closed }

// Key applies a key press and returns a short description of what happened.
// Unbound keys are ignored.
func (s *Session) Key(key string) (string, error) {
	if s.closed {
		return "", ErrClosed
	}

	switch strings.ToUpper(key) {
	case "E":
		if err := s.view.Zoom(zoomInFactor); err != nil {
			return "", err
		}
		return "zoom in", nil
	case "Q":
		if err := s.view.Zoom(zoomOutFactor); err != nil {
			return "", err
		}
		return "zoom out", nil
	case "R":
		s.view.ModDepth(depthStep)
		return fmt.Sprintf("depth %d", s.view.Depth()), nil
	case "F":
		s.view.ModDepth(-depthStep)
		return fmt.Sprintf("depth %d", s.view.Depth()), nil
	case "F1":
		name := imaging.TimestampName(s.now())
		if err := s.renderer.Snapshot(s.view, name, s.cfg.SnapshotWidth, s.cfg.SnapshotHeight); err != nil {
			return "", err
		}
		return "saved " + name + ".png", nil
	case "F2":
		n, err := s.renderer.SnapshotSequence(s.view, s.cfg.SequenceCount,
			s.cfg.SequenceWidth, s.cfg.SequenceHeight, s.cfg.SequenceZoom, s.cfg.SequencePrefix)
		if err != nil {
			return "", fmt.Errorf("sequence stopped after %d frames: %w", n, err)
		}
		return fmt.Sprintf("saved %d frames", n), nil
	case "F3":
		s.view.RandomizeStartColor(s.rng)
		return "new start color", nil
	case "F4":
		s.view.ResetStep()
		return "step reset", nil
	case "C":
		if err := s.view.RandomizeContinuousRanged(s.rng, s.cfg.PaletteSize); err != nil {
			return "", err
		}
		return "ranged palette", nil
	case "A":
		if err := s.view.RandomizeAlternating(s.rng, s.cfg.PaletteSize, s.cfg.AlternatingPeriod); err != nil {
			return "", err
		}
		return "alternating palette", nil
	case "ESCAPE", "ESC":
		s.closed = true
		return "closed", nil
	default:
		return "", nil
	}
}

// Click recenters the view on window pixel (x, y).
func (s *Session) Click(x, y int) error {
	if s.closed {
		return ErrClosed
	}
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return fmt.Errorf("click (%d,%d) outside %dx%d window", x, y, s.width, s.height)
	}
	s.view.SetCenter(s.view.Geometry().PixelPoint(x, y, s.width, s.height))
	return nil
}

// maxWindowSide caps each window dimension.
const maxWindowSide = 8192

// Resize changes the render shape.
func (s *Session) Resize(width, height int) error {
	if s.closed {
		return ErrClosed
	}
	if width <= 0 || height <= 0 || width > maxWindowSide || height > maxWindowSide {
		return fmt.Errorf("invalid window size %dx%d", width, height)
	}
	s.width, s.height = width, height
	return nil
}

// Frame renders the view at the window size with the HUD drawn over it.
func (s *Session) Frame() *image.RGBA {
	img := s.renderer.Render(s.view, s.width, s.height).Image()
	if s.view.AtPrecisionLimit() {
		log.Printf("Step size %g is below float64 resolution at this center", s.view.StepSize())
	}
	imaging.Annotate(img, s.HUD())
	return img
}

// HUD returns the overlay lines for the current view.
func (s *Session) HUD() []string {
	c := s.view.Center()
	lines := []string{
		fmt.Sprintf("%.17g %+.17gi", real(c), imag(c)),
		fmt.Sprintf("step %g  depth %d", s.view.StepSize(), s.view.Depth()),
	}
	if s.view.AtPrecisionLimit() {
		lines = append(lines, "precision limit reached")
	}
	return lines
}
