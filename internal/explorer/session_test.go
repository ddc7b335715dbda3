package explorer

import (
	"errors"
	"testing"
	"time"

	"github.com/ironsheep/mandel-mcp/internal/fractal"
)

// memEncoder records snapshot paths without writing files.
type memEncoder struct {
	paths []string
	err   error
}

func (e *memEncoder) Encode(path string, rgb []byte, width, height int) error {
	e.paths = append(e.paths, path)
	return e.err
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 40, 30
	cfg.SnapshotWidth, cfg.SnapshotHeight = 16, 9
	cfg.SequenceCount = 3
	cfg.SequenceWidth, cfg.SequenceHeight = 4, 4
	cfg.SequenceZoom = 0.5
	cfg.Seed = 1
	return cfg
}

func newTestSession() (*Session, *memEncoder) {
	enc := &memEncoder{}
	s := NewSession(testConfig(), enc)
	s.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	return s, enc
}

func TestSession_ZoomAndDepthKeys(t *testing.T) {
	s, _ := newTestSession()

	// Expected steps follow the same float64 operations as the view
	step := fractal.DefaultStep
	in := step * zoomInFactor
	out := in * zoomOutFactor

	tests := []struct {
		key       string
		wantStep  float64
		wantDepth uint32
	}{
		{"E", in, fractal.DefaultDepth},
		{"q", out, fractal.DefaultDepth},
		{"R", out, fractal.DefaultDepth + 25},
		{"F", out, fractal.DefaultDepth},
		{"F4", step, fractal.DefaultDepth},
	}

	for _, tt := range tests {
		if _, err := s.Key(tt.key); err != nil {
			t.Fatalf("Key(%s): %v", tt.key, err)
		}
		if got := s.View().StepSize(); got != tt.wantStep {
			t.Errorf("after %s: step %v, want %v", tt.key, got, tt.wantStep)
		}
		if got := s.View().Depth(); got != tt.wantDepth {
			t.Errorf("after %s: depth %d, want %d", tt.key, got, tt.wantDepth)
		}
	}
}

func TestSession_DepthNeverDropsBelowOne(t *testing.T) {
	s, _ := newTestSession()
	for i := 0; i < 20; i++ {
		if _, err := s.Key("F"); err != nil {
			t.Fatal(err)
		}
	}
	if s.View().Depth() != 1 {
		t.Errorf("depth: got %d, want 1", s.View().Depth())
	}
}

func TestSession_PaletteKeys(t *testing.T) {
	s, _ := newTestSession()

	if _, err := s.Key("C"); err != nil {
		t.Fatal(err)
	}
	if got := len(s.View().Palette()); got != s.cfg.PaletteSize {
		t.Errorf("C: palette %d, want %d", got, s.cfg.PaletteSize)
	}
	if _, err := s.Key("A"); err != nil {
		t.Fatal(err)
	}
	seen := map[string]bool{}
	for _, c := range s.View().Palette() {
		seen[c.Hex()] = true
	}
	if len(seen) > s.cfg.AlternatingPeriod {
		t.Errorf("A: %d distinct colors, want at most %d", len(seen), s.cfg.AlternatingPeriod)
	}
	if _, err := s.Key("F3"); err != nil {
		t.Fatal(err)
	}
	if got := len(s.View().Palette()); got != fractal.DefaultDepth {
		t.Errorf("F3: palette %d, want %d", got, fractal.DefaultDepth)
	}
}

func TestSession_Snapshots(t *testing.T) {
	s, enc := newTestSession()

	msg, err := s.Key("F1")
	if err != nil {
		t.Fatalf("F1: %v", err)
	}
	if len(enc.paths) != 1 || enc.paths[0] != "20240102_030405.png" {
		t.Errorf("F1 paths: got %v", enc.paths)
	}
	if msg != "saved 20240102_030405.png" {
		t.Errorf("F1 message: got %q", msg)
	}

	enc.paths = nil
	if _, err := s.Key("F2"); err != nil {
		t.Fatalf("F2: %v", err)
	}
	want := []string{"seq_000000.png", "seq_000001.png", "seq_000002.png"}
	if len(enc.paths) != len(want) {
		t.Fatalf("F2 paths: got %v", enc.paths)
	}
	for i := range want {
		if enc.paths[i] != want[i] {
			t.Errorf("F2 frame %d: got %q", i, enc.paths[i])
		}
	}
	if got := s.View().StepSize(); got != fractal.DefaultStep/8 {
		t.Errorf("F2 step: got %v", got)
	}

	enc.err = errors.New("disk full")
	if _, err := s.Key("F1"); err == nil {
		t.Error("failed snapshot should report an error")
	}
}

func TestSession_ClickRecenters(t *testing.T) {
	s, _ := newTestSession()
	s.View().SetCenter(0)
	if err := s.View().SetStepSize(0.5); err != nil {
		t.Fatal(err)
	}

	if err := s.Click(30, 5); err != nil {
		t.Fatalf("Click: %v", err)
	}
	if got, want := s.View().Center(), complex(5, -5); got != want {
		t.Errorf("center: got %v, want %v", got, want)
	}
	if err := s.Click(40, 0); err == nil {
		t.Error("click outside the window should fail")
	}
}

func TestSession_Resize(t *testing.T) {
	s, _ := newTestSession()
	if err := s.Resize(64, 48); err != nil {
		t.Fatal(err)
	}
	if img := s.Frame(); img.Bounds().Dx() != 64 || img.Bounds().Dy() != 48 {
		t.Errorf("frame: got %v", img.Bounds())
	}
	for _, bad := range [][2]int{{0, 10}, {10, -1}, {maxWindowSide + 1, 10}} {
		if err := s.Resize(bad[0], bad[1]); err == nil {
			t.Errorf("Resize(%v) should fail", bad)
		}
	}
	if w, h := s.Size(); w != 64 || h != 48 {
		t.Errorf("failed resize changed size to %dx%d", w, h)
	}
}

func TestSession_EscapeCloses(t *testing.T) {
	s, _ := newTestSession()
	if _, err := s.Key("Escape"); err != nil {
		t.Fatal(err)
	}
	if !s.Closed() {
		t.Fatal("session should be closed")
	}
	if _, err := s.Key("E"); !errors.Is(err, ErrClosed) {
		t.Errorf("Key after close: got %v", err)
	}
	if err := s.Click(1, 1); !errors.Is(err, ErrClosed) {
		t.Errorf("Click after close: got %v", err)
	}
}

func TestSession_UnboundKeyIgnored(t *testing.T) {
	s, _ := newTestSession()
	before := s.View().Stats()
	msg, err := s.Key("Z")
	if err != nil || msg != "" {
		t.Errorf("got %q, %v", msg, err)
	}
	if s.View().Stats() != before {
		t.Error("unbound key changed the view")
	}
}

func TestSession_HUD(t *testing.T) {
	s, _ := newTestSession()
	if got := len(s.HUD()); got != 2 {
		t.Errorf("HUD lines: got %d", got)
	}
	if err := s.View().SetStepSize(1e-18); err != nil {
		t.Fatal(err)
	}
	if got := len(s.HUD()); got != 3 {
		t.Errorf("HUD lines at precision limit: got %d", got)
	}
}
