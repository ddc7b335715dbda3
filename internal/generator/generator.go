package generator

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/ironsheep/mandel-mcp/internal/fractal"
	"github.com/ironsheep/mandel-mcp/internal/imaging"
)

// Search ranges for a random view.
const (
	minCoord   = -2.0
	maxCoord   = 2.0
	minStep    = 1e-14
	maxStep    = 1e-4
	minBuckets = 100
	maxBuckets = 500
)

// Config holds the generator parameters.
type Config struct {
	// Width and Height are the snapshot size. Entropy is estimated at the
	// same size.
	Width, Height int
	// Threshold is the entropy a view must exceed to be saved.
	Threshold float64
	Depth     uint32
	// MaxCycles stops Run after that many cycles. Zero runs until the
	// context is cancelled.
	MaxCycles int
	// Pause is slept between cycles.
	Pause time.Duration

	Seed      int64
	OutputDir string
}

// DefaultConfig returns full HD snapshots, threshold 4.0 and depth 400.
func DefaultConfig() Config {
	return Config{
		Width:     1920,
		Height:    1080,
		Threshold: 4.0,
		Depth:     400,
	}
}

// Result describes one cycle.
type Result struct {
	Center  complex128
	Step    float64
	Buckets int
	Entropy float64
	// Path is the saved snapshot, empty when the view scored too low.
	Path string
}

// Generator runs the search. It is not safe for concurrent use.
type Generator struct {
	cfg      Config
	rng      *rand.Rand
	view     *fractal.View
	renderer *imaging.Renderer

	now      func() time.Time
	lastName string
	dup      int
}

// New creates a generator writing snapshots through enc. A nil enc writes
// PNG files under cfg.OutputDir.
func New(cfg Config, enc imaging.Encoder) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	if enc == nil {
		enc = imaging.PNGEncoder{Dir: cfg.OutputDir}
	}
	if cfg.Depth == 0 {
		cfg.Depth = DefaultConfig().Depth
	}
	view := fractal.NewView(rng)
	view.SetDepth(cfg.Depth)
	return &Generator{
		cfg:      cfg,
		rng:      rng,
		view:     view,
		renderer: &imaging.Renderer{Encoder: enc},
		now:      time.Now,
	}
}

// View exposes the view of the last cycle.
func (g *Generator) View() *fractal.View { return g.view }

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

// randomize moves the view to a random spot with a random palette.
func (g *Generator) randomize() (int, error) {
	re := g.uniform(minCoord, maxCoord)
	im := g.uniform(minCoord, maxCoord)
	g.view.SetCenter(complex(re, im))
	if err := g.view.SetStepSize(g.uniform(minStep, maxStep)); err != nil {
		return 0, err
	}
	buckets := minBuckets + g.rng.Intn(maxBuckets-minBuckets)
	if err := g.view.RandomizeContinuousRanged(g.rng, buckets); err != nil {
		return 0, err
	}
	return buckets, nil
}

// snapshotName returns a timestamp name, suffixed when several snapshots
// land in the same second.
func (g *Generator) snapshotName() string {
	name := imaging.TimestampName(g.now())
	if name == g.lastName {
		g.dup++
		return fmt.Sprintf("%s_%d", name, g.dup)
	}
	g.lastName = name
	g.dup = 0
	return name
}

// Cycle samples one random view and saves it when its entropy exceeds the
// threshold.
func (g *Generator) Cycle() (Result, error) {
	buckets, err := g.randomize()
	if err != nil {
		return Result{}, fmt.Errorf("randomize view: %w", err)
	}
	res := Result{
		Center:  g.view.Center(),
		Step:    g.view.StepSize(),
		Buckets: buckets,
		Entropy: g.view.EstimateEntropy(g.cfg.Width, g.cfg.Height),
	}
	if res.Entropy <= g.cfg.Threshold {
		return res, nil
	}

	name := g.snapshotName()
	log.Printf("Entropy threshold reached, taking snapshot (%dx%d)", g.cfg.Width, g.cfg.Height)
	log.Printf("%s, entropy = %.4f, file = '%s'", g.view.Stats(), res.Entropy, name)
	if err := g.renderer.Snapshot(g.view, name, g.cfg.Width, g.cfg.Height); err != nil {
		return res, err
	}
	res.Path = name + ".png"
	return res, nil
}

// Run cycles until ctx is cancelled or MaxCycles is reached. Cycle errors
// are logged and do not stop the search. It returns ctx.Err() on
// cancellation and nil otherwise.
func (g *Generator) Run(ctx context.Context) error {
	saved := 0
	for i := 0; g.cfg.MaxCycles == 0 || i < g.cfg.MaxCycles; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		res, err := g.Cycle()
		if err != nil {
			log.Printf("cycle %d failed: %v", i, err)
		} else if res.Path != "" {
			saved++
			log.Printf("Snapshot finished (%d saved)", saved)
		}

		if g.cfg.Pause > 0 {
			t := time.NewTimer(g.cfg.Pause)
			select {
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			case <-t.C:
			}
		}
	}
	return nil
}
