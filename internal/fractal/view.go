package fractal

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/ironsheep/mandel-mcp/internal/palette"
)

const (
	// DefaultStep is the step size of the initial view, in plane units per pixel.
	DefaultStep = 1.0 / 800
	// DefaultDepth is the initial iteration cap.
	DefaultDepth = 400
)

// DefaultCenter is the center of the initial view.
var DefaultCenter = complex(0.41825764120184555, -0.34087020355542164)

var (
	ErrInvalidStep   = errors.New("step size must be positive and finite")
	ErrInvalidZoom   = errors.New("zoom factor must be positive and finite")
	ErrStepUnderflow = errors.New("step size underflows float64 precision")
	ErrEmptyPalette  = errors.New("palette must contain at least one color")
)

// View is the navigable state of one exploration session: where the image
// is centered, how far it is zoomed, how deep points are iterated and which
// palette paints them.
//
// The step size is always positive and the depth never drops below 1.
type View struct {
	center complex128
	step   float64
	depth  uint32

	palette palette.Palette
	// followDepth grows a cyclic palette whenever depth increases.
	followDepth bool
	loopDepth   int
}

// NewView returns the default view with a cyclic palette seeded from rng.
func NewView(rng *rand.Rand) *View {
	v := &View{
		center:    DefaultCenter,
		step:      DefaultStep,
		depth:     DefaultDepth,
		loopDepth: palette.DefaultLoopDepth,
	}
	v.RandomizeStartColor(rng)
	return v
}

// Center returns the plane coordinate of the image center.
func (v *View) Center() complex128 { return v.center }

// StepSize returns the plane distance between adjacent pixels.
func (v *View) StepSize() float64 { return v.step }

// Depth returns the iteration cap.
func (v *View) Depth() uint32 { return v.depth }

// Palette returns the active palette.
func (v *View) Palette() palette.Palette { return v.palette }

// Geometry returns the parameters that determine classification.
func (v *View) Geometry() Geometry {
	return Geometry{Center: v.center, Step: v.step, Depth: v.depth}
}

// SetCenter moves the image center to c.
func (v *View) SetCenter(c complex128) {
	v.center = c
}

// MoveCenter shifts the center by a pixel offset, converted to plane units
// with the current step size.
func (v *View) MoveCenter(dx, dy int) {
	v.center = v.Geometry().Point(dx, dy)
}

// SetStepSize replaces the step size.
func (v *View) SetStepSize(step float64) error {
	if !(step > 0) || math.IsInf(step, 0) {
		return fmt.Errorf("%w: %g", ErrInvalidStep, step)
	}
	v.step = step
	return nil
}

// ResetStep restores DefaultStep.
func (v *View) ResetStep() {
	v.step = DefaultStep
}

// Zoom multiplies the step size by factor; factor < 1 zooms in.
// A result that is not a normal positive float64 is rejected and the view is
// left unchanged.
func (v *View) Zoom(factor float64) error {
	if !(factor > 0) || math.IsInf(factor, 0) {
		return fmt.Errorf("%w: %g", ErrInvalidZoom, factor)
	}
	next := v.step * factor
	if next < minNormal {
		return fmt.Errorf("%w: %g * %g", ErrStepUnderflow, v.step, factor)
	}
	if math.IsInf(next, 0) {
		return fmt.Errorf("%w: %g * %g", ErrInvalidStep, v.step, factor)
	}
	v.step = next
	return nil
}

const minNormal = 0x1p-1022

// AtPrecisionLimit reports whether the step size is smaller than the float64
// spacing at the view center, meaning adjacent pixels no longer map to
// distinct plane coordinates.
func (v *View) AtPrecisionLimit() bool {
	m := math.Max(math.Abs(real(v.center)), math.Abs(imag(v.center)))
	ulp := math.Nextafter(m, math.Inf(1)) - m
	return v.step < ulp
}

// maxFollowLength caps how far a cyclic palette grows with depth.
const maxFollowLength = 1 << 16

// SetDepth sets the iteration cap, clamped to at least 1. A cyclic palette
// is grown to the new depth, up to maxFollowLength entries.
func (v *View) SetDepth(depth uint32) {
	v.depth = max(depth, 1)
	if !v.followDepth {
		return
	}
	if n := min(int(v.depth), maxFollowLength); len(v.palette) < n {
		v.palette = palette.Grow(nil, v.palette, n, v.loopDepth)
	}
}

// ModDepth adds delta to the iteration cap, clamping at 1.
func (v *View) ModDepth(delta int) {
	next := int64(v.depth) + int64(delta)
	switch {
	case next < 1:
		next = 1
	case next > math.MaxUint32:
		next = math.MaxUint32
	}
	v.SetDepth(uint32(next))
}

// SetPalette installs p as the active palette.
func (v *View) SetPalette(p palette.Palette) error {
	if len(p) == 0 {
		return ErrEmptyPalette
	}
	v.palette = p
	v.followDepth = false
	return nil
}

// RegeneratePalette replaces the palette with a freshly built one.
func (v *View) RegeneratePalette(rng *rand.Rand, opts palette.Options) error {
	p, err := palette.Build(rng, opts)
	if err != nil {
		return fmt.Errorf("failed to build palette: %w", err)
	}
	v.palette = p
	v.followDepth = opts.Strategy == palette.Cyclic
	if v.followDepth && opts.LoopDepth > 0 {
		v.loopDepth = opts.LoopDepth
	}
	return nil
}

// RandomizeStartColor rebuilds the cyclic palette, one entry per depth
// level, from a new random seed hue.
func (v *View) RandomizeStartColor(rng *rand.Rand) {
	v.palette = palette.CyclicList(rng, min(int(v.depth), maxFollowLength), v.loopDepth)
	v.followDepth = true
}

// RandomizeRandom installs n independently random colors.
func (v *View) RandomizeRandom(rng *rand.Rand, n int) error {
	return v.RegeneratePalette(rng, palette.Options{Strategy: palette.Random, Count: n})
}

// RandomizeContinuous installs an n-entry hue ramp bouncing across [low, high].
func (v *View) RandomizeContinuous(start, low, high float64, n int) error {
	return v.RegeneratePalette(nil, palette.Options{
		Strategy: palette.Continuous,
		Count:    n,
		StartHue: start,
		Low:      low,
		High:     high,
	})
}

// RandomizeContinuousRanged installs an n-entry hue ramp confined to a
// random hue band.
func (v *View) RandomizeContinuousRanged(rng *rand.Rand, n int) error {
	return v.RegeneratePalette(rng, palette.Options{Strategy: palette.ContinuousRanged, Count: n})
}

// RandomizeAlternating installs n entries cycling through k random colors.
func (v *View) RandomizeAlternating(rng *rand.Rand, n, k int) error {
	return v.RegeneratePalette(rng, palette.Options{Strategy: palette.Alternating, Count: n, Period: k})
}

// Sample classifies a width x height render of the view.
func (v *View) Sample(width, height int) []Classification {
	return Sample(v.Geometry(), width, height)
}

// EstimateEntropy scores a width x height render of the view.
func (v *View) EstimateEntropy(width, height int) float64 {
	return EstimateEntropy(v.Geometry(), width, height)
}

// Stats describes the view for logs.
func (v *View) Stats() string {
	return fmt.Sprintf("center = %v + j%v, step size = %v, depth = %d",
		real(v.center), imag(v.center), v.step, v.depth)
}
