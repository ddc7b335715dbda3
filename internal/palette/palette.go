package palette

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an 8-bit RGB triple.
//
// Color implements color.Color so a slice of them can back an image directly.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Black is the background color used for bounded points.
var Black = Color{}

// RGBA implements color.Color. Colors are always fully opaque.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xffff
}

// Hex formats the color as "#RRGGBB".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Hue recovers the HSV hue of the color in [0,1).
//
// The value is reconstructed from 8-bit channels, so it only approximates the
// hue the color was built from.
func (c Color) Hue() float64 {
	h, _, _ := colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hsv()
	return h / 360
}

// FromHue converts a hue to a fully saturated, full value color.
// Hues outside [0,1) wrap around.
func FromHue(hue float64) Color {
	hue -= math.Floor(hue)
	r, g, b := colorful.Hsv(hue*360, 1, 1).RGB255()
	return Color{R: r, G: g, B: b}
}

// Palette is an ordered, immutable sequence of colors.
type Palette []Color

// Len returns the number of colors.
func (p Palette) Len() int { return len(p) }

// RandomBucket returns a single color with a uniformly random hue.
func RandomBucket(rng *rand.Rand) Color {
	return FromHue(rng.Float64())
}

// NextBucket returns the color whose hue is 1/loopDepth past the hue of c,
// wrapping at 1.0.
func NextBucket(c Color, loopDepth int) Color {
	if loopDepth < 1 {
		loopDepth = 1
	}
	return FromHue(c.Hue() + 1/float64(loopDepth))
}

// Grow extends p to n entries by chaining NextBucket from its last color.
// An empty palette is seeded with a random bucket first. If p already has at
// least n entries it is returned as is.
func Grow(rng *rand.Rand, p Palette, n, loopDepth int) Palette {
	if len(p) >= n {
		return p
	}
	out := make(Palette, len(p), n)
	copy(out, p)
	if len(out) == 0 {
		out = append(out, RandomBucket(rng))
	}
	for len(out) < n {
		out = append(out, NextBucket(out[len(out)-1], loopDepth))
	}
	return out
}

// CyclicList returns n colors starting at a random hue and advancing by
// 1/loopDepth per entry.
func CyclicList(rng *rand.Rand, n, loopDepth int) Palette {
	if n < 1 {
		return Palette{}
	}
	return Grow(rng, nil, n, loopDepth)
}

// RandomList returns n independently random colors.
func RandomList(rng *rand.Rand, n int) Palette {
	p := make(Palette, 0, max(n, 0))
	for i := 0; i < n; i++ {
		p = append(p, RandomBucket(rng))
	}
	return p
}

// RandomAlternatingList builds k random colors and repeats them to fill n
// entries, so entry i is color i mod k.
func RandomAlternatingList(rng *rand.Rand, n, k int) Palette {
	if k < 1 {
		k = 1
	}
	base := RandomList(rng, k)
	p := make(Palette, 0, max(n, 0))
	for i := 0; i < n; i++ {
		p = append(p, base[i%k])
	}
	return p
}

// ContinuousList walks hue from start across [low, high] in steps of
// (high-low)/n and returns the n visited colors.
//
// When the next hue would leave the range it is clamped to the bound and the
// walk reverses direction, so the ramp bounces back and forth. A start
// outside the range is clamped into it first.
func ContinuousList(start, low, high float64, n int) Palette {
	hues := continuousHues(start, low, high, n)
	p := make(Palette, 0, len(hues))
	for _, h := range hues {
		p = append(p, FromHue(h))
	}
	return p
}

func continuousHues(start, low, high float64, n int) []float64 {
	if n < 1 {
		return nil
	}
	if low > high {
		low, high = high, low
	}
	hue := math.Min(math.Max(start, low), high)
	step := (high - low) / float64(n)
	dir := 1.0

	hues := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		hues = append(hues, hue)
		next := hue + dir*step
		switch {
		case next > high:
			next, dir = high, -1
		case next < low:
			next, dir = low, 1
		}
		hue = next
	}
	return hues
}

// ContinuousListRanged picks a random hue band at least 0.2 wide inside
// [0,1] and a random start within it, then delegates to ContinuousList.
func ContinuousListRanged(rng *rand.Rand, n int) Palette {
	low, high, start := RandomRange(rng)
	return ContinuousList(start, low, high, n)
}

// MinRangeWidth is the narrowest hue band ContinuousListRanged will pick.
const MinRangeWidth = 0.2

// RandomRange returns a random hue band [low, high] with
// high-low >= MinRangeWidth and a start hue inside it.
//
// low is uniform in [0, 1-MinRangeWidth), high is uniform in
// [low+MinRangeWidth, 1) and start is uniform in [low, high).
func RandomRange(rng *rand.Rand) (low, high, start float64) {
	low = rng.Float64() * (1 - MinRangeWidth)
	high = low + MinRangeWidth + rng.Float64()*(1-low-MinRangeWidth)
	start = low + rng.Float64()*(high-low)
	return low, high, start
}
