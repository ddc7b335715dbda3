package imaging

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/mandel-mcp/internal/fractal"
	"github.com/ironsheep/mandel-mcp/internal/palette"
)

// HSLColor represents a color in HSL space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees
	S int `json:"s"` // Saturation: 0-100 percent
	L int `json:"l"` // Lightness: 0-100 percent
}

// ColorResult contains a color value in several representations.
type ColorResult struct {
	Hex string        `json:"hex"`
	RGB palette.Color `json:"rgb"`
	HSL HSLColor      `json:"hsl"`
}

// NewColorResult describes c in hex, RGB and HSL form.
func NewColorResult(c palette.Color) ColorResult {
	h, s, l := colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hsl()
	if math.IsNaN(h) {
		h = 0
	}
	return ColorResult{
		Hex: c.Hex(),
		RGB: c,
		HSL: HSLColor{
			H: int(math.Round(h)) % 360,
			S: int(math.Round(s * 100)),
			L: int(math.Round(l * 100)),
		},
	}
}

// PointSample describes one pixel of a render: where it lies on the plane,
// how it classified and the color it was painted.
type PointSample struct {
	X         int         `json:"x"`
	Y         int         `json:"y"`
	Re        float64     `json:"re"`
	Im        float64     `json:"im"`
	Escaped   bool        `json:"escaped"`
	Iteration uint32      `json:"iteration,omitempty"`
	Bucket    uint32      `json:"bucket"`
	Color     ColorResult `json:"color"`
}

// SamplePoint inspects pixel (x, y) of a width x height render of v.
//
// The color matches what a full render would paint, so the whole grid is
// classified (or taken from the cache) to find the escape range. When the
// renderer supersamples, the color is read from the downsampled frame while
// the classification is that of the pixel's own plane point.
//
// # Coordinate System
//
// Coordinates are 0-based with origin at top-left; the view center sits at
// (width/2, height/2).
func (r *Renderer) SamplePoint(v *fractal.View, x, y, width, height int) (*PointSample, error) {
	if x < 0 || x >= width || y < 0 || y >= height {
		return nil, fmt.Errorf("coordinates (%d,%d) outside %dx%d image", x, y, width, height)
	}

	grid := r.sample(v.Geometry(), width, height)
	i := y*width + x
	c := grid[i]

	var color palette.Color
	if r.Scale() > 1 {
		color = r.Render(v, width, height).Pixels[i]
	} else {
		color = Colorize(grid, v.Palette(), v.Depth())[i]
	}
	p := v.Geometry().PixelPoint(x, y, width, height)

	return &PointSample{
		X:         x,
		Y:         y,
		Re:        real(p),
		Im:        imag(p),
		Escaped:   c.Escaped,
		Iteration: c.Iteration,
		Bucket:    c.Bucket(),
		Color:     NewColorResult(color),
	}, nil
}
