package imaging

import (
	"fmt"
	"image"
	"image/color"
	"log"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/mandel-mcp/internal/fractal"
	"github.com/ironsheep/mandel-mcp/internal/palette"
)

// Frame is a rendered pixel buffer: Width*Height colors in row-major order.
type Frame struct {
	Width  int
	Height int
	Pixels []palette.Color
}

// NewFrame colorizes grid with pal and wraps the result.
func NewFrame(grid []fractal.Classification, pal palette.Palette, depth uint32, width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pixels: Colorize(grid, pal, depth),
	}
}

// At returns the color of pixel (x, y).
func (f *Frame) At(x, y int) (palette.Color, error) {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return palette.Color{}, fmt.Errorf("coordinates (%d,%d) outside %dx%d frame", x, y, f.Width, f.Height)
	}
	return f.Pixels[y*f.Width+x], nil
}

// RGB flattens the frame to packed 8-bit RGB triples with no row padding.
func (f *Frame) RGB() []byte {
	buf := make([]byte, 0, len(f.Pixels)*3)
	for _, c := range f.Pixels {
		buf = append(buf, c.R, c.G, c.B)
	}
	return buf
}

// Image copies the frame into an opaque *image.RGBA.
func (f *Frame) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for i, c := range f.Pixels {
		img.Pix[i*4+0] = c.R
		img.Pix[i*4+1] = c.G
		img.Pix[i*4+2] = c.B
		img.Pix[i*4+3] = 0xff
	}
	return img
}

// FrameFromImage converts any image into a frame, dropping alpha.
func FrameFromImage(img image.Image) *Frame {
	b := img.Bounds()
	f := &Frame{
		Width:  b.Dx(),
		Height: b.Dy(),
		Pixels: make([]palette.Color, 0, b.Dx()*b.Dy()),
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			f.Pixels = append(f.Pixels, palette.Color{R: c.R, G: c.G, B: c.B})
		}
	}
	return f
}

// Renderer turns views into frames and snapshots.
//
// Cache and Encoder are optional: without a cache every render samples the
// view afresh, and without an encoder snapshots go through PNGEncoder.
// Supersample > 1 renders that many times larger in each direction and
// downsamples with a Lanczos filter. It is capped at MaxSupersample.
type Renderer struct {
	Cache       *GridCache
	Encoder     Encoder
	Supersample int
}

// MaxSupersample caps the supersampling factor.
const MaxSupersample = 4

// Scale returns the effective supersampling factor, in [1, MaxSupersample].
func (r *Renderer) Scale() int {
	return min(max(r.Supersample, 1), MaxSupersample)
}

// Render classifies and colorizes a width x height image of v.
func Render(v *fractal.View, width, height int) *Frame {
	var r Renderer
	return r.Render(v, width, height)
}

// Render classifies and colorizes a width x height image of v.
func (r *Renderer) Render(v *fractal.View, width, height int) *Frame {
	log.Print(v.Stats())

	k := r.Scale()
	grid := r.sample(v.Geometry(), width*k, height*k)
	f := NewFrame(grid, v.Palette(), v.Depth(), width*k, height*k)
	if k == 1 {
		return f
	}
	scaled := imaging.Resize(f.Image(), width, height, imaging.Lanczos)
	return FrameFromImage(scaled)
}

func (r *Renderer) sample(g fractal.Geometry, width, height int) []fractal.Classification {
	if r.Cache != nil {
		return r.Cache.Sample(g, width, height)
	}
	return fractal.Sample(g, width, height)
}

func (r *Renderer) encoder() Encoder {
	if r.Encoder != nil {
		return r.Encoder
	}
	return PNGEncoder{}
}
