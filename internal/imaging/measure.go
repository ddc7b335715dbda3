package imaging

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/ironsheep/mandel-mcp/internal/fractal"
)

// Point is a pixel coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// SpanResult relates a pixel distance in a render to the plane.
type SpanResult struct {
	From           Point   `json:"from"`
	To             Point   `json:"to"`
	DistancePixels float64 `json:"distance_pixels"`
	DeltaX         int     `json:"delta_x"`
	DeltaY         int     `json:"delta_y"`
	AngleDegrees   float64 `json:"angle_degrees"`
	FromRe         float64 `json:"from_re"`
	FromIm         float64 `json:"from_im"`
	ToRe           float64 `json:"to_re"`
	ToIm           float64 `json:"to_im"`
	DistancePlane  float64 `json:"distance_plane"`
}

// MeasureSpan measures the segment between two pixels of a width x height
// render of g. Points may lie outside the image.
func MeasureSpan(g fractal.Geometry, from, to Point, width, height int) (*SpanResult, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", width, height)
	}

	dx := to.X - from.X
	dy := to.Y - from.Y
	distance := math.Hypot(float64(dx), float64(dy))

	// 0 = horizontal right, 90 = down
	angle := math.Atan2(float64(dy), float64(dx)) * 180 / math.Pi

	a := g.PixelPoint(from.X, from.Y, width, height)
	b := g.PixelPoint(to.X, to.Y, width, height)

	return &SpanResult{
		From:           from,
		To:             to,
		DistancePixels: math.Round(distance*100) / 100,
		DeltaX:         dx,
		DeltaY:         dy,
		AngleDegrees:   math.Round(angle*10) / 10,
		FromRe:         real(a),
		FromIm:         imag(a),
		ToRe:           real(b),
		ToIm:           imag(b),
		DistancePlane:  cmplx.Abs(b - a),
	}, nil
}
