package fractal

// EstimateGridSize is the side length of the coarse grid used for entropy
// estimation.
const EstimateGridSize = 10

// Geometry is the part of a view that determines classifications.
type Geometry struct {
	Center complex128
	Step   float64
	Depth  uint32
}

// Point maps an integer pixel offset from the image center to the plane.
func (g Geometry) Point(dx, dy int) complex128 {
	return complex(real(g.Center)+g.Step*float64(dx), imag(g.Center)+g.Step*float64(dy))
}

// PixelPoint maps pixel (x, y) of a width x height image to the plane.
func (g Geometry) PixelPoint(x, y, width, height int) complex128 {
	return g.Point(x-width/2, y-height/2)
}

// Sample classifies every pixel of a width x height image of g and returns
// the results in row-major order. Rows are evaluated concurrently.
func Sample(g Geometry, width, height int) []Classification {
	if width <= 0 || height <= 0 {
		return nil
	}
	grid := make([]Classification, width*height)
	Parallel(height, func(_, lo, hi int) {
		for y := lo; y < hi; y++ {
			row := grid[y*width : (y+1)*width]
			dy := y - height/2
			for x := range row {
				row[x] = Evaluate(g.Point(x-width/2, dy), g.Depth)
			}
		}
	})
	return grid
}

// SampleCoarse classifies an EstimateGridSize x EstimateGridSize grid
// spread over the same area a width x height render of g would cover.
// Offsets are pre-scaled by shape/EstimateGridSize with integer division.
func SampleCoarse(g Geometry, width, height int) []Classification {
	const n = EstimateGridSize
	grid := make([]Classification, n*n)
	Parallel(n, func(_, lo, hi int) {
		for row := lo; row < hi; row++ {
			y := row - n/2
			for col := 0; col < n; col++ {
				x := col - n/2
				grid[row*n+col] = Evaluate(g.Point(x*width/n, y*height/n), g.Depth)
			}
		}
	})
	return grid
}

// EscapeRange folds the minimum and maximum escape iteration over grid,
// ignoring bounded points. ok is false when nothing escaped.
func EscapeRange(grid []Classification) (lo, hi uint32, ok bool) {
	type span struct {
		lo, hi uint32
		ok     bool
	}
	parts := make([]span, ChunkCount(len(grid)))
	Parallel(len(grid), func(chunk, from, to int) {
		var s span
		for _, c := range grid[from:to] {
			if !c.Escaped {
				continue
			}
			if !s.ok {
				s = span{lo: c.Iteration, hi: c.Iteration, ok: true}
				continue
			}
			s.lo = min(s.lo, c.Iteration)
			s.hi = max(s.hi, c.Iteration)
		}
		parts[chunk] = s
	})

	for _, s := range parts {
		if !s.ok {
			continue
		}
		if !ok {
			lo, hi, ok = s.lo, s.hi, true
			continue
		}
		lo = min(lo, s.lo)
		hi = max(hi, s.hi)
	}
	return lo, hi, ok
}
