package imaging

import (
	"github.com/ironsheep/mandel-mcp/internal/fractal"
	"github.com/ironsheep/mandel-mcp/internal/palette"
)

// Colorize maps a classification grid through pal and returns one color per
// entry, in the same order.
//
// Bounded points are painted palette.Black. An escaped point at iteration v
// is painted pal[(v / modifier) mod len(pal)], where modifier is 1 when the
// palette has exactly depth entries and otherwise comes from Modifier over
// the grid's escape range.
//
// A grid with no escaped points, or an empty palette, yields an all black
// buffer.
func Colorize(grid []fractal.Classification, pal palette.Palette, depth uint32) []palette.Color {
	out := make([]palette.Color, len(grid))
	if len(pal) == 0 {
		return out
	}

	n := uint32(len(pal))
	modifier := uint32(1)
	if n != depth {
		lo, hi, ok := fractal.EscapeRange(grid)
		if !ok {
			return out
		}
		modifier = Modifier(lo, hi, n, depth)
	}

	fractal.Parallel(len(grid), func(_, from, to int) {
		for i := from; i < to; i++ {
			c := grid[i]
			if !c.Escaped {
				out[i] = palette.Black
				continue
			}
			out[i] = pal[(c.Iteration/modifier)%n]
		}
	})
	return out
}

// Modifier returns the banding divisor that compresses the escape range
// [lo, hi] onto the available colors:
//
//	max(1, (hi - lo) / min(paletteLen, depth))
//
// A degenerate range (lo == hi) gives 1.
func Modifier(lo, hi, paletteLen, depth uint32) uint32 {
	if lo >= hi {
		return 1
	}
	buckets := min(paletteLen, depth)
	if buckets == 0 {
		return 1
	}
	return max(1, (hi-lo)/buckets)
}
