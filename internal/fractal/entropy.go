package fractal

import (
	"math"
	"slices"
)

// Histogram counts classifications by Bucket.
func Histogram(grid []Classification) map[uint32]int {
	hist := make(map[uint32]int)
	for _, c := range grid {
		hist[c.Bucket()]++
	}
	return hist
}

// Entropy returns the Shannon entropy in bits of the distribution described
// by hist. Empty buckets are skipped; an empty histogram scores 0.
//
// Buckets are summed in key order so the result does not depend on map
// iteration order.
func Entropy(hist map[uint32]int) float64 {
	total := 0
	keys := make([]uint32, 0, len(hist))
	for k, n := range hist {
		if n <= 0 {
			continue
		}
		total += n
		keys = append(keys, k)
	}
	if total == 0 {
		return 0
	}
	slices.Sort(keys)

	var h float64
	for _, k := range keys {
		p := float64(hist[k]) / float64(total)
		h -= p * math.Log2(p)
	}
	return h
}

// EstimateEntropy scores how visually varied a width x height render of g
// would be, from a coarse sample of it.
func EstimateEntropy(g Geometry, width, height int) float64 {
	return Entropy(Histogram(SampleCoarse(g, width, height)))
}
