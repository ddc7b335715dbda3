package fractal

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// chunksPerWorker oversubscribes the workers so rows that are expensive
// (deep inside the set) do not leave other CPUs idle at the end.
const chunksPerWorker = 4

// ChunkCount returns how many chunks Parallel splits n items into.
func ChunkCount(n int) int {
	if n <= 0 {
		return 0
	}
	size := chunkSize(n)
	return (n + size - 1) / size
}

func chunkSize(n int) int {
	parts := runtime.GOMAXPROCS(0) * chunksPerWorker
	size := (n + parts - 1) / parts
	if size < 1 {
		size = 1
	}
	return size
}

// Parallel splits [0, n) into ChunkCount(n) contiguous ranges and calls fn
// once per range, running up to GOMAXPROCS calls at a time. It returns after
// every call has finished. chunk is the 0-based index of the range, so
// callers can write per-chunk partial results without locking.
func Parallel(n int, fn func(chunk, lo, hi int)) {
	if n <= 0 {
		return
	}
	size := chunkSize(n)

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for chunk, lo := 0, 0; lo < n; chunk, lo = chunk+1, lo+size {
		chunk, lo := chunk, lo
		hi := min(lo+size, n)
		g.Go(func() error {
			fn(chunk, lo, hi)
			return nil
		})
	}
	_ = g.Wait()
}
