package imaging

import (
	"fmt"
	"sync"

	"github.com/zeromicro/go-zero/core/syncx"

	"github.com/ironsheep/mandel-mcp/internal/fractal"
)

// DefaultCacheSize is the number of grids a GridCache keeps when no limit is
// given.
const DefaultCacheSize = 8

// GridCache keeps recently computed classification grids so that repeated
// renders of an unchanged view skip the escape-time pass.
//
// Grids are keyed by the geometry that produced them (center, step size and
// depth) plus the output shape. Palette changes do not affect classification,
// so recoloring a cached view is cheap.
//
// GridCache is safe for concurrent use. Concurrent misses on the same key
// share a single computation.
//
// # Memory Management
//
// At most limit grids are retained; the oldest entry is dropped when a new
// one is stored. Evict and Clear release entries early.
//
// # Example Usage
//
//	cache := imaging.NewGridCache(4)
//	grid := cache.Sample(view.Geometry(), 800, 600)
//	// grid is shared: treat it as read-only
type GridCache struct {
	mu     sync.RWMutex
	grids  map[string][]fractal.Classification
	order  []string
	limit  int
	flight syncx.SingleFlight
}

// NewGridCache creates an empty cache holding at most limit grids.
// A limit below 1 selects DefaultCacheSize.
func NewGridCache(limit int) *GridCache {
	if limit < 1 {
		limit = DefaultCacheSize
	}
	return &GridCache{
		grids:  make(map[string][]fractal.Classification),
		limit:  limit,
		flight: syncx.NewSingleFlight(),
	}
}

func gridKey(g fractal.Geometry, width, height int) string {
	return fmt.Sprintf("%v|%v|%v|%d|%dx%d", real(g.Center), imag(g.Center), g.Step, g.Depth, width, height)
}

// Sample returns the classification grid for g at width x height, computing
// and storing it on a miss. The returned slice is shared between callers.
func (c *GridCache) Sample(g fractal.Geometry, width, height int) []fractal.Classification {
	key := gridKey(g, width, height)

	c.mu.RLock()
	if grid, ok := c.grids[key]; ok {
		c.mu.RUnlock()
		return grid
	}
	c.mu.RUnlock()

	val, _ := c.flight.Do(key, func() (any, error) {
		grid := fractal.Sample(g, width, height)
		c.store(key, grid)
		return grid, nil
	})
	return val.([]fractal.Classification)
}

func (c *GridCache) store(key string, grid []fractal.Classification) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.grids[key]; ok {
		return
	}
	for len(c.order) >= c.limit {
		delete(c.grids, c.order[0])
		c.order = c.order[1:]
	}
	c.grids[key] = grid
	c.order = append(c.order, key)
}

// Len reports how many grids are cached.
func (c *GridCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.grids)
}

// Evict drops the grid for g at width x height, if present.
func (c *GridCache) Evict(g fractal.Geometry, width, height int) {
	key := gridKey(g, width, height)

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.grids[key]; !ok {
		return
	}
	delete(c.grids, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Clear removes every cached grid.
func (c *GridCache) Clear() {
	c.mu.Lock()
	c.grids = make(map[string][]fractal.Classification)
	c.order = nil
	c.mu.Unlock()
}
