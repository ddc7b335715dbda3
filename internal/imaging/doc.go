// Package imaging turns fractal views into pictures.
//
// It sits between the escape-time core in package fractal and the outside
// world: classification grids are colorized into frames, frames are written
// as PNG snapshots or encoded for transport, and a HUD can be drawn over
// them for interactive use.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y increasing downward. The view center maps to
// pixel (width/2, height/2).
//
// # Colorizing
//
// Bounded points are always black. Escaped points are looked up in the
// view's palette; when the palette does not have exactly one entry per depth
// level, iteration counts are divided by a banding modifier derived from the
// grid's escape range so the visible range spreads across the palette.
//
// # Snapshots
//
// Snapshots go through the Encoder interface. PNGEncoder writes files with
// bild's imgio; tests substitute an in-memory encoder. A failed write is
// reported as a *SnapshotError carrying the path.
//
// # Thread Safety
//
// GridCache is safe for concurrent use. Renderer holds no mutable state of
// its own, but the *fractal.View passed to it must not be modified during a
// render.
package imaging
