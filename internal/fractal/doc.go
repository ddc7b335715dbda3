// Package fractal implements the Mandelbrot escape-time engine: point
// classification, parallel sampling of a view, the mutable view state the
// drivers navigate with, and the entropy score used for unattended search.
//
// # Coordinate System
//
// A view maps integer pixel offsets from the image center to the complex
// plane:
//
//	point(dx, dy) = center + step * (dx + i*dy)
//
// For an image of width w, column x has dx = x - w/2; rows work the same way.
// Imaginary values grow downward, matching image row order.
//
// # Concurrency
//
// Evaluate is pure. Sample and SampleCoarse fan out over all available CPUs
// with no shared mutable state and return only after every point has been
// classified. View is not safe for concurrent mutation; each driver owns its
// own instance.
//
// # Precision
//
// Arithmetic is float64 throughout. Zooming far enough makes neighbouring
// pixels round to the same plane coordinate; AtPrecisionLimit reports this
// but nothing prevents it.
package fractal
