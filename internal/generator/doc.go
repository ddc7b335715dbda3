// Package generator searches the Mandelbrot set unattended.
//
// Each cycle picks a random center in [-2, 2) x [-2, 2), a random step size
// and a random ranged-continuous palette, then scores the view by the entropy
// of a coarse sample. Views scoring above the threshold are saved as PNG
// snapshots named after the current time. Failures are logged and the search
// continues.
package generator
