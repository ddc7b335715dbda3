package imaging

import (
	"errors"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/anthonynsimon/bild/imgio"

	"github.com/ironsheep/mandel-mcp/internal/fractal"
)

// Encoder writes a packed RGB buffer to path.
type Encoder interface {
	Encode(path string, rgb []byte, width, height int) error
}

// PNGEncoder writes PNG files. When Dir is set, paths are resolved against
// it, must stay inside it, and the directory is created on first use.
type PNGEncoder struct {
	Dir string
}

// ErrOutsideDir is returned for a path that would leave PNGEncoder.Dir.
var ErrOutsideDir = errors.New("path escapes the output directory")

// Encode implements Encoder.
func (e PNGEncoder) Encode(path string, rgb []byte, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid image size %dx%d", width, height)
	}
	if len(rgb) != width*height*3 {
		return fmt.Errorf("buffer holds %d bytes, want %d for %dx%d", len(rgb), width*height*3, width, height)
	}

	if e.Dir != "" {
		if !filepath.IsLocal(path) {
			return fmt.Errorf("%w: %q", ErrOutsideDir, path)
		}
		if err := os.MkdirAll(e.Dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		path = filepath.Join(e.Dir, path)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < width*height; i++ {
		img.Pix[i*4+0] = rgb[i*3+0]
		img.Pix[i*4+1] = rgb[i*3+1]
		img.Pix[i*4+2] = rgb[i*3+2]
		img.Pix[i*4+3] = 0xff
	}

	if err := imgio.Save(path, img, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("failed to save png: %w", err)
	}
	return nil
}

// TimestampLayout names snapshots after the moment they were taken.
const TimestampLayout = "20060102_150405"

// TimestampName returns the snapshot base name for t.
func TimestampName(t time.Time) string {
	return t.Format(TimestampLayout)
}

// SnapshotError reports a snapshot that could not be written.
type SnapshotError struct {
	Path string
	Err  error
}

func (e *SnapshotError) Error() string {
	return fmt.Sprintf("snapshot %s: %v", e.Path, e.Err)
}

func (e *SnapshotError) Unwrap() error { return e.Err }

// Snapshot renders v at width x height and writes it to base + ".png".
func (r *Renderer) Snapshot(v *fractal.View, base string, width, height int) error {
	return r.WriteFrame(r.Render(v, width, height), base)
}

// WriteFrame writes an already rendered frame to base + ".png".
func (r *Renderer) WriteFrame(f *Frame, base string) error {
	path := base + ".png"
	if err := r.encoder().Encode(path, f.RGB(), f.Width, f.Height); err != nil {
		return &SnapshotError{Path: path, Err: err}
	}
	return nil
}

// SnapshotSequence writes count frames named prefix000000, prefix000001, ...
// multiplying the step size by zoom after each one. It stops at the first
// failure and reports how many frames were written; those stay on disk.
func (r *Renderer) SnapshotSequence(v *fractal.View, count, width, height int, zoom float64, prefix string) (int, error) {
	if count < 0 {
		return 0, fmt.Errorf("invalid frame count %d", count)
	}
	for i := 0; i < count; i++ {
		if err := r.Snapshot(v, fmt.Sprintf("%s%06d", prefix, i), width, height); err != nil {
			return i, err
		}
		if err := v.Zoom(zoom); err != nil {
			return i + 1, fmt.Errorf("frame %d: %w", i, err)
		}
		if (i+1)%10 == 0 {
			log.Printf("Sequence progress: %d/%d frames", i+1, count)
		}
	}
	return count, nil
}

// Snapshot renders v with the default renderer and writes a PNG.
func Snapshot(v *fractal.View, base string, width, height int) error {
	var r Renderer
	return r.Snapshot(v, base, width, height)
}
