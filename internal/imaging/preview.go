package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// PreviewResult contains an encoded render.
type PreviewResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodePNG encodes img as PNG, scaled by scale when it is positive and not 1.
func EncodePNG(img image.Image, scale float64) ([]byte, image.Rectangle, error) {
	if scale != 1.0 && scale > 0 {
		w := max(1, int(float64(img.Bounds().Dx())*scale))
		h := max(1, int(float64(img.Bounds().Dy())*scale))
		img = imaging.Resize(img, w, h, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, image.Rectangle{}, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), img.Bounds(), nil
}

// Preview encodes img as a base64 PNG for inline transport.
func Preview(img image.Image, scale float64) (*PreviewResult, error) {
	data, bounds, err := EncodePNG(img, scale)
	if err != nil {
		return nil, err
	}
	return &PreviewResult{
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(data),
		MimeType:    "image/png",
	}, nil
}
