package imaging

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	hudPadding    = 4
	hudLineHeight = 15
)

var (
	hudForeground = color.RGBA{255, 255, 255, 255}
	hudBackground = color.RGBA{0, 0, 0, 180}
)

// Annotate draws lines of text in a translucent box at the top-left of img.
// Text that does not fit is clipped.
func Annotate(img *image.RGBA, lines []string) {
	if len(lines) == 0 {
		return
	}

	face := basicfont.Face7x13
	width := 0
	for _, line := range lines {
		width = max(width, font.MeasureString(face, line).Ceil())
	}
	box := image.Rect(0, 0, width+2*hudPadding, len(lines)*hudLineHeight+2*hudPadding).
		Intersect(img.Bounds())
	draw.Draw(img, box, image.NewUniform(hudBackground), image.Point{}, draw.Over)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(hudForeground),
		Face: face,
	}
	for i, line := range lines {
		d.Dot = fixed.P(hudPadding, hudPadding+face.Ascent+i*hudLineHeight)
		d.DrawString(line)
	}
}
