package photo

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/dubaiimmo/adgen/pkg/layout"
)

var captionGray = color.RGBA{R: 0x71, G: 0x80, B: 0x96, A: 0xff}

// newFill creates a uniform placeholder-colored image.
func newFill(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{layout.Placeholder}, image.Point{}, draw.Src)
	return img
}

// drawCenteredCaption draws text centered on both axes.
func drawCenteredCaption(img *image.RGBA, face font.Face, text string) {
	b := img.Bounds()
	width := font.MeasureString(face, text).Ceil()
	metrics := face.Metrics()

	x := b.Min.X + (b.Dx()-width)/2
	y := b.Min.Y + b.Dy()/2 + metrics.Ascent.Ceil()/2

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(captionGray),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
