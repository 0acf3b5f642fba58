// Package layout holds the fixed per-format geometry of the two ad formats
// and the aspect-preserving crop math used to fit listing photos into their
// placement rectangles.
package layout

import (
	"fmt"
	"image"
	"image/color"

	"github.com/dubaiimmo/adgen/pkg/markup"
	"github.com/dubaiimmo/adgen/pkg/property"
)

// Brand palette. The blue matches the original campaign background, the
// placeholder gray is used when no listing photo is available.
var (
	BrandBlue   = color.RGBA{R: 0x1a, G: 0x36, B: 0x5d, A: 0xff}
	BrandRed    = color.RGBA{R: 0xe5, G: 0x3e, B: 0x3e, A: 0xff}
	PriceGold   = color.RGBA{R: 0xff, G: 0xd7, B: 0x00, A: 0xff}
	Placeholder = color.RGBA{R: 0xe2, G: 0xe8, B: 0xf0, A: 0xff}
	White       = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// Rule is a decorative solid bar drawn at a fixed position.
type Rule struct {
	Rect  image.Rectangle
	Color color.RGBA
}

// Spec is the resolved geometry for one output format. Specs are value
// types: every call to For returns a fresh copy, so concurrent renders never
// share mutable state.
type Spec struct {
	Format     property.Format
	Width      int
	Height     int
	Background color.RGBA

	// Listing photo placement. The source image is center-cropped to this
	// rectangle's aspect ratio before scaling (see CoverCrop).
	PhotoRect image.Rectangle

	// Caption strip drawn over the lower part of the photo.
	CaptionRect      image.Rectangle
	CaptionTitleSize float64
	CaptionMetaSize  float64
	CaptionMaxLines  int

	Rule      Rule
	BadgeRect image.Rectangle
	QRRect    image.Rectangle

	// Operator text band: left margin, fixed baselines (one per line) and
	// font size. The baseline pitch leaves room for three lines of the
	// configured size without overlap.
	TextX     int
	Baselines [3]int
	FontSize  float64

	// Per-line default colors; highlighted runs are always brand-red.
	LineColors [3]markup.Color
}

// For returns the geometry for a concrete render format. FormatBoth is not a
// render format and is rejected.
func For(f property.Format) (Spec, error) {
	switch f {
	case property.FormatSquare:
		return Spec{
			Format:     property.FormatSquare,
			Width:      1080,
			Height:     1080,
			Background: White,

			PhotoRect: image.Rect(0, 0, 1080, 600),

			CaptionRect:      image.Rect(0, 310, 1080, 600),
			CaptionTitleSize: 44,
			CaptionMetaSize:  30,
			CaptionMaxLines:  2,

			Rule:      Rule{Rect: image.Rect(70, 640, 220, 652), Color: BrandRed},
			BadgeRect: image.Rect(70, 960, 370, 1040),
			QRRect:    image.Rect(850, 850, 1010, 1010),

			TextX:     70,
			Baselines: [3]int{740, 830, 920},
			FontSize:  64,

			LineColors: [3]markup.Color{markup.BrandBlue, markup.BrandBlue, markup.BrandRed},
		}, nil

	case property.FormatStory:
		return Spec{
			Format:     property.FormatStory,
			Width:      1080,
			Height:     1920,
			Background: White,

			PhotoRect: image.Rect(0, 0, 1080, 1150),

			CaptionRect:      image.Rect(0, 840, 1080, 1150),
			CaptionTitleSize: 50,
			CaptionMetaSize:  32,
			CaptionMaxLines:  2,

			Rule:      Rule{Rect: image.Rect(70, 1210, 240, 1224), Color: BrandRed},
			BadgeRect: image.Rect(70, 1700, 410, 1800),
			QRRect:    image.Rect(830, 1670, 1010, 1850),

			TextX:     70,
			Baselines: [3]int{1330, 1450, 1570},
			FontSize:  72,

			LineColors: [3]markup.Color{markup.BrandBlue, markup.BrandBlue, markup.BrandBlue},
		}, nil
	}

	return Spec{}, fmt.Errorf("no layout for format %q", f)
}

// CoverCrop computes the centered source rectangle that matches the target
// aspect ratio. The crop never distorts: if the source is wider than the
// target, its width is reduced to srcH*targetAspect (centered horizontally),
// otherwise its height is reduced to srcW/targetAspect (centered vertically).
func CoverCrop(srcW, srcH, dstW, dstH int) image.Rectangle {
	if srcW <= 0 || srcH <= 0 || dstW <= 0 || dstH <= 0 {
		return image.Rect(0, 0, srcW, srcH)
	}

	sourceAspect := float64(srcW) / float64(srcH)
	targetAspect := float64(dstW) / float64(dstH)

	if sourceAspect > targetAspect {
		cropW := int(float64(srcH) * targetAspect)
		if cropW < 1 {
			cropW = 1
		}
		x0 := (srcW - cropW) / 2
		return image.Rect(x0, 0, x0+cropW, srcH)
	}

	cropH := int(float64(srcW) / targetAspect)
	if cropH < 1 {
		cropH = 1
	}
	y0 := (srcH - cropH) / 2
	return image.Rect(0, y0, srcW, y0+cropH)
}
