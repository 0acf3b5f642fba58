// Package render composites one ad image from its layout spec, listing data
// and operator text. Drawing happens in a fixed z-order: background, cropped
// listing photo, caption strip, decorative rule, badge, QR code, operator
// text runs. Missing decorative assets degrade that element only; the render
// itself always completes.
package render

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
	"golang.org/x/image/font"

	"github.com/dubaiimmo/adgen/pkg/assets"
	"github.com/dubaiimmo/adgen/pkg/fonts"
	"github.com/dubaiimmo/adgen/pkg/layout"
	"github.com/dubaiimmo/adgen/pkg/markup"
	"github.com/dubaiimmo/adgen/pkg/property"
)

// BadgeStyle selects how the brand block is composited.
type BadgeStyle string

const (
	// BadgeStatic draws the text-block.png asset at its fixed rectangle.
	BadgeStatic BadgeStyle = "static"
	// BadgeCartouche draws a measured brand-name box instead of the asset.
	BadgeCartouche BadgeStyle = "cartouche"
)

// Caption strip colors (over-photo overlay).
var (
	scrimColor   = color.RGBA{A: 0xbe}
	typeColor    = color.RGBA{R: 0x4f, G: 0xc3, B: 0xf7, A: 0xff}
	titleColor   = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	metaColor    = color.RGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff}
	captionInset = 40
)

// Renderer draws ads. One renderer serves concurrent renders: it holds no
// per-render state, every call owns its own canvas.
type Renderer struct {
	assets *assets.Resolver
	fonts  *fonts.Provider
	log    zerolog.Logger

	badge BadgeStyle
	brand string
}

// New creates a renderer with the default static badge.
func New(res *assets.Resolver, fp *fonts.Provider, log zerolog.Logger) *Renderer {
	return &Renderer{
		assets: res,
		fonts:  fp,
		log:    log,
		badge:  BadgeStatic,
		brand:  "DUBAI IMMO",
	}
}

// WithBadge sets the badge style. Unknown values keep the default.
func (r *Renderer) WithBadge(style BadgeStyle) *Renderer {
	if style == BadgeStatic || style == BadgeCartouche {
		r.badge = style
	}
	return r
}

// WithBrand sets the brand name used by the cartouche badge.
func (r *Renderer) WithBrand(name string) *Renderer {
	if name != "" {
		r.brand = name
	}
	return r
}

// Render composites one ad. photoImg is the already-fetched listing photo
// (or placeholder); block holds the operator text lines for this format.
func (r *Renderer) Render(prop property.PropertyData, block property.TextBlock, spec layout.Spec, photoImg image.Image) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, spec.Width, spec.Height))

	// 1. Background.
	draw.Draw(img, img.Bounds(), &image.Uniform{spec.Background}, image.Point{}, draw.Src)

	// 2. Listing photo, center-cropped to the placement aspect ratio.
	r.drawPhoto(img, photoImg, spec.PhotoRect)

	// 3. Caption strip over the photo.
	if err := r.drawCaption(img, prop, spec); err != nil {
		return nil, err
	}

	// 4. Decorative rule.
	draw.Draw(img, spec.Rule.Rect, &image.Uniform{spec.Rule.Color}, image.Point{}, draw.Src)

	// 5. Brand badge.
	r.drawBadge(img, spec)

	// 6. QR code.
	r.drawQR(img, prop.Permalink, spec.QRRect)

	// 7. Operator text lines.
	if err := r.drawOperatorLines(img, block, spec); err != nil {
		return nil, err
	}

	return img, nil
}

// drawPhoto crops src to the placement aspect ratio, scales it, and pastes
// it into rect.
func (r *Renderer) drawPhoto(dst *image.RGBA, src image.Image, rect image.Rectangle) {
	b := src.Bounds()
	crop := layout.CoverCrop(b.Dx(), b.Dy(), rect.Dx(), rect.Dy())

	cropped := imaging.Crop(src, crop.Add(b.Min))
	scaled := imaging.Resize(cropped, rect.Dx(), rect.Dy(), imaging.Lanczos)

	draw.Draw(dst, rect, scaled, image.Point{}, draw.Src)
}

// drawCaption renders the property info strip: type, wrapped title,
// location, price. Drawn over a translucent scrim so it stays readable on
// any photo. Everything stays inside CaptionRect: the location and price
// anchor to the strip's bottom edge, and title lines that would run into
// them are dropped.
func (r *Renderer) drawCaption(dst *image.RGBA, prop property.PropertyData, spec layout.Spec) error {
	draw.Draw(dst, spec.CaptionRect, &image.Uniform{scrimColor}, image.Point{}, draw.Over)

	titleFace, err := r.face(spec.CaptionTitleSize)
	if err != nil {
		return err
	}
	defer titleFace.Close()

	metaFace, err := r.face(spec.CaptionMetaSize)
	if err != nil {
		return err
	}
	defer metaFace.Close()

	x := spec.CaptionRect.Min.X + captionInset
	maxWidth := spec.CaptionRect.Dx() - 2*captionInset

	metaPitch := int(spec.CaptionMetaSize * 1.3)
	titlePitch := int(spec.CaptionTitleSize * 1.2)

	bottom := spec.CaptionRect.Max.Y - captionInset/2
	if prop.Price != "" {
		drawString(dst, metaFace, prop.Price, x, bottom, layout.PriceGold)
		bottom -= metaPitch
	}
	if prop.Location != "" {
		drawString(dst, metaFace, prop.Location, x, bottom, metaColor)
		bottom -= metaPitch
	}

	y := spec.CaptionRect.Min.Y + captionInset
	if prop.Type != "" {
		y += metaPitch
		drawString(dst, metaFace, strings.ToUpper(prop.Type), x, y, typeColor)
	}

	lines := wrapText(prop.Title, maxWidth, titleFace, spec.CaptionMaxLines)
	for _, line := range lines {
		y += titlePitch
		if y > bottom {
			break
		}
		drawString(dst, titleFace, line, x, y, titleColor)
	}

	return nil
}

// drawBadge composites the brand block. A missing badge asset downgrades the
// static style to the drawn cartouche.
func (r *Renderer) drawBadge(dst *image.RGBA, spec layout.Spec) {
	if r.badge == BadgeStatic {
		data, err := r.assets.Resolve(assets.BadgeAsset)
		if err == nil {
			badge, decErr := imaging.Decode(bytes.NewReader(data))
			if decErr == nil {
				scaled := imaging.Resize(badge, spec.BadgeRect.Dx(), spec.BadgeRect.Dy(), imaging.Lanczos)
				draw.Draw(dst, spec.BadgeRect, scaled, image.Point{}, draw.Over)
				return
			}
			r.log.Warn().Err(decErr).Msg("badge asset undecodable, drawing cartouche")
		} else {
			var missing *assets.AssetMissing
			if errors.As(err, &missing) {
				r.log.Warn().Str("asset", assets.BadgeAsset).Msg("badge asset missing, drawing cartouche")
			} else {
				r.log.Warn().Err(err).Msg("badge asset unreadable, drawing cartouche")
			}
		}
	}

	r.drawCartouche(dst, spec)
}

// drawCartouche draws a brand-blue box sized to the measured brand name.
func (r *Renderer) drawCartouche(dst *image.RGBA, spec layout.Spec) {
	size := float64(spec.BadgeRect.Dy()) * 0.45
	face, err := r.face(size)
	if err != nil {
		r.log.Warn().Err(err).Msg("cartouche face unavailable, skipping badge")
		return
	}
	defer face.Close()

	pad := spec.BadgeRect.Dy() / 3
	width := measure(face, r.brand) + 2*pad
	box := image.Rect(
		spec.BadgeRect.Min.X,
		spec.BadgeRect.Min.Y,
		spec.BadgeRect.Min.X+width,
		spec.BadgeRect.Max.Y,
	)

	draw.Draw(dst, box, &image.Uniform{layout.BrandBlue}, image.Point{}, draw.Src)

	baseline := box.Min.Y + box.Dy()/2 + face.Metrics().Ascent.Ceil()/2
	drawString(dst, face, r.brand, box.Min.X+pad, baseline, titleColor)
}

// drawQR composites the QR element, skipping with a warning when neither the
// static asset nor a generated code is available.
func (r *Renderer) drawQR(dst *image.RGBA, permalink string, rect image.Rectangle) {
	data, err := r.assets.QRCode(permalink, rect.Dx())
	if err != nil {
		r.log.Warn().Err(err).Msg("qr unavailable, skipping")
		return
	}

	qr, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		r.log.Warn().Err(err).Msg("qr undecodable, skipping")
		return
	}

	scaled := imaging.Resize(qr, rect.Dx(), rect.Dy(), imaging.Lanczos)
	draw.Draw(dst, rect, scaled, image.Point{}, draw.Over)
}

// drawOperatorLines renders the up-to-three override lines. Each line is
// upper-cased, parsed for highlight markup, and its runs drawn left to right
// with the cursor advanced by the measured width of the previous run. Empty
// lines render nothing.
func (r *Renderer) drawOperatorLines(dst *image.RGBA, block property.TextBlock, spec layout.Spec) error {
	face, err := r.face(spec.FontSize)
	if err != nil {
		return err
	}
	defer face.Close()

	for i, raw := range block.Lines() {
		if strings.TrimSpace(raw) == "" {
			continue
		}

		runs := markup.ParseLine(strings.ToUpper(raw), spec.LineColors[i])
		x := spec.TextX
		for _, run := range runs {
			drawString(dst, face, run.Text, x, spec.Baselines[i], runColor(run.Color))
			x += measure(face, run.Text)
		}
	}

	return nil
}

// face wraps the font provider, noting degraded rendering once per draw.
func (r *Renderer) face(size float64) (font.Face, error) {
	if r.fonts.UsingFallback() {
		r.log.Debug().Msg("display font unavailable, rendering with fallback family")
	}
	return r.fonts.Face(size)
}

func runColor(c markup.Color) color.RGBA {
	if c == markup.BrandRed {
		return layout.BrandRed
	}
	return layout.BrandBlue
}
