// Package generate drives the ad pipeline: photo fetch, layout, render,
// publish. One Generate call is one synchronous request; the two formats of
// a "both" request render in parallel on independent canvases.
package generate

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dubaiimmo/adgen/pkg/layout"
	"github.com/dubaiimmo/adgen/pkg/markup"
	"github.com/dubaiimmo/adgen/pkg/photo"
	"github.com/dubaiimmo/adgen/pkg/property"
	"github.com/dubaiimmo/adgen/pkg/publish"
	"github.com/dubaiimmo/adgen/pkg/render"
)

// ErrInvalidFormat rejects a call that names no valid output format.
var ErrInvalidFormat = errors.New("invalid format requested")

// UploadError marks a format whose render succeeded but whose publish step
// failed. It is fatal for that format only.
type UploadError struct {
	Format property.Format
	Err    error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s ad: %v", e.Format, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// Options selects the formats to render and the operator text per format.
// Nil text blocks mean "no operator text".
type Options struct {
	Format     property.Format
	SquareText *property.TextBlock
	StoryText  *property.TextBlock
}

// Result holds one slot per format. An unrequested format leaves both the ad
// and the error nil; a failed publish populates the error instead of the ad.
// Partial success is a normal outcome.
type Result struct {
	Square    *property.GeneratedAd `json:"square,omitempty"`
	Story     *property.GeneratedAd `json:"story,omitempty"`
	SquareErr error                 `json:"-"`
	StoryErr  error                 `json:"-"`
}

// Orchestrator wires the pipeline stages together.
type Orchestrator struct {
	photos   *photo.Source
	renderer *render.Renderer
	pub      publish.Publisher
	log      zerolog.Logger

	// Deployment choice for line 3's default color per format (the first two
	// lines always default to brand-blue).
	squareLine3 markup.Color
	storyLine3  markup.Color

	now func() time.Time
}

// New creates an orchestrator. Defaults: square line 3 brand-red, story
// line 3 brand-blue.
func New(photos *photo.Source, renderer *render.Renderer, pub publish.Publisher, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		photos:      photos,
		renderer:    renderer,
		pub:         pub,
		log:         log,
		squareLine3: markup.BrandRed,
		storyLine3:  markup.BrandBlue,
		now:         time.Now,
	}
}

// WithLine3Colors overrides the per-format default color of the third
// operator line.
func (o *Orchestrator) WithLine3Colors(square, story markup.Color) *Orchestrator {
	o.squareLine3 = square
	o.storyLine3 = story
	return o
}

// Generate renders and publishes every requested format. The listing photo
// is fetched once and shared across formats. The only call-level failure is
// an invalid format request; per-format publish failures land in the result.
func (o *Orchestrator) Generate(ctx context.Context, prop property.PropertyData, opts Options) (Result, error) {
	formats := opts.Format.Each()
	if !opts.Format.Valid() || len(formats) == 0 {
		return Result{}, fmt.Errorf("%w: %q", ErrInvalidFormat, opts.Format)
	}

	o.log.Info().Str("title", prop.Title).Str("format", string(opts.Format)).Msg("generating ads")

	photoImg := o.photos.Fetch(ctx, prop.FeaturedImageURL)
	stamp := strconv.FormatInt(o.now().UnixMilli(), 10)

	var (
		result Result
		mu     sync.Mutex
		wg     sync.WaitGroup
	)

	for _, f := range formats {
		wg.Add(1)
		go func(f property.Format) {
			defer wg.Done()

			ad, err := o.renderOne(ctx, prop, opts, f, photoImg, stamp)

			mu.Lock()
			defer mu.Unlock()
			switch f {
			case property.FormatSquare:
				result.Square, result.SquareErr = ad, err
			case property.FormatStory:
				result.Story, result.StoryErr = ad, err
			}
		}(f)
	}
	wg.Wait()

	return result, nil
}

// renderOne produces and publishes a single format.
func (o *Orchestrator) renderOne(ctx context.Context, prop property.PropertyData, opts Options, f property.Format, photoImg image.Image, stamp string) (*property.GeneratedAd, error) {
	spec, err := layout.For(f)
	if err != nil {
		return nil, err
	}

	var block property.TextBlock
	switch f {
	case property.FormatSquare:
		spec.LineColors[2] = o.squareLine3
		if opts.SquareText != nil {
			block = *opts.SquareText
		}
	case property.FormatStory:
		spec.LineColors[2] = o.storyLine3
		if opts.StoryText != nil {
			block = *opts.StoryText
		}
	}

	img, err := o.renderer.Render(prop, block, spec, photoImg)
	if err != nil {
		return nil, fmt.Errorf("render %s ad: %w", f, err)
	}

	data, err := render.EncodePNG(img)
	if err != nil {
		return nil, fmt.Errorf("encode %s ad: %w", f, err)
	}

	filename := fmt.Sprintf("%s-%s-%s.png", Slug(prop.Title), f, stamp)

	asset, err := o.pub.Upload(ctx, data, filename)
	if err != nil {
		o.log.Error().Str("format", string(f)).Err(err).Msg("publish failed")
		return nil, &UploadError{Format: f, Err: err}
	}

	o.log.Info().Str("format", string(f)).Str("url", asset.URL).Msg("ad published")

	return &property.GeneratedAd{
		Format:   f,
		Width:    spec.Width,
		Height:   spec.Height,
		Filename: filename,
		URL:      asset.URL,
		Bytes:    data,
	}, nil
}

// RenderPreview renders one format with the given operator text and returns
// the PNG bytes without publishing. Used by the HTTP preview endpoint.
func (o *Orchestrator) RenderPreview(ctx context.Context, prop property.PropertyData, f property.Format, block property.TextBlock) ([]byte, error) {
	spec, err := layout.For(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, f)
	}

	switch f {
	case property.FormatSquare:
		spec.LineColors[2] = o.squareLine3
	case property.FormatStory:
		spec.LineColors[2] = o.storyLine3
	}

	img, err := o.renderer.Render(prop, block, spec, o.photos.Fetch(ctx, prop.FeaturedImageURL))
	if err != nil {
		return nil, err
	}
	return render.EncodePNG(img)
}
