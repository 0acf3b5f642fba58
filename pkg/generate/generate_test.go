package generate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/dubaiimmo/adgen/pkg/assets"
	"github.com/dubaiimmo/adgen/pkg/fonts"
	"github.com/dubaiimmo/adgen/pkg/photo"
	"github.com/dubaiimmo/adgen/pkg/property"
	"github.com/dubaiimmo/adgen/pkg/publish"
	"github.com/dubaiimmo/adgen/pkg/render"
)

var testProperty = property.PropertyData{
	Title:    "Villa Marina",
	Price:    "2,500,000 AED",
	Location: "Dubai Marina",
	Type:     "Villa",
	Surface:  "650",
}

// memPublisher records uploads in memory, optionally failing per format.
type memPublisher struct {
	mu       sync.Mutex
	uploads  map[string][]byte
	failWhen func(filename string) error
}

func newMemPublisher() *memPublisher {
	return &memPublisher{uploads: make(map[string][]byte)}
}

func (p *memPublisher) Upload(ctx context.Context, data []byte, filename string) (publish.Asset, error) {
	if p.failWhen != nil {
		if err := p.failWhen(filename); err != nil {
			return publish.Asset{}, err
		}
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return publish.Asset{}, err
	}
	p.mu.Lock()
	p.uploads[filename] = data
	p.mu.Unlock()
	return publish.Asset{
		URL:    "https://cdn.example.com/" + filename,
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}

func testOrchestrator(t *testing.T, pub publish.Publisher) *Orchestrator {
	t.Helper()
	log := zerolog.Nop()
	fp := fonts.NewProvider("", log)
	renderer := render.New(assets.NewResolver(log, t.TempDir()), fp, log)
	photos := photo.NewSource(time.Second, fp, log)

	o := New(photos, renderer, pub, log)
	o.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return o
}

func TestGenerateSquareOnly(t *testing.T) {
	o := testOrchestrator(t, newMemPublisher())

	result, err := o.Generate(context.Background(), testProperty, Options{Format: property.FormatSquare})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if result.Square == nil {
		t.Fatal("square slot is nil")
	}
	if result.Story != nil {
		t.Errorf("story slot populated for a square-only request: %+v", result.Story)
	}
	if result.Square.Width != 1080 || result.Square.Height != 1080 {
		t.Errorf("square ad %dx%d, want 1080x1080", result.Square.Width, result.Square.Height)
	}
}

func TestGenerateStoryEndToEnd(t *testing.T) {
	// featuredImage empty: the render must still complete with the
	// placeholder standing in for the photo.
	pub := newMemPublisher()
	o := testOrchestrator(t, pub)

	result, err := o.Generate(context.Background(), testProperty, Options{Format: property.FormatStory})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if result.Square != nil {
		t.Error("square slot populated for a story-only request")
	}
	ad := result.Story
	if ad == nil {
		t.Fatal("story slot is nil")
	}
	if ad.Width != 1080 || ad.Height != 1920 {
		t.Errorf("story ad %dx%d, want 1080x1920", ad.Width, ad.Height)
	}

	if match, _ := regexp.MatchString(`^villa-marina-story-\d+\.png$`, ad.Filename); !match {
		t.Errorf("filename %q does not match villa-marina-story-<digits>.png", ad.Filename)
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(ad.Bytes))
	if err != nil {
		t.Fatalf("published bytes are not a PNG: %v", err)
	}
	if cfg.Width != 1080 || cfg.Height != 1920 {
		t.Errorf("encoded image %dx%d, want 1080x1920", cfg.Width, cfg.Height)
	}

	if _, ok := pub.uploads[ad.Filename]; !ok {
		t.Error("ad was not handed to the publisher")
	}
	if ad.URL == "" {
		t.Error("ad URL not populated from the publisher")
	}
}

func TestGenerateBoth(t *testing.T) {
	o := testOrchestrator(t, newMemPublisher())

	result, err := o.Generate(context.Background(), testProperty, Options{Format: property.FormatBoth})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.Square == nil || result.Story == nil {
		t.Fatalf("both formats requested, got square=%v story=%v", result.Square != nil, result.Story != nil)
	}
}

func TestGenerateInvalidFormat(t *testing.T) {
	o := testOrchestrator(t, newMemPublisher())

	for _, f := range []property.Format{"", "poster", "SQUARE"} {
		_, err := o.Generate(context.Background(), testProperty, Options{Format: f})
		if !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("Generate(format=%q): error %v, want ErrInvalidFormat", f, err)
		}
	}
}

func TestGeneratePartialUploadFailure(t *testing.T) {
	pub := newMemPublisher()
	pub.failWhen = func(filename string) error {
		if strings.Contains(filename, "-story-") {
			return fmt.Errorf("cdn unavailable")
		}
		return nil
	}
	o := testOrchestrator(t, pub)

	result, err := o.Generate(context.Background(), testProperty, Options{Format: property.FormatBoth})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if result.Square == nil || result.SquareErr != nil {
		t.Errorf("square should succeed: ad=%v err=%v", result.Square != nil, result.SquareErr)
	}
	if result.Story != nil {
		t.Error("failed story upload must not populate the ad slot")
	}

	var uploadErr *UploadError
	if !errors.As(result.StoryErr, &uploadErr) {
		t.Fatalf("story error %v, want *UploadError", result.StoryErr)
	}
	if uploadErr.Format != property.FormatStory {
		t.Errorf("UploadError.Format = %q, want story", uploadErr.Format)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	o := testOrchestrator(t, newMemPublisher())
	opts := Options{
		Format:     property.FormatSquare,
		SquareText: &property.TextBlock{Line1: "nouveau [[bien]]", Line2: "dubai marina"},
	}

	a, err := o.Generate(context.Background(), testProperty, opts)
	if err != nil {
		t.Fatal(err)
	}
	b, err := o.Generate(context.Background(), testProperty, opts)
	if err != nil {
		t.Fatal(err)
	}

	if a.Square.Filename != b.Square.Filename {
		t.Errorf("filenames differ under a fixed clock: %q vs %q", a.Square.Filename, b.Square.Filename)
	}
	if !bytes.Equal(a.Square.Bytes, b.Square.Bytes) {
		t.Error("two generations of identical inputs produced different bytes")
	}
}

func TestRenderPreview(t *testing.T) {
	o := testOrchestrator(t, newMemPublisher())

	data, err := o.RenderPreview(context.Background(), testProperty, property.FormatSquare, property.TextBlock{Line1: "apercu"})
	if err != nil {
		t.Fatalf("RenderPreview: %v", err)
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("preview is not a PNG: %v", err)
	}
	if cfg.Width != 1080 || cfg.Height != 1080 {
		t.Errorf("preview %dx%d, want 1080x1080", cfg.Width, cfg.Height)
	}

	if _, err := o.RenderPreview(context.Background(), testProperty, property.FormatBoth, property.TextBlock{}); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("RenderPreview(both): error %v, want ErrInvalidFormat", err)
	}
}
