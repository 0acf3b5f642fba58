// Package fonts registers the bold display font used by the compositor.
// A custom TTF is preferred when present; otherwise the embedded Go Bold
// face is used. A missing font is a degraded-rendering condition, never a
// fatal one.
package fonts

import (
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
)

// fallbackFont is the embedded bold sans used whenever the display font
// cannot be loaded. Parsed once at startup; the TTF is compiled in, so the
// parse cannot fail at runtime.
var fallbackFont = mustParse(gobold.TTF)

func mustParse(ttf []byte) *opentype.Font {
	f, err := opentype.Parse(ttf)
	if err != nil {
		panic(fmt.Sprintf("fonts: embedded fallback font: %v", err))
	}
	return f
}

// Provider hands out faces of the registered display font. Construct one per
// process (see Display) and thread it through the render context.
type Provider struct {
	parsed   *opentype.Font
	fallback bool
}

// NewProvider loads the display font from path. An empty or unreadable path,
// or an unparsable file, switches the provider to the embedded fallback with
// a warning; NewProvider itself never fails.
func NewProvider(path string, log zerolog.Logger) *Provider {
	if path == "" {
		return &Provider{parsed: fallbackFont, fallback: true}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Str("path", path).Err(err).Msg("display font unavailable, using fallback")
		return &Provider{parsed: fallbackFont, fallback: true}
	}

	parsed, err := opentype.Parse(data)
	if err != nil {
		log.Warn().Str("path", path).Err(err).Msg("display font unparsable, using fallback")
		return &Provider{parsed: fallbackFont, fallback: true}
	}

	return &Provider{parsed: parsed}
}

// UsingFallback reports whether the generic bold sans is in use instead of
// the preferred display font.
func (p *Provider) UsingFallback() bool {
	return p.fallback
}

// Face returns a font face at the given point size (72 DPI).
func (p *Provider) Face(size float64) (font.Face, error) {
	face, err := opentype.NewFace(p.parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}
	return face, nil
}

var (
	displayOnce sync.Once
	display     *Provider
)

// Display returns the process-wide display font provider, registering it on
// first call. Safe to call redundantly from concurrent renders; later calls
// ignore their arguments.
func Display(path string, log zerolog.Logger) *Provider {
	displayOnce.Do(func() {
		display = NewProvider(path, log)
	})
	return display
}
