// Package config loads deployment settings from the environment, with .env
// file support for local development.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/dubaiimmo/adgen/pkg/markup"
	"github.com/dubaiimmo/adgen/pkg/render"
)

// Config holds every deployment-tunable setting of the generator.
type Config struct {
	Port    string
	BaseURL string

	OutputDir string   // published ads land here
	StateDir  string   // operator override files
	AssetDirs []string // asset resolution candidates, in priority order
	FontPath  string   // bold display TTF; empty uses the embedded fallback

	BadgeStyle render.BadgeStyle
	BrandName  string

	// Default color of the third operator line per format; the engine does
	// not hardcode this choice.
	SquareLine3 markup.Color
	StoryLine3  markup.Color

	PhotoTimeout time.Duration
	LogFile      string // optional rotated log file
}

// Load reads configuration. Missing variables fall back to the documented
// defaults; .env and .env.local are read when present.
func Load() Config {
	_ = godotenv.Load(".env", ".env.local")

	squareLine3, ok := markup.ParseColor(getenv("ADGEN_SQUARE_LINE3_COLOR", "red"))
	if !ok {
		squareLine3 = markup.BrandRed
	}
	storyLine3, ok := markup.ParseColor(getenv("ADGEN_STORY_LINE3_COLOR", "blue"))
	if !ok {
		storyLine3 = markup.BrandBlue
	}

	return Config{
		Port:    getenv("ADGEN_PORT", "3000"),
		BaseURL: getenv("ADGEN_BASE_URL", "http://localhost:3000"),

		OutputDir: getenv("ADGEN_OUTPUT_DIR", "public/generated"),
		StateDir:  getenv("ADGEN_STATE_DIR", "state"),
		AssetDirs: splitList(os.Getenv("ADGEN_ASSET_DIRS")),
		FontPath:  os.Getenv("ADGEN_FONT_PATH"),

		BadgeStyle: render.BadgeStyle(getenv("ADGEN_BADGE_STYLE", string(render.BadgeStatic))),
		BrandName:  getenv("ADGEN_BRAND_NAME", "DUBAI IMMO"),

		SquareLine3: squareLine3,
		StoryLine3:  storyLine3,

		PhotoTimeout: getduration("ADGEN_PHOTO_TIMEOUT", 10*time.Second),
		LogFile:      os.Getenv("ADGEN_LOG_FILE"),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getduration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
