// adgen — branded real-estate ad generation.
//
// Usage:
//
//	adgen -property <file.json> [-format square|story|both] [options]
//	adgen serve
//	adgen init
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/dubaiimmo/adgen/clients/server"
	"github.com/dubaiimmo/adgen/pkg/assets"
	"github.com/dubaiimmo/adgen/pkg/config"
	"github.com/dubaiimmo/adgen/pkg/fonts"
	"github.com/dubaiimmo/adgen/pkg/generate"
	"github.com/dubaiimmo/adgen/pkg/overrides"
	"github.com/dubaiimmo/adgen/pkg/photo"
	"github.com/dubaiimmo/adgen/pkg/property"
	"github.com/dubaiimmo/adgen/pkg/publish"
	"github.com/dubaiimmo/adgen/pkg/render"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "init":
		if err := runInit(os.Args[2:]); err != nil {
			fatal(err)
		}
	case "serve":
		if err := runServe(os.Args[2:]); err != nil {
			fatal(err)
		}
	case "help", "-h", "--help":
		printUsage()
	default:
		if err := runGenerate(os.Args[1:]); err != nil {
			fatal(err)
		}
	}
}

// newLogger builds the process logger: console output, optionally teeing to
// a size-rotated file.
func newLogger(cfg config.Config) zerolog.Logger {
	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}

	var w io.Writer = console
	if cfg.LogFile != "" {
		w = zerolog.MultiLevelWriter(console, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
		})
	}

	return zerolog.New(w).With().Timestamp().Logger()
}

// newOrchestrator wires the pipeline from configuration.
func newOrchestrator(cfg config.Config, log zerolog.Logger) *generate.Orchestrator {
	resolver := assets.NewResolver(log, cfg.AssetDirs...)
	fp := fonts.Display(cfg.FontPath, log)

	renderer := render.New(resolver, fp, log).
		WithBadge(cfg.BadgeStyle).
		WithBrand(cfg.BrandName)

	photos := photo.NewSource(cfg.PhotoTimeout, fp, log)
	pub := &publish.Local{Dir: cfg.OutputDir, BaseURL: cfg.BaseURL}

	return generate.New(photos, renderer, pub, log).
		WithLine3Colors(cfg.SquareLine3, cfg.StoryLine3)
}

func runGenerate(args []string) error {
	fs := flag.NewFlagSet("adgen", flag.ExitOnError)

	var (
		propertyPath string
		format       string
		line1        string
		line2        string
		line3        string
	)

	fs.StringVar(&propertyPath, "property", "", "Path to a property JSON file")
	fs.StringVar(&format, "format", "both", "Output format: square, story or both")
	fs.StringVar(&line1, "line1", "", "Operator text line 1 (applies to all formats)")
	fs.StringVar(&line2, "line2", "", "Operator text line 2")
	fs.StringVar(&line3, "line3", "", "Operator text line 3")

	fs.Usage = printUsage
	if err := fs.Parse(args); err != nil {
		return err
	}

	if propertyPath == "" {
		printUsage()
		return fmt.Errorf("-property is required")
	}

	data, err := os.ReadFile(propertyPath)
	if err != nil {
		return fmt.Errorf("read property file: %w", err)
	}
	var prop property.PropertyData
	if err := json.Unmarshal(data, &prop); err != nil {
		return fmt.Errorf("parse property file: %w", err)
	}

	cfg := config.Load()
	log := newLogger(cfg)
	orch := newOrchestrator(cfg, log)

	block := &property.TextBlock{Line1: line1, Line2: line2, Line3: line3}
	result, err := orch.Generate(context.Background(), prop, generate.Options{
		Format:     property.Format(format),
		SquareText: block,
		StoryText:  block,
	})
	if err != nil {
		return err
	}

	for _, slot := range []struct {
		ad  *property.GeneratedAd
		err error
	}{
		{result.Square, result.SquareErr},
		{result.Story, result.StoryErr},
	} {
		switch {
		case slot.ad != nil:
			fmt.Printf("Done: %s (%dx%d) %s\n", slot.ad.Filename, slot.ad.Width, slot.ad.Height, slot.ad.URL)
		case slot.err != nil:
			fmt.Fprintf(os.Stderr, "Failed: %v\n", slot.err)
		}
	}

	if result.SquareErr != nil || result.StoryErr != nil {
		return fmt.Errorf("some formats failed")
	}
	return nil
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	var port string
	fs.StringVar(&port, "port", "", "Listen port (overrides ADGEN_PORT)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := config.Load()
	if port != "" {
		cfg.Port = port
	}

	log := newLogger(cfg)
	orch := newOrchestrator(cfg, log)

	store, err := overrides.NewStore(cfg.StateDir, log)
	if err != nil {
		return err
	}
	defer store.Close()

	srv := server.New(cfg, log, orch, store)
	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Msg("adgen server listening")
	return http.ListenAndServe(addr, srv.Router())
}

const sampleJSON = `{
  "title": "Villa luxueuse avec piscine - Dubai Marina",
  "price": "2,500,000 AED",
  "location": "Dubai Marina",
  "type": "Villa",
  "surface": "650",
  "featuredImage": "https://images.unsplash.com/photo-1613977257363-707ba9348227?w=1080&h=720&fit=crop",
  "permalink": "https://dubaiimmo.com/villa-luxueuse-dubai-marina"
}
`

func runInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	var out string
	fs.StringVar(&out, "o", "property.json", "Output path for the sample property")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := os.WriteFile(out, []byte(sampleJSON), 0o644); err != nil {
		return fmt.Errorf("write sample: %w", err)
	}

	fmt.Printf("Created: %s\n", out)
	fmt.Println("Run: adgen -property " + out + " -format both")
	return nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func printUsage() {
	fmt.Print(`adgen — Branded real-estate ad generation

USAGE:
    adgen -property <file.json> [-format square|story|both] [options]
    adgen serve [-port 3000]
    adgen init [-o property.json]

GENERATE MODE:
    -property <path>     Property JSON file (see 'adgen init')
    -format <name>       square, story or both (default: both)
    -line1 <text>        Operator text line 1
    -line2 <text>        Operator text line 2
    -line3 <text>        Operator text line 3

SERVER:
    adgen serve          Start the HTTP API and operator forms

CONFIG (environment, .env supported):
    ADGEN_PORT, ADGEN_BASE_URL, ADGEN_OUTPUT_DIR, ADGEN_STATE_DIR,
    ADGEN_ASSET_DIRS, ADGEN_FONT_PATH, ADGEN_BADGE_STYLE,
    ADGEN_SQUARE_LINE3_COLOR, ADGEN_STORY_LINE3_COLOR,
    ADGEN_PHOTO_TIMEOUT, ADGEN_LOG_FILE

EXAMPLES:
    adgen init
    adgen -property property.json -format story
    adgen -property property.json -line1 "NOUVEAU red:BIEN" -line2 "DUBAI MARINA"
    adgen serve -port 3000
`)
}
