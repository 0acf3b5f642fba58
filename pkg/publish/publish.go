// Package publish hands finished ad bytes to an asset store. The store
// itself is an external collaborator reached through the narrow Publisher
// interface; the filesystem implementation here mirrors the deployment's
// public/generated directory served by the HTTP surface.
package publish

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"
)

// Asset describes one published ad.
type Asset struct {
	URL    string
	Width  int
	Height int
}

// Publisher uploads ad bytes and returns their public location.
type Publisher interface {
	Upload(ctx context.Context, data []byte, filename string) (Asset, error)
}

// Local writes ads under Dir and serves them at BaseURL/generated/.
type Local struct {
	Dir     string
	BaseURL string
}

// Upload writes the PNG to disk and returns its served URL and dimensions.
func (l *Local) Upload(ctx context.Context, data []byte, filename string) (Asset, error) {
	if err := ctx.Err(); err != nil {
		return Asset{}, err
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Asset{}, fmt.Errorf("inspect %s: %w", filename, err)
	}

	if err := os.MkdirAll(l.Dir, 0o755); err != nil {
		return Asset{}, fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(l.Dir, filename), data, 0o644); err != nil {
		return Asset{}, fmt.Errorf("write %s: %w", filename, err)
	}

	return Asset{
		URL:    strings.TrimRight(l.BaseURL, "/") + "/generated/" + filename,
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}
