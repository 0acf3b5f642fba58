// Package assets locates the static binary assets used by the compositor
// (QR code, brand text-block badge, display font) across a small set of
// candidate directories. A missing asset is a typed, recoverable condition:
// callers skip the element instead of failing the render.
package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// Well-known asset names.
const (
	QRCodeAsset = "qr-code.png"
	BadgeAsset  = "text-block.png"
)

// AssetMissing reports that no candidate directory holds the named asset.
type AssetMissing struct {
	Name string
}

func (e *AssetMissing) Error() string {
	return fmt.Sprintf("asset missing: %s", e.Name)
}

// Resolver resolves asset names against an ordered list of base directories
// and caches file bytes for the process lifetime (assets are read-only).
type Resolver struct {
	dirs []string
	log  zerolog.Logger

	mu    sync.RWMutex
	cache map[string][]byte
}

// NewResolver creates a resolver over the given candidate directories, tried
// in order. With no directories it falls back to the deployment defaults:
// the working directory, its public/ subdirectory, and the directory of the
// running binary.
func NewResolver(log zerolog.Logger, dirs ...string) *Resolver {
	if len(dirs) == 0 {
		dirs = DefaultDirs()
	}
	return &Resolver{
		dirs:  dirs,
		log:   log,
		cache: make(map[string][]byte),
	}
}

// DefaultDirs returns the standard candidate directories in priority order.
func DefaultDirs() []string {
	dirs := []string{".", "public"}
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}
	return dirs
}

// Resolve returns the bytes of the first existing candidate file for name.
// Returns *AssetMissing when no candidate exists.
func (r *Resolver) Resolve(name string) ([]byte, error) {
	r.mu.RLock()
	data, ok := r.cache[name]
	r.mu.RUnlock()
	if ok {
		return data, nil
	}

	for _, dir := range r.dirs {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		r.mu.Lock()
		r.cache[name] = data
		r.mu.Unlock()
		return data, nil
	}

	return nil, &AssetMissing{Name: name}
}
