// Package overrides persists the operator's per-format text lines. Each
// format is one small JSON file in the state directory, written by the HTTP
// forms and watched for external edits so a running server always serves the
// current values.
package overrides

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/dubaiimmo/adgen/pkg/property"
)

// record is the on-disk shape, matching the original config files.
type record struct {
	Line1   string `json:"line1"`
	Line2   string `json:"line2"`
	Line3   string `json:"line3"`
	SavedAt string `json:"savedAt"`
}

// Store holds the operator text blocks for both formats.
type Store struct {
	dir string
	log zerolog.Logger

	mu     sync.RWMutex
	blocks map[property.Format]property.TextBlock

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// filename maps a render format to its config file.
func filename(f property.Format) (string, bool) {
	switch f {
	case property.FormatSquare:
		return "text-square.json", true
	case property.FormatStory:
		return "text-story.json", true
	}
	return "", false
}

// NewStore opens (creating if needed) the state directory, loads any
// existing config files, and starts watching the directory for edits.
func NewStore(dir string, log zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	s := &Store{
		dir:    dir,
		log:    log,
		blocks: make(map[property.Format]property.TextBlock),
		done:   make(chan struct{}),
	}

	for _, f := range []property.Format{property.FormatSquare, property.FormatStory} {
		s.reload(f)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch state dir: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch state dir: %w", err)
	}
	s.watcher = watcher
	go s.watch()

	return s, nil
}

// Get returns the stored block for a render format; unknown formats get an
// empty block.
func (s *Store) Get(f property.Format) property.TextBlock {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.blocks[f]
}

// Save persists the block for a render format and updates the in-memory
// copy.
func (s *Store) Save(f property.Format, block property.TextBlock) error {
	name, ok := filename(f)
	if !ok {
		return fmt.Errorf("no override file for format %q", f)
	}

	data, err := json.MarshalIndent(record{
		Line1:   block.Line1,
		Line2:   block.Line2,
		Line3:   block.Line3,
		SavedAt: time.Now().UTC().Format(time.RFC3339),
	}, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}

	s.mu.Lock()
	s.blocks[f] = block
	s.mu.Unlock()
	return nil
}

// Close stops the directory watcher.
func (s *Store) Close() error {
	close(s.done)
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}

// reload reads one format's file into memory. A missing or malformed file
// resets that format to an empty block.
func (s *Store) reload(f property.Format) {
	name, ok := filename(f)
	if !ok {
		return
	}

	var block property.TextBlock
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err == nil {
		var rec record
		if jsonErr := json.Unmarshal(data, &rec); jsonErr != nil {
			s.log.Warn().Str("file", name).Err(jsonErr).Msg("malformed override file, using empty lines")
		} else {
			block = property.TextBlock{Line1: rec.Line1, Line2: rec.Line2, Line3: rec.Line3}
		}
	}

	s.mu.Lock()
	s.blocks[f] = block
	s.mu.Unlock()
}

// watch reloads a format whenever its file changes on disk. Removing or
// renaming a file goes through reload too, which resets that format to an
// empty block.
func (s *Store) watch() {
	for {
		select {
		case <-s.done:
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			base := filepath.Base(event.Name)
			for _, f := range []property.Format{property.FormatSquare, property.FormatStory} {
				if name, _ := filename(f); name == base {
					s.log.Debug().Str("file", base).Msg("override file changed, reloading")
					s.reload(f)
				}
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.log.Warn().Err(err).Msg("override watcher error")
		}
	}
}
