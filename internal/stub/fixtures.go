package stub

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// FixtureSet holds the JSON bodies served for read-only sections. Each file
// <dir>/<section>.json is served verbatim for its section; edits to the
// directory are picked up without a restart.
type FixtureSet struct {
	dir string
	log *slog.Logger

	mu     sync.RWMutex
	bodies map[string]json.RawMessage

	watcher *fsnotify.Watcher
}

// LoadFixtures reads every *.json file in dir and starts watching the
// directory for changes. A missing dir yields an empty set (sections fall
// back to built-in defaults).
func LoadFixtures(dir string, log *slog.Logger) (*FixtureSet, error) {
	fs := &FixtureSet{
		dir:    dir,
		log:    log,
		bodies: make(map[string]json.RawMessage),
	}
	if dir == "" {
		return fs, nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		log.Warn("fixture dir missing, serving defaults", "dir", dir)
		return fs, nil
	}

	if err := fs.reload(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fixture watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}
	fs.watcher = watcher
	go fs.watch()
	return fs, nil
}

// Close stops the directory watcher.
func (fs *FixtureSet) Close() error {
	if fs.watcher == nil {
		return nil
	}
	return fs.watcher.Close()
}

// Get returns the fixture body for a section, or nil when no file exists.
func (fs *FixtureSet) Get(section string) json.RawMessage {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.bodies[section]
}

func (fs *FixtureSet) reload() error {
	entries, err := os.ReadDir(fs.dir)
	if err != nil {
		return err
	}
	bodies := make(map[string]json.RawMessage)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(fs.dir, e.Name()))
		if err != nil {
			fs.log.Warn("reading fixture", "file", e.Name(), "error", err)
			continue
		}
		if !json.Valid(data) {
			fs.log.Warn("skipping invalid fixture", "file", e.Name())
			continue
		}
		section := strings.TrimSuffix(e.Name(), ".json")
		bodies[section] = json.RawMessage(data)
	}
	fs.mu.Lock()
	fs.bodies = bodies
	fs.mu.Unlock()
	fs.log.Info("fixtures loaded", "dir", fs.dir, "sections", len(bodies))
	return nil
}

func (fs *FixtureSet) watch() {
	for {
		select {
		case ev, ok := <-fs.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if err := fs.reload(); err != nil {
				fs.log.Warn("reloading fixtures", "error", err)
			}
		case err, ok := <-fs.watcher.Errors:
			if !ok {
				return
			}
			fs.log.Warn("fixture watcher", "error", err)
		}
	}
}
