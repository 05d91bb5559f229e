package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"github.com/alorle/tvtube-proxy/internal/port/driven"
)

// Store serves the latest snapshot of a YAML settings file.
type Store struct {
	path    string
	current atomic.Pointer[Snapshot]
	logger  *slog.Logger
}

// Open loads path into a new Store. A missing file yields the defaults.
func Open(path string, logger *slog.Logger) (*Store, error) {
	s := &Store{path: path, logger: logger}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Current implements driven.SettingsSource.
func (s *Store) Current() driven.Settings {
	return *s.current.Load()
}

// Snapshot returns the current snapshot.
func (s *Store) Snapshot() Snapshot {
	return *s.current.Load()
}

// Reload re-reads the settings file. On error the previous snapshot stays
// in place.
func (s *Store) Reload() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		snap := Defaults()
		s.current.Store(&snap)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read settings file: %w", err)
	}

	snap, err := Parse(data)
	if err != nil {
		return err
	}
	s.current.Store(&snap)
	return nil
}

// reloads reports whether event carries new file contents. Removals and
// renames are skipped: an atomic save follows them with a Create, and
// reloading in between would serve defaults.
func reloads(event fsnotify.Event) bool {
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

// Watch reloads the snapshot whenever the settings file changes, until ctx
// is done. The parent directory is watched so editors that replace the
// file atomically are picked up.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create settings watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("failed to watch settings directory: %w", err)
	}

	target := filepath.Clean(s.path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !reloads(event) {
				continue
			}
			if err := s.Reload(); err != nil {
				s.logger.Warn("failed to reload settings", "path", s.path, "error", err)
				continue
			}
			s.logger.Info("settings reloaded", "path", s.path)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("settings watcher error", "error", err)
		}
	}
}
