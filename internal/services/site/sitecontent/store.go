package sitecontent

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const reloadDebounce = 150 * time.Millisecond

// Store holds the current copy and swaps it when the override file changes.
type Store struct {
	path    string
	logger  *zap.Logger
	current atomic.Pointer[Content]
}

// NewStore returns a store serving the override file at path, or the
// embedded default when path is empty. A present but invalid override fails
// startup.
func NewStore(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{path: path, logger: logger}
	content := Default()
	if path != "" {
		loaded, err := ParseFile(path)
		if err != nil {
			return nil, err
		}
		content = loaded
	}
	s.current.Store(&content)
	return s, nil
}

// Current returns the copy in effect.
func (s *Store) Current() Content {
	if s == nil {
		return Default()
	}
	return *s.current.Load()
}

// Path returns the override file path, empty when serving the default.
func (s *Store) Path() string { return s.path }

// Reload re-reads the override file. On error the previous copy stays.
func (s *Store) Reload() error {
	if s.path == "" {
		return nil
	}
	content, err := ParseFile(s.path)
	if err != nil {
		s.logger.Warn("site content reload failed, keeping previous copy", zap.String("path", s.path), zap.Error(err))
		return err
	}
	s.current.Store(&content)
	s.logger.Info("site content reloaded", zap.String("path", s.path))
	return nil
}

// Watch reloads the override file whenever it changes until ctx is done.
// The parent directory is watched so editors that replace the file by
// rename are seen.
func (s *Store) Watch(ctx context.Context) error {
	if s.path == "" {
		<-ctx.Done()
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create content watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	target := filepath.Clean(s.path)

	timer := time.NewTimer(reloadDebounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

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
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(reloadDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("site content watcher error", zap.Error(err))
		case <-timer.C:
			_ = s.Reload()
		}
	}
}
