package kv

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/julianstephens/micromind/internal/logger"
)

// Watch blocks until ctx is done, calling r.Refresh whenever the file at path
// (or its SQLite journal) is written by anyone. The parent directory is
// watched rather than the file itself so atomic renames are observed.
func Watch(ctx context.Context, path string, r Refresher) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	base := filepath.Base(path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event, base) {
				continue
			}
			logger.Debug("Storage changed on disk", "path", event.Name, "op", event.Op.String())
			if err := r.Refresh(); err != nil {
				logger.Warn("Failed to refresh storage", "path", path, "error", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Storage watcher error", "path", path, "error", err)
		}
	}
}

func relevant(event fsnotify.Event, base string) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(event.Name)
	return name == base || strings.HasPrefix(name, base+"-")
}
