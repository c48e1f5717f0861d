package config

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the settings file whenever it changes and delivers the
// result to onChange. The parent directory is watched rather than the file
// itself because most editors replace the file on save. Returns once ctx is
// done or the watcher fails.
func Watch(ctx context.Context, path string, onChange func(Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			cfg, err := LoadFrom(path)
			if err != nil {
				// Half-written or invalid file; keep the last good config.
				continue
			}
			onChange(cfg)
		case _, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
		}
	}
}
