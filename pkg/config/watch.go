package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch monitors path and calls onChange with the reloaded Config each time the
// file is written or replaced. It runs until ctx is cancelled.
//
// The parent directory is watched so the file can be saved through a rename
// or deleted and recreated. flags are merged into every reload the same way
// Load merges them, so command line overrides keep winning over the file.
// A reload that fails to parse or validate is reported through onError and the
// previous configuration stays in effect.
func Watch(ctx context.Context, path string, flags map[string]interface{}, onChange func(*Config), onError func(error)) error {
	if onError == nil {
		onError = func(error) {}
	}

	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

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
			// A rename onto the file arrives as Create
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			cfg, err := loadLayers(target)
			if err == nil {
				cfg.MergeCommandLineFlags(flags)
				err = cfg.Validate()
			}
			if err != nil {
				onError(fmt.Errorf("config reload failed: %w", err))
				continue
			}

			onChange(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			onError(fmt.Errorf("config watcher: %w", err))
		}
	}
}
