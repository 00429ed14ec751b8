package config

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
)

// Watch reloads the config file at path every time it is written or replaced, and hands the result
// to onChange. A file that fails to load is reported through onChange with a nil Config. Watch
// blocks until ctx is done.
//
// The parent directory is watched rather than the file itself so that editors which save by
// renaming a temporary file over the original keep being observed.
func Watch(ctx context.Context, logger *slog.Logger, path string, onChange func(*Config, error)) error {
	if logger == nil {
		return errors.New("attempted to watch a config file without a logger")
	}
	if onChange == nil {
		return errors.New("attempted to watch a config file without a change callback")
	}

	path, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrapf(err, "failed to resolve config path %s", path)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create the config watcher")
	}
	defer watcher.Close()

	err = watcher.Add(filepath.Dir(path))
	if err != nil {
		return errors.Wrapf(err, "failed to watch %s", filepath.Dir(path))
	}

	logger.Debug("config::Watch", slog.String("Path", path))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			switch {
			case event.Op&fsnotify.Write == fsnotify.Write ||
				event.Op&fsnotify.Create == fsnotify.Create:
				logger.Debug("config::Watch reload", slog.String("Op", event.Op.String()))
				onChange(Load(path))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.LogAttrs(ctx, slog.LevelWarn, "config watcher error", slog.Any("Error", err))
		}
	}
}
