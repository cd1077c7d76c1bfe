package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/df07/go-stream-raytracer/pkg/core"
	"github.com/df07/go-stream-raytracer/pkg/loaders"
)

// watchDebounce coalesces the burst of events editors produce when saving
const watchDebounce = 250 * time.Millisecond

// watchScene renders the scene file and renders it again every time the file
// (or a mesh next to it) changes, until ctx is cancelled. A change cancels the
// render in flight; that render still saves what it accumulated.
func watchScene(ctx context.Context, config Config, logger core.Logger) error {
	_, path, err := loaders.ResolveScene(config.Scene, logger)
	if err != nil {
		return err
	}
	if path == "" {
		return fmt.Errorf("-watch needs a scene file, %q is a built-in scene", config.Scene)
	}
	config.Scene = path

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors often replace the file instead of writing it
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}
	logger.Printf("Watching %s for changes (Ctrl+C to stop)\n", path)

	cancelRender, done := startRender(ctx, config, logger)
	stopRender := func() {
		cancelRender()
		<-done
	}
	defer stopRender()

	debounce := time.NewTimer(watchDebounce)
	debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if isSceneChange(event, path) {
				debounce.Reset(watchDebounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Printf("Watch error: %v\n", err)

		case <-debounce.C:
			logger.Printf("Scene changed, re-rendering %s\n", path)
			stopRender()
			cancelRender, done = startRender(ctx, config, logger)
		}
	}
}

// startRender runs one render in the background. done is closed when it returns.
func startRender(ctx context.Context, config Config, logger core.Logger) (context.CancelFunc, <-chan struct{}) {
	renderCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		if _, err := runRender(renderCtx, config, logger); err != nil && !errors.Is(err, context.Canceled) {
			logger.Printf("Render failed: %v\n", err)
		}
	}()

	return cancel, done
}

// isSceneChange reports whether event modifies the watched scene file or a mesh beside it
func isSceneChange(event fsnotify.Event, scenePath string) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	if filepath.Clean(event.Name) == filepath.Clean(scenePath) {
		return true
	}
	return strings.EqualFold(filepath.Ext(event.Name), ".obj")
}
