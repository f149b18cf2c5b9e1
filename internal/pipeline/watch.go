package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"ddfmt/internal/fetch"
	appLog "ddfmt/internal/log"
)

const debounce = 300 * time.Millisecond

// Watch runs the pipeline once and again whenever the input file changes,
// until ctx is canceled. Failed runs are passed to onResult and do not stop
// the watch.
func Watch(ctx context.Context, opts Options, onResult func(Result, error)) error {
	if fetch.IsRemote(opts.Input) {
		return fmt.Errorf("pipeline: cannot watch remote input %s", opts.Input)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("pipeline: create watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace files instead of writing them in place, so
	// watch the directory and filter by name.
	dir := filepath.Dir(opts.Input)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("pipeline: watch %s: %w", dir, err)
	}
	appLog.Info("watching input for changes", "input", opts.Input)

	onResult(Run(ctx, opts))

	target := filepath.Clean(opts.Input)
	timer := time.NewTimer(debounce)
	timer.Stop()

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
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				appLog.Debug("input changed", "op", event.Op.String())
				timer.Reset(debounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			appLog.Error("watcher error", err, "input", opts.Input)
		case <-timer.C:
			onResult(Run(ctx, opts))
		}
	}
}
