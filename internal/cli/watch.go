package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/reactless/internal/presentation/tui"
)

// RunWatch renders the document at opts.Path and re-renders it into the same
// container every time the file changes, printing the mutations of each commit.
// It returns when ctx is done. An invalid revision is reported and skipped.
func RunWatch(ctx context.Context, opts RenderOptions, out io.Writer) error {
	if err := opts.validate(); err != nil {
		return err
	}
	logger := CreateLogger(opts.GlobalOptions)
	resolver := newHandlerResolver(logger)
	printer := tui.NewPrinter(out, opts.Color)

	// The first revision must be valid: there is nothing to fall back to.
	el, err := decode(opts.Path, resolver, logger)
	if err != nil {
		return err
	}

	wb, err := createWorkbench(opts, logger)
	if err != nil {
		return err
	}
	if _, err := wb.render(ctx, el); err != nil {
		return err
	}
	printer.Tree(wb.snapshot())

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace files instead of writing them, so the directory is watched.
	target, err := filepath.Abs(opts.Path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", opts.Path, err)
	}

	logger.Info("Starting Watcher", "path", opts.Path)
	printSystemMessage(out, "Watching '%s' for changes.", opts.Path)

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			logger.Info("Stopping watcher")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			logger.Debug("Change detected", "event", event.String())
			debounce = time.After(opts.Debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("Watcher error", "err", err)

		case <-debounce:
			debounce = nil
			el, err := decode(opts.Path, resolver, logger)
			if err != nil {
				printSystemMessage(out, "Change in '%s' rejected: %v", opts.Path, err)
				continue
			}
			res, err := wb.render(ctx, el)
			if err != nil {
				return err
			}
			printSystemMessage(out, "Change in '%s' committed in %d slices.", opts.Path, res.Slices)
			printer.Mutations(res.Mutations)
		}
	}
}
