// Package watch re-runs a deployment whenever the skills source changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the tree must stay quiet before a change
// triggers a run.
const DefaultDebounce = 300 * time.Millisecond

// Watcher watches a directory tree and calls OnChange once per burst of
// file-system events. Calls never overlap.
type Watcher struct {
	// Root is the directory watched recursively.
	Root string

	// Debounce overrides DefaultDebounce when positive.
	Debounce time.Duration

	// OnChange is called after changes settle. An error is logged and
	// watching continues.
	OnChange func(ctx context.Context) error
}

// Run watches until ctx is canceled. It returns nil on cancellation and
// an error only when the watch cannot be set up or fsnotify fails
// permanently.
func (w *Watcher) Run(ctx context.Context) error {
	if w.OnChange == nil {
		return errors.New("watch: OnChange is required")
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	if err := addTree(fw, w.Root); err != nil {
		return err
	}
	log.Debug("watching skills source", "root", w.Root)

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			log.Debug("source changed", "path", event.Name, "op", event.Op.String())
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addTree(fw, event.Name); err != nil {
						log.Warn("cannot watch new directory", "path", event.Name, "err", err)
					}
				}
			}
			timer.Reset(debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Error("watch error", "err", err)

		case <-timer.C:
			if err := w.OnChange(ctx); err != nil {
				log.Error("redeploy failed", "err", err)
			}
		}
	}
}

// addTree adds root and every directory below it.
func addTree(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := fw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

// relevant drops chmod-only events and editor swap files.
func relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	base := filepath.Base(event.Name)
	return !strings.HasSuffix(base, "~") &&
		!strings.HasSuffix(base, ".swp") &&
		!strings.HasPrefix(base, ".#")
}
