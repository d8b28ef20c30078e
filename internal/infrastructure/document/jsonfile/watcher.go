package jsonfile

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reports changes made to the document by other programs.
type Watcher struct {
	store    *Store
	debounce time.Duration
	logger   *slog.Logger
}

// NewWatcher creates a watcher for the store's document.
func NewWatcher(store *Store, debounce time.Duration, logger *slog.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{store: store, debounce: debounce, logger: logger}
}

// Run watches the document's directory until ctx is done and calls onChange
// once per burst of external writes. Writes made through the store are
// ignored. The directory is watched rather than the file because Save
// replaces the file by rename.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	path, err := filepath.Abs(w.store.Location())
	if err != nil {
		return fmt.Errorf("resolving document path: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(path), err)
	}

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			timer.Reset(w.debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("document watcher error", "error", err)
		case <-timer.C:
			if w.store.ownWrite() {
				continue
			}
			w.logger.Info("document changed on disk", "path", path)
			onChange()
		}
	}
}
