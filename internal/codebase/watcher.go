package codebase

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher invalidates the store's overview cache when files change outside
// the store's own operations (external editors, checkouts, restores).
type Watcher struct {
	store   *Store
	watcher *fsnotify.Watcher

	// Debouncing
	pendingMu    sync.Mutex
	pending      bool
	debounceTime time.Duration
}

// NewWatcher creates a watcher over the store's root. debounce == 0 uses
// a 500ms default.
func NewWatcher(store *Store, debounce time.Duration) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if debounce == 0 {
		debounce = 500 * time.Millisecond
	}

	return &Watcher{
		store:        store,
		watcher:      watcher,
		debounceTime: debounce,
	}, nil
}

// Watch starts watching for file changes. It blocks until the context is
// cancelled.
func (w *Watcher) Watch(ctx context.Context) error {
	if err := w.addWatchDirs(); err != nil {
		return err
	}

	slog.Info("watching codebase for changes", "dir", w.store.Root())

	go w.processDebounced(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("stopping watcher")
			return w.watcher.Close()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", "error", err)
		}
	}
}

// addWatchDirs recursively adds directories to watch.
func (w *Watcher) addWatchDirs() error {
	return filepath.WalkDir(w.store.Root(), func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != w.store.Root() {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			slog.Debug("cannot watch directory", "dir", path, "error", err)
		}
		return nil
	})
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	// New directories must join the watch set before their cache effect.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.watcher.Add(event.Name); err != nil {
				slog.Debug("cannot watch new directory", "dir", event.Name, "error", err)
			}
		}
	}

	w.pendingMu.Lock()
	w.pending = true
	w.pendingMu.Unlock()
}

// processDebounced folds bursts of events into one cache invalidation.
func (w *Watcher) processDebounced(ctx context.Context) {
	ticker := time.NewTicker(w.debounceTime)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.pendingMu.Lock()
			fire := w.pending
			w.pending = false
			w.pendingMu.Unlock()

			if fire {
				slog.Debug("codebase changed, invalidating overview cache")
				w.store.invalidateOverview()
			}
		}
	}
}
