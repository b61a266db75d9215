// Package watch re-checks source files as they change on disk.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"docstyle/internal/logging"
	"docstyle/internal/scan"
)

// CheckFunc is invoked with the settled file paths after the debounce window.
type CheckFunc func(ctx context.Context, paths []string)

// Watcher monitors a workspace and re-checks files after edits settle.
// fsnotify is not recursive, so every directory under the root is added
// individually and newly created directories are picked up from events.
type Watcher struct {
	mu          sync.RWMutex
	watcher     *fsnotify.Watcher
	root        string
	exclude     map[string]bool
	check       CheckFunc
	debounceMap map[string]time.Time
	debounceDur time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool

	stats Stats
}

// Stats tracks watcher activity for debugging.
type Stats struct {
	FilesModified int
	FilesDeleted  int
	ChecksRun     int
	Errors        int
	LastEventPath string
	LastEventTime time.Time
}

// New creates a watcher over the workspace root. exclude lists directory
// names that are never watched.
func New(root string, exclude []string, check CheckFunc) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ex := make(map[string]bool, len(exclude))
	for _, d := range exclude {
		ex[d] = true
	}

	return &Watcher{
		watcher:     fsw,
		root:        root,
		exclude:     ex,
		check:       check,
		debounceMap: make(map[string]time.Time),
		debounceDur: 500 * time.Millisecond, // Let rapid saves settle
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start adds the workspace tree to the watcher and begins the event loop.
// Non-blocking; Stop must be called to release the watcher.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.addTree(w.root); err != nil {
		return err
	}
	logging.Watch("watching %s (%d dirs)", w.root, len(w.watcher.WatchList()))

	go w.run(ctx)
	return nil
}

// Stop stops the event loop and closes the underlying watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		logging.Get(logging.CategoryWatch).Error("error closing watcher: %v", err)
	}
	logging.Watch("stopped")
}

// IsWatching reports whether the event loop is running.
func (w *Watcher) IsWatching() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

// GetStats returns a snapshot of the watcher statistics.
func (w *Watcher) GetStats() Stats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats
}

// addTree registers root and every non-excluded directory below it.
func (w *Watcher) addTree(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		name := info.Name()
		if w.exclude[name] {
			return filepath.SkipDir
		}
		if strings.HasPrefix(name, ".") && path != root {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			logging.Get(logging.CategoryWatch).Warn("cannot watch %s: %v", path, err)
		}
		return nil
	})
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	// Flush tick for batching rapid changes
	debounceTicker := time.NewTicker(100 * time.Millisecond)
	defer debounceTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Watch("context cancelled")
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Get(logging.CategoryWatch).Error("watch error: %v", err)
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case <-debounceTicker.C:
			w.flushSettled(ctx)
		}
	}
}

// handleEvent records a source file change for debounced processing, and
// starts watching directories as they appear.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			name := filepath.Base(event.Name)
			if !w.exclude[name] && !strings.HasPrefix(name, ".") {
				if err := w.addTree(event.Name); err != nil {
					logging.Get(logging.CategoryWatch).Warn("cannot watch new dir %s: %v", event.Name, err)
				}
			}
			return
		}
	}

	if scan.DetectLanguage(event.Name) == "" {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.stats.LastEventPath = event.Name
	w.stats.LastEventTime = time.Now()

	switch {
	case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
		w.stats.FilesModified++
		w.debounceMap[event.Name] = time.Now()
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		w.stats.FilesDeleted++
		delete(w.debounceMap, event.Name)
	}
}

// flushSettled runs the check on files whose last event is older than the
// debounce window.
func (w *Watcher) flushSettled(ctx context.Context) {
	w.mu.Lock()
	now := time.Now()
	var settled []string
	for path, eventTime := range w.debounceMap {
		if now.Sub(eventTime) >= w.debounceDur {
			settled = append(settled, path)
			delete(w.debounceMap, path)
		}
	}
	w.mu.Unlock()

	if len(settled) == 0 {
		return
	}

	// A file can vanish between the event and the flush.
	alive := settled[:0]
	for _, p := range settled {
		if _, err := os.Stat(p); err == nil {
			alive = append(alive, p)
		}
	}
	if len(alive) == 0 {
		return
	}

	logging.WatchDebug("re-checking %d settled files", len(alive))
	w.mu.Lock()
	w.stats.ChecksRun++
	w.mu.Unlock()

	w.check(ctx, alive)
}
