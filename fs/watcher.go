package fs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/fwojciec/docver"
)

// DefaultDebounce is how long the watcher waits for changes to settle.
const DefaultDebounce = 300 * time.Millisecond

// Watcher refreshes cached state when files under a content root change.
// Bursts of events are coalesced into one refresh.
type Watcher struct {
	Root      string
	Refresher docver.Refresher
	Debounce  time.Duration
	Logger    *slog.Logger
}

// NewWatcher creates a Watcher for root.
func NewWatcher(root string, r docver.Refresher, logger *slog.Logger) *Watcher {
	return &Watcher{
		Root:      root,
		Refresher: r,
		Debounce:  DefaultDebounce,
		Logger:    logger,
	}
}

// Run watches until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	w.addDirs(watcher, w.Root)

	refreshReq := make(chan struct{}, 1)
	var mu sync.Mutex
	var timer *time.Timer
	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(w.Debounce, func() {
			select {
			case refreshReq <- struct{}{}:
			default:
			}
		})
	}
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-refreshReq:
			w.Logger.Info("content changed; refreshing")
			if err := w.Refresher.Refresh(ctx); err != nil {
				w.Logger.Warn("refresh failed", "err", err)
			}
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ShouldIgnoreEvent(ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					w.addDirs(watcher, ev.Name)
				}
			}
			w.Logger.Debug("file change detected", "path", ev.Name, "op", ev.Op.String())
			trigger()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.Logger.Warn("watcher error", "err", err)
		}
	}
}

func (w *Watcher) addDirs(watcher *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if err := watcher.Add(path); err != nil {
				w.Logger.Warn("watch add failed", "dir", path, "err", err)
			}
		}
		return nil
	})
}

// ShouldIgnoreEvent reports whether a change to path cannot affect content:
// hidden files and editor swap or backup files.
func ShouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "#") {
		return true
	}
	return strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		base == "Thumbs.db"
}
