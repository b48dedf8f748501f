package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/dgallion1/docoutline/internal/logfields"
	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 300 * time.Millisecond

// debouncer collapses bursts of calls into one call of fn, delay after the
// last one.
type debouncer struct {
	mu    sync.Mutex
	timer *time.Timer
	delay time.Duration
	fn    func()
}

func newDebouncer(delay time.Duration, fn func()) *debouncer {
	return &debouncer{delay: delay, fn: fn}
}

func (d *debouncer) trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fn)
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}

// watchFiles calls rebuild after any of paths changes, until ctx is done. The
// parent directories are watched and events filtered down to paths.
func watchFiles(ctx context.Context, paths []string, log *slog.Logger, rebuild func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	watched := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", p, err)
		}
		watched[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	// Rebuilds run on this goroutine, one at a time.
	requests := make(chan struct{}, 1)
	d := newDebouncer(watchDebounce, func() {
		select {
		case requests <- struct{}{}:
		default:
		}
	})
	defer d.stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-requests:
			rebuild()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(ev, watched) {
				continue
			}
			log.Debug("input changed", logfields.File(ev.Name), "op", ev.Op.String())
			d.trigger()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", logfields.Error(err))
		}
	}
}

func relevant(ev fsnotify.Event, watched map[string]bool) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	return watched[abs]
}
