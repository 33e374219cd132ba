package rules

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 250 * time.Millisecond

// Watcher serves the table loaded from a rule file and reloads it when the
// file changes. A file that fails to load leaves the previous table in place.
type Watcher struct {
	path     string
	debounce time.Duration

	current atomic.Pointer[Table]
	watcher *fsnotify.Watcher

	reloaded chan struct{}
	done     chan struct{}
	wg       sync.WaitGroup
}

type WatcherOption func(*Watcher)

func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// NewWatcher loads path once and starts watching its directory. Editors
// often replace files with a rename, so the directory is watched rather than
// the file itself.
func NewWatcher(ctx context.Context, path string, opts ...WatcherOption) (*Watcher, error) {
	table, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := fsWatcher.Add(filepath.Dir(path)); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to add path %s to watcher: %w", path, err)
	}

	w := &Watcher{
		path:     filepath.Clean(path),
		debounce: defaultDebounce,
		watcher:  fsWatcher,
		reloaded: make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.current.Store(table)

	w.wg.Add(1)
	go w.run(ctx)

	return w, nil
}

func (w *Watcher) Table() *Table {
	return w.current.Load()
}

// Reloaded receives a value after every reload attempt, successful or not.
func (w *Watcher) Reloaded() <-chan struct{} {
	return w.reloaded
}

func (w *Watcher) Close() error {
	select {
	case <-w.done:
		return nil
	default:
	}
	close(w.done)
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) run(ctx context.Context) {
	defer w.wg.Done()

	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !pending {
				timer.Reset(w.debounce)
				pending = true
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("rule watcher error", "path", w.path, "error", err)
		case <-timer.C:
			pending = false
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	defer w.notify()

	table, err := LoadFile(w.path)
	if err != nil {
		slog.Error("keeping previous rule table", "path", w.path, "error", err)
		return
	}

	w.current.Store(table)
	slog.Info("reloaded rule table", "path", w.path, "entries", table.Len())
}

func (w *Watcher) notify() {
	select {
	case w.reloaded <- struct{}{}:
	default:
	}
}
