// Package watch notifies when the contents of the watched directory change,
// so the listing can refresh without user action.
package watch

import (
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/ferryfm/ferry/internal/logger"
)

// Watcher follows a single directory at a time and reports changes to it.
type Watcher struct {
	fw     *fsnotify.Watcher
	events chan struct{}

	mu  sync.Mutex
	dir string
}

// New starts a watcher. Call Watch to point it at a directory.
func New() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fw: fw,
		// Capacity 1: pending notifications coalesce into one refresh
		events: make(chan struct{}, 1),
	}
	go w.loop()
	return w, nil
}

// Watch switches the watcher to dir, dropping the previous directory.
func (w *Watcher) Watch(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.dir == dir {
		return nil
	}
	if w.dir != "" {
		// Best effort: the old directory may already be gone
		w.fw.Remove(w.dir)
	}
	if err := w.fw.Add(dir); err != nil {
		w.dir = ""
		return err
	}
	w.dir = dir
	return nil
}

// Events returns the channel that receives a signal whenever the watched
// directory's contents change. Signals are coalesced, not one-per-change.
func (w *Watcher) Events() <-chan struct{} {
	return w.events
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.fw.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				close(w.events)
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename|fsnotify.Write) == 0 {
				continue
			}
			select {
			case w.events <- struct{}{}:
			default:
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				close(w.events)
				return
			}
			logger.Warn("watcher error: %v", err)
		}
	}
}
