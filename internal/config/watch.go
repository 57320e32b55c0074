package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/claymesh/internal/logger"
)

// Watcher calls back when watched files change. Bursts of events for the
// same file within the debounce window produce one callback.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration

	mu        sync.Mutex
	callbacks map[string]func(string)
	timers    map[string]*time.Timer
	done      chan struct{}
}

// NewWatcher creates a watcher. Call Start to begin delivering events.
func NewWatcher(debounce time.Duration) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	return &Watcher{
		watcher:   w,
		debounce:  debounce,
		callbacks: make(map[string]func(string)),
		timers:    make(map[string]*time.Timer),
		done:      make(chan struct{}),
	}, nil
}

// Watch registers callback for each file. Editors often replace files on
// save, so the parent directory is watched and events are filtered by name.
func (w *Watcher) Watch(files []string, callback func(string)) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", file, err)
		}
		if err := w.watcher.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("watching %s: %w", abs, err)
		}
		w.callbacks[abs] = callback
	}
	return nil
}

// Start runs the event loop in a goroutine until Close.
func (w *Watcher) Start() {
	go func() {
		for {
			select {
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					w.handle(event.Name)
				}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("file watcher error", zap.Error(err))
			case <-w.done:
				return
			}
		}
	}()
}

func (w *Watcher) handle(name string) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	callback, ok := w.callbacks[abs]
	if !ok {
		return
	}
	if t, ok := w.timers[abs]; ok {
		t.Stop()
	}
	w.timers[abs] = time.AfterFunc(w.debounce, func() {
		callback(abs)
	})
}

// Close stops the event loop and pending callbacks.
func (w *Watcher) Close() error {
	w.mu.Lock()
	for _, t := range w.timers {
		t.Stop()
	}
	w.mu.Unlock()

	close(w.done)
	return w.watcher.Close()
}
