// Package watcher reports changes made to a single file by other programs.
// The parent directory is watched rather than the file itself so that editors
// which save by writing a temporary file and renaming it are still seen.
package watcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounceDuration is the default window for batching rapid changes.
const DefaultDebounceDuration = 300 * time.Millisecond

// Config holds file watcher configuration.
type Config struct {
	Path             string        // File to watch
	DebounceDuration time.Duration // Window to batch rapid changes
	OnChange         func(path string)
	OnError          func(err error)
}

// DefaultConfig returns a Config for path with the default debounce window.
func DefaultConfig(path string, onChange func(string)) *Config {
	return &Config{
		Path:             path,
		DebounceDuration: DefaultDebounceDuration,
		OnChange:         onChange,
	}
}

// Watcher monitors one file and calls OnChange after each burst of changes.
type Watcher struct {
	cfg     *Config
	path    string
	fsw     *fsnotify.Watcher
	stopCh  chan struct{}
	doneCh  chan struct{}
	stopped bool
	mu      sync.Mutex
}

// New creates a Watcher. Call Start to begin receiving events.
func New(cfg *Config) (*Watcher, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("watcher: no path configured")
	}
	abs, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("watcher: resolve %q: %w", cfg.Path, err)
	}
	if cfg.DebounceDuration <= 0 {
		cfg.DebounceDuration = DefaultDebounceDuration
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		cfg:    cfg,
		path:   abs,
		fsw:    fsw,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Start begins watching.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return fmt.Errorf("watcher has been stopped and cannot be restarted")
	}

	dir := filepath.Dir(w.path)
	if err := w.fsw.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %q: %w", dir, err)
	}

	go w.eventLoop()
	return nil
}

// Stop stops the watcher and waits for the event loop to exit. Safe to call
// more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	close(w.stopCh)
	_ = w.fsw.Close()
	w.mu.Unlock()

	select {
	case <-w.doneCh:
	case <-time.After(time.Second):
	}
}

func (w *Watcher) eventLoop() {
	defer close(w.doneCh)

	var timer *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-w.stopCh:
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.cfg.DebounceDuration, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if w.cfg.OnError != nil {
				w.cfg.OnError(err)
			}

		case <-fire:
			if w.cfg.OnChange != nil {
				w.cfg.OnChange(w.path)
			}
		}
	}
}
