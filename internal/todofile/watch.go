package todofile

import (
	"time"

	"todotxt/internal/utils"
	"todotxt/internal/watcher"
)

// Watch calls onChange with the file path whenever the file is modified by
// another program.
// Changes made by Load and Save are not reported. The watch follows the file
// when a later Load or Save switches to another path. onChange runs on the
// watcher goroutine.
func (f *File) Watch(debounce time.Duration, onChange func(path string)) error {
	f.StopWatching()
	f.debounce = debounce
	f.onChange = onChange
	if f.filename == "" {
		return nil
	}
	return f.startWatcher()
}

// StopWatching stops reporting external changes.
func (f *File) StopWatching() {
	f.stopWatcher()
	f.onChange = nil
}

// Watching reports whether a watch is installed.
func (f *File) Watching() bool {
	return f.watcher != nil
}

func (f *File) startWatcher() error {
	f.stopWatcher()

	onChange := f.onChange
	cfg := watcher.DefaultConfig(f.filename, func(path string) {
		if !f.changedOnDisk(path) {
			utils.Debugf("ignoring own write to %s", path)
			return
		}
		utils.Debugf("%s changed on disk", path)
		onChange(path)
	})
	if f.debounce > 0 {
		cfg.DebounceDuration = f.debounce
	}
	cfg.OnError = func(err error) {
		utils.Warnf("file watch error: %v", err)
	}

	w, err := watcher.New(cfg)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		w.Stop()
		return err
	}
	f.watcher = w
	return nil
}

func (f *File) stopWatcher() {
	if f.watcher != nil {
		f.watcher.Stop()
		f.watcher = nil
	}
}
