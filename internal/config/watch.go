package config

import (
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the document when the config file is rewritten by someone
// other than the agent (provisioning tools edit it in place). The callback
// fires on every write; reloading the agent's own writes is harmless since
// the content is identical.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	onChange func()
}

// NewWatcher watches the directory containing path and calls onChange when
// the config file is written or created. Returns nil (with a log line) if the
// watcher cannot be created; hot reload is best-effort.
func NewWatcher(path string, onChange func()) *Watcher {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		slog.Warn("config: could not create fsnotify watcher", "err", err)
		return nil
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		slog.Warn("config: could not watch config dir", "path", path, "err", err)
		fw.Close()
		return nil
	}

	w := &Watcher{watcher: fw, path: path, onChange: onChange}
	go w.loop()
	return w
}

// Close stops the file watcher. Safe to call on a nil Watcher.
func (w *Watcher) Close() {
	if w != nil && w.watcher != nil {
		w.watcher.Close()
	}
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Name == w.path && (event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				w.onChange()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("config: watcher error", "err", err)
		}
	}
}
