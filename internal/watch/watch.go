// Package watch polls tracked files for modification-time changes. The
// reload engine calls Check at a fixed frame cadence; there is no background
// goroutine, which keeps the whole reload path on the frame loop thread.
package watch

import (
	"os"
	"time"

	"zajal/internal/reload"
)

// Change describes one modified tracked file with its fresh content.
type Change struct {
	Path string
	Text string
}

// Watcher tracks modification times for a set of files.
type Watcher struct {
	paths []string
	mtime map[string]time.Time
}

// New creates a watcher for the given paths. The first Check reports every
// readable file as changed, which doubles as the initial load.
func New(paths ...string) *Watcher {
	return &Watcher{
		paths: paths,
		mtime: make(map[string]time.Time, len(paths)),
	}
}

// Paths returns the tracked paths in check order.
func (w *Watcher) Paths() []string {
	return append([]string(nil), w.paths...)
}

// Check stats every tracked file in order and returns those whose mtime
// advanced, with content already read. A file that cannot be statted or read
// is fatal: the sketch source is the single source of truth and there is
// nothing sensible to fall back to.
func (w *Watcher) Check() ([]Change, error) {
	var changes []Change
	for _, path := range w.paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, &reload.FatalError{Path: path, Err: err}
		}
		mod := info.ModTime()
		if last, ok := w.mtime[path]; ok && !mod.After(last) {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &reload.FatalError{Path: path, Err: err}
		}
		w.mtime[path] = mod
		changes = append(changes, Change{Path: path, Text: string(data)})
	}
	return changes, nil
}
