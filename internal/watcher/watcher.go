// Package watcher re-runs the report whenever the project's manifest or
// lock file changes on disk.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/humboldt-labs/depdoctor/internal/lockfile"
	"github.com/humboldt-labs/depdoctor/internal/manifest"
)

// DefaultDebounce coalesces the burst of write events an npm install
// produces into a single callback.
const DefaultDebounce = 2 * time.Second

// Logger is the subset of logging used by the watcher.
type Logger interface {
	Info(msg any, keyvals ...any)
	Warn(msg any, keyvals ...any)
}

// Watcher observes package.json and package-lock.json in a project
// directory and invokes OnChange after each settled change.
type Watcher struct {
	Dir      string
	Debounce time.Duration
	Logger   Logger
	OnChange func(ctx context.Context)

	mu      sync.Mutex
	pending *time.Timer
}

// watchedFiles are the only filenames that trigger a re-run. Editors and
// package managers write plenty of other files into a project directory.
var watchedFiles = map[string]bool{
	manifest.FileName: true,
	lockfile.FileName: true,
}

// Run watches until ctx is cancelled. The directory itself is watched, not
// the individual files: npm replaces them atomically via rename, which
// would drop a per-file watch.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.Dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.Dir, err)
	}

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w.Logger.Info("watching for changes",
		"dir", w.Dir, "files", manifest.FileName+", "+lockfile.FileName)

	for {
		select {
		case <-ctx.Done():
			w.cancelPending()
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.schedule(ctx, debounce, filepath.Base(event.Name))

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.Logger.Warn("file watcher error", "error", err)
		}
	}
}

// relevant reports whether an event concerns a watched file and a mutating
// operation.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !watchedFiles[filepath.Base(event.Name)] {
		return false
	}
	return event.Op.Has(fsnotify.Write) ||
		event.Op.Has(fsnotify.Create) ||
		event.Op.Has(fsnotify.Rename) ||
		event.Op.Has(fsnotify.Remove)
}

// schedule (re)arms the debounce timer. Each new event within the window
// pushes the callback out again, so a long npm install fires once at the end.
func (w *Watcher) schedule(ctx context.Context, debounce time.Duration, name string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pending != nil {
		w.pending.Stop()
	}
	w.Logger.Info("change detected", "file", name)
	w.pending = time.AfterFunc(debounce, func() {
		if ctx.Err() != nil {
			return
		}
		w.OnChange(ctx)
	})
}

func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending != nil {
		w.pending.Stop()
		w.pending = nil
	}
}
