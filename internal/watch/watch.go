// Package watch re-runs an action whenever a file changes.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher follows one file. The parent directory is watched so that editors
// replacing the file on save are noticed too.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
}

// New starts watching path. Events that happen before Run is called are kept.
func New(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}
	return &Watcher{path: abs, watcher: fw}, nil
}

// Run calls fn after every write to or re-creation of the file until ctx is
// done. Errors from fn are logged and do not stop the watch.
func (w *Watcher) Run(ctx context.Context, fn func() error) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			slog.Debug("file changed", "path", w.path, "op", ev.Op.String())
			if err := fn(); err != nil {
				slog.Warn("re-run after change failed", "path", w.path, "error", err)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("failed to watch %s: %w", w.path, err)
		}
	}
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}
