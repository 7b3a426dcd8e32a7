package nbfs

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watch starts an fsnotify watcher on the repository's source directory
// and drops cache entries for notebooks that change on disk, until ctx is
// cancelled. It is advisory: Get's modification-time check remains the
// source of truth, the watcher just keeps memory from holding stale parses
// between accesses.
func (r *Repository) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(r.dir); err != nil {
		return err
	}
	r.log.Info("watcher: started", slog.String("dir", r.dir))

	for {
		select {
		case <-ctx.Done():
			r.log.Info("watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name := filepath.Base(ev.Name)
			if !strings.HasSuffix(name, Extension) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				r.Invalidate(name)
				r.log.Debug("watcher: invalidated",
					slog.String("name", name),
					slog.String("op", ev.Op.String()))
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			r.log.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
