package source

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/skekre98/keel/config"
)

const reloadOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

// watchFiles sends on ch whenever a file in dir whose base name is in names is
// written, created, renamed or removed. It watches the directory rather than
// the files so that files created later and editors that replace files on
// save are both seen. Sends never block: a pending event already means a
// reload is due.
func watchFiles(ctx context.Context, dir string, names []string, ch chan<- config.Event) error {
	if dir == "" {
		dir = "."
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !wanted[filepath.Base(ev.Name)] || ev.Op&reloadOps == 0 {
				continue
			}
			select {
			case ch <- config.Event{}:
			default:
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
}
