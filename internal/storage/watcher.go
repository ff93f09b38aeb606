package storage

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Slot event kinds reported by Watch.
const (
	SlotWritten = "written"
	SlotRemoved = "removed"
)

// SlotCallback is called with the slot name (relative to the watched root)
// after its file changed on disk.
type SlotCallback func(kind string, name string)

// watchDebounce coalesces the burst of events a single atomic write produces.
const watchDebounce = 100 * time.Millisecond

// Watch observes an FS app-data directory until ctx is cancelled and reports
// slot changes to cb. Temp files from in-flight writes are ignored, and
// events for the same slot within watchDebounce collapse into one callback
// carrying the latest kind.
func Watch(ctx context.Context, root string, logger *slog.Logger, cb SlotCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root))

	pending := make(map[string]string)
	var flushTimer *time.Timer
	var flushCh <-chan time.Time

	schedule := func(name, kind string) {
		pending[name] = kind
		if flushTimer == nil {
			flushTimer = time.NewTimer(watchDebounce)
			flushCh = flushTimer.C
		} else {
			flushTimer.Reset(watchDebounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if flushTimer != nil {
				flushTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-flushCh:
			for name, kind := range pending {
				logger.Debug("watcher: slot changed", slog.String("slot", name), slog.String("kind", kind))
				if cb != nil {
					cb(kind, name)
				}
			}
			clear(pending)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if strings.HasPrefix(filepath.Base(ev.Name), tmpPrefix) {
				continue
			}
			if ev.Op&fsnotify.Create != 0 && isDir(ev.Name) {
				if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
					logger.Warn("watcher: add new dir failed",
						slog.String("path", ev.Name),
						slog.String("error", addErr.Error()))
				}
				continue
			}
			rel, relErr := filepath.Rel(root, ev.Name)
			if relErr != nil {
				continue
			}
			rel = filepath.ToSlash(rel)

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				schedule(rel, SlotWritten)
			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				schedule(rel, SlotRemoved)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
