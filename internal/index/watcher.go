package index

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/raido/internal/sources"
)

// EventCallback is called after a watcher-driven index change.
// kind is one of "created", "updated", "deleted".
type EventCallback func(kind string, path string)

// sourceMatcher reports whether an absolute path belongs to the configured
// source entries: exact match for file entries, prefix match for directory
// entries.
type sourceMatcher struct {
	files map[string]bool
	dirs  []string
}

func newSourceMatcher(entries []string) *sourceMatcher {
	m := &sourceMatcher{files: map[string]bool{}}
	for _, entry := range entries {
		path := sources.Expand(entry)
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			m.dirs = append(m.dirs, path)
			continue
		}
		m.files[path] = true
	}
	return m
}

func (m *sourceMatcher) matches(path string) bool {
	if !strings.HasSuffix(path, ".md") {
		return false
	}
	if m.files[path] {
		return true
	}
	for _, dir := range m.dirs {
		if strings.HasPrefix(path, dir+string(os.PathSeparator)) {
			return true
		}
	}
	return false
}

// Watch starts an fsnotify watcher over the source roots and processes
// file change events until ctx is cancelled. It calls cb (if non-nil)
// after each successful index mutation.
//
// New directories created at runtime are automatically added to the watch
// list. Rename events trigger a reconciliation pass that removes stale
// index entries whose files no longer exist on disk.
func Watch(ctx context.Context, db *DB, entries []string, excludeTags []string, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	matcher := newSourceMatcher(entries)
	roots := sources.WatchRoots(entries)
	for _, root := range roots {
		if err := addDirsRecursive(w, root); err != nil {
			return err
		}
	}

	logger.Info("watcher: started", slog.Any("roots", roots))

	// reconcileTimer is used to debounce rename reconciliation.
	var reconcileTimer *time.Timer
	var reconcileCh <-chan time.Time

	scheduleReconcile := func() {
		if reconcileTimer == nil {
			reconcileTimer = time.NewTimer(200 * time.Millisecond)
			reconcileCh = reconcileTimer.C
		} else {
			reconcileTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reconcileTimer != nil {
				reconcileTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-reconcileCh:
			reconcileAfterRename(db, entries, excludeTags, logger, cb)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			absPath := ev.Name

			// --- Handle new directories: add to watcher ---
			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(absPath); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, absPath); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", absPath),
							slog.String("error", addErr.Error()))
					} else {
						logger.Debug("watcher: watching new dir", slog.String("path", absPath))
					}
					// Index any .md files already in the new directory.
					indexNewDir(db, matcher, absPath, excludeTags, logger, cb)
					continue
				}
			}

			// Only process configured source files from here on.
			if !matcher.matches(absPath) {
				continue
			}

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				data, readErr := os.ReadFile(absPath)
				if readErr != nil {
					logger.Warn("watcher: read failed", slog.String("path", absPath), slog.String("error", readErr.Error()))
					continue
				}
				if idxErr := indexFile(db, absPath, data, excludeTags); idxErr != nil {
					logger.Warn("watcher: index failed", slog.String("path", absPath), slog.String("error", idxErr.Error()))
					continue
				}
				kind := "updated"
				if ev.Op&fsnotify.Create != 0 {
					kind = "created"
				}
				logger.Debug("watcher: indexed", slog.String("path", absPath), slog.String("op", kind))
				if cb != nil {
					cb(kind, absPath)
				}

			case ev.Op&fsnotify.Remove != 0:
				if delErr := db.DeleteList(absPath); delErr != nil {
					logger.Warn("watcher: delete failed", slog.String("path", absPath), slog.String("error", delErr.Error()))
					continue
				}
				logger.Debug("watcher: deleted", slog.String("path", absPath))
				if cb != nil {
					cb("deleted", absPath)
				}

			case ev.Op&fsnotify.Rename != 0:
				// fsnotify fires Rename on the OLD path only. The new
				// path will arrive as a separate Create event (if it
				// stays within a watched dir). We delete the old entry
				// immediately and schedule a short reconciliation pass
				// to catch any stragglers.
				if delErr := db.DeleteList(absPath); delErr != nil {
					logger.Warn("watcher: rename delete failed", slog.String("path", absPath), slog.String("error", delErr.Error()))
				} else {
					logger.Debug("watcher: rename old deleted", slog.String("path", absPath))
					if cb != nil {
						cb("deleted", absPath)
					}
				}
				scheduleReconcile()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// reconcileAfterRename does a lightweight sync using batch lookups:
// finds index entries without a corresponding file on disk and removes
// them, and finds on-disk files that are not indexed and indexes them.
func reconcileAfterRename(db *DB, entries []string, excludeTags []string, logger *slog.Logger, cb EventCallback) {
	checksums, err := db.AllChecksums()
	if err != nil {
		logger.Warn("reconcile: all checksums failed", slog.String("error", err.Error()))
		return
	}

	disk := map[string]string{}
	for _, path := range sources.Resolve(entries) {
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			continue
		}
		disk[path] = sources.Checksum(data)
	}

	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if delErr := db.DeleteList(p); delErr == nil {
				logger.Debug("reconcile: removed stale", slog.String("path", p))
				if cb != nil {
					cb("deleted", p)
				}
			}
		}
	}

	for p, cs := range disk {
		if checksums[p] == cs {
			continue
		}
		data, readErr := os.ReadFile(p)
		if readErr != nil {
			continue
		}
		if idxErr := indexFile(db, p, data, excludeTags); idxErr == nil {
			logger.Debug("reconcile: indexed new", slog.String("path", p))
			if cb != nil {
				cb("created", p)
			}
		}
	}
}

// indexNewDir indexes any matching .md files found in a newly created
// directory.
func indexNewDir(db *DB, matcher *sourceMatcher, dirPath string, excludeTags []string, logger *slog.Logger, cb EventCallback) {
	_ = filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !matcher.matches(path) {
			return nil
		}
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil
		}
		if idxErr := indexFile(db, path, data, excludeTags); idxErr == nil {
			logger.Debug("watcher: indexed from new dir", slog.String("path", path))
			if cb != nil {
				cb("created", path)
			}
		}
		return nil
	})
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
