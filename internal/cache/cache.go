// Package cache persists the generated collection document and loads it
// back with field-level validation, accepting both the current wrapped
// format and the legacy bare-array layout.
package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const appDirName = "raido"

// DefaultPath returns the cache file location under the XDG cache
// directory: $XDG_CACHE_HOME/raido/awesome_list.json, falling back to
// ~/.cache when XDG_CACHE_HOME is unset.
func DefaultPath() (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cache: resolve home: %w", err)
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, appDirName, "awesome_list.json"), nil
}

// Write atomically writes the serialized collection: tmp file → fsync →
// rename. A reader never observes a partially written cache.
func Write(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cache: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".raido-tmp-*")
	if err != nil {
		return fmt.Errorf("cache: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("cache: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("cache: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cache: close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("cache: rename: %w", err)
	}
	success = true
	return nil
}

// IsStale reports whether the cache file is missing or older than any of
// the source files. Missing sources do not mark the cache stale; the next
// build reports them instead.
func IsStale(cachePath string, sourcePaths []string) bool {
	info, err := os.Stat(cachePath)
	if err != nil {
		return true
	}
	cacheMtime := info.ModTime()
	for _, src := range sourcePaths {
		sinfo, err := os.Stat(src)
		if err != nil {
			continue
		}
		if sinfo.ModTime().After(cacheMtime) {
			return true
		}
	}
	return false
}

// Info describes the on-disk state of a cache file.
type Info struct {
	Path         string
	Exists       bool
	Size         int64
	LastModified time.Time
}

// Stat returns the on-disk state of the cache at path.
func Stat(path string) Info {
	info, err := os.Stat(path)
	if err != nil {
		return Info{Path: path}
	}
	return Info{
		Path:         path,
		Exists:       true,
		Size:         info.Size(),
		LastModified: info.ModTime(),
	}
}
