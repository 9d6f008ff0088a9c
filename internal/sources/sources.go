// Package sources resolves configured source entries (files, directories,
// ~-prefixed paths) into the concrete markdown files a collection is built
// from.
package sources

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/starford/raido/internal/models"
)

// Expand resolves a leading ~ against the current user's home directory
// and returns the path in cleaned, absolute-if-possible form. Relative
// paths stay relative so configured entries remain portable.
func Expand(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return filepath.Clean(path)
}

// Resolve expands each configured entry into markdown file paths. Entries
// pointing at directories are walked recursively and contribute their .md
// files in sorted order; file entries pass through as-is. Missing entries
// are kept so the parse step can report them instead of dropping them
// silently.
func Resolve(entries []string) []string {
	out := []string{}
	for _, entry := range entries {
		path := Expand(entry)
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			out = append(out, path)
			continue
		}
		var found []string
		_ = filepath.WalkDir(path, func(p string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return nil
			}
			if !d.IsDir() && strings.HasSuffix(d.Name(), ".md") {
				found = append(found, p)
			}
			return nil
		})
		sort.Strings(found)
		out = append(out, found...)
	}
	return out
}

// List returns metadata (checksum, mtime) for each resolved path that
// exists and is readable. Unreadable paths are skipped; the parse step
// surfaces their errors.
func List(paths []string) ([]models.SourceMetadata, error) {
	var out []models.SourceMetadata
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		out = append(out, models.SourceMetadata{
			Path:      p,
			Checksum:  Checksum(data),
			UpdatedAt: info.ModTime(),
		})
	}
	return out, nil
}

// Checksum returns the hex-encoded SHA-256 digest of data.
func Checksum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// ChecksumFile returns the checksum of the file at path.
func ChecksumFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("sources: read %s: %w", path, err)
	}
	return Checksum(data), nil
}

// WatchRoots returns the deduplicated set of directories to watch for
// changes covering every configured entry: directory entries themselves,
// and the parent directory of file entries.
func WatchRoots(entries []string) []string {
	seen := map[string]bool{}
	roots := []string{}
	for _, entry := range entries {
		path := Expand(entry)
		root := path
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			root = filepath.Dir(path)
		}
		if !seen[root] {
			seen[root] = true
			roots = append(roots, root)
		}
	}
	return roots
}
