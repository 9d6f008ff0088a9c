package index

import (
	"log/slog"
	"os"

	"github.com/starford/raido/internal/collection"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/parser"
	"github.com/starford/raido/internal/sources"
)

// Sync brings the index up to date with the resolved source files:
//   - new/changed files are parsed and upserted
//   - files removed from disk are deleted from the index
//
// Items carrying excluded tags never enter the index.
func Sync(db *DB, entries []string, excludeTags []string, logger *slog.Logger) error {
	paths := sources.Resolve(entries)

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", path), slog.String("error", err.Error()))
			continue
		}
		disk[path] = struct{}{}

		cs := sources.Checksum(data)
		if checksums[path] == cs {
			continue
		}

		if err := indexFile(db, path, data, excludeTags); err != nil {
			logger.Warn("sync: index failed", slog.String("path", path), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("path", path))
		}
	}

	// Remove stale entries.
	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if err := db.DeleteList(p); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	return nil
}

// indexFile parses data and upserts the resulting list into the DB.
func indexFile(db *DB, path string, data []byte, excludeTags []string) error {
	list, err := parser.ParseContent(string(data), path)
	if err != nil {
		return err
	}
	filtered := collection.ApplyExcludeTags([]models.AwesomeList{*list}, excludeTags)
	return db.UpsertList(filtered[0], sources.Checksum(data))
}
