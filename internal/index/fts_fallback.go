//go:build !sqlite_fts5

package index

import (
	"database/sql"
	"fmt"

	"github.com/starford/raido/internal/models"
)

func initFTS(_ *sql.DB) error {
	// FTS5 not available; search uses a LIKE fallback over the items table.
	return nil
}

func ftsUpsert(_ *sql.Tx, _ string, _ int, _, _ string, _ []string) error {
	// Item text already lives in the items table; nothing extra to do.
	return nil
}

func ftsDeleteSource(_ *sql.Tx, _ string) {}

// Search performs a LIKE-based search (fallback when FTS5 is not compiled in).
func (db *DB) Search(query string, limit int) ([]models.ListItem, error) {
	if limit <= 0 {
		limit = 20
	}
	like := "%" + query + "%"
	rows, err := db.conn.Query(`
		SELECT source_file, line_number, title, link, description, tags, sections, topic
		FROM items
		WHERE title LIKE ? OR description LIKE ? OR tags LIKE ?
		ORDER BY source_file, line_number
		LIMIT ?
	`, like, like, like, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}
