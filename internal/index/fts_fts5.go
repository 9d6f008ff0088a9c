//go:build sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/starford/raido/internal/models"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS items_fts USING fts5(
			source_file UNINDEXED,
			line_number UNINDEXED,
			title,
			description,
			tags,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsUpsert(tx *sql.Tx, sourceFile string, lineNumber int, title, description string, tags []string) error {
	_, err := tx.Exec(`INSERT INTO items_fts (source_file, line_number, title, description, tags) VALUES (?, ?, ?, ?, ?)`,
		sourceFile, lineNumber, title, description, strings.Join(tags, " "))
	if err != nil {
		return fmt.Errorf("index: upsert fts: %w", err)
	}
	return nil
}

func ftsDeleteSource(tx *sql.Tx, sourceFile string) {
	_, _ = tx.Exec(`DELETE FROM items_fts WHERE source_file = ?`, sourceFile)
}

// Search performs an FTS5 full-text search and returns the matching items
// in rank order.
func (db *DB) Search(query string, limit int) ([]models.ListItem, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT i.source_file, i.line_number, i.title, i.link, i.description, i.tags, i.sections, i.topic
		FROM items_fts f
		JOIN items i ON i.source_file = f.source_file AND i.line_number = f.line_number
		WHERE items_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}
