package index

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/starford/raido/internal/models"
)

func scanItems(rows *sql.Rows) ([]models.ListItem, error) {
	items := []models.ListItem{}
	for rows.Next() {
		var item models.ListItem
		var tagsJSON, sectionsJSON string
		if err := rows.Scan(
			&item.SourceFile, &item.LineNumber, &item.Title, &item.Link,
			&item.Description, &tagsJSON, &sectionsJSON, &item.Topic,
		); err != nil {
			return nil, err
		}
		item.Tags = []string{}
		item.Sections = []string{}
		_ = json.Unmarshal([]byte(tagsJSON), &item.Tags)
		_ = json.Unmarshal([]byte(sectionsJSON), &item.Sections)
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpsertList replaces a source's row and every item parsed out of it
// within a single transaction.
func (db *DB) UpsertList(list models.AwesomeList, checksum string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO sources (source_file, topic, checksum, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(source_file) DO UPDATE SET
			topic      = excluded.topic,
			checksum   = excluded.checksum,
			updated_at = excluded.updated_at
	`, list.SourceFile, list.Topic, checksum, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("index: upsert source: %w", err)
	}

	// Replace items: delete old then bulk insert.
	_, _ = tx.Exec(`DELETE FROM items WHERE source_file = ?`, list.SourceFile)
	ftsDeleteSource(tx, list.SourceFile)

	stmt, err := tx.Prepare(`
		INSERT INTO items (source_file, line_number, title, link, description, tags, sections, topic)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("index: prepare item insert: %w", err)
	}
	defer stmt.Close()

	for _, item := range list.Items {
		tagsJSON, _ := json.Marshal(item.Tags)
		sectionsJSON, _ := json.Marshal(item.Sections)
		if _, err := stmt.Exec(
			list.SourceFile, item.LineNumber, item.Title, item.Link,
			item.Description, string(tagsJSON), string(sectionsJSON), item.Topic,
		); err != nil {
			return fmt.Errorf("index: insert item: %w", err)
		}
		if err := ftsUpsert(tx, list.SourceFile, item.LineNumber, item.Title, item.Description, item.Tags); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// DeleteList removes a source and all of its items.
func (db *DB) DeleteList(sourceFile string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDeleteSource(tx, sourceFile)
	_, _ = tx.Exec(`DELETE FROM items WHERE source_file = ?`, sourceFile)
	_, _ = tx.Exec(`DELETE FROM sources WHERE source_file = ?`, sourceFile)

	return tx.Commit()
}

// GetChecksum returns the stored checksum for a source, or empty string if
// not indexed yet.
func (db *DB) GetChecksum(sourceFile string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM sources WHERE source_file = ?`, sourceFile).Scan(&cs)
	if err != nil {
		return "", nil // not found is fine
	}
	return cs, nil
}

// AllChecksums returns the checksum of every indexed source.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT source_file, checksum FROM sources`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

// ListItems returns a page of items with optional tag and topic filters,
// ordered by source file then line number, plus the unpaginated total.
func (db *DB) ListItems(limit, offset int, tag, topic string) ([]models.ListItem, int, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	where := []string{}
	args := []any{}
	if tag != "" {
		// Tags are stored as a JSON array of strings; match the quoted form.
		where = append(where, `tags LIKE ?`)
		args = append(args, `%"`+tag+`"%`)
	}
	if topic != "" {
		where = append(where, `topic = ?`)
		args = append(args, topic)
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM items`+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("index: count items: %w", err)
	}

	rows, err := db.conn.Query(`
		SELECT source_file, line_number, title, link, description, tags, sections, topic
		FROM items`+cond+`
		ORDER BY source_file, line_number
		LIMIT ? OFFSET ?
	`, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("index: list items: %w", err)
	}
	defer rows.Close()

	items, err := scanItems(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Lists reconstructs every indexed list with its items in line order.
func (db *DB) Lists() ([]models.AwesomeList, error) {
	srcRows, err := db.conn.Query(`SELECT source_file, topic FROM sources ORDER BY source_file`)
	if err != nil {
		return nil, fmt.Errorf("index: lists: %w", err)
	}
	defer srcRows.Close()

	var lists []models.AwesomeList
	for srcRows.Next() {
		var list models.AwesomeList
		if err := srcRows.Scan(&list.SourceFile, &list.Topic); err != nil {
			return nil, err
		}
		list.Items = []models.ListItem{}
		lists = append(lists, list)
	}
	if err := srcRows.Err(); err != nil {
		return nil, err
	}

	itemRows, err := db.conn.Query(`
		SELECT source_file, line_number, title, link, description, tags, sections, topic
		FROM items
		ORDER BY source_file, line_number
	`)
	if err != nil {
		return nil, fmt.Errorf("index: list items: %w", err)
	}
	defer itemRows.Close()

	items, err := scanItems(itemRows)
	if err != nil {
		return nil, err
	}

	bySource := make(map[string]int, len(lists))
	for i, l := range lists {
		bySource[l.SourceFile] = i
	}
	for _, item := range items {
		if i, ok := bySource[item.SourceFile]; ok {
			lists[i].Items = append(lists[i].Items, item)
		}
	}
	return lists, nil
}

// Topics returns every distinct topic, sorted.
func (db *DB) Topics() ([]string, error) {
	rows, err := db.conn.Query(`SELECT DISTINCT topic FROM sources WHERE topic != '' ORDER BY topic`)
	if err != nil {
		return nil, fmt.Errorf("index: topics: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Tags returns every distinct item tag, sorted. Tag arrays are stored as
// JSON text, so aggregation happens here rather than in SQL.
func (db *DB) Tags() ([]string, error) {
	rows, err := db.conn.Query(`SELECT tags FROM items`)
	if err != nil {
		return nil, fmt.Errorf("index: tags: %w", err)
	}
	defer rows.Close()

	set := map[string]bool{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var tags []string
		if err := json.Unmarshal([]byte(raw), &tags); err != nil {
			continue
		}
		for _, t := range tags {
			set[t] = true
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out, nil
}

// Metadata aggregates the collection index: sorted topics and tags plus
// totals.
func (db *DB) Metadata() (models.CacheMetadata, error) {
	topics, err := db.Topics()
	if err != nil {
		return models.CacheMetadata{}, err
	}
	tags, err := db.Tags()
	if err != nil {
		return models.CacheMetadata{}, err
	}

	var totalItems, totalLists int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM items`).Scan(&totalItems); err != nil {
		return models.CacheMetadata{}, fmt.Errorf("index: count items: %w", err)
	}
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM sources`).Scan(&totalLists); err != nil {
		return models.CacheMetadata{}, fmt.Errorf("index: count sources: %w", err)
	}

	return models.CacheMetadata{
		Topics:     topics,
		Tags:       tags,
		TotalItems: totalItems,
		TotalLists: totalLists,
	}, nil
}
