// Package models defines the domain types for Raido.
package models

import "time"

// Heading describes one markdown heading line within a document body.
// Instances are built once during a parse pass and never mutated.
type Heading struct {
	Level      int      // 1-6, count of leading '#'
	Text       string   // heading text as written, inline #tags included
	CleanText  string   // Text with inline tags removed and whitespace collapsed
	Tags       []string // raw inline tag tokens, pre-normalization
	LineNumber int      // 1-based line within the post-frontmatter body
}

// ListItem is one resolved bullet entry from an awesome list.
type ListItem struct {
	Title       string   `json:"title"`
	Link        string   `json:"link"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Sections    []string `json:"sections"`
	Topic       string   `json:"topic"`
	SourceFile  string   `json:"source_file"`
	LineNumber  int      `json:"line_number"`
}

// HasTag reports whether the item carries the given (already normalized) tag.
func (i ListItem) HasTag(tag string) bool {
	for _, t := range i.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// AwesomeList is one parsed source document: the level-1 topic plus every
// item found under it.
type AwesomeList struct {
	Topic      string     `json:"topic"`
	Items      []ListItem `json:"items"`
	SourceFile string     `json:"source_file"`
}

// CacheMetadata summarizes the whole collection for filtering and stats.
type CacheMetadata struct {
	Topics     []string `json:"topics"`
	Tags       []string `json:"tags"`
	TotalItems int      `json:"total_items"`
	TotalLists int      `json:"total_lists"`
}

// CacheData is the serialized collection document: metadata wrapper plus
// per-source lists in input-file order.
type CacheData struct {
	Metadata CacheMetadata `json:"metadata"`
	Lists    []AwesomeList `json:"lists"`
}

// SourceMetadata is a lightweight description of one markdown source file.
type SourceMetadata struct {
	Path      string
	Checksum  string
	UpdatedAt time.Time
}
