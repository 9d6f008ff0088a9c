// Package parser turns awesome-list markdown into normalized list records:
// frontmatter metadata, a heading hierarchy with inline tags, and bullet
// items carrying inherited tag sets and section paths.
package parser

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/tags"
)

// ParseFile reads and parses one awesome list markdown file.
func ParseFile(path string) (*models.AwesomeList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &apperr.ParseError{Path: path, Err: apperr.ErrNotFound}
		}
		return nil, &apperr.ParseError{Path: path, Err: fmt.Errorf("%w: %v", apperr.ErrUnreadable, err)}
	}
	return ParseContent(string(data), path)
}

// ParseContent parses raw markdown into an AwesomeList. The document must
// carry a level-1 heading; its clean text becomes the topic of every item.
// Bullets whose parsed title is empty are dropped silently: they are notes,
// not items.
func ParseContent(content, sourceFile string) (*models.AwesomeList, error) {
	meta, body := SplitFrontmatter(content)
	fmTags := FrontmatterTags(meta)

	headings := ExtractHeadings(body)

	topic := ""
	for _, h := range headings {
		if h.Level == 1 {
			topic = h.CleanText
			break
		}
	}
	if topic == "" {
		return nil, &apperr.ParseError{Path: sourceFile, Err: apperr.ErrMissingTopic}
	}

	items := []models.ListItem{}
	for _, block := range ExtractItems(body) {
		parsed := ParseItemContent(block.Lines)
		if strings.TrimSpace(parsed.Title) == "" {
			continue
		}
		items = append(items, models.ListItem{
			Title:       strings.TrimSpace(parsed.Title),
			Link:        parsed.Link,
			Description: strings.TrimSpace(parsed.Description),
			Tags:        tags.Resolve(parsed.Tags, AncestorTags(headings, block.LineNumber), fmTags),
			Sections:    SectionPath(headings, block.LineNumber),
			Topic:       topic,
			SourceFile:  sourceFile,
			LineNumber:  block.LineNumber,
		})
	}

	return &models.AwesomeList{
		Topic:      topic,
		Items:      items,
		SourceFile: sourceFile,
	}, nil
}
