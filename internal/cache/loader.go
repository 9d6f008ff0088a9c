package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/starford/raido/internal/models"
)

// Loader reads a cache file into memory and answers queries over it. It is
// constructed explicitly and passed where needed; there is no process-wide
// instance.
type Loader struct {
	path       string
	lists      []models.AwesomeList
	items      []models.ListItem
	metadata   *models.CacheMetadata
	lastLoaded time.Time
}

// NewLoader returns a loader bound to the cache file at path. Nothing is
// read until Load is called.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Path returns the cache file location this loader reads from.
func (l *Loader) Path() string { return l.path }

// Load reads and validates the cache file. Field-level problems come back
// as warnings while the valid remainder still loads; only an unreadable
// file or broken JSON is a hard error.
func (l *Loader) Load() ([]string, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("cache: file does not exist: %s", l.path)
		}
		return nil, fmt.Errorf("cache: read %s: %w", l.path, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("cache: file is empty: %s", l.path)
	}

	rawLists, metadata, err := decodeDocument(data)
	if err != nil {
		return nil, fmt.Errorf("cache: invalid JSON in %s: %w", l.path, err)
	}

	lists, warnings := validateLists(rawLists)

	l.lists = lists
	l.metadata = metadata
	l.items = l.items[:0]
	for _, list := range lists {
		l.items = append(l.items, list.Items...)
	}
	if info, err := os.Stat(l.path); err == nil {
		l.lastLoaded = info.ModTime()
	}
	return warnings, nil
}

// decodeDocument accepts both the wrapped {metadata, lists} layout and the
// legacy bare array of lists.
func decodeDocument(data []byte) ([]json.RawMessage, *models.CacheMetadata, error) {
	var legacy []json.RawMessage
	if err := json.Unmarshal(data, &legacy); err == nil {
		return legacy, nil, nil
	}

	var wrapped struct {
		Metadata models.CacheMetadata `json:"metadata"`
		Lists    []json.RawMessage    `json:"lists"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, nil, err
	}
	return wrapped.Lists, &wrapped.Metadata, nil
}

func validateLists(rawLists []json.RawMessage) ([]models.AwesomeList, []string) {
	lists := []models.AwesomeList{}
	var warnings []string

	for i, raw := range rawLists {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			warnings = append(warnings, fmt.Sprintf("List %d: %v", i, err))
			continue
		}
		if _, ok := fields["topic"]; !ok {
			warnings = append(warnings, fmt.Sprintf("List %d: Missing 'topic' field", i))
			continue
		}
		if _, ok := fields["items"]; !ok {
			warnings = append(warnings, fmt.Sprintf("List %d: Missing 'items' field", i))
			continue
		}

		var topic string
		if err := json.Unmarshal(fields["topic"], &topic); err != nil {
			warnings = append(warnings, fmt.Sprintf("List %d: 'topic' must be a string", i))
			continue
		}
		sourceFile := "unknown"
		if raw, ok := fields["source_file"]; ok {
			_ = json.Unmarshal(raw, &sourceFile)
		}

		var rawItems []json.RawMessage
		if err := json.Unmarshal(fields["items"], &rawItems); err != nil {
			warnings = append(warnings, fmt.Sprintf("List %d: 'items' must be a list", i))
			continue
		}

		items := []models.ListItem{}
		for j, rawItem := range rawItems {
			item, itemWarnings := validateItem(rawItem, topic, sourceFile, fmt.Sprintf("List %d, Item %d", i, j))
			if len(itemWarnings) > 0 {
				warnings = append(warnings, itemWarnings...)
				continue
			}
			items = append(items, item)
		}

		lists = append(lists, models.AwesomeList{
			Topic:      topic,
			Items:      items,
			SourceFile: sourceFile,
		})
	}
	return lists, warnings
}

func validateItem(raw json.RawMessage, listTopic, listSource, context string) (models.ListItem, []string) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return models.ListItem{}, []string{fmt.Sprintf("%s: %v", context, err)}
	}

	var warnings []string
	if _, ok := fields["title"]; !ok {
		warnings = append(warnings, fmt.Sprintf("%s: Missing required field 'title'", context))
	}

	item := models.ListItem{
		Tags:       []string{},
		Sections:   []string{},
		Topic:      listTopic,
		SourceFile: listSource,
	}
	stringField(fields, "title", &item.Title)
	stringField(fields, "link", &item.Link)
	stringField(fields, "description", &item.Description)
	stringField(fields, "topic", &item.Topic)
	stringField(fields, "source_file", &item.SourceFile)
	if raw, ok := fields["line_number"]; ok {
		_ = json.Unmarshal(raw, &item.LineNumber)
	}

	if raw, ok := fields["tags"]; ok {
		if err := json.Unmarshal(raw, &item.Tags); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: 'tags' must be a list", context))
		}
	}
	if raw, ok := fields["sections"]; ok {
		if err := json.Unmarshal(raw, &item.Sections); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: 'sections' must be a list", context))
		}
	}

	if len(warnings) > 0 {
		return models.ListItem{}, warnings
	}
	return item, nil
}

func stringField(fields map[string]json.RawMessage, key string, dst *string) {
	if raw, ok := fields[key]; ok {
		_ = json.Unmarshal(raw, dst)
	}
}

// Lists returns every loaded list.
func (l *Loader) Lists() []models.AwesomeList { return l.lists }

// AllItems returns the flattened item set across all lists.
func (l *Loader) AllItems() []models.ListItem { return l.items }

// ItemCount returns the total number of loaded items.
func (l *Loader) ItemCount() int { return len(l.items) }

// Metadata returns the collection metadata when the cache carried it, nil
// for legacy bare-array caches.
func (l *Loader) Metadata() *models.CacheMetadata { return l.metadata }

// Topics returns the metadata topic index, deriving it from loaded lists
// for legacy caches.
func (l *Loader) Topics() []string {
	if l.metadata != nil {
		return l.metadata.Topics
	}
	set := map[string]bool{}
	for _, list := range l.lists {
		set[list.Topic] = true
	}
	topics := make([]string, 0, len(set))
	for t := range set {
		topics = append(topics, t)
	}
	sort.Strings(topics)
	return topics
}

// Tags returns the metadata tag index, deriving it from loaded items for
// legacy caches.
func (l *Loader) Tags() []string {
	if l.metadata != nil {
		return l.metadata.Tags
	}
	set := map[string]bool{}
	for _, item := range l.items {
		for _, t := range item.Tags {
			set[t] = true
		}
	}
	tags := make([]string, 0, len(set))
	for t := range set {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// IsFresh reports whether the cache file is unchanged since the last Load.
func (l *Loader) IsFresh() bool {
	info, err := os.Stat(l.path)
	if err != nil {
		return false
	}
	return !info.ModTime().After(l.lastLoaded)
}
