// Package filter narrows a loaded item set by topics, tags, and search
// results, keeping selection state and counts for interactive consumers.
package filter

import (
	"fmt"
	"sort"

	"github.com/starford/raido/internal/models"
)

// Mode selects how multiple tag filters combine.
type Mode int

const (
	// ModeOR keeps items carrying at least one selected tag.
	ModeOR Mode = iota
	// ModeAND keeps items carrying every selected tag.
	ModeAND
)

func (m Mode) String() string {
	if m == ModeAND {
		return "AND"
	}
	return "OR"
}

// Manager holds the working item set and the active filter state. It is
// not safe for concurrent use; callers serialize access.
type Manager struct {
	allItems    []models.ListItem
	items       []models.ListItem
	excludeTags map[string]bool

	selectedTags   map[string]bool
	selectedTopics map[string]bool
	mode           Mode

	tagCounts   map[string]int
	topicCounts map[string]int

	filtered    []models.ListItem
	searchBase  []models.ListItem
	searchQuery string
}

// NewManager builds a manager over items, dropping those carrying any of
// the excluded tags before counting.
func NewManager(items []models.ListItem, excludeTags []string) *Manager {
	m := &Manager{
		selectedTags:   map[string]bool{},
		selectedTopics: map[string]bool{},
		excludeTags:    map[string]bool{},
	}
	for _, t := range excludeTags {
		m.excludeTags[t] = true
	}
	m.reset(items)
	return m
}

func (m *Manager) reset(items []models.ListItem) {
	m.allItems = items
	m.items = m.dropExcluded(items)
	m.rebuildCounts()

	// Selections pointing at tags or topics that vanished are dropped.
	for t := range m.selectedTags {
		if m.tagCounts[t] == 0 {
			delete(m.selectedTags, t)
		}
	}
	for t := range m.selectedTopics {
		if m.topicCounts[t] == 0 {
			delete(m.selectedTopics, t)
		}
	}

	m.searchBase = nil
	m.searchQuery = ""
	m.apply()
}

func (m *Manager) dropExcluded(items []models.ListItem) []models.ListItem {
	if len(m.excludeTags) == 0 {
		return items
	}
	kept := []models.ListItem{}
	for _, item := range items {
		skip := false
		for _, t := range item.Tags {
			if m.excludeTags[t] {
				skip = true
				break
			}
		}
		if !skip {
			kept = append(kept, item)
		}
	}
	return kept
}

func (m *Manager) rebuildCounts() {
	m.tagCounts = map[string]int{}
	m.topicCounts = map[string]int{}
	for _, item := range m.items {
		for _, t := range item.Tags {
			m.tagCounts[t]++
		}
		topic := item.Topic
		if topic == "" {
			topic = "Unknown"
		}
		m.topicCounts[topic]++
	}
}

// apply recomputes the filtered view: search base first, then topic
// selection (always OR), then tag selection in the active mode.
func (m *Manager) apply() {
	base := m.items
	if len(m.searchBase) > 0 {
		base = m.searchBase
	}

	if len(m.selectedTopics) > 0 {
		narrowed := []models.ListItem{}
		for _, item := range base {
			topic := item.Topic
			if topic == "" {
				topic = "Unknown"
			}
			if m.selectedTopics[topic] {
				narrowed = append(narrowed, item)
			}
		}
		base = narrowed
	}

	if len(m.selectedTags) == 0 {
		m.filtered = append([]models.ListItem{}, base...)
		return
	}

	filtered := []models.ListItem{}
	for _, item := range base {
		if m.mode == ModeAND {
			if hasAll(item, m.selectedTags) {
				filtered = append(filtered, item)
			}
		} else if hasAny(item, m.selectedTags) {
			filtered = append(filtered, item)
		}
	}
	m.filtered = filtered
}

func hasAll(item models.ListItem, selected map[string]bool) bool {
	have := map[string]bool{}
	for _, t := range item.Tags {
		have[t] = true
	}
	for t := range selected {
		if !have[t] {
			return false
		}
	}
	return true
}

func hasAny(item models.ListItem, selected map[string]bool) bool {
	for _, t := range item.Tags {
		if selected[t] {
			return true
		}
	}
	return false
}

// Tags returns every available tag, sorted.
func (m *Manager) Tags() []string { return sortedKeys(m.tagCounts) }

// TagCounts returns item counts per tag.
func (m *Manager) TagCounts() map[string]int { return copyCounts(m.tagCounts) }

// Topics returns every available topic, sorted.
func (m *Manager) Topics() []string { return sortedKeys(m.topicCounts) }

// TopicCounts returns item counts per topic.
func (m *Manager) TopicCounts() map[string]int { return copyCounts(m.topicCounts) }

// SelectedTags returns the active tag selections, sorted.
func (m *Manager) SelectedTags() []string { return sortedSet(m.selectedTags) }

// SelectedTopics returns the active topic selections, sorted.
func (m *Manager) SelectedTopics() []string { return sortedSet(m.selectedTopics) }

// AddTagFilter selects a tag. Unknown tags are ignored.
func (m *Manager) AddTagFilter(tag string) {
	if m.tagCounts[tag] == 0 {
		return
	}
	m.selectedTags[tag] = true
	m.apply()
}

// RemoveTagFilter deselects a tag.
func (m *Manager) RemoveTagFilter(tag string) {
	delete(m.selectedTags, tag)
	m.apply()
}

// ToggleTagFilter flips a tag selection.
func (m *Manager) ToggleTagFilter(tag string) {
	if m.selectedTags[tag] {
		m.RemoveTagFilter(tag)
	} else {
		m.AddTagFilter(tag)
	}
}

// AddTopicFilter selects a topic. Unknown topics are ignored.
func (m *Manager) AddTopicFilter(topic string) {
	if m.topicCounts[topic] == 0 {
		return
	}
	m.selectedTopics[topic] = true
	m.apply()
}

// RemoveTopicFilter deselects a topic.
func (m *Manager) RemoveTopicFilter(topic string) {
	delete(m.selectedTopics, topic)
	m.apply()
}

// ToggleTopicFilter flips a topic selection.
func (m *Manager) ToggleTopicFilter(topic string) {
	if m.selectedTopics[topic] {
		m.RemoveTopicFilter(topic)
	} else {
		m.AddTopicFilter(topic)
	}
}

// ClearFilters drops every tag and topic selection.
func (m *Manager) ClearFilters() {
	m.selectedTags = map[string]bool{}
	m.selectedTopics = map[string]bool{}
	m.apply()
}

// SetMode switches the tag combination mode.
func (m *Manager) SetMode(mode Mode) {
	m.mode = mode
	m.apply()
}

// Mode returns the active tag combination mode.
func (m *Manager) Mode() Mode { return m.mode }

// ToggleMode flips between AND and OR.
func (m *Manager) ToggleMode() {
	if m.mode == ModeAND {
		m.SetMode(ModeOR)
	} else {
		m.SetMode(ModeAND)
	}
}

// SetSearchResults narrows the filter base to a search result set.
func (m *Manager) SetSearchResults(query string, results []models.ListItem) {
	m.searchQuery = query
	m.searchBase = results
	m.apply()
}

// ClearSearch restores filtering over the full item set.
func (m *Manager) ClearSearch() {
	m.searchBase = nil
	m.searchQuery = ""
	m.apply()
}

// SearchQuery returns the active search query.
func (m *Manager) SearchQuery() string { return m.searchQuery }

// HasSearchResults reports whether a search result set is active.
func (m *Manager) HasSearchResults() bool { return len(m.searchBase) > 0 }

// HasActiveFilters reports whether any tag or topic is selected.
func (m *Manager) HasActiveFilters() bool {
	return len(m.selectedTags) > 0 || len(m.selectedTopics) > 0
}

// Filtered returns a copy of the items matching the active filters.
func (m *Manager) Filtered() []models.ListItem {
	return append([]models.ListItem{}, m.filtered...)
}

// UpdateItems replaces the working item set and re-applies filters,
// keeping only selections that still exist.
func (m *Manager) UpdateItems(items []models.ListItem) {
	m.reset(items)
}

// SetExcludeTags replaces the exclusion set and rebuilds the view over the
// original items.
func (m *Manager) SetExcludeTags(excludeTags []string) {
	m.excludeTags = map[string]bool{}
	for _, t := range excludeTags {
		m.excludeTags[t] = true
	}
	m.reset(m.allItems)
}

// ExcludeTags returns the active exclusion set, sorted.
func (m *Manager) ExcludeTags() []string { return sortedSet(m.excludeTags) }

// TotalCount returns the item count before exclusion filtering.
func (m *Manager) TotalCount() int { return len(m.allItems) }

// ExcludedCount returns how many items the exclusion set removed.
func (m *Manager) ExcludedCount() int { return len(m.allItems) - len(m.items) }

// Summary returns (working items, filtered items, active selections).
func (m *Manager) Summary() (total, filtered, active int) {
	return len(m.items), len(m.filtered), len(m.selectedTags) + len(m.selectedTopics)
}

// Status renders a one-line description of the current view.
func (m *Manager) Status() string {
	baseCount := len(m.items)
	if len(m.searchBase) > 0 {
		baseCount = len(m.searchBase)
	}
	shown := len(m.filtered)
	tagN := len(m.selectedTags)
	topicN := len(m.selectedTopics)
	active := tagN + topicN

	var head string
	switch {
	case m.searchQuery != "" && active == 0:
		head = fmt.Sprintf("Showing %d search results", shown)
	case m.searchQuery != "":
		head = fmt.Sprintf("Showing %d of %d search results", shown, baseCount)
	case active == 0:
		return fmt.Sprintf("Showing all %d items", shown)
	default:
		head = fmt.Sprintf("Showing %d of %d items", shown, baseCount)
	}

	word := "filter"
	if active != 1 {
		word = "filters"
	}
	switch {
	case topicN > 0 && tagN > 0:
		return fmt.Sprintf("%s (%d %s active: %d topic, %d tag)", head, active, word, topicN, tagN)
	case topicN > 0:
		return fmt.Sprintf("%s (%d %s active: %d topic)", head, active, word, topicN)
	case tagN > 0:
		return fmt.Sprintf("%s (%d %s active: %d tag)", head, active, word, tagN)
	}
	return head
}

func sortedKeys(counts map[string]int) []string {
	out := make([]string, 0, len(counts))
	for k := range counts {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedSet(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func copyCounts(counts map[string]int) map[string]int {
	out := make(map[string]int, len(counts))
	for k, v := range counts {
		out[k] = v
	}
	return out
}
