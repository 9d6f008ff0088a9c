package filter

import (
	"reflect"
	"testing"

	"github.com/starford/raido/internal/models"
)

func testItems() []models.ListItem {
	return []models.ListItem{
		{Title: "vim", Topic: "Editors", Tags: []string{"cli", "editor"}},
		{Title: "vscode", Topic: "Editors", Tags: []string{"gui", "editor"}},
		{Title: "ripgrep", Topic: "Tools", Tags: []string{"cli", "search"}},
		{Title: "legacy", Topic: "Tools", Tags: []string{"cli", "deprecated"}},
	}
}

func titles(items []models.ListItem) []string {
	var out []string
	for _, it := range items {
		out = append(out, it.Title)
	}
	return out
}

func TestManager_ExcludeTags(t *testing.T) {
	m := NewManager(testItems(), []string{"deprecated"})

	if m.TotalCount() != 4 {
		t.Errorf("total = %d", m.TotalCount())
	}
	if m.ExcludedCount() != 1 {
		t.Errorf("excluded = %d", m.ExcludedCount())
	}
	if got := titles(m.Filtered()); !reflect.DeepEqual(got, []string{"vim", "vscode", "ripgrep"}) {
		t.Errorf("filtered = %v", got)
	}
	for _, tag := range m.Tags() {
		if tag == "deprecated" {
			t.Error("excluded tag still counted")
		}
	}
}

func TestManager_TagCounts(t *testing.T) {
	m := NewManager(testItems(), nil)
	counts := m.TagCounts()
	if counts["cli"] != 3 {
		t.Errorf("cli count = %d", counts["cli"])
	}
	if counts["editor"] != 2 {
		t.Errorf("editor count = %d", counts["editor"])
	}
	if got := m.Topics(); !reflect.DeepEqual(got, []string{"Editors", "Tools"}) {
		t.Errorf("topics = %v", got)
	}
}

func TestManager_TagFilterOR(t *testing.T) {
	m := NewManager(testItems(), nil)
	m.AddTagFilter("gui")
	m.AddTagFilter("search")

	got := titles(m.Filtered())
	if !reflect.DeepEqual(got, []string{"vscode", "ripgrep"}) {
		t.Errorf("filtered = %v", got)
	}
}

func TestManager_TagFilterAND(t *testing.T) {
	m := NewManager(testItems(), nil)
	m.SetMode(ModeAND)
	m.AddTagFilter("cli")
	m.AddTagFilter("editor")

	got := titles(m.Filtered())
	if !reflect.DeepEqual(got, []string{"vim"}) {
		t.Errorf("filtered = %v", got)
	}

	m.ToggleMode()
	if m.Mode() != ModeOR {
		t.Errorf("mode = %v after toggle", m.Mode())
	}
	if len(m.Filtered()) != 4 {
		t.Errorf("OR over cli+editor = %v", titles(m.Filtered()))
	}
}

func TestManager_UnknownTagIgnored(t *testing.T) {
	m := NewManager(testItems(), nil)
	m.AddTagFilter("nope")
	if m.HasActiveFilters() {
		t.Error("unknown tag became a filter")
	}
	if len(m.Filtered()) != 4 {
		t.Errorf("filtered = %v", titles(m.Filtered()))
	}
}

func TestManager_TopicFilter(t *testing.T) {
	m := NewManager(testItems(), nil)
	m.AddTopicFilter("Tools")

	got := titles(m.Filtered())
	if !reflect.DeepEqual(got, []string{"ripgrep", "legacy"}) {
		t.Errorf("filtered = %v", got)
	}

	// Topic narrows first, then tags apply within it.
	m.AddTagFilter("search")
	if got := titles(m.Filtered()); !reflect.DeepEqual(got, []string{"ripgrep"}) {
		t.Errorf("filtered = %v", got)
	}

	m.ClearFilters()
	if m.HasActiveFilters() {
		t.Error("filters survive ClearFilters")
	}
	if len(m.Filtered()) != 4 {
		t.Errorf("filtered = %v", titles(m.Filtered()))
	}
}

func TestManager_ToggleTagFilter(t *testing.T) {
	m := NewManager(testItems(), nil)
	m.ToggleTagFilter("cli")
	if !reflect.DeepEqual(m.SelectedTags(), []string{"cli"}) {
		t.Errorf("selected = %v", m.SelectedTags())
	}
	m.ToggleTagFilter("cli")
	if m.HasActiveFilters() {
		t.Error("toggle did not deselect")
	}
}

func TestManager_SearchBase(t *testing.T) {
	m := NewManager(testItems(), nil)
	results := []models.ListItem{
		{Title: "vim", Topic: "Editors", Tags: []string{"cli", "editor"}},
		{Title: "ripgrep", Topic: "Tools", Tags: []string{"cli", "search"}},
	}
	m.SetSearchResults("grep", results)

	if !m.HasSearchResults() {
		t.Error("search results not active")
	}
	if m.SearchQuery() != "grep" {
		t.Errorf("query = %q", m.SearchQuery())
	}
	if len(m.Filtered()) != 2 {
		t.Errorf("filtered = %v", titles(m.Filtered()))
	}

	m.AddTagFilter("editor")
	if got := titles(m.Filtered()); !reflect.DeepEqual(got, []string{"vim"}) {
		t.Errorf("filtered = %v", got)
	}

	m.ClearSearch()
	if m.HasSearchResults() {
		t.Error("search survives ClearSearch")
	}
	// Tag filter stays active over the full set.
	if got := titles(m.Filtered()); !reflect.DeepEqual(got, []string{"vim", "vscode"}) {
		t.Errorf("filtered = %v", got)
	}
}

func TestManager_UpdateItemsPrunesSelections(t *testing.T) {
	m := NewManager(testItems(), nil)
	m.AddTagFilter("search")
	m.AddTopicFilter("Editors")

	m.UpdateItems([]models.ListItem{
		{Title: "only", Topic: "Editors", Tags: []string{"editor"}},
	})

	// "search" vanished with the old items; "Editors" survives.
	if got := m.SelectedTags(); len(got) != 0 {
		t.Errorf("selected tags = %v", got)
	}
	if got := m.SelectedTopics(); !reflect.DeepEqual(got, []string{"Editors"}) {
		t.Errorf("selected topics = %v", got)
	}
	if got := titles(m.Filtered()); !reflect.DeepEqual(got, []string{"only"}) {
		t.Errorf("filtered = %v", got)
	}
}

func TestManager_SetExcludeTagsRebuilds(t *testing.T) {
	m := NewManager(testItems(), []string{"deprecated"})
	if m.ExcludedCount() != 1 {
		t.Fatalf("excluded = %d", m.ExcludedCount())
	}

	m.SetExcludeTags(nil)
	if m.ExcludedCount() != 0 {
		t.Errorf("excluded = %d after clearing", m.ExcludedCount())
	}
	if len(m.Filtered()) != 4 {
		t.Errorf("filtered = %v", titles(m.Filtered()))
	}
}

func TestManager_Status(t *testing.T) {
	m := NewManager(testItems(), nil)
	if got := m.Status(); got != "Showing all 4 items" {
		t.Errorf("status = %q", got)
	}

	m.AddTagFilter("cli")
	if got := m.Status(); got != "Showing 3 of 4 items (1 filter active: 1 tag)" {
		t.Errorf("status = %q", got)
	}

	m.AddTopicFilter("Tools")
	if got := m.Status(); got != "Showing 2 of 4 items (2 filters active: 1 topic, 1 tag)" {
		t.Errorf("status = %q", got)
	}
}

func TestManager_Summary(t *testing.T) {
	m := NewManager(testItems(), []string{"deprecated"})
	m.AddTagFilter("editor")

	total, filtered, active := m.Summary()
	if total != 3 || filtered != 2 || active != 1 {
		t.Errorf("summary = %d/%d/%d", total, filtered, active)
	}
}
