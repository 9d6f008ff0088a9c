package collection

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/starford/raido/internal/models"
)

func writeList(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseAll_PartialFailure(t *testing.T) {
	dir := t.TempDir()
	valid := writeList(t, dir, "valid.md", "# Valid\n\n- Item <https://x.com>\n")
	missing := filepath.Join(dir, "missing.md")

	lists, errs := ParseAll(context.Background(), []string{valid, missing})

	if len(lists) != 1 {
		t.Fatalf("got %d lists, want 1", len(lists))
	}
	if lists[0].Topic != "Valid" {
		t.Errorf("topic = %q", lists[0].Topic)
	}
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
	if want := "File not found: " + missing; errs[0] != want {
		t.Errorf("error = %q, want %q", errs[0], want)
	}
}

func TestParseAll_ParseFailureMessage(t *testing.T) {
	dir := t.TempDir()
	noTopic := writeList(t, dir, "flat.md", "## Section only\n\n- Item <https://x.com>\n")

	lists, errs := ParseAll(context.Background(), []string{noTopic})

	if len(lists) != 0 {
		t.Fatalf("got %d lists, want 0", len(lists))
	}
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1", len(errs))
	}
	if !strings.HasPrefix(errs[0], "Error parsing "+noTopic+": ") {
		t.Errorf("error = %q", errs[0])
	}
}

func TestParseAll_PreservesInputOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"c", "a", "b", "d", "e", "f"} {
		paths = append(paths, writeList(t, dir, name+".md", "# Topic "+name+"\n\n- Item <https://x.com/"+name+">\n"))
	}

	lists, errs := ParseAll(context.Background(), paths)
	if len(errs) != 0 {
		t.Fatalf("errors: %v", errs)
	}
	var topics []string
	for _, l := range lists {
		topics = append(topics, l.Topic)
	}
	want := []string{"Topic c", "Topic a", "Topic b", "Topic d", "Topic e", "Topic f"}
	if !reflect.DeepEqual(topics, want) {
		t.Errorf("topics = %v, want %v", topics, want)
	}
}

func TestParseAll_CancelledContextReportsSkippedFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeList(t, dir, "a.md", "# A\n\n- One <https://1.dev>\n")
	b := writeList(t, dir, "b.md", "# B\n\n- Two <https://2.dev>\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	lists, errs := ParseAll(ctx, []string{a, b})

	if len(lists) != 0 {
		t.Errorf("got %d lists, want 0", len(lists))
	}
	want := []string{"cancelled: " + a, "cancelled: " + b}
	if !reflect.DeepEqual(errs, want) {
		t.Errorf("errs = %v, want %v", errs, want)
	}
}

func TestApplyExcludeTags(t *testing.T) {
	lists := []models.AwesomeList{{
		Topic: "T",
		Items: []models.ListItem{
			{Title: "keep", Tags: []string{"go"}},
			{Title: "drop", Tags: []string{"go", "deprecated"}},
		},
		SourceFile: "t.md",
	}}

	got := ApplyExcludeTags(lists, []string{"deprecated"})
	if len(got) != 1 {
		t.Fatalf("got %d lists", len(got))
	}
	if len(got[0].Items) != 1 || got[0].Items[0].Title != "keep" {
		t.Errorf("items = %v", got[0].Items)
	}

	// Empty exclusion list is a no-op passthrough.
	same := ApplyExcludeTags(lists, nil)
	if len(same[0].Items) != 2 {
		t.Errorf("passthrough filtered items: %v", same[0].Items)
	}
}

func TestApplyExcludeTags_KeepsEmptiedList(t *testing.T) {
	lists := []models.AwesomeList{{
		Topic:      "T",
		Items:      []models.ListItem{{Title: "only", Tags: []string{"old"}}},
		SourceFile: "t.md",
	}}
	got := ApplyExcludeTags(lists, []string{"old"})
	if len(got) != 1 {
		t.Fatalf("list dropped entirely")
	}
	if len(got[0].Items) != 0 {
		t.Errorf("items = %v, want none", got[0].Items)
	}
	if got[0].Items == nil {
		t.Error("items slice is nil, want empty")
	}
}

func TestValidate(t *testing.T) {
	lists := []models.AwesomeList{
		{Topic: "", SourceFile: "a.md", Items: []models.ListItem{{Title: "x", Link: "https://x.com"}}},
		{Topic: "B", SourceFile: "b.md", Items: []models.ListItem{}},
		{Topic: "C", SourceFile: "c.md", Items: []models.ListItem{{Title: "", Link: ""}}},
	}
	got := Validate(lists)
	want := []string{
		"Missing topic in a.md",
		"No items found in b.md",
		"Missing title for item 1 in c.md",
		"Missing link for item 1 in c.md",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Validate = %v, want %v", got, want)
	}
}

func TestBuildMetadata(t *testing.T) {
	lists := []models.AwesomeList{
		{Topic: "Zeta", Items: []models.ListItem{
			{Title: "a", Tags: []string{"go", "cli"}},
			{Title: "b", Tags: []string{"go"}},
		}},
		{Topic: "Alpha", Items: []models.ListItem{
			{Title: "c", Tags: []string{"api"}},
		}},
	}
	got := BuildMetadata(lists)

	if !reflect.DeepEqual(got.Topics, []string{"Alpha", "Zeta"}) {
		t.Errorf("topics = %v", got.Topics)
	}
	if !reflect.DeepEqual(got.Tags, []string{"api", "cli", "go"}) {
		t.Errorf("tags = %v", got.Tags)
	}
	if got.TotalItems != 3 {
		t.Errorf("total items = %d", got.TotalItems)
	}
	if got.TotalLists != 2 {
		t.Errorf("total lists = %d", got.TotalLists)
	}
}

func TestBuildMetadata_Empty(t *testing.T) {
	got := BuildMetadata(nil)
	if got.Topics == nil || got.Tags == nil {
		t.Error("metadata slices must be non-nil for stable JSON")
	}
	if got.TotalItems != 0 || got.TotalLists != 0 {
		t.Errorf("totals = %d/%d", got.TotalItems, got.TotalLists)
	}
}

func TestGenerate_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	writeList(t, dir, "llms.md", "---\ntags:\n  - llms\n---\n\n# LLMs\n\n## Models #ai\n\n- Gemma <https://ai.google.dev/gemma> #google\n")
	writeList(t, dir, "tools.md", "# Tools\n\n- Editor <https://editor.dev> #old\n- Linter <https://lint.dev> #qa\n")

	res := Generate(context.Background(), []string{
		filepath.Join(dir, "llms.md"),
		filepath.Join(dir, "tools.md"),
		filepath.Join(dir, "nope.md"),
	}, []string{"old"})

	if len(res.Errors) != 1 || !strings.HasPrefix(res.Errors[0], "File not found: ") {
		t.Errorf("errors = %v", res.Errors)
	}
	if res.Data.Metadata.TotalLists != 2 {
		t.Errorf("total lists = %d", res.Data.Metadata.TotalLists)
	}
	if res.Data.Metadata.TotalItems != 2 {
		t.Errorf("total items = %d (excluded item must not count)", res.Data.Metadata.TotalItems)
	}
	if !reflect.DeepEqual(res.Data.Metadata.Topics, []string{"LLMs", "Tools"}) {
		t.Errorf("topics = %v", res.Data.Metadata.Topics)
	}
	for _, tag := range res.Data.Metadata.Tags {
		if tag == "old" {
			t.Error("excluded tag leaked into metadata")
		}
	}
}

func TestEncodeJSON_Shape(t *testing.T) {
	data := models.CacheData{
		Metadata: models.CacheMetadata{Topics: []string{"T"}, Tags: []string{"x"}, TotalItems: 1, TotalLists: 1},
		Lists: []models.AwesomeList{{
			Topic: "T",
			Items: []models.ListItem{{
				Title: "a", Link: "https://a.com", Tags: []string{"x"},
				Sections: []string{}, Topic: "T", SourceFile: "t.md", LineNumber: 3,
			}},
			SourceFile: "t.md",
		}},
	}
	out, err := EncodeJSON(data)
	if err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if _, ok := decoded["metadata"]; !ok {
		t.Error("missing metadata key")
	}
	if _, ok := decoded["lists"]; !ok {
		t.Error("missing lists key")
	}
	if !strings.Contains(string(out), `"line_number": 3`) {
		t.Errorf("line_number not serialized: %s", out)
	}
	if !strings.Contains(string(out), `"total_items": 1`) {
		t.Errorf("total_items not serialized: %s", out)
	}
}
