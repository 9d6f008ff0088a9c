package sources

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolve_MixedEntries(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "lists", "b.md"), "# B\n")
	writeFile(t, filepath.Join(dir, "lists", "a.md"), "# A\n")
	writeFile(t, filepath.Join(dir, "lists", "nested", "c.md"), "# C\n")
	writeFile(t, filepath.Join(dir, "lists", "ignore.txt"), "not markdown")
	writeFile(t, filepath.Join(dir, "single.md"), "# Single\n")

	got := Resolve([]string{
		filepath.Join(dir, "single.md"),
		filepath.Join(dir, "lists"),
		filepath.Join(dir, "missing.md"),
	})

	want := []string{
		filepath.Join(dir, "single.md"),
		filepath.Join(dir, "lists", "a.md"),
		filepath.Join(dir, "lists", "b.md"),
		filepath.Join(dir, "lists", "nested", "c.md"),
		filepath.Join(dir, "missing.md"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve = %v, want %v", got, want)
	}
}

func TestResolve_EmptyEntries(t *testing.T) {
	got := Resolve(nil)
	if got == nil || len(got) != 0 {
		t.Errorf("Resolve(nil) = %v, want empty non-nil slice", got)
	}
}

func TestExpand_Tilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := Expand("~/lists"); got != filepath.Join(home, "lists") {
		t.Errorf("Expand(~/lists) = %q", got)
	}
	if got := Expand("/abs/path"); got != "/abs/path" {
		t.Errorf("Expand(/abs/path) = %q", got)
	}
}

func TestList_SkipsMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.md")
	writeFile(t, path, "# A\n")

	metas, err := List([]string{path, filepath.Join(dir, "gone.md")})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(metas) != 1 {
		t.Fatalf("got %d entries, want 1", len(metas))
	}
	if metas[0].Path != path {
		t.Errorf("path = %q", metas[0].Path)
	}
	if metas[0].Checksum != Checksum([]byte("# A\n")) {
		t.Errorf("checksum mismatch")
	}
	if metas[0].UpdatedAt.IsZero() {
		t.Error("zero mtime")
	}
}

func TestChecksum_Stable(t *testing.T) {
	a := Checksum([]byte("content"))
	b := Checksum([]byte("content"))
	if a != b {
		t.Errorf("checksums differ: %s vs %s", a, b)
	}
	if a == Checksum([]byte("other")) {
		t.Error("different content produced same checksum")
	}
	if len(a) != 64 {
		t.Errorf("checksum length = %d, want 64", len(a))
	}
}

func TestWatchRoots(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.md"), "# A\n")
	writeFile(t, filepath.Join(dir, "b.md"), "# B\n")
	sub := filepath.Join(dir, "sub")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	got := WatchRoots([]string{
		filepath.Join(dir, "a.md"),
		filepath.Join(dir, "b.md"), // same parent, deduplicated
		sub,
	})
	want := []string{dir, sub}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("WatchRoots = %v, want %v", got, want)
	}
}
