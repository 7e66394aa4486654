package index

import (
	"testing"
	"time"

	"github.com/starford/othala/internal/models"
	"github.com/starford/othala/internal/storage"
	"github.com/starford/othala/internal/testutil"
)

func testScanner(t *testing.T) (*Scanner, *scanFixture) {
	t.Helper()
	_, store := testutil.TestContent(t)
	return NewScanner(store, testutil.TestLogger(t)), &scanFixture{t: t, store: store}
}

type scanFixture struct {
	t     *testing.T
	store storage.Provider
}

func (f *scanFixture) write(path, content string) {
	f.t.Helper()
	if err := f.store.Write(path, []byte(content)); err != nil {
		f.t.Fatal(err)
	}
}

func findNode(snap *models.Snapshot, id string) *models.Node {
	for i := range snap.Nodes {
		if snap.Nodes[i].ID == id {
			return &snap.Nodes[i]
		}
	}
	return nil
}

func TestScanEmptyRoot(t *testing.T) {
	s, _ := testScanner(t)
	snap, err := s.Scan()
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(snap.Nodes) != 0 {
		t.Errorf("nodes = %d, want 0", len(snap.Nodes))
	}
	if snap.Config.Title != models.DefaultWikiTitle {
		t.Errorf("config title = %q", snap.Config.Title)
	}
}

func TestScanFolderSynthesis(t *testing.T) {
	s, f := testScanner(t)
	f.write("a/b/note.md", "---\ntitle: Deep\n---\nBody")

	snap, err := s.Scan()
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	a := findNode(snap, "a")
	if a == nil || !a.IsFolder {
		t.Fatal("missing folder node for a")
	}
	if a.ParentID != nil {
		t.Errorf("a.parentId = %v, want nil", *a.ParentID)
	}

	ab := findNode(snap, "a/b")
	if ab == nil || !ab.IsFolder {
		t.Fatal("missing folder node for a/b")
	}
	if ab.ParentID == nil || *ab.ParentID != "a" {
		t.Errorf("a/b parentId = %v, want a", ab.ParentID)
	}
	if ab.Children == nil {
		t.Error("folder children must be an empty slice, not nil")
	}

	note := findNode(snap, "a/b/note")
	if note == nil || note.IsFolder {
		t.Fatal("missing file node for a/b/note")
	}
	if note.ParentID == nil || *note.ParentID != "a/b" {
		t.Errorf("note parentId = %v, want a/b", note.ParentID)
	}
	if note.Title != "Deep" {
		t.Errorf("title = %q", note.Title)
	}
}

func TestScanTitleFallsBackToFilename(t *testing.T) {
	s, f := testScanner(t)
	f.write("no-title.md", "Just a body, no frontmatter.")

	snap, err := s.Scan()
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	n := findNode(snap, "no-title")
	if n == nil {
		t.Fatal("node missing")
	}
	if n.Title != "no-title" {
		t.Errorf("title = %q, want no-title", n.Title)
	}
}

func TestScanCategories(t *testing.T) {
	s, f := testScanner(t)
	f.write("root-note.md", "---\ntitle: Root\n---\nx")
	f.write("projects/active/task.md", "---\ntitle: Task\n---\nx")
	f.write("explicit.md", "---\ntitle: E\ncategory: Custom\n---\nx")

	snap, err := s.Scan()
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if n := findNode(snap, "root-note"); n.Category != "General" {
		t.Errorf("root note category = %q, want General", n.Category)
	}
	if n := findNode(snap, "projects/active/task"); n.Category != "projects" {
		t.Errorf("nested note category = %q, want projects", n.Category)
	}
	if n := findNode(snap, "explicit"); n.Category != "Custom" {
		t.Errorf("explicit category = %q, want Custom", n.Category)
	}
	if n := findNode(snap, "projects"); n.Category != "projects" {
		t.Errorf("folder category = %q, want projects", n.Category)
	}
}

func TestScanTagsAndDraft(t *testing.T) {
	s, f := testScanner(t)
	f.write("tagged.md", "---\ntitle: T\ntags: [go, wiki]\ndraft: TRUE\n---\nx")
	f.write("untagged.md", "---\ntitle: U\n---\nx")

	snap, err := s.Scan()
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	n := findNode(snap, "tagged")
	if len(n.Tags) != 2 || n.Tags[0] != "go" || n.Tags[1] != "wiki" {
		t.Errorf("tags = %v", n.Tags)
	}
	if !n.Draft {
		t.Error("draft: TRUE must be recognized case-insensitively")
	}

	u := findNode(snap, "untagged")
	if u.Tags == nil || len(u.Tags) != 0 {
		t.Errorf("missing tags must yield empty non-nil slice, got %#v", u.Tags)
	}
	if u.Draft {
		t.Error("untagged note must not be a draft")
	}
}

func TestScanDateNormalization(t *testing.T) {
	s, f := testScanner(t)
	f.write("rfc.md", "---\ntitle: A\ndate: 2024-03-05T10:30:00Z\n---\nx")
	f.write("plain.md", "---\ntitle: B\ndate: 2024-03-06\n---\nx")
	f.write("junk.md", "---\ntitle: C\ndate: someday soon\n---\nx")
	f.write("nodate.md", "---\ntitle: D\n---\nx")

	snap, err := s.Scan()
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if n := findNode(snap, "rfc"); n.Date != "2024-03-05" {
		t.Errorf("rfc date = %q", n.Date)
	}
	if n := findNode(snap, "plain"); n.Date != "2024-03-06" {
		t.Errorf("plain date = %q", n.Date)
	}
	if n := findNode(snap, "junk"); n.Date != "someday soon" {
		t.Errorf("unparseable date must pass through, got %q", n.Date)
	}
	if n := findNode(snap, "nodate"); n.Date != time.Now().Format("2006-01-02") {
		t.Errorf("missing date must fall back to mtime, got %q", n.Date)
	}
}

func TestScanOrderingPersistsAcrossScans(t *testing.T) {
	s, f := testScanner(t)
	f.write("b.md", "---\ntitle: B\n---\nx")
	f.write("a.md", "---\ntitle: A\n---\nx")

	first, err := s.Scan()
	if err != nil {
		t.Fatalf("first Scan: %v", err)
	}
	// Creation is lexicographic.
	if findNode(first, "a").SortIndex != 0 || findNode(first, "b").SortIndex != 1 {
		t.Fatalf("initial order: a=%d b=%d", findNode(first, "a").SortIndex, findNode(first, "b").SortIndex)
	}

	// A new sibling appends after the existing ones.
	f.write("0-first.md", "---\ntitle: Zero\n---\nx")
	second, err := s.Scan()
	if err != nil {
		t.Fatalf("second Scan: %v", err)
	}
	if findNode(second, "a").SortIndex != 0 || findNode(second, "b").SortIndex != 1 {
		t.Error("existing order must be preserved verbatim")
	}
	if findNode(second, "0-first").SortIndex != 2 {
		t.Errorf("new sibling sortIndex = %d, want 2 (appended)", findNode(second, "0-first").SortIndex)
	}
}

func TestScanConfig(t *testing.T) {
	s, f := testScanner(t)
	f.write(ConfigFileName, "{\n  // wiki settings\n  \"title\": \"My Wiki\",\n}")

	snap, err := s.Scan()
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if snap.Config.Title != "My Wiki" {
		t.Errorf("config title = %q", snap.Config.Title)
	}
}

func TestScanBrokenConfigFallsBack(t *testing.T) {
	s, f := testScanner(t)
	f.write(ConfigFileName, "{{{not json")

	snap, err := s.Scan()
	if err != nil {
		t.Fatalf("broken config must not fail the scan: %v", err)
	}
	if snap.Config.Title != models.DefaultWikiTitle {
		t.Errorf("config title = %q, want default", snap.Config.Title)
	}
}
