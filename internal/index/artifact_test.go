package index

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/othala/internal/models"
)

func TestWriteArtifact(t *testing.T) {
	s, f := testScanner(t)
	f.write("guide/intro.md", "---\ntitle: Intro\ntags: [guide]\n---\nWelcome")

	snap, err := s.Scan()
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	out := filepath.Join(t.TempDir(), "nested", "index.json")
	if err := WriteArtifact(out, *snap); err != nil {
		t.Fatalf("WriteArtifact: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}

	var decoded struct {
		Nodes  []map[string]any `json:"nodes"`
		Config models.Config    `json:"config"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("artifact not valid JSON: %v", err)
	}
	if len(decoded.Nodes) != 2 {
		t.Errorf("nodes = %d, want 2 (folder + file)", len(decoded.Nodes))
	}
	if decoded.Config.Title != models.DefaultWikiTitle {
		t.Errorf("config title = %q", decoded.Config.Title)
	}

	// Folder nodes carry an explicit empty children array; file nodes carry
	// their tags and full raw content.
	for _, n := range decoded.Nodes {
		if n["isFolder"] == true {
			if _, ok := n["children"]; !ok {
				t.Error("folder node missing children array")
			}
		} else {
			if _, ok := n["tags"]; !ok {
				t.Error("file node missing tags array")
			}
			if n["content"] == "" {
				t.Error("file node missing raw content")
			}
		}
	}
}
