package index

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"github.com/starford/othala/internal/models"
)

// WriteArtifact persists a snapshot as a {nodes, config} JSON document for
// static or offline consumption. Node content carries the full raw note
// source, frontmatter included, so consumers re-parse it themselves.
func WriteArtifact(path string, snap models.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("index: encode artifact: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("index: artifact dir: %w", err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("index: write artifact: %w", err)
	}
	return nil
}
